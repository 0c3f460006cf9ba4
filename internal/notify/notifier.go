package notify

import "context"

// Priorities for notification presentation.
const (
	PriorityUrgent = "urgent"
	PriorityNormal = "normal"
)

// Notification is one push to the UI layer. Delivery is best-effort
// everywhere: a failed send must never abort the sync pass that raised it.
type Notification struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Priority string `json:"priority"`
	NodeID   int64  `json:"node_id,omitempty"`
	AlertID  string `json:"alert_id,omitempty"`
}

// Notifier dispatches notifications to whoever is listening.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}
