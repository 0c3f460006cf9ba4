package models

// Node statuses. A node that is reachable reports on/off; an unreachable
// node is offline.
const (
	NodeOn      = "on"
	NodeOff     = "off"
	NodeOffline = "offline"
)

// Node is a single controllable endpoint attached to a Server.
// (server_id, name) is the upsert key used by reconciliation.
type Node struct {
	ID          int64   `json:"id"`
	ServerID    int64   `json:"server_id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`     // FAN | LIGHT | MOTOR | SWITCH | GENERIC | ...
	Category    string  `json:"category"` // free-form grouping for UI sectioning
	Status      string  `json:"status"`   // on | off | offline
	State       string  `json:"state"`    // auxiliary hardware state string
	Temperature float64 `json:"temperature"` // °C
	Voltage     float64 `json:"voltage"`     // V
	Current     float64 `json:"current"`     // A
}
