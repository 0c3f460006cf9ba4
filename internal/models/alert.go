package models

import "time"

// Alert severities.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Alert is a detected abnormal condition. Uniqueness is logical, not
// schema-level: the engine never creates a second alert for the same
// (node, message) pair while one remains unacknowledged.
type Alert struct {
	ID           string    `json:"id"`
	NodeID       int64     `json:"node_id"`
	Severity     string    `json:"severity"` // info | warning | critical
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
	Acknowledged bool      `json:"acknowledged"`
}
