package models

import "time"

// DataPoint is one time-series telemetry sample for a node. Append-only;
// rows older than the retention horizon are purged by the periodic sweep.
type DataPoint struct {
	ID        int64     `json:"id"`
	NodeID    int64     `json:"node_id"`
	Voltage   float64   `json:"voltage"`
	Current   float64   `json:"current"`
	Power     float64   `json:"power"` // voltage * current, derived at write time
	Timestamp time.Time `json:"timestamp"`
}
