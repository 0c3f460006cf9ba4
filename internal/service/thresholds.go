package service

import (
	"fmt"

	"auradash/internal/models"
)

// Telemetry thresholds. Crossing one produces a candidate alert; the
// dedup layer decides whether anything is actually persisted.
const (
	TempCriticalC = 95.0  // above: critical overheating
	TempWarningC  = 80.0  // above (and <= critical): running hot
	VoltageLowV   = 180.0 // below: warning
	VoltageHighV  = 250.0 // above: warning
	CurrentMaxA   = 15.0  // above: critical overcurrent
)

// AlertCandidate is one detected condition for a node. Candidates are
// independent: a single reading may produce several at once.
type AlertCandidate struct {
	NodeID   int64
	Severity string
	Message  string
}

// evaluateThresholds converts one node's just-synced readings into
// candidate alerts. Message text doubles as the dedup key, so the exact
// wording here is load-bearing.
func evaluateThresholds(nodeID int64, n models.Node) []AlertCandidate {
	var out []AlertCandidate

	if n.Temperature > TempCriticalC {
		out = append(out, AlertCandidate{
			NodeID:   nodeID,
			Severity: models.SeverityCritical,
			Message:  fmt.Sprintf("%s is critically overheating (%g°C)", n.Name, n.Temperature),
		})
	}
	if n.Temperature > TempWarningC && n.Temperature <= TempCriticalC {
		out = append(out, AlertCandidate{
			NodeID:   nodeID,
			Severity: models.SeverityWarning,
			Message:  fmt.Sprintf("%s is running hot (%g°C)", n.Name, n.Temperature),
		})
	}
	if n.Voltage < VoltageLowV {
		out = append(out, AlertCandidate{
			NodeID:   nodeID,
			Severity: models.SeverityWarning,
			Message:  fmt.Sprintf("%s voltage low (%gV)", n.Name, n.Voltage),
		})
	}
	if n.Voltage > VoltageHighV {
		out = append(out, AlertCandidate{
			NodeID:   nodeID,
			Severity: models.SeverityWarning,
			Message:  fmt.Sprintf("%s voltage high (%gV)", n.Name, n.Voltage),
		})
	}
	if n.Current > CurrentMaxA {
		out = append(out, AlertCandidate{
			NodeID:   nodeID,
			Severity: models.SeverityCritical,
			Message:  fmt.Sprintf("%s overcurrent detected (%gA)", n.Name, n.Current),
		})
	}

	return out
}
