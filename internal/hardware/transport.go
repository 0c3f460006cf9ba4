package hardware

import (
	"context"
	"errors"

	"auradash/internal/models"
)

// ErrUnreachable is the single failure outcome for every transport
// operation. Timeouts, refused connections and non-2xx responses all
// collapse into it; callers only ever branch on worked vs did not work.
var ErrUnreachable = errors.New("hardware: server unreachable")

// ServerStatus is the identity block a gateway reports.
type ServerStatus struct {
	ServerID        string `json:"serverId"`
	ServerName      string `json:"serverName"`
	FirmwareVersion string `json:"firmwareVersion"`
	UptimeSeconds   int64  `json:"uptimeSeconds"`
}

// LinkedNode is one device as reported by a gateway. Real firmware only
// fills the first four fields; the telemetry fields are an extension the
// mock uses and future firmware may adopt.
type LinkedNode struct {
	NodeID      string  `json:"nodeId"`
	NodeName    string  `json:"nodeName"`
	Status      string  `json:"status"` // on | off | offline
	State       string  `json:"state"`  // on | off
	Type        string  `json:"type,omitempty"`
	Category    string  `json:"category,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	Voltage     float64 `json:"voltage,omitempty"`
	Current     float64 `json:"current,omitempty"`
}

// TelemetrySample is one buffered reading held by a gateway.
type TelemetrySample struct {
	Timestamp int64   `json:"timestamp"`
	Current   float64 `json:"current"`
	Voltage   float64 `json:"voltage"`
}

// NodeTelemetry groups buffered samples per node.
type NodeTelemetry struct {
	NodeID     string            `json:"nodeId"`
	DataPoints []TelemetrySample `json:"dataPoints"`
}

// TelemetryBatch is the response to a sync request: everything newer than
// the caller's watermark plus the new watermark.
type TelemetryBatch struct {
	NewData         []NodeTelemetry `json:"newData"`
	LatestTimestamp int64           `json:"latestTimestamp"`
}

// Transport is the fixed operation surface against one gateway's control
// API. The sync engine depends only on this interface; the real HTTP
// client and the mock simulator both implement it.
type Transport interface {
	GetStatus(ctx context.Context, addr string) (ServerStatus, error)
	GetLinkedNodes(ctx context.Context, addr string) ([]LinkedNode, error)
	SetNodeState(ctx context.Context, addr, nodeID, state string) error
	SyncTelemetry(ctx context.Context, addr string, since int64) (TelemetryBatch, error)
	AcknowledgeTelemetry(ctx context.Context, addr string, watermark int64) error
	CreateSchedule(ctx context.Context, addr string, s models.Schedule) error
	UpdateSchedule(ctx context.Context, addr string, s models.Schedule) error
	DeleteSchedule(ctx context.Context, addr string, scheduleID int64) error
}
