package hardware

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"auradash/internal/models"
)

// Defaults for the simulator's random behavior.
const (
	defaultOnlineProbability     = 0.9
	defaultToggleFailProbability = 0.1
)

// hotRunningDevices are the mock devices whose reported temperature is
// replaced when a forced temperature is set, which is how deterministic
// threshold tests are driven.
var hotRunningDevices = map[string]bool{
	"Fan 1":   true,
	"Motor 1": true,
}

// Mock is a drop-in Transport for environments without physical hardware.
// It reports a fixed illustrative fleet of five devices across four
// categories and goes offline on roughly one call in ten.
type Mock struct {
	mu             sync.Mutex
	rng            *rand.Rand
	onlineProb     float64
	toggleFailProb float64
	forcedTemp     *float64
}

func NewMock() *Mock {
	return NewMockWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewMockWithRand allows tests to inject a seeded source.
func NewMockWithRand(rng *rand.Rand) *Mock {
	return &Mock{
		rng:            rng,
		onlineProb:     defaultOnlineProbability,
		toggleFailProb: defaultToggleFailProbability,
	}
}

// SetOnlineProbability overrides the chance that GetStatus reports online.
// Tests pin it to 1 or 0 to exercise the engine's failure paths.
func (m *Mock) SetOnlineProbability(p float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onlineProb = p
}

// SetToggleFailureProbability overrides the chance that SetNodeState fails,
// used to exercise optimistic-UI rollback.
func (m *Mock) SetToggleFailureProbability(p float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toggleFailProb = p
}

// SetForcedTemperature overrides the temperature reported for the
// hot-running devices; nil restores their normal readings.
func (m *Mock) SetForcedTemperature(t *float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forcedTemp = t
}

func (m *Mock) GetStatus(ctx context.Context, addr string) (ServerStatus, error) {
	m.mu.Lock()
	online := m.rng.Float64() < m.onlineProb
	m.mu.Unlock()

	if !online {
		return ServerStatus{}, ErrUnreachable
	}
	return ServerStatus{
		ServerID:        "mock-" + addr,
		ServerName:      "Main Server",
		FirmwareVersion: "1.4.2",
		UptimeSeconds:   3600,
	}, nil
}

func (m *Mock) GetLinkedNodes(ctx context.Context, addr string) ([]LinkedNode, error) {
	m.mu.Lock()
	forced := m.forcedTemp
	m.mu.Unlock()

	temp := func(name string, normal float64) float64 {
		if forced != nil && hotRunningDevices[name] {
			return *forced
		}
		return normal
	}

	return []LinkedNode{
		{
			NodeID: "n-1", NodeName: "Fan 1", Type: "FAN", Category: "Assembly Line 1",
			Status: models.NodeOn, State: "on",
			Temperature: temp("Fan 1", 45.5), Voltage: 220, Current: 1.5,
		},
		{
			NodeID: "n-2", NodeName: "Light 1", Type: "LIGHT", Category: "Workshop Lighting",
			Status: models.NodeOff, State: "off",
			Temperature: 25.0, Voltage: 220, Current: 0,
		},
		{
			NodeID: "n-3", NodeName: "Motor 1", Type: "MOTOR", Category: "Assembly Line 2",
			Status: models.NodeOn, State: "on",
			Temperature: temp("Motor 1", 85.2), Voltage: 220, Current: 5.2,
		},
		{
			NodeID: "n-4", NodeName: "Drill Press", Type: "MOTOR", Category: "Assembly Line 1",
			Status: models.NodeOff, State: "off",
			Temperature: 30.0, Voltage: 220, Current: 0,
		},
		{
			NodeID: "n-5", NodeName: "Main Breaker", Type: "SWITCH", Category: "Power Distribution",
			Status: models.NodeOn, State: "on",
			Temperature: 40.0, Voltage: 220, Current: 10.5,
		},
	}, nil
}

func (m *Mock) SetNodeState(ctx context.Context, addr, nodeID, state string) error {
	m.mu.Lock()
	fail := m.rng.Float64() < m.toggleFailProb
	m.mu.Unlock()

	if fail {
		return ErrUnreachable
	}
	return nil
}

func (m *Mock) SyncTelemetry(ctx context.Context, addr string, since int64) (TelemetryBatch, error) {
	// The mock fleet reports readings inline via GetLinkedNodes, so the
	// buffered-telemetry path has nothing new to deliver.
	return TelemetryBatch{LatestTimestamp: since}, nil
}

func (m *Mock) AcknowledgeTelemetry(ctx context.Context, addr string, watermark int64) error {
	return nil
}

func (m *Mock) CreateSchedule(ctx context.Context, addr string, s models.Schedule) error {
	return nil
}

func (m *Mock) UpdateSchedule(ctx context.Context, addr string, s models.Schedule) error {
	return nil
}

func (m *Mock) DeleteSchedule(ctx context.Context, addr string, scheduleID int64) error {
	return nil
}
