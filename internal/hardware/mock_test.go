package hardware

import (
	"context"
	"errors"
	"math/rand"
	"testing"
)

func newDeterministicMock() *Mock {
	return NewMockWithRand(rand.New(rand.NewSource(1)))
}

func TestMockFleet(t *testing.T) {
	m := newDeterministicMock()

	nodes, err := m.GetLinkedNodes(context.Background(), "192.168.1.100")
	if err != nil {
		t.Fatalf("GetLinkedNodes() error = %v", err)
	}
	if len(nodes) != 5 {
		t.Fatalf("got %d nodes, want 5", len(nodes))
	}

	categories := map[string]bool{}
	byName := map[string]LinkedNode{}
	for _, n := range nodes {
		categories[n.Category] = true
		byName[n.NodeName] = n
	}
	if len(categories) != 4 {
		t.Fatalf("got %d categories, want 4: %v", len(categories), categories)
	}
	if n := byName["Motor 1"]; n.Temperature != 85.2 || n.Status != "on" {
		t.Fatalf("Motor 1 = %+v", n)
	}
	if n := byName["Light 1"]; n.Temperature != 25.0 || n.Status != "off" {
		t.Fatalf("Light 1 = %+v", n)
	}
}

func TestMockForcedTemperature(t *testing.T) {
	m := newDeterministicMock()
	forced := 96.0
	m.SetForcedTemperature(&forced)

	nodes, err := m.GetLinkedNodes(context.Background(), "192.168.1.100")
	if err != nil {
		t.Fatalf("GetLinkedNodes() error = %v", err)
	}

	for _, n := range nodes {
		hot := n.NodeName == "Fan 1" || n.NodeName == "Motor 1"
		if hot && n.Temperature != 96.0 {
			t.Errorf("%s temperature = %g, want forced 96", n.NodeName, n.Temperature)
		}
		if !hot && n.Temperature == 96.0 {
			t.Errorf("%s picked up the forced temperature", n.NodeName)
		}
	}

	// Clearing the override restores normal readings.
	m.SetForcedTemperature(nil)
	nodes, _ = m.GetLinkedNodes(context.Background(), "192.168.1.100")
	for _, n := range nodes {
		if n.NodeName == "Motor 1" && n.Temperature != 85.2 {
			t.Errorf("Motor 1 temperature = %g after clearing override", n.Temperature)
		}
	}
}

func TestMockOnlineProbability(t *testing.T) {
	ctx := context.Background()

	m := newDeterministicMock()
	m.SetOnlineProbability(1)
	for i := 0; i < 20; i++ {
		if _, err := m.GetStatus(ctx, "192.168.1.100"); err != nil {
			t.Fatalf("GetStatus() with p=1 failed on call %d: %v", i, err)
		}
	}

	m.SetOnlineProbability(0)
	for i := 0; i < 20; i++ {
		if _, err := m.GetStatus(ctx, "192.168.1.100"); !errors.Is(err, ErrUnreachable) {
			t.Fatalf("GetStatus() with p=0 returned %v on call %d, want ErrUnreachable", err, i)
		}
	}
}

func TestMockStatusIdentity(t *testing.T) {
	m := newDeterministicMock()
	m.SetOnlineProbability(1)

	status, err := m.GetStatus(context.Background(), "192.168.1.100")
	if err != nil {
		t.Fatalf("GetStatus() error = %v", err)
	}
	if status.ServerName != "Main Server" {
		t.Fatalf("ServerName = %q, want Main Server", status.ServerName)
	}
	if status.ServerID == "" {
		t.Fatalf("ServerID is empty")
	}
}

func TestMockToggleFailureProbability(t *testing.T) {
	ctx := context.Background()

	m := newDeterministicMock()
	m.SetToggleFailureProbability(0)
	for i := 0; i < 20; i++ {
		if err := m.SetNodeState(ctx, "192.168.1.100", "Fan 1", "on"); err != nil {
			t.Fatalf("SetNodeState() with p=0 failed: %v", err)
		}
	}

	m.SetToggleFailureProbability(1)
	for i := 0; i < 20; i++ {
		if err := m.SetNodeState(ctx, "192.168.1.100", "Fan 1", "on"); !errors.Is(err, ErrUnreachable) {
			t.Fatalf("SetNodeState() with p=1 returned %v, want ErrUnreachable", err)
		}
	}
}

func TestMockTelemetryHasNothingBuffered(t *testing.T) {
	m := newDeterministicMock()

	batch, err := m.SyncTelemetry(context.Background(), "192.168.1.100", 1234)
	if err != nil {
		t.Fatalf("SyncTelemetry() error = %v", err)
	}
	if batch.LatestTimestamp != 1234 || len(batch.NewData) != 0 {
		t.Fatalf("SyncTelemetry() = %+v, want empty batch at caller's watermark", batch)
	}
}
