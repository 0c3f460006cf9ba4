package handlers

import (
	"context"
	"time"

	"auradash/internal/models"
	"auradash/internal/service"
)

// Hand-rolled service mocks. Each one records calls and returns whatever
// the test scripted into it.

type mockSyncer struct {
	runErr    error
	toggleErr error
	toggled   []struct {
		NodeID int64
		State  string
	}
}

func (m *mockSyncer) RunPass(ctx context.Context) error { return m.runErr }

func (m *mockSyncer) ToggleNode(ctx context.Context, nodeID int64, state string) error {
	if m.toggleErr != nil {
		return m.toggleErr
	}
	m.toggled = append(m.toggled, struct {
		NodeID int64
		State  string
	}{nodeID, state})
	return nil
}

type mockScheduler struct {
	state string
}

func (m *mockScheduler) Start()  { m.state = service.StateRunning }
func (m *mockScheduler) Pause()  { m.state = service.StatePaused }
func (m *mockScheduler) Resume() { m.state = service.StateRunning }
func (m *mockScheduler) Stop()   { m.state = service.StateStopped }

func (m *mockScheduler) State() string {
	if m.state == "" {
		return service.StateStopped
	}
	return m.state
}

type mockAlerts struct {
	alerts  []models.Alert
	ackIDs  []string
	listErr error
}

func (m *mockAlerts) Raise(ctx context.Context, c service.AlertCandidate) (bool, error) {
	return false, nil
}

func (m *mockAlerts) RaiseTransition(ctx context.Context, c service.AlertCandidate) error {
	return nil
}

func (m *mockAlerts) All(ctx context.Context) ([]models.Alert, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.alerts, nil
}

func (m *mockAlerts) Unacknowledged(ctx context.Context) ([]models.Alert, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []models.Alert
	for _, a := range m.alerts {
		if !a.Acknowledged {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockAlerts) Acknowledge(ctx context.Context, id string) error {
	m.ackIDs = append(m.ackIDs, id)
	return nil
}

type mockDiscovery struct {
	found   int
	scanErr error
	addrs   []string
}

func (m *mockDiscovery) Scan(ctx context.Context, localAddr string) (int, error) {
	if m.scanErr != nil {
		return 0, m.scanErr
	}
	m.addrs = append(m.addrs, localAddr)
	return m.found, nil
}

type mockInventory struct {
	servers []models.Server
	nodes   []models.Node
	points  []models.DataPoint
	err     error
}

func (m *mockInventory) Servers(ctx context.Context) ([]models.Server, error) {
	return m.servers, m.err
}

func (m *mockInventory) Nodes(ctx context.Context) ([]models.Node, error) {
	return m.nodes, m.err
}

func (m *mockInventory) NodeHistory(ctx context.Context, nodeID int64, from, to time.Time) ([]models.DataPoint, error) {
	return m.points, m.err
}

type mockSchedules struct {
	schedules []models.Schedule
	createErr error
	updateErr error
	deleteErr error
	deleted   []int64
}

func (m *mockSchedules) Create(ctx context.Context, s models.Schedule) (models.Schedule, error) {
	if m.createErr != nil {
		return models.Schedule{}, m.createErr
	}
	s.ID = int64(len(m.schedules) + 1)
	m.schedules = append(m.schedules, s)
	return s, nil
}

func (m *mockSchedules) Update(ctx context.Context, s models.Schedule) error {
	return m.updateErr
}

func (m *mockSchedules) Delete(ctx context.Context, id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockSchedules) List(ctx context.Context) ([]models.Schedule, error) {
	return m.schedules, nil
}
