package service

import (
	"context"
	"time"

	"auradash/internal/hardware"
	"auradash/internal/logger"
	"auradash/internal/models"
	"auradash/internal/notify"
	"auradash/internal/repository"
)

// Syncer runs reconciliation passes and carries the user command path.
type Syncer interface {
	RunPass(ctx context.Context) error
	ToggleNode(ctx context.Context, nodeID int64, state string) error
}

// Scheduler drives the sync engine on a timer, following the application
// lifecycle: Stopped → Running → Paused → Running → Stopped.
type Scheduler interface {
	Start()
	Pause()
	Resume()
	Stop()
	State() string
}

// Alerts decides whether a candidate condition becomes a persisted alert
// and/or a notification, and exposes the acknowledge surface.
type Alerts interface {
	Raise(ctx context.Context, c AlertCandidate) (bool, error)
	RaiseTransition(ctx context.Context, c AlertCandidate) error
	All(ctx context.Context) ([]models.Alert, error)
	Unacknowledged(ctx context.Context) ([]models.Alert, error)
	Acknowledge(ctx context.Context, id string) error
}

// Discovery probes the local subnet for reachable servers.
type Discovery interface {
	Scan(ctx context.Context, localAddr string) (int, error)
}

// Inventory is the read side consumed by the UI layer.
type Inventory interface {
	Servers(ctx context.Context) ([]models.Server, error)
	Nodes(ctx context.Context) ([]models.Node, error)
	NodeHistory(ctx context.Context, nodeID int64, from, to time.Time) ([]models.DataPoint, error)
}

// Schedules owns the local schedule list; remote pushes are advisory.
type Schedules interface {
	Create(ctx context.Context, s models.Schedule) (models.Schedule, error)
	Update(ctx context.Context, s models.Schedule) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]models.Schedule, error)
}

// Config carries the tunables wired from viper in main.
type Config struct {
	SyncInterval       time.Duration
	DiscoveryTimeout   time.Duration
	DiscoveryBatchSize int
	// SeedServerName/Addr are set only in mock mode so a first pass against
	// an empty store has something to reconcile.
	SeedServerName string
	SeedServerAddr string
}

// Service aggregates all sub-services.
type Service struct {
	Syncer
	Scheduler
	Alerts
	Discovery
	Inventory
	Schedules
}

// NewService wires the repository layer, transport and notifier into
// concrete services.
func NewService(repos *repository.Repository, transport hardware.Transport, notifier notify.Notifier, log *logger.Logger, cfg Config) *Service {
	alerts := NewAlertService(repos.Alerts, notifier, log)
	engine := NewSyncEngine(repos, transport, alerts, notifier, log, cfg)
	return &Service{
		Syncer:    engine,
		Scheduler: NewSyncScheduler(engine, cfg.SyncInterval, log),
		Alerts:    alerts,
		Discovery: NewDiscoveryService(repos.Servers, transport, engine, log, cfg),
		Inventory: NewInventoryService(repos),
		Schedules: NewScheduleService(repos, transport, log),
	}
}
