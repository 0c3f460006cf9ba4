package repository

import (
	"context"
	"database/sql"
	"time"

	"auradash/internal/models"
	"auradash/internal/repository/db"
)

// ServerRepo stores known gateways, keyed by IP address.
type ServerRepo interface {
	Upsert(ctx context.Context, name, ip, status string) (int64, error)
	List(ctx context.Context) ([]models.Server, error)
	GetByAddress(ctx context.Context, ip string) (models.Server, error)
}

// NodeRepo stores devices, upserted by (server_id, name).
type NodeRepo interface {
	Upsert(ctx context.Context, n models.Node) (int64, error)
	List(ctx context.Context) ([]models.Node, error)
	ListByServer(ctx context.Context, serverID int64) ([]models.Node, error)
	Get(ctx context.Context, id int64) (models.Node, error)
	UpdateStatus(ctx context.Context, id int64, status, state string) error
}

// AlertRepo stores detected abnormal conditions.
type AlertRepo interface {
	Create(ctx context.Context, a models.Alert) error
	List(ctx context.Context) ([]models.Alert, error)
	ListUnacknowledged(ctx context.Context) ([]models.Alert, error)
	Acknowledge(ctx context.Context, id string) error
}

// DataPointRepo stores append-only telemetry samples.
type DataPointRepo interface {
	Append(ctx context.Context, p models.DataPoint) error
	ListByNode(ctx context.Context, nodeID int64, from, to time.Time) ([]models.DataPoint, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// ScheduleRepo stores node on/off timers. The local rows are authoritative;
// pushing them to hardware is the service layer's concern.
type ScheduleRepo interface {
	Create(ctx context.Context, s models.Schedule) (int64, error)
	Update(ctx context.Context, s models.Schedule) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]models.Schedule, error)
	Get(ctx context.Context, id int64) (models.Schedule, error)
}

type Repository struct {
	Servers    ServerRepo
	Nodes      NodeRepo
	Alerts     AlertRepo
	DataPoints DataPointRepo
	Schedules  ScheduleRepo
}

func NewRepository(sqldb *sql.DB) *Repository {
	return &Repository{
		Servers:    NewServerSQLite(sqldb),
		Nodes:      NewNodeSQLite(sqldb),
		Alerts:     NewAlertSQLite(sqldb),
		DataPoints: NewDataPointSQLite(sqldb),
		Schedules:  NewScheduleSQLite(sqldb),
	}
}

// InitDB re-exports the sqlite bootstrap so callers only import this package.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
