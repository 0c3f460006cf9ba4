package repository

import (
	"context"
	"database/sql"
	"time"

	"auradash/internal/models"

	"github.com/google/uuid"
)

type AlertSQLite struct {
	db *sql.DB
}

func NewAlertSQLite(db *sql.DB) *AlertSQLite { return &AlertSQLite{db: db} }

const (
	insertAlertSQL = `
		INSERT INTO alerts (id, node_id, severity, message, created_at, acknowledged)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	selectAlertColumns = `SELECT id, node_id, severity, message, created_at, acknowledged FROM alerts`
)

// Create inserts a new alert. Empty ID and zero CreatedAt are filled in.
func (r *AlertSQLite) Create(ctx context.Context, a models.Alert) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	} else {
		a.CreatedAt = a.CreatedAt.UTC()
	}

	_, err := r.db.ExecContext(ctx, insertAlertSQL,
		a.ID, a.NodeID, a.Severity, a.Message, a.CreatedAt, a.Acknowledged)
	return err
}

func (r *AlertSQLite) List(ctx context.Context) ([]models.Alert, error) {
	return r.queryAlerts(ctx, selectAlertColumns+` ORDER BY created_at DESC`)
}

func (r *AlertSQLite) ListUnacknowledged(ctx context.Context) ([]models.Alert, error) {
	return r.queryAlerts(ctx, selectAlertColumns+` WHERE acknowledged=0 ORDER BY created_at DESC`)
}

func (r *AlertSQLite) Acknowledge(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE alerts SET acknowledged=1 WHERE id=?`, id)
	return err
}

func (r *AlertSQLite) queryAlerts(ctx context.Context, q string, args ...any) ([]models.Alert, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Alert, 0, 16)
	for rows.Next() {
		var a models.Alert
		if err := rows.Scan(&a.ID, &a.NodeID, &a.Severity, &a.Message, &a.CreatedAt, &a.Acknowledged); err != nil {
			return nil, err
		}
		a.CreatedAt = a.CreatedAt.UTC()
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
