package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"auradash/internal/models"
)

type ServerSQLite struct {
	db *sql.DB
}

func NewServerSQLite(db *sql.DB) *ServerSQLite { return &ServerSQLite{db: db} }

const (
	upsertServerSQL = `
		INSERT INTO servers (name, ip_address, status, last_seen)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(ip_address) DO UPDATE SET
			name=excluded.name,
			status=excluded.status,
			last_seen=excluded.last_seen
	`

	selectServerByAddressSQL = `
		SELECT id, name, ip_address, status, last_seen
		FROM servers WHERE ip_address=?
	`

	selectServersSQL = `
		SELECT id, name, ip_address, status, last_seen
		FROM servers ORDER BY id ASC
	`
)

// Upsert inserts or updates the row for the given address and returns its id.
func (r *ServerSQLite) Upsert(ctx context.Context, name, ip, status string) (int64, error) {
	now := time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, upsertServerSQL, name, ip, status, now); err != nil {
		return 0, err
	}

	var id int64
	if err := r.db.QueryRowContext(ctx, `SELECT id FROM servers WHERE ip_address=?`, ip).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *ServerSQLite) List(ctx context.Context) ([]models.Server, error) {
	rows, err := r.db.QueryContext(ctx, selectServersSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Server, 0, 8)
	for rows.Next() {
		var s models.Server
		if err := rows.Scan(&s.ID, &s.Name, &s.IPAddress, &s.Status, &s.LastSeen); err != nil {
			return nil, err
		}
		s.LastSeen = s.LastSeen.UTC()
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByAddress returns the zero value with nil error when no row exists.
func (r *ServerSQLite) GetByAddress(ctx context.Context, ip string) (models.Server, error) {
	row := r.db.QueryRowContext(ctx, selectServerByAddressSQL, ip)

	var s models.Server
	if err := row.Scan(&s.ID, &s.Name, &s.IPAddress, &s.Status, &s.LastSeen); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Server{}, nil
		}
		return models.Server{}, err
	}
	s.LastSeen = s.LastSeen.UTC()
	return s, nil
}
