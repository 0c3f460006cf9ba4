package repository

import (
	"context"
	"database/sql"
	"errors"

	"auradash/internal/models"
)

type NodeSQLite struct {
	db *sql.DB
}

func NewNodeSQLite(db *sql.DB) *NodeSQLite { return &NodeSQLite{db: db} }

const (
	selectNodeIDByKeySQL = `SELECT id FROM nodes WHERE server_id=? AND name=?`

	insertNodeSQL = `
		INSERT INTO nodes (server_id, name, type, category, status, state, temperature, voltage, current)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	updateNodeSQL = `
		UPDATE nodes SET type=?, category=?, status=?, state=?, temperature=?, voltage=?, current=?
		WHERE id=?
	`

	selectNodeColumns = `SELECT id, server_id, name, type, category, status, state, temperature, voltage, current FROM nodes`
)

// Upsert inserts a node on first observation and updates it on every later
// one; the logical key is (server_id, name). Returns the row id either way.
func (r *NodeSQLite) Upsert(ctx context.Context, n models.Node) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, selectNodeIDByKeySQL, n.ServerID, n.Name).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, err := r.db.ExecContext(ctx, insertNodeSQL,
			n.ServerID, n.Name, n.Type, n.Category, n.Status, n.State,
			n.Temperature, n.Voltage, n.Current,
		)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	case err != nil:
		return 0, err
	}

	_, err = r.db.ExecContext(ctx, updateNodeSQL,
		n.Type, n.Category, n.Status, n.State,
		n.Temperature, n.Voltage, n.Current, id,
	)
	return id, err
}

func (r *NodeSQLite) List(ctx context.Context) ([]models.Node, error) {
	return r.queryNodes(ctx, selectNodeColumns+` ORDER BY id ASC`)
}

func (r *NodeSQLite) ListByServer(ctx context.Context, serverID int64) ([]models.Node, error) {
	return r.queryNodes(ctx, selectNodeColumns+` WHERE server_id=? ORDER BY id ASC`, serverID)
}

func (r *NodeSQLite) Get(ctx context.Context, id int64) (models.Node, error) {
	row := r.db.QueryRowContext(ctx, selectNodeColumns+` WHERE id=?`, id)
	var n models.Node
	var state sql.NullString
	err := row.Scan(&n.ID, &n.ServerID, &n.Name, &n.Type, &n.Category, &n.Status, &state,
		&n.Temperature, &n.Voltage, &n.Current)
	if err != nil {
		return models.Node{}, err
	}
	n.State = state.String
	return n, nil
}

func (r *NodeSQLite) UpdateStatus(ctx context.Context, id int64, status, state string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE nodes SET status=?, state=? WHERE id=?`, status, state, id)
	return err
}

func (r *NodeSQLite) queryNodes(ctx context.Context, q string, args ...any) ([]models.Node, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Node, 0, 16)
	for rows.Next() {
		var n models.Node
		var state sql.NullString
		if err := rows.Scan(&n.ID, &n.ServerID, &n.Name, &n.Type, &n.Category, &n.Status, &state,
			&n.Temperature, &n.Voltage, &n.Current); err != nil {
			return nil, err
		}
		n.State = state.String
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
