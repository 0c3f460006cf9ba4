package repository

import (
	"context"
	"database/sql"
	"time"

	"auradash/internal/models"
)

type DataPointSQLite struct {
	db *sql.DB
}

func NewDataPointSQLite(db *sql.DB) *DataPointSQLite { return &DataPointSQLite{db: db} }

const (
	insertDataPointSQL = `
		INSERT INTO data_points (node_id, voltage, current, power, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`

	selectDataPointsByNodeSQL = `
		SELECT id, node_id, voltage, current, power, timestamp
		FROM data_points
		WHERE node_id=? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC
	`

	purgeDataPointsSQL = `DELETE FROM data_points WHERE timestamp < ?`
)

// Append stores one sample. Power is derived from voltage and current when
// not supplied; a zero Timestamp becomes now.
func (r *DataPointSQLite) Append(ctx context.Context, p models.DataPoint) error {
	if p.Power == 0 {
		p.Power = p.Voltage * p.Current
	}
	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now().UTC()
	} else {
		p.Timestamp = p.Timestamp.UTC()
	}

	_, err := r.db.ExecContext(ctx, insertDataPointSQL,
		p.NodeID, p.Voltage, p.Current, p.Power, p.Timestamp)
	return err
}

func (r *DataPointSQLite) ListByNode(ctx context.Context, nodeID int64, from, to time.Time) ([]models.DataPoint, error) {
	rows, err := r.db.QueryContext(ctx, selectDataPointsByNodeSQL, nodeID, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.DataPoint, 0, 64)
	for rows.Next() {
		var p models.DataPoint
		if err := rows.Scan(&p.ID, &p.NodeID, &p.Voltage, &p.Current, &p.Power, &p.Timestamp); err != nil {
			return nil, err
		}
		p.Timestamp = p.Timestamp.UTC()
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// PurgeOlderThan deletes samples before the cutoff and reports how many went.
func (r *DataPointSQLite) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, purgeDataPointsSQL, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
