package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"auradash/internal/models"
)

type ScheduleSQLite struct {
	db *sql.DB
}

func NewScheduleSQLite(db *sql.DB) *ScheduleSQLite { return &ScheduleSQLite{db: db} }

const selectScheduleColumns = `SELECT id, node_id, action, time, days_json, enabled FROM schedules`

func marshalDays(days []string) (string, error) {
	b, err := json.Marshal(days)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalDays(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var days []string
	if err := json.Unmarshal([]byte(s), &days); err != nil {
		return nil, err
	}
	return days, nil
}

func (r *ScheduleSQLite) Create(ctx context.Context, s models.Schedule) (int64, error) {
	daysJSON, err := marshalDays(s.Days)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO schedules (node_id, action, time, days_json, enabled)
		VALUES (?, ?, ?, ?, ?)
	`, s.NodeID, s.Action, s.Time, daysJSON, s.Enabled)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *ScheduleSQLite) Update(ctx context.Context, s models.Schedule) error {
	daysJSON, err := marshalDays(s.Days)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		UPDATE schedules SET node_id=?, action=?, time=?, days_json=?, enabled=?
		WHERE id=?
	`, s.NodeID, s.Action, s.Time, daysJSON, s.Enabled, s.ID)
	return err
}

func (r *ScheduleSQLite) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id=?`, id)
	return err
}

func (r *ScheduleSQLite) List(ctx context.Context) ([]models.Schedule, error) {
	rows, err := r.db.QueryContext(ctx, selectScheduleColumns+` ORDER BY time ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Schedule, 0, 8)
	for rows.Next() {
		s, err := scanSchedule(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ScheduleSQLite) Get(ctx context.Context, id int64) (models.Schedule, error) {
	row := r.db.QueryRowContext(ctx, selectScheduleColumns+` WHERE id=?`, id)
	return scanSchedule(row.Scan)
}

func scanSchedule(scan func(dest ...any) error) (models.Schedule, error) {
	var s models.Schedule
	var daysJSON sql.NullString
	if err := scan(&s.ID, &s.NodeID, &s.Action, &s.Time, &daysJSON, &s.Enabled); err != nil {
		return models.Schedule{}, err
	}
	days, err := unmarshalDays(daysJSON.String)
	if err != nil {
		return models.Schedule{}, err
	}
	s.Days = days
	return s, nil
}
