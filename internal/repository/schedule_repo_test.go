package repository

import (
	"context"
	"reflect"
	"regexp"
	"testing"

	"auradash/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func newScheduleRepoMock(t *testing.T) (*ScheduleSQLite, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewScheduleSQLite(db), mock
}

func TestScheduleCreate_MarshalsDays(t *testing.T) {
	repo, mock := newScheduleRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schedules")).
		WithArgs(int64(2), "on", "07:30", `["mon","tue","wed"]`, true).
		WillReturnResult(sqlmock.NewResult(5, 1))

	id, err := repo.Create(context.Background(), models.Schedule{
		NodeID: 2, Action: "on", Time: "07:30",
		Days: []string{"mon", "tue", "wed"}, Enabled: true,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id != 5 {
		t.Fatalf("Create() id = %d, want 5", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestScheduleGet_UnmarshalsDays(t *testing.T) {
	repo, mock := newScheduleRepoMock(t)

	rows := sqlmock.NewRows([]string{"id", "node_id", "action", "time", "days_json", "enabled"}).
		AddRow(int64(5), int64(2), "on", "07:30", `["mon","tue"]`, true)
	mock.ExpectQuery(regexp.QuoteMeta(selectScheduleColumns)).
		WithArgs(int64(5)).
		WillReturnRows(rows)

	got, err := repo.Get(context.Background(), 5)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !reflect.DeepEqual(got.Days, []string{"mon", "tue"}) {
		t.Fatalf("Get().Days = %v", got.Days)
	}
}

func TestScheduleGet_NullDays(t *testing.T) {
	repo, mock := newScheduleRepoMock(t)

	rows := sqlmock.NewRows([]string{"id", "node_id", "action", "time", "days_json", "enabled"}).
		AddRow(int64(5), int64(2), "off", "22:00", nil, false)
	mock.ExpectQuery(regexp.QuoteMeta(selectScheduleColumns)).
		WithArgs(int64(5)).
		WillReturnRows(rows)

	got, err := repo.Get(context.Background(), 5)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Days != nil {
		t.Fatalf("Get().Days = %v, want nil", got.Days)
	}
}

func TestScheduleDelete(t *testing.T) {
	repo, mock := newScheduleRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedules WHERE id=?")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), 5); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
