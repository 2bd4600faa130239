package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/franpass87/experience-booking/internal/model"
)

func setupScheduleRepo(t *testing.T) (*ScheduleRepo, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewScheduleRepo(db), mock
}

func scheduleRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "product_id", "schedule_type", "day_of_week", "event_date",
		"start_time", "duration_min", "capacity", "lang", "meeting_point_id",
		"price_adult", "price_child", "is_active", "created_at", "updated_at",
	})
}

func TestActiveForDateMergesRecurringAndFixed(t *testing.T) {
	repo, mock := setupScheduleRepo(t)
	now := time.Now()

	rows := scheduleRows().
		AddRow(1, 7, "recurring", 1, nil, "10:00", 60, 5, "en", 3, 20.0, 10.0, true, now, now).
		AddRow(2, 7, "fixed", nil, "2026-08-31", "15:00", 90, 8, "it", 3, 25.0, 12.0, true, now, now)
	mock.ExpectQuery(`FROM schedules`).
		WithArgs(int64(7), 1, "2026-08-31").
		WillReturnRows(rows)

	out, err := repo.ActiveForDate(context.Background(), 7, 1, "2026-08-31")
	require.NoError(t, err)
	require.Len(t, out, 2)

	require.Equal(t, model.ScheduleTypeRecurring, out[0].Type)
	require.NotNil(t, out[0].DayOfWeek)
	require.Equal(t, 1, *out[0].DayOfWeek)
	require.Nil(t, out[0].EventDate)

	require.Equal(t, model.ScheduleTypeFixed, out[1].Type)
	require.Nil(t, out[1].DayOfWeek)
	require.NotNil(t, out[1].EventDate)
	require.Equal(t, "2026-08-31", *out[1].EventDate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetScheduleNotFound(t *testing.T) {
	repo, mock := setupScheduleRepo(t)

	mock.ExpectQuery(`FROM schedules WHERE id`).
		WithArgs(int64(99)).
		WillReturnRows(scheduleRows())

	_, err := repo.GetByID(context.Background(), 99)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateSchedulePopulatesID(t *testing.T) {
	repo, mock := setupScheduleRepo(t)

	mock.ExpectExec(`INSERT INTO schedules`).
		WillReturnResult(sqlmock.NewResult(12, 1))

	dow := 1
	s := model.Schedule{
		ProductID: 7, Type: model.ScheduleTypeRecurring, DayOfWeek: &dow,
		StartTime: "10:00", DurationMin: 60, Capacity: 5, Lang: "en",
		MeetingPointID: 3, PriceAdult: 20, PriceChild: 10, IsActive: true,
	}
	require.NoError(t, repo.Create(context.Background(), &s))
	require.Equal(t, int64(12), s.ID)
}

func TestUpdateScheduleNotFound(t *testing.T) {
	repo, mock := setupScheduleRepo(t)

	mock.ExpectExec(`UPDATE schedules SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	s := model.Schedule{ID: 99, Type: model.ScheduleTypeRecurring, StartTime: "10:00"}
	require.ErrorIs(t, repo.Update(context.Background(), &s), ErrNotFound)
}

func TestDeactivateSchedule(t *testing.T) {
	repo, mock := setupScheduleRepo(t)

	mock.ExpectExec(`UPDATE schedules SET is_active = 0`).
		WithArgs(int64(12)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Deactivate(context.Background(), 12))
	require.NoError(t, mock.ExpectationsWereMet())
}
