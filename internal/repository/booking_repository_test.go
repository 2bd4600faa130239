package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/franpass87/experience-booking/internal/model"
)

func setupBookingRepo(t *testing.T) (*BookingRepo, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBookingRepo(db), mock
}

func TestCountGuestsSumsConfirmedAndPending(t *testing.T) {
	repo, mock := setupBookingRepo(t)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(adults \+ children\), 0\)`).
		WithArgs(int64(7), "2026-08-31", "10:00").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(6))

	n, err := repo.CountGuests(context.Background(), 7, "2026-08-31", "10:00")
	require.NoError(t, err)
	require.Equal(t, 6, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTxMapsDuplicateOrderLine(t *testing.T) {
	repo, mock := setupBookingRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO bookings`).
		WillReturnError(errors.New("Error 1062: Duplicate entry '1000-1' for key 'uniq_order_item'"))

	tx, err := repo.db.Begin()
	require.NoError(t, err)

	b := model.Booking{OrderID: 1000, OrderItemID: 1, ProductID: 7, Adults: 2, Status: model.BookingStatusConfirmed}
	require.ErrorIs(t, repo.CreateTx(context.Background(), tx, &b), ErrConflict)
}

func TestCreateTxPopulatesID(t *testing.T) {
	repo, mock := setupBookingRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(int64(1000), int64(1), int64(7), "2026-08-31", "10:00", 2, 1, int64(3), "confirmed").
		WillReturnResult(sqlmock.NewResult(99, 1))

	tx, err := repo.db.Begin()
	require.NoError(t, err)

	b := model.Booking{
		OrderID: 1000, OrderItemID: 1, ProductID: 7,
		BookingDate: "2026-08-31", BookingTime: "10:00",
		Adults: 2, Children: 1, MeetingPointID: 3,
		Status: model.BookingStatusConfirmed,
	}
	require.NoError(t, repo.CreateTx(context.Background(), tx, &b))
	require.Equal(t, int64(99), b.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountGuestsForUpdateTxLocks(t *testing.T) {
	repo, mock := setupBookingRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(int64(7), "2026-08-31", "10:00").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(4))

	tx, err := repo.db.Begin()
	require.NoError(t, err)

	n, err := repo.CountGuestsForUpdateTx(context.Background(), tx, 7, "2026-08-31", "10:00")
	require.NoError(t, err)
	require.Equal(t, 4, n)
}

func TestUpdateStatusSingleReadBack(t *testing.T) {
	repo, mock := setupBookingRepo(t)

	// A no-op update reports zero affected rows; the repo must still
	// resolve it with exactly one read-back, not two.
	mock.ExpectExec(`UPDATE bookings SET status`).
		WithArgs("cancelled", int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "order_id", "order_item_id", "product_id", "booking_date",
			"booking_time", "adults", "children", "meeting_point_id", "status",
			"created_at", "updated_at",
		}).AddRow(99, 1000, 1, 7, "2026-08-31", "10:00", 2, 1, 3, "cancelled", now, now))

	b, err := repo.UpdateStatus(context.Background(), 99, "cancelled")
	require.NoError(t, err)
	require.Equal(t, "cancelled", b.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusNotFound(t *testing.T) {
	repo, mock := setupBookingRepo(t)

	mock.ExpectExec(`UPDATE bookings SET status`).
		WithArgs("cancelled", int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdateStatus(context.Background(), 99, "cancelled")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
