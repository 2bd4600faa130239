package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/franpass87/experience-booking/internal/model"
)

func setupHoldRepo(t *testing.T) (*HoldRepo, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewHoldRepo(db), mock
}

var holdSlot = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

func TestReplaceSupersedesExistingHold(t *testing.T) {
	repo, mock := setupHoldRepo(t)

	mock.ExpectExec(`DELETE FROM exp_holds WHERE session_id`).
		WithArgs("sess-1", int64(7), "2026-09-01 10:00:00").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO exp_holds`).
		WithArgs("sess-1", int64(7), "2026-09-01 10:00:00", 2, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(42, 1))

	h := model.Hold{
		SessionID: "sess-1",
		ProductID: 7,
		SlotStart: holdSlot,
		Qty:       2,
		ExpiresAt: time.Now().UTC().Add(15 * time.Minute),
	}
	require.NoError(t, repo.Replace(context.Background(), &h))
	require.Equal(t, int64(42), h.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHeldQuantity(t *testing.T) {
	repo, mock := setupHoldRepo(t)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(qty\), 0\) FROM exp_holds`).
		WithArgs(int64(7), "2026-09-01 10:00:00").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(5))

	n, err := repo.HeldQuantity(context.Background(), 7, holdSlot, "")
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHeldQuantityExcludesSession(t *testing.T) {
	repo, mock := setupHoldRepo(t)

	mock.ExpectQuery(`session_id <> \?`).
		WithArgs(int64(7), "2026-09-01 10:00:00", "sess-1").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(3))

	n, err := repo.HeldQuantity(context.Background(), 7, holdSlot, "sess-1")
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActiveForUpdateTxLocksRow(t *testing.T) {
	repo, mock := setupHoldRepo(t)

	mock.ExpectBegin()
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "session_id", "product_id", "slot_start", "qty", "expires_at", "created_at"}).
		AddRow(5, "sess-1", 7, holdSlot, 2, now.Add(10*time.Minute), now)
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(int64(7), "2026-09-01 10:00:00", "sess-1").
		WillReturnRows(rows)

	db := repoDB(repo)
	tx, err := db.Begin()
	require.NoError(t, err)

	h, err := repo.ActiveForUpdateTx(context.Background(), tx, 7, holdSlot, "sess-1")
	require.NoError(t, err)
	require.Equal(t, int64(5), h.ID)
	require.Equal(t, 2, h.Qty)
}

func TestActiveForUpdateTxNotFound(t *testing.T) {
	repo, mock := setupHoldRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(int64(7), "2026-09-01 10:00:00", "sess-1").
		WillReturnError(sql.ErrNoRows)

	tx, err := repoDB(repo).Begin()
	require.NoError(t, err)

	_, err = repo.ActiveForUpdateTx(context.Background(), tx, 7, holdSlot, "sess-1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteTxMissingHoldIsFatal(t *testing.T) {
	repo, mock := setupHoldRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM exp_holds WHERE id`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	tx, err := repoDB(repo).Begin()
	require.NoError(t, err)

	require.ErrorIs(t, repo.DeleteTx(context.Background(), tx, 5), ErrNotFound)
}

func TestDeleteExpiredReportsCount(t *testing.T) {
	repo, mock := setupHoldRepo(t)

	mock.ExpectExec(`DELETE FROM exp_holds WHERE expires_at`).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.DeleteExpired(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(4), n)
}

// repoDB exposes the repo's handle so tests can open transactions.
func repoDB(r *HoldRepo) *sql.DB { return r.db }
