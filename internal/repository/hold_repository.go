package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/franpass87/experience-booking/internal/model"
)

// mysqlMinute is the storage format for slot_start values.  Slots have
// minute precision; seconds are always zero.
const mysqlMinute = "2006-01-02 15:04:00"

// HoldRepo provides data access to the exp_holds table.  Holds are
// ephemeral rows that reserve capacity units for a (session, product,
// slot) triple until they expire.  Expiry comparisons are performed in
// the database against UTC_TIMESTAMP() so application clock skew cannot
// resurrect a dead hold.  Methods with a Tx suffix run inside a caller
// supplied transaction; the caller commits or rolls back.
type HoldRepo struct {
    db *sql.DB
}

// NewHoldRepo returns a new HoldRepo bound to the provided database.
func NewHoldRepo(db *sql.DB) *HoldRepo { return &HoldRepo{db: db} }

// Replace removes any existing hold for the (session, product, slot)
// triple and inserts a fresh one, enforcing the one-live-hold-per-triple
// rule with last-write-wins semantics.  The delete and insert are two
// statements; the window between them only affects display accuracy,
// never booking correctness, so they are deliberately not wrapped in a
// transaction.
func (r *HoldRepo) Replace(ctx context.Context, h *model.Hold) error {
    _, err := r.db.ExecContext(ctx,
        `DELETE FROM exp_holds WHERE session_id = ? AND product_id = ? AND slot_start = ?`,
        h.SessionID, h.ProductID, h.SlotStart.UTC().Format(mysqlMinute))
    if err != nil {
        return err
    }
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO exp_holds (session_id, product_id, slot_start, qty, expires_at)
         VALUES (?, ?, ?, ?, ?)`,
        h.SessionID, h.ProductID, h.SlotStart.UTC().Format(mysqlMinute),
        h.Qty, h.ExpiresAt.UTC().Format("2006-01-02 15:04:05"))
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    h.ID = id
    return nil
}

// HeldQuantity sums the quantities of all non-expired holds for a slot.
// When excludeSession is non-empty, that session's own holds are left
// out, so a shopper can see spots they already hold as available to
// them while everyone else sees them deducted.
func (r *HoldRepo) HeldQuantity(ctx context.Context, productID int64, slotStart time.Time, excludeSession string) (int, error) {
    q := `SELECT COALESCE(SUM(qty), 0) FROM exp_holds
          WHERE product_id = ? AND slot_start = ? AND expires_at > UTC_TIMESTAMP()`
    args := []interface{}{productID, slotStart.UTC().Format(mysqlMinute)}
    if excludeSession != "" {
        q += ` AND session_id <> ?`
        args = append(args, excludeSession)
    }
    var total int
    if err := r.db.QueryRowContext(ctx, q, args...).Scan(&total); err != nil {
        return 0, err
    }
    return total, nil
}

// ActiveForUpdateTx fetches the live hold for a (product, slot, session)
// triple and locks its row for the duration of the transaction.  The
// FOR UPDATE lock is what makes hold conversion immune to two checkouts
// racing on the same hold: the second transaction blocks on the row and
// then sees it gone.  ErrNotFound is returned when no live hold exists
// (expired, superseded or never created).
func (r *HoldRepo) ActiveForUpdateTx(ctx context.Context, tx *sql.Tx, productID int64, slotStart time.Time, sessionID string) (*model.Hold, error) {
    const q = `SELECT id, session_id, product_id, slot_start, qty, expires_at, created_at
               FROM exp_holds
               WHERE product_id = ? AND slot_start = ? AND session_id = ?
                 AND expires_at > UTC_TIMESTAMP()
               FOR UPDATE`
    var h model.Hold
    err := tx.QueryRowContext(ctx, q,
        productID, slotStart.UTC().Format(mysqlMinute), sessionID,
    ).Scan(&h.ID, &h.SessionID, &h.ProductID, &h.SlotStart, &h.Qty, &h.ExpiresAt, &h.CreatedAt)
    if err == sql.ErrNoRows {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    return &h, nil
}

// DeleteTx removes a hold by ID within the provided transaction.  The
// conversion path treats a failed delete as fatal, because a booking
// must never commit while its backing hold stays behind to be counted
// twice.
func (r *HoldRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id int64) error {
    res, err := tx.ExecContext(ctx, `DELETE FROM exp_holds WHERE id = ?`, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrNotFound
    }
    return nil
}

// DeleteExpiredForSlotTx opportunistically removes already-expired holds
// for a slot.  Pure housekeeping; failures are reported but callers may
// ignore them.
func (r *HoldRepo) DeleteExpiredForSlotTx(ctx context.Context, tx *sql.Tx, productID int64, slotStart time.Time) error {
    _, err := tx.ExecContext(ctx,
        `DELETE FROM exp_holds
         WHERE product_id = ? AND slot_start = ? AND expires_at <= UTC_TIMESTAMP()`,
        productID, slotStart.UTC().Format(mysqlMinute))
    return err
}

// DeleteForSessionSlot removes the caller's hold for a slot, used by the
// explicit release endpoint.  Returns the number of rows removed.
func (r *HoldRepo) DeleteForSessionSlot(ctx context.Context, productID int64, slotStart time.Time, sessionID string) (int64, error) {
    res, err := r.db.ExecContext(ctx,
        `DELETE FROM exp_holds WHERE session_id = ? AND product_id = ? AND slot_start = ?`,
        sessionID, productID, slotStart.UTC().Format(mysqlMinute))
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}

// DeleteExpired bulk-removes every expired hold.  The cron sweep calls
// this to bound table growth; HeldQuantity only filters expired rows
// logically, it never removes them.
func (r *HoldRepo) DeleteExpired(ctx context.Context) (int64, error) {
    res, err := r.db.ExecContext(ctx,
        `DELETE FROM exp_holds WHERE expires_at <= UTC_TIMESTAMP()`)
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}
