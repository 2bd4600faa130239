package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/franpass87/experience-booking/internal/model"
)

// BookingRepo provides data access to the bookings table.  Bookings are
// the durable outcome of a converted hold (or a direct atomic capacity
// check) and carry a unique constraint on (order_id, order_item_id).
// Confirmed and pending bookings consume capacity; cancelled and
// refunded ones do not.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the provided database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, order_id, order_item_id, product_id, booking_date,
       booking_time, adults, children, meeting_point_id, status,
       created_at, updated_at`

// CountGuests sums adults+children over confirmed and pending bookings
// for an exact (product, date, time) slot.  This is the non-locking read
// the availability engine uses; it may be stale by the time the caller
// acts on it, which is fine because the conversion path re-checks under
// a transaction.
func (r *BookingRepo) CountGuests(ctx context.Context, productID int64, date, startTime string) (int, error) {
    const q = `SELECT COALESCE(SUM(adults + children), 0)
               FROM bookings
               WHERE product_id = ? AND booking_date = ? AND booking_time = ?
                 AND status IN ('confirmed', 'pending')`
    var total int
    if err := r.db.QueryRowContext(ctx, q, productID, date, startTime).Scan(&total); err != nil {
        return 0, err
    }
    return total, nil
}

// CountGuestsForUpdateTx is the locking variant of CountGuests, used by
// the direct atomic capacity check when the hold subsystem is disabled.
// The FOR UPDATE read locks the matching booking rows so two concurrent
// checks for the same slot serialize instead of both observing the same
// stale count.
func (r *BookingRepo) CountGuestsForUpdateTx(ctx context.Context, tx *sql.Tx, productID int64, date, startTime string) (int, error) {
    const q = `SELECT COALESCE(SUM(adults + children), 0)
               FROM bookings
               WHERE product_id = ? AND booking_date = ? AND booking_time = ?
                 AND status IN ('confirmed', 'pending')
               FOR UPDATE`
    var total int
    if err := tx.QueryRowContext(ctx, q, productID, date, startTime).Scan(&total); err != nil {
        return 0, err
    }
    return total, nil
}

// CreateTx inserts a booking within the provided transaction and
// populates the generated ID.  A duplicate (order_id, order_item_id)
// pair surfaces as ErrConflict so callers can distinguish a replayed
// order line from an infrastructure failure.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
    const q = `INSERT INTO bookings
               (order_id, order_item_id, product_id, booking_date, booking_time,
                adults, children, meeting_point_id, status)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
    res, err := tx.ExecContext(ctx, q,
        b.OrderID, b.OrderItemID, b.ProductID, b.BookingDate, b.BookingTime,
        b.Adults, b.Children, b.MeetingPointID, b.Status)
    if err != nil {
        // MySQL duplicate-key error (1062) on the order line unique key.
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return ErrConflict
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = id
    return nil
}

// GetByID returns a single booking.  ErrNotFound when absent.
func (r *BookingRepo) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
    const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
    b, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
    if err == sql.ErrNoRows {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    return &b, nil
}

// ListByProductDate returns the bookings for a product on a date, newest
// first.  Used by the admin manifest view.
func (r *BookingRepo) ListByProductDate(ctx context.Context, productID int64, date string) ([]model.Booking, error) {
    const q = `SELECT ` + bookingColumns + `
               FROM bookings
               WHERE product_id = ? AND booking_date = ?
               ORDER BY booking_time, created_at DESC`
    rows, err := r.db.QueryContext(ctx, q, productID, date)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Booking, 0)
    for rows.Next() {
        b, err := scanBooking(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, b)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// UpdateStatus transitions a booking's status and returns the updated
// row so callers can derive the (product, date) pair for cache
// invalidation and event publishing.  ErrNotFound when the booking does
// not exist.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id int64, status string) (*model.Booking, error) {
    if _, err := r.db.ExecContext(ctx,
        `UPDATE bookings SET status = ? WHERE id = ?`, status, id); err != nil {
        return nil, err
    }
    // RowsAffected is 0 both for a missing row and for a no-op update, so
    // it cannot signal not-found on its own; the read-back does both jobs.
    return r.GetByID(ctx, id)
}

func scanBooking(rs rowScanner) (model.Booking, error) {
    var b model.Booking
    err := rs.Scan(
        &b.ID, &b.OrderID, &b.OrderItemID, &b.ProductID, &b.BookingDate,
        &b.BookingTime, &b.Adults, &b.Children, &b.MeetingPointID, &b.Status,
        &b.CreatedAt, &b.UpdatedAt,
    )
    return b, err
}
