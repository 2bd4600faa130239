package service

import (
    "context"
    "database/sql"
    "errors"
    "log"
    "time"

    "github.com/franpass87/experience-booking/internal/model"
    "github.com/franpass87/experience-booking/internal/repository"
)

// slotStartLayout is the wire format for slot starts: minute precision,
// site-local wall time.
const slotStartLayout = "2006-01-02 15:04"

// CacheInvalidator drops the availability entry for a (product, date)
// pair.  Hold and booking mutations call it so the next read reflects
// the change.
type CacheInvalidator interface {
    Invalidate(ctx context.Context, productID int64, date string)
}

// ProductCacheInvalidator drops every cached date for a product.  Used
// by schedule and pricing mutations, which affect all future dates at
// once.  Returns how many entries were removed.
type ProductCacheInvalidator interface {
    InvalidateProduct(ctx context.Context, productID int64) int
}

// HoldResult is the structured outcome of a hold operation.  Expected
// business failures (disabled subsystem, missing session, bad input)
// come back as Success=false with a display-ready message, never as an
// error.
type HoldResult struct {
    Success   bool      `json:"success"`
    HoldID    int64     `json:"hold_id,omitempty"`
    ExpiresAt time.Time `json:"expires_at,omitempty"`
    Message   string    `json:"message"`
}

// BookingResult is the structured outcome of a conversion attempt.
type BookingResult struct {
    Success   bool   `json:"success"`
    BookingID int64  `json:"booking_id,omitempty"`
    Message   string `json:"message"`
}

// HoldStore is the persistence contract the manager needs for holds.
type HoldStore interface {
    Replace(ctx context.Context, h *model.Hold) error
    HeldQuantity(ctx context.Context, productID int64, slotStart time.Time, excludeSession string) (int, error)
    ActiveForUpdateTx(ctx context.Context, tx *sql.Tx, productID int64, slotStart time.Time, sessionID string) (*model.Hold, error)
    DeleteTx(ctx context.Context, tx *sql.Tx, id int64) error
    DeleteExpiredForSlotTx(ctx context.Context, tx *sql.Tx, productID int64, slotStart time.Time) error
    DeleteForSessionSlot(ctx context.Context, productID int64, slotStart time.Time, sessionID string) (int64, error)
    DeleteExpired(ctx context.Context) (int64, error)
}

// BookingWriter is the persistence contract for creating bookings inside
// a transaction and counting guests under lock for the fallback path.
type BookingWriter interface {
    CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error
    CountGuestsForUpdateTx(ctx context.Context, tx *sql.Tx, productID int64, date, startTime string) (int, error)
}

// HoldManager gives a shopper a time-boxed claim on capacity units while
// they complete checkout.  Holds are advisory for display purposes; the
// transactional conversion below is the single place where capacity
// arithmetic runs under a database transaction and is therefore the true
// gate against overselling.
//
// Per (session, product, slot) the lifecycle is:
// none -> held -> consumed (booking created) | released | expired (swept).
type HoldManager struct {
    db        *sql.DB
    holds     HoldStore
    bookings  BookingWriter
    schedules ScheduleStore
    overrides OverrideStore
    cache     CacheInvalidator
    enabled   bool
    duration  time.Duration
    loc       *time.Location
}

// NewHoldManager wires a HoldManager.  duration is how long a fresh hold
// lives (values below one minute are raised to the 15 minute default).
// schedules/overrides feed the fallback capacity check used when the
// hold subsystem is disabled.
func NewHoldManager(db *sql.DB, holds HoldStore, bookings BookingWriter, schedules ScheduleStore, overrides OverrideStore, cache CacheInvalidator, enabled bool, duration time.Duration, loc *time.Location) *HoldManager {
    if duration < time.Minute {
        duration = 15 * time.Minute
    }
    if loc == nil {
        loc = time.UTC
    }
    return &HoldManager{
        db:        db,
        holds:     holds,
        bookings:  bookings,
        schedules: schedules,
        overrides: overrides,
        cache:     cache,
        enabled:   enabled,
        duration:  duration,
        loc:       loc,
    }
}

// Enabled reports whether the hold subsystem is active.
func (m *HoldManager) Enabled() bool { return m.enabled }

// CreateHold reserves qty capacity units of a slot for a session.  Any
// prior hold for the same (session, product, slot) is superseded
// (last-write-wins for that session).  The hold itself does not
// re-validate remaining capacity: availability reads subtract holds and
// the conversion re-checks authoritatively, so a shopper can always
// express intent even in a race; the loser finds out at conversion.
func (m *HoldManager) CreateHold(ctx context.Context, productID int64, slotStart string, qty int, sessionID string) HoldResult {
    if !m.enabled {
        return HoldResult{Message: "Capacity holds are disabled."}
    }
    if sessionID == "" {
        return HoldResult{Message: "No active session. Please reload and try again."}
    }
    start, err := time.ParseInLocation(slotStartLayout, slotStart, m.loc)
    if err != nil {
        return HoldResult{Message: "Invalid slot time."}
    }
    if qty < 1 {
        return HoldResult{Message: "Quantity must be at least 1."}
    }
    h := model.Hold{
        SessionID: sessionID,
        ProductID: productID,
        SlotStart: start,
        Qty:       qty,
        ExpiresAt: time.Now().UTC().Add(m.duration),
    }
    if err := m.holds.Replace(ctx, &h); err != nil {
        log.Printf("hold-manager: create hold product=%d slot=%s: %v", productID, slotStart, err)
        return HoldResult{Message: "Could not hold the selected spots. Please try again."}
    }
    m.invalidate(ctx, productID, start)
    return HoldResult{Success: true, HoldID: h.ID, ExpiresAt: h.ExpiresAt, Message: "Spots held."}
}

// GetHeldQuantity sums live held quantities for a slot.  excludeSession
// lets callers leave the shopper's own hold out of the deduction; the
// availability path passes the empty string so every hold counts.
func (m *HoldManager) GetHeldQuantity(ctx context.Context, productID int64, slotStart time.Time, excludeSession string) int {
    if !m.enabled {
        return 0
    }
    n, err := m.holds.HeldQuantity(ctx, productID, slotStart, excludeSession)
    if err != nil {
        log.Printf("hold-manager: held quantity product=%d: %v", productID, err)
        return 0
    }
    return n
}

// ReleaseHold removes the caller's hold for a slot.  Releasing a hold
// that no longer exists is not an error.
func (m *HoldManager) ReleaseHold(ctx context.Context, productID int64, slotStart, sessionID string) HoldResult {
    if !m.enabled {
        return HoldResult{Message: "Capacity holds are disabled."}
    }
    start, err := time.ParseInLocation(slotStartLayout, slotStart, m.loc)
    if err != nil {
        return HoldResult{Message: "Invalid slot time."}
    }
    if _, err := m.holds.DeleteForSessionSlot(ctx, productID, start, sessionID); err != nil {
        log.Printf("hold-manager: release product=%d slot=%s: %v", productID, slotStart, err)
        return HoldResult{Message: "Could not release the hold."}
    }
    m.invalidate(ctx, productID, start)
    return HoldResult{Success: true, Message: "Hold released."}
}

// ConvertHoldToBooking turns a live hold into a durable booking.  This
// is the only path that performs capacity arithmetic inside a database
// transaction: the hold row is re-fetched and locked (FOR UPDATE), its
// quantity re-validated against the requested guests, the booking
// inserted and the hold removed, all in one atomic unit.  A failed hold
// delete rolls back the booking too, because a booking whose backing
// hold survives would be counted twice.  When the hold subsystem is
// disabled the method falls back to a direct capacity check under the
// same transactional discipline.
func (m *HoldManager) ConvertHoldToBooking(ctx context.Context, productID int64, slotStart, sessionID string, data model.Booking) BookingResult {
    start, err := time.ParseInLocation(slotStartLayout, slotStart, m.loc)
    if err != nil {
        return BookingResult{Message: "Invalid slot time."}
    }
    data.ProductID = productID
    data.BookingDate = start.Format("2006-01-02")
    data.BookingTime = start.Format("15:04")
    if data.Status == "" {
        data.Status = model.BookingStatusConfirmed
    }
    required := data.Guests()
    if required < 1 {
        return BookingResult{Message: "At least one guest is required."}
    }

    if !m.enabled {
        return m.atomicCapacityBooking(ctx, start, &data, required)
    }

    tx, err := m.db.BeginTx(ctx, nil)
    if err != nil {
        log.Printf("hold-manager: begin tx: %v", err)
        return BookingResult{Message: "Booking failed. Please try again."}
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    hold, err := m.holds.ActiveForUpdateTx(ctx, tx, productID, start, sessionID)
    if errors.Is(err, repository.ErrNotFound) {
        return BookingResult{Message: "Hold expired or not found. Please try again."}
    }
    if err != nil {
        log.Printf("hold-manager: fetch hold product=%d: %v", productID, err)
        return BookingResult{Message: "Booking failed. Please try again."}
    }
    if hold.Qty < required {
        return BookingResult{Message: "Your hold does not cover the requested spots. Please try again."}
    }

    if err := m.bookings.CreateTx(ctx, tx, &data); err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return BookingResult{Message: "This order line is already booked."}
        }
        log.Printf("hold-manager: insert booking product=%d: %v", productID, err)
        return BookingResult{Message: "Booking failed. Please try again."}
    }
    if err := m.holds.DeleteTx(ctx, tx, hold.ID); err != nil {
        log.Printf("hold-manager: consume hold id=%d: %v", hold.ID, err)
        return BookingResult{Message: "Booking failed. Please try again."}
    }
    // Housekeeping only; an error here must not fail the booking.
    if err := m.holds.DeleteExpiredForSlotTx(ctx, tx, productID, start); err != nil {
        log.Printf("hold-manager: sweep slot product=%d: %v", productID, err)
    }
    if err := tx.Commit(); err != nil {
        log.Printf("hold-manager: commit: %v", err)
        return BookingResult{Message: "Booking failed. Please try again."}
    }
    committed = true

    m.invalidate(ctx, productID, start)
    return BookingResult{Success: true, BookingID: data.ID, Message: "Booking confirmed."}
}

// atomicCapacityBooking is the holds-disabled path: re-derive the slot's
// capacity from schedules and overrides, count booked guests under a
// locking read, and insert only if the remainder covers the request.
func (m *HoldManager) atomicCapacityBooking(ctx context.Context, start time.Time, data *model.Booking, required int) BookingResult {
    date := start.In(m.loc).Format("2006-01-02")
    startTime := start.In(m.loc).Format("15:04")

    ovr, err := m.overrides.ByProductDate(ctx, data.ProductID, date)
    if err != nil {
        log.Printf("hold-manager: load override product=%d: %v", data.ProductID, err)
        return BookingResult{Message: "Booking failed. Please try again."}
    }
    if ovr != nil && ovr.IsClosed {
        return BookingResult{Message: "This date is closed."}
    }
    schedules, err := m.schedules.ActiveForDate(ctx, data.ProductID, int(start.In(m.loc).Weekday()), date)
    if err != nil {
        log.Printf("hold-manager: load schedules product=%d: %v", data.ProductID, err)
        return BookingResult{Message: "Booking failed. Please try again."}
    }
    capacity := -1
    for _, s := range schedules {
        if s.StartTime == startTime {
            capacity = s.Capacity
            break
        }
    }
    if capacity < 0 {
        return BookingResult{Message: "No such slot."}
    }
    if ovr != nil && ovr.CapacityOverride != nil {
        capacity = *ovr.CapacityOverride
    }

    tx, err := m.db.BeginTx(ctx, nil)
    if err != nil {
        log.Printf("hold-manager: begin tx: %v", err)
        return BookingResult{Message: "Booking failed. Please try again."}
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    booked, err := m.bookings.CountGuestsForUpdateTx(ctx, tx, data.ProductID, date, startTime)
    if err != nil {
        log.Printf("hold-manager: count booked product=%d: %v", data.ProductID, err)
        return BookingResult{Message: "Booking failed. Please try again."}
    }
    if capacity-booked < required {
        return BookingResult{Message: "Not enough spots left for this slot."}
    }
    if err := m.bookings.CreateTx(ctx, tx, data); err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return BookingResult{Message: "This order line is already booked."}
        }
        log.Printf("hold-manager: insert booking product=%d: %v", data.ProductID, err)
        return BookingResult{Message: "Booking failed. Please try again."}
    }
    if err := tx.Commit(); err != nil {
        log.Printf("hold-manager: commit: %v", err)
        return BookingResult{Message: "Booking failed. Please try again."}
    }
    committed = true

    m.invalidate(ctx, data.ProductID, start)
    return BookingResult{Success: true, BookingID: data.ID, Message: "Booking confirmed."}
}

// CleanupExpiredHolds bulk-deletes expired holds and returns how many
// rows went away.  Runs from the cron sweep.
func (m *HoldManager) CleanupExpiredHolds(ctx context.Context) int {
    n, err := m.holds.DeleteExpired(ctx)
    if err != nil {
        log.Printf("hold-manager: cleanup expired: %v", err)
        return 0
    }
    return int(n)
}

func (m *HoldManager) invalidate(ctx context.Context, productID int64, slotStart time.Time) {
    if m.cache == nil {
        return
    }
    m.cache.Invalidate(ctx, productID, slotStart.In(m.loc).Format("2006-01-02"))
}
