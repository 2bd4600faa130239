package repository

import (
    "context"
    "database/sql"

    "github.com/franpass87/experience-booking/internal/model"
)

// ScheduleRepo provides data access to the schedules table.  Schedules are
// the templates the availability engine expands into bookable slots.  All
// methods treat timestamps as UTC; rows are soft-disabled via is_active
// rather than deleted so historic bookings keep a valid reference.
type ScheduleRepo struct {
    db *sql.DB
}

// NewScheduleRepo returns a new ScheduleRepo bound to the provided database.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

const scheduleColumns = `id, product_id, schedule_type, day_of_week, event_date,
       start_time, duration_min, capacity, lang, meeting_point_id,
       price_adult, price_child, is_active, created_at, updated_at`

// ActiveForDate returns the active schedules that produce slots on the
// given date: recurring schedules matching the date's day of week plus
// fixed-date schedules matching the date itself.  Results are ordered by
// start time so callers emit slots in a deterministic order.
func (r *ScheduleRepo) ActiveForDate(ctx context.Context, productID int64, dayOfWeek int, date string) ([]model.Schedule, error) {
    const q = `SELECT ` + scheduleColumns + `
               FROM schedules
               WHERE product_id = ? AND is_active = 1
                 AND ((schedule_type = 'recurring' AND day_of_week = ?)
                   OR (schedule_type = 'fixed' AND event_date = ?))
               ORDER BY start_time, id`
    rows, err := r.db.QueryContext(ctx, q, productID, dayOfWeek, date)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Schedule
    for rows.Next() {
        s, err := scanSchedule(rows)
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

// ListByProduct returns every schedule for a product, active or not, for
// the admin screens.  Ordered by type, day and start time.
func (r *ScheduleRepo) ListByProduct(ctx context.Context, productID int64) ([]model.Schedule, error) {
    const q = `SELECT ` + scheduleColumns + `
               FROM schedules
               WHERE product_id = ?
               ORDER BY schedule_type, day_of_week, event_date, start_time, id`
    rows, err := r.db.QueryContext(ctx, q, productID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Schedule, 0)
    for rows.Next() {
        s, err := scanSchedule(rows)
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

// GetByID returns a single schedule row.  ErrNotFound is returned when no
// row exists.
func (r *ScheduleRepo) GetByID(ctx context.Context, id int64) (*model.Schedule, error) {
    const q = `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = ?`
    row := r.db.QueryRowContext(ctx, q, id)
    s, err := scanSchedule(row)
    if err == sql.ErrNoRows {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    return &s, nil
}

// Create inserts a new schedule and populates its generated ID.
func (r *ScheduleRepo) Create(ctx context.Context, s *model.Schedule) error {
    const q = `INSERT INTO schedules
               (product_id, schedule_type, day_of_week, event_date, start_time,
                duration_min, capacity, lang, meeting_point_id, price_adult,
                price_child, is_active)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q,
        s.ProductID, s.Type, s.DayOfWeek, s.EventDate, s.StartTime,
        s.DurationMin, s.Capacity, s.Lang, s.MeetingPointID, s.PriceAdult,
        s.PriceChild, s.IsActive)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    s.ID = id
    return nil
}

// Update rewrites the mutable columns of a schedule.  ErrNotFound is
// returned when the row does not exist.
func (r *ScheduleRepo) Update(ctx context.Context, s *model.Schedule) error {
    const q = `UPDATE schedules SET
                 schedule_type = ?, day_of_week = ?, event_date = ?,
                 start_time = ?, duration_min = ?, capacity = ?, lang = ?,
                 meeting_point_id = ?, price_adult = ?, price_child = ?,
                 is_active = ?
               WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q,
        s.Type, s.DayOfWeek, s.EventDate,
        s.StartTime, s.DurationMin, s.Capacity, s.Lang,
        s.MeetingPointID, s.PriceAdult, s.PriceChild,
        s.IsActive, s.ID)
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

// Deactivate soft-disables a schedule.  Admin flows never hard-delete
// schedules because bookings reference them indirectly through their
// date/time.
func (r *ScheduleRepo) Deactivate(ctx context.Context, id int64) error {
    res, err := r.db.ExecContext(ctx, `UPDATE schedules SET is_active = 0 WHERE id = ?`, id)
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

// rowScanner abstracts *sql.Row and *sql.Rows so scan helpers can serve
// both single-row and multi-row queries.
type rowScanner interface {
    Scan(dest ...interface{}) error
}

func scanSchedule(rs rowScanner) (model.Schedule, error) {
    var (
        s         model.Schedule
        dayOfWeek sql.NullInt64
        eventDate sql.NullString
    )
    err := rs.Scan(
        &s.ID, &s.ProductID, &s.Type, &dayOfWeek, &eventDate,
        &s.StartTime, &s.DurationMin, &s.Capacity, &s.Lang, &s.MeetingPointID,
        &s.PriceAdult, &s.PriceChild, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
    )
    if err != nil {
        return model.Schedule{}, err
    }
    if dayOfWeek.Valid {
        d := int(dayOfWeek.Int64)
        s.DayOfWeek = &d
    }
    if eventDate.Valid {
        ed := eventDate.String
        s.EventDate = &ed
    }
    return s, nil
}
