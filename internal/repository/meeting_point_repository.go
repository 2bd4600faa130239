package repository

import (
    "context"
    "database/sql"

    "github.com/franpass87/experience-booking/internal/model"
)

// MeetingPointRepo provides read access to the meeting_points table.
type MeetingPointRepo struct {
    db *sql.DB
}

// NewMeetingPointRepo returns a new MeetingPointRepo bound to the provided database.
func NewMeetingPointRepo(db *sql.DB) *MeetingPointRepo { return &MeetingPointRepo{db: db} }

// GetByID returns a meeting point.  ErrNotFound when absent.
func (r *MeetingPointRepo) GetByID(ctx context.Context, id int64) (*model.MeetingPoint, error) {
    var mp model.MeetingPoint
    err := r.db.QueryRowContext(ctx,
        `SELECT id, name, address, lat, lng, note FROM meeting_points WHERE id = ?`, id,
    ).Scan(&mp.ID, &mp.Name, &mp.Address, &mp.Lat, &mp.Lng, &mp.Note)
    if err == sql.ErrNoRows {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    return &mp, nil
}

// List returns all meeting points ordered by name.
func (r *MeetingPointRepo) List(ctx context.Context) ([]model.MeetingPoint, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, name, address, lat, lng, note FROM meeting_points ORDER BY name`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.MeetingPoint, 0)
    for rows.Next() {
        var mp model.MeetingPoint
        if err := rows.Scan(&mp.ID, &mp.Name, &mp.Address, &mp.Lat, &mp.Lng, &mp.Note); err != nil {
            return nil, err
        }
        out = append(out, mp)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}
