package repository

import (
    "context"
    "database/sql"
    "encoding/json"

    "github.com/franpass87/experience-booking/internal/model"
)

// OverrideRepo provides data access to the overrides table.  The table
// has a unique constraint on (product_id, date), so Save is an upsert.
// The price override is stored as a JSON column with optional adult and
// child keys; parsing failures are treated as "no price override" rather
// than surfacing an error, since a malformed row must not take a whole
// day offline.
type OverrideRepo struct {
    db *sql.DB
}

// NewOverrideRepo returns a new OverrideRepo bound to the provided database.
func NewOverrideRepo(db *sql.DB) *OverrideRepo { return &OverrideRepo{db: db} }

// ByProductDate returns the override for a product and date, or (nil, nil)
// when none exists.  The availability engine calls this on every cache
// miss, so the query is a single indexed point lookup.
func (r *OverrideRepo) ByProductDate(ctx context.Context, productID int64, date string) (*model.Override, error) {
    const q = `SELECT id, product_id, date, is_closed, capacity_override,
                      price_override_json, reason, created_at, updated_at
               FROM overrides
               WHERE product_id = ? AND date = ?`
    var (
        o        model.Override
        capOvr   sql.NullInt64
        priceRaw sql.NullString
    )
    err := r.db.QueryRowContext(ctx, q, productID, date).Scan(
        &o.ID, &o.ProductID, &o.Date, &o.IsClosed, &capOvr,
        &priceRaw, &o.Reason, &o.CreatedAt, &o.UpdatedAt,
    )
    if err == sql.ErrNoRows {
        return nil, nil
    }
    if err != nil {
        return nil, err
    }
    if capOvr.Valid {
        c := int(capOvr.Int64)
        o.CapacityOverride = &c
    }
    if priceRaw.Valid && priceRaw.String != "" {
        var po model.PriceOverride
        if err := json.Unmarshal([]byte(priceRaw.String), &po); err == nil {
            o.PriceOverride = &po
        }
    }
    return &o, nil
}

// ListByProduct returns all overrides for a product ordered by date.
func (r *OverrideRepo) ListByProduct(ctx context.Context, productID int64) ([]model.Override, error) {
    const q = `SELECT id, product_id, date, is_closed, capacity_override,
                      price_override_json, reason, created_at, updated_at
               FROM overrides
               WHERE product_id = ?
               ORDER BY date`
    rows, err := r.db.QueryContext(ctx, q, productID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Override, 0)
    for rows.Next() {
        var (
            o        model.Override
            capOvr   sql.NullInt64
            priceRaw sql.NullString
        )
        if err := rows.Scan(
            &o.ID, &o.ProductID, &o.Date, &o.IsClosed, &capOvr,
            &priceRaw, &o.Reason, &o.CreatedAt, &o.UpdatedAt,
        ); err != nil {
            return nil, err
        }
        if capOvr.Valid {
            c := int(capOvr.Int64)
            o.CapacityOverride = &c
        }
        if priceRaw.Valid && priceRaw.String != "" {
            var po model.PriceOverride
            if err := json.Unmarshal([]byte(priceRaw.String), &po); err == nil {
                o.PriceOverride = &po
            }
        }
        out = append(out, o)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Save upserts the override for (product, date).  The unique key on the
// pair makes the insert collapse into an update when a row already
// exists.  The generated or existing row ID is not reported back; save
// callers only need success to trigger cache invalidation.
func (r *OverrideRepo) Save(ctx context.Context, o *model.Override) error {
    var priceJSON interface{}
    if o.PriceOverride != nil {
        b, err := json.Marshal(o.PriceOverride)
        if err != nil {
            return err
        }
        priceJSON = string(b)
    }
    const q = `INSERT INTO overrides
               (product_id, date, is_closed, capacity_override, price_override_json, reason)
               VALUES (?, ?, ?, ?, ?, ?)
               ON DUPLICATE KEY UPDATE
                 is_closed = VALUES(is_closed),
                 capacity_override = VALUES(capacity_override),
                 price_override_json = VALUES(price_override_json),
                 reason = VALUES(reason)`
    _, err := r.db.ExecContext(ctx, q,
        o.ProductID, o.Date, o.IsClosed, o.CapacityOverride, priceJSON, o.Reason)
    return err
}

// Delete removes the override for (product, date).  ErrNotFound is
// returned when no override existed.
func (r *OverrideRepo) Delete(ctx context.Context, productID int64, date string) error {
    res, err := r.db.ExecContext(ctx,
        `DELETE FROM overrides WHERE product_id = ? AND date = ?`,
        productID, date)
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
