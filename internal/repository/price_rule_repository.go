package repository

import (
    "context"
    "database/sql"

    "github.com/franpass87/experience-booking/internal/model"
)

// PriceRuleRepo provides data access to the price_rules table consumed
// by the dynamic pricing engine.
type PriceRuleRepo struct {
    db *sql.DB
}

// NewPriceRuleRepo returns a new PriceRuleRepo bound to the provided database.
func NewPriceRuleRepo(db *sql.DB) *PriceRuleRepo { return &PriceRuleRepo{db: db} }

const priceRuleColumns = `id, product_id, rule_type, priority, date_start, date_end,
       applicability, days_before, min_participants, adjustment_type,
       adult_adjustment, child_adjustment, is_active, created_at, updated_at`

// ActiveByProduct returns the active rules for a product ordered by
// priority.  The engine re-sorts with its type tie-break, but a stable
// DB ordering keeps results deterministic across requests.
func (r *PriceRuleRepo) ActiveByProduct(ctx context.Context, productID int64) ([]model.PriceRule, error) {
    const q = `SELECT ` + priceRuleColumns + `
               FROM price_rules
               WHERE product_id = ? AND is_active = 1
               ORDER BY priority, id`
    rows, err := r.db.QueryContext(ctx, q, productID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.PriceRule
    for rows.Next() {
        pr, err := scanPriceRule(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, pr)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// ListByProduct returns every rule for a product for the admin screens.
func (r *PriceRuleRepo) ListByProduct(ctx context.Context, productID int64) ([]model.PriceRule, error) {
    const q = `SELECT ` + priceRuleColumns + `
               FROM price_rules
               WHERE product_id = ?
               ORDER BY priority, id`
    rows, err := r.db.QueryContext(ctx, q, productID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.PriceRule, 0)
    for rows.Next() {
        pr, err := scanPriceRule(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, pr)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Create inserts a rule and populates its generated ID.
func (r *PriceRuleRepo) Create(ctx context.Context, pr *model.PriceRule) error {
    const q = `INSERT INTO price_rules
               (product_id, rule_type, priority, date_start, date_end,
                applicability, days_before, min_participants, adjustment_type,
                adult_adjustment, child_adjustment, is_active)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q,
        pr.ProductID, pr.Type, pr.Priority, pr.DateStart, pr.DateEnd,
        pr.Applicability, pr.DaysBefore, pr.MinParticipants, pr.AdjustmentType,
        pr.AdultAdjustment, pr.ChildAdjustment, pr.IsActive)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    pr.ID = id
    return nil
}

// Update rewrites the mutable columns of a rule.  ErrNotFound when the
// row does not exist.
func (r *PriceRuleRepo) Update(ctx context.Context, pr *model.PriceRule) error {
    const q = `UPDATE price_rules SET
                 rule_type = ?, priority = ?, date_start = ?, date_end = ?,
                 applicability = ?, days_before = ?, min_participants = ?,
                 adjustment_type = ?, adult_adjustment = ?, child_adjustment = ?,
                 is_active = ?
               WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q,
        pr.Type, pr.Priority, pr.DateStart, pr.DateEnd,
        pr.Applicability, pr.DaysBefore, pr.MinParticipants,
        pr.AdjustmentType, pr.AdultAdjustment, pr.ChildAdjustment,
        pr.IsActive, pr.ID)
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

// Delete removes a rule.  ErrNotFound when absent.
func (r *PriceRuleRepo) Delete(ctx context.Context, id int64) error {
    res, err := r.db.ExecContext(ctx, `DELETE FROM price_rules WHERE id = ?`, id)
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

func scanPriceRule(rs rowScanner) (model.PriceRule, error) {
    var (
        pr        model.PriceRule
        dateStart sql.NullString
        dateEnd   sql.NullString
        applies   sql.NullString
        daysBef   sql.NullInt64
        minPart   sql.NullInt64
    )
    err := rs.Scan(
        &pr.ID, &pr.ProductID, &pr.Type, &pr.Priority, &dateStart, &dateEnd,
        &applies, &daysBef, &minPart, &pr.AdjustmentType,
        &pr.AdultAdjustment, &pr.ChildAdjustment, &pr.IsActive,
        &pr.CreatedAt, &pr.UpdatedAt,
    )
    if err != nil {
        return model.PriceRule{}, err
    }
    if dateStart.Valid {
        s := dateStart.String
        pr.DateStart = &s
    }
    if dateEnd.Valid {
        s := dateEnd.String
        pr.DateEnd = &s
    }
    if applies.Valid {
        pr.Applicability = applies.String
    }
    if daysBef.Valid {
        d := int(daysBef.Int64)
        pr.DaysBefore = &d
    }
    if minPart.Valid {
        m := int(minPart.Int64)
        pr.MinParticipants = &m
    }
    return pr, nil
}
