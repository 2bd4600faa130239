package repository

import (
    "context"
    "database/sql"

    "github.com/franpass87/experience-booking/internal/model"
)

// ProductRepo provides read access to the products table.  The core
// engine only needs product IDs (for the cache pre-builder walk) and an
// existence check; descriptive product content is owned by the
// storefront.
type ProductRepo struct {
    db *sql.DB
}

// NewProductRepo returns a new ProductRepo bound to the provided database.
func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{db: db} }

// ActiveIDs returns a page of active product IDs ordered by ID.  The
// pre-builder walks products in pages so a large catalog does not load
// into memory at once.
func (r *ProductRepo) ActiveIDs(ctx context.Context, offset, limit int) ([]int64, error) {
    const q = `SELECT id FROM products WHERE is_active = 1 ORDER BY id LIMIT ? OFFSET ?`
    rows, err := r.db.QueryContext(ctx, q, limit, offset)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var ids []int64
    for rows.Next() {
        var id int64
        if err := rows.Scan(&id); err != nil {
            return nil, err
        }
        ids = append(ids, id)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return ids, nil
}

// GetByID returns a product row.  ErrNotFound when absent.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*model.Product, error) {
    var p model.Product
    err := r.db.QueryRowContext(ctx,
        `SELECT id, name, is_active FROM products WHERE id = ?`, id,
    ).Scan(&p.ID, &p.Name, &p.IsActive)
    if err == sql.ErrNoRows {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    return &p, nil
}
