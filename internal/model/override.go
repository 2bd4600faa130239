package model

import "time"

// Override represents a per-product, per-date exception to the recurring
// schedule.  At most one override exists per (product, date) – the table
// carries a unique constraint on that pair.  When IsClosed is set the day
// has zero slots regardless of schedules.  CapacityOverride and the price
// override fields replace the schedule values per-field when present.
//
// Fields:
//  ID               – primary key identifier.
//  ProductID        – product the override applies to.
//  Date             – calendar date (YYYY-MM-DD).
//  IsClosed         – the whole day is closed when true.
//  CapacityOverride – replaces schedule capacity when non-nil.
//  PriceOverride    – optional adult/child price replacements (stored as JSON).
//  Reason           – free-form admin note.
type Override struct {
    ID               int64          // overrides.id
    ProductID        int64          // overrides.product_id
    Date             string         // overrides.date (YYYY-MM-DD)
    IsClosed         bool           // overrides.is_closed
    CapacityOverride *int           // overrides.capacity_override (nullable)
    PriceOverride    *PriceOverride // overrides.price_override_json (nullable)
    Reason           string         // overrides.reason
    CreatedAt        time.Time      // overrides.created_at
    UpdatedAt        time.Time      // overrides.updated_at
}

// PriceOverride carries optional per-field price replacements.  A nil
// pointer means "keep the schedule price".
type PriceOverride struct {
    Adult *float64 `json:"adult,omitempty"`
    Child *float64 `json:"child,omitempty"`
}
