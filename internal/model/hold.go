package model

import "time"

// Hold represents a temporary claim on capacity units for a slot during
// the checkout process.  Holds prevent concurrent shoppers from grabbing
// the same capacity while one of them is completing a purchase.  Holds
// expire automatically at their expires_at timestamp; only one live hold
// may exist per (session, product, slot) at a time.
//
// Fields:
//  ID        – primary key identifier.
//  SessionID – opaque identifier of the shopper's session.
//  ProductID – product whose capacity is held.
//  SlotStart – slot start datetime (minute precision, UTC).
//  Qty       – number of capacity units held.
//  ExpiresAt – when the hold expires.
//  CreatedAt – when the hold was created.
type Hold struct {
    ID        int64     // exp_holds.id
    SessionID string    // exp_holds.session_id
    ProductID int64     // exp_holds.product_id
    SlotStart time.Time // exp_holds.slot_start
    Qty       int       // exp_holds.qty
    ExpiresAt time.Time // exp_holds.expires_at
    CreatedAt time.Time // exp_holds.created_at
}
