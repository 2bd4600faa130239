// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// Event types carried in BookingEvent.Type and OverrideEvent.Type.
const (
    EventBookingCreated   = "booking.created"
    EventBookingCancelled = "booking.cancelled"
    EventBookingRefunded  = "booking.refunded"
    EventOverrideSaved    = "override.saved"
    EventOverrideDeleted  = "override.deleted"
)

// BookingEvent is published whenever a booking is created or changes
// status.  It contains enough information for downstream consumers
// (webhooks, notifications, analytics) to act without querying the
// primary database.  Every event carries the (product_id, date) pair
// cache invalidation keys on.
type BookingEvent struct {
    Type           string `json:"type"`
    BookingID      int64  `json:"booking_id"`
    OrderID        int64  `json:"order_id"`
    OrderItemID    int64  `json:"order_item_id"`
    ProductID      int64  `json:"product_id"`
    Date           string `json:"date"`
    Time           string `json:"time"`
    Adults         int    `json:"adults"`
    Children       int    `json:"children"`
    MeetingPointID int64  `json:"meeting_point_id"`
    Status         string `json:"status"`
    OccurredAt     string `json:"occurred_at"`
}

// OverrideEvent is published when a date override is saved or deleted.
type OverrideEvent struct {
    Type       string `json:"type"`
    ProductID  int64  `json:"product_id"`
    Date       string `json:"date"`
    IsClosed   bool   `json:"is_closed"`
    Reason     string `json:"reason,omitempty"`
    OccurredAt string `json:"occurred_at"`
}
