package model

import "time"

// Booking statuses.  Confirmed and pending bookings both consume capacity;
// cancelled and refunded bookings release it.
const (
    BookingStatusConfirmed = "confirmed"
    BookingStatusPending   = "pending"
    BookingStatusCancelled = "cancelled"
    BookingStatusRefunded  = "refunded"
)

// Booking represents a durable reservation of capacity for an experience,
// created from a converted hold or a direct atomic capacity check.  The
// (OrderID, OrderItemID) pair is unique per booking.
//
// Fields:
//  ID             – primary key identifier.
//  OrderID        – external order identifier.
//  OrderItemID    – line item within the order.
//  ProductID      – booked experience product.
//  BookingDate    – date of the slot (YYYY-MM-DD).
//  BookingTime    – start time of the slot ("HH:MM").
//  Adults         – adult guest count.
//  Children       – child guest count.
//  MeetingPointID – meeting point for the slot.
//  Status         – one of the BookingStatus* constants.
type Booking struct {
    ID             int64     // bookings.id
    OrderID        int64     // bookings.order_id
    OrderItemID    int64     // bookings.order_item_id
    ProductID      int64     // bookings.product_id
    BookingDate    string    // bookings.booking_date (YYYY-MM-DD)
    BookingTime    string    // bookings.booking_time ("HH:MM")
    Adults         int       // bookings.adults
    Children       int       // bookings.children
    MeetingPointID int64     // bookings.meeting_point_id
    Status         string    // bookings.status
    CreatedAt      time.Time // bookings.created_at
    UpdatedAt      time.Time // bookings.updated_at
}

// Guests returns the total number of capacity units the booking consumes.
func (b Booking) Guests() int { return b.Adults + b.Children }
