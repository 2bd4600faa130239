package handler

import (
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/franpass87/experience-booking/internal/middleware"
    "github.com/franpass87/experience-booking/internal/model"
    "github.com/franpass87/experience-booking/internal/queue"
    "github.com/franpass87/experience-booking/internal/repository"
    "github.com/franpass87/experience-booking/internal/service"
)

// BookingHandler exposes the booking conversion endpoint plus the admin
// manifest and status-transition endpoints.
type BookingHandler struct {
    Holds    *service.HoldManager
    Bookings *repository.BookingRepo
    Cache    service.CacheInvalidator
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(holds *service.HoldManager, bookings *repository.BookingRepo, cache service.CacheInvalidator) *BookingHandler {
    if holds == nil || bookings == nil {
        panic("nil dependency passed to NewBookingHandler")
    }
    return &BookingHandler{Holds: holds, Bookings: bookings, Cache: cache}
}

// bookingRequest is the JSON body for converting a hold into a booking.
type bookingRequest struct {
    ProductID      int64  `json:"product_id"`
    SlotStart      string `json:"slot_start"` // "YYYY-MM-DD HH:MM", site-local
    OrderID        int64  `json:"order_id"`
    OrderItemID    int64  `json:"order_item_id"`
    Adults         int    `json:"adults"`
    Children       int    `json:"children"`
    MeetingPointID int64  `json:"meeting_point_id"`
    Status         string `json:"status"` // optional; defaults to confirmed
}

// Create handles POST /v1/bookings: it converts the caller's hold for
// the slot into a durable booking.  On success a booking.created event
// is published; a publish failure is swallowed because the booking has
// already committed.
func (h *BookingHandler) Create(c echo.Context) error {
    var req bookingRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.ProductID <= 0 || req.OrderID <= 0 || req.OrderItemID <= 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id, order_id and order_item_id are required"})
    }
    data := model.Booking{
        OrderID:        req.OrderID,
        OrderItemID:    req.OrderItemID,
        Adults:         req.Adults,
        Children:       req.Children,
        MeetingPointID: req.MeetingPointID,
        Status:         req.Status,
    }
    res := h.Holds.ConvertHoldToBooking(c.Request().Context(), req.ProductID, req.SlotStart, middleware.SessionID(c), data)
    if !res.Success {
        return c.JSON(http.StatusConflict, res)
    }

    booked, err := h.Bookings.GetByID(c.Request().Context(), res.BookingID)
    if err == nil {
        _ = queue.PublishBookingEvent(c.Request().Context(), queue.BookingEvent{
            Type:           queue.EventBookingCreated,
            BookingID:      booked.ID,
            OrderID:        booked.OrderID,
            OrderItemID:    booked.OrderItemID,
            ProductID:      booked.ProductID,
            Date:           booked.BookingDate,
            Time:           booked.BookingTime,
            Adults:         booked.Adults,
            Children:       booked.Children,
            MeetingPointID: booked.MeetingPointID,
            Status:         booked.Status,
        })
    }
    return c.JSON(http.StatusCreated, res)
}

// Get handles GET /v1/admin/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
    id, err := strconv.ParseInt(c.Param("id"), 10, 64)
    if err != nil || id <= 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    b, err := h.Bookings.GetByID(c.Request().Context(), id)
    if errors.Is(err, repository.ErrNotFound) {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
    }
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, b)
}

// List handles GET /v1/admin/bookings?product_id=&date= and returns the
// manifest for a product on a date.
func (h *BookingHandler) List(c echo.Context) error {
    productID, err := strconv.ParseInt(c.QueryParam("product_id"), 10, 64)
    if err != nil || productID <= 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id is required"})
    }
    date := c.QueryParam("date")
    if date == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "date is required"})
    }
    list, err := h.Bookings.ListByProductDate(c.Request().Context(), productID, date)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"bookings": list, "count": len(list)})
}

// statusRequest is the JSON body for a status transition.
type statusRequest struct {
    Status string `json:"status"`
}

// UpdateStatus handles PATCH /v1/admin/bookings/:id/status.  Moving a
// booking to cancelled or refunded frees capacity, so the availability
// cache entry for its slot date is dropped and an event published.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
    id, err := strconv.ParseInt(c.Param("id"), 10, 64)
    if err != nil || id <= 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    var req statusRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    switch req.Status {
    case model.BookingStatusConfirmed, model.BookingStatusPending,
        model.BookingStatusCancelled, model.BookingStatusRefunded:
    default:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
    }

    b, err := h.Bookings.UpdateStatus(c.Request().Context(), id, req.Status)
    if errors.Is(err, repository.ErrNotFound) {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
    }
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    if h.Cache != nil {
        h.Cache.Invalidate(c.Request().Context(), b.ProductID, b.BookingDate)
    }
    evType := ""
    switch req.Status {
    case model.BookingStatusCancelled:
        evType = queue.EventBookingCancelled
    case model.BookingStatusRefunded:
        evType = queue.EventBookingRefunded
    }
    if evType != "" {
        _ = queue.PublishBookingEvent(c.Request().Context(), queue.BookingEvent{
            Type:           evType,
            BookingID:      b.ID,
            OrderID:        b.OrderID,
            OrderItemID:    b.OrderItemID,
            ProductID:      b.ProductID,
            Date:           b.BookingDate,
            Time:           b.BookingTime,
            Adults:         b.Adults,
            Children:       b.Children,
            MeetingPointID: b.MeetingPointID,
            Status:         b.Status,
        })
    }
    return c.JSON(http.StatusOK, b)
}
