package handler

import (
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/franpass87/experience-booking/internal/model"
    "github.com/franpass87/experience-booking/internal/repository"
    "github.com/franpass87/experience-booking/internal/service"
)

// AdminScheduleHandler provides schedule CRUD for staff users.  Schedule
// mutations invalidate the product's whole availability cache footprint
// because a recurring schedule touches every future date.
type AdminScheduleHandler struct {
    Schedules *repository.ScheduleRepo
    Cache     service.ProductCacheInvalidator
}

// NewAdminScheduleHandler constructs an AdminScheduleHandler.
func NewAdminScheduleHandler(schedules *repository.ScheduleRepo, cache service.ProductCacheInvalidator) *AdminScheduleHandler {
    if schedules == nil {
        panic("nil schedule repo passed to NewAdminScheduleHandler")
    }
    return &AdminScheduleHandler{Schedules: schedules, Cache: cache}
}

// scheduleRequest is the JSON body for creating or updating a schedule.
type scheduleRequest struct {
    ProductID      int64   `json:"product_id"`
    Type           string  `json:"type"`
    DayOfWeek      *int    `json:"day_of_week"`
    EventDate      *string `json:"event_date"`
    StartTime      string  `json:"start_time"`
    DurationMin    int     `json:"duration_min"`
    Capacity       int     `json:"capacity"`
    Lang           string  `json:"lang"`
    MeetingPointID int64   `json:"meeting_point_id"`
    PriceAdult     float64 `json:"price_adult"`
    PriceChild     float64 `json:"price_child"`
    IsActive       *bool   `json:"is_active"`
}

func (req *scheduleRequest) validate() string {
    if req.ProductID <= 0 {
        return "product_id is required"
    }
    switch req.Type {
    case model.ScheduleTypeRecurring:
        if req.DayOfWeek == nil || *req.DayOfWeek < 0 || *req.DayOfWeek > 6 {
            return "day_of_week must be 0-6 for recurring schedules"
        }
    case model.ScheduleTypeFixed:
        if req.EventDate == nil || *req.EventDate == "" {
            return "event_date is required for fixed schedules"
        }
    default:
        return "type must be recurring or fixed"
    }
    if req.StartTime == "" {
        return "start_time is required"
    }
    if req.DurationMin < 1 {
        return "duration_min must be at least 1"
    }
    if req.Capacity < 0 {
        return "capacity cannot be negative"
    }
    return ""
}

func (req *scheduleRequest) toModel() model.Schedule {
    active := true
    if req.IsActive != nil {
        active = *req.IsActive
    }
    return model.Schedule{
        ProductID:      req.ProductID,
        Type:           req.Type,
        DayOfWeek:      req.DayOfWeek,
        EventDate:      req.EventDate,
        StartTime:      req.StartTime,
        DurationMin:    req.DurationMin,
        Capacity:       req.Capacity,
        Lang:           req.Lang,
        MeetingPointID: req.MeetingPointID,
        PriceAdult:     req.PriceAdult,
        PriceChild:     req.PriceChild,
        IsActive:       active,
    }
}

// List handles GET /v1/admin/schedules?product_id=.
func (h *AdminScheduleHandler) List(c echo.Context) error {
    productID, err := strconv.ParseInt(c.QueryParam("product_id"), 10, 64)
    if err != nil || productID <= 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id is required"})
    }
    list, err := h.Schedules.ListByProduct(c.Request().Context(), productID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"schedules": list, "count": len(list)})
}

// Create handles POST /v1/admin/schedules.
func (h *AdminScheduleHandler) Create(c echo.Context) error {
    var req scheduleRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if msg := req.validate(); msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    s := req.toModel()
    if err := h.Schedules.Create(c.Request().Context(), &s); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    h.invalidate(c, s.ProductID)
    return c.JSON(http.StatusCreated, s)
}

// Update handles PUT /v1/admin/schedules/:id.
func (h *AdminScheduleHandler) Update(c echo.Context) error {
    id, err := strconv.ParseInt(c.Param("id"), 10, 64)
    if err != nil || id <= 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
    }
    var req scheduleRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if msg := req.validate(); msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    s := req.toModel()
    s.ID = id
    if err := h.Schedules.Update(c.Request().Context(), &s); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    h.invalidate(c, s.ProductID)
    return c.JSON(http.StatusOK, s)
}

// Deactivate handles DELETE /v1/admin/schedules/:id.  Schedules are
// soft-disabled, not removed, so historical bookings keep their context.
func (h *AdminScheduleHandler) Deactivate(c echo.Context) error {
    id, err := strconv.ParseInt(c.Param("id"), 10, 64)
    if err != nil || id <= 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
    }
    s, err := h.Schedules.GetByID(c.Request().Context(), id)
    if errors.Is(err, repository.ErrNotFound) {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
    }
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if err := h.Schedules.Deactivate(c.Request().Context(), id); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    h.invalidate(c, s.ProductID)
    return c.JSON(http.StatusOK, echo.Map{"message": "schedule deactivated"})
}

func (h *AdminScheduleHandler) invalidate(c echo.Context, productID int64) {
    if h.Cache != nil {
        h.Cache.InvalidateProduct(c.Request().Context(), productID)
    }
}
