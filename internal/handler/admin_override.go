package handler

import (
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/franpass87/experience-booking/internal/model"
    "github.com/franpass87/experience-booking/internal/queue"
    "github.com/franpass87/experience-booking/internal/repository"
    "github.com/franpass87/experience-booking/internal/service"
)

// AdminOverrideHandler provides the date override endpoints for staff
// users.  Saving or deleting an override invalidates the cached
// availability for that exact (product, date) and publishes an event.
type AdminOverrideHandler struct {
    Overrides *repository.OverrideRepo
    Cache     service.CacheInvalidator
}

// NewAdminOverrideHandler constructs an AdminOverrideHandler.
func NewAdminOverrideHandler(overrides *repository.OverrideRepo, cache service.CacheInvalidator) *AdminOverrideHandler {
    if overrides == nil {
        panic("nil override repo passed to NewAdminOverrideHandler")
    }
    return &AdminOverrideHandler{Overrides: overrides, Cache: cache}
}

// overrideRequest is the JSON body for saving an override.
type overrideRequest struct {
    ProductID        int64    `json:"product_id"`
    Date             string   `json:"date"`
    IsClosed         bool     `json:"is_closed"`
    CapacityOverride *int     `json:"capacity_override"`
    PriceAdult       *float64 `json:"price_adult"`
    PriceChild       *float64 `json:"price_child"`
    Reason           string   `json:"reason"`
}

// List handles GET /v1/admin/overrides?product_id=.
func (h *AdminOverrideHandler) List(c echo.Context) error {
    productID, err := strconv.ParseInt(c.QueryParam("product_id"), 10, 64)
    if err != nil || productID <= 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id is required"})
    }
    list, err := h.Overrides.ListByProduct(c.Request().Context(), productID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"overrides": list, "count": len(list)})
}

// Save handles PUT /v1/admin/overrides.  The upsert keeps at most one
// override per (product, date).
func (h *AdminOverrideHandler) Save(c echo.Context) error {
    var req overrideRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.ProductID <= 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id is required"})
    }
    if _, err := time.Parse("2006-01-02", req.Date); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
    }
    if req.CapacityOverride != nil && *req.CapacityOverride < 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity_override cannot be negative"})
    }
    o := model.Override{
        ProductID:        req.ProductID,
        Date:             req.Date,
        IsClosed:         req.IsClosed,
        CapacityOverride: req.CapacityOverride,
        Reason:           req.Reason,
    }
    if req.PriceAdult != nil || req.PriceChild != nil {
        o.PriceOverride = &model.PriceOverride{Adult: req.PriceAdult, Child: req.PriceChild}
    }
    if err := h.Overrides.Save(c.Request().Context(), &o); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    if h.Cache != nil {
        h.Cache.Invalidate(c.Request().Context(), o.ProductID, o.Date)
    }
    _ = queue.PublishOverrideEvent(c.Request().Context(), queue.OverrideEvent{
        Type:      queue.EventOverrideSaved,
        ProductID: o.ProductID,
        Date:      o.Date,
        IsClosed:  o.IsClosed,
        Reason:    o.Reason,
    })
    return c.JSON(http.StatusOK, o)
}

// Delete handles DELETE /v1/admin/overrides?product_id=&date=.  Deleting
// an override that does not exist still succeeds; the cache entry is
// dropped either way.
func (h *AdminOverrideHandler) Delete(c echo.Context) error {
    productID, err := strconv.ParseInt(c.QueryParam("product_id"), 10, 64)
    if err != nil || productID <= 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id is required"})
    }
    date := c.QueryParam("date")
    if _, err := time.Parse("2006-01-02", date); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
    }
    if err := h.Overrides.Delete(c.Request().Context(), productID, date); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    if h.Cache != nil {
        h.Cache.Invalidate(c.Request().Context(), productID, date)
    }
    _ = queue.PublishOverrideEvent(c.Request().Context(), queue.OverrideEvent{
        Type:      queue.EventOverrideDeleted,
        ProductID: productID,
        Date:      date,
    })
    return c.JSON(http.StatusOK, echo.Map{"message": "override removed"})
}
