package handler

import (
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/franpass87/experience-booking/internal/service"
)

// AvailabilityHandler exposes the public slot listing and price quote
// endpoints.  Both ride on the availability service, so they benefit
// from the cache and see live hold deductions.
type AvailabilityHandler struct {
    Avail *service.Availability
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(avail *service.Availability) *AvailabilityHandler {
    if avail == nil {
        panic("nil availability service passed to NewAvailabilityHandler")
    }
    return &AvailabilityHandler{Avail: avail}
}

// GetDay handles GET /v1/products/:id/availability?date=YYYY-MM-DD.  It
// returns the ordered slot list for the product and date.  A malformed
// date is a 400, not an empty list, so clients can distinguish bad input
// from a day with nothing bookable.
func (h *AvailabilityHandler) GetDay(c echo.Context) error {
    productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
    if err != nil || productID <= 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
    }
    date := c.QueryParam("date")
    if date == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "date is required"})
    }
    slots, err := h.Avail.ForDay(c.Request().Context(), productID, date)
    if err != nil {
        if errors.Is(err, service.ErrInvalidDate) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "product_id": productID,
        "date":       date,
        "slots":      slots,
    })
}

// GetQuote handles GET /v1/products/:id/quote?date=...&time=...&adults=N&children=N.
// It prices a specific slot for a known party size, letting group rules
// participate.
func (h *AvailabilityHandler) GetQuote(c echo.Context) error {
    productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
    if err != nil || productID <= 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
    }
    date := c.QueryParam("date")
    startTime := c.QueryParam("time")
    if date == "" || startTime == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "date and time are required"})
    }
    adults, _ := strconv.Atoi(c.QueryParam("adults"))
    children, _ := strconv.Atoi(c.QueryParam("children"))
    if adults < 0 || children < 0 || adults+children < 1 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one guest is required"})
    }
    adult, child, found, err := h.Avail.Quote(c.Request().Context(), productID, date, startTime, adults, children)
    if err != nil {
        if errors.Is(err, service.ErrInvalidDate) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if !found {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "no such slot"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "adult_price": adult,
        "child_price": child,
        "total":       adult*float64(adults) + child*float64(children),
    })
}
