package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/franpass87/experience-booking/internal/middleware"
    "github.com/franpass87/experience-booking/internal/service"
)

// HoldHandler exposes the shopper-facing hold endpoints.  Holds are
// keyed by the opaque session id resolved by the session middleware.
type HoldHandler struct {
    Holds *service.HoldManager
}

// NewHoldHandler constructs a HoldHandler.
func NewHoldHandler(holds *service.HoldManager) *HoldHandler {
    if holds == nil {
        panic("nil hold manager passed to NewHoldHandler")
    }
    return &HoldHandler{Holds: holds}
}

// holdRequest is the JSON body for creating or releasing a hold.
type holdRequest struct {
    ProductID int64  `json:"product_id"`
    SlotStart string `json:"slot_start"` // "YYYY-MM-DD HH:MM", site-local
    Qty       int    `json:"qty"`
}

// Create handles POST /v1/holds.  Business failures (disabled subsystem,
// bad slot time, zero quantity) come back as 409 with the manager's
// message; only unexpected input shape is a 400.
func (h *HoldHandler) Create(c echo.Context) error {
    var req holdRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.ProductID <= 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id is required"})
    }
    res := h.Holds.CreateHold(c.Request().Context(), req.ProductID, req.SlotStart, req.Qty, middleware.SessionID(c))
    if !res.Success {
        return c.JSON(http.StatusConflict, res)
    }
    return c.JSON(http.StatusCreated, res)
}

// Release handles DELETE /v1/holds.  Releasing a hold that already
// expired or never existed still succeeds.
func (h *HoldHandler) Release(c echo.Context) error {
    var req holdRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.ProductID <= 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id is required"})
    }
    res := h.Holds.ReleaseHold(c.Request().Context(), req.ProductID, req.SlotStart, middleware.SessionID(c))
    if !res.Success {
        return c.JSON(http.StatusConflict, res)
    }
    return c.JSON(http.StatusOK, res)
}
