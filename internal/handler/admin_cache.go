package handler

import (
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/franpass87/experience-booking/internal/cache"
)

// AdminCacheHandler exposes cache maintenance operations.  Used after
// bulk data imports, when per-mutation invalidation never fired.
type AdminCacheHandler struct {
    Cache *cache.Manager
}

// NewAdminCacheHandler constructs an AdminCacheHandler.
func NewAdminCacheHandler(c *cache.Manager) *AdminCacheHandler {
    if c == nil {
        panic("nil cache manager passed to NewAdminCacheHandler")
    }
    return &AdminCacheHandler{Cache: c}
}

// Clear handles POST /v1/admin/cache/clear.  With a product_id query
// param only that product's entries are dropped; without one the whole
// availability keyspace goes.
func (h *AdminCacheHandler) Clear(c echo.Context) error {
    if raw := c.QueryParam("product_id"); raw != "" {
        productID, err := strconv.ParseInt(raw, 10, 64)
        if err != nil || productID <= 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
        }
        n := h.Cache.InvalidateProduct(c.Request().Context(), productID)
        return c.JSON(http.StatusOK, echo.Map{"removed": n})
    }
    n := h.Cache.ClearAll(c.Request().Context())
    return c.JSON(http.StatusOK, echo.Map{"removed": n})
}
