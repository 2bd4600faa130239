package handler

import (
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/franpass87/experience-booking/internal/repository"
)

// CatalogHandler exposes the public read-only catalog endpoints: product
// lookup and meeting point listing.  Storefront widgets use these to
// label the availability data.
type CatalogHandler struct {
    Products      *repository.ProductRepo
    MeetingPoints *repository.MeetingPointRepo
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(products *repository.ProductRepo, meetingPoints *repository.MeetingPointRepo) *CatalogHandler {
    if products == nil || meetingPoints == nil {
        panic("nil dependency passed to NewCatalogHandler")
    }
    return &CatalogHandler{Products: products, MeetingPoints: meetingPoints}
}

// GetProduct handles GET /v1/products/:id.
func (h *CatalogHandler) GetProduct(c echo.Context) error {
    id, err := strconv.ParseInt(c.Param("id"), 10, 64)
    if err != nil || id <= 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
    }
    p, err := h.Products.GetByID(c.Request().Context(), id)
    if errors.Is(err, repository.ErrNotFound) {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
    }
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, p)
}

// ListMeetingPoints handles GET /v1/meeting-points.
func (h *CatalogHandler) ListMeetingPoints(c echo.Context) error {
    list, err := h.MeetingPoints.List(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"meeting_points": list, "count": len(list)})
}

// GetMeetingPoint handles GET /v1/meeting-points/:id.
func (h *CatalogHandler) GetMeetingPoint(c echo.Context) error {
    id, err := strconv.ParseInt(c.Param("id"), 10, 64)
    if err != nil || id <= 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid meeting point id"})
    }
    mp, err := h.MeetingPoints.GetByID(c.Request().Context(), id)
    if errors.Is(err, repository.ErrNotFound) {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "meeting point not found"})
    }
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, mp)
}
