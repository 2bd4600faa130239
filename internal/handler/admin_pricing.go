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

// AdminPricingHandler provides price rule CRUD for staff users.  Rule
// mutations invalidate the product's whole availability cache footprint
// because cached slots carry computed prices.
type AdminPricingHandler struct {
    Rules *repository.PriceRuleRepo
    Cache service.ProductCacheInvalidator
}

// NewAdminPricingHandler constructs an AdminPricingHandler.
func NewAdminPricingHandler(rules *repository.PriceRuleRepo, cache service.ProductCacheInvalidator) *AdminPricingHandler {
    if rules == nil {
        panic("nil price rule repo passed to NewAdminPricingHandler")
    }
    return &AdminPricingHandler{Rules: rules, Cache: cache}
}

// priceRuleRequest is the JSON body for creating or updating a rule.
type priceRuleRequest struct {
    ProductID       int64   `json:"product_id"`
    Type            string  `json:"type"`
    Priority        int     `json:"priority"`
    DateStart       *string `json:"date_start"`
    DateEnd         *string `json:"date_end"`
    Applicability   string  `json:"applicability"`
    DaysBefore      *int    `json:"days_before"`
    MinParticipants *int    `json:"min_participants"`
    AdjustmentType  string  `json:"adjustment_type"`
    AdultAdjustment float64 `json:"adult_adjustment"`
    ChildAdjustment float64 `json:"child_adjustment"`
    IsActive        *bool   `json:"is_active"`
}

func (req *priceRuleRequest) validate() string {
    if req.ProductID <= 0 {
        return "product_id is required"
    }
    switch req.Type {
    case model.RuleTypeSeasonal:
        if req.DateStart == nil && req.DateEnd == nil {
            return "seasonal rules need date_start and/or date_end"
        }
    case model.RuleTypeWeekendWeekday:
        if req.Applicability != model.AppliesWeekend && req.Applicability != model.AppliesWeekday {
            return "applicability must be weekend or weekday"
        }
    case model.RuleTypeEarlyBird:
        if req.DaysBefore == nil || *req.DaysBefore < 1 {
            return "early_bird rules need days_before of at least 1"
        }
    case model.RuleTypeGroup:
        if req.MinParticipants == nil || *req.MinParticipants < 1 {
            return "group rules need min_participants of at least 1"
        }
    default:
        return "unknown rule type"
    }
    if req.AdjustmentType != model.AdjustmentPercent && req.AdjustmentType != model.AdjustmentFixed {
        return "adjustment_type must be percent or fixed"
    }
    return ""
}

func (req *priceRuleRequest) toModel() model.PriceRule {
    active := true
    if req.IsActive != nil {
        active = *req.IsActive
    }
    return model.PriceRule{
        ProductID:       req.ProductID,
        Type:            req.Type,
        Priority:        req.Priority,
        DateStart:       req.DateStart,
        DateEnd:         req.DateEnd,
        Applicability:   req.Applicability,
        DaysBefore:      req.DaysBefore,
        MinParticipants: req.MinParticipants,
        AdjustmentType:  req.AdjustmentType,
        AdultAdjustment: req.AdultAdjustment,
        ChildAdjustment: req.ChildAdjustment,
        IsActive:        active,
    }
}

// List handles GET /v1/admin/price-rules?product_id= and returns every
// rule, active or not, so staff can review disabled ones.
func (h *AdminPricingHandler) List(c echo.Context) error {
    productID, err := strconv.ParseInt(c.QueryParam("product_id"), 10, 64)
    if err != nil || productID <= 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id is required"})
    }
    list, err := h.Rules.ListByProduct(c.Request().Context(), productID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"price_rules": list, "count": len(list)})
}

// Create handles POST /v1/admin/price-rules.
func (h *AdminPricingHandler) Create(c echo.Context) error {
    var req priceRuleRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if msg := req.validate(); msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    pr := req.toModel()
    if err := h.Rules.Create(c.Request().Context(), &pr); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    h.invalidate(c, pr.ProductID)
    return c.JSON(http.StatusCreated, pr)
}

// Update handles PUT /v1/admin/price-rules/:id.
func (h *AdminPricingHandler) Update(c echo.Context) error {
    id, err := strconv.ParseInt(c.Param("id"), 10, 64)
    if err != nil || id <= 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid rule id"})
    }
    var req priceRuleRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if msg := req.validate(); msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    pr := req.toModel()
    pr.ID = id
    if err := h.Rules.Update(c.Request().Context(), &pr); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "price rule not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    h.invalidate(c, pr.ProductID)
    return c.JSON(http.StatusOK, pr)
}

// Delete handles DELETE /v1/admin/price-rules/:id?product_id=.  The
// product id travels as a query param so the handler can invalidate the
// right cache footprint without a prior read.
func (h *AdminPricingHandler) Delete(c echo.Context) error {
    id, err := strconv.ParseInt(c.Param("id"), 10, 64)
    if err != nil || id <= 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid rule id"})
    }
    productID, err := strconv.ParseInt(c.QueryParam("product_id"), 10, 64)
    if err != nil || productID <= 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id is required"})
    }
    if err := h.Rules.Delete(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "price rule not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    h.invalidate(c, productID)
    return c.JSON(http.StatusOK, echo.Map{"message": "price rule deleted"})
}

func (h *AdminPricingHandler) invalidate(c echo.Context, productID int64) {
    if h.Cache != nil {
        h.Cache.InvalidateProduct(c.Request().Context(), productID)
    }
}
