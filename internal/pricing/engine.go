// Package pricing implements the rule-based price adjustment engine.
// Rules are loaded per product and applied on top of a schedule's base
// adult/child prices.  The priority column is the sort key; rules that
// share a priority fall back to a fixed type order (seasonal, then
// weekend/weekday, then early-bird, then group) so existing rule sets
// that never set priorities behave the way they always did.
package pricing

import (
    "context"
    "sort"
    "time"

    "github.com/franpass87/experience-booking/internal/model"
)

// RuleStore is the read contract the engine needs from persistence.
type RuleStore interface {
    ActiveByProduct(ctx context.Context, productID int64) ([]model.PriceRule, error)
}

// Engine applies price rules for a product.  It is stateless beyond its
// store reference and safe for concurrent use.
type Engine struct {
    rules RuleStore
}

// NewEngine returns an Engine reading rules from the given store.
func NewEngine(rules RuleStore) *Engine { return &Engine{rules: rules} }

// typeOrder is the tie-break applied between rules of equal priority.
var typeOrder = map[string]int{
    model.RuleTypeSeasonal:       0,
    model.RuleTypeWeekendWeekday: 1,
    model.RuleTypeEarlyBird:      2,
    model.RuleTypeGroup:          3,
}

// AdjustedPrices returns the adult and child prices after applying every
// matching rule for the product.  slotDate is the calendar date of the
// slot in the site timezone; now anchors early-bird lead-time checks.
// partySize participates in group rules and should be 0 when the party
// size is not yet known (slot listing), in which case group rules are
// skipped.  A store failure leaves the base prices untouched: pricing is
// a display concern and must not take availability down with it.
func (e *Engine) AdjustedPrices(ctx context.Context, productID int64, slotDate time.Time, now time.Time, adult, child float64, partySize int) (float64, float64) {
    rules, err := e.rules.ActiveByProduct(ctx, productID)
    if err != nil || len(rules) == 0 {
        return adult, child
    }
    sort.SliceStable(rules, func(i, j int) bool {
        if rules[i].Priority != rules[j].Priority {
            return rules[i].Priority < rules[j].Priority
        }
        return typeOrder[rules[i].Type] < typeOrder[rules[j].Type]
    })
    for _, r := range rules {
        if !applies(r, slotDate, now, partySize) {
            continue
        }
        adult = apply(adult, r.AdjustmentType, r.AdultAdjustment)
        child = apply(child, r.AdjustmentType, r.ChildAdjustment)
    }
    if adult < 0 {
        adult = 0
    }
    if child < 0 {
        child = 0
    }
    return adult, child
}

// applies reports whether a single rule's condition matches.
func applies(r model.PriceRule, slotDate, now time.Time, partySize int) bool {
    switch r.Type {
    case model.RuleTypeSeasonal:
        date := slotDate.Format("2006-01-02")
        if r.DateStart != nil && date < *r.DateStart {
            return false
        }
        if r.DateEnd != nil && date > *r.DateEnd {
            return false
        }
        return r.DateStart != nil || r.DateEnd != nil
    case model.RuleTypeWeekendWeekday:
        wd := slotDate.Weekday()
        weekend := wd == time.Saturday || wd == time.Sunday
        if r.Applicability == model.AppliesWeekend {
            return weekend
        }
        if r.Applicability == model.AppliesWeekday {
            return !weekend
        }
        return false
    case model.RuleTypeEarlyBird:
        if r.DaysBefore == nil {
            return false
        }
        lead := int(slotDate.Sub(now).Hours() / 24)
        return lead >= *r.DaysBefore
    case model.RuleTypeGroup:
        if r.MinParticipants == nil || partySize <= 0 {
            return false
        }
        return partySize >= *r.MinParticipants
    }
    return false
}

// apply computes a single adjustment.  Percent adjustments are relative
// (-10 means 10% off); fixed adjustments are absolute deltas.
func apply(price float64, kind string, amount float64) float64 {
    switch kind {
    case model.AdjustmentPercent:
        return price + price*amount/100
    case model.AdjustmentFixed:
        return price + amount
    }
    return price
}
