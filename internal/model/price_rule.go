package model

import "time"

// Price rule types, in the tie-break order they are applied when two
// rules share the same priority.
const (
    RuleTypeSeasonal       = "seasonal"
    RuleTypeWeekendWeekday = "weekend_weekday"
    RuleTypeEarlyBird      = "early_bird"
    RuleTypeGroup          = "group"
)

// Adjustment kinds for a price rule.
const (
    AdjustmentPercent = "percent"
    AdjustmentFixed   = "fixed"
)

// Applicability values for weekend_weekday rules.
const (
    AppliesWeekend = "weekend"
    AppliesWeekday = "weekday"
)

// PriceRule represents one row of the `price_rules` table: a conditional
// adjustment applied on top of a schedule's base prices.  Rules are
// applied in ascending Priority order; rules of the same priority apply
// in the RuleType* constant order above.
//
// Which condition fields are meaningful depends on Type:
//  seasonal        – DateStart/DateEnd bound the applicable date range.
//  weekend_weekday – Applicability selects weekend or weekday dates.
//  early_bird      – DaysBefore is the minimum lead time in days.
//  group           – MinParticipants is the minimum party size.
type PriceRule struct {
    ID              int64     // price_rules.id
    ProductID       int64     // price_rules.product_id
    Type            string    // price_rules.rule_type
    Priority        int       // price_rules.priority (lower applies first)
    DateStart       *string   // price_rules.date_start (nullable, YYYY-MM-DD)
    DateEnd         *string   // price_rules.date_end (nullable, YYYY-MM-DD)
    Applicability   string    // price_rules.applicability ("weekend"/"weekday", weekend_weekday only)
    DaysBefore      *int      // price_rules.days_before (nullable, early_bird only)
    MinParticipants *int      // price_rules.min_participants (nullable, group only)
    AdjustmentType  string    // price_rules.adjustment_type ("percent"/"fixed")
    AdultAdjustment float64   // price_rules.adult_adjustment
    ChildAdjustment float64   // price_rules.child_adjustment
    IsActive        bool      // price_rules.is_active
    CreatedAt       time.Time // price_rules.created_at
    UpdatedAt       time.Time // price_rules.updated_at
}
