package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/franpass87/experience-booking/internal/model"
)

type MockRuleStore struct{ mock.Mock }

func (m *MockRuleStore) ActiveByProduct(ctx context.Context, productID int64) ([]model.PriceRule, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PriceRule), args.Error(1)
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

// saturday/weekday anchor dates used across the tests.
var (
	saturday = time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC)
	monday   = time.Date(2026, 7, 6, 0, 0, 0, 0, time.UTC)
	anchor   = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
)

func TestAdjustedPricesNoRules(t *testing.T) {
	store := new(MockRuleStore)
	store.On("ActiveByProduct", mock.Anything, int64(1)).Return([]model.PriceRule{}, nil)

	e := NewEngine(store)
	adult, child := e.AdjustedPrices(context.Background(), 1, saturday, anchor, 100, 50, 0)
	assert.Equal(t, 100.0, adult)
	assert.Equal(t, 50.0, child)
}

func TestAdjustedPricesStoreErrorLeavesBase(t *testing.T) {
	store := new(MockRuleStore)
	store.On("ActiveByProduct", mock.Anything, int64(1)).Return(nil, errors.New("db down"))

	e := NewEngine(store)
	adult, child := e.AdjustedPrices(context.Background(), 1, saturday, anchor, 100, 50, 0)
	assert.Equal(t, 100.0, adult)
	assert.Equal(t, 50.0, child)
}

func TestWeekendRuleAppliesOnlyOnWeekends(t *testing.T) {
	rules := []model.PriceRule{{
		Type:            model.RuleTypeWeekendWeekday,
		Applicability:   model.AppliesWeekend,
		AdjustmentType:  model.AdjustmentPercent,
		AdultAdjustment: -10,
		ChildAdjustment: -10,
	}}
	store := new(MockRuleStore)
	store.On("ActiveByProduct", mock.Anything, int64(1)).Return(rules, nil)
	e := NewEngine(store)

	adult, child := e.AdjustedPrices(context.Background(), 1, saturday, anchor, 100, 50, 0)
	assert.Equal(t, 90.0, adult)
	assert.Equal(t, 45.0, child)

	adult, child = e.AdjustedPrices(context.Background(), 1, monday, anchor, 100, 50, 0)
	assert.Equal(t, 100.0, adult)
	assert.Equal(t, 50.0, child)
}

func TestSeasonalRuleRespectsDateWindow(t *testing.T) {
	rules := []model.PriceRule{{
		Type:            model.RuleTypeSeasonal,
		DateStart:       strPtr("2026-07-01"),
		DateEnd:         strPtr("2026-07-31"),
		AdjustmentType:  model.AdjustmentFixed,
		AdultAdjustment: 20,
		ChildAdjustment: 10,
	}}
	store := new(MockRuleStore)
	store.On("ActiveByProduct", mock.Anything, int64(1)).Return(rules, nil)
	e := NewEngine(store)

	adult, child := e.AdjustedPrices(context.Background(), 1, saturday, anchor, 100, 50, 0)
	assert.Equal(t, 120.0, adult)
	assert.Equal(t, 60.0, child)

	outside := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	adult, child = e.AdjustedPrices(context.Background(), 1, outside, anchor, 100, 50, 0)
	assert.Equal(t, 100.0, adult)
	assert.Equal(t, 50.0, child)
}

func TestEarlyBirdNeedsLeadTime(t *testing.T) {
	rules := []model.PriceRule{{
		Type:            model.RuleTypeEarlyBird,
		DaysBefore:      intPtr(30),
		AdjustmentType:  model.AdjustmentPercent,
		AdultAdjustment: -15,
		ChildAdjustment: -15,
	}}
	store := new(MockRuleStore)
	store.On("ActiveByProduct", mock.Anything, int64(1)).Return(rules, nil)
	e := NewEngine(store)

	// Booked 33 days out: discount applies.
	adult, _ := e.AdjustedPrices(context.Background(), 1, saturday, anchor, 100, 50, 0)
	assert.Equal(t, 85.0, adult)

	// Booked 3 days out: no discount.
	late := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	adult, _ = e.AdjustedPrices(context.Background(), 1, saturday, late, 100, 50, 0)
	assert.Equal(t, 100.0, adult)
}

func TestGroupRuleSkippedWithoutPartySize(t *testing.T) {
	rules := []model.PriceRule{{
		Type:            model.RuleTypeGroup,
		MinParticipants: intPtr(5),
		AdjustmentType:  model.AdjustmentPercent,
		AdultAdjustment: -20,
		ChildAdjustment: -20,
	}}
	store := new(MockRuleStore)
	store.On("ActiveByProduct", mock.Anything, int64(1)).Return(rules, nil)
	e := NewEngine(store)

	// Slot listing passes partySize 0: the group rule must not fire.
	adult, _ := e.AdjustedPrices(context.Background(), 1, saturday, anchor, 100, 50, 0)
	assert.Equal(t, 100.0, adult)

	adult, _ = e.AdjustedPrices(context.Background(), 1, saturday, anchor, 100, 50, 6)
	assert.Equal(t, 80.0, adult)

	adult, _ = e.AdjustedPrices(context.Background(), 1, saturday, anchor, 100, 50, 4)
	assert.Equal(t, 100.0, adult)
}

func TestPriorityControlsApplicationOrder(t *testing.T) {
	// Fixed +10 first, then 50% off: (100+10)/2 = 55.
	rules := []model.PriceRule{
		{
			Type:            model.RuleTypeWeekendWeekday,
			Applicability:   model.AppliesWeekend,
			Priority:        2,
			AdjustmentType:  model.AdjustmentPercent,
			AdultAdjustment: -50,
		},
		{
			Type:            model.RuleTypeWeekendWeekday,
			Applicability:   model.AppliesWeekend,
			Priority:        1,
			AdjustmentType:  model.AdjustmentFixed,
			AdultAdjustment: 10,
		},
	}
	store := new(MockRuleStore)
	store.On("ActiveByProduct", mock.Anything, int64(1)).Return(rules, nil)
	e := NewEngine(store)

	adult, _ := e.AdjustedPrices(context.Background(), 1, saturday, anchor, 100, 0, 0)
	assert.Equal(t, 55.0, adult)

	// Swap the priorities: 50% off first, then +10: 100/2+10 = 60.
	rules[0].Priority, rules[1].Priority = 1, 2
	store2 := new(MockRuleStore)
	store2.On("ActiveByProduct", mock.Anything, int64(1)).Return(rules, nil)
	adult, _ = NewEngine(store2).AdjustedPrices(context.Background(), 1, saturday, anchor, 100, 0, 0)
	assert.Equal(t, 60.0, adult)
}

func TestEqualPriorityFallsBackToTypeOrder(t *testing.T) {
	// Same priority: seasonal applies before group regardless of slice order.
	rules := []model.PriceRule{
		{
			Type:            model.RuleTypeGroup,
			MinParticipants: intPtr(2),
			AdjustmentType:  model.AdjustmentPercent,
			AdultAdjustment: -50,
		},
		{
			Type:            model.RuleTypeSeasonal,
			DateStart:       strPtr("2026-07-01"),
			DateEnd:         strPtr("2026-07-31"),
			AdjustmentType:  model.AdjustmentFixed,
			AdultAdjustment: 10,
		},
	}
	store := new(MockRuleStore)
	store.On("ActiveByProduct", mock.Anything, int64(1)).Return(rules, nil)

	// Seasonal +10 first, then 50% off: (100+10)/2 = 55.
	adult, _ := NewEngine(store).AdjustedPrices(context.Background(), 1, saturday, anchor, 100, 0, 4)
	assert.Equal(t, 55.0, adult)
}

func TestPricesNeverGoNegative(t *testing.T) {
	rules := []model.PriceRule{{
		Type:            model.RuleTypeWeekendWeekday,
		Applicability:   model.AppliesWeekend,
		AdjustmentType:  model.AdjustmentFixed,
		AdultAdjustment: -200,
		ChildAdjustment: -200,
	}}
	store := new(MockRuleStore)
	store.On("ActiveByProduct", mock.Anything, int64(1)).Return(rules, nil)

	adult, child := NewEngine(store).AdjustedPrices(context.Background(), 1, saturday, anchor, 100, 50, 0)
	assert.Equal(t, 0.0, adult)
	assert.Equal(t, 0.0, child)
}
