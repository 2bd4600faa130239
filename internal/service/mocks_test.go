package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/franpass87/experience-booking/internal/model"
)

// Mock stores shared by the availability and hold manager tests.

type MockScheduleStore struct{ mock.Mock }

func (m *MockScheduleStore) ActiveForDate(ctx context.Context, productID int64, dayOfWeek int, date string) ([]model.Schedule, error) {
	args := m.Called(ctx, productID, dayOfWeek, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Schedule), args.Error(1)
}

type MockOverrideStore struct{ mock.Mock }

func (m *MockOverrideStore) ByProductDate(ctx context.Context, productID int64, date string) (*model.Override, error) {
	args := m.Called(ctx, productID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Override), args.Error(1)
}

type MockBookingCounter struct{ mock.Mock }

func (m *MockBookingCounter) CountGuests(ctx context.Context, productID int64, date, startTime string) (int, error) {
	args := m.Called(ctx, productID, date, startTime)
	return args.Int(0), args.Error(1)
}

type MockHoldCounter struct{ mock.Mock }

func (m *MockHoldCounter) HeldQuantity(ctx context.Context, productID int64, slotStart time.Time, excludeSession string) (int, error) {
	args := m.Called(ctx, productID, slotStart, excludeSession)
	return args.Int(0), args.Error(1)
}

type MockSlotCache struct{ mock.Mock }

func (m *MockSlotCache) Get(ctx context.Context, productID int64, date string) ([]model.Slot, bool) {
	args := m.Called(ctx, productID, date)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]model.Slot), args.Bool(1)
}

func (m *MockSlotCache) Set(ctx context.Context, productID int64, date string, slots []model.Slot) {
	m.Called(ctx, productID, date, slots)
}

type MockPriceAdjuster struct{ mock.Mock }

func (m *MockPriceAdjuster) AdjustedPrices(ctx context.Context, productID int64, slotDate time.Time, now time.Time, adult, child float64, partySize int) (float64, float64) {
	args := m.Called(ctx, productID, slotDate, now, adult, child, partySize)
	return args.Get(0).(float64), args.Get(1).(float64)
}

type MockCacheInvalidator struct{ mock.Mock }

func (m *MockCacheInvalidator) Invalidate(ctx context.Context, productID int64, date string) {
	m.Called(ctx, productID, date)
}

type MockHoldStore struct{ mock.Mock }

func (m *MockHoldStore) Replace(ctx context.Context, h *model.Hold) error {
	return m.Called(ctx, h).Error(0)
}

func (m *MockHoldStore) HeldQuantity(ctx context.Context, productID int64, slotStart time.Time, excludeSession string) (int, error) {
	args := m.Called(ctx, productID, slotStart, excludeSession)
	return args.Int(0), args.Error(1)
}

func (m *MockHoldStore) ActiveForUpdateTx(ctx context.Context, tx *sql.Tx, productID int64, slotStart time.Time, sessionID string) (*model.Hold, error) {
	args := m.Called(ctx, tx, productID, slotStart, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Hold), args.Error(1)
}

func (m *MockHoldStore) DeleteTx(ctx context.Context, tx *sql.Tx, id int64) error {
	return m.Called(ctx, tx, id).Error(0)
}

func (m *MockHoldStore) DeleteExpiredForSlotTx(ctx context.Context, tx *sql.Tx, productID int64, slotStart time.Time) error {
	return m.Called(ctx, tx, productID, slotStart).Error(0)
}

func (m *MockHoldStore) DeleteForSessionSlot(ctx context.Context, productID int64, slotStart time.Time, sessionID string) (int64, error) {
	args := m.Called(ctx, productID, slotStart, sessionID)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockHoldStore) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return int64(args.Int(0)), args.Error(1)
}

type MockBookingWriter struct{ mock.Mock }

func (m *MockBookingWriter) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	return m.Called(ctx, tx, b).Error(0)
}

func (m *MockBookingWriter) CountGuestsForUpdateTx(ctx context.Context, tx *sql.Tx, productID int64, date, startTime string) (int, error) {
	args := m.Called(ctx, tx, productID, date, startTime)
	return args.Int(0), args.Error(1)
}
