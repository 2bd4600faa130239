package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franpass87/experience-booking/internal/model"
)

func TestKeyShape(t *testing.T) {
	assert.Equal(t, "fp_availability_7_2026-08-31", Key(7, "2026-08-31"))
}

func TestGetMiss(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet(Key(7, "2026-08-31")).RedisNil()

	m := NewManager(rdb, time.Minute)
	_, ok := m.Get(context.Background(), 7, "2026-08-31")
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetHitDecodesSlots(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	stored := payload{
		Slots:     []model.Slot{{ScheduleID: 11, StartTime: "10:00", Capacity: 5, Available: 5}},
		CreatedAt: time.Now().Unix(),
		TTL:       60,
	}
	raw, err := json.Marshal(stored)
	require.NoError(t, err)
	mock.ExpectGet(Key(7, "2026-08-31")).SetVal(string(raw))

	m := NewManager(rdb, time.Minute)
	slots, ok := m.Get(context.Background(), 7, "2026-08-31")
	assert.True(t, ok)
	require.Len(t, slots, 1)
	assert.Equal(t, int64(11), slots[0].ScheduleID)
	assert.Equal(t, 5, slots[0].Available)
}

func TestGetCorruptEntryIsAMiss(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet(Key(7, "2026-08-31")).SetVal("{not json")

	m := NewManager(rdb, time.Minute)
	_, ok := m.Get(context.Background(), 7, "2026-08-31")
	assert.False(t, ok)
}

func TestSetStoresEntryAndIndexesKey(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	key := Key(7, "2026-08-31")
	// The stored payload embeds a creation timestamp, so the value match
	// is relaxed and only key/ttl are asserted.
	mock.CustomMatch(func(expected, actual []interface{}) error { return nil }).
		ExpectSetEx(key, "", time.Minute).SetVal("OK")
	mock.ExpectSAdd("fp_availability_index_7", key).SetVal(1)

	m := NewManager(rdb, time.Minute)
	m.Set(context.Background(), 7, "2026-08-31", []model.Slot{{ScheduleID: 11}})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHas(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectExists(Key(7, "2026-08-31")).SetVal(1)
	mock.ExpectExists(Key(7, "2026-09-01")).SetVal(0)

	m := NewManager(rdb, time.Minute)
	assert.True(t, m.Has(context.Background(), 7, "2026-08-31"))
	assert.False(t, m.Has(context.Background(), 7, "2026-09-01"))
}

func TestInvalidateDropsEntryAndIndexMember(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	key := Key(7, "2026-08-31")
	mock.ExpectDel(key).SetVal(1)
	mock.ExpectSRem("fp_availability_index_7", key).SetVal(1)

	m := NewManager(rdb, time.Minute)
	m.Invalidate(context.Background(), 7, "2026-08-31")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidateProductUnionsIndexAndScan(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.MatchExpectationsInOrder(false)

	k1 := Key(7, "2026-08-31")
	k2 := Key(7, "2026-09-01")
	// The index knows k1; the scan additionally finds k2 (index drift).
	mock.ExpectSMembers("fp_availability_index_7").SetVal([]string{k1})
	mock.ExpectScan(0, "fp_availability_7_*", 100).SetVal([]string{k2}, 0)
	mock.ExpectDel(k1).SetVal(1)
	mock.ExpectDel(k2).SetVal(1)
	mock.ExpectDel("fp_availability_index_7").SetVal(1)

	m := NewManager(rdb, time.Minute)
	removed := m.InvalidateProduct(context.Background(), 7)
	assert.Equal(t, 2, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNilClientDisablesCache(t *testing.T) {
	m := NewManager(nil, time.Minute)
	_, ok := m.Get(context.Background(), 7, "2026-08-31")
	assert.False(t, ok)
	assert.False(t, m.Has(context.Background(), 7, "2026-08-31"))
	m.Set(context.Background(), 7, "2026-08-31", nil)
	m.Invalidate(context.Background(), 7, "2026-08-31")
	assert.Equal(t, 0, m.InvalidateProduct(context.Background(), 7))
	assert.Equal(t, 0, m.ClearAll(context.Background()))
}
