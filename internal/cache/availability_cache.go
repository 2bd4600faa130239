// Package cache implements TTL-based memoization of computed availability
// payloads in Redis.  Every cached (product, date) entry is also recorded
// in a per-product Redis set that acts as a durable catalog of "what is
// cached", so invalidation can target exactly the affected keys instead
// of scanning the keyspace.  Cache failures never propagate: a broken
// cache degrades to miss behaviour because correctness never depends on
// it, only latency does.
package cache

import (
    "context"
    "encoding/json"
    "fmt"
    "log"
    "time"

    "github.com/redis/go-redis/v9"

    "github.com/franpass87/experience-booking/internal/model"
)

// keyPrefix namespaces every availability key in Redis.
const keyPrefix = "fp_availability"

// Manager memoizes per-(product, date) slot lists.  A nil Redis client
// disables the cache entirely; every lookup then reports a miss.
type Manager struct {
    rdb *redis.Client
    ttl time.Duration
}

// payload is the stored shape of a cache entry.  CreatedAt and TTL ride
// along as metadata so operators can inspect entry age with redis-cli.
type payload struct {
    Slots     []model.Slot `json:"slots"`
    CreatedAt int64        `json:"_cache_created"`
    TTL       int          `json:"_cache_ttl"`
}

// NewManager builds a cache manager.  ttl bounds entry staleness; values
// outside 1s..1h are clamped to the 5 minute default.
func NewManager(rdb *redis.Client, ttl time.Duration) *Manager {
    if ttl < time.Second || ttl > time.Hour {
        ttl = 5 * time.Minute
    }
    return &Manager{rdb: rdb, ttl: ttl}
}

// Key returns the deterministic cache key for a (product, date) pair.
func Key(productID int64, date string) string {
    return fmt.Sprintf("%s_%d_%s", keyPrefix, productID, date)
}

// indexKey returns the per-product set that catalogs cached keys.
func indexKey(productID int64) string {
    return fmt.Sprintf("%s_index_%d", keyPrefix, productID)
}

// Get returns the cached slots for (product, date) and whether the entry
// exists.  Any Redis or decode error is treated as a miss.
func (m *Manager) Get(ctx context.Context, productID int64, date string) ([]model.Slot, bool) {
    if m.rdb == nil {
        return nil, false
    }
    raw, err := m.rdb.Get(ctx, Key(productID, date)).Bytes()
    if err != nil {
        return nil, false
    }
    var p payload
    if err := json.Unmarshal(raw, &p); err != nil {
        return nil, false
    }
    return p.Slots, true
}

// Set stores the slots for (product, date) and records the key in the
// product's index set.  The index set carries no TTL of its own: stale
// members simply resolve to misses and are swept out by the next bulk
// invalidation.  Errors are logged and swallowed.
func (m *Manager) Set(ctx context.Context, productID int64, date string, slots []model.Slot) {
    if m.rdb == nil {
        return
    }
    p := payload{
        Slots:     slots,
        CreatedAt: time.Now().UTC().Unix(),
        TTL:       int(m.ttl / time.Second),
    }
    raw, err := json.Marshal(p)
    if err != nil {
        log.Printf("availability-cache: marshal product=%d date=%s: %v", productID, date, err)
        return
    }
    key := Key(productID, date)
    if err := m.rdb.SetEx(ctx, key, raw, m.ttl).Err(); err != nil {
        log.Printf("availability-cache: set %s: %v", key, err)
        return
    }
    if err := m.rdb.SAdd(ctx, indexKey(productID), key).Err(); err != nil {
        log.Printf("availability-cache: index add %s: %v", key, err)
    }
}

// Has reports whether an entry exists without decoding it.  The
// pre-builder uses this to skip dates that are already warm.
func (m *Manager) Has(ctx context.Context, productID int64, date string) bool {
    if m.rdb == nil {
        return false
    }
    n, err := m.rdb.Exists(ctx, Key(productID, date)).Result()
    return err == nil && n > 0
}

// Invalidate drops the entry for (product, date) and de-registers it
// from the product index.  Called on booking created/cancelled/refunded
// and override saved/deleted.
func (m *Manager) Invalidate(ctx context.Context, productID int64, date string) {
    if m.rdb == nil {
        return
    }
    key := Key(productID, date)
    if err := m.rdb.Del(ctx, key).Err(); err != nil {
        log.Printf("availability-cache: del %s: %v", key, err)
    }
    if err := m.rdb.SRem(ctx, indexKey(productID), key).Err(); err != nil {
        log.Printf("availability-cache: index rem %s: %v", key, err)
    }
}

// InvalidateProduct drops every cached date for a product.  The index is
// the primary source of keys; a SCAN over the product's key pattern is
// unioned in as a safety net against index drift (e.g. after an external
// FLUSHALL the index may name keys that no longer exist, or an interrupted
// Set may have left a key the index never learned about).  Returns the
// number of entries removed.
func (m *Manager) InvalidateProduct(ctx context.Context, productID int64) int {
    if m.rdb == nil {
        return 0
    }
    keys := map[string]struct{}{}
    if members, err := m.rdb.SMembers(ctx, indexKey(productID)).Result(); err == nil {
        for _, k := range members {
            keys[k] = struct{}{}
        }
    }
    pattern := fmt.Sprintf("%s_%d_*", keyPrefix, productID)
    iter := m.rdb.Scan(ctx, 0, pattern, 100).Iterator()
    for iter.Next(ctx) {
        keys[iter.Val()] = struct{}{}
    }
    if err := iter.Err(); err != nil {
        log.Printf("availability-cache: scan %s: %v", pattern, err)
    }
    removed := 0
    for k := range keys {
        if n, err := m.rdb.Del(ctx, k).Result(); err == nil {
            removed += int(n)
        }
    }
    if err := m.rdb.Del(ctx, indexKey(productID)).Err(); err != nil {
        log.Printf("availability-cache: index del product=%d: %v", productID, err)
    }
    return removed
}

// ClearAll drops every availability entry and index set.  Returns the
// number of keys removed.  Used by operational tooling after bulk data
// imports.
func (m *Manager) ClearAll(ctx context.Context) int {
    if m.rdb == nil {
        return 0
    }
    removed := 0
    iter := m.rdb.Scan(ctx, 0, keyPrefix+"_*", 100).Iterator()
    for iter.Next(ctx) {
        if n, err := m.rdb.Del(ctx, iter.Val()).Result(); err == nil {
            removed += int(n)
        }
    }
    if err := iter.Err(); err != nil {
        log.Printf("availability-cache: clear-all scan: %v", err)
    }
    return removed
}
