package service

import (
    "context"
    "log"
    "time"
)

// prebuildPageSize bounds how many product IDs are loaded per page while
// walking the catalog.
const prebuildPageSize = 50

// ProductLister supplies pages of active product IDs.
type ProductLister interface {
    ActiveIDs(ctx context.Context, offset, limit int) ([]int64, error)
}

// WarmCache is the subset of the cache the pre-builder needs to skip
// dates that are already cached.
type WarmCache interface {
    Has(ctx context.Context, productID int64, date string) bool
}

// Prebuilder warms the availability cache for the next N days of every
// active product so the first shopper of the day does not pay the
// compute cost.  It is disabled when the hold subsystem is on: with
// holds participating, the true available count changes faster than any
// sane TTL, and pre-warmed entries would advertise misleadingly
// optimistic capacity.  The per-request hold deduction layer covers that
// case instead.
type Prebuilder struct {
    products     ProductLister
    avail        *Availability
    cache        WarmCache
    days         int
    holdsEnabled bool
    loc          *time.Location
}

// NewPrebuilder wires a Prebuilder.  days is how many days ahead to warm
// (clamped to 1..30).
func NewPrebuilder(products ProductLister, avail *Availability, cache WarmCache, days int, holdsEnabled bool, loc *time.Location) *Prebuilder {
    if days < 1 {
        days = 7
    }
    if days > 30 {
        days = 30
    }
    if loc == nil {
        loc = time.UTC
    }
    return &Prebuilder{
        products:     products,
        avail:        avail,
        cache:        cache,
        days:         days,
        holdsEnabled: holdsEnabled,
        loc:          loc,
    }
}

// Run walks all active products in pages and computes availability for
// each of the next configured days, skipping dates that are already
// cached.  Returns the number of (product, date) entries built.  Errors
// on individual products are logged and skipped so one broken product
// cannot stall the whole warm-up.
func (p *Prebuilder) Run(ctx context.Context) int {
    if p.holdsEnabled {
        return 0
    }
    built := 0
    today := time.Now().In(p.loc)
    for offset := 0; ; offset += prebuildPageSize {
        ids, err := p.products.ActiveIDs(ctx, offset, prebuildPageSize)
        if err != nil {
            log.Printf("prebuilder: list products offset=%d: %v", offset, err)
            return built
        }
        if len(ids) == 0 {
            return built
        }
        for _, id := range ids {
            for d := 0; d < p.days; d++ {
                date := today.AddDate(0, 0, d).Format("2006-01-02")
                if p.cache.Has(ctx, id, date) {
                    continue
                }
                if _, err := p.avail.ForDay(ctx, id, date); err != nil {
                    log.Printf("prebuilder: product=%d date=%s: %v", id, date, err)
                    continue
                }
                built++
            }
        }
        if len(ids) < prebuildPageSize {
            return built
        }
    }
}
