// Package service contains the capacity engine: slot computation,
// checkout holds and the cron-driven maintenance jobs.  Services receive
// their stores as narrow interfaces so tests can substitute fakes and so
// no process-wide state hides behind them.
package service

import (
    "context"
    "errors"
    "time"

    "github.com/franpass87/experience-booking/internal/model"
)

// ErrInvalidDate is returned when a caller passes a date or slot-start
// string that does not parse.  Invalid input is an explicit error here,
// not a silent empty result, so API consumers can tell "bad request"
// apart from "nothing bookable".
var ErrInvalidDate = errors.New("invalid date")

// ScheduleStore supplies the schedules that produce slots on a date.
type ScheduleStore interface {
    ActiveForDate(ctx context.Context, productID int64, dayOfWeek int, date string) ([]model.Schedule, error)
}

// OverrideStore supplies the per-date exception for a product, nil when
// none exists.
type OverrideStore interface {
    ByProductDate(ctx context.Context, productID int64, date string) (*model.Override, error)
}

// BookingCounter counts confirmed+pending guests for an exact slot.
type BookingCounter interface {
    CountGuests(ctx context.Context, productID int64, date, startTime string) (int, error)
}

// HoldCounter sums live held quantities for a slot, optionally excluding
// one session.
type HoldCounter interface {
    HeldQuantity(ctx context.Context, productID int64, slotStart time.Time, excludeSession string) (int, error)
}

// SlotCache memoizes computed slot lists per (product, date).
type SlotCache interface {
    Get(ctx context.Context, productID int64, date string) ([]model.Slot, bool)
    Set(ctx context.Context, productID int64, date string, slots []model.Slot)
}

// PriceAdjuster applies dynamic pricing on top of base prices.
type PriceAdjuster interface {
    AdjustedPrices(ctx context.Context, productID int64, slotDate time.Time, now time.Time, adult, child float64, partySize int) (float64, float64)
}

// Availability computes the bookable slots of a product for a day by
// merging schedules, overrides, confirmed/pending bookings and live
// holds.  Reads are intentionally non-locking: the result may be stale
// by the time a shopper acts on it, and the transactional hold
// conversion is the actual gate against overselling.
type Availability struct {
    schedules    ScheduleStore
    overrides    OverrideStore
    bookings     BookingCounter
    holds        HoldCounter
    cache        SlotCache
    pricing      PriceAdjuster
    holdsEnabled bool
    loc          *time.Location
    now          func() time.Time
}

// NewAvailability wires an Availability service.  loc is the site
// timezone used to resolve a date's day of week; pricing may be nil to
// skip dynamic adjustments.
func NewAvailability(schedules ScheduleStore, overrides OverrideStore, bookings BookingCounter, holds HoldCounter, cache SlotCache, pricing PriceAdjuster, holdsEnabled bool, loc *time.Location) *Availability {
    if loc == nil {
        loc = time.UTC
    }
    return &Availability{
        schedules:    schedules,
        overrides:    overrides,
        bookings:     bookings,
        holds:        holds,
        cache:        cache,
        pricing:      pricing,
        holdsEnabled: holdsEnabled,
        loc:          loc,
        now:          time.Now,
    }
}

// ForDay returns the ordered slot list for a product on a date
// (YYYY-MM-DD).  Cached entries store only the schedule-and-booking
// baseline; the live held counts are layered on afterwards because holds
// churn far faster than any sane cache TTL.  A closed day returns an
// empty list and is never cached; the override lookup is a cheap point
// read and recomputing keeps reopening instant.
func (a *Availability) ForDay(ctx context.Context, productID int64, date string) ([]model.Slot, error) {
    day, err := time.ParseInLocation("2006-01-02", date, a.loc)
    if err != nil {
        return nil, ErrInvalidDate
    }

    if cached, ok := a.cache.Get(ctx, productID, date); ok {
        return a.applyHolds(ctx, productID, day, cached), nil
    }

    ovr, err := a.overrides.ByProductDate(ctx, productID, date)
    if err != nil {
        return nil, err
    }
    if ovr != nil && ovr.IsClosed {
        return []model.Slot{}, nil
    }

    schedules, err := a.schedules.ActiveForDate(ctx, productID, int(day.Weekday()), date)
    if err != nil {
        return nil, err
    }

    slots := make([]model.Slot, 0, len(schedules))
    for _, s := range schedules {
        slot, err := a.buildSlot(ctx, productID, day, date, s, ovr)
        if err != nil {
            return nil, err
        }
        slots = append(slots, slot)
    }

    a.cache.Set(ctx, productID, date, slots)
    return a.applyHolds(ctx, productID, day, slots), nil
}

// IsSlotAvailable reports whether the slot starting at startTime ("HH:MM")
// on date can take the requested number of spots.  It rides on ForDay so
// it benefits from the cache; there is no extra database traffic.
func (a *Availability) IsSlotAvailable(ctx context.Context, productID int64, date, startTime string, spots int) (bool, error) {
    if spots < 1 {
        spots = 1
    }
    slots, err := a.ForDay(ctx, productID, date)
    if err != nil {
        return false, err
    }
    for _, s := range slots {
        if s.StartTime == startTime {
            return s.Available >= spots, nil
        }
    }
    return false, nil
}

// Quote returns the adult and child prices for a specific slot with the
// party size known, so group pricing rules can participate (slot listings
// apply every rule except group ones, since the party size is unknown
// there).  The boolean reports whether the slot exists; ErrInvalidDate
// on bad input.
func (a *Availability) Quote(ctx context.Context, productID int64, date, startTime string, adults, children int) (float64, float64, bool, error) {
    day, err := time.ParseInLocation("2006-01-02", date, a.loc)
    if err != nil {
        return 0, 0, false, ErrInvalidDate
    }
    ovr, err := a.overrides.ByProductDate(ctx, productID, date)
    if err != nil {
        return 0, 0, false, err
    }
    if ovr != nil && ovr.IsClosed {
        return 0, 0, false, nil
    }
    schedules, err := a.schedules.ActiveForDate(ctx, productID, int(day.Weekday()), date)
    if err != nil {
        return 0, 0, false, err
    }
    for _, s := range schedules {
        if s.StartTime != startTime {
            continue
        }
        adult, child := s.PriceAdult, s.PriceChild
        if ovr != nil && ovr.PriceOverride != nil {
            if ovr.PriceOverride.Adult != nil {
                adult = *ovr.PriceOverride.Adult
            }
            if ovr.PriceOverride.Child != nil {
                child = *ovr.PriceOverride.Child
            }
        }
        if a.pricing != nil {
            adult, child = a.pricing.AdjustedPrices(ctx, productID, day, a.now(), adult, child, adults+children)
        }
        return adult, child, true, nil
    }
    return 0, 0, false, nil
}

// buildSlot assembles one slot from its schedule, applying the override's
// per-field capacity/price precedence, dynamic pricing and the booked
// count.  Held counts are left at zero here; the baseline is what gets
// cached.
func (a *Availability) buildSlot(ctx context.Context, productID int64, day time.Time, date string, s model.Schedule, ovr *model.Override) (model.Slot, error) {
    start, err := time.ParseInLocation("2006-01-02 15:04", date+" "+s.StartTime, a.loc)
    if err != nil {
        return model.Slot{}, ErrInvalidDate
    }
    end := start.Add(time.Duration(s.DurationMin) * time.Minute)

    capacity := s.Capacity
    adult, child := s.PriceAdult, s.PriceChild
    if ovr != nil {
        if ovr.CapacityOverride != nil {
            capacity = *ovr.CapacityOverride
        }
        if ovr.PriceOverride != nil {
            if ovr.PriceOverride.Adult != nil {
                adult = *ovr.PriceOverride.Adult
            }
            if ovr.PriceOverride.Child != nil {
                child = *ovr.PriceOverride.Child
            }
        }
    }
    if a.pricing != nil {
        adult, child = a.pricing.AdjustedPrices(ctx, productID, day, a.now(), adult, child, 0)
    }

    booked, err := a.bookings.CountGuests(ctx, productID, date, s.StartTime)
    if err != nil {
        return model.Slot{}, err
    }

    available := capacity - booked
    if available < 0 {
        available = 0
    }
    return model.Slot{
        ScheduleID:     s.ID,
        StartTime:      s.StartTime,
        EndTime:        end.Format("15:04"),
        Capacity:       capacity,
        Booked:         booked,
        Available:      available,
        IsAvailable:    available > 0,
        AdultPrice:     adult,
        ChildPrice:     child,
        Languages:      []string{s.Lang},
        MeetingPointID: s.MeetingPointID,
    }, nil
}

// applyHolds recomputes held_count/available/is_available against the
// live hold table.  When holds are disabled the baseline passes through
// untouched.  A hold-count failure degrades to zero held rather than
// failing the whole request: holds only refine display accuracy.
func (a *Availability) applyHolds(ctx context.Context, productID int64, day time.Time, slots []model.Slot) []model.Slot {
    if !a.holdsEnabled || a.holds == nil {
        return slots
    }
    out := make([]model.Slot, len(slots))
    for i, s := range slots {
        start, err := time.ParseInLocation("2006-01-02 15:04", day.Format("2006-01-02")+" "+s.StartTime, a.loc)
        if err != nil {
            out[i] = s
            continue
        }
        held, err := a.holds.HeldQuantity(ctx, productID, start, "")
        if err != nil {
            held = 0
        }
        s.HeldCount = held
        s.Available = s.Capacity - s.Booked - held
        if s.Available < 0 {
            s.Available = 0
        }
        s.IsAvailable = s.Available > 0
        out[i] = s
    }
    return out
}
