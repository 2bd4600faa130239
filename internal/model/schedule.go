package model

import "time"

// Schedule types.  A recurring schedule repeats on a weekly day of week,
// while a fixed schedule applies to a single calendar date.
const (
    ScheduleTypeRecurring = "recurring"
    ScheduleTypeFixed     = "fixed"
)

// Schedule represents one row of the `schedules` table: a template that
// defines when and how an experience product is offered.  Exactly one of
// DayOfWeek and EventDate is meaningful depending on Type – DayOfWeek for
// recurring schedules (0=Sunday … 6=Saturday), EventDate for fixed-date
// events.  Schedules are soft-disabled via IsActive rather than deleted.
//
// Fields:
//  ID             – primary key identifier.
//  ProductID      – experience product this schedule belongs to.
//  Type           – "recurring" or "fixed".
//  DayOfWeek      – weekday for recurring schedules (nullable).
//  EventDate      – calendar date (YYYY-MM-DD) for fixed schedules (nullable).
//  StartTime      – slot start time of day as "HH:MM".
//  DurationMin    – slot length in minutes.
//  Capacity       – maximum number of guests for the slot.
//  Lang           – language the experience is run in (e.g. "en", "it").
//  MeetingPointID – where guests gather.
//  PriceAdult     – base adult price.
//  PriceChild     – base child price.
//  IsActive       – soft-disable flag.
type Schedule struct {
    ID             int64      // schedules.id
    ProductID      int64      // schedules.product_id
    Type           string     // schedules.schedule_type
    DayOfWeek      *int       // schedules.day_of_week (nullable)
    EventDate      *string    // schedules.event_date (nullable, YYYY-MM-DD)
    StartTime      string     // schedules.start_time ("HH:MM")
    DurationMin    int        // schedules.duration_min
    Capacity       int        // schedules.capacity
    Lang           string     // schedules.lang
    MeetingPointID int64      // schedules.meeting_point_id
    PriceAdult     float64    // schedules.price_adult
    PriceChild     float64    // schedules.price_child
    IsActive       bool       // schedules.is_active
    CreatedAt      time.Time  // schedules.created_at
    UpdatedAt      time.Time  // schedules.updated_at
}
