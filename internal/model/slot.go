package model

// Slot is a bookable time window on a given date, derived from a schedule
// and carrying computed capacity, price and availability figures.  Slots
// are assembled by the availability service and serialized directly to
// API consumers, so the json field names are part of the contract.
//
// Available always satisfies available = max(0, capacity - booked - held).
type Slot struct {
    ScheduleID     int64    `json:"schedule_id"`
    StartTime      string   `json:"start_time"` // "HH:MM"
    EndTime        string   `json:"end_time"`   // "HH:MM"
    Capacity       int      `json:"capacity"`
    Booked         int      `json:"booked"`
    Available      int      `json:"available"`
    HeldCount      int      `json:"held_count"`
    IsAvailable    bool     `json:"is_available"`
    AdultPrice     float64  `json:"adult_price"`
    ChildPrice     float64  `json:"child_price"`
    Languages      []string `json:"languages"`
    MeetingPointID int64    `json:"meeting_point_id"`
}
