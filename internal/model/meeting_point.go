package model

// MeetingPoint is where guests gather before an experience starts.
// Referenced by schedules and bookings.
type MeetingPoint struct {
    ID      int64   // meeting_points.id
    Name    string  // meeting_points.name
    Address string  // meeting_points.address
    Lat     float64 // meeting_points.lat
    Lng     float64 // meeting_points.lng
    Note    string  // meeting_points.note
}

// Product is a bookable experience (tour, activity).  Only the fields the
// availability engine needs are modelled here; descriptive content lives
// with the storefront.
type Product struct {
    ID       int64  // products.id
    Name     string // products.name
    IsActive bool   // products.is_active
}
