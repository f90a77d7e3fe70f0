package appointment

import "time"

// Slot is a bookable (date, time, barber) triple. Conflicts are defined
// by exact slot equality at the stored granularity, not by interval
// overlap; a nil barber ("any available") only collides with other
// nil-barber bookings.
type Slot struct {
	Date     time.Time
	Time     string
	BarberID *uint
}
