package appointment

import "github.com/barberella/barberella-api/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

// InitialStatus is the default for new bookings.
func InitialStatus() Status {
	return StatusConfirmed
}

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return Status(s), nil
	}
	return "", httperr.ErrBusiness("invalid_status")
}

// Blocking reports whether an appointment in this status occupies its
// slot. Only cancelled appointments release the slot.
func (s Status) Blocking() bool {
	return s != StatusCancelled
}

// BlockingStatuses lists the statuses that occupy a slot, in the form
// conflict queries filter on.
func BlockingStatuses() []string {
	all := []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow}

	out := make([]string, 0, len(all))
	for _, s := range all {
		if s.Blocking() {
			out = append(out, string(s))
		}
	}
	return out
}
