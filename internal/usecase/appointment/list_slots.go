package appointment

import (
	"context"
	"time"

	domain "github.com/barberella/barberella-api/internal/domain/appointment"
	"github.com/barberella/barberella-api/internal/httperr"
	"github.com/barberella/barberella-api/internal/timezone"
)

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type ListFreeSlotsInput struct {
	Date      string
	ServiceID uint
	BarberID  *uint
}

type ListFreeSlots struct {
	repo domain.Repository
}

func NewListFreeSlots(repo domain.Repository) *ListFreeSlots {
	return &ListFreeSlots{repo: repo}
}

// Execute walks the shop's opening hours on a slot grid and drops the
// slots already booked at the requested granularity. A closed day
// yields an empty list, not an error.
func (uc *ListFreeSlots) Execute(
	ctx context.Context,
	in ListFreeSlotsInput,
) ([]TimeSlot, error) {

	settings, err := uc.repo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(settings.Timezone)

	date, err := time.ParseInLocation("2006-01-02", in.Date, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	if !settings.IsOpenOn(date.Weekday()) {
		return []TimeSlot{}, nil
	}

	slotMinutes := settings.SlotDuration
	if slotMinutes <= 0 {
		slotMinutes = 30
	}

	if in.ServiceID != 0 {
		service, err := uc.repo.GetService(ctx, in.ServiceID)
		if err != nil {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		if service.Duration > 0 {
			slotMinutes = service.Duration
		}
	}

	parseHM := func(hm string) time.Time {
		t, _ := time.Parse("15:04", hm)
		return time.Date(
			date.Year(), date.Month(), date.Day(),
			t.Hour(), t.Minute(), 0, 0,
			loc,
		)
	}

	dayStart := parseHM(settings.OpeningTime)
	dayEnd := parseHM(settings.ClosingTime)

	booked, err := uc.repo.ListForDay(ctx, date, in.BarberID)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]bool, len(booked))
	for _, ap := range booked {
		taken[ap.Time] = true
	}

	slotDuration := time.Duration(slotMinutes) * time.Minute
	var slots []TimeSlot

	for cur := dayStart; !cur.Add(slotDuration).After(dayEnd); cur = cur.Add(slotDuration) {
		start := cur.Format("15:04")
		if taken[start] {
			continue
		}
		slots = append(slots, TimeSlot{
			Start: start,
			End:   cur.Add(slotDuration).Format("15:04"),
		})
	}

	if slots == nil {
		slots = []TimeSlot{}
	}
	return slots, nil
}
