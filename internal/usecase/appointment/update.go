package appointment

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/barberella/barberella-api/internal/audit"
	domain "github.com/barberella/barberella-api/internal/domain/appointment"
	"github.com/barberella/barberella-api/internal/httperr"
	"github.com/barberella/barberella-api/internal/metrics"
	"github.com/barberella/barberella-api/internal/models"
	"github.com/barberella/barberella-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type UpdateAppointmentInput struct {
	ID uint

	CustomerName *string
	PhoneNumber  *string
	Service      *string

	BarberID *uint

	Date     *string
	Time     *string
	Duration *int

	Notes  *string
	Price  *float64
	Status *string

	ActorID uint
}

func (in UpdateAppointmentInput) movesSlot() bool {
	return in.Date != nil || in.Time != nil || in.BarberID != nil
}

// ======================================================
// USE CASE
// ======================================================

type UpdateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	settings, err := uc.repo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(settings.Timezone)

	var updated *models.Appointment

	err = uc.repo.InTx(ctx, func(r domain.Repository) error {

		ap, err := r.GetAppointment(ctx, in.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.ErrBusiness("appointment_not_found")
			}
			return err
		}

		date := ap.Date
		if in.Date != nil {
			date, err = time.ParseInLocation("2006-01-02", *in.Date, loc)
			if err != nil {
				return httperr.ErrBusiness("invalid_date_or_time")
			}
		}

		slotTime := ap.Time
		if in.Time != nil {
			if _, err := time.Parse("15:04", *in.Time); err != nil {
				return httperr.ErrBusiness("invalid_date_or_time")
			}
			slotTime = *in.Time
		}

		barberID := ap.BarberID
		if in.BarberID != nil {
			barberID = in.BarberID
		}

		// Re-run the availability check only when the slot moves,
		// excluding the appointment's own row. A no-op update to the
		// current slot passes.
		if in.movesSlot() {
			slot := domain.Slot{
				Date:     date,
				Time:     slotTime,
				BarberID: barberID,
			}

			taken, err := r.HasSlotConflict(ctx, slot, ap.ID)
			if err != nil {
				return err
			}
			if taken {
				return httperr.ErrBusiness("slot_taken")
			}
		}

		ap.Date = date
		ap.Time = slotTime
		ap.BarberID = barberID

		if in.CustomerName != nil {
			ap.CustomerName = *in.CustomerName
		}
		if in.PhoneNumber != nil {
			ap.PhoneNumber = *in.PhoneNumber
		}
		if in.Service != nil {
			ap.Service = *in.Service
		}
		if in.Duration != nil {
			ap.Duration = *in.Duration
		}
		if in.Notes != nil {
			ap.Notes = *in.Notes
		}
		if in.Price != nil {
			ap.Price = *in.Price
		}
		if in.Status != nil {
			status, err := domain.ParseStatus(*in.Status)
			if err != nil {
				return err
			}
			ap.Status = string(status)
		}

		if err := r.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		updated = ap
		return nil
	})

	if err != nil {
		if httperr.IsBusiness(err, "slot_taken") {
			metrics.BookingConflicts.Inc()
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.ActorID,
		Action:   "appointment_updated",
		Entity:   "appointment",
		EntityID: &updated.ID,
	})

	return updated, nil
}
