package appointment

import (
	"context"
	"time"

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

type CreateAppointmentInput struct {
	CustomerName string
	PhoneNumber  string
	Service      string

	BarberID *uint

	Date     string
	Time     string
	Duration int

	Notes  string
	Price  float64
	Status string

	ActorID uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	if in.CustomerName == "" || in.PhoneNumber == "" || in.Service == "" ||
		in.Date == "" || in.Time == "" {
		return nil, httperr.ErrBusiness("missing_required_fields")
	}

	settings, err := uc.repo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(settings.Timezone)

	date, err := time.ParseInLocation("2006-01-02", in.Date, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	if _, err := time.Parse("15:04", in.Time); err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	status := domain.InitialStatus()
	if in.Status != "" {
		status, err = domain.ParseStatus(in.Status)
		if err != nil {
			return nil, err
		}
	}

	duration := in.Duration
	if duration <= 0 {
		duration = 30
	}

	if settings.MinAdvanceMinutes > 0 {
		now := timezone.NowIn(settings.Timezone)
		ap := models.Appointment{Date: date, Time: in.Time}
		if ap.StartTime().Before(now.Add(time.Duration(settings.MinAdvanceMinutes) * time.Minute)) {
			return nil, httperr.ErrBusiness("too_soon")
		}
	}

	slot := domain.Slot{
		Date:     date,
		Time:     in.Time,
		BarberID: in.BarberID,
	}

	var created *models.Appointment

	// Conflict check, code allocation and insert commit together or
	// not at all. The transaction is serializable, so of two concurrent
	// bookings for the same free slot exactly one commits; the other is
	// aborted by the database and retried or rejected.
	err = uc.repo.InTx(ctx, func(r domain.Repository) error {

		taken, err := r.HasSlotConflict(ctx, slot, 0)
		if err != nil {
			return err
		}
		if taken {
			return httperr.ErrBusiness("slot_taken")
		}

		code, err := allocateConfirmationCode(ctx, r, startOfDay(timezone.NowIn(settings.Timezone)))
		if err != nil {
			return err
		}

		ap := &models.Appointment{
			CustomerName:     in.CustomerName,
			PhoneNumber:      in.PhoneNumber,
			Service:          in.Service,
			BarberID:         in.BarberID,
			Date:             date,
			Time:             in.Time,
			Duration:         duration,
			Status:           string(status),
			ConfirmationCode: code,
			Notes:            in.Notes,
			Price:            in.Price,
		}

		if err := r.CreateAppointment(ctx, ap); err != nil {
			return err
		}

		if err := r.UpsertCustomerVisit(ctx, in.CustomerName, in.PhoneNumber, date); err != nil {
			return err
		}

		created = ap
		return nil
	})

	if err != nil {
		if httperr.IsBusiness(err, "slot_taken") {
			metrics.BookingConflicts.Inc()

			uc.audit.Dispatch(audit.Event{
				UserID: &in.ActorID,
				Action: "appointment_conflict",
				Entity: "appointment",
				Metadata: map[string]any{
					"date":      in.Date,
					"time":      in.Time,
					"barber_id": in.BarberID,
				},
			})
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.ActorID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &created.ID,
	})

	return created, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
