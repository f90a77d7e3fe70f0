package appointment

import (
	"context"
	"time"

	"github.com/barberella/barberella-api/internal/models"
)

type Repository interface {
	// -------- Settings / services --------
	GetSettings(ctx context.Context) (*models.ShopSettings, error)

	GetService(ctx context.Context, id uint) (*models.Service, error)

	// -------- Booking guard --------
	HasSlotConflict(
		ctx context.Context,
		slot Slot,
		excludeID uint,
	) (bool, error)

	CodeInUse(
		ctx context.Context,
		code string,
		from time.Time,
	) (bool, error)

	// -------- Appointment --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	ListForDay(
		ctx context.Context,
		date time.Time,
		barberID *uint,
	) ([]models.Appointment, error)

	// -------- Customer --------
	UpsertCustomerVisit(
		ctx context.Context,
		name string,
		phone string,
		visit time.Time,
	) error

	// InTx runs fn against a transaction-scoped repository. Conflict
	// checks issued inside hold row locks until commit or abort.
	InTx(ctx context.Context, fn func(Repository) error) error
}
