package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domain "github.com/barberella/barberella-api/internal/domain/appointment"
	"github.com/barberella/barberella-api/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Settings / services
// --------------------------------------------------

func (r *AppointmentGormRepository) GetSettings(
	ctx context.Context,
) (*models.ShopSettings, error) {

	var settings models.ShopSettings
	if err := r.db.WithContext(ctx).First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).First(&service, id).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// --------------------------------------------------
// Booking guard
// --------------------------------------------------

// HasSlotConflict reports whether a blocking appointment already
// occupies the exact slot. A nil barber is only compared against other
// nil-barber appointments; it does NOT check every individual barber's
// bookings at that time. On its own this is a plain read: callers that
// need check-then-insert atomicity run it through InTx, whose
// serializable isolation aborts one of two transactions racing for the
// same free slot.
func (r *AppointmentGormRepository) HasSlotConflict(
	ctx context.Context,
	slot domain.Slot,
	excludeID uint,
) (bool, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("date = ? AND time = ? AND status IN ?",
			slot.Date, slot.Time, domain.BlockingStatuses())

	if slot.BarberID != nil {
		q = q.Where("barber_id = ?", *slot.BarberID)
	} else {
		q = q.Where("barber_id IS NULL")
	}

	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// CodeInUse reports whether any appointment on or after the given day
// holds the confirmation code. Past appointments are ignored, so the
// 900-value space recycles.
func (r *AppointmentGormRepository) CodeInUse(
	ctx context.Context,
	code string,
	from time.Time,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("confirmation_code = ? AND date >= ?", code, from).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	if err := r.db.WithContext(ctx).Create(ap).Error; err != nil {
		return err
	}

	if ap.BarberID != nil {
		ap.Barber = &models.Barber{}
		return r.db.WithContext(ctx).
			First(ap.Barber, *ap.BarberID).Error
	}
	return nil
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Barber").
		First(&ap, id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *AppointmentGormRepository) DeleteAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Delete(ap).Error
}

func (r *AppointmentGormRepository) ListForDay(
	ctx context.Context,
	date time.Time,
	barberID *uint,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Where("date = ? AND status IN ?", date, domain.BlockingStatuses())

	if barberID != nil {
		q = q.Where("barber_id = ?", *barberID)
	}

	var aps []models.Appointment
	if err := q.Order("time ASC").Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

// --------------------------------------------------
// Customer
// --------------------------------------------------

func (r *AppointmentGormRepository) UpsertCustomerVisit(
	ctx context.Context,
	name string,
	phone string,
	visit time.Time,
) error {

	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("phone_number = ?", phone).
		First(&customer).Error

	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return err
		}
		customer = models.Customer{
			Name:        name,
			PhoneNumber: phone,
			TotalVisits: 1,
			LastVisit:   &visit,
		}
		return r.db.WithContext(ctx).Create(&customer).Error
	}

	customer.TotalVisits++
	customer.LastVisit = &visit
	return r.db.WithContext(ctx).Save(&customer).Error
}

// --------------------------------------------------
// Transactions
// --------------------------------------------------

const maxTxAttempts = 3

// InTx runs fn in a SERIALIZABLE transaction. Plain row locks cannot
// guard a free slot (there is no row to lock yet), so double-booking is
// prevented by letting the database abort one of two transactions whose
// check-then-insert would interleave. Aborted transactions are retried
// a few times before the error surfaces.
func (r *AppointmentGormRepository) InTx(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return retrySerializable(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&AppointmentGormRepository{db: tx})
		}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	})
}

func retrySerializable(fn func() error) error {
	var err error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err = fn()
		if !isSerializationFailure(err) {
			return err
		}
	}
	return err
}

// SQLSTATE 40001: the database chose this transaction as the loser of
// a serialization conflict. The work is safe to re-run.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "40001"
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
