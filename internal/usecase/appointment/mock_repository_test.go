package appointment

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/barberella/barberella-api/internal/domain/appointment"
	"github.com/barberella/barberella-api/internal/models"
)

// mockRepo is a hand-rolled in-memory double for the booking
// repository. Call counters let tests assert which checks ran.
type mockRepo struct {
	settings *models.ShopSettings
	service  *models.Service

	conflict      bool
	conflictCalls int
	lastSlot      domain.Slot
	lastExclude   uint

	codeInUse func(code string) bool

	appointments map[uint]*models.Appointment

	created *models.Appointment
	updated *models.Appointment
	deleted *models.Appointment

	dayList []models.Appointment

	upsertName  string
	upsertPhone string

	txCalls int
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		settings: &models.ShopSettings{
			ShopName:     "Barberella",
			OpeningTime:  "09:00",
			ClosingTime:  "19:00",
			SlotDuration: 30,
			DaysOpen:     "Mon,Tue,Wed,Thu,Fri,Sat",
			Timezone:     "UTC",
		},
		appointments: map[uint]*models.Appointment{},
	}
}

func (m *mockRepo) GetSettings(ctx context.Context) (*models.ShopSettings, error) {
	return m.settings, nil
}

func (m *mockRepo) GetService(ctx context.Context, id uint) (*models.Service, error) {
	if m.service == nil || m.service.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return m.service, nil
}

func (m *mockRepo) HasSlotConflict(ctx context.Context, slot domain.Slot, excludeID uint) (bool, error) {
	m.conflictCalls++
	m.lastSlot = slot
	m.lastExclude = excludeID
	return m.conflict, nil
}

func (m *mockRepo) CodeInUse(ctx context.Context, code string, from time.Time) (bool, error) {
	if m.codeInUse == nil {
		return false, nil
	}
	return m.codeInUse(code), nil
}

func (m *mockRepo) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	ap.ID = uint(len(m.appointments) + 1)
	m.appointments[ap.ID] = ap
	m.created = ap
	return nil
}

func (m *mockRepo) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	ap, ok := m.appointments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *ap
	return &cp, nil
}

func (m *mockRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	m.appointments[ap.ID] = ap
	m.updated = ap
	return nil
}

func (m *mockRepo) DeleteAppointment(ctx context.Context, ap *models.Appointment) error {
	delete(m.appointments, ap.ID)
	m.deleted = ap
	return nil
}

func (m *mockRepo) ListForDay(ctx context.Context, date time.Time, barberID *uint) ([]models.Appointment, error) {
	return m.dayList, nil
}

func (m *mockRepo) UpsertCustomerVisit(ctx context.Context, name, phone string, visit time.Time) error {
	m.upsertName = name
	m.upsertPhone = phone
	return nil
}

func (m *mockRepo) InTx(ctx context.Context, fn func(domain.Repository) error) error {
	m.txCalls++
	return fn(m)
}

var _ domain.Repository = (*mockRepo)(nil)
