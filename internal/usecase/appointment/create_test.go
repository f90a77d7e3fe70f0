package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/barberella/barberella-api/internal/audit"
	"github.com/barberella/barberella-api/internal/httperr"
)

func validCreateInput() CreateAppointmentInput {
	return CreateAppointmentInput{
		CustomerName: "Ana Souza",
		PhoneNumber:  "+15550100",
		Service:      "Haircut",
		Date:         "2030-06-12",
		Time:         "10:00",
		Price:        35,
		ActorID:      1,
	}
}

func newCreateUC(repo *mockRepo) *CreateAppointment {
	return NewCreateAppointment(repo, audit.NewDispatcher(nil))
}

func TestCreateAppointmentSuccess(t *testing.T) {
	repo := newMockRepo()
	uc := newCreateUC(repo)

	ap, err := uc.Execute(context.Background(), validCreateInput())

	assert.NoError(t, err)
	assert.NotNil(t, ap)
	assert.Equal(t, "confirmed", ap.Status)
	assert.Equal(t, 30, ap.Duration)
	assert.Len(t, ap.ConfirmationCode, 3)
	assert.GreaterOrEqual(t, ap.ConfirmationCode, "100")
	assert.LessOrEqual(t, ap.ConfirmationCode, "999")

	assert.Equal(t, 1, repo.txCalls)
	assert.Equal(t, "Ana Souza", repo.upsertName)
	assert.Equal(t, "+15550100", repo.upsertPhone)
}

func TestCreateAppointmentExplicitStatusAndDuration(t *testing.T) {
	repo := newMockRepo()
	uc := newCreateUC(repo)

	in := validCreateInput()
	in.Status = "pending"
	in.Duration = 45

	ap, err := uc.Execute(context.Background(), in)

	assert.NoError(t, err)
	assert.Equal(t, "pending", ap.Status)
	assert.Equal(t, 45, ap.Duration)
}

func TestCreateAppointmentSlotTaken(t *testing.T) {
	repo := newMockRepo()
	repo.conflict = true
	uc := newCreateUC(repo)

	ap, err := uc.Execute(context.Background(), validCreateInput())

	assert.Nil(t, ap)
	assert.True(t, httperr.IsBusiness(err, "slot_taken"))
	assert.Nil(t, repo.created)
}

func TestCreateAppointmentConflictChecksRequestedSlot(t *testing.T) {
	repo := newMockRepo()
	uc := newCreateUC(repo)

	in := validCreateInput()
	barberID := uint(2)
	in.BarberID = &barberID

	_, err := uc.Execute(context.Background(), in)

	assert.NoError(t, err)
	assert.Equal(t, "10:00", repo.lastSlot.Time)
	assert.Equal(t, "2030-06-12", repo.lastSlot.Date.Format("2006-01-02"))
	assert.Equal(t, barberID, *repo.lastSlot.BarberID)
	assert.Equal(t, uint(0), repo.lastExclude)
}

func TestCreateAppointmentMissingFields(t *testing.T) {
	repo := newMockRepo()
	uc := newCreateUC(repo)

	in := validCreateInput()
	in.PhoneNumber = ""

	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "missing_required_fields"))
	assert.Equal(t, 0, repo.txCalls)
}

func TestCreateAppointmentInvalidDateOrTime(t *testing.T) {
	repo := newMockRepo()
	uc := newCreateUC(repo)

	in := validCreateInput()
	in.Date = "12/06/2030"
	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "invalid_date_or_time"))

	in = validCreateInput()
	in.Time = "10h00"
	_, err = uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "invalid_date_or_time"))
}

func TestCreateAppointmentInvalidStatus(t *testing.T) {
	repo := newMockRepo()
	uc := newCreateUC(repo)

	in := validCreateInput()
	in.Status = "waiting"

	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))
}

func TestCreateAppointmentTooSoon(t *testing.T) {
	repo := newMockRepo()
	repo.settings.MinAdvanceMinutes = 60
	uc := newCreateUC(repo)

	in := validCreateInput()
	in.Date = "2020-01-01"

	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "too_soon"))
}

func TestCreateAppointmentCodeSpaceExhausted(t *testing.T) {
	repo := newMockRepo()
	repo.codeInUse = func(string) bool { return true }
	uc := newCreateUC(repo)

	ap, err := uc.Execute(context.Background(), validCreateInput())

	assert.Nil(t, ap)
	assert.True(t, httperr.IsBusiness(err, "code_space_exhausted"))
	assert.Nil(t, repo.created)
}
