package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/barberella/barberella-api/internal/httperr"
	"github.com/barberella/barberella-api/internal/middleware"
	"github.com/barberella/barberella-api/internal/models"
	ucAppointment "github.com/barberella/barberella-api/internal/usecase/appointment"
)

// --------- Use case stubs ---------

type stubCreate struct {
	got ucAppointment.CreateAppointmentInput
	ap  *models.Appointment
	err error
}

func (s *stubCreate) Execute(ctx context.Context, in ucAppointment.CreateAppointmentInput) (*models.Appointment, error) {
	s.got = in
	return s.ap, s.err
}

type stubUpdate struct {
	ap  *models.Appointment
	err error
}

func (s *stubUpdate) Execute(ctx context.Context, in ucAppointment.UpdateAppointmentInput) (*models.Appointment, error) {
	return s.ap, s.err
}

type stubDelete struct{ err error }

func (s *stubDelete) Execute(ctx context.Context, id uint, actorID uint) error {
	return s.err
}

type stubSetStatus struct {
	gotStatus string
	ap        *models.Appointment
	err       error
}

func (s *stubSetStatus) Execute(ctx context.Context, id uint, status string, actorID uint) (*models.Appointment, error) {
	s.gotStatus = status
	return s.ap, s.err
}

type stubFreeSlots struct {
	slots []ucAppointment.TimeSlot
	err   error
}

func (s *stubFreeSlots) Execute(ctx context.Context, in ucAppointment.ListFreeSlotsInput) ([]ucAppointment.TimeSlot, error) {
	return s.slots, s.err
}

// --------- Router ---------

func testRouter(h *AppointmentHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, uint(1))
		c.Set(middleware.ContextUserRole, "admin")
	})

	r.POST("/api/appointments", h.Create)
	r.PUT("/api/appointments", h.Update)
	r.DELETE("/api/appointments", h.Delete)
	r.PUT("/api/appointments/:id/status", h.SetStatus)
	r.GET("/api/appointments/availability", h.Availability)
	return r
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// --------- Tests ---------

func TestCreateAppointmentEndpoint(t *testing.T) {
	create := &stubCreate{
		ap: &models.Appointment{
			ID:               1,
			CustomerName:     "Ana Souza",
			ConfirmationCode: "417",
			Status:           "confirmed",
		},
	}
	h := NewAppointmentHandler(nil, create, &stubUpdate{}, &stubDelete{}, &stubSetStatus{}, &stubFreeSlots{})
	r := testRouter(h)

	w := doJSON(r, http.MethodPost, "/api/appointments", gin.H{
		"customer_name": "Ana Souza",
		"phone_number":  "+15550100",
		"service":       "Haircut",
		"date":          "2030-06-12",
		"time":          "10:00",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Ana Souza", create.got.CustomerName)
	assert.Equal(t, uint(1), create.got.ActorID)

	var resp models.Appointment
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "417", resp.ConfirmationCode)
}

func TestCreateAppointmentEndpointConflict(t *testing.T) {
	create := &stubCreate{err: httperr.ErrBusiness("slot_taken")}
	h := NewAppointmentHandler(nil, create, &stubUpdate{}, &stubDelete{}, &stubSetStatus{}, &stubFreeSlots{})
	r := testRouter(h)

	w := doJSON(r, http.MethodPost, "/api/appointments", gin.H{
		"customer_name": "Ana Souza",
		"phone_number":  "+15550100",
		"service":       "Haircut",
		"date":          "2030-06-12",
		"time":          "10:00",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "slot_taken")
}

func TestCreateAppointmentEndpointCodeExhausted(t *testing.T) {
	create := &stubCreate{err: httperr.ErrBusiness("code_space_exhausted")}
	h := NewAppointmentHandler(nil, create, &stubUpdate{}, &stubDelete{}, &stubSetStatus{}, &stubFreeSlots{})
	r := testRouter(h)

	w := doJSON(r, http.MethodPost, "/api/appointments", gin.H{
		"customer_name": "Ana Souza",
		"phone_number":  "+15550100",
		"service":       "Haircut",
		"date":          "2030-06-12",
		"time":          "10:00",
	})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "code_space_exhausted")
}

func TestCreateAppointmentEndpointMissingBody(t *testing.T) {
	h := NewAppointmentHandler(nil, &stubCreate{}, &stubUpdate{}, &stubDelete{}, &stubSetStatus{}, &stubFreeSlots{})
	r := testRouter(h)

	w := doJSON(r, http.MethodPost, "/api/appointments", gin.H{
		"customer_name": "Ana Souza",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateAppointmentEndpointNotFound(t *testing.T) {
	update := &stubUpdate{err: httperr.ErrBusiness("appointment_not_found")}
	h := NewAppointmentHandler(nil, &stubCreate{}, update, &stubDelete{}, &stubSetStatus{}, &stubFreeSlots{})
	r := testRouter(h)

	w := doJSON(r, http.MethodPut, "/api/appointments", gin.H{"id": 99})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetStatusEndpoint(t *testing.T) {
	setStatus := &stubSetStatus{ap: &models.Appointment{ID: 7, Status: "completed"}}
	h := NewAppointmentHandler(nil, &stubCreate{}, &stubUpdate{}, &stubDelete{}, setStatus, &stubFreeSlots{})
	r := testRouter(h)

	w := doJSON(r, http.MethodPut, "/api/appointments/7/status", gin.H{"status": "completed"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "completed", setStatus.gotStatus)
}

func TestSetStatusEndpointInvalid(t *testing.T) {
	setStatus := &stubSetStatus{err: httperr.ErrBusiness("invalid_status")}
	h := NewAppointmentHandler(nil, &stubCreate{}, &stubUpdate{}, &stubDelete{}, setStatus, &stubFreeSlots{})
	r := testRouter(h)

	w := doJSON(r, http.MethodPut, "/api/appointments/7/status", gin.H{"status": "waiting"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteAppointmentEndpointMissingID(t *testing.T) {
	h := NewAppointmentHandler(nil, &stubCreate{}, &stubUpdate{}, &stubDelete{}, &stubSetStatus{}, &stubFreeSlots{})
	r := testRouter(h)

	w := doJSON(r, http.MethodDelete, "/api/appointments", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing_id")
}

func TestAvailabilityEndpoint(t *testing.T) {
	free := &stubFreeSlots{slots: []ucAppointment.TimeSlot{
		{Start: "09:00", End: "09:30"},
	}}
	h := NewAppointmentHandler(nil, &stubCreate{}, &stubUpdate{}, &stubDelete{}, &stubSetStatus{}, free)
	r := testRouter(h)

	w := doJSON(r, http.MethodGet, "/api/appointments/availability?date=2030-06-12", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "09:00")
}

func TestAvailabilityEndpointMissingDate(t *testing.T) {
	h := NewAppointmentHandler(nil, &stubCreate{}, &stubUpdate{}, &stubDelete{}, &stubSetStatus{}, &stubFreeSlots{})
	r := testRouter(h)

	w := doJSON(r, http.MethodGet, "/api/appointments/availability", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing_date")
}
