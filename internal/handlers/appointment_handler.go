package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/barberella/barberella-api/internal/httperr"
	"github.com/barberella/barberella-api/internal/middleware"
	"github.com/barberella/barberella-api/internal/models"
	ucAppointment "github.com/barberella/barberella-api/internal/usecase/appointment"
)

// ======================================================
// USE CASE CONTRACTS
// ======================================================

type createAppointmentUC interface {
	Execute(ctx context.Context, in ucAppointment.CreateAppointmentInput) (*models.Appointment, error)
}

type updateAppointmentUC interface {
	Execute(ctx context.Context, in ucAppointment.UpdateAppointmentInput) (*models.Appointment, error)
}

type deleteAppointmentUC interface {
	Execute(ctx context.Context, id uint, actorID uint) error
}

type setAppointmentStatusUC interface {
	Execute(ctx context.Context, id uint, status string, actorID uint) (*models.Appointment, error)
}

type listFreeSlotsUC interface {
	Execute(ctx context.Context, in ucAppointment.ListFreeSlotsInput) ([]ucAppointment.TimeSlot, error)
}

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	db        *gorm.DB
	create    createAppointmentUC
	update    updateAppointmentUC
	delete    deleteAppointmentUC
	setStatus setAppointmentStatusUC
	freeSlots listFreeSlotsUC
}

func NewAppointmentHandler(
	db *gorm.DB,
	create createAppointmentUC,
	update updateAppointmentUC,
	del deleteAppointmentUC,
	setStatus setAppointmentStatusUC,
	freeSlots listFreeSlotsUC,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:        db,
		create:    create,
		update:    update,
		delete:    del,
		setStatus: setStatus,
		freeSlots: freeSlots,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	CustomerName string `json:"customer_name" binding:"required"`
	PhoneNumber  string `json:"phone_number" binding:"required"`
	Service      string `json:"service" binding:"required"`

	BarberID *uint `json:"barber_id"`

	Date     string `json:"date" binding:"required"`
	Time     string `json:"time" binding:"required"`
	Duration int    `json:"duration"`

	Notes  string  `json:"notes"`
	Price  float64 `json:"price"`
	Status string  `json:"status"`
}

type UpdateAppointmentRequest struct {
	ID uint `json:"id" binding:"required"`

	CustomerName *string `json:"customer_name,omitempty"`
	PhoneNumber  *string `json:"phone_number,omitempty"`
	Service      *string `json:"service,omitempty"`

	BarberID *uint `json:"barber_id,omitempty"`

	Date     *string `json:"date,omitempty"`
	Time     *string `json:"time,omitempty"`
	Duration *int    `json:"duration,omitempty"`

	Notes  *string  `json:"notes,omitempty"`
	Price  *float64 `json:"price,omitempty"`
	Status *string  `json:"status,omitempty"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	q := h.db.Preload("Barber")

	if dateStr := c.Query("date"); dateStr != "" {
		date, err := parseShopDate(h.db, dateStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Invalid date.")
			return
		}
		q = q.Where("date = ?", date)
	}

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	if barberIDStr := c.Query("barber_id"); barberIDStr != "" {
		barberID, err := strconv.Atoi(barberIDStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_barber_id", "Invalid barber id.")
			return
		}
		q = q.Where("barber_id = ?", barberID)
	}

	if phone := c.Query("phone_number"); phone != "" {
		q = q.Where("phone_number = ?", phone)
	}

	var aps []models.Appointment
	if err := q.
		Order("date ASC, time ASC").
		Find(&aps).Error; err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Failed to list appointments.")
		return
	}

	c.JSON(200, aps)
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		CustomerName: req.CustomerName,
		PhoneNumber:  req.PhoneNumber,
		Service:      req.Service,
		BarberID:     req.BarberID,
		Date:         req.Date,
		Time:         req.Time,
		Duration:     req.Duration,
		Notes:        req.Notes,
		Price:        req.Price,
		Status:       req.Status,
		ActorID:      actorID,
	})
	if err != nil {
		h.writeBookingError(c, err)
		return
	}

	c.JSON(201, ap)
}

// ======================================================
// UPDATE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	ap, err := h.update.Execute(c.Request.Context(), ucAppointment.UpdateAppointmentInput{
		ID:           req.ID,
		CustomerName: req.CustomerName,
		PhoneNumber:  req.PhoneNumber,
		Service:      req.Service,
		BarberID:     req.BarberID,
		Date:         req.Date,
		Time:         req.Time,
		Duration:     req.Duration,
		Notes:        req.Notes,
		Price:        req.Price,
		Status:       req.Status,
		ActorID:      actorID,
	})
	if err != nil {
		h.writeBookingError(c, err)
		return
	}

	c.JSON(200, ap)
}

// ======================================================
// DELETE
// ======================================================

func (h *AppointmentHandler) Delete(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)

	idStr := c.Query("id")
	if idStr == "" {
		httperr.BadRequest(c, "missing_id", "Appointment id is required.")
		return
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	if err := h.delete.Execute(c.Request.Context(), uint(id), actorID); err != nil {
		h.writeBookingError(c, err)
		return
	}

	c.JSON(200, gin.H{"message": "Appointment deleted successfully"})
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) SetStatus(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "missing_status", "Status is required.")
		return
	}

	ap, err := h.setStatus.Execute(c.Request.Context(), uint(id), req.Status, actorID)
	if err != nil {
		h.writeBookingError(c, err)
		return
	}

	c.JSON(200, ap)
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Date is required.")
		return
	}

	var serviceID uint
	if s := c.Query("service_id"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			httperr.BadRequest(c, "invalid_service_id", "Invalid service id.")
			return
		}
		serviceID = uint(n)
	}

	var barberID *uint
	if s := c.Query("barber_id"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			httperr.BadRequest(c, "invalid_barber_id", "Invalid barber id.")
			return
		}
		id := uint(n)
		barberID = &id
	}

	slots, err := h.freeSlots.Execute(c.Request.Context(), ucAppointment.ListFreeSlotsInput{
		Date:      dateStr,
		ServiceID: serviceID,
		BarberID:  barberID,
	})
	if err != nil {
		h.writeBookingError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"date":  dateStr,
		"slots": slots,
	})
}

// ======================================================
// ERROR MAPPING
// ======================================================

func (h *AppointmentHandler) writeBookingError(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, "slot_taken"):
		httperr.Conflict(c, "slot_taken", "This time slot is already booked.")
	case httperr.IsBusiness(err, "code_space_exhausted"):
		httperr.Unavailable(c, "code_space_exhausted", "No confirmation codes available, try again.")
	case httperr.IsBusiness(err, "appointment_not_found"):
		httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
	case httperr.IsBusiness(err, "service_not_found"):
		httperr.BadRequest(c, "service_not_found", "Service not found.")
	case httperr.IsBusiness(err, "missing_required_fields"):
		httperr.BadRequest(c, "missing_required_fields", "Missing required fields.")
	case httperr.IsBusiness(err, "invalid_date_or_time"):
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
	case httperr.IsBusiness(err, "invalid_status"):
		httperr.BadRequest(c, "invalid_status", "Invalid status.")
	case httperr.IsBusiness(err, "too_soon"):
		httperr.BadRequest(c, "too_soon", "The requested time is too soon.")
	default:
		httperr.Internal(c, "appointment_error", "Failed to process appointment.")
	}
}
