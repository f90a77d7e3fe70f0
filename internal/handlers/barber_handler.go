package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/barberella/barberella-api/internal/audit"
	domain "github.com/barberella/barberella-api/internal/domain/appointment"
	"github.com/barberella/barberella-api/internal/httperr"
	"github.com/barberella/barberella-api/internal/httpresp"
	"github.com/barberella/barberella-api/internal/middleware"
	"github.com/barberella/barberella-api/internal/models"
	"github.com/barberella/barberella-api/internal/validators"
)

type BarberHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewBarberHandler(db *gorm.DB, audit *audit.Dispatcher) *BarberHandler {
	return &BarberHandler{db: db, audit: audit}
}

// --------- Requests ---------

type CreateBarberRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone" binding:"required"`
	Specialties string `json:"specialties"`
}

type UpdateBarberRequest struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Specialties *string `json:"specialties,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type BarberStats struct {
	TotalAppointments int64   `json:"total_appointments"`
	TodayAppointments int64   `json:"today_appointments"`
	TotalRevenue      float64 `json:"total_revenue"`
}

type BarberWithStats struct {
	models.Barber
	Stats BarberStats `json:"stats"`
}

// ======================================================
// LIST
// ======================================================

func (h *BarberHandler) List(c *gin.Context) {
	q := h.db.Model(&models.Barber{})

	if c.Query("active") == "true" {
		q = q.Where("is_active = ?", true)
	}

	var barbers []models.Barber
	if err := q.Order("name ASC").Find(&barbers).Error; err != nil {
		httperr.Internal(c, "failed_to_list_barbers", "Failed to list barbers.")
		return
	}

	loc := shopLocation(h.db)
	now := time.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	out := make([]BarberWithStats, 0, len(barbers))
	for _, barber := range barbers {
		var stats BarberStats

		h.db.Model(&models.Appointment{}).
			Where("barber_id = ?", barber.ID).
			Count(&stats.TotalAppointments)

		h.db.Model(&models.Appointment{}).
			Where("barber_id = ? AND date = ?", barber.ID, today).
			Count(&stats.TodayAppointments)

		h.db.Model(&models.Appointment{}).
			Where("barber_id = ? AND status = ?", barber.ID, string(domain.StatusCompleted)).
			Select("COALESCE(SUM(price), 0)").
			Scan(&stats.TotalRevenue)

		out = append(out, BarberWithStats{Barber: barber, Stats: stats})
	}

	httpresp.List(c, out)
}

// ======================================================
// CREATE
// ======================================================

func (h *BarberHandler) Create(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateBarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !validators.IsEmailDomainValid(email) {
		httperr.BadRequest(c, "invalid_email_domain", "The email domain does not look valid.")
		return
	}

	var count int64
	h.db.Model(&models.Barber{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		httperr.Conflict(c, "email_in_use", "A barber with this email already exists.")
		return
	}

	barber := models.Barber{
		Name:        req.Name,
		Email:       email,
		Phone:       req.Phone,
		Specialties: req.Specialties,
		IsActive:    true,
	}

	if err := h.db.Create(&barber).Error; err != nil {
		httperr.Internal(c, "failed_to_create_barber", "Failed to create barber.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "barber_created",
		Entity:   "barber",
		EntityID: &barber.ID,
	})

	c.JSON(201, barber)
}

// ======================================================
// UPDATE
// ======================================================

func (h *BarberHandler) Update(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)
	id := c.Param("id")

	var barber models.Barber
	if err := h.db.First(&barber, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "barber_not_found", "Barber not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_barber", "Failed to load barber.")
		return
	}

	var req UpdateBarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))

		var count int64
		h.db.Model(&models.Barber{}).
			Where("email = ? AND id <> ?", email, barber.ID).
			Count(&count)
		if count > 0 {
			httperr.Conflict(c, "email_in_use", "This email is already in use.")
			return
		}
		barber.Email = email
	}

	if req.Name != nil {
		barber.Name = *req.Name
	}
	if req.Phone != nil {
		barber.Phone = *req.Phone
	}
	if req.Specialties != nil {
		barber.Specialties = *req.Specialties
	}
	if req.IsActive != nil {
		barber.IsActive = *req.IsActive
	}

	if err := h.db.Save(&barber).Error; err != nil {
		httperr.Internal(c, "failed_to_update_barber", "Failed to update barber.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "barber_updated",
		Entity:   "barber",
		EntityID: &barber.ID,
	})

	c.JSON(200, barber)
}

// ======================================================
// DEACTIVATE (soft delete)
// ======================================================

func (h *BarberHandler) Deactivate(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)

	idStr := c.Query("id")
	if idStr == "" {
		httperr.BadRequest(c, "missing_id", "Barber id is required.")
		return
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid barber id.")
		return
	}

	var barber models.Barber
	if err := h.db.First(&barber, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "barber_not_found", "Barber not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_barber", "Failed to load barber.")
		return
	}

	barber.IsActive = false

	if err := h.db.Save(&barber).Error; err != nil {
		httperr.Internal(c, "failed_to_deactivate_barber", "Failed to deactivate barber.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "barber_deactivated",
		Entity:   "barber",
		EntityID: &barber.ID,
	})

	c.JSON(200, gin.H{
		"message": "Barber deactivated successfully",
		"barber":  barber,
	})
}
