package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/barberella/barberella-api/internal/httperr"
	"github.com/barberella/barberella-api/internal/models"
	"github.com/barberella/barberella-api/internal/timezone"
)

type SettingsHandler struct {
	db *gorm.DB
}

func NewSettingsHandler(db *gorm.DB) *SettingsHandler {
	return &SettingsHandler{db: db}
}

type UpdateSettingsRequest struct {
	ShopName          *string `json:"shop_name,omitempty"`
	OpeningTime       *string `json:"opening_time,omitempty"`
	ClosingTime       *string `json:"closing_time,omitempty"`
	SlotDuration      *int    `json:"slot_duration,omitempty"`
	DaysOpen          *string `json:"days_open,omitempty"`
	MaxAdvanceDays    *int    `json:"max_advance_days,omitempty"`
	MinAdvanceMinutes *int    `json:"min_advance_minutes,omitempty"`
	Timezone          *string `json:"timezone,omitempty"`
}

func defaultSettings() models.ShopSettings {
	return models.ShopSettings{
		ShopName:       "Barberella",
		OpeningTime:    "09:00",
		ClosingTime:    "19:00",
		SlotDuration:   30,
		DaysOpen:       "Mon,Tue,Wed,Thu,Fri,Sat",
		MaxAdvanceDays: 30,
		Timezone:       timezone.DefaultTimezone,
	}
}

// Get returns the single settings row, creating it with defaults on
// first read, plus the active barbers for the booking form.
func (h *SettingsHandler) Get(c *gin.Context) {
	var settings models.ShopSettings
	if err := h.db.First(&settings).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			httperr.Internal(c, "failed_to_get_settings", "Failed to load settings.")
			return
		}

		settings = defaultSettings()
		if err := h.db.Create(&settings).Error; err != nil {
			httperr.Internal(c, "failed_to_create_settings", "Failed to create settings.")
			return
		}
	}

	var barbers []models.Barber
	h.db.Where("is_active = ?", true).Order("name ASC").Find(&barbers)

	c.JSON(200, gin.H{
		"settings": settings,
		"barbers":  barbers,
	})
}

func (h *SettingsHandler) Update(c *gin.Context) {
	var settings models.ShopSettings
	if err := h.db.First(&settings).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			httperr.Internal(c, "failed_to_get_settings", "Failed to load settings.")
			return
		}
		settings = defaultSettings()
		if err := h.db.Create(&settings).Error; err != nil {
			httperr.Internal(c, "failed_to_create_settings", "Failed to create settings.")
			return
		}
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.ShopName != nil {
		settings.ShopName = *req.ShopName
	}
	if req.OpeningTime != nil {
		settings.OpeningTime = *req.OpeningTime
	}
	if req.ClosingTime != nil {
		settings.ClosingTime = *req.ClosingTime
	}
	if req.SlotDuration != nil {
		if *req.SlotDuration <= 0 {
			httperr.BadRequest(c, "invalid_slot_duration", "Slot duration must be positive.")
			return
		}
		settings.SlotDuration = *req.SlotDuration
	}
	if req.DaysOpen != nil {
		settings.DaysOpen = *req.DaysOpen
	}
	if req.MaxAdvanceDays != nil {
		settings.MaxAdvanceDays = *req.MaxAdvanceDays
	}
	if req.MinAdvanceMinutes != nil {
		if *req.MinAdvanceMinutes < 0 {
			httperr.BadRequest(c, "invalid_min_advance", "Minimum advance must be zero or positive.")
			return
		}
		settings.MinAdvanceMinutes = *req.MinAdvanceMinutes
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Unknown timezone.")
			return
		}
		settings.Timezone = *req.Timezone
	}

	if err := h.db.Save(&settings).Error; err != nil {
		httperr.Internal(c, "failed_to_update_settings", "Failed to save settings.")
		return
	}

	c.JSON(200, settings)
}
