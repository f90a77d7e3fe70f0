package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/barberella/barberella-api/internal/domain/appointment"
	"github.com/barberella/barberella-api/internal/httperr"
	"github.com/barberella/barberella-api/internal/models"
)

type CustomerHandler struct {
	db *gorm.DB
}

func NewCustomerHandler(db *gorm.DB) *CustomerHandler {
	return &CustomerHandler{db: db}
}

// --------- Requests ---------

type UpsertCustomerRequest struct {
	Name        string `json:"name" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Email       string `json:"email"`
	Notes       string `json:"notes"`
}

type UpdateCustomerRequest struct {
	ID uint `json:"id" binding:"required"`

	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

type CustomerWithHistory struct {
	models.Customer
	RecentAppointments []models.Appointment `json:"recent_appointments"`
	TotalSpent         float64              `json:"total_spent"`
}

// ======================================================
// LIST
// ======================================================

func (h *CustomerHandler) List(c *gin.Context) {
	search := strings.ToLower(strings.TrimSpace(c.Query("search")))

	limit := 100
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}

	offset := 0
	if s := c.Query("offset"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			offset = n
		}
	}

	q := h.db.Model(&models.Customer{})

	if search != "" {
		like := "%" + search + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone_number LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_count_customers", "Failed to count customers.")
		return
	}

	var customers []models.Customer
	if err := q.
		Order("last_visit DESC NULLS LAST, name ASC").
		Limit(limit).
		Offset(offset).
		Find(&customers).Error; err != nil {
		httperr.Internal(c, "failed_to_list_customers", "Failed to list customers.")
		return
	}

	out := make([]CustomerWithHistory, 0, len(customers))
	for _, customer := range customers {
		var recent []models.Appointment
		h.db.
			Preload("Barber").
			Where("phone_number = ?", customer.PhoneNumber).
			Order("date DESC, time DESC").
			Limit(5).
			Find(&recent)

		var spent float64
		h.db.Model(&models.Appointment{}).
			Where("phone_number = ? AND status = ?",
				customer.PhoneNumber, string(domain.StatusCompleted)).
			Select("COALESCE(SUM(price), 0)").
			Scan(&spent)

		out = append(out, CustomerWithHistory{
			Customer:           customer,
			RecentAppointments: recent,
			TotalSpent:         spent,
		})
	}

	c.JSON(200, gin.H{
		"customers": out,
		"total":     total,
		"limit":     limit,
		"offset":    offset,
	})
}

// ======================================================
// UPSERT (create-or-update by phone)
// ======================================================

func (h *CustomerHandler) Upsert(c *gin.Context) {
	var req UpsertCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	var customer models.Customer
	err := h.db.Where("phone_number = ?", req.PhoneNumber).First(&customer).Error

	if err != nil {
		if err != gorm.ErrRecordNotFound {
			httperr.Internal(c, "failed_to_get_customer", "Failed to load customer.")
			return
		}

		customer = models.Customer{
			Name:        req.Name,
			PhoneNumber: req.PhoneNumber,
			Email:       req.Email,
			Notes:       req.Notes,
		}
		if err := h.db.Create(&customer).Error; err != nil {
			httperr.Internal(c, "failed_to_create_customer", "Failed to create customer.")
			return
		}

		c.JSON(200, customer)
		return
	}

	customer.Name = req.Name
	customer.Email = req.Email
	customer.Notes = req.Notes

	if err := h.db.Save(&customer).Error; err != nil {
		httperr.Internal(c, "failed_to_update_customer", "Failed to update customer.")
		return
	}

	c.JSON(200, customer)
}

// ======================================================
// UPDATE
// ======================================================

func (h *CustomerHandler) Update(c *gin.Context) {
	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	var customer models.Customer
	if err := h.db.First(&customer, req.ID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "customer_not_found", "Customer not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_customer", "Failed to load customer.")
		return
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Notes != nil {
		customer.Notes = *req.Notes
	}

	if err := h.db.Save(&customer).Error; err != nil {
		httperr.Internal(c, "failed_to_update_customer", "Failed to update customer.")
		return
	}

	c.JSON(200, customer)
}
