package handlers

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	domain "github.com/barberella/barberella-api/internal/domain/appointment"
	"github.com/barberella/barberella-api/internal/httperr"
	"github.com/barberella/barberella-api/internal/models"
)

type AnalyticsHandler struct {
	db    *gorm.DB
	cache *redis.Client
	ttl   time.Duration
}

func NewAnalyticsHandler(db *gorm.DB, cache *redis.Client, ttl time.Duration) *AnalyticsHandler {
	return &AnalyticsHandler{db: db, cache: cache, ttl: ttl}
}

// --------- Response shapes ---------

type ServiceStat struct {
	Service string  `json:"service"`
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}

type BarberPerformance struct {
	BarberID uint    `json:"barber_id"`
	Name     string  `json:"name"`
	Count    int64   `json:"count"`
	Revenue  float64 `json:"revenue"`
}

type DailyRevenue struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

type PeakHour struct {
	Hour  string `json:"hour"`
	Count int64  `json:"count"`
}

type AnalyticsResponse struct {
	Period string `json:"period"`

	Revenue       float64 `json:"revenue"`
	RevenueChange float64 `json:"revenue_change"`

	Appointments       int64   `json:"appointments"`
	AppointmentsChange float64 `json:"appointments_change"`

	UniqueCustomers int64 `json:"unique_customers"`
	NewCustomers    int64 `json:"new_customers"`
	TotalCustomers  int64 `json:"total_customers"`

	AvgAppointmentValue float64 `json:"avg_appointment_value"`

	PopularServices   []ServiceStat       `json:"popular_services"`
	BarberPerformance []BarberPerformance `json:"barber_performance"`
	RevenueChart      []DailyRevenue      `json:"revenue_chart"`
	StatusBreakdown   map[string]int64    `json:"status_breakdown"`
	PeakHours         []PeakHour          `json:"peak_hours"`
}

// ======================================================
// GET
// ======================================================

func (h *AnalyticsHandler) Get(c *gin.Context) {
	period := c.DefaultQuery("period", "month")
	switch period {
	case "week", "month", "year":
	default:
		period = "month"
	}

	cacheKey := "analytics:" + period

	if h.cache != nil {
		if raw, err := h.cache.Get(c.Request.Context(), cacheKey).Bytes(); err == nil {
			c.Data(200, "application/json", raw)
			return
		}
	}

	loc := shopLocation(h.db)
	now := time.Now().In(loc)

	start, prevStart, prevEnd := periodBounds(period, now)

	resp, err := h.compute(period, start, now, prevStart, prevEnd)
	if err != nil {
		httperr.Internal(c, "failed_to_compute_analytics", "Failed to compute analytics.")
		return
	}

	if h.cache != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := h.cache.Set(c.Request.Context(), cacheKey, raw, h.ttl).Err(); err != nil {
				logrus.Warnf("analytics cache write failed: %v", err)
			}
		}
	}

	c.JSON(200, resp)
}

func periodBounds(period string, now time.Time) (start, prevStart, prevEnd time.Time) {
	loc := now.Location()

	switch period {
	case "week":
		weekday := int(now.Weekday())
		start = time.Date(now.Year(), now.Month(), now.Day()-weekday, 0, 0, 0, 0, loc)
		prevStart = start.AddDate(0, 0, -7)
		prevEnd = start
	case "year":
		start = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, loc)
		prevStart = time.Date(now.Year()-1, 1, 1, 0, 0, 0, 0, loc)
		prevEnd = start
	default: // month
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		prevStart = start.AddDate(0, -1, 0)
		prevEnd = start
	}
	return start, prevStart, prevEnd
}

func percentChange(current, previous float64) float64 {
	if previous <= 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

func (h *AnalyticsHandler) compute(
	period string,
	start, end, prevStart, prevEnd time.Time,
) (*AnalyticsResponse, error) {

	completed := string(domain.StatusCompleted)

	currentQ := func() *gorm.DB {
		return h.db.Model(&models.Appointment{}).
			Where("date >= ? AND date <= ? AND status = ?", start, end, completed)
	}

	resp := &AnalyticsResponse{
		Period:          period,
		StatusBreakdown: map[string]int64{},
	}

	if err := currentQ().
		Select("COALESCE(SUM(price), 0)").
		Scan(&resp.Revenue).Error; err != nil {
		return nil, err
	}

	if err := currentQ().Count(&resp.Appointments).Error; err != nil {
		return nil, err
	}

	var prevRevenue float64
	var prevCount int64

	prevQ := h.db.Model(&models.Appointment{}).
		Where("date >= ? AND date < ? AND status = ?", prevStart, prevEnd, completed)
	if err := prevQ.Session(&gorm.Session{}).
		Select("COALESCE(SUM(price), 0)").
		Scan(&prevRevenue).Error; err != nil {
		return nil, err
	}
	if err := prevQ.Session(&gorm.Session{}).Count(&prevCount).Error; err != nil {
		return nil, err
	}

	resp.RevenueChange = percentChange(resp.Revenue, prevRevenue)
	resp.AppointmentsChange = percentChange(float64(resp.Appointments), float64(prevCount))

	if err := currentQ().
		Select("COUNT(DISTINCT phone_number)").
		Scan(&resp.UniqueCustomers).Error; err != nil {
		return nil, err
	}

	if err := h.db.Model(&models.Customer{}).
		Count(&resp.TotalCustomers).Error; err != nil {
		return nil, err
	}

	if err := h.db.Model(&models.Customer{}).
		Where("created_at >= ?", start).
		Count(&resp.NewCustomers).Error; err != nil {
		return nil, err
	}

	if resp.Appointments > 0 {
		resp.AvgAppointmentValue = resp.Revenue / float64(resp.Appointments)
	}

	if err := currentQ().
		Select("service, COUNT(*) AS count, COALESCE(SUM(price), 0) AS revenue").
		Group("service").
		Order("count DESC").
		Limit(5).
		Scan(&resp.PopularServices).Error; err != nil {
		return nil, err
	}

	if err := currentQ().
		Select("barbers.id AS barber_id, barbers.name AS name, COUNT(*) AS count, COALESCE(SUM(appointments.price), 0) AS revenue").
		Joins("JOIN barbers ON barbers.id = appointments.barber_id").
		Group("barbers.id, barbers.name").
		Order("revenue DESC").
		Scan(&resp.BarberPerformance).Error; err != nil {
		return nil, err
	}

	var daily []struct {
		Date    time.Time
		Revenue float64
	}
	if err := currentQ().
		Select("date, COALESCE(SUM(price), 0) AS revenue").
		Group("date").
		Order("date ASC").
		Scan(&daily).Error; err != nil {
		return nil, err
	}
	resp.RevenueChart = make([]DailyRevenue, 0, len(daily))
	for _, d := range daily {
		resp.RevenueChart = append(resp.RevenueChart, DailyRevenue{
			Date:    d.Date.Format("2006-01-02"),
			Revenue: d.Revenue,
		})
	}

	var statuses []struct {
		Status string
		Count  int64
	}
	if err := h.db.Model(&models.Appointment{}).
		Where("date >= ? AND date <= ?", start, end).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&statuses).Error; err != nil {
		return nil, err
	}
	for _, s := range statuses {
		resp.StatusBreakdown[s.Status] = s.Count
	}

	var hours []struct {
		Hour  string
		Count int64
	}
	if err := currentQ().
		Select("LEFT(time, 2) AS hour, COUNT(*) AS count").
		Group("LEFT(time, 2)").
		Order("count DESC").
		Limit(3).
		Scan(&hours).Error; err != nil {
		return nil, err
	}
	resp.PeakHours = make([]PeakHour, 0, len(hours))
	for _, hr := range hours {
		resp.PeakHours = append(resp.PeakHours, PeakHour{
			Hour:  hr.Hour + ":00",
			Count: hr.Count,
		})
	}

	return resp, nil
}
