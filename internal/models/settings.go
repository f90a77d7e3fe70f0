package models

import (
	"strings"
	"time"
)

// ShopSettings is a single-row table. The settings handler creates the
// row with defaults on first read.
type ShopSettings struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ShopName string `gorm:"size:100;not null" json:"shop_name"`

	OpeningTime  string `gorm:"size:5;default:'09:00'" json:"opening_time"`
	ClosingTime  string `gorm:"size:5;default:'19:00'" json:"closing_time"`
	SlotDuration int    `gorm:"default:30" json:"slot_duration"`

	// Comma-joined short weekday names, e.g. "Mon,Tue,Wed,Thu,Fri,Sat".
	DaysOpen string `gorm:"size:50" json:"days_open"`

	MaxAdvanceDays    int `gorm:"default:30" json:"max_advance_days"`
	MinAdvanceMinutes int `gorm:"default:0" json:"min_advance_minutes"`

	Timezone string `gorm:"size:50" json:"timezone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *ShopSettings) IsOpenOn(day time.Weekday) bool {
	if s.DaysOpen == "" {
		return true
	}
	short := day.String()[:3]
	for _, d := range strings.Split(s.DaysOpen, ",") {
		if strings.EqualFold(strings.TrimSpace(d), short) {
			return true
		}
	}
	return false
}
