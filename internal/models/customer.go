package models

import "time"

// Customer rows are keyed by phone number: each booking upserts the
// matching row and bumps the visit counters.
type Customer struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	PhoneNumber string `gorm:"size:20;uniqueIndex;not null" json:"phone_number"`
	Email       string `gorm:"size:100" json:"email"`

	Notes string `gorm:"size:255" json:"notes"`

	TotalVisits int        `gorm:"default:0" json:"total_visits"`
	LastVisit   *time.Time `json:"last_visit"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
