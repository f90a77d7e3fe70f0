package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CustomerName string `gorm:"size:100;not null" json:"customer_name"`
	PhoneNumber  string `gorm:"size:20;not null;index" json:"phone_number"`

	Service string `gorm:"size:100;not null" json:"service"`

	// Nil means "any available barber".
	BarberID *uint   `gorm:"index" json:"barber_id"`
	Barber   *Barber `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"barber,omitempty"`

	Date     time.Time `gorm:"index" json:"date"`
	Time     string    `gorm:"size:5;not null" json:"time"`
	Duration int       `gorm:"default:30" json:"duration"`

	Status string `gorm:"size:20;default:'confirmed';index" json:"status"`

	ConfirmationCode string `gorm:"size:3;index" json:"confirmation_code"`

	Notes string  `gorm:"size:255" json:"notes"`
	Price float64 `json:"price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) StartTime() time.Time {
	t, err := time.Parse("15:04", a.Time)
	if err != nil {
		return a.Date
	}
	return time.Date(
		a.Date.Year(), a.Date.Month(), a.Date.Day(),
		t.Hour(), t.Minute(), 0, 0,
		a.Date.Location(),
	)
}

func (a *Appointment) EndTime() time.Time {
	return a.StartTime().Add(time.Duration(a.Duration) * time.Minute)
}
