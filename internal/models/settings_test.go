package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsOpenOn(t *testing.T) {
	s := ShopSettings{DaysOpen: "Mon,Tue,Wed,Thu,Fri,Sat"}

	assert.True(t, s.IsOpenOn(time.Monday))
	assert.True(t, s.IsOpenOn(time.Saturday))
	assert.False(t, s.IsOpenOn(time.Sunday))

	empty := ShopSettings{}
	assert.True(t, empty.IsOpenOn(time.Sunday))
}

func TestAppointmentStartEnd(t *testing.T) {
	ap := Appointment{
		Date:     time.Date(2030, 6, 12, 0, 0, 0, 0, time.UTC),
		Time:     "10:30",
		Duration: 45,
	}

	assert.Equal(t, "2030-06-12T10:30:00Z", ap.StartTime().Format(time.RFC3339))
	assert.Equal(t, "2030-06-12T11:15:00Z", ap.EndTime().Format(time.RFC3339))
}
