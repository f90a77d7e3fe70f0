package handlers

import (
	"time"

	"gorm.io/gorm"

	"github.com/barberella/barberella-api/internal/models"
	"github.com/barberella/barberella-api/internal/timezone"
)

// shopLocation resolves the shop's configured timezone. Dates are
// parsed and compared in this location everywhere so the stored day
// boundaries line up with the booking guard's.
func shopLocation(db *gorm.DB) *time.Location {
	var settings models.ShopSettings
	if err := db.First(&settings).Error; err != nil {
		return timezone.Location("")
	}
	return timezone.Location(settings.Timezone)
}

func parseShopDate(db *gorm.DB, dateStr string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", dateStr, shopLocation(db))
}
