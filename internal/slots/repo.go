package slots

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/giftbloom/giftbloom-backend/pkg/db/models"
)

// Repository handles delivery slot persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to slot lookups.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindActiveSlots returns all globally active slots in display order.
func (r *Repository) FindActiveSlots(ctx context.Context) ([]models.DeliverySlot, error) {
	var rows []models.DeliverySlot
	err := r.db.WithContext(ctx).
		Where("is_active = TRUE").
		Order("sort_order ASC").
		Order("start_time ASC").
		Find(&rows).Error
	return rows, err
}

// FindCityConfigs returns the enabled per-city slot configurations.
func (r *Repository) FindCityConfigs(ctx context.Context, cityID uuid.UUID) ([]models.CityDeliveryConfig, error) {
	var rows []models.CityDeliveryConfig
	err := r.db.WithContext(ctx).
		Where("city_id = ? AND is_enabled = TRUE", cityID).
		Find(&rows).Error
	return rows, err
}
