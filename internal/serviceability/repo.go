package serviceability

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/giftbloom/giftbloom-backend/pkg/db/models"
)

// Repository handles the reads the serviceability engine needs beyond matching.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to serviceability lookups.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindActiveAreaByPincode returns the active service area for the pincode, or
// nil when none exists.
func (r *Repository) FindActiveAreaByPincode(ctx context.Context, pincode string) (*models.ServiceArea, error) {
	var area models.ServiceArea
	err := r.db.WithContext(ctx).
		Where("pincode = ? AND is_active = TRUE", pincode).
		Order("name ASC").
		First(&area).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &area, nil
}

// FindActiveAreasWithCoords returns every active geocoded service area.
func (r *Repository) FindActiveAreasWithCoords(ctx context.Context) ([]models.ServiceArea, error) {
	var areas []models.ServiceArea
	err := r.db.WithContext(ctx).
		Where("is_active = TRUE AND lat IS NOT NULL AND lng IS NOT NULL").
		Find(&areas).Error
	return areas, err
}

// FindCityByID loads a city row.
func (r *Repository) FindCityByID(ctx context.Context, id uuid.UUID) (*models.City, error) {
	var city models.City
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&city).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &city, nil
}

// AnyVendorHasProduct reports whether any of the vendors stocks the product.
func (r *Repository) AnyVendorHasProduct(ctx context.Context, vendorIDs []uuid.UUID, productID uuid.UUID) (bool, error) {
	if len(vendorIDs) == 0 {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.VendorProduct{}).
		Where("vendor_id IN ? AND product_id = ? AND is_available = TRUE", vendorIDs, productID).
		Count(&count).Error
	return count > 0, err
}
