package matching

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/giftbloom/giftbloom-backend/pkg/db/models"
	"github.com/giftbloom/giftbloom-backend/pkg/enums"
)

// Repository handles the vendor-matching tables.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to matching lookups.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindVendorIDsByPincode returns approved vendors with an active pincode
// assignment for the exact pincode.
func (r *Repository) FindVendorIDsByPincode(ctx context.Context, pincode string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.VendorPincode{}).
		Joins("JOIN vendors ON vendors.id = vendor_pincodes.vendor_id").
		Where("vendor_pincodes.pincode = ? AND vendor_pincodes.is_active = TRUE", pincode).
		Where("vendors.status = ?", enums.VendorStatusApproved).
		Pluck("vendor_pincodes.vendor_id", &ids).Error
	return ids, err
}

// FindZoneIDsByCityAndPincode returns active zones of the city containing the pincode.
func (r *Repository) FindZoneIDsByCityAndPincode(ctx context.Context, cityID uuid.UUID, pincode string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.CityZone{}).
		Where("city_id = ? AND ? = ANY(pincodes) AND is_active = TRUE", cityID, pincode).
		Pluck("id", &ids).Error
	return ids, err
}

// FindVendorIDsByZones returns approved vendors assigned to any of the zones.
func (r *Repository) FindVendorIDsByZones(ctx context.Context, zoneIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(zoneIDs) == 0 {
		return nil, nil
	}
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.VendorZone{}).
		Joins("JOIN vendors ON vendors.id = vendor_zones.vendor_id").
		Where("vendor_zones.zone_id IN ?", zoneIDs).
		Where("vendors.status = ?", enums.VendorStatusApproved).
		Pluck("vendor_zones.vendor_id", &ids).Error
	return ids, err
}

// FindApprovedVendorsWithCoords returns approved vendors with known
// coordinates and a declared delivery radius.
func (r *Repository) FindApprovedVendorsWithCoords(ctx context.Context) ([]models.Vendor, error) {
	var vendors []models.Vendor
	err := r.db.WithContext(ctx).
		Where("status = ? AND lat IS NOT NULL AND lng IS NOT NULL AND service_radius_km > 0", enums.VendorStatusApproved).
		Find(&vendors).Error
	return vendors, err
}
