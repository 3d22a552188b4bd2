package locations

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/giftbloom/giftbloom-backend/pkg/db/models"
)

// Repository handles the location datasets consulted by search.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to location lookups.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindAreasByPincode returns active service areas for the exact pincode.
func (r *Repository) FindAreasByPincode(ctx context.Context, pincode string, limit int) ([]models.ServiceArea, error) {
	var areas []models.ServiceArea
	err := r.db.WithContext(ctx).
		Where("pincode = ? AND is_active = TRUE", pincode).
		Order("name ASC").
		Limit(limit).
		Find(&areas).Error
	return areas, err
}

// FindAreasByPincodePrefix returns active service areas whose pincode starts
// with the partial query.
func (r *Repository) FindAreasByPincodePrefix(ctx context.Context, prefix string, limit int) ([]models.ServiceArea, error) {
	var areas []models.ServiceArea
	err := r.db.WithContext(ctx).
		Where("pincode LIKE ? AND is_active = TRUE", prefix+"%").
		Order("name ASC").
		Limit(limit).
		Find(&areas).Error
	return areas, err
}

// FindAreasByName matches active service areas on a case-insensitive
// substring of the name.
func (r *Repository) FindAreasByName(ctx context.Context, query string, limit int) ([]models.ServiceArea, error) {
	var areas []models.ServiceArea
	err := r.db.WithContext(ctx).
		Where("name ILIKE ? AND is_active = TRUE", "%"+query+"%").
		Order("name ASC").
		Limit(limit).
		Find(&areas).Error
	return areas, err
}

// FindAreasByAltName matches active service areas whose alternate-name set
// contains the lower-cased query.
func (r *Repository) FindAreasByAltName(ctx context.Context, query string, limit int) ([]models.ServiceArea, error) {
	var areas []models.ServiceArea
	err := r.db.WithContext(ctx).
		Where("? = ANY(alt_names) AND is_active = TRUE", strings.ToLower(query)).
		Order("name ASC").
		Limit(limit).
		Find(&areas).Error
	return areas, err
}

// FindZonesByPincode returns active zones whose pincode set contains the pincode.
func (r *Repository) FindZonesByPincode(ctx context.Context, pincode string) ([]models.CityZone, error) {
	var zones []models.CityZone
	err := r.db.WithContext(ctx).
		Where("? = ANY(pincodes) AND is_active = TRUE", pincode).
		Find(&zones).Error
	return zones, err
}

// FindPincodeCityMap returns the standalone pincode mapping, or nil when absent.
func (r *Repository) FindPincodeCityMap(ctx context.Context, pincode string) (*models.PincodeCityMap, error) {
	var row models.PincodeCityMap
	err := r.db.WithContext(ctx).
		Where("pincode = ?", pincode).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// FindCitiesByPincodePrefix returns active cities whose prefix set contains the value.
func (r *Repository) FindCitiesByPincodePrefix(ctx context.Context, prefix string, limit int) ([]models.City, error) {
	var cities []models.City
	err := r.db.WithContext(ctx).
		Where("? = ANY(pincode_prefixes) AND is_active = TRUE", prefix).
		Order("name ASC").
		Limit(limit).
		Find(&cities).Error
	return cities, err
}

// FindCitiesByName matches active cities on a name substring or an exact alias.
func (r *Repository) FindCitiesByName(ctx context.Context, query string, limit int) ([]models.City, error) {
	var cities []models.City
	err := r.db.WithContext(ctx).
		Where("(name ILIKE ? OR ? = ANY(aliases)) AND is_active = TRUE", "%"+query+"%", strings.ToLower(query)).
		Order("name ASC").
		Limit(limit).
		Find(&cities).Error
	return cities, err
}

// FindCitiesByIDs loads the named cities in one round trip.
func (r *Repository) FindCitiesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.City, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var cities []models.City
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&cities).Error
	return cities, err
}
