package coverage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/giftbloom/giftbloom-backend/pkg/db/models"
	"github.com/giftbloom/giftbloom-backend/pkg/enums"
)

// joinedRow is the flat scan target for the coverage list query.
type joinedRow struct {
	ID              uuid.UUID
	ServiceAreaID   uuid.UUID
	AreaName        string
	AreaPincode     string
	CityID          uuid.UUID
	CityName        string
	Surcharge       decimal.Decimal
	Status          enums.CoverageStatus
	IsActive        bool
	RequestedAt     time.Time
	ActivatedAt     *time.Time
	RejectionReason *string
}

// Repository handles coverage persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to coverage operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByVendor returns the vendor's coverage rows joined with area and city.
func (r *Repository) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]Row, error) {
	var rows []joinedRow
	err := r.db.WithContext(ctx).
		Model(&models.VendorServiceArea{}).
		Select(`vendor_service_areas.id,
			vendor_service_areas.service_area_id,
			service_areas.name AS area_name,
			service_areas.pincode AS area_pincode,
			service_areas.city_id AS city_id,
			cities.name AS city_name,
			vendor_service_areas.surcharge,
			vendor_service_areas.status,
			vendor_service_areas.is_active,
			vendor_service_areas.requested_at,
			vendor_service_areas.activated_at,
			vendor_service_areas.rejection_reason`).
		Joins("JOIN service_areas ON service_areas.id = vendor_service_areas.service_area_id").
		Joins("JOIN cities ON cities.id = service_areas.city_id").
		Where("vendor_service_areas.vendor_id = ?", vendorID).
		Order("service_areas.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]Row, 0, len(rows))
	for _, row := range rows {
		result = append(result, Row{
			ID:              row.ID,
			AreaID:          row.ServiceAreaID,
			AreaName:        row.AreaName,
			Pincode:         row.AreaPincode,
			CityID:          row.CityID,
			CityName:        row.CityName,
			Surcharge:       row.Surcharge,
			Status:          row.Status,
			IsActive:        row.IsActive,
			RequestedAt:     row.RequestedAt,
			ActivatedAt:     row.ActivatedAt,
			RejectionReason: row.RejectionReason,
		})
	}
	return result, nil
}

// ListModelsByVendor returns the raw coverage rows for diffing.
func (r *Repository) ListModelsByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.VendorServiceArea, error) {
	var rows []models.VendorServiceArea
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Find(&rows).Error
	return rows, err
}

// FindByID loads a coverage row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.VendorServiceArea, error) {
	var row models.VendorServiceArea
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByVendorAndArea returns the coverage row for the pair, or nil.
func (r *Repository) FindByVendorAndArea(ctx context.Context, vendorID, areaID uuid.UUID) (*models.VendorServiceArea, error) {
	var row models.VendorServiceArea
	err := r.db.WithContext(ctx).
		Where("vendor_id = ? AND service_area_id = ?", vendorID, areaID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// ListUnrequestedAreas returns active areas in the city the vendor has not requested.
func (r *Repository) ListUnrequestedAreas(ctx context.Context, vendorID, cityID uuid.UUID) ([]models.ServiceArea, error) {
	var areas []models.ServiceArea
	err := r.db.WithContext(ctx).
		Where("city_id = ? AND is_active = TRUE", cityID).
		Where("id NOT IN (?)", r.db.Model(&models.VendorServiceArea{}).
			Select("service_area_id").
			Where("vendor_id = ?", vendorID)).
		Order("name ASC").
		Find(&areas).Error
	return areas, err
}

// ListPendingByVendorTx loads the vendor's PENDING rows inside the transaction.
func (r *Repository) ListPendingByVendorTx(tx *gorm.DB, vendorID uuid.UUID) ([]models.VendorServiceArea, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var rows []models.VendorServiceArea
	err := tx.Where("vendor_id = ? AND status = ?", vendorID, enums.CoverageStatusPending).
		Find(&rows).Error
	return rows, err
}

// CreateTx inserts a coverage row inside the transaction.
func (r *Repository) CreateTx(tx *gorm.DB, row *models.VendorServiceArea) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Create(row).Error
}

// UpdateTx saves a coverage row inside the transaction.
func (r *Repository) UpdateTx(tx *gorm.DB, row *models.VendorServiceArea) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Save(row).Error
}

// DeleteByVendorAndAreasTx removes the vendor's rows for the given areas.
func (r *Repository) DeleteByVendorAndAreasTx(tx *gorm.DB, vendorID uuid.UUID, areaIDs []uuid.UUID) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if len(areaIDs) == 0 {
		return nil
	}
	return tx.Where("vendor_id = ? AND service_area_id IN ?", vendorID, areaIDs).
		Delete(&models.VendorServiceArea{}).Error
}

// FindVendorByID loads a vendor row.
func (r *Repository) FindVendorByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&vendor).Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

// UpdateVendorTx saves the vendor inside the transaction.
func (r *Repository) UpdateVendorTx(tx *gorm.DB, vendor *models.Vendor) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Save(vendor).Error
}

// FindCityByID loads a city row, or nil when it does not exist.
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

// FindAreaByID loads a service area row.
func (r *Repository) FindAreaByID(ctx context.Context, id uuid.UUID) (*models.ServiceArea, error) {
	var area models.ServiceArea
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&area).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &area, nil
}

// FindAreaByPincode returns any service area for the pincode, or nil.
func (r *Repository) FindAreaByPincode(ctx context.Context, pincode string) (*models.ServiceArea, error) {
	var area models.ServiceArea
	err := r.db.WithContext(ctx).
		Where("pincode = ?", pincode).
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

// ListActiveGeocodedAreas returns every active area with coordinates.
func (r *Repository) ListActiveGeocodedAreas(ctx context.Context) ([]models.ServiceArea, error) {
	var areas []models.ServiceArea
	err := r.db.WithContext(ctx).
		Where("is_active = TRUE AND lat IS NOT NULL AND lng IS NOT NULL").
		Find(&areas).Error
	return areas, err
}

// CreateAreaTx inserts a service area inside the transaction.
func (r *Repository) CreateAreaTx(tx *gorm.DB, area *models.ServiceArea) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Create(area).Error
}

// UpsertVendorPincodeTx inserts or reactivates the vendor's pincode assignment.
func (r *Repository) UpsertVendorPincodeTx(tx *gorm.DB, vendorID uuid.UUID, pincode string, charge decimal.Decimal) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	row := models.VendorPincode{
		VendorID:       vendorID,
		Pincode:        pincode,
		DeliveryCharge: charge,
		IsActive:       true,
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "vendor_id"}, {Name: "pincode"}},
		DoUpdates: clause.Assignments(map[string]any{
			"delivery_charge": charge,
			"is_active":       true,
		}),
	}).Create(&row).Error
}

// DeactivateVendorPincodeTx marks the vendor's pincode assignment inactive.
func (r *Repository) DeactivateVendorPincodeTx(tx *gorm.DB, vendorID uuid.UUID, pincode string) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Model(&models.VendorPincode{}).
		Where("vendor_id = ? AND pincode = ?", vendorID, pincode).
		Update("is_active", false).Error
}

// DeleteVendorPincodesTx removes the vendor's entire pincode set.
func (r *Repository) DeleteVendorPincodesTx(tx *gorm.DB, vendorID uuid.UUID) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Where("vendor_id = ?", vendorID).
		Delete(&models.VendorPincode{}).Error
}

// CreateVendorPincodeTx inserts one pincode assignment inside the transaction.
func (r *Repository) CreateVendorPincodeTx(tx *gorm.DB, row *models.VendorPincode) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Create(row).Error
}
