package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/giftbloom/giftbloom-backend/pkg/enums"
)

// Vendor is a seller account scoped to a home city. Only rows in APPROVED
// status take part in matching.
type Vendor struct {
	ID              uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string               `gorm:"column:name;not null"`
	CityID          uuid.UUID            `gorm:"column:city_id;type:uuid;not null;index"`
	Lat             *float64             `gorm:"column:lat"`
	Lng             *float64             `gorm:"column:lng"`
	ServiceRadiusKm float64              `gorm:"column:service_radius_km;not null;default:0"`
	Status          enums.VendorStatus   `gorm:"column:status;type:vendor_status;not null;default:'pending'"`
	IsOnline        bool                 `gorm:"column:is_online;not null;default:false"`
	CoverageMethod  enums.CoverageMethod `gorm:"column:coverage_method;type:coverage_method;not null;default:'pincode_list'"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// HasCoordinates reports whether the vendor carries a usable geocode for the
// radius tier.
func (v Vendor) HasCoordinates() bool {
	return v.Lat != nil && v.Lng != nil
}
