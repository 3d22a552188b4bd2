package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/giftbloom/giftbloom-backend/pkg/enums"
)

// VendorServiceArea is the moderated coverage-request row: a vendor's claim
// on a service area, reviewed by an admin. IsActive is derived and must
// always equal (Status == active).
type VendorServiceArea struct {
	ID              uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID        uuid.UUID            `gorm:"column:vendor_id;type:uuid;not null;uniqueIndex:ux_vendor_service_area"`
	ServiceAreaID   uuid.UUID            `gorm:"column:service_area_id;type:uuid;not null;uniqueIndex:ux_vendor_service_area;index"`
	Surcharge       decimal.Decimal      `gorm:"column:surcharge;type:numeric(10,2);not null;default:0"`
	Status          enums.CoverageStatus `gorm:"column:status;type:coverage_status;not null;default:'pending'"`
	IsActive        bool                 `gorm:"column:is_active;not null;default:false"`
	RequestedAt     time.Time            `gorm:"column:requested_at;not null"`
	ActivatedAt     *time.Time           `gorm:"column:activated_at"`
	ActivatedBy     *uuid.UUID           `gorm:"column:activated_by;type:uuid"`
	RejectionReason *string              `gorm:"column:rejection_reason"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// SyncActive re-derives the active flag from status.
func (v *VendorServiceArea) SyncActive() {
	v.IsActive = v.Status == enums.CoverageStatusActive
}
