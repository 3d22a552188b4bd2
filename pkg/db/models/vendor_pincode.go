package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VendorPincode is the tier-1 matching table: a direct (vendor, pincode)
// assignment with its delivery charge. Legacy mechanism, rewritten in bulk by
// the admin replace operations and upserted by coverage activation.
type VendorPincode struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID       uuid.UUID       `gorm:"column:vendor_id;type:uuid;not null;uniqueIndex:ux_vendor_pincode"`
	Pincode        string          `gorm:"column:pincode;not null;uniqueIndex:ux_vendor_pincode;index"`
	DeliveryCharge decimal.Decimal `gorm:"column:delivery_charge;type:numeric(10,2);not null;default:0"`
	IsActive       bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
