package models

import (
	"time"

	"github.com/google/uuid"
)

// VendorProduct records whether a vendor currently stocks a catalog product.
// Serviceability consults it for the optional product-availability check.
type VendorProduct struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID    uuid.UUID `gorm:"column:vendor_id;type:uuid;not null;uniqueIndex:ux_vendor_product"`
	ProductID   uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:ux_vendor_product;index"`
	IsAvailable bool      `gorm:"column:is_available;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
