package models

import (
	"time"

	"github.com/google/uuid"
)

// VendorZone is the tier-2 matching table: vendor membership in a city zone.
type VendorZone struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID  uuid.UUID `gorm:"column:vendor_id;type:uuid;not null;uniqueIndex:ux_vendor_zone"`
	ZoneID    uuid.UUID `gorm:"column:zone_id;type:uuid;not null;uniqueIndex:ux_vendor_zone;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
