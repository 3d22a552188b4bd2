package models

import (
	"time"

	"github.com/google/uuid"
)

// PincodeCityMap is the standalone pincode -> city directory consulted as a
// last-resort local lookup, independent of ServiceArea and CityZone.
type PincodeCityMap struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Pincode   string    `gorm:"column:pincode;not null;uniqueIndex"`
	CityID    uuid.UUID `gorm:"column:city_id;type:uuid;not null"`
	AreaName  string    `gorm:"column:area_name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
