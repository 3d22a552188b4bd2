package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ServiceArea is the finest-grained location unit: a named locality tied to
// one pincode and one city, optionally geocoded. Immutable once vendors hold
// coverage rows on it, except for activity toggling.
type ServiceArea struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string         `gorm:"column:name;not null"`
	Pincode   string         `gorm:"column:pincode;not null;index"`
	CityID    uuid.UUID      `gorm:"column:city_id;type:uuid;not null;index"`
	Lat       *float64       `gorm:"column:lat"`
	Lng       *float64       `gorm:"column:lng"`
	IsActive  bool           `gorm:"column:is_active;not null;default:true"`
	AltNames  pq.StringArray `gorm:"column:alt_names;type:text[]"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// HasCoordinates reports whether the area carries a usable geocode.
func (s ServiceArea) HasCoordinates() bool {
	return s.Lat != nil && s.Lng != nil
}
