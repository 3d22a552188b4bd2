package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CityZone groups pincodes inside a city; used when no ServiceArea row
// exists for a pincode.
type CityZone struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CityID    uuid.UUID      `gorm:"column:city_id;type:uuid;not null;index"`
	Name      string         `gorm:"column:name;not null"`
	IsActive  bool           `gorm:"column:is_active;not null;default:true"`
	Pincodes  pq.StringArray `gorm:"column:pincodes;type:text[]"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
