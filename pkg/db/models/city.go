package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// City is the coarse operator-managed location unit. Read-mostly; the
// pincode-prefix set backs the last local resolution tier.
type City struct {
	ID                 uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name               string          `gorm:"column:name;not null"`
	Slug               string          `gorm:"column:slug;not null;uniqueIndex"`
	State              string          `gorm:"column:state;not null"`
	IsActive           bool            `gorm:"column:is_active;not null;default:true"`
	IsComingSoon       bool            `gorm:"column:is_coming_soon;not null;default:false"`
	BaseDeliveryCharge decimal.Decimal `gorm:"column:base_delivery_charge;type:numeric(10,2);not null;default:0"`
	FreeDeliveryAbove  decimal.Decimal `gorm:"column:free_delivery_above;type:numeric(10,2);not null;default:0"`
	Lat                float64         `gorm:"column:lat;not null"`
	Lng                float64         `gorm:"column:lng;not null"`
	PincodePrefixes    pq.StringArray  `gorm:"column:pincode_prefixes;type:text[]"`
	Aliases            pq.StringArray  `gorm:"column:aliases;type:text[]"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
