package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliverySlot is a named delivery time window with a base charge.
type DeliverySlot struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string          `gorm:"column:name;not null"`
	StartTime  string          `gorm:"column:start_time;not null"`
	EndTime    string          `gorm:"column:end_time;not null"`
	BaseCharge decimal.Decimal `gorm:"column:base_charge;type:numeric(10,2);not null;default:0"`
	IsActive   bool            `gorm:"column:is_active;not null;default:true"`
	SortOrder  int             `gorm:"column:sort_order;not null;default:0"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// CityDeliveryConfig overrides a slot's charge and availability for one city.
type CityDeliveryConfig struct {
	ID             uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CityID         uuid.UUID        `gorm:"column:city_id;type:uuid;not null;uniqueIndex:ux_city_slot"`
	SlotID         uuid.UUID        `gorm:"column:slot_id;type:uuid;not null;uniqueIndex:ux_city_slot"`
	ChargeOverride *decimal.Decimal `gorm:"column:charge_override;type:numeric(10,2)"`
	IsEnabled      bool             `gorm:"column:is_enabled;not null;default:true"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
