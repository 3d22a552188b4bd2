package serviceability

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/giftbloom/giftbloom-backend/internal/slots"
)

// CheckInput identifies the delivery target. At least a pincode or a full
// coordinate pair is required.
type CheckInput struct {
	Pincode   string
	Lat       *float64
	Lng       *float64
	ProductID *uuid.UUID
}

// CityRef is the city identity attached to a serviceable verdict.
type CityRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// Verdict answers "can we deliver here, for how much, with which slots".
type Verdict struct {
	IsServiceable     bool            `json:"isServiceable"`
	ComingSoon        bool            `json:"comingSoon"`
	VendorCount       int             `json:"vendorCount"`
	ProductAvailable  *bool           `json:"productAvailable,omitempty"`
	DeliveryCharge    decimal.Decimal `json:"deliveryCharge"`
	FreeDeliveryAbove decimal.Decimal `json:"freeDeliveryAbove"`
	City              *CityRef        `json:"city,omitempty"`
	AreaName          string          `json:"areaName,omitempty"`
	AvailableSlots    []slots.Slot    `json:"availableSlots"`
	Message           string          `json:"message,omitempty"`
}
