package coverage

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/giftbloom/giftbloom-backend/pkg/enums"
)

// Row is one coverage request joined with its area and city identity.
type Row struct {
	ID              uuid.UUID            `json:"id"`
	AreaID          uuid.UUID            `json:"areaId"`
	AreaName        string               `json:"areaName"`
	Pincode         string               `json:"pincode"`
	CityID          uuid.UUID            `json:"cityId"`
	CityName        string               `json:"cityName"`
	Surcharge       decimal.Decimal      `json:"surcharge"`
	Status          enums.CoverageStatus `json:"status"`
	IsActive        bool                 `json:"isActive"`
	RequestedAt     time.Time            `json:"requestedAt"`
	ActivatedAt     *time.Time           `json:"activatedAt,omitempty"`
	RejectionReason *string              `json:"rejectionReason,omitempty"`
}

// AvailableArea is a service area in the vendor's city not yet requested.
type AvailableArea struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Pincode string    `json:"pincode"`
}

// View is the vendor-facing coverage read.
type View struct {
	Rows           []Row           `json:"rows"`
	AvailableAreas []AvailableArea `json:"availableAreas"`
}

// SelectionEntry is one desired area in a vendor selection-set save.
type SelectionEntry struct {
	AreaID    uuid.UUID
	Surcharge decimal.Decimal
}

// Actor identifies the caller for audit purposes.
type Actor struct {
	UserID   uuid.UUID
	VendorID *uuid.UUID
	Role     enums.ActorRole
}

// BulkAddInput adds existing areas directly in ACTIVE status.
type BulkAddInput struct {
	AreaIDs   []uuid.UUID
	Surcharge decimal.Decimal
}

// BulkAddResult reports how many areas were linked and how many were skipped
// as duplicates.
type BulkAddResult struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// BulkActivateResult reports how many pending rows went live.
type BulkActivateResult struct {
	Activated int `json:"activated"`
}

// CreateByPincodeInput creates or links a service area from a bare pincode.
type CreateByPincodeInput struct {
	Pincode   string
	AreaName  string
	Surcharge decimal.Decimal
}

// CreateByPincodeResult reports the linked area and the created coverage row.
type CreateByPincodeResult struct {
	Row         Row  `json:"row"`
	AreaCreated bool `json:"areaCreated"`
}

// PincodeCharge is one explicit entry in a legacy replace-all.
type PincodeCharge struct {
	Pincode string
	Charge  decimal.Decimal
}

// RadiusSpec selects pincodes by distance from a center point.
type RadiusSpec struct {
	Lat      float64
	Lng      float64
	RadiusKm float64
	Charge   decimal.Decimal
}

// ReplacePincodesInput carries exactly one of the two legacy replace modes.
type ReplacePincodesInput struct {
	Pincodes []PincodeCharge
	Radius   *RadiusSpec
}

// ReplacePincodesResult reports the outcome of a legacy replace-all.
type ReplacePincodesResult struct {
	PincodeCount int                  `json:"pincodeCount"`
	AreasCreated int                  `json:"areasCreated"`
	Method       enums.CoverageMethod `json:"method"`
}
