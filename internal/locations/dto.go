package locations

import (
	"github.com/google/uuid"

	"github.com/giftbloom/giftbloom-backend/pkg/enums"
)

// Candidate is one ranked location returned by search.
type Candidate struct {
	Type         enums.LocationResultType `json:"type"`
	Label        string                   `json:"label"`
	CityID       *uuid.UUID               `json:"cityId,omitempty"`
	CityName     string                   `json:"cityName,omitempty"`
	CitySlug     string                   `json:"citySlug,omitempty"`
	Pincode      string                   `json:"pincode,omitempty"`
	AreaName     string                   `json:"areaName,omitempty"`
	AreaID       *uuid.UUID               `json:"areaId,omitempty"`
	Lat          *float64                 `json:"lat,omitempty"`
	Lng          *float64                 `json:"lng,omitempty"`
	ExternalRef  string                   `json:"externalRef,omitempty"`
	IsActive     bool                     `json:"isActive"`
	IsComingSoon bool                     `json:"isComingSoon"`
}

// SearchResult wraps the ordered candidate list.
type SearchResult struct {
	Results []Candidate `json:"results"`
}
