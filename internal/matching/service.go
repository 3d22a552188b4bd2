package matching

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/giftbloom/giftbloom-backend/pkg/db/models"
	pkgerrors "github.com/giftbloom/giftbloom-backend/pkg/errors"
	"github.com/giftbloom/giftbloom-backend/pkg/geo"
)

type matchingRepository interface {
	FindVendorIDsByPincode(ctx context.Context, pincode string) ([]uuid.UUID, error)
	FindZoneIDsByCityAndPincode(ctx context.Context, cityID uuid.UUID, pincode string) ([]uuid.UUID, error)
	FindVendorIDsByZones(ctx context.Context, zoneIDs []uuid.UUID) ([]uuid.UUID, error)
	FindApprovedVendorsWithCoords(ctx context.Context) ([]models.Vendor, error)
}

// MatchInput identifies the target location. Missing fields skip the tiers
// that need them rather than failing.
type MatchInput struct {
	Pincode string
	CityID  *uuid.UUID
	Lat     *float64
	Lng     *float64
}

// MatchResult is the deduplicated union across the three tiers.
type MatchResult struct {
	VendorIDs []uuid.UUID
}

// Count returns how many distinct vendors matched.
func (m *MatchResult) Count() int {
	if m == nil {
		return 0
	}
	return len(m.VendorIDs)
}

// Service exposes vendor matching.
type Service interface {
	Match(ctx context.Context, input MatchInput) (*MatchResult, error)
	RadiusMatch(ctx context.Context, lat, lng float64) ([]models.Vendor, error)
}

type service struct {
	repo matchingRepository
}

// NewService builds the vendor matcher.
func NewService(repo matchingRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("matching repository required")
	}
	return &service{repo: repo}, nil
}

// Match runs the three tiers concurrently and unions the results by vendor
// id. No tier takes precedence.
func (s *service) Match(ctx context.Context, input MatchInput) (*MatchResult, error) {
	var (
		wg         sync.WaitGroup
		pincodeIDs []uuid.UUID
		zoneIDs    []uuid.UUID
		radiusIDs  []uuid.UUID
		pinErr     error
		zoneErr    error
		radErr     error
	)

	if input.Pincode != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pincodeIDs, pinErr = s.repo.FindVendorIDsByPincode(ctx, input.Pincode)
		}()
	}

	if input.Pincode != "" && input.CityID != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			zoneIDs, zoneErr = s.matchZones(ctx, *input.CityID, input.Pincode)
		}()
	}

	if input.Lat != nil && input.Lng != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var vendors []models.Vendor
			vendors, radErr = s.RadiusMatch(ctx, *input.Lat, *input.Lng)
			for _, v := range vendors {
				radiusIDs = append(radiusIDs, v.ID)
			}
		}()
	}

	wg.Wait()

	if pinErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, pinErr, "match by pincode")
	}
	if zoneErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, zoneErr, "match by zone")
	}
	if radErr != nil {
		return nil, radErr
	}

	return &MatchResult{VendorIDs: union(pincodeIDs, zoneIDs, radiusIDs)}, nil
}

func (s *service) matchZones(ctx context.Context, cityID uuid.UUID, pincode string) ([]uuid.UUID, error) {
	zones, err := s.repo.FindZoneIDsByCityAndPincode(ctx, cityID, pincode)
	if err != nil {
		return nil, err
	}
	if len(zones) == 0 {
		return nil, nil
	}
	return s.repo.FindVendorIDsByZones(ctx, zones)
}

// RadiusMatch returns approved vendors whose declared radius reaches the target.
func (s *service) RadiusMatch(ctx context.Context, lat, lng float64) ([]models.Vendor, error) {
	vendors, err := s.repo.FindApprovedVendorsWithCoords(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendors for radius match")
	}
	matched := make([]models.Vendor, 0, len(vendors))
	for _, vendor := range vendors {
		if !vendor.HasCoordinates() {
			continue
		}
		if geo.DistanceKm(*vendor.Lat, *vendor.Lng, lat, lng) <= vendor.ServiceRadiusKm {
			matched = append(matched, vendor)
		}
	}
	return matched, nil
}

// union merges id slices, deduplicates, and sorts for a deterministic result
// independent of tier completion order.
func union(sets ...[]uuid.UUID) []uuid.UUID {
	seen := map[uuid.UUID]bool{}
	merged := []uuid.UUID{}
	for _, set := range sets {
		for _, id := range set {
			if seen[id] {
				continue
			}
			seen[id] = true
			merged = append(merged, id)
		}
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].String() < merged[j].String()
	})
	return merged
}
