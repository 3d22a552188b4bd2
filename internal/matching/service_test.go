package matching

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/giftbloom/giftbloom-backend/pkg/db/models"
	"github.com/giftbloom/giftbloom-backend/pkg/enums"
)

func TestMatchUnionsTiersWithoutDuplicates(t *testing.T) {
	t.Parallel()

	shared := uuid.New()
	pinOnly := uuid.New()
	zoneOnly := uuid.New()
	cityID := uuid.New()

	repo := &stubMatchingRepo{
		pincodeVendors: []uuid.UUID{shared, pinOnly},
		zoneIDs:        []uuid.UUID{uuid.New()},
		zoneVendors:    []uuid.UUID{shared, zoneOnly},
	}
	svc := newMatcher(t, repo)

	result, err := svc.Match(context.Background(), MatchInput{Pincode: "560001", CityID: &cityID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Count() != 3 {
		t.Fatalf("expected 3 distinct vendors, got %d", result.Count())
	}
	seen := map[uuid.UUID]bool{}
	for _, id := range result.VendorIDs {
		if seen[id] {
			t.Fatalf("duplicate vendor id %s in result", id)
		}
		seen[id] = true
	}
	if !seen[shared] || !seen[pinOnly] || !seen[zoneOnly] {
		t.Fatalf("missing expected vendors in %v", result.VendorIDs)
	}
}

func TestMatchSkipsTiersWithoutInputs(t *testing.T) {
	t.Parallel()

	repo := &stubMatchingRepo{
		pincodeVendors: []uuid.UUID{uuid.New()},
		zoneIDs:        []uuid.UUID{uuid.New()},
		zoneVendors:    []uuid.UUID{uuid.New()},
	}
	svc := newMatcher(t, repo)

	// Pincode only: the zone tier needs a city and the radius tier needs
	// coordinates.
	result, err := svc.Match(context.Background(), MatchInput{Pincode: "560001"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Count() != 1 {
		t.Fatalf("expected pincode tier only, got %d vendors", result.Count())
	}
	if repo.zoneCalls != 0 {
		t.Fatalf("expected zone tier skipped, got %d calls", repo.zoneCalls)
	}
	if repo.radiusCalls != 0 {
		t.Fatalf("expected radius tier skipped, got %d calls", repo.radiusCalls)
	}
}

func TestMatchResultIsSorted(t *testing.T) {
	t.Parallel()

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	repo := &stubMatchingRepo{pincodeVendors: []uuid.UUID{ids[2], ids[0], ids[1]}}
	svc := newMatcher(t, repo)

	result, err := svc.Match(context.Background(), MatchInput{Pincode: "560001"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(result.VendorIDs); i++ {
		if result.VendorIDs[i-1].String() > result.VendorIDs[i].String() {
			t.Fatalf("result not sorted: %v", result.VendorIDs)
		}
	}
}

func TestRadiusMatchHonorsVendorRadius(t *testing.T) {
	t.Parallel()

	// Target sits roughly 5.4km east of the in-range vendor.
	inRange := models.Vendor{
		ID: uuid.New(), Lat: ptr(12.97), Lng: ptr(77.59),
		ServiceRadiusKm: 10, Status: enums.VendorStatusApproved,
	}
	tooFar := models.Vendor{
		ID: uuid.New(), Lat: ptr(12.97), Lng: ptr(77.59),
		ServiceRadiusKm: 2, Status: enums.VendorStatusApproved,
	}
	ungeocoded := models.Vendor{
		ID: uuid.New(), ServiceRadiusKm: 50, Status: enums.VendorStatusApproved,
	}
	repo := &stubMatchingRepo{vendors: []models.Vendor{inRange, tooFar, ungeocoded}}
	svc := newMatcher(t, repo)

	matched, err := svc.RadiusMatch(context.Background(), 12.97, 77.64)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matched) != 1 || matched[0].ID != inRange.ID {
		t.Fatalf("expected only the in-range vendor, got %+v", matched)
	}
}

func TestMatchEmptyInputYieldsEmptyResult(t *testing.T) {
	t.Parallel()

	repo := &stubMatchingRepo{}
	svc := newMatcher(t, repo)

	result, err := svc.Match(context.Background(), MatchInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Count() != 0 {
		t.Fatalf("expected empty result, got %d", result.Count())
	}
}

func newMatcher(t *testing.T, repo *stubMatchingRepo) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

type stubMatchingRepo struct {
	pincodeVendors []uuid.UUID
	zoneIDs        []uuid.UUID
	zoneVendors    []uuid.UUID
	vendors        []models.Vendor
	zoneCalls      int
	radiusCalls    int
}

func (s *stubMatchingRepo) FindVendorIDsByPincode(ctx context.Context, pincode string) ([]uuid.UUID, error) {
	return s.pincodeVendors, nil
}

func (s *stubMatchingRepo) FindZoneIDsByCityAndPincode(ctx context.Context, cityID uuid.UUID, pincode string) ([]uuid.UUID, error) {
	s.zoneCalls++
	return s.zoneIDs, nil
}

func (s *stubMatchingRepo) FindVendorIDsByZones(ctx context.Context, zoneIDs []uuid.UUID) ([]uuid.UUID, error) {
	return s.zoneVendors, nil
}

func (s *stubMatchingRepo) FindApprovedVendorsWithCoords(ctx context.Context) ([]models.Vendor, error) {
	s.radiusCalls++
	return s.vendors, nil
}

func ptr(v float64) *float64 { return &v }
