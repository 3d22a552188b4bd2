package serviceability

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/giftbloom/giftbloom-backend/internal/matching"
	"github.com/giftbloom/giftbloom-backend/internal/slots"
	"github.com/giftbloom/giftbloom-backend/pkg/config"
	"github.com/giftbloom/giftbloom-backend/pkg/db/models"
	pkgerrors "github.com/giftbloom/giftbloom-backend/pkg/errors"
)

func TestCheckServiceablePincode(t *testing.T) {
	t.Parallel()

	fx := newCheckFixture()
	fx.matcher.vendorIDs = []uuid.UUID{uuid.New(), uuid.New()}
	svc := fx.build(t)

	verdict, err := svc.Check(context.Background(), CheckInput{Pincode: "560001"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !verdict.IsServiceable || verdict.ComingSoon {
		t.Fatalf("expected serviceable verdict, got %+v", verdict)
	}
	if verdict.VendorCount != 2 {
		t.Fatalf("expected 2 vendors, got %d", verdict.VendorCount)
	}
	if verdict.City == nil || verdict.City.Slug != "bengaluru" {
		t.Fatalf("expected city on verdict, got %+v", verdict.City)
	}
	if verdict.AreaName != "Shanthala Nagar" {
		t.Fatalf("expected area name, got %q", verdict.AreaName)
	}
	if !verdict.DeliveryCharge.Equal(decimal.NewFromInt(49)) {
		t.Fatalf("expected city base charge, got %s", verdict.DeliveryCharge)
	}
	if len(verdict.AvailableSlots) != 1 {
		t.Fatalf("expected resolved slots, got %+v", verdict.AvailableSlots)
	}
}

func TestCheckComingSoonWhenNoVendors(t *testing.T) {
	t.Parallel()

	fx := newCheckFixture()
	svc := fx.build(t)

	verdict, err := svc.Check(context.Background(), CheckInput{Pincode: "560001"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !verdict.IsServiceable || !verdict.ComingSoon {
		t.Fatalf("expected coming-soon verdict, got %+v", verdict)
	}
	if verdict.VendorCount != 0 {
		t.Fatalf("expected zero vendors, got %d", verdict.VendorCount)
	}
	if verdict.City == nil || verdict.AreaName == "" {
		t.Fatalf("expected city and area retained, got %+v", verdict)
	}
	if len(verdict.AvailableSlots) != 0 {
		t.Fatalf("expected no slots, got %+v", verdict.AvailableSlots)
	}
}

func TestCheckUnknownPincodeWithoutCoords(t *testing.T) {
	t.Parallel()

	fx := newCheckFixture()
	svc := fx.build(t)

	verdict, err := svc.Check(context.Background(), CheckInput{Pincode: "999999"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.IsServiceable {
		t.Fatalf("expected not serviceable, got %+v", verdict)
	}
	if verdict.Message == "" {
		t.Fatal("expected explanatory message")
	}
}

func TestCheckNearestAreaByCoordinates(t *testing.T) {
	t.Parallel()

	fx := newCheckFixture()
	fx.matcher.vendorIDs = []uuid.UUID{uuid.New()}
	svc := fx.build(t)

	// Roughly 1km from the seeded area.
	lat, lng := 12.975, 77.605
	verdict, err := svc.Check(context.Background(), CheckInput{Lat: &lat, Lng: &lng})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !verdict.IsServiceable || verdict.AreaName != "Shanthala Nagar" {
		t.Fatalf("expected nearest-area verdict, got %+v", verdict)
	}
	if fx.matcher.lastInput.Lat == nil || *fx.matcher.lastInput.Lat != lat {
		t.Fatal("expected matcher to receive the caller's coordinates")
	}
}

func TestCheckRadiusOnlyFallback(t *testing.T) {
	t.Parallel()

	fx := newCheckFixture()
	// ~20km south of the only area: outside the 15km area window.
	lat, lng := 12.79, 77.60
	fx.matcher.radiusVendors = []models.Vendor{
		{ID: uuid.New(), CityID: fx.city.ID, ServiceRadiusKm: 25},
	}
	svc := fx.build(t)

	verdict, err := svc.Check(context.Background(), CheckInput{Lat: &lat, Lng: &lng})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !verdict.IsServiceable {
		t.Fatalf("expected radius-only serviceability, got %+v", verdict)
	}
	if verdict.AreaName != "" {
		t.Fatalf("expected no area name on a radius-only verdict, got %q", verdict.AreaName)
	}
	if verdict.City == nil || verdict.City.ID != fx.city.ID {
		t.Fatal("expected charge data from the first vendor's city")
	}
}

func TestCheckNotServiceableOutsideAllRadii(t *testing.T) {
	t.Parallel()

	fx := newCheckFixture()
	lat, lng := 12.79, 77.60
	svc := fx.build(t)

	verdict, err := svc.Check(context.Background(), CheckInput{Lat: &lat, Lng: &lng})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.IsServiceable {
		t.Fatalf("expected not serviceable, got %+v", verdict)
	}
}

func TestCheckValidatesInput(t *testing.T) {
	t.Parallel()

	fx := newCheckFixture()
	svc := fx.build(t)
	lat := 12.97

	for _, input := range []CheckInput{
		{},
		{Lat: &lat},
		{Pincode: "5600"},
		{Pincode: "56000a"},
	} {
		_, err := svc.Check(context.Background(), input)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %+v, got %v", input, err)
		}
	}
}

func TestCheckReportsProductAvailability(t *testing.T) {
	t.Parallel()

	fx := newCheckFixture()
	fx.matcher.vendorIDs = []uuid.UUID{uuid.New()}
	fx.repo.productAvailable = true
	svc := fx.build(t)

	productID := uuid.New()
	verdict, err := svc.Check(context.Background(), CheckInput{Pincode: "560001", ProductID: &productID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.ProductAvailable == nil || !*verdict.ProductAvailable {
		t.Fatalf("expected product availability set, got %+v", verdict.ProductAvailable)
	}
}

// --- fixtures and stubs ---

type checkFixture struct {
	repo    *stubServiceabilityRepo
	matcher *stubMatcher
	city    *models.City
}

func newCheckFixture() *checkFixture {
	city := &models.City{
		ID:                 uuid.New(),
		Name:               "Bengaluru",
		Slug:               "bengaluru",
		IsActive:           true,
		BaseDeliveryCharge: decimal.NewFromInt(49),
		FreeDeliveryAbove:  decimal.NewFromInt(999),
	}
	area := models.ServiceArea{
		ID:       uuid.New(),
		Name:     "Shanthala Nagar",
		Pincode:  "560001",
		CityID:   city.ID,
		Lat:      ptr(12.97),
		Lng:      ptr(77.60),
		IsActive: true,
	}
	return &checkFixture{
		repo: &stubServiceabilityRepo{
			areasByPincode: map[string]models.ServiceArea{area.Pincode: area},
			geocodedAreas:  []models.ServiceArea{area},
			cities:         map[uuid.UUID]*models.City{city.ID: city},
		},
		matcher: &stubMatcher{},
		city:    city,
	}
}

func (f *checkFixture) build(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(f.repo, f.matcher, stubSlotResolver{}, config.ServiceabilityConfig{MaxAreaDistanceKm: 15}, nil, nil)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

type stubServiceabilityRepo struct {
	areasByPincode   map[string]models.ServiceArea
	geocodedAreas    []models.ServiceArea
	cities           map[uuid.UUID]*models.City
	productAvailable bool
}

func (s *stubServiceabilityRepo) FindActiveAreaByPincode(ctx context.Context, pincode string) (*models.ServiceArea, error) {
	if area, ok := s.areasByPincode[pincode]; ok {
		return &area, nil
	}
	return nil, nil
}

func (s *stubServiceabilityRepo) FindActiveAreasWithCoords(ctx context.Context) ([]models.ServiceArea, error) {
	return s.geocodedAreas, nil
}

func (s *stubServiceabilityRepo) FindCityByID(ctx context.Context, id uuid.UUID) (*models.City, error) {
	return s.cities[id], nil
}

func (s *stubServiceabilityRepo) AnyVendorHasProduct(ctx context.Context, vendorIDs []uuid.UUID, productID uuid.UUID) (bool, error) {
	return s.productAvailable, nil
}

type stubMatcher struct {
	vendorIDs     []uuid.UUID
	radiusVendors []models.Vendor
	lastInput     matching.MatchInput
}

func (s *stubMatcher) Match(ctx context.Context, input matching.MatchInput) (*matching.MatchResult, error) {
	s.lastInput = input
	return &matching.MatchResult{VendorIDs: s.vendorIDs}, nil
}

func (s *stubMatcher) RadiusMatch(ctx context.Context, lat, lng float64) ([]models.Vendor, error) {
	return s.radiusVendors, nil
}

type stubSlotResolver struct{}

func (stubSlotResolver) ResolveForCity(ctx context.Context, cityID uuid.UUID) ([]slots.Slot, error) {
	return []slots.Slot{{ID: uuid.New(), Name: "Evening", StartTime: "17:00", EndTime: "21:00", Charge: decimal.NewFromInt(79)}}, nil
}

func ptr(v float64) *float64 { return &v }
