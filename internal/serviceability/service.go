package serviceability

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/giftbloom/giftbloom-backend/internal/matching"
	"github.com/giftbloom/giftbloom-backend/internal/slots"
	"github.com/giftbloom/giftbloom-backend/pkg/config"
	"github.com/giftbloom/giftbloom-backend/pkg/db/models"
	pkgerrors "github.com/giftbloom/giftbloom-backend/pkg/errors"
	"github.com/giftbloom/giftbloom-backend/pkg/geo"
	"github.com/giftbloom/giftbloom-backend/pkg/logger"
	"github.com/giftbloom/giftbloom-backend/pkg/metrics"
)

const defaultMaxAreaDistanceKm = 15.0

var pincodePattern = regexp.MustCompile(`^[0-9]{6}$`)

type serviceabilityRepository interface {
	FindActiveAreaByPincode(ctx context.Context, pincode string) (*models.ServiceArea, error)
	FindActiveAreasWithCoords(ctx context.Context) ([]models.ServiceArea, error)
	FindCityByID(ctx context.Context, id uuid.UUID) (*models.City, error)
	AnyVendorHasProduct(ctx context.Context, vendorIDs []uuid.UUID, productID uuid.UUID) (bool, error)
}

// Service answers serviceability checks.
type Service interface {
	Check(ctx context.Context, input CheckInput) (*Verdict, error)
}

type service struct {
	repo     serviceabilityRepository
	matcher  matching.Service
	slots    slots.Service
	cfg      config.ServiceabilityConfig
	logg     *logger.Logger
	requests *metrics.RequestMetrics
}

// NewService builds the serviceability engine.
func NewService(repo serviceabilityRepository, matcher matching.Service, slotSvc slots.Service, cfg config.ServiceabilityConfig, logg *logger.Logger, requests *metrics.RequestMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("serviceability repository required")
	}
	if matcher == nil {
		return nil, fmt.Errorf("matching service required")
	}
	if slotSvc == nil {
		return nil, fmt.Errorf("slots service required")
	}
	return &service{
		repo:     repo,
		matcher:  matcher,
		slots:    slotSvc,
		cfg:      cfg,
		logg:     logg,
		requests: requests,
	}, nil
}

func (s *service) Check(ctx context.Context, input CheckInput) (*Verdict, error) {
	start := time.Now()
	defer func() {
		s.requests.ObserveDuration("serviceability.check", time.Since(start))
	}()

	hasCoords := input.Lat != nil && input.Lng != nil
	if input.Pincode == "" && !hasCoords {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a pincode or a full coordinate pair is required")
	}
	if input.Pincode != "" && !pincodePattern.MatchString(input.Pincode) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pincode must be 6 digits")
	}

	verdict, err := s.resolve(ctx, input, hasCoords)
	if err != nil {
		s.requests.IncOutcome("serviceability.check", "error")
		return nil, err
	}
	s.requests.IncOutcome("serviceability.check", verdictLabel(verdict))
	return verdict, nil
}

func (s *service) resolve(ctx context.Context, input CheckInput, hasCoords bool) (*Verdict, error) {
	// Path A: pincode supplied.
	if input.Pincode != "" {
		area, err := s.repo.FindActiveAreaByPincode(ctx, input.Pincode)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup service area")
		}
		if area != nil {
			lat, lng := area.Lat, area.Lng
			if lat == nil || lng == nil {
				lat, lng = input.Lat, input.Lng
			}
			return s.fullCheck(ctx, area.Pincode, area.CityID, area.Name, lat, lng, input.ProductID)
		}
		if !hasCoords {
			return notServiceable("no service area covers this pincode"), nil
		}
	}

	// Path B: coordinates only, or pincode miss with coordinates.
	return s.resolveByCoordinates(ctx, input)
}

func (s *service) resolveByCoordinates(ctx context.Context, input CheckInput) (*Verdict, error) {
	nearest, err := s.nearestArea(ctx, *input.Lat, *input.Lng)
	if err != nil {
		return nil, err
	}
	if nearest != nil {
		// The radius tier uses the caller's coordinates, not the area's own.
		return s.fullCheck(ctx, nearest.Pincode, nearest.CityID, nearest.Name, input.Lat, input.Lng, input.ProductID)
	}

	vendors, err := s.matcher.RadiusMatch(ctx, *input.Lat, *input.Lng)
	if err != nil {
		return nil, err
	}
	if len(vendors) == 0 {
		return notServiceable("no vendor delivers to this location"), nil
	}
	return s.radiusOnlyVerdict(ctx, vendors, input.ProductID)
}

func (s *service) nearestArea(ctx context.Context, lat, lng float64) (*models.ServiceArea, error) {
	areas, err := s.repo.FindActiveAreasWithCoords(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load geocoded areas")
	}

	maxDistance := s.cfg.MaxAreaDistanceKm
	if maxDistance <= 0 {
		maxDistance = defaultMaxAreaDistanceKm
	}

	var nearest *models.ServiceArea
	best := maxDistance
	for i := range areas {
		area := areas[i]
		if !area.HasCoordinates() {
			continue
		}
		d := geo.DistanceKm(*area.Lat, *area.Lng, lat, lng)
		if d <= best {
			best = d
			nearest = &areas[i]
		}
	}
	return nearest, nil
}

// fullCheck runs the matcher union and assembles the verdict from city data.
func (s *service) fullCheck(ctx context.Context, pincode string, cityID uuid.UUID, areaName string, lat, lng *float64, productID *uuid.UUID) (*Verdict, error) {
	city, err := s.repo.FindCityByID(ctx, cityID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load city")
	}
	if city == nil {
		return notServiceable("location is not mapped to a known city"), nil
	}

	match, err := s.matcher.Match(ctx, matching.MatchInput{
		Pincode: pincode,
		CityID:  &cityID,
		Lat:     lat,
		Lng:     lng,
	})
	if err != nil {
		return nil, err
	}

	if match.Count() == 0 {
		// The area is known and mapped to a city; no vendor covers it yet.
		return &Verdict{
			IsServiceable:  true,
			ComingSoon:     true,
			City:           cityRef(city),
			AreaName:       areaName,
			AvailableSlots: []slots.Slot{},
			Message:        "delivery to this area is coming soon",
		}, nil
	}

	verdict := &Verdict{
		IsServiceable:     true,
		VendorCount:       match.Count(),
		DeliveryCharge:    city.BaseDeliveryCharge,
		FreeDeliveryAbove: city.FreeDeliveryAbove,
		City:              cityRef(city),
		AreaName:          areaName,
	}

	if productID != nil {
		available, err := s.repo.AnyVendorHasProduct(ctx, match.VendorIDs, *productID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check product availability")
		}
		verdict.ProductAvailable = &available
	}

	available, err := s.slots.ResolveForCity(ctx, city.ID)
	if err != nil {
		return nil, err
	}
	verdict.AvailableSlots = available
	return verdict, nil
}

// radiusOnlyVerdict covers targets with no service area within range but at
// least one vendor whose declared radius reaches them.
func (s *service) radiusOnlyVerdict(ctx context.Context, vendors []models.Vendor, productID *uuid.UUID) (*Verdict, error) {
	city, err := s.repo.FindCityByID(ctx, vendors[0].CityID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor city")
	}

	verdict := &Verdict{
		IsServiceable:  true,
		VendorCount:    len(vendors),
		AvailableSlots: []slots.Slot{},
	}

	if productID != nil {
		ids := make([]uuid.UUID, 0, len(vendors))
		for _, v := range vendors {
			ids = append(ids, v.ID)
		}
		available, err := s.repo.AnyVendorHasProduct(ctx, ids, *productID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check product availability")
		}
		verdict.ProductAvailable = &available
	}

	if city != nil {
		verdict.DeliveryCharge = city.BaseDeliveryCharge
		verdict.FreeDeliveryAbove = city.FreeDeliveryAbove
		verdict.City = cityRef(city)
		available, err := s.slots.ResolveForCity(ctx, city.ID)
		if err != nil {
			return nil, err
		}
		verdict.AvailableSlots = available
	}
	return verdict, nil
}

func notServiceable(message string) *Verdict {
	return &Verdict{
		IsServiceable:  false,
		AvailableSlots: []slots.Slot{},
		Message:        message,
	}
}

func cityRef(city *models.City) *CityRef {
	if city == nil {
		return nil
	}
	return &CityRef{ID: city.ID, Name: city.Name, Slug: city.Slug}
}

func verdictLabel(v *Verdict) string {
	switch {
	case v == nil:
		return "error"
	case v.ComingSoon:
		return "coming_soon"
	case v.IsServiceable:
		return "serviceable"
	default:
		return "not_serviceable"
	}
}
