package locations

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/giftbloom/giftbloom-backend/pkg/config"
	"github.com/giftbloom/giftbloom-backend/pkg/db/models"
	"github.com/giftbloom/giftbloom-backend/pkg/enums"
	pkgerrors "github.com/giftbloom/giftbloom-backend/pkg/errors"
	"github.com/giftbloom/giftbloom-backend/pkg/logger"
	"github.com/giftbloom/giftbloom-backend/pkg/metrics"
	"github.com/giftbloom/giftbloom-backend/pkg/places"
)

const (
	defaultResultCap   = 8
	cityPrefixCap      = 3
	partialCityCap     = 5
	textCityCap        = 3
	externalResultCap  = 3
	minLocalForNoCall  = 3
	suggestionsTimeout = 3 * time.Second
)

type locationsRepository interface {
	FindAreasByPincode(ctx context.Context, pincode string, limit int) ([]models.ServiceArea, error)
	FindAreasByPincodePrefix(ctx context.Context, prefix string, limit int) ([]models.ServiceArea, error)
	FindAreasByName(ctx context.Context, query string, limit int) ([]models.ServiceArea, error)
	FindAreasByAltName(ctx context.Context, query string, limit int) ([]models.ServiceArea, error)
	FindZonesByPincode(ctx context.Context, pincode string) ([]models.CityZone, error)
	FindPincodeCityMap(ctx context.Context, pincode string) (*models.PincodeCityMap, error)
	FindCitiesByPincodePrefix(ctx context.Context, prefix string, limit int) ([]models.City, error)
	FindCitiesByName(ctx context.Context, query string, limit int) ([]models.City, error)
	FindCitiesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.City, error)
}

type suggestionProvider interface {
	Autocomplete(ctx context.Context, input string) ([]places.Suggestion, error)
}

// Service exposes location search.
type Service interface {
	Search(ctx context.Context, query string, limit int) (*SearchResult, error)
}

type service struct {
	repo        locationsRepository
	suggestions suggestionProvider
	cfg         config.ServiceabilityConfig
	logg        *logger.Logger
	requests    *metrics.RequestMetrics
}

// NewService builds the location search service. The suggestion provider is
// optional; without one, search runs on local data only.
func NewService(repo locationsRepository, suggestions suggestionProvider, cfg config.ServiceabilityConfig, logg *logger.Logger, requests *metrics.RequestMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("locations repository required")
	}
	return &service{
		repo:        repo,
		suggestions: suggestions,
		cfg:         cfg,
		logg:        logg,
		requests:    requests,
	}, nil
}

func (s *service) Search(ctx context.Context, query string, limit int) (*SearchResult, error) {
	start := time.Now()
	defer func() {
		s.requests.ObserveDuration("locations.search", time.Since(start))
	}()

	query = strings.TrimSpace(query)
	if limit <= 0 {
		limit = s.cfg.DefaultSearchLimit
	}
	if limit <= 0 {
		limit = defaultResultCap
	}

	if len([]rune(query)) < 2 {
		return &SearchResult{Results: []Candidate{}}, nil
	}

	var (
		local []Candidate
		err   error
	)
	switch {
	case isDigits(query) && len(query) == 6:
		local, err = s.resolveExactPincode(ctx, query)
	case isDigits(query):
		local, err = s.resolvePartialPincode(ctx, query)
	default:
		local, err = s.resolveText(ctx, query)
	}
	if err != nil {
		s.requests.IncOutcome("locations.search", "error")
		return nil, err
	}

	results := local
	if len(local) < s.minLocalResults() {
		results = append(results, s.externalSuggestions(ctx, query, local)...)
	}

	ordered := orderCandidates(results, limit)
	s.requests.IncOutcome("locations.search", outcomeLabel(len(ordered)))
	return &SearchResult{Results: ordered}, nil
}

func (s *service) minLocalResults() int {
	if s.cfg.MinLocalResults > 0 {
		return s.cfg.MinLocalResults
	}
	return minLocalForNoCall
}

// resolveExactPincode walks the four local tiers in order, stopping at the
// first tier that yields results.
func (s *service) resolveExactPincode(ctx context.Context, pincode string) ([]Candidate, error) {
	areas, err := s.repo.FindAreasByPincode(ctx, pincode, defaultResultCap)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup areas by pincode")
	}
	if len(areas) > 0 {
		return s.areaCandidates(ctx, areas)
	}

	zones, err := s.repo.FindZonesByPincode(ctx, pincode)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup zones by pincode")
	}
	if len(zones) > 0 {
		return s.zoneCityCandidates(ctx, zones, pincode)
	}

	mapped, err := s.repo.FindPincodeCityMap(ctx, pincode)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup pincode map")
	}
	if mapped != nil {
		return s.mappedCityCandidate(ctx, mapped, pincode)
	}

	cities, err := s.repo.FindCitiesByPincodePrefix(ctx, pincode[:3], cityPrefixCap)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup cities by prefix")
	}
	return cityCandidates(cities, pincode), nil
}

func (s *service) resolvePartialPincode(ctx context.Context, partial string) ([]Candidate, error) {
	areas, err := s.repo.FindAreasByPincodePrefix(ctx, partial, defaultResultCap)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup areas by partial pincode")
	}
	if len(areas) > 0 {
		return s.areaCandidates(ctx, areas)
	}

	cities, err := s.repo.FindCitiesByPincodePrefix(ctx, partial, partialCityCap)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup cities by prefix")
	}
	return cityCandidates(cities, ""), nil
}

// resolveText issues the three independent text lookups concurrently and
// merges them deterministically afterward.
func (s *service) resolveText(ctx context.Context, query string) ([]Candidate, error) {
	var (
		wg      sync.WaitGroup
		byName  []models.ServiceArea
		byAlt   []models.ServiceArea
		cities  []models.City
		nameErr error
		altErr  error
		cityErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		byName, nameErr = s.repo.FindAreasByName(ctx, query, defaultResultCap)
	}()
	go func() {
		defer wg.Done()
		byAlt, altErr = s.repo.FindAreasByAltName(ctx, query, defaultResultCap)
	}()
	go func() {
		defer wg.Done()
		cities, cityErr = s.repo.FindCitiesByName(ctx, query, textCityCap)
	}()
	wg.Wait()

	if nameErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, nameErr, "search areas by name")
	}
	if altErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, altErr, "search areas by alt name")
	}
	if cityErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, cityErr, "search cities by name")
	}

	// Name matches rank ahead of alt-name matches; dedup by area id.
	seenAreas := map[uuid.UUID]bool{}
	merged := make([]models.ServiceArea, 0, len(byName)+len(byAlt))
	for _, area := range append(byName, byAlt...) {
		if seenAreas[area.ID] {
			continue
		}
		seenAreas[area.ID] = true
		merged = append(merged, area)
	}

	candidates, err := s.areaCandidates(ctx, merged)
	if err != nil {
		return nil, err
	}

	// A city entry is redundant once an area already names that city.
	coveredCities := map[uuid.UUID]bool{}
	for _, c := range candidates {
		if c.CityID != nil {
			coveredCities[*c.CityID] = true
		}
	}
	added := 0
	for _, city := range cities {
		if coveredCities[city.ID] || added >= textCityCap {
			continue
		}
		candidates = append(candidates, cityCandidate(city, ""))
		added++
	}
	return candidates, nil
}

// externalSuggestions queries the suggestion provider behind its own timeout.
// Outages degrade to zero results.
func (s *service) externalSuggestions(ctx context.Context, query string, local []Candidate) []Candidate {
	if s.suggestions == nil {
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, suggestionsTimeout)
	defer cancel()

	s.requests.IncFallback("places")
	suggestions, err := s.suggestions.Autocomplete(callCtx, query)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "suggestion provider degraded")
		}
		return nil
	}

	seenLabels := map[string]bool{}
	seenPincodes := map[string]bool{}
	for _, c := range local {
		seenLabels[strings.ToLower(c.Label)] = true
		if c.Pincode != "" {
			seenPincodes[c.Pincode] = true
		}
	}

	results := make([]Candidate, 0, externalResultCap)
	for _, suggestion := range suggestions {
		if len(results) >= externalResultCap {
			break
		}
		label := strings.TrimSpace(suggestion.Description)
		if label == "" || seenLabels[strings.ToLower(label)] {
			continue
		}
		if pin := extractPincode(label); pin != "" && seenPincodes[pin] {
			continue
		}
		seenLabels[strings.ToLower(label)] = true
		results = append(results, Candidate{
			Type:        enums.LocationResultExternal,
			Label:       label,
			ExternalRef: suggestion.PlaceID,
		})
	}
	return results
}

func (s *service) areaCandidates(ctx context.Context, areas []models.ServiceArea) ([]Candidate, error) {
	if len(areas) == 0 {
		return nil, nil
	}
	citiesByID, err := s.citiesFor(ctx, areaCityIDs(areas))
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(areas))
	for _, area := range areas {
		area := area
		c := Candidate{
			Type:     enums.LocationResultArea,
			Label:    area.Name,
			AreaName: area.Name,
			AreaID:   &area.ID,
			Pincode:  area.Pincode,
			Lat:      area.Lat,
			Lng:      area.Lng,
			IsActive: area.IsActive,
		}
		if city, ok := citiesByID[area.CityID]; ok {
			cityID := city.ID
			c.CityID = &cityID
			c.CityName = city.Name
			c.CitySlug = city.Slug
			c.IsComingSoon = city.IsComingSoon
			c.Label = fmt.Sprintf("%s, %s", area.Name, city.Name)
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func (s *service) zoneCityCandidates(ctx context.Context, zones []models.CityZone, pincode string) ([]Candidate, error) {
	cityIDs := make([]uuid.UUID, 0, len(zones))
	seen := map[uuid.UUID]bool{}
	for _, zone := range zones {
		if seen[zone.CityID] {
			continue
		}
		seen[zone.CityID] = true
		cityIDs = append(cityIDs, zone.CityID)
	}

	citiesByID, err := s.citiesFor(ctx, cityIDs)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(cityIDs))
	for _, id := range cityIDs {
		city, ok := citiesByID[id]
		if !ok {
			continue
		}
		candidates = append(candidates, cityCandidate(city, pincode))
	}
	return candidates, nil
}

func (s *service) mappedCityCandidate(ctx context.Context, mapped *models.PincodeCityMap, pincode string) ([]Candidate, error) {
	citiesByID, err := s.citiesFor(ctx, []uuid.UUID{mapped.CityID})
	if err != nil {
		return nil, err
	}
	city, ok := citiesByID[mapped.CityID]
	if !ok {
		return nil, nil
	}
	c := cityCandidate(city, pincode)
	if mapped.AreaName != "" {
		c.AreaName = mapped.AreaName
		c.Label = fmt.Sprintf("%s, %s", mapped.AreaName, city.Name)
	}
	return []Candidate{c}, nil
}

func (s *service) citiesFor(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.City, error) {
	cities, err := s.repo.FindCitiesByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cities")
	}
	byID := make(map[uuid.UUID]models.City, len(cities))
	for _, city := range cities {
		byID[city.ID] = city
	}
	return byID, nil
}

func cityCandidates(cities []models.City, pincode string) []Candidate {
	candidates := make([]Candidate, 0, len(cities))
	for _, city := range cities {
		candidates = append(candidates, cityCandidate(city, pincode))
	}
	return candidates
}

func cityCandidate(city models.City, pincode string) Candidate {
	cityID := city.ID
	lat := city.Lat
	lng := city.Lng
	return Candidate{
		Type:         enums.LocationResultCity,
		Label:        city.Name,
		CityID:       &cityID,
		CityName:     city.Name,
		CitySlug:     city.Slug,
		Pincode:      pincode,
		Lat:          &lat,
		Lng:          &lng,
		IsActive:     city.IsActive,
		IsComingSoon: city.IsComingSoon,
	}
}

func orderCandidates(candidates []Candidate, limit int) []Candidate {
	ordered := make([]Candidate, 0, len(candidates))
	for _, kind := range []enums.LocationResultType{
		enums.LocationResultArea,
		enums.LocationResultCity,
		enums.LocationResultExternal,
	} {
		for _, c := range candidates {
			if c.Type == kind {
				ordered = append(ordered, c)
			}
		}
	}
	if len(ordered) > limit {
		ordered = ordered[:limit]
	}
	return ordered
}

func areaCityIDs(areas []models.ServiceArea) []uuid.UUID {
	seen := map[uuid.UUID]bool{}
	ids := make([]uuid.UUID, 0, len(areas))
	for _, area := range areas {
		if seen[area.CityID] {
			continue
		}
		seen[area.CityID] = true
		ids = append(ids, area.CityID)
	}
	return ids
}

func extractPincode(label string) string {
	run := 0
	start := -1
	for i, r := range label {
		if unicode.IsDigit(r) {
			if run == 0 {
				start = i
			}
			run++
			if run == 6 {
				candidate := label[start : i+1]
				if i+1 >= len(label) || !unicode.IsDigit(rune(label[i+1])) {
					return candidate
				}
			}
		} else {
			run = 0
		}
	}
	return ""
}

func isDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(value) > 0
}

func outcomeLabel(count int) string {
	if count == 0 {
		return "empty"
	}
	return "hit"
}
