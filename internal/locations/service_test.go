package locations

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/giftbloom/giftbloom-backend/pkg/config"
	"github.com/giftbloom/giftbloom-backend/pkg/db/models"
	"github.com/giftbloom/giftbloom-backend/pkg/enums"
	"github.com/giftbloom/giftbloom-backend/pkg/places"
)

func TestSearchShortQueryReturnsEmpty(t *testing.T) {
	t.Parallel()

	repo := newStubLocationsRepo()
	svc := newSearchService(t, repo, nil)

	for _, query := range []string{"", " ", "a", " b "} {
		result, err := svc.Search(context.Background(), query, 8)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", query, err)
		}
		if len(result.Results) != 0 {
			t.Fatalf("expected empty result for %q, got %d", query, len(result.Results))
		}
	}
}

func TestSearchExactPincodeStopsAtFirstTier(t *testing.T) {
	t.Parallel()

	repo := newStubLocationsRepo()
	city := repo.addCity("Bengaluru", "bengaluru")
	repo.addArea("Shanthala Nagar", "560001", city.ID)
	repo.zonesByPincode["560001"] = []models.CityZone{{ID: uuid.New(), CityID: city.ID}}

	svc := newSearchService(t, repo, nil)
	result, err := svc.Search(context.Background(), "560001", 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Results) != 1 {
		t.Fatalf("expected the area tier only, got %d results", len(result.Results))
	}
	got := result.Results[0]
	if got.Type != enums.LocationResultArea {
		t.Fatalf("expected area candidate, got %s", got.Type)
	}
	if got.Label != "Shanthala Nagar, Bengaluru" {
		t.Fatalf("expected combined label, got %q", got.Label)
	}
	if repo.zoneLookups != 0 {
		t.Fatalf("expected no zone lookup after an area hit, got %d", repo.zoneLookups)
	}
}

func TestSearchExactPincodeCascadesToZones(t *testing.T) {
	t.Parallel()

	repo := newStubLocationsRepo()
	city := repo.addCity("Hyderabad", "hyderabad")
	repo.zonesByPincode["500081"] = []models.CityZone{{ID: uuid.New(), CityID: city.ID}}

	svc := newSearchService(t, repo, nil)
	result, err := svc.Search(context.Background(), "500081", 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Results) != 1 || result.Results[0].Type != enums.LocationResultCity {
		t.Fatalf("expected zone-derived city candidate, got %+v", result.Results)
	}
	if result.Results[0].Pincode != "500081" {
		t.Fatalf("expected queried pincode carried on candidate, got %q", result.Results[0].Pincode)
	}
}

func TestSearchExactPincodeUsesMapTier(t *testing.T) {
	t.Parallel()

	repo := newStubLocationsRepo()
	city := repo.addCity("Chennai", "chennai")
	repo.mapsByPincode["600001"] = &models.PincodeCityMap{ID: uuid.New(), Pincode: "600001", CityID: city.ID, AreaName: "Parrys"}

	svc := newSearchService(t, repo, nil)
	result, err := svc.Search(context.Background(), "600001", 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Results) != 1 {
		t.Fatalf("expected one mapped candidate, got %d", len(result.Results))
	}
	if result.Results[0].Label != "Parrys, Chennai" {
		t.Fatalf("expected mapped area label, got %q", result.Results[0].Label)
	}
}

func TestSearchPartialPincode(t *testing.T) {
	t.Parallel()

	repo := newStubLocationsRepo()
	city := repo.addCity("Bengaluru", "bengaluru")
	repo.addArea("Shanthala Nagar", "560001", city.ID)
	repo.addArea("Indiranagar", "560038", city.ID)

	svc := newSearchService(t, repo, nil)
	result, err := svc.Search(context.Background(), "560", 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Results) != 2 {
		t.Fatalf("expected both prefix matches, got %d", len(result.Results))
	}
	for _, c := range result.Results {
		if c.Type != enums.LocationResultArea {
			t.Fatalf("expected area candidates, got %s", c.Type)
		}
	}
}

func TestSearchTextOrdersAreasBeforeCities(t *testing.T) {
	t.Parallel()

	repo := newStubLocationsRepo()
	bengaluru := repo.addCity("Bengaluru", "bengaluru")
	mysuru := repo.addCity("Mysuru", "mysuru")
	repo.addArea("Nagarbhavi", "560072", bengaluru.ID)
	repo.textCities = []models.City{*mysuru}

	svc := newSearchService(t, repo, nil)
	result, err := svc.Search(context.Background(), "naga", 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Results) != 2 {
		t.Fatalf("expected area plus city, got %d", len(result.Results))
	}
	if result.Results[0].Type != enums.LocationResultArea || result.Results[1].Type != enums.LocationResultCity {
		t.Fatalf("expected area ranked before city, got %+v", result.Results)
	}
}

func TestSearchTextSuppressesCoveredCities(t *testing.T) {
	t.Parallel()

	repo := newStubLocationsRepo()
	city := repo.addCity("Bengaluru", "bengaluru")
	repo.addArea("Bengaluru Pete", "560002", city.ID)
	repo.textCities = []models.City{*city}

	svc := newSearchService(t, repo, nil)
	result, err := svc.Search(context.Background(), "benga", 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Results) != 1 || result.Results[0].Type != enums.LocationResultArea {
		t.Fatalf("expected redundant city suppressed, got %+v", result.Results)
	}
}

func TestSearchCallsProviderWhenLocalResultsAreThin(t *testing.T) {
	t.Parallel()

	repo := newStubLocationsRepo()
	provider := &stubSuggestions{suggestions: []places.Suggestion{
		{PlaceID: "p1", Description: "Electronic City, Bengaluru"},
		{PlaceID: "p2", Description: "Electronic City Phase 2"},
	}}

	svc := newSearchService(t, repo, provider)
	result, err := svc.Search(context.Background(), "electronic", 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Results) != 2 {
		t.Fatalf("expected external suggestions, got %d", len(result.Results))
	}
	for _, c := range result.Results {
		if c.Type != enums.LocationResultExternal || c.ExternalRef == "" {
			t.Fatalf("expected external candidates with refs, got %+v", c)
		}
	}
}

func TestSearchSkipsProviderWithEnoughLocalResults(t *testing.T) {
	t.Parallel()

	repo := newStubLocationsRepo()
	city := repo.addCity("Bengaluru", "bengaluru")
	repo.addArea("Nagarbhavi", "560072", city.ID)
	repo.addArea("Nagawara", "560045", city.ID)
	repo.addArea("Nagasandra", "560073", city.ID)
	provider := &stubSuggestions{}

	svc := newSearchService(t, repo, provider)
	_, err := svc.Search(context.Background(), "naga", 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.calls != 0 {
		t.Fatalf("expected no provider call, got %d", provider.calls)
	}
}

func TestSearchDegradesWhenProviderFails(t *testing.T) {
	t.Parallel()

	repo := newStubLocationsRepo()
	provider := &stubSuggestions{err: errors.New("quota exhausted")}

	svc := newSearchService(t, repo, provider)
	result, err := svc.Search(context.Background(), "electronic", 8)
	if err != nil {
		t.Fatalf("expected degraded search, got error: %v", err)
	}
	if len(result.Results) != 0 {
		t.Fatalf("expected empty result on provider outage, got %d", len(result.Results))
	}
}

func TestSearchFiltersSuggestionsCoveredLocally(t *testing.T) {
	t.Parallel()

	repo := newStubLocationsRepo()
	city := repo.addCity("Bengaluru", "bengaluru")
	repo.addArea("Nagarbhavi", "560072", city.ID)
	provider := &stubSuggestions{suggestions: []places.Suggestion{
		{PlaceID: "p1", Description: "Nagarbhavi, Bengaluru"},     // duplicate label
		{PlaceID: "p2", Description: "Nagarbhavi 560072 Layout"},  // duplicate pincode
		{PlaceID: "p3", Description: "Nagarbhavi Village Circle"}, // genuinely new
	}}

	svc := newSearchService(t, repo, provider)
	result, err := svc.Search(context.Background(), "nagarbhavi", 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	external := 0
	for _, c := range result.Results {
		if c.Type == enums.LocationResultExternal {
			external++
			if c.ExternalRef != "p3" {
				t.Fatalf("expected only the new suggestion, got %+v", c)
			}
		}
	}
	if external != 1 {
		t.Fatalf("expected exactly one external candidate, got %d", external)
	}
}

func TestSearchRespectsLimit(t *testing.T) {
	t.Parallel()

	repo := newStubLocationsRepo()
	city := repo.addCity("Bengaluru", "bengaluru")
	for i := 0; i < 6; i++ {
		repo.addArea("Nagarbhavi Stage "+string(rune('1'+i)), "56007"+string(rune('0'+i)), city.ID)
	}

	svc := newSearchService(t, repo, nil)
	result, err := svc.Search(context.Background(), "nagarbhavi", 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Results) != 4 {
		t.Fatalf("expected limit applied, got %d", len(result.Results))
	}
}

func newSearchService(t *testing.T, repo *stubLocationsRepo, provider suggestionProvider) Service {
	t.Helper()
	svc, err := NewService(repo, provider, config.ServiceabilityConfig{MinLocalResults: 3, DefaultSearchLimit: 8}, nil, nil)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

type stubLocationsRepo struct {
	cities         map[uuid.UUID]models.City
	areas          []models.ServiceArea
	zonesByPincode map[string][]models.CityZone
	mapsByPincode  map[string]*models.PincodeCityMap
	textCities     []models.City
	zoneLookups    int
}

func newStubLocationsRepo() *stubLocationsRepo {
	return &stubLocationsRepo{
		cities:         make(map[uuid.UUID]models.City),
		zonesByPincode: make(map[string][]models.CityZone),
		mapsByPincode:  make(map[string]*models.PincodeCityMap),
	}
}

func (s *stubLocationsRepo) addCity(name, slug string) *models.City {
	city := models.City{ID: uuid.New(), Name: name, Slug: slug, IsActive: true}
	s.cities[city.ID] = city
	return &city
}

func (s *stubLocationsRepo) addArea(name, pincode string, cityID uuid.UUID) *models.ServiceArea {
	area := models.ServiceArea{ID: uuid.New(), Name: name, Pincode: pincode, CityID: cityID, IsActive: true}
	s.areas = append(s.areas, area)
	return &area
}

func (s *stubLocationsRepo) FindAreasByPincode(ctx context.Context, pincode string, limit int) ([]models.ServiceArea, error) {
	var out []models.ServiceArea
	for _, area := range s.areas {
		if area.Pincode == pincode && len(out) < limit {
			out = append(out, area)
		}
	}
	return out, nil
}

func (s *stubLocationsRepo) FindAreasByPincodePrefix(ctx context.Context, prefix string, limit int) ([]models.ServiceArea, error) {
	var out []models.ServiceArea
	for _, area := range s.areas {
		if len(area.Pincode) >= len(prefix) && area.Pincode[:len(prefix)] == prefix && len(out) < limit {
			out = append(out, area)
		}
	}
	return out, nil
}

func (s *stubLocationsRepo) FindAreasByName(ctx context.Context, query string, limit int) ([]models.ServiceArea, error) {
	var out []models.ServiceArea
	for _, area := range s.areas {
		if len(out) < limit && containsFold(area.Name, query) {
			out = append(out, area)
		}
	}
	return out, nil
}

func (s *stubLocationsRepo) FindAreasByAltName(ctx context.Context, query string, limit int) ([]models.ServiceArea, error) {
	return nil, nil
}

func (s *stubLocationsRepo) FindZonesByPincode(ctx context.Context, pincode string) ([]models.CityZone, error) {
	s.zoneLookups++
	return s.zonesByPincode[pincode], nil
}

func (s *stubLocationsRepo) FindPincodeCityMap(ctx context.Context, pincode string) (*models.PincodeCityMap, error) {
	return s.mapsByPincode[pincode], nil
}

func (s *stubLocationsRepo) FindCitiesByPincodePrefix(ctx context.Context, prefix string, limit int) ([]models.City, error) {
	return nil, nil
}

func (s *stubLocationsRepo) FindCitiesByName(ctx context.Context, query string, limit int) ([]models.City, error) {
	if len(s.textCities) > limit {
		return s.textCities[:limit], nil
	}
	return s.textCities, nil
}

func (s *stubLocationsRepo) FindCitiesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.City, error) {
	var out []models.City
	for _, id := range ids {
		if city, ok := s.cities[id]; ok {
			out = append(out, city)
		}
	}
	return out, nil
}

type stubSuggestions struct {
	suggestions []places.Suggestion
	err         error
	calls       int
}

func (s *stubSuggestions) Autocomplete(ctx context.Context, input string) ([]places.Suggestion, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.suggestions, nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
