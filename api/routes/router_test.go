package routes

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/giftbloom/giftbloom-backend/internal/coverage"
	"github.com/giftbloom/giftbloom-backend/internal/locations"
	"github.com/giftbloom/giftbloom-backend/internal/serviceability"
	pkgAuth "github.com/giftbloom/giftbloom-backend/pkg/auth"
	"github.com/giftbloom/giftbloom-backend/pkg/config"
	"github.com/giftbloom/giftbloom-backend/pkg/enums"
	"github.com/giftbloom/giftbloom-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubStore struct{}

func (stubStore) Get(context.Context, string) (string, error) {
	return "", redis.Nil
}

func (stubStore) SetNX(context.Context, string, any, time.Duration) (bool, error) {
	return true, nil
}

func (stubStore) IdempotencyKey(scope, id string) string {
	return "idem:" + scope + ":" + id
}

func (stubStore) Del(context.Context, ...string) error {
	return nil
}

type stubLocationsService struct{}

func (stubLocationsService) Search(ctx context.Context, query string, limit int) (*locations.SearchResult, error) {
	return &locations.SearchResult{}, nil
}

type stubServiceabilityService struct{}

func (stubServiceabilityService) Check(ctx context.Context, input serviceability.CheckInput) (*serviceability.Verdict, error) {
	return &serviceability.Verdict{}, nil
}

type stubCoverageService struct{}

func (stubCoverageService) GetCoverage(ctx context.Context, vendorID uuid.UUID) (*coverage.View, error) {
	return &coverage.View{}, nil
}

func (stubCoverageService) SaveSelection(ctx context.Context, actor coverage.Actor, vendorID uuid.UUID, entries []coverage.SelectionEntry) (*coverage.View, error) {
	return &coverage.View{}, nil
}

func (stubCoverageService) Transition(ctx context.Context, actor coverage.Actor, vendorID, coverageID uuid.UUID, action enums.CoverageAction, reason string) (*coverage.Row, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubCoverageService) BulkAdd(ctx context.Context, actor coverage.Actor, vendorID uuid.UUID, input coverage.BulkAddInput) (*coverage.BulkAddResult, error) {
	return &coverage.BulkAddResult{}, nil
}

func (stubCoverageService) CreateByPincode(ctx context.Context, actor coverage.Actor, vendorID uuid.UUID, input coverage.CreateByPincodeInput) (*coverage.CreateByPincodeResult, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubCoverageService) BulkActivate(ctx context.Context, actor coverage.Actor, vendorID uuid.UUID) (*coverage.BulkActivateResult, error) {
	return &coverage.BulkActivateResult{}, nil
}

func (stubCoverageService) ReplacePincodes(ctx context.Context, actor coverage.Actor, vendorID uuid.UUID, input coverage.ReplacePincodesInput) (*coverage.ReplacePincodesResult, error) {
	return nil, fmt.Errorf("not implemented")
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug")})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		stubPinger{},
		stubStore{},
		stubLocationsService{},
		stubServiceabilityService{},
		stubCoverageService{},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.ActorRole, vendorID *uuid.UUID) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   uuid.New(),
		VendorID: vendorID,
		Role:     role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestPublicSearchReachableWithoutAuth(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/public/v1/locations/search?q=koramangala", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public search got %d", resp.Code)
	}
}

func TestVendorCoverageRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/vendor/coverage", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestVendorCoverageRequiresVendorRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	admin := httptest.NewRequest(http.MethodGet, "/api/v1/vendor/coverage", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleAdmin, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for admin on vendor route got %d", resp.Code)
	}

	vendorID := uuid.New()
	vendor := httptest.NewRequest(http.MethodGet, "/api/v1/vendor/coverage", nil)
	vendor.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleVendor, &vendorID))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, vendor)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for vendor got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	target := fmt.Sprintf("/api/admin/v1/vendors/%s/coverage/bulk-activate", uuid.New())

	vendorID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, target, nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleVendor, &vendorID))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for vendor on admin route got %d", resp.Code)
	}
}

func TestAdminMutationsRequireIdempotencyKey(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	target := fmt.Sprintf("/api/admin/v1/vendors/%s/coverage/bulk-activate", uuid.New())

	missing := httptest.NewRequest(http.MethodPost, target, nil)
	missing.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleAdmin, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, missing)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without idempotency key got %d", resp.Code)
	}

	keyed := httptest.NewRequest(http.MethodPost, target, nil)
	keyed.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleAdmin, nil))
	keyed.Header.Set("Idempotency-Key", uuid.NewString())
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, keyed)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with idempotency key got %d", resp.Code)
	}
}
