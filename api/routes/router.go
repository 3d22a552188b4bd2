package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/giftbloom/giftbloom-backend/api/controllers"
	"github.com/giftbloom/giftbloom-backend/api/middleware"
	"github.com/giftbloom/giftbloom-backend/internal/coverage"
	"github.com/giftbloom/giftbloom-backend/internal/locations"
	"github.com/giftbloom/giftbloom-backend/internal/serviceability"
	"github.com/giftbloom/giftbloom-backend/pkg/config"
	"github.com/giftbloom/giftbloom-backend/pkg/enums"
	"github.com/giftbloom/giftbloom-backend/pkg/logger"
	pkgredis "github.com/giftbloom/giftbloom-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisP controllers.Pinger,
	idempotencyStore pkgredis.IdempotencyStore,
	locationsService locations.Service,
	serviceabilityService serviceability.Service,
	coverageService coverage.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/public/v1", func(r chi.Router) {
		r.Get("/locations/search", controllers.LocationsSearch(locationsService, logg))
		r.Get("/serviceability/check", controllers.ServiceabilityCheck(serviceabilityService, logg))
	})

	r.Route("/api/v1/vendor", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(enums.ActorRoleVendor.String(), logg))

		r.Get("/coverage", controllers.VendorGetCoverage(coverageService, logg))
		r.Put("/coverage", controllers.VendorSaveCoverage(coverageService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(enums.ActorRoleAdmin.String(), logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/vendors/{vendorId}", func(r chi.Router) {
			r.Route("/coverage", func(r chi.Router) {
				r.Post("/{coverageId}/transition", controllers.AdminCoverageTransition(coverageService, logg))
				r.Post("/bulk-add", controllers.AdminBulkAddCoverage(coverageService, logg))
				r.Post("/pincode", controllers.AdminCreateCoverageByPincode(coverageService, logg))
				r.Post("/bulk-activate", controllers.AdminBulkActivateCoverage(coverageService, logg))
			})
			r.Put("/pincodes", controllers.AdminReplaceVendorPincodes(coverageService, logg))
		})
	})

	return r
}
