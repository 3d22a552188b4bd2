package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/giftbloom/giftbloom-backend/api/routes"
	"github.com/giftbloom/giftbloom-backend/internal/coverage"
	"github.com/giftbloom/giftbloom-backend/internal/locations"
	"github.com/giftbloom/giftbloom-backend/internal/matching"
	"github.com/giftbloom/giftbloom-backend/internal/serviceability"
	"github.com/giftbloom/giftbloom-backend/internal/slots"
	"github.com/giftbloom/giftbloom-backend/pkg/config"
	"github.com/giftbloom/giftbloom-backend/pkg/db"
	"github.com/giftbloom/giftbloom-backend/pkg/logger"
	"github.com/giftbloom/giftbloom-backend/pkg/metrics"
	"github.com/giftbloom/giftbloom-backend/pkg/migrate"
	"github.com/giftbloom/giftbloom-backend/pkg/outbox"
	"github.com/giftbloom/giftbloom-backend/pkg/places"
	"github.com/giftbloom/giftbloom-backend/pkg/postal"
	"github.com/giftbloom/giftbloom-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	var placesClient *places.Client
	if cfg.Places.APIKey != "" {
		opts := []places.Option{
			places.WithRegion(cfg.Places.RegionCode),
			places.WithHTTPClient(&http.Client{Timeout: cfg.Places.Timeout}),
		}
		if cfg.Places.BaseURL != "" {
			opts = append(opts, places.WithBaseURL(cfg.Places.BaseURL))
		}
		placesClient, err = places.NewClient(cfg.Places.APIKey, opts...)
		if err != nil {
			logg.Error(context.Background(), "failed to create places client", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "places API key not set, running on local location data only")
	}

	postalClient := postal.NewClient(
		postal.WithBaseURL(cfg.Postal.BaseURL),
		postal.WithHTTPClient(&http.Client{Timeout: cfg.Postal.Timeout}),
	)

	requests := metrics.NewRequestMetrics(prometheus.DefaultRegisterer)
	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	locationsRepo := locations.NewRepository(dbClient.DB())
	var locationsService locations.Service
	if placesClient != nil {
		locationsService, err = locations.NewService(locationsRepo, placesClient, cfg.Serviceability, logg, requests)
	} else {
		locationsService, err = locations.NewService(locationsRepo, nil, cfg.Serviceability, logg, requests)
	}
	if err != nil {
		logg.Error(context.Background(), "failed to create locations service", err)
		os.Exit(1)
	}

	matchingService, err := matching.NewService(matching.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create matching service", err)
		os.Exit(1)
	}

	slotsService, err := slots.NewService(slots.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create slots service", err)
		os.Exit(1)
	}

	serviceabilityService, err := serviceability.NewService(
		serviceability.NewRepository(dbClient.DB()),
		matchingService,
		slotsService,
		cfg.Serviceability,
		logg,
		requests,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create serviceability service", err)
		os.Exit(1)
	}

	coverageRepo := coverage.NewRepository(dbClient.DB())
	var coverageService coverage.Service
	if placesClient != nil {
		coverageService, err = coverage.NewService(coverageRepo, dbClient, outboxService, postalClient, placesClient, logg)
	} else {
		coverageService, err = coverage.NewService(coverageRepo, dbClient, outboxService, postalClient, nil, logg)
	}
	if err != nil {
		logg.Error(context.Background(), "failed to create coverage service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			redisClient,
			locationsService,
			serviceabilityService,
			coverageService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
