package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App            AppConfig
	DB             DBConfig
	Redis          RedisConfig
	JWT            JWTConfig
	FeatureFlags   FeatureFlagsConfig
	Places         PlacesConfig
	Postal         PostalConfig
	Serviceability ServiceabilityConfig
	GCP            GCPConfig
	PubSub         PubSubConfig
	Outbox         OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GIFTBLOOM_APP_ENV" required:"true"`
	Port         string `envconfig:"GIFTBLOOM_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GIFTBLOOM_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GIFTBLOOM_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GIFTBLOOM_DB_DSN"`
	Driver string `envconfig:"GIFTBLOOM_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GIFTBLOOM_DB_HOST"`
	LegacyPort     int    `envconfig:"GIFTBLOOM_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GIFTBLOOM_DB_USER"`
	LegacyPassword string `envconfig:"GIFTBLOOM_DB_PASSWORD"`
	LegacyName     string `envconfig:"GIFTBLOOM_DB_NAME"`
	LegacySSLMode  string `envconfig:"GIFTBLOOM_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GIFTBLOOM_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GIFTBLOOM_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GIFTBLOOM_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GIFTBLOOM_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GIFTBLOOM_REDIS_URL" required:"true"`
	Address      string        `envconfig:"GIFTBLOOM_REDIS_ADDR"`
	Password     string        `envconfig:"GIFTBLOOM_REDIS_PASSWORD"`
	DB           int           `envconfig:"GIFTBLOOM_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GIFTBLOOM_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GIFTBLOOM_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GIFTBLOOM_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GIFTBLOOM_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GIFTBLOOM_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"GIFTBLOOM_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"GIFTBLOOM_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"GIFTBLOOM_JWT_EXPIRATION_MINUTES" required:"true"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"GIFTBLOOM_AUTO_MIGRATE" default:"false"`
}

// PlacesConfig drives the external place-suggestion and reverse-geocoding
// provider. A missing API key disables the provider; resolution then runs on
// local data only.
type PlacesConfig struct {
	APIKey     string        `envconfig:"GIFTBLOOM_PLACES_API_KEY"`
	BaseURL    string        `envconfig:"GIFTBLOOM_PLACES_BASE_URL"`
	RegionCode string        `envconfig:"GIFTBLOOM_PLACES_REGION" default:"IN"`
	Timeout    time.Duration `envconfig:"GIFTBLOOM_PLACES_TIMEOUT" default:"3s"`
}

type PostalConfig struct {
	BaseURL string        `envconfig:"GIFTBLOOM_POSTAL_BASE_URL" default:"https://api.postalpincode.in"`
	Timeout time.Duration `envconfig:"GIFTBLOOM_POSTAL_TIMEOUT" default:"5s"`
}

type ServiceabilityConfig struct {
	MaxAreaDistanceKm  float64 `envconfig:"GIFTBLOOM_SERVICEABILITY_MAX_AREA_DISTANCE_KM" default:"15"`
	MinLocalResults    int     `envconfig:"GIFTBLOOM_SEARCH_MIN_LOCAL_RESULTS" default:"3"`
	DefaultSearchLimit int     `envconfig:"GIFTBLOOM_SEARCH_DEFAULT_LIMIT" default:"8"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"GIFTBLOOM_GCP_PROJECT_ID"`
	ApplicationCredentials string `envconfig:"GIFTBLOOM_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	AuditTopic string `envconfig:"GIFTBLOOM_PUBSUB_AUDIT_TOPIC" default:"gb-coverage-audit"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"GIFTBLOOM_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"GIFTBLOOM_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"GIFTBLOOM_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
