package config

import (
	"strings"
	"testing"
)

func TestEnsureDSNPassthrough(t *testing.T) {
	cfg := DBConfig{DSN: "postgres://u:p@localhost:5432/giftbloom"}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DSN != "postgres://u:p@localhost:5432/giftbloom" {
		t.Fatalf("dsn mutated: %s", cfg.DSN)
	}
}

func TestEnsureDSNFromLegacyParts(t *testing.T) {
	cfg := DBConfig{
		LegacyHost:     "db.internal",
		LegacyPort:     5433,
		LegacyUser:     "gift",
		LegacyPassword: "s3cret",
		LegacyName:     "giftbloom",
		LegacySSLMode:  "require",
	}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"postgres://", "gift:s3cret@db.internal:5433", "/giftbloom", "sslmode=require"} {
		if !strings.Contains(cfg.DSN, want) {
			t.Fatalf("dsn %q missing %q", cfg.DSN, want)
		}
	}
}

func TestEnsureDSNReportsMissingLegacyVars(t *testing.T) {
	cfg := DBConfig{LegacyHost: "db.internal"}
	err := cfg.ensureDSN()
	if err == nil {
		t.Fatal("expected error for missing legacy vars")
	}
	if !strings.Contains(err.Error(), EnvDBUser) || !strings.Contains(err.Error(), EnvDBName) {
		t.Fatalf("error should name missing vars: %v", err)
	}
}

func TestAppEnvHelpers(t *testing.T) {
	if !(AppConfig{Env: "DEV"}).IsDev() {
		t.Fatal("expected IsDev for DEV")
	}
	if !(AppConfig{Env: "prod"}).IsProd() {
		t.Fatal("expected IsProd for prod")
	}
	if (AppConfig{Env: "staging"}).IsProd() {
		t.Fatal("staging must not be prod")
	}
}
