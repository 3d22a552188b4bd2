package slots

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/giftbloom/giftbloom-backend/pkg/db/models"
)

func TestResolveForCityFallsBackToGlobalSlots(t *testing.T) {
	t.Parallel()

	morning := models.DeliverySlot{ID: uuid.New(), Name: "Morning", StartTime: "09:00", EndTime: "12:00", BaseCharge: decimal.NewFromInt(49)}
	evening := models.DeliverySlot{ID: uuid.New(), Name: "Evening", StartTime: "17:00", EndTime: "21:00", BaseCharge: decimal.NewFromInt(79)}
	repo := &stubSlotsRepo{active: []models.DeliverySlot{morning, evening}}
	svc := newResolver(t, repo)

	resolved, err := svc.ResolveForCity(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resolved) != 2 {
		t.Fatalf("expected all global slots, got %d", len(resolved))
	}
	if !resolved[0].Charge.Equal(morning.BaseCharge) || !resolved[1].Charge.Equal(evening.BaseCharge) {
		t.Fatalf("expected base charges, got %+v", resolved)
	}
}

func TestResolveForCityAppliesOverrides(t *testing.T) {
	t.Parallel()

	morning := models.DeliverySlot{ID: uuid.New(), Name: "Morning", StartTime: "09:00", EndTime: "12:00", BaseCharge: decimal.NewFromInt(49)}
	evening := models.DeliverySlot{ID: uuid.New(), Name: "Evening", StartTime: "17:00", EndTime: "21:00", BaseCharge: decimal.NewFromInt(79)}
	midnight := models.DeliverySlot{ID: uuid.New(), Name: "Midnight", StartTime: "23:00", EndTime: "23:59", BaseCharge: decimal.NewFromInt(199)}

	override := decimal.NewFromInt(29)
	cityID := uuid.New()
	repo := &stubSlotsRepo{
		active: []models.DeliverySlot{morning, evening, midnight},
		configs: []models.CityDeliveryConfig{
			{CityID: cityID, SlotID: morning.ID, ChargeOverride: &override, IsEnabled: true},
			{CityID: cityID, SlotID: evening.ID, IsEnabled: true},
		},
	}
	svc := newResolver(t, repo)

	resolved, err := svc.ResolveForCity(context.Background(), cityID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resolved) != 2 {
		t.Fatalf("expected only configured slots, got %d", len(resolved))
	}
	if !resolved[0].Charge.Equal(override) {
		t.Fatalf("expected override charge 29, got %s", resolved[0].Charge)
	}
	// Nil override keeps the slot's base charge.
	if !resolved[1].Charge.Equal(evening.BaseCharge) {
		t.Fatalf("expected base charge 79, got %s", resolved[1].Charge)
	}
	for _, slot := range resolved {
		if slot.ID == midnight.ID {
			t.Fatal("unconfigured slot leaked into a configured city")
		}
	}
}

func TestResolveForCityEmptyGlobalList(t *testing.T) {
	t.Parallel()

	svc := newResolver(t, &stubSlotsRepo{})

	resolved, err := svc.ResolveForCity(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resolved) != 0 {
		t.Fatalf("expected no slots, got %d", len(resolved))
	}
}

func newResolver(t *testing.T, repo *stubSlotsRepo) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

type stubSlotsRepo struct {
	active  []models.DeliverySlot
	configs []models.CityDeliveryConfig
}

func (s *stubSlotsRepo) FindActiveSlots(ctx context.Context) ([]models.DeliverySlot, error) {
	return s.active, nil
}

func (s *stubSlotsRepo) FindCityConfigs(ctx context.Context, cityID uuid.UUID) ([]models.CityDeliveryConfig, error) {
	return s.configs, nil
}
