package slots

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/giftbloom/giftbloom-backend/pkg/db/models"
	pkgerrors "github.com/giftbloom/giftbloom-backend/pkg/errors"
)

// Slot is one deliverable time window with its resolved charge.
type Slot struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	StartTime string          `json:"startTime"`
	EndTime   string          `json:"endTime"`
	Charge    decimal.Decimal `json:"charge"`
}

type slotsRepository interface {
	FindActiveSlots(ctx context.Context) ([]models.DeliverySlot, error)
	FindCityConfigs(ctx context.Context, cityID uuid.UUID) ([]models.CityDeliveryConfig, error)
}

// Service resolves deliverable slots for a city.
type Service interface {
	ResolveForCity(ctx context.Context, cityID uuid.UUID) ([]Slot, error)
}

type service struct {
	repo slotsRepository
}

// NewService builds the slot resolver.
func NewService(repo slotsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("slots repository required")
	}
	return &service{repo: repo}, nil
}

// ResolveForCity returns the city's configured slots with overridden charges,
// falling back to the global slot list. An empty result is valid.
func (s *service) ResolveForCity(ctx context.Context, cityID uuid.UUID) ([]Slot, error) {
	active, err := s.repo.FindActiveSlots(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery slots")
	}

	configs, err := s.repo.FindCityConfigs(ctx, cityID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load city slot configs")
	}

	if len(configs) == 0 {
		return globalSlots(active), nil
	}

	overrides := make(map[uuid.UUID]*decimal.Decimal, len(configs))
	for _, cfg := range configs {
		overrides[cfg.SlotID] = cfg.ChargeOverride
	}

	resolved := make([]Slot, 0, len(configs))
	for _, slot := range active {
		override, configured := overrides[slot.ID]
		if !configured {
			continue
		}
		charge := slot.BaseCharge
		if override != nil {
			charge = *override
		}
		resolved = append(resolved, Slot{
			ID:        slot.ID,
			Name:      slot.Name,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			Charge:    charge,
		})
	}
	return resolved, nil
}

func globalSlots(active []models.DeliverySlot) []Slot {
	resolved := make([]Slot, 0, len(active))
	for _, slot := range active {
		resolved = append(resolved, Slot{
			ID:        slot.ID,
			Name:      slot.Name,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			Charge:    slot.BaseCharge,
		})
	}
	return resolved
}
