package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/giftbloom/giftbloom-backend/api/middleware"
	"github.com/giftbloom/giftbloom-backend/api/responses"
	"github.com/giftbloom/giftbloom-backend/api/validators"
	"github.com/giftbloom/giftbloom-backend/internal/coverage"
	"github.com/giftbloom/giftbloom-backend/pkg/enums"
	pkgerrors "github.com/giftbloom/giftbloom-backend/pkg/errors"
	"github.com/giftbloom/giftbloom-backend/pkg/logger"
)

type coverageEntryRequest struct {
	AreaID    string          `json:"areaId" validate:"required,uuid"`
	Surcharge decimal.Decimal `json:"surcharge"`
}

type saveCoverageRequest struct {
	Areas []coverageEntryRequest `json:"areas" validate:"dive"`
}

func (p saveCoverageRequest) toEntries() ([]coverage.SelectionEntry, error) {
	entries := make([]coverage.SelectionEntry, 0, len(p.Areas))
	for _, area := range p.Areas {
		areaID, err := uuid.Parse(area.AreaID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid area id")
		}
		entries = append(entries, coverage.SelectionEntry{AreaID: areaID, Surcharge: area.Surcharge})
	}
	return entries, nil
}

// VendorGetCoverage returns the caller's coverage rows and the open areas in
// its city.
func VendorGetCoverage(svc coverage.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coverage service unavailable"))
			return
		}

		vendorID, err := vendorIDFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.GetCoverage(r.Context(), vendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// VendorSaveCoverage replaces the caller's desired area selection.
func VendorSaveCoverage(svc coverage.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coverage service unavailable"))
			return
		}

		actor, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		vendorID, err := vendorIDFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload saveCoverageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := payload.toEntries()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.SaveSelection(r.Context(), actor, vendorID, entries)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

func vendorIDFromContext(ctx context.Context) (uuid.UUID, error) {
	raw := middleware.VendorIDFromContext(ctx)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "vendor context missing")
	}
	vendorID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vendor id")
	}
	return vendorID, nil
}

func actorFromContext(ctx context.Context) (coverage.Actor, error) {
	raw := middleware.UserIDFromContext(ctx)
	if raw == "" {
		return coverage.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return coverage.Actor{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}

	actor := coverage.Actor{UserID: userID}
	if role, err := enums.ParseActorRole(middleware.RoleFromContext(ctx)); err == nil {
		actor.Role = role
	}
	if raw := middleware.VendorIDFromContext(ctx); raw != "" {
		if vendorID, err := uuid.Parse(raw); err == nil {
			actor.VendorID = &vendorID
		}
	}
	return actor, nil
}
