package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/giftbloom/giftbloom-backend/api/responses"
	"github.com/giftbloom/giftbloom-backend/api/validators"
	"github.com/giftbloom/giftbloom-backend/internal/coverage"
	"github.com/giftbloom/giftbloom-backend/pkg/enums"
	pkgerrors "github.com/giftbloom/giftbloom-backend/pkg/errors"
	"github.com/giftbloom/giftbloom-backend/pkg/logger"
)

type coverageTransitionRequest struct {
	Action string `json:"action" validate:"required"`
	Reason string `json:"reason"`
}

type bulkAddCoverageRequest struct {
	AreaIDs   []string        `json:"areaIds" validate:"required,min=1,dive,uuid"`
	Surcharge decimal.Decimal `json:"surcharge"`
}

type createCoverageByPincodeRequest struct {
	Pincode   string          `json:"pincode" validate:"required"`
	AreaName  string          `json:"areaName"`
	Surcharge decimal.Decimal `json:"surcharge"`
}

type pincodeChargeRequest struct {
	Pincode string          `json:"pincode" validate:"required"`
	Charge  decimal.Decimal `json:"charge"`
}

type radiusSpecRequest struct {
	Lat      float64         `json:"lat" validate:"latitude"`
	Lng      float64         `json:"lng" validate:"longitude"`
	RadiusKm float64         `json:"radiusKm" validate:"required,min=0"`
	Charge   decimal.Decimal `json:"charge"`
}

type replacePincodesRequest struct {
	Pincodes []pincodeChargeRequest `json:"pincodes" validate:"dive"`
	Radius   *radiusSpecRequest     `json:"radius"`
}

// AdminCoverageTransition applies a single moderation action to a coverage row.
func AdminCoverageTransition(svc coverage.Service, logg *logger.Logger) http.HandlerFunc {
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

		vendorID, err := vendorIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		coverageID, err := uuid.Parse(chi.URLParam(r, "coverageId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid coverage id"))
			return
		}

		var payload coverageTransitionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		action, err := enums.ParseCoverageAction(payload.Action)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid action"))
			return
		}

		row, err := svc.Transition(r.Context(), actor, vendorID, coverageID, action, payload.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, row)
	}
}

// AdminBulkAddCoverage links existing areas to a vendor directly as ACTIVE.
func AdminBulkAddCoverage(svc coverage.Service, logg *logger.Logger) http.HandlerFunc {
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
		vendorID, err := vendorIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload bulkAddCoverageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		areaIDs := make([]uuid.UUID, 0, len(payload.AreaIDs))
		for _, raw := range payload.AreaIDs {
			areaID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid area id"))
				return
			}
			areaIDs = append(areaIDs, areaID)
		}

		result, err := svc.BulkAdd(r.Context(), actor, vendorID, coverage.BulkAddInput{
			AreaIDs:   areaIDs,
			Surcharge: payload.Surcharge,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AdminCreateCoverageByPincode links (or creates) a service area from a bare
// pincode and activates the vendor on it.
func AdminCreateCoverageByPincode(svc coverage.Service, logg *logger.Logger) http.HandlerFunc {
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
		vendorID, err := vendorIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createCoverageByPincodeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CreateByPincode(r.Context(), actor, vendorID, coverage.CreateByPincodeInput{
			Pincode:   payload.Pincode,
			AreaName:  payload.AreaName,
			Surcharge: payload.Surcharge,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// AdminBulkActivateCoverage activates every pending row for the vendor.
func AdminBulkActivateCoverage(svc coverage.Service, logg *logger.Logger) http.HandlerFunc {
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
		vendorID, err := vendorIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.BulkActivate(r.Context(), actor, vendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AdminReplaceVendorPincodes is the legacy whole-set pincode write.
func AdminReplaceVendorPincodes(svc coverage.Service, logg *logger.Logger) http.HandlerFunc {
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
		vendorID, err := vendorIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload replacePincodesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := coverage.ReplacePincodesInput{}
		for _, entry := range payload.Pincodes {
			input.Pincodes = append(input.Pincodes, coverage.PincodeCharge{
				Pincode: entry.Pincode,
				Charge:  entry.Charge,
			})
		}
		if payload.Radius != nil {
			input.Radius = &coverage.RadiusSpec{
				Lat:      payload.Radius.Lat,
				Lng:      payload.Radius.Lng,
				RadiusKm: payload.Radius.RadiusKm,
				Charge:   payload.Radius.Charge,
			}
		}

		result, err := svc.ReplacePincodes(r.Context(), actor, vendorID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func vendorIDFromPath(r *http.Request) (uuid.UUID, error) {
	vendorID, err := uuid.Parse(chi.URLParam(r, "vendorId"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vendor id")
	}
	return vendorID, nil
}
