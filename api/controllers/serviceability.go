package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/giftbloom/giftbloom-backend/api/responses"
	"github.com/giftbloom/giftbloom-backend/api/validators"
	"github.com/giftbloom/giftbloom-backend/internal/serviceability"
	pkgerrors "github.com/giftbloom/giftbloom-backend/pkg/errors"
	"github.com/giftbloom/giftbloom-backend/pkg/logger"
)

// ServiceabilityCheck handles the public delivery check endpoint.
func ServiceabilityCheck(svc serviceability.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "serviceability service unavailable"))
			return
		}

		input := serviceability.CheckInput{
			Pincode: validators.QueryString(r, "pincode", ""),
		}

		lat, latSet, err := validators.QueryFloat(r, "lat")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lng, lngSet, err := validators.QueryFloat(r, "lng")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if latSet {
			input.Lat = &lat
		}
		if lngSet {
			input.Lng = &lng
		}

		if raw := validators.QueryString(r, "productId", ""); raw != "" {
			productID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
				return
			}
			input.ProductID = &productID
		}

		verdict, err := svc.Check(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, verdict)
	}
}
