package controllers

import (
	"net/http"

	"github.com/giftbloom/giftbloom-backend/api/responses"
	"github.com/giftbloom/giftbloom-backend/api/validators"
	"github.com/giftbloom/giftbloom-backend/internal/locations"
	pkgerrors "github.com/giftbloom/giftbloom-backend/pkg/errors"
	"github.com/giftbloom/giftbloom-backend/pkg/logger"
)

// LocationsSearch handles the public typeahead endpoint.
func LocationsSearch(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "location service unavailable"))
			return
		}

		query := validators.QueryString(r, "q", "")
		limit, err := validators.QueryInt(r, "limit", 0)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Search(r.Context(), query, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
