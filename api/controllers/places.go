package controllers

import (
	"net/http"

	"github.com/me0hharryy/dermaGo/api/responses"
	"github.com/me0hharryy/dermaGo/api/validators"
	"github.com/me0hharryy/dermaGo/internal/places"
	"github.com/me0hharryy/dermaGo/pkg/logger"
)

// PlacesNearby finds sites of a category around the caller. Missing or
// unusable coordinates fall back to the default center without an error.
func PlacesNearby(svc *places.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := places.Query{
			Category: validators.SanitizeString(r.URL.Query().Get("category"), 32),
			Lat:      validators.ParseOptionalFloat(r, "lat"),
			Lng:      validators.ParseOptionalFloat(r, "lng"),
		}

		result, err := svc.Nearby(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
