package controllers

import (
	"net/http"

	"github.com/me0hharryy/dermaGo/api/middleware"
	"github.com/me0hharryy/dermaGo/api/responses"
	"github.com/me0hharryy/dermaGo/api/validators"
	"github.com/me0hharryy/dermaGo/internal/quiz"
	"github.com/me0hharryy/dermaGo/internal/routines"
	pkgerrors "github.com/me0hharryy/dermaGo/pkg/errors"
	"github.com/me0hharryy/dermaGo/pkg/logger"
)

// RoutinesGenerate turns quiz answers into a saved AM/PM routine.
func RoutinesGenerate(svc routines.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var answers quiz.Answers
		if err := validators.DecodeJSONBody(r, &answers); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		generated, err := svc.Generate(r.Context(), routines.Owner{UserID: claims.UserID, Email: claims.Email}, answers)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, generated)
	}
}

// RoutinesList returns the caller's saved routines, newest first.
func RoutinesList(svc routines.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), userID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}
