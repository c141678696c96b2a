package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/me0hharryy/dermaGo/api/middleware"
	pkgerrors "github.com/me0hharryy/dermaGo/pkg/errors"
)

func requireUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user context")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}
