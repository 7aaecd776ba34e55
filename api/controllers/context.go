package controllers

import (
	"net/http"

	"github.com/chitts/storefront-backend/api/middleware"
	pkgerrors "github.com/chitts/storefront-backend/pkg/errors"
	"github.com/google/uuid"
)

func userIDFromRequest(r *http.Request) (uuid.UUID, error) {
	if r == nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeNoUserSession, "user session required")
	}
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeNoUserSession, "user session required")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return userID, nil
}
