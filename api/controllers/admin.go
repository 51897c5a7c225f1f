package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/shopdeskapp/shopdesk-backend/api/middleware"
	pkgerrors "github.com/shopdeskapp/shopdesk-backend/pkg/errors"
)

// adminID extracts the authenticated admin identifier seeded by the auth
// middleware.
func adminID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.AdminIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid admin id")
	}
	return id, nil
}
