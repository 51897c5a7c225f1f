package controllers

import (
	"net/http"

	"github.com/shopdeskapp/shopdesk-backend/api/responses"
	"github.com/shopdeskapp/shopdesk-backend/api/validators"
	"github.com/shopdeskapp/shopdesk-backend/internal/audit"
	"github.com/shopdeskapp/shopdesk-backend/pkg/enums"
	pkgerrors "github.com/shopdeskapp/shopdesk-backend/pkg/errors"
	"github.com/shopdeskapp/shopdesk-backend/pkg/logger"
)

// AuditList returns a page of admin actions, newest first.
func AuditList(svc *audit.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePageQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := audit.ListFilters{}
		if raw := validators.ParseQueryString(r, "entity_type"); raw != "" {
			entityType, parseErr := enums.ParseAdminEntityType(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "unknown entity type").WithDetails(map[string]any{"field": "entity_type"}))
				return
			}
			filters.EntityType = &entityType
		}

		entityID, err := validators.ParseQueryUUID(r, "entity_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.EntityID = entityID

		result, err := svc.List(r.Context(), page, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
