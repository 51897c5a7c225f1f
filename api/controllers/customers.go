package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shopdeskapp/shopdesk-backend/api/responses"
	"github.com/shopdeskapp/shopdesk-backend/api/validators"
	"github.com/shopdeskapp/shopdesk-backend/internal/customers"
	"github.com/shopdeskapp/shopdesk-backend/pkg/logger"
	"github.com/shopdeskapp/shopdesk-backend/pkg/types"
)

type customerRequest struct {
	Name        string        `json:"name" validate:"required,min=1,max=255"`
	Email       string        `json:"email" validate:"required,email"`
	Phone       *string       `json:"phone" validate:"omitempty,max=50"`
	Address     types.Address `json:"address"`
	CompanyName *string       `json:"company_name" validate:"omitempty,max=255"`
	TaxID       *string       `json:"tax_id" validate:"omitempty,max=100"`
	DateOfBirth *time.Time    `json:"date_of_birth"`
	Gender      *string       `json:"gender" validate:"omitempty,max=50"`
	Notes       *string       `json:"notes"`
}

func (c customerRequest) toInput() customers.CustomerInput {
	return customers.CustomerInput{
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		Address:     c.Address,
		CompanyName: c.CompanyName,
		TaxID:       c.TaxID,
		DateOfBirth: c.DateOfBirth,
		Gender:      c.Gender,
		Notes:       c.Notes,
	}
}

// CustomerCreate inserts a new customer.
func CustomerCreate(svc *customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := adminID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload customerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.Create(r.Context(), actor, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, customer)
	}
}

// CustomerUpdate replaces the editable fields of a customer.
func CustomerUpdate(svc *customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := adminID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := validators.ParsePathUUID("customerId", chi.URLParam(r, "customerId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload customerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.Update(r.Context(), actor, id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, customer)
	}
}

// CustomerDelete removes a customer along with their orders.
func CustomerDelete(svc *customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := adminID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := validators.ParsePathUUID("customerId", chi.URLParam(r, "customerId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), actor, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// CustomerDetail returns one customer.
func CustomerDetail(svc *customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID("customerId", chi.URLParam(r, "customerId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, customer)
	}
}

// CustomerList returns a page of customers.
func CustomerList(svc *customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePageQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), page, customers.ListFilters{
			Query: validators.ParseQueryString(r, "q"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
