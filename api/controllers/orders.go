package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopdeskapp/shopdesk-backend/api/responses"
	"github.com/shopdeskapp/shopdesk-backend/api/validators"
	"github.com/shopdeskapp/shopdesk-backend/internal/invoices"
	"github.com/shopdeskapp/shopdesk-backend/internal/orders"
	"github.com/shopdeskapp/shopdesk-backend/pkg/enums"
	pkgerrors "github.com/shopdeskapp/shopdesk-backend/pkg/errors"
	"github.com/shopdeskapp/shopdesk-backend/pkg/logger"
	"github.com/shopdeskapp/shopdesk-backend/pkg/types"
)

type orderItemRequest struct {
	ProductID uuid.UUID  `json:"product_id" validate:"required"`
	VariantID *uuid.UUID `json:"variant_id"`
	Quantity  int        `json:"quantity" validate:"required"`
}

type createOrderRequest struct {
	CustomerID      uuid.UUID          `json:"customer_id" validate:"required"`
	Items           []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	TaxRate         decimal.Decimal    `json:"tax_rate"`
	Shipping        decimal.Decimal    `json:"shipping"`
	Discount        decimal.Decimal    `json:"discount"`
	DeliveryAddress *types.Address     `json:"delivery_address"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (o createOrderRequest) toInput() orders.CreateOrderInput {
	input := orders.CreateOrderInput{
		CustomerID:      o.CustomerID,
		TaxRate:         o.TaxRate,
		Shipping:        o.Shipping,
		Discount:        o.Discount,
		DeliveryAddress: o.DeliveryAddress,
	}
	for _, item := range o.Items {
		input.Items = append(input.Items, orders.OrderItemInput{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		})
	}
	return input
}

// OrderCreate places an order, snapshotting prices and the delivery
// address at creation time.
func OrderCreate(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// OrderUpdateStatus sets the order status. Any known status is accepted;
// there is no transition guard.
func OrderUpdateStatus(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID("orderId", chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.UpdateStatus(r.Context(), id, enums.OrderStatus(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// OrderDetail returns one order with customer and line items preloaded.
func OrderDetail(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID("orderId", chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// OrderList returns a page of orders.
func OrderList(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePageQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID, err := validators.ParseQueryUUID(r, "customer_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := orders.ListFilters{CustomerID: customerID}
		if raw := validators.ParseQueryString(r, "status"); raw != "" {
			status := enums.OrderStatus(raw)
			if !status.IsValid() {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "unknown order status").WithDetails(map[string]any{"field": "status"}))
				return
			}
			filters.Status = &status
		}

		result, err := svc.List(r.Context(), page, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// OrderInvoice returns the invoice for an order. The default response is
// the structured document; format=html yields the printable rendering.
func OrderInvoice(svc *invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID("orderId", chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if validators.ParseQueryString(r, "format") == "html" {
			rendered, err := svc.RenderOrder(r.Context(), id)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(rendered)
			return
		}

		document, err := svc.ForOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, document)
	}
}
