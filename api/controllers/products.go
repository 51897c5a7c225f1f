package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopdeskapp/shopdesk-backend/api/responses"
	"github.com/shopdeskapp/shopdesk-backend/api/validators"
	"github.com/shopdeskapp/shopdesk-backend/internal/products"
	"github.com/shopdeskapp/shopdesk-backend/pkg/logger"
)

type variantRequest struct {
	Size            *string          `json:"size" validate:"omitempty,max=100"`
	Color           *string          `json:"color" validate:"omitempty,max=100"`
	VariantName     *string          `json:"variant_name" validate:"omitempty,max=255"`
	Price           *decimal.Decimal `json:"price"`
	Quantity        int              `json:"quantity"`
	MinimumQuantity int              `json:"minimum_quantity"`
	IsDefault       bool             `json:"is_default"`
}

type createProductRequest struct {
	Name         string           `json:"name" validate:"required,min=1,max=255"`
	Description  *string          `json:"description"`
	SKU          string           `json:"sku" validate:"required,min=1,max=100"`
	Price        decimal.Decimal  `json:"price"`
	CategoryID   *uuid.UUID       `json:"category_id"`
	ImageURL     *string          `json:"image_url" validate:"omitempty,url"`
	InitialStock int              `json:"initial_stock"`
	MinimumStock int              `json:"minimum_stock"`
	Variants     []variantRequest `json:"variants" validate:"dive"`
}

type updateProductRequest struct {
	Name         string          `json:"name" validate:"required,min=1,max=255"`
	Description  *string         `json:"description"`
	SKU          string          `json:"sku" validate:"required,min=1,max=100"`
	Price        decimal.Decimal `json:"price"`
	CategoryID   *uuid.UUID      `json:"category_id"`
	ImageURL     *string         `json:"image_url" validate:"omitempty,url"`
	MinimumStock int             `json:"minimum_stock"`
}

type receiveStockRequest struct {
	Size   *string `json:"size" validate:"omitempty,max=100"`
	Color  *string `json:"color" validate:"omitempty,max=100"`
	Amount int     `json:"amount" validate:"required"`
}

type overrideQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (p createProductRequest) toInput() products.CreateProductInput {
	input := products.CreateProductInput{
		Name:         p.Name,
		Description:  p.Description,
		SKU:          p.SKU,
		Price:        p.Price,
		CategoryID:   p.CategoryID,
		ImageURL:     p.ImageURL,
		InitialStock: p.InitialStock,
		MinimumStock: p.MinimumStock,
	}
	for _, v := range p.Variants {
		input.Variants = append(input.Variants, products.VariantInput{
			Size:            v.Size,
			Color:           v.Color,
			VariantName:     v.VariantName,
			Price:           v.Price,
			Quantity:        v.Quantity,
			MinimumQuantity: v.MinimumQuantity,
			IsDefault:       v.IsDefault,
		})
	}
	return input
}

// ProductCreate inserts a product with its initial stock or explicit
// variants.
func ProductCreate(svc *products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := adminID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), actor, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// ProductUpdate replaces the editable fields of a product. Stock is
// managed through the dedicated stock endpoints.
func ProductUpdate(svc *products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := adminID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := validators.ParsePathUUID("productId", chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), actor, id, products.UpdateProductInput{
			Name:         payload.Name,
			Description:  payload.Description,
			SKU:          payload.SKU,
			Price:        payload.Price,
			CategoryID:   payload.CategoryID,
			ImageURL:     payload.ImageURL,
			MinimumStock: payload.MinimumStock,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ProductDelete removes a product and its variants.
func ProductDelete(svc *products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := adminID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := validators.ParsePathUUID("productId", chi.URLParam(r, "productId"))
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

// ProductDetail returns one product with its category and variants.
func ProductDetail(svc *products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID("productId", chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ProductList returns a page of products.
func ProductList(svc *products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePageQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		categoryID, err := validators.ParseQueryUUID(r, "category_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), page, products.ListFilters{
			Query:      validators.ParseQueryString(r, "q"),
			CategoryID: categoryID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ProductReceiveStock books a stock arrival against the variant matching
// the submitted size and color pair.
func ProductReceiveStock(svc *products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID("productId", chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload receiveStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		variant, err := svc.ReceiveStock(r.Context(), id, products.ReceiveStockInput{
			Size:   payload.Size,
			Color:  payload.Color,
			Amount: payload.Amount,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, variant)
	}
}

// VariantOverrideQuantity sets a variant's quantity to an exact value, for
// corrections after a physical count.
func VariantOverrideQuantity(svc *products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID("variantId", chi.URLParam(r, "variantId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload overrideQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		variant, err := svc.OverrideQuantity(r.Context(), id, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, variant)
	}
}
