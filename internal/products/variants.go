package products

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopdeskapp/shopdesk-backend/pkg/db/models"
	pkgerrors "github.com/shopdeskapp/shopdesk-backend/pkg/errors"
)

// OrderLineResolution is the outcome of resolving one order line against a
// product's variants: the unit price that governs the line and, when a
// specific variant governs, its identity. Advisory at order time; stock is
// never decremented or enforced by order placement.
type OrderLineResolution struct {
	UnitPrice decimal.Decimal
	VariantID *uuid.UUID
}

// ResolveOrderLine loads the product and applies the variant resolution
// rule: when named in-stock variants exist the caller must choose one, and
// that variant's price governs; otherwise the product's base price governs
// with no variant stock target.
func (s *Service) ResolveOrderLine(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (*OrderLineResolution, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return ResolveLine(product, variantID)
}

// ResolveLine applies the variant resolution rule to an already loaded
// product.
func ResolveLine(product *models.Product, variantID *uuid.UUID) (*OrderLineResolution, error) {
	if variantID != nil {
		variant := findVariant(product.Variants, *variantID)
		if variant == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant does not belong to the product")
		}
		id := variant.ID
		return &OrderLineResolution{
			UnitPrice: variant.EffectivePrice(product.Price),
			VariantID: &id,
		}, nil
	}

	if hasNamedInStockVariant(product.Variants) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a variant must be selected for this product")
	}

	return &OrderLineResolution{UnitPrice: product.Price}, nil
}

// SuggestVariant picks the variant a selection UI should preselect: the
// default-flagged variant if it is in stock, else the first named variant
// with positive quantity, else none.
func SuggestVariant(product *models.Product) *models.ProductVariant {
	for i := range product.Variants {
		variant := &product.Variants[i]
		if variant.IsDefault && variant.Quantity > 0 {
			return variant
		}
	}
	for i := range product.Variants {
		variant := &product.Variants[i]
		if variant.DisplayName() != "" && variant.Quantity > 0 {
			return variant
		}
	}
	return nil
}

func findVariant(variants []models.ProductVariant, id uuid.UUID) *models.ProductVariant {
	for i := range variants {
		if variants[i].ID == id {
			return &variants[i]
		}
	}
	return nil
}

func hasNamedInStockVariant(variants []models.ProductVariant) bool {
	for i := range variants {
		if variants[i].DisplayName() != "" && variants[i].Quantity > 0 {
			return true
		}
	}
	return false
}
