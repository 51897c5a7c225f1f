package products

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopdeskapp/shopdesk-backend/pkg/db/models"
	pkgerrors "github.com/shopdeskapp/shopdesk-backend/pkg/errors"
)

const maxQuantity = math.MaxInt32

// ensureInt32 rejects quantities beyond the range the quantity columns hold.
func ensureInt32(quantity int) error {
	if quantity > maxQuantity {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity exceeds the supported quantity range")
	}
	return nil
}

// ReceiveStockInput describes one stock arrival against a product.
type ReceiveStockInput struct {
	Size   *string
	Color  *string
	Amount int
}

// ReceiveStock books newly arrived units against the variant matching the
// exact (size, color) pair, creating the variant when no match exists. The
// increment happens in a single atomic update so two concurrent arrivals
// both land.
func (s *Service) ReceiveStock(ctx context.Context, productID uuid.UUID, input ReceiveStockInput) (*models.ProductVariant, error) {
	if input.Amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "received amount must be a positive integer")
	}
	if input.Amount > maxQuantity {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "received amount exceeds the supported quantity range")
	}

	if _, err := s.loadProduct(ctx, productID); err != nil {
		return nil, err
	}

	size := normalizePairKey(input.Size)
	color := normalizePairKey(input.Color)

	existing, err := s.repo.FindVariantByPair(ctx, productID, size, color)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup variant")
	}

	if existing != nil {
		updated, err := s.repo.IncrementVariantQuantity(ctx, existing.ID, input.Amount, maxQuantity)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: increment quantity")
		}
		if !updated {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "resulting quantity exceeds the supported quantity range")
		}
		return s.loadVariant(ctx, existing.ID)
	}

	variant := &models.ProductVariant{
		ID:        uuid.New(),
		ProductID: productID,
		Size:      emptyToNil(size),
		Color:     emptyToNil(color),
		Quantity:  input.Amount,
	}
	if err := s.repo.CreateVariant(ctx, variant); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert variant")
	}
	return variant, nil
}

// OverrideQuantity sets a variant's quantity directly to a non-negative
// integer.
func (s *Service) OverrideQuantity(ctx context.Context, variantID uuid.UUID, quantity int) (*models.ProductVariant, error) {
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be non-negative")
	}
	if quantity > maxQuantity {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity exceeds the supported quantity range")
	}

	updated, err := s.repo.SetVariantQuantity(ctx, variantID, quantity)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: set quantity")
	}
	if !updated {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
	}
	return s.loadVariant(ctx, variantID)
}

func (s *Service) loadVariant(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	variant, err := s.repo.FindVariantByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
	}
	return variant, nil
}

func normalizePairKey(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}

func emptyToNil(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
