package products

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopdeskapp/shopdesk-backend/pkg/db/models"
	pkgerrors "github.com/shopdeskapp/shopdesk-backend/pkg/errors"
)

func strPtr(v string) *string {
	return &v
}

func decPtr(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func TestResolveLine_basePriceWhenNoNamedStock(t *testing.T) {
	product := &models.Product{
		ID:    uuid.New(),
		Price: decimal.NewFromFloat(19.99),
		Variants: []models.ProductVariant{
			{ID: uuid.New(), Quantity: 12, IsDefault: true},
		},
	}

	resolution, err := ResolveLine(product, nil)
	require.NoError(t, err)
	assert.True(t, resolution.UnitPrice.Equal(decimal.NewFromFloat(19.99)))
	assert.Nil(t, resolution.VariantID)
}

func TestResolveLine_requiresChoiceWhenNamedStockExists(t *testing.T) {
	product := &models.Product{
		ID:    uuid.New(),
		Price: decimal.NewFromFloat(19.99),
		Variants: []models.ProductVariant{
			{ID: uuid.New(), Size: strPtr("M"), Quantity: 3},
		},
	}

	_, err := ResolveLine(product, nil)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestResolveLine_chosenVariantPriceGoverns(t *testing.T) {
	chosen := models.ProductVariant{
		ID:       uuid.New(),
		Size:     strPtr("L"),
		Price:    decPtr(24.50),
		Quantity: 2,
	}
	product := &models.Product{
		ID:       uuid.New(),
		Price:    decimal.NewFromFloat(19.99),
		Variants: []models.ProductVariant{chosen},
	}

	resolution, err := ResolveLine(product, &chosen.ID)
	require.NoError(t, err)
	assert.True(t, resolution.UnitPrice.Equal(decimal.NewFromFloat(24.50)))
	require.NotNil(t, resolution.VariantID)
	assert.Equal(t, chosen.ID, *resolution.VariantID)
}

func TestResolveLine_variantWithoutOverrideFallsBackToBasePrice(t *testing.T) {
	chosen := models.ProductVariant{
		ID:       uuid.New(),
		Size:     strPtr("S"),
		Quantity: 1,
	}
	product := &models.Product{
		ID:       uuid.New(),
		Price:    decimal.NewFromFloat(15),
		Variants: []models.ProductVariant{chosen},
	}

	resolution, err := ResolveLine(product, &chosen.ID)
	require.NoError(t, err)
	assert.True(t, resolution.UnitPrice.Equal(decimal.NewFromFloat(15)))
}

func TestResolveLine_rejectsForeignVariant(t *testing.T) {
	product := &models.Product{
		ID:    uuid.New(),
		Price: decimal.NewFromFloat(15),
	}
	foreign := uuid.New()

	_, err := ResolveLine(product, &foreign)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestSuggestVariant_prefersInStockDefault(t *testing.T) {
	defaultVariant := models.ProductVariant{ID: uuid.New(), Size: strPtr("M"), Quantity: 4, IsDefault: true}
	product := &models.Product{
		Variants: []models.ProductVariant{
			{ID: uuid.New(), Size: strPtr("S"), Quantity: 9},
			defaultVariant,
		},
	}

	suggestion := SuggestVariant(product)
	require.NotNil(t, suggestion)
	assert.Equal(t, defaultVariant.ID, suggestion.ID)
}

func TestSuggestVariant_fallsBackToFirstNamedInStock(t *testing.T) {
	named := models.ProductVariant{ID: uuid.New(), Size: strPtr("S"), Quantity: 2}
	product := &models.Product{
		Variants: []models.ProductVariant{
			{ID: uuid.New(), Size: strPtr("M"), Quantity: 0, IsDefault: true},
			named,
		},
	}

	suggestion := SuggestVariant(product)
	require.NotNil(t, suggestion)
	assert.Equal(t, named.ID, suggestion.ID)
}

func TestSuggestVariant_noneWhenNothingInStock(t *testing.T) {
	product := &models.Product{
		Variants: []models.ProductVariant{
			{ID: uuid.New(), Size: strPtr("M"), Quantity: 0, IsDefault: true},
			{ID: uuid.New(), Size: strPtr("L"), Quantity: 0},
		},
	}

	assert.Nil(t, SuggestVariant(product))
}
