package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductVariant is the authoritative stock record for one stocked
// configuration of a product. At most one variant per product carries
// is_default (enforced by a partial unique index).
type ProductVariant struct {
	ID              uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID       uuid.UUID        `gorm:"column:product_id;type:uuid;not null"`
	Size            *string          `gorm:"column:size"`
	Color           *string          `gorm:"column:color"`
	VariantName     *string          `gorm:"column:variant_name"`
	Price           *decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Quantity        int              `gorm:"column:quantity;not null;default:0"`
	MinimumQuantity int              `gorm:"column:minimum_quantity;not null;default:5"`
	IsDefault       bool             `gorm:"column:is_default;not null;default:false"`
	Product         *Product         `gorm:"foreignKey:ProductID"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// DisplayName renders the operator-facing label for the variant, joining
// variant name, size, and color. The implicit bookkeeping variant has none.
func (v ProductVariant) DisplayName() string {
	parts := []string{}
	if v.VariantName != nil && strings.TrimSpace(*v.VariantName) != "" {
		parts = append(parts, strings.TrimSpace(*v.VariantName))
	}
	if v.Size != nil && strings.TrimSpace(*v.Size) != "" {
		parts = append(parts, strings.TrimSpace(*v.Size))
	}
	if v.Color != nil && strings.TrimSpace(*v.Color) != "" {
		parts = append(parts, strings.TrimSpace(*v.Color))
	}
	return strings.Join(parts, " / ")
}

// EffectivePrice returns the variant price override, falling back to the
// owning product's base price.
func (v ProductVariant) EffectivePrice(productPrice decimal.Decimal) decimal.Decimal {
	if v.Price != nil {
		return *v.Price
	}
	return productPrice
}
