package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Stock is never tracked on the product itself:
// every product owns at least one variant row, created implicitly when the
// operator defines no explicit size/color variants.
type Product struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string           `gorm:"column:name;not null"`
	Description  *string          `gorm:"column:description"`
	SKU          string           `gorm:"column:sku;not null;uniqueIndex"`
	Price        decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	CategoryID   *uuid.UUID       `gorm:"column:category_id;type:uuid"`
	ImageURL     *string          `gorm:"column:image_url"`
	InitialStock int              `gorm:"column:initial_stock;not null;default:0"`
	MinimumStock int              `gorm:"column:minimum_stock;not null;default:5"`
	Category     *Category        `gorm:"foreignKey:CategoryID"`
	Variants     []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
