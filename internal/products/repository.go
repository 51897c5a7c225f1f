package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopdeskapp/shopdesk-backend/pkg/db/models"
	"github.com/shopdeskapp/shopdesk-backend/pkg/pagination"
)

// Repository persists products and their variants.
type Repository struct {
	db *gorm.DB
}

// NewRepository returns a product repository bound to the provided database.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByID loads one product with its category and variants preloaded.
// Variants come back in creation order so "first named variant" is stable.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC").Order("id ASC")
		}).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts a product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit("Variants", "Category").Create(product).Error
}

// Update saves the mutated product row.
func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit("Variants", "Category").Save(product).Error
}

// Delete removes a product. Variants go with it via the FK cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// FindVariantByID loads one variant row.
func (r *Repository) FindVariantByID(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := r.db.WithContext(ctx).First(&variant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

// FindVariantByPair looks up the variant matching the exact (size, color)
// pair for a product. Unset and empty values are the same pair key.
func (r *Repository) FindVariantByPair(ctx context.Context, productID uuid.UUID, size, color string) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Where("COALESCE(size, '') = ?", size).
		Where("COALESCE(color, '') = ?", color).
		Order("created_at ASC").
		First(&variant).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

// CreateVariant inserts a variant row.
func (r *Repository) CreateVariant(ctx context.Context, variant *models.ProductVariant) error {
	return r.db.WithContext(ctx).Omit("Product").Create(variant).Error
}

// IncrementVariantQuantity adds amount to a variant's quantity in one atomic
// update. The guard keeps the result inside int32; zero rows affected means
// the increment would overflow (or the variant vanished).
func (r *Repository) IncrementVariantQuantity(ctx context.Context, variantID uuid.UUID, amount int, ceiling int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.ProductVariant{}).
		Where("id = ? AND quantity <= ?", variantID, ceiling-amount).
		Update("quantity", gorm.Expr("quantity + ?", amount))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SetVariantQuantity overwrites a variant's quantity.
func (r *Repository) SetVariantQuantity(ctx context.Context, variantID uuid.UUID, quantity int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.ProductVariant{}).
		Where("id = ?", variantID).
		Update("quantity", quantity)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListFilters narrows the product listing.
type ListFilters struct {
	// Query matches name or SKU, case-insensitively.
	Query      string
	CategoryID *uuid.UUID
}

// ListResult is one page of products.
type ListResult struct {
	Products   []models.Product `json:"products"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// List returns a page of products, newest first.
func (r *Repository) List(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResult, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).Model(&models.Product{}).
		Preload("Category").
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC").Order("id ASC")
		})
	if query := strings.TrimSpace(filters.Query); query != "" {
		needle := "%" + strings.ToLower(query) + "%"
		qb = qb.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", needle, needle)
	}
	if filters.CategoryID != nil {
		qb = qb.Where("category_id = ?", *filters.CategoryID)
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Product
	if err := qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return &ListResult{Products: rows, NextCursor: nextCursor}, nil
}

// ListLowStockVariants returns variants at or below their alert threshold,
// with the owning product preloaded. Used by the low-stock report job.
func (r *Repository) ListLowStockVariants(ctx context.Context) ([]models.ProductVariant, error) {
	var rows []models.ProductVariant
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("quantity <= minimum_quantity").
		Order("product_id").Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}
