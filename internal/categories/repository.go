package categories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopdeskapp/shopdesk-backend/pkg/db/models"
	"github.com/shopdeskapp/shopdesk-backend/pkg/pagination"
)

// Repository persists category tree nodes.
type Repository struct {
	db *gorm.DB
}

// NewRepository returns a category repository bound to the provided database.
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

// FindByID loads one category with its parent preloaded.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Preload("Parent").First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Create inserts a category row.
func (r *Repository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// Update saves the mutated category row.
func (r *Repository) Update(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// Delete removes a category. Children are detached and product references
// cleared first so the row can go without violating its self-reference.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Model(&models.Category{}).
		Where("parent_id = ?", id).
		Update("parent_id", nil).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("category_id = ?", id).
		Update("category_id", nil).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id).Error
}

// ListFilters narrows the category listing.
type ListFilters struct {
	Query    string
	ParentID *uuid.UUID
}

// ListResult is one page of categories.
type ListResult struct {
	Categories []models.Category `json:"categories"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

// List returns a page of categories, newest first.
func (r *Repository) List(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResult, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).Model(&models.Category{}).Preload("Parent")
	if query := strings.TrimSpace(filters.Query); query != "" {
		qb = qb.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(query)+"%")
	}
	if filters.ParentID != nil {
		qb = qb.Where("parent_id = ?", *filters.ParentID)
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Category
	if err := qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return &ListResult{Categories: rows, NextCursor: nextCursor}, nil
}

// CountProducts reports how many products reference the category.
func (r *Repository) CountProducts(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("category_id = ?", id).
		Count(&count).Error
	return count, err
}
