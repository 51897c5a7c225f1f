package audit

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopdeskapp/shopdesk-backend/pkg/db/models"
	"github.com/shopdeskapp/shopdesk-backend/pkg/enums"
	"github.com/shopdeskapp/shopdesk-backend/pkg/pagination"
)

// Repository manages persistence for admin action records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, action *models.AdminAction) error
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResult, error)
}

// ListFilters narrows the audit listing.
type ListFilters struct {
	EntityType *enums.AdminEntityType
	EntityID   *uuid.UUID
}

// ListResult is one page of audit records.
type ListResult struct {
	Actions    []models.AdminAction `json:"actions"`
	NextCursor string               `json:"next_cursor,omitempty"`
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an audit repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, action *models.AdminAction) error {
	return r.db.WithContext(ctx).Create(action).Error
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResult, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).Model(&models.AdminAction{})
	if filters.EntityType != nil {
		qb = qb.Where("entity_type = ?", *filters.EntityType)
	}
	if filters.EntityID != nil {
		qb = qb.Where("entity_id = ?", *filters.EntityID)
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.AdminAction
	if err := qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return &ListResult{Actions: rows, NextCursor: nextCursor}, nil
}
