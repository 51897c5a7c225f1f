package audit

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopdeskapp/shopdesk-backend/pkg/db/models"
	"github.com/shopdeskapp/shopdesk-backend/pkg/enums"
	apperrors "github.com/shopdeskapp/shopdesk-backend/pkg/errors"
	"github.com/shopdeskapp/shopdesk-backend/pkg/pagination"
)

// Recorder writes admin action entries, typically inside the transaction of
// the write it describes.
type Recorder interface {
	Record(ctx context.Context, tx *gorm.DB, entry Entry) error
}

// Entry describes a single admin action to record.
type Entry struct {
	AdminID     uuid.UUID
	ActionType  enums.AdminActionType
	EntityType  enums.AdminEntityType
	EntityID    uuid.UUID
	Description string
}

// Service records and lists admin actions.
type Service struct {
	repo Repository
}

// NewService wires the audit service.
func NewService(repo Repository) (*Service, error) {
	if repo == nil {
		return nil, apperrors.New(apperrors.CodeInternal, "audit: repository is required")
	}
	return &Service{repo: repo}, nil
}

// Record appends an audit entry. When tx is non-nil the entry is written in
// that transaction so it commits or rolls back with the primary write.
func (s *Service) Record(ctx context.Context, tx *gorm.DB, entry Entry) error {
	if entry.AdminID == uuid.Nil {
		return apperrors.New(apperrors.CodeValidation, "admin id is required")
	}
	if !entry.ActionType.IsValid() {
		return apperrors.New(apperrors.CodeValidation, "invalid action type")
	}
	if !entry.EntityType.IsValid() {
		return apperrors.New(apperrors.CodeValidation, "invalid entity type")
	}
	if entry.EntityID == uuid.Nil {
		return apperrors.New(apperrors.CodeValidation, "entity id is required")
	}

	repo := s.repo
	if tx != nil {
		repo = s.repo.WithTx(tx)
	}

	action := &models.AdminAction{
		AdminID:     entry.AdminID,
		ActionType:  entry.ActionType,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		Description: entry.Description,
	}
	if err := repo.Create(ctx, action); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "failed to record admin action")
	}
	return nil
}

// List returns a page of audit records, newest first.
func (s *Service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResult, error) {
	result, err := s.repo.List(ctx, params, filters)
	if err != nil {
		if appErr := apperrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to list admin actions")
	}
	return result, nil
}
