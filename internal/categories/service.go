package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopdeskapp/shopdesk-backend/internal/audit"
	"github.com/shopdeskapp/shopdesk-backend/pkg/db/models"
	"github.com/shopdeskapp/shopdesk-backend/pkg/enums"
	pkgerrors "github.com/shopdeskapp/shopdesk-backend/pkg/errors"
	"github.com/shopdeskapp/shopdesk-backend/pkg/pagination"
)

// CreateCategoryInput holds the validated payload to create a category.
type CreateCategoryInput struct {
	Name     string
	ParentID *uuid.UUID
	IconURL  *string
}

// UpdateCategoryInput carries the full editable state of a category. The
// back-office edit form always submits every field.
type UpdateCategoryInput struct {
	Name     string
	ParentID *uuid.UUID
	IconURL  *string
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes category tree management operations.
type Service struct {
	repo     *Repository
	tx       txRunner
	recorder audit.Recorder
}

// NewService constructs a category service instance.
func NewService(repo *Repository, tx txRunner, recorder audit.Recorder) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &Service{repo: repo, tx: tx, recorder: recorder}, nil
}

// Create inserts a category and records the admin action in the same
// transaction.
func (s *Service) Create(ctx context.Context, adminID uuid.UUID, input CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	if input.ParentID != nil {
		if _, err := s.loadCategory(ctx, *input.ParentID); err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "parent category not found")
			}
			return nil, err
		}
	}

	category := &models.Category{
		ID:       uuid.New(),
		Name:     name,
		ParentID: input.ParentID,
		IconURL:  input.IconURL,
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, category); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert category")
		}
		return s.recorder.Record(ctx, tx, audit.Entry{
			AdminID:     adminID,
			ActionType:  enums.AdminActionInsert,
			EntityType:  enums.AdminEntityCategory,
			EntityID:    category.ID,
			Description: fmt.Sprintf("created category %q", category.Name),
		})
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}

	return s.repo.FindByID(ctx, category.ID)
}

// Update replaces the editable fields of a category and records the admin
// action in the same transaction.
func (s *Service) Update(ctx context.Context, adminID, categoryID uuid.UUID, input UpdateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	category, err := s.loadCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if input.ParentID != nil {
		if err := s.ensureValidParent(ctx, categoryID, *input.ParentID); err != nil {
			return nil, err
		}
	}

	category.Name = name
	category.ParentID = input.ParentID
	category.IconURL = input.IconURL
	category.Parent = nil

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(ctx, category); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update category")
		}
		return s.recorder.Record(ctx, tx, audit.Entry{
			AdminID:     adminID,
			ActionType:  enums.AdminActionUpdate,
			EntityType:  enums.AdminEntityCategory,
			EntityID:    category.ID,
			Description: fmt.Sprintf("updated category %q", category.Name),
		})
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}

	return s.repo.FindByID(ctx, category.ID)
}

// Delete removes a category, detaching children and product references, and
// records the admin action in the same transaction.
func (s *Service) Delete(ctx context.Context, adminID, categoryID uuid.UUID) error {
	category, err := s.loadCategory(ctx, categoryID)
	if err != nil {
		return err
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Delete(ctx, categoryID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete category")
		}
		return s.recorder.Record(ctx, tx, audit.Entry{
			AdminID:     adminID,
			ActionType:  enums.AdminActionDelete,
			EntityType:  enums.AdminEntityCategory,
			EntityID:    categoryID,
			Description: fmt.Sprintf("deleted category %q", category.Name),
		})
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}

// Get loads one category.
func (s *Service) Get(ctx context.Context, categoryID uuid.UUID) (*models.Category, error) {
	return s.loadCategory(ctx, categoryID)
}

// List returns a page of categories.
func (s *Service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResult, error) {
	result, err := s.repo.List(ctx, params, filters)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return result, nil
}

func (s *Service) loadCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return category, nil
}

// ensureValidParent rejects self-references and cycles by walking the
// candidate parent's ancestor chain.
func (s *Service) ensureValidParent(ctx context.Context, categoryID, parentID uuid.UUID) error {
	if parentID == categoryID {
		return pkgerrors.New(pkgerrors.CodeValidation, "category cannot be its own parent")
	}

	current := parentID
	for {
		node, err := s.repo.FindByID(ctx, current)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "parent category not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parent category")
		}
		if node.ParentID == nil {
			return nil
		}
		if *node.ParentID == categoryID {
			return pkgerrors.New(pkgerrors.CodeValidation, "category parent would create a cycle")
		}
		current = *node.ParentID
	}
}
