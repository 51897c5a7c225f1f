package settings

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopdeskapp/shopdesk-backend/pkg/db/models"
	apperrors "github.com/shopdeskapp/shopdesk-backend/pkg/errors"
	"github.com/shopdeskapp/shopdesk-backend/pkg/types"
)

const defaultCompanyName = "My Company"

// UpdateInput carries the editable company profile fields.
type UpdateInput struct {
	Name    string        `json:"name" validate:"required,min=1,max=255"`
	Address types.Address `json:"address"`
	Phone   *string       `json:"phone" validate:"omitempty,max=50"`
	Email   *string       `json:"email" validate:"omitempty,email"`
	Website *string       `json:"website" validate:"omitempty,url"`
	TaxID   *string       `json:"tax_id" validate:"omitempty,max=100"`
	LogoURL *string       `json:"logo_url" validate:"omitempty,url"`
}

// Service reads and updates the company profile used on invoice headers.
type Service struct {
	repo Repository
}

// NewService wires the settings service.
func NewService(repo Repository) (*Service, error) {
	if repo == nil {
		return nil, apperrors.New(apperrors.CodeInternal, "settings: repository is required")
	}
	return &Service{repo: repo}, nil
}

// Get returns the company settings row, creating a default one on first use.
func (s *Service) Get(ctx context.Context) (*models.CompanySettings, error) {
	settings, err := s.repo.First(ctx)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load company settings")
	}

	created := &models.CompanySettings{ID: uuid.New(), Name: defaultCompanyName}
	if err := s.repo.Create(ctx, created); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to create company settings")
	}
	return created, nil
}

// Update mutates the single settings row and returns the stored state.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*models.CompanySettings, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "company name is required")
	}

	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	settings.Name = strings.TrimSpace(input.Name)
	settings.Address = input.Address
	settings.Phone = input.Phone
	settings.Email = input.Email
	settings.Website = input.Website
	settings.TaxID = input.TaxID
	settings.LogoURL = input.LogoURL

	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to update company settings")
	}
	return settings, nil
}
