package settings

import (
	"context"

	"gorm.io/gorm"

	"github.com/shopdeskapp/shopdesk-backend/pkg/db/models"
)

// Repository manages the company settings row.
type Repository interface {
	First(ctx context.Context) (*models.CompanySettings, error)
	Create(ctx context.Context, settings *models.CompanySettings) error
	Save(ctx context.Context, settings *models.CompanySettings) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a settings repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) First(ctx context.Context) (*models.CompanySettings, error) {
	var settings models.CompanySettings
	if err := r.db.WithContext(ctx).Order("updated_at ASC").First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *repository) Create(ctx context.Context, settings *models.CompanySettings) error {
	return r.db.WithContext(ctx).Create(settings).Error
}

func (r *repository) Save(ctx context.Context, settings *models.CompanySettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}
