package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopdeskapp/shopdesk-backend/internal/audit"
	"github.com/shopdeskapp/shopdesk-backend/pkg/db"
	"github.com/shopdeskapp/shopdesk-backend/pkg/db/models"
	"github.com/shopdeskapp/shopdesk-backend/pkg/enums"
	pkgerrors "github.com/shopdeskapp/shopdesk-backend/pkg/errors"
	"github.com/shopdeskapp/shopdesk-backend/pkg/pagination"
)

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name         string
	Description  *string
	SKU          string
	Price        decimal.Decimal
	CategoryID   *uuid.UUID
	ImageURL     *string
	InitialStock int
	MinimumStock int
	Variants     []VariantInput
}

// VariantInput defines one explicit stocked configuration.
type VariantInput struct {
	Size            *string
	Color           *string
	VariantName     *string
	Price           *decimal.Decimal
	Quantity        int
	MinimumQuantity int
	IsDefault       bool
}

// UpdateProductInput carries the full editable state of a product. Variants
// are managed through the stock operations, not through product edits.
type UpdateProductInput struct {
	Name         string
	Description  *string
	SKU          string
	Price        decimal.Decimal
	CategoryID   *uuid.UUID
	ImageURL     *string
	MinimumStock int
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type categoryLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

// Service exposes catalog and stock management operations.
type Service struct {
	repo       *Repository
	tx         txRunner
	recorder   audit.Recorder
	categories categoryLoader
}

// NewService constructs a product service instance.
func NewService(repo *Repository, tx txRunner, recorder audit.Recorder, categories categoryLoader) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category loader required")
	}
	return &Service{repo: repo, tx: tx, recorder: recorder, categories: categories}, nil
}

// Create inserts a product with its variants and records the admin action,
// all in one transaction. When no explicit variants are given, exactly one
// default bookkeeping variant is created carrying the product's initial
// stock.
func (s *Service) Create(ctx context.Context, adminID uuid.UUID, input CreateProductInput) (*models.Product, error) {
	if err := s.validateCreate(ctx, &input); err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:           uuid.New(),
		Name:         input.Name,
		Description:  input.Description,
		SKU:          input.SKU,
		Price:        input.Price,
		CategoryID:   input.CategoryID,
		ImageURL:     input.ImageURL,
		InitialStock: input.InitialStock,
		MinimumStock: input.MinimumStock,
	}

	variants := buildVariants(product, input)

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if err := txRepo.Create(ctx, product); err != nil {
			if db.IsUniqueViolation(err, "sku") {
				return pkgerrors.New(pkgerrors.CodeConflict, "a product with this SKU already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
		}
		for i := range variants {
			if err := txRepo.CreateVariant(ctx, &variants[i]); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert variant")
			}
		}
		return s.recorder.Record(ctx, tx, audit.Entry{
			AdminID:     adminID,
			ActionType:  enums.AdminActionInsert,
			EntityType:  enums.AdminEntityProduct,
			EntityID:    product.ID,
			Description: fmt.Sprintf("created product %q (sku %s)", product.Name, product.SKU),
		})
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	return s.repo.FindByID(ctx, product.ID)
}

// Update replaces the editable fields of a product and records the admin
// action in the same transaction.
func (s *Service) Update(ctx context.Context, adminID, productID uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.SKU = strings.TrimSpace(input.SKU)
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.SKU == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product sku is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product price must be non-negative")
	}
	if input.MinimumStock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum_stock must be non-negative")
	}
	if input.CategoryID != nil {
		if err := s.ensureCategoryExists(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.SKU = input.SKU
	product.Price = input.Price
	product.CategoryID = input.CategoryID
	product.ImageURL = input.ImageURL
	product.MinimumStock = input.MinimumStock
	product.Category = nil
	product.Variants = nil

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(ctx, product); err != nil {
			if db.IsUniqueViolation(err, "sku") {
				return pkgerrors.New(pkgerrors.CodeConflict, "a product with this SKU already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
		}
		return s.recorder.Record(ctx, tx, audit.Entry{
			AdminID:     adminID,
			ActionType:  enums.AdminActionUpdate,
			EntityType:  enums.AdminEntityProduct,
			EntityID:    product.ID,
			Description: fmt.Sprintf("updated product %q (sku %s)", product.Name, product.SKU),
		})
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	return s.repo.FindByID(ctx, product.ID)
}

// Delete removes a product and records the admin action in the same
// transaction. Variants go with the product.
func (s *Service) Delete(ctx context.Context, adminID, productID uuid.UUID) error {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return err
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Delete(ctx, productID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
		}
		return s.recorder.Record(ctx, tx, audit.Entry{
			AdminID:     adminID,
			ActionType:  enums.AdminActionDelete,
			EntityType:  enums.AdminEntityProduct,
			EntityID:    productID,
			Description: fmt.Sprintf("deleted product %q (sku %s)", product.Name, product.SKU),
		})
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

// Get loads one product with category and variants.
func (s *Service) Get(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	return s.loadProduct(ctx, productID)
}

// List returns a page of products.
func (s *Service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResult, error) {
	result, err := s.repo.List(ctx, params, filters)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return result, nil
}

func (s *Service) loadProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *Service) ensureCategoryExists(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return nil
}

func (s *Service) validateCreate(ctx context.Context, input *CreateProductInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.SKU = strings.TrimSpace(input.SKU)

	if input.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.SKU == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product sku is required")
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "product price must be non-negative")
	}
	if input.InitialStock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "initial_stock must be non-negative")
	}
	if input.MinimumStock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "minimum_stock must be non-negative")
	}
	if input.CategoryID != nil {
		if err := s.ensureCategoryExists(ctx, *input.CategoryID); err != nil {
			return err
		}
	}

	if len(input.Variants) == 0 {
		return nil
	}

	defaults := 0
	for i := range input.Variants {
		variant := &input.Variants[i]
		if variant.Quantity < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "variant quantity must be non-negative")
		}
		if err := ensureInt32(variant.Quantity); err != nil {
			return err
		}
		if variant.MinimumQuantity < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "variant minimum_quantity must be non-negative")
		}
		if variant.Price != nil && variant.Price.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "variant price must be non-negative")
		}
		if variant.IsDefault {
			defaults++
		}
	}
	if defaults == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "one variant must be marked default")
	}
	if defaults > 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "only one variant may be marked default")
	}
	return nil
}

// buildVariants materializes the variant rows for a new product: the
// explicit set when given, otherwise the single implicit bookkeeping variant
// carrying initial_stock.
func buildVariants(product *models.Product, input CreateProductInput) []models.ProductVariant {
	if len(input.Variants) == 0 {
		return []models.ProductVariant{{
			ID:              uuid.New(),
			ProductID:       product.ID,
			Quantity:        input.InitialStock,
			MinimumQuantity: input.MinimumStock,
			IsDefault:       true,
		}}
	}

	rows := make([]models.ProductVariant, 0, len(input.Variants))
	for _, variant := range input.Variants {
		rows = append(rows, models.ProductVariant{
			ID:              uuid.New(),
			ProductID:       product.ID,
			Size:            trimPtr(variant.Size),
			Color:           trimPtr(variant.Color),
			VariantName:     trimPtr(variant.VariantName),
			Price:           variant.Price,
			Quantity:        variant.Quantity,
			MinimumQuantity: variant.MinimumQuantity,
			IsDefault:       variant.IsDefault,
		})
	}
	return rows
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
