package cron

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopdeskapp/shopdesk-backend/pkg/db/models"
	"github.com/shopdeskapp/shopdesk-backend/pkg/logger"
	"go.uber.org/multierr"
)

// LowStockJobParams configure the scheduled low-stock scan.
type LowStockJobParams struct {
	Logger       *logger.Logger
	ProductsRepo lowStockLister
}

type lowStockLister interface {
	ListLowStockVariants(ctx context.Context) ([]models.ProductVariant, error)
}

// NewLowStockJob constructs the low-stock report cron job.
func NewLowStockJob(params LowStockJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.ProductsRepo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &lowStockJob{
		logg:     params.Logger,
		products: params.ProductsRepo,
	}, nil
}

type lowStockJob struct {
	logg     *logger.Logger
	products lowStockLister
}

func (j *lowStockJob) Name() string { return "low-stock-report" }

// Run scans stock levels and emits one warning per product whose
// variants sit at or below their alert threshold.
func (j *lowStockJob) Run(ctx context.Context) error {
	variants, err := j.products.ListLowStockVariants(ctx)
	if err != nil {
		return fmt.Errorf("query low stock variants: %w", err)
	}

	grouped := map[uuid.UUID][]models.ProductVariant{}
	order := []uuid.UUID{}
	for _, variant := range variants {
		if _, seen := grouped[variant.ProductID]; !seen {
			order = append(order, variant.ProductID)
		}
		grouped[variant.ProductID] = append(grouped[variant.ProductID], variant)
	}

	var errs error
	for _, productID := range order {
		if err := j.reportProduct(ctx, productID, grouped[productID]); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"products": len(order),
		"variants": len(variants),
	})
	j.logg.Info(logCtx, "low stock scan complete")
	return errs
}

func (j *lowStockJob) reportProduct(ctx context.Context, productID uuid.UUID, variants []models.ProductVariant) error {
	product := variants[0].Product
	if product == nil {
		return fmt.Errorf("variant %s: product %s not loaded", variants[0].ID, productID)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"product_id":   productID.String(),
		"product_name": product.Name,
		"sku":          product.SKU,
		"variants":     describeVariants(variants),
	})
	j.logg.Warn(logCtx, "product stock at or below minimum")
	return nil
}

func describeVariants(variants []models.ProductVariant) []string {
	described := make([]string, 0, len(variants))
	for _, variant := range variants {
		label := variant.DisplayName()
		if label == "" {
			label = "base stock"
		}
		described = append(described, fmt.Sprintf("%s: %d/%d", label, variant.Quantity, variant.MinimumQuantity))
	}
	sort.Strings(described)
	return described
}
