package products

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shopdeskapp/shopdesk-backend/internal/audit"
	"github.com/shopdeskapp/shopdesk-backend/internal/categories"
	"github.com/shopdeskapp/shopdesk-backend/pkg/enums"
	pkgerrors "github.com/shopdeskapp/shopdesk-backend/pkg/errors"
	"github.com/shopdeskapp/shopdesk-backend/pkg/pagination"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  parent_id TEXT,
  icon_url TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  sku TEXT NOT NULL UNIQUE,
  price TEXT NOT NULL,
  category_id TEXT,
  image_url TEXT,
  initial_stock INTEGER NOT NULL DEFAULT 0,
  minimum_stock INTEGER NOT NULL DEFAULT 5,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS product_variants (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  size TEXT,
  color TEXT,
  variant_name TEXT,
  price TEXT,
  quantity INTEGER NOT NULL DEFAULT 0,
  minimum_quantity INTEGER NOT NULL DEFAULT 5,
  is_default INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_product_variants_single_default
  ON product_variants (product_id) WHERE is_default;`,
		`CREATE TABLE IF NOT EXISTS admin_actions (
  id TEXT PRIMARY KEY,
  admin_id TEXT NOT NULL,
  action_type TEXT NOT NULL,
  entity_type TEXT NOT NULL,
  entity_id TEXT NOT NULL,
  description TEXT NOT NULL,
  created_at DATETIME
);`,
	}
	for _, ddl := range statements {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newProductsService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()

	recorder, err := audit.NewService(audit.NewRepository(db))
	require.NoError(t, err)

	svc, err := NewService(NewRepository(db), gormTxRunner{db: db}, recorder, categories.NewRepository(db))
	require.NoError(t, err)
	return svc
}

func productFixture(sku string) CreateProductInput {
	return CreateProductInput{
		Name:         "Trail Boot",
		SKU:          sku,
		Price:        decimal.NewFromFloat(89.99),
		InitialStock: 20,
		MinimumStock: 5,
	}
}

func TestServiceCreate_implicitDefaultVariant(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newProductsService(t, db)
	adminID := uuid.New()

	created, err := svc.Create(context.Background(), adminID, productFixture("BOOT-01"))
	require.NoError(t, err)

	require.Len(t, created.Variants, 1)
	variant := created.Variants[0]
	assert.Equal(t, 20, variant.Quantity)
	assert.Equal(t, 5, variant.MinimumQuantity)
	assert.True(t, variant.IsDefault)
	assert.Nil(t, variant.Size)
	assert.Nil(t, variant.Color)
	assert.Nil(t, variant.VariantName)
	assert.Empty(t, variant.DisplayName())

	var auditCount int64
	require.NoError(t, db.Table("admin_actions").
		Where("entity_id = ? AND action_type = ?", created.ID, enums.AdminActionInsert).
		Count(&auditCount).Error)
	assert.Equal(t, int64(1), auditCount)
}

func TestServiceCreate_explicitVariants(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newProductsService(t, db)

	input := productFixture("BOOT-02")
	sizeM, sizeL := "M", "L"
	variantPrice := decimal.NewFromFloat(94.99)
	input.Variants = []VariantInput{
		{Size: &sizeM, Quantity: 4, MinimumQuantity: 2, IsDefault: true},
		{Size: &sizeL, Quantity: 6, MinimumQuantity: 2, Price: &variantPrice},
	}

	created, err := svc.Create(context.Background(), uuid.New(), input)
	require.NoError(t, err)
	require.Len(t, created.Variants, 2)

	defaults := 0
	for _, variant := range created.Variants {
		if variant.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestServiceCreate_variantValidation(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newProductsService(t, db)
	sizeM, sizeL := "M", "L"

	tests := []struct {
		name     string
		variants []VariantInput
	}{
		{
			name: "no default flagged",
			variants: []VariantInput{
				{Size: &sizeM, Quantity: 1},
				{Size: &sizeL, Quantity: 2},
			},
		},
		{
			name: "two defaults flagged",
			variants: []VariantInput{
				{Size: &sizeM, Quantity: 1, IsDefault: true},
				{Size: &sizeL, Quantity: 2, IsDefault: true},
			},
		},
		{
			name: "negative quantity",
			variants: []VariantInput{
				{Size: &sizeM, Quantity: -1, IsDefault: true},
			},
		},
		{
			name: "quantity beyond int32 range",
			variants: []VariantInput{
				{Size: &sizeM, Quantity: math.MaxInt32 + 1, IsDefault: true},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := productFixture("BOOT-BAD")
			input.Variants = tc.variants
			_, err := svc.Create(context.Background(), uuid.New(), input)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestServiceCreate_duplicateSKUConflicts(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newProductsService(t, db)

	_, err := svc.Create(context.Background(), uuid.New(), productFixture("BOOT-03"))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), uuid.New(), productFixture("BOOT-03"))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestServiceCreate_negativePriceRejected(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newProductsService(t, db)

	input := productFixture("BOOT-04")
	input.Price = decimal.NewFromFloat(-1)
	_, err := svc.Create(context.Background(), uuid.New(), input)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestReceiveStock_incrementsMatchingPair(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newProductsService(t, db)
	adminID := uuid.New()

	input := productFixture("BOOT-05")
	input.InitialStock = 3
	created, err := svc.Create(context.Background(), adminID, input)
	require.NoError(t, err)
	defaultVariant := created.Variants[0]

	// No size/color matches the implicit bookkeeping variant.
	updated, err := svc.ReceiveStock(context.Background(), created.ID, ReceiveStockInput{Amount: 4})
	require.NoError(t, err)
	assert.Equal(t, defaultVariant.ID, updated.ID)
	assert.Equal(t, 7, updated.Quantity)

	again, err := svc.ReceiveStock(context.Background(), created.ID, ReceiveStockInput{Amount: 2})
	require.NoError(t, err)
	assert.Equal(t, 9, again.Quantity)
}

func TestReceiveStock_createsNewVariantForUnknownPair(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newProductsService(t, db)

	input := productFixture("BOOT-06")
	input.InitialStock = 3
	created, err := svc.Create(context.Background(), uuid.New(), input)
	require.NoError(t, err)

	size := "M"
	variant, err := svc.ReceiveStock(context.Background(), created.ID, ReceiveStockInput{Size: &size, Amount: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, variant.Quantity)
	assert.False(t, variant.IsDefault)
	require.NotNil(t, variant.Size)
	assert.Equal(t, "M", *variant.Size)

	// The unrelated bookkeeping variant keeps its quantity.
	reloaded, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Variants, 2)
	assert.Equal(t, 3, reloaded.Variants[0].Quantity)

	// Receiving into the same pair accumulates rather than forking again.
	merged, err := svc.ReceiveStock(context.Background(), created.ID, ReceiveStockInput{Size: &size, Amount: 5})
	require.NoError(t, err)
	assert.Equal(t, variant.ID, merged.ID)
	assert.Equal(t, 10, merged.Quantity)
}

func TestReceiveStock_rejectsNonPositiveAmounts(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newProductsService(t, db)

	created, err := svc.Create(context.Background(), uuid.New(), productFixture("BOOT-07"))
	require.NoError(t, err)

	for _, amount := range []int{0, -5} {
		_, err := svc.ReceiveStock(context.Background(), created.ID, ReceiveStockInput{Amount: amount})
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}

	reloaded, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, reloaded.Variants[0].Quantity)
}

func TestReceiveStock_rejectsInt32Overflow(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newProductsService(t, db)

	created, err := svc.Create(context.Background(), uuid.New(), productFixture("BOOT-08"))
	require.NoError(t, err)
	variantID := created.Variants[0].ID

	_, err = svc.OverrideQuantity(context.Background(), variantID, math.MaxInt32)
	require.NoError(t, err)

	_, err = svc.ReceiveStock(context.Background(), created.ID, ReceiveStockInput{Amount: 1})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	variant, err := svc.OverrideQuantity(context.Background(), variantID, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, variant.Quantity)
}

func TestOverrideQuantity(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newProductsService(t, db)

	created, err := svc.Create(context.Background(), uuid.New(), productFixture("BOOT-09"))
	require.NoError(t, err)
	variantID := created.Variants[0].ID

	variant, err := svc.OverrideQuantity(context.Background(), variantID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, variant.Quantity)

	_, err = svc.OverrideQuantity(context.Background(), variantID, -1)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.OverrideQuantity(context.Background(), uuid.New(), 5)
	require.Error(t, err)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestServiceDelete_cascadesToVariants(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newProductsService(t, db)
	adminID := uuid.New()

	created, err := svc.Create(context.Background(), adminID, productFixture("BOOT-10"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), adminID, created.ID))

	var variantCount int64
	require.NoError(t, db.Table("product_variants").
		Where("product_id = ?", created.ID).
		Count(&variantCount).Error)
	assert.Equal(t, int64(0), variantCount)

	var auditCount int64
	require.NoError(t, db.Table("admin_actions").
		Where("entity_id = ? AND action_type = ?", created.ID, enums.AdminActionDelete).
		Count(&auditCount).Error)
	assert.Equal(t, int64(1), auditCount)
}

func TestServiceList_searchByNameAndSKU(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newProductsService(t, db)
	adminID := uuid.New()

	boot := productFixture("BOOT-11")
	_, err := svc.Create(context.Background(), adminID, boot)
	require.NoError(t, err)

	sandal := productFixture("SANDAL-01")
	sandal.Name = "River Sandal"
	_, err = svc.Create(context.Background(), adminID, sandal)
	require.NoError(t, err)

	byName, err := svc.List(context.Background(), pagination.Params{}, ListFilters{Query: "sandal"})
	require.NoError(t, err)
	require.Len(t, byName.Products, 1)
	assert.Equal(t, "River Sandal", byName.Products[0].Name)

	bySKU, err := svc.List(context.Background(), pagination.Params{}, ListFilters{Query: "boot-11"})
	require.NoError(t, err)
	require.Len(t, bySKU.Products, 1)
	assert.Equal(t, "BOOT-11", bySKU.Products[0].SKU)

	all, err := svc.List(context.Background(), pagination.Params{}, ListFilters{})
	require.NoError(t, err)
	assert.Len(t, all.Products, 2)
}
