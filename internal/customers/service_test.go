package customers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shopdeskapp/shopdesk-backend/internal/audit"
	"github.com/shopdeskapp/shopdesk-backend/pkg/db/models"
	"github.com/shopdeskapp/shopdesk-backend/pkg/enums"
	pkgerrors "github.com/shopdeskapp/shopdesk-backend/pkg/errors"
	"github.com/shopdeskapp/shopdesk-backend/pkg/pagination"
	"github.com/shopdeskapp/shopdesk-backend/pkg/types"
)

func setupCustomersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)

	customers := `
CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  phone TEXT,
  address_line1 TEXT,
  address_line2 TEXT,
  address_city TEXT,
  address_state TEXT,
  address_postal_code TEXT,
  address_country TEXT,
  company_name TEXT,
  tax_id TEXT,
  date_of_birth DATETIME,
  gender TEXT,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
  status TEXT NOT NULL DEFAULT 'pending',
  subtotal_amount TEXT NOT NULL,
  tax_amount TEXT NOT NULL DEFAULT '0',
  shipping_amount TEXT NOT NULL DEFAULT '0',
  discount_amount TEXT NOT NULL DEFAULT '0',
  delivery_address_line1 TEXT,
  delivery_address_line2 TEXT,
  delivery_address_city TEXT,
  delivery_address_state TEXT,
  delivery_address_postal_code TEXT,
  delivery_address_country TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL,
  variant_id TEXT,
  quantity INTEGER NOT NULL,
  price TEXT NOT NULL,
  created_at DATETIME
);`
	adminActions := `
CREATE TABLE IF NOT EXISTS admin_actions (
  id TEXT PRIMARY KEY,
  admin_id TEXT NOT NULL,
  action_type TEXT NOT NULL,
  entity_type TEXT NOT NULL,
  entity_id TEXT NOT NULL,
  description TEXT NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(customers).Error)
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderItems).Error)
	require.NoError(t, db.Exec(adminActions).Error)
	return db
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newCustomersService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()

	recorder, err := audit.NewService(audit.NewRepository(db))
	require.NoError(t, err)

	svc, err := NewService(NewRepository(db), gormTxRunner{db: db}, recorder)
	require.NoError(t, err)
	return svc
}

func customerFixture(email string) CustomerInput {
	return CustomerInput{
		Name:  "Dana Whitfield",
		Email: email,
		Address: types.Address{
			Line1:      "77 Birch Lane",
			City:       "Norman",
			State:      "OK",
			PostalCode: "73072",
			Country:    "US",
		},
	}
}

func TestServiceCreate_normalizesAndAudits(t *testing.T) {
	db := setupCustomersTestDB(t)
	svc := newCustomersService(t, db)
	adminID := uuid.New()

	created, err := svc.Create(context.Background(), adminID, customerFixture("  Dana@Example.COM "))
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", created.Email)

	var auditCount int64
	require.NoError(t, db.Table("admin_actions").
		Where("entity_id = ? AND action_type = ?", created.ID, enums.AdminActionInsert).
		Count(&auditCount).Error)
	assert.Equal(t, int64(1), auditCount)
}

func TestServiceCreate_duplicateEmailConflicts(t *testing.T) {
	db := setupCustomersTestDB(t)
	svc := newCustomersService(t, db)
	adminID := uuid.New()

	_, err := svc.Create(context.Background(), adminID, customerFixture("dana@example.com"))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), adminID, customerFixture("dana@example.com"))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestServiceCreate_validation(t *testing.T) {
	db := setupCustomersTestDB(t)
	svc := newCustomersService(t, db)

	tests := []struct {
		name  string
		input CustomerInput
	}{
		{name: "missing name", input: CustomerInput{Email: "a@b.com"}},
		{name: "missing email", input: CustomerInput{Name: "Someone"}},
		{name: "malformed email", input: CustomerInput{Name: "Someone", Email: "not-an-email"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), uuid.New(), tc.input)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestServiceUpdate(t *testing.T) {
	db := setupCustomersTestDB(t)
	svc := newCustomersService(t, db)
	adminID := uuid.New()

	created, err := svc.Create(context.Background(), adminID, customerFixture("dana@example.com"))
	require.NoError(t, err)

	input := customerFixture("dana@example.com")
	input.Name = "Dana W. Holt"
	notes := "prefers email contact"
	input.Notes = &notes

	updated, err := svc.Update(context.Background(), adminID, created.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "Dana W. Holt", updated.Name)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, notes, *updated.Notes)

	var auditCount int64
	require.NoError(t, db.Table("admin_actions").
		Where("entity_id = ? AND action_type = ?", created.ID, enums.AdminActionUpdate).
		Count(&auditCount).Error)
	assert.Equal(t, int64(1), auditCount)
}

func TestServiceDelete_cascadesToOrders(t *testing.T) {
	db := setupCustomersTestDB(t)
	svc := newCustomersService(t, db)
	adminID := uuid.New()

	created, err := svc.Create(context.Background(), adminID, customerFixture("dana@example.com"))
	require.NoError(t, err)

	order := &models.Order{
		ID:             uuid.New(),
		CustomerID:     created.ID,
		Status:         enums.OrderStatusPending,
		SubtotalAmount: decimal.NewFromFloat(25),
	}
	require.NoError(t, db.Create(order).Error)
	item := &models.OrderItem{
		ID:        uuid.New(),
		OrderID:   order.ID,
		ProductID: uuid.New(),
		Quantity:  2,
		Price:     decimal.NewFromFloat(12.50),
	}
	require.NoError(t, db.Create(item).Error)

	require.NoError(t, svc.Delete(context.Background(), adminID, created.ID))

	_, err = svc.Get(context.Background(), created.ID)
	require.Error(t, err)

	var orderCount, itemCount int64
	require.NoError(t, db.Table("orders").Count(&orderCount).Error)
	require.NoError(t, db.Table("order_items").Count(&itemCount).Error)
	assert.Equal(t, int64(0), orderCount)
	assert.Equal(t, int64(0), itemCount)
}

func TestServiceList_search(t *testing.T) {
	db := setupCustomersTestDB(t)
	svc := newCustomersService(t, db)
	adminID := uuid.New()

	first := customerFixture("dana@example.com")
	second := customerFixture("miles@acme.io")
	second.Name = "Miles Archer"
	company := "Acme Rentals"
	second.CompanyName = &company

	_, err := svc.Create(context.Background(), adminID, first)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), adminID, second)
	require.NoError(t, err)

	byName, err := svc.List(context.Background(), pagination.Params{}, ListFilters{Query: "archer"})
	require.NoError(t, err)
	require.Len(t, byName.Customers, 1)
	assert.Equal(t, "Miles Archer", byName.Customers[0].Name)

	byCompany, err := svc.List(context.Background(), pagination.Params{}, ListFilters{Query: "acme rentals"})
	require.NoError(t, err)
	require.Len(t, byCompany.Customers, 1)

	all, err := svc.List(context.Background(), pagination.Params{}, ListFilters{})
	require.NoError(t, err)
	assert.Len(t, all.Customers, 2)
}
