package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopdeskapp/shopdesk-backend/internal/products"
	"github.com/shopdeskapp/shopdesk-backend/pkg/db/models"
	"github.com/shopdeskapp/shopdesk-backend/pkg/enums"
	pkgerrors "github.com/shopdeskapp/shopdesk-backend/pkg/errors"
	"github.com/shopdeskapp/shopdesk-backend/pkg/pagination"
	"github.com/shopdeskapp/shopdesk-backend/pkg/types"
)

// OrderItemInput describes one requested order line.
type OrderItemInput struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
}

// CreateOrderInput holds the validated payload to place an order. Unit
// prices are never taken from the caller: each line is resolved against the
// live product and variant and the result is snapshotted onto the item.
type CreateOrderInput struct {
	CustomerID      uuid.UUID
	Items           []OrderItemInput
	TaxRate         decimal.Decimal
	Shipping        decimal.Decimal
	Discount        decimal.Decimal
	DeliveryAddress *types.Address
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type customerLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

type lineResolver interface {
	ResolveOrderLine(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (*products.OrderLineResolution, error)
}

// Service exposes order management operations.
type Service struct {
	repo      *Repository
	tx        txRunner
	customers customerLoader
	resolver  lineResolver
}

// NewService constructs an order service instance.
func NewService(repo *Repository, tx txRunner, customers customerLoader, resolver lineResolver) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer loader required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("line resolver required")
	}
	return &Service{repo: repo, tx: tx, customers: customers, resolver: resolver}, nil
}

// Create places an order: unit prices are snapshotted through the variant
// resolution rule, charges are computed in exact decimal arithmetic, and
// the header plus items are written in one transaction. Placing an order
// never decrements variant stock.
func (s *Service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "an order requires at least one item")
	}
	if input.TaxRate.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tax rate must be non-negative")
	}
	if input.Shipping.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping must be non-negative")
	}
	if input.Discount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount must be non-negative")
	}

	customer, err := s.loadCustomer(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}

	address := customer.Address
	if input.DeliveryAddress != nil {
		address = *input.DeliveryAddress
	}
	if missing := address.Validate(); len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery address is incomplete").
			WithDetails(map[string]any{"missing": missing})
	}

	orderID := uuid.New()
	items := make([]models.OrderItem, 0, len(input.Items))
	for _, line := range input.Items {
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be a positive integer")
		}
		resolution, err := s.resolver.ResolveOrderLine(ctx, line.ProductID, line.VariantID)
		if err != nil {
			return nil, err
		}
		items = append(items, models.OrderItem{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: line.ProductID,
			VariantID: resolution.VariantID,
			Quantity:  line.Quantity,
			Price:     resolution.UnitPrice,
		})
	}

	charges := ComputeTotals(items, input.TaxRate, input.Shipping, input.Discount)
	if charges.Total.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount cannot exceed the other charges")
	}

	order := &models.Order{
		ID:              orderID,
		CustomerID:      customer.ID,
		Status:          enums.OrderStatusPending,
		SubtotalAmount:  charges.Subtotal,
		TaxAmount:       charges.Tax,
		ShippingAmount:  charges.Shipping,
		DiscountAmount:  charges.Discount,
		DeliveryAddress: address,
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
		}
		for i := range items {
			if err := txRepo.CreateItem(ctx, &items[i]); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order item")
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	return s.Get(ctx, orderID)
}

// UpdateStatus sets the order status. Any known status may be set at any
// time; there is no transition guard.
func (s *Service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	updated, err := s.repo.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update status")
	}
	if !updated {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return s.Get(ctx, orderID)
}

// Get loads one order with customer and items.
func (s *Service) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// List returns a page of orders.
func (s *Service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResult, error) {
	result, err := s.repo.List(ctx, params, filters)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return result, nil
}

func (s *Service) loadCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return customer, nil
}
