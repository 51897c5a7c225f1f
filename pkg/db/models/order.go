package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopdeskapp/shopdesk-backend/pkg/enums"
	"github.com/shopdeskapp/shopdesk-backend/pkg/types"
)

// Order captures an order header. The charge components and delivery address
// snapshot are immutable after creation; only the status may change later.
// TotalAmount is never stored: it is recomputed from the stored components on
// every read so the derived value cannot drift from its inputs.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID      uuid.UUID         `gorm:"column:customer_id;type:uuid;not null"`
	Status          enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	SubtotalAmount  decimal.Decimal   `gorm:"column:subtotal_amount;type:numeric(12,2);not null"`
	TaxAmount       decimal.Decimal   `gorm:"column:tax_amount;type:numeric(12,2);not null;default:0"`
	ShippingAmount  decimal.Decimal   `gorm:"column:shipping_amount;type:numeric(12,2);not null;default:0"`
	DiscountAmount  decimal.Decimal   `gorm:"column:discount_amount;type:numeric(12,2);not null;default:0"`
	TotalAmount     decimal.Decimal   `gorm:"-"`
	DeliveryAddress types.Address     `gorm:"embedded;embeddedPrefix:delivery_address_"`
	Customer        *Customer         `gorm:"foreignKey:CustomerID"`
	Items           []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// Total derives the order total from its stored charge components.
func (o *Order) Total() decimal.Decimal {
	return o.SubtotalAmount.Add(o.TaxAmount).Add(o.ShippingAmount).Sub(o.DiscountAmount)
}

// AfterFind recomputes the derived total whenever an order row is loaded.
func (o *Order) AfterFind(*gorm.DB) error {
	o.TotalAmount = o.Total()
	return nil
}
