package orders

import (
	"github.com/shopspring/decimal"

	"github.com/shopdeskapp/shopdesk-backend/pkg/db/models"
)

// Charges holds the computed charge components of an order. All values keep
// full decimal precision; two-decimal rounding is presentation only.
type Charges struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals derives the charges for a set of order items: subtotal is
// the sum of line amounts, tax is subtotal times the supplied rate, and
// total is subtotal + tax + shipping - discount. No intermediate rounding.
func ComputeTotals(items []models.OrderItem, taxRate, shipping, discount decimal.Decimal) Charges {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	tax := subtotal.Mul(taxRate)
	total := subtotal.Add(tax).Add(shipping).Sub(discount)
	return Charges{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Discount: discount,
		Total:    total,
	}
}
