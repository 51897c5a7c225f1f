package orders

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/shopdeskapp/shopdesk-backend/pkg/db/models"
)

func item(price string, qty int) models.OrderItem {
	return models.OrderItem{Price: decimal.RequireFromString(price), Quantity: qty}
}

func TestComputeTotals_twoItemScenario(t *testing.T) {
	items := []models.OrderItem{
		item("10.00", 2),
		item("5.00", 1),
	}

	charges := ComputeTotals(items,
		decimal.RequireFromString("0.10"),
		decimal.RequireFromString("10"),
		decimal.Zero,
	)

	assert.True(t, charges.Subtotal.Equal(decimal.RequireFromString("25.00")), "subtotal %s", charges.Subtotal)
	assert.True(t, charges.Tax.Equal(decimal.RequireFromString("2.50")), "tax %s", charges.Tax)
	assert.True(t, charges.Total.Equal(decimal.RequireFromString("37.50")), "total %s", charges.Total)
}

func TestComputeTotals_identityHoldsExactly(t *testing.T) {
	cases := []struct {
		items    []models.OrderItem
		taxRate  string
		shipping string
		discount string
	}{
		{[]models.OrderItem{item("0.01", 3)}, "0.0825", "4.99", "0"},
		{[]models.OrderItem{item("19.99", 7), item("0.10", 1)}, "0.07", "0", "5.50"},
		{[]models.OrderItem{}, "0.10", "12.00", "12.00"},
		{[]models.OrderItem{item("100", 1)}, "0", "0", "100"},
	}

	for _, tc := range cases {
		charges := ComputeTotals(tc.items,
			decimal.RequireFromString(tc.taxRate),
			decimal.RequireFromString(tc.shipping),
			decimal.RequireFromString(tc.discount),
		)

		expected := charges.Subtotal.
			Add(charges.Tax).
			Add(charges.Shipping).
			Sub(charges.Discount)
		assert.True(t, charges.Total.Equal(expected), "total %s != %s", charges.Total, expected)

		lineSum := decimal.Zero
		for _, it := range tc.items {
			lineSum = lineSum.Add(it.LineTotal())
		}
		assert.True(t, charges.Subtotal.Equal(lineSum), "subtotal %s != %s", charges.Subtotal, lineSum)
	}
}

func TestComputeTotals_noIntermediateRounding(t *testing.T) {
	// 3 x 0.10 at 8.25% tax: the exact tax is 0.02475 and must be kept as
	// such, not rounded before entering the total.
	items := []models.OrderItem{item("0.10", 3)}
	charges := ComputeTotals(items, decimal.RequireFromString("0.0825"), decimal.Zero, decimal.Zero)

	assert.True(t, charges.Tax.Equal(decimal.RequireFromString("0.024750")), "tax %s", charges.Tax)
	assert.True(t, charges.Total.Equal(decimal.RequireFromString("0.324750")), "total %s", charges.Total)
}

func TestOrderTotalDerivation(t *testing.T) {
	order := models.Order{
		SubtotalAmount: decimal.RequireFromString("25.00"),
		TaxAmount:      decimal.RequireFromString("2.50"),
		ShippingAmount: decimal.RequireFromString("10.00"),
		DiscountAmount: decimal.RequireFromString("0.00"),
	}

	assert.True(t, order.Total().Equal(decimal.RequireFromString("37.50")))

	assert.NoError(t, order.AfterFind(nil))
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("37.50")))
}
