package invoices

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopdeskapp/shopdesk-backend/pkg/db/models"
	pkgerrors "github.com/shopdeskapp/shopdesk-backend/pkg/errors"
)

// Line is one itemized invoice row. Amount is always rate times quantity.
type Line struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// Party is the header block for the issuing company or the billed customer.
type Party struct {
	Name    string   `json:"name"`
	Lines   []string `json:"lines"`
	Phone   string   `json:"phone,omitempty"`
	Email   string   `json:"email,omitempty"`
	TaxID   string   `json:"tax_id,omitempty"`
	Website string   `json:"website,omitempty"`
}

// Document is a deterministic invoice snapshot built from an order and the
// company settings. Same inputs always produce the same document.
type Document struct {
	Number         string             `json:"number"`
	IssueDate      string             `json:"issue_date"`
	Company        Party              `json:"company"`
	Customer       Party              `json:"customer"`
	DeliveryLines  []string           `json:"delivery_lines"`
	Lines          []Line             `json:"lines"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	TaxHalves      [2]decimal.Decimal `json:"tax_halves"`
	Shipping       decimal.Decimal    `json:"shipping"`
	Discount       decimal.Decimal    `json:"discount"`
	GrandTotal     decimal.Decimal    `json:"grand_total"`
	AmountInWords  string             `json:"amount_in_words"`
	CurrencySymbol string             `json:"currency_symbol"`
	Status         string             `json:"status"`
}

const issueDateLayout = "January 2, 2006"

// Build assembles the invoice document for an order. The order must come in
// with its items and customer preloaded. The footer total is recomputed from
// the lines and must equal the stored subtotal; a mismatch is a
// data-integrity failure, not a rendering choice.
func Build(order *models.Order, settings *models.CompanySettings, currencySymbol string) (*Document, error) {
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "invoice: order is required")
	}
	if settings == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "invoice: company settings are required")
	}
	if order.Customer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "invoice: order customer not loaded")
	}

	lines := make([]Line, 0, len(order.Items))
	footerTotal := decimal.Zero
	for _, item := range order.Items {
		line := Line{
			Description: lineDescription(item),
			Quantity:    item.Quantity,
			Rate:        item.Price,
			Amount:      item.LineTotal(),
		}
		footerTotal = footerTotal.Add(line.Amount)
		lines = append(lines, line)
	}

	if !footerTotal.Equal(order.SubtotalAmount) {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "invoice: line amounts do not add up to the stored subtotal").
			WithDetails(map[string]string{
				"computed": footerTotal.String(),
				"stored":   order.SubtotalAmount.String(),
			})
	}

	half := order.TaxAmount.Div(decimal.NewFromInt(2))
	grandTotal := order.Total()

	return &Document{
		Number:         invoiceNumber(order.ID),
		IssueDate:      order.CreatedAt.Format(issueDateLayout),
		Company:        companyParty(settings),
		Customer:       customerParty(order.Customer),
		DeliveryLines:  addressLines(order.DeliveryAddress.Line1, order.DeliveryAddress.Line2, order.DeliveryAddress.City, order.DeliveryAddress.State, order.DeliveryAddress.PostalCode, order.DeliveryAddress.Country),
		Lines:          lines,
		Subtotal:       footerTotal,
		TaxHalves:      [2]decimal.Decimal{half, half},
		Shipping:       order.ShippingAmount,
		Discount:       order.DiscountAmount,
		GrandTotal:     grandTotal,
		AmountInWords:  AmountInWords(grandTotal),
		CurrencySymbol: currencySymbol,
		Status:         order.Status.String(),
	}, nil
}

// invoiceNumber derives the synthetic invoice number from the order id:
// its first 8 characters, upper-cased.
func invoiceNumber(orderID uuid.UUID) string {
	return strings.ToUpper(orderID.String()[:8])
}

func lineDescription(item models.OrderItem) string {
	name := ""
	if item.Product != nil {
		name = item.Product.Name
	}
	variantLabel := ""
	if item.Variant != nil {
		variantLabel = item.Variant.DisplayName()
	}
	description := joinNonEmpty(" - ", name, variantLabel)
	if description == "" {
		description = fmt.Sprintf("Item %s", strings.ToUpper(item.ID.String()[:8]))
	}
	return description
}

func companyParty(settings *models.CompanySettings) Party {
	party := Party{
		Name:  settings.Name,
		Lines: addressLines(settings.Address.Line1, settings.Address.Line2, settings.Address.City, settings.Address.State, settings.Address.PostalCode, settings.Address.Country),
	}
	if settings.Phone != nil {
		party.Phone = *settings.Phone
	}
	if settings.Email != nil {
		party.Email = *settings.Email
	}
	if settings.TaxID != nil {
		party.TaxID = *settings.TaxID
	}
	if settings.Website != nil {
		party.Website = *settings.Website
	}
	return party
}

func customerParty(customer *models.Customer) Party {
	party := Party{
		Name:  customer.Name,
		Lines: addressLines(customer.Address.Line1, customer.Address.Line2, customer.Address.City, customer.Address.State, customer.Address.PostalCode, customer.Address.Country),
		Email: customer.Email,
	}
	if customer.Phone != nil {
		party.Phone = *customer.Phone
	}
	if customer.TaxID != nil {
		party.TaxID = *customer.TaxID
	}
	return party
}

func addressLines(line1, line2, city, state, postalCode, country string) []string {
	lines := make([]string, 0, 3)
	if strings.TrimSpace(line1) != "" {
		lines = append(lines, strings.TrimSpace(line1))
	}
	if strings.TrimSpace(line2) != "" {
		lines = append(lines, strings.TrimSpace(line2))
	}
	locality := joinNonEmpty(", ", city, joinNonEmpty(" ", state, postalCode))
	if locality != "" {
		lines = append(lines, locality)
	}
	if strings.TrimSpace(country) != "" {
		lines = append(lines, strings.TrimSpace(country))
	}
	return lines
}

// Service builds and renders invoices for stored orders.
type Service struct {
	orders   orderLoader
	settings settingsLoader
	symbol   string
}

type orderLoader interface {
	Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
}

type settingsLoader interface {
	Get(ctx context.Context) (*models.CompanySettings, error)
}

// NewService constructs an invoice service instance.
func NewService(orders orderLoader, settings settingsLoader, currencySymbol string) (*Service, error) {
	if orders == nil {
		return nil, fmt.Errorf("order loader required")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings loader required")
	}
	if currencySymbol == "" {
		currencySymbol = "$"
	}
	return &Service{orders: orders, settings: settings, symbol: currencySymbol}, nil
}

// ForOrder builds the invoice document for a stored order.
func (s *Service) ForOrder(ctx context.Context, orderID uuid.UUID) (*Document, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	return Build(order, settings, s.symbol)
}

// RenderOrder builds the invoice for a stored order and renders it to HTML.
func (s *Service) RenderOrder(ctx context.Context, orderID uuid.UUID) ([]byte, error) {
	doc, err := s.ForOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return RenderHTML(doc)
}
