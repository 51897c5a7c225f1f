package invoices

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/shopdeskapp/shopdesk-backend/pkg/errors"
)

// money renders a decimal with two-decimal display rounding. Presentation
// only; stored values keep full precision.
func money(value decimal.Decimal) string {
	return value.StringFixed(2)
}

var invoiceTemplate = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"money": money,
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Invoice {{.Number}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #1a1a1a; margin: 40px; }
  .header { display: flex; justify-content: space-between; margin-bottom: 32px; }
  .muted { color: #666; font-size: 13px; }
  h1 { font-size: 22px; margin: 0 0 4px; }
  table { width: 100%; border-collapse: collapse; margin-top: 24px; }
  th, td { text-align: left; padding: 8px 10px; border-bottom: 1px solid #ddd; font-size: 14px; }
  th { background: #f5f5f5; text-transform: uppercase; font-size: 12px; }
  td.num, th.num { text-align: right; }
  .totals { margin-top: 16px; width: 320px; margin-left: auto; }
  .totals td { border: none; padding: 4px 10px; }
  .totals tr.grand td { border-top: 2px solid #1a1a1a; font-weight: bold; }
  .words { margin-top: 12px; font-style: italic; font-size: 13px; }
  @media print { body { margin: 12px; } }
</style>
</head>
<body>
<div class="header">
  <div>
    <h1>{{.Company.Name}}</h1>
    {{range .Company.Lines}}<div class="muted">{{.}}</div>{{end}}
    {{if .Company.Phone}}<div class="muted">{{.Company.Phone}}</div>{{end}}
    {{if .Company.Email}}<div class="muted">{{.Company.Email}}</div>{{end}}
    {{if .Company.TaxID}}<div class="muted">Tax ID: {{.Company.TaxID}}</div>{{end}}
  </div>
  <div>
    <h1>Invoice #{{.Number}}</h1>
    <div class="muted">Date: {{.IssueDate}}</div>
    <div class="muted">Status: {{.Status}}</div>
  </div>
</div>

<div class="header">
  <div>
    <strong>Bill To</strong>
    <div>{{.Customer.Name}}</div>
    {{range .Customer.Lines}}<div class="muted">{{.}}</div>{{end}}
    {{if .Customer.Email}}<div class="muted">{{.Customer.Email}}</div>{{end}}
  </div>
  <div>
    <strong>Deliver To</strong>
    {{range .DeliveryLines}}<div class="muted">{{.}}</div>{{end}}
  </div>
</div>

<table>
  <thead>
    <tr><th>Description</th><th class="num">Qty</th><th class="num">Rate</th><th class="num">Amount</th></tr>
  </thead>
  <tbody>
    {{$symbol := .CurrencySymbol}}
    {{range .Lines}}
    <tr>
      <td>{{.Description}}</td>
      <td class="num">{{.Quantity}}</td>
      <td class="num">{{$symbol}}{{money .Rate}}</td>
      <td class="num">{{$symbol}}{{money .Amount}}</td>
    </tr>
    {{end}}
  </tbody>
</table>

<table class="totals">
  <tr><td>Subtotal</td><td class="num">{{.CurrencySymbol}}{{money .Subtotal}}</td></tr>
  <tr><td>Tax (1/2)</td><td class="num">{{.CurrencySymbol}}{{money (index .TaxHalves 0)}}</td></tr>
  <tr><td>Tax (2/2)</td><td class="num">{{.CurrencySymbol}}{{money (index .TaxHalves 1)}}</td></tr>
  <tr><td>Shipping</td><td class="num">{{.CurrencySymbol}}{{money .Shipping}}</td></tr>
  <tr><td>Discount</td><td class="num">-{{.CurrencySymbol}}{{money .Discount}}</td></tr>
  <tr class="grand"><td>Total</td><td class="num">{{.CurrencySymbol}}{{money .GrandTotal}}</td></tr>
</table>

<div class="words">Amount in words: {{.AmountInWords}}</div>
</body>
</html>
`))

// RenderHTML renders the invoice document as a printable HTML page.
func RenderHTML(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "invoice: document is required")
	}
	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, doc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("invoice: render %s", doc.Number))
	}
	return buf.Bytes(), nil
}
