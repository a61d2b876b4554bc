package printing

import (
	"bytes"
	"html/template"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ridgeline/backend/internal/domain/billing"
)

// InvoiceDocument carries everything the invoice template needs. The
// company block comes from the tenant, the rest from the invoice itself.
type InvoiceDocument struct {
	CompanyName  string
	CustomerName string
	Invoice      *billing.Invoice
	GeneratedAt  time.Time
}

var invoiceFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
}

var invoiceTemplate = template.Must(template.New("invoice").Funcs(invoiceFuncs).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Invoice {{.Invoice.Number}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #1a1a1a; font-size: 13px; }
  h1 { font-size: 22px; margin-bottom: 0; }
  .meta { color: #555; margin-bottom: 24px; }
  table { width: 100%; border-collapse: collapse; margin-top: 16px; }
  th { text-align: left; border-bottom: 2px solid #1a1a1a; padding: 6px 4px; }
  td { border-bottom: 1px solid #ddd; padding: 6px 4px; }
  td.num, th.num { text-align: right; }
  .totals { margin-top: 16px; width: 40%; margin-left: auto; }
  .totals td { border: none; padding: 3px 4px; }
  .totals .grand { font-weight: bold; border-top: 2px solid #1a1a1a; }
  .status { text-transform: uppercase; letter-spacing: 1px; color: #888; }
</style>
</head>
<body>
<h1>{{.CompanyName}}</h1>
<div class="meta">
  Invoice <strong>{{.Invoice.Number}}</strong> &middot; <span class="status">{{.Invoice.Status}}</span><br>
  Billed to: {{.CustomerName}}<br>
  {{if .Invoice.IssuedAt}}Issued: {{.Invoice.IssuedAt.Format "January 2, 2006"}}<br>{{end}}
  Generated: {{.GeneratedAt.Format "January 2, 2006"}}
</div>
<table>
  <tr><th>Description</th><th class="num">Qty</th><th class="num">Unit price</th><th class="num">Amount</th></tr>
  {{range .Invoice.Lines}}
  <tr>
    <td>{{.Description}}</td>
    <td class="num">{{.Quantity.String}}</td>
    <td class="num">${{money .UnitPrice}}</td>
    <td class="num">${{money .Amount}}</td>
  </tr>
  {{end}}
</table>
<table class="totals">
  <tr><td>Subtotal</td><td class="num">${{money .Invoice.Subtotal}}</td></tr>
  <tr><td>Tax ({{.Invoice.TaxRatePct.String}}%)</td><td class="num">${{money .Invoice.TaxAmount}}</td></tr>
  <tr class="grand"><td>Total</td><td class="num">${{money .Invoice.Total}}</td></tr>
</table>
</body>
</html>`))

// RenderInvoiceHTML builds the printable HTML for an invoice
func RenderInvoiceHTML(doc InvoiceDocument) (string, error) {
	if doc.GeneratedAt.IsZero() {
		doc.GeneratedAt = time.Now()
	}
	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}
