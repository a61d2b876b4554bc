package printing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgeline/backend/internal/domain/billing"
)

func TestRenderInvoiceHTML(t *testing.T) {
	invoice, err := billing.NewInvoice(uuid.New(), uuid.New(), "INV-0042", decimal.NewFromFloat(8.25))
	require.NoError(t, err)
	require.NoError(t, invoice.AddLine("Roof replacement - 25 squares @ 525.00/sq", decimal.NewFromInt(25), decimal.NewFromInt(525)))
	require.NoError(t, invoice.Send())

	html, err := RenderInvoiceHTML(InvoiceDocument{
		CompanyName:  "Ridgeline Roofing",
		CustomerName: "Dana Whitfield",
		Invoice:      invoice,
		GeneratedAt:  time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Contains(t, html, "INV-0042")
	assert.Contains(t, html, "Ridgeline Roofing")
	assert.Contains(t, html, "Dana Whitfield")
	assert.Contains(t, html, "Roof replacement")
	assert.Contains(t, html, "$13125.00")
	assert.Contains(t, html, "$1082.81")
	assert.Contains(t, html, "$14207.81")
	assert.Contains(t, html, "sent")
}

func TestRenderInvoiceHTML_EscapesCustomerInput(t *testing.T) {
	invoice, err := billing.NewInvoice(uuid.New(), uuid.New(), "INV-0001", decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, invoice.AddLine("<script>alert(1)</script>", decimal.NewFromInt(1), decimal.NewFromInt(100)))

	html, err := RenderInvoiceHTML(InvoiceDocument{
		CompanyName:  "Ridgeline Roofing",
		CustomerName: "<b>bold</b>",
		Invoice:      invoice,
	})
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.NotContains(t, html, "<b>bold</b>")
}
