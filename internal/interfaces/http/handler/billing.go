package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appbilling "github.com/ridgeline/backend/internal/application/billing"
	"github.com/ridgeline/backend/internal/domain/billing"
)

// BillingHandler exposes measurement, quoting and invoicing endpoints
type BillingHandler struct {
	invoiceService appbilling.InvoiceService
	pdfService     appbilling.InvoicePDFService
}

// NewBillingHandler creates a new billing handler. pdfService may be nil when
// PDF rendering is disabled.
func NewBillingHandler(invoiceService appbilling.InvoiceService, pdfService appbilling.InvoicePDFService) *BillingHandler {
	return &BillingHandler{
		invoiceService: invoiceService,
		pdfService:     pdfService,
	}
}

// CreateMeasurementRequest is the payload for a new roof measurement
type CreateMeasurementRequest struct {
	CustomerID  uuid.UUID       `json:"customerId" binding:"required"`
	Source      string          `json:"source" binding:"omitempty,oneof=manual aerial drone"`
	Squares     decimal.Decimal `json:"squares" binding:"required"`
	PitchFactor decimal.Decimal `json:"pitchFactor"`
	WastePct    decimal.Decimal `json:"wastePct"`
	Notes       string          `json:"notes" binding:"max=2000"`
}

// QuoteRequest prices an invoice from a measurement
type QuoteRequest struct {
	MeasurementID    uuid.UUID       `json:"measurementId" binding:"required"`
	PricePerSquare   decimal.Decimal `json:"pricePerSquare" binding:"required"`
	TearOffPerSquare decimal.Decimal `json:"tearOffPerSquare"`
	TaxRatePct       decimal.Decimal `json:"taxRatePct"`
}

// AddLineRequest appends a free-form line to a draft invoice
type AddLineRequest struct {
	Description string          `json:"description" binding:"required,max=500"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unitPrice" binding:"required"`
}

// CreateMeasurement records a roof measurement
// POST /api/v1/measurements
func (h *BillingHandler) CreateMeasurement(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}

	var req CreateMeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request: "+err.Error())
		return
	}

	measurement, err := h.invoiceService.CreateMeasurement(c.Request.Context(), tid, appbilling.CreateMeasurementInput{
		CustomerID:  req.CustomerID,
		Source:      billing.MeasurementSource(req.Source),
		Squares:     req.Squares,
		PitchFactor: req.PitchFactor,
		WastePct:    req.WastePct,
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, measurement)
}

// GetMeasurement fetches a single measurement
// GET /api/v1/measurements/:id
func (h *BillingHandler) GetMeasurement(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	measurement, err := h.invoiceService.GetMeasurement(c.Request.Context(), tid, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, measurement)
}

// ListMeasurements lists a customer's measurements
// GET /api/v1/customers/:id/measurements
func (h *BillingHandler) ListMeasurements(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	customerID, ok := idParam(c)
	if !ok {
		return
	}

	items, err := h.invoiceService.ListMeasurementsByCustomer(c.Request.Context(), tid, customerID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, items)
}

// Quote creates a draft invoice priced from a measurement
// POST /api/v1/invoices/quote
func (h *BillingHandler) Quote(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}

	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request: "+err.Error())
		return
	}

	invoice, err := h.invoiceService.QuoteFromMeasurement(c.Request.Context(), tid, appbilling.QuoteInput{
		MeasurementID:    req.MeasurementID,
		PricePerSquare:   req.PricePerSquare,
		TearOffPerSquare: req.TearOffPerSquare,
		TaxRatePct:       req.TaxRatePct,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, invoice)
}

// GetInvoice fetches a single invoice with its lines
// GET /api/v1/invoices/:id
func (h *BillingHandler) GetInvoice(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), tid, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, invoice)
}

// ListInvoices lists invoices with pagination
// GET /api/v1/invoices
func (h *BillingHandler) ListInvoices(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	filter, ok := bindFilter(c)
	if !ok {
		return
	}

	page, err := h.invoiceService.ListInvoices(c.Request.Context(), tid, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPaginated(c, page)
}

// AddLine appends a line to a draft invoice
// POST /api/v1/invoices/:id/lines
func (h *BillingHandler) AddLine(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request: "+err.Error())
		return
	}

	invoice, err := h.invoiceService.AddInvoiceLine(c.Request.Context(), tid, id, appbilling.AddLineInput{
		Description: req.Description,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, invoice)
}

// Send marks a draft invoice as sent
// POST /api/v1/invoices/:id/send
func (h *BillingHandler) Send(c *gin.Context) {
	h.transition(c, h.invoiceService.SendInvoice)
}

// MarkPaid marks a sent invoice as paid
// POST /api/v1/invoices/:id/pay
func (h *BillingHandler) MarkPaid(c *gin.Context) {
	h.transition(c, h.invoiceService.MarkInvoicePaid)
}

// Void voids an unpaid invoice
// POST /api/v1/invoices/:id/void
func (h *BillingHandler) Void(c *gin.Context) {
	h.transition(c, h.invoiceService.VoidInvoice)
}

func (h *BillingHandler) transition(c *gin.Context, op func(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error)) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	invoice, err := op(c.Request.Context(), tid, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, invoice)
}

// DownloadPDF streams the invoice as a rendered PDF
// GET /api/v1/invoices/:id/pdf
func (h *BillingHandler) DownloadPDF(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if h.pdfService == nil {
		respondBadRequest(c, "PDF rendering is not enabled")
		return
	}

	pdf, filename, err := h.pdfService.RenderInvoicePDF(c.Request.Context(), tid, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// ArchivePDF renders the invoice PDF into object storage and returns a link
// POST /api/v1/invoices/:id/archive
func (h *BillingHandler) ArchivePDF(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if h.pdfService == nil {
		respondBadRequest(c, "PDF rendering is not enabled")
		return
	}

	link, err := h.pdfService.ArchiveInvoicePDF(c.Request.Context(), tid, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, link)
}
