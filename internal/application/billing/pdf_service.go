package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ridgeline/backend/internal/domain/billing"
	"github.com/ridgeline/backend/internal/domain/crm"
	"github.com/ridgeline/backend/internal/domain/identity"
	"github.com/ridgeline/backend/internal/infrastructure/printing"
	"github.com/ridgeline/backend/internal/infrastructure/storage"
)

// DocumentLink points at an archived invoice PDF
type DocumentLink struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// InvoicePDFService renders invoices to PDF and archives them in object storage
type InvoicePDFService interface {
	RenderInvoicePDF(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]byte, string, error)
	ArchiveInvoicePDF(ctx context.Context, tenantID, invoiceID uuid.UUID) (*DocumentLink, error)
}

// InvoicePDFServiceImpl implements InvoicePDFService
type InvoicePDFServiceImpl struct {
	invoiceRepo  billing.InvoiceRepository
	customerRepo crm.CustomerRepository
	tenantRepo   identity.TenantRepository
	renderer     printing.PDFRenderer
	documents    storage.DocumentStorage
	urlExpiry    time.Duration
	logger       *zap.Logger
}

// NewInvoicePDFService creates a new invoice PDF service
func NewInvoicePDFService(
	invoiceRepo billing.InvoiceRepository,
	customerRepo crm.CustomerRepository,
	tenantRepo identity.TenantRepository,
	renderer printing.PDFRenderer,
	documents storage.DocumentStorage,
	urlExpiry time.Duration,
	logger *zap.Logger,
) *InvoicePDFServiceImpl {
	if urlExpiry <= 0 {
		urlExpiry = 15 * time.Minute
	}
	return &InvoicePDFServiceImpl{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		tenantRepo:   tenantRepo,
		renderer:     renderer,
		documents:    documents,
		urlExpiry:    urlExpiry,
		logger:       logger,
	}
}

var _ InvoicePDFService = (*InvoicePDFServiceImpl)(nil)

// RenderInvoicePDF renders the invoice to PDF bytes and returns a filename
func (s *InvoicePDFServiceImpl) RenderInvoicePDF(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]byte, string, error) {
	doc, err := s.buildDocument(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, "", err
	}

	html, err := printing.RenderInvoiceHTML(*doc)
	if err != nil {
		return nil, "", fmt.Errorf("failed to render invoice HTML: %w", err)
	}

	pdf, err := s.renderer.Render(ctx, html)
	if err != nil {
		s.logger.Error("Invoice PDF render failed",
			zap.String("invoice_id", invoiceID.String()),
			zap.Error(err))
		return nil, "", fmt.Errorf("failed to render invoice PDF: %w", err)
	}

	return pdf, fmt.Sprintf("%s.pdf", doc.Invoice.Number), nil
}

// ArchiveInvoicePDF renders the invoice, stores the PDF, and returns a
// time-limited download link.
func (s *InvoicePDFServiceImpl) ArchiveInvoicePDF(ctx context.Context, tenantID, invoiceID uuid.UUID) (*DocumentLink, error) {
	pdf, filename, err := s.RenderInvoicePDF(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("tenants/%s/invoices/%s", tenantID, filename)
	if err := s.documents.Upload(ctx, key, pdf, "application/pdf"); err != nil {
		return nil, fmt.Errorf("failed to store invoice PDF: %w", err)
	}

	url, expiresAt, err := s.documents.GenerateDownloadURL(ctx, key, s.urlExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign invoice PDF: %w", err)
	}

	s.logger.Info("Invoice PDF archived",
		zap.String("invoice_id", invoiceID.String()),
		zap.String("key", key))

	return &DocumentLink{Key: key, URL: url, ExpiresAt: expiresAt}, nil
}

func (s *InvoicePDFServiceImpl) buildDocument(ctx context.Context, tenantID, invoiceID uuid.UUID) (*printing.InvoiceDocument, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	customerName := ""
	if customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, invoice.CustomerID); err == nil {
		customerName = customer.Name
	}

	return &printing.InvoiceDocument{
		CompanyName:  tenant.Name,
		CustomerName: customerName,
		Invoice:      invoice,
		GeneratedAt:  time.Now(),
	}, nil
}
