package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/ridgeline/backend/internal/domain/billing"
	"github.com/ridgeline/backend/internal/domain/shared"
)

// InvoiceService manages roof measurements and the invoices priced from them.
type InvoiceService interface {
	CreateMeasurement(ctx context.Context, tenantID uuid.UUID, input CreateMeasurementInput) (*billing.RoofMeasurement, error)
	GetMeasurement(ctx context.Context, tenantID, id uuid.UUID) (*billing.RoofMeasurement, error)
	ListMeasurementsByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]billing.RoofMeasurement, error)
	QuoteFromMeasurement(ctx context.Context, tenantID uuid.UUID, input QuoteInput) (*billing.Invoice, error)
	GetInvoice(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error)
	ListInvoices(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[billing.Invoice], error)
	AddInvoiceLine(ctx context.Context, tenantID, id uuid.UUID, input AddLineInput) (*billing.Invoice, error)
	SendInvoice(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error)
	MarkInvoicePaid(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error)
	VoidInvoice(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error)
}

// InvoiceServiceImpl implements InvoiceService
type InvoiceServiceImpl struct {
	measurementRepo billing.RoofMeasurementRepository
	invoiceRepo     billing.InvoiceRepository
}

// NewInvoiceService creates a new InvoiceServiceImpl
func NewInvoiceService(
	measurementRepo billing.RoofMeasurementRepository,
	invoiceRepo billing.InvoiceRepository,
) *InvoiceServiceImpl {
	return &InvoiceServiceImpl{
		measurementRepo: measurementRepo,
		invoiceRepo:     invoiceRepo,
	}
}

// CreateMeasurement records a roof measurement for a customer
func (s *InvoiceServiceImpl) CreateMeasurement(ctx context.Context, tenantID uuid.UUID, input CreateMeasurementInput) (*billing.RoofMeasurement, error) {
	measurement, err := billing.NewRoofMeasurement(tenantID, input.CustomerID, input.Source,
		input.Squares, input.PitchFactor, input.WastePct)
	if err != nil {
		return nil, err
	}
	measurement.Notes = input.Notes
	if err := s.measurementRepo.Save(ctx, measurement); err != nil {
		return nil, err
	}
	return measurement, nil
}

// GetMeasurement retrieves a measurement by ID
func (s *InvoiceServiceImpl) GetMeasurement(ctx context.Context, tenantID, id uuid.UUID) (*billing.RoofMeasurement, error) {
	return s.measurementRepo.FindByIDForTenant(ctx, tenantID, id)
}

// ListMeasurementsByCustomer lists a customer's measurements
func (s *InvoiceServiceImpl) ListMeasurementsByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]billing.RoofMeasurement, error) {
	return s.measurementRepo.FindByCustomer(ctx, tenantID, customerID)
}

// QuoteFromMeasurement derives a priced draft invoice from a measurement,
// assigning the next invoice number in the tenant's sequence.
func (s *InvoiceServiceImpl) QuoteFromMeasurement(ctx context.Context, tenantID uuid.UUID, input QuoteInput) (*billing.Invoice, error) {
	measurement, err := s.measurementRepo.FindByIDForTenant(ctx, tenantID, input.MeasurementID)
	if err != nil {
		return nil, err
	}
	number, err := s.invoiceRepo.NextNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	invoice, err := billing.NewInvoiceFromMeasurement(tenantID, number, measurement,
		input.PricePerSquare, input.TearOffPerSquare, input.TaxRatePct)
	if err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// GetInvoice retrieves an invoice by ID
func (s *InvoiceServiceImpl) GetInvoice(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	return s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
}

// ListInvoices lists invoices with pagination
func (s *InvoiceServiceImpl) ListInvoices(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[billing.Invoice], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	items, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.invoiceRepo.Count(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// AddInvoiceLine appends a free-form line to a draft invoice
func (s *InvoiceServiceImpl) AddInvoiceLine(ctx context.Context, tenantID, id uuid.UUID, input AddLineInput) (*billing.Invoice, error) {
	return s.mutateInvoice(ctx, tenantID, id, func(inv *billing.Invoice) error {
		return inv.AddLine(input.Description, input.Quantity, input.UnitPrice)
	})
}

// SendInvoice marks a draft invoice as sent
func (s *InvoiceServiceImpl) SendInvoice(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	return s.mutateInvoice(ctx, tenantID, id, (*billing.Invoice).Send)
}

// MarkInvoicePaid marks a sent invoice as paid
func (s *InvoiceServiceImpl) MarkInvoicePaid(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	return s.mutateInvoice(ctx, tenantID, id, (*billing.Invoice).MarkPaid)
}

// VoidInvoice cancels an unpaid invoice
func (s *InvoiceServiceImpl) VoidInvoice(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	return s.mutateInvoice(ctx, tenantID, id, (*billing.Invoice).Void)
}

func (s *InvoiceServiceImpl) mutateInvoice(ctx context.Context, tenantID, id uuid.UUID, mutate func(*billing.Invoice) error) (*billing.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := mutate(invoice); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// Ensure implementation satisfies interface
var _ InvoiceService = (*InvoiceServiceImpl)(nil)
