package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ridgeline/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the lifecycle of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "draft"
	InvoiceStatusSent  InvoiceStatus = "sent"
	InvoiceStatusPaid  InvoiceStatus = "paid"
	InvoiceStatusVoid  InvoiceStatus = "void"
)

// InvoiceLine is one priced line on an invoice
type InvoiceLine struct {
	shared.BaseEntity
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:varchar(300);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (InvoiceLine) TableName() string {
	return "invoice_lines"
}

// Invoice is the aggregate root for customer billing
type Invoice struct {
	shared.TenantAggregateRoot
	Number        string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoice_tenant_number,priority:2"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	MeasurementID *uuid.UUID      `gorm:"type:uuid;index"`
	Status        InvoiceStatus   `gorm:"type:varchar(20);not null;default:'draft'"`
	Lines         []InvoiceLine   `gorm:"foreignKey:InvoiceID"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TaxRatePct    decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Total         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	IssuedAt      *time.Time
	PaidAt        *time.Time
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates an empty draft invoice
func NewInvoice(tenantID, customerID uuid.UUID, number string, taxRatePct decimal.Decimal) (*Invoice, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot be empty")
	}
	if taxRatePct.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}
	return &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              strings.ToUpper(number),
		CustomerID:          customerID,
		Status:              InvoiceStatusDraft,
		TaxRatePct:          taxRatePct,
		Subtotal:            decimal.Zero,
		TaxAmount:           decimal.Zero,
		Total:               decimal.Zero,
	}, nil
}

// NewInvoiceFromMeasurement derives a priced draft invoice from a roof
// measurement: one materials+labor line at the given price per square,
// plus a tear-off line when requested.
func NewInvoiceFromMeasurement(tenantID uuid.UUID, number string, m *RoofMeasurement, pricePerSquare, tearOffPerSquare, taxRatePct decimal.Decimal) (*Invoice, error) {
	if pricePerSquare.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price per square must be positive")
	}
	inv, err := NewInvoice(tenantID, m.CustomerID, number, taxRatePct)
	if err != nil {
		return nil, err
	}
	inv.MeasurementID = &m.ID

	squares := m.BillableSquares()
	if err := inv.AddLine(fmt.Sprintf("Roof replacement - %s squares @ %s/sq", squares.String(), pricePerSquare.StringFixed(2)), squares, pricePerSquare); err != nil {
		return nil, err
	}
	if tearOffPerSquare.GreaterThan(decimal.Zero) {
		if err := inv.AddLine(fmt.Sprintf("Tear-off and disposal - %s squares", squares.String()), squares, tearOffPerSquare); err != nil {
			return nil, err
		}
	}
	return inv, nil
}

// AddLine appends a priced line and recomputes totals. Only drafts change.
func (i *Invoice) AddLine(description string, quantity, unitPrice decimal.Decimal) error {
	if i.Status != InvoiceStatusDraft {
		return shared.ErrInvalidState
	}
	if strings.TrimSpace(description) == "" {
		return shared.NewDomainError("INVALID_LINE", "Line description cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_LINE", "Line quantity must be positive")
	}
	line := InvoiceLine{
		BaseEntity:  shared.NewBaseEntity(),
		InvoiceID:   i.ID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Amount:      quantity.Mul(unitPrice).Round(2),
	}
	i.Lines = append(i.Lines, line)
	i.recalculate()
	return nil
}

// Send marks a draft invoice as sent
func (i *Invoice) Send() error {
	if i.Status != InvoiceStatusDraft {
		return shared.ErrInvalidState
	}
	if len(i.Lines) == 0 {
		return shared.NewDomainError("EMPTY_INVOICE", "Cannot send an invoice without lines")
	}
	now := time.Now()
	i.Status = InvoiceStatusSent
	i.IssuedAt = &now
	i.touch()
	return nil
}

// MarkPaid marks a sent invoice as paid
func (i *Invoice) MarkPaid() error {
	if i.Status != InvoiceStatusSent {
		return shared.ErrInvalidState
	}
	now := time.Now()
	i.Status = InvoiceStatusPaid
	i.PaidAt = &now
	i.touch()
	return nil
}

// Void cancels an unpaid invoice
func (i *Invoice) Void() error {
	if i.Status == InvoiceStatusPaid {
		return shared.ErrInvalidState
	}
	i.Status = InvoiceStatusVoid
	i.touch()
	return nil
}

func (i *Invoice) recalculate() {
	subtotal := decimal.Zero
	for _, line := range i.Lines {
		subtotal = subtotal.Add(line.Amount)
	}
	hundred := decimal.NewFromInt(100)
	i.Subtotal = subtotal
	i.TaxAmount = subtotal.Mul(i.TaxRatePct).Div(hundred).Round(2)
	i.Total = i.Subtotal.Add(i.TaxAmount)
	i.touch()
}

func (i *Invoice) touch() {
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}
