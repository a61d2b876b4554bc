package billing

import (
	"github.com/google/uuid"
	"github.com/ridgeline/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// CreateMeasurementInput carries the fields for a new roof measurement.
type CreateMeasurementInput struct {
	CustomerID  uuid.UUID
	Source      billing.MeasurementSource
	Squares     decimal.Decimal
	PitchFactor decimal.Decimal
	WastePct    decimal.Decimal
	Notes       string
}

// QuoteInput prices an invoice derived from a measurement.
type QuoteInput struct {
	MeasurementID    uuid.UUID
	PricePerSquare   decimal.Decimal
	TearOffPerSquare decimal.Decimal
	TaxRatePct       decimal.Decimal
}

// AddLineInput appends a free-form line to a draft invoice.
type AddLineInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}
