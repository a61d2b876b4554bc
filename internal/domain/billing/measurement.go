package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/ridgeline/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MeasurementSource describes how a roof measurement was produced
type MeasurementSource string

const (
	MeasurementSourceManual MeasurementSource = "manual"
	MeasurementSourceAerial MeasurementSource = "aerial"
	MeasurementSourceDrone  MeasurementSource = "drone"
)

// RoofMeasurement captures the measured size and complexity of a roof.
// Squares are roofing squares (100 sq ft each). PitchFactor scales flat
// area to actual surface area; WastePct covers cut-offs and overlap.
type RoofMeasurement struct {
	shared.TenantAggregateRoot
	CustomerID  uuid.UUID         `gorm:"type:uuid;not null;index"`
	Source      MeasurementSource `gorm:"type:varchar(20);not null;default:'manual'"`
	Squares     decimal.Decimal   `gorm:"type:decimal(10,2);not null"`
	PitchFactor decimal.Decimal   `gorm:"type:decimal(6,3);not null;default:1"`
	WastePct    decimal.Decimal   `gorm:"type:decimal(5,2);not null;default:10"`
	Notes       string            `gorm:"type:text"`
	MeasuredAt  time.Time         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RoofMeasurement) TableName() string {
	return "roof_measurements"
}

// NewRoofMeasurement creates a measurement for a customer's roof
func NewRoofMeasurement(tenantID, customerID uuid.UUID, source MeasurementSource, squares, pitchFactor, wastePct decimal.Decimal) (*RoofMeasurement, error) {
	if squares.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_SQUARES", "Squares must be positive")
	}
	if pitchFactor.LessThan(decimal.NewFromInt(1)) {
		return nil, shared.NewDomainError("INVALID_PITCH_FACTOR", "Pitch factor cannot be below 1")
	}
	if wastePct.IsNegative() || wastePct.GreaterThan(decimal.NewFromInt(50)) {
		return nil, shared.NewDomainError("INVALID_WASTE_PCT", "Waste percent must be between 0 and 50")
	}
	if source == "" {
		source = MeasurementSourceManual
	}
	return &RoofMeasurement{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CustomerID:          customerID,
		Source:              source,
		Squares:             squares,
		PitchFactor:         pitchFactor,
		WastePct:            wastePct,
		MeasuredAt:          time.Now(),
	}, nil
}

// BillableSquares derives the squares to charge for: measured squares scaled
// by pitch, plus waste, rounded up to the next half square.
func (m *RoofMeasurement) BillableSquares() decimal.Decimal {
	scaled := m.Squares.Mul(m.PitchFactor)
	hundred := decimal.NewFromInt(100)
	withWaste := scaled.Mul(hundred.Add(m.WastePct)).Div(hundred)
	half := decimal.NewFromFloat(0.5)
	return withWaste.Div(half).Ceil().Mul(half)
}
