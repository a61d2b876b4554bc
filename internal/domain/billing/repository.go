package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/ridgeline/backend/internal/domain/shared"
)

// RoofMeasurementRepository defines the interface for measurement persistence
type RoofMeasurementRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*RoofMeasurement, error)
	FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]RoofMeasurement, error)
	Save(ctx context.Context, measurement *RoofMeasurement) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Invoice, error)
	Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	NextNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
	Save(ctx context.Context, invoice *Invoice) error
}
