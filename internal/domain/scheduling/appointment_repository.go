package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ridgeline/backend/internal/domain/shared"
)

// AppointmentRepository defines the interface for appointment persistence
type AppointmentRepository interface {
	// FindByIDForTenant finds an appointment by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Appointment, error)

	// FindAllForTenant finds all appointments for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Appointment, error)

	// FindInRange finds appointments overlapping [from, to) for a tenant
	FindInRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]Appointment, error)

	// FindAllDayStartingFrom finds all-day appointments with start >= from,
	// ordered by start ascending
	FindAllDayStartingFrom(ctx context.Context, tenantID uuid.UUID, from time.Time) ([]Appointment, error)

	// FindAllDayStartingAfter finds all-day appointments with start > from,
	// ordered by start ascending
	FindAllDayStartingAfter(ctx context.Context, tenantID uuid.UUID, from time.Time) ([]Appointment, error)

	// FindByIDs finds appointments by their IDs within a tenant
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Appointment, error)

	// Save creates or updates an appointment
	Save(ctx context.Context, appointment *Appointment) error

	// Delete removes an appointment within a tenant
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// Count counts appointments for a tenant
	Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// ShiftBatch moves start and end of the given appointments by whole days
	// inside a single transaction. Returns the number of rows updated;
	// IDs that no longer exist are skipped, not errors.
	ShiftBatch(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID, days int) (int64, error)
}

// PendingShiftRepository defines the interface for pending-shift persistence.
// One record exists per tenant.
type PendingShiftRepository interface {
	// FindByTenant returns the tenant's pending-shift record, or
	// shared.ErrNotFound when none exists
	FindByTenant(ctx context.Context, tenantID uuid.UUID) (*PendingShift, error)

	// Upsert writes the record, replacing any existing one for the tenant
	Upsert(ctx context.Context, shift *PendingShift) error

	// SaveWithLock updates the record only if its persisted version matches
	// the version the caller loaded; returns shared.ErrConcurrencyConflict
	// otherwise
	SaveWithLock(ctx context.Context, shift *PendingShift) error
}
