package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ridgeline/backend/internal/domain/scheduling"
	"github.com/ridgeline/backend/internal/domain/shared"
)

// GormAppointmentRepository implements AppointmentRepository using GORM
type GormAppointmentRepository struct {
	db *gorm.DB
}

// NewGormAppointmentRepository creates a new GormAppointmentRepository
func NewGormAppointmentRepository(db *gorm.DB) *GormAppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

// FindByIDForTenant finds an appointment by ID within a tenant
func (r *GormAppointmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*scheduling.Appointment, error) {
	var appointment scheduling.Appointment
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &appointment, nil
}

// FindAllForTenant finds all appointments for a tenant
func (r *GormAppointmentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]scheduling.Appointment, error) {
	var appointments []scheduling.Appointment
	query := applyFilter(
		r.db.WithContext(ctx).Model(&scheduling.Appointment{}).Where("tenant_id = ?", tenantID),
		filter, appointmentSortColumns, `"start" ASC`,
	)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR location ILIKE ?", pattern, pattern)
	}
	if err := query.Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

// FindInRange finds appointments overlapping [from, to) for a tenant
func (r *GormAppointmentRepository) FindInRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]scheduling.Appointment, error) {
	var appointments []scheduling.Appointment
	if err := r.db.WithContext(ctx).
		Where(`tenant_id = ? AND "start" < ? AND "end" >= ?`, tenantID, to, from).
		Order(`"start" ASC`).
		Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

// FindAllDayStartingFrom finds all-day appointments with start >= from
func (r *GormAppointmentRepository) FindAllDayStartingFrom(ctx context.Context, tenantID uuid.UUID, from time.Time) ([]scheduling.Appointment, error) {
	return r.findAllDay(ctx, tenantID, `"start" >= ?`, from)
}

// FindAllDayStartingAfter finds all-day appointments with start > from
func (r *GormAppointmentRepository) FindAllDayStartingAfter(ctx context.Context, tenantID uuid.UUID, from time.Time) ([]scheduling.Appointment, error) {
	return r.findAllDay(ctx, tenantID, `"start" > ?`, from)
}

func (r *GormAppointmentRepository) findAllDay(ctx context.Context, tenantID uuid.UUID, startCond string, from time.Time) ([]scheduling.Appointment, error) {
	var appointments []scheduling.Appointment
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND all_day = ?", tenantID, true).
		Where(startCond, from).
		Order(`"start" ASC`).
		Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

// FindByIDs finds appointments by their IDs within a tenant
func (r *GormAppointmentRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]scheduling.Appointment, error) {
	if len(ids) == 0 {
		return []scheduling.Appointment{}, nil
	}
	var appointments []scheduling.Appointment
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

// Save creates or updates an appointment
func (r *GormAppointmentRepository) Save(ctx context.Context, appointment *scheduling.Appointment) error {
	return r.db.WithContext(ctx).Save(appointment).Error
}

// Delete removes an appointment within a tenant
func (r *GormAppointmentRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&scheduling.Appointment{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts appointments for a tenant
func (r *GormAppointmentRepository) Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&scheduling.Appointment{}).Where("tenant_id = ?", tenantID)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR location ILIKE ?", pattern, pattern)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ShiftBatch moves start and end of the given appointments by whole days
// inside a single transaction. Rows that no longer exist are silently
// skipped; the returned count is the number of rows actually moved.
func (r *GormAppointmentRepository) ShiftBatch(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID, days int) (int64, error) {
	if len(ids) == 0 || days == 0 {
		return 0, nil
	}

	var shifted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&scheduling.Appointment{}).
			Where("tenant_id = ? AND id IN ?", tenantID, ids).
			Updates(map[string]any{
				"start":      gorm.Expr(`"start" + make_interval(days => ?)`, days),
				"end":        gorm.Expr(`"end" + make_interval(days => ?)`, days),
				"version":    gorm.Expr("version + 1"),
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		shifted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return shifted, nil
}

// appointmentSortColumns are the columns callers may order appointment
// listings by. Anything else falls back to the default order.
var appointmentSortColumns = map[string]bool{
	"start":      true,
	"title":      true,
	"created_at": true,
	"updated_at": true,
}

// Ensure GormAppointmentRepository implements AppointmentRepository
var _ scheduling.AppointmentRepository = (*GormAppointmentRepository)(nil)
