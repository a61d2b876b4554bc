package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ridgeline/backend/internal/domain/scheduling"
	"github.com/ridgeline/backend/internal/domain/shared"
)

// pendingShiftRecord is the storage shape of a PendingShift. The job ID
// payload rides in a jsonb column; the domain aggregate keeps it as a slice.
type pendingShiftRecord struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Status         string    `gorm:"type:varchar(20);not null"`
	ShiftDays      int       `gorm:"not null;default:0"`
	JobIDs         []byte    `gorm:"type:jsonb"`
	FirstRainDate  string    `gorm:"type:varchar(10)"`
	ProcessedCount int       `gorm:"not null;default:0"`
	ShiftedCount   int       `gorm:"not null;default:0"`
	Version        int       `gorm:"not null;default:1"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName returns the table name for GORM
func (pendingShiftRecord) TableName() string {
	return "pending_shifts"
}

func (r *pendingShiftRecord) toDomain() (*scheduling.PendingShift, error) {
	shift := &scheduling.PendingShift{
		Status:         scheduling.PendingShiftStatus(r.Status),
		ShiftDays:      r.ShiftDays,
		FirstRainDate:  r.FirstRainDate,
		ProcessedCount: r.ProcessedCount,
		ShiftedCount:   r.ShiftedCount,
	}
	shift.ID = r.ID
	shift.TenantID = r.TenantID
	shift.Version = r.Version
	shift.CreatedAt = r.CreatedAt
	shift.UpdatedAt = r.UpdatedAt

	if len(r.JobIDs) > 0 {
		if err := json.Unmarshal(r.JobIDs, &shift.JobIDs); err != nil {
			return nil, err
		}
	}
	return shift, nil
}

func pendingShiftRecordFromDomain(shift *scheduling.PendingShift) (*pendingShiftRecord, error) {
	jobIDs, err := json.Marshal(shift.JobIDs)
	if err != nil {
		return nil, err
	}
	return &pendingShiftRecord{
		ID:             shift.ID,
		TenantID:       shift.TenantID,
		Status:         string(shift.Status),
		ShiftDays:      shift.ShiftDays,
		JobIDs:         jobIDs,
		FirstRainDate:  shift.FirstRainDate,
		ProcessedCount: shift.ProcessedCount,
		ShiftedCount:   shift.ShiftedCount,
		Version:        shift.Version,
		CreatedAt:      shift.CreatedAt,
		UpdatedAt:      shift.UpdatedAt,
	}, nil
}

// GormPendingShiftRepository implements PendingShiftRepository using GORM
type GormPendingShiftRepository struct {
	db *gorm.DB
}

// NewGormPendingShiftRepository creates a new GormPendingShiftRepository
func NewGormPendingShiftRepository(db *gorm.DB) *GormPendingShiftRepository {
	return &GormPendingShiftRepository{db: db}
}

// FindByTenant returns the tenant's pending-shift record
func (r *GormPendingShiftRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) (*scheduling.PendingShift, error) {
	var record pendingShiftRecord
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain()
}

// Upsert writes the record, replacing any existing one for the tenant.
// The tenant_id unique index makes the singleton row authoritative.
func (r *GormPendingShiftRepository) Upsert(ctx context.Context, shift *scheduling.PendingShift) error {
	record, err := pendingShiftRecordFromDomain(shift)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tenant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "shift_days", "job_ids", "first_rain_date",
				"processed_count", "shifted_count", "version", "updated_at",
			}),
		}).
		Create(record).Error
}

// SaveWithLock updates the record only if its persisted version matches the
// version the caller loaded. The domain bumps Version before saving, so the
// expected persisted version is Version-1.
func (r *GormPendingShiftRepository) SaveWithLock(ctx context.Context, shift *scheduling.PendingShift) error {
	record, err := pendingShiftRecordFromDomain(shift)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&pendingShiftRecord{}).
		Where("id = ? AND version = ?", shift.ID, shift.Version-1).
		Updates(map[string]any{
			"status":          record.Status,
			"shift_days":      record.ShiftDays,
			"job_ids":         record.JobIDs,
			"first_rain_date": record.FirstRainDate,
			"processed_count": record.ProcessedCount,
			"shifted_count":   record.ShiftedCount,
			"version":         record.Version,
			"updated_at":      record.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Ensure GormPendingShiftRepository implements PendingShiftRepository
var _ scheduling.PendingShiftRepository = (*GormPendingShiftRepository)(nil)
