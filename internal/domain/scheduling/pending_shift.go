package scheduling

import (
	"time"

	"github.com/google/uuid"
	"github.com/ridgeline/backend/internal/domain/shared"
)

// PendingShiftStatus is the state of the most recent automatic shift record.
type PendingShiftStatus string

const (
	PendingShiftStatusPending   PendingShiftStatus = "pending"
	PendingShiftStatusConfirmed PendingShiftStatus = "confirmed"
	PendingShiftStatusUndone    PendingShiftStatus = "undone"
)

// PendingShift records the most recent unconfirmed automatic rain shift for a
// tenant, enabling one-step undo. At most one record exists per tenant; a new
// shift run overwrites any terminal record with a fresh pending one.
//
// Transitions: pending -> confirmed or pending -> undone, both terminal. The
// aggregate version guards confirm/undo against racing shift runs: a save with
// a stale version fails with a concurrency conflict instead of clobbering a
// newer record.
type PendingShift struct {
	shared.TenantAggregateRoot
	Status         PendingShiftStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	ShiftDays      int                `gorm:"not null;default:0"`
	JobIDs         []uuid.UUID        `gorm:"-"`
	FirstRainDate  string             `gorm:"type:varchar(10)"`
	ProcessedCount int                `gorm:"not null;default:0"`
	ShiftedCount   int                `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (PendingShift) TableName() string {
	return "pending_shifts"
}

// NewPendingShift records a freshly applied rain shift awaiting confirm/undo.
// JobIDs must exactly match the appointments the shift mutated so that undo
// reverts precisely those rows by exactly -ShiftDays.
func NewPendingShift(tenantID uuid.UUID, plan RainShiftPlan, jobIDs []uuid.UUID, processed int) *PendingShift {
	return &PendingShift{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Status:              PendingShiftStatusPending,
		ShiftDays:           plan.ShiftDays,
		JobIDs:              jobIDs,
		FirstRainDate:       plan.FirstRain,
		ProcessedCount:      processed,
		ShiftedCount:        len(jobIDs),
	}
}

// IsPending reports whether the record still awaits confirm/undo.
func (p *PendingShift) IsPending() bool {
	return p.Status == PendingShiftStatusPending
}

// Confirm acknowledges the applied shift and clears the payload. Appointments
// are not touched; the shift is already in place. Confirming a terminal
// record is a no-op, keeping the operation idempotent.
func (p *PendingShift) Confirm() {
	if !p.IsPending() {
		return
	}
	p.Status = PendingShiftStatusConfirmed
	p.clearPayload()
}

// MarkUndone terminal-marks the record after its appointments were reverted.
// Callers read ShiftDays/JobIDs before invoking this; the payload is cleared.
func (p *PendingShift) MarkUndone() {
	p.Status = PendingShiftStatusUndone
	p.clearPayload()
}

func (p *PendingShift) clearPayload() {
	p.ShiftDays = 0
	p.JobIDs = nil
	p.FirstRainDate = ""
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Reset overwrites a terminal record with a fresh pending shift, preserving
// identity so the per-tenant singleton row is reused.
func (p *PendingShift) Reset(plan RainShiftPlan, jobIDs []uuid.UUID, processed int) {
	p.Status = PendingShiftStatusPending
	p.ShiftDays = plan.ShiftDays
	p.JobIDs = jobIDs
	p.FirstRainDate = plan.FirstRain
	p.ProcessedCount = processed
	p.ShiftedCount = len(jobIDs)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
