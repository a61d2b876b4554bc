package scheduling

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPendingShift(t *testing.T) *PendingShift {
	t.Helper()
	plan := RainShiftPlan{FirstRain: "2025-06-10", ShiftDays: 2}
	jobIDs := []uuid.UUID{uuid.New(), uuid.New()}
	return NewPendingShift(uuid.New(), plan, jobIDs, 2)
}

func TestNewPendingShift(t *testing.T) {
	plan := RainShiftPlan{FirstRain: "2025-06-10", ShiftDays: 2}
	jobIDs := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	shift := NewPendingShift(uuid.New(), plan, jobIDs, 3)

	assert.Equal(t, PendingShiftStatusPending, shift.Status)
	assert.True(t, shift.IsPending())
	assert.Equal(t, 2, shift.ShiftDays)
	assert.Equal(t, "2025-06-10", shift.FirstRainDate)
	assert.Equal(t, 3, shift.ProcessedCount)
	assert.Equal(t, 3, shift.ShiftedCount)
	assert.Equal(t, jobIDs, shift.JobIDs)
	assert.Equal(t, 1, shift.Version)
}

func TestPendingShift_Confirm(t *testing.T) {
	shift := newTestPendingShift(t)

	shift.Confirm()
	assert.Equal(t, PendingShiftStatusConfirmed, shift.Status)
	assert.False(t, shift.IsPending())
	assert.Zero(t, shift.ShiftDays)
	assert.Nil(t, shift.JobIDs)
	assert.Empty(t, shift.FirstRainDate)
	assert.Equal(t, 2, shift.Version)

	// Confirming again is a no-op, not a version bump.
	shift.Confirm()
	assert.Equal(t, PendingShiftStatusConfirmed, shift.Status)
	assert.Equal(t, 2, shift.Version)
}

func TestPendingShift_MarkUndone(t *testing.T) {
	shift := newTestPendingShift(t)

	shift.MarkUndone()
	assert.Equal(t, PendingShiftStatusUndone, shift.Status)
	assert.Zero(t, shift.ShiftDays)
	assert.Nil(t, shift.JobIDs)
}

func TestPendingShift_ConfirmDoesNotRevertUndone(t *testing.T) {
	shift := newTestPendingShift(t)
	shift.MarkUndone()

	shift.Confirm()
	assert.Equal(t, PendingShiftStatusUndone, shift.Status, "terminal states never transition")
}

func TestPendingShift_Reset(t *testing.T) {
	shift := newTestPendingShift(t)
	originalID := shift.ID
	shift.Confirm()

	plan := RainShiftPlan{FirstRain: "2025-07-01", ShiftDays: 1}
	jobIDs := []uuid.UUID{uuid.New()}
	shift.Reset(plan, jobIDs, 1)

	require.True(t, shift.IsPending(), "a new run overwrites a terminal record")
	assert.Equal(t, originalID, shift.ID, "singleton row identity is preserved")
	assert.Equal(t, 1, shift.ShiftDays)
	assert.Equal(t, "2025-07-01", shift.FirstRainDate)
	assert.Equal(t, jobIDs, shift.JobIDs)
	assert.Equal(t, 3, shift.Version)
}
