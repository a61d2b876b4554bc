package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgeline/backend/internal/domain/scheduling"
	"github.com/ridgeline/backend/internal/domain/shared"
	"github.com/ridgeline/backend/internal/infrastructure/persistence"
)

// TestAppointmentRepository_ShiftBatch exercises the batch day-shift update
// against a real PostgreSQL database, where make_interval is available.
func TestAppointmentRepository_ShiftBatch(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormAppointmentRepository(testDB.DB)
	ctx := context.Background()
	tenantID := uuid.New()

	day := time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)

	var jobIDs []uuid.UUID
	for i := 0; i < 3; i++ {
		start := day.AddDate(0, 0, i)
		job, err := scheduling.NewJob(tenantID, "Shingle tear-off", nil, start, start.AddDate(0, 0, 1))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, job))
		jobIDs = append(jobIDs, job.ID)
	}

	// A timed appointment that must not move.
	meeting, err := scheduling.NewAppointment(tenantID, "Supplier meeting", day.Add(9*time.Hour), day.Add(10*time.Hour), false)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, meeting))

	t.Run("shifts only the listed jobs", func(t *testing.T) {
		shifted, err := repo.ShiftBatch(ctx, tenantID, jobIDs, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(3), shifted)

		moved, err := repo.FindByIDs(ctx, tenantID, jobIDs)
		require.NoError(t, err)
		require.Len(t, moved, 3)
		for _, appt := range moved {
			assert.True(t, appt.Start.Equal(day.AddDate(0, 0, 2)) ||
				appt.Start.Equal(day.AddDate(0, 0, 3)) ||
				appt.Start.Equal(day.AddDate(0, 0, 4)),
				"unexpected shifted start %s", appt.Start)
			assert.True(t, appt.End.Sub(appt.Start) == 24*time.Hour)
			assert.Equal(t, 2, appt.Version)
		}

		untouched, err := repo.FindByIDForTenant(ctx, tenantID, meeting.ID)
		require.NoError(t, err)
		assert.True(t, untouched.Start.Equal(meeting.Start))
	})

	t.Run("negative days shift backwards", func(t *testing.T) {
		shifted, err := repo.ShiftBatch(ctx, tenantID, jobIDs[:1], -2)
		require.NoError(t, err)
		assert.Equal(t, int64(1), shifted)

		reverted, err := repo.FindByIDForTenant(ctx, tenantID, jobIDs[0])
		require.NoError(t, err)
		assert.True(t, reverted.Start.Equal(day))
	})

	t.Run("missing rows are skipped", func(t *testing.T) {
		shifted, err := repo.ShiftBatch(ctx, tenantID, []uuid.UUID{uuid.New(), jobIDs[1]}, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), shifted)
	})

	t.Run("other tenants are untouched", func(t *testing.T) {
		shifted, err := repo.ShiftBatch(ctx, uuid.New(), jobIDs, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(0), shifted)
	})

	t.Run("zero days is a no-op", func(t *testing.T) {
		shifted, err := repo.ShiftBatch(ctx, tenantID, jobIDs, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(0), shifted)
	})
}

// TestAppointmentRepository_RangeQueries verifies the calendar window and
// all-day lookups used by the shift policies.
func TestAppointmentRepository_RangeQueries(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormAppointmentRepository(testDB.DB)
	ctx := context.Background()
	tenantID := uuid.New()

	monday := time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)

	job, err := scheduling.NewJob(tenantID, "Ridge cap install", nil, monday, monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, job))

	laterJob, err := scheduling.NewJob(tenantID, "Flat roof coating", nil, monday.AddDate(0, 0, 3), monday.AddDate(0, 0, 4))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, laterJob))

	meeting, err := scheduling.NewAppointment(tenantID, "Estimate visit", monday.Add(14*time.Hour), monday.Add(15*time.Hour), false)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, meeting))

	t.Run("FindInRange returns overlapping entries ordered by start", func(t *testing.T) {
		appts, err := repo.FindInRange(ctx, tenantID, monday, monday.AddDate(0, 0, 2))
		require.NoError(t, err)
		require.Len(t, appts, 2)
		assert.Equal(t, job.ID, appts[0].ID)
		assert.Equal(t, meeting.ID, appts[1].ID)
	})

	t.Run("FindAllDayStartingFrom includes the boundary day", func(t *testing.T) {
		appts, err := repo.FindAllDayStartingFrom(ctx, tenantID, monday)
		require.NoError(t, err)
		require.Len(t, appts, 2)
		assert.Equal(t, job.ID, appts[0].ID)
	})

	t.Run("FindAllDayStartingAfter excludes the boundary day", func(t *testing.T) {
		appts, err := repo.FindAllDayStartingAfter(ctx, tenantID, monday)
		require.NoError(t, err)
		require.Len(t, appts, 1)
		assert.Equal(t, laterJob.ID, appts[0].ID)
	})

	t.Run("FindAllForTenant with search", func(t *testing.T) {
		appts, err := repo.FindAllForTenant(ctx, tenantID, shared.Filter{Page: 1, PageSize: 10, Search: "ridge"})
		require.NoError(t, err)
		require.Len(t, appts, 1)
		assert.Equal(t, job.ID, appts[0].ID)
	})
}

// TestPendingShiftRepository_Lifecycle runs the pending-shift record through
// the states the weather shift service drives it through.
func TestPendingShiftRepository_Lifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormPendingShiftRepository(testDB.DB)
	ctx := context.Background()
	tenantID := uuid.New()

	plan := scheduling.RainShiftPlan{FirstRain: "2026-04-08", ShiftDays: 2}
	jobIDs := []uuid.UUID{uuid.New(), uuid.New()}

	t.Run("FindByTenant before any shift", func(t *testing.T) {
		_, err := repo.FindByTenant(ctx, tenantID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	shift := scheduling.NewPendingShift(tenantID, plan, jobIDs, 5)

	t.Run("Upsert and round-trip", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, shift))

		found, err := repo.FindByTenant(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, shift.ID, found.ID)
		assert.Equal(t, scheduling.PendingShiftStatusPending, found.Status)
		assert.Equal(t, 2, found.ShiftDays)
		assert.Equal(t, jobIDs, found.JobIDs)
		assert.Equal(t, "2026-04-08", found.FirstRainDate)
		assert.Equal(t, 5, found.ProcessedCount)
		assert.Equal(t, 2, found.ShiftedCount)
	})

	t.Run("Upsert replaces the singleton row", func(t *testing.T) {
		newPlan := scheduling.RainShiftPlan{FirstRain: "2026-04-10", ShiftDays: 1}
		replacement := scheduling.NewPendingShift(tenantID, newPlan, jobIDs[:1], 3)
		require.NoError(t, repo.Upsert(ctx, replacement))

		found, err := repo.FindByTenant(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, 1, found.ShiftDays)
		assert.Equal(t, "2026-04-10", found.FirstRainDate)

		var count int64
		require.NoError(t, testDB.DB.Table("pending_shifts").Where("tenant_id = ?", tenantID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("SaveWithLock confirms with matching version", func(t *testing.T) {
		found, err := repo.FindByTenant(ctx, tenantID)
		require.NoError(t, err)

		found.Confirm()
		require.NoError(t, repo.SaveWithLock(ctx, found))

		confirmed, err := repo.FindByTenant(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, scheduling.PendingShiftStatusConfirmed, confirmed.Status)
		assert.Empty(t, confirmed.JobIDs)
		assert.Equal(t, 0, confirmed.ShiftDays)
	})

	t.Run("SaveWithLock rejects a stale version", func(t *testing.T) {
		stale, err := repo.FindByTenant(ctx, tenantID)
		require.NoError(t, err)

		// Someone else bumps the row first.
		racing, err := repo.FindByTenant(ctx, tenantID)
		require.NoError(t, err)
		racing.MarkUndone()
		require.NoError(t, repo.SaveWithLock(ctx, racing))

		stale.MarkUndone()
		err = repo.SaveWithLock(ctx, stale)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

// TestPendingShiftRepository_TenantIsolation verifies one tenant's record
// never leaks into another tenant's lookups.
func TestPendingShiftRepository_TenantIsolation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormPendingShiftRepository(testDB.DB)
	ctx := context.Background()

	tenant1 := uuid.New()
	tenant2 := uuid.New()
	plan := scheduling.RainShiftPlan{FirstRain: "2026-04-08", ShiftDays: 1}

	require.NoError(t, repo.Upsert(ctx, scheduling.NewPendingShift(tenant1, plan, []uuid.UUID{uuid.New()}, 1)))

	found, err := repo.FindByTenant(ctx, tenant1)
	require.NoError(t, err)
	assert.Equal(t, tenant1, found.TenantID)

	_, err = repo.FindByTenant(ctx, tenant2)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
