package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ridgeline/backend/internal/domain/scheduling"
	"github.com/ridgeline/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type jobFixture struct {
	appointments *MockAppointmentRepository
	pending      *MockPendingShiftRepository
	service      *JobServiceImpl
}

func newJobFixture() *jobFixture {
	f := &jobFixture{
		appointments: new(MockAppointmentRepository),
		pending:      new(MockPendingShiftRepository),
	}
	f.service = NewJobService(f.appointments, f.pending)
	f.service.now = func() time.Time { return testNow }
	return f
}

func TestShiftFutureJobs_Forward(t *testing.T) {
	f := newJobFixture()
	ctx := context.Background()

	jobA := newTestJob(t, "Smith roof", "2025-06-03")
	jobB := newTestJob(t, "Jones roof", "2025-06-05")

	f.pending.On("FindByTenant", ctx, testTenantID).Return(nil, shared.ErrNotFound)
	f.appointments.On("FindAllDayStartingAfter", ctx, testTenantID, mock.Anything).
		Return([]scheduling.Appointment{jobA, jobB}, nil)
	f.appointments.On("ShiftBatch", ctx, testTenantID, []uuid.UUID{jobA.ID, jobB.ID}, 3).
		Return(int64(2), nil)

	result, err := f.service.ShiftFutureJobs(ctx, testTenantID, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Shifted)
	assert.Equal(t, 2, result.TotalFuture)
	assert.Equal(t, 3, result.Days)
}

func TestShiftFutureJobs_NegativeSkipsJobsLandingInPast(t *testing.T) {
	f := newJobFixture()
	ctx := context.Background()

	// testNow is 2025-06-01. Shifting -3: the 06-02 job would land on
	// 05-30 and the 06-04 job on 06-01 (today), so both stay; only the
	// 06-06 job moves.
	tooClose := newTestJob(t, "Tomorrow job", "2025-06-02")
	onToday := newTestJob(t, "Boundary job", "2025-06-04")
	movable := newTestJob(t, "Far job", "2025-06-06")

	f.pending.On("FindByTenant", ctx, testTenantID).Return(nil, shared.ErrNotFound)
	f.appointments.On("FindAllDayStartingAfter", ctx, testTenantID, mock.Anything).
		Return([]scheduling.Appointment{tooClose, onToday, movable}, nil)
	f.appointments.On("ShiftBatch", ctx, testTenantID, []uuid.UUID{movable.ID}, -3).
		Return(int64(1), nil)

	result, err := f.service.ShiftFutureJobs(ctx, testTenantID, -3)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Shifted)
	assert.Equal(t, 3, result.TotalFuture)
	f.appointments.AssertExpectations(t)
}

func TestShiftFutureJobs_ZeroDaysRejected(t *testing.T) {
	f := newJobFixture()

	_, err := f.service.ShiftFutureJobs(context.Background(), testTenantID, 0)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_SHIFT", domainErr.Code)
}

func TestShiftFutureJobs_DisarmsPendingRainShift(t *testing.T) {
	f := newJobFixture()
	ctx := context.Background()

	record := scheduling.NewPendingShift(testTenantID,
		scheduling.RainShiftPlan{FirstRain: "2025-06-03", ShiftDays: 2},
		[]uuid.UUID{uuid.New()}, 1)
	job := newTestJob(t, "Roof job", "2025-06-05")

	f.pending.On("FindByTenant", ctx, testTenantID).Return(record, nil)
	f.pending.On("SaveWithLock", ctx, record).Return(nil)
	f.appointments.On("FindAllDayStartingAfter", ctx, testTenantID, mock.Anything).
		Return([]scheduling.Appointment{job}, nil)
	f.appointments.On("ShiftBatch", ctx, testTenantID, []uuid.UUID{job.ID}, 1).
		Return(int64(1), nil)

	_, err := f.service.ShiftFutureJobs(ctx, testTenantID, 1)
	require.NoError(t, err)
	assert.False(t, record.IsPending(), "manual shift must confirm the stale rain shift")
	f.pending.AssertExpectations(t)
}

func TestCreateJob_SetsJobFields(t *testing.T) {
	f := newJobFixture()
	ctx := context.Background()

	crewID := uuid.New()
	f.appointments.On("Save", ctx, mock.MatchedBy(func(a *scheduling.Appointment) bool {
		return a.IsJob() && a.CrewID != nil && *a.CrewID == crewID
	})).Return(nil)

	start := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	appt, err := f.service.CreateJob(ctx, testTenantID, CreateJobInput{
		Name:   "Henderson tear-off",
		Start:  start,
		End:    start.Add(48 * time.Hour),
		CrewID: &crewID,
	})
	require.NoError(t, err)
	assert.True(t, appt.AllDay)
	assert.Equal(t, scheduling.JobStatusScheduled, appt.JobStatus)
	assert.Equal(t, "JOB: Henderson tear-off", appt.Title)
}

func TestListCalendar_RejectsInvertedRange(t *testing.T) {
	f := newJobFixture()

	from := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	_, err := f.service.ListCalendar(context.Background(), testTenantID, from, from)
	assert.Error(t, err)
}
