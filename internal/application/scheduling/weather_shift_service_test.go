package scheduling

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ridgeline/backend/internal/domain/identity"
	"github.com/ridgeline/backend/internal/domain/scheduling"
	"github.com/ridgeline/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	testTenantID = uuid.New()
	testNow      = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
)

func newTestTenant(postal string) *identity.Tenant {
	tenant, _ := identity.NewTenant("Ridgeline Roofing", "ridgeline")
	tenant.ID = testTenantID
	tenant.PostalCode = postal
	return tenant
}

func newTestJob(t *testing.T, name, startDate string) scheduling.Appointment {
	t.Helper()
	start, err := time.Parse(scheduling.DateLayout, startDate)
	require.NoError(t, err)
	job, err := scheduling.NewJob(testTenantID, name, nil, start, start.Add(24*time.Hour))
	require.NoError(t, err)
	return *job
}

type weatherFixture struct {
	tenants      *MockTenantRepository
	appointments *MockAppointmentRepository
	pending      *MockPendingShiftRepository
	geocoder     *MockGeocoder
	forecasts    *MockForecastSource
	service      *WeatherShiftServiceImpl
}

func newWeatherFixture() *weatherFixture {
	f := &weatherFixture{
		tenants:      new(MockTenantRepository),
		appointments: new(MockAppointmentRepository),
		pending:      new(MockPendingShiftRepository),
		geocoder:     new(MockGeocoder),
		forecasts:    new(MockForecastSource),
	}
	f.service = NewWeatherShiftService(f.tenants, f.appointments, f.pending, f.geocoder, f.forecasts, 0)
	f.service.now = func() time.Time { return testNow }
	return f
}

func forecastDays(probs map[string]int) scheduling.Forecast {
	dates := make([]string, 0, len(probs))
	for date := range probs {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	days := make(scheduling.Forecast, 0, len(dates))
	for _, date := range dates {
		days = append(days, scheduling.ForecastDay{Date: date, PrecipProb: probs[date]})
	}
	return days
}

func TestAutoShift_MovesJobsAndRecordsPending(t *testing.T) {
	f := newWeatherFixture()
	ctx := context.Background()

	f.tenants.On("FindByID", ctx, testTenantID).Return(newTestTenant("74008"), nil)
	f.geocoder.On("Locate", ctx, "74008").Return(GeoPoint{Latitude: 35.9, Longitude: -95.8}, nil)
	f.forecasts.On("DailyForecast", ctx, mock.Anything, forecastHorizonDays).Return(ForecastResult{
		Days: forecastDays(map[string]int{
			"2025-06-01": 10,
			"2025-06-02": 20,
			"2025-06-03": 80,
			"2025-06-04": 75,
			"2025-06-05": 40,
		}),
	}, nil)

	before := newTestJob(t, "Early job", "2025-06-02")
	hit := newTestJob(t, "Anchor job", "2025-06-03")
	after := newTestJob(t, "Later job", "2025-06-04")
	timed, err := scheduling.NewAppointment(testTenantID, "Sales call", testNow, testNow.Add(time.Hour), false)
	require.NoError(t, err)

	f.appointments.On("FindAllDayStartingFrom", ctx, testTenantID, mock.Anything).
		Return([]scheduling.Appointment{before, hit, after, *timed}, nil)
	f.appointments.On("ShiftBatch", ctx, testTenantID, []uuid.UUID{hit.ID, after.ID}, 2).
		Return(int64(2), nil)
	f.pending.On("FindByTenant", ctx, testTenantID).Return(nil, shared.ErrNotFound)
	f.pending.On("Upsert", ctx, mock.MatchedBy(func(p *scheduling.PendingShift) bool {
		return p.IsPending() && p.ShiftDays == 2 && len(p.JobIDs) == 2 && p.FirstRainDate == "2025-06-03"
	})).Return(nil)

	result, err := f.service.AutoShift(ctx, testTenantID)
	require.NoError(t, err)

	assert.Equal(t, "74008", result.Zip)
	assert.Equal(t, 3, result.Processed)
	assert.Equal(t, 2, result.Shifted)
	assert.Equal(t, "2025-06-03", result.FirstRain)
	assert.Equal(t, 2, result.ShiftDays)
	assert.Equal(t, []uuid.UUID{hit.ID, after.ID}, result.JobIDs)
	f.pending.AssertExpectations(t)
	f.appointments.AssertExpectations(t)
}

func TestAutoShift_DryForecastIsNoOp(t *testing.T) {
	f := newWeatherFixture()
	ctx := context.Background()

	f.tenants.On("FindByID", ctx, testTenantID).Return(newTestTenant("74008"), nil)
	f.geocoder.On("Locate", ctx, "74008").Return(GeoPoint{}, nil)
	f.forecasts.On("DailyForecast", ctx, mock.Anything, forecastHorizonDays).Return(ForecastResult{
		Days: forecastDays(map[string]int{"2025-06-02": 69, "2025-06-03": 30}),
	}, nil)

	result, err := f.service.AutoShift(ctx, testTenantID)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Shifted)
	assert.Equal(t, 0, result.Processed)
	f.appointments.AssertNotCalled(t, "ShiftBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.pending.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestAutoShift_NoShiftableJobsLeavesNoRecord(t *testing.T) {
	f := newWeatherFixture()
	ctx := context.Background()

	f.tenants.On("FindByID", ctx, testTenantID).Return(newTestTenant("74008"), nil)
	f.geocoder.On("Locate", ctx, "74008").Return(GeoPoint{}, nil)
	f.forecasts.On("DailyForecast", ctx, mock.Anything, forecastHorizonDays).Return(ForecastResult{
		Days: forecastDays(map[string]int{"2025-06-05": 90}),
	}, nil)

	// The only job starts the day before the rain and stays put.
	before := newTestJob(t, "Early job", "2025-06-04")
	f.appointments.On("FindAllDayStartingFrom", ctx, testTenantID, mock.Anything).
		Return([]scheduling.Appointment{before}, nil)

	result, err := f.service.AutoShift(ctx, testTenantID)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 0, result.Shifted)
	f.pending.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestAutoShift_ZipNotSet(t *testing.T) {
	f := newWeatherFixture()
	ctx := context.Background()

	f.tenants.On("FindByID", ctx, testTenantID).Return(newTestTenant(""), nil)

	_, err := f.service.AutoShift(ctx, testTenantID)
	assert.ErrorIs(t, err, ErrZipNotSet)
}

func TestAutoShift_GeocodeFailure(t *testing.T) {
	f := newWeatherFixture()
	ctx := context.Background()

	f.tenants.On("FindByID", ctx, testTenantID).Return(newTestTenant("00000"), nil)
	f.geocoder.On("Locate", ctx, "00000").Return(GeoPoint{}, errors.New("404"))

	_, err := f.service.AutoShift(ctx, testTenantID)
	assert.ErrorIs(t, err, ErrGeocodeFailed)
}

func TestForecast_FailSoftOnUpstreamError(t *testing.T) {
	f := newWeatherFixture()
	ctx := context.Background()

	f.tenants.On("FindByID", ctx, testTenantID).Return(newTestTenant("74008"), nil)
	f.geocoder.On("Locate", ctx, "74008").Return(GeoPoint{}, errors.New("timeout"))

	result, err := f.service.Forecast(ctx, testTenantID)
	require.NoError(t, err)
	assert.Equal(t, "74008", result.Zip)
	assert.Empty(t, result.Days)
}

func TestConfirm_Idempotent(t *testing.T) {
	f := newWeatherFixture()
	ctx := context.Background()

	// No record at all: confirm succeeds without writing.
	f.pending.On("FindByTenant", ctx, testTenantID).Return(nil, shared.ErrNotFound).Once()
	require.NoError(t, f.service.Confirm(ctx, testTenantID))

	// Pending record: confirmed and saved exactly once.
	record := scheduling.NewPendingShift(testTenantID,
		scheduling.RainShiftPlan{FirstRain: "2025-06-03", ShiftDays: 2},
		[]uuid.UUID{uuid.New()}, 3)
	f.pending.On("FindByTenant", ctx, testTenantID).Return(record, nil)
	f.pending.On("SaveWithLock", ctx, record).Return(nil).Once()
	require.NoError(t, f.service.Confirm(ctx, testTenantID))
	assert.False(t, record.IsPending())

	// Second confirm sees the terminal record and does not save again.
	require.NoError(t, f.service.Confirm(ctx, testTenantID))
	f.pending.AssertExpectations(t)
}

func TestUndo_RevertsExactBatch(t *testing.T) {
	f := newWeatherFixture()
	ctx := context.Background()

	jobIDs := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	record := scheduling.NewPendingShift(testTenantID,
		scheduling.RainShiftPlan{FirstRain: "2025-06-03", ShiftDays: 2}, jobIDs, 5)

	f.pending.On("FindByTenant", ctx, testTenantID).Return(record, nil)
	f.appointments.On("ShiftBatch", ctx, testTenantID, jobIDs, -2).Return(int64(3), nil)
	f.pending.On("SaveWithLock", ctx, record).Return(nil)

	result, err := f.service.Undo(ctx, testTenantID)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Undone)
	assert.False(t, record.IsPending())
	f.appointments.AssertExpectations(t)
}

func TestUndo_NothingPending(t *testing.T) {
	f := newWeatherFixture()
	ctx := context.Background()

	f.pending.On("FindByTenant", ctx, testTenantID).Return(nil, shared.ErrNotFound)

	_, err := f.service.Undo(ctx, testTenantID)
	assert.ErrorIs(t, err, shared.ErrNothingToUndo)
}

func TestUndo_EmptyPayloadMarksUndone(t *testing.T) {
	f := newWeatherFixture()
	ctx := context.Background()

	record := scheduling.NewPendingShift(testTenantID,
		scheduling.RainShiftPlan{FirstRain: "2025-06-03", ShiftDays: 2}, nil, 0)

	f.pending.On("FindByTenant", ctx, testTenantID).Return(record, nil)
	f.pending.On("SaveWithLock", ctx, record).Return(nil)

	result, err := f.service.Undo(ctx, testTenantID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Undone)
	assert.False(t, record.IsPending())
	f.appointments.AssertNotCalled(t, "ShiftBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUndo_ConcurrencyConflictSurfaces(t *testing.T) {
	f := newWeatherFixture()
	ctx := context.Background()

	record := scheduling.NewPendingShift(testTenantID,
		scheduling.RainShiftPlan{FirstRain: "2025-06-03", ShiftDays: 1},
		[]uuid.UUID{uuid.New()}, 1)

	f.pending.On("FindByTenant", ctx, testTenantID).Return(record, nil)
	f.appointments.On("ShiftBatch", ctx, testTenantID, mock.Anything, -1).Return(int64(1), nil)
	f.pending.On("SaveWithLock", ctx, record).Return(shared.ErrConcurrencyConflict)

	_, err := f.service.Undo(ctx, testTenantID)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}

func TestStatus_ReportsPendingPayload(t *testing.T) {
	f := newWeatherFixture()
	ctx := context.Background()

	jobIDs := []uuid.UUID{uuid.New()}
	record := scheduling.NewPendingShift(testTenantID,
		scheduling.RainShiftPlan{FirstRain: "2025-06-03", ShiftDays: 2}, jobIDs, 4)
	f.pending.On("FindByTenant", ctx, testTenantID).Return(record, nil)

	result, err := f.service.Status(ctx, testTenantID)
	require.NoError(t, err)
	assert.True(t, result.Pending)
	require.NotNil(t, result.Data)
	assert.Equal(t, 2, result.Data.ShiftDays)
	assert.Equal(t, "2025-06-03", result.Data.FirstRain)
	assert.Equal(t, jobIDs, result.Data.JobIDs)
	assert.Equal(t, 4, result.Data.Processed)
}

func TestStatus_NoRecord(t *testing.T) {
	f := newWeatherFixture()
	ctx := context.Background()

	f.pending.On("FindByTenant", ctx, testTenantID).Return(nil, shared.ErrNotFound)

	result, err := f.service.Status(ctx, testTenantID)
	require.NoError(t, err)
	assert.False(t, result.Pending)
	assert.Nil(t, result.Data)
}
