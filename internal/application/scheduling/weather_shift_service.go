package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ridgeline/backend/internal/domain/identity"
	"github.com/ridgeline/backend/internal/domain/scheduling"
	"github.com/ridgeline/backend/internal/domain/shared"
)

// forecastHorizonDays is the fixed number of forecast days fetched per run.
const forecastHorizonDays = 10

// Weather-shift specific errors
var (
	ErrZipNotSet     = shared.NewDomainError("ZIP_NOT_SET", "Tenant postal code is not set")
	ErrGeocodeFailed = shared.NewDomainError("GEOCODE_FAILED", "Could not resolve postal code to coordinates")
)

// WeatherShiftService orchestrates the rain-driven job rescheduling cycle:
// forecast lookup, automatic shift, and the confirm/undo follow-up.
type WeatherShiftService interface {
	Forecast(ctx context.Context, tenantID uuid.UUID) (*WeatherResult, error)
	AutoShift(ctx context.Context, tenantID uuid.UUID) (*ShiftJobsResult, error)
	Status(ctx context.Context, tenantID uuid.UUID) (*ShiftStatusResult, error)
	Confirm(ctx context.Context, tenantID uuid.UUID) error
	Undo(ctx context.Context, tenantID uuid.UUID) (*UndoShiftResult, error)
}

// WeatherShiftServiceImpl implements WeatherShiftService
type WeatherShiftServiceImpl struct {
	tenantRepo      identity.TenantRepository
	appointmentRepo scheduling.AppointmentRepository
	pendingRepo     scheduling.PendingShiftRepository
	geocoder        Geocoder
	forecasts       ForecastSource
	threshold       int
	now             func() time.Time
}

// NewWeatherShiftService creates a new WeatherShiftServiceImpl. A threshold
// of zero or less falls back to the default rain threshold.
func NewWeatherShiftService(
	tenantRepo identity.TenantRepository,
	appointmentRepo scheduling.AppointmentRepository,
	pendingRepo scheduling.PendingShiftRepository,
	geocoder Geocoder,
	forecasts ForecastSource,
	threshold int,
) *WeatherShiftServiceImpl {
	if threshold <= 0 {
		threshold = scheduling.DefaultRainThreshold
	}
	return &WeatherShiftServiceImpl{
		tenantRepo:      tenantRepo,
		appointmentRepo: appointmentRepo,
		pendingRepo:     pendingRepo,
		geocoder:        geocoder,
		forecasts:       forecasts,
		threshold:       threshold,
		now:             time.Now,
	}
}

// Forecast returns the tenant's daily forecast. Geocode or upstream failures
// degrade to an empty day list; only a missing postal code is an error.
func (s *WeatherShiftServiceImpl) Forecast(ctx context.Context, tenantID uuid.UUID) (*WeatherResult, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant.PostalCode == "" {
		return nil, ErrZipNotSet
	}

	result := &WeatherResult{Zip: tenant.PostalCode, Days: scheduling.Forecast{}}
	point, err := s.geocoder.Locate(ctx, tenant.PostalCode)
	if err != nil {
		return result, nil
	}
	forecast, err := s.forecasts.DailyForecast(ctx, point, forecastHorizonDays)
	if err != nil {
		return result, nil
	}
	result.Days = forecast.Days
	return result, nil
}

// AutoShift runs the rain policy once: fetch the forecast, plan, move every
// affected job forward in one transaction, and record the batch for undo.
// A dry forecast or an empty schedule is a successful no-op that leaves any
// previous pending record untouched.
func (s *WeatherShiftServiceImpl) AutoShift(ctx context.Context, tenantID uuid.UUID) (*ShiftJobsResult, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant.PostalCode == "" {
		return nil, ErrZipNotSet
	}

	point, err := s.geocoder.Locate(ctx, tenant.PostalCode)
	if err != nil {
		return nil, ErrGeocodeFailed
	}

	forecast, err := s.forecasts.DailyForecast(ctx, point, forecastHorizonDays)
	if err != nil {
		forecast = ForecastResult{}
	}

	result := &ShiftJobsResult{Zip: tenant.PostalCode}
	now := s.now()
	plan, ok := scheduling.PlanRainShift(now, forecast.Days, s.threshold, forecast.UTCOffsetSeconds)
	if !ok {
		return result, nil
	}

	// Fetch with a day of slack so timezone offsets cannot hide a job whose
	// local start date is still ahead of the rain anchor.
	all, err := s.appointmentRepo.FindAllDayStartingFrom(ctx, tenantID, now.UTC().AddDate(0, 0, -1))
	if err != nil {
		return nil, err
	}
	for _, appt := range all {
		if appt.IsJob() {
			result.Processed++
		}
	}

	candidates := plan.SelectShiftable(all, forecast.UTCOffsetSeconds)
	if len(candidates) == 0 {
		return result, nil
	}

	ids := make([]uuid.UUID, len(candidates))
	for i, appt := range candidates {
		ids[i] = appt.ID
	}

	updated, err := s.appointmentRepo.ShiftBatch(ctx, tenantID, ids, plan.ShiftDays)
	if err != nil {
		return nil, err
	}

	record, err := s.pendingRepo.FindByTenant(ctx, tenantID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		record = scheduling.NewPendingShift(tenantID, plan, ids, result.Processed)
	case err != nil:
		return nil, err
	default:
		record.Reset(plan, ids, result.Processed)
	}
	if err := s.pendingRepo.Upsert(ctx, record); err != nil {
		return nil, err
	}

	result.Shifted = int(updated)
	result.FirstRain = plan.FirstRain
	result.ShiftDays = plan.ShiftDays
	result.JobIDs = ids
	return result, nil
}

// Status reports whether an unconfirmed shift is awaiting confirm/undo.
func (s *WeatherShiftServiceImpl) Status(ctx context.Context, tenantID uuid.UUID) (*ShiftStatusResult, error) {
	record, err := s.pendingRepo.FindByTenant(ctx, tenantID)
	if errors.Is(err, shared.ErrNotFound) {
		return &ShiftStatusResult{Pending: false}, nil
	}
	if err != nil {
		return nil, err
	}
	if !record.IsPending() {
		return &ShiftStatusResult{Pending: false}, nil
	}
	return &ShiftStatusResult{
		Pending: true,
		Data: &PendingShiftData{
			ShiftDays: record.ShiftDays,
			FirstRain: record.FirstRainDate,
			JobIDs:    record.JobIDs,
			Shifted:   record.ShiftedCount,
			Processed: record.ProcessedCount,
			CreatedAt: record.UpdatedAt,
		},
	}, nil
}

// Confirm acknowledges the applied shift. Appointments stay where they are.
// Confirming with no pending record is a successful no-op, so repeated
// confirms and confirms after undo never fail.
func (s *WeatherShiftServiceImpl) Confirm(ctx context.Context, tenantID uuid.UUID) error {
	record, err := s.pendingRepo.FindByTenant(ctx, tenantID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !record.IsPending() {
		return nil
	}
	record.Confirm()
	return s.pendingRepo.SaveWithLock(ctx, record)
}

// Undo reverts the recorded batch by exactly the recorded amount in one
// transaction, then terminal-marks the record. A pending record with an
// empty payload is marked undone with zero reverted rather than erroring.
func (s *WeatherShiftServiceImpl) Undo(ctx context.Context, tenantID uuid.UUID) (*UndoShiftResult, error) {
	record, err := s.pendingRepo.FindByTenant(ctx, tenantID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.ErrNothingToUndo
	}
	if err != nil {
		return nil, err
	}
	if !record.IsPending() {
		return nil, shared.ErrNothingToUndo
	}

	days := record.ShiftDays
	ids := record.JobIDs
	if days == 0 || len(ids) == 0 {
		record.MarkUndone()
		if err := s.pendingRepo.SaveWithLock(ctx, record); err != nil {
			return nil, err
		}
		return &UndoShiftResult{Undone: 0}, nil
	}

	reverted, err := s.appointmentRepo.ShiftBatch(ctx, tenantID, ids, -days)
	if err != nil {
		return nil, err
	}
	record.MarkUndone()
	if err := s.pendingRepo.SaveWithLock(ctx, record); err != nil {
		return nil, err
	}
	return &UndoShiftResult{Undone: int(reverted)}, nil
}

// Ensure implementation satisfies interface
var _ WeatherShiftService = (*WeatherShiftServiceImpl)(nil)
