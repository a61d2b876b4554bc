package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ridgeline/backend/internal/domain/scheduling"
	"github.com/ridgeline/backend/internal/domain/shared"
)

// JobService manages calendar entries and the manual day shift over future jobs.
type JobService interface {
	CreateAppointment(ctx context.Context, tenantID uuid.UUID, input CreateAppointmentInput) (*scheduling.Appointment, error)
	CreateJob(ctx context.Context, tenantID uuid.UUID, input CreateJobInput) (*scheduling.Appointment, error)
	GetAppointment(ctx context.Context, tenantID, id uuid.UUID) (*scheduling.Appointment, error)
	ListAppointments(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[scheduling.Appointment], error)
	ListCalendar(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]scheduling.Appointment, error)
	UpdateAppointment(ctx context.Context, tenantID, id uuid.UUID, input UpdateAppointmentInput) (*scheduling.Appointment, error)
	DeleteAppointment(ctx context.Context, tenantID, id uuid.UUID) error
	ShiftFutureJobs(ctx context.Context, tenantID uuid.UUID, days int) (*ManualShiftResult, error)
}

// JobServiceImpl implements JobService
type JobServiceImpl struct {
	appointmentRepo scheduling.AppointmentRepository
	pendingRepo     scheduling.PendingShiftRepository
	now             func() time.Time
}

// NewJobService creates a new JobServiceImpl
func NewJobService(
	appointmentRepo scheduling.AppointmentRepository,
	pendingRepo scheduling.PendingShiftRepository,
) *JobServiceImpl {
	return &JobServiceImpl{
		appointmentRepo: appointmentRepo,
		pendingRepo:     pendingRepo,
		now:             time.Now,
	}
}

// CreateAppointment creates a timed or all-day calendar entry
func (s *JobServiceImpl) CreateAppointment(ctx context.Context, tenantID uuid.UUID, input CreateAppointmentInput) (*scheduling.Appointment, error) {
	appt, err := scheduling.NewAppointment(tenantID, input.Title, input.Start, input.End, input.AllDay)
	if err != nil {
		return nil, err
	}
	appt.CustomerID = input.CustomerID
	appt.Location = input.Location
	appt.Notes = input.Notes
	if err := s.appointmentRepo.Save(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// CreateJob creates an all-day installation job
func (s *JobServiceImpl) CreateJob(ctx context.Context, tenantID uuid.UUID, input CreateJobInput) (*scheduling.Appointment, error) {
	appt, err := scheduling.NewJob(tenantID, input.Name, input.CustomerID, input.Start, input.End)
	if err != nil {
		return nil, err
	}
	if input.CrewID != nil {
		appt.AssignCrew(*input.CrewID)
	}
	if !input.Squares.IsZero() {
		if err := appt.SetSquares(input.Squares); err != nil {
			return nil, err
		}
	}
	appt.Location = input.Location
	if err := s.appointmentRepo.Save(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// GetAppointment retrieves an appointment by ID
func (s *JobServiceImpl) GetAppointment(ctx context.Context, tenantID, id uuid.UUID) (*scheduling.Appointment, error) {
	return s.appointmentRepo.FindByIDForTenant(ctx, tenantID, id)
}

// ListAppointments lists appointments with pagination
func (s *JobServiceImpl) ListAppointments(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[scheduling.Appointment], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	items, err := s.appointmentRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.appointmentRepo.Count(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListCalendar returns appointments overlapping [from, to)
func (s *JobServiceImpl) ListCalendar(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]scheduling.Appointment, error) {
	if !to.After(from) {
		return nil, shared.NewDomainError("INVALID_RANGE", "Calendar range end must be after start")
	}
	return s.appointmentRepo.FindInRange(ctx, tenantID, from, to)
}

// UpdateAppointment applies a partial update
func (s *JobServiceImpl) UpdateAppointment(ctx context.Context, tenantID, id uuid.UUID, input UpdateAppointmentInput) (*scheduling.Appointment, error) {
	appt, err := s.appointmentRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if input.Title != nil {
		if err := appt.Rename(*input.Title); err != nil {
			return nil, err
		}
	}
	if input.Start != nil || input.End != nil {
		start, end := appt.Start, appt.End
		if input.Start != nil {
			start = *input.Start
		}
		if input.End != nil {
			end = *input.End
		}
		if err := appt.Reschedule(start, end); err != nil {
			return nil, err
		}
	}
	if input.JobStatus != nil {
		if err := appt.SetJobStatus(*input.JobStatus); err != nil {
			return nil, err
		}
	}
	if input.CrewID != nil {
		appt.AssignCrew(*input.CrewID)
	}
	if input.Squares != nil {
		if err := appt.SetSquares(*input.Squares); err != nil {
			return nil, err
		}
	}
	if input.Notes != nil {
		appt.Notes = *input.Notes
	}
	if err := s.appointmentRepo.Save(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// DeleteAppointment removes an appointment
func (s *JobServiceImpl) DeleteAppointment(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.appointmentRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	return s.appointmentRepo.Delete(ctx, tenantID, id)
}

// ShiftFutureJobs moves every job starting after today by the given number of
// days, in one transaction. A negative shift skips any job that would land on
// or before today, so crews are never scheduled into the past. Any pending
// rain-shift record is confirmed first: once the schedule moves by hand, its
// recorded undo no longer describes reality.
func (s *JobServiceImpl) ShiftFutureJobs(ctx context.Context, tenantID uuid.UUID, days int) (*ManualShiftResult, error) {
	if days == 0 {
		return nil, shared.NewDomainError("INVALID_SHIFT", "Shift days must be non-zero")
	}

	record, err := s.pendingRepo.FindByTenant(ctx, tenantID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if err == nil && record.IsPending() {
		record.Confirm()
		if err := s.pendingRepo.SaveWithLock(ctx, record); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	today := todayStart.Format(scheduling.DateLayout)

	all, err := s.appointmentRepo.FindAllDayStartingAfter(ctx, tenantID, todayStart)
	if err != nil {
		return nil, err
	}

	result := &ManualShiftResult{Days: days}
	ids := make([]uuid.UUID, 0, len(all))
	for _, appt := range all {
		if !appt.IsJob() {
			continue
		}
		result.TotalFuture++
		if days < 0 {
			landing := appt.Start.UTC().AddDate(0, 0, days).Format(scheduling.DateLayout)
			if landing <= today {
				continue
			}
		}
		ids = append(ids, appt.ID)
	}

	if len(ids) > 0 {
		updated, err := s.appointmentRepo.ShiftBatch(ctx, tenantID, ids, days)
		if err != nil {
			return nil, err
		}
		result.Shifted = int(updated)
	}
	return result, nil
}

// Ensure implementation satisfies interface
var _ JobService = (*JobServiceImpl)(nil)
