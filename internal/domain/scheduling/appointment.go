package scheduling

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ridgeline/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// JobStatus marks an all-day appointment as a scheduled installation job.
// An empty status means the appointment is an ordinary calendar entry.
type JobStatus string

const (
	JobStatusScheduled  JobStatus = "scheduled"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// JobTitlePrefix is the legacy marker prepended to job appointment titles.
const JobTitlePrefix = "JOB:"

// Appointment represents a calendar entry for a tenant. All-day entries
// carrying a job marker are installation jobs and participate in day shifts.
type Appointment struct {
	shared.TenantAggregateRoot
	Title      string          `gorm:"type:varchar(200);not null"`
	Start      time.Time       `gorm:"not null;index"`
	End        time.Time       `gorm:"not null"`
	AllDay     bool            `gorm:"not null;default:false"`
	JobStatus  JobStatus       `gorm:"type:varchar(20)"`
	CustomerID *uuid.UUID      `gorm:"type:uuid;index"`
	CrewID     *uuid.UUID      `gorm:"type:uuid;index"`
	Squares    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Location   string          `gorm:"type:varchar(300)"`
	Notes      string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Appointment) TableName() string {
	return "appointments"
}

// NewAppointment creates a timed (or all-day) calendar entry.
func NewAppointment(tenantID uuid.UUID, title string, start, end time.Time, allDay bool) (*Appointment, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, shared.NewDomainError("INVALID_RANGE", "End must not be before start")
	}
	return &Appointment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Title:               title,
		Start:               start,
		End:                 end,
		AllDay:              allDay,
	}, nil
}

// NewJob creates an all-day job appointment for an installation.
// The title carries the job marker so older consumers keep recognizing it.
func NewJob(tenantID uuid.UUID, name string, customerID *uuid.UUID, start, end time.Time) (*Appointment, error) {
	title := name
	if !strings.HasPrefix(strings.ToUpper(title), "JOB") {
		title = JobTitlePrefix + " " + name
	}
	appt, err := NewAppointment(tenantID, title, start, end, true)
	if err != nil {
		return nil, err
	}
	appt.JobStatus = JobStatusScheduled
	appt.CustomerID = customerID
	return appt, nil
}

// IsJob reports whether this appointment is a scheduled installation job.
// This is the single classification point: an all-day entry whose title
// carries the job marker or whose job status is set.
func (a *Appointment) IsJob() bool {
	if !a.AllDay {
		return false
	}
	if a.JobStatus != "" {
		return true
	}
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(a.Title)), "JOB")
}

// ShiftDays moves the appointment's start and end by whole calendar days.
// Time-of-day is preserved; all-day jobs store midnight instants.
func (a *Appointment) ShiftDays(days int) {
	a.Start = a.Start.AddDate(0, 0, days)
	a.End = a.End.AddDate(0, 0, days)
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// StartDateIn returns the appointment's start calendar date in the
// timezone described by utcOffsetSeconds.
func (a *Appointment) StartDateIn(utcOffsetSeconds int) string {
	return LocalDate(a.Start, utcOffsetSeconds)
}

// Reschedule replaces the appointment window.
func (a *Appointment) Reschedule(start, end time.Time) error {
	if end.Before(start) {
		return shared.NewDomainError("INVALID_RANGE", "End must not be before start")
	}
	a.Start = start
	a.End = end
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// Rename updates the appointment title.
func (a *Appointment) Rename(title string) error {
	if err := validateTitle(title); err != nil {
		return err
	}
	a.Title = title
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// SetJobStatus updates the job lifecycle marker.
func (a *Appointment) SetJobStatus(status JobStatus) error {
	switch status {
	case JobStatusScheduled, JobStatusInProgress, JobStatusCompleted, JobStatusCancelled:
		a.JobStatus = status
	default:
		return shared.NewDomainError("INVALID_JOB_STATUS", "Unknown job status")
	}
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// AssignCrew assigns a crew to the job.
func (a *Appointment) AssignCrew(crewID uuid.UUID) {
	a.CrewID = &crewID
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// SetSquares records the measured roof size attached to this job block.
func (a *Appointment) SetSquares(squares decimal.Decimal) error {
	if squares.IsNegative() {
		return shared.NewDomainError("INVALID_SQUARES", "Squares cannot be negative")
	}
	a.Squares = squares
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	return nil
}
