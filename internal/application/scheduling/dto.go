package scheduling

import (
	"time"

	"github.com/google/uuid"
	"github.com/ridgeline/backend/internal/domain/scheduling"
	"github.com/shopspring/decimal"
)

// WeatherResult is the tenant's forecast, possibly empty when the upstream
// could not be reached.
type WeatherResult struct {
	Zip  string                   `json:"zip"`
	Days []scheduling.ForecastDay `json:"days"`
}

// ShiftJobsResult reports what an automatic rain shift did. FirstRain,
// ShiftDays and JobIDs are only present when jobs actually moved.
type ShiftJobsResult struct {
	Zip       string      `json:"zip"`
	Processed int         `json:"processed"`
	Shifted   int         `json:"shifted"`
	FirstRain string      `json:"firstRain,omitempty"`
	ShiftDays int         `json:"shiftDays,omitempty"`
	JobIDs    []uuid.UUID `json:"jobIds,omitempty"`
}

// PendingShiftData describes an unconfirmed shift awaiting confirm/undo.
type PendingShiftData struct {
	ShiftDays int         `json:"shiftDays"`
	FirstRain string      `json:"firstRain"`
	JobIDs    []uuid.UUID `json:"jobIds"`
	Shifted   int         `json:"shifted"`
	Processed int         `json:"processed"`
	CreatedAt time.Time   `json:"createdAt"`
}

// ShiftStatusResult is the polling contract for the pending-shift banner.
type ShiftStatusResult struct {
	Pending bool              `json:"pending"`
	Data    *PendingShiftData `json:"data,omitempty"`
}

// UndoShiftResult reports how many appointments an undo reverted.
type UndoShiftResult struct {
	Undone int `json:"undone"`
}

// ManualShiftResult reports a manual day shift over future jobs.
type ManualShiftResult struct {
	Shifted     int `json:"shifted"`
	TotalFuture int `json:"totalFuture"`
	Days        int `json:"days"`
}

// CreateAppointmentInput carries the fields for a new calendar entry.
type CreateAppointmentInput struct {
	Title      string
	Start      time.Time
	End        time.Time
	AllDay     bool
	CustomerID *uuid.UUID
	Location   string
	Notes      string
}

// CreateJobInput carries the fields for a new all-day installation job.
type CreateJobInput struct {
	Name       string
	Start      time.Time
	End        time.Time
	CustomerID *uuid.UUID
	CrewID     *uuid.UUID
	Squares    decimal.Decimal
	Location   string
}

// UpdateAppointmentInput applies partial updates; nil fields are untouched.
type UpdateAppointmentInput struct {
	Title     *string
	Start     *time.Time
	End       *time.Time
	JobStatus *scheduling.JobStatus
	CrewID    *uuid.UUID
	Squares   *decimal.Decimal
	Notes     *string
}
