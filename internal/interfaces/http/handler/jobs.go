package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appscheduling "github.com/ridgeline/backend/internal/application/scheduling"
	"github.com/ridgeline/backend/internal/domain/scheduling"
)

// JobHandler exposes calendar and job endpoints
type JobHandler struct {
	jobService appscheduling.JobService
}

// NewJobHandler creates a new job handler
func NewJobHandler(jobService appscheduling.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// CreateAppointmentRequest is the payload for a general calendar entry
type CreateAppointmentRequest struct {
	Title      string     `json:"title" binding:"required,max=200"`
	Start      time.Time  `json:"start" binding:"required"`
	End        time.Time  `json:"end" binding:"required"`
	AllDay     bool       `json:"allDay"`
	CustomerID *uuid.UUID `json:"customerId"`
	Location   string     `json:"location" binding:"max=300"`
	Notes      string     `json:"notes" binding:"max=2000"`
}

// CreateJobRequest is the payload for an all-day installation job
type CreateJobRequest struct {
	Name       string          `json:"name" binding:"required,max=200"`
	Start      time.Time       `json:"start" binding:"required"`
	End        time.Time       `json:"end"`
	CustomerID *uuid.UUID      `json:"customerId"`
	CrewID     *uuid.UUID      `json:"crewId"`
	Squares    decimal.Decimal `json:"squares"`
	Location   string          `json:"location" binding:"max=300"`
}

// UpdateAppointmentRequest applies partial updates to an appointment
type UpdateAppointmentRequest struct {
	Title     *string          `json:"title" binding:"omitempty,max=200"`
	Start     *time.Time       `json:"start"`
	End       *time.Time       `json:"end"`
	JobStatus *string          `json:"jobStatus" binding:"omitempty,oneof=scheduled in_progress completed cancelled"`
	CrewID    *uuid.UUID       `json:"crewId"`
	Squares   *decimal.Decimal `json:"squares"`
	Notes     *string          `json:"notes" binding:"omitempty,max=2000"`
}

// ShiftJobsRequest is the payload for a manual day shift over future jobs
type ShiftJobsRequest struct {
	Days int `json:"days" binding:"required,ne=0,min=-30,max=30"`
}

// CalendarRequest bounds a calendar window query
type CalendarRequest struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
}

// CreateAppointment creates a calendar entry
// POST /api/v1/appointments
func (h *JobHandler) CreateAppointment(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request: "+err.Error())
		return
	}

	appt, err := h.jobService.CreateAppointment(c.Request.Context(), tid, appscheduling.CreateAppointmentInput{
		Title:      req.Title,
		Start:      req.Start,
		End:        req.End,
		AllDay:     req.AllDay,
		CustomerID: req.CustomerID,
		Location:   req.Location,
		Notes:      req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, appt)
}

// CreateJob creates an all-day installation job
// POST /api/v1/jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}

	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request: "+err.Error())
		return
	}

	job, err := h.jobService.CreateJob(c.Request.Context(), tid, appscheduling.CreateJobInput{
		Name:       req.Name,
		Start:      req.Start,
		End:        req.End,
		CustomerID: req.CustomerID,
		CrewID:     req.CrewID,
		Squares:    req.Squares,
		Location:   req.Location,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, job)
}

// GetAppointment fetches a single appointment
// GET /api/v1/appointments/:id
func (h *JobHandler) GetAppointment(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	appt, err := h.jobService.GetAppointment(c.Request.Context(), tid, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, appt)
}

// ListAppointments lists appointments with pagination
// GET /api/v1/appointments
func (h *JobHandler) ListAppointments(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	filter, ok := bindFilter(c)
	if !ok {
		return
	}

	page, err := h.jobService.ListAppointments(c.Request.Context(), tid, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPaginated(c, page)
}

// Calendar lists appointments overlapping a date window
// GET /api/v1/calendar?from=2025-06-01&to=2025-06-30
func (h *JobHandler) Calendar(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}

	var req CalendarRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, "Invalid calendar window: "+err.Error())
		return
	}
	if !req.To.After(req.From) {
		respondBadRequest(c, "'to' must be after 'from'")
		return
	}

	items, err := h.jobService.ListCalendar(c.Request.Context(), tid, req.From, req.To)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, items)
}

// UpdateAppointment applies partial updates to an appointment
// PATCH /api/v1/appointments/:id
func (h *JobHandler) UpdateAppointment(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request: "+err.Error())
		return
	}

	input := appscheduling.UpdateAppointmentInput{
		Title:   req.Title,
		Start:   req.Start,
		End:     req.End,
		CrewID:  req.CrewID,
		Squares: req.Squares,
		Notes:   req.Notes,
	}
	if req.JobStatus != nil {
		status := scheduling.JobStatus(*req.JobStatus)
		input.JobStatus = &status
	}

	appt, err := h.jobService.UpdateAppointment(c.Request.Context(), tid, id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, appt)
}

// DeleteAppointment removes an appointment
// DELETE /api/v1/appointments/:id
func (h *JobHandler) DeleteAppointment(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.jobService.DeleteAppointment(c.Request.Context(), tid, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ShiftJobs moves every future job by a number of days
// POST /api/v1/jobs/shift
func (h *JobHandler) ShiftJobs(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}

	var req ShiftJobsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request: "+err.Error())
		return
	}

	result, err := h.jobService.ShiftFutureJobs(c.Request.Context(), tid, req.Days)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, result)
}
