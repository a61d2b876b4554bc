package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcrm "github.com/ridgeline/backend/internal/application/crm"
	"github.com/ridgeline/backend/internal/domain/crm"
)

// LeadHandler exposes sales pipeline endpoints
type LeadHandler struct {
	leadService appcrm.LeadService
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(leadService appcrm.LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

// CreateLeadRequest is the payload for a new lead
type CreateLeadRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Source  string `json:"source" binding:"omitempty,oneof=referral web door_knock storm_list other"`
	Phone   string `json:"phone" binding:"max=30"`
	Email   string `json:"email" binding:"omitempty,email,max=200"`
	Address string `json:"address" binding:"max=300"`
	Notes   string `json:"notes" binding:"max=2000"`
}

// AdvanceLeadRequest moves a lead along the pipeline
type AdvanceLeadRequest struct {
	Status string `json:"status" binding:"required,oneof=contacted quoted lost"`
}

// ApproveLeadRequest approves a lead and books its installation job
type ApproveLeadRequest struct {
	JobStart     time.Time  `json:"jobStart" binding:"required"`
	DurationDays int        `json:"durationDays" binding:"omitempty,min=1,max=30"`
	CustomerID   *uuid.UUID `json:"customerId"`
}

// Create creates a lead
// POST /api/v1/leads
func (h *LeadHandler) Create(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}

	var req CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request: "+err.Error())
		return
	}

	lead, err := h.leadService.CreateLead(c.Request.Context(), tid, appcrm.CreateLeadInput{
		Name:    req.Name,
		Source:  crm.LeadSource(req.Source),
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
		Notes:   req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, lead)
}

// Get fetches a single lead
// GET /api/v1/leads/:id
func (h *LeadHandler) Get(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	lead, err := h.leadService.GetLead(c.Request.Context(), tid, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, lead)
}

// List lists leads, optionally filtered by pipeline status
// GET /api/v1/leads?status=new
func (h *LeadHandler) List(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	filter, ok := bindFilter(c)
	if !ok {
		return
	}

	status := crm.LeadStatus(c.Query("status"))
	page, err := h.leadService.ListLeads(c.Request.Context(), tid, status, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPaginated(c, page)
}

// Advance moves a lead to the next pipeline stage
// POST /api/v1/leads/:id/advance
func (h *LeadHandler) Advance(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req AdvanceLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request: "+err.Error())
		return
	}

	lead, err := h.leadService.AdvanceLead(c.Request.Context(), tid, id, crm.LeadStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, lead)
}

// Approve approves a lead, creating its customer and installation job
// POST /api/v1/leads/:id/approve
func (h *LeadHandler) Approve(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req ApproveLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request: "+err.Error())
		return
	}

	result, err := h.leadService.ApproveLead(c.Request.Context(), tid, id, appcrm.ApproveLeadInput{
		JobStart:     req.JobStart,
		DurationDays: req.DurationDays,
		CustomerID:   req.CustomerID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, result)
}
