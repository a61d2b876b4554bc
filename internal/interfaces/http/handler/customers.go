package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appcrm "github.com/ridgeline/backend/internal/application/crm"
)

// CustomerHandler exposes customer endpoints
type CustomerHandler struct {
	customerService appcrm.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService appcrm.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// CreateCustomerRequest is the payload for a new customer
type CreateCustomerRequest struct {
	Name       string `json:"name" binding:"required,max=200"`
	Phone      string `json:"phone" binding:"max=30"`
	Email      string `json:"email" binding:"omitempty,email,max=200"`
	Address    string `json:"address" binding:"max=300"`
	City       string `json:"city" binding:"max=100"`
	State      string `json:"state" binding:"max=50"`
	PostalCode string `json:"postalCode" binding:"max=10"`
	Notes      string `json:"notes" binding:"max=2000"`
}

// UpdateCustomerRequest applies partial updates to a customer
type UpdateCustomerRequest struct {
	Name       *string `json:"name" binding:"omitempty,max=200"`
	Phone      *string `json:"phone" binding:"omitempty,max=30"`
	Email      *string `json:"email" binding:"omitempty,email,max=200"`
	Address    *string `json:"address" binding:"omitempty,max=300"`
	City       *string `json:"city" binding:"omitempty,max=100"`
	State      *string `json:"state" binding:"omitempty,max=50"`
	PostalCode *string `json:"postalCode" binding:"omitempty,max=10"`
	Notes      *string `json:"notes" binding:"omitempty,max=2000"`
}

// Create creates a customer
// POST /api/v1/customers
func (h *CustomerHandler) Create(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}

	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request: "+err.Error())
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), tid, appcrm.CreateCustomerInput{
		Name:       req.Name,
		Phone:      req.Phone,
		Email:      req.Email,
		Address:    req.Address,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Notes:      req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, customer)
}

// Get fetches a single customer
// GET /api/v1/customers/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), tid, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, customer)
}

// List lists customers with pagination and search
// GET /api/v1/customers
func (h *CustomerHandler) List(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	filter, ok := bindFilter(c)
	if !ok {
		return
	}

	page, err := h.customerService.ListCustomers(c.Request.Context(), tid, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPaginated(c, page)
}

// Update applies partial updates to a customer
// PATCH /api/v1/customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request: "+err.Error())
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), tid, id, appcrm.UpdateCustomerInput{
		Name:       req.Name,
		Phone:      req.Phone,
		Email:      req.Email,
		Address:    req.Address,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Notes:      req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, customer)
}

// Deactivate soft-deletes a customer
// DELETE /api/v1/customers/:id
func (h *CustomerHandler) Deactivate(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.customerService.DeactivateCustomer(c.Request.Context(), tid, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
