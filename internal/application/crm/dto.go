package crm

import (
	"time"

	"github.com/google/uuid"
	"github.com/ridgeline/backend/internal/domain/crm"
)

// CreateCustomerInput carries the fields for a new customer record.
type CreateCustomerInput struct {
	Name       string
	Phone      string
	Email      string
	Address    string
	City       string
	State      string
	PostalCode string
	Notes      string
}

// UpdateCustomerInput applies partial updates; nil fields are untouched.
type UpdateCustomerInput struct {
	Name       *string
	Phone      *string
	Email      *string
	Address    *string
	City       *string
	State      *string
	PostalCode *string
	Notes      *string
}

// CreateLeadInput carries the fields for a new lead.
type CreateLeadInput struct {
	Name    string
	Source  crm.LeadSource
	Phone   string
	Email   string
	Address string
	Notes   string
}

// ApproveLeadInput schedules the installation job an approval produces.
// A zero DurationDays books a single-day job.
type ApproveLeadInput struct {
	JobStart     time.Time
	DurationDays int
	CustomerID   *uuid.UUID
}

// ApproveLeadResult reports the records an approval created or linked.
type ApproveLeadResult struct {
	LeadID     uuid.UUID `json:"leadId"`
	CustomerID uuid.UUID `json:"customerId"`
	JobID      uuid.UUID `json:"jobId"`
}
