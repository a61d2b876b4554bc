package crm

import (
	"context"

	"github.com/google/uuid"
	"github.com/ridgeline/backend/internal/domain/crm"
	"github.com/ridgeline/backend/internal/domain/scheduling"
	"github.com/ridgeline/backend/internal/domain/shared"
)

// LeadService manages the sales pipeline. Approval is the handoff point into
// scheduling: it creates the customer record and books the installation job.
type LeadService interface {
	CreateLead(ctx context.Context, tenantID uuid.UUID, input CreateLeadInput) (*crm.Lead, error)
	GetLead(ctx context.Context, tenantID, id uuid.UUID) (*crm.Lead, error)
	ListLeads(ctx context.Context, tenantID uuid.UUID, status crm.LeadStatus, filter shared.Filter) (*shared.Paginated[crm.Lead], error)
	AdvanceLead(ctx context.Context, tenantID, id uuid.UUID, status crm.LeadStatus) (*crm.Lead, error)
	ApproveLead(ctx context.Context, tenantID, id uuid.UUID, input ApproveLeadInput) (*ApproveLeadResult, error)
}

// LeadServiceImpl implements LeadService
type LeadServiceImpl struct {
	leadRepo        crm.LeadRepository
	customerRepo    crm.CustomerRepository
	appointmentRepo scheduling.AppointmentRepository
}

// NewLeadService creates a new LeadServiceImpl
func NewLeadService(
	leadRepo crm.LeadRepository,
	customerRepo crm.CustomerRepository,
	appointmentRepo scheduling.AppointmentRepository,
) *LeadServiceImpl {
	return &LeadServiceImpl{
		leadRepo:        leadRepo,
		customerRepo:    customerRepo,
		appointmentRepo: appointmentRepo,
	}
}

// CreateLead creates a new pipeline lead
func (s *LeadServiceImpl) CreateLead(ctx context.Context, tenantID uuid.UUID, input CreateLeadInput) (*crm.Lead, error) {
	lead, err := crm.NewLead(tenantID, input.Name, input.Source)
	if err != nil {
		return nil, err
	}
	lead.SetContact(input.Phone, input.Email, input.Address)
	lead.SetNotes(input.Notes)
	if err := s.leadRepo.Save(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// GetLead retrieves a lead by ID
func (s *LeadServiceImpl) GetLead(ctx context.Context, tenantID, id uuid.UUID) (*crm.Lead, error) {
	return s.leadRepo.FindByIDForTenant(ctx, tenantID, id)
}

// ListLeads lists leads, optionally filtered to one pipeline stage
func (s *LeadServiceImpl) ListLeads(ctx context.Context, tenantID uuid.UUID, status crm.LeadStatus, filter shared.Filter) (*shared.Paginated[crm.Lead], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	var (
		items []crm.Lead
		err   error
	)
	if status != "" {
		items, err = s.leadRepo.FindByStatus(ctx, tenantID, status, filter)
	} else {
		items, err = s.leadRepo.FindAllForTenant(ctx, tenantID, filter)
	}
	if err != nil {
		return nil, err
	}
	total, err := s.leadRepo.Count(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// AdvanceLead moves a lead to a later pipeline stage
func (s *LeadServiceImpl) AdvanceLead(ctx context.Context, tenantID, id uuid.UUID, status crm.LeadStatus) (*crm.Lead, error) {
	lead, err := s.leadRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := lead.Advance(status); err != nil {
		return nil, err
	}
	if err := s.leadRepo.Save(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// ApproveLead approves a lead, creating (or linking) the customer record and
// booking the all-day installation job on the calendar.
func (s *LeadServiceImpl) ApproveLead(ctx context.Context, tenantID, id uuid.UUID, input ApproveLeadInput) (*ApproveLeadResult, error) {
	lead, err := s.leadRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if input.JobStart.IsZero() {
		return nil, shared.NewDomainError("INVALID_JOB_START", "Job start date is required")
	}

	customerID, err := s.resolveCustomer(ctx, tenantID, lead, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if err := lead.Approve(customerID); err != nil {
		return nil, err
	}

	duration := input.DurationDays
	if duration < 1 {
		duration = 1
	}
	start := input.JobStart
	job, err := scheduling.NewJob(tenantID, lead.Name, &customerID, start, start.AddDate(0, 0, duration))
	if err != nil {
		return nil, err
	}
	job.Location = lead.Address

	if err := s.appointmentRepo.Save(ctx, job); err != nil {
		return nil, err
	}
	if err := s.leadRepo.Save(ctx, lead); err != nil {
		return nil, err
	}
	return &ApproveLeadResult{
		LeadID:     lead.ID,
		CustomerID: customerID,
		JobID:      job.ID,
	}, nil
}

// resolveCustomer links an existing customer or promotes the lead's contact
// details into a fresh customer record.
func (s *LeadServiceImpl) resolveCustomer(ctx context.Context, tenantID uuid.UUID, lead *crm.Lead, existing *uuid.UUID) (uuid.UUID, error) {
	if existing != nil {
		customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, *existing)
		if err != nil {
			return uuid.Nil, err
		}
		return customer.ID, nil
	}
	customer, err := crm.NewCustomer(tenantID, lead.Name)
	if err != nil {
		return uuid.Nil, err
	}
	if lead.Phone != "" || lead.Email != "" {
		if err := customer.SetContact(lead.Phone, lead.Email); err != nil {
			return uuid.Nil, err
		}
	}
	customer.SetAddress(lead.Address, "", "", "")
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return uuid.Nil, err
	}
	return customer.ID, nil
}

// Ensure implementation satisfies interface
var _ LeadService = (*LeadServiceImpl)(nil)
