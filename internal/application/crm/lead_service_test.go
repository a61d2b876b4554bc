package crm

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ridgeline/backend/internal/domain/crm"
	"github.com/ridgeline/backend/internal/domain/scheduling"
	"github.com/ridgeline/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockLeadRepository is a mock implementation of crm.LeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*crm.Lead, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]crm.Lead, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]crm.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status crm.LeadStatus, filter shared.Filter) ([]crm.Lead, error) {
	args := m.Called(ctx, tenantID, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]crm.Lead), args.Error(1)
}

func (m *MockLeadRepository) Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeadRepository) Save(ctx context.Context, lead *crm.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockCustomerRepository is a mock implementation of crm.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*crm.Customer, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]crm.Customer, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]crm.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *crm.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockAppointmentRepository mocks only what the lead service touches
type MockAppointmentRepository struct {
	mock.Mock
	scheduling.AppointmentRepository
}

func (m *MockAppointmentRepository) Save(ctx context.Context, appointment *scheduling.Appointment) error {
	args := m.Called(ctx, appointment)
	return args.Error(0)
}

var (
	_ crm.LeadRepository     = (*MockLeadRepository)(nil)
	_ crm.CustomerRepository = (*MockCustomerRepository)(nil)
)

var testTenantID = uuid.New()

func TestApproveLead_CreatesCustomerAndJob(t *testing.T) {
	leads := new(MockLeadRepository)
	customers := new(MockCustomerRepository)
	appointments := new(MockAppointmentRepository)
	service := NewLeadService(leads, customers, appointments)
	ctx := context.Background()

	lead, err := crm.NewLead(testTenantID, "Hargrove residence", crm.LeadSourceReferral)
	require.NoError(t, err)
	lead.SetContact("555-0101", "h@example.com", "12 Elm St")

	leads.On("FindByIDForTenant", ctx, testTenantID, lead.ID).Return(lead, nil)
	customers.On("Save", ctx, mock.MatchedBy(func(c *crm.Customer) bool {
		return c.Name == "Hargrove residence" && c.Email == "h@example.com"
	})).Return(nil)
	appointments.On("Save", ctx, mock.MatchedBy(func(a *scheduling.Appointment) bool {
		return a.IsJob() && a.Title == "JOB: Hargrove residence" &&
			a.Location == "12 Elm St" && a.CustomerID != nil
	})).Return(nil)
	leads.On("Save", ctx, lead).Return(nil)

	start := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)
	result, err := service.ApproveLead(ctx, testTenantID, lead.ID, ApproveLeadInput{
		JobStart:     start,
		DurationDays: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, crm.LeadStatusApproved, lead.Status)
	assert.Equal(t, lead.ID, result.LeadID)
	assert.NotEqual(t, uuid.Nil, result.CustomerID)
	assert.NotEqual(t, uuid.Nil, result.JobID)
	customers.AssertExpectations(t)
	appointments.AssertExpectations(t)
}

func TestApproveLead_LinksExistingCustomer(t *testing.T) {
	leads := new(MockLeadRepository)
	customers := new(MockCustomerRepository)
	appointments := new(MockAppointmentRepository)
	service := NewLeadService(leads, customers, appointments)
	ctx := context.Background()

	lead, err := crm.NewLead(testTenantID, "Repeat customer roof", crm.LeadSourceWeb)
	require.NoError(t, err)
	customer, err := crm.NewCustomer(testTenantID, "Nguyen")
	require.NoError(t, err)

	leads.On("FindByIDForTenant", ctx, testTenantID, lead.ID).Return(lead, nil)
	customers.On("FindByIDForTenant", ctx, testTenantID, customer.ID).Return(customer, nil)
	appointments.On("Save", ctx, mock.Anything).Return(nil)
	leads.On("Save", ctx, lead).Return(nil)

	result, err := service.ApproveLead(ctx, testTenantID, lead.ID, ApproveLeadInput{
		JobStart:   time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC),
		CustomerID: &customer.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, customer.ID, result.CustomerID)
	customers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestApproveLead_RequiresJobStart(t *testing.T) {
	leads := new(MockLeadRepository)
	service := NewLeadService(leads, new(MockCustomerRepository), new(MockAppointmentRepository))
	ctx := context.Background()

	lead, err := crm.NewLead(testTenantID, "No date yet", crm.LeadSourceOther)
	require.NoError(t, err)
	leads.On("FindByIDForTenant", ctx, testTenantID, lead.ID).Return(lead, nil)

	_, err = service.ApproveLead(ctx, testTenantID, lead.ID, ApproveLeadInput{})
	assert.Error(t, err)
	assert.Equal(t, crm.LeadStatusNew, lead.Status, "lead must stay untouched")
}

func TestApproveLead_LostLeadRejected(t *testing.T) {
	leads := new(MockLeadRepository)
	customers := new(MockCustomerRepository)
	service := NewLeadService(leads, customers, new(MockAppointmentRepository))
	ctx := context.Background()

	lead, err := crm.NewLead(testTenantID, "Walked away", crm.LeadSourceDoorKnock)
	require.NoError(t, err)
	require.NoError(t, lead.Advance(crm.LeadStatusLost))

	leads.On("FindByIDForTenant", ctx, testTenantID, lead.ID).Return(lead, nil)
	customers.On("Save", ctx, mock.Anything).Return(nil)

	_, err = service.ApproveLead(ctx, testTenantID, lead.ID, ApproveLeadInput{
		JobStart: time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}
