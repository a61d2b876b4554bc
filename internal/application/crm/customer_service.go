package crm

import (
	"context"

	"github.com/google/uuid"
	"github.com/ridgeline/backend/internal/domain/crm"
	"github.com/ridgeline/backend/internal/domain/shared"
)

// CustomerService manages tenant customer records.
type CustomerService interface {
	CreateCustomer(ctx context.Context, tenantID uuid.UUID, input CreateCustomerInput) (*crm.Customer, error)
	GetCustomer(ctx context.Context, tenantID, id uuid.UUID) (*crm.Customer, error)
	ListCustomers(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[crm.Customer], error)
	UpdateCustomer(ctx context.Context, tenantID, id uuid.UUID, input UpdateCustomerInput) (*crm.Customer, error)
	DeactivateCustomer(ctx context.Context, tenantID, id uuid.UUID) error
}

// CustomerServiceImpl implements CustomerService
type CustomerServiceImpl struct {
	customerRepo crm.CustomerRepository
}

// NewCustomerService creates a new CustomerServiceImpl
func NewCustomerService(customerRepo crm.CustomerRepository) *CustomerServiceImpl {
	return &CustomerServiceImpl{customerRepo: customerRepo}
}

// CreateCustomer creates a new customer record
func (s *CustomerServiceImpl) CreateCustomer(ctx context.Context, tenantID uuid.UUID, input CreateCustomerInput) (*crm.Customer, error) {
	customer, err := crm.NewCustomer(tenantID, input.Name)
	if err != nil {
		return nil, err
	}
	if input.Phone != "" || input.Email != "" {
		if err := customer.SetContact(input.Phone, input.Email); err != nil {
			return nil, err
		}
	}
	customer.SetAddress(input.Address, input.City, input.State, input.PostalCode)
	customer.SetNotes(input.Notes)
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerServiceImpl) GetCustomer(ctx context.Context, tenantID, id uuid.UUID) (*crm.Customer, error) {
	return s.customerRepo.FindByIDForTenant(ctx, tenantID, id)
}

// ListCustomers lists customers with search and pagination
func (s *CustomerServiceImpl) ListCustomers(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[crm.Customer], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	items, err := s.customerRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.customerRepo.Count(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateCustomer applies a partial update
func (s *CustomerServiceImpl) UpdateCustomer(ctx context.Context, tenantID, id uuid.UUID, input UpdateCustomerInput) (*crm.Customer, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		if err := customer.Update(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Phone != nil || input.Email != nil {
		phone, email := customer.Phone, customer.Email
		if input.Phone != nil {
			phone = *input.Phone
		}
		if input.Email != nil {
			email = *input.Email
		}
		if err := customer.SetContact(phone, email); err != nil {
			return nil, err
		}
	}
	if input.Address != nil || input.City != nil || input.State != nil || input.PostalCode != nil {
		address, city, state, postal := customer.Address, customer.City, customer.State, customer.PostalCode
		if input.Address != nil {
			address = *input.Address
		}
		if input.City != nil {
			city = *input.City
		}
		if input.State != nil {
			state = *input.State
		}
		if input.PostalCode != nil {
			postal = *input.PostalCode
		}
		customer.SetAddress(address, city, state, postal)
	}
	if input.Notes != nil {
		customer.SetNotes(*input.Notes)
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// DeactivateCustomer marks a customer inactive
func (s *CustomerServiceImpl) DeactivateCustomer(ctx context.Context, tenantID, id uuid.UUID) error {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	customer.Deactivate()
	return s.customerRepo.Save(ctx, customer)
}

// Ensure implementation satisfies interface
var _ CustomerService = (*CustomerServiceImpl)(nil)
