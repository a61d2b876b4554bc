package crm

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ridgeline/backend/internal/domain/shared"
)

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

// Customer represents a property owner the contractor works for.
// It is the aggregate root for customer-related operations.
type Customer struct {
	shared.TenantAggregateRoot
	Name       string         `gorm:"type:varchar(200);not null"`
	Status     CustomerStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Phone      string         `gorm:"type:varchar(50);index"`
	Email      string         `gorm:"type:varchar(200);index"`
	Address    string         `gorm:"type:text"`
	City       string         `gorm:"type:varchar(100)"`
	State      string         `gorm:"type:varchar(50)"`
	PostalCode string         `gorm:"type:varchar(20)"`
	Notes      string         `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer with required fields
func NewCustomer(tenantID uuid.UUID, name string) (*Customer, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	return &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Status:              CustomerStatusActive,
	}, nil
}

// Update updates the customer's basic information
func (c *Customer) Update(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	c.Name = name
	c.touch()
	return nil
}

// SetContact sets the customer's contact information
func (c *Customer) SetContact(phone, email string) error {
	if email != "" && !strings.Contains(email, "@") {
		return shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}
	c.Phone = phone
	c.Email = strings.ToLower(email)
	c.touch()
	return nil
}

// SetAddress sets the customer's property address
func (c *Customer) SetAddress(address, city, state, postalCode string) {
	c.Address = address
	c.City = city
	c.State = state
	c.PostalCode = postalCode
	c.touch()
}

// SetNotes replaces the customer's notes
func (c *Customer) SetNotes(notes string) {
	c.Notes = notes
	c.touch()
}

// Deactivate marks the customer inactive
func (c *Customer) Deactivate() {
	c.Status = CustomerStatusInactive
	c.touch()
}

// Activate marks the customer active
func (c *Customer) Activate() {
	c.Status = CustomerStatusActive
	c.touch()
}

func (c *Customer) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	return nil
}
