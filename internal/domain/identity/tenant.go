package identity

import (
	"strings"
	"time"

	"github.com/ridgeline/backend/internal/domain/shared"
)

// TenantStatus represents the status of a tenant
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
)

// Tenant is a contractor organization's isolated data partition. The postal
// code anchors weather lookups for the whole schedule.
type Tenant struct {
	shared.BaseAggregateRoot
	Name       string       `gorm:"type:varchar(200);not null"`
	Slug       string       `gorm:"type:varchar(100);not null;uniqueIndex"`
	Status     TenantStatus `gorm:"type:varchar(20);not null;default:'active'"`
	PostalCode string       `gorm:"type:varchar(20)"`
	Phone      string       `gorm:"type:varchar(50)"`
	Email      string       `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant creates a new tenant organization
func NewTenant(name, slug string) (*Tenant, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Tenant name cannot be empty")
	}
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, shared.NewDomainError("INVALID_SLUG", "Tenant slug cannot be empty")
	}
	return &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug,
		Status:            TenantStatusActive,
	}, nil
}

// SetPostalCode updates the tenant's base-of-operations ZIP code
func (t *Tenant) SetPostalCode(postal string) {
	t.PostalCode = strings.TrimSpace(postal)
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// IsActive reports whether the tenant may use the service
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}
