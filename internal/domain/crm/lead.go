package crm

import (
	"time"

	"github.com/google/uuid"
	"github.com/ridgeline/backend/internal/domain/shared"
)

// LeadStatus represents a lead's position in the sales pipeline
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQuoted    LeadStatus = "quoted"
	LeadStatusApproved  LeadStatus = "approved"
	LeadStatusLost      LeadStatus = "lost"
)

// LeadSource describes where a lead came from
type LeadSource string

const (
	LeadSourceReferral  LeadSource = "referral"
	LeadSourceWeb       LeadSource = "web"
	LeadSourceDoorKnock LeadSource = "door_knock"
	LeadSourceStormList LeadSource = "storm_list"
	LeadSourceOther     LeadSource = "other"
)

// Lead represents a prospective roofing job moving through the pipeline.
// Approval converts the lead into a scheduled job appointment.
type Lead struct {
	shared.TenantAggregateRoot
	Name       string     `gorm:"type:varchar(200);not null"`
	Status     LeadStatus `gorm:"type:varchar(20);not null;default:'new';index"`
	Source     LeadSource `gorm:"type:varchar(20);not null;default:'other'"`
	Phone      string     `gorm:"type:varchar(50)"`
	Email      string     `gorm:"type:varchar(200)"`
	Address    string     `gorm:"type:text"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index"`
	Notes      string     `gorm:"type:text"`
	ApprovedAt *time.Time
}

// TableName returns the table name for GORM
func (Lead) TableName() string {
	return "leads"
}

// NewLead creates a new pipeline lead
func NewLead(tenantID uuid.UUID, name string, source LeadSource) (*Lead, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if source == "" {
		source = LeadSourceOther
	}
	return &Lead{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Status:              LeadStatusNew,
		Source:              source,
	}, nil
}

// Advance moves the lead to a later pipeline stage. Terminal states
// (approved, lost) cannot move.
func (l *Lead) Advance(status LeadStatus) error {
	if l.Status == LeadStatusApproved || l.Status == LeadStatusLost {
		return shared.ErrInvalidState
	}
	switch status {
	case LeadStatusContacted, LeadStatusQuoted, LeadStatusLost:
		l.Status = status
	default:
		return shared.NewDomainError("INVALID_LEAD_STATUS", "Unknown or disallowed lead status")
	}
	l.touchLead()
	return nil
}

// Approve marks the lead approved and links the created customer record.
// The caller schedules the job appointment in the same operation.
func (l *Lead) Approve(customerID uuid.UUID) error {
	if l.Status == LeadStatusApproved {
		return shared.NewDomainError("ALREADY_APPROVED", "Lead is already approved")
	}
	if l.Status == LeadStatusLost {
		return shared.ErrInvalidState
	}
	now := time.Now()
	l.Status = LeadStatusApproved
	l.CustomerID = &customerID
	l.ApprovedAt = &now
	l.touchLead()
	return nil
}

// SetContact sets the lead's contact details
func (l *Lead) SetContact(phone, email, address string) {
	l.Phone = phone
	l.Email = email
	l.Address = address
	l.touchLead()
}

// SetNotes replaces the lead's notes
func (l *Lead) SetNotes(notes string) {
	l.Notes = notes
	l.touchLead()
}

func (l *Lead) touchLead() {
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}
