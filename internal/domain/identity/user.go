package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ridgeline/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserRole is a coarse permission level inside a tenant
type UserRole string

const (
	UserRoleOwner  UserRole = "owner"
	UserRoleOffice UserRole = "office"
	UserRoleCrew   UserRole = "crew"
)

// User is an account inside a tenant
type User struct {
	shared.TenantAggregateRoot
	Username     string   `gorm:"type:varchar(100);not null;uniqueIndex:idx_user_tenant_username,priority:2"`
	PasswordHash string   `gorm:"type:varchar(200);not null"`
	DisplayName  string   `gorm:"type:varchar(200)"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'office'"`
	Active       bool     `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a user with a bcrypt-hashed password
func NewUser(tenantID uuid.UUID, username, password string, role UserRole) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if len(password) < 8 {
		return nil, shared.NewDomainError("WEAK_PASSWORD", "Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if role == "" {
		role = UserRoleOffice
	}
	return &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Username:            username,
		PasswordHash:        string(hash),
		Role:                role,
		Active:              true,
	}, nil
}

// CheckPassword verifies a candidate password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// RecordLogin stamps a successful login
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
	u.IncrementVersion()
}
