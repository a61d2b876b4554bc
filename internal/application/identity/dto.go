package identity

import (
	"time"

	"github.com/google/uuid"
)

// LoginInput carries credentials for authentication. Usernames are unique
// per tenant, so the tenant slug is part of the login identity.
type LoginInput struct {
	TenantSlug string
	Username   string
	Password   string
}

// UserInfo carries safe-to-expose user fields
type UserInfo struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenantId"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	Role        string    `json:"role"`
}

// LoginResult is the outcome of a successful login
type LoginResult struct {
	AccessToken           string    `json:"accessToken"`
	RefreshToken          string    `json:"refreshToken"`
	AccessTokenExpiresAt  time.Time `json:"accessTokenExpiresAt"`
	RefreshTokenExpiresAt time.Time `json:"refreshTokenExpiresAt"`
	TokenType             string    `json:"tokenType"`
	User                  UserInfo  `json:"user"`
}

// RefreshInput carries a refresh token
type RefreshInput struct {
	RefreshToken string
}

// LogoutInput identifies the session being terminated
type LogoutInput struct {
	TokenID   string
	ExpiresIn time.Duration
}

// RegisterTenantInput creates a tenant and its owner account in one step
type RegisterTenantInput struct {
	TenantName    string
	TenantSlug    string
	PostalCode    string
	OwnerUsername string
	OwnerPassword string
}

// RegisterTenantResult reports the created tenant and owner
type RegisterTenantResult struct {
	TenantID uuid.UUID `json:"tenantId"`
	OwnerID  uuid.UUID `json:"ownerId"`
}
