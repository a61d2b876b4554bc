package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ridgeline/backend/internal/domain/identity"
	"github.com/ridgeline/backend/internal/domain/shared"
	"github.com/ridgeline/backend/internal/infrastructure/auth"
	"github.com/ridgeline/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockTenantRepository is a mock implementation of identity.TenantRepository
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindBySlug(ctx context.Context, slug string) (*identity.Tenant, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) Save(ctx context.Context, tenant *identity.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, slug, username string) (*identity.User, error) {
	args := m.Called(ctx, slug, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

var (
	_ identity.TenantRepository = (*MockTenantRepository)(nil)
	_ identity.UserRepository   = (*MockUserRepository)(nil)
)

func newTestAuthService(tenants *MockTenantRepository, users *MockUserRepository) *AuthService {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-unit-tests-only!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "ridgeline-test",
		MaxRefreshCount:        3,
	})
	return NewAuthService(tenants, users, jwtService, auth.NewInMemoryTokenBlacklist(), zap.NewNop())
}

func TestAuthService_Login(t *testing.T) {
	tenants := new(MockTenantRepository)
	users := new(MockUserRepository)
	service := newTestAuthService(tenants, users)
	ctx := context.Background()

	tenant, err := identity.NewTenant("Ridgeline Roofing", "ridgeline")
	require.NoError(t, err)
	user, err := identity.NewUser(tenant.ID, "dispatcher", "correct-horse-battery", identity.UserRoleOffice)
	require.NoError(t, err)

	users.On("FindByUsername", ctx, "ridgeline", "dispatcher").Return(user, nil)
	tenants.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
	users.On("Save", ctx, user).Return(nil)

	result, err := service.Login(ctx, LoginInput{
		TenantSlug: "ridgeline",
		Username:   "dispatcher",
		Password:   "correct-horse-battery",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, "dispatcher", result.User.Username)
	assert.Equal(t, "office", result.User.Role)
	assert.Equal(t, tenant.ID, result.User.TenantID)
	assert.NotNil(t, user.LastLoginAt)
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	tenants := new(MockTenantRepository)
	users := new(MockUserRepository)
	service := newTestAuthService(tenants, users)
	ctx := context.Background()

	tenant, err := identity.NewTenant("Ridgeline Roofing", "ridgeline")
	require.NoError(t, err)
	user, err := identity.NewUser(tenant.ID, "dispatcher", "correct-horse-battery", identity.UserRoleOffice)
	require.NoError(t, err)

	users.On("FindByUsername", ctx, "ridgeline", "dispatcher").Return(user, nil)
	tenants.On("FindByID", ctx, tenant.ID).Return(tenant, nil)

	_, err = service.Login(ctx, LoginInput{
		TenantSlug: "ridgeline",
		Username:   "dispatcher",
		Password:   "wrong",
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}

func TestAuthService_LoginSuspendedTenant(t *testing.T) {
	tenants := new(MockTenantRepository)
	users := new(MockUserRepository)
	service := newTestAuthService(tenants, users)
	ctx := context.Background()

	tenant, err := identity.NewTenant("Ridgeline Roofing", "ridgeline")
	require.NoError(t, err)
	tenant.Status = identity.TenantStatusSuspended
	user, err := identity.NewUser(tenant.ID, "dispatcher", "correct-horse-battery", identity.UserRoleOffice)
	require.NoError(t, err)

	users.On("FindByUsername", ctx, "ridgeline", "dispatcher").Return(user, nil)
	tenants.On("FindByID", ctx, tenant.ID).Return(tenant, nil)

	_, err = service.Login(ctx, LoginInput{
		TenantSlug: "ridgeline",
		Username:   "dispatcher",
		Password:   "correct-horse-battery",
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "TENANT_SUSPENDED", domainErr.Code)
}

func TestAuthService_Logout(t *testing.T) {
	service := newTestAuthService(new(MockTenantRepository), new(MockUserRepository))
	ctx := context.Background()

	require.NoError(t, service.Logout(ctx, LogoutInput{TokenID: "jti-123", ExpiresIn: time.Minute}))

	blacklisted, err := service.blacklist.IsBlacklisted(ctx, "jti-123")
	require.NoError(t, err)
	assert.True(t, blacklisted)
}

func TestAuthService_RegisterTenant(t *testing.T) {
	tenants := new(MockTenantRepository)
	users := new(MockUserRepository)
	service := newTestAuthService(tenants, users)
	ctx := context.Background()

	tenants.On("FindBySlug", ctx, "summit").Return(nil, shared.ErrNotFound)
	tenants.On("Save", ctx, mock.MatchedBy(func(tn *identity.Tenant) bool {
		return tn.Slug == "summit" && tn.PostalCode == "74008"
	})).Return(nil)
	users.On("Save", ctx, mock.MatchedBy(func(u *identity.User) bool {
		return u.Role == identity.UserRoleOwner && u.Username == "owner"
	})).Return(nil)

	result, err := service.RegisterTenant(ctx, RegisterTenantInput{
		TenantName:    "Summit Exteriors",
		TenantSlug:    "summit",
		PostalCode:    "74008",
		OwnerUsername: "owner",
		OwnerPassword: "super-secret-pass",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, result.TenantID)
	assert.NotEqual(t, uuid.Nil, result.OwnerID)
}

func TestAuthService_RegisterTenantSlugTaken(t *testing.T) {
	tenants := new(MockTenantRepository)
	service := newTestAuthService(tenants, new(MockUserRepository))
	ctx := context.Background()

	existing, err := identity.NewTenant("Existing", "summit")
	require.NoError(t, err)
	tenants.On("FindBySlug", ctx, "summit").Return(existing, nil)

	_, err = service.RegisterTenant(ctx, RegisterTenantInput{
		TenantName:    "Summit Exteriors",
		TenantSlug:    "summit",
		OwnerUsername: "owner",
		OwnerPassword: "super-secret-pass",
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "SLUG_TAKEN", domainErr.Code)
}
