package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ridgeline/backend/internal/domain/identity"
	"github.com/ridgeline/backend/internal/domain/scheduling"
	"github.com/ridgeline/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockAppointmentRepository is a mock implementation of scheduling.AppointmentRepository
type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*scheduling.Appointment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scheduling.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]scheduling.Appointment, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]scheduling.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindInRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]scheduling.Appointment, error) {
	args := m.Called(ctx, tenantID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]scheduling.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindAllDayStartingFrom(ctx context.Context, tenantID uuid.UUID, from time.Time) ([]scheduling.Appointment, error) {
	args := m.Called(ctx, tenantID, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]scheduling.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindAllDayStartingAfter(ctx context.Context, tenantID uuid.UUID, from time.Time) ([]scheduling.Appointment, error) {
	args := m.Called(ctx, tenantID, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]scheduling.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]scheduling.Appointment, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]scheduling.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) Save(ctx context.Context, appointment *scheduling.Appointment) error {
	args := m.Called(ctx, appointment)
	return args.Error(0)
}

func (m *MockAppointmentRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockAppointmentRepository) Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAppointmentRepository) ShiftBatch(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID, days int) (int64, error) {
	args := m.Called(ctx, tenantID, ids, days)
	return args.Get(0).(int64), args.Error(1)
}

// MockPendingShiftRepository is a mock implementation of scheduling.PendingShiftRepository
type MockPendingShiftRepository struct {
	mock.Mock
}

func (m *MockPendingShiftRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) (*scheduling.PendingShift, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scheduling.PendingShift), args.Error(1)
}

func (m *MockPendingShiftRepository) Upsert(ctx context.Context, shift *scheduling.PendingShift) error {
	args := m.Called(ctx, shift)
	return args.Error(0)
}

func (m *MockPendingShiftRepository) SaveWithLock(ctx context.Context, shift *scheduling.PendingShift) error {
	args := m.Called(ctx, shift)
	return args.Error(0)
}

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

// MockGeocoder is a mock implementation of Geocoder
type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Locate(ctx context.Context, postalCode string) (GeoPoint, error) {
	args := m.Called(ctx, postalCode)
	return args.Get(0).(GeoPoint), args.Error(1)
}

// MockForecastSource is a mock implementation of ForecastSource
type MockForecastSource struct {
	mock.Mock
}

func (m *MockForecastSource) DailyForecast(ctx context.Context, point GeoPoint, days int) (ForecastResult, error) {
	args := m.Called(ctx, point, days)
	return args.Get(0).(ForecastResult), args.Error(1)
}

// Ensure mocks implement interfaces
var (
	_ scheduling.AppointmentRepository  = (*MockAppointmentRepository)(nil)
	_ scheduling.PendingShiftRepository = (*MockPendingShiftRepository)(nil)
	_ identity.TenantRepository         = (*MockTenantRepository)(nil)
	_ Geocoder                          = (*MockGeocoder)(nil)
	_ ForecastSource                    = (*MockForecastSource)(nil)
)
