package services

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stwalsh4118/rms/internal/models"
	"github.com/stwalsh4118/rms/internal/notify"
	"github.com/stwalsh4118/rms/internal/repository"
)

// MockPropertyRepository is a mock implementation of PropertyRepository for testing
type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) Create(ctx context.Context, property *models.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Property, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Property, error) {
	args := m.Called(ctx, ownerID)
	props, _ := args.Get(0).([]models.Property)
	return props, args.Error(1)
}

func (m *MockPropertyRepository) FindByName(ctx context.Context, ownerID uuid.UUID, name string) ([]models.Property, error) {
	args := m.Called(ctx, ownerID, name)
	props, _ := args.Get(0).([]models.Property)
	return props, args.Error(1)
}

func (m *MockPropertyRepository) UpdateImage(ctx context.Context, ownerID, id uuid.UUID, image string) (bool, error) {
	args := m.Called(ctx, ownerID, id, image)
	return args.Bool(0), args.Error(1)
}

// MockRoomRepository is a mock implementation of RoomRepository for testing
type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) Create(ctx context.Context, room *models.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *MockRoomRepository) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]models.RoomWithTenant, error) {
	args := m.Called(ctx, propertyID)
	rooms, _ := args.Get(0).([]models.RoomWithTenant)
	return rooms, args.Error(1)
}

func (m *MockRoomRepository) ListWithTenants(ctx context.Context, ownerID uuid.UUID) ([]models.RoomWithTenant, error) {
	args := m.Called(ctx, ownerID)
	rooms, _ := args.Get(0).([]models.RoomWithTenant)
	return rooms, args.Error(1)
}

func (m *MockRoomRepository) FindInProperty(ctx context.Context, propertyID uuid.UUID, roomNo string) (*models.Room, error) {
	args := m.Called(ctx, propertyID, roomNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockRoomRepository) SumRent(ctx context.Context, propertyID uuid.UUID, occupiedOnly bool) (decimal.Decimal, error) {
	args := m.Called(ctx, propertyID, occupiedOnly)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockTenantRepository is a mock implementation of TenantRepository for testing
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) AssignToRoom(ctx context.Context, ownerID uuid.UUID, roomNo, propertyName string, tenant *models.Tenant) (*models.TenantPlacement, error) {
	args := m.Called(ctx, ownerID, roomNo, propertyName, tenant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TenantPlacement), args.Error(1)
}

func (m *MockTenantRepository) FindByName(ctx context.Context, ownerID uuid.UUID, name string) ([]models.Tenant, error) {
	args := m.Called(ctx, ownerID, name)
	tenants, _ := args.Get(0).([]models.Tenant)
	return tenants, args.Error(1)
}

func (m *MockTenantRepository) GetPlacement(ctx context.Context, ownerID, tenantID uuid.UUID) (*models.TenantPlacement, error) {
	args := m.Called(ctx, ownerID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TenantPlacement), args.Error(1)
}

func (m *MockTenantRepository) ListPlacements(ctx context.Context, ownerID uuid.UUID, activeOnly bool) ([]models.TenantPlacement, error) {
	args := m.Called(ctx, ownerID, activeOnly)
	placements, _ := args.Get(0).([]models.TenantPlacement)
	return placements, args.Error(1)
}

func (m *MockTenantRepository) ListDueOn(ctx context.Context, date time.Time) ([]models.TenantPlacement, error) {
	args := m.Called(ctx, date)
	placements, _ := args.Get(0).([]models.TenantPlacement)
	return placements, args.Error(1)
}

// MockPaymentRepository is a mock implementation of PaymentRepository for testing
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Payment, error) {
	args := m.Called(ctx, tenantID)
	payments, _ := args.Get(0).([]models.Payment)
	return payments, args.Error(1)
}

func (m *MockPaymentRepository) List(ctx context.Context, ownerID uuid.UUID, filter repository.PaymentFilter) ([]models.PaymentRecord, error) {
	args := m.Called(ctx, ownerID, filter)
	records, _ := args.Get(0).([]models.PaymentRecord)
	return records, args.Error(1)
}

func (m *MockPaymentRepository) SumByProperty(ctx context.Context, propertyID uuid.UUID, period *models.Period) (decimal.Decimal, error) {
	args := m.Called(ctx, propertyID, period)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPaymentRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID, period models.Period) (int, error) {
	args := m.Called(ctx, ownerID, period)
	return args.Int(0), args.Error(1)
}

func (m *MockPaymentRepository) TotalsByTenant(ctx context.Context, ownerID uuid.UUID, period models.Period) (map[uuid.UUID]decimal.Decimal, error) {
	args := m.Called(ctx, ownerID, period)
	totals, _ := args.Get(0).(map[uuid.UUID]decimal.Decimal)
	return totals, args.Error(1)
}

// MockReportCache is a mock implementation of cache.ReportCache for testing
type MockReportCache struct {
	mock.Mock
}

func (m *MockReportCache) Get(ctx context.Context, ownerID uuid.UUID, key string, dest any) (bool, error) {
	args := m.Called(ctx, ownerID, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockReportCache) Set(ctx context.Context, ownerID uuid.UUID, key string, value any) error {
	args := m.Called(ctx, ownerID, key, value)
	return args.Error(0)
}

func (m *MockReportCache) InvalidateOwner(ctx context.Context, ownerID uuid.UUID) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

// MockImageStore is a mock implementation of storage.ImageStore for testing
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, r, size, contentType)
	return args.Error(0)
}

func (m *MockImageStore) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockImageStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockImageStore) EnsureBucket(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockMailer is a mock implementation of notify.Mailer for testing
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg notify.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
