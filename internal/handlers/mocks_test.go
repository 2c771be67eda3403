package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/rms/internal/logger"
	"github.com/stwalsh4118/rms/internal/middleware"
	"github.com/stwalsh4118/rms/internal/models"
	"github.com/stwalsh4118/rms/internal/repository"
	"github.com/stwalsh4118/rms/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "handler-test-secret"

type MockPropertyService struct{ mock.Mock }

func (m *MockPropertyService) CreateProperty(ctx context.Context, ownerID uuid.UUID, in services.CreatePropertyInput) (*models.Property, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) ListProperties(ctx context.Context, ownerID uuid.UUID) ([]services.PropertyDetail, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.PropertyDetail), args.Error(1)
}

func (m *MockPropertyService) GetProperty(ctx context.Context, ownerID, propertyID uuid.UUID) (*services.PropertyDetail, error) {
	args := m.Called(ctx, ownerID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PropertyDetail), args.Error(1)
}

func (m *MockPropertyService) CreateRoom(ctx context.Context, ownerID, propertyID uuid.UUID, roomNo string, rent decimal.Decimal) (*models.Room, error) {
	args := m.Called(ctx, ownerID, propertyID, roomNo, rent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockPropertyService) ListRooms(ctx context.Context, ownerID, propertyID uuid.UUID) ([]models.RoomWithTenant, error) {
	args := m.Called(ctx, ownerID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RoomWithTenant), args.Error(1)
}

func (m *MockPropertyService) UploadPropertyImage(ctx context.Context, ownerID, propertyID uuid.UUID, img services.ImageUpload) (string, error) {
	args := m.Called(ctx, ownerID, propertyID, img)
	return args.String(0), args.Error(1)
}

type MockOccupancyService struct{ mock.Mock }

func (m *MockOccupancyService) AssignTenant(ctx context.Context, ownerID uuid.UUID, in services.AssignTenantInput) (*models.TenantPlacement, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TenantPlacement), args.Error(1)
}

func (m *MockOccupancyService) RoomStatus(ctx context.Context, ownerID uuid.UUID) (*services.RoomStatusReport, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.RoomStatusReport), args.Error(1)
}

func (m *MockOccupancyService) ActiveTenants(ctx context.Context, ownerID uuid.UUID) ([]models.TenantPlacement, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TenantPlacement), args.Error(1)
}

type MockPaymentLedger struct{ mock.Mock }

func (m *MockPaymentLedger) RecordPayment(ctx context.Context, ownerID uuid.UUID, in services.RecordPaymentInput) (*models.PaymentRecord, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentRecord), args.Error(1)
}

func (m *MockPaymentLedger) TotalCollected(ctx context.Context, propertyID uuid.UUID, period models.Period) (decimal.Decimal, error) {
	args := m.Called(ctx, propertyID, period)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPaymentLedger) TotalRentCollected(ctx context.Context, propertyID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, propertyID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPaymentLedger) PaymentsForTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Payment, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Payment), args.Error(1)
}

func (m *MockPaymentLedger) IsOverdue(payment *models.Payment, tenant *models.Tenant) bool {
	return m.Called(payment, tenant).Bool(0)
}

func (m *MockPaymentLedger) PaymentHistorySummary(ctx context.Context, tenantID uuid.UUID) (models.PaymentHistorySummary, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(models.PaymentHistorySummary), args.Error(1)
}

func (m *MockPaymentLedger) PaymentHistory(ctx context.Context, ownerID, tenantID uuid.UUID) (*services.TenantPaymentHistory, error) {
	args := m.Called(ctx, ownerID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TenantPaymentHistory), args.Error(1)
}

func (m *MockPaymentLedger) ListPayments(ctx context.Context, ownerID uuid.UUID, filter repository.PaymentFilter) ([]models.PaymentRecord, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PaymentRecord), args.Error(1)
}

func (m *MockPaymentLedger) PaymentsReceived(ctx context.Context, ownerID uuid.UUID, period models.Period) (int, error) {
	args := m.Called(ctx, ownerID, period)
	return args.Int(0), args.Error(1)
}

func (m *MockPaymentLedger) CollectedByTenant(ctx context.Context, ownerID uuid.UUID, period models.Period) (map[uuid.UUID]decimal.Decimal, error) {
	args := m.Called(ctx, ownerID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]decimal.Decimal), args.Error(1)
}

type MockReportingService struct{ mock.Mock }

func (m *MockReportingService) HousewiseOverview(ctx context.Context, ownerID uuid.UUID) ([]services.PropertyOverview, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.PropertyOverview), args.Error(1)
}

func (m *MockReportingService) MonthlyInsights(ctx context.Context, ownerID uuid.UUID, period models.Period) (*services.MonthlyInsights, error) {
	args := m.Called(ctx, ownerID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.MonthlyInsights), args.Error(1)
}

func (m *MockReportingService) TenantPaymentStatus(ctx context.Context, ownerID uuid.UUID, period models.Period) (*services.TenantPaymentStatus, error) {
	args := m.Called(ctx, ownerID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TenantPaymentStatus), args.Error(1)
}

type MockReminderService struct{ mock.Mock }

func (m *MockReminderService) SendDueRentReminders(ctx context.Context, date time.Time) (int, error) {
	args := m.Called(ctx, date)
	return args.Int(0), args.Error(1)
}

// apiFixture is the full router over mocked services.
type apiFixture struct {
	t          *testing.T
	router     *gin.Engine
	owner      uuid.UUID
	token      string
	properties *MockPropertyService
	occupancy  *MockOccupancyService
	ledger     *MockPaymentLedger
	reporting  *MockReportingService
	reminders  *MockReminderService
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	f := &apiFixture{
		t:          t,
		owner:      uuid.New(),
		properties: new(MockPropertyService),
		occupancy:  new(MockOccupancyService),
		ledger:     new(MockPaymentLedger),
		reporting:  new(MockReportingService),
		reminders:  new(MockReminderService),
	}
	f.token = f.sign(false)
	f.router = NewRouter(RouterConfig{
		Log:            logger.Nop(),
		JWTSecret:      testSecret,
		AllowedOrigins: []string{"http://localhost:3000"},
		Health:         NewHealthHandler(pinger(nil), nil, "test", Features{}),
		Properties:     f.properties,
		Occupancy:      f.occupancy,
		Ledger:         f.ledger,
		Reporting:      f.reporting,
		Reminders:      f.reminders,
	})
	t.Cleanup(func() {
		f.properties.AssertExpectations(t)
		f.occupancy.AssertExpectations(t)
		f.ledger.AssertExpectations(t)
		f.reporting.AssertExpectations(t)
		f.reminders.AssertExpectations(t)
	})
	return f
}

func (f *apiFixture) sign(admin bool) string {
	token, err := middleware.SignOwnerToken(testSecret, f.owner, admin, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	require.NoError(f.t, err)
	return token
}

func (f *apiFixture) do(method, path string, body any) *httptest.ResponseRecorder {
	return f.doWithToken(f.token, method, path, body)
}

func (f *apiFixture) doWithToken(token, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(f.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

type errorBody struct {
	Error struct {
		Code      string                 `json:"code"`
		Message   string                 `json:"message"`
		Details   map[string]interface{} `json:"details"`
		RequestID string                 `json:"request_id"`
	} `json:"error"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// decEq matches a decimal argument by value.
func decEq(s string) interface{} {
	want := dec(s)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}
