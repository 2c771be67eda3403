package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/rms/internal/cache"
	"github.com/stwalsh4118/rms/internal/logger"
	"github.com/stwalsh4118/rms/internal/models"
	"github.com/stwalsh4118/rms/internal/repository"
)

// RecordPaymentInput identifies the payer by names, as entered by the owner.
type RecordPaymentInput struct {
	TransactionID *string
	ReceiptNumber *string
	TenantName    string
	RoomNo        string
	PropertyName  string
	Method        models.PaymentMethod
	Amount        decimal.Decimal
}

// TenantPaymentHistory is a tenant's placement, payments and their summary.
type TenantPaymentHistory struct {
	GeneratedAt time.Time
	Placement   models.TenantPlacement
	Payments    []models.Payment
	Summary     models.PaymentHistorySummary
	IsRentDue   bool
}

// PaymentLedger records payments and owns every payment aggregate.
type PaymentLedger interface {
	// RecordPayment resolves property, room and tenant by name within the
	// owner's portfolio and stores a pending payment dated now.
	RecordPayment(ctx context.Context, ownerID uuid.UUID, in RecordPaymentInput) (*models.PaymentRecord, error)

	// TotalCollected sums the property's payments dated within the period,
	// whatever their status.
	TotalCollected(ctx context.Context, propertyID uuid.UUID, period models.Period) (decimal.Decimal, error)

	// TotalRentCollected sums all of the property's payments ever made.
	TotalRentCollected(ctx context.Context, propertyID uuid.UUID) (decimal.Decimal, error)

	PaymentsForTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Payment, error)

	// IsOverdue reports whether an unpaid payment's tenant is past due today.
	IsOverdue(payment *models.Payment, tenant *models.Tenant) bool

	PaymentHistorySummary(ctx context.Context, tenantID uuid.UUID) (models.PaymentHistorySummary, error)

	// PaymentHistory returns ErrNotFound when the tenant is not the owner's.
	PaymentHistory(ctx context.Context, ownerID, tenantID uuid.UUID) (*TenantPaymentHistory, error)

	ListPayments(ctx context.Context, ownerID uuid.UUID, filter repository.PaymentFilter) ([]models.PaymentRecord, error)

	// PaymentsReceived counts the owner's payments dated within the period.
	PaymentsReceived(ctx context.Context, ownerID uuid.UUID, period models.Period) (int, error)

	// CollectedByTenant sums the period's payments per tenant. Tenants that
	// paid nothing in the period are absent from the map.
	CollectedByTenant(ctx context.Context, ownerID uuid.UUID, period models.Period) (map[uuid.UUID]decimal.Decimal, error)
}

type paymentLedger struct {
	properties repository.PropertyRepository
	rooms      repository.RoomRepository
	tenants    repository.TenantRepository
	payments   repository.PaymentRepository
	reports    cache.ReportCache
	log        *logger.Logger
	now        func() time.Time
}

// NewPaymentLedger creates a new instance of PaymentLedger.
func NewPaymentLedger(
	properties repository.PropertyRepository,
	rooms repository.RoomRepository,
	tenants repository.TenantRepository,
	payments repository.PaymentRepository,
	reports cache.ReportCache,
	log *logger.Logger,
) PaymentLedger {
	return &paymentLedger{
		properties: properties,
		rooms:      rooms,
		tenants:    tenants,
		payments:   payments,
		reports:    reports,
		log:        log,
		now:        time.Now,
	}
}

func (s *paymentLedger) RecordPayment(ctx context.Context, ownerID uuid.UUID, in RecordPaymentInput) (*models.PaymentRecord, error) {
	if !in.Amount.IsPositive() {
		return nil, fieldError(ErrInvalidInput, "amount", "Amount must be greater than zero.")
	}
	if !in.Method.Valid() {
		return nil, fieldError(ErrInvalidInput, "method", "Method must be one of: cash, online.")
	}

	props, err := s.properties.FindByName(ctx, ownerID, in.PropertyName)
	if err != nil {
		return nil, fmt.Errorf("failed to look up property: %w", err)
	}
	switch len(props) {
	case 0:
		return nil, fieldError(ErrNotFound, "property_name", "Property '%s' does not exist.", in.PropertyName)
	case 1:
	default:
		return nil, fieldError(ErrAmbiguous, "property_name", "Multiple properties found with name '%s'.", in.PropertyName)
	}
	property := props[0]

	room, err := s.rooms.FindInProperty(ctx, property.ID, in.RoomNo)
	if err != nil {
		return nil, fmt.Errorf("failed to look up room: %w", err)
	}
	if room == nil {
		return nil, fieldError(ErrNotFound, "room_no", "Room '%s' does not exist in property '%s'.", in.RoomNo, in.PropertyName)
	}

	tenants, err := s.tenants.FindByName(ctx, ownerID, in.TenantName)
	if err != nil {
		return nil, fmt.Errorf("failed to look up tenant: %w", err)
	}
	switch len(tenants) {
	case 0:
		return nil, fieldError(ErrNotFound, "tenant_name", "Tenant '%s' does not exist.", in.TenantName)
	case 1:
	default:
		return nil, fieldError(ErrAmbiguous, "tenant_name",
			"Multiple tenants found with name '%s'. Please use a more specific identifier.", in.TenantName)
	}
	tenant := tenants[0]

	if tenant.RoomID != room.ID {
		return nil, fieldError(ErrMismatch, "tenant_name", "Tenant '%s' is not assigned to room '%s'.", in.TenantName, in.RoomNo)
	}

	payment := models.Payment{
		ID:            uuid.New(),
		TenantID:      tenant.ID,
		RoomID:        room.ID,
		PropertyID:    property.ID,
		Amount:        in.Amount,
		PaymentDate:   s.now().UTC(),
		Method:        in.Method,
		Status:        models.PaymentStatusPending,
		TransactionID: in.TransactionID,
		ReceiptNumber: in.ReceiptNumber,
	}
	if err := s.payments.Create(ctx, &payment); err != nil {
		s.log.Error("Failed to record payment", err, logger.Fields{
			"tenant_id": tenant.ID.String(),
			"room_no":   in.RoomNo,
		})
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	invalidateReports(ctx, s.reports, s.log, ownerID)
	s.log.Info("Payment recorded", logger.Fields{
		"payment_id":  payment.ID.String(),
		"tenant_id":   tenant.ID.String(),
		"property_id": property.ID.String(),
		"amount":      payment.Amount.String(),
		"method":      string(payment.Method),
	})

	return &models.PaymentRecord{
		Payment:      payment,
		TenantName:   tenant.Name,
		RoomNo:       room.RoomNo,
		PropertyName: property.Name,
	}, nil
}

func (s *paymentLedger) TotalCollected(ctx context.Context, propertyID uuid.UUID, period models.Period) (decimal.Decimal, error) {
	total, err := s.payments.SumByProperty(ctx, propertyID, &period)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to total collections for %s: %w", period, err)
	}
	return total, nil
}

func (s *paymentLedger) TotalRentCollected(ctx context.Context, propertyID uuid.UUID) (decimal.Decimal, error) {
	total, err := s.payments.SumByProperty(ctx, propertyID, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to total collections: %w", err)
	}
	return total, nil
}

func (s *paymentLedger) PaymentsForTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Payment, error) {
	payments, err := s.payments.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

func (s *paymentLedger) IsOverdue(payment *models.Payment, tenant *models.Tenant) bool {
	return payment.IsOverdue(tenant, s.now())
}

func (s *paymentLedger) PaymentHistorySummary(ctx context.Context, tenantID uuid.UUID) (models.PaymentHistorySummary, error) {
	payments, err := s.PaymentsForTenant(ctx, tenantID)
	if err != nil {
		return models.PaymentHistorySummary{}, err
	}
	return models.SummarizePayments(payments), nil
}

func (s *paymentLedger) PaymentHistory(ctx context.Context, ownerID, tenantID uuid.UUID) (*TenantPaymentHistory, error) {
	placement, err := s.tenants.GetPlacement(ctx, ownerID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tenant: %w", err)
	}
	if placement == nil {
		return nil, fieldError(ErrNotFound, "tenant_id", "Tenant not found.")
	}

	payments, err := s.PaymentsForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return &TenantPaymentHistory{
		Placement:   *placement,
		Payments:    payments,
		Summary:     models.SummarizePayments(payments),
		IsRentDue:   placement.Tenant.IsRentDue(now),
		GeneratedAt: now,
	}, nil
}

func (s *paymentLedger) ListPayments(ctx context.Context, ownerID uuid.UUID, filter repository.PaymentFilter) ([]models.PaymentRecord, error) {
	filter.TenantName = strings.TrimSpace(filter.TenantName)
	filter.PropertyName = strings.TrimSpace(filter.PropertyName)

	records, err := s.payments.List(ctx, ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return records, nil
}

func (s *paymentLedger) PaymentsReceived(ctx context.Context, ownerID uuid.UUID, period models.Period) (int, error) {
	n, err := s.payments.CountByOwner(ctx, ownerID, period)
	if err != nil {
		return 0, fmt.Errorf("failed to count payments: %w", err)
	}
	return n, nil
}

func (s *paymentLedger) CollectedByTenant(ctx context.Context, ownerID uuid.UUID, period models.Period) (map[uuid.UUID]decimal.Decimal, error) {
	totals, err := s.payments.TotalsByTenant(ctx, ownerID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to total payments by tenant: %w", err)
	}
	return totals, nil
}
