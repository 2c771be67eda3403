package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/rms/internal/cache"
	"github.com/stwalsh4118/rms/internal/logger"
	"github.com/stwalsh4118/rms/internal/models"
	"github.com/stwalsh4118/rms/internal/repository"
)

// PropertyOverview is one row of the housewise overview.
type PropertyOverview struct {
	PropertyName   string          `json:"property_name"`
	TotalRentDue   decimal.Decimal `json:"total_rent_due"`
	TotalCollected decimal.Decimal `json:"total_collected"`
	Pending        decimal.Decimal `json:"pending"`
}

// MonthlySummary aggregates a month across the owner's portfolio.
type MonthlySummary struct {
	TotalExpectedRent      decimal.Decimal `json:"total_expected_rent"`
	TotalCollected         decimal.Decimal `json:"total_collected"`
	TotalPending           decimal.Decimal `json:"total_pending"`
	CollectionPercentage   decimal.Decimal `json:"collection_percentage"`
	TotalPaymentsReceived  int             `json:"total_payments_received"`
	TenantsWithPendingRent int             `json:"tenants_with_pending_rent"`
}

// MonthlyInsights is the collection status of one month.
type MonthlyInsights struct {
	Month       string         `json:"month"`
	LastUpdated string         `json:"last_updated"`
	Summary     MonthlySummary `json:"summary"`
}

// TenantPaymentEntry describes one active tenant in the payment status report.
// Exactly one of AmountPaid and AmountDue is set.
type TenantPaymentEntry struct {
	AmountPaid    *decimal.Decimal `json:"amount_paid,omitempty"`
	AmountDue     *decimal.Decimal `json:"amount_due,omitempty"`
	TenantName    string           `json:"tenant_name"`
	PhoneNo       string           `json:"phone_no"`
	Email         string           `json:"email"`
	PropertyName  string           `json:"property_name"`
	RoomNo        string           `json:"room_no"`
	RentDueDate   string           `json:"rent_due_date"`
	PaymentStatus string           `json:"payment_status"`
	RentAmount    decimal.Decimal  `json:"rent_amount"`
	TenantID      uuid.UUID        `json:"tenant_id"`
	IsOverdue     bool             `json:"is_overdue"`
}

// TenantStatusSummary counts tenants by payment status.
type TenantStatusSummary struct {
	TotalTenants int `json:"total_tenants"`
	PaidCount    int `json:"paid_count"`
	PendingCount int `json:"pending_count"`
}

// TenantPaymentStatus splits the owner's active tenants into those who paid
// something in the month and those who did not.
type TenantPaymentStatus struct {
	Month          string               `json:"month"`
	LastUpdated    string               `json:"last_updated"`
	Summary        TenantStatusSummary  `json:"summary"`
	PaidTenants    []TenantPaymentEntry `json:"paid_tenants"`
	PendingTenants []TenantPaymentEntry `json:"pending_tenants"`
}

// ReportingService builds owner-facing summaries from the ledgers and
// rent accrual. It keeps no aggregate definitions of its own.
type ReportingService interface {
	HousewiseOverview(ctx context.Context, ownerID uuid.UUID) ([]PropertyOverview, error)
	MonthlyInsights(ctx context.Context, ownerID uuid.UUID, period models.Period) (*MonthlyInsights, error)
	TenantPaymentStatus(ctx context.Context, ownerID uuid.UUID, period models.Period) (*TenantPaymentStatus, error)
}

type reportingService struct {
	properties repository.PropertyRepository
	accrual    RentAccrual
	ledger     PaymentLedger
	occupancy  OccupancyService
	reports    cache.ReportCache
	log        *logger.Logger
	now        func() time.Time
}

// NewReportingService creates a new instance of ReportingService.
func NewReportingService(
	properties repository.PropertyRepository,
	accrual RentAccrual,
	ledger PaymentLedger,
	occupancy OccupancyService,
	reports cache.ReportCache,
	log *logger.Logger,
) ReportingService {
	return &reportingService{
		properties: properties,
		accrual:    accrual,
		ledger:     ledger,
		occupancy:  occupancy,
		reports:    reports,
		log:        log,
		now:        time.Now,
	}
}

// invalidateReports drops cached reports after a write. Cache failures are
// logged and never fail the write.
func invalidateReports(ctx context.Context, reports cache.ReportCache, log *logger.Logger, ownerID uuid.UUID) {
	if err := reports.InvalidateOwner(ctx, ownerID); err != nil {
		log.Warn("Failed to invalidate cached reports", logger.Fields{
			"owner_id": ownerID.String(),
			"error":    err.Error(),
		})
	}
}

// cached serves key from the cache or fills it with build.
func cached[T any](ctx context.Context, s *reportingService, ownerID uuid.UUID, key string, build func() (T, error)) (T, error) {
	var hit T
	ok, err := s.reports.Get(ctx, ownerID, key, &hit)
	if err != nil {
		s.log.Warn("Report cache read failed", logger.Fields{"key": key, "error": err.Error()})
	} else if ok {
		s.log.Debug("Report served from cache", logger.Fields{"key": key})
		return hit, nil
	}

	value, err := build()
	if err != nil {
		return value, err
	}
	if err := s.reports.Set(ctx, ownerID, key, value); err != nil {
		s.log.Warn("Report cache write failed", logger.Fields{"key": key, "error": err.Error()})
	}
	return value, nil
}

func (s *reportingService) HousewiseOverview(ctx context.Context, ownerID uuid.UUID) ([]PropertyOverview, error) {
	return cached(ctx, s, ownerID, "housewise", func() ([]PropertyOverview, error) {
		props, err := s.properties.ListByOwner(ctx, ownerID)
		if err != nil {
			return nil, fmt.Errorf("failed to list properties: %w", err)
		}

		overview := make([]PropertyOverview, 0, len(props))
		for _, p := range props {
			due, err := s.accrual.TotalRentDue(ctx, p.ID)
			if err != nil {
				return nil, err
			}
			collected, err := s.accrual.TotalRentCollected(ctx, p.ID)
			if err != nil {
				return nil, err
			}
			pending, err := s.accrual.TotalRentPending(ctx, p.ID)
			if err != nil {
				return nil, err
			}
			overview = append(overview, PropertyOverview{
				PropertyName:   p.Name,
				TotalRentDue:   due,
				TotalCollected: collected,
				Pending:        pending,
			})
		}
		return overview, nil
	})
}

func (s *reportingService) MonthlyInsights(ctx context.Context, ownerID uuid.UUID, period models.Period) (*MonthlyInsights, error) {
	return cached(ctx, s, ownerID, "monthly:"+period.String(), func() (*MonthlyInsights, error) {
		props, err := s.properties.ListByOwner(ctx, ownerID)
		if err != nil {
			return nil, fmt.Errorf("failed to list properties: %w", err)
		}

		expected, collected := decimal.Zero, decimal.Zero
		for _, p := range props {
			e, err := s.accrual.ExpectedRentForPeriod(ctx, p.ID, int(period.Month), period.Year)
			if err != nil {
				return nil, err
			}
			c, err := s.ledger.TotalCollected(ctx, p.ID, period)
			if err != nil {
				return nil, err
			}
			expected = expected.Add(e)
			collected = collected.Add(c)
		}

		received, err := s.ledger.PaymentsReceived(ctx, ownerID, period)
		if err != nil {
			return nil, err
		}

		pendingTenants, err := s.tenantsWithPendingRent(ctx, ownerID, period)
		if err != nil {
			return nil, err
		}

		return &MonthlyInsights{
			Month:       period.Label(),
			LastUpdated: s.now().Format(time.RFC3339),
			Summary: MonthlySummary{
				TotalExpectedRent:      expected,
				TotalCollected:         collected,
				TotalPending:           expected.Sub(collected),
				CollectionPercentage:   models.CollectionPercentage(collected, expected),
				TotalPaymentsReceived:  received,
				TenantsWithPendingRent: pendingTenants,
			},
		}, nil
	})
}

// tenantsWithPendingRent counts active tenants whose rent is due by today and
// who made no payment in the period.
func (s *reportingService) tenantsWithPendingRent(ctx context.Context, ownerID uuid.UUID, period models.Period) (int, error) {
	tenants, err := s.occupancy.ActiveTenants(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	paid, err := s.ledger.CollectedByTenant(ctx, ownerID, period)
	if err != nil {
		return 0, err
	}

	now := s.now()
	count := 0
	for _, pl := range tenants {
		if _, ok := paid[pl.Tenant.ID]; ok {
			continue
		}
		if pl.Tenant.IsRentDue(now) {
			count++
		}
	}
	return count, nil
}

func (s *reportingService) TenantPaymentStatus(ctx context.Context, ownerID uuid.UUID, period models.Period) (*TenantPaymentStatus, error) {
	return cached(ctx, s, ownerID, "tenant-status:"+period.String(), func() (*TenantPaymentStatus, error) {
		tenants, err := s.occupancy.ActiveTenants(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		paid, err := s.ledger.CollectedByTenant(ctx, ownerID, period)
		if err != nil {
			return nil, err
		}

		now := s.now()
		report := &TenantPaymentStatus{
			Month:          period.Label(),
			LastUpdated:    now.Format(time.RFC3339),
			PaidTenants:    []TenantPaymentEntry{},
			PendingTenants: []TenantPaymentEntry{},
		}
		for _, pl := range tenants {
			entry := TenantPaymentEntry{
				TenantID:     pl.Tenant.ID,
				TenantName:   pl.Tenant.Name,
				PhoneNo:      pl.Tenant.PhoneNo,
				Email:        pl.Tenant.Email,
				PropertyName: pl.PropertyName,
				RoomNo:       pl.RoomNo,
				RentAmount:   pl.RentAmount,
				RentDueDate:  models.FormatDate(pl.Tenant.RentDueDate),
				IsOverdue:    pl.Tenant.IsRentDue(now),
			}
			if amount, ok := paid[pl.Tenant.ID]; ok {
				entry.AmountPaid = &amount
				entry.PaymentStatus = string(models.PaymentStatusPaid)
				report.PaidTenants = append(report.PaidTenants, entry)
				continue
			}
			due := pl.RentAmount
			entry.AmountDue = &due
			entry.PaymentStatus = string(models.PaymentStatusPending)
			report.PendingTenants = append(report.PendingTenants, entry)
		}
		report.Summary = TenantStatusSummary{
			TotalTenants: len(tenants),
			PaidCount:    len(report.PaidTenants),
			PendingCount: len(report.PendingTenants),
		}
		return report, nil
	})
}
