package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/rms/internal/repository"
)

// RentAccrual computes what a property owes. Collections come from the
// PaymentLedger so each aggregate has exactly one definition.
type RentAccrual interface {
	// TotalRentDue sums rent over every room of the property, occupied or not.
	TotalRentDue(ctx context.Context, propertyID uuid.UUID) (decimal.Decimal, error)

	// ExpectedRentForPeriod sums rent over rooms currently flagged occupied.
	// The period is accepted for symmetry with TotalCollected but does not
	// filter anything.
	ExpectedRentForPeriod(ctx context.Context, propertyID uuid.UUID, month, year int) (decimal.Decimal, error)

	TotalRentCollected(ctx context.Context, propertyID uuid.UUID) (decimal.Decimal, error)

	// TotalRentPending is TotalRentDue minus TotalRentCollected. It goes
	// negative when tenants overpay.
	TotalRentPending(ctx context.Context, propertyID uuid.UUID) (decimal.Decimal, error)
}

type rentAccrual struct {
	rooms  repository.RoomRepository
	ledger PaymentLedger
}

// NewRentAccrual creates a new instance of RentAccrual.
func NewRentAccrual(rooms repository.RoomRepository, ledger PaymentLedger) RentAccrual {
	return &rentAccrual{rooms: rooms, ledger: ledger}
}

func (s *rentAccrual) TotalRentDue(ctx context.Context, propertyID uuid.UUID) (decimal.Decimal, error) {
	total, err := s.rooms.SumRent(ctx, propertyID, false)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute rent due: %w", err)
	}
	return total, nil
}

func (s *rentAccrual) ExpectedRentForPeriod(ctx context.Context, propertyID uuid.UUID, _, _ int) (decimal.Decimal, error) {
	total, err := s.rooms.SumRent(ctx, propertyID, true)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute expected rent: %w", err)
	}
	return total, nil
}

func (s *rentAccrual) TotalRentCollected(ctx context.Context, propertyID uuid.UUID) (decimal.Decimal, error) {
	return s.ledger.TotalRentCollected(ctx, propertyID)
}

func (s *rentAccrual) TotalRentPending(ctx context.Context, propertyID uuid.UUID) (decimal.Decimal, error) {
	due, err := s.TotalRentDue(ctx, propertyID)
	if err != nil {
		return decimal.Zero, err
	}
	collected, err := s.TotalRentCollected(ctx, propertyID)
	if err != nil {
		return decimal.Zero, err
	}
	return due.Sub(collected), nil
}
