package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/rms/internal/cache"
	"github.com/stwalsh4118/rms/internal/logger"
	"github.com/stwalsh4118/rms/internal/models"
)

func newRentAccrual(rooms *MockRoomRepository, payments *MockPaymentRepository) RentAccrual {
	ledger := NewPaymentLedger(nil, rooms, nil, payments, cache.NewNoop(), logger.Nop())
	return NewRentAccrual(rooms, ledger)
}

// Oakwood has occupied rooms at 1000 and 1200 and a vacant one at 800.
func TestRentAccrual_DueVersusExpected(t *testing.T) {
	rooms := new(MockRoomRepository)
	accrual := newRentAccrual(rooms, new(MockPaymentRepository))

	ctx := context.Background()
	oakwood := uuid.New()
	rooms.On("SumRent", ctx, oakwood, false).Return(dec("3000"), nil)
	rooms.On("SumRent", ctx, oakwood, true).Return(dec("2200"), nil)

	due, err := accrual.TotalRentDue(ctx, oakwood)
	require.NoError(t, err)
	assert.True(t, due.Equal(dec("3000")))

	expected, err := accrual.ExpectedRentForPeriod(ctx, oakwood, 6, 2024)
	require.NoError(t, err)
	assert.True(t, expected.Equal(dec("2200")))

	// The period does not filter.
	other, err := accrual.ExpectedRentForPeriod(ctx, oakwood, 1, 1999)
	require.NoError(t, err)
	assert.True(t, other.Equal(expected))

	rooms.AssertExpectations(t)
}

func TestRentAccrual_PendingMayBeNegative(t *testing.T) {
	tests := []struct {
		name      string
		due       string
		collected string
		pending   string
	}{
		{"nothing paid", "3000", "0", "3000"},
		{"partly paid", "3000", "1200", "1800"},
		{"overpaid", "1000", "1500", "-500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rooms := new(MockRoomRepository)
			payments := new(MockPaymentRepository)
			accrual := newRentAccrual(rooms, payments)

			ctx := context.Background()
			property := uuid.New()
			rooms.On("SumRent", ctx, property, false).Return(dec(tt.due), nil)
			payments.On("SumByProperty", ctx, property, (*models.Period)(nil)).Return(dec(tt.collected), nil)

			pending, err := accrual.TotalRentPending(ctx, property)

			require.NoError(t, err)
			assert.True(t, pending.Equal(dec(tt.pending)), "got %s", pending)
		})
	}
}

func TestRentAccrual_PropagatesErrors(t *testing.T) {
	rooms := new(MockRoomRepository)
	payments := new(MockPaymentRepository)
	accrual := newRentAccrual(rooms, payments)

	ctx := context.Background()
	property := uuid.New()
	dbErr := errors.New("timeout")
	rooms.On("SumRent", ctx, property, false).Return(dec("0"), dbErr)

	_, err := accrual.TotalRentPending(ctx, property)
	assert.ErrorIs(t, err, dbErr)
	payments.AssertNotCalled(t, "SumByProperty")
}
