package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveOccupancy(t *testing.T) {
	tenant := &Tenant{Name: "Alice"}

	tests := []struct {
		name     string
		flag     bool
		tenant   *Tenant
		expected OccupancyState
		occupied bool
	}{
		{"no tenant, flag clear", false, nil, OccupancyAbsent, false},
		{"no tenant, stale flag", true, nil, OccupancyAbsent, false},
		{"tenant and flag", true, tenant, OccupancyConsistent, true},
		{"tenant without flag", false, tenant, OccupancyFlagMismatch, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := ResolveOccupancy(tt.flag, tt.tenant)
			assert.Equal(t, tt.expected, state)
			assert.Equal(t, tt.occupied, state.Occupied())
		})
	}
}

func TestRoomWithTenant_Occupancy(t *testing.T) {
	r := RoomWithTenant{Room: Room{IsOccupied: true}}
	assert.Equal(t, OccupancyAbsent, r.Occupancy())
	assert.Equal(t, "absent", r.Occupancy().String())

	r.Tenant = &Tenant{Name: "Bob"}
	assert.Equal(t, "occupied", r.Occupancy().String())

	r.Room.IsOccupied = false
	assert.Equal(t, "flag_mismatch", r.Occupancy().String())
}

func TestTenant_IsRentDue(t *testing.T) {
	now := time.Date(2024, time.March, 10, 15, 30, 0, 0, time.UTC)

	assert.True(t, (&Tenant{RentDueDate: date(2024, time.March, 9)}).IsRentDue(now))
	assert.True(t, (&Tenant{RentDueDate: date(2024, time.March, 10)}).IsRentDue(now), "due today counts")
	assert.False(t, (&Tenant{RentDueDate: date(2024, time.March, 11)}).IsRentDue(now))
}

func TestPayment_IsOverdue(t *testing.T) {
	now := time.Date(2024, time.March, 10, 8, 0, 0, 0, time.UTC)
	pastDue := &Tenant{RentDueDate: date(2024, time.March, 1)}
	dueToday := &Tenant{RentDueDate: date(2024, time.March, 10)}

	paid := &Payment{Status: PaymentStatusPaid}
	pending := &Payment{Status: PaymentStatusPending}

	assert.False(t, paid.IsOverdue(pastDue, now), "paid is never overdue")
	assert.True(t, pending.IsOverdue(pastDue, now))
	assert.False(t, pending.IsOverdue(dueToday, now), "due today is not yet overdue")
}

func TestPaymentMethod_Valid(t *testing.T) {
	assert.True(t, PaymentMethodCash.Valid())
	assert.True(t, PaymentMethodOnline.Valid())
	assert.False(t, PaymentMethod("cheque").Valid())
	assert.False(t, PaymentMethod("").Valid())
}

func TestSummarizePayments(t *testing.T) {
	payments := []Payment{
		{Status: PaymentStatusPaid, Amount: decimal.RequireFromString("1200.00")},
		{Status: PaymentStatusPaid, Amount: decimal.RequireFromString("800.50")},
		{Status: PaymentStatusPending, Amount: decimal.RequireFromString("300.00")},
	}

	summary := SummarizePayments(payments)

	assert.Equal(t, 3, summary.TotalPayments)
	assert.Equal(t, 2, summary.PaidPayments)
	assert.Equal(t, 1, summary.PendingPayments)
	assert.Equal(t, 0, summary.OverduePayments)
	assert.True(t, summary.TotalPaid.Equal(decimal.RequireFromString("2000.50")))
	assert.True(t, summary.Outstanding.Equal(decimal.RequireFromString("300")))
}

func TestSummarizePayments_Empty(t *testing.T) {
	summary := SummarizePayments(nil)
	assert.Zero(t, summary.TotalPayments)
	assert.True(t, summary.TotalPaid.IsZero())
	assert.True(t, summary.Outstanding.IsZero())
}

func TestPeriod(t *testing.T) {
	p, err := NewPeriod(2, 2024)
	require.NoError(t, err)

	start, end := p.Bounds()
	assert.Equal(t, date(2024, time.February, 1), start)
	assert.Equal(t, date(2024, time.March, 1), end)
	assert.Equal(t, "February 2024", p.Label())
	assert.Equal(t, "2024-02", p.String())

	assert.True(t, p.Contains(time.Date(2024, time.February, 29, 23, 59, 59, 0, time.UTC)))
	assert.False(t, p.Contains(date(2024, time.March, 1)))
	assert.False(t, p.Contains(time.Date(2024, time.January, 31, 23, 59, 59, 0, time.UTC)))
}

func TestPeriod_DecemberRollsOver(t *testing.T) {
	p := Period{Year: 2023, Month: time.December}
	_, end := p.Bounds()
	assert.Equal(t, date(2024, time.January, 1), end)
}

func TestNewPeriod_Invalid(t *testing.T) {
	_, err := NewPeriod(13, 2024)
	assert.Error(t, err)
	_, err = NewPeriod(0, 2024)
	assert.Error(t, err)
	_, err = NewPeriod(5, 0)
	assert.Error(t, err)
}

func TestPeriodOf(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	p := PeriodOf(time.Date(2024, time.January, 31, 22, 0, 0, 0, est))
	assert.Equal(t, Period{Year: 2024, Month: time.February}, p)
}

func TestCollectionPercentage(t *testing.T) {
	assert.True(t, CollectionPercentage(decimal.NewFromInt(500), decimal.Zero).IsZero())
	assert.Equal(t, "50", CollectionPercentage(decimal.NewFromInt(1200), decimal.NewFromInt(2400)).String())
	assert.Equal(t, "33.33", CollectionPercentage(decimal.NewFromInt(1), decimal.NewFromInt(3)).String())
}

func TestFormatDates(t *testing.T) {
	d := date(2024, time.July, 4)
	assert.Equal(t, "2024-07-04", FormatDate(d))
	assert.Nil(t, FormatOptionalDate(nil))
	require.NotNil(t, FormatOptionalDate(&d))
	assert.Equal(t, "2024-07-04", *FormatOptionalDate(&d))
}
