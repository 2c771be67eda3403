package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how a payment was made.
type PaymentMethod string

// PaymentStatus is the stored settlement state of a payment.
type PaymentStatus string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodOnline PaymentMethod = "online"
)

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	// PaymentStatusOverdue is counted by history summaries but is never stored:
	// the status column only admits pending and paid.
	PaymentStatusOverdue PaymentStatus = "overdue"
)

// Valid reports whether m is one of the accepted methods.
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCash || m == PaymentMethodOnline
}

// Payment is an immutable rent transaction. RoomID and PropertyID are copied
// from the tenant's room when the payment is recorded.
type Payment struct {
	PaymentDate   time.Time       `json:"payment_date"`
	TransactionID *string         `json:"transaction_id,omitempty"`
	ReceiptNumber *string         `json:"receipt_number,omitempty"`
	Method        PaymentMethod   `json:"method"`
	Status        PaymentStatus   `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
	ID            uuid.UUID       `json:"id"`
	TenantID      uuid.UUID       `json:"tenant"`
	RoomID        uuid.UUID       `json:"room"`
	PropertyID    uuid.UUID       `json:"property"`
}

// IsOverdue reports whether an unpaid payment's tenant is past the due date.
// Paid payments are never overdue.
func (p *Payment) IsOverdue(tenant *Tenant, now time.Time) bool {
	if p.Status == PaymentStatusPaid {
		return false
	}
	return DateOf(tenant.RentDueDate).Before(DateOf(now))
}

// PaymentRecord is a payment joined with the names it refers to.
type PaymentRecord struct {
	TenantName   string
	RoomNo       string
	PropertyName string
	Payment      Payment
}

// PaymentHistorySummary aggregates a tenant's payments by status.
type PaymentHistorySummary struct {
	TotalPaid       decimal.Decimal `json:"total_paid"`
	Outstanding     decimal.Decimal `json:"outstanding"`
	TotalPayments   int             `json:"total_payments"`
	PaidPayments    int             `json:"paid_payments"`
	PendingPayments int             `json:"pending_payments"`
	OverduePayments int             `json:"overdue_payments"`
}

// SummarizePayments builds the history summary for one tenant's payments.
// OverduePayments counts stored status "overdue", which no payment can hold,
// so it stays zero.
func SummarizePayments(payments []Payment) PaymentHistorySummary {
	summary := PaymentHistorySummary{
		TotalPaid:   decimal.Zero,
		Outstanding: decimal.Zero,
	}
	for _, p := range payments {
		summary.TotalPayments++
		switch p.Status {
		case PaymentStatusPaid:
			summary.PaidPayments++
			summary.TotalPaid = summary.TotalPaid.Add(p.Amount)
		case PaymentStatusPending:
			summary.PendingPayments++
			summary.Outstanding = summary.Outstanding.Add(p.Amount)
		case PaymentStatusOverdue:
			summary.OverduePayments++
		}
	}
	return summary
}
