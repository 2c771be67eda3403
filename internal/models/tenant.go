package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tenant is a lease-holder assigned to exactly one Room.
// RentDueDate is a calendar date; only its year, month and day are meaningful.
type Tenant struct {
	CreatedAt      time.Time  `json:"created_at"`
	RentDueDate    time.Time  `json:"rent_due_date"`
	LeaseStartDate *time.Time `json:"lease_start_date,omitempty"`
	LeaseEndDate   *time.Time `json:"lease_end_date,omitempty"`
	IDProofType    *string    `json:"id_proof_type,omitempty"`
	IDProofNumber  *string    `json:"id_proof_number,omitempty"`
	Name           string     `json:"tenant_name"`
	PhoneNo        string     `json:"phone_no"`
	Email          string     `json:"email"`
	ID             uuid.UUID  `json:"id"`
	RoomID         uuid.UUID  `json:"room_id"`
	IsActive       bool       `json:"is_active"`
}

// IsRentDue reports whether the due date is on or before the current date.
func (t *Tenant) IsRentDue(now time.Time) bool {
	return !DateOf(t.RentDueDate).After(DateOf(now))
}

// TenantPlacement is a tenant together with the room and property it occupies.
type TenantPlacement struct {
	PropertyName string
	RoomNo       string
	RentAmount   decimal.Decimal
	PropertyID   uuid.UUID
	Tenant       Tenant
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// FormatOptionalDate renders a nullable date, returning nil when absent.
func FormatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatDate(*t)
	return &s
}
