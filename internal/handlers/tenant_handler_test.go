package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/rms/internal/models"
	"github.com/stwalsh4118/rms/internal/services"
)

func TestTenantHandler_Assign(t *testing.T) {
	f := newAPIFixture(t)
	tenantID, roomID := uuid.New(), uuid.New()
	leaseStart := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	f.occupancy.On("AssignTenant", mock.Anything, f.owner, mock.MatchedBy(func(in services.AssignTenantInput) bool {
		return in.RoomNo == "101" &&
			in.PropertyName == "" &&
			in.TenantName == "Alice" &&
			in.RentDueDate.Equal(time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)) &&
			in.LeaseStartDate != nil && in.LeaseStartDate.Equal(leaseStart) &&
			in.LeaseEndDate == nil
	})).Return(&models.TenantPlacement{
		PropertyName: "Oakwood",
		RoomNo:       "101",
		Tenant: models.Tenant{
			ID:             tenantID,
			RoomID:         roomID,
			Name:           "Alice",
			PhoneNo:        "555-0100",
			Email:          "alice@example.com",
			RentDueDate:    time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
			LeaseStartDate: &leaseStart,
			IsActive:       true,
		},
	}, nil)

	w := f.do(http.MethodPost, "/api/v1/tenants", map[string]any{
		"room_no":          "101",
		"tenant_name":      "Alice",
		"phone_no":         "555-0100",
		"email":            "alice@example.com",
		"rent_due_date":    "2024-03-05",
		"lease_start_date": "2024-01-01",
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp TenantResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, tenantID, resp.ID)
	assert.Equal(t, roomID, resp.RoomID)
	assert.Equal(t, "101", resp.RoomNumber)
	assert.Equal(t, "Oakwood", resp.PropertyName)
	assert.Equal(t, "2024-03-05", resp.RentDueDate)
	require.NotNil(t, resp.LeaseStartDate)
	assert.Equal(t, "2024-01-01", *resp.LeaseStartDate)
	assert.Nil(t, resp.LeaseEndDate)
	assert.True(t, resp.IsActive)
}

func TestTenantHandler_Assign_DomainErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
		field  string
	}{
		{
			name:   "room already occupied",
			err:    &services.FieldError{Err: services.ErrAlreadyOccupied, Field: "room_no", Message: "This room is already occupied."},
			status: http.StatusConflict,
			code:   "ALREADY_OCCUPIED",
			field:  "room_no",
		},
		{
			name:   "room not found",
			err:    &services.FieldError{Err: services.ErrNotFound, Field: "room_no", Message: "Room with number 101 does not exist."},
			status: http.StatusNotFound,
			code:   "NOT_FOUND",
			field:  "room_no",
		},
		{
			name:   "room number in two properties",
			err:    &services.FieldError{Err: services.ErrAmbiguous, Field: "room_no", Message: "specify property_name"},
			status: http.StatusBadRequest,
			code:   "AMBIGUOUS",
			field:  "room_no",
		},
		{
			name:   "email in use",
			err:    &services.FieldError{Err: services.ErrConflict, Field: "email", Message: "A tenant with this email already exists."},
			status: http.StatusConflict,
			code:   "CONFLICT",
			field:  "email",
		},
		{
			name:   "database failure",
			err:    fmt.Errorf("failed to assign tenant: %w", fmt.Errorf("conn reset")),
			status: http.StatusInternalServerError,
			code:   "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPIFixture(t)
			f.occupancy.On("AssignTenant", mock.Anything, f.owner, mock.Anything).Return(nil, tt.err)

			w := f.do(http.MethodPost, "/api/v1/tenants", map[string]any{
				"room_no":       "101",
				"tenant_name":   "Alice",
				"phone_no":      "555-0100",
				"email":         "alice@example.com",
				"rent_due_date": "2024-03-05",
			})

			assert.Equal(t, tt.status, w.Code)
			body := decodeError(t, w)
			assert.Equal(t, tt.code, body.Error.Code)
			if tt.field != "" {
				assert.Contains(t, body.Error.Details, tt.field)
			}
			assert.NotContains(t, w.Body.String(), "conn reset")
		})
	}
}

func TestTenantHandler_Assign_Validation(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(http.MethodPost, "/api/v1/tenants", map[string]any{
		"room_no":       "101",
		"tenant_name":   "Alice",
		"phone_no":      "555-0100",
		"email":         "not-an-email",
		"rent_due_date": "05/03/2024",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Contains(t, body.Error.Details, "Email")
	assert.Contains(t, body.Error.Details, "RentDueDate")
}

func TestTenantHandler_PaymentHistory(t *testing.T) {
	f := newAPIFixture(t)
	tenantID, paymentID := uuid.New(), uuid.New()
	generated := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	receipt := "R-1"

	f.ledger.On("PaymentHistory", mock.Anything, f.owner, tenantID).Return(&services.TenantPaymentHistory{
		GeneratedAt: generated,
		IsRentDue:   true,
		Placement: models.TenantPlacement{
			PropertyName: "Oakwood",
			RoomNo:       "101",
			RentAmount:   dec("1200"),
			Tenant: models.Tenant{
				ID:          tenantID,
				Name:        "Alice",
				Email:       "alice@example.com",
				RentDueDate: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
				IsActive:    true,
			},
		},
		Payments: []models.Payment{
			{ID: paymentID, TenantID: tenantID, Amount: dec("1200"), Method: models.PaymentMethodCash, Status: models.PaymentStatusPending, ReceiptNumber: &receipt, PaymentDate: generated},
		},
		Summary: models.PaymentHistorySummary{TotalPaid: dec("0"), Outstanding: dec("1200"), TotalPayments: 1, PendingPayments: 1},
	}, nil)

	w := f.do(http.MethodGet, "/api/v1/tenants/"+tenantID.String()+"/payment-history", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	info := resp["tenant_info"].(map[string]any)
	assert.Equal(t, "Alice", info["tenant_name"])
	assert.Equal(t, "Oakwood", info["property_name"])
	assert.Equal(t, "1200", info["monthly_rent"])
	assert.Equal(t, "2024-03-05", info["rent_due_date"])
	assert.Nil(t, info["lease_end_date"])

	summary := resp["financial_summary"].(map[string]any)
	assert.Equal(t, true, summary["is_rent_due"])
	hist := summary["payment_history_summary"].(map[string]any)
	assert.EqualValues(t, 0, hist["overdue_payments"])
	assert.EqualValues(t, 1, hist["pending_payments"])

	payments := resp["payment_history"].([]any)
	require.Len(t, payments, 1)
	p := payments[0].(map[string]any)
	assert.Equal(t, paymentID.String(), p["id"])
	assert.Equal(t, "Alice", p["tenant_name"])
	assert.Equal(t, "R-1", p["receipt_number"])
	assert.Equal(t, "2024-03-15T10:00:00Z", resp["generated_at"])
}

func TestTenantHandler_PaymentHistory_NotFound(t *testing.T) {
	f := newAPIFixture(t)
	tenantID := uuid.New()

	f.ledger.On("PaymentHistory", mock.Anything, f.owner, tenantID).
		Return(nil, &services.FieldError{Err: services.ErrNotFound, Field: "tenant", Message: "Tenant not found."})

	w := f.do(http.MethodGet, "/api/v1/tenants/"+tenantID.String()+"/payment-history", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Tenant not found.", decodeError(t, w).Error.Message)
}
