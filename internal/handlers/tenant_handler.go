package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	apierrors "github.com/stwalsh4118/rms/internal/errors"
	"github.com/stwalsh4118/rms/internal/models"
	"github.com/stwalsh4118/rms/internal/services"
)

// TenantHandler handles tenant placement and tenant payment history.
type TenantHandler struct {
	occupancy services.OccupancyService
	ledger    services.PaymentLedger
}

// NewTenantHandler creates a new TenantHandler instance.
func NewTenantHandler(occupancy services.OccupancyService, ledger services.PaymentLedger) *TenantHandler {
	return &TenantHandler{occupancy: occupancy, ledger: ledger}
}

// AssignTenantRequest is the body of POST /api/v1/tenants. The room is
// named by number; property_name is only needed when that number exists in
// more than one of the owner's properties.
type AssignTenantRequest struct {
	RoomNo         string  `json:"room_no" binding:"required"`
	PropertyName   string  `json:"property_name"`
	TenantName     string  `json:"tenant_name" binding:"required,max=255"`
	PhoneNo        string  `json:"phone_no" binding:"required,max=20"`
	Email          string  `json:"email" binding:"required,email"`
	RentDueDate    string  `json:"rent_due_date" binding:"required,datetime=2006-01-02"`
	LeaseStartDate *string `json:"lease_start_date" binding:"omitempty,datetime=2006-01-02"`
	LeaseEndDate   *string `json:"lease_end_date" binding:"omitempty,datetime=2006-01-02"`
	IDProofType    *string `json:"id_proof_type" binding:"omitempty,max=50"`
	IDProofNumber  *string `json:"id_proof_number" binding:"omitempty,max=100"`
}

// TenantResponse is a placed tenant.
type TenantResponse struct {
	ID             uuid.UUID `json:"id"`
	RoomID         uuid.UUID `json:"room_id"`
	RoomNumber     string    `json:"room_number"`
	PropertyName   string    `json:"property_name"`
	TenantName     string    `json:"tenant_name"`
	PhoneNo        string    `json:"phone_no"`
	Email          string    `json:"email"`
	RentDueDate    string    `json:"rent_due_date"`
	LeaseStartDate *string   `json:"lease_start_date"`
	LeaseEndDate   *string   `json:"lease_end_date"`
	IsActive       bool      `json:"is_active"`
}

// TenantInfo is the tenant block of the payment history response.
type TenantInfo struct {
	TenantID       uuid.UUID       `json:"tenant_id"`
	TenantName     string          `json:"tenant_name"`
	PhoneNo        string          `json:"phone_no"`
	Email          string          `json:"email"`
	RoomNo         string          `json:"room_no"`
	PropertyName   string          `json:"property_name"`
	MonthlyRent    decimal.Decimal `json:"monthly_rent"`
	RentDueDate    string          `json:"rent_due_date"`
	IsActive       bool            `json:"is_active"`
	LeaseStartDate *string         `json:"lease_start_date"`
	LeaseEndDate   *string         `json:"lease_end_date"`
}

// FinancialSummary is the summary block of the payment history response.
type FinancialSummary struct {
	IsRentDue             bool                         `json:"is_rent_due"`
	PaymentHistorySummary models.PaymentHistorySummary `json:"payment_history_summary"`
}

// PaymentHistoryResponse is returned by GET /api/v1/tenants/:id/payment-history.
type PaymentHistoryResponse struct {
	TenantInfo       TenantInfo        `json:"tenant_info"`
	FinancialSummary FinancialSummary  `json:"financial_summary"`
	PaymentHistory   []PaymentResponse `json:"payment_history"`
	GeneratedAt      time.Time         `json:"generated_at"`
}

// Assign handles POST /api/v1/tenants.
func (h *TenantHandler) Assign(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var req AssignTenantRequest
	if !bindJSON(c, &req) {
		return
	}

	// Formats were checked by the binding tags.
	due, _ := time.Parse(time.DateOnly, req.RentDueDate)
	leaseStart, _ := parseDate(req.LeaseStartDate)
	leaseEnd, _ := parseDate(req.LeaseEndDate)

	placement, err := h.occupancy.AssignTenant(c.Request.Context(), owner, services.AssignTenantInput{
		RoomNo:         req.RoomNo,
		PropertyName:   req.PropertyName,
		TenantName:     req.TenantName,
		PhoneNo:        req.PhoneNo,
		Email:          req.Email,
		RentDueDate:    due,
		LeaseStartDate: leaseStart,
		LeaseEndDate:   leaseEnd,
		IDProofType:    req.IDProofType,
		IDProofNumber:  req.IDProofNumber,
	})
	if err != nil {
		apierrors.DomainError(c, err)
		return
	}

	t := placement.Tenant
	created(c, TenantResponse{
		ID:             t.ID,
		RoomID:         t.RoomID,
		RoomNumber:     placement.RoomNo,
		PropertyName:   placement.PropertyName,
		TenantName:     t.Name,
		PhoneNo:        t.PhoneNo,
		Email:          t.Email,
		RentDueDate:    models.FormatDate(t.RentDueDate),
		LeaseStartDate: models.FormatOptionalDate(t.LeaseStartDate),
		LeaseEndDate:   models.FormatOptionalDate(t.LeaseEndDate),
		IsActive:       t.IsActive,
	})
}

// PaymentHistory handles GET /api/v1/tenants/:id/payment-history.
func (h *TenantHandler) PaymentHistory(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "Tenant")
	if !ok {
		return
	}

	history, err := h.ledger.PaymentHistory(c.Request.Context(), owner, id)
	if err != nil {
		apierrors.DomainError(c, err)
		return
	}

	p := history.Placement
	t := p.Tenant
	resp := PaymentHistoryResponse{
		TenantInfo: TenantInfo{
			TenantID:       t.ID,
			TenantName:     t.Name,
			PhoneNo:        t.PhoneNo,
			Email:          t.Email,
			RoomNo:         p.RoomNo,
			PropertyName:   p.PropertyName,
			MonthlyRent:    p.RentAmount,
			RentDueDate:    models.FormatDate(t.RentDueDate),
			IsActive:       t.IsActive,
			LeaseStartDate: models.FormatOptionalDate(t.LeaseStartDate),
			LeaseEndDate:   models.FormatOptionalDate(t.LeaseEndDate),
		},
		FinancialSummary: FinancialSummary{
			IsRentDue:             history.IsRentDue,
			PaymentHistorySummary: history.Summary,
		},
		PaymentHistory: make([]PaymentResponse, 0, len(history.Payments)),
		GeneratedAt:    history.GeneratedAt,
	}
	for _, payment := range history.Payments {
		resp.PaymentHistory = append(resp.PaymentHistory, toPaymentResponse(models.PaymentRecord{
			TenantName:   t.Name,
			RoomNo:       p.RoomNo,
			PropertyName: p.PropertyName,
			Payment:      payment,
		}))
	}

	c.JSON(http.StatusOK, resp)
}
