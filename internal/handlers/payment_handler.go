package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	apierrors "github.com/stwalsh4118/rms/internal/errors"
	"github.com/stwalsh4118/rms/internal/models"
	"github.com/stwalsh4118/rms/internal/repository"
	"github.com/stwalsh4118/rms/internal/services"
)

// PaymentHandler records and lists rent payments.
type PaymentHandler struct {
	ledger services.PaymentLedger
}

// NewPaymentHandler creates a new PaymentHandler instance.
func NewPaymentHandler(ledger services.PaymentLedger) *PaymentHandler {
	return &PaymentHandler{ledger: ledger}
}

// RecordPaymentRequest is the body of POST /api/v1/payments. The payer is
// identified by names; amount may be a JSON number or a decimal string.
type RecordPaymentRequest struct {
	TenantName    string          `json:"tenant_name" binding:"required"`
	RoomNo        string          `json:"room_no" binding:"required"`
	PropertyName  string          `json:"property_name" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method" binding:"required,oneof=cash online"`
	TransactionID *string         `json:"transaction_id" binding:"omitempty,max=100"`
	ReceiptNumber *string         `json:"receipt_number" binding:"omitempty,max=50"`
}

// ListPaymentsQuery holds the optional filters of GET /api/v1/payments.
type ListPaymentsQuery struct {
	TenantName   string `form:"tenant_name"`
	PropertyName string `form:"property_name"`
	RoomNo       string `form:"room_no"`
	Method       string `form:"method" binding:"omitempty,oneof=cash online"`
}

// PaymentResponse is a payment with the names it refers to.
type PaymentResponse struct {
	ID            uuid.UUID            `json:"id"`
	TenantID      uuid.UUID            `json:"tenant"`
	TenantName    string               `json:"tenant_name"`
	RoomID        uuid.UUID            `json:"room"`
	RoomNo        string               `json:"room_no"`
	PropertyID    uuid.UUID            `json:"property"`
	PropertyName  string               `json:"property_name"`
	Amount        decimal.Decimal      `json:"amount"`
	Method        models.PaymentMethod `json:"method"`
	Status        models.PaymentStatus `json:"status"`
	TransactionID *string              `json:"transaction_id"`
	ReceiptNumber *string              `json:"receipt_number"`
	PaymentDate   time.Time            `json:"payment_date"`
}

func toPaymentResponse(r models.PaymentRecord) PaymentResponse {
	p := r.Payment
	return PaymentResponse{
		ID:            p.ID,
		TenantID:      p.TenantID,
		TenantName:    r.TenantName,
		RoomID:        p.RoomID,
		RoomNo:        r.RoomNo,
		PropertyID:    p.PropertyID,
		PropertyName:  r.PropertyName,
		Amount:        p.Amount,
		Method:        p.Method,
		Status:        p.Status,
		TransactionID: p.TransactionID,
		ReceiptNumber: p.ReceiptNumber,
		PaymentDate:   p.PaymentDate,
	}
}

// Record handles POST /api/v1/payments.
func (h *PaymentHandler) Record(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var req RecordPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	record, err := h.ledger.RecordPayment(c.Request.Context(), owner, services.RecordPaymentInput{
		TenantName:    req.TenantName,
		RoomNo:        req.RoomNo,
		PropertyName:  req.PropertyName,
		Amount:        req.Amount,
		Method:        models.PaymentMethod(req.Method),
		TransactionID: req.TransactionID,
		ReceiptNumber: req.ReceiptNumber,
	})
	if err != nil {
		apierrors.DomainError(c, err)
		return
	}
	created(c, toPaymentResponse(*record))
}

// List handles GET /api/v1/payments.
func (h *PaymentHandler) List(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var q ListPaymentsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apierrors.BadRequest(c, "Invalid query parameters", map[string]interface{}{"method": "Must be one of: cash online"})
		return
	}

	records, err := h.ledger.ListPayments(c.Request.Context(), owner, repository.PaymentFilter{
		TenantName:   q.TenantName,
		PropertyName: q.PropertyName,
		RoomNo:       q.RoomNo,
		Method:       q.Method,
	})
	if err != nil {
		apierrors.DomainError(c, err)
		return
	}

	resp := make([]PaymentResponse, 0, len(records))
	for _, r := range records {
		resp = append(resp, toPaymentResponse(r))
	}
	c.JSON(http.StatusOK, resp)
}
