package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	apierrors "github.com/stwalsh4118/rms/internal/errors"
	"github.com/stwalsh4118/rms/internal/models"
	"github.com/stwalsh4118/rms/internal/services"
)

// ReportHandler serves the owner dashboards.
type ReportHandler struct {
	reporting services.ReportingService
	occupancy services.OccupancyService
	now       func() time.Time
}

// NewReportHandler creates a new ReportHandler instance.
func NewReportHandler(reporting services.ReportingService, occupancy services.OccupancyService) *ReportHandler {
	return &ReportHandler{reporting: reporting, occupancy: occupancy, now: time.Now}
}

// OccupiedRoomResponse is an occupied entry of the room status report.
type OccupiedRoomResponse struct {
	PropertyName  string          `json:"property_name"`
	RoomNo        string          `json:"room_no"`
	RentAmount    decimal.Decimal `json:"rent_amount"`
	TenantName    string          `json:"tenant_name"`
	TenantPhone   string          `json:"tenant_phone"`
	TenantEmail   string          `json:"tenant_email"`
	LeaseStart    *string         `json:"lease_start"`
	RentDueDate   string          `json:"rent_due_date"`
	IsActive      bool            `json:"is_active"`
	IsRentOverdue bool            `json:"is_rent_overdue"`
}

// VacantRoomResponse is a vacant entry of the room status report.
type VacantRoomResponse struct {
	PropertyName string          `json:"property_name"`
	RoomNo       string          `json:"room_no"`
	RentAmount   decimal.Decimal `json:"rent_amount"`
}

// RoomStatusSummary counts the owner's rooms.
type RoomStatusSummary struct {
	TotalRooms int `json:"total_rooms"`
	Occupied   int `json:"occupied"`
	Vacant     int `json:"vacant"`
}

// RoomStatusResponse is returned by GET /api/v1/room-status.
type RoomStatusResponse struct {
	Summary       RoomStatusSummary      `json:"summary"`
	VacantRooms   []VacantRoomResponse   `json:"vacant_rooms"`
	OccupiedRooms []OccupiedRoomResponse `json:"occupied_rooms"`
}

// Housewise handles GET /api/v1/housewise-overview.
func (h *ReportHandler) Housewise(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	overview, err := h.reporting.HousewiseOverview(c.Request.Context(), owner)
	if err != nil {
		apierrors.DomainError(c, err)
		return
	}
	if overview == nil {
		overview = []services.PropertyOverview{}
	}
	c.JSON(http.StatusOK, overview)
}

// MonthlyInsights handles GET /api/v1/monthly-insights?month=&year=.
func (h *ReportHandler) MonthlyInsights(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	period, ok := periodQuery(c, h.now())
	if !ok {
		return
	}

	insights, err := h.reporting.MonthlyInsights(c.Request.Context(), owner, period)
	if err != nil {
		apierrors.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, insights)
}

// TenantPaymentStatus handles GET /api/v1/tenant-payment-status?month=&year=.
func (h *ReportHandler) TenantPaymentStatus(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	period, ok := periodQuery(c, h.now())
	if !ok {
		return
	}

	status, err := h.reporting.TenantPaymentStatus(c.Request.Context(), owner, period)
	if err != nil {
		apierrors.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// RoomStatus handles GET /api/v1/room-status.
func (h *ReportHandler) RoomStatus(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	report, err := h.occupancy.RoomStatus(c.Request.Context(), owner)
	if err != nil {
		apierrors.DomainError(c, err)
		return
	}

	resp := RoomStatusResponse{
		Summary: RoomStatusSummary{
			TotalRooms: len(report.Occupied) + len(report.Vacant),
			Occupied:   len(report.Occupied),
			Vacant:     len(report.Vacant),
		},
		VacantRooms:   make([]VacantRoomResponse, 0, len(report.Vacant)),
		OccupiedRooms: make([]OccupiedRoomResponse, 0, len(report.Occupied)),
	}
	for _, v := range report.Vacant {
		resp.VacantRooms = append(resp.VacantRooms, VacantRoomResponse(v))
	}
	for _, o := range report.Occupied {
		resp.OccupiedRooms = append(resp.OccupiedRooms, OccupiedRoomResponse{
			PropertyName:  o.PropertyName,
			RoomNo:        o.RoomNo,
			RentAmount:    o.RentAmount,
			TenantName:    o.TenantName,
			TenantPhone:   o.TenantPhone,
			TenantEmail:   o.TenantEmail,
			LeaseStart:    models.FormatOptionalDate(o.LeaseStart),
			RentDueDate:   models.FormatDate(o.RentDueDate),
			IsActive:      o.IsActive,
			IsRentOverdue: o.IsOverdue,
		})
	}
	c.JSON(http.StatusOK, resp)
}
