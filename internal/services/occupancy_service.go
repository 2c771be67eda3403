package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/rms/internal/cache"
	"github.com/stwalsh4118/rms/internal/logger"
	"github.com/stwalsh4118/rms/internal/models"
	"github.com/stwalsh4118/rms/internal/repository"
)

// AssignTenantInput carries the tenant fields plus the room to place them in.
// PropertyName is optional and only needed when the owner has the same room
// number in several properties.
type AssignTenantInput struct {
	RentDueDate    time.Time
	LeaseStartDate *time.Time
	LeaseEndDate   *time.Time
	IDProofType    *string
	IDProofNumber  *string
	RoomNo         string
	PropertyName   string
	TenantName     string
	PhoneNo        string
	Email          string
}

// OccupiedRoom is a room whose flag and tenant link agree.
type OccupiedRoom struct {
	RentDueDate  time.Time
	LeaseStart   *time.Time
	PropertyName string
	RoomNo       string
	TenantName   string
	TenantPhone  string
	TenantEmail  string
	RentAmount   decimal.Decimal
	IsActive     bool
	IsOverdue    bool
}

// VacantRoom is any room not counted as occupied, including rooms whose
// flag and tenant link disagree.
type VacantRoom struct {
	PropertyName string
	RoomNo       string
	RentAmount   decimal.Decimal
}

// RoomStatusReport lists the owner's rooms split by occupancy.
type RoomStatusReport struct {
	Occupied []OccupiedRoom
	Vacant   []VacantRoom
}

// OccupancyService maintains the one-tenant-per-room relationship.
type OccupancyService interface {
	// AssignTenant places a new tenant in the owner's room numbered RoomNo.
	// Errors: ErrNotFound, ErrAmbiguous, ErrAlreadyOccupied, ErrConflict
	// (e-mail in use), ErrInvalidInput.
	AssignTenant(ctx context.Context, ownerID uuid.UUID, in AssignTenantInput) (*models.TenantPlacement, error)

	RoomStatus(ctx context.Context, ownerID uuid.UUID) (*RoomStatusReport, error)

	// ActiveTenants lists the owner's active tenants with their rooms.
	ActiveTenants(ctx context.Context, ownerID uuid.UUID) ([]models.TenantPlacement, error)
}

type occupancyService struct {
	tenants repository.TenantRepository
	rooms   repository.RoomRepository
	reports cache.ReportCache
	log     *logger.Logger
	now     func() time.Time
}

// NewOccupancyService creates a new instance of OccupancyService.
func NewOccupancyService(tenants repository.TenantRepository, rooms repository.RoomRepository, reports cache.ReportCache, log *logger.Logger) OccupancyService {
	return &occupancyService{
		tenants: tenants,
		rooms:   rooms,
		reports: reports,
		log:     log,
		now:     time.Now,
	}
}

func (s *occupancyService) AssignTenant(ctx context.Context, ownerID uuid.UUID, in AssignTenantInput) (*models.TenantPlacement, error) {
	roomNo := strings.TrimSpace(in.RoomNo)
	if roomNo == "" {
		return nil, fieldError(ErrInvalidInput, "room_no", "This field is required.")
	}
	if in.LeaseStartDate != nil && in.LeaseEndDate != nil && in.LeaseEndDate.Before(*in.LeaseStartDate) {
		return nil, fieldError(ErrInvalidInput, "lease_end_date", "Lease end date must not be before lease start date.")
	}

	tenant := &models.Tenant{
		ID:             uuid.New(),
		Name:           in.TenantName,
		PhoneNo:        in.PhoneNo,
		Email:          in.Email,
		IsActive:       true,
		RentDueDate:    models.DateOf(in.RentDueDate),
		LeaseStartDate: in.LeaseStartDate,
		LeaseEndDate:   in.LeaseEndDate,
		IDProofType:    in.IDProofType,
		IDProofNumber:  in.IDProofNumber,
	}

	placement, err := s.tenants.AssignToRoom(ctx, ownerID, roomNo, strings.TrimSpace(in.PropertyName), tenant)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRoomNotFound):
			return nil, fieldError(ErrNotFound, "room_no", "Room with number %s does not exist.", roomNo)
		case errors.Is(err, repository.ErrRoomAmbiguous):
			return nil, fieldError(ErrAmbiguous, "room_no",
				"Room number %s exists in more than one property; specify property_name.", roomNo)
		case errors.Is(err, repository.ErrRoomOccupied):
			s.log.Warn("Room already occupied", logger.Fields{
				"owner_id": ownerID.String(),
				"room_no":  roomNo,
			})
			return nil, fieldError(ErrAlreadyOccupied, "room_no", "This room is already occupied.")
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, fieldError(ErrConflict, "email", "A tenant with this email already exists.")
		}
		s.log.Error("Failed to assign tenant", err, logger.Fields{
			"owner_id": ownerID.String(),
			"room_no":  roomNo,
		})
		return nil, fmt.Errorf("failed to assign tenant: %w", err)
	}

	invalidateReports(ctx, s.reports, s.log, ownerID)
	s.log.Info("Tenant assigned", logger.Fields{
		"tenant_id":     placement.Tenant.ID.String(),
		"room_id":       placement.Tenant.RoomID.String(),
		"property_name": placement.PropertyName,
	})
	return placement, nil
}

func (s *occupancyService) RoomStatus(ctx context.Context, ownerID uuid.UUID) (*RoomStatusReport, error) {
	rooms, err := s.rooms.ListWithTenants(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	now := s.now()
	report := &RoomStatusReport{
		Occupied: []OccupiedRoom{},
		Vacant:   []VacantRoom{},
	}
	for _, rw := range rooms {
		state := rw.Occupancy()
		if state == models.OccupancyFlagMismatch {
			s.log.Warn("Room has a tenant but is not flagged occupied", logger.Fields{
				"room_id": rw.Room.ID.String(),
			})
		}
		if !state.Occupied() {
			report.Vacant = append(report.Vacant, VacantRoom{
				PropertyName: rw.PropertyName,
				RoomNo:       rw.Room.RoomNo,
				RentAmount:   rw.Room.RentAmount,
			})
			continue
		}
		t := rw.Tenant
		report.Occupied = append(report.Occupied, OccupiedRoom{
			PropertyName: rw.PropertyName,
			RoomNo:       rw.Room.RoomNo,
			RentAmount:   rw.Room.RentAmount,
			TenantName:   t.Name,
			TenantPhone:  t.PhoneNo,
			TenantEmail:  t.Email,
			LeaseStart:   t.LeaseStartDate,
			RentDueDate:  t.RentDueDate,
			IsActive:     t.IsActive,
			IsOverdue:    t.IsRentDue(now),
		})
	}
	return report, nil
}

func (s *occupancyService) ActiveTenants(ctx context.Context, ownerID uuid.UUID) ([]models.TenantPlacement, error) {
	placements, err := s.tenants.ListPlacements(ctx, ownerID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	return placements, nil
}
