package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/rms/internal/database"
	"github.com/stwalsh4118/rms/internal/models"
)

// RoomRepository defines data access for rooms and their tenant link.
type RoomRepository interface {
	// Create inserts a room. Returns ErrDuplicateRoom when the property
	// already has a room with the same number.
	Create(ctx context.Context, room *models.Room) error

	// ListByProperty returns the property's rooms ordered by room number,
	// each joined with its tenant when one is linked.
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]models.RoomWithTenant, error)

	// ListWithTenants returns every room of the owner's properties ordered by
	// property name then room number.
	ListWithTenants(ctx context.Context, ownerID uuid.UUID) ([]models.RoomWithTenant, error)

	// FindInProperty returns nil, nil when the property has no such room.
	FindInProperty(ctx context.Context, propertyID uuid.UUID, roomNo string) (*models.Room, error)

	// SumRent totals rent_amount over the property's rooms, or only over
	// rooms flagged occupied when occupiedOnly is set.
	SumRent(ctx context.Context, propertyID uuid.UUID, occupiedOnly bool) (decimal.Decimal, error)
}

type roomRepository struct {
	db database.Conn
}

// NewRoomRepository creates a new instance of RoomRepository.
func NewRoomRepository(db database.Conn) RoomRepository {
	return &roomRepository{db: db}
}

const roomWithTenantSelect = `
		SELECT
			r.id, r.property_id, r.room_no, r.rent_amount, r.is_occupied, r.created_at, r.updated_at,
			p.name,
			t.id, t.tenant_name, t.phone_no, t.email, t.is_active,
			t.lease_start_date, t.lease_end_date, t.rent_due_date,
			t.id_proof_type, t.id_proof_number, t.created_at
		FROM rooms r
		JOIN properties p ON p.id = r.property_id
		LEFT JOIN tenants t ON t.room_id = r.id
`

// scanRoomWithTenant reads one row of roomWithTenantSelect. Tenant columns
// are all NULL when no tenant references the room.
func scanRoomWithTenant(row pgx.Row) (models.RoomWithTenant, error) {
	var (
		rw            models.RoomWithTenant
		tenantID      *uuid.UUID
		name          *string
		phone         *string
		email         *string
		active        *bool
		leaseStart    *time.Time
		leaseEnd      *time.Time
		rentDue       *time.Time
		proofType     *string
		proofNumber   *string
		tenantCreated *time.Time
	)

	err := row.Scan(
		&rw.Room.ID,
		&rw.Room.PropertyID,
		&rw.Room.RoomNo,
		&rw.Room.RentAmount,
		&rw.Room.IsOccupied,
		&rw.Room.CreatedAt,
		&rw.Room.UpdatedAt,
		&rw.PropertyName,
		&tenantID,
		&name,
		&phone,
		&email,
		&active,
		&leaseStart,
		&leaseEnd,
		&rentDue,
		&proofType,
		&proofNumber,
		&tenantCreated,
	)
	if err != nil {
		return rw, err
	}

	if tenantID != nil {
		t := &models.Tenant{
			ID:             *tenantID,
			RoomID:         rw.Room.ID,
			LeaseStartDate: leaseStart,
			LeaseEndDate:   leaseEnd,
			IDProofType:    proofType,
			IDProofNumber:  proofNumber,
		}
		if name != nil {
			t.Name = *name
		}
		if phone != nil {
			t.PhoneNo = *phone
		}
		if email != nil {
			t.Email = *email
		}
		if active != nil {
			t.IsActive = *active
		}
		if rentDue != nil {
			t.RentDueDate = *rentDue
		}
		if tenantCreated != nil {
			t.CreatedAt = *tenantCreated
		}
		rw.Tenant = t
	}
	return rw, nil
}

func (r *roomRepository) Create(ctx context.Context, room *models.Room) error {
	query := `
		INSERT INTO rooms (id, property_id, room_no, rent_amount, is_occupied)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, room.ID, room.PropertyID, room.RoomNo, room.RentAmount).
		Scan(&room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		if c, ok := uniqueConstraint(err); ok && c == constraintRoomNo {
			return ErrDuplicateRoom
		}
		return fmt.Errorf("failed to insert room %q: %w", room.RoomNo, err)
	}
	room.IsOccupied = false
	return nil
}

func (r *roomRepository) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]models.RoomWithTenant, error) {
	query := roomWithTenantSelect + `
		WHERE r.property_id = $1
		ORDER BY r.room_no
	`
	return r.listWithTenants(ctx, query, propertyID)
}

func (r *roomRepository) ListWithTenants(ctx context.Context, ownerID uuid.UUID) ([]models.RoomWithTenant, error) {
	query := roomWithTenantSelect + `
		WHERE p.owner_id = $1
		ORDER BY p.name, r.room_no
	`
	return r.listWithTenants(ctx, query, ownerID)
}

func (r *roomRepository) listWithTenants(ctx context.Context, query string, arg uuid.UUID) ([]models.RoomWithTenant, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	defer rows.Close()

	rooms := []models.RoomWithTenant{}
	for rows.Next() {
		rw, err := scanRoomWithTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan room row: %w", err)
		}
		rooms = append(rooms, rw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating room rows: %w", err)
	}
	return rooms, nil
}

func (r *roomRepository) FindInProperty(ctx context.Context, propertyID uuid.UUID, roomNo string) (*models.Room, error) {
	query := `
		SELECT id, property_id, room_no, rent_amount, is_occupied, created_at, updated_at
		FROM rooms
		WHERE property_id = $1 AND room_no = $2
	`

	var room models.Room
	err := r.db.QueryRow(ctx, query, propertyID, roomNo).Scan(
		&room.ID,
		&room.PropertyID,
		&room.RoomNo,
		&room.RentAmount,
		&room.IsOccupied,
		&room.CreatedAt,
		&room.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query room %q in property %s: %w", roomNo, propertyID, err)
	}
	return &room, nil
}

func (r *roomRepository) SumRent(ctx context.Context, propertyID uuid.UUID, occupiedOnly bool) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(rent_amount), 0)
		FROM rooms
		WHERE property_id = $1 AND (NOT $2::boolean OR is_occupied)
	`

	var total decimal.Decimal
	if err := r.db.QueryRow(ctx, query, propertyID, occupiedOnly).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum rent for property %s: %w", propertyID, err)
	}
	return total, nil
}
