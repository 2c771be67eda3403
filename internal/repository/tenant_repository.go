package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stwalsh4118/rms/internal/database"
	"github.com/stwalsh4118/rms/internal/models"
)

// TenantRepository defines data access for tenants.
type TenantRepository interface {
	// AssignToRoom creates the tenant in the owner's room numbered roomNo and
	// flags the room occupied, in one transaction. A non-empty propertyName
	// narrows the room lookup. Errors: ErrRoomNotFound, ErrRoomAmbiguous,
	// ErrRoomOccupied, ErrDuplicateEmail.
	AssignToRoom(ctx context.Context, ownerID uuid.UUID, roomNo, propertyName string, tenant *models.Tenant) (*models.TenantPlacement, error)

	// FindByName returns the owner's tenants with exactly this name.
	FindByName(ctx context.Context, ownerID uuid.UUID, name string) ([]models.Tenant, error)

	// GetPlacement returns nil, nil when the tenant does not exist or lives
	// in another owner's property.
	GetPlacement(ctx context.Context, ownerID, tenantID uuid.UUID) (*models.TenantPlacement, error)

	ListPlacements(ctx context.Context, ownerID uuid.UUID, activeOnly bool) ([]models.TenantPlacement, error)

	// ListDueOn returns active tenants of every owner whose rent is due on
	// the given date and who have an e-mail address.
	ListDueOn(ctx context.Context, date time.Time) ([]models.TenantPlacement, error)
}

type tenantRepository struct {
	db database.Conn
}

// NewTenantRepository creates a new instance of TenantRepository.
func NewTenantRepository(db database.Conn) TenantRepository {
	return &tenantRepository{db: db}
}

const tenantColumns = `
			t.id, t.room_id, t.tenant_name, t.phone_no, t.email, t.is_active,
			t.lease_start_date, t.lease_end_date, t.rent_due_date,
			t.id_proof_type, t.id_proof_number, t.created_at`

func tenantDest(t *models.Tenant) []any {
	return []any{
		&t.ID,
		&t.RoomID,
		&t.Name,
		&t.PhoneNo,
		&t.Email,
		&t.IsActive,
		&t.LeaseStartDate,
		&t.LeaseEndDate,
		&t.RentDueDate,
		&t.IDProofType,
		&t.IDProofNumber,
		&t.CreatedAt,
	}
}

const placementSelect = `
		SELECT` + tenantColumns + `,
			r.room_no, r.rent_amount, p.id, p.name
		FROM tenants t
		JOIN rooms r ON r.id = t.room_id
		JOIN properties p ON p.id = r.property_id
`

func scanPlacement(row pgx.Row) (models.TenantPlacement, error) {
	var pl models.TenantPlacement
	dest := append(tenantDest(&pl.Tenant), &pl.RoomNo, &pl.RentAmount, &pl.PropertyID, &pl.PropertyName)
	err := row.Scan(dest...)
	return pl, err
}

func (r *tenantRepository) AssignToRoom(ctx context.Context, ownerID uuid.UUID, roomNo, propertyName string, tenant *models.Tenant) (*models.TenantPlacement, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin tenant assignment: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock the candidate rooms so concurrent assignments serialize.
	lockQuery := `
		SELECT r.id, r.rent_amount, p.id, p.name
		FROM rooms r
		JOIN properties p ON p.id = r.property_id
		WHERE p.owner_id = $1 AND r.room_no = $2 AND ($3::text = '' OR p.name = $3::text)
		FOR UPDATE OF r
	`
	rows, err := tx.Query(ctx, lockQuery, ownerID, roomNo, propertyName)
	if err != nil {
		return nil, fmt.Errorf("failed to lock room %q: %w", roomNo, err)
	}
	var candidates []models.TenantPlacement
	for rows.Next() {
		var pl models.TenantPlacement
		if err := rows.Scan(&pl.Tenant.RoomID, &pl.RentAmount, &pl.PropertyID, &pl.PropertyName); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan room row: %w", err)
		}
		candidates = append(candidates, pl)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating room rows: %w", err)
	}

	switch len(candidates) {
	case 0:
		return nil, ErrRoomNotFound
	case 1:
	default:
		return nil, ErrRoomAmbiguous
	}
	placement := candidates[0]
	placement.RoomNo = roomNo
	tenant.RoomID = placement.Tenant.RoomID

	var occupied bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tenants WHERE room_id = $1)`, tenant.RoomID).Scan(&occupied); err != nil {
		return nil, fmt.Errorf("failed to check tenant for room %s: %w", tenant.RoomID, err)
	}
	if occupied {
		return nil, ErrRoomOccupied
	}

	insert := `
		INSERT INTO tenants (
			id, room_id, tenant_name, phone_no, email, is_active,
			lease_start_date, lease_end_date, rent_due_date, id_proof_type, id_proof_number
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`
	err = tx.QueryRow(ctx, insert,
		tenant.ID, tenant.RoomID, tenant.Name, tenant.PhoneNo, tenant.Email, tenant.IsActive,
		tenant.LeaseStartDate, tenant.LeaseEndDate, tenant.RentDueDate, tenant.IDProofType, tenant.IDProofNumber,
	).Scan(&tenant.CreatedAt)
	if err != nil {
		if c, ok := uniqueConstraint(err); ok {
			switch c {
			case constraintTenantRoom:
				return nil, ErrRoomOccupied
			case constraintTenantEmail:
				return nil, ErrDuplicateEmail
			}
		}
		return nil, fmt.Errorf("failed to insert tenant %q: %w", tenant.Name, err)
	}

	if _, err := tx.Exec(ctx, `UPDATE rooms SET is_occupied = TRUE, updated_at = NOW() WHERE id = $1`, tenant.RoomID); err != nil {
		return nil, fmt.Errorf("failed to flag room %s occupied: %w", tenant.RoomID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		if c, ok := uniqueConstraint(err); ok && c == constraintTenantRoom {
			return nil, ErrRoomOccupied
		}
		return nil, fmt.Errorf("failed to commit tenant assignment: %w", err)
	}

	placement.Tenant = *tenant
	return &placement, nil
}

func (r *tenantRepository) FindByName(ctx context.Context, ownerID uuid.UUID, name string) ([]models.Tenant, error) {
	query := `
		SELECT` + tenantColumns + `
		FROM tenants t
		JOIN rooms r ON r.id = t.room_id
		JOIN properties p ON p.id = r.property_id
		WHERE p.owner_id = $1 AND t.tenant_name = $2
		ORDER BY t.created_at
	`

	rows, err := r.db.Query(ctx, query, ownerID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query tenants named %q: %w", name, err)
	}
	defer rows.Close()

	tenants := []models.Tenant{}
	for rows.Next() {
		var t models.Tenant
		if err := rows.Scan(tenantDest(&t)...); err != nil {
			return nil, fmt.Errorf("failed to scan tenant row: %w", err)
		}
		tenants = append(tenants, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tenant rows: %w", err)
	}
	return tenants, nil
}

func (r *tenantRepository) GetPlacement(ctx context.Context, ownerID, tenantID uuid.UUID) (*models.TenantPlacement, error) {
	query := placementSelect + `
		WHERE t.id = $1 AND p.owner_id = $2
	`

	pl, err := scanPlacement(r.db.QueryRow(ctx, query, tenantID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query tenant %s: %w", tenantID, err)
	}
	return &pl, nil
}

func (r *tenantRepository) ListPlacements(ctx context.Context, ownerID uuid.UUID, activeOnly bool) ([]models.TenantPlacement, error) {
	query := placementSelect + `
		WHERE p.owner_id = $1 AND (NOT $2::boolean OR t.is_active)
		ORDER BY p.name, r.room_no
	`
	return r.listPlacements(ctx, query, ownerID, activeOnly)
}

func (r *tenantRepository) ListDueOn(ctx context.Context, date time.Time) ([]models.TenantPlacement, error) {
	query := placementSelect + `
		WHERE t.is_active AND t.rent_due_date = $1 AND t.email <> ''
		ORDER BY p.name, r.room_no
	`
	return r.listPlacements(ctx, query, models.DateOf(date))
}

func (r *tenantRepository) listPlacements(ctx context.Context, query string, args ...any) ([]models.TenantPlacement, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tenants: %w", err)
	}
	defer rows.Close()

	placements := []models.TenantPlacement{}
	for rows.Next() {
		pl, err := scanPlacement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant row: %w", err)
		}
		placements = append(placements, pl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tenant rows: %w", err)
	}
	return placements, nil
}
