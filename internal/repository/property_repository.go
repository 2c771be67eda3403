package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stwalsh4118/rms/internal/database"
	"github.com/stwalsh4118/rms/internal/models"
)

// PropertyRepository defines data access for properties. Every lookup is
// scoped to the owning user.
type PropertyRepository interface {
	Create(ctx context.Context, property *models.Property) error

	// GetByID returns nil, nil when the property does not exist or belongs to
	// another owner.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Property, error)

	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Property, error)

	// FindByName returns every property of the owner with exactly this name.
	// Names are not unique, so callers decide what more than one match means.
	FindByName(ctx context.Context, ownerID uuid.UUID, name string) ([]models.Property, error)

	// UpdateImage stores the object key of the property image.
	// Returns false when no property matched.
	UpdateImage(ctx context.Context, ownerID, id uuid.UUID, image string) (bool, error)
}

type propertyRepository struct {
	db database.Conn
}

// NewPropertyRepository creates a new instance of PropertyRepository.
func NewPropertyRepository(db database.Conn) PropertyRepository {
	return &propertyRepository{db: db}
}

const propertyColumns = `id, owner_id, name, address, price, description, image, created_at, updated_at`

func scanProperty(row pgx.Row, p *models.Property) error {
	return row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.Address,
		&p.Price,
		&p.Description,
		&p.Image,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func (r *propertyRepository) Create(ctx context.Context, p *models.Property) error {
	query := `
		INSERT INTO properties (id, owner_id, name, address, price, description, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		p.ID, p.OwnerID, p.Name, p.Address, p.Price, p.Description, p.Image,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert property %q: %w", p.Name, err)
	}
	return nil
}

func (r *propertyRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1 AND owner_id = $2`

	var p models.Property
	if err := scanProperty(r.db.QueryRow(ctx, query, id, ownerID), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query property %s: %w", id, err)
	}
	return &p, nil
}

func (r *propertyRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE owner_id = $1 ORDER BY name, id`
	return r.list(ctx, query, ownerID)
}

func (r *propertyRepository) FindByName(ctx context.Context, ownerID uuid.UUID, name string) ([]models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE owner_id = $1 AND name = $2 ORDER BY id`
	return r.list(ctx, query, ownerID, name)
}

func (r *propertyRepository) list(ctx context.Context, query string, args ...any) ([]models.Property, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	properties := []models.Property{}
	for rows.Next() {
		var p models.Property
		if err := scanProperty(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", err)
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating property rows: %w", err)
	}
	return properties, nil
}

func (r *propertyRepository) UpdateImage(ctx context.Context, ownerID, id uuid.UUID, image string) (bool, error) {
	query := `UPDATE properties SET image = $1, updated_at = NOW() WHERE id = $2 AND owner_id = $3`

	tag, err := r.db.Exec(ctx, query, image, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to update image for property %s: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}
