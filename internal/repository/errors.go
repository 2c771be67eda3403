package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Repository-level sentinel errors. Services translate these into domain errors.
var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomAmbiguous  = errors.New("room number matches more than one property")
	ErrRoomOccupied   = errors.New("room already has a tenant")
	ErrDuplicateRoom  = errors.New("room number already exists in property")
	ErrDuplicateEmail = errors.New("tenant email already registered")
)

const uniqueViolation = "23505"

// Constraint names from schema/001_init.sql.
const (
	constraintRoomNo      = "rooms_property_room_no_key"
	constraintTenantRoom  = "tenants_room_id_key"
	constraintTenantEmail = "tenants_email_key"
)

// uniqueConstraint returns the violated constraint name when err is a
// PostgreSQL unique violation.
func uniqueConstraint(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}
