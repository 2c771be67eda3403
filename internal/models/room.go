package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Room is a leasable unit within a Property. (PropertyID, RoomNo) is unique.
// IsOccupied is maintained by tenant assignment and never set by clients.
type Room struct {
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	RoomNo     string          `json:"room_no"`
	RentAmount decimal.Decimal `json:"rent_amount"`
	ID         uuid.UUID       `json:"id"`
	PropertyID uuid.UUID       `json:"property"`
	IsOccupied bool            `json:"is_occupied"`
}

// RoomWithTenant is a room joined with its property name and, when one is
// linked, its tenant. Tenant is nil when no tenant row references the room.
type RoomWithTenant struct {
	Tenant       *Tenant
	PropertyName string
	Room         Room
}

// Occupancy classifies the room's flag against its tenant link.
func (r RoomWithTenant) Occupancy() OccupancyState {
	return ResolveOccupancy(r.Room.IsOccupied, r.Tenant)
}
