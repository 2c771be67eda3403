package models

// OccupancyState is the reconciliation of a room's occupied flag with the
// presence of a linked tenant.
type OccupancyState int

const (
	// OccupancyAbsent means no tenant is linked, whatever the flag says.
	OccupancyAbsent OccupancyState = iota
	// OccupancyConsistent means a tenant is linked and the flag is set.
	OccupancyConsistent
	// OccupancyFlagMismatch means a tenant is linked but the flag is clear.
	OccupancyFlagMismatch
)

// String implements fmt.Stringer.
func (s OccupancyState) String() string {
	switch s {
	case OccupancyConsistent:
		return "occupied"
	case OccupancyFlagMismatch:
		return "flag_mismatch"
	default:
		return "absent"
	}
}

// Occupied reports whether the room counts as occupied in reports.
// Only a consistent flag/tenant pair does.
func (s OccupancyState) Occupied() bool {
	return s == OccupancyConsistent
}

// ResolveOccupancy derives the occupancy state from the stored flag and the
// optional tenant link.
func ResolveOccupancy(flag bool, tenant *Tenant) OccupancyState {
	switch {
	case tenant == nil:
		return OccupancyAbsent
	case flag:
		return OccupancyConsistent
	default:
		return OccupancyFlagMismatch
	}
}
