// Package topology owns the zone/area/slot graph and its adjacency lists.
// It answers availability queries in declared order and exposes the one
// narrow mutation the rest of the core needs: flipping a slot's
// availability. It never logs and never rejects a caller for reasons
// beyond "id not found" or "malformed topology".
package topology

// Slot is a single parking unit. Availability is the only mutable field;
// slots are created once at topology load and never destroyed by core
// operations.
type Slot struct {
	ID        string
	AreaID    string
	ZoneID    string
	Available bool
}

// Area is an immutable, ordered sequence of slots within a zone. Order is
// significant: first-available selection iterates slots in declared order.
type Area struct {
	ID     string
	Name   string
	ZoneID string
	Slots  []*Slot
}

// Zone is an ordered sequence of areas plus an ordered adjacency list.
// Adjacency is a stored list, not computed, and is consulted only outward
// from the zone that owns it.
type Zone struct {
	ID       string
	Name     string
	Areas    []*Area
	Adjacent []string
}
