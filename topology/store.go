package topology

import "parkflow-allocator/parkerr"

// slotLocation is the secondary index entry for O(1) findSlot lookups.
type slotLocation struct {
	slot *Slot
	area *Area
	zone *Zone
}

// Store holds the full zone/area/slot graph for one topology.
type Store struct {
	zones map[string]*Zone
	slots map[string]slotLocation
	// zoneOrder preserves the order zones were first added in, so
	// enumeration (and anything that breaks ties by "order encountered",
	// like analytics' peak-usage ranking) is deterministic.
	zoneOrder []string
}

// NewStore returns an empty store. Zones are loaded via AddZone.
func NewStore() *Store {
	return &Store{
		zones: make(map[string]*Zone),
		slots: make(map[string]slotLocation),
	}
}

// AddZone registers a zone (and its areas and slots) with the store,
// rebuilding the slot index for that zone's slots. Re-adding an id
// replaces the prior record in place (its position in declared order is
// unchanged); the host is responsible for not doing this while requests
// reference the zone's old areas or slots (spec.md §9, open question i).
func (s *Store) AddZone(z *Zone) {
	if _, exists := s.zones[z.ID]; !exists {
		s.zoneOrder = append(s.zoneOrder, z.ID)
	}
	s.zones[z.ID] = z
	for _, area := range z.Areas {
		area.ZoneID = z.ID
		for _, slot := range area.Slots {
			slot.AreaID = area.ID
			slot.ZoneID = z.ID
			s.slots[slot.ID] = slotLocation{slot: slot, area: area, zone: z}
		}
	}
}

// Zone returns a zone by id, or false if unknown.
func (s *Store) Zone(zoneID string) (*Zone, bool) {
	z, ok := s.zones[zoneID]
	return z, ok
}

// Zones returns all zones in the order they were first added.
func (s *Store) Zones() []*Zone {
	out := make([]*Zone, 0, len(s.zoneOrder))
	for _, id := range s.zoneOrder {
		if z, ok := s.zones[id]; ok {
			out = append(out, z)
		}
	}
	return out
}

// FindSlot returns the slot and its owning area and zone, or NotFound.
func (s *Store) FindSlot(slotID string) (*Slot, *Area, *Zone, error) {
	loc, ok := s.slots[slotID]
	if !ok {
		return nil, nil, nil, parkerr.NotFoundf("slot %q not found", slotID)
	}
	return loc.slot, loc.area, loc.zone, nil
}

// AvailableSlotsInZone returns slots in declared iteration order (areas in
// zone order, slots in area order), filtered to Available = true.
func (s *Store) AvailableSlotsInZone(zoneID string) ([]*Slot, error) {
	z, ok := s.zones[zoneID]
	if !ok {
		return nil, parkerr.NotFoundf("zone %q not found", zoneID)
	}
	var out []*Slot
	for _, area := range z.Areas {
		for _, slot := range area.Slots {
			if slot.Available {
				out = append(out, slot)
			}
		}
	}
	return out, nil
}

// TotalSlotsInZone counts all slots regardless of availability. An unknown
// zone returns 0, keeping utilization computations total per spec §4.1.
func (s *Store) TotalSlotsInZone(zoneID string) int {
	z, ok := s.zones[zoneID]
	if !ok {
		return 0
	}
	total := 0
	for _, area := range z.Areas {
		total += len(area.Slots)
	}
	return total
}

// AdjacentZones returns the stored adjacency list in declared order.
func (s *Store) AdjacentZones(zoneID string) ([]string, error) {
	z, ok := s.zones[zoneID]
	if !ok {
		return nil, parkerr.NotFoundf("zone %q not found", zoneID)
	}
	return z.Adjacent, nil
}

// SetSlotAvailability is the store's one mutation. It returns the slot's
// previous value so callers (the allocation engine, rollback) can record
// or restore it.
func (s *Store) SetSlotAvailability(slotID string, available bool) (previous bool, err error) {
	loc, ok := s.slots[slotID]
	if !ok {
		return false, parkerr.NotFoundf("slot %q not found", slotID)
	}
	previous = loc.slot.Available
	loc.slot.Available = available
	return previous, nil
}
