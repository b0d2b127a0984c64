// Package allocation implements the same-zone-first / adjacent-zone-
// fallback slot selection policy (spec.md §4.3). It is a thin, greedy
// selector: it consults the topology store for available slots in
// declared order and never considers vehicle preference, occupancy
// patterns, or zones beyond the requested zone's direct neighbors.
package allocation

import (
	"parkflow-allocator/parkerr"
	"parkflow-allocator/topology"
)

// Decision is the outcome of a successful selection: which slot, in which
// zone, and whether reaching it required the adjacent-zone fallback.
type Decision struct {
	Slot      *topology.Slot
	Zone      *topology.Zone
	CrossZone bool
}

// Select applies the policy from spec.md §4.3 against store for the given
// requested zone. It returns NoAvailableSlots if neither the requested
// zone nor any of its declared adjacents has a free slot; it does not
// mutate the store.
func Select(store *topology.Store, requestedZoneID string) (*Decision, error) {
	if _, ok := store.Zone(requestedZoneID); !ok {
		return nil, parkerr.NotFoundf("zone %q not found", requestedZoneID)
	}

	if slot, zone, ok, err := firstAvailable(store, requestedZoneID); err != nil {
		return nil, err
	} else if ok {
		return &Decision{Slot: slot, Zone: zone, CrossZone: false}, nil
	}

	adjacents, err := store.AdjacentZones(requestedZoneID)
	if err != nil {
		return nil, err
	}
	for _, adjZoneID := range adjacents {
		slot, zone, ok, err := firstAvailable(store, adjZoneID)
		if err != nil {
			// An adjacency naming an unknown zone is a topology-load
			// defect, not a per-request failure; skip it rather than
			// failing the whole allocation.
			continue
		}
		if ok {
			return &Decision{Slot: slot, Zone: zone, CrossZone: true}, nil
		}
	}

	return nil, parkerr.NoAvailableSlotsf("no available slots in zone %q or its adjacent zones", requestedZoneID)
}

func firstAvailable(store *topology.Store, zoneID string) (*topology.Slot, *topology.Zone, bool, error) {
	slots, err := store.AvailableSlotsInZone(zoneID)
	if err != nil {
		return nil, nil, false, err
	}
	if len(slots) == 0 {
		return nil, nil, false, nil
	}
	zone, _ := store.Zone(zoneID)
	return slots[0], zone, true, nil
}
