// Package analytics derives statistics on demand from the current request
// and topology state. There are no caches to keep in sync (spec.md §4.5);
// every call recomputes from scratch, which is cheap because the core
// never holds more state than one process's in-memory topology and
// request history.
package analytics

import (
	"sort"
	"time"

	"parkflow-allocator/requests"
	"parkflow-allocator/topology"
)

// Snapshot is the result of one analytics() call.
type Snapshot struct {
	TotalRequests          int
	CompletedRequests      int
	CancelledRequests      int
	AverageParkingDuration time.Duration
	ZoneUtilization        map[string]float64
	PeakUsageZones         []string
	CrossZoneAllocations   int
}

// Compute walks every request and every zone once and derives the
// statistics in spec.md §4.5.
func Compute(store *topology.Store, registry *requests.Registry) Snapshot {
	all := registry.All()

	snap := Snapshot{
		TotalRequests:   len(all),
		ZoneUtilization: make(map[string]float64),
	}

	var durationSum time.Duration
	var durationCount int
	for _, req := range all {
		switch req.State {
		case requests.Released:
			snap.CompletedRequests++
			if !req.OccupiedTime.IsZero() && !req.ReleaseTime.IsZero() {
				durationSum += req.ReleaseTime.Sub(req.OccupiedTime)
				durationCount++
			}
		case requests.Cancelled:
			snap.CancelledRequests++
		}
		if req.CrossZone {
			snap.CrossZoneAllocations++
		}
	}
	if durationCount > 0 {
		snap.AverageParkingDuration = durationSum / time.Duration(durationCount)
	}

	zones := store.Zones()
	type utilEntry struct {
		zoneID string
		pct    float64
	}
	var utils []utilEntry
	for _, zone := range zones {
		total := store.TotalSlotsInZone(zone.ID)
		var pct float64
		if total > 0 {
			available := 0
			slots, _ := store.AvailableSlotsInZone(zone.ID)
			available = len(slots)
			pct = 100 * float64(total-available) / float64(total)
		}
		snap.ZoneUtilization[zone.ID] = pct
		utils = append(utils, utilEntry{zoneID: zone.ID, pct: pct})
	}

	// Stable sort keeps ties in encounter order (spec.md §4.5).
	sort.SliceStable(utils, func(i, j int) bool { return utils[i].pct > utils[j].pct })
	limit := 3
	if len(utils) < limit {
		limit = len(utils)
	}
	for i := 0; i < limit; i++ {
		snap.PeakUsageZones = append(snap.PeakUsageZones, utils[i].zoneID)
	}

	return snap
}
