package topology

import (
	"encoding/json"
	"io"
	"os"

	"parkflow-allocator/parkerr"
)

// slotSpec, areaSpec, zoneSpec, and topologySpec describe the on-disk JSON
// shape a host loads before any core operation runs (spec.md §4.1,
// SPEC_FULL.md §10.1's TOPOLOGY_FILE). Loading is host responsibility, not
// a core operation, and performs no allocation logic of its own.
type slotSpec struct {
	ID string `json:"id"`
}

type areaSpec struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Slots []slotSpec `json:"slots"`
}

type zoneSpec struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Areas    []areaSpec `json:"areas"`
	Adjacent []string   `json:"adjacentZoneIds"`
}

type topologySpec struct {
	Zones []zoneSpec `json:"zones"`
}

// LoadFromFile reads a JSON topology description from path and returns a
// populated Store, or a MalformedInput error naming the first structural
// problem found (duplicate id, or an adjacency referencing an unknown
// zone).
func LoadFromFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, parkerr.MalformedInputf("open topology file %q: %v", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Load reads a JSON topology description from r. It is split out from
// LoadFromFile so tests can load from an in-memory reader.
func Load(r io.Reader) (*Store, error) {
	var spec topologySpec
	dec := json.NewDecoder(r)
	if err := dec.Decode(&spec); err != nil {
		return nil, parkerr.MalformedInputf("decode topology: %v", err)
	}

	seenZones := make(map[string]bool)
	seenAreas := make(map[string]bool)
	seenSlots := make(map[string]bool)

	store := NewStore()
	for _, zs := range spec.Zones {
		if zs.ID == "" {
			return nil, parkerr.MalformedInputf("zone with empty id")
		}
		if seenZones[zs.ID] {
			return nil, parkerr.MalformedInputf("duplicate zone id %q", zs.ID)
		}
		seenZones[zs.ID] = true

		zone := &Zone{ID: zs.ID, Name: zs.Name, Adjacent: append([]string(nil), zs.Adjacent...)}
		for _, as := range zs.Areas {
			if as.ID == "" {
				return nil, parkerr.MalformedInputf("area with empty id in zone %q", zs.ID)
			}
			if seenAreas[as.ID] {
				return nil, parkerr.MalformedInputf("duplicate area id %q", as.ID)
			}
			seenAreas[as.ID] = true

			area := &Area{ID: as.ID, Name: as.Name, ZoneID: zs.ID}
			for _, ss := range as.Slots {
				if ss.ID == "" {
					return nil, parkerr.MalformedInputf("slot with empty id in area %q", as.ID)
				}
				if seenSlots[ss.ID] {
					return nil, parkerr.MalformedInputf("duplicate slot id %q", ss.ID)
				}
				seenSlots[ss.ID] = true
				area.Slots = append(area.Slots, &Slot{ID: ss.ID, AreaID: as.ID, ZoneID: zs.ID, Available: true})
			}
			zone.Areas = append(zone.Areas, area)
		}
		store.AddZone(zone)
	}

	for _, zs := range spec.Zones {
		for _, adj := range zs.Adjacent {
			if !seenZones[adj] {
				return nil, parkerr.MalformedInputf("zone %q lists unknown adjacent zone %q", zs.ID, adj)
			}
		}
	}

	return store, nil
}
