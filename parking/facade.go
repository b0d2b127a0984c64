// Package parking is the single façade spec.md §2 and §6 describe: it owns
// a Topology Store, a Request Registry, and a Rollback Log, and funnels
// every state change through them so the invariants in spec.md §3 stay
// centralized in one place instead of being re-checked by every caller.
package parking

import (
	"sync"

	"parkflow-allocator/parkerr"
	"parkflow-allocator/requests"
	"parkflow-allocator/rollback"
	"parkflow-allocator/topology"
)

// DefaultCrossZonePenalty is the cross-zone penalty used when no override
// is supplied at construction time (spec.md §4.3).
const DefaultCrossZonePenalty = 10

// Facade is the single entry point onto the core. It is safe for
// concurrent use: every operation takes an internal mutex, so a service
// shell that dispatches handler invocations concurrently (SPEC_FULL.md
// §10.5) does not need its own external synchronization. The core's own
// contract remains single-threaded-and-synchronous per spec.md §5 — this
// mutex exists to serialize callers, not to give them any freedom the
// spec's ordering model doesn't already grant.
type Facade struct {
	mu sync.Mutex

	store    *topology.Store
	registry *requests.Registry
	log      *rollback.Log

	vehicles map[string]*Vehicle

	clock            Clock
	ids              *idGenerator
	crossZonePenalty int
}

// Option customizes a Facade at construction time.
type Option func(*Facade)

// WithClock overrides the default system clock, for deterministic tests.
func WithClock(c Clock) Option {
	return func(f *Facade) { f.clock = c }
}

// WithCrossZonePenalty overrides DefaultCrossZonePenalty.
func WithCrossZonePenalty(penalty int) Option {
	return func(f *Facade) { f.crossZonePenalty = penalty }
}

// New builds a Facade over an already-loaded topology.Store (see
// topology.LoadFromFile / topology.Load for how a host populates one
// before calling New).
func New(store *topology.Store, opts ...Option) *Facade {
	f := &Facade{
		store:            store,
		registry:         requests.NewRegistry(),
		log:              rollback.NewLog(),
		vehicles:         make(map[string]*Vehicle),
		clock:            systemClock{},
		ids:              newIDGenerator(),
		crossZonePenalty: DefaultCrossZonePenalty,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// AddZone registers a zone (topology admin, spec.md §6). Re-adding an id
// replaces the prior record; see DESIGN.md's Open Question (i).
func (f *Facade) AddZone(z *topology.Zone) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.store.AddZone(z)
}

// AddVehicle registers a vehicle (topology admin, spec.md §6). Re-adding
// an id replaces the prior record.
func (f *Facade) AddVehicle(v *Vehicle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.vehicles[v.ID] = v
}

// CreateRequest always succeeds for well-formed (non-empty) ids; it
// produces a request in REQUESTED, assigns a stable id, and records
// request time (spec.md §6).
func (f *Facade) CreateRequest(vehicleID, requestedZoneID string) (*requests.Request, error) {
	if vehicleID == "" || requestedZoneID == "" {
		return nil, parkerr.MalformedInputf("vehicleId and requestedZoneId must be non-empty")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.ids.next("REQ-")
	return f.registry.Create(id, vehicleID, requestedZoneID, f.clock.Now()), nil
}

// Request returns one request by id.
func (f *Facade) Request(requestID string) (*requests.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registry.Get(requestID)
}

// Requests enumerates every request ever created, in creation order.
func (f *Facade) Requests() []*requests.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registry.All()
}

// Zones enumerates every zone in declared load order.
func (f *Facade) Zones() []*topology.Zone {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.store.Zones()
}

// Vehicles enumerates every registered vehicle. Order is unspecified;
// vehicles carry no declared order in spec.md's data model.
func (f *Facade) Vehicles() []*Vehicle {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*Vehicle, 0, len(f.vehicles))
	for _, v := range f.vehicles {
		out = append(out, v)
	}
	return out
}

// OperationHistory returns the rollback log's contents in append order.
func (f *Facade) OperationHistory() []rollback.OperationRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.log.Snapshot()
}
