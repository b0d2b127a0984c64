package requests

import (
	"time"

	"parkflow-allocator/parkerr"
)

// Registry holds every request ever created, keyed by id. Terminal-state
// requests are never removed; analytics depend on the full history being
// queryable (spec.md §9).
type Registry struct {
	byID map[string]*Request
	// order preserves creation order for deterministic enumeration.
	order []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Request)}
}

// Create adds a new request in REQUESTED state and returns it.
func (r *Registry) Create(id, vehicleID, requestedZoneID string, now time.Time) *Request {
	req := &Request{
		ID:              id,
		VehicleID:       vehicleID,
		RequestedZoneID: requestedZoneID,
		State:           Requested,
		RequestTime:     now,
	}
	r.byID[id] = req
	r.order = append(r.order, id)
	return req
}

// Get returns a request by id, or NotFound.
func (r *Registry) Get(id string) (*Request, error) {
	req, ok := r.byID[id]
	if !ok {
		return nil, parkerr.NotFoundf("request %q not found", id)
	}
	return req, nil
}

// All returns every request in creation order.
func (r *Registry) All() []*Request {
	out := make([]*Request, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// MarkAllocated transitions a request from REQUESTED to ALLOCATED and
// records the allocation details. It returns the request's pre-operation
// state, which callers append to the rollback log alongside the slot's
// pre-operation availability.
func (r *Registry) MarkAllocated(id, slotID, zoneID string, crossZone bool, penalty int, now time.Time) (State, error) {
	req, err := r.Get(id)
	if err != nil {
		return "", err
	}
	if !CanTransition(req.State, Allocated) {
		return "", parkerr.InvalidTransitionf("cannot transition request %q from %s to %s", id, req.State, Allocated)
	}
	pre := req.State
	req.State = Allocated
	req.AllocatedSlotID = slotID
	req.AllocatedZoneID = zoneID
	req.AllocationTime = now
	req.CrossZone = crossZone
	req.CrossZonePenalty = penalty
	return pre, nil
}

// MarkOccupied transitions ALLOCATED -> OCCUPIED.
func (r *Registry) MarkOccupied(id string, now time.Time) error {
	req, err := r.Get(id)
	if err != nil {
		return err
	}
	if !CanTransition(req.State, Occupied) {
		return parkerr.InvalidTransitionf("cannot transition request %q from %s to %s", id, req.State, Occupied)
	}
	req.State = Occupied
	req.OccupiedTime = now
	return nil
}

// MarkReleased transitions OCCUPIED -> RELEASED and returns the slot id
// that should be freed.
func (r *Registry) MarkReleased(id string, now time.Time) (slotID string, err error) {
	req, err := r.Get(id)
	if err != nil {
		return "", err
	}
	if !CanTransition(req.State, Released) {
		return "", parkerr.InvalidTransitionf("cannot transition request %q from %s to %s", id, req.State, Released)
	}
	req.State = Released
	req.ReleaseTime = now
	return req.AllocatedSlotID, nil
}

// MarkCancelled transitions REQUESTED or ALLOCATED -> CANCELLED. If the
// request had a slot allocated, freeSlotID is returned non-empty so the
// caller can free it; AllocatedSlotID itself is left untouched as a
// historical record (spec.md §4.2).
func (r *Registry) MarkCancelled(id string, now time.Time) (freeSlotID string, err error) {
	req, err := r.Get(id)
	if err != nil {
		return "", err
	}
	if !CanTransition(req.State, Cancelled) {
		return "", parkerr.InvalidTransitionf("cannot transition request %q from %s to %s", id, req.State, Cancelled)
	}
	wasAllocated := req.State == Allocated
	req.State = Cancelled
	if wasAllocated {
		freeSlotID = req.AllocatedSlotID
	}
	return freeSlotID, nil
}

// RestoreToRequested drives a request back to REQUESTED outside the
// transition table, as rollback of an allocation does (spec.md §4.2,
// §4.4). It clears the allocation fields the way they looked before the
// allocation happened.
func (r *Registry) RestoreToRequested(id string) error {
	req, err := r.Get(id)
	if err != nil {
		return err
	}
	req.State = Requested
	req.AllocatedSlotID = ""
	req.AllocatedZoneID = ""
	req.AllocationTime = time.Time{}
	req.CrossZone = false
	req.CrossZonePenalty = 0
	return nil
}
