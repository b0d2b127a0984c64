package parking

import (
	"fmt"

	"parkflow-allocator/allocation"
	"parkflow-allocator/parkerr"
	"parkflow-allocator/requests"
	"parkflow-allocator/rollback"
)

// Allocate applies the same-zone-first / adjacent-zone-fallback policy
// (spec.md §4.3) to a REQUESTED request. On success it writes exactly one
// rollback.OperationRecord. On failure no state changes at all (spec.md
// §5's atomicity guarantee).
func (f *Facade) Allocate(requestID string) (*Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	req, err := f.registry.Get(requestID)
	if err != nil {
		return &Result{Success: false, Message: err.Error()}, err
	}
	if req.State != requests.Requested {
		err := parkerr.InvalidTransitionf("cannot allocate request %q from state %s", requestID, req.State)
		return &Result{Success: false, Message: err.Error(), Request: req}, err
	}

	decision, err := allocation.Select(f.store, req.RequestedZoneID)
	if err != nil {
		return &Result{Success: false, Message: err.Error(), Request: req}, err
	}

	penalty := 0
	if decision.CrossZone {
		penalty = f.crossZonePenalty
	}

	previousSlotState, err := f.store.SetSlotAvailability(decision.Slot.ID, false)
	if err != nil {
		// Unreachable in practice: decision.Slot was just resolved from
		// this same store. Surface it rather than panicking.
		return &Result{Success: false, Message: err.Error(), Request: req}, err
	}

	preReqState, err := f.registry.MarkAllocated(requestID, decision.Slot.ID, decision.Zone.ID, decision.CrossZone, penalty, f.clock.Now())
	if err != nil {
		// Roll back the slot flip so a failed allocate leaves no trace
		// (spec.md §5 atomicity).
		_, _ = f.store.SetSlotAvailability(decision.Slot.ID, previousSlotState)
		return &Result{Success: false, Message: err.Error(), Request: req}, err
	}

	f.log.Append(rollback.OperationRecord{
		ID:                f.ids.next("OP-"),
		RequestID:         requestID,
		SlotID:            decision.Slot.ID,
		PreviousSlotState: previousSlotState,
		PreviousReqState:  preReqState,
	})

	msg := fmt.Sprintf("allocated slot %s in zone %s", decision.Slot.ID, decision.Zone.ID)
	if decision.CrossZone {
		msg = fmt.Sprintf("%s (cross-zone, penalty %d)", msg, penalty)
	}
	return &Result{Success: true, Message: msg, Request: req}, nil
}

// Occupy transitions ALLOCATED -> OCCUPIED (spec.md §4.2). The slot was
// already marked unavailable at allocation time; occupying it changes no
// slot state.
func (f *Facade) Occupy(requestID string) (*Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	req, getErr := f.registry.Get(requestID)
	if err := f.registry.MarkOccupied(requestID, f.clock.Now()); err != nil {
		return &Result{Success: false, Message: err.Error(), Request: req}, err
	}
	if getErr != nil {
		// Unreachable: MarkOccupied would have already returned NotFound.
		return &Result{Success: false, Message: getErr.Error()}, getErr
	}
	return &Result{Success: true, Message: fmt.Sprintf("request %s occupied", requestID), Request: req}, nil
}

// Release transitions OCCUPIED -> RELEASED and frees the allocated slot
// (spec.md §4.2).
func (f *Facade) Release(requestID string) (*Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	req, _ := f.registry.Get(requestID)
	slotID, err := f.registry.MarkReleased(requestID, f.clock.Now())
	if err != nil {
		return &Result{Success: false, Message: err.Error(), Request: req}, err
	}
	if slotID != "" {
		if _, err := f.store.SetSlotAvailability(slotID, true); err != nil {
			return &Result{Success: false, Message: err.Error(), Request: req}, err
		}
	}
	return &Result{Success: true, Message: fmt.Sprintf("request %s released", requestID), Request: req}, nil
}

// Cancel transitions REQUESTED or ALLOCATED -> CANCELLED, freeing the
// slot only if one had been allocated (spec.md §4.2). AllocatedSlotID is
// preserved on the request as a historical record.
func (f *Facade) Cancel(requestID string) (*Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	req, _ := f.registry.Get(requestID)
	freeSlotID, err := f.registry.MarkCancelled(requestID, f.clock.Now())
	if err != nil {
		return &Result{Success: false, Message: err.Error(), Request: req}, err
	}
	if freeSlotID != "" {
		if _, err := f.store.SetSlotAvailability(freeSlotID, true); err != nil {
			return &Result{Success: false, Message: err.Error(), Request: req}, err
		}
	}
	return &Result{Success: true, Message: fmt.Sprintf("request %s cancelled", requestID), Request: req}, nil
}
