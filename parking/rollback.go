package parking

import "parkflow-allocator/analytics"

// Rollback undoes up to the last k allocation operations, most recent
// first (spec.md §4.4). It is always reported as successful: rolling back
// fewer than k operations because the log is shorter is not an error.
//
// Only allocation operations are ever logged (spec.md §9's design note),
// so undoing one always means: give the slot back its previous
// availability and drive the request back to REQUESTED.
func (f *Facade) Rollback(k int) RollbackSummary {
	f.mu.Lock()
	defer f.mu.Unlock()

	records := f.log.PopK(k)
	for _, rec := range records {
		_, _ = f.store.SetSlotAvailability(rec.SlotID, rec.PreviousSlotState)
		_ = f.registry.RestoreToRequested(rec.RequestID)
	}
	return RollbackSummary{RolledBack: len(records)}
}

// Analytics computes a fresh snapshot over the current topology and
// request history (spec.md §4.5). Nothing is cached: every call re-derives
// the numbers from the live state.
func (f *Facade) Analytics() analytics.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return analytics.Compute(f.store, f.registry)
}
