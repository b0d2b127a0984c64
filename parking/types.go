package parking

import "parkflow-allocator/requests"

// Vehicle is a stable identifier plus a license plate and a preferred
// zone id. The core treats it as an opaque entity; nothing requires
// PreferredZoneID to match a request's RequestedZoneID (spec.md §3).
type Vehicle struct {
	ID              string
	LicensePlate    string
	PreferredZoneID string
}

// Result is the structured, human-readable outcome every mutating façade
// operation returns, per spec.md §6.
type Result struct {
	Success bool
	Message string
	Request *requests.Request
}

// RollbackSummary reports how many operations rollback(k) actually undid.
// Rollback is always reported as successful, per spec.md §4.4.
type RollbackSummary struct {
	RolledBack int
}
