// Package queues defines the wire types and transport interfaces for
// asynchronous parking intake (SPEC_FULL.md §10.5): one ticket comes in
// per vehicle's parking request, one result goes out per outcome.
package queues

import "context"

// IntakeRequest is one inbound ticket asking the core to allocate a slot
// for a vehicle in (or near) a requested zone.
type IntakeRequest struct {
	TicketID        string `json:"ticketId"`
	VehicleID       string `json:"vehicleId"`
	RequestedZoneID string `json:"requestedZoneId"`
}

// IntakeStatus is the outcome an IntakeResult reports.
type IntakeStatus string

const (
	StatusSuccess IntakeStatus = "Success"
	StatusFailure IntakeStatus = "Failure"
	// StatusQueued reports that allocation failed with NoAvailableSlots
	// and the ticket has been placed on the zone's observability
	// waitlist (SPEC_FULL.md §10.5's ingest.Waitlist). It is never
	// retried automatically; the waitlist only tracks position.
	StatusQueued IntakeStatus = "Queued"
)

// IntakeResult is the outbound envelope published for one processed
// ticket. Fields are pointers where they are meaningful only for a
// subset of statuses, matching the source system's discriminated-union
// intent without needing a Go sum type.
type IntakeResult struct {
	EnvelopeVersion string       `json:"envelopeVersion"`
	Type            string       `json:"type"`
	TicketID        string       `json:"ticketId"`
	Status          IntakeStatus `json:"status"`
	RequestID       *string      `json:"requestId,omitempty"`
	SlotID          *string      `json:"slotId,omitempty"`
	ZoneID          *string      `json:"zoneId,omitempty"`
	CrossZone       *bool        `json:"crossZone,omitempty"`
	QueuePosition   *int         `json:"queuePosition,omitempty"`
	ErrorMessage    *string      `json:"errorMessage,omitempty"`
}

// Subscriber delivers inbound IntakeRequests to handler until ctx is
// cancelled or an unrecoverable transport error occurs.
type Subscriber interface {
	Start(ctx context.Context, handler func(context.Context, *IntakeRequest) error) error
}

// Publisher emits one IntakeResult per processed ticket.
type Publisher interface {
	PublishResult(ctx context.Context, res *IntakeResult) error
}
