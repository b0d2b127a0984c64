package ingest

import (
	"context"
	"fmt"
	"time"

	"parkflow-allocator/metrics"
	"parkflow-allocator/parkerr"
	"parkflow-allocator/parking"
	"parkflow-allocator/queues"

	"github.com/rs/zerolog/log"
)

// Controller adapts one queues.IntakeRequest at a time into a façade
// CreateRequest+Allocate pair and publishes the outcome. It holds no
// allocation policy of its own — every decision comes from parking.Facade.
type Controller struct {
	facade    *parking.Facade
	publisher queues.Publisher
	waitlist  *Waitlist
}

// NewController wires a Controller to an already-constructed façade,
// publisher, and waitlist.
func NewController(f *parking.Facade, p queues.Publisher, w *Waitlist) *Controller {
	return &Controller{facade: f, publisher: p, waitlist: w}
}

// Handle processes one ticket end to end: create the request, attempt
// allocation, and publish exactly one IntakeResult.
func (c *Controller) Handle(ctx context.Context, req *queues.IntakeRequest) error {
	start := time.Now()
	log.Info().Str("ticketId", req.TicketID).Str("vehicleId", req.VehicleID).Str("requestedZoneId", req.RequestedZoneID).Msg("controller: handling intake request")

	created, err := c.facade.CreateRequest(req.VehicleID, req.RequestedZoneID)
	if err != nil {
		log.Error().Err(err).Str("ticketId", req.TicketID).Msg("controller: create request failed")
		return c.publishFailure(ctx, req, start, err.Error())
	}

	res, err := c.facade.Allocate(created.ID)
	duration := time.Since(start)
	metrics.AllocationDuration.Observe(duration.Seconds())

	if err != nil {
		if parkerr.Is(err, parkerr.NoAvailableSlots) {
			metrics.AllocationsTotal.WithLabelValues("failure").Inc()
			return c.publishQueued(ctx, req, created.ID)
		}
		log.Warn().Err(err).Str("ticketId", req.TicketID).Str("requestId", created.ID).Msg("controller: allocation failed")
		return c.publishFailure(ctx, req, start, err.Error())
	}

	metrics.AllocationsTotal.WithLabelValues("success").Inc()
	c.waitlist.Remove(req.RequestedZoneID, req.TicketID)

	requestID := res.Request.ID
	slotID := res.Request.AllocatedSlotID
	zoneID := res.Request.AllocatedZoneID
	crossZone := res.Request.CrossZone
	out := &queues.IntakeResult{
		EnvelopeVersion: "1.0",
		Type:            "intake-result",
		TicketID:        req.TicketID,
		Status:          queues.StatusSuccess,
		RequestID:       &requestID,
		SlotID:          &slotID,
		ZoneID:          &zoneID,
		CrossZone:       &crossZone,
	}
	if err := c.publisher.PublishResult(ctx, out); err != nil {
		log.Error().Err(err).Str("ticketId", req.TicketID).Msg("controller: failed to publish success result")
		return err
	}
	log.Info().Str("ticketId", req.TicketID).Str("requestId", requestID).Str("slotId", slotID).Bool("crossZone", crossZone).Dur("duration", duration).Msg("controller: allocation successful")
	return nil
}

func (c *Controller) publishFailure(ctx context.Context, req *queues.IntakeRequest, start time.Time, message string) error {
	metrics.AllocationsTotal.WithLabelValues("failure").Inc()
	out := &queues.IntakeResult{
		EnvelopeVersion: "1.0",
		Type:            "intake-result",
		TicketID:        req.TicketID,
		Status:          queues.StatusFailure,
		ErrorMessage:    &message,
	}
	if err := c.publisher.PublishResult(ctx, out); err != nil {
		log.Error().Err(err).Str("ticketId", req.TicketID).Msg("controller: failed to publish failure result")
		return err
	}
	return nil
}

func (c *Controller) publishQueued(ctx context.Context, req *queues.IntakeRequest, requestID string) error {
	position := c.waitlist.Enqueue(req.RequestedZoneID, req.TicketID, requestID)
	log.Info().Str("ticketId", req.TicketID).Str("requestedZoneId", req.RequestedZoneID).Int("position", position).Msg("controller: no slots available, added to waitlist")
	out := &queues.IntakeResult{
		EnvelopeVersion: "1.0",
		Type:            "intake-result",
		TicketID:        req.TicketID,
		Status:          queues.StatusQueued,
		QueuePosition:   &position,
		ErrorMessage:    strp(fmt.Sprintf("NoAvailableSlots: no available slots in zone %q or its adjacent zones", req.RequestedZoneID)),
	}
	if err := c.publisher.PublishResult(ctx, out); err != nil {
		log.Error().Err(err).Str("ticketId", req.TicketID).Msg("controller: failed to publish queued result")
		return err
	}
	return nil
}

func strp(s string) *string { return &s }
