package pubsub

import (
	"context"
	"encoding/json"
	"time"

	"parkflow-allocator/queues"

	gpubsub "cloud.google.com/go/pubsub"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// Subscriber delivers IntakeRequests from a Pub/Sub subscription to a
// handler, acking on success and on poison messages (undecodable or
// missing required fields) and nacking on handler errors so Pub/Sub
// redelivers.
type Subscriber struct {
	projectID        string
	subscriptionName string
	credsFile        string
	client           *gpubsub.Client
	sub              *gpubsub.Subscription
}

func NewSubscriber(projectID, subscriptionName, credsFile string) *Subscriber {
	return &Subscriber{projectID: projectID, subscriptionName: subscriptionName, credsFile: credsFile}
}

func (s *Subscriber) Start(ctx context.Context, handler func(context.Context, *queues.IntakeRequest) error) error {
	if s.client == nil {
		var (
			client *gpubsub.Client
			err    error
		)
		if s.credsFile != "" {
			log.Debug().Str("projectID", s.projectID).Str("subscription", s.subscriptionName).Str("credsFile", s.credsFile).Msg("initializing pubsub subscriber with explicit credentials")
			client, err = gpubsub.NewClient(ctx, s.projectID, option.WithCredentialsFile(s.credsFile))
		} else {
			log.Debug().Str("projectID", s.projectID).Str("subscription", s.subscriptionName).Msg("initializing pubsub subscriber with default credentials")
			client, err = gpubsub.NewClient(ctx, s.projectID)
		}
		if err != nil {
			log.Error().Err(err).Str("projectID", s.projectID).Str("subscription", s.subscriptionName).Msg("failed to create pubsub client for subscriber")
			return err
		}
		s.client = client
		s.sub = client.Subscription(s.subscriptionName)
		log.Info().Str("subscription", s.subscriptionName).Msg("pubsub subscriber initialized")
	}

	return s.sub.Receive(ctx, func(ctx context.Context, m *gpubsub.Message) {
		log.Debug().Str("messageID", m.ID).Int("size", len(m.Data)).Msg("received pubsub message")
		recvAt := time.Now()
		var req queues.IntakeRequest
		if err := json.Unmarshal(m.Data, &req); err != nil {
			log.Error().Err(err).Msg("failed to unmarshal intake request")
			m.Ack()
			return
		}
		if req.TicketID == "" || req.VehicleID == "" || req.RequestedZoneID == "" {
			log.Error().Str("ticketId", req.TicketID).Str("vehicleId", req.VehicleID).Str("requestedZoneId", req.RequestedZoneID).Msg("invalid request payload")
			m.Ack()
			return
		}

		log.Info().Str("ticketId", req.TicketID).Str("vehicleId", req.VehicleID).Str("requestedZoneId", req.RequestedZoneID).Msg("handling intake request")
		if err := handler(ctx, &req); err != nil {
			log.Error().Err(err).Str("ticketId", req.TicketID).Msg("handler failed; will retry")
			m.Nack()
			return
		}
		log.Debug().Str("ticketId", req.TicketID).Dur("latency", time.Since(recvAt)).Msg("handler succeeded; acking message")
		m.Ack()
	})
}
