package main

import (
	"context"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"parkflow-allocator/config"
	"parkflow-allocator/health"
	"parkflow-allocator/ingest"
	"parkflow-allocator/metrics"
	"parkflow-allocator/parking"
	"parkflow-allocator/queues"
	qpubsub "parkflow-allocator/queues/pubsub"
	"parkflow-allocator/topology"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
)

var version = "source"

func setLogger(level string) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func main() {
	cfg := config.Load()
	setLogger(cfg.LogLevel)
	log.Info().Msgf("Starting parkingd version: %s", version)
	log.Info().Interface("config", cfg.Redacted()).Msg("config loaded")

	if cfg.GoogleProjectID == "" {
		log.Fatal().Msg("missing Google project id; set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_PROJECT_ID or PARKING_PUBSUB_PROJECT_ID")
	}
	if cfg.IntakeSubscription == "" {
		log.Fatal().Msg("missing Pub/Sub intake subscription; set PARKING_INTAKE_SUBSCRIPTION")
	}
	if cfg.ResultTopic == "" {
		log.Fatal().Msg("missing Pub/Sub result topic; set PARKING_RESULT_TOPIC")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := topology.LoadFromFile(cfg.TopologyFile)
	if err != nil {
		log.Fatal().Err(err).Str("topologyFile", cfg.TopologyFile).Msg("failed to load topology")
	}
	facade := parking.New(store, parking.WithCrossZonePenalty(cfg.CrossZonePenalty))

	var subscriberStarted atomic.Bool
	mux := http.NewServeMux()
	metrics.Register(mux)
	health.Register(mux, func() bool { return subscriberStarted.Load() })

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr()).Msg("starting metrics/health server")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	grpcSrv := grpc.NewServer()
	grpcHealth := health.NewGRPCServer(grpcSrv)
	grpcAddr := net.JoinHostPort("0.0.0.0", strconv.Itoa(cfg.GRPCHealthPort))
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", grpcAddr).Msg("failed to bind gRPC health listener")
	}
	go func() {
		log.Info().Str("addr", grpcAddr).Msg("starting gRPC health server")
		if err := grpcSrv.Serve(lis); err != nil {
			log.Fatal().Err(err).Msg("grpc server error")
		}
	}()

	if cfg.CredentialsFile != "" {
		log.Info().Str("credsFile", cfg.CredentialsFile).Msg("using explicit Google credentials file")
	} else {
		log.Info().Msg("using default Google credentials (in-cluster or ambient)")
	}
	publisher := qpubsub.NewPublisher(cfg.GoogleProjectID, cfg.ResultTopic, cfg.CredentialsFile)
	waitlist := ingest.NewWaitlist()
	controller := ingest.NewController(facade, publisher, waitlist)
	subscriber := qpubsub.NewSubscriber(cfg.GoogleProjectID, cfg.IntakeSubscription, cfg.CredentialsFile)

	go func() {
		log.Info().Str("subscription", cfg.IntakeSubscription).Msg("starting subscriber loop")
		subscriberStarted.Store(true)
		grpcHealth.SetServing(true)
		if err := subscriber.Start(ctx, func(ctx context.Context, req *queues.IntakeRequest) error {
			return controller.Handle(ctx, req)
		}); err != nil {
			log.Fatal().Err(err).Msg("subscriber exited with fatal error; shutting down")
		}
	}()

	go reportAnalytics(ctx, facade)

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")
	grpcHealth.SetServing(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server graceful shutdown failed")
	}
	grpcSrv.GracefulStop()
	log.Info().Msg("shutdown complete")
}

// reportAnalytics periodically pushes an analytics.Snapshot into the
// Prometheus gauges (SPEC_FULL.md §10.3); the core itself never touches
// prometheus, so the service shell is responsible for polling it.
func reportAnalytics(ctx context.Context, facade *parking.Facade) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap := facade.Analytics()
			byState := map[string]int{}
			for _, req := range facade.Requests() {
				byState[string(req.State)]++
			}
			metrics.ObserveSnapshot(snap.ZoneUtilization, byState)
		}
	}
}
