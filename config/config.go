package config

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Config is the service shell's environment-derived configuration
// (SPEC_FULL.md §10.1). None of it is consulted by the core packages —
// topology, requests, allocation, rollback, analytics, parking — which
// take their inputs as constructor arguments instead.
type Config struct {
	TopologyFile       string
	IntakeSubscription string
	ResultTopic        string
	GoogleProjectID    string
	MetricsPort        int
	GRPCHealthPort     int
	LogLevel           string
	CredentialsFile    string
	CrossZonePenalty   int
}

// Load resolves configuration from the environment, falling back to
// defaults and warning (never failing) on anything left unset — the
// service shell decides at startup whether an unset value is fatal.
func Load() *Config {
	cfg := &Config{
		TopologyFile:       strings.TrimSpace(getEnv("TOPOLOGY_FILE", "topology.json")),
		IntakeSubscription: strings.TrimSpace(getEnv("PARKING_INTAKE_SUBSCRIPTION", "")),
		ResultTopic:        strings.TrimSpace(getEnv("PARKING_RESULT_TOPIC", "")),
		MetricsPort:        getEnvInt("PARKING_METRICS_PORT", 8080),
		GRPCHealthPort:     getEnvInt("PARKING_GRPC_HEALTH_PORT", 9090),
		LogLevel:           strings.TrimSpace(getEnv("PARKING_LOG_LEVEL", "info")),
		CredentialsFile:    strings.TrimSpace(firstNonEmpty(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"), os.Getenv("PARKING_GSA_CREDENTIALS"))),
		CrossZonePenalty:   getEnvInt("PARKING_CROSS_ZONE_PENALTY", 10),
	}

	cfg.GoogleProjectID = getGoogleProjectID(cfg.CredentialsFile, strings.TrimSpace(getEnv("PARKING_PUBSUB_PROJECT_ID", "")))
	if cfg.GoogleProjectID == "" {
		log.Warn().Msg("Google project ID not resolved; set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_PROJECT_ID or PARKING_PUBSUB_PROJECT_ID")
	}
	if cfg.IntakeSubscription == "" {
		log.Warn().Msg("Pub/Sub intake subscription not set; set PARKING_INTAKE_SUBSCRIPTION")
	}
	if cfg.ResultTopic == "" {
		log.Warn().Msg("Pub/Sub result topic not set; set PARKING_RESULT_TOPIC")
	}
	return cfg
}

func (c *Config) HTTPAddr() string {
	return net.JoinHostPort("0.0.0.0", strconv.Itoa(c.MetricsPort))
}

// Redacted returns a view safe for logging.
func (c *Config) Redacted() map[string]any {
	return map[string]any{
		"topologyFile":        c.TopologyFile,
		"projectID":           c.GoogleProjectID,
		"intakeSubscription":  c.IntakeSubscription,
		"resultTopic":         c.ResultTopic,
		"metricsPort":         c.MetricsPort,
		"grpcHealthPort":      c.GRPCHealthPort,
		"logLevel":            c.LogLevel,
		"credentialsProvided": c.CredentialsFile != "",
		"crossZonePenalty":    c.CrossZonePenalty,
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		iv, err := strconv.Atoi(v)
		if err == nil {
			return iv
		}
		fmt.Printf("invalid int for %s: %s\n", key, v)
	}
	return def
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func projectIDFromCredentials(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	var x struct {
		ProjectID string `json:"project_id"`
	}
	if err := json.Unmarshal(b, &x); err != nil {
		return "", err
	}
	return x.ProjectID, nil
}

func getGoogleProjectID(credsFile string, explicit string) string {
	if p := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")); p != "" {
		log.Info().Str("credsFile", p).Msg("GOOGLE_APPLICATION_CREDENTIALS is set; extracting project_id from credentials file")
		if pid, err := projectIDFromCredentials(p); err == nil && pid != "" {
			return strings.TrimSpace(pid)
		}
		log.Warn().Str("credsFile", p).Msg("project_id not found in credentials file or unreadable")
	}

	if explicit := strings.TrimSpace(explicit); explicit != "" {
		log.Info().Str("projectID", explicit).Msg("using PARKING_PUBSUB_PROJECT_ID for Google project")
		return explicit
	}

	if v := strings.TrimSpace(os.Getenv("GOOGLE_PROJECT_ID")); v != "" {
		log.Info().Str("projectID", v).Msg("using GOOGLE_PROJECT_ID from environment")
		return v
	}

	if v := firstNonEmpty(os.Getenv("GOOGLE_CLOUD_PROJECT"), os.Getenv("GCLOUD_PROJECT"), os.Getenv("GCP_PROJECT")); strings.TrimSpace(v) != "" {
		v = strings.TrimSpace(v)
		log.Info().Str("projectID", v).Msg("using Google project from common environment variables")
		return v
	}

	if p := strings.TrimSpace(credsFile); p != "" {
		if pid, err := projectIDFromCredentials(p); err == nil && pid != "" {
			log.Info().Str("credsFile", p).Msg("using project_id from provided credentials file")
			return strings.TrimSpace(pid)
		}
	}
	return ""
}
