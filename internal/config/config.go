package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress           string
	DatabaseURI          string
	StripeAPIKey         string
	CarrierAPIAddress    string
	TrackingPollInterval time.Duration
	WorkerPoolSize       int
	PollBatchSize        int
	GatewayTimeout       time.Duration
	CarrierTimeout       time.Duration
	ShutdownTimeout      time.Duration
}

const (
	defaultRunAddress     = ":8080"
	defaultPollInterval   = 30 * time.Second
	defaultWorkerPool     = 4
	defaultPollBatch      = 32
	defaultGatewayTimeout = 15 * time.Second
	defaultCarrierTimeout = 10 * time.Second
	defaultShutdown       = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:           getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:          getString(lookup, "DATABASE_URI", ""),
		StripeAPIKey:         getString(lookup, "STRIPE_API_KEY", ""),
		CarrierAPIAddress:    getString(lookup, "CARRIER_API_ADDRESS", ""),
		TrackingPollInterval: getDuration(lookup, "TRACKING_POLL_INTERVAL", defaultPollInterval),
		WorkerPoolSize:       getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPool),
		PollBatchSize:        getInt(lookup, "POLL_BATCH_SIZE", defaultPollBatch),
		GatewayTimeout:       getDuration(lookup, "GATEWAY_TIMEOUT", defaultGatewayTimeout),
		CarrierTimeout:       getDuration(lookup, "CARRIER_TIMEOUT", defaultCarrierTimeout),
		ShutdownTimeout:      getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdown),
	}

	fs := flag.NewFlagSet("settlement", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		pollIntervalStr    = cfg.TrackingPollInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.CarrierAPIAddress, "c", cfg.CarrierAPIAddress, "Carrier tracking API base URL")
	fs.StringVar(&cfg.StripeAPIKey, "stripe-key", cfg.StripeAPIKey, "Stripe secret API key")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent tracking workers")
	fs.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between tracking polls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.PollBatchSize, "poll-batch", cfg.PollBatchSize, "Maximum orders per polling batch")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.TrackingPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if keyFile, ok := lookup("STRIPE_API_KEY_FILE"); ok && keyFile != "" {
		content, err := os.ReadFile(keyFile)
		if err != nil {
			return nil, fmt.Errorf("read stripe key file: %w", err)
		}
		cfg.StripeAPIKey = string(content)
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPool
	}

	if cfg.PollBatchSize <= 0 {
		cfg.PollBatchSize = defaultPollBatch
	}

	if cfg.TrackingPollInterval <= 0 {
		cfg.TrackingPollInterval = defaultPollInterval
	}

	if cfg.GatewayTimeout <= 0 {
		cfg.GatewayTimeout = defaultGatewayTimeout
	}

	if cfg.CarrierTimeout <= 0 {
		cfg.CarrierTimeout = defaultCarrierTimeout
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdown
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.CarrierAPIAddress == "" {
		return nil, fmt.Errorf("carrier API address must be provided")
	}

	if cfg.StripeAPIKey == "" {
		return nil, fmt.Errorf("stripe API key must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
