package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"CareerNav/internal/api"
	"CareerNav/internal/config"
	"CareerNav/internal/session"
	"CareerNav/internal/shell"
	"CareerNav/internal/telemetry"
)

func main() {
	var (
		configPath string
		apiURL     string
		dbPath     string
		debug      bool
		timeout    time.Duration
	)
	flag.StringVar(&configPath, "config", "", "Path to a config file (yaml, json or toml)")
	flag.StringVar(&apiURL, "api-url", "", "Backend base URL (overrides config)")
	flag.StringVar(&dbPath, "db", "", "SQLite file holding the login session (overrides config)")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.DurationVar(&timeout, "timeout", 0, "Per-request timeout (overrides config)")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if apiURL != "" {
		cfg.APIBaseURL = apiURL
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if timeout > 0 {
		cfg.RequestTimeout = timeout
	}
	if debug {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, closeLog, err := telemetry.InitLogger(cfg.LogDir, cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer closeLog()
	if cfg.Debug {
		logger.Info("Debug mode enabled")
	}

	var opts []api.Option
	if cfg.TelemetryEnabled {
		tracer, meter, shutdown, err := telemetry.InitTelemetry(ctx, cfg.LogDir)
		if err != nil {
			return fmt.Errorf("failed to initialize telemetry: %w", err)
		}
		defer shutdown()
		opts = append(opts, api.WithTelemetry(tracer, meter))
	}

	db, err := telemetry.InitDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	store := session.NewStore(db, logger)
	client, err := api.New(cfg.APIBaseURL, store, logger, cfg.RequestTimeout, opts...)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	sh, err := shell.New(cfg, client, store, logger, nil, os.Stdin, os.Stdout)
	if err != nil {
		return fmt.Errorf("failed to initialize shell: %w", err)
	}
	logger.Info("starting", "api_base_url", cfg.APIBaseURL, "db", cfg.DBPath)
	return sh.Run(ctx)
}
