package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anti-elegant/Delphi-sub000/internal/client/api"
	"github.com/anti-elegant/Delphi-sub000/internal/client/auth"
	"github.com/anti-elegant/Delphi-sub000/internal/client/cli"
	"github.com/anti-elegant/Delphi-sub000/internal/client/data"
	"github.com/anti-elegant/Delphi-sub000/internal/client/iocli"
	"github.com/anti-elegant/Delphi-sub000/internal/client/storage/boltdb"
	"github.com/anti-elegant/Delphi-sub000/internal/ledger"
	"github.com/anti-elegant/Delphi-sub000/internal/netmon"
	"github.com/anti-elegant/Delphi-sub000/internal/remote"
	"github.com/anti-elegant/Delphi-sub000/internal/sync"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "http://localhost:8080", "Server URL")
	dbPath := flag.String("db", "delphi-sync.db", "Path to local database")
	zone := flag.String("zone", "delphi", "Remote zone holding this account's records")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	args := flag.Args()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	io := iocli.NewStdio()

	if len(args) == 0 {
		usageOnly := cli.New(io, nil, nil, nil, nil)
		usageOnly.PrintUsage()
		os.Exit(1)
	}
	command := args[0]

	ctx := context.Background()

	boltStorage, err := boltdb.New(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := boltStorage.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	led := ledger.New(ctx, boltStorage, logger)
	authService := auth.NewService(api.NewClient(*serverURL), boltStorage, logger)
	dataService := data.NewService(boltStorage, boltStorage, led, nil, logger)

	nodeID, err := boltStorage.GetNodeID(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize node ID: %v\n", err)
		os.Exit(1)
	}

	settings, err := dataService.GetSettings(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load settings: %v\n", err)
		os.Exit(1)
	}

	cfg := sync.DefaultConfig(*zone)
	cfg.ConflictStrategy = sync.ParseStrategy(settings.ConflictStrategy)

	adapter := remote.NewClient(remote.ClientConfig{
		BaseURL:    *serverURL,
		NodeID:     nodeID,
		Tokens:     authService,
		Logger:     logger,
		BatchSize:  cfg.BatchSize,
		MaxRetries: cfg.MaxRetries,
	})

	engine := sync.NewEngine(cfg, boltStorage, boltStorage, led, adapter, logger)
	if !settings.SyncEnabled {
		engine.Disable()
	}

	if command == "daemon" {
		if err := runDaemon(ctx, engine, cfg, *serverURL, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	c := cli.New(io, authService, dataService, engine, led)
	c.Run(ctx, command, args[1:])
}

// runDaemon keeps a scheduler and network monitor alive until the
// process receives SIGINT or SIGTERM.
func runDaemon(ctx context.Context, engine *sync.Engine, cfg sync.Config, serverURL string, logger *slog.Logger) error {
	if !engine.Enabled() {
		return fmt.Errorf("sync is disabled; enable it in settings first")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sched := sync.NewScheduler(engine, cfg, logger)
	defer sched.Close()

	mon := netmon.New(netmon.HTTPProbe(serverURL+"/api/v1/health", 5*time.Second), 30*time.Second, logger)
	mon.OnTransition(func(available bool) {
		if available {
			sched.OnConnectivityRestored()
		}
	})
	mon.Start(ctx)
	defer mon.Stop()

	// Kick one pass immediately, then settle into the periodic cadence.
	sched.RequestSync()

	ticker := time.NewTicker(cfg.BackgroundSyncInterval)
	defer ticker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("sync daemon started", "server", serverURL, "interval", cfg.BackgroundSyncInterval)

	for {
		select {
		case <-ticker.C:
			sched.RequestSync()
		case s := <-sig:
			logger.Info("shutting down", "signal", s)
			return nil
		}
	}
}

func printVersion() {
	fmt.Printf("Delphi Sync Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
