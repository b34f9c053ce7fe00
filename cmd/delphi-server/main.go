package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anti-elegant/Delphi-sub000/internal/server/handlers"
	"github.com/anti-elegant/Delphi-sub000/internal/server/middleware"
	"github.com/anti-elegant/Delphi-sub000/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// tombstoneRetention matches the client's ledger retention: deleted rows
// older than this can no longer be replayed through the changes feed.
const tombstoneRetention = 30 * 24 * time.Hour

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	addr := flag.String("addr", ":8080", "Listen address")
	dbPath := flag.String("db", "delphi-server.db", "Path to SQLite database")
	quota := flag.Int("quota", 10000, "Max live records per user, 0 disables")
	rateLimit := flag.Int("rate-limit", 300, "Max requests per IP per minute")
	tokenTTL := flag.Duration("token-ttl", time.Hour, "Access token lifetime")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := run(logger, *addr, *dbPath, *quota, *rateLimit, *tokenTTL); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, addr, dbPath string, quota, rateLimit int, tokenTTL time.Duration) error {
	ctx := context.Background()

	store, err := sqlite.New(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()

	secret, err := jwtSecret()
	if err != nil {
		return err
	}
	jwtCfg := handlers.JWTConfig{Secret: secret, AccessTokenTTL: tokenTTL}

	authHandler := handlers.NewAuthHandler(logger, store, jwtCfg)
	recordsHandler := handlers.NewRecordsHandler(logger, store, store)
	recordsHandler.Quota = quota
	healthHandler := handlers.NewHealthHandler(logger)

	authMW := middleware.AuthMiddleware(logger, jwtCfg)
	protected := func(h http.HandlerFunc) http.Handler { return authMW(h) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/health", healthHandler.Health)
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("GET /api/v1/auth/salt/{username}", authHandler.Salt)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.Handle("PUT /api/v1/zones/{zone}", protected(recordsHandler.EnsureZone))
	mux.Handle("POST /api/v1/zones/{zone}/records", protected(recordsHandler.Push))
	mux.Handle("GET /api/v1/zones/{zone}/records", protected(recordsHandler.List))
	mux.Handle("POST /api/v1/zones/{zone}/records/delete", protected(recordsHandler.Delete))
	mux.Handle("GET /api/v1/zones/{zone}/changes", protected(recordsHandler.Changes))
	mux.Handle("PUT /api/v1/zones/{zone}/records/{type}/{id}", protected(recordsHandler.SaveSingleton))
	mux.Handle("GET /api/v1/zones/{zone}/records/{type}/{id}", protected(recordsHandler.GetSingleton))

	var handler http.Handler = mux
	handler = middleware.RateLimitMiddleware(rateLimit, time.Minute, logger)(handler)
	handler = middleware.LoggingWithSkip(logger, []string{"/api/v1/health"})(handler)
	handler = middleware.RecoveryMiddleware(logger)(handler)

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	pruneCtx, stopPrune := context.WithCancel(ctx)
	defer stopPrune()
	go pruneLoop(pruneCtx, store, logger)

	errC := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errC <- err
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errC:
		return err
	case s := <-sig:
		logger.Info("shutting down", "signal", s)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

// pruneLoop drops tombstoned rows past the retention window once a day.
func pruneLoop(ctx context.Context, store *sqlite.Storage, logger *slog.Logger) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			n, err := store.PruneDeleted(ctx, time.Now().Add(-tombstoneRetention))
			if err != nil {
				logger.Error("tombstone prune failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("pruned tombstoned records", "count", n)
			}
		case <-ctx.Done():
			return
		}
	}
}

// jwtSecret reads the signing secret from DELPHI_JWT_SECRET, generating
// an ephemeral one (tokens die with the process) when unset.
func jwtSecret() ([]byte, error) {
	if s := os.Getenv("DELPHI_JWT_SECRET"); s != "" {
		return []byte(s), nil
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate jwt secret: %w", err)
	}

	return []byte(base64.StdEncoding.EncodeToString(secret)), nil
}

func printVersion() {
	fmt.Printf("Delphi Sync Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
