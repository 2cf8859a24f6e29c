package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hyperengineering/mealdiary/internal/api"
	"github.com/hyperengineering/mealdiary/internal/backup"
	"github.com/hyperengineering/mealdiary/internal/config"
	"github.com/hyperengineering/mealdiary/internal/store"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "mealdiary",
	Short: "Mealdiary - personal meal logging service",
	RunE:  run,
}

func run(cmd *cobra.Command, args []string) error {
	// Signal handling
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// Hosting providers hand secrets through a .env file; missing file is fine.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize logger
	logger := slog.New(newLogHandler(cfg.Log))
	slog.SetDefault(logger)
	slog.Info("configuration loaded", "engine", cfg.Database.Engine)

	// Initialize store (schema setup is fatal on failure by design)
	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	slog.Info("store initialized", "engine", db.Engine())

	// Initialize HTTP router
	handler := api.NewHandler(db, Version)
	router := api.NewRouter(handler)
	slog.Info("router initialized")

	// Configure HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout),
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout),
	}

	// Background worker lifecycle
	var wg sync.WaitGroup
	if err := startBackupWorker(ctx, &wg, cfg, db); err != nil {
		return err
	}

	// Start HTTP server in goroutine
	go func() {
		slog.Info("server starting", "address", addr)
		// ErrServerClosed is the expected error when Shutdown() is called
		// gracefully. Any other error indicates an actual server failure
		// that should trigger shutdown.
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	// Block until signal received
	<-ctx.Done()
	slog.Info("shutdown initiated")

	// Graceful shutdown sequence: drain requests, stop workers, close store
	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout))
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	wg.Wait()

	if err := db.Close(); err != nil {
		slog.Error("store close error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// openStore constructs the configured storage engine.
func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Database.Engine {
	case config.EnginePostgres:
		return store.NewPostgresStore(cfg.Database.URL)
	default:
		return store.NewSQLiteStore(cfg.Database.Path)
	}
}

// startBackupWorker launches the periodic database backup when configured.
// Backup only applies to the sqlite engine; a managed Postgres deployment
// is backed up by its provider.
func startBackupWorker(ctx context.Context, wg *sync.WaitGroup, cfg *config.Config, db store.Store) error {
	sqliteStore, ok := db.(*store.SQLiteStore)
	if !ok {
		return nil
	}

	uploader, err := backup.NewUploader(cfg.Backup)
	if err != nil {
		return err
	}
	if !uploader.Enabled() {
		return nil
	}

	worker := backup.NewWorker(uploader, sqliteStore.Path(), time.Duration(cfg.Backup.Interval))
	startWorker(ctx, wg, "backup", worker.Run)
	return nil
}

// startWorker launches a background worker goroutine that respects context
// cancellation. Workers are tracked via WaitGroup for graceful shutdown.
func startWorker(ctx context.Context, wg *sync.WaitGroup, name string, fn func(ctx context.Context)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		slog.Info("worker started", "worker", name)
		fn(ctx)
		slog.Info("worker stopped", "worker", name)
	}()
}

func newLogHandler(cfg config.LogConfig) slog.Handler {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}
	if cfg.Format == "text" {
		return slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.NewJSONHandler(os.Stdout, opts)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
