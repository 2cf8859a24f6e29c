package backup

import (
	"context"
	"log/slog"
	"time"
)

// Worker uploads the database file on a fixed interval.
type Worker struct {
	uploader Uploader
	dbPath   string
	interval time.Duration
}

// NewWorker creates a worker that backs up the file at dbPath.
func NewWorker(uploader Uploader, dbPath string, interval time.Duration) *Worker {
	return &Worker{
		uploader: uploader,
		dbPath:   dbPath,
		interval: interval,
	}
}

// Run starts the worker loop. Uploads immediately on start, then on each
// interval. Respects context cancellation for graceful shutdown.
func (w *Worker) Run(ctx context.Context) {
	slog.Info("worker started",
		"component", "worker",
		"worker", "backup",
		"interval", w.interval.String(),
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.upload(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("worker stopped",
				"component", "worker",
				"worker", "backup",
				"reason", "context_cancelled",
			)
			return
		case <-ticker.C:
			w.upload(ctx)
		}
	}
}

// upload performs one backup and logs any errors. A failed upload never
// takes the service down; the next tick retries from scratch.
func (w *Worker) upload(ctx context.Context) {
	start := time.Now()
	if err := w.uploader.Upload(ctx, w.dbPath); err != nil {
		slog.Error("backup upload failed",
			"component", "worker",
			"worker", "backup",
			"error", err,
		)
		return
	}
	slog.Info("backup upload complete",
		"component", "worker",
		"worker", "backup",
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
