package worker

import (
	"context"
	"log/slog"
	"time"
)

type Syncer interface {
	SyncPending(ctx context.Context) (int64, error)
}

// SyncWorker runs the same pass as POST /sync on a fixed period.
type SyncWorker struct {
	syncer   Syncer
	interval time.Duration
	logger   *slog.Logger
}

func NewSyncWorker(syncer Syncer, interval time.Duration, logger *slog.Logger) *SyncWorker {
	return &SyncWorker{
		syncer:   syncer,
		interval: interval,
		logger:   logger,
	}
}

// Start blocks until ctx is cancelled. A failed pass is logged and retried on
// the next tick.
func (w *SyncWorker) Start(ctx context.Context) {
	w.logger.Info("starting sync worker", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("sync worker stopped")
			return
		case <-ticker.C:
			processed, err := w.syncer.SyncPending(ctx)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				w.logger.Error("sync pass failed", "error", err)
				continue
			}
			if processed > 0 {
				w.logger.Debug("sync pass done", "processed", processed)
			}
		}
	}
}
