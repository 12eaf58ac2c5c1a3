package schedule

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	appsync "innsync/internal/app/sync"
)

// Reconciler runs the periodic calendar sweep: every loaded period of every
// unit is re-fetched from the PMS so optimistic local state converges on
// server truth even when no one is editing.
type Reconciler struct {
	cron    *cron.Cron
	engine  *appsync.Engine
	logger  *slog.Logger
	timeout time.Duration
}

func NewReconciler(engine *appsync.Engine, logger *slog.Logger, timeout time.Duration) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Reconciler{
		cron:    cron.New(),
		engine:  engine,
		logger:  logger,
		timeout: timeout,
	}
}

// Start registers the sweep on the given cron spec and begins scheduling.
func (r *Reconciler) Start(spec string) error {
	_, err := r.cron.AddFunc(spec, r.run)
	if err != nil {
		return err
	}
	r.cron.Start()
	r.logger.Info("reconciliation sweep scheduled", "spec", spec)
	return nil
}

// Stop halts scheduling and waits for a running sweep to finish.
func (r *Reconciler) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

func (r *Reconciler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	started := time.Now()
	if err := r.engine.Reconcile(ctx); err != nil {
		r.logger.Warn("reconciliation sweep finished with errors", "error", err, "duration", time.Since(started))
		return
	}
	r.logger.Info("reconciliation sweep complete", "duration", time.Since(started))
}
