// Package daemon holds background upkeep for desktops that run without a
// terminal host driving them.
package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/fakeos/internal/desktop"
)

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically drops expired notifications from a headless
// session. The terminal desktop does the same on its clock tick.
type Reconciler struct {
	interval time.Duration
	session  *desktop.Session
	logger   *slog.Logger
}

// NewReconciler creates a new reconciler for session.
func NewReconciler(cfg ReconcilerConfig, session *desktop.Session) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Reconciler{
		interval: interval,
		session:  session,
		logger:   logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Debug("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("reconciler stopped")
			return
		case <-ticker.C:
			r.reconcile()
		}
	}
}

// reconcile performs a single reconciliation pass.
func (r *Reconciler) reconcile() {
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	var expired bool
	var remaining int
	_ = r.session.Do(func(d *desktop.Desktop) error {
		expired = d.ExpireNotifications()
		remaining = len(d.Notifications())
		return nil
	})
	if expired {
		r.logger.Debug("reconciler: notifications expired", "remaining", remaining)
	}
}

// ReconcileNow triggers an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow() {
	r.reconcile()
}
