package daemon

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/1broseidon/fakeos/internal/desktop"
	"github.com/1broseidon/fakeos/internal/store"
)

func newTestSession(now *time.Time) *desktop.Session {
	d := desktop.New(desktop.Options{
		Store: store.NewMemory(),
		Now:   func() time.Time { return *now },
	})
	return desktop.NewSession(d)
}

func TestReconcileNowExpiresNotifications(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	session := newTestSession(&now)
	_ = session.Do(func(d *desktop.Desktop) error {
		d.Notify("first")
		return nil
	})

	r := NewReconciler(ReconcilerConfig{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}, session)
	r.ReconcileNow()
	if got := len(session.State().Notifications); got != 1 {
		t.Fatalf("notifications=%d, want 1 before expiry", got)
	}

	now = now.Add(time.Minute)
	r.ReconcileNow()
	if got := len(session.State().Notifications); got != 0 {
		t.Fatalf("notifications=%d, want 0 after expiry", got)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	now := time.Now()
	r := NewReconciler(ReconcilerConfig{Interval: time.Millisecond}, newTestSession(&now))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
