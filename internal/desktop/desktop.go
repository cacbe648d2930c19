// Package desktop ties the window manager, the application panels and the
// shell chrome (menus, shortcuts, notifications) into one desktop session.
package desktop

import (
	"io"
	"log/slog"
	"time"

	"github.com/1broseidon/fakeos/internal/actionlog"
	"github.com/1broseidon/fakeos/internal/apps"
	"github.com/1broseidon/fakeos/internal/browser"
	"github.com/1broseidon/fakeos/internal/config"
	"github.com/1broseidon/fakeos/internal/store"
	"github.com/1broseidon/fakeos/internal/wm"
)

// Options configures a desktop.
type Options struct {
	Config *config.Config
	// Store persists panel state. Defaults to an in-memory store.
	Store store.Store
	// Fetcher serves the browser's searches and page loads. Defaults to a
	// client for Config.Server.BaseURL.
	Fetcher browser.Fetcher
	// Manager overrides the geometry derived from Config, e.g. when a host
	// renders with a different titlebar height.
	Manager *wm.Options
	Logger  *slog.Logger
	Actions *actionlog.Logger
	Now     func() time.Time
}

// Desktop is the state of one desktop session. It is not safe for concurrent
// use; Session serializes access to it.
type Desktop struct {
	cfg     *config.Config
	store   store.Store
	logger  *slog.Logger
	actions *actionlog.Logger
	now     func() time.Time
	started time.Time

	WM         *wm.Manager
	Calculator *apps.Calculator
	Notes      *apps.Notes
	Files      *apps.Files
	Settings   *apps.Settings
	Browser    *browser.Browser

	panels map[string]apps.Panel

	notifications []Notification
	menu          Menu
	menuX, menuY  int
	prompt        *Prompt
	shuttingDown  bool
}

// New builds a desktop with every configured app provisioned and closed.
func New(opts Options) *Desktop {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	st := opts.Store
	if st == nil {
		st = store.NewMemory()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	wmOpts := wm.OptionsFromConfig(cfg)
	if opts.Manager != nil {
		wmOpts = *opts.Manager
	}
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = browser.NewClient(cfg.Server.BaseURL, time.Duration(cfg.Server.ClientTimeoutSeconds)*time.Second)
	}

	d := &Desktop{
		cfg:     cfg,
		store:   st,
		logger:  logger,
		actions: opts.Actions,
		now:     now,
		started: now(),
		WM:      wm.NewManager(wmOpts, cfg.Apps),
	}
	notify := d.Notify
	d.Calculator = apps.NewCalculator()
	d.Settings = apps.NewSettings(st, notify)
	d.Notes = apps.NewNotes(st, d.Settings.Autosave, notify)
	d.Files = apps.NewFiles(st, notify)
	d.Browser = browser.New(fetcher, st, notify)
	d.Browser.SetHome(cfg.HomeURL)

	d.panels = make(map[string]apps.Panel)
	for _, p := range []apps.Panel{d.Notes, d.Calculator, d.Files, d.Settings, d.Browser} {
		d.panels[p.Name()] = p
	}
	d.WM.SetObserver(d.observe)
	return d
}

// Config returns the configuration the desktop was built from.
func (d *Desktop) Config() *config.Config { return d.cfg }

// Uptime returns how long the desktop has been running.
func (d *Desktop) Uptime() time.Duration { return d.now().Sub(d.started) }

// Panel returns the panel behind an app name.
func (d *Desktop) Panel(app string) (apps.Panel, bool) {
	p, ok := d.panels[app]
	return p, ok
}

// observe keeps the panels in step with their windows and records every
// window change.
func (d *Desktop) observe(c wm.Change) {
	d.logger.Debug("window change", "action", c.Action, "window", c.WindowID, "detail", c.Detail)

	details := map[string]any{}
	if c.Detail != "" {
		details["detail"] = c.Detail
	}
	d.actions.Log(actionlog.ActionFor(c.Action), c.WindowID, details)

	w, ok := d.WM.Registry().Get(c.WindowID)
	if !ok {
		return
	}
	p, ok := d.panels[w.App]
	if !ok {
		return
	}
	switch c.Action {
	case "open", "focus", "switch":
		p.Activate()
	case "minimize", "close":
		p.Deactivate()
	}
}
