package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies the raw overlay to the defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	applyRawSize(&cfg.Viewport, raw.Viewport)
	applyRawSize(&cfg.Cell, raw.Cell)
	applyRawSize(&cfg.MinWindow, raw.MinWindow)

	cfg.TaskbarHeight = derefInt(raw.TaskbarHeight, cfg.TaskbarHeight)
	cfg.TitlebarHeight = derefInt(raw.TitlebarHeight, cfg.TitlebarHeight)
	cfg.ResizeHandle = derefInt(raw.ResizeHandle, cfg.ResizeHandle)
	cfg.ControlWidth = derefInt(raw.ControlWidth, cfg.ControlWidth)
	cfg.NotificationSeconds = derefInt(raw.NotificationSeconds, cfg.NotificationSeconds)

	if raw.ZOrder != nil {
		cfg.ZOrder.Baseline = derefInt(raw.ZOrder.Baseline, cfg.ZOrder.Baseline)
		cfg.ZOrder.Front = derefInt(raw.ZOrder.Front, cfg.ZOrder.Front)
	}
	if raw.Arrange != nil {
		if raw.Arrange.Mode != nil {
			cfg.Arrange.Mode = ArrangeMode(strings.ToLower(string(*raw.Arrange.Mode)))
		}
		cfg.Arrange.Gap = derefInt(raw.Arrange.Gap, cfg.Arrange.Gap)
	}
	if raw.Apps != nil {
		apps, err := buildApps(raw.Apps)
		if err != nil {
			return nil, err
		}
		cfg.Apps = apps
	}
	if raw.HomeURL != nil {
		cfg.HomeURL = strings.TrimSpace(*raw.HomeURL)
	}
	if raw.StoragePath != nil {
		cfg.StoragePath = strings.TrimSpace(*raw.StoragePath)
	}
	if raw.Server != nil {
		if raw.Server.Listen != nil {
			cfg.Server.Listen = strings.TrimSpace(*raw.Server.Listen)
		}
		if raw.Server.BaseURL != nil {
			cfg.Server.BaseURL = strings.TrimRight(strings.TrimSpace(*raw.Server.BaseURL), "/")
		}
		cfg.Server.ProxyTimeoutSeconds = derefInt(raw.Server.ProxyTimeoutSeconds, cfg.Server.ProxyTimeoutSeconds)
		cfg.Server.ClientTimeoutSeconds = derefInt(raw.Server.ClientTimeoutSeconds, cfg.Server.ClientTimeoutSeconds)
		if raw.Server.UserAgent != nil {
			cfg.Server.UserAgent = *raw.Server.UserAgent
		}
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*raw.LogLevel))
	}
	if raw.Logging != nil {
		if raw.Logging.Enabled != nil {
			cfg.Logging.Enabled = *raw.Logging.Enabled
		}
		if raw.Logging.Level != nil {
			cfg.Logging.Level = *raw.Logging.Level
		}
		if raw.Logging.File != nil {
			cfg.Logging.File = *raw.Logging.File
		}
		cfg.Logging.MaxSizeMB = derefInt(raw.Logging.MaxSizeMB, cfg.Logging.MaxSizeMB)
		cfg.Logging.MaxFiles = derefInt(raw.Logging.MaxFiles, cfg.Logging.MaxFiles)
	}

	return cfg, nil
}

// buildApps fills label/title/geometry gaps from the builtin catalog so a user
// can list `- name: notes` without restating everything.
func buildApps(raw []AppConfig) ([]AppConfig, error) {
	builtin := make(map[string]AppConfig)
	for _, app := range DefaultApps() {
		builtin[app.Name] = app
	}

	out := make([]AppConfig, 0, len(raw))
	for i, app := range raw {
		app.Name = strings.TrimSpace(app.Name)
		if app.Name == "" {
			return nil, &ValidationError{Path: fmt.Sprintf("apps.%d.name", i), Err: fmt.Errorf("app name is required")}
		}
		base, ok := builtin[app.Name]
		if !ok {
			base = AppConfig{Name: app.Name, Label: app.Name, Title: app.Name, X: 40, Y: 40, Width: 400, Height: 300}
		}
		if app.Label == "" {
			app.Label = base.Label
		}
		if app.Title == "" {
			app.Title = base.Title
		}
		if app.Width == 0 && app.Height == 0 {
			app.X, app.Y, app.Width, app.Height = base.X, base.Y, base.Width, base.Height
		}
		out = append(out, app)
	}
	return out, nil
}

func applyRawSize(dst *Size, raw *RawSize) {
	if raw == nil {
		return
	}
	dst.Width = derefInt(raw.Width, dst.Width)
	dst.Height = derefInt(raw.Height, dst.Height)
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
