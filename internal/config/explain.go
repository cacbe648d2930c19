package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	viewport.width
//	cell.height
//	taskbar_height
//	titlebar_height
//	resize_handle
//	control_width
//	min_window.width
//	z_order.front
//	arrange.mode
//	apps.<name>.width
//	home_url
//	notification_seconds
//	storage_path
//	server.listen
//	log_level
//	logging.enabled
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	// Exact-path file source wins.
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	// apps.<name>.* is recorded by index in the YAML.
	if idxPath, ok := appIndexPath(res.Config, path); ok {
		if src, ok := res.Sources[idxPath]; ok {
			return value, src, nil
		}
		if src, ok := res.Sources["apps"]; ok {
			return value, src, nil
		}
	}

	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func appIndexPath(cfg *Config, path string) (string, bool) {
	parts := strings.Split(path, ".")
	if len(parts) < 2 || parts[0] != "apps" {
		return "", false
	}
	for i, app := range cfg.Apps {
		if app.Name == parts[1] {
			parts[1] = strconv.Itoa(i)
			return strings.Join(parts, "."), true
		}
	}
	return "", false
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	leaf := func(v any) (any, error) {
		if len(parts) != 1 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return v, nil
	}
	size := func(s Size) (any, error) {
		if len(parts) == 1 {
			return s, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[1] {
		case "width":
			return s.Width, nil
		case "height":
			return s.Height, nil
		default:
			return nil, fmt.Errorf("unknown path: %s", path)
		}
	}

	switch parts[0] {
	case "viewport":
		return size(cfg.Viewport)
	case "cell":
		return size(cfg.Cell)
	case "min_window":
		return size(cfg.MinWindow)
	case "taskbar_height":
		return leaf(cfg.TaskbarHeight)
	case "titlebar_height":
		return leaf(cfg.TitlebarHeight)
	case "resize_handle":
		return leaf(cfg.ResizeHandle)
	case "control_width":
		return leaf(cfg.ControlWidth)
	case "home_url":
		return leaf(cfg.HomeURL)
	case "notification_seconds":
		return leaf(cfg.NotificationSeconds)
	case "storage_path":
		return leaf(cfg.GetStoragePath())
	case "log_level":
		return leaf(cfg.LogLevel)
	case "z_order":
		if len(parts) == 1 {
			return cfg.ZOrder, nil
		}
		if len(parts) == 2 {
			switch parts[1] {
			case "baseline":
				return cfg.ZOrder.Baseline, nil
			case "front":
				return cfg.ZOrder.Front, nil
			}
		}
		return nil, fmt.Errorf("unknown path: %s", path)
	case "arrange":
		if len(parts) == 1 {
			return cfg.Arrange, nil
		}
		if len(parts) == 2 {
			switch parts[1] {
			case "mode":
				return cfg.Arrange.Mode, nil
			case "gap":
				return cfg.Arrange.Gap, nil
			}
		}
		return nil, fmt.Errorf("unknown path: %s", path)
	case "server":
		if len(parts) == 1 {
			return cfg.Server, nil
		}
		if len(parts) == 2 {
			switch parts[1] {
			case "listen":
				return cfg.Server.Listen, nil
			case "base_url":
				return cfg.Server.BaseURL, nil
			case "proxy_timeout_seconds":
				return cfg.Server.ProxyTimeoutSeconds, nil
			case "client_timeout_seconds":
				return cfg.Server.ClientTimeoutSeconds, nil
			case "user_agent":
				return cfg.Server.UserAgent, nil
			}
		}
		return nil, fmt.Errorf("unknown path: %s", path)
	case "logging":
		logCfg := cfg.GetLoggingConfig()
		if len(parts) == 1 {
			return logCfg, nil
		}
		if len(parts) == 2 {
			switch parts[1] {
			case "enabled":
				return logCfg.Enabled, nil
			case "level":
				return logCfg.Level, nil
			case "file":
				return logCfg.File, nil
			case "max_size_mb":
				return logCfg.MaxSizeMB, nil
			case "max_files":
				return logCfg.MaxFiles, nil
			}
		}
		return nil, fmt.Errorf("unknown path: %s", path)
	case "apps":
		if len(parts) == 1 {
			return cfg.Apps, nil
		}
		app, ok := cfg.App(parts[1])
		if !ok {
			return nil, fmt.Errorf("unknown app %q", parts[1])
		}
		if len(parts) == 2 {
			return app, nil
		}
		if len(parts) != 3 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[2] {
		case "label":
			return app.Label, nil
		case "title":
			return app.Title, nil
		case "x":
			return app.X, nil
		case "y":
			return app.Y, nil
		case "width":
			return app.Width, nil
		case "height":
			return app.Height, nil
		default:
			return nil, fmt.Errorf("unknown path: %s", path)
		}
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}
