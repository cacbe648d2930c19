package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawSize struct {
	Width  *int `yaml:"width"`
	Height *int `yaml:"height"`
}

type RawZOrder struct {
	Baseline *int `yaml:"baseline"`
	Front    *int `yaml:"front"`
}

type RawArrange struct {
	Mode *ArrangeMode `yaml:"mode"`
	Gap  *int         `yaml:"gap"`
}

type RawServer struct {
	Listen               *string `yaml:"listen"`
	BaseURL              *string `yaml:"base_url"`
	ProxyTimeoutSeconds  *int    `yaml:"proxy_timeout_seconds"`
	ClientTimeoutSeconds *int    `yaml:"client_timeout_seconds"`
	UserAgent            *string `yaml:"user_agent"`
}

type RawLoggingConfig struct {
	Enabled   *bool   `yaml:"enabled"`
	Level     *string `yaml:"level"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

type RawConfig struct {
	Include             IncludeList       `yaml:"include"`
	Viewport            *RawSize          `yaml:"viewport"`
	Cell                *RawSize          `yaml:"cell"`
	TaskbarHeight       *int              `yaml:"taskbar_height"`
	TitlebarHeight      *int              `yaml:"titlebar_height"`
	ResizeHandle        *int              `yaml:"resize_handle"`
	ControlWidth        *int              `yaml:"control_width"`
	MinWindow           *RawSize          `yaml:"min_window"`
	ZOrder              *RawZOrder        `yaml:"z_order"`
	Arrange             *RawArrange       `yaml:"arrange"`
	Apps                []AppConfig       `yaml:"apps"`
	HomeURL             *string           `yaml:"home_url"`
	NotificationSeconds *int              `yaml:"notification_seconds"`
	StoragePath         *string           `yaml:"storage_path"`
	Server              *RawServer        `yaml:"server"`
	LogLevel            *string           `yaml:"log_level"`
	Logging             *RawLoggingConfig `yaml:"logging"`
}

// merge overlays non-nil fields. Apps is replaced as a whole list because
// its order is the start menu order.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Viewport != nil {
		out.Viewport = mergeRawSize(out.Viewport, overlay.Viewport)
	}
	if overlay.Cell != nil {
		out.Cell = mergeRawSize(out.Cell, overlay.Cell)
	}
	if overlay.TaskbarHeight != nil {
		out.TaskbarHeight = overlay.TaskbarHeight
	}
	if overlay.TitlebarHeight != nil {
		out.TitlebarHeight = overlay.TitlebarHeight
	}
	if overlay.ResizeHandle != nil {
		out.ResizeHandle = overlay.ResizeHandle
	}
	if overlay.ControlWidth != nil {
		out.ControlWidth = overlay.ControlWidth
	}
	if overlay.MinWindow != nil {
		out.MinWindow = mergeRawSize(out.MinWindow, overlay.MinWindow)
	}
	if overlay.ZOrder != nil {
		if out.ZOrder == nil {
			out.ZOrder = &RawZOrder{}
		}
		z := *out.ZOrder
		if overlay.ZOrder.Baseline != nil {
			z.Baseline = overlay.ZOrder.Baseline
		}
		if overlay.ZOrder.Front != nil {
			z.Front = overlay.ZOrder.Front
		}
		out.ZOrder = &z
	}
	if overlay.Arrange != nil {
		if out.Arrange == nil {
			out.Arrange = &RawArrange{}
		}
		a := *out.Arrange
		if overlay.Arrange.Mode != nil {
			a.Mode = overlay.Arrange.Mode
		}
		if overlay.Arrange.Gap != nil {
			a.Gap = overlay.Arrange.Gap
		}
		out.Arrange = &a
	}
	if overlay.Apps != nil {
		out.Apps = append([]AppConfig(nil), overlay.Apps...)
	}
	if overlay.HomeURL != nil {
		out.HomeURL = overlay.HomeURL
	}
	if overlay.NotificationSeconds != nil {
		out.NotificationSeconds = overlay.NotificationSeconds
	}
	if overlay.StoragePath != nil {
		out.StoragePath = overlay.StoragePath
	}
	if overlay.Server != nil {
		if out.Server == nil {
			out.Server = &RawServer{}
		}
		s := *out.Server
		if overlay.Server.Listen != nil {
			s.Listen = overlay.Server.Listen
		}
		if overlay.Server.BaseURL != nil {
			s.BaseURL = overlay.Server.BaseURL
		}
		if overlay.Server.ProxyTimeoutSeconds != nil {
			s.ProxyTimeoutSeconds = overlay.Server.ProxyTimeoutSeconds
		}
		if overlay.Server.ClientTimeoutSeconds != nil {
			s.ClientTimeoutSeconds = overlay.Server.ClientTimeoutSeconds
		}
		if overlay.Server.UserAgent != nil {
			s.UserAgent = overlay.Server.UserAgent
		}
		out.Server = &s
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.Logging != nil {
		if out.Logging == nil {
			out.Logging = &RawLoggingConfig{}
		}
		l := *out.Logging
		if overlay.Logging.Enabled != nil {
			l.Enabled = overlay.Logging.Enabled
		}
		if overlay.Logging.Level != nil {
			l.Level = overlay.Logging.Level
		}
		if overlay.Logging.File != nil {
			l.File = overlay.Logging.File
		}
		if overlay.Logging.MaxSizeMB != nil {
			l.MaxSizeMB = overlay.Logging.MaxSizeMB
		}
		if overlay.Logging.MaxFiles != nil {
			l.MaxFiles = overlay.Logging.MaxFiles
		}
		out.Logging = &l
	}

	return out
}

func mergeRawSize(base *RawSize, overlay *RawSize) *RawSize {
	out := RawSize{}
	if base != nil {
		out = *base
	}
	if overlay.Width != nil {
		out.Width = overlay.Width
	}
	if overlay.Height != nil {
		out.Height = overlay.Height
	}
	return &out
}
