package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Size is a width/height pair in desktop pixels.
type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ArrangeMode defines how the desktop arranges visible windows.
type ArrangeMode string

const (
	ArrangeGrid       ArrangeMode = "grid"       // Dynamic grid based on count.
	ArrangeVertical   ArrangeMode = "vertical"   // Single column stack.
	ArrangeHorizontal ArrangeMode = "horizontal" // Single row side-by-side.
	ArrangeCascade    ArrangeMode = "cascade"    // Diagonal offsets, sizes kept.
)

// ArrangeConfig configures the "tile windows" / "cascade windows" actions.
type ArrangeConfig struct {
	Mode ArrangeMode `yaml:"mode"`
	Gap  int         `yaml:"gap"`
}

// ZOrder holds the two z values assigned by bring-to-front.
type ZOrder struct {
	Baseline int `yaml:"baseline"`
	Front    int `yaml:"front"`
}

// AppConfig describes one pre-provisioned application window.
type AppConfig struct {
	Name   string `yaml:"name"`
	Label  string `yaml:"label"`
	Title  string `yaml:"title"`
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// WindowID returns the id of the window backing the app.
func (a AppConfig) WindowID() string {
	return a.Name + "-window"
}

// ServerConfig configures the HTTP server and the browser's view of it.
type ServerConfig struct {
	// Listen is the address `fakeos serve` binds to.
	Listen string `yaml:"listen"`
	// BaseURL is where the mock browser sends /search/ and /proxy/ requests.
	BaseURL string `yaml:"base_url"`
	// ProxyTimeoutSeconds bounds the upstream fetch done by /proxy/.
	ProxyTimeoutSeconds int `yaml:"proxy_timeout_seconds"`
	// ClientTimeoutSeconds bounds the browser's requests to BaseURL.
	ClientTimeoutSeconds int `yaml:"client_timeout_seconds"`
	// UserAgent is sent upstream by /proxy/.
	UserAgent string `yaml:"user_agent"`
}

// LoggingConfig configures window action logging.
type LoggingConfig struct {
	// Enabled turns action logging on/off
	Enabled bool `yaml:"enabled,omitempty"`
	// Level controls logging verbosity: debug, info, warn, error
	Level string `yaml:"level,omitempty"`
	// File is the log file path (default: ~/.local/share/fakeos/actions.log)
	File string `yaml:"file,omitempty"`
	// MaxSizeMB is the maximum log file size before rotation (default: 10)
	MaxSizeMB int `yaml:"max_size_mb,omitempty"`
	// MaxFiles is the number of rotated files to keep (default: 3)
	MaxFiles int `yaml:"max_files,omitempty"`
}

// Config is the effective desktop configuration.
type Config struct {
	// Viewport is the desktop size used by headless hosts (serve, API).
	Viewport Size `yaml:"viewport"`
	// Cell is the pixel size of one terminal cell in the terminal desktop.
	Cell Size `yaml:"cell"`

	TaskbarHeight  int    `yaml:"taskbar_height"`
	TitlebarHeight int    `yaml:"titlebar_height"`
	ResizeHandle   int    `yaml:"resize_handle"`
	ControlWidth   int    `yaml:"control_width"`
	MinWindow      Size   `yaml:"min_window"`
	ZOrder         ZOrder `yaml:"z_order"`

	Arrange ArrangeConfig `yaml:"arrange"`
	Apps    []AppConfig   `yaml:"apps"`

	HomeURL             string `yaml:"home_url"`
	NotificationSeconds int    `yaml:"notification_seconds"`
	StoragePath         string `yaml:"storage_path,omitempty"`

	Server   ServerConfig  `yaml:"server"`
	LogLevel string        `yaml:"log_level"`
	Logging  LoggingConfig `yaml:"logging,omitempty"`
}

// DefaultApps returns the installed application catalog.
func DefaultApps() []AppConfig {
	return []AppConfig{
		{Name: "notes", Label: "📝 Notes", Title: "Notes", X: 80, Y: 60, Width: 480, Height: 360},
		{Name: "calculator", Label: "🧮 Calc", Title: "Calculator", X: 600, Y: 80, Width: 264, Height: 352},
		{Name: "files", Label: "📁 Files", Title: "Files", X: 120, Y: 140, Width: 520, Height: 352},
		{Name: "settings", Label: "⚙️ Settings", Title: "Settings", X: 200, Y: 100, Width: 400, Height: 288},
		{Name: "chrome", Label: "🌐 Chrome", Title: "Chrome", X: 160, Y: 40, Width: 720, Height: 480},
	}
}

func DefaultConfig() *Config {
	return &Config{
		Viewport:       Size{Width: 1280, Height: 800},
		Cell:           Size{Width: 8, Height: 16},
		TaskbarHeight:  40,
		TitlebarHeight: 32,
		ResizeHandle:   10,
		ControlWidth:   24,
		MinWindow:      Size{Width: 200, Height: 150},
		ZOrder:         ZOrder{Baseline: 10, Front: 20},
		Arrange: ArrangeConfig{
			Mode: ArrangeGrid,
			Gap:  10,
		},
		Apps:                DefaultApps(),
		HomeURL:             "https://www.google.com",
		NotificationSeconds: 3,
		Server: ServerConfig{
			Listen:               "127.0.0.1:8642",
			BaseURL:              "http://127.0.0.1:8642",
			ProxyTimeoutSeconds:  10,
			ClientTimeoutSeconds: 15,
			UserAgent:            "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		},
		LogLevel: "info",
	}
}

// App returns the app config with the given name.
func (c *Config) App(name string) (AppConfig, bool) {
	for _, app := range c.Apps {
		if app.Name == name {
			return app, true
		}
	}
	return AppConfig{}, false
}

// AppNames returns installed app names in catalog order.
func (c *Config) AppNames() []string {
	names := make([]string, 0, len(c.Apps))
	for _, app := range c.Apps {
		names = append(names, app.Name)
	}
	return names
}

// GetStoragePath returns the key-value store path with defaults applied.
func (c *Config) GetStoragePath() string {
	if c != nil && c.StoragePath != "" {
		return expandHome(c.StoragePath)
	}
	return filepath.Join(dataDir(), "storage.json")
}

// GetLoggingConfig returns the logging configuration with defaults applied.
func (c *Config) GetLoggingConfig() LoggingConfig {
	if c == nil {
		return LoggingConfig{}
	}
	cfg := c.Logging
	if cfg.File == "" {
		cfg.File = filepath.Join(dataDir(), "actions.log")
	}
	cfg.File = expandHome(cfg.File)
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxFiles == 0 {
		cfg.MaxFiles = 3
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	return cfg
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}

	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return &ValidationError{Path: "viewport", Err: fmt.Errorf("viewport must be positive")}
	}
	if c.Cell.Width <= 0 || c.Cell.Height <= 0 {
		return &ValidationError{Path: "cell", Err: fmt.Errorf("cell size must be positive")}
	}
	if c.TaskbarHeight < 0 {
		return &ValidationError{Path: "taskbar_height", Err: fmt.Errorf("taskbar_height must be >= 0")}
	}
	if c.TitlebarHeight <= 0 {
		return &ValidationError{Path: "titlebar_height", Err: fmt.Errorf("titlebar_height must be > 0")}
	}
	if c.ResizeHandle <= 0 {
		return &ValidationError{Path: "resize_handle", Err: fmt.Errorf("resize_handle must be > 0")}
	}
	if c.ControlWidth < 0 {
		return &ValidationError{Path: "control_width", Err: fmt.Errorf("control_width must be >= 0")}
	}
	if c.MinWindow.Width <= 0 || c.MinWindow.Height <= 0 {
		return &ValidationError{Path: "min_window", Err: fmt.Errorf("min_window must be positive")}
	}
	if c.ZOrder.Front <= c.ZOrder.Baseline {
		return &ValidationError{Path: "z_order.front", Err: fmt.Errorf("front must be greater than baseline")}
	}
	switch c.Arrange.Mode {
	case ArrangeGrid, ArrangeVertical, ArrangeHorizontal, ArrangeCascade:
	default:
		return &ValidationError{Path: "arrange.mode", Err: fmt.Errorf("arrange.mode must be one of: grid, vertical, horizontal, cascade")}
	}
	if c.Arrange.Gap < 0 {
		return &ValidationError{Path: "arrange.gap", Err: fmt.Errorf("arrange.gap must be >= 0")}
	}
	if len(c.Apps) == 0 {
		return &ValidationError{Path: "apps", Err: fmt.Errorf("apps must not be empty")}
	}
	seen := make(map[string]struct{}, len(c.Apps))
	for i, app := range c.Apps {
		path := fmt.Sprintf("apps.%d", i)
		name := strings.TrimSpace(app.Name)
		if name == "" {
			return &ValidationError{Path: path + ".name", Err: fmt.Errorf("app name is required")}
		}
		if _, dup := seen[name]; dup {
			return &ValidationError{Path: path + ".name", Err: fmt.Errorf("duplicate app %q", name)}
		}
		seen[name] = struct{}{}
		if app.Width <= c.MinWindow.Width || app.Height <= c.MinWindow.Height {
			return &ValidationError{Path: path, Err: fmt.Errorf("app %q must be larger than min_window", name)}
		}
	}
	if c.NotificationSeconds <= 0 {
		return &ValidationError{Path: "notification_seconds", Err: fmt.Errorf("notification_seconds must be > 0")}
	}
	if strings.TrimSpace(c.Server.Listen) == "" {
		return &ValidationError{Path: "server.listen", Err: fmt.Errorf("server.listen is required")}
	}
	if c.Server.ProxyTimeoutSeconds <= 0 {
		return &ValidationError{Path: "server.proxy_timeout_seconds", Err: fmt.Errorf("proxy_timeout_seconds must be > 0")}
	}
	if c.Server.ClientTimeoutSeconds <= 0 {
		return &ValidationError{Path: "server.client_timeout_seconds", Err: fmt.Errorf("client_timeout_seconds must be > 0")}
	}
	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	return nil
}

func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = os.Getenv("HOME")
	}
	if home == "" {
		// Last resort fallback - use current directory
		home = "."
	}
	return filepath.Join(home, ".local", "share", "fakeos")
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
