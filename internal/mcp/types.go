package mcp

import "github.com/1broseidon/fakeos/internal/wm"

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	OpenOnly bool `json:"open_only,omitempty" jsonschema:"When true, only list windows that are open (visible or minimized)"`
}

// WindowInfo describes one desktop window.
type WindowInfo struct {
	ID        string `json:"id"`
	App       string `json:"app"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	Maximized bool   `json:"maximized"`
	Focused   bool   `json:"focused"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Z         int    `json:"z"`
}

// ListWindowsOutput is the output for the list_windows tool and every tool
// that changes windows.
type ListWindowsOutput struct {
	Windows []WindowInfo `json:"windows"`
	Taskbar []string     `json:"taskbar"`
	Focused string       `json:"focused,omitempty"`
}

// WindowTargetInput addresses a window by id or app name.
type WindowTargetInput struct {
	Target string `json:"target" jsonschema:"Window id (e.g. notes-window) or app name (e.g. notes)"`
}

// OpenAppInput is the input for the open_app tool.
type OpenAppInput struct {
	App string `json:"app" jsonschema:"App name: notes, calculator, files, settings or chrome"`
}

// ArrangeInput is the input for the arrange_windows tool.
type ArrangeInput struct {
	Mode string `json:"mode,omitempty" jsonschema:"Arrangement: grid, vertical, horizontal or cascade (default: configured mode)"`
}

// NotifyInput is the input for the notify tool.
type NotifyInput struct {
	Message string `json:"message" jsonschema:"Text of the desktop notification"`
}

// CalculateInput is the input for the calculate tool.
type CalculateInput struct {
	Keys  string `json:"keys" jsonschema:"Calculator keys to press, e.g. 2+3×4= (* and / are accepted for × and ÷)"`
	Clear *bool  `json:"clear,omitempty" jsonschema:"Clear the calculator before pressing keys (default: true)"`
}

// CalculateOutput is the output for the calculate tool.
type CalculateOutput struct {
	Display string `json:"display"`
}

// StatusInput is the input for the desktop_status tool.
type StatusInput struct{}

// StatusOutput is the output for the desktop_status tool.
type StatusOutput struct {
	Running        bool   `json:"running"`
	Focused        string `json:"focused,omitempty"`
	OpenWindows    int    `json:"open_windows"`
	VisibleWindows int    `json:"visible_windows"`
	Clock          string `json:"clock"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
}

func windowInfo(v wm.WindowView, focused string) WindowInfo {
	return WindowInfo{
		ID:        v.ID,
		App:       v.App,
		Title:     v.Title,
		Status:    v.Status.String(),
		Maximized: v.Maximized,
		Focused:   v.ID == focused,
		X:         v.Bounds.X,
		Y:         v.Bounds.Y,
		Width:     v.Bounds.Width,
		Height:    v.Bounds.Height,
		Z:         v.Z,
	}
}
