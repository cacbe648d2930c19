package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/fakeos/internal/wm"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandListWindows CommandType = "LIST_WINDOWS"
	CommandOpenApp     CommandType = "OPEN_APP"
	CommandClose       CommandType = "CLOSE"
	CommandMinimize    CommandType = "MINIMIZE"
	CommandMaximize    CommandType = "MAXIMIZE"
	CommandFocus       CommandType = "FOCUS"
	CommandSwitch      CommandType = "SWITCH"
	CommandArrange     CommandType = "ARRANGE"
	CommandNotify      CommandType = "NOTIFY"
	CommandCalc        CommandType = "CALC"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Focused        string `json:"focused,omitempty"`
	OpenWindows    int    `json:"open_windows"`
	VisibleWindows int    `json:"visible_windows"`
	Clock          string `json:"clock"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
	DesktopRunning bool   `json:"desktop_running"`
}

// WindowsData represents the data returned by LIST_WINDOWS and by the
// window commands.
type WindowsData struct {
	Windows []wm.WindowView   `json:"windows"`
	Taskbar []wm.TaskbarEntry `json:"taskbar"`
	Focused string            `json:"focused,omitempty"`
}

// TargetPayload addresses a window by id or app name.
type TargetPayload struct {
	Target string `json:"target"`
}

type ArrangePayload struct {
	Mode string `json:"mode,omitempty"`
}

type NotifyPayload struct {
	Message string `json:"message"`
}

// CalcPayload is a key sequence for the desktop calculator, e.g. "2+3×4=".
type CalcPayload struct {
	Keys  string `json:"keys"`
	Clear bool   `json:"clear,omitempty"`
}

type CalcData struct {
	Display string `json:"display"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
