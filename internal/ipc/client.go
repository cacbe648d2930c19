package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/fakeos/internal/runtimepath"
)

// Client handles IPC communication with a running desktop
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client for the default socket path
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates an IPC client for socketPath
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to desktop: %w (is `fakeos desktop` running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("desktop error: %s", resp.Error)
	}

	return &resp, nil
}

func (c *Client) send(cmd CommandType, payload any) (*Response, error) {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = data
	}
	return c.sendRequest(req)
}

func decodeData[T any](resp *Response, what string) (*T, error) {
	var out T
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse %s data: %w", what, err)
	}
	return &out, nil
}

// GetStatus retrieves desktop status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.send(CommandGetStatus, nil)
	if err != nil {
		return nil, err
	}
	return decodeData[StatusData](resp, "status")
}

// ListWindows retrieves every provisioned window and the taskbar
func (c *Client) ListWindows() (*WindowsData, error) {
	resp, err := c.send(CommandListWindows, nil)
	if err != nil {
		return nil, err
	}
	return decodeData[WindowsData](resp, "windows")
}

func (c *Client) windowCommand(cmd CommandType, target string) (*WindowsData, error) {
	resp, err := c.send(cmd, TargetPayload{Target: target})
	if err != nil {
		return nil, err
	}
	return decodeData[WindowsData](resp, "windows")
}

// OpenApp opens an app's window and raises it
func (c *Client) OpenApp(app string) (*WindowsData, error) {
	return c.windowCommand(CommandOpenApp, app)
}

// Close closes a window by id or app name
func (c *Client) Close(target string) (*WindowsData, error) {
	return c.windowCommand(CommandClose, target)
}

// Minimize minimizes a window by id or app name
func (c *Client) Minimize(target string) (*WindowsData, error) {
	return c.windowCommand(CommandMinimize, target)
}

// Maximize toggles the maximized state of a window
func (c *Client) Maximize(target string) (*WindowsData, error) {
	return c.windowCommand(CommandMaximize, target)
}

// Focus raises a window, reopening it if it is hidden
func (c *Client) Focus(target string) (*WindowsData, error) {
	return c.windowCommand(CommandFocus, target)
}

// Switch moves focus to the next visible window
func (c *Client) Switch() (*WindowsData, error) {
	resp, err := c.send(CommandSwitch, nil)
	if err != nil {
		return nil, err
	}
	return decodeData[WindowsData](resp, "windows")
}

// Arrange lays out the visible windows; an empty mode uses the configured one
func (c *Client) Arrange(mode string) (*WindowsData, error) {
	resp, err := c.send(CommandArrange, ArrangePayload{Mode: mode})
	if err != nil {
		return nil, err
	}
	return decodeData[WindowsData](resp, "windows")
}

// Notify posts a notification on the desktop
func (c *Client) Notify(message string) error {
	_, err := c.send(CommandNotify, NotifyPayload{Message: message})
	return err
}

// Calc feeds keys to the desktop calculator and returns its display
func (c *Client) Calc(keys string, clear bool) (string, error) {
	resp, err := c.send(CommandCalc, CalcPayload{Keys: keys, Clear: clear})
	if err != nil {
		return "", err
	}
	data, err := decodeData[CalcData](resp, "calc")
	if err != nil {
		return "", err
	}
	return data.Display, nil
}

// Ping checks if the desktop is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
