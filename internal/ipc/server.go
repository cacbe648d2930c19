package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"

	"github.com/1broseidon/fakeos/internal/config"
	"github.com/1broseidon/fakeos/internal/desktop"
	"github.com/1broseidon/fakeos/internal/runtimepath"
)

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	session      *desktop.Session
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server on the default socket path
func NewServer(session *desktop.Session) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return NewServerAt(socketPath, session), nil
}

// NewServerAt creates an IPC server listening on socketPath
func NewServerAt(socketPath string, session *desktop.Session) *Server {
	// Remove stale socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		session:    session,
	}
}

// SocketPath returns the path the server listens on
func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection serves one newline-terminated request
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandListWindows:
		return s.windowsResponse()
	case CommandOpenApp:
		return s.handleTarget(req.Payload, func(d *desktop.Desktop, target string) error {
			return d.Open(target)
		})
	case CommandClose:
		return s.handleTarget(req.Payload, func(d *desktop.Desktop, target string) error {
			return d.WM.Close(target)
		})
	case CommandMinimize:
		return s.handleTarget(req.Payload, func(d *desktop.Desktop, target string) error {
			return d.WM.Minimize(target)
		})
	case CommandMaximize:
		return s.handleTarget(req.Payload, func(d *desktop.Desktop, target string) error {
			return d.WM.ToggleMaximize(target)
		})
	case CommandFocus:
		return s.handleTarget(req.Payload, func(d *desktop.Desktop, target string) error {
			return d.WM.Focus(target)
		})
	case CommandSwitch:
		_ = s.session.Do(func(d *desktop.Desktop) error {
			d.WM.SwitchWindows()
			return nil
		})
		return s.windowsResponse()
	case CommandArrange:
		return s.handleArrange(req.Payload)
	case CommandNotify:
		return s.handleNotify(req.Payload)
	case CommandCalc:
		return s.handleCalc(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// handleGetStatus returns a short summary of the desktop
func (s *Server) handleGetStatus() *Response {
	var status StatusData
	_ = s.session.Do(func(d *desktop.Desktop) error {
		for _, w := range d.WM.Registry().Bound() {
			status.OpenWindows++
			if w.Visible() {
				status.VisibleWindows++
			}
		}
		status.Focused = d.WM.Focused()
		status.Clock = d.Clock()
		status.UptimeSeconds = int64(d.Uptime().Seconds())
		status.DesktopRunning = !d.ShuttingDown()
		return nil
	})

	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) windowsResponse() *Response {
	var data WindowsData
	_ = s.session.Do(func(d *desktop.Desktop) error {
		snap := d.WM.Snapshot()
		data = WindowsData{Windows: snap.Windows, Taskbar: snap.Taskbar, Focused: snap.Focused}
		return nil
	})
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleTarget(payload json.RawMessage, fn func(d *desktop.Desktop, target string) error) *Response {
	var req TargetPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid target payload: %v", err))
	}
	if req.Target == "" {
		return NewErrorResponse("target is required")
	}

	err := s.session.Do(func(d *desktop.Desktop) error {
		return fn(d, req.Target)
	})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return s.windowsResponse()
}

func (s *Server) handleArrange(payload json.RawMessage) *Response {
	var req ArrangePayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid arrange payload: %v", err))
		}
	}

	err := s.session.Do(func(d *desktop.Desktop) error {
		mode := config.ArrangeMode(req.Mode)
		if mode == "" {
			mode = d.Config().Arrange.Mode
		}
		return d.WM.Arrange(mode)
	})
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to arrange windows: %v", err))
	}
	return s.windowsResponse()
}

func (s *Server) handleNotify(payload json.RawMessage) *Response {
	var req NotifyPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid notify payload: %v", err))
	}
	if req.Message == "" {
		return NewErrorResponse("message is required")
	}

	_ = s.session.Do(func(d *desktop.Desktop) error {
		d.Notify(req.Message)
		return nil
	})
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleCalc(payload json.RawMessage) *Response {
	var req CalcPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid calc payload: %v", err))
	}

	var data CalcData
	_ = s.session.Do(func(d *desktop.Desktop) error {
		if req.Clear {
			d.Calculator.Clear()
		}
		data.Display = d.Calculator.Eval(req.Keys)
		return nil
	})
	resp, _ := NewOKResponse(data)
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
