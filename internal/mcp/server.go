package mcp

import (
	"context"
	"log"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/fakeos/internal/actionlog"
	"github.com/1broseidon/fakeos/internal/config"
	"github.com/1broseidon/fakeos/internal/ipc"
)

const (
	ServerName    = "fakeos"
	ServerVersion = "0.1.0"
)

// Desktop is the running desktop the tools act on. *ipc.Client implements
// it.
type Desktop interface {
	GetStatus() (*ipc.StatusData, error)
	ListWindows() (*ipc.WindowsData, error)
	OpenApp(app string) (*ipc.WindowsData, error)
	Close(target string) (*ipc.WindowsData, error)
	Minimize(target string) (*ipc.WindowsData, error)
	Maximize(target string) (*ipc.WindowsData, error)
	Focus(target string) (*ipc.WindowsData, error)
	Switch() (*ipc.WindowsData, error)
	Arrange(mode string) (*ipc.WindowsData, error)
	Notify(message string) error
	Calc(keys string, clear bool) (string, error)
}

// Server is the MCP server exposing desktop window tools.
type Server struct {
	mcpServer *mcpsdk.Server
	config    *config.Config
	desktop   Desktop
	logger    *actionlog.Logger
}

// NewServer creates an MCP server that drives desktop.
func NewServer(cfg *config.Config, desktop Desktop) *Server {
	var logger *actionlog.Logger
	if logCfg := cfg.GetLoggingConfig(); logCfg.Enabled {
		var err error
		logger, err = actionlog.NewLogger(actionlog.FromConfig(logCfg))
		if err != nil {
			log.Printf("Warning: failed to initialize MCP logger: %v", err)
			logger = nil
		}
	}

	s := &Server{
		config:  cfg,
		desktop: desktop,
		logger:  logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Close releases server resources.
func (s *Server) Close() error {
	if s == nil || s.logger == nil {
		return nil
	}
	return s.logger.Close()
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "desktop_status",
		Description: "Report whether the FakeOS desktop is running, which window has focus and how many windows are open.",
	}, s.handleStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List the desktop's windows with their status (closed, minimized, visible, focused), geometry and z-order, plus the taskbar entries.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_app",
		Description: "Open an application window and bring it to the front. A minimized or closed window is shown again.",
	}, s.handleOpenApp)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Bring a window to the front and give it focus, reopening it if it is hidden.",
	}, s.handleFocus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "minimize_window",
		Description: "Minimize a window. Its taskbar entry stays.",
	}, s.handleMinimize)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "maximize_window",
		Description: "Toggle a window between maximized (filling the desktop above the taskbar) and its own geometry.",
	}, s.handleMaximize)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close a window and remove its taskbar entry.",
	}, s.handleClose)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "switch_windows",
		Description: "Move focus to the next visible window, like Alt+Tab.",
	}, s.handleSwitch)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "arrange_windows",
		Description: "Tile or cascade every visible window. Maximized windows are restored first.",
	}, s.handleArrange)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "notify",
		Description: "Show a notification toast on the desktop for a few seconds.",
	}, s.handleNotify)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "calculate",
		Description: "Press keys on the desktop calculator and return its display. Evaluation is immediate and left to right, so 2+3×4= gives 20.",
	}, s.handleCalculate)
}
