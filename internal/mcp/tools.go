package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/fakeos/internal/actionlog"
	"github.com/1broseidon/fakeos/internal/ipc"
)

func textResult(format string, args ...any) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: fmt.Sprintf(format, args...)},
		},
	}
}

func windowsOutput(data *ipc.WindowsData, openOnly bool) ListWindowsOutput {
	out := ListWindowsOutput{
		Windows: make([]WindowInfo, 0, len(data.Windows)),
		Taskbar: make([]string, 0, len(data.Taskbar)),
		Focused: data.Focused,
	}
	for _, w := range data.Windows {
		if openOnly && !w.Status.Open() {
			continue
		}
		out.Windows = append(out.Windows, windowInfo(w, data.Focused))
	}
	for _, e := range data.Taskbar {
		out.Taskbar = append(out.Taskbar, e.App)
	}
	return out
}

func (s *Server) handleStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ StatusInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	status, err := s.desktop.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, err
	}
	out := StatusOutput{
		Running:        status.DesktopRunning,
		Focused:        status.Focused,
		OpenWindows:    status.OpenWindows,
		VisibleWindows: status.VisibleWindows,
		Clock:          status.Clock,
		UptimeSeconds:  status.UptimeSeconds,
	}
	return nil, out, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.desktop.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	return nil, windowsOutput(data, args.OpenOnly), nil
}

// windowAction runs one window command and logs it.
func (s *Server) windowAction(action actionlog.ActionType, target string, fn func(string) (*ipc.WindowsData, error)) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, ListWindowsOutput{}, fmt.Errorf("target is required")
	}
	data, err := fn(target)
	if err != nil {
		s.logger.Log(action, target, map[string]any{"source": "mcp", "error": err.Error()})
		return nil, ListWindowsOutput{}, err
	}
	s.logger.Log(action, target, map[string]any{"source": "mcp"})
	return nil, windowsOutput(data, true), nil
}

func (s *Server) handleOpenApp(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenAppInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	return s.windowAction(actionlog.ActionOpen, args.App, s.desktop.OpenApp)
}

func (s *Server) handleFocus(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowTargetInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	return s.windowAction(actionlog.ActionFocus, args.Target, s.desktop.Focus)
}

func (s *Server) handleMinimize(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowTargetInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	return s.windowAction(actionlog.ActionMinimize, args.Target, s.desktop.Minimize)
}

func (s *Server) handleMaximize(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowTargetInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	return s.windowAction(actionlog.ActionMaximize, args.Target, s.desktop.Maximize)
}

func (s *Server) handleClose(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowTargetInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	return s.windowAction(actionlog.ActionClose, args.Target, s.desktop.Close)
}

func (s *Server) handleSwitch(_ context.Context, _ *mcpsdk.CallToolRequest, _ StatusInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.desktop.Switch()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	s.logger.Log(actionlog.ActionSwitch, data.Focused, map[string]any{"source": "mcp"})
	return nil, windowsOutput(data, true), nil
}

func (s *Server) handleArrange(_ context.Context, _ *mcpsdk.CallToolRequest, args ArrangeInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	mode := strings.ToLower(strings.TrimSpace(args.Mode))
	data, err := s.desktop.Arrange(mode)
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	s.logger.Log(actionlog.ActionArrange, "", map[string]any{"source": "mcp", "mode": mode})
	return nil, windowsOutput(data, true), nil
}

func (s *Server) handleNotify(_ context.Context, _ *mcpsdk.CallToolRequest, args NotifyInput) (*mcpsdk.CallToolResult, any, error) {
	if strings.TrimSpace(args.Message) == "" {
		return nil, nil, fmt.Errorf("message is required")
	}
	if err := s.desktop.Notify(args.Message); err != nil {
		return nil, nil, err
	}
	s.logger.Log(actionlog.ActionNotify, "", map[string]any{"source": "mcp", "message": args.Message})
	return textResult("Notification shown: %s", args.Message), nil, nil
}

func (s *Server) handleCalculate(_ context.Context, _ *mcpsdk.CallToolRequest, args CalculateInput) (*mcpsdk.CallToolResult, CalculateOutput, error) {
	clear := true
	if args.Clear != nil {
		clear = *args.Clear
	}
	display, err := s.desktop.Calc(args.Keys, clear)
	if err != nil {
		return nil, CalculateOutput{}, err
	}
	return nil, CalculateOutput{Display: display}, nil
}
