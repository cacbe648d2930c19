package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/1broseidon/fakeos/internal/ipc"
)

// parseArgs parses a control command's flags. It returns -1 when the command
// should continue, otherwise the exit code.
func parseArgs(fs *flag.FlagSet, args []string, nargs int, usage string) int {
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if nargs >= 0 && fs.NArg() != nargs {
		fmt.Fprintf(os.Stderr, "%s: expected %d argument(s), got %d\n", fs.Name(), nargs, fs.NArg())
		fs.Usage()
		return 2
	}
	return -1
}

func printJSON(v any) int {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(string(data))
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "Print status as JSON")
	if code := parseArgs(fs, args, 0, "Usage: fakeos status [--json]\n\nShow desktop status via IPC."); code >= 0 {
		return code
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(status)
	}
	fmt.Printf("desktop_running: %v\n", status.DesktopRunning)
	fmt.Printf("focused:         %s\n", status.Focused)
	fmt.Printf("open_windows:    %d\n", status.OpenWindows)
	fmt.Printf("visible_windows: %d\n", status.VisibleWindows)
	fmt.Printf("clock:           %s\n", status.Clock)
	fmt.Printf("uptime_seconds:  %d\n", status.UptimeSeconds)
	return 0
}

func printWindows(data *ipc.WindowsData, all bool) {
	fmt.Printf("%-20s %-12s %-10s %s\n", "ID", "APP", "STATUS", "BOUNDS")
	for _, w := range data.Windows {
		if !all && !w.Status.Open() {
			continue
		}
		marker := ""
		if w.Maximized {
			marker = " (maximized)"
		}
		fmt.Printf("%-20s %-12s %-10s %dx%d+%d+%d%s\n",
			w.ID, w.App, w.Status, w.Bounds.Width, w.Bounds.Height, w.Bounds.X, w.Bounds.Y, marker)
	}
	if len(data.Taskbar) > 0 {
		labels := make([]string, 0, len(data.Taskbar))
		for _, e := range data.Taskbar {
			label := e.App
			if e.Active {
				label = "*" + label
			}
			labels = append(labels, label)
		}
		fmt.Printf("\ntaskbar: %s\n", strings.Join(labels, " "))
	}
}

func runWindows(args []string) int {
	fs := flag.NewFlagSet("windows", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "Print windows as JSON")
	all := fs.Bool("all", false, "Include closed windows")
	if code := parseArgs(fs, args, 0, "Usage: fakeos windows [--all] [--json]\n\nList desktop windows."); code >= 0 {
		return code
	}

	data, err := ipc.NewClient().ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(data)
	}
	printWindows(data, *all)
	return 0
}

func runOpen(args []string) int {
	fs := flag.NewFlagSet("open", flag.ContinueOnError)
	if code := parseArgs(fs, args, 1, "Usage: fakeos open <app>\n\nOpen an application (notes, calculator, files, settings, chrome)."); code >= 0 {
		return code
	}
	data, err := ipc.NewClient().OpenApp(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printWindows(data, false)
	return 0
}

func runWindowCommand(name string, args []string) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	usage := fmt.Sprintf("Usage: fakeos %s <window>\n\n<window> is a window id (notes-window) or an app name (notes).", name)
	if code := parseArgs(fs, args, 1, usage); code >= 0 {
		return code
	}

	client := ipc.NewClient()
	var fn func(string) (*ipc.WindowsData, error)
	switch name {
	case "close":
		fn = client.Close
	case "minimize":
		fn = client.Minimize
	case "maximize":
		fn = client.Maximize
	case "focus":
		fn = client.Focus
	default:
		fmt.Fprintf(os.Stderr, "Unknown window command: %s\n", name)
		return 2
	}
	data, err := fn(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printWindows(data, false)
	return 0
}

func runSwitch(args []string) int {
	fs := flag.NewFlagSet("switch", flag.ContinueOnError)
	if code := parseArgs(fs, args, 0, "Usage: fakeos switch\n\nFocus the next open window, as Alt+Tab does."); code >= 0 {
		return code
	}
	data, err := ipc.NewClient().Switch()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("focused: %s\n", data.Focused)
	return 0
}

func runArrange(args []string) int {
	fs := flag.NewFlagSet("arrange", flag.ContinueOnError)
	if code := parseArgs(fs, args, -1, "Usage: fakeos arrange [grid|cascade]\n\nArrange open windows (default: arrange.mode)."); code >= 0 {
		return code
	}
	if fs.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "arrange takes at most one argument")
		fs.Usage()
		return 2
	}
	data, err := ipc.NewClient().Arrange(strings.ToLower(fs.Arg(0)))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printWindows(data, false)
	return 0
}

func runNotify(args []string) int {
	fs := flag.NewFlagSet("notify", flag.ContinueOnError)
	if code := parseArgs(fs, args, -1, "Usage: fakeos notify <message>\n\nShow a notification on the desktop."); code >= 0 {
		return code
	}
	message := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if message == "" {
		fmt.Fprintln(os.Stderr, "notify requires a message")
		fs.Usage()
		return 2
	}
	if err := ipc.NewClient().Notify(message); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runCalc(args []string) int {
	fs := flag.NewFlagSet("calc", flag.ContinueOnError)
	keep := fs.Bool("keep", false, "Continue from the current display instead of clearing")
	if code := parseArgs(fs, args, 1, "Usage: fakeos calc [--keep] <keys>\n\nPress calculator keys, e.g. fakeos calc '12*3='."); code >= 0 {
		return code
	}
	display, err := ipc.NewClient().Calc(fs.Arg(0), !*keep)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(display)
	return 0
}
