package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/1broseidon/fakeos/internal/actionlog"
	"github.com/1broseidon/fakeos/internal/config"
	"github.com/1broseidon/fakeos/internal/daemon"
	"github.com/1broseidon/fakeos/internal/desktop"
	"github.com/1broseidon/fakeos/internal/ipc"
	"github.com/1broseidon/fakeos/internal/runtimepath"
	"github.com/1broseidon/fakeos/internal/server"
	"github.com/1broseidon/fakeos/internal/store"
	"github.com/1broseidon/fakeos/internal/tui"
	"github.com/1broseidon/fakeos/internal/wm"
	"gopkg.in/yaml.v3"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "desktop":
		os.Exit(runDesktop(os.Args[2:]))
	case "serve":
		os.Exit(runServe(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "windows":
		os.Exit(runWindows(os.Args[2:]))
	case "open":
		os.Exit(runOpen(os.Args[2:]))
	case "close", "minimize", "maximize", "focus":
		os.Exit(runWindowCommand(os.Args[1], os.Args[2:]))
	case "switch":
		os.Exit(runSwitch(os.Args[2:]))
	case "arrange":
		os.Exit(runArrange(os.Args[2:]))
	case "notify":
		os.Exit(runNotify(os.Args[2:]))
	case "calc":
		os.Exit(runCalc(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: fakeos <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  desktop             Start the terminal desktop (foreground)")
	fmt.Fprintln(w, "  serve               Run a headless desktop with the HTTP API")
	fmt.Fprintln(w, "  status              Show desktop status")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  windows             List windows")
	fmt.Fprintln(w, "  open                Open an application")
	fmt.Fprintln(w, "  close               Close a window")
	fmt.Fprintln(w, "  minimize            Minimize a window")
	fmt.Fprintln(w, "  maximize            Toggle maximize on a window")
	fmt.Fprintln(w, "  focus               Focus a window")
	fmt.Fprintln(w, "  switch              Focus the next open window")
	fmt.Fprintln(w, "  arrange             Tile or cascade open windows")
	fmt.Fprintln(w, "  notify              Show a notification")
	fmt.Fprintln(w, "  calc                Drive the calculator")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'fakeos <command> --help' for command-specific options.")
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

func slogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warning", "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newSession builds a desktop session backed by the persistent store.
// geometry overrides the window manager options derived from cfg.
func newSession(cfg *config.Config, logger *slog.Logger, geometry *wm.Options) (*desktop.Session, *actionlog.Logger, error) {
	st, err := store.OpenFile(cfg.GetStoragePath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}
	actions, err := actionlog.NewLogger(actionlog.FromConfig(cfg.GetLoggingConfig()))
	if err != nil {
		log.Printf("Warning: failed to initialize action log: %v", err)
		actions = nil
	}

	d := desktop.New(desktop.Options{
		Config:  cfg,
		Store:   st,
		Manager: geometry,
		Logger:  logger,
		Actions: actions,
	})
	return desktop.NewSession(d), actions, nil
}

func runDesktop(args []string) int {
	fs := flag.NewFlagSet("desktop", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/fakeos/config.yaml)")
	noServer := fs.Bool("no-server", false, "Do not start the search/proxy HTTP server")
	listen := fs.String("listen", "", "HTTP listen address (default: server.listen)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: fakeos desktop [--path PATH] [--listen ADDR] [--no-server]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Start the terminal desktop. The browser's search and proxy endpoints")
		fmt.Fprintln(os.Stderr, "are served in-process unless --no-server is given.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  F2, Alt+S      Start menu")
		fmt.Fprintln(os.Stderr, "  F3 / F4        Tile / cascade windows")
		fmt.Fprintln(os.Stderr, "  Alt+Tab        Switch windows")
		fmt.Fprintln(os.Stderr, "  Alt+W          Close focused window")
		fmt.Fprintln(os.Stderr, "  Alt+M / Alt+X  Minimize / maximize focused window")
		fmt.Fprintln(os.Stderr, "  Ctrl+N/Ctrl+C  Open notes / calculator")
		fmt.Fprintln(os.Stderr, "  Ctrl+Q         Quit")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "desktop takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *listen != "" {
		cfg.Server.Listen = *listen
		cfg.Server.BaseURL = "http://" + *listen
	}

	// The terminal belongs to the desktop; structured logs go to the log file.
	logOut := io.Discard
	if logPath, err := runtimepath.LogPath(); err == nil {
		if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600); err == nil {
			defer f.Close()
			logOut = f
		}
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slogLevel(cfg.LogLevel)}))

	geometry := tui.ManagerOptions(cfg)
	session, actions, err := newSession(cfg, logger, &geometry)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer actions.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if !*noServer {
		opts := server.OptionsFromConfig(cfg)
		opts.Session = session
		opts.Logger = logger
		srv := server.New(opts)
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.Server.Listen); err != nil {
				logger.Error("http server stopped", "error", err)
			}
		}()
	}

	ipcServer, err := ipc.NewServer(session)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := ipcServer.Start(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer ipcServer.Stop()

	if err := tui.Run(ctx, session); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/fakeos/config.yaml)")
	listen := fs.String("listen", "", "HTTP listen address (default: server.listen)")
	noIPC := fs.Bool("no-ipc", false, "Do not listen on the IPC socket")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: fakeos serve [--path PATH] [--listen ADDR] [--no-ipc]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run a headless desktop. Serves the search and proxy endpoints and the")
		fmt.Fprintln(os.Stderr, "desktop API (GET /api/desktop, POST /api/desktop/events).")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "serve takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *listen != "" {
		cfg.Server.Listen = *listen
		cfg.Server.BaseURL = "http://" + *listen
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel(cfg.LogLevel)}))
	session, actions, err := newSession(cfg, logger, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer actions.Close()

	if !*noIPC {
		ipcServer, err := ipc.NewServer(session)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if err := ipcServer.Start(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer ipcServer.Stop()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go daemon.NewReconciler(daemon.ReconcilerConfig{Logger: logger}, session).Run(ctx)

	opts := server.OptionsFromConfig(cfg)
	opts.Session = session
	opts.Logger = logger
	log.Printf("fakeos serving on %s", cfg.Server.Listen)
	if err := server.New(opts).ListenAndServe(ctx, cfg.Server.Listen); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	log.Println("Shutting down fakeos...")
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  fakeos config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  fakeos config print [--path PATH] [--effective|--defaults]")
		fmt.Fprintln(os.Stderr, "  fakeos config explain [--path PATH] <yaml.path>")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/fakeos/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if _, err := loadConfig(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/fakeos/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		printEffective := fs.Bool("effective", false, "Print effective config (default)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		var cfg *config.Config
		if *printDefaults {
			cfg = config.DefaultConfig()
		} else {
			_ = printEffective // default
			var err error
			if cfg, err = loadConfig(*path); err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "explain":
		fs := flag.NewFlagSet("explain", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/fakeos/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			return 2
		}
		queryPath := fs.Arg(0)

		var res *config.LoadResult
		var err error
		if *path == "" {
			res, err = config.LoadWithSources()
		} else {
			res, err = config.LoadFromPath(*path)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		fmt.Printf("path: %s\n", queryPath)
		fmt.Printf("source: %s\n", formatSource(src))
		fmt.Printf("value:\n%s", string(out))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}
