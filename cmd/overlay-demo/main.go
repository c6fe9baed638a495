// Package main runs the translucent demo window: a floating, undecorated
// ebiten window that shows the clock on a rounded translucent panel.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jezek/xgb/xproto"

	"github.com/opd-ai/go-overlay/internal/config"
	"github.com/opd-ai/go-overlay/internal/demo"
	"github.com/opd-ai/go-overlay/internal/logging"
	"github.com/opd-ai/go-overlay/internal/xconn"
)

// Version is the current version of overlay-demo.
var Version = "0.1.0-dev"

type options struct {
	configPath    string
	version       bool
	debug         bool
	display       string
	width, height int
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("overlay-demo", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var o options
	fs.StringVar(&o.configPath, "c", "", "Path to configuration file (Lua or YAML)")
	fs.BoolVar(&o.version, "v", false, "Print version and exit")
	fs.BoolVar(&o.debug, "debug", false, "Enable debug logging")
	fs.StringVar(&o.display, "display", "", "X display used for window hints (default $DISPLAY)")
	fs.IntVar(&o.width, "width", demo.DefaultWidth, "Window width")
	fs.IntVar(&o.height, "height", demo.DefaultHeight, "Window height")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.width <= 0 || o.height <= 0 {
		return nil, fmt.Errorf("invalid window size %dx%d", o.width, o.height)
	}
	return &o, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if opts.version {
		fmt.Fprintf(stdout, "overlay-demo version %s\n", Version)
		return 0
	}

	logger := logging.New(stderr, opts.debug)

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading configuration: %v\n", err)
		return 1
	}
	game, err := newGame(opts, cfg, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	game.SetContext(ctx)

	if err := game.Run(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newGame(opts *options, cfg *config.Config, logger *logging.SlogAdapter) (*demo.Game, error) {
	style, err := cfg.Style()
	if err != nil {
		return nil, err
	}
	format, err := cfg.ClockFormat()
	if err != nil {
		return nil, err
	}
	return demo.NewGame(demo.Options{
		Width:         opts.width,
		Height:        opts.height,
		Text:          cfg.Colors.Text,
		Style:         style,
		Format:        format,
		ClockInterval: cfg.Clock.Interval,
		Logger:        logger,
		Title:         demo.DefaultTitle,
		OnStart:       func() { applyHints(opts.display, demo.DefaultTitle, logger) },
	})
}

// Window lookup retries while the window manager lists the new window.
const (
	findAttempts = 20
	findInterval = 100 * time.Millisecond
)

// applyHints keeps the demo window out of the taskbar and pager. The
// window is located by this process id, or by its title when the window
// carries no _NET_WM_PID, and the states are requested from the window
// manager.
func applyHints(display, title string, logger *logging.SlogAdapter) {
	conn, err := xconn.Connect(display, logger)
	if err != nil {
		logger.Warn("window hints skipped", "error", err)
		return
	}
	defer conn.Close()

	var win xproto.Window
	for i := 0; i < findAttempts; i++ {
		if win, err = conn.FindClient(os.Getpid(), title); err == nil {
			break
		}
		time.Sleep(findInterval)
	}
	if err != nil {
		logger.Warn("window hints skipped", "title", title, "error", err)
		return
	}
	if err := conn.RequestWindowState(win, xconn.StateAdd, "_NET_WM_STATE_SKIP_TASKBAR", "_NET_WM_STATE_SKIP_PAGER"); err != nil {
		logger.Warn("window hints failed", "window", uint32(win), "error", err)
		return
	}
	logger.Debug("window hints applied", "window", uint32(win))
}
