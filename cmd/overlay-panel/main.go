// Package main provides the entry point for the overlay status panel: a
// translucent, undecorated X11 dock window showing the clock with volume
// and brightness sliders.
package main

import (
	"context"
	"errors"
	"expvar"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/opd-ai/go-overlay/internal/config"
	"github.com/opd-ai/go-overlay/internal/keymap"
	"github.com/opd-ai/go-overlay/internal/logging"
	"github.com/opd-ai/go-overlay/internal/panel"
	"github.com/opd-ai/go-overlay/internal/profiling"
	"github.com/opd-ai/go-overlay/internal/render"
	"github.com/opd-ai/go-overlay/internal/xconn"
)

// Version is the current version of overlay-panel.
// This default value can be overridden at build time using:
//
//	go build -ldflags "-X main.Version=x.y.z"
var Version = "0.1.0-dev"

type options struct {
	configPath  string
	version     bool
	debug       bool
	watch       bool
	display     string
	metricsAddr string
	profile     profiling.Options
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("overlay-panel", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var o options
	fs.StringVar(&o.configPath, "c", "", "Path to configuration file (Lua or YAML)")
	fs.BoolVar(&o.version, "v", false, "Print version and exit")
	fs.BoolVar(&o.debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&o.watch, "watch", false, "Reload colors and formats when the configuration file changes")
	fs.StringVar(&o.display, "display", "", "X display to connect to (default $DISPLAY)")
	fs.StringVar(&o.metricsAddr, "metrics", "", "Serve expvar metrics on this address (e.g. localhost:6060)")
	fs.StringVar(&o.profile.CPUProfilePath, "cpuprofile", "", "Write CPU profile to file")
	fs.StringVar(&o.profile.MemProfilePath, "memprofile", "", "Write memory profile to file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if o.watch && o.configPath == "" {
		return nil, errors.New("-watch requires -c")
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
		fmt.Fprintf(stdout, "overlay-panel version %s\n", Version)
		return 0
	}

	logger := logging.New(stderr, opts.debug)

	if opts.profile.Enabled() {
		profiler := profiling.New(opts.profile)
		if err := profiler.Start(); err != nil {
			fmt.Fprintf(stderr, "Failed to start profiling: %v\n", err)
			return 1
		}
		defer func() {
			if err := profiler.Stop(); err != nil {
				fmt.Fprintf(stderr, "Warning: failed to stop profiling: %v\n", err)
			}
		}()
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading configuration: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runPanel(ctx, opts, cfg, logger); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runPanel(ctx context.Context, opts *options, cfg *config.Config, logger *logging.SlogAdapter) error {
	style, err := cfg.Style()
	if err != nil {
		return err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return err
	}

	conn, err := xconn.Connect(opts.display, logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	win, err := conn.CreateOverlay(xconn.WindowOptions{
		Width:        cfg.Window.Width,
		Height:       cfg.Window.Height,
		BottomMargin: cfg.Window.BottomMargin,
	})
	if err != nil {
		return err
	}
	defer win.Destroy()

	if ok, err := conn.CompositorRunning(); err != nil {
		logger.Warn("compositor detection failed", "error", err)
	} else if !ok {
		logger.Warn("no compositing manager running, the panel will be drawn opaque")
	}

	keys, err := conn.LoadKeymap()
	if err != nil {
		logger.Warn("keyboard mapping unavailable, key names disabled", "error", err)
	}

	fonts := render.NewFonts()
	defer fonts.Close()
	layout := cfg.Layout()
	scene, err := render.NewScene(layout, settings.Theme, style, fonts, win)
	if err != nil {
		return err
	}

	hooks, err := loadHooks(opts.configPath, logger)
	if err != nil {
		return err
	}
	var keyHandler panel.KeyHandler
	if hooks != nil {
		defer hooks.Close()
		keyHandler = hooks
	}

	reloads := make(chan panel.Settings, 1)
	if opts.watch {
		w, err := startWatcher(opts.configPath, reloads, logger)
		if err != nil {
			return err
		}
		defer w.Stop()
	}

	clock := panel.SystemClock{}
	timeText, dateText := settings.Format.Format(clock.Now())
	model := panel.NewModel(layout, timeText, dateText)

	loop := panel.NewLoop(model, xconn.NewPoller(conn, keys), scene, panel.Options{
		Clock:         clock,
		Keys:          keyHandler,
		Logger:        logger,
		Format:        settings.Format,
		FrameInterval: cfg.FrameInterval(),
		ClockInterval: cfg.Clock.Interval,
		Settings:      reloads,
	})

	if opts.metricsAddr != "" {
		watch := profiling.NewMemoryWatch(profiling.WatchOptions{Logger: logger})
		watch.RegisterExpvar()
		loop.Metrics().RegisterExpvar()
		go watch.Run(ctx)

		srv, err := serveMetrics(opts.metricsAddr, logger)
		if err != nil {
			return err
		}
		defer srv.Close()
	}

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("shutting down")
	return nil
}

// loadHooks loads on_key from a Lua configuration. It returns nil when
// there is no Lua file or the file defines no hook.
func loadHooks(path string, logger logging.Logger) (*keymap.Hooks, error) {
	if path == "" || config.DetectFormat(path) != config.FormatLua {
		return nil, nil
	}
	hooks, err := keymap.LoadFile(path, keymap.DefaultLimits(), os.Stdout, logger)
	if err != nil {
		return nil, err
	}
	if !hooks.Defined() {
		hooks.Close()
		return nil, nil
	}
	logger.Info("key hook loaded", "hook", keymap.HookName, "path", path)
	return hooks, nil
}

// startWatcher reloads the configuration on change and hands the new
// settings to the loop. A pending reload the loop has not consumed yet is
// replaced by the newer one.
func startWatcher(path string, out chan panel.Settings, logger logging.Logger) (*config.Watcher, error) {
	w, err := config.NewWatcher(path, config.DefaultWatchDebounce,
		func(cfg *config.Config) {
			s, err := cfg.Settings()
			if err != nil {
				logger.Warn("reloaded configuration rejected", "error", err)
				return
			}
			offer(out, s)
		},
		func(err error) {
			logger.Warn("configuration reload failed", "error", err)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}
	w.Start()
	logger.Info("watching configuration", "path", path)
	return w, nil
}

// offer sends s on a one-slot channel, dropping a stale pending value.
func offer(ch chan panel.Settings, s panel.Settings) {
	for {
		select {
		case ch <- s:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func serveMetrics(addr string, logger logging.Logger) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/debug/vars", expvar.Handler())
	srv := &http.Server{Handler: mux}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server stopped", "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", ln.Addr().String(), "path", "/debug/vars")
	return srv, nil
}
