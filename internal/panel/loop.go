package panel

import (
	"context"
	"time"

	"github.com/opd-ai/go-overlay/internal/input"
	"github.com/opd-ai/go-overlay/internal/logging"
)

const (
	// DefaultFrameInterval paces the loop at 60 ticks per second.
	DefaultFrameInterval = time.Second / 60
	// DefaultClockInterval is the cadence of the clock refresh.
	DefaultClockInterval = time.Second

	// maxPollErrors bounds how many protocol errors one tick drains before
	// moving on to the frame sleep.
	maxPollErrors = 64
)

// Renderer redraws the full scene from a state snapshot and presents it.
// Two calls with the same state must produce the same frame.
type Renderer interface {
	Render(State) error
}

// ThemeSetter is implemented by renderers whose colors can change at
// runtime.
type ThemeSetter interface {
	SetTheme(Theme)
}

// KeyHandler observes key presses. It must not block.
type KeyHandler interface {
	HandleKey(input.KeyPress)
}

// KeyHandlerFunc adapts a function to KeyHandler.
type KeyHandlerFunc func(input.KeyPress)

// HandleKey calls f(k).
func (f KeyHandlerFunc) HandleKey(k input.KeyPress) { f(k) }

// Settings are the parts of the configuration that can change while the
// loop runs.
type Settings struct {
	Format ClockFormat
	Theme  Theme
}

// Options configures a Loop. Zero values select the defaults.
type Options struct {
	Clock         Clock
	Keys          KeyHandler
	Logger        logging.Logger
	Metrics       *Metrics
	Format        ClockFormat
	FrameInterval time.Duration
	ClockInterval time.Duration
	// Settings delivers hot-reloaded settings. The loop reads it without
	// blocking once per tick.
	Settings <-chan Settings
}

// Loop is the frame-paced reconciliation loop. It is single-threaded:
// Tick and Run must be called from one goroutine, which then exclusively
// owns the model, the poller and the renderer.
type Loop struct {
	model    *Model
	poller   input.Poller
	renderer Renderer

	clock    Clock
	keys     KeyHandler
	logger   logging.Logger
	metrics  *Metrics
	format   ClockFormat
	frame    time.Duration
	refresh  time.Duration
	settings <-chan Settings

	lastClock time.Time
}

// TickResult describes what one Tick did.
type TickResult struct {
	ClockRefreshed bool
	Reloaded       bool
	Events         int
	Redraws        int
	// Slept is the frame-budget sleep, zero when the tick overran.
	Slept time.Duration
}

// NewLoop creates a loop over model, reading events from poller and
// drawing through renderer.
func NewLoop(model *Model, poller input.Poller, renderer Renderer, opts Options) *Loop {
	l := &Loop{
		model:    model,
		poller:   poller,
		renderer: renderer,
		clock:    opts.Clock,
		keys:     opts.Keys,
		logger:   logging.OrNop(opts.Logger),
		metrics:  opts.Metrics,
		format:   opts.Format,
		frame:    opts.FrameInterval,
		refresh:  opts.ClockInterval,
		settings: opts.Settings,
	}
	if l.clock == nil {
		l.clock = SystemClock{}
	}
	if l.metrics == nil {
		l.metrics = NewMetrics()
	}
	if l.format == (ClockFormat{}) {
		l.format = DefaultClockFormat()
	}
	if l.frame <= 0 {
		l.frame = DefaultFrameInterval
	}
	if l.refresh <= 0 {
		l.refresh = DefaultClockInterval
	}
	l.lastClock = l.clock.Now()
	return l
}

// Metrics returns the loop's counters.
func (l *Loop) Metrics() *Metrics {
	return l.metrics
}

// Run ticks until ctx is done. Cancellation is observed between ticks;
// a frame sleep in progress always runs to completion.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("panel loop started", "frame_interval", l.frame, "clock_interval", l.refresh)
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("panel loop stopped", "reason", context.Cause(ctx))
			return ctx.Err()
		default:
		}
		l.Tick()
	}
}

// Tick runs one loop iteration: refresh the clock when due, apply
// reloaded settings, drain every queued event, then sleep for whatever is
// left of the frame budget.
func (l *Loop) Tick() TickResult {
	var res TickResult
	l.metrics.ticks.Add(1)

	if now := l.clock.Now(); now.Sub(l.lastClock) > l.refresh {
		l.lastClock = now
		l.model.SetClock(l.format.Format(now))
		l.metrics.clockRefreshes.Add(1)
		res.ClockRefreshed = true
		l.redraw(&res)
	}

	select {
	case s := <-l.settings:
		l.apply(s)
		res.Reloaded = true
		l.redraw(&res)
	default:
	}

	start := l.clock.Now()
	l.drain(&res)

	remaining := l.frame - l.clock.Now().Sub(start)
	if remaining > 0 {
		l.clock.Sleep(remaining)
		res.Slept = remaining
	} else {
		l.metrics.overruns.Add(1)
	}
	return res
}

func (l *Loop) drain(res *TickResult) {
	errs := 0
	for {
		ev, ok, err := l.poller.Poll()
		if err != nil {
			l.metrics.pollErrors.Add(1)
			l.logger.Warn("x11 protocol error", "error", err)
			if errs++; errs >= maxPollErrors {
				return
			}
			continue
		}
		if !ok {
			return
		}

		res.Events++
		l.metrics.recordEvent(ev.Kind())

		if k, isKey := ev.(input.KeyPress); isKey {
			l.logger.Debug("key pressed", "keysym", k.Name, "keycode", k.Keycode)
			if l.keys != nil {
				l.keys.HandleKey(k)
			}
		}
		if l.model.Apply(ev) {
			l.redraw(res)
		}
	}
}

func (l *Loop) apply(s Settings) {
	l.format = s.Format
	l.model.SetClock(l.format.Format(l.clock.Now()))
	if ts, ok := l.renderer.(ThemeSetter); ok {
		ts.SetTheme(s.Theme)
	}
	l.metrics.reloads.Add(1)
	l.logger.Info("settings reloaded", "time_format", s.Format.Time, "date_format", s.Format.Date)
}

func (l *Loop) redraw(res *TickResult) {
	start := l.clock.Now()
	err := l.renderer.Render(l.model.State())
	l.metrics.recordRender(l.clock.Now().Sub(start), err)
	res.Redraws++
	if err != nil {
		l.logger.Warn("render failed", "error", err)
	}
}
