package panel

import (
	"expvar"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-overlay/internal/input"
)

// Metrics counts loop activity. Counters are atomics so the expvar
// endpoint can read them from the HTTP goroutine while the loop runs.
type Metrics struct {
	ticks          atomic.Int64
	redraws        atomic.Int64
	clockRefreshes atomic.Int64
	overruns       atomic.Int64
	pollErrors     atomic.Int64
	renderErrors   atomic.Int64
	reloads        atomic.Int64

	events [input.KindKeyPress + 1]atomic.Int64

	renderLatencyNs    atomic.Int64
	renderLatencyCount atomic.Int64

	registered atomic.Bool
}

// NewMetrics creates an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RegisterExpvar publishes the counters under /debug/vars. Calling it
// more than once is a no-op.
func (m *Metrics) RegisterExpvar() {
	if m.registered.Swap(true) {
		return
	}
	expvar.Publish("panel_ticks_total", expvar.Func(func() any { return m.ticks.Load() }))
	expvar.Publish("panel_redraws_total", expvar.Func(func() any { return m.redraws.Load() }))
	expvar.Publish("panel_clock_refreshes_total", expvar.Func(func() any { return m.clockRefreshes.Load() }))
	expvar.Publish("panel_frame_overruns_total", expvar.Func(func() any { return m.overruns.Load() }))
	expvar.Publish("panel_poll_errors_total", expvar.Func(func() any { return m.pollErrors.Load() }))
	expvar.Publish("panel_render_errors_total", expvar.Func(func() any { return m.renderErrors.Load() }))
	expvar.Publish("panel_config_reloads_total", expvar.Func(func() any { return m.reloads.Load() }))
	expvar.Publish("panel_events_total", expvar.Func(func() any {
		out := make(map[string]int64, len(m.events))
		for k := range m.events {
			out[input.Kind(k).String()] = m.events[k].Load()
		}
		return out
	}))
	expvar.Publish("panel_render_latency_avg_ms", expvar.Func(func() any {
		return m.Snapshot().RenderLatencyAvg.Seconds() * 1000
	}))
}

func (m *Metrics) recordEvent(k input.Kind) {
	if int(k) >= 0 && int(k) < len(m.events) {
		m.events[k].Add(1)
	}
}

func (m *Metrics) recordRender(d time.Duration, err error) {
	m.redraws.Add(1)
	m.renderLatencyNs.Add(int64(d))
	m.renderLatencyCount.Add(1)
	if err != nil {
		m.renderErrors.Add(1)
	}
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Ticks            int64
	Redraws          int64
	ClockRefreshes   int64
	Overruns         int64
	PollErrors       int64
	RenderErrors     int64
	Reloads          int64
	Events           map[input.Kind]int64
	RenderLatencyAvg time.Duration
}

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Ticks:          m.ticks.Load(),
		Redraws:        m.redraws.Load(),
		ClockRefreshes: m.clockRefreshes.Load(),
		Overruns:       m.overruns.Load(),
		PollErrors:     m.pollErrors.Load(),
		RenderErrors:   m.renderErrors.Load(),
		Reloads:        m.reloads.Load(),
		Events:         make(map[input.Kind]int64, len(m.events)),
	}
	for k := range m.events {
		s.Events[input.Kind(k)] = m.events[k].Load()
	}
	if n := m.renderLatencyCount.Load(); n > 0 {
		s.RenderLatencyAvg = time.Duration(m.renderLatencyNs.Load() / n)
	}
	return s
}
