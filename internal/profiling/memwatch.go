package profiling

import (
	"context"
	"expvar"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-overlay/internal/logging"
)

// Sample is one reading of the runtime memory state.
type Sample struct {
	Time        time.Time
	HeapAlloc   uint64
	HeapObjects uint64
	Goroutines  int
	NumGC       uint32
}

// ReadSample reads the current runtime state.
func ReadSample() Sample {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return Sample{
		Time:        time.Now(),
		HeapAlloc:   ms.HeapAlloc,
		HeapObjects: ms.HeapObjects,
		Goroutines:  runtime.NumGoroutine(),
		NumGC:       ms.NumGC,
	}
}

// Growth compares the oldest and newest retained samples.
type Growth struct {
	Duration       time.Duration
	HeapDelta      int64
	GoroutineDelta int
	BytesPerSec    float64
	Leak           bool
	Reason         string
}

// WatchOptions configures a MemoryWatch. Zero values select the defaults.
type WatchOptions struct {
	Interval time.Duration
	// Window is the number of samples kept for growth analysis.
	Window int
	// HeapThreshold is the sustained heap growth, in bytes per second,
	// reported as a leak.
	HeapThreshold float64
	// GoroutineThreshold is the net goroutine increase reported as a leak.
	GoroutineThreshold int
	Logger             logging.Logger
	// Read replaces ReadSample.
	Read func() Sample
}

// DefaultWatchOptions suits a process that should hold a flat heap.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		Interval:           10 * time.Second,
		Window:             30,
		HeapThreshold:      64 * 1024,
		GoroutineThreshold: 10,
	}
}

// MemoryWatch samples the runtime periodically and warns when the heap
// or goroutine count keeps growing.
type MemoryWatch struct {
	opts   WatchOptions
	logger logging.Logger

	mu      sync.Mutex
	samples []Sample
	warned  bool

	heapAlloc  atomic.Uint64
	goroutines atomic.Int64
	registered atomic.Bool
}

// NewMemoryWatch creates a MemoryWatch.
func NewMemoryWatch(opts WatchOptions) *MemoryWatch {
	def := DefaultWatchOptions()
	if opts.Interval <= 0 {
		opts.Interval = def.Interval
	}
	if opts.Window < 2 {
		opts.Window = def.Window
	}
	if opts.HeapThreshold <= 0 {
		opts.HeapThreshold = def.HeapThreshold
	}
	if opts.GoroutineThreshold <= 0 {
		opts.GoroutineThreshold = def.GoroutineThreshold
	}
	if opts.Read == nil {
		opts.Read = ReadSample
	}
	return &MemoryWatch{
		opts:    opts,
		logger:  logging.OrNop(opts.Logger),
		samples: make([]Sample, 0, opts.Window),
	}
}

// RegisterExpvar publishes the latest sample under /debug/vars. Calling
// it more than once is a no-op.
func (w *MemoryWatch) RegisterExpvar() {
	if w.registered.Swap(true) {
		return
	}
	expvar.Publish("process_heap_alloc_bytes", expvar.Func(func() any { return w.heapAlloc.Load() }))
	expvar.Publish("process_goroutines", expvar.Func(func() any { return w.goroutines.Load() }))
}

// Run samples until ctx is done.
func (w *MemoryWatch) Run(ctx context.Context) {
	ticker := time.NewTicker(w.opts.Interval)
	defer ticker.Stop()

	w.Observe()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Observe()
		}
	}
}

// Observe takes one sample and logs a warning the first time growth
// crosses a threshold. Once growth falls back under the thresholds the
// warning is re-armed.
func (w *MemoryWatch) Observe() Sample {
	s := w.opts.Read()
	w.heapAlloc.Store(s.HeapAlloc)
	w.goroutines.Store(int64(s.Goroutines))

	w.mu.Lock()
	w.samples = append(w.samples, s)
	if len(w.samples) > w.opts.Window {
		w.samples = w.samples[1:]
	}
	g, ok := w.growth()
	warn := ok && g.Leak && !w.warned
	if ok {
		w.warned = g.Leak
	}
	w.mu.Unlock()

	if warn {
		w.logger.Warn("possible memory leak", "reason", g.Reason,
			"heap_delta", g.HeapDelta, "goroutine_delta", g.GoroutineDelta, "over", g.Duration)
	}
	return s
}

// Growth analyzes the retained samples. It reports false with fewer than
// two samples.
func (w *MemoryWatch) Growth() (Growth, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.growth()
}

func (w *MemoryWatch) growth() (Growth, bool) {
	if len(w.samples) < 2 {
		return Growth{}, false
	}
	first, last := w.samples[0], w.samples[len(w.samples)-1]
	d := last.Time.Sub(first.Time)
	if d <= 0 {
		return Growth{}, false
	}

	g := Growth{
		Duration:       d,
		HeapDelta:      int64(last.HeapAlloc) - int64(first.HeapAlloc),
		GoroutineDelta: last.Goroutines - first.Goroutines,
	}
	g.BytesPerSec = float64(g.HeapDelta) / d.Seconds()

	switch {
	case g.BytesPerSec > w.opts.HeapThreshold:
		g.Leak = true
		g.Reason = fmt.Sprintf("heap grew %.1f KB/s, threshold %.1f KB/s", g.BytesPerSec/1024, w.opts.HeapThreshold/1024)
	case g.GoroutineDelta > w.opts.GoroutineThreshold:
		g.Leak = true
		g.Reason = fmt.Sprintf("goroutines grew by %d, threshold %d", g.GoroutineDelta, w.opts.GoroutineThreshold)
	}
	return g, true
}
