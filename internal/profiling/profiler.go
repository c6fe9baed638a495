// Package profiling writes pprof profiles for the overlay binaries and
// watches heap and goroutine growth while the panel runs.
package profiling

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"sync"
)

// Options selects the profiles to write. Empty paths disable a profile.
type Options struct {
	CPUProfilePath string
	MemProfilePath string
}

// Enabled reports whether any profile is configured.
func (o Options) Enabled() bool {
	return o.CPUProfilePath != "" || o.MemProfilePath != ""
}

// Profiler records a CPU profile between Start and Stop, and writes a
// heap profile on Stop.
type Profiler struct {
	opts    Options
	cpuFile *os.File
	running bool
	mu      sync.Mutex
}

// New creates a stopped Profiler.
func New(opts Options) *Profiler {
	return &Profiler{opts: opts}
}

// Start begins CPU profiling when a CPU profile path is set.
func (p *Profiler) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return errors.New("profiler is already running")
	}
	if p.opts.CPUProfilePath != "" {
		f, err := os.Create(p.opts.CPUProfilePath)
		if err != nil {
			return fmt.Errorf("failed to create CPU profile file: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return fmt.Errorf("failed to start CPU profile: %w", err)
		}
		p.cpuFile = f
	}
	p.running = true
	return nil
}

// Stop ends CPU profiling and writes the heap profile.
func (p *Profiler) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return errors.New("profiler is not running")
	}
	p.running = false

	var errs []error
	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		if err := p.cpuFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close CPU profile file: %w", err))
		}
		p.cpuFile = nil
	}
	if p.opts.MemProfilePath != "" {
		if err := WriteHeapProfile(p.opts.MemProfilePath); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Running reports whether Start has been called without Stop.
func (p *Profiler) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// WriteHeapProfile runs a collection and writes the heap profile to path.
func WriteHeapProfile(path string) error {
	runtime.GC()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create memory profile file: %w", err)
	}
	if err := pprof.WriteHeapProfile(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write memory profile: %w", err)
	}
	return f.Close()
}
