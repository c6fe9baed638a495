// Package keymap runs user Lua key hooks. A configuration script may
// define a global on_key(name, keycode) function; it is called for every
// key press with the keysym name and the hardware keycode. Hooks observe
// key presses only and cannot change the panel state.
package keymap

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/arnodel/golua/lib"
	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/go-overlay/internal/config"
	"github.com/opd-ai/go-overlay/internal/input"
	"github.com/opd-ai/go-overlay/internal/logging"
)

// HookName is the global Lua function invoked on key presses.
const HookName = "on_key"

// Limits bounds the Lua resources used by loading and by each hook call.
type Limits struct {
	// CPU is the instruction budget; 0 means unlimited.
	CPU uint64
	// Memory is the allocation budget in bytes; 0 means unlimited.
	Memory uint64
}

// Consecutive hook failures that suspend the hook, and for how long.
const (
	suspendAfter    = 5
	suspendCooldown = 30 * time.Second
)

// DefaultLimits keeps each hook call well under one frame.
func DefaultLimits() Limits {
	return Limits{CPU: 1_000_000, Memory: 8 * 1024 * 1024}
}

// Hooks holds a Lua runtime with the configuration script loaded.
// It implements panel.KeyHandler.
type Hooks struct {
	runtime *rt.Runtime
	cleanup func()
	limits  Limits
	logger  logging.Logger
	breaker *Breaker
	mu      sync.Mutex

	hook rt.Value
}

// LoadFile loads the script at path.
func LoadFile(path string, limits Limits, stdout io.Writer, logger logging.Logger) (*Hooks, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key hooks %s: %w", path, err)
	}
	return Load(path, content, limits, stdout, logger)
}

// Load runs content so it can define on_key. The panel global is
// installed first, so a full configuration file loads unchanged. Output
// from Lua print goes to stdout, or is discarded when stdout is nil.
func Load(name string, content []byte, limits Limits, stdout io.Writer, logger logging.Logger) (h *Hooks, err error) {
	if stdout == nil {
		stdout = io.Discard
	}
	r := rt.New(stdout)
	h = &Hooks{
		runtime: r,
		cleanup: lib.LoadAll(r),
		limits:  limits,
		logger:  logging.OrNop(logger),
		breaker: NewBreaker(suspendAfter, suspendCooldown, nil),
	}
	config.InitPanelGlobal(r)

	closure, err := r.CompileAndLoadLuaChunk(name, content, rt.TableValue(r.GlobalEnv()))
	if err != nil {
		h.Close()
		return nil, fmt.Errorf("failed to compile key hooks: %w", err)
	}
	if _, err := h.call(rt.FunctionValue(closure)); err != nil {
		h.Close()
		return nil, fmt.Errorf("failed to execute key hooks: %w", err)
	}

	if fn := r.GlobalEnv().Get(rt.StringValue(HookName)); fn != rt.NilValue {
		if fn.Type() != rt.FunctionType {
			h.Close()
			return nil, fmt.Errorf("%s is not a function (type: %v)", HookName, fn.Type())
		}
		h.hook = fn
	}
	return h, nil
}

// Defined reports whether the script defined on_key.
func (h *Hooks) Defined() bool {
	return h.hook != rt.NilValue
}

// HandleKey calls on_key(name, keycode). Hook errors are logged and
// otherwise ignored. A hook that keeps failing is suspended for a while.
func (h *Hooks) HandleKey(k input.KeyPress) {
	changed, err := h.breaker.Do(func() error {
		_, err := h.Call(k)
		return err
	})
	if errors.Is(err, ErrHookSuspended) {
		return
	}
	if err != nil {
		h.logger.Warn("key hook failed", "hook", HookName, "key", k.Name, "error", err)
	}
	if !changed {
		return
	}
	if state := h.breaker.State(); state == BreakerOpen {
		h.logger.Warn("key hook suspended", "hook", HookName, "cooldown", suspendCooldown)
	} else {
		h.logger.Info("key hook resumed", "hook", HookName, "state", state)
	}
}

// Call invokes on_key for k and returns its result, or nil when no hook
// is defined.
func (h *Hooks) Call(k input.KeyPress) (rt.Value, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.hook == rt.NilValue || h.runtime == nil {
		return rt.NilValue, nil
	}
	return h.call(h.hook, rt.StringValue(k.Name), rt.IntValue(int64(k.Keycode)))
}

// call runs fn under the hook limits. golua panics when a hard limit is
// exceeded; that is returned as an error.
func (h *Hooks) call(fn rt.Value, args ...rt.Value) (result rt.Value, err error) {
	defer func() {
		if p := recover(); p != nil {
			result, err = rt.NilValue, fmt.Errorf("resource limit exceeded: %v", p)
		}
	}()

	h.runtime.PushContext(rt.RuntimeContextDef{
		HardLimits: rt.RuntimeResources{
			Cpu:    h.limits.CPU,
			Memory: h.limits.Memory,
		},
	})
	defer h.runtime.PopContext()

	return rt.Call1(h.runtime.MainThread(), fn, args...)
}

// Close releases the Lua runtime.
func (h *Hooks) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
	h.runtime = nil
	h.hook = rt.NilValue
	return nil
}
