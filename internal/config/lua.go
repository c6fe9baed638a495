package config

import (
	"fmt"
	"io"
	"sync"

	"github.com/arnodel/golua/lib"
	rt "github.com/arnodel/golua/runtime"
)

// Resource limits applied while a configuration chunk runs.
const (
	luaCPULimit    = 10_000_000
	luaMemoryLimit = 50 * 1024 * 1024
)

// LuaParser parses Lua configuration files of the form
//
//	panel.config = {
//	    width = 672,
//	    time_format = "%H:%M",
//	    volume_color = "#ff4d4d99",
//	}
//
// Each Parse runs in a fresh runtime, so globals from one file never leak
// into the next.
type LuaParser struct {
	stdout io.Writer
	mu     sync.Mutex
}

// NewLuaParser creates a parser. Output from Lua print goes to stdout, or
// is discarded when stdout is nil.
func NewLuaParser(stdout io.Writer) *LuaParser {
	if stdout == nil {
		stdout = io.Discard
	}
	return &LuaParser{stdout: stdout}
}

// Parse executes content and overrides the defaults with panel.config.
func (p *LuaParser) Parse(content []byte) (*Config, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	r := rt.New(p.stdout)
	cleanup := lib.LoadAll(r)
	defer cleanup()

	if err := runLuaChunk(r, "config", content); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	table, err := panelConfigTable(r)
	if err != nil {
		return nil, err
	}
	if table != nil {
		if err := apply(&cfg, luaSource{table: table}); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// InitPanelGlobal installs the panel global with an empty config table.
func InitPanelGlobal(r *rt.Runtime) {
	panelTable := rt.NewTable()
	panelTable.Set(rt.StringValue("config"), rt.TableValue(rt.NewTable()))
	r.GlobalEnv().Set(rt.StringValue("panel"), rt.TableValue(panelTable))
}

// runLuaChunk compiles content as chunk name and executes it under the
// configuration resource limits, with the panel global installed.
// golua panics when a hard limit is exceeded; that is reported as an
// error.
func runLuaChunk(r *rt.Runtime, name string, content []byte) (err error) {
	InitPanelGlobal(r)

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("failed to execute Lua configuration: %v", p)
		}
	}()

	closure, err := r.CompileAndLoadLuaChunk(name, content, rt.TableValue(r.GlobalEnv()))
	if err != nil {
		return fmt.Errorf("failed to compile Lua configuration: %w", err)
	}

	r.PushContext(rt.RuntimeContextDef{
		HardLimits: rt.RuntimeResources{
			Cpu:    luaCPULimit,
			Memory: luaMemoryLimit,
		},
	})
	defer r.PopContext()

	if _, err := rt.Call1(r.MainThread(), rt.FunctionValue(closure)); err != nil {
		return fmt.Errorf("failed to execute Lua configuration: %w", err)
	}
	return nil
}

// panelConfigTable returns panel.config, or nil when the script removed
// it.
func panelConfigTable(r *rt.Runtime) (*rt.Table, error) {
	panelVal := r.GlobalEnv().Get(rt.StringValue("panel"))
	if panelVal == rt.NilValue {
		return nil, nil
	}
	panelTable, ok := panelVal.TryTable()
	if !ok {
		return nil, fmt.Errorf("panel is not a table")
	}
	configVal := panelTable.Get(rt.StringValue("config"))
	if configVal == rt.NilValue {
		return nil, nil
	}
	configTable, ok := configVal.TryTable()
	if !ok {
		return nil, fmt.Errorf("panel.config is not a table")
	}
	return configTable, nil
}

type luaSource struct {
	table *rt.Table
}

func (s luaSource) lookup(key string) (any, bool) {
	val := s.table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil, false
	}
	if b, ok := val.TryBool(); ok {
		return b, true
	}
	if n, ok := val.TryInt(); ok {
		return n, true
	}
	if f, ok := val.TryFloat(); ok {
		return f, true
	}
	if str, ok := val.TryString(); ok {
		return str, true
	}
	return val, true
}
