// Package luaengine is a concrete script.Callback backed by an embedded
// gopher-lua VM: the plugin-point implementation script.go's doc comment
// reserves for "a concrete, swappable implementation backed by an
// embedded Lua VM." The calling convention is deliberately small: the
// script defines one global function (its name given to New) that is
// called once per pulse/step and returns a number, string, boolean,
// nil, or table, converted via script.PulseFromValue/EventFromValue.
package luaengine

import (
	"log"
	"math"

	lua "github.com/yuin/gopher-lua"

	"github.com/halfnote/seq/script"
	"github.com/halfnote/seq/seqerr"
	"github.com/halfnote/seq/timebase"
)

// Callback is a script.Callback whose Call() invokes a named Lua global
// function in a private *lua.LState.
type Callback struct {
	source string
	fnName string

	state *lua.LState

	timeBase timebase.TimeBase
	external map[string]float64

	errored bool
	lastErr error

	logger script.Logger
}

var _ script.Callback = (*Callback)(nil)

// New compiles source and returns a Callback that calls the global
// function named fnName once per pulse, logging callback failures to
// log.Default() until SetLogger overrides it.
func New(source, fnName string) (*Callback, error) {
	c := &Callback{source: source, fnName: fnName, logger: log.Default()}
	if err := c.boot(); err != nil {
		return nil, err
	}
	return c, nil
}

// SetLogger overrides the logger HandleError reports callback failures
// to.
func (c *Callback) SetLogger(l script.Logger) { c.logger = l }

func (c *Callback) boot() error {
	L := lua.NewState()
	if err := L.DoString(c.source); err != nil {
		L.Close()
		return seqerr.NewCallbackError("lua_load", err)
	}
	c.state = L
	return nil
}

// SetTimeBase implements script.Callback, exposing the sampling rate to
// the script as the global `samples_per_second`.
func (c *Callback) SetTimeBase(tb timebase.TimeBase) error {
	c.timeBase = tb
	c.state.SetGlobal("samples_per_second", lua.LNumber(tb.SamplesPerSecond()))
	return nil
}

// SetExternalContext implements script.Callback, exposing data as the
// global table `external`.
func (c *Callback) SetExternalContext(data map[string]float64) error {
	c.external = data
	tbl := c.state.NewTable()
	for k, v := range data {
		tbl.RawSetString(k, lua.LNumber(v))
	}
	c.state.SetGlobal("external", tbl)
	return nil
}

// SetPulseContext implements script.Callback, exposing the current
// step/time_step/pattern_length as globals read by the script before it
// is called.
func (c *Callback) SetPulseContext(step uint64, timeStep float64, patternLength uint32) error {
	c.state.SetGlobal("step", lua.LNumber(step))
	c.state.SetGlobal("time_step", lua.LNumber(timeStep))
	c.state.SetGlobal("pattern_length", lua.LNumber(patternLength))
	return nil
}

// Call invokes the named global function with no arguments and converts
// its single return value.
func (c *Callback) Call() (script.Value, error) {
	if c.errored {
		return script.Value{}, c.lastErr
	}
	fn := c.state.GetGlobal(c.fnName)
	if fn.Type() != lua.LTFunction {
		err := seqerr.NewCallbackError("lua_call", seqerr.NewDomainError("global \""+c.fnName+"\" is not a function"))
		c.HandleError(err)
		return script.Value{}, err
	}
	if err := c.state.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}); err != nil {
		wrapped := seqerr.NewCallbackError("lua_call", err)
		c.HandleError(wrapped)
		return script.Value{}, wrapped
	}
	ret := c.state.Get(-1)
	c.state.Pop(1)
	return valueFromLua(ret), nil
}

// Duplicate boots an independent VM from the same source and replays
// the last SetTimeBase/SetExternalContext calls onto it; per-VM script
// state (locals, upvalues) is not carried over since Lua closures are
// not generically clonable (§7, components whose internal state cannot
// be meaningfully duplicated).
func (c *Callback) Duplicate() (script.Callback, error) {
	dup := &Callback{source: c.source, fnName: c.fnName, timeBase: c.timeBase, external: c.external, logger: c.logger}
	if err := dup.boot(); err != nil {
		return nil, err
	}
	if dup.timeBase != nil {
		if err := dup.SetTimeBase(dup.timeBase); err != nil {
			return nil, err
		}
	}
	if dup.external != nil {
		if err := dup.SetExternalContext(dup.external); err != nil {
			return nil, err
		}
	}
	return dup, nil
}

// Reset recompiles the script from source into a fresh VM, replaying
// the last time base and external context onto it.
func (c *Callback) Reset() error {
	c.state.Close()
	c.errored = false
	c.lastErr = nil
	if err := c.boot(); err != nil {
		return err
	}
	if c.timeBase != nil {
		if err := c.SetTimeBase(c.timeBase); err != nil {
			return err
		}
	}
	if c.external != nil {
		if err := c.SetExternalContext(c.external); err != nil {
			return err
		}
	}
	return nil
}

// HandleError implements script.Callback: once called, every subsequent
// Call() fails with err until Reset.
func (c *Callback) HandleError(err error) {
	c.errored = true
	c.lastErr = err
	if c.logger != nil {
		c.logger.Printf("lua callback %q error: %v", c.fnName, err)
	}
}

// Close releases the underlying Lua VM. Callers that stop using a
// Callback without Reset-ing it again should call this to release the
// VM's resources.
func (c *Callback) Close() {
	if c.state != nil {
		c.state.Close()
	}
}

func valueFromLua(v lua.LValue) script.Value {
	switch vv := v.(type) {
	case lua.LBool:
		return script.Value{Kind: script.ValueBool, Bool: bool(vv)}
	case lua.LNumber:
		f := float64(vv)
		if f == math.Trunc(f) {
			return script.Value{Kind: script.ValueInteger, Int: int64(f)}
		}
		return script.Value{Kind: script.ValueFloat, Float: f}
	case lua.LString:
		return script.Value{Kind: script.ValueString, Str: string(vv)}
	case *lua.LTable:
		return tableFromLua(vv)
	default:
		return script.Value{Kind: script.ValueNil}
	}
}

// tableFromLua converts a Lua table into script.Value: a table with any
// string keys becomes a Fields-keyed table value (the NoteEvent shape
// EventFromValue expects), otherwise it is flattened into an ordered
// Table slice (the sub-list shape PulseFromValue expects).
func tableFromLua(t *lua.LTable) script.Value {
	fields := make(map[string]script.Value)
	var flat []script.Value
	hasStringKey := false
	t.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			fields[string(ks)] = valueFromLua(v)
			hasStringKey = true
			return
		}
		flat = append(flat, valueFromLua(v))
	})
	if hasStringKey {
		return script.Value{Kind: script.ValueTable, Fields: fields}
	}
	return script.Value{Kind: script.ValueTable, Table: flat}
}
