// Package script defines the plugin boundary the core uses to host
// user-defined iterators. The embedded scripting runtime itself is out
// of scope for this module (see spec.md §1); the core only ever talks
// to a Callback, and tests substitute the deterministic Mock below. A
// concrete, swappable implementation backed by an embedded Lua VM lives
// in scripting/luaengine.
package script

import (
	"log"
	"strconv"
	"strings"

	"github.com/halfnote/seq/event"
	"github.com/halfnote/seq/note"
	"github.com/halfnote/seq/pulse"
	"github.com/halfnote/seq/seqerr"
	"github.com/halfnote/seq/timebase"
)

// Logger is the host's diagnostic sink. *log.Logger satisfies it, and
// every Callback implementation defaults to log.Default() so a callback
// failure is always logged somewhere (§7) even when the host never
// calls SetLogger.
type Logger interface {
	Printf(format string, v ...any)
}

// Context is everything a scripted callback can observe at call time.
type Context struct {
	TimeBase           timebase.TimeBase
	Pulse              pulse.Item
	PulseStep          uint64
	PulseTimeStep      float64
	PulsePatternLength uint32
	External           map[string]float64
}

// ValueKind discriminates the tagged union a callback may return.
type ValueKind int

const (
	ValueNil ValueKind = iota
	ValueBool
	ValueInteger
	ValueFloat
	ValueString
	ValueTable
)

// Value is the single conversion-layer boundary type: the core never
// branches on a scripting runtime's native types past this point (see
// spec.md §9, "Polymorphic event/pattern returns from user code").
type Value struct {
	Kind  ValueKind
	Bool  bool
	Int   int64
	Float float64
	Str   string
	Table []Value // a flat list is all the conversion rules need
	// Fields holds named entries for table values that carry a "key"
	// field (e.g. {key = "c4", volume = 0.8}), converted to a NoteEvent.
	Fields map[string]Value
}

// Callback is the opaque, resettable, duplicable host-language function
// the core drives once per pulse/step. Implementations are expected to
// keep their own constructor-captured reinitializer so that Reset can
// restore the function to its starting closure state.
type Callback interface {
	SetTimeBase(tb timebase.TimeBase) error
	SetExternalContext(data map[string]float64) error
	SetPulseContext(step uint64, timeStep float64, patternLength uint32) error
	Call() (Value, error)
	Duplicate() (Callback, error)
	Reset() error
	HandleError(err error)
}

// Mock is a deterministic Callback used by tests and by callers who want
// a callback without an embedded scripting runtime. It wraps a plain Go
// function plus a factory that rebuilds its initial state on Reset,
// mirroring the "reset_map" idiom used throughout this module.
type Mock struct {
	ctx     Context
	fn      func(Context) (Value, error)
	newFn   func() func(Context) (Value, error)
	errored bool
	lastErr error
	logger  Logger
}

var _ Callback = (*Mock)(nil)

// NewMock builds a Mock from a factory that produces the (possibly
// stateful) call function; the factory is invoked once now and again on
// every Reset.
func NewMock(newFn func() func(Context) (Value, error)) *Mock {
	return &Mock{fn: newFn(), newFn: newFn, logger: log.Default()}
}

// SetLogger overrides the logger HandleError reports callback failures
// to; NewMock otherwise sets it to log.Default().
func (m *Mock) SetLogger(l Logger) { m.logger = l }

func (m *Mock) SetTimeBase(tb timebase.TimeBase) error {
	m.ctx.TimeBase = tb
	return nil
}

func (m *Mock) SetExternalContext(data map[string]float64) error {
	m.ctx.External = data
	return nil
}

func (m *Mock) SetPulseContext(step uint64, timeStep float64, patternLength uint32) error {
	m.ctx.PulseStep = step
	m.ctx.PulseTimeStep = timeStep
	m.ctx.PulsePatternLength = patternLength
	return nil
}

func (m *Mock) Call() (Value, error) {
	if m.errored {
		return Value{}, m.lastErr
	}
	return m.fn(m.ctx)
}

func (m *Mock) Duplicate() (Callback, error) {
	return &Mock{ctx: m.ctx, fn: m.newFn(), newFn: m.newFn, errored: m.errored, lastErr: m.lastErr, logger: m.logger}, nil
}

func (m *Mock) Reset() error {
	m.fn = m.newFn()
	m.errored = false
	m.lastErr = nil
	return nil
}

func (m *Mock) HandleError(err error) {
	m.errored = true
	m.lastErr = err
	if m.logger != nil {
		m.logger.Printf("callback error: %v", err)
	}
}

// PulseFromValue converts a callback's return Value into a Pulse per
// the documented conversion rules: a bare number becomes a single
// pulse's trigger value; a table becomes a sub-list of pulses sharing
// one nominal step, each entry interpreted as its trigger value.
func PulseFromValue(v Value) (pulse.Pulse, error) {
	switch v.Kind {
	case ValueInteger:
		return pulse.Single(float64(v.Int)), nil
	case ValueFloat:
		return pulse.Single(v.Float), nil
	case ValueBool:
		if v.Bool {
			return pulse.Single(1.0), nil
		}
		return pulse.Single(0.0), nil
	case ValueTable:
		if len(v.Table) == 0 {
			return nil, seqerr.NewConversionError("non-empty pulse table", v)
		}
		out := make(pulse.Pulse, len(v.Table))
		for i, item := range v.Table {
			p, err := PulseFromValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = p[0]
		}
		return out, nil
	case ValueNil:
		return nil, nil
	default:
		return nil, seqerr.NewConversionError("pulse value", v)
	}
}

// EventFromValue converts a callback's return Value into an Event per
// the documented conversion rules: a table with a "key" field becomes a
// NoteEvent, a bare integer 0..127 becomes a note number, and a string
// is parsed like a Cycle DSL single (a note name, or a rest).
func EventFromValue(v Value) (*event.Event, error) {
	switch v.Kind {
	case ValueNil:
		return nil, nil
	case ValueInteger:
		if v.Int < 0 || v.Int > 127 {
			return nil, seqerr.NewConversionError("note 0..127", v.Int)
		}
		ev := event.NewNote(event.NewNoteEvent(nil, note.Note(v.Int)))
		return &ev, nil
	case ValueFloat:
		return EventFromValue(Value{Kind: ValueInteger, Int: int64(v.Float)})
	case ValueString:
		s := strings.TrimSpace(v.Str)
		if s == "" || s == "~" || s == "..." {
			return nil, nil
		}
		if n, err := strconv.Atoi(s); err == nil {
			return EventFromValue(Value{Kind: ValueInteger, Int: int64(n)})
		}
		n, rest, err := note.Parse(s)
		if err != nil {
			return nil, err
		}
		if rest {
			return nil, nil
		}
		ev := event.NewNote(event.NewNoteEvent(nil, n))
		return &ev, nil
	case ValueTable:
		if keyVal, ok := v.Fields["key"]; ok {
			keyEvent, err := EventFromValue(keyVal)
			if err != nil || keyEvent == nil {
				return nil, err
			}
			ne := keyEvent.NoteEvents[0]
			if vol, ok := v.Fields["volume"]; ok {
				ne.Volume = float32(asFloat(vol))
			}
			if pan, ok := v.Fields["panning"]; ok {
				ne.Panning = float32(asFloat(pan))
			}
			if delay, ok := v.Fields["delay"]; ok {
				ne.Delay = float32(asFloat(delay))
			}
			clamped := ne.Clamp()
			ev := event.NewNote(clamped)
			return &ev, nil
		}
		return nil, seqerr.NewConversionError(`table with "key" field`, v)
	default:
		return nil, seqerr.NewConversionError("event value", v)
	}
}

func asFloat(v Value) float64 {
	switch v.Kind {
	case ValueInteger:
		return float64(v.Int)
	case ValueFloat:
		return v.Float
	default:
		return 0
	}
}
