// Package event defines the tagged event value emitted by rhythms:
// either a vector of (optionally resting) notes, or a parameter change.
package event

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/halfnote/seq/note"
)

// InstrumentId opaquely identifies an instrument referenced by a
// NoteEvent. ParameterId opaquely identifies a parameter referenced by
// a ParameterChangeEvent. Both are minted from a single process-wide
// monotone counter.
type InstrumentId uint64
type ParameterId uint64

var idCounter uint64

// NewId returns a fresh, process-wide unique id. InstrumentId and
// ParameterId share the same counter; this is deliberate (the original
// system only ever needs uniqueness, not a dense id space per kind).
func NewId() uint64 {
	return atomic.AddUint64(&idCounter, 1) - 1
}

// NewInstrumentId mints a fresh InstrumentId.
func NewInstrumentId() InstrumentId { return InstrumentId(NewId()) }

// NewParameterId mints a fresh ParameterId.
func NewParameterId() ParameterId { return ParameterId(NewId()) }

// NoteEvent is a single voice in a (possibly polyphonic) NoteEvents
// vector.
type NoteEvent struct {
	Instrument *InstrumentId // nil falls back to the player's default instrument
	Note       note.Note
	Volume     float32 // >= 0, default 1.0
	Panning    float32 // in [-1, 1], default 0
	Delay      float32 // in [0, 1], default 0
}

// NewNoteEvent builds a NoteEvent with the documented defaults.
func NewNoteEvent(instrument *InstrumentId, n note.Note) NoteEvent {
	return NoteEvent{Instrument: instrument, Note: n, Volume: 1.0}
}

// Clamp enforces Volume >= 0 and Panning/Delay range invariants.
func (e NoteEvent) Clamp() NoteEvent {
	if e.Volume < 0 {
		e.Volume = 0
	}
	if e.Panning < -1 {
		e.Panning = -1
	} else if e.Panning > 1 {
		e.Panning = 1
	}
	if e.Delay < 0 {
		e.Delay = 0
	} else if e.Delay > 1 {
		e.Delay = 1
	}
	return e
}

func (e NoteEvent) String() string {
	instr := "NA"
	if e.Instrument != nil {
		instr = fmt.Sprintf("%d", *e.Instrument)
	}
	return fmt.Sprintf("%s %s vol=%.2f pan=%.2f delay=%.2f", instr, e.Note, e.Volume, e.Panning, e.Delay)
}

// ParameterChangeEvent changes a named continuous parameter.
type ParameterChangeEvent struct {
	Parameter *ParameterId
	Value     float32
}

func (e ParameterChangeEvent) String() string {
	p := "NA"
	if e.Parameter != nil {
		p = fmt.Sprintf("%d", *e.Parameter)
	}
	return fmt.Sprintf("%s %.4f", p, e.Value)
}

// Kind discriminates the Event sum type.
type Kind int

const (
	KindNoteEvents Kind = iota
	KindParameterChange
)

// Event is the tagged value emitted by a Rhythm for every accepted
// pulse. A nil entry within NoteEvents denotes a resting voice within a
// polyphonic vector.
type Event struct {
	Kind       Kind
	NoteEvents []*NoteEvent // only meaningful when Kind == KindNoteEvents
	Parameter  ParameterChangeEvent // only meaningful when Kind == KindParameterChange
}

// NewNote builds a monophonic NoteEvents Event from a single note.
func NewNote(n NoteEvent) Event {
	return Event{Kind: KindNoteEvents, NoteEvents: []*NoteEvent{&n}}
}

// NewNoteVector builds a polyphonic NoteEvents Event; any nil entry is a
// rest within that voice.
func NewNoteVector(notes []*NoteEvent) Event {
	return Event{Kind: KindNoteEvents, NoteEvents: notes}
}

// NewParameterChange builds a ParameterChangeEvent Event.
func NewParameterChange(p ParameterChangeEvent) Event {
	return Event{Kind: KindParameterChange, Parameter: p}
}

// Clone deep-copies an Event so mutating the result never aliases the
// receiver's note pointers.
func (e Event) Clone() Event {
	switch e.Kind {
	case KindNoteEvents:
		cp := make([]*NoteEvent, len(e.NoteEvents))
		for i, n := range e.NoteEvents {
			if n == nil {
				continue
			}
			v := *n
			cp[i] = &v
		}
		return Event{Kind: KindNoteEvents, NoteEvents: cp}
	default:
		return e
	}
}

func (e Event) String() string {
	switch e.Kind {
	case KindNoteEvents:
		parts := make([]string, len(e.NoteEvents))
		for i, n := range e.NoteEvents {
			if n == nil {
				parts[i] = "rest"
			} else {
				parts[i] = n.String()
			}
		}
		return strings.Join(parts, " | ")
	default:
		return e.Parameter.String()
	}
}
