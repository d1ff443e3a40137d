package eventiter

import (
	clone "github.com/huandu/go-clone/generic"

	"github.com/halfnote/seq/event"
	"github.com/halfnote/seq/pulse"
	"github.com/halfnote/seq/seqerr"
	"github.com/halfnote/seq/timebase"
)

// MapFn mutates an event before it is emitted. It may be stateful
// (capturing e.g. a running transpose counter).
type MapFn func(event.Event) event.Event

// Mapped cycles through a fixed event list plus a mutation closure: each
// Run returns the event currently stored in the slot and then replaces
// that slot with the closure's result, so the first pass emits the
// events as given and every later pass emits them mutated once more.
// It stores both a live
// mutation function and a factory that rebuilds a fresh copy of it for
// Reset, grounded on event/mutated.rs's MutatedEventIter. Because the
// live closure may carry unclonable state, Mapped.Duplicate always
// fails: per spec.md §4.2 / §5, stateful mutators are allowed to fail
// duplication.
type Mapped struct {
	events        []event.Event
	initialEvents []event.Event
	index         int
	mapFn         MapFn
	newMapFn      func() MapFn
}

var _ EventIter = (*Mapped)(nil)

// NewMapped builds a Mapped event iter. newMapFn is invoked once now,
// and again every time Reset is called, to rebuild the mutator's
// initial closure state.
func NewMapped(events []event.Event, newMapFn func() MapFn) *Mapped {
	m := &Mapped{
		initialEvents: clone.Clone(events),
		newMapFn:      newMapFn,
		mapFn:         newMapFn(),
	}
	m.events = clone.Clone(m.initialEvents)
	return m
}

func (m *Mapped) SetTimeBase(timebase.TimeBase)         {}
func (m *Mapped) SetExternalContext(map[string]float64) {}

func (m *Mapped) Run(_ pulse.Item, _ uint32, emitEvent bool) *event.Event {
	if !emitEvent || len(m.events) == 0 {
		return nil
	}
	ev := m.events[m.index]
	m.events[m.index] = m.mapFn(ev)
	m.index++
	if m.index >= len(m.events) {
		m.index = 0
	}
	cloned := ev.Clone()
	return &cloned
}

// Duplicate always fails: the mutation closure's captured state cannot
// be meaningfully cloned.
func (m *Mapped) Duplicate() (EventIter, error) {
	return nil, seqerr.NewResetInvariant("mapped event iters cannot be duplicated")
}

func (m *Mapped) Reset() {
	m.events = clone.Clone(m.initialEvents)
	m.index = 0
	m.mapFn = m.newMapFn()
}
