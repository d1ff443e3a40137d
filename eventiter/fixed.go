package eventiter

import (
	clone "github.com/huandu/go-clone/generic"

	"github.com/halfnote/seq/event"
	"github.com/halfnote/seq/pulse"
	"github.com/halfnote/seq/timebase"
)

// Fixed endlessly cycles through a fixed sequence of events; the index
// wraps modulo length. Grounded on event/fixed.rs's FixedEventIter.
type Fixed struct {
	events  []event.Event
	current int
}

var _ EventIter = (*Fixed)(nil)

// NewFixed builds a Fixed event iter over the given events.
func NewFixed(events ...event.Event) *Fixed {
	return &Fixed{events: events}
}

// Events returns a copy of the events this iter cycles through.
func (f *Fixed) Events() []event.Event {
	return clone.Clone(f.events)
}

func (f *Fixed) SetTimeBase(timebase.TimeBase)         {}
func (f *Fixed) SetExternalContext(map[string]float64) {}

func (f *Fixed) Run(_ pulse.Item, _ uint32, emitEvent bool) *event.Event {
	if !emitEvent || len(f.events) == 0 {
		return nil
	}
	ev := f.events[f.current]
	f.current++
	if f.current >= len(f.events) {
		f.current = 0
	}
	cloned := ev.Clone()
	return &cloned
}

func (f *Fixed) Duplicate() (EventIter, error) {
	return &Fixed{events: f.Events(), current: f.current}, nil
}

func (f *Fixed) Reset() {
	f.current = 0
}
