// Package eventiter implements EventIter, a resettable, duplicable
// producer of Events driven one pulse at a time by a Rhythm.
package eventiter

import (
	"github.com/halfnote/seq/event"
	"github.com/halfnote/seq/pulse"
	"github.com/halfnote/seq/timebase"
)

// EventIter is the contract every event source implements: Empty,
// Fixed, Mapped and Scripted below, plus Cycle, which reads one channel
// of a cycle.Cycle.
type EventIter interface {
	// SetTimeBase propagates an external time-base change.
	SetTimeBase(tb timebase.TimeBase)
	// SetExternalContext passes opaque named parameters through to any
	// scripted callback this iterator wraps.
	SetExternalContext(data map[string]float64)
	// Run drives one step. patternLength is the length of the Pattern
	// bound to this iterator in the same Rhythm (§6,
	// "pulse_pattern_length"), threaded through to any scripted callback
	// regardless of emitEvent. If emitEvent is false, internal state may
	// still advance (e.g. position counters) but the returned event is
	// always nil.
	Run(p pulse.Item, patternLength uint32, emitEvent bool) *event.Event
	// Duplicate returns an independent clone, or an error for iterators
	// whose internal state cannot be meaningfully cloned.
	Duplicate() (EventIter, error)
	// Reset restores the iterator's initial observable state.
	Reset()
}
