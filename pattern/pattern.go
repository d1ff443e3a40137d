// Package pattern implements Pattern, the pulse generator that drives a
// Rhythm: a bounded or unbounded sequence of {value, step_time} pulses.
package pattern

import (
	"github.com/halfnote/seq/pulse"
	"github.com/halfnote/seq/timebase"
)

// Pattern is the contract every pulse generator implements: Empty,
// Fixed and Scripted below.
type Pattern interface {
	// IsEmpty reports whether this pattern has no pulses at all (and so
	// must not be run).
	IsEmpty() bool
	// Len reports the number of pulses in one cycle.
	Len() int
	// SetTimeBase propagates an external time-base change.
	SetTimeBase(tb timebase.TimeBase)
	// SetExternalContext passes opaque named parameters through to any
	// scripted callback this pattern wraps.
	SetExternalContext(data map[string]float64)
	// SetRepeatCount bounds how many times the pattern repeats after its
	// first full iteration (0 plays it once, 1 twice); nil means
	// unbounded. Once the last allowed iteration has completed, Run
	// returns ok=false.
	SetRepeatCount(count *int)
	// Run advances one pulse. Panics if IsEmpty() is true, per spec.md
	// §7 ("panics are reserved for programming errors").
	Run() (pulse.Item, bool)
	// Duplicate returns an independent clone.
	Duplicate() (Pattern, error)
	// Reset restores the pattern's initial observable state.
	Reset()
}
