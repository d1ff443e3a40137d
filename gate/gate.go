// Package gate implements Gate, the predicate that decides whether a
// Pattern's pulse becomes an emitted event on a given step.
package gate

import "github.com/halfnote/seq/pulse"

// Gate decides, from a pulse alone, whether the Rhythm's EventIter
// should be asked to emit an event this step.
type Gate interface {
	// Run reports whether pulse p counts as an emission.
	Run(p pulse.Item) bool
	// Duplicate returns an independent clone.
	Duplicate() Gate
	// Reset restores the gate's initial observable state.
	Reset()
}
