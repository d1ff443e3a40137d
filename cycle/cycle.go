// Package cycle implements the Tidal-style mini-notation DSL: a parser
// and stateful evaluator that expands a compact string into channels of
// timed events with exact rational spans.
package cycle

import (
	clone "github.com/huandu/go-clone/generic"

	"github.com/halfnote/seq/event"
	"github.com/halfnote/seq/internal/xoshiro"
	"github.com/halfnote/seq/script"
)

// Event is one resolved, flattened entry in a generated channel: either
// a concrete Event (a note, per the string-single conversion rule
// shared with the scripted callback boundary) or a rest (Ev == nil).
type Event struct {
	Span   Span
	Ev     *event.Event
	Target string
}

// Channel is one ordered list of Events after hold/rest merge. Leading
// rests are dropped by that merge, so the first Event may start after 0.
type Channel []Event

// Cycle parses a mini-notation string once and evaluates it into
// Channels on each Generate() call, advancing Alternating/Polymeter
// state and drawing from per-node RNG streams seeded off a single
// master seed (§4.6).
type Cycle struct {
	root   *node
	numIDs int
	seed   uint64
	st     evalState
}

// NewCycle parses src and builds a Cycle seeded deterministically from
// seed: identical seed and source always produce identical Generate()
// output (§8, "seed determinism").
func NewCycle(src string, seed uint64) (*Cycle, error) {
	root, numIDs, err := parseMini(src)
	if err != nil {
		return nil, err
	}
	c := &Cycle{root: root, numIDs: numIDs, seed: seed}
	c.resetState()
	return c, nil
}

func (c *Cycle) resetState() {
	master := xoshiro.New(c.seed)
	rngs := make([]*xoshiro.Rng, c.numIDs)
	for id := 0; id < c.numIDs; id++ {
		rngs[id] = master.Split(uint64(id))
	}
	c.st = evalState{
		altCurrent: make([]int, c.numIDs),
		polyOffset: make([]int, c.numIDs),
		nodeRngs:   rngs,
	}
}

// Generate evaluates one cycle iteration and advances the iteration
// counter, any Alternating/Polymeter runtime positions, and every
// node's RNG stream.
func (c *Cycle) Generate() ([]Channel, error) {
	chans := c.st.evalNode(c.root)
	c.st.iteration++

	out := make([]Channel, len(chans))
	for i, ch := range chans {
		merged := mergeRests(mergeHolds(ch))
		resolved, err := toChannel(merged)
		if err != nil {
			return nil, err
		}
		out[i] = resolved
	}
	return out, nil
}

// Iteration reports the number of Generate() calls made since
// construction or the last Reset.
func (c *Cycle) Iteration() uint64 { return c.st.iteration }

// Reset zeroes the iteration counter, every Alternating/Polymeter
// position, and rewinds every node's RNG stream to its seeded start.
func (c *Cycle) Reset() { c.resetState() }

// Duplicate returns an independent clone: the parsed tree is immutable
// and shared, but all runtime state (positions, RNG streams, iteration
// count) is deep-copied.
func (c *Cycle) Duplicate() *Cycle {
	return &Cycle{
		root:   c.root,
		numIDs: c.numIDs,
		seed:   c.seed,
		st:     clone.Clone(c.st),
	}
}

// toChannel resolves each merged timedCell into a final Event: a rest
// cell becomes Ev == nil, a note cell is converted via the same
// string-single rule the scripted callback boundary uses (§6, "a
// string is parsed like a DSL single").
func toChannel(merged channel) (Channel, error) {
	out := make(Channel, len(merged))
	for i, tc := range merged {
		if tc.cell.kind == cellRest {
			out[i] = Event{Span: tc.span, Target: tc.cell.target}
			continue
		}
		ev, err := script.EventFromValue(script.Value{Kind: script.ValueString, Str: tc.cell.text})
		if err != nil {
			return nil, err
		}
		out[i] = Event{Span: tc.span, Ev: ev, Target: tc.cell.target}
	}
	return out, nil
}
