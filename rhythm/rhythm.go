// Package rhythm implements Rhythm, the Pattern∘Gate∘EventIter pipeline
// that turns a pulse train into an ordered stream of (sample_time,
// Event?) pairs, grounded on the tick/row pull-loop idiom in
// player.go's Player.GenerateAudio / sequenceTick.
package rhythm

import (
	"math"

	"github.com/halfnote/seq/event"
	"github.com/halfnote/seq/eventiter"
	"github.com/halfnote/seq/gate"
	"github.com/halfnote/seq/pattern"
	"github.com/halfnote/seq/timebase"
)

// Rhythm binds a time base, pattern, gate and event iter, and emits a
// lazily-pulled stream of (sample_time, Event?) pairs.
type Rhythm interface {
	// SetSampleOffset shifts every subsequently emitted sample_time by
	// offset; used by Phrase/Sequence to splice sub-streams into an
	// absolute timeline.
	SetSampleOffset(offset timebase.SampleTime)
	SampleOffset() timebase.SampleTime
	// PatternLength reports the bound pattern's pulse count.
	PatternLength() int
	// NextUntilTime returns the next (sample_time, event) pair only if
	// its sample_time is strictly less than bound; ok is false if the
	// rhythm is exhausted or the next pair isn't due yet.
	NextUntilTime(bound timebase.SampleTime) (sampleTime timebase.SampleTime, ev *event.Event, ok bool)
	// Reset resets pattern, gate and event iter, and zeroes
	// current_sample_time and sample_offset.
	Reset()
	// Duplicate returns an independent clone sharing no mutable state.
	Duplicate() (Rhythm, error)
}

type pendingPair struct {
	sampleTime timebase.SampleTime
	event      *event.Event
}

// core holds the state and stepping logic shared by BeatTimeRhythm and
// SecondTimeRhythm; the two concrete kinds differ only in how the
// nominal samples-per-step value is computed (§4.5).
type core struct {
	pattern     pattern.Pattern
	gate        gate.Gate
	eventIter   eventiter.EventIter
	currentTime float64 // current_sample_time_f64
	offset      timebase.SampleTime
	exhausted   bool
	pending     *pendingPair

	samplesPerStep float64
}

func newCore(p pattern.Pattern, g gate.Gate, it eventiter.EventIter) core {
	return core{pattern: p, gate: g, eventIter: it}
}

func (c *core) SetSampleOffset(offset timebase.SampleTime) { c.offset = offset }
func (c *core) SampleOffset() timebase.SampleTime          { return c.offset }
func (c *core) PatternLength() int                         { return c.pattern.Len() }

// step pulls exactly one pulse from the pattern and returns its
// (sample_time, event) pair per the five-step procedure in §4.5.
func (c *core) step() (timebase.SampleTime, *event.Event, bool) {
	if c.pattern.IsEmpty() {
		return 0, nil, false
	}
	p, ok := c.pattern.Run()
	if !ok {
		return 0, nil, false
	}
	emit := c.gate.Run(p)
	sampleTime := timebase.SampleTime(math.Floor(c.currentTime)) + c.offset
	ev := c.eventIter.Run(p, uint32(c.pattern.Len()), emit)
	c.currentTime += c.samplesPerStep * p.StepTime
	return sampleTime, ev, true
}

func (c *core) NextUntilTime(bound timebase.SampleTime) (timebase.SampleTime, *event.Event, bool) {
	if c.pending == nil {
		if c.exhausted {
			return 0, nil, false
		}
		st, ev, ok := c.step()
		if !ok {
			c.exhausted = true
			return 0, nil, false
		}
		c.pending = &pendingPair{sampleTime: st, event: ev}
	}
	if c.pending.sampleTime >= bound {
		return 0, nil, false
	}
	pair := c.pending
	c.pending = nil
	return pair.sampleTime, pair.event, true
}

func (c *core) reset() {
	c.pattern.Reset()
	c.gate.Reset()
	c.eventIter.Reset()
	c.currentTime = 0
	c.offset = 0
	c.exhausted = false
	c.pending = nil
}

func (c *core) duplicate() (core, error) {
	p, err := c.pattern.Duplicate()
	if err != nil {
		return core{}, err
	}
	it, err := c.eventIter.Duplicate()
	if err != nil {
		return core{}, err
	}
	dup := core{
		pattern:        p,
		gate:           c.gate.Duplicate(),
		eventIter:      it,
		currentTime:    c.currentTime,
		offset:         c.offset,
		exhausted:      c.exhausted,
		samplesPerStep: c.samplesPerStep,
	}
	if c.pending != nil {
		pend := *c.pending
		dup.pending = &pend
	}
	return dup, nil
}
