// Package phrase implements Phrase, a bounded-length parallel
// composition of rhythm slots (§4.7), grounded on the smallest-pending
// multiplex idiom used by rhythm.core.NextUntilTime and on the slot
// draining loop in sequence.rs's Sequence.run_until_time.
package phrase

import (
	"github.com/halfnote/seq/event"
	"github.com/halfnote/seq/rhythm"
	"github.com/halfnote/seq/timebase"
)

// SlotKind discriminates what a Phrase slot holds.
type SlotKind int

const (
	// SlotStop emits nothing for the lifetime of this phrase.
	SlotStop SlotKind = iota
	// SlotContinue carries the rhythm from the previous phrase in a
	// containing Sequence; in isolation it behaves like SlotStop.
	SlotContinue
	// SlotRhythm holds a concrete Rhythm.
	SlotRhythm
)

// Slot is one entry of a Phrase's rhythm vector.
type Slot struct {
	kind   SlotKind
	rhythm rhythm.Rhythm
}

// NewRhythmSlot wraps a concrete rhythm in a Slot.
func NewRhythmSlot(r rhythm.Rhythm) Slot { return Slot{kind: SlotRhythm, rhythm: r} }

// NewStopSlot returns a Slot that never emits.
func NewStopSlot() Slot { return Slot{kind: SlotStop} }

// NewContinueSlot returns a placeholder Slot a containing Sequence will
// substitute with the prior phrase's rhythm at that index.
func NewContinueSlot() Slot { return Slot{kind: SlotContinue} }

// Kind reports the slot's kind.
func (s Slot) Kind() SlotKind { return s.kind }

// Rhythm returns the slot's underlying rhythm, or nil for Stop/unadopted
// Continue slots.
func (s Slot) Rhythm() rhythm.Rhythm { return s.rhythm }

type pendingSlot struct {
	sampleTime timebase.SampleTime
	event      *event.Event
	have       bool
	exhausted  bool
}

// Phrase is a vector of rhythm slots bounded by a musical length. On
// Next, it inspects every active (SlotRhythm) slot's upcoming event and
// returns the one with the smallest sample_time, breaking ties by the
// lower slot index (§4.7).
type Phrase struct {
	timeBase timebase.BeatTimeBase
	length   timebase.BeatTimeStep
	slots    []Slot
	pending  []pendingSlot
}

// New builds a Phrase bounded to length (e.g. Bar(4)) from the given
// slots, evaluated against timeBase.
func New(timeBase timebase.BeatTimeBase, length timebase.BeatTimeStep, slots ...Slot) *Phrase {
	return &Phrase{
		timeBase: timeBase,
		length:   length,
		slots:    slots,
		pending:  make([]pendingSlot, len(slots)),
	}
}

// Len reports the number of slots.
func (p *Phrase) Len() int { return len(p.slots) }

// Slots returns the phrase's slot vector.
func (p *Phrase) Slots() []Slot { return p.slots }

// LengthInSamples reports the phrase's bounded length at its time base.
func (p *Phrase) LengthInSamples() timebase.SampleTime {
	return timebase.SampleTime(p.length.ToSamples(p.timeBase))
}

// TakePending returns and clears any buffered (not yet delivered) pair
// for slot index, if one was peeked ahead but withheld by a prior
// RunUntilTime bound. Used by a containing Sequence to carry a withheld
// pair over to the phrase a Continue slot adopts it into, so crossing a
// phrase boundary mid-pulse never drops an already-computed event.
func (p *Phrase) TakePending(index int) (sampleTime timebase.SampleTime, ev *event.Event, ok bool) {
	ps := p.pending[index]
	if !ps.have {
		return 0, nil, false
	}
	p.pending[index] = pendingSlot{}
	return ps.sampleTime, ps.event, true
}

// SeedPending installs a previously withheld pair as slot index's next
// buffered pair, to be returned by the next Next() without re-querying
// the underlying rhythm.
func (p *Phrase) SeedPending(index int, sampleTime timebase.SampleTime, ev *event.Event) {
	p.pending[index] = pendingSlot{sampleTime: sampleTime, event: ev, have: true}
}

// AdoptSlot substitutes the rhythm at index with r without resetting it,
// turning a Continue placeholder into an active rhythm slot that
// preserves its running state (§4.8, §9 Continue/Phrase-reset note).
// Used by Sequence when crossing into a new phrase.
func (p *Phrase) AdoptSlot(index int, r rhythm.Rhythm) {
	p.slots[index] = Slot{kind: SlotRhythm, rhythm: r}
	p.pending[index] = pendingSlot{}
}

func (p *Phrase) fill(index int) {
	ps := &p.pending[index]
	if ps.have || ps.exhausted {
		return
	}
	slot := p.slots[index]
	if slot.kind != SlotRhythm || slot.rhythm == nil {
		ps.exhausted = true
		return
	}
	st, ev, ok := slot.rhythm.NextUntilTime(timebase.SampleTime(1<<62) - 1)
	if !ok {
		ps.exhausted = true
		return
	}
	ps.sampleTime = st
	ps.event = ev
	ps.have = true
}

// Next selects the active slot with the smallest upcoming sample_time
// (ties broken by lowest slot index), consumes it, and returns its
// pair. ok is false once every slot is exhausted or empty.
func (p *Phrase) Next() (slotIndex int, sampleTime timebase.SampleTime, ev *event.Event, ok bool) {
	best := -1
	for i := range p.slots {
		p.fill(i)
		if !p.pending[i].have {
			continue
		}
		if best == -1 || p.pending[i].sampleTime < p.pending[best].sampleTime {
			best = i
		}
	}
	if best == -1 {
		return 0, 0, nil, false
	}
	ps := p.pending[best]
	p.pending[best] = pendingSlot{}
	return best, ps.sampleTime, ps.event, true
}

// RunUntilTime repeatedly pulls pairs, calling consumer(slotIndex,
// sample_time, event) for each, stopping as soon as the next pair would
// not be strictly before bound.
func (p *Phrase) RunUntilTime(bound timebase.SampleTime, consumer func(slotIndex int, sampleTime timebase.SampleTime, ev *event.Event)) {
	for {
		idx, st, ev, ok := p.Next()
		if !ok {
			return
		}
		if st >= bound {
			// put it back: re-seed the slot's pending cache so it is not lost.
			p.pending[idx] = pendingSlot{sampleTime: st, event: ev, have: true}
			return
		}
		consumer(idx, st, ev)
	}
}

// Reset restores every concrete rhythm slot and clears buffered pairs.
// Stop and unadopted Continue slots are no-ops.
func (p *Phrase) Reset() {
	for i, s := range p.slots {
		if s.kind == SlotRhythm && s.rhythm != nil {
			s.rhythm.Reset()
		}
		p.pending[i] = pendingSlot{}
	}
}

// SetSampleOffset shifts every child rhythm's reported sample_time by
// offset.
func (p *Phrase) SetSampleOffset(offset timebase.SampleTime) {
	for i, s := range p.slots {
		if s.kind == SlotRhythm && s.rhythm != nil {
			s.rhythm.SetSampleOffset(offset)
		}
		p.pending[i] = pendingSlot{}
	}
}

// Duplicate returns an independent clone; concrete rhythm slots are
// deep-cloned via their own Duplicate(), Stop/Continue slots are copied
// as-is.
func (p *Phrase) Duplicate() (*Phrase, error) {
	out := &Phrase{
		timeBase: p.timeBase,
		length:   p.length,
		slots:    make([]Slot, len(p.slots)),
		pending:  make([]pendingSlot, len(p.slots)),
	}
	for i, s := range p.slots {
		if s.kind == SlotRhythm && s.rhythm != nil {
			dup, err := s.rhythm.Duplicate()
			if err != nil {
				return nil, err
			}
			out.slots[i] = Slot{kind: SlotRhythm, rhythm: dup}
		} else {
			out.slots[i] = s
		}
	}
	copy(out.pending, p.pending)
	return out, nil
}
