// Package sequence implements Sequence, a serial arrangement of Phrases
// (§4.8), ported from sequence.rs's run_until_time drain loop: run the
// current phrase up to its end or the target, whichever comes first;
// crossing a phrase boundary resets the new phrase, offsets it to the
// absolute sample position, and adopts any Continue slot's rhythm from
// the phrase just left.
package sequence

import (
	"github.com/halfnote/seq/event"
	"github.com/halfnote/seq/phrase"
	"github.com/halfnote/seq/timebase"
)

// RhythmIndex identifies which phrase slot an emitted event came from.
type RhythmIndex = int

// Sequence arranges phrases end to end, wrapping back to the first
// phrase once the last one completes.
type Sequence struct {
	phrases               []*phrase.Phrase
	phraseIndex           int
	samplePositionInPhrase timebase.SampleTime
	samplePosition        timebase.SampleTime
}

// New builds a Sequence over phrases, in order.
func New(phrases ...*phrase.Phrase) *Sequence {
	return &Sequence{phrases: phrases}
}

// Phrases returns the sequence's phrase list.
func (s *Sequence) Phrases() []*phrase.Phrase { return s.phrases }

func (s *Sequence) currentPhrase() *phrase.Phrase { return s.phrases[s.phraseIndex] }

// RunUntilTime drains the sequence up to (not including) target,
// calling consumer(rhythm_index, sample_time, event) for every emitted
// pair, crossing phrase boundaries as needed (§4.8, steps 1-3).
func (s *Sequence) RunUntilTime(target timebase.SampleTime, consumer func(rhythmIndex RhythmIndex, sampleTime timebase.SampleTime, ev *event.Event)) {
	for target-s.samplePosition > 0 {
		phraseLength := s.currentPhrase().LengthInSamples()
		nextPhraseStart := phraseLength - s.samplePositionInPhrase
		samplesToRun := target - s.samplePosition

		if nextPhraseStart <= samplesToRun {
			// drain the current phrase to its end, then advance.
			base := s.samplePosition
			s.currentPhrase().RunUntilTime(base+nextPhraseStart, func(idx RhythmIndex, st timebase.SampleTime, ev *event.Event) {
				consumer(idx, st, ev)
			})

			priorPhrase := s.currentPhrase()
			s.phraseIndex++
			if s.phraseIndex >= len(s.phrases) {
				s.phraseIndex = 0
			}
			s.samplePositionInPhrase = 0
			s.samplePosition += nextPhraseStart

			if len(s.phrases) > 1 {
				next := s.currentPhrase()
				next.Reset()
				next.SetSampleOffset(s.samplePosition)
				adoptContinueSlots(next, priorPhrase)
			}
		} else {
			base := s.samplePosition
			s.currentPhrase().RunUntilTime(base+samplesToRun, consumer)
			s.samplePositionInPhrase += samplesToRun
			s.samplePosition += samplesToRun
		}
	}
}

// adoptContinueSlots gives every Continue slot of next the rhythm held
// at the same index in prior, preserving its running state rather than
// resetting it (§4.8, §9 open question: do not reset the adopted
// rhythm).
func adoptContinueSlots(next, prior *phrase.Phrase) {
	priorSlots := prior.Slots()
	for i, slot := range next.Slots() {
		if slot.Kind() != phrase.SlotContinue {
			continue
		}
		if i >= len(priorSlots) {
			continue
		}
		if r := priorSlots[i].Rhythm(); r != nil {
			next.AdoptSlot(i, r)
			// carry over a pair the prior phrase had already peeked ahead
			// but withheld, so it is not lost at the boundary.
			if st, ev, ok := prior.TakePending(i); ok {
				next.SeedPending(i, st, ev)
			}
		}
	}
}

// Reset rewinds the sequence to its first phrase and resets every
// phrase's own state.
func (s *Sequence) Reset() {
	s.phraseIndex = 0
	s.samplePositionInPhrase = 0
	s.samplePosition = 0
	for _, p := range s.phrases {
		p.Reset()
	}
}

// Duplicate returns an independent clone; every phrase is deep-cloned
// via its own Duplicate().
func (s *Sequence) Duplicate() (*Sequence, error) {
	out := &Sequence{
		phraseIndex:           s.phraseIndex,
		samplePositionInPhrase: s.samplePositionInPhrase,
		samplePosition:        s.samplePosition,
		phrases:               make([]*phrase.Phrase, len(s.phrases)),
	}
	for i, p := range s.phrases {
		dup, err := p.Duplicate()
		if err != nil {
			return nil, err
		}
		out.phrases[i] = dup
	}
	return out, nil
}
