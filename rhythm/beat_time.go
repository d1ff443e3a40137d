package rhythm

import (
	"github.com/halfnote/seq/eventiter"
	"github.com/halfnote/seq/gate"
	"github.com/halfnote/seq/pattern"
	"github.com/halfnote/seq/timebase"
)

// BeatTimeRhythm steps in beat/bar units (Sixteenth, Eighth, Beats,
// Bar), grounded on rhythm/beat_time.rs's next_until_time/reset/
// sample_offset contract.
type BeatTimeRhythm struct {
	core
	timeBase timebase.BeatTimeBase
	step     timebase.BeatTimeStep
}

var _ Rhythm = (*BeatTimeRhythm)(nil)

// NewBeatTimeRhythm builds a BeatTimeRhythm advancing by step on each
// pulse, under the given time base.
func NewBeatTimeRhythm(tb timebase.BeatTimeBase, step timebase.BeatTimeStep, p pattern.Pattern, g gate.Gate, it eventiter.EventIter) *BeatTimeRhythm {
	r := &BeatTimeRhythm{core: newCore(p, g, it), timeBase: tb, step: step}
	r.recompute()
	p.SetTimeBase(tb)
	it.SetTimeBase(tb)
	return r
}

func (r *BeatTimeRhythm) recompute() {
	r.samplesPerStep = r.step.ToSamples(r.timeBase)
}

// SetTimeBase propagates an external time-base change to the pattern
// and event iter and recomputes the nominal samples-per-step.
func (r *BeatTimeRhythm) SetTimeBase(tb timebase.BeatTimeBase) {
	r.timeBase = tb
	r.recompute()
	r.pattern.SetTimeBase(tb)
	r.eventIter.SetTimeBase(tb)
}

// SetStep changes the nominal step unit (e.g. Sixteenth to Beats) and
// recomputes samples-per-step.
func (r *BeatTimeRhythm) SetStep(step timebase.BeatTimeStep) {
	r.step = step
	r.recompute()
}

func (r *BeatTimeRhythm) Reset() { r.core.reset() }

func (r *BeatTimeRhythm) Duplicate() (Rhythm, error) {
	dupCore, err := r.core.duplicate()
	if err != nil {
		return nil, err
	}
	return &BeatTimeRhythm{core: dupCore, timeBase: r.timeBase, step: r.step}, nil
}
