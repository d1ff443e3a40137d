package rhythm

import (
	"github.com/halfnote/seq/eventiter"
	"github.com/halfnote/seq/gate"
	"github.com/halfnote/seq/pattern"
	"github.com/halfnote/seq/timebase"
)

// SecondTimeRhythm steps in seconds, differing from BeatTimeRhythm only
// in how samples-per-step is computed (§4.5).
type SecondTimeRhythm struct {
	core
	timeBase timebase.SecondTimeBase
	step     timebase.SecondTimeStep
}

var _ Rhythm = (*SecondTimeRhythm)(nil)

// NewSecondTimeRhythm builds a SecondTimeRhythm advancing by step
// seconds on each pulse, under the given time base.
func NewSecondTimeRhythm(tb timebase.SecondTimeBase, step timebase.SecondTimeStep, p pattern.Pattern, g gate.Gate, it eventiter.EventIter) *SecondTimeRhythm {
	r := &SecondTimeRhythm{core: newCore(p, g, it), timeBase: tb, step: step}
	r.recompute()
	p.SetTimeBase(tb)
	it.SetTimeBase(tb)
	return r
}

func (r *SecondTimeRhythm) recompute() {
	r.samplesPerStep = r.step.ToSamples(r.timeBase)
}

// SetTimeBase propagates an external time-base change.
func (r *SecondTimeRhythm) SetTimeBase(tb timebase.SecondTimeBase) {
	r.timeBase = tb
	r.recompute()
	r.pattern.SetTimeBase(tb)
	r.eventIter.SetTimeBase(tb)
}

// SetStep changes the nominal step size in seconds.
func (r *SecondTimeRhythm) SetStep(step timebase.SecondTimeStep) {
	r.step = step
	r.recompute()
}

func (r *SecondTimeRhythm) Reset() { r.core.reset() }

func (r *SecondTimeRhythm) Duplicate() (Rhythm, error) {
	dupCore, err := r.core.duplicate()
	if err != nil {
		return nil, err
	}
	return &SecondTimeRhythm{core: dupCore, timeBase: r.timeBase, step: r.step}, nil
}
