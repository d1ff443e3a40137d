// Package timebase converts between musical time (beats, bars, seconds)
// and the monotone integer sample clock that drives the rest of the
// sequencer. All conversions are carried out in float64 and truncated to
// a SampleTime only at the final step, bounding drift to within one
// sample over arbitrarily long runs (see BeatTimeStep.ToSamples).
package timebase

import "github.com/halfnote/seq/seqerr"

// SampleTime is a non-negative, monotone (within one playback session)
// audio-sample index.
type SampleTime int64

// TimeBase converts between a time base's native unit and samples.
type TimeBase interface {
	// SamplesPerSecond reports the sampling rate in Hz.
	SamplesPerSecond() float64
	// SamplesToSeconds converts a sample count to seconds.
	SamplesToSeconds(s SampleTime) float64
	// SecondsToSamples converts seconds to a (fractional) sample count.
	SecondsToSamples(secs float64) float64
}

// BeatTimeBase is a TimeBase expressed in beats-per-minute with a given
// number of beats per bar.
type BeatTimeBase struct {
	BeatsPerMin   float64
	BeatsPerBar   uint32
	SamplesPerSec uint32
}

// Validate checks the unit ranges from the external interface spec:
// beats_per_min ∈ (0, 10000], beats_per_bar ∈ [1, 64],
// samples_per_sec ∈ [8000, 384000].
func (b BeatTimeBase) Validate() error {
	if b.BeatsPerMin <= 0 || b.BeatsPerMin > 10000 {
		return seqerr.NewDomainError("beats_per_min out of range (0, 10000]")
	}
	if b.BeatsPerBar < 1 || b.BeatsPerBar > 64 {
		return seqerr.NewDomainError("beats_per_bar out of range [1, 64]")
	}
	if b.SamplesPerSec < 8000 || b.SamplesPerSec > 384000 {
		return seqerr.NewDomainError("samples_per_sec out of range [8000, 384000]")
	}
	return nil
}

// SamplesPerSecond implements TimeBase.
func (b BeatTimeBase) SamplesPerSecond() float64 {
	return float64(b.SamplesPerSec)
}

// SamplesPerBeat returns the (fractional) number of samples in one beat.
func (b BeatTimeBase) SamplesPerBeat() float64 {
	return 60.0 * float64(b.SamplesPerSec) / b.BeatsPerMin
}

// SamplesPerBar returns the (fractional) number of samples in one bar.
func (b BeatTimeBase) SamplesPerBar() float64 {
	return float64(b.BeatsPerBar) * b.SamplesPerBeat()
}

// SamplesToSeconds implements TimeBase.
func (b BeatTimeBase) SamplesToSeconds(s SampleTime) float64 {
	return float64(s) / float64(b.SamplesPerSec)
}

// SecondsToSamples implements TimeBase.
func (b BeatTimeBase) SecondsToSamples(secs float64) float64 {
	return secs * float64(b.SamplesPerSec)
}

// SecondTimeBase is a TimeBase with no concept of beats or bars: steps
// are specified directly in seconds.
type SecondTimeBase struct {
	SamplesPerSec uint32
}

// Validate checks samples_per_sec ∈ [8000, 384000].
func (b SecondTimeBase) Validate() error {
	if b.SamplesPerSec < 8000 || b.SamplesPerSec > 384000 {
		return seqerr.NewDomainError("samples_per_sec out of range [8000, 384000]")
	}
	return nil
}

// SamplesPerSecond implements TimeBase.
func (b SecondTimeBase) SamplesPerSecond() float64 {
	return float64(b.SamplesPerSec)
}

// SamplesToSeconds implements TimeBase.
func (b SecondTimeBase) SamplesToSeconds(s SampleTime) float64 {
	return float64(s) / float64(b.SamplesPerSec)
}

// SecondsToSamples implements TimeBase.
func (b SecondTimeBase) SecondsToSamples(secs float64) float64 {
	return secs * float64(b.SamplesPerSec)
}

// BeatTimeStepKind discriminates the beat-time unit of a BeatTimeStep.
type BeatTimeStepKind int

const (
	Sixteenth BeatTimeStepKind = iota
	Eighth
	Beats
	Bar
)

// BeatTimeStep pairs a unit with a (fractional) step count, e.g.
// BeatTimeStep{Beats, 1.0} or BeatTimeStep{Sixteenth, 4.0}.
type BeatTimeStep struct {
	Kind  BeatTimeStepKind
	Steps float32
}

// SetSteps replaces the step count, keeping the unit.
func (s *BeatTimeStep) SetSteps(steps float32) {
	s.Steps = steps
}

// ToSamples is a real-valued conversion: callers accumulate the result
// across successive calls (see rhythm.Rhythm) rather than truncating at
// every step, which is what bounds drift to a single sample over an
// arbitrary run length instead of accumulating error proportional to
// the number of steps.
func (s BeatTimeStep) ToSamples(tb BeatTimeBase) float64 {
	switch s.Kind {
	case Sixteenth:
		return float64(s.Steps) * tb.SamplesPerBeat() / 4.0
	case Eighth:
		return float64(s.Steps) * tb.SamplesPerBeat() / 2.0
	case Beats:
		return float64(s.Steps) * tb.SamplesPerBeat()
	case Bar:
		return float64(s.Steps) * tb.SamplesPerBar()
	default:
		return 0
	}
}

// SecondTimeStep is a step duration in seconds for SecondTimeRhythm.
type SecondTimeStep float64

// ToSamples converts a SecondTimeStep to a (fractional) sample count.
func (s SecondTimeStep) ToSamples(tb SecondTimeBase) float64 {
	return float64(s) * tb.SamplesPerSecond()
}
