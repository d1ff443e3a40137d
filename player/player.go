// Package player implements the external driver described in §4.9,
// grounded on cmd/modplay/play.go's AudioPlayer: a poll loop that
// repeatedly pulls a bounded horizon of events from a top-level source
// and dispatches them to a consumer, checking a stop condition between
// batches instead of blocking on playback hardware.
package player

import (
	"github.com/halfnote/seq/event"
	"github.com/halfnote/seq/rhythm"
	"github.com/halfnote/seq/timebase"
)

// Consumer receives one emitted (rhythm_index, sample_time, event)
// triple. It is a type alias (not a new defined type) so that the
// RunUntilTime methods of *phrase.Phrase and *sequence.Sequence satisfy
// Source without per-type adapter glue.
type Consumer = func(rhythmIndex int, sampleTime timebase.SampleTime, ev *event.Event)

// Source is anything a Driver can pull a bounded slice of timeline
// from. *phrase.Phrase and *sequence.Sequence already satisfy this; a
// bare rhythm.Rhythm is wrapped via RhythmSource.
type Source interface {
	RunUntilTime(target timebase.SampleTime, consume Consumer)
	Reset()
}

// StopFunc is polled between preload batches; Run stops as soon as it
// returns true.
type StopFunc func() bool

type rhythmSource struct{ r rhythm.Rhythm }

// RhythmSource adapts a single Rhythm into a Source, reporting every
// emitted pair under rhythm_index 0.
func RhythmSource(r rhythm.Rhythm) Source { return &rhythmSource{r: r} }

func (rs *rhythmSource) RunUntilTime(target timebase.SampleTime, consume Consumer) {
	for {
		st, ev, ok := rs.r.NextUntilTime(target)
		if !ok {
			return
		}
		consume(0, st, ev)
	}
}

func (rs *rhythmSource) Reset() { rs.r.Reset() }

// Driver repeatedly preloads a fixed horizon of events ahead of the
// current sample position, dispatching each to consume.
type Driver struct {
	source         Source
	preloadHorizon timebase.SampleTime
	now            timebase.SampleTime
	consume        Consumer
	stop           StopFunc
}

// New builds a Driver over source, preloading preloadHorizon samples
// per batch and delivering events to consume. stop may be nil, meaning
// Run never stops on its own (only RunUntil is bounded).
func New(source Source, preloadHorizon timebase.SampleTime, consume Consumer, stop StopFunc) *Driver {
	return &Driver{source: source, preloadHorizon: preloadHorizon, consume: consume, stop: stop}
}

// Now reports the driver's current preload position.
func (d *Driver) Now() timebase.SampleTime { return d.now }

// Run preloads batches forever until stop reports true. Callers
// typically run this on its own goroutine and set stop from a signal
// handler or keypress, mirroring setupSignalHandlers/
// setupKeyboardHandlers in the teacher's driver.
func (d *Driver) Run() {
	for {
		if d.stop != nil && d.stop() {
			return
		}
		target := d.now + d.preloadHorizon
		d.source.RunUntilTime(target, d.consume)
		d.now = target
	}
}

// RunUntil preloads batches until the driver's position reaches limit
// or stop reports true, whichever comes first. Useful for tests and
// for CLI tools that render a fixed window instead of running forever.
func (d *Driver) RunUntil(limit timebase.SampleTime) {
	for d.now < limit {
		if d.stop != nil && d.stop() {
			return
		}
		target := d.now + d.preloadHorizon
		if target > limit {
			target = limit
		}
		d.source.RunUntilTime(target, d.consume)
		d.now = target
	}
}

// Reset rewinds the source and the driver's own position.
func (d *Driver) Reset() {
	d.source.Reset()
	d.now = 0
}
