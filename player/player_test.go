package player_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halfnote/seq/event"
	"github.com/halfnote/seq/eventiter"
	"github.com/halfnote/seq/gate"
	"github.com/halfnote/seq/note"
	"github.com/halfnote/seq/pattern"
	"github.com/halfnote/seq/phrase"
	"github.com/halfnote/seq/player"
	"github.com/halfnote/seq/rhythm"
	"github.com/halfnote/seq/sequence"
	"github.com/halfnote/seq/timebase"
)

func fourOnTheFloor(tb timebase.BeatTimeBase) rhythm.Rhythm {
	ev := make([]event.Event, 4)
	for i := range ev {
		ev[i] = event.NewNote(event.NewNoteEvent(nil, note.Note(60+i)))
	}
	it := eventiter.NewFixed(ev...)
	return rhythm.NewBeatTimeRhythm(tb, timebase.BeatTimeStep{Kind: timebase.Beats, Steps: 1.0}, pattern.FromBools(true, true, true, true), gate.NewDefault(), it)
}

func TestDriverRunUntilPullsFromRhythmSource(t *testing.T) {
	tb := timebase.BeatTimeBase{BeatsPerMin: 120, BeatsPerBar: 4, SamplesPerSec: 44100}
	src := player.RhythmSource(fourOnTheFloor(tb))

	var times []timebase.SampleTime
	d := player.New(src, 10000, func(idx int, st timebase.SampleTime, ev *event.Event) {
		require.Equal(t, 0, idx)
		times = append(times, st)
	}, nil)

	d.RunUntil(66151)
	assert.Equal(t, []timebase.SampleTime{0, 22050, 44100, 66150}, times)
}

func TestDriverRunUntilStopsAtLimitAcrossMultipleBatches(t *testing.T) {
	tb := timebase.BeatTimeBase{BeatsPerMin: 120, BeatsPerBar: 4, SamplesPerSec: 44100}
	src := player.RhythmSource(fourOnTheFloor(tb))

	var times []timebase.SampleTime
	// a small preload horizon forces several RunUntilTime batches.
	d := player.New(src, 5000, func(idx int, st timebase.SampleTime, ev *event.Event) {
		times = append(times, st)
	}, nil)

	d.RunUntil(30000)
	assert.Equal(t, []timebase.SampleTime{0, 22050}, times)
}

func TestDriverStopFuncHaltsImmediately(t *testing.T) {
	tb := timebase.BeatTimeBase{BeatsPerMin: 120, BeatsPerBar: 4, SamplesPerSec: 44100}
	src := player.RhythmSource(fourOnTheFloor(tb))

	calls := 0
	d := player.New(src, 1000, func(idx int, st timebase.SampleTime, ev *event.Event) {
		calls++
	}, func() bool { return true })

	d.Run()
	assert.Equal(t, 0, calls, "a stop func returning true before the first batch must suppress all dispatch")
}

func TestDriverResetRewindsSourceAndPosition(t *testing.T) {
	tb := timebase.BeatTimeBase{BeatsPerMin: 120, BeatsPerBar: 4, SamplesPerSec: 44100}
	src := player.RhythmSource(fourOnTheFloor(tb))

	var times []timebase.SampleTime
	d := player.New(src, 50000, func(idx int, st timebase.SampleTime, ev *event.Event) {
		times = append(times, st)
	}, nil)

	d.RunUntil(30000)
	d.Reset()
	assert.Equal(t, timebase.SampleTime(0), d.Now())

	times = nil
	d.RunUntil(30000)
	assert.Equal(t, []timebase.SampleTime{0, 22050}, times)
}

func TestDriverOverPhraseSource(t *testing.T) {
	tb := timebase.BeatTimeBase{BeatsPerMin: 120, BeatsPerBar: 4, SamplesPerSec: 44100}
	ph := phrase.New(tb, timebase.BeatTimeStep{Kind: timebase.Bar, Steps: 1}, phrase.NewRhythmSlot(fourOnTheFloor(tb)))

	var times []timebase.SampleTime
	d := player.New(ph, 100000, func(idx int, st timebase.SampleTime, ev *event.Event) {
		times = append(times, st)
	}, nil)

	d.RunUntil(88200)
	assert.Equal(t, []timebase.SampleTime{0, 22050, 44100, 66150}, times)
}

func TestDriverOverSequenceSource(t *testing.T) {
	tb := timebase.BeatTimeBase{BeatsPerMin: 120, BeatsPerBar: 4, SamplesPerSec: 44100}
	p0 := phrase.New(tb, timebase.BeatTimeStep{Kind: timebase.Bar, Steps: 1}, phrase.NewRhythmSlot(fourOnTheFloor(tb)))
	p1 := phrase.New(tb, timebase.BeatTimeStep{Kind: timebase.Bar, Steps: 1}, phrase.NewRhythmSlot(fourOnTheFloor(tb)))
	seq := sequence.New(p0, p1)

	var count int
	d := player.New(seq, 200000, func(idx int, st timebase.SampleTime, ev *event.Event) {
		count++
	}, nil)

	d.RunUntil(2 * 88200)
	assert.Equal(t, 8, count)
}
