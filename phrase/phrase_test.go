package phrase_test

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
	"github.com/halfnote/seq/rhythm"
	"github.com/halfnote/seq/timebase"
)

func fourOnTheFloor(tb timebase.BeatTimeBase) rhythm.Rhythm {
	ev := make([]event.Event, 4)
	for i := range ev {
		ev[i] = event.NewNote(event.NewNoteEvent(nil, note.Note(60+i)))
	}
	p := pattern.FromBools(true, true, true, true)
	it := eventiter.NewFixed(ev...)
	return rhythm.NewBeatTimeRhythm(tb, timebase.BeatTimeStep{Kind: timebase.Beats, Steps: 1.0}, p, gate.NewDefault(), it)
}

func offbeat(tb timebase.BeatTimeBase, offset timebase.SampleTime) rhythm.Rhythm {
	ev := make([]event.Event, 4)
	for i := range ev {
		ev[i] = event.NewNote(event.NewNoteEvent(nil, note.Note(80+i)))
	}
	p := pattern.FromBools(true, true, true, true)
	it := eventiter.NewFixed(ev...)
	r := rhythm.NewBeatTimeRhythm(tb, timebase.BeatTimeStep{Kind: timebase.Beats, Steps: 1.0}, p, gate.NewDefault(), it)
	r.SetSampleOffset(offset)
	return r
}

func TestNextInterleavesBySmallestSampleTime(t *testing.T) {
	tb := timebase.BeatTimeBase{BeatsPerMin: 120, BeatsPerBar: 4, SamplesPerSec: 44100}
	ph := phrase.New(tb, timebase.BeatTimeStep{Kind: timebase.Bar, Steps: 1},
		phrase.NewRhythmSlot(fourOnTheFloor(tb)),
		phrase.NewRhythmSlot(offbeat(tb, 11025)),
	)

	type pair struct {
		slot int
		st   timebase.SampleTime
	}
	var got []pair
	for i := 0; i < 4; i++ {
		idx, st, ev, ok := ph.Next()
		require.True(t, ok)
		require.NotNil(t, ev)
		got = append(got, pair{idx, st})
	}

	want := []pair{
		{0, 0},
		{1, 11025},
		{0, 22050},
		{1, 33075},
	}
	assert.Equal(t, want, got)
}

func TestRunUntilTimeStopsBeforeBound(t *testing.T) {
	tb := timebase.BeatTimeBase{BeatsPerMin: 120, BeatsPerBar: 4, SamplesPerSec: 44100}
	ph := phrase.New(tb, timebase.BeatTimeStep{Kind: timebase.Bar, Steps: 1}, phrase.NewRhythmSlot(fourOnTheFloor(tb)))

	var times []timebase.SampleTime
	ph.RunUntilTime(44100, func(slotIndex int, st timebase.SampleTime, ev *event.Event) {
		times = append(times, st)
	})
	assert.Equal(t, []timebase.SampleTime{0, 22050}, times)

	// the withheld pair at 44100 must still be delivered on a later call.
	ph.RunUntilTime(44101, func(slotIndex int, st timebase.SampleTime, ev *event.Event) {
		times = append(times, st)
	})
	assert.Equal(t, []timebase.SampleTime{0, 22050, 44100}, times)
}

func TestStopSlotNeverEmits(t *testing.T) {
	tb := timebase.BeatTimeBase{BeatsPerMin: 120, BeatsPerBar: 4, SamplesPerSec: 44100}
	ph := phrase.New(tb, timebase.BeatTimeStep{Kind: timebase.Bar, Steps: 1}, phrase.NewStopSlot())

	_, _, _, ok := ph.Next()
	assert.False(t, ok)
}

func TestContinueSlotInIsolationBehavesLikeStop(t *testing.T) {
	tb := timebase.BeatTimeBase{BeatsPerMin: 120, BeatsPerBar: 4, SamplesPerSec: 44100}
	ph := phrase.New(tb, timebase.BeatTimeStep{Kind: timebase.Bar, Steps: 1}, phrase.NewContinueSlot())

	_, _, _, ok := ph.Next()
	assert.False(t, ok)
}

func TestAdoptSlotPreservesRunningState(t *testing.T) {
	tb := timebase.BeatTimeBase{BeatsPerMin: 120, BeatsPerBar: 4, SamplesPerSec: 44100}
	r := fourOnTheFloor(tb)
	// advance the rhythm before it is adopted.
	r.NextUntilTime(1 << 30)
	r.NextUntilTime(1 << 30)

	ph := phrase.New(tb, timebase.BeatTimeStep{Kind: timebase.Bar, Steps: 1}, phrase.NewContinueSlot())
	ph.AdoptSlot(0, r)

	_, st, ev, ok := ph.Next()
	require.True(t, ok)
	require.NotNil(t, ev)
	assert.Equal(t, timebase.SampleTime(44100), st, "adopted rhythm must not be reset")
}

func TestResetRestoresAllSlotsIndependently(t *testing.T) {
	tb := timebase.BeatTimeBase{BeatsPerMin: 120, BeatsPerBar: 4, SamplesPerSec: 44100}
	ph := phrase.New(tb, timebase.BeatTimeStep{Kind: timebase.Bar, Steps: 1}, phrase.NewRhythmSlot(fourOnTheFloor(tb)))

	ph.Next()
	ph.Next()
	ph.Reset()

	_, st, _, ok := ph.Next()
	require.True(t, ok)
	assert.Equal(t, timebase.SampleTime(0), st)
}

func TestSetSampleOffsetShiftsAllChildren(t *testing.T) {
	tb := timebase.BeatTimeBase{BeatsPerMin: 120, BeatsPerBar: 4, SamplesPerSec: 44100}
	ph := phrase.New(tb, timebase.BeatTimeStep{Kind: timebase.Bar, Steps: 1}, phrase.NewRhythmSlot(fourOnTheFloor(tb)))
	ph.SetSampleOffset(1000)

	_, st, _, ok := ph.Next()
	require.True(t, ok)
	assert.Equal(t, timebase.SampleTime(1000), st)
}

func TestDuplicateIsIndependent(t *testing.T) {
	tb := timebase.BeatTimeBase{BeatsPerMin: 120, BeatsPerBar: 4, SamplesPerSec: 44100}
	ph := phrase.New(tb, timebase.BeatTimeStep{Kind: timebase.Bar, Steps: 1}, phrase.NewRhythmSlot(fourOnTheFloor(tb)))
	ph.Next()

	dup, err := ph.Duplicate()
	require.NoError(t, err)

	_, stOrig, _, _ := ph.Next()
	_, stDup, _, _ := dup.Next()
	assert.Equal(t, stOrig, stDup)

	_, stOrig2, _, _ := ph.Next()
	_, stDup2, _, _ := dup.Next()
	assert.Equal(t, stOrig2, stDup2, "both advance independently but in lockstep since inputs were identical")
}
