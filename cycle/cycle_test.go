package cycle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halfnote/seq/cycle"
	"github.com/halfnote/seq/note"
)

func noteOf(t *testing.T, ev cycle.Event) note.Note {
	t.Helper()
	require.NotNil(t, ev.Ev)
	require.Len(t, ev.Ev.NoteEvents, 1)
	require.NotNil(t, ev.Ev.NoteEvents[0])
	return ev.Ev.NoteEvents[0].Note
}

func TestSequenceOfFourSingles(t *testing.T) {
	c, err := cycle.NewCycle("a b c d", 1)
	require.NoError(t, err)

	chans, err := c.Generate()
	require.NoError(t, err)
	require.Len(t, chans, 1)
	require.Len(t, chans[0], 4)

	want := []note.Note{69, 71, 60, 62} // A4, B4, C4, D4
	for i, w := range want {
		assert.Equal(t, w, noteOf(t, chans[0][i]))
		sf, ef := chans[0][i].Span.Float64()
		assert.InDelta(t, float64(i)/4.0, sf, 1e-9)
		assert.InDelta(t, float64(i+1)/4.0, ef, 1e-9)
	}
}

func TestNestedSubdivisionUnequalInnerCounts(t *testing.T) {
	c, err := cycle.NewCycle("[a a] [b4 b5 b6] [c0 d1 c2 d3]", 1)
	require.NoError(t, err)

	chans, err := c.Generate()
	require.NoError(t, err)
	require.Len(t, chans, 1)
	require.Len(t, chans[0], 2+3+4)

	for i := 0; i < 2; i++ {
		_, ef := chans[0][i].Span.Float64()
		sf, _ := chans[0][i].Span.Float64()
		assert.InDelta(t, 1.0/6.0, ef-sf, 1e-9)
	}
	for i := 2; i < 5; i++ {
		sf, ef := chans[0][i].Span.Float64()
		assert.InDelta(t, 1.0/9.0, ef-sf, 1e-9)
	}
	for i := 5; i < 9; i++ {
		sf, ef := chans[0][i].Span.Float64()
		assert.InDelta(t, 1.0/12.0, ef-sf, 1e-9)
	}
}

func TestAlternatingRoundRobinsAndWraps(t *testing.T) {
	c, err := cycle.NewCycle("<a b c d>", 1)
	require.NoError(t, err)

	want := []note.Note{69, 71, 60, 62, 69}
	for _, w := range want {
		chans, err := c.Generate()
		require.NoError(t, err)
		require.Len(t, chans, 1)
		require.Len(t, chans[0], 1)
		assert.Equal(t, w, noteOf(t, chans[0][0]))
	}
}

func TestAlternatingResetRewindsPosition(t *testing.T) {
	c, err := cycle.NewCycle("<a b c>", 7)
	require.NoError(t, err)
	c.Generate()
	c.Generate()
	c.Reset()
	chans, err := c.Generate()
	require.NoError(t, err)
	assert.Equal(t, note.Note(69), noteOf(t, chans[0][0]))
}

func TestBjorklund3of8(t *testing.T) {
	c, err := cycle.NewCycle("x(3,8)", 1)
	require.NoError(t, err)

	chans, err := c.Generate()
	require.NoError(t, err)
	require.Len(t, chans, 1)

	var triggeredStarts []float64
	for _, ev := range chans[0] {
		if ev.Ev != nil {
			sf, _ := ev.Span.Float64()
			triggeredStarts = append(triggeredStarts, sf)
		}
	}
	require.Len(t, triggeredStarts, 3)
	assert.InDelta(t, 0.0, triggeredStarts[0], 1e-9)
	assert.InDelta(t, 3.0/8.0, triggeredStarts[1], 1e-9)
	assert.InDelta(t, 6.0/8.0, triggeredStarts[2], 1e-9)
}

func TestSeedDeterminism(t *testing.T) {
	a, err := cycle.NewCycle("[a|b|c]*4 ?0.5", 42)
	require.NoError(t, err)
	b, err := cycle.NewCycle("[a|b|c]*4 ?0.5", 42)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		ca, err := a.Generate()
		require.NoError(t, err)
		cb, err := b.Generate()
		require.NoError(t, err)
		assert.Equal(t, ca, cb)
	}
}

func TestStackProducesParallelChannels(t *testing.T) {
	c, err := cycle.NewCycle("[a, b]", 1)
	require.NoError(t, err)

	chans, err := c.Generate()
	require.NoError(t, err)
	require.Len(t, chans, 2)
	assert.Equal(t, note.Note(69), noteOf(t, chans[0][0]))
	assert.Equal(t, note.Note(71), noteOf(t, chans[1][0]))
}

func TestRestAndHoldMergeCleanup(t *testing.T) {
	c, err := cycle.NewCycle("~ a _ ~ ~ b", 1)
	require.NoError(t, err)

	chans, err := c.Generate()
	require.NoError(t, err)
	require.Len(t, chans, 1)

	// leading rest dropped; `a` extended over the hold slot; the two
	// rests before `b` collapse into one.
	require.Len(t, chans[0], 3)
	assert.Equal(t, note.Note(69), noteOf(t, chans[0][0]))
	sf, ef := chans[0][0].Span.Float64()
	assert.InDelta(t, 1.0/6.0, sf, 1e-9)
	assert.InDelta(t, 3.0/6.0, ef, 1e-9)
	assert.Nil(t, chans[0][1].Ev)
	assert.Equal(t, note.Note(71), noteOf(t, chans[0][2]))
}

func TestParseErrorOnUnimplementedSlowOperator(t *testing.T) {
	_, err := cycle.NewCycle("a/2", 1)
	assert.Error(t, err)
}

func TestEmptyGroupProducesRest(t *testing.T) {
	c, err := cycle.NewCycle("[] a", 1)
	require.NoError(t, err)
	chans, err := c.Generate()
	require.NoError(t, err)
	require.Len(t, chans, 1)
	// the empty group's rest is leading and gets dropped by rest-merge.
	require.Len(t, chans[0], 1)
	assert.Equal(t, note.Note(69), noteOf(t, chans[0][0]))
}

func TestParseErrorOnStackNestedInStack(t *testing.T) {
	_, err := cycle.NewCycle("[a,b], c", 1)
	assert.Error(t, err)

	_, err = cycle.NewCycle("a, [b,c]", 1)
	assert.Error(t, err)

	_, err = cycle.NewCycle("[[a,b],c]", 1)
	assert.Error(t, err)
}
