package eventiter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halfnote/seq/event"
	"github.com/halfnote/seq/note"
	"github.com/halfnote/seq/pulse"
	"github.com/halfnote/seq/script"
)

func noteEv(n note.Note) event.Event {
	return event.NewNote(event.NewNoteEvent(nil, n))
}

func TestEmptyAlwaysNil(t *testing.T) {
	e := NewEmpty()
	assert.Nil(t, e.Run(pulse.Item{Value: 1}, 1, true))
	assert.Nil(t, e.Run(pulse.Item{Value: 1}, 1, false))
}

func TestFixedWrapsModuloLength(t *testing.T) {
	n60, _, _ := note.Parse("c4")
	n62, _, _ := note.Parse("d4")
	f := NewFixed(noteEv(n60), noteEv(n62))

	got := f.Run(pulse.Item{Value: 1}, 1, true)
	require.NotNil(t, got)
	assert.Equal(t, n60, got.NoteEvents[0].Note)

	got = f.Run(pulse.Item{Value: 1}, 1, true)
	require.NotNil(t, got)
	assert.Equal(t, n62, got.NoteEvents[0].Note)

	// wraps
	got = f.Run(pulse.Item{Value: 1}, 1, true)
	require.NotNil(t, got)
	assert.Equal(t, n60, got.NoteEvents[0].Note)
}

func TestFixedDoesNotAdvanceWhenNotEmitted(t *testing.T) {
	n60, _, _ := note.Parse("c4")
	n62, _, _ := note.Parse("d4")
	f := NewFixed(noteEv(n60), noteEv(n62))

	assert.Nil(t, f.Run(pulse.Item{Value: 0}, 1, false))
	got := f.Run(pulse.Item{Value: 1}, 1, true)
	require.NotNil(t, got)
	assert.Equal(t, n60, got.NoteEvents[0].Note, "position must not have advanced on the skipped step")
}

func TestFixedResetIdempotence(t *testing.T) {
	n60, _, _ := note.Parse("c4")
	n62, _, _ := note.Parse("d4")
	f := NewFixed(noteEv(n60), noteEv(n62))

	f.Run(pulse.Item{Value: 1}, 1, true)
	f.Reset()
	got := f.Run(pulse.Item{Value: 1}, 1, true)
	require.NotNil(t, got)
	assert.Equal(t, n60, got.NoteEvents[0].Note)
}

func TestMappedAppliesTranspose(t *testing.T) {
	n60, _, _ := note.Parse("c4")
	transposeBy := func(semitones int) MapFn {
		return func(e event.Event) event.Event {
			out := e.Clone()
			for _, ne := range out.NoteEvents {
				if ne != nil {
					ne.Note = note.Transpose(ne.Note, semitones)
				}
			}
			return out
		}
	}
	m := NewMapped([]event.Event{noteEv(n60)}, func() MapFn { return transposeBy(2) })

	got := m.Run(pulse.Item{Value: 1}, 1, true)
	require.NotNil(t, got)
	assert.Equal(t, n60, got.NoteEvents[0].Note, "first emitted event is pre-mutation state captured at construction")

	got = m.Run(pulse.Item{Value: 1}, 1, true)
	require.NotNil(t, got)
	assert.Equal(t, note.Transpose(n60, 2), got.NoteEvents[0].Note)
}

func TestMappedDuplicateFails(t *testing.T) {
	n60, _, _ := note.Parse("c4")
	m := NewMapped([]event.Event{noteEv(n60)}, func() MapFn { return func(e event.Event) event.Event { return e } })
	_, err := m.Duplicate()
	assert.Error(t, err)
}

func TestScriptedDegradesOnCallbackError(t *testing.T) {
	calls := 0
	mock := script.NewMock(func() func(script.Context) (script.Value, error) {
		return func(ctx script.Context) (script.Value, error) {
			calls++
			return script.Value{Kind: script.ValueInteger, Int: 60}, nil
		}
	})
	s := NewScripted(mock)

	got := s.Run(pulse.Item{Value: 1}, 1, true)
	require.NotNil(t, got)

	mock.HandleError(assertErr{})
	got = s.Run(pulse.Item{Value: 1}, 1, true)
	assert.Nil(t, got, "a failed callback must degrade to emitting nil until reset")

	s.Reset()
	got = s.Run(pulse.Item{Value: 1}, 1, true)
	assert.NotNil(t, got, "reset must restore normal operation")
}

func TestScriptedThreadsPatternLengthFromCaller(t *testing.T) {
	var gotLen uint32
	mock := script.NewMock(func() func(script.Context) (script.Value, error) {
		return func(ctx script.Context) (script.Value, error) {
			gotLen = ctx.PulsePatternLength
			return script.Value{Kind: script.ValueInteger, Int: 60}, nil
		}
	})
	s := NewScripted(mock)

	s.Run(pulse.Item{Value: 1}, 4, true)
	assert.Equal(t, uint32(4), gotLen, "Run must forward the caller's pattern length, not a hardcoded constant")

	s.Run(pulse.Item{Value: 1}, 7, true)
	assert.Equal(t, uint32(7), gotLen, "pattern length must track the caller's current value across steps")
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
