package note

import (
	"strings"

	"github.com/halfnote/seq/seqerr"
)

// modeIntervals maps a scale/mode name to its semitone intervals above
// the tonic, grounded on the mode names exercised by the source's
// scale bindings test (natural major, harmonic minor, ...).
var modeIntervals = map[string][]int{
	"natural major":  {0, 2, 4, 5, 7, 9, 11},
	"major":          {0, 2, 4, 5, 7, 9, 11},
	"natural minor":  {0, 2, 3, 5, 7, 8, 10},
	"minor":          {0, 2, 3, 5, 7, 8, 10},
	"harmonic minor": {0, 2, 3, 5, 7, 8, 11},
	"melodic minor":  {0, 2, 3, 5, 7, 9, 11},
	"dorian":         {0, 2, 3, 5, 7, 9, 10},
	"phrygian":       {0, 1, 3, 5, 7, 8, 10},
	"lydian":         {0, 2, 4, 6, 7, 9, 11},
	"mixolydian":     {0, 2, 4, 5, 7, 9, 10},
	"locrian":        {0, 1, 3, 5, 6, 8, 10},
	"chromatic":      {0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
}

// Scale is a tonic plus a set of notes built either from a named mode
// or from an explicit interval list.
type Scale struct {
	tonic     Note
	intervals []int
}

// NewScaleFromMode builds a Scale from a tonic note name (e.g. "c5") and
// a named mode (e.g. "natural major").
func NewScaleFromMode(tonic string, mode string) (Scale, error) {
	t, rest, err := Parse(tonic)
	if err != nil || rest {
		return Scale{}, seqerr.NewConversionError("scale tonic", tonic)
	}
	intervals, ok := modeIntervals[strings.ToLower(mode)]
	if !ok {
		return Scale{}, seqerr.NewConversionError("scale mode name", mode)
	}
	return Scale{tonic: t, intervals: intervals}, nil
}

// NewScaleFromIntervals builds a Scale from a tonic note name and an
// explicit list of semitone intervals above the tonic.
func NewScaleFromIntervals(tonic string, intervals []int) (Scale, error) {
	t, rest, err := Parse(tonic)
	if err != nil || rest {
		return Scale{}, seqerr.NewConversionError("scale tonic", tonic)
	}
	if len(intervals) == 0 {
		return Scale{}, seqerr.NewConversionError("non-empty interval list", intervals)
	}
	cp := make([]int, len(intervals))
	copy(cp, intervals)
	return Scale{tonic: t, intervals: cp}, nil
}

// Notes returns the scale's notes, each transposed (and clamped) from
// the tonic by its interval.
func (s Scale) Notes() []Note {
	out := make([]Note, len(s.intervals))
	for i, iv := range s.intervals {
		out[i] = Transpose(s.tonic, iv)
	}
	return out
}

// Chord is an explicit, unordered set of notes sounded together; it is a
// thin alias over a note vector rather than a derived structure.
type Chord []Note

// NewChord builds a Chord from a tonic note name and semitone intervals
// above it (e.g. NewChord("c4", 0, 4, 7) for a C major triad).
func NewChord(tonic string, intervals ...int) (Chord, error) {
	t, rest, err := Parse(tonic)
	if err != nil || rest {
		return nil, seqerr.NewConversionError("chord tonic", tonic)
	}
	c := make(Chord, len(intervals))
	for i, iv := range intervals {
		c[i] = Transpose(t, iv)
	}
	return c, nil
}
