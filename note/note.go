// Package note implements the pitch domain: parsing note names, semitone
// arithmetic with saturation, and the Chord/Scale helpers built on top of
// it.
package note

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/halfnote/seq/seqerr"
)

// Note is a MIDI-range pitch, 0..=127. Rest is a sentinel used by higher
// layers (Event/Cycle); it is not a valid Note value and must never be
// stored in a NoteEvent.
type Note uint8

const (
	MinNote Note = 0
	MaxNote Note = 127
)

var noteLetters = map[byte]int{
	'c': 0, 'd': 2, 'e': 4, 'f': 5, 'g': 7, 'a': 9, 'b': 11,
}

// Parse accepts forms like "c4", "C4", "c_4", "d#3", "eb5". The octave
// follows the MIDI convention where C4 (middle C) is note number 60,
// i.e. octave -1 maps to note 0. A bare "...", "~" or an empty string
// denotes a rest and is reported via rest=true with a nil error.
func Parse(s string) (n Note, rest bool, err error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "..." || trimmed == "~" || trimmed == "" {
		return 0, true, nil
	}
	lower := strings.ToLower(trimmed)
	letter := lower[0]
	base, ok := noteLetters[letter]
	if !ok {
		return 0, false, seqerr.NewConversionError("note name", s)
	}
	rest0 := lower[1:]
	accidental := 0
	idx := 0
	for idx < len(rest0) && (rest0[idx] == '#' || rest0[idx] == 'b') {
		if rest0[idx] == '#' {
			accidental++
		} else {
			accidental--
		}
		idx++
	}
	rest0 = rest0[idx:]
	rest0 = strings.TrimPrefix(rest0, "_")
	octave := 4
	if rest0 != "" {
		o, perr := strconv.Atoi(rest0)
		if perr != nil {
			return 0, false, seqerr.NewConversionError("note octave", s)
		}
		octave = o
	}
	value := base + accidental + (octave+1)*12
	return saturate(value), false, nil
}

// saturate clamps an arbitrary semitone offset into [0, 127].
func saturate(v int) Note {
	if v < int(MinNote) {
		return MinNote
	}
	if v > int(MaxNote) {
		return MaxNote
	}
	return Note(v)
}

// Transpose shifts a note by semitones, clamping to [0, 127].
func Transpose(n Note, semitones int) Note {
	return saturate(int(n) + semitones)
}

var names = []string{"c", "c#", "d", "d#", "e", "f", "f#", "g", "g#", "a", "a#", "b"}

// String renders a Note as e.g. "c#4".
func (n Note) String() string {
	octave := int(n)/12 - 1
	return fmt.Sprintf("%s%d", names[int(n)%12], octave)
}
