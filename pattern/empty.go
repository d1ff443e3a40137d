package pattern

import (
	"github.com/halfnote/seq/pulse"
	"github.com/halfnote/seq/timebase"
)

// Empty never triggers a pulse, grounded on pattern/empty.rs.
type Empty struct{}

var _ Pattern = (*Empty)(nil)

// NewEmpty builds an Empty pattern.
func NewEmpty() *Empty { return &Empty{} }

func (e *Empty) IsEmpty() bool                         { return true }
func (e *Empty) Len() int                               { return 0 }
func (e *Empty) SetTimeBase(timebase.TimeBase)          {}
func (e *Empty) SetExternalContext(map[string]float64)  {}
func (e *Empty) SetRepeatCount(*int)                    {}
func (e *Empty) Duplicate() (Pattern, error)            { return &Empty{}, nil }
func (e *Empty) Reset()                                 {}

// Run panics: empty patterns should never be run (spec.md §7).
func (e *Empty) Run() (pulse.Item, bool) {
	panic("empty patterns should not be run")
}
