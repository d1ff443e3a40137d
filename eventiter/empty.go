package eventiter

import (
	"github.com/halfnote/seq/event"
	"github.com/halfnote/seq/pulse"
	"github.com/halfnote/seq/timebase"
)

// Empty emits nil forever, mirroring the source's EmptyEventIter.
type Empty struct{}

var _ EventIter = (*Empty)(nil)

// NewEmpty builds an Empty event iter.
func NewEmpty() *Empty { return &Empty{} }

func (e *Empty) SetTimeBase(timebase.TimeBase)         {}
func (e *Empty) SetExternalContext(map[string]float64) {}
func (e *Empty) Run(pulse.Item, uint32, bool) *event.Event { return nil }
func (e *Empty) Duplicate() (EventIter, error)          { return &Empty{}, nil }
func (e *Empty) Reset()                                 {}
