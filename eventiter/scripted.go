package eventiter

import (
	"github.com/halfnote/seq/event"
	"github.com/halfnote/seq/pulse"
	"github.com/halfnote/seq/script"
	"github.com/halfnote/seq/timebase"
)

// Scripted wraps an opaque user callback. On each Run it passes the
// pulse step index, the pulse's step time and the pattern length to the
// callback; the time base and external context reach it through
// SetTimeBase and SetExternalContext. The pulse value itself is not
// passed to the callback. A callback error degrades the iterator to
// emitting nil until Reset.
type Scripted struct {
	callback  script.Callback
	timeBase  timebase.TimeBase
	external  map[string]float64
	step      uint64
	errored   bool
}

var _ EventIter = (*Scripted)(nil)

// NewScripted wraps the given callback as an EventIter.
func NewScripted(callback script.Callback) *Scripted {
	return &Scripted{callback: callback}
}

func (s *Scripted) SetTimeBase(tb timebase.TimeBase) {
	s.timeBase = tb
	if err := s.callback.SetTimeBase(tb); err != nil {
		s.callback.HandleError(err)
		s.errored = true
	}
}

func (s *Scripted) SetExternalContext(data map[string]float64) {
	s.external = data
	if err := s.callback.SetExternalContext(data); err != nil {
		s.callback.HandleError(err)
		s.errored = true
	}
}

func (s *Scripted) Run(p pulse.Item, patternLength uint32, emitEvent bool) *event.Event {
	if err := s.callback.SetPulseContext(s.step, p.StepTime, patternLength); err != nil {
		s.callback.HandleError(err)
		s.errored = true
	}
	s.step++
	if !emitEvent || s.errored {
		return nil
	}
	value, err := s.callback.Call()
	if err != nil {
		s.callback.HandleError(err)
		s.errored = true
		return nil
	}
	ev, err := script.EventFromValue(value)
	if err != nil {
		s.callback.HandleError(err)
		s.errored = true
		return nil
	}
	return ev
}

func (s *Scripted) Duplicate() (EventIter, error) {
	dup, err := s.callback.Duplicate()
	if err != nil {
		return nil, err
	}
	return &Scripted{callback: dup, timeBase: s.timeBase, external: s.external, step: s.step, errored: s.errored}, nil
}

func (s *Scripted) Reset() {
	s.step = 0
	s.errored = false
	if err := s.callback.Reset(); err != nil {
		s.callback.HandleError(err)
		s.errored = true
	}
}
