package pattern

import (
	clone "github.com/huandu/go-clone/generic"

	"github.com/halfnote/seq/pulse"
	"github.com/halfnote/seq/script"
	"github.com/halfnote/seq/timebase"
)

// Scripted drives a user-supplied script.Callback once per exhausted
// sub-list to produce the next Pulse, grounded on pattern/scripted.rs.
// Its length is not known in advance, so IsEmpty always reports false
// and Len reports the length of the most recently generated sub-list.
type Scripted struct {
	callback    script.Callback
	iter        *pulse.Iter
	lastLen     int
	step        uint64
	repeatCount *int
	iterations  int
	errored     bool
}

var _ Pattern = (*Scripted)(nil)

// NewScripted builds a Scripted pattern wrapping callback.
func NewScripted(callback script.Callback) *Scripted {
	return &Scripted{callback: callback}
}

func (s *Scripted) IsEmpty() bool { return false }
func (s *Scripted) Len() int      { return s.lastLen }

func (s *Scripted) SetTimeBase(tb timebase.TimeBase) {
	if err := s.callback.SetTimeBase(tb); err != nil {
		s.fail(err)
	}
}

func (s *Scripted) SetExternalContext(data map[string]float64) {
	if err := s.callback.SetExternalContext(data); err != nil {
		s.fail(err)
	}
}

func (s *Scripted) SetRepeatCount(count *int) {
	if count == nil {
		s.repeatCount = nil
		return
	}
	c := *count
	s.repeatCount = &c
}

func (s *Scripted) fail(err error) {
	s.errored = true
	s.callback.HandleError(err)
}

func (s *Scripted) Run() (pulse.Item, bool) {
	if s.errored {
		return pulse.Item{}, false
	}
	if item, ok := s.iter.Next(); ok {
		return item, true
	}
	if s.repeatCount != nil && s.iterations > *s.repeatCount {
		return pulse.Item{}, false
	}
	if err := s.callback.SetPulseContext(s.step, 1.0, uint32(s.lastLen)); err != nil {
		s.fail(err)
		return pulse.Item{}, false
	}
	val, err := s.callback.Call()
	if err != nil {
		s.fail(err)
		return pulse.Item{}, false
	}
	p, err := script.PulseFromValue(val)
	if err != nil {
		s.fail(err)
		return pulse.Item{}, false
	}
	if len(p) == 0 {
		p = pulse.Pulse{pulse.Default()}
	}
	s.iter = pulse.NewIter(p)
	s.lastLen = len(p)
	s.step++
	s.iterations++
	item, _ := s.iter.Next()
	return item, true
}

func (s *Scripted) Duplicate() (Pattern, error) {
	cb, err := s.callback.Duplicate()
	if err != nil {
		return nil, err
	}
	return &Scripted{
		callback:    cb,
		iter:        clone.Clone(s.iter),
		lastLen:     s.lastLen,
		step:        s.step,
		repeatCount: clone.Clone(s.repeatCount),
		iterations:  s.iterations,
		errored:     s.errored,
	}, nil
}

func (s *Scripted) Reset() {
	s.iter = nil
	s.lastLen = 0
	s.step = 0
	s.iterations = 0
	s.errored = false
	if err := s.callback.Reset(); err != nil {
		s.fail(err)
	}
}
