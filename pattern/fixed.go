package pattern

import (
	clone "github.com/huandu/go-clone/generic"

	"github.com/halfnote/seq/pulse"
	"github.com/halfnote/seq/timebase"
)

// Fixed is a literal pulse train of fixed length, e.g. [1,0,1,0]. Each
// entry's weight becomes the pulse Value; StepTime is always 1.0.
type Fixed struct {
	weights     []float64
	pos         int
	repeatCount *int
	iterations  int
}

var _ Pattern = (*Fixed)(nil)

// NewFixed builds a Fixed pattern from a weight vector; 0 means
// untriggered, any positive value (commonly 1) means triggered with
// that weight.
func NewFixed(weights ...float64) *Fixed {
	return &Fixed{weights: weights}
}

// FromBools is a convenience constructor for boolean pulse trains.
func FromBools(bits ...bool) *Fixed {
	w := make([]float64, len(bits))
	for i, b := range bits {
		if b {
			w[i] = 1
		}
	}
	return NewFixed(w...)
}

func (f *Fixed) IsEmpty() bool { return len(f.weights) == 0 }
func (f *Fixed) Len() int      { return len(f.weights) }

func (f *Fixed) SetTimeBase(timebase.TimeBase)         {}
func (f *Fixed) SetExternalContext(map[string]float64) {}

func (f *Fixed) SetRepeatCount(count *int) {
	if count == nil {
		f.repeatCount = nil
		return
	}
	c := *count
	f.repeatCount = &c
}

func (f *Fixed) Run() (pulse.Item, bool) {
	if f.IsEmpty() {
		panic("empty patterns should not be run")
	}
	if f.pos == 0 && f.iterations > 0 && f.repeatCount != nil && f.iterations > *f.repeatCount {
		return pulse.Item{}, false
	}
	value := f.weights[f.pos]
	item := pulse.Item{Value: value, StepTime: 1.0}
	f.pos++
	if f.pos >= len(f.weights) {
		f.pos = 0
		f.iterations++
	}
	return item, true
}

func (f *Fixed) Duplicate() (Pattern, error) {
	return &Fixed{
		weights:     clone.Clone(f.weights),
		pos:         f.pos,
		repeatCount: clone.Clone(f.repeatCount),
		iterations:  f.iterations,
	}, nil
}

func (f *Fixed) Reset() {
	f.pos = 0
	f.iterations = 0
}
