package gate

import (
	clone "github.com/huandu/go-clone/generic"

	"github.com/halfnote/seq/internal/xoshiro"
	"github.com/halfnote/seq/pulse"
)

// Probability emits a triggered pulse with probability pulse.Value * P
// (§4.4: "a probability gate interprets pulse.value ∈ (0,1] as the
// trigger probability"), drawing one deterministic random number per
// triggered step; untriggered pulses never emit regardless of P. P
// scales every pulse's own weight uniformly (P=1, the default from
// NewProbability, leaves pulse.Value as the probability verbatim;
// smaller P dials back a uniformly-weighted pattern, e.g.
// pattern.FromBools, without rewriting it into per-step weights).
// Seeded so a given seed always reproduces the same sequence of
// keep/drop decisions.
type Probability struct {
	P    float64
	seed uint64
	rng  *xoshiro.Rng
}

var _ Gate = (*Probability)(nil)

// NewProbability builds a Probability gate scaling every triggered
// pulse's own Value by p (0.0 never emits, 1.0 leaves pulse.Value
// unscaled), seeded deterministically from seed.
func NewProbability(p float64, seed uint64) *Probability {
	return &Probability{P: p, seed: seed, rng: xoshiro.New(seed)}
}

func (g *Probability) Run(p pulse.Item) bool {
	if !p.Triggered() {
		return false
	}
	return g.rng.Float64() < p.Value*g.P
}

func (g *Probability) Duplicate() Gate {
	return &Probability{P: g.P, seed: g.seed, rng: clone.Clone(g.rng)}
}

func (g *Probability) Reset() {
	g.rng = xoshiro.New(g.seed)
}
