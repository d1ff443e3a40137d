package cycle

import "math/big"

// Span is a rational half-open interval [start, end) ⊂ [0,1). No
// fraction library turned up anywhere in the retrieved example corpus,
// so the exact span algebra here is a justified stdlib-only leaf built
// on math/big.Rat (see DESIGN.md): truncating to float64 would violate
// the "spans tile [0,1) without overlap" invariant (§3) after enough
// nested subdivisions.
type Span struct {
	Start *big.Rat
	End   *big.Rat
}

// NewSpan builds a Span from two already-reduced rationals.
func NewSpan(start, end *big.Rat) Span {
	return Span{Start: start, End: end}
}

// FullSpan is the span [0, 1).
func FullSpan() Span {
	return Span{Start: big.NewRat(0, 1), End: big.NewRat(1, 1)}
}

// Length returns End - Start.
func (s Span) Length() *big.Rat {
	return new(big.Rat).Sub(s.End, s.Start)
}

// Transform affinely maps s (assumed relative to [0,1)) into outer's
// absolute span: result = outer.Start + s * outer.Length().
func (s Span) Transform(outer Span) Span {
	length := outer.Length()
	start := new(big.Rat).Mul(s.Start, length)
	start.Add(start, outer.Start)
	end := new(big.Rat).Mul(s.End, length)
	end.Add(end, outer.Start)
	return Span{Start: start, End: end}
}

// Float64 returns the (start, end) pair as float64, for callers (e.g.
// the rhythm bridge, tests) that don't need exact arithmetic.
func (s Span) Float64() (start, end float64) {
	sf, _ := s.Start.Float64()
	ef, _ := s.End.Float64()
	return sf, ef
}
