package cycle

import (
	"math/big"

	"github.com/halfnote/seq/internal/xoshiro"
)

type cellKind int

const (
	cellNote cellKind = iota
	cellRest
	cellHold
)

// cell is one terminal value before note/number/name parsing is
// resolved into an event; kept as raw text so the evaluator stays
// independent of the note-parsing layer.
type cell struct {
	kind   cellKind
	text   string
	target string
}

// timedCell is a cell with the (relative, not yet transformed into an
// outer span) interval it occupies.
type timedCell struct {
	span Span
	cell cell
}

// channel is an ordered, non-overlapping list of timedCells tiling
// [0,1) (before hold/rest merge).
type channel []timedCell

// evalState threads per-node runtime state (Alternating.current,
// Polymeter.offset, each node's private RNG stream) through one
// Generate() call; it is owned by Cycle and never shared.
type evalState struct {
	altCurrent []int
	polyOffset []int
	nodeRngs   []*xoshiro.Rng
	iteration  uint64
}

// evalNode evaluates n within the local frame [0,1), returning one or
// more parallel channels. Compound nodes other than Stack/Choices pass
// a single channel count through unless a descendant Stack introduces
// more; channels are combined by replicating lower-cardinality children
// across the higher channel count (the common Tidal idiom for a Stack
// nested inside a Subdivision/Polymeter slot).
func (st *evalState) evalNode(n *node) []channel {
	var chans []channel
	switch n.kind {
	case nodeSingle:
		chans = []channel{{{span: FullSpan(), cell: cellFromText(n.text)}}}
	case nodeSubdivision:
		chans = st.combineSequential(n.children)
	case nodeStack:
		chans = st.combineParallel(n.children)
	case nodeChoices:
		chans = st.evalChoices(n)
	case nodeAlternating:
		chans = st.evalAlternating(n)
	case nodePolymeter:
		chans = st.evalPolymeter(n)
	case nodeBjorklund:
		chans = st.evalBjorklund(n)
	default:
		chans = []channel{{{span: FullSpan(), cell: cell{kind: cellRest}}}}
	}
	return st.applyOps(n, chans)
}

func cellFromText(text string) cell {
	switch text {
	case "~":
		return cell{kind: cellRest}
	case "_":
		return cell{kind: cellHold}
	default:
		return cell{kind: cellNote, text: text}
	}
}

// combineSequential subdivides [0,1) equally among children (normalized
// so their lengths sum to 1), evaluating each within its own local
// frame and transforming the result into its reserved slot.
func (st *evalState) combineSequential(children []*node) []channel {
	if len(children) == 0 {
		return []channel{{{span: FullSpan(), cell: cell{kind: cellRest}}}}
	}
	n := len(children)
	childChannels := make([][]channel, n)
	maxCh := 1
	for i, c := range children {
		childChannels[i] = st.evalNode(c)
		if len(childChannels[i]) > maxCh {
			maxCh = len(childChannels[i])
		}
	}
	out := make([]channel, maxCh)
	for idx := 0; idx < maxCh; idx++ {
		var merged channel
		for i := range children {
			slot := NewSpan(big.NewRat(int64(i), int64(n)), big.NewRat(int64(i+1), int64(n)))
			chIdx := idx % len(childChannels[i])
			for _, tc := range childChannels[i][chIdx] {
				merged = append(merged, timedCell{span: tc.span.Transform(slot), cell: tc.cell})
			}
		}
		out[idx] = merged
	}
	return out
}

// combineParallel concatenates each child's own channels as independent
// output channels, all covering the full [0,1) span (Stack, §4.6).
func (st *evalState) combineParallel(children []*node) []channel {
	var out []channel
	for _, c := range children {
		out = append(out, st.evalNode(c)...)
	}
	if len(out) == 0 {
		return []channel{{{span: FullSpan(), cell: cell{kind: cellRest}}}}
	}
	return out
}

// evalChoices deterministically draws one child per cycle iteration
// using this node's private RNG stream (§4.6, "Random constructs use a
// splittable seeded RNG").
func (st *evalState) evalChoices(n *node) []channel {
	if len(n.children) == 0 {
		return []channel{{{span: FullSpan(), cell: cell{kind: cellRest}}}}
	}
	idx := st.nodeRngs[n.id].Intn(len(n.children))
	return st.evalNode(n.children[idx])
}

// evalAlternating picks the next child round-robin, persisting its
// position across cycle iterations in Cycle's runtime state.
func (st *evalState) evalAlternating(n *node) []channel {
	if len(n.children) == 0 {
		return []channel{{{span: FullSpan(), cell: cell{kind: cellRest}}}}
	}
	cur := st.altCurrent[n.id] % len(n.children)
	st.altCurrent[n.id] = (st.altCurrent[n.id] + 1) % len(n.children)
	return st.evalNode(n.children[cur])
}

// evalPolymeter takes polyN successive children (wrapping, continuing
// the rotation across cycles) and lays them out as an ordinary
// subdivision of polyN equal slots.
func (st *evalState) evalPolymeter(n *node) []channel {
	if len(n.children) == 0 || n.polyN <= 0 {
		count := n.polyN
		if count <= 0 {
			count = 1
		}
		var ch channel
		for i := 0; i < count; i++ {
			slot := NewSpan(big.NewRat(int64(i), int64(count)), big.NewRat(int64(i+1), int64(count)))
			ch = append(ch, timedCell{span: slot, cell: cell{kind: cellRest}})
		}
		return []channel{ch}
	}
	total := len(n.children)
	offset := st.polyOffset[n.id]
	selected := make([]*node, n.polyN)
	for i := 0; i < n.polyN; i++ {
		selected[i] = n.children[(offset+i)%total]
	}
	st.polyOffset[n.id] = (offset + n.polyN) % total
	return st.combineSequential(selected)
}

// evalBjorklund distributes the operand's content over k pulses among n
// steps (§4.6); the operand is expected to contribute one representative
// cell per channel (the common case — a single token), replicated at
// each triggered step and rested elsewhere.
func (st *evalState) evalBjorklund(n *node) []channel {
	mask := euclid(n.bjK, n.bjN, n.bjR)
	operandChannels := st.evalNode(n.children[0])
	out := make([]channel, len(operandChannels))
	for chIdx, opCh := range operandChannels {
		rep := cell{kind: cellRest}
		for _, tc := range opCh {
			if tc.cell.kind != cellRest {
				rep = tc.cell
				break
			}
		}
		var ch channel
		steps := len(mask)
		for i, triggered := range mask {
			slot := NewSpan(big.NewRat(int64(i), int64(steps)), big.NewRat(int64(i+1), int64(steps)))
			c := cell{kind: cellRest}
			if triggered {
				c = rep
			}
			ch = append(ch, timedCell{span: slot, cell: c})
		}
		out[chIdx] = ch
	}
	return out
}

// applyOps applies each step's trailing operators (`* ! : ?`) to all
// channels it evaluated to. `!` (replicate) is handled at parse time by
// duplicating the step node, so only Fast, Target and Degrade appear
// here. Degrade draws from the node's own RNG stream, so repeated plays
// of the same cycle iteration (e.g. after Reset) reproduce the same
// keep/drop decisions.
func (st *evalState) applyOps(n *node, chans []channel) []channel {
	for _, o := range n.ops {
		switch o.kind {
		case opFast:
			for i, ch := range chans {
				chans[i] = fastChannel(ch, o.n)
			}
		case opTarget:
			for i, ch := range chans {
				for j := range ch {
					ch[j].cell.target = o.target
				}
				chans[i] = ch
			}
		case opDegrade:
			rng := st.nodeRngs[n.id]
			for i, ch := range chans {
				for j := range ch {
					if ch[j].cell.kind == cellNote && rng.Float64() >= o.n {
						ch[j].cell = cell{kind: cellRest}
					}
				}
				chans[i] = ch
			}
		}
	}
	return chans
}

// fastChannel repeats ch n times within [0,1), each repetition scaled
// down to 1/n of the original span (Operator `*n`, §4.6).
func fastChannel(ch channel, n float64) channel {
	reps := int(n)
	if reps < 1 {
		reps = 1
	}
	var out channel
	for r := 0; r < reps; r++ {
		slot := NewSpan(big.NewRat(int64(r), int64(reps)), big.NewRat(int64(r+1), int64(reps)))
		for _, tc := range ch {
			out = append(out, timedCell{span: tc.span.Transform(slot), cell: tc.cell})
		}
	}
	return out
}
