package cycle

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertTiles checks that ch's spans are contiguous, non-overlapping,
// and together cover exactly [0,1) — the pre-merge invariant in §3.
func assertTiles(t *testing.T, ch channel) {
	t.Helper()
	require.NotEmpty(t, ch)
	assert.Equal(t, 0, ch[0].span.Start.Cmp(big.NewRat(0, 1)))
	for i := 1; i < len(ch); i++ {
		assert.Equal(t, 0, ch[i-1].span.End.Cmp(ch[i].span.Start))
	}
	assert.Equal(t, 0, ch[len(ch)-1].span.End.Cmp(big.NewRat(1, 1)))
}

func TestSpanCoverageSubdivision(t *testing.T) {
	root, numIDs, err := parseMini("a b c d")
	require.NoError(t, err)
	st := newTestState(numIDs, 1)
	chans := st.evalNode(root)
	require.Len(t, chans, 1)
	assertTiles(t, chans[0])
}

func TestSpanCoverageNestedSubdivision(t *testing.T) {
	root, numIDs, err := parseMini("[a a] [b4 b5 b6] [c0 d1 c2 d3]")
	require.NoError(t, err)
	st := newTestState(numIDs, 1)
	chans := st.evalNode(root)
	require.Len(t, chans, 1)
	assertTiles(t, chans[0])
}

func TestSpanCoverageBjorklund(t *testing.T) {
	root, numIDs, err := parseMini("x(3,8)")
	require.NoError(t, err)
	st := newTestState(numIDs, 1)
	chans := st.evalNode(root)
	require.Len(t, chans, 1)
	assertTiles(t, chans[0])
}

func newTestState(numIDs int, seed uint64) *evalState {
	c := &Cycle{numIDs: numIDs, seed: seed}
	c.resetState()
	return &c.st
}
