package luaengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halfnote/seq/script"
	"github.com/halfnote/seq/scripting/luaengine"
	"github.com/halfnote/seq/timebase"
)

func TestCallReturnsIntegerNote(t *testing.T) {
	cb, err := luaengine.New(`function emit() return 60 end`, "emit")
	require.NoError(t, err)

	v, err := cb.Call()
	require.NoError(t, err)
	assert.Equal(t, script.ValueInteger, v.Kind)
	assert.Equal(t, int64(60), v.Int)
}

func TestCallSeesPulseContextGlobals(t *testing.T) {
	cb, err := luaengine.New(`function emit() return step * 2 end`, "emit")
	require.NoError(t, err)
	require.NoError(t, cb.SetPulseContext(21, 1.0, 4))

	v, err := cb.Call()
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.Int)
}

func TestCallSeesExternalContext(t *testing.T) {
	cb, err := luaengine.New(`function emit() return external.gain end`, "emit")
	require.NoError(t, err)
	require.NoError(t, cb.SetExternalContext(map[string]float64{"gain": 0.75}))

	v, err := cb.Call()
	require.NoError(t, err)
	assert.Equal(t, script.ValueFloat, v.Kind)
	assert.InDelta(t, 0.75, v.Float, 1e-9)
}

func TestCallReturnsKeyedTableAsFields(t *testing.T) {
	cb, err := luaengine.New(`function emit() return {key = "c4", volume = 0.5} end`, "emit")
	require.NoError(t, err)

	v, err := cb.Call()
	require.NoError(t, err)
	require.Equal(t, script.ValueTable, v.Kind)
	require.Contains(t, v.Fields, "key")
	assert.Equal(t, "c4", v.Fields["key"].Str)
}

func TestCallReturnsArrayTableAsFlatList(t *testing.T) {
	cb, err := luaengine.New(`function emit() return {1, 0, 1} end`, "emit")
	require.NoError(t, err)

	v, err := cb.Call()
	require.NoError(t, err)
	require.Equal(t, script.ValueTable, v.Kind)
	require.Len(t, v.Table, 3)
	assert.Equal(t, int64(1), v.Table[0].Int)
}

func TestMissingFunctionDegradesAndHandlesError(t *testing.T) {
	cb, err := luaengine.New(`x = 1`, "emit")
	require.NoError(t, err)

	_, err = cb.Call()
	assert.Error(t, err)

	// once errored, every subsequent Call fails until Reset.
	_, err = cb.Call()
	assert.Error(t, err)

	require.NoError(t, cb.Reset())
	_, err = cb.Call()
	assert.Error(t, err, "reset recompiles the same source, which still lacks the function")
}

func TestRuntimeErrorDegradesUntilReset(t *testing.T) {
	cb, err := luaengine.New(`function emit() error("boom") end`, "emit")
	require.NoError(t, err)

	_, err = cb.Call()
	assert.Error(t, err)

	require.NoError(t, cb.Reset())
	// a fresh VM re-runs the same always-erroring body, so this call
	// still fails, now from a live Call() rather than from the error
	// HandleError cached before Reset.
	_, err = cb.Call()
	assert.Error(t, err)
}

func TestDuplicateReplaysTimeBaseAndExternalContext(t *testing.T) {
	cb, err := luaengine.New(`function emit() return samples_per_second + external.bias end`, "emit")
	require.NoError(t, err)
	require.NoError(t, cb.SetTimeBase(timebase.SecondTimeBase{SamplesPerSec: 44100}))
	require.NoError(t, cb.SetExternalContext(map[string]float64{"bias": 0.5}))

	dup, err := cb.Duplicate()
	require.NoError(t, err)

	v, err := dup.Call()
	require.NoError(t, err)
	assert.Equal(t, script.ValueFloat, v.Kind)
	assert.InDelta(t, 44100.5, v.Float, 1e-6)
}
