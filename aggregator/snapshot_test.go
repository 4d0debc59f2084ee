package aggregator

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/streamagg/types"
)

// roundTrip encodes a snapshot as JSON and decodes it the way a checkpoint
// reader does, with numbers kept as json.Number.
func roundTrip(t *testing.T, s MemorySnapshot) MemorySnapshot {
	t.Helper()
	data, err := json.Marshal(s)
	require.NoError(t, err)
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out MemorySnapshot
	require.NoError(t, dec.Decode(&out))
	return out
}

func TestSnapshotRestore(t *testing.T) {
	tests := []struct {
		name     string
		agg      Aggregator
		input    types.DataType
		nullable bool
		bins     []interface{}
	}{
		{"count", Count, types.Utf8, false, ints(2, 3)},
		{"sum", Sum, types.Int64, true, []interface{}{Some(int64(4)), None()}},
		{"sum absent", Sum, types.Int64, true, []interface{}{None(), None()}},
		{"sum unsigned", Sum, types.UInt8, false, []interface{}{uint64(1 << 40), uint64(2)}},
		{"avg", Avg, types.Float64, false, []interface{}{AvgState{2, 3.5}, AvgState{1, 0.25}}},
		{"avg nullable", Avg, types.Int32, true, []interface{}{Some(AvgState{2, int64(-7)}), None()}},
		{"sum float", Sum, types.Float64, true, []interface{}{Some(0.1), None(), Some(0.2), Some(0.1)}},
		{"max infinite", Max, types.Float64, false, []interface{}{math.Inf(1), 2.5, math.Inf(-1)}},
		{"sum infinite", Sum, types.Float32, false, []interface{}{math.Inf(-1), 1.0}},
		{"min", Min, types.Int64, false, ints(5, 3, 3, 7)},
		{"max strings", Max, types.Utf8, true, []interface{}{Some("x"), None(), Some("y")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTwoPhase(t, tt.agg, tt.input, tt.nullable)
			mem := addBins(t, a, tt.bins)

			restored, err := a.Restore(roundTrip(t, a.Snapshot(mem)))
			require.NoError(t, err)
			assert.Equal(t, a.Snapshot(mem), a.Snapshot(restored))
			assert.Equal(t, mustMemoryFinalize(t, a, mem), mustMemoryFinalize(t, a, restored))

			// 恢复后的内存可继续增量维护
			restored, err = a.MemoryRemove(restored, tt.bins[0])
			require.NoError(t, err)
			mem, err = a.MemoryRemove(mem, tt.bins[0])
			require.NoError(t, err)
			assert.Equal(t, mustMemoryFinalize(t, a, mem), mustMemoryFinalize(t, a, restored))
		})
	}
}

func TestRestoreEmptyAndInvalid(t *testing.T) {
	a := newTwoPhase(t, Sum, types.Int64, true)
	mem, err := a.Restore(a.Snapshot(nil))
	require.NoError(t, err)
	assert.Nil(t, mem)

	_, err = a.Restore(MemorySnapshot{Bins: 1, Present: 2})
	assert.Error(t, err)
	_, err = a.Restore(MemorySnapshot{Bins: 2, Present: 1})
	assert.Error(t, err)
	_, err = a.Restore(MemorySnapshot{Bins: 1, Present: 1, Accumulator: "abc"})
	assert.Error(t, err)

	// an accumulator with no contributing bins
	_, err = a.Restore(MemorySnapshot{Bins: 2, Present: 0, Accumulator: json.Number("5")})
	assert.Error(t, err)
	avg := newTwoPhase(t, Avg, types.Int64, true)
	_, err = avg.Restore(MemorySnapshot{Bins: 1, Present: 0, Accumulator: avgSnapshot{Count: 1, Sum: int64(5)}})
	assert.Error(t, err)
	_, err = avg.Restore(MemorySnapshot{Bins: 1, Present: 1, Accumulator: map[string]interface{}{"sum": json.Number("5")}})
	assert.ErrorIs(t, err, ErrBinShape)

	minAgg := newTwoPhase(t, Min, types.Int64, false)
	_, err = minAgg.Restore(MemorySnapshot{Bins: 2, Present: 2, Values: []ValueCount{{int64(1), 1}}})
	assert.Error(t, err)
}

func TestSnapshotNonFiniteFloats(t *testing.T) {
	a := newTwoPhase(t, Max, types.Float64, false)
	mem := addBins(t, a, []interface{}{math.NaN(), math.Inf(1)})
	s := a.Snapshot(mem)
	assert.Equal(t, []ValueCount{{"NaN", 1}, {"+Inf", 1}}, s.Values)

	restored, err := a.Restore(roundTrip(t, s))
	require.NoError(t, err)
	assert.Equal(t, math.Inf(1), mustMemoryFinalize(t, a, restored))
	lo, ok := restored.Values.Min()
	require.True(t, ok)
	assert.True(t, math.IsNaN(lo.(float64)))
}
