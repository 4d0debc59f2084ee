package checkpoint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/streamagg/aggregator"
	"github.com/rulego/streamagg/expr"
	"github.com/rulego/streamagg/operator"
	"github.com/rulego/streamagg/types"
)

func newProjection(t *testing.T) *operator.TwoPhaseAggregateProjection {
	t.Helper()
	v := expr.Col("v", types.Scalar(types.Int64, true))
	name := expr.Col("name", types.Scalar(types.Utf8, false))
	ap, err := operator.NewBuilder().
		GroupBy(types.NewColumn("k"), expr.Col("k", types.Scalar(types.Utf8, false))).
		Aggregate(types.NewColumn("total"), aggregator.Sum, v).
		Aggregate(types.NewColumn("mean"), aggregator.Avg, v).
		Aggregate(types.NewColumn("first"), aggregator.Min, name).
		Aggregate(types.NewColumn("n"), aggregator.Count, name).
		Build()
	require.NoError(t, err)
	p, err := operator.NewTwoPhaseAggregateProjection(ap)
	require.NoError(t, err)
	return p
}

func addRows(t *testing.T, p *operator.TwoPhaseAggregateProjection, mem *operator.Memory, rows ...types.Record) (*operator.Memory, operator.Bin) {
	t.Helper()
	var bin operator.Bin
	for _, row := range rows {
		next, err := p.Fold(bin, row)
		require.NoError(t, err)
		bin = next
	}
	mem, err := p.MemoryAdd(mem, bin)
	require.NoError(t, err)
	return mem, bin
}

func TestCodecRoundTrip(t *testing.T) {
	p := newProjection(t)
	codec := NewCodec(p)
	key := types.Record{"k": "a"}

	mem, first := addRows(t, p, nil,
		types.Record{"v": int64(1) << 60, "name": "zed"},
		types.Record{"v": nil, "name": "amy"},
	)
	mem, _ = addRows(t, p, mem, types.Record{"v": 3, "name": "bob"})

	data, err := codec.Encode(mem)
	require.NoError(t, err)
	restored, err := codec.Decode(data)
	require.NoError(t, err)

	want, err := p.SlidingAggregate(key, mem)
	require.NoError(t, err)
	got, err := p.SlidingAggregate(key, restored)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, int64(1)<<60+3, got["total"])
	assert.Equal(t, "amy", got["first"])

	// 恢复后的内存可以继续撤回
	mem, err = p.MemoryRemove(mem, first)
	require.NoError(t, err)
	restored, err = p.MemoryRemove(restored, first)
	require.NoError(t, err)
	want, err = p.SlidingAggregate(key, mem)
	require.NoError(t, err)
	got, err = p.SlidingAggregate(key, restored)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, "bob", got["first"])
}

func TestCodecNilMemory(t *testing.T) {
	codec := NewCodec(newProjection(t))
	data, err := codec.Encode(nil)
	require.NoError(t, err)
	mem, err := codec.Decode(data)
	require.NoError(t, err)
	assert.Nil(t, mem)
}

func TestCodecErrors(t *testing.T) {
	p := newProjection(t)
	codec := NewCodec(p)

	_, err := codec.Decode(nil)
	assert.ErrorIs(t, err, ErrFormat)
	_, err = codec.Decode([]byte{9, 1, 2})
	assert.ErrorIs(t, err, ErrFormat)
	_, err = codec.Decode([]byte{formatVersion, 0xff, 0xff})
	assert.ErrorIs(t, err, ErrFormat)

	mem, _ := addRows(t, p, nil, types.Record{"v": 1, "name": "x"})
	data, err := codec.Encode(mem)
	require.NoError(t, err)

	v := expr.Col("v", types.Scalar(types.Int64, true))
	other, err := operator.NewBuilder().Aggregate(types.NewColumn("total"), aggregator.Sum, v).Build()
	require.NoError(t, err)
	otherProjection, err := operator.NewTwoPhaseAggregateProjection(other)
	require.NoError(t, err)
	_, err = NewCodec(otherProjection).Decode(data)
	assert.ErrorIs(t, err, operator.ErrBinArity)
}

func TestCodecNonFiniteFloats(t *testing.T) {
	f := expr.Col("f", types.Scalar(types.Float64, false))
	ap, err := operator.NewBuilder().
		Aggregate(types.NewColumn("hi"), aggregator.Max, f).
		Aggregate(types.NewColumn("lo"), aggregator.Min, f).
		Aggregate(types.NewColumn("total"), aggregator.Sum, f).
		Build()
	require.NoError(t, err)
	p, err := operator.NewTwoPhaseAggregateProjection(ap)
	require.NoError(t, err)
	codec := NewCodec(p)

	mem, first := addRows(t, p, nil, types.Record{"f": math.Inf(1)})
	mem, _ = addRows(t, p, mem, types.Record{"f": math.Inf(-1)}, types.Record{"f": 2.5})

	data, err := codec.Encode(mem)
	require.NoError(t, err)
	restored, err := codec.Decode(data)
	require.NoError(t, err)

	got, err := p.SlidingAggregate(types.Record{}, restored)
	require.NoError(t, err)
	assert.Equal(t, math.Inf(1), got["hi"])
	assert.Equal(t, math.Inf(-1), got["lo"])
	assert.True(t, math.IsNaN(got["total"].(float64)))

	restored, err = p.MemoryRemove(restored, first)
	require.NoError(t, err)
	got, err = p.SlidingAggregate(types.Record{}, restored)
	require.NoError(t, err)
	assert.Equal(t, 2.5, got["hi"])
	assert.Equal(t, math.Inf(-1), got["total"])
}
