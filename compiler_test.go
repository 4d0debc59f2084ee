package streamagg

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/streamagg/aggregator"
	"github.com/rulego/streamagg/expr"
	"github.com/rulego/streamagg/logger"
	"github.com/rulego/streamagg/operator"
	"github.com/rulego/streamagg/types"
)

func buildProjection(t *testing.T, aggs ...aggregator.Aggregator) *operator.AggregateProjection {
	t.Helper()
	v := expr.Col("v", types.Scalar(types.Int64, true))
	b := operator.NewBuilder().GroupBy(types.NewColumn("k"), expr.Col("k", types.Scalar(types.Utf8, false)))
	for _, agg := range aggs {
		b.Aggregate(types.NewColumn(agg.String()), agg, v)
	}
	p, err := b.Build()
	require.NoError(t, err)
	return p
}

func newCompiler(t *testing.T, buf *bytes.Buffer, opts ...Option) *Compiler {
	t.Helper()
	opts = append([]Option{WithLogger(logger.NewLogger(logger.DEBUG, buf))}, opts...)
	c, err := New(opts...)
	require.NoError(t, err)
	return c
}

func TestCompileTwoPhase(t *testing.T) {
	var buf bytes.Buffer
	c := newCompiler(t, &buf)
	plan, err := c.Compile(buildProjection(t, aggregator.Sum, aggregator.Max))
	require.NoError(t, err)

	require.True(t, plan.IsTwoPhase())
	assert.Equal(t, []string{"sum", "max", "k"}, plan.OutputStruct.Keys())
	assert.Equal(t, "(Option<Int64>, Option<Int64>)", plan.TwoPhase.BinType().String())
	assert.NotNil(t, plan.Checkpoint())

	log := buf.String()
	assert.Contains(t, log, "[INFO] [compiler] two-phase plan for 2 aggregates")
	assert.Contains(t, log, "[DEBUG] [compiler] bin (Option<Int64>, Option<Int64>)")
	assert.Contains(t, log, "[DEBUG] [compiler] memory (Int64, ((Int64, Int64, Option<Int64>), (Int64, Multiset<Int64>)))")
}

func TestCompileFallsBackToOnePhase(t *testing.T) {
	var buf bytes.Buffer
	c := newCompiler(t, &buf)
	p := buildProjection(t, aggregator.Count, aggregator.CountDistinct)
	plan, err := c.Compile(p)
	require.NoError(t, err)

	assert.False(t, plan.IsTwoPhase())
	assert.Nil(t, plan.Checkpoint())
	assert.Same(t, p, plan.Projection)
	assert.Contains(t, buf.String(), "[WARN] [compiler] aggregate count_distinct = count_distinct(v) blocks two-phase aggregation")
	assert.Contains(t, buf.String(), "[INFO] [compiler] one-phase plan for 2 aggregates")

	out, err := plan.Projection.Emit(types.Record{"k": "a"}, []types.Record{{"v": 1}, {"v": 1}, {"v": nil}})
	require.NoError(t, err)
	assert.Equal(t, types.Record{"count": int64(2), "count_distinct": int64(1), "k": "a"}, out)
}

func TestCompileModes(t *testing.T) {
	t.Run("required", func(t *testing.T) {
		var buf bytes.Buffer
		c := newCompiler(t, &buf, WithTwoPhaseMode(TwoPhaseRequired))
		_, err := c.Compile(buildProjection(t, aggregator.CountDistinct))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTwoPhaseRequired)
		var unsupported *aggregator.UnsupportedAggregatorError
		require.True(t, errors.As(err, &unsupported))
		assert.Equal(t, aggregator.CountDistinct, unsupported.Aggregator)
		assert.Contains(t, buf.String(), "[ERROR] [compiler] compile failed")

		plan, err := c.Compile(buildProjection(t, aggregator.Avg))
		require.NoError(t, err)
		assert.True(t, plan.IsTwoPhase())
	})

	t.Run("disabled", func(t *testing.T) {
		var buf bytes.Buffer
		c := newCompiler(t, &buf, WithConfig(Config{TwoPhase: TwoPhaseDisabled}))
		plan, err := c.Compile(buildProjection(t, aggregator.Sum))
		require.NoError(t, err)
		assert.False(t, plan.IsTwoPhase())
		assert.Contains(t, buf.String(), "two-phase disabled")
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := New(WithTwoPhaseMode("maybe"), WithDiscardLog())
		assert.Error(t, err)
	})

	t.Run("nil projection", func(t *testing.T) {
		c, err := New(WithDiscardLog())
		require.NoError(t, err)
		assert.Equal(t, TwoPhaseAuto, c.Config().TwoPhase)
		_, err = c.Compile(nil)
		assert.Error(t, err)
	})
}

func TestCompilerLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := newCompiler(t, &buf, WithLogLevel(logger.WARN))
	_, err := c.Compile(buildProjection(t, aggregator.Min))
	require.NoError(t, err)
	assert.Empty(t, buf.String())

	buf.Reset()
	c = newCompiler(t, &buf, WithConfig(Config{LogLevel: "info"}))
	_, err = c.Compile(buildProjection(t, aggregator.Min))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "[INFO]")
	assert.NotContains(t, buf.String(), "[DEBUG]")
}

func TestCompilerLogLevelLeavesLoggerShared(t *testing.T) {
	original := logger.GetDefault()
	defer logger.SetDefault(original)

	var buf bytes.Buffer
	logger.SetDefault(logger.NewLogger(logger.INFO, &buf))
	c, err := New(WithLogLevel(logger.ERROR))
	require.NoError(t, err)
	_, err = c.Compile(buildProjection(t, aggregator.Min))
	require.NoError(t, err)
	assert.Empty(t, buf.String())

	logger.GetDefault().Info("still visible")
	assert.Contains(t, buf.String(), "still visible")

	buf.Reset()
	shared := logger.NewLogger(logger.DEBUG, &buf)
	_, err = New(WithLogger(shared), WithConfig(Config{LogLevel: "error"}))
	require.NoError(t, err)
	shared.Debug("debug kept")
	assert.Contains(t, buf.String(), "debug kept")
}
