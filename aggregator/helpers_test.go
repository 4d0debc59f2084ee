package aggregator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rulego/streamagg/expr"
	"github.com/rulego/streamagg/types"
)

func newFunction(t *testing.T, agg Aggregator, d types.DataType, nullable bool) *AggregationExpression {
	t.Helper()
	f, err := NewAggregationExpression(agg, expr.Col("x", types.Scalar(d, nullable)))
	require.NoError(t, err)
	return f
}

func newTwoPhase(t *testing.T, agg Aggregator, d types.DataType, nullable bool) *TwoPhaseAggregation {
	t.Helper()
	a, err := NewTwoPhaseAggregation(newFunction(t, agg, d, nullable))
	require.NoError(t, err)
	return a
}

// foldAll folds values into a fresh bin; the result is None when values is empty.
func foldAll(t *testing.T, a *TwoPhaseAggregation, values []interface{}) Option {
	t.Helper()
	bin := None()
	for _, v := range values {
		next, err := a.Fold(bin, v)
		require.NoError(t, err)
		bin = Some(next)
	}
	return bin
}

func mustFinalize(t *testing.T, a *TwoPhaseAggregation, bin interface{}) interface{} {
	t.Helper()
	v, err := a.Finalize(bin)
	require.NoError(t, err)
	return v
}

func ints(values ...int64) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
