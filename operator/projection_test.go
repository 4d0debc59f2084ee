package operator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/streamagg/expr"
	"github.com/rulego/streamagg/types"
)

func TestNewProjectionErrors(t *testing.T) {
	_, err := NewProjection([]types.Column{types.NewColumn("a")}, nil)
	assert.ErrorIs(t, err, ErrArityMismatch)

	a := expr.Col("a", types.Scalar(types.Int64, false))
	_, err = NewProjection(
		[]types.Column{types.NewColumn("a"), types.NewColumn("a")},
		[]expr.Expression{a, a},
	)
	assert.ErrorIs(t, err, ErrDuplicateColumn)

	_, err = NewProjection([]types.Column{types.NewColumn("a")}, []expr.Expression{nil})
	assert.ErrorIs(t, err, ErrNilExpression)
}

func TestProjection(t *testing.T) {
	p, err := NewProjection(
		[]types.Column{
			types.QualifiedColumn("s", "id"),
			types.NewColumn("doubled"),
			types.NewColumn("label"),
		},
		[]expr.Expression{
			expr.Col("id", types.Scalar(types.Int32, false)),
			expr.MustCompile("id * 2", types.Scalar(types.Int64, false)),
			expr.Lit("x", types.Utf8),
		},
	)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, "{s.id: Int32, doubled: Int64, label: Utf8}", p.OutputStruct().String())

	out, err := p.Evaluate(types.Record{"id": 21})
	require.NoError(t, err)
	assert.Equal(t, types.Record{"s.id": int64(21), "doubled": int64(42), "label": "x"}, out)

	t.Run("truncated", func(t *testing.T) {
		assert.Equal(t, []string{"s.id", "doubled"}, p.TruncatedOutputStruct(2).Keys())
		out, err := p.EvaluateTruncated(types.Record{"id": 1}, 2)
		require.NoError(t, err)
		assert.Equal(t, types.Record{"s.id": int64(1), "doubled": int64(2)}, out)

		assert.Len(t, p.TruncatedOutputStruct(10).Fields, 3)
		assert.Empty(t, p.TruncatedOutputStruct(-1).Fields)
	})

	t.Run("evaluation error names field", func(t *testing.T) {
		_, err := p.Evaluate(types.Record{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "s.id")
	})
}

func TestProjectionWithoutWindow(t *testing.T) {
	window := &expr.ColumnRef{Column: types.NewColumn("window"), Type: types.WindowTypeDef()}
	p, err := NewProjection(
		[]types.Column{types.NewColumn("window"), types.NewColumn("v")},
		[]expr.Expression{window, expr.Col("v", types.Scalar(types.Float64, true))},
	)
	require.NoError(t, err)

	stripped := p.WithoutWindow()
	assert.Equal(t, []string{"v"}, stripped.OutputStruct().Keys())
	assert.Equal(t, 2, p.Len(), "original projection unchanged")

	// 非窗口结构体字段保留
	other := types.Struct(types.ForFields([]types.StructField{
		types.NewStructField("start", "", types.Scalar(types.Timestamp, false)),
	}), false)
	p, err = NewProjection(
		[]types.Column{types.NewColumn("meta")},
		[]expr.Expression{&expr.ColumnRef{Column: types.NewColumn("meta"), Type: other}},
	)
	require.NoError(t, err)
	assert.Equal(t, 1, p.WithoutWindow().Len())
}
