package operator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rulego/streamagg/aggregator"
	"github.com/rulego/streamagg/expr"
	"github.com/rulego/streamagg/types"
)

var (
	nullableInt = types.Scalar(types.Int64, true)
	deviceType  = types.Scalar(types.Utf8, false)
)

// sensorProjection is the aggregate projection of
//
//	SELECT device, sum(temp) AS total, count(temp) AS n, min(temp) AS lo, avg(temp) AS mean
//	FROM sensors GROUP BY device
//
// with the select list walked in order.
func sensorProjection(t *testing.T) *AggregateProjection {
	t.Helper()
	temp := expr.Col("temp", nullableInt)
	p, err := NewBuilder().
		GroupBy(types.NewColumn("device"), expr.Col("device", deviceType)).
		Aggregate(types.NewColumn("total"), aggregator.Sum, temp).
		Aggregate(types.NewColumn("n"), aggregator.Count, temp).
		Aggregate(types.NewColumn("lo"), aggregator.Min, temp).
		Aggregate(types.NewColumn("mean"), aggregator.Avg, temp).
		Build()
	require.NoError(t, err)
	return p
}

func sensorRows(temps ...interface{}) []types.Record {
	rows := make([]types.Record, len(temps))
	for i, v := range temps {
		rows[i] = types.Record{"device": "d1", "temp": v}
	}
	return rows
}

var deviceKey = types.Record{"device": "d1"}
