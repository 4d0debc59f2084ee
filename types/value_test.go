package types

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	ts := time.Date(2025, 4, 7, 16, 46, 56, 0, time.UTC)
	tests := []struct {
		name     string
		dataType DataType
		input    interface{}
		expected interface{}
	}{
		{"int32 to int64", Int32, int32(7), int64(7)},
		{"float to int64", Int64, 3.0, int64(3)},
		{"string to int64", Int64, "42", int64(42)},
		{"octal string", Int64, "010", int64(8)},
		{"hex string", UInt32, "0x10", uint64(16)},
		{"float truncates", Int64, 1.9, int64(1)},
		{"negative float truncates", Int16, -1.9, int64(-1)},
		{"infinity string", Float64, "+Inf", math.Inf(1)},
		{"negative infinity string", Float32, json.Number("-Inf"), math.Inf(-1)},
		{"json number", Int64, json.Number("9007199254740993"), int64(9007199254740993)},
		{"uint8 to uint64", UInt8, uint8(5), uint64(5)},
		{"int to float64", Float32, 2, float64(2)},
		{"utf8", Utf8, "abc", "abc"},
		{"boolean", Boolean, "true", true},
		{"timestamp", Timestamp, ts.Format(time.RFC3339Nano), ts},
		{"null", Int64, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.dataType, tt.input)
			require.NoError(t, err)
			if expectedTime, ok := tt.expected.(time.Time); ok {
				assert.True(t, expectedTime.Equal(got.(time.Time)))
				return
			}
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := Normalize(UInt64, -1)
	assert.Error(t, err)
	_, err = Normalize(Int64, "not a number")
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	assert.Equal(t, -1, Compare(Int64, int64(1), int64(2)))
	assert.Equal(t, 1, Compare(UInt32, uint64(9), uint64(2)))
	assert.Equal(t, 0, Compare(Float64, 1.5, 1.5))
	assert.Equal(t, -1, Compare(Float64, math.NaN(), 0.0))
	assert.Equal(t, -1, Compare(Utf8, "a", "b"))
	assert.Equal(t, -1, Compare(Boolean, false, true))
	assert.Equal(t, 0, Compare(Boolean, true, true))

	early := time.Unix(10, 0)
	late := time.Unix(20, 0)
	assert.Equal(t, 1, Compare(Timestamp, late, early))
}

func TestArithmetic(t *testing.T) {
	assert.Equal(t, int64(5), Add(Int64, int64(2), int64(3)))
	assert.Equal(t, uint64(1), Sub(UInt64, uint64(3), uint64(2)))
	assert.Equal(t, 0.5, Sub(Float64, 1.0, 0.5))
	assert.Panics(t, func() { Add(Utf8, "a", "b") })
	assert.Equal(t, 3.0, ToFloat64(int64(3)))
	assert.Equal(t, int64(0), Zero(Int8))
}

func TestSumAndAvgReturnType(t *testing.T) {
	tests := []struct {
		input DataType
		sum   DataType
	}{
		{Int8, Int64},
		{Int32, Int64},
		{UInt16, UInt64},
		{Float32, Float64},
		{Float64, Float64},
	}
	for _, tt := range tests {
		t.Run(tt.input.String(), func(t *testing.T) {
			sum, err := SumReturnType(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.sum, sum)

			avg, err := AvgReturnType(tt.input)
			require.NoError(t, err)
			assert.Equal(t, Float64, avg)
		})
	}

	_, err := SumReturnType(Utf8)
	assert.Error(t, err)
	_, err = AvgReturnType(Timestamp)
	assert.Error(t, err)
}

func TestConforms(t *testing.T) {
	assert.True(t, Conforms(Int32, int64(1)))
	assert.False(t, Conforms(Int32, int32(1)))
	assert.True(t, Conforms(UInt8, uint64(1)))
	assert.True(t, Conforms(Float32, 1.0))
	assert.True(t, Conforms(Timestamp, time.Now()))
	assert.False(t, Conforms(Utf8, nil))
}
