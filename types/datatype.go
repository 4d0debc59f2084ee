/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package types

import (
	"fmt"
	"strings"
)

// DataType is the semantic type of a scalar value.
type DataType int

const (
	// Boolean true/false, stored as bool
	Boolean DataType = iota + 1
	// Int8 signed 8-bit integer, stored as int64
	Int8
	// Int16 signed 16-bit integer, stored as int64
	Int16
	// Int32 signed 32-bit integer, stored as int64
	Int32
	// Int64 signed 64-bit integer, stored as int64
	Int64
	// UInt8 unsigned 8-bit integer, stored as uint64
	UInt8
	// UInt16 unsigned 16-bit integer, stored as uint64
	UInt16
	// UInt32 unsigned 32-bit integer, stored as uint64
	UInt32
	// UInt64 unsigned 64-bit integer, stored as uint64
	UInt64
	// Float32 single precision float, stored as float64
	Float32
	// Float64 double precision float, stored as float64
	Float64
	// Utf8 string, stored as string
	Utf8
	// Timestamp point in time, stored as time.Time
	Timestamp
)

var dataTypeNames = map[DataType]string{
	Boolean:   "Boolean",
	Int8:      "Int8",
	Int16:     "Int16",
	Int32:     "Int32",
	Int64:     "Int64",
	UInt8:     "UInt8",
	UInt16:    "UInt16",
	UInt32:    "UInt32",
	UInt64:    "UInt64",
	Float32:   "Float32",
	Float64:   "Float64",
	Utf8:      "Utf8",
	Timestamp: "Timestamp",
}

func (d DataType) String() string {
	if name, ok := dataTypeNames[d]; ok {
		return name
	}
	return fmt.Sprintf("DataType(%d)", int(d))
}

// ParseDataType resolves a type name, case-insensitively.
func ParseDataType(name string) (DataType, error) {
	for d, n := range dataTypeNames {
		if strings.EqualFold(n, name) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown data type %q", name)
}

// IsSigned reports whether d is a signed integer type.
func (d DataType) IsSigned() bool {
	return d >= Int8 && d <= Int64
}

// IsUnsigned reports whether d is an unsigned integer type.
func (d DataType) IsUnsigned() bool {
	return d >= UInt8 && d <= UInt64
}

// IsFloat reports whether d is a floating point type.
func (d DataType) IsFloat() bool {
	return d == Float32 || d == Float64
}

// IsNumeric reports whether values of d support arithmetic.
func (d DataType) IsNumeric() bool {
	return d.IsSigned() || d.IsUnsigned() || d.IsFloat()
}

// SumReturnType returns the accumulator type used when summing values of d.
// Integers widen to 64 bits keeping their signedness, floats widen to Float64.
func SumReturnType(d DataType) (DataType, error) {
	switch {
	case d.IsSigned():
		return Int64, nil
	case d.IsUnsigned():
		return UInt64, nil
	case d.IsFloat():
		return Float64, nil
	default:
		return 0, fmt.Errorf("sum is not supported for type %s", d)
	}
}

// AvgReturnType returns the output type of averaging values of d.
func AvgReturnType(d DataType) (DataType, error) {
	if !d.IsNumeric() {
		return 0, fmt.Errorf("avg is not supported for type %s", d)
	}
	return Float64, nil
}
