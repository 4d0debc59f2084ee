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
	"cmp"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cast"
)

// Normalize coerces v into the storage class of d. NULL passes through.
// Conversion follows cast: integer strings are parsed with base prefixes, so
// "0x10" is 16 and "010" is 8, and floats are truncated toward zero when d is
// an integer type.
func Normalize(d DataType, v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	// checkpoint payloads decode numbers as json.Number
	if n, ok := v.(json.Number); ok {
		v = n.String()
	}
	var (
		out interface{}
		err error
	)
	switch {
	case d.IsSigned():
		out, err = cast.ToInt64E(v)
	case d.IsUnsigned():
		out, err = cast.ToUint64E(v)
	case d.IsFloat():
		out, err = cast.ToFloat64E(v)
	case d == Utf8:
		out, err = cast.ToStringE(v)
	case d == Boolean:
		out, err = cast.ToBoolE(v)
	case d == Timestamp:
		out, err = cast.ToTimeE(v)
	default:
		err = fmt.Errorf("unknown data type %s", d)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot convert %v (%T) to %s: %w", v, v, d, err)
	}
	return out, nil
}

// Conforms reports whether v is a non-NULL value already in d's storage class.
func Conforms(d DataType, v interface{}) bool {
	var ok bool
	switch {
	case d.IsSigned():
		_, ok = v.(int64)
	case d.IsUnsigned():
		_, ok = v.(uint64)
	case d.IsFloat():
		_, ok = v.(float64)
	case d == Utf8:
		_, ok = v.(string)
	case d == Boolean:
		_, ok = v.(bool)
	case d == Timestamp:
		_, ok = v.(time.Time)
	}
	return ok
}

// Zero returns the zero value of d's storage class.
func Zero(d DataType) interface{} {
	switch {
	case d.IsSigned():
		return int64(0)
	case d.IsUnsigned():
		return uint64(0)
	case d.IsFloat():
		return float64(0)
	case d == Utf8:
		return ""
	case d == Boolean:
		return false
	case d == Timestamp:
		return time.Time{}
	}
	panic(fmt.Sprintf("types: no zero value for %s", d))
}

// Compare orders two normalized, non-NULL values of type d.
func Compare(d DataType, a, b interface{}) int {
	switch {
	case d.IsSigned():
		return cmp.Compare(a.(int64), b.(int64))
	case d.IsUnsigned():
		return cmp.Compare(a.(uint64), b.(uint64))
	case d.IsFloat():
		return cmp.Compare(a.(float64), b.(float64))
	case d == Utf8:
		return cmp.Compare(a.(string), b.(string))
	case d == Boolean:
		x, y := a.(bool), b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	case d == Timestamp:
		return a.(time.Time).Compare(b.(time.Time))
	}
	panic(fmt.Sprintf("types: values of %s are not comparable", d))
}

// Add returns a+b for normalized numeric values of type d.
func Add(d DataType, a, b interface{}) interface{} {
	switch {
	case d.IsSigned():
		return a.(int64) + b.(int64)
	case d.IsUnsigned():
		return a.(uint64) + b.(uint64)
	case d.IsFloat():
		return a.(float64) + b.(float64)
	}
	panic(fmt.Sprintf("types: arithmetic on non-numeric type %s", d))
}

// Sub returns a-b for normalized numeric values of type d.
func Sub(d DataType, a, b interface{}) interface{} {
	switch {
	case d.IsSigned():
		return a.(int64) - b.(int64)
	case d.IsUnsigned():
		return a.(uint64) - b.(uint64)
	case d.IsFloat():
		return a.(float64) - b.(float64)
	}
	panic(fmt.Sprintf("types: arithmetic on non-numeric type %s", d))
}

// ToFloat64 widens a normalized numeric value.
func ToFloat64(v interface{}) float64 {
	return cast.ToFloat64(v)
}
