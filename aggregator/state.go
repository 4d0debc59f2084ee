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

package aggregator

import (
	"fmt"
	"strings"

	"github.com/rulego/streamagg/types"
)

// Option is an explicit present/absent wrapper. An absent accumulator means
// "no non-null value observed yet", which is different from a zero value.
type Option struct {
	Value interface{}
	Valid bool
}

// Some wraps a present value.
func Some(v interface{}) Option {
	return Option{Value: v, Valid: true}
}

// None is the absent value.
func None() Option {
	return Option{}
}

func (o Option) String() string {
	if !o.Valid {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", o.Value)
}

// AvgState is the (count, sum) pair carried by Avg bins.
type AvgState struct {
	Count int64
	Sum   interface{}
}

func (s AvgState) String() string {
	return fmt.Sprintf("(%d, %v)", s.Count, s.Sum)
}

// StateKind distinguishes bin and memory type descriptor shapes.
type StateKind int

const (
	StateScalar StateKind = iota
	StateOption
	StateTuple
	StateMultiset
)

// StateType describes the shape of a bin or memory value so an executor can
// lay out storage for it.
type StateType struct {
	Kind     StateKind
	DataType types.DataType
	Elems    []StateType
}

// ScalarState describes a plain value of type d.
func ScalarState(d types.DataType) StateType {
	return StateType{Kind: StateScalar, DataType: d}
}

// OptionState describes an optional elem.
func OptionState(elem StateType) StateType {
	return StateType{Kind: StateOption, Elems: []StateType{elem}}
}

// TupleState describes a fixed-arity tuple.
func TupleState(elems ...StateType) StateType {
	return StateType{Kind: StateTuple, Elems: elems}
}

// MultisetState describes an ordered value-to-multiplicity map.
func MultisetState(d types.DataType) StateType {
	return StateType{Kind: StateMultiset, DataType: d}
}

// String renders the descriptor. A one-element tuple keeps a trailing comma,
// "(Int64,)", so it cannot be mistaken for a parenthesized scalar.
func (s StateType) String() string {
	switch s.Kind {
	case StateScalar:
		return s.DataType.String()
	case StateOption:
		return "Option<" + s.Elems[0].String() + ">"
	case StateMultiset:
		return "Multiset<" + s.DataType.String() + ">"
	case StateTuple:
		return FormatTuple(len(s.Elems), func(i int) string { return s.Elems[i].String() })
	}
	return "unknown"
}

// Equal compares descriptors structurally.
func (s StateType) Equal(other StateType) bool {
	if s.Kind != other.Kind || s.DataType != other.DataType || len(s.Elems) != len(other.Elems) {
		return false
	}
	for i := range s.Elems {
		if !s.Elems[i].Equal(other.Elems[i]) {
			return false
		}
	}
	return true
}

// FormatTuple renders n elements as a tuple with the 1-tuple convention.
func FormatTuple(n int, elem func(i int) string) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = elem(i)
	}
	if n == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
