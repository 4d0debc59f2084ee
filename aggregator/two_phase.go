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

	"github.com/rulego/streamagg/expr"
	"github.com/rulego/streamagg/types"
)

// TwoPhaseAggregation compiles one aggregate function into its bin and memory
// representations and the operations over them. Every derivation is a pure
// function of (aggregator, input type, input nullability); instances are
// immutable and safe for concurrent use.
//
// Bin values by (aggregator, nullable input):
//
//	count          int64               int64
//	sum            T                   Option{T}
//	min, max       T                   Option{T}
//	avg            AvgState            Option{AvgState}
//
// where T is the storage class of AggregateType.
type TwoPhaseAggregation struct {
	aggregator Aggregator
	input      expr.Expression
	nullable   bool
	inputType  types.DataType
	aggType    types.DataType
	returnType types.TypeDef
}

// NewTwoPhaseAggregation fails with *UnsupportedAggregatorError for
// CountDistinct.
func NewTwoPhaseAggregation(e *AggregationExpression) (*TwoPhaseAggregation, error) {
	if !e.AllowsTwoPhase() {
		return nil, &UnsupportedAggregatorError{Aggregator: e.aggregator, Operation: "two-phase execution"}
	}
	inputType := e.inputDataType()
	a := &TwoPhaseAggregation{
		aggregator: e.aggregator,
		input:      e.input,
		nullable:   e.input.ReturnType().Nullable(),
		inputType:  inputType,
		returnType: e.ReturnType(),
	}
	switch e.aggregator {
	case Count:
		a.aggType = types.Int64
	case Sum, Avg:
		sum, err := types.SumReturnType(inputType)
		if err != nil {
			return nil, err
		}
		a.aggType = sum
	default:
		a.aggType = inputType
	}
	return a, nil
}

// Aggregator returns the function kind.
func (a *TwoPhaseAggregation) Aggregator() Aggregator {
	return a.aggregator
}

// InputNullable reports whether the input expression may yield NULL.
func (a *TwoPhaseAggregation) InputNullable() bool {
	return a.nullable
}

// AggregateType is the accumulator type: Int64 for count, the sum-promoted
// input type for sum and avg, the input type for min and max.
func (a *TwoPhaseAggregation) AggregateType() types.DataType {
	return a.aggType
}

// ReturnType is the type of finalized values.
func (a *TwoPhaseAggregation) ReturnType() types.TypeDef {
	return a.returnType
}

// BinType describes the bin representation.
func (a *TwoPhaseAggregation) BinType() StateType {
	var value StateType
	switch a.aggregator {
	case Count:
		return ScalarState(types.Int64)
	case Avg:
		value = TupleState(ScalarState(types.Int64), ScalarState(a.aggType))
	default:
		value = ScalarState(a.aggType)
	}
	if a.nullable {
		return OptionState(value)
	}
	return value
}

// MemoryType describes the sliding-window memory: a live-bin counter paired
// with the accumulator. Nullable sum/avg also track how many live bins carried
// a value, so the accumulator can return to absent. Float sum/avg keep the
// live bin sums in a multiset; avg pairs it with the total row count.
func (a *TwoPhaseAggregation) MemoryType() StateType {
	counter := ScalarState(types.Int64)
	switch a.aggregator {
	case Count:
		return TupleState(counter, counter)
	case Min, Max:
		return TupleState(counter, MultisetState(a.aggType))
	}
	acc := a.BinType()
	if a.keepsValues() {
		acc = MultisetState(a.aggType)
		if a.aggregator == Avg {
			acc = TupleState(counter, acc)
		}
	}
	if a.nullable {
		return TupleState(counter, counter, acc)
	}
	return TupleState(counter, acc)
}

// FoldRecord evaluates the input expression against record and folds it.
func (a *TwoPhaseAggregation) FoldRecord(current Option, record types.Record) (interface{}, error) {
	v, err := a.input.Evaluate(record)
	if err != nil {
		return nil, err
	}
	return a.Fold(current, v)
}

// Fold folds one input value into the current bin. current is None while no
// row has been folded into the bin yet. NULL inputs leave the bin unchanged;
// the first non-null value initializes it.
func (a *TwoPhaseAggregation) Fold(current Option, value interface{}) (interface{}, error) {
	if err := a.implemented("fold"); err != nil {
		return nil, err
	}
	if value == nil && !a.nullable {
		return nil, fmt.Errorf("%w: %s(%s)", ErrNullValue, a.aggregator, a.input)
	}
	if a.aggregator == Count {
		count := int64(0)
		if current.Valid {
			c, ok := current.Value.(int64)
			if !ok {
				return nil, binShape(a.aggregator, current.Value)
			}
			count = c
		}
		if value != nil {
			count++
		}
		return count, nil
	}

	var incoming interface{}
	if value != nil {
		v, err := types.Normalize(a.aggType, value)
		if err != nil {
			return nil, fmt.Errorf("%s(%s): %w", a.aggregator, a.input, err)
		}
		incoming = a.lift(v)
	}

	if a.nullable {
		cur := None()
		if current.Valid {
			opt, err := a.optionBin(current.Value)
			if err != nil {
				return nil, err
			}
			cur = opt
		}
		in := None()
		if incoming != nil {
			in = Some(incoming)
		}
		return a.mergeOptional(cur, in), nil
	}

	if !current.Valid {
		return incoming, nil
	}
	if err := a.checkValue(current.Value); err != nil {
		return nil, err
	}
	return a.combineValues(current.Value, incoming), nil
}

// Combine merges two folded bins. It is associative and commutative, so
// partial bins from different workers or sub-windows merge in any order.
func (a *TwoPhaseAggregation) Combine(current, next interface{}) (interface{}, error) {
	if err := a.implemented("combine"); err != nil {
		return nil, err
	}
	if a.nullable && a.aggregator != Count {
		cur, err := a.optionBin(current)
		if err != nil {
			return nil, err
		}
		nxt, err := a.optionBin(next)
		if err != nil {
			return nil, err
		}
		return a.mergeOptional(cur, nxt), nil
	}
	if err := a.checkValue(current); err != nil {
		return nil, err
	}
	if err := a.checkValue(next); err != nil {
		return nil, err
	}
	return a.combineValues(current, next), nil
}

// CheckBin verifies that bin has this aggregate's bin shape.
func (a *TwoPhaseAggregation) CheckBin(bin interface{}) error {
	_, _, err := a.binValue(bin)
	return err
}

// Finalize converts a bin to the output value. Absent bins of nullable
// aggregates finalize to NULL; avg divides as float64.
func (a *TwoPhaseAggregation) Finalize(bin interface{}) (interface{}, error) {
	value, present, err := a.binValue(bin)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	return a.finalizeValue(value), nil
}

func (a *TwoPhaseAggregation) finalizeValue(value interface{}) interface{} {
	if a.aggregator == Avg {
		s := value.(AvgState)
		return types.ToFloat64(s.Sum) / float64(s.Count)
	}
	return value
}

// lift turns one normalized input value into a single-row accumulator.
func (a *TwoPhaseAggregation) lift(v interface{}) interface{} {
	if a.aggregator == Avg {
		return AvgState{Count: 1, Sum: v}
	}
	return v
}

// combineValues applies the aggregator's pairwise combine to two present,
// shape-checked accumulators.
func (a *TwoPhaseAggregation) combineValues(x, y interface{}) interface{} {
	switch a.aggregator {
	case Count:
		return x.(int64) + y.(int64)
	case Sum:
		return types.Add(a.aggType, x, y)
	case Min:
		if types.Compare(a.aggType, y, x) < 0 {
			return y
		}
		return x
	case Max:
		if types.Compare(a.aggType, y, x) > 0 {
			return y
		}
		return x
	case Avg:
		sx, sy := x.(AvgState), y.(AvgState)
		return AvgState{Count: sx.Count + sy.Count, Sum: types.Add(a.aggType, sx.Sum, sy.Sum)}
	}
	panic(fmt.Sprintf("aggregator: combine for %s", a.aggregator))
}

// retractValue removes y's contribution from x; only defined for the
// invertible aggregators.
func (a *TwoPhaseAggregation) retractValue(x, y interface{}) interface{} {
	switch a.aggregator {
	case Count:
		return x.(int64) - y.(int64)
	case Sum:
		return types.Sub(a.aggType, x, y)
	case Avg:
		sx, sy := x.(AvgState), y.(AvgState)
		return AvgState{Count: sx.Count - sy.Count, Sum: types.Sub(a.aggType, sx.Sum, sy.Sum)}
	}
	panic(fmt.Sprintf("aggregator: retract for %s", a.aggregator))
}

func (a *TwoPhaseAggregation) mergeOptional(x, y Option) Option {
	switch {
	case x.Valid && y.Valid:
		return Some(a.combineValues(x.Value, y.Value))
	case x.Valid:
		return x
	default:
		return y
	}
}

// optionBin checks that bin is the Option form of a nullable bin.
func (a *TwoPhaseAggregation) optionBin(bin interface{}) (Option, error) {
	opt, ok := bin.(Option)
	if !ok {
		return None(), binShape(a.aggregator, bin)
	}
	if opt.Valid {
		if err := a.checkValue(opt.Value); err != nil {
			return None(), err
		}
	}
	return opt, nil
}

// binValue unwraps any bin into (accumulator, present).
func (a *TwoPhaseAggregation) binValue(bin interface{}) (interface{}, bool, error) {
	if err := a.implemented("bin"); err != nil {
		return nil, false, err
	}
	if a.nullable && a.aggregator != Count {
		opt, err := a.optionBin(bin)
		if err != nil {
			return nil, false, err
		}
		return opt.Value, opt.Valid, nil
	}
	if err := a.checkValue(bin); err != nil {
		return nil, false, err
	}
	return bin, true, nil
}

// implemented guards against values built without NewTwoPhaseAggregation.
func (a *TwoPhaseAggregation) implemented(op string) error {
	if a.aggregator.AllowsTwoPhase() {
		return nil
	}
	return unimplemented(a.aggregator, op)
}

// checkValue verifies a present accumulator has the expected shape.
func (a *TwoPhaseAggregation) checkValue(v interface{}) error {
	if a.aggregator == Avg {
		s, ok := v.(AvgState)
		if !ok || !types.Conforms(a.aggType, s.Sum) {
			return binShape(a.aggregator, v)
		}
		return nil
	}
	if !types.Conforms(a.aggType, v) {
		return binShape(a.aggregator, v)
	}
	return nil
}

func (a *TwoPhaseAggregation) String() string {
	return fmt.Sprintf("%s(%s)", a.aggregator, a.input)
}
