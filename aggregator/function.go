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
	"time"

	"github.com/rulego/streamagg/expr"
	"github.com/rulego/streamagg/types"
)

// AggregationExpression is one aggregate function call: an aggregator applied
// to a type-checked scalar input expression. It owns no mutable state.
type AggregationExpression struct {
	aggregator Aggregator
	input      expr.Expression
}

// NewAggregationExpression validates the input type against the aggregator.
// A record-typed input is an upstream type system defect and panics with
// *InvariantViolation.
func NewAggregationExpression(aggregator Aggregator, input expr.Expression) (*AggregationExpression, error) {
	if input == nil {
		return nil, fmt.Errorf("aggregate %s requires an input expression", aggregator)
	}
	a := &AggregationExpression{aggregator: aggregator, input: input}
	d := a.inputDataType()
	switch aggregator {
	case Sum:
		if _, err := types.SumReturnType(d); err != nil {
			return nil, err
		}
	case Avg:
		if _, err := types.AvgReturnType(d); err != nil {
			return nil, err
		}
	case Count, CountDistinct, Min, Max:
	default:
		return nil, fmt.Errorf("unknown aggregator %s", aggregator)
	}
	return a, nil
}

// Aggregator returns the function kind.
func (a *AggregationExpression) Aggregator() Aggregator {
	return a.aggregator
}

// Input returns the input expression.
func (a *AggregationExpression) Input() expr.Expression {
	return a.input
}

// AllowsTwoPhase reports whether this function decomposes into bins.
func (a *AggregationExpression) AllowsTwoPhase() bool {
	return a.aggregator.AllowsTwoPhase()
}

func (a *AggregationExpression) inputDataType() types.DataType {
	t := a.input.ReturnType()
	if t.IsStruct() {
		panic(&InvariantViolation{Message: fmt.Sprintf("aggregate %s input %s has record type %s", a.aggregator, a.input, t)})
	}
	return t.DataType()
}

// ReturnType is the output type of the aggregate:
//
//	count, count_distinct  Int64, never null
//	sum                    sum-promoted input type, null iff input nullable
//	min, max               input type
//	avg                    Float64, null iff input nullable
func (a *AggregationExpression) ReturnType() types.TypeDef {
	d := a.inputDataType()
	nullable := a.input.ReturnType().Nullable()
	switch a.aggregator {
	case Sum:
		sum, _ := types.SumReturnType(d)
		return types.Scalar(sum, nullable)
	case Avg:
		avg, _ := types.AvgReturnType(d)
		return types.Scalar(avg, nullable)
	case Min, Max:
		return a.input.ReturnType()
	default:
		return types.Scalar(types.Int64, false)
	}
}

func (a *AggregationExpression) String() string {
	return fmt.Sprintf("%s(%s)", a.aggregator, a.input)
}

// Aggregate computes the one-phase result over every row of a window.
// Empty input yields 0 for counts and NULL otherwise.
func (a *AggregationExpression) Aggregate(records []types.Record) (interface{}, error) {
	if a.aggregator == CountDistinct {
		return a.countDistinct(records)
	}
	compiled, err := NewTwoPhaseAggregation(a)
	if err != nil {
		return nil, err
	}
	bin := None()
	for _, record := range records {
		next, err := compiled.FoldRecord(bin, record)
		if err != nil {
			return nil, err
		}
		bin = Some(next)
	}
	if !bin.Valid {
		if a.aggregator == Count {
			return int64(0), nil
		}
		return nil, nil
	}
	return compiled.Finalize(bin.Value)
}

func (a *AggregationExpression) countDistinct(records []types.Record) (interface{}, error) {
	d := a.inputDataType()
	seen := make(map[interface{}]struct{})
	for _, record := range records {
		v, err := a.input.Evaluate(record)
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue
		}
		if v, err = types.Normalize(d, v); err != nil {
			return nil, err
		}
		// time.Time carries a location pointer; key on the instant
		if ts, ok := v.(time.Time); ok {
			v = ts.UnixNano()
		}
		seen[v] = struct{}{}
	}
	return int64(len(seen)), nil
}
