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

package operator

import (
	"fmt"

	"github.com/rulego/streamagg/aggregator"
	"github.com/rulego/streamagg/expr"
	"github.com/rulego/streamagg/types"
)

// AggregateColumn is one aggregate output: the column it is written to and
// the function computing it.
type AggregateColumn struct {
	Column    types.Column
	Aggregate *aggregator.AggregationExpression
}

// GroupByColumn is one grouping output. Expr is evaluated against the group
// key record and its values have type Type.
type GroupByColumn struct {
	Column types.Column
	Expr   expr.Expression
	Type   types.TypeDef
}

// AggregateProjection describes a GROUP BY: aggregate outputs followed by
// grouping outputs. It is immutable once built.
type AggregateProjection struct {
	aggregates []AggregateColumn
	groupBys   []GroupByColumn
}

// NewAggregateProjection validates and assembles an aggregate projection.
func NewAggregateProjection(aggregates []AggregateColumn, groupBys []GroupByColumn) (*AggregateProjection, error) {
	seen := make(map[string]struct{}, len(aggregates)+len(groupBys))
	check := func(c types.Column) error {
		if _, ok := seen[c.Key()]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateColumn, c)
		}
		seen[c.Key()] = struct{}{}
		return nil
	}
	for _, a := range aggregates {
		if a.Aggregate == nil {
			return nil, fmt.Errorf("%w: aggregate %s", ErrNilExpression, a.Column)
		}
		if err := check(a.Column); err != nil {
			return nil, err
		}
	}
	for _, g := range groupBys {
		if g.Expr == nil {
			return nil, fmt.Errorf("%w: group by %s", ErrNilExpression, g.Column)
		}
		if err := check(g.Column); err != nil {
			return nil, err
		}
	}
	return &AggregateProjection{
		aggregates: append([]AggregateColumn(nil), aggregates...),
		groupBys:   append([]GroupByColumn(nil), groupBys...),
	}, nil
}

// Aggregates returns the aggregate outputs in order.
func (p *AggregateProjection) Aggregates() []AggregateColumn {
	return p.aggregates
}

// GroupBys returns the grouping outputs in order.
func (p *AggregateProjection) GroupBys() []GroupByColumn {
	return p.groupBys
}

// OutputStruct is the output schema. Aggregates always come first, then the
// grouping columns, each in declaration order; executors rely on this layout.
func (p *AggregateProjection) OutputStruct() *types.StructDef {
	fields := make([]types.StructField, 0, len(p.aggregates)+len(p.groupBys))
	for _, a := range p.aggregates {
		fields = append(fields, types.StructField{Column: a.Column, Type: a.Aggregate.ReturnType()})
	}
	for _, g := range p.groupBys {
		fields = append(fields, types.StructField{Column: g.Column, Type: g.Type})
	}
	return types.ForFields(fields)
}

// SupportsTwoPhase reports whether every aggregate can be split into bins.
func (p *AggregateProjection) SupportsTwoPhase() bool {
	for _, a := range p.aggregates {
		if !a.Aggregate.AllowsTwoPhase() {
			return false
		}
	}
	return true
}

// Emit produces the output record for one group from every row of its
// window: each aggregate is computed over rows, each grouping expression is
// evaluated against key.
func (p *AggregateProjection) Emit(key types.Record, rows []types.Record) (types.Record, error) {
	out := make(types.Record, len(p.aggregates)+len(p.groupBys))
	for _, a := range p.aggregates {
		v, err := a.Aggregate.Aggregate(rows)
		if err != nil {
			return nil, fmt.Errorf("aggregate %s: %w", a.Column, err)
		}
		out.Set(a.Column, v)
	}
	if err := p.emitGroupBys(key, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *AggregateProjection) emitGroupBys(key types.Record, out types.Record) error {
	for _, g := range p.groupBys {
		v, err := g.Expr.Evaluate(key)
		if err != nil {
			return fmt.Errorf("group by %s: %w", g.Column, err)
		}
		if v != nil && !g.Type.IsStruct() {
			if v, err = types.Normalize(g.Type.DataType(), v); err != nil {
				return fmt.Errorf("group by %s: %w", g.Column, err)
			}
		}
		out.Set(g.Column, v)
	}
	return nil
}

func (p *AggregateProjection) String() string {
	return p.OutputStruct().String()
}

// Builder collects aggregate and grouping outputs in the order a planner
// walks the select list. Aggregates and groupings may be interleaved.
type Builder struct {
	aggregates []AggregateColumn
	groupBys   []GroupByColumn
	err        error
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Aggregate appends an aggregate output computing agg over input.
func (b *Builder) Aggregate(column types.Column, agg aggregator.Aggregator, input expr.Expression) *Builder {
	if b.err != nil {
		return b
	}
	f, err := aggregator.NewAggregationExpression(agg, input)
	if err != nil {
		b.err = fmt.Errorf("aggregate %s: %w", column, err)
		return b
	}
	b.aggregates = append(b.aggregates, AggregateColumn{Column: column, Aggregate: f})
	return b
}

// GroupBy appends a grouping output typed as e's return type.
func (b *Builder) GroupBy(column types.Column, e expr.Expression) *Builder {
	if b.err != nil {
		return b
	}
	if e == nil {
		b.err = fmt.Errorf("%w: group by %s", ErrNilExpression, column)
		return b
	}
	b.groupBys = append(b.groupBys, GroupByColumn{Column: column, Expr: e, Type: e.ReturnType()})
	return b
}

// Build returns the projection or the first error recorded.
func (b *Builder) Build() (*AggregateProjection, error) {
	if b.err != nil {
		return nil, b.err
	}
	return NewAggregateProjection(b.aggregates, b.groupBys)
}
