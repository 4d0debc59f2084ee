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

	"github.com/rulego/streamagg/expr"
	"github.com/rulego/streamagg/types"
)

// Projection maps one input record to one output record, field by field.
type Projection struct {
	columns      []types.Column
	computations []expr.Expression
}

// NewProjection pairs each output column with the expression computing it.
func NewProjection(columns []types.Column, computations []expr.Expression) (*Projection, error) {
	if len(columns) != len(computations) {
		return nil, fmt.Errorf("%w: %d columns, %d computations", ErrArityMismatch, len(columns), len(computations))
	}
	seen := make(map[string]struct{}, len(columns))
	for i, c := range columns {
		if computations[i] == nil {
			return nil, fmt.Errorf("%w: column %s", ErrNilExpression, c)
		}
		if _, ok := seen[c.Key()]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, c)
		}
		seen[c.Key()] = struct{}{}
	}
	return &Projection{columns: columns, computations: computations}, nil
}

// Columns returns the output columns in field order.
func (p *Projection) Columns() []types.Column {
	return p.columns
}

// Computations returns the field expressions in field order.
func (p *Projection) Computations() []expr.Expression {
	return p.computations
}

// Len is the number of output fields.
func (p *Projection) Len() int {
	return len(p.columns)
}

// OutputStruct is the output schema: one field per column typed by its
// computation.
func (p *Projection) OutputStruct() *types.StructDef {
	return p.TruncatedOutputStruct(len(p.columns))
}

// TruncatedOutputStruct is the schema of the first n fields.
func (p *Projection) TruncatedOutputStruct(n int) *types.StructDef {
	n = p.clamp(n)
	fields := make([]types.StructField, n)
	for i := 0; i < n; i++ {
		fields[i] = types.StructField{Column: p.columns[i], Type: p.computations[i].ReturnType()}
	}
	return types.ForFields(fields)
}

// Evaluate renders the full output record.
func (p *Projection) Evaluate(record types.Record) (types.Record, error) {
	return p.EvaluateTruncated(record, len(p.columns))
}

// EvaluateTruncated renders only the first n fields, for partial
// materialization where later fields depend on context not yet available.
func (p *Projection) EvaluateTruncated(record types.Record, n int) (types.Record, error) {
	n = p.clamp(n)
	out := make(types.Record, n)
	for i := 0; i < n; i++ {
		v, err := p.computations[i].Evaluate(record)
		if err != nil {
			return nil, fmt.Errorf("projection field %s: %w", p.columns[i], err)
		}
		out.Set(p.columns[i], v)
	}
	return out, nil
}

// WithoutWindow returns a projection without the fields whose computed type
// is the window marker type.
func (p *Projection) WithoutWindow() *Projection {
	window := types.WindowTypeDef()
	out := &Projection{}
	for i, c := range p.computations {
		if c.ReturnType().Equal(window) {
			continue
		}
		out.columns = append(out.columns, p.columns[i])
		out.computations = append(out.computations, c)
	}
	return out
}

func (p *Projection) clamp(n int) int {
	if n < 0 {
		return 0
	}
	if n > len(p.columns) {
		return len(p.columns)
	}
	return n
}
