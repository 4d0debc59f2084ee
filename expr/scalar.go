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

package expr

import (
	"fmt"

	"github.com/rulego/streamagg/types"
)

// Expression is a typed scalar expression evaluated against one input record.
// Implementations report their output type and nullability up front so the
// aggregate compiler can specialize without evaluating anything.
type Expression interface {
	// ReturnType is the type of every value Evaluate produces.
	ReturnType() types.TypeDef
	// Evaluate computes the value for record. A nil result is SQL NULL.
	Evaluate(record types.Record) (interface{}, error)
	String() string
}

// Nullable reports whether e may evaluate to NULL.
func Nullable(e Expression) bool {
	return e.ReturnType().Nullable()
}

// ColumnRef reads one field of the input record.
type ColumnRef struct {
	Column types.Column
	Type   types.TypeDef
}

// Col is shorthand for a ColumnRef over an unqualified column.
func Col(name string, typ types.TypeDef) *ColumnRef {
	return &ColumnRef{Column: types.NewColumn(name), Type: typ}
}

func (c *ColumnRef) ReturnType() types.TypeDef {
	return c.Type
}

func (c *ColumnRef) Evaluate(record types.Record) (interface{}, error) {
	v := record.Get(c.Column)
	if c.Type.IsStruct() {
		if v == nil && !c.Type.Nullable() {
			return nil, fmt.Errorf("column %s: unexpected NULL", c.Column)
		}
		return v, nil
	}
	return checkResult(c.String(), c.Type, v)
}

func (c *ColumnRef) String() string {
	return c.Column.Key()
}

// Literal is a constant.
type Literal struct {
	Value interface{}
	Type  types.TypeDef
}

// Lit creates a literal of the given scalar type; a nil value makes it nullable.
func Lit(value interface{}, dataType types.DataType) *Literal {
	return &Literal{Value: value, Type: types.Scalar(dataType, value == nil)}
}

func (l *Literal) ReturnType() types.TypeDef {
	return l.Type
}

func (l *Literal) Evaluate(types.Record) (interface{}, error) {
	return checkResult(l.String(), l.Type, l.Value)
}

func (l *Literal) String() string {
	if l.Value == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", l.Value)
}

// checkResult normalizes v into typ's storage class and enforces nullability.
func checkResult(name string, typ types.TypeDef, v interface{}) (interface{}, error) {
	if v == nil {
		if !typ.Nullable() {
			return nil, fmt.Errorf("expression %s: NULL produced for non-nullable type %s", name, typ)
		}
		return nil, nil
	}
	out, err := types.Normalize(typ.DataType(), v)
	if err != nil {
		return nil, fmt.Errorf("expression %s: %w", name, err)
	}
	return out, nil
}
