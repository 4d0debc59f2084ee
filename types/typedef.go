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

// TypeDef is either a scalar DataType or a record schema, plus nullability.
type TypeDef struct {
	dataType  DataType
	structDef *StructDef
	nullable  bool
}

// Scalar returns a scalar type definition.
func Scalar(dataType DataType, nullable bool) TypeDef {
	return TypeDef{dataType: dataType, nullable: nullable}
}

// Struct returns a record type definition.
func Struct(def *StructDef, nullable bool) TypeDef {
	return TypeDef{structDef: def, nullable: nullable}
}

// IsStruct reports whether t is a record type.
func (t TypeDef) IsStruct() bool {
	return t.structDef != nil
}

// DataType returns the scalar type. It is zero for record types.
func (t TypeDef) DataType() DataType {
	return t.dataType
}

// StructDef returns the record schema, or nil for scalar types.
func (t TypeDef) StructDef() *StructDef {
	return t.structDef
}

// Nullable reports whether values of this type may be NULL.
func (t TypeDef) Nullable() bool {
	return t.nullable
}

// WithNullable returns a copy of t with the given nullability.
func (t TypeDef) WithNullable(nullable bool) TypeDef {
	t.nullable = nullable
	return t
}

// Equal compares two type definitions structurally.
func (t TypeDef) Equal(other TypeDef) bool {
	if t.nullable != other.nullable || t.IsStruct() != other.IsStruct() {
		return false
	}
	if !t.IsStruct() {
		return t.dataType == other.dataType
	}
	return t.structDef.Equal(other.structDef)
}

func (t TypeDef) String() string {
	var s string
	if t.IsStruct() {
		s = t.structDef.String()
	} else {
		s = t.dataType.String()
	}
	if t.nullable {
		return s + "?"
	}
	return s
}

// StructField is one named, typed field of a record schema.
type StructField struct {
	Column
	Type TypeDef
}

// NewStructField creates a field; relation may be empty.
func NewStructField(name, relation string, typ TypeDef) StructField {
	return StructField{Column: Column{Relation: relation, Name: name}, Type: typ}
}

// StructDef is an ordered list of uniquely keyed fields.
type StructDef struct {
	Name   string
	Fields []StructField
}

// NewStructDef validates that field keys are unique.
func NewStructDef(name string, fields []StructField) (*StructDef, error) {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, ok := seen[f.Key()]; ok {
			return nil, fmt.Errorf("duplicate field %q in struct %q", f.Key(), name)
		}
		seen[f.Key()] = struct{}{}
	}
	return &StructDef{Name: name, Fields: fields}, nil
}

// ForFields builds an anonymous struct. Callers guarantee unique keys.
func ForFields(fields []StructField) *StructDef {
	return &StructDef{Fields: fields}
}

// Field looks up a field by column key.
func (s *StructDef) Field(key string) (StructField, bool) {
	for _, f := range s.Fields {
		if f.Key() == key {
			return f, true
		}
	}
	return StructField{}, false
}

// Keys returns the field keys in schema order.
func (s *StructDef) Keys() []string {
	keys := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		keys[i] = f.Key()
	}
	return keys
}

// Equal compares names and fields in order.
func (s *StructDef) Equal(other *StructDef) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.Name != other.Name || len(s.Fields) != len(other.Fields) {
		return false
	}
	for i := range s.Fields {
		if s.Fields[i].Column != other.Fields[i].Column || !s.Fields[i].Type.Equal(other.Fields[i].Type) {
			return false
		}
	}
	return true
}

func (s *StructDef) String() string {
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		parts[i] = f.Key() + ": " + f.Type.String()
	}
	return s.Name + "{" + strings.Join(parts, ", ") + "}"
}

// WindowStructName names the reserved window metadata struct.
const WindowStructName = "window"

// WindowTypeDef is the marker type carried by window_start/window_end style
// columns. Projections strip fields of this type before persisting output.
func WindowTypeDef() TypeDef {
	return Struct(&StructDef{
		Name: WindowStructName,
		Fields: []StructField{
			NewStructField("start", "", Scalar(Timestamp, false)),
			NewStructField("end", "", Scalar(Timestamp, false)),
		},
	}, false)
}
