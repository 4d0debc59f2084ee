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

// Column is a qualified field identifier: an optional relation plus a name.
type Column struct {
	Relation string
	Name     string
}

// NewColumn creates an unqualified column.
func NewColumn(name string) Column {
	return Column{Name: name}
}

// QualifiedColumn creates a column tagged with its source relation.
func QualifiedColumn(relation, name string) Column {
	return Column{Relation: relation, Name: name}
}

// Key is the identity used for record fields and schema matching.
func (c Column) Key() string {
	if c.Relation == "" {
		return c.Name
	}
	return c.Relation + "." + c.Name
}

func (c Column) String() string {
	return c.Key()
}

// Record is the executor's row representation, keyed by Column.Key.
// A nil value is SQL NULL.
type Record map[string]interface{}

// Get returns the value of column c; missing fields read as NULL.
func (r Record) Get(c Column) interface{} {
	return r[c.Key()]
}

// Set stores v under column c.
func (r Record) Set(c Column, v interface{}) {
	r[c.Key()] = v
}
