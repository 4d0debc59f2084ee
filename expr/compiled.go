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
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/rulego/streamagg/types"
)

// Compiled is an expr-lang expression compiled once and run per record.
// Qualified record keys ("orders.price") are reachable with member access,
// unqualified ones as plain identifiers. Unknown identifiers evaluate to nil.
type Compiled struct {
	source  string
	program *vm.Program
	typ     types.TypeDef
}

// Compile compiles source with a declared result type. Record-typed results
// are not supported.
func Compile(source string, typ types.TypeDef) (*Compiled, error) {
	if typ.IsStruct() {
		return nil, fmt.Errorf("expression %q: record result types are not supported", source)
	}
	program, err := expr.Compile(source,
		expr.Env(map[string]interface{}{}),
		expr.AllowUndefinedVariables(),
		expr.Function("coalesce", coalesce),
	)
	if err != nil {
		return nil, fmt.Errorf("compile expression %q: %w", source, err)
	}
	return &Compiled{source: source, program: program, typ: typ}, nil
}

// MustCompile is Compile that panics on error, for static expressions.
func MustCompile(source string, typ types.TypeDef) *Compiled {
	c, err := Compile(source, typ)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Compiled) ReturnType() types.TypeDef {
	return c.typ
}

func (c *Compiled) Evaluate(record types.Record) (interface{}, error) {
	out, err := expr.Run(c.program, env(record))
	if err != nil {
		return nil, fmt.Errorf("evaluate expression %q: %w", c.source, err)
	}
	return checkResult(c.source, c.typ, out)
}

func (c *Compiled) String() string {
	return c.source
}

// env exposes a record to expr-lang, nesting qualified keys under their relation.
func env(record types.Record) map[string]interface{} {
	out := make(map[string]interface{}, len(record))
	for k, v := range record {
		relation, name, ok := strings.Cut(k, ".")
		if !ok {
			out[k] = v
			continue
		}
		nested, _ := out[relation].(map[string]interface{})
		if nested == nil {
			nested = make(map[string]interface{})
			out[relation] = nested
		}
		nested[name] = v
	}
	return out
}

// coalesce returns the first non-nil argument.
func coalesce(params ...interface{}) (interface{}, error) {
	for _, p := range params {
		if p != nil {
			return p, nil
		}
	}
	return nil, nil
}
