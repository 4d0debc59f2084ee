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

import "errors"

var (
	// ErrArityMismatch is returned when columns and computations differ in length.
	ErrArityMismatch = errors.New("column and computation counts differ")
	// ErrDuplicateColumn is returned when two output fields share a key.
	ErrDuplicateColumn = errors.New("duplicate output column")
	// ErrNilExpression is returned for a missing computation or aggregate.
	ErrNilExpression = errors.New("nil expression")
	// ErrBinArity is returned when a bin tuple has the wrong number of slots.
	ErrBinArity = errors.New("bin arity does not match aggregates")
)
