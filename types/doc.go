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

/*
Package types defines the schema model shared by the aggregation packages.

DataType is the scalar type set. TypeDef adds nullability and also describes
record (struct) types. Column, StructField and StructDef name the fields of a
record, and Record carries one row keyed by Column.Key.

# Storage classes

Values travel as plain Go values in one storage class per type family:

	Int8 .. Int64      int64
	UInt8 .. UInt64    uint64
	Float32, Float64   float64
	Utf8               string
	Boolean            bool
	Timestamp          time.Time

Normalize converts incoming values of any compatible Go type into the storage
class; nil is SQL NULL and passes through unchanged. Compare, Add and Sub
operate on normalized values only.
*/
package types
