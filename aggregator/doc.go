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
Package aggregator compiles SQL aggregate functions into incremental form.

An AggregationExpression is one call such as sum(price). Evaluated directly,
it aggregates every row of a window at once. NewTwoPhaseAggregation compiles
it for bin-based execution, where the derived representations depend only on
the aggregator and the type and nullability of its input.

# Bins

A bin holds the partial aggregate of the rows of one time slice. Fold adds a
row, Combine merges two bins, Finalize turns a bin into the output value.
NULL inputs are skipped; nullable aggregates keep an Option so that "no value
yet" stays distinct from zero.

	sum(Int32?)   bin Option<Int64>
	avg(Float32)  bin (Int64, Float64)
	count(Utf8?)  bin Int64

# Memory

Sliding windows keep a Memory per group. MemoryAdd adds a bin entering the
window and MemoryRemove retracts one leaving it, in any order. Count, sum and
avg retract arithmetically. Min and max keep every live value in an ordered
Multiset, so retracting the current extremum exposes the next one.

	mem, _ := agg.MemoryAdd(nil, bin1)
	mem, _ = agg.MemoryAdd(mem, bin2)
	mem, _ = agg.MemoryRemove(mem, bin1)
	value, _ := agg.MemoryFinalize(mem)

MemoryRemove returns nil when the last live bin leaves; the group then emits
nothing.

# Unsupported aggregates

count_distinct has no two-phase form. NewTwoPhaseAggregation rejects it with
*UnsupportedAggregatorError, which matches ErrUnsupportedAggregator under
errors.Is.
*/
package aggregator
