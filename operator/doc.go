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
Package operator holds the projections an executor runs for a GROUP BY.

AggregateProjection is the one-phase description: aggregate outputs followed
by grouping outputs, always in that order. TwoPhaseAggregateProjection is the
same aggregation compiled into per-group bins and sliding memories:

	tumbling  Fold per row, CombineBins across workers, TumblingAggregate at window end
	sliding   MemoryAdd per completed bin, MemoryRemove as bins expire, SlidingAggregate per emit
*/
package operator
