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

package aggregator

import (
	"fmt"
	"strings"
)

// Aggregator is the closed set of aggregate function kinds.
type Aggregator int

const (
	Count Aggregator = iota
	Sum
	Avg
	Min
	Max
	// CountDistinct is evaluated one-phase only.
	CountDistinct
)

// 为了方便使用，提供字符串常量版本
const (
	CountStr         = "count"
	SumStr           = "sum"
	AvgStr           = "avg"
	MinStr           = "min"
	MaxStr           = "max"
	CountDistinctStr = "count_distinct"
)

var aggregatorNames = []string{
	Count:         CountStr,
	Sum:           SumStr,
	Avg:           AvgStr,
	Min:           MinStr,
	Max:           MaxStr,
	CountDistinct: CountDistinctStr,
}

func (a Aggregator) String() string {
	if a >= 0 && int(a) < len(aggregatorNames) {
		return aggregatorNames[a]
	}
	return fmt.Sprintf("aggregator(%d)", int(a))
}

// ParseAggregator resolves a SQL function name, case-insensitively.
func ParseAggregator(name string) (Aggregator, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for i, n := range aggregatorNames {
		if n == lower {
			return Aggregator(i), nil
		}
	}
	return 0, fmt.Errorf("aggregator function %s not found", name)
}

// AllowsTwoPhase reports whether a can be split into bin-fold/bin-combine.
func (a Aggregator) AllowsTwoPhase() bool {
	return a != CountDistinct
}
