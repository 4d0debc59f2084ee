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
	"math"
	"strconv"

	"github.com/rulego/streamagg/types"
)

// MemorySnapshot is the serializable form of a Memory.
type MemorySnapshot struct {
	Bins        int64        `json:"bins"`
	Present     int64        `json:"present"`
	Accumulator interface{}  `json:"acc,omitempty"`
	Values      []ValueCount `json:"values,omitempty"`
}

// ValueCount is one multiset entry.
type ValueCount struct {
	Value interface{} `json:"v"`
	Count int64       `json:"n"`
}

type avgSnapshot struct {
	Count int64       `json:"count"`
	Sum   interface{} `json:"sum"`
}

// Snapshot captures m. A nil memory yields a zero snapshot. Infinite and NaN
// floats are written as strings, which JSON numbers cannot carry.
func (a *TwoPhaseAggregation) Snapshot(m *Memory) MemorySnapshot {
	if m == nil {
		return MemorySnapshot{}
	}
	s := MemorySnapshot{Bins: m.Bins, Present: m.Present}
	if m.Values != nil {
		for _, e := range m.Values.Entries() {
			s.Values = append(s.Values, ValueCount{Value: snapshotValue(e.Value), Count: e.Count})
		}
	}
	if st, ok := m.Accumulator.(AvgState); ok {
		s.Accumulator = avgSnapshot{Count: st.Count, Sum: st.Sum}
	} else {
		s.Accumulator = snapshotValue(m.Accumulator)
	}
	return s
}

func snapshotValue(v interface{}) interface{} {
	if f, ok := v.(float64); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return v
}

// Restore rebuilds memory from a snapshot, normalizing decoded values back
// into their storage classes. A snapshot with no live bins restores to nil.
func (a *TwoPhaseAggregation) Restore(s MemorySnapshot) (*Memory, error) {
	if s.Bins <= 0 {
		return nil, nil
	}
	if s.Present < 0 || s.Present > s.Bins {
		return nil, fmt.Errorf("restore %s: present %d out of range for %d bins", a, s.Present, s.Bins)
	}
	if s.Present == 0 && s.Accumulator != nil {
		return nil, fmt.Errorf("restore %s: accumulator without present bins", a)
	}
	m := a.newMemory()
	m.Bins = s.Bins
	m.Present = s.Present
	if m.Values != nil {
		for _, vc := range s.Values {
			v, err := types.Normalize(a.aggType, vc.Value)
			if err != nil {
				return nil, fmt.Errorf("restore %s: %w", a, err)
			}
			m.Values.InsertN(v, vc.Count)
		}
		if m.Values.Size() != m.Present {
			return nil, fmt.Errorf("restore %s: %d values for %d present bins", a, m.Values.Size(), m.Present)
		}
		if a.aggregator != Avg {
			return m, nil
		}
	}
	if s.Accumulator == nil {
		if m.Present > 0 {
			return nil, fmt.Errorf("restore %s: missing accumulator", a)
		}
		return m, nil
	}
	acc, err := a.restoreAccumulator(s.Accumulator)
	if err != nil {
		return nil, fmt.Errorf("restore %s: %w", a, err)
	}
	m.Accumulator = acc
	return m, nil
}

func (a *TwoPhaseAggregation) restoreAccumulator(raw interface{}) (interface{}, error) {
	if a.keepsValues() {
		// float avg: total row count of the live bins
		return types.Normalize(types.Int64, raw)
	}
	if a.aggregator != Avg {
		return types.Normalize(a.aggType, raw)
	}
	switch st := raw.(type) {
	case avgSnapshot:
		return a.restoreAvg(st.Count, st.Sum)
	case map[string]interface{}:
		return a.restoreAvg(st["count"], st["sum"])
	}
	return nil, binShape(a.aggregator, raw)
}

func (a *TwoPhaseAggregation) restoreAvg(count, sum interface{}) (interface{}, error) {
	c, err := types.Normalize(types.Int64, count)
	if err != nil {
		return nil, err
	}
	n, ok := c.(int64)
	if !ok {
		return nil, binShape(a.aggregator, count)
	}
	s, err := types.Normalize(a.aggType, sum)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, binShape(a.aggregator, sum)
	}
	return AvgState{Count: n, Sum: s}, nil
}
