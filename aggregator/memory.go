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
)

// Memory is the running state of one aggregate across the live bins of a
// sliding window. A group owns its memory exclusively; MemoryAdd and
// MemoryRemove mutate it in place and must not run concurrently for the same
// group.
type Memory struct {
	// Bins is the live-bin counter.
	Bins int64
	// Present counts live bins that contributed a value.
	Present int64
	// Accumulator is the cumulative count, sum or AvgState, nil while Present
	// is zero. Float avg keeps only the total row count here. Unused by min,
	// max and float sum.
	Accumulator interface{}
	// Values holds every live min/max bin value, or every live float sum,
	// with its multiplicity.
	Values *Multiset
}

// Clone returns an independent copy of m.
func (m *Memory) Clone() *Memory {
	if m == nil {
		return nil
	}
	c := *m
	if m.Values != nil {
		c.Values = m.Values.Clone()
	}
	return &c
}

func (a *TwoPhaseAggregation) newMemory() *Memory {
	m := &Memory{}
	if a.keepsValues() {
		m.Values = NewMultiset(a.aggType)
	}
	return m
}

// keepsValues reports whether memory holds the live bin values instead of a
// running accumulator. Float sums do not retract exactly under subtraction,
// so they are summed again from the live values on finalize.
func (a *TwoPhaseAggregation) keepsValues() bool {
	switch a.aggregator {
	case Min, Max:
		return true
	case Sum, Avg:
		return a.aggType.IsFloat()
	}
	return false
}

// memoryValue is the part of a present bin value stored in Values.
func (a *TwoPhaseAggregation) memoryValue(value interface{}) interface{} {
	if s, ok := value.(AvgState); ok {
		return s.Sum
	}
	return value
}

// MemoryAdd adds a bin's contribution. A nil memory is initialized. The
// returned memory is current itself when current is non-nil.
func (a *TwoPhaseAggregation) MemoryAdd(current *Memory, bin interface{}) (*Memory, error) {
	value, present, err := a.binValue(bin)
	if err != nil {
		return nil, err
	}
	mem := current
	if mem == nil {
		mem = a.newMemory()
	}
	mem.Bins++
	if !present {
		return mem, nil
	}
	mem.Present++
	switch {
	case mem.Values != nil:
		mem.Values.Insert(a.memoryValue(value))
		if s, ok := value.(AvgState); ok {
			count, _ := mem.Accumulator.(int64)
			mem.Accumulator = count + s.Count
		}
	case mem.Accumulator == nil:
		mem.Accumulator = value
	default:
		mem.Accumulator = a.combineValues(mem.Accumulator, value)
	}
	return mem, nil
}

// MemoryRemove retracts a bin previously passed to MemoryAdd, in any order.
// It returns nil once the last live bin leaves: the group then produces no
// row at all, rather than a zero or NULL value.
func (a *TwoPhaseAggregation) MemoryRemove(current *Memory, bin interface{}) (*Memory, error) {
	if current == nil {
		return nil, fmt.Errorf("%w: remove from %s", ErrEmptyMemory, a)
	}
	value, present, err := a.binValue(bin)
	if err != nil {
		return nil, err
	}
	if current.Bins <= 1 {
		return nil, nil
	}
	if present {
		switch {
		case current.Values != nil:
			if current.Values.Count(a.memoryValue(value)) == 0 {
				return nil, fmt.Errorf("%w: %s value %v", ErrBinNotInMemory, a, value)
			}
		case current.Present == 0:
			return nil, fmt.Errorf("%w: %s has no contributing bins", ErrBinNotInMemory, a)
		}
	}

	current.Bins--
	if !present {
		return current, nil
	}
	current.Present--
	switch {
	case current.Values != nil:
		current.Values.Remove(a.memoryValue(value))
		if s, ok := value.(AvgState); ok {
			if current.Present == 0 {
				current.Accumulator = nil
			} else {
				current.Accumulator = current.Accumulator.(int64) - s.Count
			}
		}
	case current.Present == 0:
		current.Accumulator = nil
	default:
		current.Accumulator = a.retractValue(current.Accumulator, value)
	}
	return current, nil
}

// MemoryFinalize produces the current window value from memory, with the same
// value semantics as Finalize. Min and max read the least and greatest live
// values.
func (a *TwoPhaseAggregation) MemoryFinalize(mem *Memory) (interface{}, error) {
	if err := a.implemented("memory finalize"); err != nil {
		return nil, err
	}
	if mem == nil {
		return nil, fmt.Errorf("%w: finalize %s", ErrEmptyMemory, a)
	}
	switch a.aggregator {
	case Min:
		v, _ := mem.Values.Min()
		return v, nil
	case Max:
		v, _ := mem.Values.Max()
		return v, nil
	}
	if mem.Values != nil {
		if mem.Present == 0 {
			return nil, nil
		}
		var total float64
		for _, e := range mem.Values.Entries() {
			for i := int64(0); i < e.Count; i++ {
				total += e.Value.(float64)
			}
		}
		if a.aggregator == Avg {
			return total / float64(mem.Accumulator.(int64)), nil
		}
		return total, nil
	}
	if mem.Accumulator == nil {
		if a.aggregator == Count {
			return int64(0), nil
		}
		return nil, nil
	}
	return a.finalizeValue(mem.Accumulator), nil
}
