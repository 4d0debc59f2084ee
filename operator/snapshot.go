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

import (
	"fmt"

	"github.com/rulego/streamagg/aggregator"
)

// MemorySnapshot is the serializable form of a group's sliding memory.
type MemorySnapshot struct {
	Bins       int64                       `json:"bins"`
	Aggregates []aggregator.MemorySnapshot `json:"aggregates"`
}

// Snapshot captures mem. A nil memory yields a zero snapshot.
func (p *TwoPhaseAggregateProjection) Snapshot(mem *Memory) MemorySnapshot {
	if mem == nil {
		return MemorySnapshot{}
	}
	s := MemorySnapshot{Bins: mem.Bins, Aggregates: make([]aggregator.MemorySnapshot, len(p.aggregates))}
	for i, a := range p.aggregates {
		s.Aggregates[i] = a.Snapshot(mem.Aggregates[i])
	}
	return s
}

// Restore rebuilds memory from a snapshot taken by the same projection.
func (p *TwoPhaseAggregateProjection) Restore(s MemorySnapshot) (*Memory, error) {
	if s.Bins <= 0 {
		return nil, nil
	}
	if len(s.Aggregates) != len(p.aggregates) {
		return nil, fmt.Errorf("%w: snapshot has %d aggregates, want %d", ErrBinArity, len(s.Aggregates), len(p.aggregates))
	}
	mem := &Memory{Bins: s.Bins, Aggregates: make([]*aggregator.Memory, len(p.aggregates))}
	for i, a := range p.aggregates {
		if s.Aggregates[i].Bins != s.Bins {
			return nil, fmt.Errorf("restore %s: %d bins, group has %d", p.projection.aggregates[i].Column, s.Aggregates[i].Bins, s.Bins)
		}
		m, err := a.Restore(s.Aggregates[i])
		if err != nil {
			return nil, err
		}
		mem.Aggregates[i] = m
	}
	return mem, nil
}
