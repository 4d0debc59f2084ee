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
	"github.com/rulego/streamagg/types"
)

// Bin is the tuple of per-aggregate bins for one group and one slice of
// time, in aggregate order.
type Bin []interface{}

func (b Bin) String() string {
	return aggregator.FormatTuple(len(b), func(i int) string { return fmt.Sprint(b[i]) })
}

// Memory is the sliding-window state of one group: the shared live-bin
// counter and one memory per aggregate.
type Memory struct {
	Bins       int64
	Aggregates []*aggregator.Memory
}

// Clone returns an independent copy of m.
func (m *Memory) Clone() *Memory {
	if m == nil {
		return nil
	}
	c := &Memory{Bins: m.Bins, Aggregates: make([]*aggregator.Memory, len(m.Aggregates))}
	for i, a := range m.Aggregates {
		c.Aggregates[i] = a.Clone()
	}
	return c
}

// TwoPhaseAggregateProjection is an AggregateProjection compiled into the
// bin/memory form used by tumbling and sliding windows.
type TwoPhaseAggregateProjection struct {
	projection *AggregateProjection
	aggregates []*aggregator.TwoPhaseAggregation
}

// NewTwoPhaseAggregateProjection compiles every aggregate of p. It fails
// when any aggregate cannot be split into bins; the error names the column
// and wraps *aggregator.UnsupportedAggregatorError.
func NewTwoPhaseAggregateProjection(p *AggregateProjection) (*TwoPhaseAggregateProjection, error) {
	out := &TwoPhaseAggregateProjection{
		projection: p,
		aggregates: make([]*aggregator.TwoPhaseAggregation, len(p.aggregates)),
	}
	for i, a := range p.aggregates {
		compiled, err := aggregator.NewTwoPhaseAggregation(a.Aggregate)
		if err != nil {
			return nil, fmt.Errorf("aggregate %s: %w", a.Column, err)
		}
		out.aggregates[i] = compiled
	}
	return out, nil
}

// Projection returns the one-phase projection this was compiled from.
func (p *TwoPhaseAggregateProjection) Projection() *AggregateProjection {
	return p.projection
}

// Aggregates returns the compiled aggregates in output order.
func (p *TwoPhaseAggregateProjection) Aggregates() []*aggregator.TwoPhaseAggregation {
	return p.aggregates
}

// OutputStruct has the same layout as the one-phase projection.
func (p *TwoPhaseAggregateProjection) OutputStruct() *types.StructDef {
	return p.projection.OutputStruct()
}

// BinType is the tuple of per-aggregate bin types.
func (p *TwoPhaseAggregateProjection) BinType() aggregator.StateType {
	elems := make([]aggregator.StateType, len(p.aggregates))
	for i, a := range p.aggregates {
		elems[i] = a.BinType()
	}
	return aggregator.TupleState(elems...)
}

// MemoryType pairs the shared live-bin counter with the tuple of
// per-aggregate memory types.
func (p *TwoPhaseAggregateProjection) MemoryType() aggregator.StateType {
	elems := make([]aggregator.StateType, len(p.aggregates))
	for i, a := range p.aggregates {
		elems[i] = a.MemoryType()
	}
	return aggregator.TupleState(aggregator.ScalarState(types.Int64), aggregator.TupleState(elems...))
}

// Fold folds record into current. A nil current starts a new bin.
func (p *TwoPhaseAggregateProjection) Fold(current Bin, record types.Record) (Bin, error) {
	if current != nil {
		if err := p.checkArity(current); err != nil {
			return nil, err
		}
	}
	next := make(Bin, len(p.aggregates))
	for i, a := range p.aggregates {
		cur := aggregator.None()
		if current != nil {
			cur = aggregator.Some(current[i])
		}
		v, err := a.FoldRecord(cur, record)
		if err != nil {
			return nil, fmt.Errorf("fold %s: %w", p.projection.aggregates[i].Column, err)
		}
		next[i] = v
	}
	return next, nil
}

// CombineBins merges next into current. A nil current yields a copy of next.
func (p *TwoPhaseAggregateProjection) CombineBins(current, next Bin) (Bin, error) {
	if err := p.checkArity(next); err != nil {
		return nil, err
	}
	if current == nil {
		return append(Bin(nil), next...), nil
	}
	if err := p.checkArity(current); err != nil {
		return nil, err
	}
	out := make(Bin, len(p.aggregates))
	for i, a := range p.aggregates {
		v, err := a.Combine(current[i], next[i])
		if err != nil {
			return nil, fmt.Errorf("combine %s: %w", p.projection.aggregates[i].Column, err)
		}
		out[i] = v
	}
	return out, nil
}

// TumblingAggregate finalizes a complete bin into the output record of the
// group identified by key.
func (p *TwoPhaseAggregateProjection) TumblingAggregate(key types.Record, bin Bin) (types.Record, error) {
	if err := p.checkArity(bin); err != nil {
		return nil, err
	}
	out := make(types.Record, len(p.aggregates)+len(p.projection.groupBys))
	for i, a := range p.aggregates {
		v, err := a.Finalize(bin[i])
		if err != nil {
			return nil, fmt.Errorf("finalize %s: %w", p.projection.aggregates[i].Column, err)
		}
		out.Set(p.projection.aggregates[i].Column, v)
	}
	if err := p.projection.emitGroupBys(key, out); err != nil {
		return nil, err
	}
	return out, nil
}

// MemoryAdd adds a completed bin to the group's sliding memory; nil mem is
// initialized. Bin shapes are checked before anything is mutated.
func (p *TwoPhaseAggregateProjection) MemoryAdd(mem *Memory, bin Bin) (*Memory, error) {
	if err := p.checkBin(bin); err != nil {
		return nil, err
	}
	if mem == nil {
		mem = &Memory{Aggregates: make([]*aggregator.Memory, len(p.aggregates))}
	}
	for i, a := range p.aggregates {
		next, err := a.MemoryAdd(mem.Aggregates[i], bin[i])
		if err != nil {
			return nil, fmt.Errorf("memory add %s: %w", p.projection.aggregates[i].Column, err)
		}
		mem.Aggregates[i] = next
	}
	mem.Bins++
	return mem, nil
}

// MemoryRemove retracts a bin that left the window. It returns nil when the
// last live bin is removed, meaning the group emits nothing. A failed
// removal leaves mem in an unspecified state; callers should discard it.
func (p *TwoPhaseAggregateProjection) MemoryRemove(mem *Memory, bin Bin) (*Memory, error) {
	if mem == nil {
		return nil, fmt.Errorf("%w: remove from group memory", aggregator.ErrEmptyMemory)
	}
	if err := p.checkBin(bin); err != nil {
		return nil, err
	}
	if mem.Bins <= 1 {
		return nil, nil
	}
	for i, a := range p.aggregates {
		next, err := a.MemoryRemove(mem.Aggregates[i], bin[i])
		if err != nil {
			return nil, fmt.Errorf("memory remove %s: %w", p.projection.aggregates[i].Column, err)
		}
		mem.Aggregates[i] = next
	}
	mem.Bins--
	return mem, nil
}

// SlidingAggregate renders the current window value of a group from its
// memory.
func (p *TwoPhaseAggregateProjection) SlidingAggregate(key types.Record, mem *Memory) (types.Record, error) {
	if mem == nil {
		return nil, fmt.Errorf("%w: sliding aggregate", aggregator.ErrEmptyMemory)
	}
	out := make(types.Record, len(p.aggregates)+len(p.projection.groupBys))
	for i, a := range p.aggregates {
		v, err := a.MemoryFinalize(mem.Aggregates[i])
		if err != nil {
			return nil, fmt.Errorf("finalize %s: %w", p.projection.aggregates[i].Column, err)
		}
		out.Set(p.projection.aggregates[i].Column, v)
	}
	if err := p.projection.emitGroupBys(key, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *TwoPhaseAggregateProjection) checkArity(bin Bin) error {
	if len(bin) != len(p.aggregates) {
		return fmt.Errorf("%w: got %d, want %d", ErrBinArity, len(bin), len(p.aggregates))
	}
	return nil
}

func (p *TwoPhaseAggregateProjection) checkBin(bin Bin) error {
	if err := p.checkArity(bin); err != nil {
		return err
	}
	for i, a := range p.aggregates {
		if err := a.CheckBin(bin[i]); err != nil {
			return fmt.Errorf("bin %s: %w", p.projection.aggregates[i].Column, err)
		}
	}
	return nil
}
