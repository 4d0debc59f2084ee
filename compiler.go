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

package streamagg

import (
	"errors"
	"fmt"

	"github.com/rulego/streamagg/checkpoint"
	"github.com/rulego/streamagg/logger"
	"github.com/rulego/streamagg/operator"
	"github.com/rulego/streamagg/types"
)

// ErrTwoPhaseRequired is returned in TwoPhaseRequired mode when an
// aggregation cannot be split into bins.
var ErrTwoPhaseRequired = errors.New("two-phase aggregation required")

// Compiler turns planner aggregate projections into execution plans. It is
// immutable after New and safe for concurrent use.
type Compiler struct {
	config Config
	log    logger.Logger
}

// New creates a compiler. Without options it uses the default config and
// the global logger.
func New(opts ...Option) (*Compiler, error) {
	c := &Compiler{config: DefaultConfig()}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.config.Validate(); err != nil {
		return nil, err
	}
	if c.log == nil {
		c.log = logger.GetDefault()
	}
	if c.config.LogLevel != "" {
		// filter privately; the logger may be shared
		level, _ := logger.ParseLevel(c.config.LogLevel)
		c.log = logger.WithLevel(c.log, level)
	}
	c.log = logger.Named(c.log, "compiler")
	return c, nil
}

// Config returns the effective configuration.
func (c *Compiler) Config() Config {
	return c.config
}

// Plan is the compiled form of one GROUP BY aggregation.
type Plan struct {
	// Projection is the one-phase projection, always present. Executors
	// without bin support recompute whole windows with Projection.Emit.
	Projection *operator.AggregateProjection
	// TwoPhase is nil when the plan is one-phase.
	TwoPhase *operator.TwoPhaseAggregateProjection
	// OutputStruct is the schema of every emitted record.
	OutputStruct *types.StructDef
}

// IsTwoPhase reports whether bins and memories are available.
func (p *Plan) IsTwoPhase() bool {
	return p.TwoPhase != nil
}

// Checkpoint returns the sliding memory codec of a two-phase plan, or nil.
func (p *Plan) Checkpoint() *checkpoint.Codec {
	if p.TwoPhase == nil {
		return nil
	}
	return checkpoint.NewCodec(p.TwoPhase)
}

// Compile decides between the two-phase and one-phase forms of p according
// to the configured mode.
func (c *Compiler) Compile(p *operator.AggregateProjection) (*Plan, error) {
	if p == nil {
		return nil, fmt.Errorf("compile: nil aggregate projection")
	}
	plan := &Plan{Projection: p, OutputStruct: p.OutputStruct()}
	c.log.Debug("output %s", plan.OutputStruct)

	if c.config.TwoPhase == TwoPhaseDisabled {
		c.log.Info("one-phase plan for %d aggregates: two-phase disabled", len(p.Aggregates()))
		return plan, nil
	}

	if !p.SupportsTwoPhase() {
		for _, a := range p.Aggregates() {
			if !a.Aggregate.AllowsTwoPhase() {
				c.log.Warn("aggregate %s = %s blocks two-phase aggregation", a.Column, a.Aggregate)
			}
		}
	}
	twoPhase, err := operator.NewTwoPhaseAggregateProjection(p)
	if err != nil {
		if c.config.TwoPhase == TwoPhaseRequired {
			c.log.Error("compile failed: %v", err)
			return nil, fmt.Errorf("%w: %w", ErrTwoPhaseRequired, err)
		}
		c.log.Info("one-phase plan for %d aggregates", len(p.Aggregates()))
		return plan, nil
	}

	plan.TwoPhase = twoPhase
	c.log.Info("two-phase plan for %d aggregates", len(p.Aggregates()))
	c.log.Debug("bin %s", twoPhase.BinType())
	c.log.Debug("memory %s", twoPhase.MemoryType())
	return plan, nil
}
