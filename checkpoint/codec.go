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

// Package checkpoint persists sliding-window group memory between runs.
//
// A checkpoint is one format byte followed by the snappy-compressed JSON
// snapshot of an operator.Memory. Decoding keeps numbers as json.Number so
// 64-bit integers survive the round trip, then normalizes every value back
// into the storage class of its aggregate.
package checkpoint

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang/snappy"

	"github.com/rulego/streamagg/operator"
)

const formatVersion byte = 1

// ErrFormat is returned for data that is not a checkpoint of this format.
var ErrFormat = errors.New("invalid checkpoint format")

// Codec encodes the memories of one compiled projection. Checkpoints are
// only meaningful to a codec for the same projection.
type Codec struct {
	projection *operator.TwoPhaseAggregateProjection
}

// NewCodec creates a codec for p.
func NewCodec(p *operator.TwoPhaseAggregateProjection) *Codec {
	return &Codec{projection: p}
}

// Encode serializes mem. A nil memory encodes as an empty group.
func (c *Codec) Encode(mem *operator.Memory) ([]byte, error) {
	raw, err := json.Marshal(c.projection.Snapshot(mem))
	if err != nil {
		return nil, fmt.Errorf("encode checkpoint: %w", err)
	}
	out := make([]byte, 1, 1+snappy.MaxEncodedLen(len(raw)))
	out[0] = formatVersion
	return append(out, snappy.Encode(nil, raw)...), nil
}

// Decode restores memory written by Encode. An empty group decodes to nil.
func (c *Codec) Decode(data []byte) (*operator.Memory, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrFormat)
	}
	if data[0] != formatVersion {
		return nil, fmt.Errorf("%w: version %d", ErrFormat, data[0])
	}
	raw, err := snappy.Decode(nil, data[1:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var s operator.MemorySnapshot
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	mem, err := c.projection.Restore(s)
	if err != nil {
		return nil, fmt.Errorf("decode checkpoint: %w", err)
	}
	return mem, nil
}
