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
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedAggregator is wrapped by every UnsupportedAggregatorError.
	ErrUnsupportedAggregator = errors.New("unsupported aggregator for two-phase execution")
	// ErrUnimplemented marks aggregator/operation combinations with no definition.
	ErrUnimplemented = errors.New("unimplemented aggregate operation")
	// ErrNullValue is returned when a non-nullable input produces NULL.
	ErrNullValue = errors.New("null value for non-nullable aggregate input")
	// ErrEmptyMemory is returned when finalizing or retracting from empty memory.
	ErrEmptyMemory = errors.New("aggregate memory is empty")
	// ErrBinNotInMemory is returned when retracting a bin that was never added.
	ErrBinNotInMemory = errors.New("bin was not added to memory")
	// ErrBinShape is returned when a bin value does not match the bin type.
	ErrBinShape = errors.New("bin value does not match bin type")
)

// UnsupportedAggregatorError reports an aggregator that cannot take part in
// the requested operation.
type UnsupportedAggregatorError struct {
	Aggregator Aggregator
	Operation  string
}

func (e *UnsupportedAggregatorError) Error() string {
	return fmt.Sprintf("%s: %s does not support %s", ErrUnsupportedAggregator, e.Aggregator, e.Operation)
}

func (e *UnsupportedAggregatorError) Unwrap() error {
	return ErrUnsupportedAggregator
}

// InvariantViolation is panicked when the upstream type system hands the
// compiler something it guarantees never to produce, such as a record-typed
// aggregate input. It is not meant to be recovered.
type InvariantViolation struct {
	Message string
}

func (e *InvariantViolation) Error() string {
	return "type derivation invariant violated: " + e.Message
}

func unimplemented(a Aggregator, op string) error {
	return fmt.Errorf("%w: %s for %s", ErrUnimplemented, op, a)
}

func binShape(a Aggregator, bin interface{}) error {
	return fmt.Errorf("%w: %s got %T", ErrBinShape, a, bin)
}
