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

package types

import (
	"fmt"
	"time"
)

// TimeSlot is the runtime value of a window marker field: the half-open
// interval [Start, End) a window covers.
type TimeSlot struct {
	Start time.Time
	End   time.Time
}

// NewTimeSlot creates the slot [start, end).
func NewTimeSlot(start, end time.Time) TimeSlot {
	return TimeSlot{Start: start, End: end}
}

// Contains checks if t is within the slot.
func (ts TimeSlot) Contains(t time.Time) bool {
	return !t.Before(ts.Start) && t.Before(ts.End)
}

// Record renders the slot as a value of WindowTypeDef.
func (ts TimeSlot) Record() Record {
	return Record{"start": ts.Start, "end": ts.End}
}

// TimeSlotOf reads a slot back from a window field value, either a TimeSlot
// or a record with start and end fields.
func TimeSlotOf(v interface{}) (TimeSlot, error) {
	switch w := v.(type) {
	case TimeSlot:
		return w, nil
	case Record:
		return timeSlotFromMap(w)
	case map[string]interface{}:
		return timeSlotFromMap(w)
	}
	return TimeSlot{}, fmt.Errorf("%T is not a window value", v)
}

func timeSlotFromMap(m map[string]interface{}) (TimeSlot, error) {
	start, err := Normalize(Timestamp, m["start"])
	if err != nil {
		return TimeSlot{}, fmt.Errorf("window start: %w", err)
	}
	end, err := Normalize(Timestamp, m["end"])
	if err != nil {
		return TimeSlot{}, fmt.Errorf("window end: %w", err)
	}
	if start == nil || end == nil {
		return TimeSlot{}, fmt.Errorf("window value missing start or end")
	}
	return TimeSlot{Start: start.(time.Time), End: end.(time.Time)}, nil
}

func (ts TimeSlot) String() string {
	return fmt.Sprintf("[%s, %s)", ts.Start.Format(time.RFC3339Nano), ts.End.Format(time.RFC3339Nano))
}
