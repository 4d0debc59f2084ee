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
	"github.com/google/btree"

	"github.com/rulego/streamagg/types"
)

const multisetDegree = 16

type multisetEntry struct {
	value interface{}
	count int64
}

// MultisetEntry is one distinct value and its multiplicity.
type MultisetEntry struct {
	Value interface{}
	Count int64
}

// Multiset is an ordered multiset of normalized values, the memory behind
// retractable Min/Max. Insert, remove-one-occurrence and extremum lookup are
// O(log n) in the number of distinct values.
type Multiset struct {
	dataType types.DataType
	tree     *btree.BTreeG[multisetEntry]
	size     int64
}

// NewMultiset creates an empty multiset ordered by types.Compare on d.
func NewMultiset(d types.DataType) *Multiset {
	return &Multiset{
		dataType: d,
		tree: btree.NewG(multisetDegree, func(a, b multisetEntry) bool {
			return types.Compare(d, a.value, b.value) < 0
		}),
	}
}

// Insert adds one occurrence of v.
func (m *Multiset) Insert(v interface{}) {
	m.InsertN(v, 1)
}

// InsertN adds n occurrences of v.
func (m *Multiset) InsertN(v interface{}, n int64) {
	if n <= 0 {
		return
	}
	entry, ok := m.tree.Get(multisetEntry{value: v})
	if !ok {
		entry = multisetEntry{value: v}
	}
	entry.count += n
	m.tree.ReplaceOrInsert(entry)
	m.size += n
}

// Remove drops one occurrence of v and reports whether v was present. The
// entry disappears once its multiplicity reaches zero.
func (m *Multiset) Remove(v interface{}) bool {
	entry, ok := m.tree.Get(multisetEntry{value: v})
	if !ok {
		return false
	}
	m.size--
	if entry.count == 1 {
		m.tree.Delete(entry)
		return true
	}
	entry.count--
	m.tree.ReplaceOrInsert(entry)
	return true
}

// Count returns the multiplicity of v.
func (m *Multiset) Count(v interface{}) int64 {
	entry, ok := m.tree.Get(multisetEntry{value: v})
	if !ok {
		return 0
	}
	return entry.count
}

// Min returns the least value present.
func (m *Multiset) Min() (interface{}, bool) {
	entry, ok := m.tree.Min()
	return entry.value, ok
}

// Max returns the greatest value present.
func (m *Multiset) Max() (interface{}, bool) {
	entry, ok := m.tree.Max()
	return entry.value, ok
}

// Len is the number of distinct values.
func (m *Multiset) Len() int {
	return m.tree.Len()
}

// Size is the total number of occurrences.
func (m *Multiset) Size() int64 {
	return m.size
}

// Entries lists distinct values in ascending order.
func (m *Multiset) Entries() []MultisetEntry {
	out := make([]MultisetEntry, 0, m.tree.Len())
	m.tree.Ascend(func(e multisetEntry) bool {
		out = append(out, MultisetEntry{Value: e.value, Count: e.count})
		return true
	})
	return out
}

// Clone returns an independent copy; the underlying tree is copied lazily.
func (m *Multiset) Clone() *Multiset {
	return &Multiset{dataType: m.dataType, tree: m.tree.Clone(), size: m.size}
}
