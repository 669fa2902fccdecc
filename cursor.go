// Copyright 2026 The rk Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rk

// Cursor addresses an entry of a Map, or no entry at all. Cursors are
// returned by Insert, Find and First and step over entries in physical-slot
// order, which is arbitrary and changes when the map grows. Any mutation of
// the map invalidates outstanding cursors.
type Cursor[K comparable, V any] struct {
	m   *Map[K, V]
	idx int
}

// Valid reports whether the cursor addresses an entry.
func (c Cursor[K, V]) Valid() bool {
	return c.m != nil && c.idx >= 0 && c.idx < c.m.end()
}

// Key returns the key of the addressed entry. The cursor must be valid.
func (c Cursor[K, V]) Key() K {
	return c.m.keys[c.idx]
}

// Value returns the value of the addressed entry. The cursor must be valid.
func (c Cursor[K, V]) Value() V {
	return c.m.values[c.idx]
}

// SetValue replaces the value of the addressed entry. The cursor must be
// valid. The key is untouched, so no rehashing occurs.
func (c Cursor[K, V]) SetValue(value V) {
	c.m.values[c.idx] = value
}

// Next returns a cursor at the following entry in physical-slot order, or an
// invalid cursor past the last entry.
func (c Cursor[K, V]) Next() Cursor[K, V] {
	return Cursor[K, V]{m: c.m, idx: c.m.nextLive(c.idx + 1)}
}

// Prev returns a cursor at the preceding entry in physical-slot order, or an
// invalid cursor before the first entry.
func (c Cursor[K, V]) Prev() Cursor[K, V] {
	return Cursor[K, V]{m: c.m, idx: c.m.prevLive(c.idx - 1)}
}

// SetCursor addresses a key of a Set, or no key at all. It behaves like
// Cursor without the value accessors.
type SetCursor[K comparable] struct {
	s   *Set[K]
	idx int
}

// Valid reports whether the cursor addresses a key.
func (c SetCursor[K]) Valid() bool {
	return c.s != nil && c.idx >= 0 && c.idx < c.s.end()
}

// Key returns the addressed key. The cursor must be valid.
func (c SetCursor[K]) Key() K {
	return c.s.keys[c.idx]
}

// Next returns a cursor at the following key in physical-slot order, or an
// invalid cursor past the last key.
func (c SetCursor[K]) Next() SetCursor[K] {
	return SetCursor[K]{s: c.s, idx: c.s.nextLive(c.idx + 1)}
}

// Prev returns a cursor at the preceding key in physical-slot order, or an
// invalid cursor before the first key.
func (c SetCursor[K]) Prev() SetCursor[K] {
	return SetCursor[K]{s: c.s, idx: c.s.prevLive(c.idx - 1)}
}
