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

// Package rk provides in-memory associative containers, a key/value Map and
// a key-only Set, built on hopscotch hashing. See
// https://en.wikipedia.org/wiki/Hopscotch_hashing and the original paper by
// Herlihy, Shavit and Tzafrir.
//
// # Hopscotch hashing
//
// Hopscotch hashing is an open-addressing scheme with a twist: every key is
// guaranteed to be stored within a small fixed-size window (the
// "neighborhood") of its home bucket, the bucket its hash maps to. A
// lookup therefore inspects at most HopSize slots no matter how full the
// table is, which is the property the scheme is chosen for: lookup cost is
// bounded by a constant, independent of load factor.
//
// The table keeps a word of hop bits per physical slot. Bit 0 records
// whether the slot itself is occupied. Bits 1..HopSize-1 of the word at home
// bucket h form a bitmap over the window [h, h+HopSize-2]: bit k set means
// the entry whose hash maps to h is physically stored at slot h+k-1. Lookups
// walk only the set bits of the home bucket's bitmap and never scan past the
// neighborhood.
//
// Insertion is where the work happens. The table linearly probes from the
// home bucket for an empty slot. If the nearest empty slot lies outside the
// neighborhood, the insert "hopscotches" it closer: it finds an entry in the
// window preceding the empty slot whose own home bucket is near enough that
// the entry may legally move into the empty slot, moves it, and repeats with
// the newly vacated slot until the empty slot falls inside the target
// neighborhood. If the probe exceeds its bound, or no entry can be moved,
// the table doubles in capacity and every live entry is reinserted.
//
// Capacity is always a power of two, so the home bucket is computed as
// hash&(capacity-1). The keys, values and hop-bit buffers are parallel
// arrays of length capacity+HopSize-1, which keeps the last bucket's
// neighborhood addressable without wraparound.
//
// # Containers
//
// Map[K,V] associates keys with values. Insert is idempotent: inserting an
// existing key returns its position and leaves the stored value unchanged
// (use Ref or SetValue on a cursor to update a value). Set[K] stores keys
// alone and adds set algebra: union, intersection, difference and symmetric
// difference, in mutating and non-mutating forms.
//
// By default keys are hashed with the runtime's hash for comparable types
// via hash/maphash; a different hash function can be supplied with the
// WithHash option. Neither container is goroutine-safe: concurrent mutation,
// or mutation concurrent with iteration, must be serialized by the caller.
package rk

// Map is an unordered associative container mapping keys to values with a
// bounded worst-case lookup cost. The zero value is not usable; construct
// maps with NewMap. A Map is NOT goroutine-safe.
type Map[K comparable, V any] struct {
	table[K]
	// values is parallel to table.keys: values[i] belongs to keys[i]
	// whenever slot i is live.
	values []V
}

// NewMap constructs an empty Map with capacity for at least initialCapacity
// entries before the first growth. A capacity below the neighborhood width
// (including 0) is rounded up to it; other values round up to the next power
// of two.
func NewMap[K comparable, V any](initialCapacity int, options ...Option[K]) *Map[K, V] {
	m := &Map[K, V]{
		table: makeTable(initialCapacity, resolveConfig(options)),
	}
	m.values = make([]V, m.capacity+m.hopBucket)
	m.checkInvariants()
	return m
}

// Insert adds key with the given value and returns a cursor positioned at
// the entry. If the key is already present the stored value is NOT
// overwritten; the cursor addresses the existing entry and ok is false.
// A successful insert that forces growth invalidates all other cursors.
func (m *Map[K, V]) Insert(key K, value V) (_ Cursor[K, V], ok bool) {
	if i := m.locate(m.home(key), key); i != m.end() {
		return Cursor[K, V]{m: m, idx: i}, false
	}
	i := m.insertSlot(key, value)
	return Cursor[K, V]{m: m, idx: i}, true
}

// insertSlot places a key known to be absent and returns its physical slot.
// This is the hopscotch displacement cascade; Set carries its own copy of
// the loop because a Map has to move values alongside keys.
func (m *Map[K, V]) insertSlot(key K, value V) int {
	if m.size == m.capacity {
		m.grow()
	}
	for growths := 0; ; growths++ {
		if growths > maxInsertGrowths {
			panic("rk: insert cannot restore the neighborhood invariant; degenerate hash function?")
		}
		home := m.home(key)
		idx, found := m.probeEmpty(home)
		if !found {
			m.grow()
			continue
		}
		placed := true
		for idx > home+m.hopBucket-1 {
			h, s, ok := m.candidate(idx)
			if !ok {
				placed = false
				break
			}
			// Move the candidate entry into the empty slot and vacate its
			// old slot, updating both the liveness bits and the candidate's
			// home bitmap.
			m.keys[idx], m.values[idx] = m.keys[s], m.values[s]
			m.setLive(idx)
			m.setHop(h, idx)
			m.clearHop(h, s)
			m.clearLive(s)
			var zeroK K
			var zeroV V
			m.keys[s], m.values[s] = zeroK, zeroV
			idx = s
		}
		if !placed {
			m.grow()
			continue
		}
		m.keys[idx], m.values[idx] = key, value
		m.setLive(idx)
		m.setHop(home, idx)
		m.size++
		m.checkInvariants()
		return idx
	}
}

// grow doubles the capacity and reinserts every live entry. Membership is
// preserved: reinsertion goes through the normal insert path against the
// doubled table.
func (m *Map[K, V]) grow() {
	old := *m
	m.table.reinit(2 * old.capacity)
	m.values = make([]V, m.capacity+m.hopBucket)
	for i := 0; i < old.end(); i++ {
		if old.live(i) {
			m.insertSlot(old.keys[i], old.values[i])
		}
	}
	m.checkInvariants()
}

// Find returns a cursor positioned at the entry for key, or an invalid
// cursor if the key is absent.
func (m *Map[K, V]) Find(key K) Cursor[K, V] {
	return Cursor[K, V]{m: m, idx: m.locate(m.home(key), key)}
}

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(key K) bool {
	return m.contains(key)
}

// Get returns the value stored for key, or def if the key is absent. Get
// never inserts.
func (m *Map[K, V]) Get(key K, def V) V {
	if i := m.locate(m.home(key), key); i != m.end() {
		return m.values[i]
	}
	return def
}

// Ref returns a pointer to the value stored for key, inserting a
// default-constructed value first if the key is absent. The pointer is
// invalidated by any subsequent insert that grows or relocates entries.
func (m *Map[K, V]) Ref(key K) *V {
	if i := m.locate(m.home(key), key); i != m.end() {
		return &m.values[i]
	}
	var zero V
	return &m.values[m.insertSlot(key, zero)]
}

// Erase removes the entry for key, reporting whether it was present.
func (m *Map[K, V]) Erase(key K) bool {
	home := m.home(key)
	i := m.locate(home, key)
	if i == m.end() {
		return false
	}
	m.clearHop(home, i)
	m.clearLive(i)
	var zeroK K
	var zeroV V
	m.keys[i], m.values[i] = zeroK, zeroV
	m.size--
	m.checkInvariants()
	return true
}

// All calls yield for each entry in physical-slot order. If yield returns
// false, iteration stops. The map must not be mutated during iteration.
func (m *Map[K, V]) All(yield func(key K, value V) bool) {
	for i := 0; i < m.end(); i++ {
		if m.live(i) {
			if !yield(m.keys[i], m.values[i]) {
				return
			}
		}
	}
}

// First returns a cursor at the first entry in physical-slot order, invalid
// if the map is empty.
func (m *Map[K, V]) First() Cursor[K, V] {
	return Cursor[K, V]{m: m, idx: m.nextLive(0)}
}

// Clear removes all entries, retaining the allocated capacity.
func (m *Map[K, V]) Clear() {
	clear(m.hops)
	clear(m.keys)
	clear(m.values)
	m.size = 0
	m.checkInvariants()
}

// Reset removes all entries and releases the buffers, returning the map to
// its minimum capacity.
func (m *Map[K, V]) Reset() {
	m.reinit(0)
	m.values = make([]V, m.capacity+m.hopBucket)
	m.checkInvariants()
}

// Clone returns a deep copy of the map with the same configuration. Maps
// have no implicit copy: assigning a Map value aliases its storage.
func (m *Map[K, V]) Clone() *Map[K, V] {
	c := &Map[K, V]{table: m.table}
	c.keys = append([]K(nil), m.keys...)
	c.hops = append([]uint32(nil), m.hops...)
	c.values = append([]V(nil), m.values...)
	return c
}
