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

// Set is an unordered collection of unique keys with a bounded worst-case
// lookup cost, built on the same hopscotch table as Map. The zero value is
// not usable; construct sets with NewSet or Of. A Set is NOT goroutine-safe.
type Set[K comparable] struct {
	table[K]
}

// NewSet constructs an empty Set with capacity for at least initialCapacity
// keys before the first growth. A capacity below the neighborhood width
// (including 0) is rounded up to it; other values round up to the next power
// of two.
func NewSet[K comparable](initialCapacity int, options ...Option[K]) *Set[K] {
	s := &Set[K]{table: makeTable(initialCapacity, resolveConfig(options))}
	s.checkInvariants()
	return s
}

// Of constructs a Set holding the given keys. Duplicates collapse.
func Of[K comparable](keys ...K) *Set[K] {
	s := NewSet[K](len(keys))
	for _, k := range keys {
		s.Insert(k)
	}
	return s
}

// Insert adds key to the set, reporting whether it was absent.
func (s *Set[K]) Insert(key K) bool {
	if s.contains(key) {
		return false
	}
	s.insertSlot(key)
	return true
}

// insertSlot places a key known to be absent and returns its physical slot.
// Mirrors Map.insertSlot without the value movement.
func (s *Set[K]) insertSlot(key K) int {
	if s.size == s.capacity {
		s.grow()
	}
	for growths := 0; ; growths++ {
		if growths > maxInsertGrowths {
			panic("rk: insert cannot restore the neighborhood invariant; degenerate hash function?")
		}
		home := s.home(key)
		idx, found := s.probeEmpty(home)
		if !found {
			s.grow()
			continue
		}
		placed := true
		for idx > home+s.hopBucket-1 {
			h, sl, ok := s.candidate(idx)
			if !ok {
				placed = false
				break
			}
			s.keys[idx] = s.keys[sl]
			s.setLive(idx)
			s.setHop(h, idx)
			s.clearHop(h, sl)
			s.clearLive(sl)
			var zero K
			s.keys[sl] = zero
			idx = sl
		}
		if !placed {
			s.grow()
			continue
		}
		s.keys[idx] = key
		s.setLive(idx)
		s.setHop(home, idx)
		s.size++
		s.checkInvariants()
		return idx
	}
}

func (s *Set[K]) grow() {
	old := s.table
	s.reinit(2 * old.capacity)
	for i := 0; i < old.end(); i++ {
		if old.live(i) {
			s.insertSlot(old.keys[i])
		}
	}
	s.checkInvariants()
}

// Remove deletes key from the set, reporting whether it was present.
func (s *Set[K]) Remove(key K) bool {
	home := s.home(key)
	i := s.locate(home, key)
	if i == s.end() {
		return false
	}
	s.clearHop(home, i)
	s.clearLive(i)
	var zero K
	s.keys[i] = zero
	s.size--
	s.checkInvariants()
	return true
}

// Contains reports whether key is present.
func (s *Set[K]) Contains(key K) bool {
	return s.contains(key)
}

// Find returns a cursor positioned at key, or an invalid cursor if the key
// is absent.
func (s *Set[K]) Find(key K) SetCursor[K] {
	return SetCursor[K]{s: s, idx: s.locate(s.home(key), key)}
}

// First returns a cursor at the first key in physical-slot order, invalid if
// the set is empty.
func (s *Set[K]) First() SetCursor[K] {
	return SetCursor[K]{s: s, idx: s.nextLive(0)}
}

// All calls yield for each key in physical-slot order. If yield returns
// false, iteration stops. The set must not be mutated during iteration.
func (s *Set[K]) All(yield func(key K) bool) {
	for i := 0; i < s.end(); i++ {
		if s.live(i) {
			if !yield(s.keys[i]) {
				return
			}
		}
	}
}

// UnionWith adds every key of o to s.
func (s *Set[K]) UnionWith(o *Set[K]) {
	if o == s {
		return
	}
	for i := 0; i < o.end(); i++ {
		if o.live(i) {
			s.Insert(o.keys[i])
		}
	}
}

// IntersectWith removes every key of s that is not in o.
func (s *Set[K]) IntersectWith(o *Set[K]) {
	if o == s {
		return
	}
	// Removal never relocates entries, so walking our own slots is safe.
	for i := 0; i < s.end(); i++ {
		if s.live(i) && !o.contains(s.keys[i]) {
			s.Remove(s.keys[i])
		}
	}
}

// DifferenceWith removes every key of o from s.
func (s *Set[K]) DifferenceWith(o *Set[K]) {
	for i := 0; i < o.end(); i++ {
		if o.live(i) {
			s.Remove(o.keys[i])
		}
	}
}

// SymmetricDifferenceWith replaces s with the keys present in exactly one of
// s and o.
func (s *Set[K]) SymmetricDifferenceWith(o *Set[K]) {
	if o == s {
		s.Clear()
		return
	}
	for i := 0; i < o.end(); i++ {
		if o.live(i) {
			if k := o.keys[i]; !s.Remove(k) {
				s.Insert(k)
			}
		}
	}
}

// Union returns a new set holding every key of s and o. The larger operand
// is cloned so the smaller one drives the inserts.
func (s *Set[K]) Union(o *Set[K]) *Set[K] {
	big, small := s, o
	if o.size > s.size {
		big, small = o, s
	}
	u := big.Clone()
	u.UnionWith(small)
	return u
}

// Intersect returns a new set holding the keys present in both s and o.
func (s *Set[K]) Intersect(o *Set[K]) *Set[K] {
	big, small := s, o
	if o.size > s.size {
		big, small = o, s
	}
	u := big.Clone()
	u.IntersectWith(small)
	return u
}

// Difference returns a new set holding the keys of s that are not in o.
func (s *Set[K]) Difference(o *Set[K]) *Set[K] {
	d := s.Clone()
	d.DifferenceWith(o)
	return d
}

// SymmetricDifference returns a new set holding the keys present in exactly
// one of s and o.
func (s *Set[K]) SymmetricDifference(o *Set[K]) *Set[K] {
	d := s.Clone()
	d.SymmetricDifferenceWith(o)
	return d
}

// Intersects reports whether s and o share at least one key, probing with
// the smaller of the two so the work is bounded by the smaller size.
func (s *Set[K]) Intersects(o *Set[K]) bool {
	small, big := s, o
	if o.size < s.size {
		small, big = o, s
	}
	for i := 0; i < small.end(); i++ {
		if small.live(i) && big.contains(small.keys[i]) {
			return true
		}
	}
	return false
}

// Clear removes all keys, retaining the allocated capacity.
func (s *Set[K]) Clear() {
	clear(s.hops)
	clear(s.keys)
	s.size = 0
	s.checkInvariants()
}

// Reset removes all keys and releases the buffers, returning the set to its
// minimum capacity.
func (s *Set[K]) Reset() {
	s.reinit(0)
	s.checkInvariants()
}

// Clone returns a deep copy of the set with the same configuration. Sets
// have no implicit copy: assigning a Set value aliases its storage.
func (s *Set[K]) Clone() *Set[K] {
	c := &Set[K]{table: s.table}
	c.keys = append([]K(nil), s.keys...)
	c.hops = append([]uint32(nil), s.hops...)
	return c
}

// CloneFrom replaces the contents and configuration of s with a deep copy
// of o.
func (s *Set[K]) CloneFrom(o *Set[K]) {
	if o == s {
		return
	}
	s.table = o.table
	s.keys = append([]K(nil), o.keys...)
	s.hops = append([]uint32(nil), o.hops...)
}
