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

import (
	"fmt"
	"strings"
)

// maxInsertGrowths is the number of consecutive forced growths a single
// insert may trigger before the table concludes that growth cannot restore
// the neighborhood invariant (e.g. the hash function maps every key to the
// same bucket) and treats the insert as a fatal internal error.
const maxInsertGrowths = 8

// table is the probe engine shared by Map and Set: bucket addressing and
// neighborhood search over parallel keys/hops buffers. It performs no
// insertion itself; Map and Set drive the displacement cascade because an
// insert has to move values alongside keys, or keys alone.
//
// Both buffers are capacity+hopBucket in length so that the neighborhood of
// the last home bucket (capacity-1) is fully addressable without wrapping.
// Each hops word describes the slot at the same index in two independent
// roles: bit 0 records whether the slot itself holds a live entry, and bits
// 1..hopBucket form a bitmap over the slot's neighborhood as a home bucket
// (bit k set means the entry homed here is stored k-1 slots away).
type table[K comparable] struct {
	keys []K
	hops []uint32
	// size is the number of live entries; capacity the number of home
	// buckets. capacity is always a power of two >= hopSize so that
	// hash&(capacity-1) is a valid bucket index, and size <= capacity.
	size     int
	capacity int
	hopSize  HopSize
	// hopBucket = hopSize-1 displacement offsets per home bucket;
	// probeMax bounds the linear probe during insert.
	hopBucket int
	probeMax  int
	hash      HashFn[K]
	seed      uint64
}

func makeTable[K comparable](initialCapacity int, cfg config[K]) table[K] {
	hopBucket, probeMax := cfg.hopSize.traits()
	capacity := initialCapacity
	if capacity < int(cfg.hopSize) {
		capacity = int(cfg.hopSize)
	}
	capacity = nextPow2(capacity)
	return table[K]{
		keys:      make([]K, capacity+hopBucket),
		hops:      make([]uint32, capacity+hopBucket),
		capacity:  capacity,
		hopSize:   cfg.hopSize,
		hopBucket: hopBucket,
		probeMax:  probeMax,
		hash:      cfg.hash,
		seed:      cfg.seed,
	}
}

// reinit replaces the buffers with fresh ones of the given capacity,
// retaining the hash configuration. The previous contents are dropped.
func (t *table[K]) reinit(initialCapacity int) {
	capacity := initialCapacity
	if capacity < int(t.hopSize) {
		capacity = int(t.hopSize)
	}
	capacity = nextPow2(capacity)
	t.keys = make([]K, capacity+t.hopBucket)
	t.hops = make([]uint32, capacity+t.hopBucket)
	t.capacity = capacity
	t.size = 0
}

// end is the sentinel index returned by locate for a missing key, one past
// the last physical slot.
func (t *table[K]) end() int {
	return t.capacity + t.hopBucket
}

// home returns the home bucket index for a key.
func (t *table[K]) home(key K) int {
	return int(t.hash(key, t.seed) & uint64(t.capacity-1))
}

// locate scans the neighborhood bitmap rooted at home for the key and
// returns its physical slot, or end() if absent. The scan visits at most
// hopBucket slots regardless of load factor.
func (t *table[K]) locate(home int, key K) int {
	w := t.hops[home] >> 1
	for i := home; w != 0; i++ {
		if w&1 == 1 && t.keys[i] == key {
			return i
		}
		w >>= 1
	}
	return t.end()
}

func (t *table[K]) contains(key K) bool {
	return t.locate(t.home(key), key) != t.end()
}

// live reports whether the slot at index i holds an entry.
func (t *table[K]) live(i int) bool {
	return t.hops[i]&1 == 1
}

func (t *table[K]) setLive(i int) {
	t.hops[i] |= 1
}

func (t *table[K]) clearLive(i int) {
	t.hops[i] &^= 1
}

// setHop marks, in the home bucket's bitmap, that an entry homed at home is
// stored at slot. slot must lie within the neighborhood [home,
// home+hopBucket-1].
func (t *table[K]) setHop(home, slot int) {
	t.hops[home] |= 1 << uint(slot-home+1)
}

func (t *table[K]) clearHop(home, slot int) {
	t.hops[home] &^= 1 << uint(slot-home+1)
}

// probeEmpty linearly scans from home for the first empty slot, giving up
// after probeMax slots (or at the end of the buffers). A failed probe means
// the caller must grow and retry.
func (t *table[K]) probeEmpty(home int) (int, bool) {
	probeEnd := home + t.probeMax
	if probeEnd > t.end() {
		probeEnd = t.end()
	}
	for i := home; i < probeEnd; i++ {
		if !t.live(i) {
			return i, true
		}
	}
	return 0, false
}

// candidate searches the neighborhoods preceding an empty slot for an entry
// that can legally relocate into it: one whose own home bucket is within
// hopBucket of empty. It scans the earliest eligible home bucket first, and
// within a bucket the entry closest to the bucket, and returns that entry's
// home bucket and current slot. ok=false means no relocation can bring the
// empty slot closer and the caller must grow.
func (t *table[K]) candidate(empty int) (home, slot int, ok bool) {
	start := empty - t.hopBucket + 1
	if start < 0 {
		start = 0
	}
	for h := start; h < empty; h++ {
		w := t.hops[h] >> 1
		for s := h; w != 0 && s < empty; s++ {
			if w&1 == 1 {
				return h, s, true
			}
			w >>= 1
		}
	}
	return 0, 0, false
}

// nextLive returns the index of the first live slot at or after i, or end()
// if there is none.
func (t *table[K]) nextLive(i int) int {
	if i < 0 {
		i = 0
	}
	for ; i < t.end(); i++ {
		if t.live(i) {
			return i
		}
	}
	return t.end()
}

// prevLive returns the index of the first live slot at or before i, or -1
// if there is none.
func (t *table[K]) prevLive(i int) int {
	if i >= t.end() {
		i = t.end() - 1
	}
	for ; i >= 0; i-- {
		if t.live(i) {
			return i
		}
	}
	return -1
}

// Len returns the number of entries in the container.
func (t *table[K]) Len() int {
	return t.size
}

// Capacity returns the number of home buckets, always a power of two. The
// container grows once Len reaches Capacity, or earlier if probing cannot
// place an entry.
func (t *table[K]) Capacity() int {
	return t.capacity
}

// Empty reports whether the container holds no entries.
func (t *table[K]) Empty() bool {
	return t.size == 0
}

func (t *table[K]) checkInvariants() {
	if invariants {
		if t.capacity&(t.capacity-1) != 0 || t.capacity < int(t.hopSize) {
			panic(fmt.Sprintf("invariant failed: capacity %d is not a power of two >= %d\n%s",
				t.capacity, t.hopSize, t.debugString()))
		}
		live := 0
		for i := 0; i < t.end(); i++ {
			if t.live(i) {
				live++
			}
		}
		if live != t.size {
			panic(fmt.Sprintf("invariant failed: found %d live slots, but size is %d\n%s",
				live, t.size, t.debugString()))
		}
		for i := 0; i < t.end(); i++ {
			if !t.live(i) {
				continue
			}
			home := t.home(t.keys[i])
			if i < home || i-home >= t.hopBucket {
				panic(fmt.Sprintf("invariant failed: slot(%d): %v outside neighborhood of home %d\n%s",
					i, t.keys[i], home, t.debugString()))
			}
			if t.hops[home]&(1<<uint(i-home+1)) == 0 {
				panic(fmt.Sprintf("invariant failed: slot(%d): %v missing hop bit in home %d\n%s",
					i, t.keys[i], home, t.debugString()))
			}
			if j := t.locate(home, t.keys[i]); j != i {
				panic(fmt.Sprintf("invariant failed: slot(%d): %v located at %d\n%s",
					i, t.keys[i], j, t.debugString()))
			}
		}
		for h := 0; h < t.end(); h++ {
			w := t.hops[h] >> 1
			for s := h; w != 0; s++ {
				if w&1 == 1 && !t.live(s) {
					panic(fmt.Sprintf("invariant failed: home(%d) claims slot %d, which is empty\n%s",
						h, s, t.debugString()))
				}
				w >>= 1
			}
		}
	}
}

func (t *table[K]) debugString() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "capacity=%d  size=%d  hop-size=%d\n", t.capacity, t.size, t.hopSize)
	for i := 0; i < t.end(); i++ {
		if t.hops[i] == 0 {
			continue
		}
		if t.live(i) {
			fmt.Fprintf(&buf, "  %4d: %v [hops=%0*b]\n", i, t.keys[i], int(t.hopSize), t.hops[i])
		} else {
			fmt.Fprintf(&buf, "  %4d: empty [hops=%0*b]\n", i, int(t.hopSize), t.hops[i])
		}
	}
	return buf.String()
}
