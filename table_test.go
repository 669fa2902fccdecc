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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNextPow2(t *testing.T) {
	testCases := []struct {
		n        int
		expected int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{4, 4},
		{5, 8},
		{33, 64},
		{1024, 1024},
		{1025, 2048},
	}
	for _, c := range testCases {
		require.EqualValues(t, c.expected, nextPow2(c.n), "nextPow2(%d)", c.n)
	}
}

func TestHopSizeTraits(t *testing.T) {
	for _, hs := range hopSizes {
		hopBucket, probeMax := hs.traits()
		require.EqualValues(t, int(hs)-1, hopBucket)
		require.EqualValues(t, int(hs)*16, probeMax)
	}
	require.Panics(t, func() { HopSize(0).traits() })
	require.Panics(t, func() { HopSize(64).traits() })
}

// identityHash makes bucket placement fully deterministic: a key's home
// bucket is key&(capacity-1).
func identityHash(key int, seed uint64) uint64 {
	return uint64(key)
}

// An insert whose nearest empty slot lies outside the home bucket's
// neighborhood must relocate an entry from a preceding neighborhood into the
// empty slot rather than grow.
func TestDisplacementCascade(t *testing.T) {
	s := NewSet[int](8, WithHopSize[int](HopSize8), WithHash[int](identityHash))
	require.EqualValues(t, 8, s.Capacity())

	// Occupy slots 1..7, each key in its own home bucket.
	for k := 1; k <= 7; k++ {
		require.True(t, s.Insert(k))
		require.EqualValues(t, k, s.locate(k, k))
	}

	// Key 9 homes at bucket 1, whose whole neighborhood (slots 1..7) is
	// full. The first empty slot going right is 8, one past the
	// neighborhood, so key 2 (the earliest entry allowed to reach slot 8)
	// moves there and key 9 takes slot 2.
	require.True(t, s.Insert(9))
	require.EqualValues(t, 8, s.Capacity())
	require.EqualValues(t, 8, s.Len())
	require.EqualValues(t, 2, s.locate(1, 9))
	require.EqualValues(t, 8, s.locate(2, 2))
	for k := 1; k <= 7; k++ {
		require.True(t, s.Contains(k))
	}
}

// Entries homed in the last bucket may spill into the tail slots past
// capacity; the buffers are sized so the full neighborhood fits without
// wrapping.
func TestLastBucketNeighborhood(t *testing.T) {
	s := NewSet[int](8, WithHopSize[int](HopSize8), WithHash[int](identityHash))

	// Keys 7, 15, 23, ... all home at bucket 7.
	for i := 0; i < 7; i++ {
		require.True(t, s.Insert(7+8*i))
		require.EqualValues(t, 7+i, s.locate(7, 7+8*i))
	}
	require.EqualValues(t, 7, s.Len())
	require.EqualValues(t, 8, s.Capacity())
	for i := 0; i < 7; i++ {
		require.True(t, s.Contains(7+8*i))
	}
}

// Erase must clear both the slot's live bit and the hop bit in the home
// bucket, even when they live in different words.
func TestEraseDisplacedEntry(t *testing.T) {
	s := NewSet[int](8, WithHopSize[int](HopSize8), WithHash[int](identityHash))
	for k := 1; k <= 7; k++ {
		s.Insert(k)
	}
	s.Insert(9) // displaces key 2 to slot 8

	require.True(t, s.Remove(2))
	require.False(t, s.live(8))
	require.EqualValues(t, s.end(), s.locate(2, 2))
	require.True(t, s.Contains(9))
	require.EqualValues(t, 7, s.Len())

	// The vacated slot is reusable.
	require.True(t, s.Insert(2))
	require.True(t, s.Contains(2))
}

func TestDebugString(t *testing.T) {
	s := NewSet[int](8, WithHopSize[int](HopSize8), WithHash[int](identityHash))
	for k := 1; k <= 4; k++ {
		s.Insert(k)
	}
	require.NotEmpty(t, s.debugString())
}
