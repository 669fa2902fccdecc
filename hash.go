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
	"hash/maphash"

	"github.com/zeebo/xxh3"
)

// HashFn computes a 64-bit digest of a key. The table derives a key's home
// bucket from the low bits of the digest, so the function must be
// deterministic for the lifetime of the table and should distribute keys
// roughly uniformly. The seed is the value fixed at construction (see
// WithSeed); implementations are free to ignore it.
type HashFn[K comparable] func(key K, seed uint64) uint64

// defaultHash hashes keys with the runtime's hash for comparable types via
// hash/maphash. The maphash seed is drawn per table, so the default hash is
// stable within a process but NOT across processes; tables that are
// persisted with Save must be configured with a deterministic HashFn (for
// example HashString or HashBytes) and a fixed seed.
func defaultHash[K comparable]() HashFn[K] {
	seed := maphash.MakeSeed()
	return func(key K, _ uint64) uint64 {
		return maphash.Comparable(seed, key)
	}
}

// HashString is a deterministic seeded hash for string keys, suitable for
// tables that are saved and loaded across processes:
//
//	m := rk.NewMap[string, int](0,
//		rk.WithHash[string](rk.HashString),
//		rk.WithSeed[string](42))
func HashString(key string, seed uint64) uint64 {
	return xxh3.HashStringSeed(key, seed)
}

// HashBytes is the []byte counterpart of HashString. Byte slices are not
// comparable and cannot be table keys themselves; HashBytes is intended for
// building a HashFn over key types that expose a byte representation.
func HashBytes(key []byte, seed uint64) uint64 {
	return xxh3.HashSeed(key, seed)
}
