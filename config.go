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
	"math/bits"
	"math/rand/v2"
)

// HopSize selects the neighborhood width of a table: the number of physical
// slots, counted from a key's home bucket, that may hold the key. Wider
// neighborhoods tolerate higher load factors before growing; narrower ones
// keep lookups cheaper. HopSize32 is the default.
type HopSize uint32

const (
	HopSize8  HopSize = 8
	HopSize16 HopSize = 16
	HopSize32 HopSize = 32
)

// traits returns the constants derived from a neighborhood width: the number
// of displacement offsets available from a home bucket (hopBucket) and the
// maximum linear probe distance before an insert forces growth (probeMax).
// An unsupported width is a configuration error and panics.
func (hs HopSize) traits() (hopBucket, probeMax int) {
	switch hs {
	case HopSize8, HopSize16, HopSize32:
		return int(hs) - 1, int(hs) * 16
	}
	panic(fmt.Sprintf("rk: unsupported hop size %d (must be 8, 16, or 32)", hs))
}

// config collects the construction-time knobs shared by Map and Set.
type config[K comparable] struct {
	hopSize HopSize
	hash    HashFn[K]
	seed    uint64
	hasSeed bool
}

func resolveConfig[K comparable](options []Option[K]) config[K] {
	cfg := config[K]{hopSize: HopSize32}
	for _, op := range options {
		op.apply(&cfg)
	}
	// Validate the hop size up front so a bad width fails at construction
	// rather than on first insert.
	cfg.hopSize.traits()
	if cfg.hash == nil {
		cfg.hash = defaultHash[K]()
	}
	if !cfg.hasSeed {
		cfg.seed = rand.Uint64()
	}
	return cfg
}

// Option configures a Map or Set at construction time.
type Option[K comparable] interface {
	apply(cfg *config[K])
}

type hashOption[K comparable] struct {
	hash HashFn[K]
}

func (op hashOption[K]) apply(cfg *config[K]) {
	cfg.hash = op.hash
}

// WithHash is an option to specify the hash function used to locate keys.
// The function must be deterministic and should distribute keys uniformly;
// see HashFn for the full contract.
func WithHash[K comparable](hash HashFn[K]) Option[K] {
	return hashOption[K]{hash}
}

type hopSizeOption[K comparable] struct {
	hopSize HopSize
}

func (op hopSizeOption[K]) apply(cfg *config[K]) {
	cfg.hopSize = op.hopSize
}

// WithHopSize is an option to select the neighborhood width of the table.
func WithHopSize[K comparable](hopSize HopSize) Option[K] {
	return hopSizeOption[K]{hopSize}
}

type seedOption[K comparable] struct {
	seed uint64
}

func (op seedOption[K]) apply(cfg *config[K]) {
	cfg.seed = op.seed
	cfg.hasSeed = true
}

// WithSeed is an option to fix the seed passed to the hash function. By
// default each table draws a random seed at construction; tables that are
// saved with Save and later restored with Load must instead be constructed
// with a fixed seed (and a deterministic hash function) so that home buckets
// are computed identically in both processes.
func WithSeed[K comparable](seed uint64) Option[K] {
	return seedOption[K]{seed}
}

// nextPow2 returns the smallest power of two >= n.
func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
