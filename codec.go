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
	"encoding/binary"
	"errors"
	"io"
)

// ErrBadSnapshot is returned by Load when the stream header fails sanity
// checks: a capacity that is not a power of two, one below the neighborhood
// width, or a count exceeding the capacity.
var ErrBadSnapshot = errors.New("rk: malformed snapshot")

// SaveFunc serializes a single key or value to w. Implementations must write
// a representation that the paired LoadFunc reads back exactly; fixed-width
// encodings keep snapshots self-delimiting.
type SaveFunc[T any] func(w io.Writer, v T) error

// LoadFunc deserializes a single key or value from r into v.
type LoadFunc[T any] func(r io.Reader, v *T) error

func writeUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// save writes the table portion of a snapshot: count, capacity, the hop
// words, then every key slot (empty slots included, as zero values).
func (t *table[K]) save(w io.Writer, sk SaveFunc[K]) error {
	if err := writeUint32(w, uint32(t.size)); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(t.capacity)); err != nil {
		return err
	}
	for _, h := range t.hops {
		if err := writeUint32(w, h); err != nil {
			return err
		}
	}
	for i := range t.keys {
		if err := sk(w, t.keys[i]); err != nil {
			return err
		}
	}
	return nil
}

// load reads the table portion of a snapshot into fresh buffers and installs
// them only once the whole table has been read, so a short or corrupt stream
// leaves the receiver untouched. Only the header is sanity-checked; the hop
// words are trusted.
func (t *table[K]) load(r io.Reader, lk LoadFunc[K]) error {
	count, err := readUint32(r)
	if err != nil {
		return err
	}
	capacity, err := readUint32(r)
	if err != nil {
		return err
	}
	c := int(capacity)
	if c < int(t.hopSize) || c&(c-1) != 0 || int(count) > c {
		return ErrBadSnapshot
	}
	hops := make([]uint32, c+t.hopBucket)
	keys := make([]K, c+t.hopBucket)
	for i := range hops {
		if hops[i], err = readUint32(r); err != nil {
			return err
		}
	}
	for i := range keys {
		if err := lk(r, &keys[i]); err != nil {
			return err
		}
	}
	t.hops = hops
	t.keys = keys
	t.size = int(count)
	t.capacity = c
	return nil
}

// Save writes a snapshot of the set to w. Every key slot is written via sk,
// including empty ones. A snapshot only loads correctly into a set using the
// same hash function, seed and HopSize; the default hash is seeded per
// process, so persistent sets should be built with WithHash and WithSeed.
func (s *Set[K]) Save(w io.Writer, sk SaveFunc[K]) error {
	return s.save(w, sk)
}

// Load replaces the contents of the set with a snapshot read from r. On
// error the set is unchanged. Returns ErrBadSnapshot if the header is
// implausible; stream corruption past the header is not detected.
func (s *Set[K]) Load(r io.Reader, lk LoadFunc[K]) error {
	if err := s.table.load(r, lk); err != nil {
		return err
	}
	s.checkInvariants()
	return nil
}

// Save writes a snapshot of the map to w: the table followed by every value
// slot written via sv, empty slots included. The same hash-stability caveat
// as Set.Save applies.
func (m *Map[K, V]) Save(w io.Writer, sk SaveFunc[K], sv SaveFunc[V]) error {
	if err := m.save(w, sk); err != nil {
		return err
	}
	for i := range m.values {
		if err := sv(w, m.values[i]); err != nil {
			return err
		}
	}
	return nil
}

// Load replaces the contents of the map with a snapshot read from r. On
// error the map is unchanged.
func (m *Map[K, V]) Load(r io.Reader, lk LoadFunc[K], lv LoadFunc[V]) error {
	t := m.table
	if err := t.load(r, lk); err != nil {
		return err
	}
	values := make([]V, t.capacity+t.hopBucket)
	for i := range values {
		if err := lv(r, &values[i]); err != nil {
			return err
		}
	}
	m.table = t
	m.values = values
	m.checkInvariants()
	return nil
}
