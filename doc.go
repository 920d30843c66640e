// Copyright 2024 The Cockroach Authors
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

// Package hashtable is a generic, open-addressed associative container with
// a control plane separated from its value storage.
//
// Unlike a Swiss table, slots are not grouped: probing is a plain linear
// walk of a one-byte-per-slot control array, where an empty control byte
// (0x00) always terminates the walk. Every occupied control byte has its
// high bit set; the low seven bits are a partial hash used to reject most
// non-matching slots with a single comparison before the full 64-bit hash
// (cached alongside a redirection index in a second array) or the key
// equality predicate is consulted.
//
// The values themselves live in a third, densely packed array with no
// holes. Erasing an entry swaps it with the last entry in that array and
// pops, then patches the one control-plane slot that pointed at the moved
// entry. There are no deletion tombstones: the vacated control slot is
// repaired by backward shifting — later entries of the same occupied run
// move back into the gap whenever their home position is at or before it,
// until an empty slot is reached.
// This keeps the probing invariant intact — for any occupied slot, every
// slot between its hash's home position and its actual position is itself
// occupied — without ever leaving a byte in the control array that means
// anything other than "empty" or "occupied".
//
// Four shapes share this engine: Map and Set store one entry per bucket;
// MultiMap and MultiSet store an ordered, per-bucket list of entries.
// MultiMap also keeps a parallel key-shadow array so key comparisons during
// probing never have to walk into the list to find the key they're
// comparing against; MultiSet has no key-shadow array and reads a bucket's
// key from the front of its list.
//
// Hashing, key equality, and the backing allocator are all supplied by the
// caller rather than fixed by the engine — see Hasher, WithEqual and
// WithAllocator. This mirrors the split this package's lineage (CockroachDB's
// swiss package) already draws between the probing engine and the
// runtime-supplied hash function.
package hashtable
