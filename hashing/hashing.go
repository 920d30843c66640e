// Package hashing supplies ready-made Hasher implementations for the
// common key types, so that most callers of the top-level hashtable
// package never have to hand-roll one. The engine itself never imports
// this package: hash function selection is an injected collaborator, not
// a fixed part of the container (see the hashtable package doc comment).
package hashing

import (
	"math/bits"

	"github.com/cespare/xxhash/v2"
)

// splitmix64Constant is the golden-ratio constant that splitmix64 adds to
// its state on every step; mix64 uses it as its first multiplier to mix an
// integer key before it is used as a hash. Plain integer keys are
// small and often sequential (loop counters, IDs), so a multiplicative mix
// is needed to spread their bits across the full 64-bit range the way a
// general-purpose hash would.
const splitmix64Constant = 0x9E3779B97F4A7C15

// mix64 spreads the bits of an integer key with the shift/multiply shape
// of the splitmix64 finalizer, using splitmix64Constant as its first
// multiplier where the finalizer itself uses 0xBF58476D1CE4E5B9. It
// mirrors the numeric hash path of this module's C++ ancestor
// (ImportantInclude.h's testHash for integral types), which mixes with the
// same golden-ratio-derived constant rather than hashing the identity.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= splitmix64Constant
	x ^= x >> 27
	x *= 0x94D049BB133111EB
	x ^= x >> 31
	return x
}

// Uint64Hasher hashes a uint64 key.
func Uint64Hasher(k uint64) uint64 { return mix64(k) }

// Int64Hasher hashes an int64 key by reinterpreting its bits.
func Int64Hasher(k int64) uint64 { return mix64(uint64(k)) }

// IntHasher hashes a platform int key.
func IntHasher(k int) uint64 { return mix64(uint64(k)) }

// Uint32Hasher hashes a uint32 key.
func Uint32Hasher(k uint32) uint64 { return mix64(uint64(k)) }

// StringHasher hashes a string key using xxhash, the same fast
// non-cryptographic hash relied on elsewhere in this codebase's retrieved
// dependency graph for hashing variable-length byte data.
func StringHasher(k string) uint64 { return xxhash.Sum64String(k) }

// BytesHasher hashes a []byte key using xxhash.
func BytesHasher(k []byte) uint64 { return xxhash.Sum64(k) }

// RotatingHasher combines already-computed field hashes (for example the
// results of the hashers above) into one hash, rotating each by 7 bits per
// position to keep field order significant, then mixing the result. Useful
// when writing a Hasher for small struct keys without reaching for
// reflection.
func RotatingHasher(parts ...uint64) uint64 {
	var acc uint64
	for i, p := range parts {
		acc ^= bits.RotateLeft64(p, i*7)
	}
	return mix64(acc)
}
