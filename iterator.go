package hashtable

// sentinelBucket marks an iterator whose bucketIdx is unknown — one
// returned by Map.End or moved by Next rather than produced by a probe — so
// Erase must re-derive the bucket from the entry's hash and valueIdx. A
// rehash since the iterator was minted is detected separately, through
// rehashCounter (spec §4.6: value_idx survives a rehash, bucket_idx does
// not).
const sentinelBucket = ^uint64(0)

// MapIterator refers to one entry of a Map. Its zero value is not usable;
// obtain one from Map.Find, Map.TryPut, or Map.End.
//
// A MapIterator's valueIdx stays correct across a rehash; its bucketIdx
// does not and is lazily recomputed (via the cached key's hash) the next
// time it is needed, by comparing rehashCounter against the table's
// current one.
type MapIterator[K comparable, V any] struct {
	m             *Map[K, V]
	valueIdx      uint64
	bucketIdx     uint64
	rehashCounter uint64
}

// Valid reports whether it refers to a real entry (as opposed to End()).
func (it MapIterator[K, V]) Valid() bool {
	return it.valueIdx < uint64(len(it.m.data))
}

// Key returns the key of the referenced entry. Calling Key on an invalid
// iterator panics, exactly as dereferencing end() would in the reference
// implementation.
func (it MapIterator[K, V]) Key() K { return it.m.data[it.valueIdx].Key }

// Value returns the value of the referenced entry.
func (it MapIterator[K, V]) Value() V { return it.m.data[it.valueIdx].Value }

// SetValue overwrites the value of the referenced entry in place.
func (it MapIterator[K, V]) SetValue(v V) { it.m.data[it.valueIdx].Value = v }

// Next advances the iterator by one position in the dense array, the
// "all" iteration order of spec §4.6 (bucket order is not preserved).
// It returns false once the iterator has reached End().
func (it *MapIterator[K, V]) Next() bool {
	it.valueIdx++
	it.bucketIdx = sentinelBucket
	return it.Valid()
}

// resolveBucket recomputes bucketIdx from the entry's own key when it is
// unknown or was invalidated by a rehash since this iterator was minted.
func (it *MapIterator[K, V]) resolveBucket() (uint64, bool) {
	if it.bucketIdx != sentinelBucket && it.rehashCounter == it.m.cp.rehashCounter {
		return it.bucketIdx, true
	}
	h := it.m.hash(it.m.data[it.valueIdx].Key)
	b, ok := it.m.cp.findBucketForValueIdx(h, it.valueIdx)
	return b, ok
}

// Erase removes the referenced entry. A no-op if it is already End(). The
// iterator must not be used afterward except to be discarded — exactly
// like the reference implementation's erase(iterator), which invalidates
// the iterator passed to it.
func (it *MapIterator[K, V]) Erase() {
	if !it.Valid() {
		return
	}
	b, ok := it.resolveBucket()
	if !ok {
		return
	}
	it.m.eraseAtBucket(b)
	it.bucketIdx = sentinelBucket
	it.valueIdx = uint64(len(it.m.data)) + 1
}

// SetIterator refers to one member of a Set. Its zero value is not usable;
// obtain one from Set.Find or Set.End. It carries the same two-part
// (valueIdx, bucketIdx) staleness contract as MapIterator, since a Set is
// the single-valued, unique-key variant with the entry and key coinciding.
type SetIterator[K comparable] struct {
	s             *Set[K]
	valueIdx      uint64
	bucketIdx     uint64
	rehashCounter uint64
}

// Valid reports whether it refers to a real member (as opposed to End()).
func (it SetIterator[K]) Valid() bool {
	return it.valueIdx < uint64(len(it.s.data))
}

// Key returns the referenced member. Calling Key on an invalid iterator
// panics, exactly as dereferencing end() would in the reference
// implementation.
func (it SetIterator[K]) Key() K { return it.s.data[it.valueIdx] }

// Next advances the iterator by one position in the dense array. It
// returns false once the iterator has reached End().
func (it *SetIterator[K]) Next() bool {
	it.valueIdx++
	it.bucketIdx = sentinelBucket
	return it.Valid()
}

func (it *SetIterator[K]) resolveBucket() (uint64, bool) {
	if it.bucketIdx != sentinelBucket && it.rehashCounter == it.s.cp.rehashCounter {
		return it.bucketIdx, true
	}
	h := it.s.hash(it.s.data[it.valueIdx])
	b, ok := it.s.cp.findBucketForValueIdx(h, it.valueIdx)
	return b, ok
}

// Erase removes the referenced member. A no-op if it is already End().
func (it *SetIterator[K]) Erase() {
	if !it.Valid() {
		return
	}
	b, ok := it.resolveBucket()
	if !ok {
		return
	}
	it.s.eraseAtBucket(b)
	it.bucketIdx = sentinelBucket
	it.valueIdx = uint64(len(it.s.data)) + 1
}
