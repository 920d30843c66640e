package hashtable

// Map is an unordered key-to-value associative container. It is the
// single-valued, unique-key variant described by this package's design:
// every key maps to at most one value, entries live packed in a dense
// slice, and a separate control plane of one-byte occupancy markers and
// cached hashes drives probing.
//
// A Map is NOT goroutine-safe; callers needing concurrent access must wrap
// one externally, exactly as this package's teacher lineage (CockroachDB's
// swiss package) requires of its own Map.
type Map[K comparable, V any] struct {
	cp            controlPlane
	data          []Pair[K, V]
	hash          Hasher[K]
	equal         Equality[K]
	allocator     Allocator[Pair[K, V]]
	big           bool
	logger        Logger
	metrics       Metrics
	arithmeticKey bool
}

// NewMap constructs an empty Map. No memory is allocated until the first
// insertion. hash must return the same value for keys considered equal by
// the table's Equality (== by default, or whatever WithEqual installs).
func NewMap[K comparable, V any](hash Hasher[K], opts ...Option[K, Pair[K, V]]) *Map[K, V] {
	cfg := newConfig[K, Pair[K, V]]()
	for _, opt := range opts {
		opt.apply(cfg)
	}
	m := &Map[K, V]{
		hash:          hash,
		equal:         cfg.equal,
		allocator:     cfg.allocator,
		big:           cfg.big,
		logger:        cfg.logger,
		metrics:       cfg.metrics,
		arithmeticKey: isArithmeticKey[K](),
	}
	if cfg.capacity > 0 {
		m.cp.ensureAllocated(m.allocCtrl, m.allocRedir, cfg.capacity)
	}
	return m
}

// NewMapFromPairs constructs a Map pre-populated with pairs. Duplicate
// keys keep the first value seen, matching sequential insert semantics
// for an initializer list (spec §6; S1 in §8's scenarios).
func NewMapFromPairs[K comparable, V any](hash Hasher[K], pairs []Pair[K, V], opts ...Option[K, Pair[K, V]]) *Map[K, V] {
	m := NewMap[K, V](hash, append([]Option[K, Pair[K, V]]{WithCapacity[K, Pair[K, V]](len(pairs))}, opts...)...)
	for _, p := range pairs {
		m.TryPut(p.Key, p.Value)
	}
	return m
}

func (m *Map[K, V]) allocCtrl(n int) []ctrl             { return m.allocator.AllocControl(n) }
func (m *Map[K, V]) allocRedir(n int) []redirEntry      { return m.allocator.AllocRedir(n) }

// Len returns the number of keys stored (spec: "size" for single variants
// is the count of unique keys).
func (m *Map[K, V]) Len() int { return len(m.data) }

// BucketCount returns the number of allocated buckets.
func (m *Map[K, V]) BucketCount() int { return m.cp.bucketCount() }

// find is the shared probe used by every read and write path. It never
// allocates; on an empty table it reports "not found" immediately. It
// returns the insertion bucket (the terminating empty slot) even when the
// key was not found, so write paths can reuse the same walk.
func (m *Map[K, V]) find(k K) (h uint64, bucketIdx uint64, valueIdx uint64, found bool) {
	h = m.hash(k)
	if !m.cp.allocated() {
		return h, 0, 0, false
	}
	partial := derivePartial(h)
	b := m.cp.start(h)
	for m.cp.ctrl[b].occupied() {
		if m.cp.ctrl[b] == partial && (m.arithmeticKey || m.cp.redir[b].hash == h) {
			vi := m.cp.redir[b].valueIdx
			if m.equal(m.data[vi].Key, k) {
				return h, b, vi, true
			}
		}
		b = m.cp.next(b)
	}
	return h, b, 0, false
}

// Get retrieves the value for key, reporting ok=false if absent.
func (m *Map[K, V]) Get(k K) (value V, ok bool) {
	_, _, vi, found := m.find(k)
	if !found {
		return value, false
	}
	return m.data[vi].Value, true
}

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(k K) bool {
	_, _, _, found := m.find(k)
	return found
}

// Find returns an Iterator to key's entry, or End() if absent.
func (m *Map[K, V]) Find(k K) MapIterator[K, V] {
	_, b, vi, found := m.find(k)
	if !found {
		return m.End()
	}
	return MapIterator[K, V]{m: m, valueIdx: vi, bucketIdx: b, rehashCounter: m.cp.rehashCounter}
}

// End returns the past-the-end iterator.
func (m *Map[K, V]) End() MapIterator[K, V] {
	return MapIterator[K, V]{m: m, valueIdx: uint64(len(m.data)), bucketIdx: sentinelBucket, rehashCounter: m.cp.rehashCounter}
}

func (m *Map[K, V]) checkOverflow() error {
	return checkCapacityOverflow(len(m.data), m.big)
}

// Put inserts key with value, overwriting any existing value for key.
// Equivalent to the reference implementation's emplace-or-overwrite.
func (m *Map[K, V]) Put(k K, v V) error {
	m.cp.ensureAllocated(m.allocCtrl, m.allocRedir, 0)
	h, b, vi, found := m.find(k)
	if found {
		m.data[vi].Value = v
		m.logger.Debugw("hashtable.put.overwrite", "bucket", b, "valueIdx", vi)
		return nil
	}
	if err := m.checkOverflow(); err != nil {
		return err
	}
	m.data = append(m.data, Pair[K, V]{Key: k, Value: v})
	m.cp.occupy(b, h, uint64(len(m.data)-1))
	m.logger.Debugw("hashtable.put.insert", "bucket", b, "valueIdx", len(m.data)-1)
	m.afterInsert()
	return nil
}

// TryPut inserts key with value only if key is not already present.
// Returns an iterator to the (possibly pre-existing) entry and whether an
// insertion actually happened — the try_emplace of spec §4.3.
func (m *Map[K, V]) TryPut(k K, v V) (MapIterator[K, V], error) {
	m.cp.ensureAllocated(m.allocCtrl, m.allocRedir, 0)
	h, b, vi, found := m.find(k)
	if found {
		return MapIterator[K, V]{m: m, valueIdx: vi, bucketIdx: b, rehashCounter: m.cp.rehashCounter}, nil
	}
	if err := m.checkOverflow(); err != nil {
		return MapIterator[K, V]{}, err
	}
	m.data = append(m.data, Pair[K, V]{Key: k, Value: v})
	newIdx := uint64(len(m.data) - 1)
	m.cp.occupy(b, h, newIdx)
	// Captured before afterInsert, which may trigger a rehash: if it does,
	// this stamp will no longer match m.cp.rehashCounter and the iterator's
	// bucketIdx will be correctly treated as stale on next use (spec §4.6).
	rehashedAt := m.cp.rehashCounter
	m.afterInsert()
	return MapIterator[K, V]{m: m, valueIdx: newIdx, bucketIdx: b, rehashCounter: rehashedAt}, nil
}

// At returns a pointer to the value for key, inserting a zero-valued entry
// first if key is absent — the operator[] of spec §6. The pointer is
// invalidated by anything that reallocates or reorders m.data (any
// insertion, or an erasure of a different key).
func (m *Map[K, V]) At(k K) (*V, error) {
	it, err := m.TryPut(k, *new(V))
	if err != nil {
		return nil, err
	}
	return &it.m.data[it.valueIdx].Value, nil
}

func (m *Map[K, V]) afterInsert() {
	m.metrics.InsertedEntry()
	load := float64(len(m.data)) / float64(m.cp.bucketCount())
	m.metrics.ObserveLoad(load)
	if load > maxLoadFactor {
		newB := targetBucketCount(m.cp.bucketCount(), len(m.data), false)
		m.cp.rehash(m.allocCtrl, m.allocRedir, newB)
		m.logger.Debugw("hashtable.rehash.grow", "newBuckets", newB)
		m.metrics.Rehashed(newB)
	}
}

// eraseAtBucket removes the entry redirected to by bucketIdx, performing
// the swap-and-pop of data and the backward-shift repair of the control
// plane described in spec §4.4.
func (m *Map[K, V]) eraseAtBucket(bucketIdx uint64) {
	valueIdx := m.cp.redir[bucketIdx].valueIdx
	last := uint64(len(m.data) - 1)
	if valueIdx != last {
		lastKey := m.data[last].Key
		lastHash := m.hash(lastKey)
		lastBucket, ok := m.cp.findBucketForValueIdx(lastHash, last)
		if ok {
			m.cp.redir[lastBucket].valueIdx = valueIdx
		}
		m.data[valueIdx] = m.data[last]
	}
	var zero Pair[K, V]
	m.data[last] = zero
	m.data = m.data[:last]
	m.cp.vacate(bucketIdx)
	m.metrics.RemovedEntry()
	if m.cp.bucketCount() > 0 {
		m.metrics.ObserveLoad(float64(len(m.data)) / float64(m.cp.bucketCount()))
	}
}

// Delete removes key if present, reporting whether anything was removed.
func (m *Map[K, V]) Delete(k K) bool {
	_, b, _, found := m.find(k)
	if !found {
		return false
	}
	m.logger.Debugw("hashtable.delete", "bucket", b)
	m.eraseAtBucket(b)
	return true
}

// FindAs performs a heterogeneous lookup: probe is hashed and compared
// with functions supplied by the caller rather than the table's own
// Hasher/Equality. This is how this module expresses spec §9's
// heterogeneous-lookup opt-in: Go methods cannot add type parameters of
// their own, so the opt-in is the caller explicitly supplying probe-typed
// hash/equality functions to a package-level generic function instead of
// a marker interface auto-dispatching from a method.
func FindAs[K comparable, V any, P any](m *Map[K, V], probe P, hash func(P) uint64, eq func(K, P) bool) (value V, ok bool) {
	if !m.cp.allocated() {
		return value, false
	}
	h := hash(probe)
	partial := derivePartial(h)
	b := m.cp.start(h)
	for m.cp.ctrl[b].occupied() {
		if m.cp.ctrl[b] == partial && (m.arithmeticKey || m.cp.redir[b].hash == h) {
			vi := m.cp.redir[b].valueIdx
			if eq(m.data[vi].Key, probe) {
				return m.data[vi].Value, true
			}
		}
		b = m.cp.next(b)
	}
	return value, false
}

// DeleteAs is the heterogeneous counterpart to Delete; see FindAs.
func DeleteAs[K comparable, V any, P any](m *Map[K, V], probe P, hash func(P) uint64, eq func(K, P) bool) bool {
	if !m.cp.allocated() {
		return false
	}
	h := hash(probe)
	partial := derivePartial(h)
	b := m.cp.start(h)
	for m.cp.ctrl[b].occupied() {
		if m.cp.ctrl[b] == partial && (m.arithmeticKey || m.cp.redir[b].hash == h) {
			vi := m.cp.redir[b].valueIdx
			if eq(m.data[vi].Key, probe) {
				m.eraseAtBucket(b)
				return true
			}
		}
		b = m.cp.next(b)
	}
	return false
}

// Clear fully deallocates the table's storage.
func (m *Map[K, V]) Clear() {
	m.cp.reset()
	m.allocator.FreeEntries(m.data)
	m.data = nil
}

// FastClear empties the table in O(bucketCount) while retaining its
// current capacity, avoiding a reallocation on the next round of inserts.
func (m *Map[K, V]) FastClear() {
	m.cp.fastReset()
	m.data = m.data[:0]
}

// Rehash forces a rehash, which may grow, shrink, or (if the load factor
// is already balanced) leave the bucket count unchanged. A no-op on an
// unallocated table (spec scenario S5).
func (m *Map[K, V]) Rehash() {
	if !m.cp.allocated() {
		return
	}
	newB := targetBucketCount(m.cp.bucketCount(), len(m.data), true)
	m.cp.rehash(m.allocCtrl, m.allocRedir, newB)
	m.metrics.Rehashed(newB)
}

// ShrinkToFit advises the allocator to release unused dense-array
// capacity. It is advisory: callers must not depend on cap(m.data)
// changing.
func (m *Map[K, V]) ShrinkToFit() {
	if cap(m.data) == len(m.data) {
		return
	}
	shrunk := m.allocator.AllocEntries(len(m.data))
	copy(shrunk, m.data)
	m.allocator.FreeEntries(m.data)
	m.data = shrunk
}

// All calls yield for every (key, value) pair in the table, stopping early
// if yield returns false. Iteration order is unspecified and not stable
// across rehashes.
func (m *Map[K, V]) All(yield func(k K, v V) bool) {
	for _, p := range m.data {
		if !yield(p.Key, p.Value) {
			return
		}
	}
}

// Clone returns a deep copy of m; mutating the clone never affects m.
func (m *Map[K, V]) Clone() *Map[K, V] {
	c := &Map[K, V]{
		hash:          m.hash,
		equal:         m.equal,
		allocator:     m.allocator,
		big:           m.big,
		logger:        m.logger,
		metrics:       m.metrics,
		arithmeticKey: m.arithmeticKey,
	}
	if m.cp.allocated() {
		c.cp.ctrl = append([]ctrl(nil), m.cp.ctrl...)
		c.cp.redir = append([]redirEntry(nil), m.cp.redir...)
	}
	c.data = append([]Pair[K, V](nil), m.data...)
	return c
}
