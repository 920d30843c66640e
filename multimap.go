package hashtable

import "container/list"

// MultiMap is an unordered associative container that permits multiple
// values per key. Unlike Map, one control-plane bucket corresponds to one
// unique key, not one entry: every value inserted under an already-present
// key is appended to that bucket's ordered list instead of probing to a
// new bucket. This is what lets erase_one keep every other value's
// reference stable — splicing a container/list.Element never moves its
// neighbors, which a growable slice could not guarantee (see DESIGN.md for
// why this is the one place this package reaches for a standard-library
// container instead of an ecosystem one).
type MultiMap[K comparable, V any] struct {
	cp            controlPlane
	data          []*list.List // list.Element.Value is a V
	keyShadow     []K          // keyShadow[i] is the key owning data[i]
	hash          Hasher[K]
	equal         Equality[K]
	allocator     Allocator[*list.List]
	big           bool
	logger        Logger
	metrics       Metrics
	arithmeticKey bool
	count         int // total (key, value) pairs, across all keys
}

// NewMultiMap constructs an empty MultiMap.
func NewMultiMap[K comparable, V any](hash Hasher[K], opts ...Option[K, *list.List]) *MultiMap[K, V] {
	cfg := newConfig[K, *list.List]()
	for _, opt := range opts {
		opt.apply(cfg)
	}
	m := &MultiMap[K, V]{
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

// NewMultiMapFromPairs constructs a MultiMap pre-populated with pairs; a
// repeated key contributes one additional value rather than overwriting,
// matching Insert's semantics.
func NewMultiMapFromPairs[K comparable, V any](hash Hasher[K], pairs []Pair[K, V], opts ...Option[K, *list.List]) *MultiMap[K, V] {
	m := NewMultiMap[K, V](hash, opts...)
	for _, p := range pairs {
		m.Insert(p.Key, p.Value)
	}
	return m
}

func (m *MultiMap[K, V]) allocCtrl(n int) []ctrl        { return m.allocator.AllocControl(n) }
func (m *MultiMap[K, V]) allocRedir(n int) []redirEntry { return m.allocator.AllocRedir(n) }

// Len returns the total number of (key, value) pairs stored, counting
// duplicate keys separately.
func (m *MultiMap[K, V]) Len() int { return m.count }

// KeyCount returns the number of distinct keys.
func (m *MultiMap[K, V]) KeyCount() int { return len(m.data) }

// BucketCount returns the number of allocated buckets.
func (m *MultiMap[K, V]) BucketCount() int { return m.cp.bucketCount() }

// findBucket locates the dense-array index holding key's list, if any.
func (m *MultiMap[K, V]) findBucket(k K) (h uint64, bucketIdx uint64, denseIdx uint64, found bool) {
	h = m.hash(k)
	if !m.cp.allocated() {
		return h, 0, 0, false
	}
	partial := derivePartial(h)
	b := m.cp.start(h)
	for m.cp.ctrl[b].occupied() {
		if m.cp.ctrl[b] == partial && (m.arithmeticKey || m.cp.redir[b].hash == h) {
			di := m.cp.redir[b].valueIdx
			if m.equal(m.keyShadow[di], k) {
				return h, b, di, true
			}
		}
		b = m.cp.next(b)
	}
	return h, b, 0, false
}

func (m *MultiMap[K, V]) checkOverflow() error {
	return checkCapacityOverflow(len(m.data), m.big)
}

// Insert always adds a new (key, value) pair, even if key is already
// present — the multi variant's insert never overwrites.
func (m *MultiMap[K, V]) Insert(k K, v V) error {
	m.cp.ensureAllocated(m.allocCtrl, m.allocRedir, 0)
	h, b, di, found := m.findBucket(k)
	if found {
		m.data[di].PushBack(v)
		m.count++
		m.metrics.InsertedEntry()
		return nil
	}
	if err := m.checkOverflow(); err != nil {
		return err
	}
	l := list.New()
	l.PushBack(v)
	m.data = append(m.data, l)
	m.keyShadow = append(m.keyShadow, k)
	m.cp.occupy(b, h, uint64(len(m.data)-1))
	m.count++
	m.afterInsert()
	return nil
}

func (m *MultiMap[K, V]) afterInsert() {
	m.metrics.InsertedEntry()
	load := float64(len(m.data)) / float64(m.cp.bucketCount())
	m.metrics.ObserveLoad(load)
	if load > maxLoadFactor {
		newB := targetBucketCount(m.cp.bucketCount(), len(m.data), false)
		m.rehashTo(newB)
		m.metrics.Rehashed(newB)
	}
}

func (m *MultiMap[K, V]) rehashTo(newBuckets int) {
	m.cp.rehash(m.allocCtrl, m.allocRedir, newBuckets)
}

// Values returns every value stored under key, in insertion order. The
// returned slice is a copy; mutating it does not affect the table.
func (m *MultiMap[K, V]) Values(k K) []V {
	_, _, di, found := m.findBucket(k)
	if !found {
		return nil
	}
	out := make([]V, 0, m.data[di].Len())
	for e := m.data[di].Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(V))
	}
	return out
}

// Count returns the number of values stored under key.
func (m *MultiMap[K, V]) Count(k K) int {
	_, _, di, found := m.findBucket(k)
	if !found {
		return 0
	}
	return m.data[di].Len()
}

// eraseBucketAt removes the whole bucket at dense index di, patching the
// redirection of whatever bucket previously pointed at the last dense
// index (the same swap-and-pop discipline Map and Set use, applied to the
// key/list arrays instead of a flat entry array).
func (m *MultiMap[K, V]) eraseBucketAt(bucketIdx uint64, di uint64) {
	last := uint64(len(m.data) - 1)
	if di != last {
		lastKey := m.keyShadow[last]
		lastHash := m.hash(lastKey)
		lastBucket, ok := m.cp.findBucketForValueIdx(lastHash, last)
		if ok {
			m.cp.redir[lastBucket].valueIdx = di
		}
		m.data[di] = m.data[last]
		m.keyShadow[di] = m.keyShadow[last]
	}
	m.data[last] = nil
	var zeroKey K
	m.keyShadow[last] = zeroKey
	m.data = m.data[:last]
	m.keyShadow = m.keyShadow[:last]
	m.cp.vacate(bucketIdx)
}

// EraseOne removes the first value under key (in insertion order) for which
// matches reports true — a predicate rather than a value, since V need not
// be comparable — reporting whether anything was removed. If that was the
// last value under key, the whole bucket is removed.
func (m *MultiMap[K, V]) EraseOne(k K, matches func(V) bool) bool {
	_, b, di, found := m.findBucket(k)
	if !found {
		return false
	}
	l := m.data[di]
	for e := l.Front(); e != nil; e = e.Next() {
		if matches(e.Value.(V)) {
			l.Remove(e)
			m.count--
			m.metrics.RemovedEntry()
			if l.Len() == 0 {
				m.eraseBucketAt(b, di)
			}
			return true
		}
	}
	return false
}

// EraseAll removes every value stored under key, reporting how many were
// removed.
func (m *MultiMap[K, V]) EraseAll(k K) int {
	_, b, di, found := m.findBucket(k)
	if !found {
		return 0
	}
	n := m.data[di].Len()
	m.count -= n
	m.metrics.RemovedEntry()
	m.eraseBucketAt(b, di)
	return n
}

// Clear fully deallocates the table's storage.
func (m *MultiMap[K, V]) Clear() {
	m.cp.reset()
	m.allocator.FreeEntries(m.data)
	m.data = nil
	m.keyShadow = nil
	m.count = 0
}

// FastClear empties the table while retaining its current capacity.
func (m *MultiMap[K, V]) FastClear() {
	m.cp.fastReset()
	m.data = m.data[:0]
	m.keyShadow = m.keyShadow[:0]
	m.count = 0
}

// Rehash forces a rehash of the bucket (unique-key) arrays; a no-op on an
// unallocated table.
func (m *MultiMap[K, V]) Rehash() {
	if !m.cp.allocated() {
		return
	}
	newB := targetBucketCount(m.cp.bucketCount(), len(m.data), true)
	m.rehashTo(newB)
	m.metrics.Rehashed(newB)
}

// ShrinkToFit advises the allocator to release unused capacity in the
// per-key data and keyShadow arrays. It is advisory: callers must not
// depend on cap(m.data) changing.
func (m *MultiMap[K, V]) ShrinkToFit() {
	if cap(m.data) == len(m.data) {
		return
	}
	shrunkData := m.allocator.AllocEntries(len(m.data))
	copy(shrunkData, m.data)
	m.allocator.FreeEntries(m.data)
	m.data = shrunkData

	shrunkKeys := make([]K, len(m.keyShadow))
	copy(shrunkKeys, m.keyShadow)
	m.keyShadow = shrunkKeys
}

// All calls yield for every (key, value) pair, in dense-array order of the
// keys (not control-plane bucket order) and then per-key insertion order.
func (m *MultiMap[K, V]) All(yield func(k K, v V) bool) {
	for i, l := range m.data {
		k := m.keyShadow[i]
		for e := l.Front(); e != nil; e = e.Next() {
			if !yield(k, e.Value.(V)) {
				return
			}
		}
	}
}

// Clone returns a deep copy of m.
func (m *MultiMap[K, V]) Clone() *MultiMap[K, V] {
	c := &MultiMap[K, V]{
		hash:          m.hash,
		equal:         m.equal,
		allocator:     m.allocator,
		big:           m.big,
		logger:        m.logger,
		metrics:       m.metrics,
		arithmeticKey: m.arithmeticKey,
		count:         m.count,
	}
	if m.cp.allocated() {
		c.cp.ctrl = append([]ctrl(nil), m.cp.ctrl...)
		c.cp.redir = append([]redirEntry(nil), m.cp.redir...)
	}
	c.data = make([]*list.List, len(m.data))
	c.keyShadow = append([]K(nil), m.keyShadow...)
	for i, l := range m.data {
		nl := list.New()
		for e := l.Front(); e != nil; e = e.Next() {
			nl.PushBack(e.Value)
		}
		c.data[i] = nl
	}
	return c
}
