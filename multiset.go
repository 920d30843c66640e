package hashtable

import "container/list"

// MultiSet is an unordered collection permitting multiple occurrences of
// the same key. As with MultiMap, one control-plane bucket corresponds to
// one unique key; repeated insertions of an already-present key append to
// that key's list rather than probing to a new bucket.
type MultiSet[K comparable] struct {
	cp            controlPlane
	data          []*list.List // list.Element.Value is a K, one per occurrence
	hash          Hasher[K]
	equal         Equality[K]
	allocator     Allocator[*list.List]
	big           bool
	logger        Logger
	metrics       Metrics
	arithmeticKey bool
	count         int
}

// NewMultiSet constructs an empty MultiSet.
func NewMultiSet[K comparable](hash Hasher[K], opts ...Option[K, *list.List]) *MultiSet[K] {
	cfg := newConfig[K, *list.List]()
	for _, opt := range opts {
		opt.apply(cfg)
	}
	s := &MultiSet[K]{
		hash:          hash,
		equal:         cfg.equal,
		allocator:     cfg.allocator,
		big:           cfg.big,
		logger:        cfg.logger,
		metrics:       cfg.metrics,
		arithmeticKey: isArithmeticKey[K](),
	}
	if cfg.capacity > 0 {
		s.cp.ensureAllocated(s.allocCtrl, s.allocRedir, cfg.capacity)
	}
	return s
}

// NewMultiSetFromSlice constructs a MultiSet pre-populated with keys,
// preserving every duplicate as a distinct occurrence.
func NewMultiSetFromSlice[K comparable](hash Hasher[K], keys []K, opts ...Option[K, *list.List]) *MultiSet[K] {
	s := NewMultiSet[K](hash, opts...)
	for _, k := range keys {
		s.Add(k)
	}
	return s
}

func (s *MultiSet[K]) allocCtrl(n int) []ctrl        { return s.allocator.AllocControl(n) }
func (s *MultiSet[K]) allocRedir(n int) []redirEntry { return s.allocator.AllocRedir(n) }

// Len returns the total number of occurrences stored, counting duplicates.
func (s *MultiSet[K]) Len() int { return s.count }

// KeyCount returns the number of distinct keys.
func (s *MultiSet[K]) KeyCount() int { return len(s.data) }

// BucketCount returns the number of allocated buckets.
func (s *MultiSet[K]) BucketCount() int { return s.cp.bucketCount() }

func (s *MultiSet[K]) findBucket(k K) (h uint64, bucketIdx uint64, denseIdx uint64, found bool) {
	h = s.hash(k)
	if !s.cp.allocated() {
		return h, 0, 0, false
	}
	partial := derivePartial(h)
	b := s.cp.start(h)
	for s.cp.ctrl[b].occupied() {
		if s.cp.ctrl[b] == partial && (s.arithmeticKey || s.cp.redir[b].hash == h) {
			di := s.cp.redir[b].valueIdx
			if s.equal(s.headKey(di), k) {
				return h, b, di, true
			}
		}
		b = s.cp.next(b)
	}
	return h, b, 0, false
}

// headKey returns the key any element of bucket di's list carries — every
// element in that list is equal under s.equal, so the front will do.
func (s *MultiSet[K]) headKey(di uint64) K {
	return s.data[di].Front().Value.(K)
}

func (s *MultiSet[K]) checkOverflow() error {
	return checkCapacityOverflow(len(s.data), s.big)
}

// Add inserts one more occurrence of k.
func (s *MultiSet[K]) Add(k K) error {
	s.cp.ensureAllocated(s.allocCtrl, s.allocRedir, 0)
	h, b, di, found := s.findBucket(k)
	if found {
		s.data[di].PushBack(k)
		s.count++
		s.metrics.InsertedEntry()
		return nil
	}
	if err := s.checkOverflow(); err != nil {
		return err
	}
	l := list.New()
	l.PushBack(k)
	s.data = append(s.data, l)
	s.cp.occupy(b, h, uint64(len(s.data)-1))
	s.count++
	s.afterInsert()
	return nil
}

func (s *MultiSet[K]) afterInsert() {
	s.metrics.InsertedEntry()
	load := float64(len(s.data)) / float64(s.cp.bucketCount())
	s.metrics.ObserveLoad(load)
	if load > maxLoadFactor {
		newB := targetBucketCount(s.cp.bucketCount(), len(s.data), false)
		s.cp.rehash(s.allocCtrl, s.allocRedir, newB)
		s.metrics.Rehashed(newB)
	}
}

// Count returns the number of occurrences of k.
func (s *MultiSet[K]) Count(k K) int {
	_, _, di, found := s.findBucket(k)
	if !found {
		return 0
	}
	return s.data[di].Len()
}

func (s *MultiSet[K]) eraseBucketAt(bucketIdx uint64, di uint64) {
	last := uint64(len(s.data) - 1)
	if di != last {
		lastKey := s.headKey(last)
		lastHash := s.hash(lastKey)
		lastBucket, ok := s.cp.findBucketForValueIdx(lastHash, last)
		if ok {
			s.cp.redir[lastBucket].valueIdx = di
		}
		s.data[di] = s.data[last]
	}
	s.data[last] = nil
	s.data = s.data[:last]
	s.cp.vacate(bucketIdx)
}

// RemoveOne removes a single occurrence of k, reporting whether anything
// was removed. If that was the last occurrence, the whole bucket is
// removed.
func (s *MultiSet[K]) RemoveOne(k K) bool {
	_, b, di, found := s.findBucket(k)
	if !found {
		return false
	}
	l := s.data[di]
	l.Remove(l.Front())
	s.count--
	s.metrics.RemovedEntry()
	if l.Len() == 0 {
		s.eraseBucketAt(b, di)
	}
	return true
}

// RemoveAll removes every occurrence of k, returning how many were removed.
func (s *MultiSet[K]) RemoveAll(k K) int {
	_, b, di, found := s.findBucket(k)
	if !found {
		return 0
	}
	n := s.data[di].Len()
	s.count -= n
	s.metrics.RemovedEntry()
	s.eraseBucketAt(b, di)
	return n
}

// Clear fully deallocates the set's storage.
func (s *MultiSet[K]) Clear() {
	s.cp.reset()
	s.allocator.FreeEntries(s.data)
	s.data = nil
	s.count = 0
}

// FastClear empties the set while retaining its current capacity.
func (s *MultiSet[K]) FastClear() {
	s.cp.fastReset()
	s.data = s.data[:0]
	s.count = 0
}

// Rehash forces a rehash of the bucket arrays; a no-op on an unallocated
// table.
func (s *MultiSet[K]) Rehash() {
	if !s.cp.allocated() {
		return
	}
	newB := targetBucketCount(s.cp.bucketCount(), len(s.data), true)
	s.cp.rehash(s.allocCtrl, s.allocRedir, newB)
	s.metrics.Rehashed(newB)
}

// ShrinkToFit advises the allocator to release unused dense-array
// capacity. It is advisory: callers must not depend on cap(s.data)
// changing.
func (s *MultiSet[K]) ShrinkToFit() {
	if cap(s.data) == len(s.data) {
		return
	}
	shrunk := s.allocator.AllocEntries(len(s.data))
	copy(shrunk, s.data)
	s.allocator.FreeEntries(s.data)
	s.data = shrunk
}

// All calls yield once per occurrence, in dense-array order of the keys
// (not control-plane bucket order) and then per-key insertion order.
func (s *MultiSet[K]) All(yield func(k K) bool) {
	for _, l := range s.data {
		for e := l.Front(); e != nil; e = e.Next() {
			if !yield(e.Value.(K)) {
				return
			}
		}
	}
}

// Clone returns a deep copy of s.
func (s *MultiSet[K]) Clone() *MultiSet[K] {
	c := &MultiSet[K]{
		hash:          s.hash,
		equal:         s.equal,
		allocator:     s.allocator,
		big:           s.big,
		logger:        s.logger,
		metrics:       s.metrics,
		arithmeticKey: s.arithmeticKey,
		count:         s.count,
	}
	if s.cp.allocated() {
		c.cp.ctrl = append([]ctrl(nil), s.cp.ctrl...)
		c.cp.redir = append([]redirEntry(nil), s.cp.redir...)
	}
	c.data = make([]*list.List, len(s.data))
	for i, l := range s.data {
		nl := list.New()
		for e := l.Front(); e != nil; e = e.Next() {
			nl.PushBack(e.Value)
		}
		c.data[i] = nl
	}
	return c
}
