package hashtable

// Set is an unordered collection of unique keys: the single-valued,
// unique-key variant described by this package's design where the entry
// type and the key type coincide.
type Set[K comparable] struct {
	cp            controlPlane
	data          []K
	hash          Hasher[K]
	equal         Equality[K]
	allocator     Allocator[K]
	big           bool
	logger        Logger
	metrics       Metrics
	arithmeticKey bool
}

// NewSet constructs an empty Set.
func NewSet[K comparable](hash Hasher[K], opts ...Option[K, K]) *Set[K] {
	cfg := newConfig[K, K]()
	for _, opt := range opts {
		opt.apply(cfg)
	}
	s := &Set[K]{
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

// NewSetFromSlice constructs a Set pre-populated with keys, duplicates
// collapsing to a single membership as sequential Add calls would.
func NewSetFromSlice[K comparable](hash Hasher[K], keys []K, opts ...Option[K, K]) *Set[K] {
	s := NewSet[K](hash, append([]Option[K, K]{WithCapacity[K, K](len(keys))}, opts...)...)
	for _, k := range keys {
		s.Add(k)
	}
	return s
}

func (s *Set[K]) allocCtrl(n int) []ctrl        { return s.allocator.AllocControl(n) }
func (s *Set[K]) allocRedir(n int) []redirEntry { return s.allocator.AllocRedir(n) }

// Len returns the number of members.
func (s *Set[K]) Len() int { return len(s.data) }

// BucketCount returns the number of allocated buckets.
func (s *Set[K]) BucketCount() int { return s.cp.bucketCount() }

func (s *Set[K]) find(k K) (h uint64, bucketIdx uint64, valueIdx uint64, found bool) {
	h = s.hash(k)
	if !s.cp.allocated() {
		return h, 0, 0, false
	}
	partial := derivePartial(h)
	b := s.cp.start(h)
	for s.cp.ctrl[b].occupied() {
		if s.cp.ctrl[b] == partial && (s.arithmeticKey || s.cp.redir[b].hash == h) {
			vi := s.cp.redir[b].valueIdx
			if s.equal(s.data[vi], k) {
				return h, b, vi, true
			}
		}
		b = s.cp.next(b)
	}
	return h, b, 0, false
}

// Contains reports whether k is a member.
func (s *Set[K]) Contains(k K) bool {
	_, _, _, found := s.find(k)
	return found
}

// Find returns an iterator to k, or End() if k is not a member.
func (s *Set[K]) Find(k K) SetIterator[K] {
	_, b, vi, found := s.find(k)
	if !found {
		return s.End()
	}
	return SetIterator[K]{s: s, valueIdx: vi, bucketIdx: b, rehashCounter: s.cp.rehashCounter}
}

// End returns an iterator equal to what Find returns on a lookup miss.
func (s *Set[K]) End() SetIterator[K] {
	return SetIterator[K]{s: s, valueIdx: uint64(len(s.data))}
}

func (s *Set[K]) checkOverflow() error {
	return checkCapacityOverflow(len(s.data), s.big)
}

// Add inserts k, reporting whether it was newly added (false if it was
// already a member).
func (s *Set[K]) Add(k K) (bool, error) {
	s.cp.ensureAllocated(s.allocCtrl, s.allocRedir, 0)
	h, b, _, found := s.find(k)
	if found {
		return false, nil
	}
	if err := s.checkOverflow(); err != nil {
		return false, err
	}
	s.data = append(s.data, k)
	s.cp.occupy(b, h, uint64(len(s.data)-1))
	s.afterInsert()
	return true, nil
}

func (s *Set[K]) afterInsert() {
	s.metrics.InsertedEntry()
	load := float64(len(s.data)) / float64(s.cp.bucketCount())
	s.metrics.ObserveLoad(load)
	if load > maxLoadFactor {
		newB := targetBucketCount(s.cp.bucketCount(), len(s.data), false)
		s.cp.rehash(s.allocCtrl, s.allocRedir, newB)
		s.logger.Debugw("hashtable.rehash.grow", "newBuckets", newB)
		s.metrics.Rehashed(newB)
	}
}

func (s *Set[K]) eraseAtBucket(bucketIdx uint64) {
	valueIdx := s.cp.redir[bucketIdx].valueIdx
	last := uint64(len(s.data) - 1)
	if valueIdx != last {
		lastHash := s.hash(s.data[last])
		lastBucket, ok := s.cp.findBucketForValueIdx(lastHash, last)
		if ok {
			s.cp.redir[lastBucket].valueIdx = valueIdx
		}
		s.data[valueIdx] = s.data[last]
	}
	var zero K
	s.data[last] = zero
	s.data = s.data[:last]
	s.cp.vacate(bucketIdx)
	s.metrics.RemovedEntry()
	if s.cp.bucketCount() > 0 {
		s.metrics.ObserveLoad(float64(len(s.data)) / float64(s.cp.bucketCount()))
	}
}

// Remove deletes k, reporting whether it was present.
func (s *Set[K]) Remove(k K) bool {
	_, b, _, found := s.find(k)
	if !found {
		return false
	}
	s.eraseAtBucket(b)
	return true
}

// Clear fully deallocates the set's storage.
func (s *Set[K]) Clear() {
	s.cp.reset()
	s.allocator.FreeEntries(s.data)
	s.data = nil
}

// FastClear empties the set while retaining its current capacity.
func (s *Set[K]) FastClear() {
	s.cp.fastReset()
	s.data = s.data[:0]
}

// Rehash forces a rehash; a no-op on an unallocated table.
func (s *Set[K]) Rehash() {
	if !s.cp.allocated() {
		return
	}
	newB := targetBucketCount(s.cp.bucketCount(), len(s.data), true)
	s.cp.rehash(s.allocCtrl, s.allocRedir, newB)
	s.metrics.Rehashed(newB)
}

// ShrinkToFit advises the allocator to release unused dense-array capacity.
func (s *Set[K]) ShrinkToFit() {
	if cap(s.data) == len(s.data) {
		return
	}
	shrunk := s.allocator.AllocEntries(len(s.data))
	copy(shrunk, s.data)
	s.allocator.FreeEntries(s.data)
	s.data = shrunk
}

// All calls yield for every member, stopping early if yield returns false.
func (s *Set[K]) All(yield func(k K) bool) {
	for _, k := range s.data {
		if !yield(k) {
			return
		}
	}
}

// Clone returns a deep copy of s.
func (s *Set[K]) Clone() *Set[K] {
	c := &Set[K]{
		hash:          s.hash,
		equal:         s.equal,
		allocator:     s.allocator,
		big:           s.big,
		logger:        s.logger,
		metrics:       s.metrics,
		arithmeticKey: s.arithmeticKey,
	}
	if s.cp.allocated() {
		c.cp.ctrl = append([]ctrl(nil), s.cp.ctrl...)
		c.cp.redir = append([]redirEntry(nil), s.cp.redir...)
	}
	c.data = append([]K(nil), s.data...)
	return c
}

// Union returns a new Set containing every key in s or other (or both).
func (s *Set[K]) Union(other *Set[K]) *Set[K] {
	out := s.Clone()
	other.All(func(k K) bool {
		out.Add(k)
		return true
	})
	return out
}

// Intersect returns a new Set containing only keys present in both s and other.
func (s *Set[K]) Intersect(other *Set[K]) *Set[K] {
	out := NewSet[K](s.hash, WithEqual[K, K](s.equal))
	s.All(func(k K) bool {
		if other.Contains(k) {
			out.Add(k)
		}
		return true
	})
	return out
}

// FindAs performs heterogeneous membership testing; see Map's FindAs for
// why this is a package-level function rather than a method.
func FindSetAs[K comparable, P any](s *Set[K], probe P, hash func(P) uint64, eq func(K, P) bool) bool {
	if !s.cp.allocated() {
		return false
	}
	h := hash(probe)
	partial := derivePartial(h)
	b := s.cp.start(h)
	for s.cp.ctrl[b].occupied() {
		if s.cp.ctrl[b] == partial && (s.arithmeticKey || s.cp.redir[b].hash == h) {
			vi := s.cp.redir[b].valueIdx
			if eq(s.data[vi], probe) {
				return true
			}
		}
		b = s.cp.next(b)
	}
	return false
}

// DeleteSetAs is the heterogeneous counterpart to Remove; see FindSetAs.
func DeleteSetAs[K comparable, P any](s *Set[K], probe P, hash func(P) uint64, eq func(K, P) bool) bool {
	if !s.cp.allocated() {
		return false
	}
	h := hash(probe)
	partial := derivePartial(h)
	b := s.cp.start(h)
	for s.cp.ctrl[b].occupied() {
		if s.cp.ctrl[b] == partial && (s.arithmeticKey || s.cp.redir[b].hash == h) {
			vi := s.cp.redir[b].valueIdx
			if eq(s.data[vi], probe) {
				s.eraseAtBucket(b)
				return true
			}
		}
		b = s.cp.next(b)
	}
	return false
}
