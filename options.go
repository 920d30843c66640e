package hashtable

// config collects the constructor-time collaborators shared by every
// variant. K is the key type (needed for Equality); E is the element type
// stored in the dense data array (Pair[K,V] for Map, K for Set, *list.List
// for the multi variants).
type config[K any, E any] struct {
	capacity  int
	allocator Allocator[E]
	big       bool
	equal     Equality[K]
	logger    Logger
	metrics   Metrics
}

func newConfig[K comparable, E any]() *config[K, E] {
	return &config[K, E]{
		allocator: defaultAllocator[E]{},
		equal:     defaultEqual[K](),
		logger:    noopLogger{},
		metrics:   noopMetrics{},
	}
}

// Option configures a table at construction time. Every With* function
// below returns one; this mirrors the functional-options pattern this
// package's teacher lineage (CockroachDB's swiss package) already uses for
// WithHash and WithAllocator.
type Option[K any, E any] interface {
	apply(*config[K, E])
}

type optionFunc[K any, E any] func(*config[K, E])

func (f optionFunc[K, E]) apply(c *config[K, E]) { f(c) }

// WithCapacity pre-sizes a table for n entries. A hint above 1024 allocates
// enough buckets that inserting n entries stays within the maximum load
// factor, so no rehash is triggered; a hint of 1024 or less allocates the
// 1024-bucket floor, which holds up to 819 entries before the first rehash.
// Equivalent to the reference implementation's constructor-with-hint.
func WithCapacity[K any, E any](n int) Option[K, E] {
	return optionFunc[K, E](func(c *config[K, E]) { c.capacity = n })
}

// WithAllocator installs a custom Allocator for a table's control and
// redirection arrays and for ShrinkToFit's compaction of the dense data
// array; see Allocator.
func WithAllocator[K any, E any](a Allocator[E]) Option[K, E] {
	return optionFunc[K, E](func(c *config[K, E]) { c.allocator = a })
}

// WithEqual installs a custom key-equality predicate, overriding the
// default == comparison; useful for keys that need normalization before
// comparison (case folding, NaN-aware float comparison, and so on).
// Heterogeneous lookup does not use it: FindAs, DeleteAs, FindSetAs and
// DeleteSetAs take their own equality function.
func WithEqual[K any, E any](eq Equality[K]) Option[K, E] {
	return optionFunc[K, E](func(c *config[K, E]) { c.equal = eq })
}

// WithBig lifts the uint32-range overflow guard on the dense data array
// (see ErrCapacityOverflow), at the cost of no compile-time savings in Go
// since redir already stores full 64-bit words regardless — see DESIGN.md
// for why the C++ BIG switch's storage-layout effect doesn't translate.
func WithBig[K any, E any]() Option[K, E] {
	return optionFunc[K, E](func(c *config[K, E]) { c.big = true })
}

// WithLogger attaches a Logger that receives Debugw-level trace lines; see
// Logger for which events are traced.
func WithLogger[K any, E any](l Logger) Option[K, E] {
	return optionFunc[K, E](func(c *config[K, E]) { c.logger = l })
}

// WithMetrics attaches a Metrics collaborator observing insert/remove/
// rehash counts and load factor.
func WithMetrics[K any, E any](m Metrics) Option[K, E] {
	return optionFunc[K, E](func(c *config[K, E]) { c.metrics = m })
}
