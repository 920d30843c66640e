package hashtable

// Allocator supplies backing storage for a table's control and redirection
// arrays (on first allocation and on every rehash) and for the dense data
// array when ShrinkToFit compacts it. Ordinary growth of the data array
// goes through append, and the multi variants' key-shadow array is never
// allocated through it. The default allocator used by the NewMap, NewSet,
// NewMultiMap and NewMultiSet constructors simply calls Go's make and lets
// the garbage collector reclaim memory;
// this mirrors the Allocator interface this package's teacher lineage
// (CockroachDB's swiss package) exposes for the same reason: letting a
// caller with unusual memory requirements (an arena, a sync.Pool-backed
// pool, a manually managed region) plug in without the engine knowing
// anything changed.
//
// E is the per-slot entry type stored in data: a Pair[K,V] for Map, a bare
// K for Set, and a *list.List for the multi variants (where each bucket
// holds an ordered sequence rather than a single entry).
type Allocator[E any] interface {
	// AllocEntries returns a slice equivalent to make([]E, n).
	AllocEntries(n int) []E
	// AllocControl returns a slice equivalent to make([]ctrl, n).
	AllocControl(n int) []ctrl
	// AllocRedir returns a slice equivalent to make([]redirEntry, n).
	AllocRedir(n int) []redirEntry

	// FreeEntries optionally releases memory returned by AllocEntries.
	FreeEntries(v []E)
	// FreeControl optionally releases memory returned by AllocControl.
	FreeControl(v []ctrl)
	// FreeRedir optionally releases memory returned by AllocRedir.
	FreeRedir(v []redirEntry)
}

// defaultAllocator is the garbage-collector-backed Allocator installed
// unless a caller opts into WithAllocator.
type defaultAllocator[E any] struct{}

func (defaultAllocator[E]) AllocEntries(n int) []E             { return make([]E, n) }
func (defaultAllocator[E]) AllocControl(n int) []ctrl          { return make([]ctrl, n) }
func (defaultAllocator[E]) AllocRedir(n int) []redirEntry      { return make([]redirEntry, n) }
func (defaultAllocator[E]) FreeEntries(v []E)                  {}
func (defaultAllocator[E]) FreeControl(v []ctrl)               {}
func (defaultAllocator[E]) FreeRedir(v []redirEntry)           {}
