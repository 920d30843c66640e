package hashtable

// Metrics is an optional collaborator that observes engine-level events.
// It is deliberately narrow — three event counters and a load gauge — so that any
// metrics backend (Prometheus, StatsD, an in-memory test double) can
// implement it without pulling its client library into this package. The
// metrics/prometheus subpackage supplies a Prometheus-backed
// implementation used by cmd/hashdemo.
type Metrics interface {
	// InsertedEntry is called once per inserted element: a new Map or Set
	// entry placed into data (not a Put that only overwrote an existing
	// value), or one value or occurrence added to a multi variant.
	InsertedEntry()
	// RemovedEntry is called once per Map or Set entry removed from data,
	// once per value or occurrence removed by EraseOne/RemoveOne, and once
	// per EraseAll/RemoveAll call however many values that call removed.
	RemovedEntry()
	// Rehashed is called once per rehash, whether triggered by load or by
	// an explicit Rehash call, with the new bucket count.
	Rehashed(newBucketCount int)
	// ObserveLoad is called with the current load factor (len(data) /
	// bucketCount) after an insertion that places a new entry in data, and
	// after a Map or Set erasure.
	ObserveLoad(load float64)
}

// noopMetrics discards everything. It is the default so that attaching no
// Metrics collaborator costs nothing beyond an interface-typed field.
type noopMetrics struct{}

func (noopMetrics) InsertedEntry()             {}
func (noopMetrics) RemovedEntry()              {}
func (noopMetrics) Rehashed(newBucketCount int) {}
func (noopMetrics) ObserveLoad(load float64)   {}
