// Package prometheus implements hashtable.Metrics on top of
// github.com/prometheus/client_golang, so a demo or production process can
// export insert/remove/rehash counters and a load-factor gauge without the
// core engine ever importing a metrics client directly.
package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector is a hashtable.Metrics implementation backed by five
// Prometheus instruments. Register it with a prometheus.Registerer (or
// leave nil to use the default one) before attaching it to a table with
// hashtable.WithMetrics.
type Collector struct {
	inserted prometheus.Counter
	removed  prometheus.Counter
	rehashes prometheus.Counter
	buckets  prometheus.Gauge
	load     prometheus.Gauge
}

// New constructs a Collector labeled with name (typically the variant and
// call site, e.g. "sessions_by_token") and registers its instruments with
// reg. Passing nil registers with prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer, name string) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		inserted: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "hashtable_inserted_total",
			Help:        "Number of entries inserted into the table.",
			ConstLabels: prometheus.Labels{"table": name},
		}),
		removed: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "hashtable_removed_total",
			Help:        "Number of entries removed from the table.",
			ConstLabels: prometheus.Labels{"table": name},
		}),
		rehashes: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "hashtable_rehashes_total",
			Help:        "Number of times the bucket arrays were reallocated.",
			ConstLabels: prometheus.Labels{"table": name},
		}),
		buckets: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "hashtable_bucket_count",
			Help:        "Current number of allocated buckets.",
			ConstLabels: prometheus.Labels{"table": name},
		}),
		load: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "hashtable_load_factor",
			Help:        "Current entries-per-bucket ratio.",
			ConstLabels: prometheus.Labels{"table": name},
		}),
	}
	reg.MustRegister(c.inserted, c.removed, c.rehashes, c.buckets, c.load)
	return c
}

// InsertedEntry implements hashtable.Metrics.
func (c *Collector) InsertedEntry() { c.inserted.Inc() }

// RemovedEntry implements hashtable.Metrics.
func (c *Collector) RemovedEntry() { c.removed.Inc() }

// Rehashed implements hashtable.Metrics.
func (c *Collector) Rehashed(newBucketCount int) {
	c.rehashes.Inc()
	c.buckets.Set(float64(newBucketCount))
}

// ObserveLoad implements hashtable.Metrics.
func (c *Collector) ObserveLoad(load float64) { c.load.Set(load) }
