// Command hashdemo exercises the hashtable package's variants under a
// randomized workload while exporting Prometheus metrics and structured
// logs, and offers a standalone invariant-checking subcommand.
package main

import (
	"container/list"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	hashtable "github.com/Davidah121/An-Efficient-HashTable"
	"github.com/Davidah121/An-Efficient-HashTable/hashing"
	hashtablemetrics "github.com/Davidah121/An-Efficient-HashTable/metrics/prometheus"
)

var (
	variant string
	ops     int
	listen  string
	dumpInv bool
)

// variantValue is a pflag.Value that rejects anything but the four known
// container shapes at flag-parse time, instead of deferring to the newWorkload
// switch's default case.
type variantValue struct{ dest *string }

func (v variantValue) String() string { return *v.dest }

func (v variantValue) Set(s string) error {
	switch s {
	case "map", "set", "multimap", "multiset":
		*v.dest = s
		return nil
	default:
		return errors.Newf("must be one of: map, set, multimap, multiset (got %q)", s)
	}
}

func (v variantValue) Type() string { return "variant" }

func registerVariantFlag(flags *pflag.FlagSet) {
	variant = "map"
	flags.Var(variantValue{&variant}, "variant", "one of: map, set, multimap, multiset")
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hashdemo",
		Short: "Exercises the hashtable package's variants under load",
	}
	root.AddCommand(newStressCmd(), newInspectCmd())
	return root
}

func newStressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Runs a randomized insert/delete workload while exporting metrics",
		RunE:  runStress,
	}
	registerVariantFlag(cmd.Flags())
	cmd.Flags().IntVar(&ops, "ops", 1_000_000, "number of operations to perform")
	cmd.Flags().StringVar(&listen, "listen", ":9090", "address to serve /metrics on")
	return cmd
}

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Runs a workload then checks the table's structural invariants",
		RunE:  runInspect,
	}
	registerVariantFlag(cmd.Flags())
	cmd.Flags().IntVar(&ops, "ops", 100_000, "number of operations to perform before checking")
	cmd.Flags().BoolVar(&dumpInv, "dump-invariants", false, "print each entry as it is checked")
	return cmd
}

// workload is what each variant's stress/inspect driver reduces to: apply
// ops random mutations with the given rng, then report final size figures.
type workload interface {
	run(rng *rand.Rand, n int) error
	summary() (elements int, buckets int)
	checkInvariants(dump bool) error
}

func newWorkload(variant string, logger *zap.SugaredLogger, collector *hashtablemetrics.Collector) (workload, error) {
	switch variant {
	case "map":
		return newMapWorkload(logger, collector), nil
	case "set":
		return newSetWorkload(logger, collector), nil
	case "multimap":
		return newMultiMapWorkload(logger, collector), nil
	case "multiset":
		return newMultiSetWorkload(logger, collector), nil
	default:
		return nil, errors.Newf("hashdemo: unknown --variant %q", variant)
	}
}

type mapWorkload struct{ m *hashtable.Map[int, int] }

func newMapWorkload(logger *zap.SugaredLogger, collector *hashtablemetrics.Collector) *mapWorkload {
	opts := mapOpts(logger, collector)
	return &mapWorkload{m: hashtable.NewMap[int, int](hashing.IntHasher, opts...)}
}

func mapOpts(logger *zap.SugaredLogger, collector *hashtablemetrics.Collector) []hashtable.Option[int, hashtable.Pair[int, int]] {
	var opts []hashtable.Option[int, hashtable.Pair[int, int]]
	if logger != nil {
		opts = append(opts, hashtable.WithLogger[int, hashtable.Pair[int, int]](logger))
	}
	if collector != nil {
		opts = append(opts, hashtable.WithMetrics[int, hashtable.Pair[int, int]](collector))
	}
	return opts
}

func (w *mapWorkload) run(rng *rand.Rand, n int) error {
	for i := 0; i < n; i++ {
		k := rng.Intn(n/4 + 1)
		if rng.Intn(4) == 0 {
			w.m.Delete(k)
			continue
		}
		if err := w.m.Put(k, i); err != nil {
			return errors.Wrapf(err, "hashdemo: map put failed after %d ops", i)
		}
	}
	return nil
}

func (w *mapWorkload) summary() (int, int) { return w.m.Len(), w.m.BucketCount() }

func (w *mapWorkload) checkInvariants(dump bool) error {
	seen := 0
	var mismatch error
	w.m.All(func(k, v int) bool {
		if dump {
			fmt.Printf("checking key=%d\n", k)
		}
		got, ok := w.m.Get(k)
		if !ok || got != v {
			mismatch = errors.Newf("hashdemo: Get(%d) disagreed with All's own value", k)
			return false
		}
		seen++
		return true
	})
	if mismatch != nil {
		return mismatch
	}
	if seen != w.m.Len() {
		return errors.Newf("hashdemo: invariant violated: All visited %d entries, Len reports %d", seen, w.m.Len())
	}
	return nil
}

type setWorkload struct{ s *hashtable.Set[int] }

func newSetWorkload(logger *zap.SugaredLogger, collector *hashtablemetrics.Collector) *setWorkload {
	var opts []hashtable.Option[int, int]
	if logger != nil {
		opts = append(opts, hashtable.WithLogger[int, int](logger))
	}
	if collector != nil {
		opts = append(opts, hashtable.WithMetrics[int, int](collector))
	}
	return &setWorkload{s: hashtable.NewSet[int](hashing.IntHasher, opts...)}
}

func (w *setWorkload) run(rng *rand.Rand, n int) error {
	for i := 0; i < n; i++ {
		k := rng.Intn(n/4 + 1)
		if rng.Intn(4) == 0 {
			w.s.Remove(k)
			continue
		}
		if _, err := w.s.Add(k); err != nil {
			return errors.Wrapf(err, "hashdemo: set add failed after %d ops", i)
		}
	}
	return nil
}

func (w *setWorkload) summary() (int, int) { return w.s.Len(), w.s.BucketCount() }

func (w *setWorkload) checkInvariants(dump bool) error {
	seen := 0
	w.s.All(func(k int) bool {
		if dump {
			fmt.Printf("checking member=%d\n", k)
		}
		if !w.s.Contains(k) {
			return false
		}
		seen++
		return true
	})
	if seen != w.s.Len() {
		return errors.Newf("hashdemo: invariant violated: All visited %d members, Len reports %d", seen, w.s.Len())
	}
	return nil
}

type multiMapWorkload struct{ m *hashtable.MultiMap[int, int] }

func newMultiMapWorkload(logger *zap.SugaredLogger, collector *hashtablemetrics.Collector) *multiMapWorkload {
	var opts []hashtable.Option[int, *list.List]
	if logger != nil {
		opts = append(opts, hashtable.WithLogger[int, *list.List](logger))
	}
	if collector != nil {
		opts = append(opts, hashtable.WithMetrics[int, *list.List](collector))
	}
	return &multiMapWorkload{m: hashtable.NewMultiMap[int, int](hashing.IntHasher, opts...)}
}

func (w *multiMapWorkload) run(rng *rand.Rand, n int) error {
	for i := 0; i < n; i++ {
		k := rng.Intn(n/8 + 1)
		if rng.Intn(4) == 0 {
			w.m.EraseOne(k, func(int) bool { return true })
			continue
		}
		if err := w.m.Insert(k, i); err != nil {
			return errors.Wrapf(err, "hashdemo: multimap insert failed after %d ops", i)
		}
	}
	return nil
}

func (w *multiMapWorkload) summary() (int, int) { return w.m.Len(), w.m.BucketCount() }

func (w *multiMapWorkload) checkInvariants(dump bool) error {
	total := 0
	w.m.All(func(k, v int) bool {
		if dump {
			fmt.Printf("checking pair key=%d value=%d\n", k, v)
		}
		total++
		return true
	})
	if total != w.m.Len() {
		return errors.Newf("hashdemo: invariant violated: All visited %d pairs, Len reports %d", total, w.m.Len())
	}
	return nil
}

type multiSetWorkload struct{ s *hashtable.MultiSet[int] }

func newMultiSetWorkload(logger *zap.SugaredLogger, collector *hashtablemetrics.Collector) *multiSetWorkload {
	var opts []hashtable.Option[int, *list.List]
	if logger != nil {
		opts = append(opts, hashtable.WithLogger[int, *list.List](logger))
	}
	if collector != nil {
		opts = append(opts, hashtable.WithMetrics[int, *list.List](collector))
	}
	return &multiSetWorkload{s: hashtable.NewMultiSet[int](hashing.IntHasher, opts...)}
}

func (w *multiSetWorkload) run(rng *rand.Rand, n int) error {
	for i := 0; i < n; i++ {
		k := rng.Intn(n/8 + 1)
		if rng.Intn(4) == 0 {
			w.s.RemoveOne(k)
			continue
		}
		if err := w.s.Add(k); err != nil {
			return errors.Wrapf(err, "hashdemo: multiset add failed after %d ops", i)
		}
	}
	return nil
}

func (w *multiSetWorkload) summary() (int, int) { return w.s.Len(), w.s.BucketCount() }

func (w *multiSetWorkload) checkInvariants(dump bool) error {
	total := 0
	w.s.All(func(k int) bool {
		if dump {
			fmt.Printf("checking occurrence key=%d\n", k)
		}
		total++
		return true
	})
	if total != w.s.Len() {
		return errors.Newf("hashdemo: invariant violated: All visited %d occurrences, Len reports %d", total, w.s.Len())
	}
	return nil
}

func runStress(cmd *cobra.Command, args []string) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return errors.Wrap(err, "hashdemo: building logger")
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	collector := hashtablemetrics.New(nil, variant)
	w, err := newWorkload(variant, sugar, collector)
	if err != nil {
		return err
	}

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		sugar.Infow("hashdemo.metrics.listening", "addr", listen)
		if err := http.ListenAndServe(listen, mux); err != nil {
			sugar.Errorw("hashdemo.metrics.stopped", "err", err)
		}
	}()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	if err := w.run(rng, ops); err != nil {
		return err
	}
	elements, buckets := w.summary()
	sugar.Infow("hashdemo.stress.done", "variant", variant, "elements", elements, "buckets", buckets)
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	w, err := newWorkload(variant, nil, nil)
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(1))
	if err := w.run(rng, ops); err != nil {
		return err
	}
	if err := w.checkInvariants(dumpInv); err != nil {
		return err
	}
	elements, buckets := w.summary()
	fmt.Printf("ok: variant=%s elements=%d buckets=%d load=%.2f\n", variant, elements, buckets, float64(elements)/float64(buckets))
	return nil
}
