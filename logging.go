package hashtable

// Logger is the minimal structured-logging surface the engine calls into
// when tracing is enabled via WithLogger. *zap.SugaredLogger satisfies it
// directly. The engine depends only on this interface, not on zap itself,
// so tests and callers who don't want the dependency can supply a no-op or
// a testing.T-backed stand-in.
//
// This plays the same role the teacher lineage's debug-gated fmt.Printf
// calls play in CockroachDB's swiss package: a trace of engine decisions.
// Here it's structured and optional rather than a compile-time constant,
// so it can be enabled selectively in production without a rebuild.
//
// Map traces Put's insertions and overwrites, Delete, and load-triggered
// rehashes; Set traces load-triggered rehashes only. Probes, forced Rehash
// calls and the multi variants are not traced.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
}

// noopLogger discards everything. It is the default so that tracing costs
// nothing unless a caller opts in with WithLogger.
type noopLogger struct{}

func (noopLogger) Debugw(msg string, keysAndValues ...interface{}) {}
