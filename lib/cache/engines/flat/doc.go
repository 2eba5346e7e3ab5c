// Package flat implements an unbounded chunk cache that keeps every chunk
// resident. It provides a complete implementation of the cache.ICache interface
// without eviction, compression, or a codec.
//
// The package focuses on:
//   - Minimal access latency, every payload is always decoded
//   - Simple, predictable behavior for small lattices and for tests
//   - The same ambient-value and pruning semantics as the bounded engines
//
// Since nothing is ever compressed, Flush reduces to a prune pass: chunks whose
// payload became fully ambient are dropped, everything else just has its dirty
// flag cleared. Memory usage grows with the number of distinct chunks written
// and is only reclaimed by flushing ambient chunks or closing the cache.
//
// The flat cache reports FeatureFlush and FeaturePrune, but not FeatureBounded,
// FeatureWriteBack, or FeatureEvents. Callers that need a residency bound or
// lifecycle events should use the birch engine instead.
package flat
