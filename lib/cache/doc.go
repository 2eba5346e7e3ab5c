// Package cache provides a standardized interface for chunk cache implementations.
// It defines a comprehensive ICache interface that allows for consistent interaction
// with various cache backends while abstracting implementation details.
//
// The package focuses on:
//   - A unified interface for chunk payload access
//   - Feature discovery through capability flags
//   - Standardized lifecycle event reporting
//   - Comprehensive metadata reporting
//
// Key Components:
//
//   - ICache Interface: The core interface that all cache implementations must satisfy.
//     It provides methods for payload access (Modify, View, Contains),
//     maintenance operations (Keys, Flush), event observation (Events),
//     metadata retrieval (GetInfo), and lifecycle management (Close).
//
//   - Feature Flags: The Feature type defines capability flags that implementations
//     can advertise through the SupportsFeature method. This allows clients to
//     discover supported behavior at runtime.
//
//   - Implementation Identifiers: The Implementation type provides string constants
//     for different cache backends (currently "birch" and "flat").
//
//   - Cache Information: The Info structure provides standardized reporting on
//     cache state, including chunk counts, stored byte statistics, implementation
//     type, and implementation-specific metadata. Note: For most implementations
//     all size statistics will be estimated since a precise calculation can be
//     expensive.
//
// This interface-driven approach allows applications to:
//   - Swap cache implementations without code changes
//   - Gracefully handle operations not supported by specific implementations
//   - Maintain consistent behavior across different cache backends
//   - Collect standardized metrics for monitoring and management
//
// Note on the Ambient Value:
//   - Every cache is configured with a single ambient value. A chunk that was never
//     written, or whose payload became fully ambient again, does not exist in the
//     cache. Readers must treat such chunks as if every element equaled the ambient
//     value; this is what makes sparse lattices cheap to represent.
//   - Modify is the only operation that materializes a chunk. View and Contains
//     never create state, no matter how often they are called for an absent key.
//   - Implementations may drop a chunk whose payload is fully ambient at any
//     storage transition (eviction or flush). Clients cannot distinguish a dropped
//     chunk from one that was never written, which is intentional.
//
// Note on Chunk States:
//   - A chunk is either resident (decoded payload in memory) or stored (compressed
//     bytes only). Resident chunks are additionally clean or dirty, where dirty
//     means the payload has been modified since it was last encoded.
//   - Bounded implementations (FeatureBounded) limit the number of resident chunks
//     and transition the least recently used chunk to its stored form when the
//     limit is reached (FeatureWriteBack). Accessing a stored chunk transparently
//     decompresses it back to resident.
//   - Corrupt stored bytes surface as an error with RetCCorruptChunkData. An
//     implementation must never silently substitute ambient data for a chunk it
//     failed to decode.
//
// Related Packages:
//
// The engines/birch package (github.com/ValentinKolb/chunkDB/lib/cache/engines/birch)
// provides a bounded implementation of the ICache interface with least-recently-used
// write-back eviction. It keeps at most a configured number of chunks resident,
// compresses evicted payloads with a pluggable codec, publishes lifecycle events
// through a lock-free queue, and exports operational counters. The implementation
// is optimized for working sets much larger than memory.
//
// The engines/flat package (github.com/ValentinKolb/chunkDB/lib/cache/engines/flat)
// provides an unbounded implementation that keeps every chunk resident. It trades
// memory for speed and is intended for small lattices and for tests.
//
// The util package (github.com/ValentinKolb/chunkDB/lib/cache/util) provides
// complementary tools for working with cache.ICache implementations:
//   - SizeHistogram: Utilities for analyzing compressed chunk size distributions
//   - MapHeap: A priority queue implementation for least-recently-used eviction
//   - LockFreeMPSC: A lock-free multi-producer single-consumer queue for event delivery
//   - ... and more
//
// The testing package (github.com/ValentinKolb/chunkDB/lib/cache/testing) provides
// standardized tests and benchmarks for cache implementations that satisfy the
// cache.ICache interface.
//   - RunCacheTests: Runs a standardized test suite to validate implementations
//   - RunCacheBenchmarks: Provides performance benchmarks for comparing implementations
package cache
