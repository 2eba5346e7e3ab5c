// Package birch implements a bounded chunk cache with least-recently-used
// write-back eviction. It provides a complete implementation of the cache.ICache
// interface with a focus on thread safety, memory efficiency, and predictable
// residency bounds.
//
// The package focuses on:
//   - A hard upper bound on the number of decoded chunks held in memory
//   - Transparent write-back of evicted chunks through a pluggable codec
//   - Optimized concurrent access through lock-free data structures and
//     fine-grained per-chunk locking
//   - Automatic dropping of fully ambient chunks so sparse lattices stay sparse
//   - Comprehensive metrics and statistics for monitoring and optimization
//
// Key Components:
//
//   - birchImpl: The central cache structure implementing cache.ICache. It manages
//     the chunk map, coordinates eviction, and provides the public API for payload
//     access. Each chunk is held in exactly one of two forms: resident (decoded
//     payload, directly accessible) or stored (compressed bytes only). The number
//     of resident chunks never exceeds the configured capacity.
//
//   - Entry: The per-chunk slot guarded by its own mutex. Each entry carries the
//     chunk state, the decoded payload or the compressed bytes, a dirty flag, and
//     the recency stamp of its most recent access. Entry mutexes serialize all
//     state transitions per chunk, which makes every operation on a single key
//     linearizable.
//
//   - Recency Heap: A priority queue (util.MapHeap) over all resident chunks
//     keyed by recency stamp. The heap, a monotonic clock, and the resident
//     counter are guarded by a single short-held mutex. Popping the heap minimum
//     yields the least recently used eviction victim.
//
//   - Event System: An optional lock-free multi-producer single-consumer queue
//     that publishes chunk lifecycle events (materialize, evict, prune, flush)
//     to an external consumer without blocking the transition itself.
//
// Internal Mechanisms:
//
//   - Chunk Lookup: Chunk keys are lattice points hashed with the HashPoint
//     function and a cache-specific seed. The entries live in an xsync.MapOf,
//     which shards keys internally for efficient concurrent access.
//
//   - Materialization: Modify is the only operation that creates chunks. A new
//     entry is published to the map already locked, so no other goroutine can
//     observe a chunk that is not yet filled with the ambient value. View and
//     Contains never create state, which keeps read-heavy sweeps over sparse
//     regions allocation-free.
//
//   - Eviction Protocol: When a materialization or reload finds the cache at
//     capacity, it pops the least recently used key from the recency heap,
//     releases the heap mutex, and then locks the victim entry. Because the pop
//     removed the victim from the heap, at most one goroutine ever transitions a
//     given victim, and a chunk currently being materialized cannot be chosen
//     (it is not in the heap yet). After locking, the victim is revalidated
//     against the recency stamp recorded at pop time: a chunk that was touched
//     in between was re-added to the heap by that touch and is simply skipped.
//     This two-phase scheme keeps the wait graph acyclic and the cache
//     deadlock-free.
//
//   - Write-Back: A dirty victim is encoded to its little-endian payload form
//     and compressed with the configured codec before its decoded payload is
//     released. A clean victim reuses the compressed bytes retained from its
//     last encode and is evicted without touching the codec. If compression
//     fails, the victim is restored to the heap unharmed and the access that
//     triggered the eviction fails, so no modification is ever lost silently.
//
//   - Pruning: A chunk whose payload equals the ambient value everywhere is
//     dropped entirely at every storage transition (eviction and flush) instead
//     of being compressed. A dropped chunk is indistinguishable from one that
//     was never written, which is what keeps unbounded lattices representable.
//
//   - Corruption Handling: Stored bytes that fail to decompress or decode leave
//     the chunk in its stored state and surface as RetCCorruptChunkData. The
//     cache never substitutes ambient data for a chunk it failed to read, and
//     the error is repeatable on every subsequent access.
//
//   - Metrics and Monitoring: Operation counters (hits, misses, evictions,
//     prunes, compressions, decompressions) are registered on a VictoriaMetrics
//     set, either a caller-provided one for export or a private one. GetInfo
//     additionally reports chunk counts, stored byte totals, and compressed
//     size distribution statistics based on a running histogram and live
//     sampling.
//
// Consistency Guarantees:
//
//   - Operations on a single chunk key are linearizable: the per-entry mutex
//     serializes materialize, reload, modify, view, evict, prune, and flush
//     transitions, so a write that completed before an eviction is always
//     contained in the bytes written back, and a reload after an eviction
//     always observes them.
//
//   - Reads never fabricate state. An absent chunk reads as ambient forever,
//     no matter how often it is read, and a corrupt chunk reads as an error,
//     never as ambient.
//
//   - The resident bound is maintained at every point in time, including while
//     evictions are in flight: a slot is reserved under the heap mutex before
//     any payload is allocated, and reservations at capacity block until an
//     eviction frees a slot.
//
// This implementation offers several advantages:
//   - High throughput for concurrent operations on different chunks
//   - Bounded memory usage regardless of lattice extent
//   - Sparse regions cost nothing, fully ambient chunks are dropped automatically
//   - Thread-safe operations without excessive locking
//   - Detailed metrics for monitoring and performance tuning
//
// The birch package is designed to serve as the storage engine behind sparse
// lattice containers whose working set exceeds memory, such as voxel worlds,
// simulation grids, and volumetric datasets.
package birch
