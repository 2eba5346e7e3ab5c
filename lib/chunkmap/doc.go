// Package chunkmap provides a high-level interface for reading and writing
// values on a 2D or 3D integer lattice with automatic chunking, compression
// and memory management. It serves as an abstraction layer over the
// lower-level cache.ICache engines, adding world-coordinate addressing,
// extent iteration and occupancy queries.
//
// The package focuses on:
//   - A unified interface (IChunkMap) for lattice operations across different cache engines
//   - Pluggable cache engine architecture through the CacheFactory pattern
//
// Key Components:
//
//   - IChunkMap Interface: The core abstraction defining operations for
//     interacting with a sparse lattice of values. Single points are read and
//     written with Get and Set, rectangular regions with Fill, ForEach and
//     ReadExtent, and occupancy is queried with OccupiedKeys, OccupiedKeysIn
//     and Bounds. The interface methods return the cache.Error type, which
//     provides detailed information about operation results.
//
//   - CacheFactory: A function type that abstracts the creation of the
//     underlying cache.ICache engine, providing dependency injection and
//     flexible configuration of engines. The map derives the chunk volume
//     from the chunk shape and passes it to the factory together with the
//     ambient value, so that the engine and the map always agree on the
//     payload layout.
//
// Address Translation:
//
//	The map divides the lattice into chunks of one fixed shape, every
//	component a positive power of two. A world point is translated to a
//	chunk key with an arithmetic shift and to a flat payload offset with a
//	bit mask, so the translation is exact for negative coordinates too.
//	All chunk payloads are dense arrays in row-major layout with axis 0
//	varying fastest.
//
// Sparsity:
//
//	Points covered by no chunk read as a single configurable ambient value.
//	Reading such points (via Get, ForEach or ReadExtent) never creates a
//	chunk; only writes materialize chunks. Chunks whose payload becomes
//	fully ambient again are dropped by the cache engine on eviction or
//	flush, so a map that is cleared back to the ambient value releases its
//	memory over time.
//
// Iteration Order:
//
//	ForEach visits chunk keys in a deterministic order (the highest axis
//	varies slowest, axis 0 fastest) and the points within each chunk in
//	row-major order. OccupiedKeys and OccupiedKeysIn return keys sorted in
//	the same key order, so repeated runs over the same map produce
//	identical sequences.
//
// Thread Safety:
//
//	All operations are thread-safe. The map itself holds no mutable state;
//	consistency is provided by the underlying cache engine, which guards
//	every chunk with its own lock. Operations spanning multiple chunks
//	(Fill, ForEach, ReadExtent) are atomic per chunk but not across chunks:
//	a concurrent writer may change a chunk after the iteration has passed it.
//
// Usage Example:
//
//	// Create a 3D map of uint16 values with 16x16x16 chunks
//	m, err := chunkmap.NewChunkMap(&chunkmap.Options[uint16, geom.Point3]{
//		ChunkShape: geom.P3(16, 16, 16),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer m.Close()
//
//	// Write and read a value
//	err = m.Set(geom.P3(10, 20, 30), 7)
//	value, err := m.Get(geom.P3(10, 20, 30))
//
//	// Read a region into a dense array
//	arr, err := m.ReadExtent(geom.NewExtent(geom.P3(0, 0, 0), geom.P3(32, 32, 32)))
//
// For direct control over chunk payloads without coordinate translation,
// use a cache engine from the cache/engines packages directly.
package chunkmap
