// Package testing provides standardised tests and benchmarks for chunk map
// implementations that satisfy the chunkmap.IChunkMap interface.
//
// The package contains:
//   - testing: A comprehensive test suite for validating conformance to the IChunkMap interface contract
//   - benchmark: Performance tests for measuring throughput of common lattice access patterns
//
// This package is particularly useful for:
//   - Applications that need to select the most appropriate cache engine
//     based on performance characteristics
//   - Developers wiring a new cache engine under the chunk map
//
// Example usage:
//
//	// Creating a factory function for your engine
//	factory := func(chunkShape geom.Point3, ambient uint16, capacity int) chunkmap.IChunkMap[uint16, geom.Point3] {
//		m, err := chunkmap.NewChunkMap(&chunkmap.Options[uint16, geom.Point3]{
//			ChunkShape: chunkShape,
//			Ambient:    ambient,
//			Cache:      myEngineFactory(capacity),
//		})
//		if err != nil {
//			panic(err)
//		}
//		return m
//	}
//
//	// Running the standard test suite
//	chunkmaptesting.RunChunkMapTests(t, "MyEngine", factory)
//
//	// Running performance benchmarks
//	chunkmaptesting.RunChunkMapBenchmarks(b, "MyEngine", factory)
package testing
