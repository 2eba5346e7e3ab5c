// Package testing provides standardised tests and benchmarks for
// chunk cache implementations that satisfy the cache.ICache interface.
//
// The package contains:
//   - testing: A comprehensive test suite for validating conformance to the ICache interface contract
//   - benchmark: Performance tests for measuring throughput of common chunk access patterns
//
// This package is particularly useful for:
//   - Applications that need to select the most appropriate cache implementation
//     based on performance characteristics
//   - Cache developers implementing the ICache interface
//
// Example usage:
//
//	// Creating a factory function for your implementation
//	factory := func(capacity int) cache.ICache[uint16, geom.Point3] {
//		return NewMyCache(capacity)
//	}
//
//	// Running the standard test suite
//	cachetesting.RunCacheTests(t, "MyCache", factory)
//
//	// Running performance benchmarks
//	cachetesting.RunCacheBenchmarks(b, "MyCache", factory)
package testing
