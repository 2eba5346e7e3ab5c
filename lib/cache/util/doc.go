// Package util provides utility components for
// chunk cache implementations that satisfy the cache.ICache interface.
//
// The package contains:
//   - statistics: Utility tools for analyzing stored chunk characteristics and a SizeHistogram for tracking compressed size distribution
//   - functions: Hash functions and other utility functions
//   - mapheap: A priority queue implementation for least-recently-used eviction that also supports key-based access
//   - lockfreempsc: A lock-free Multi-Producer Single-Consumer (MPSC) queue implementation built for high throughput and low latency
//
// This package is particularly useful for:
//   - Cache developers implementing the ICache interface
//   - Implementation of eviction policies or other priority queue systems
//   - Monitoring systems that need to track stored chunk size and distribution metrics
//
// Each component is designed to work with any implementation of the cache.ICache interface,
// allowing for consistent validation and measurement across different cache backends.
package util
