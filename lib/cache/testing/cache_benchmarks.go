package testing

import (
	"sync/atomic"
	"testing"

	"github.com/ValentinKolb/chunkDB/lib/cache"
	"github.com/ValentinKolb/chunkDB/lib/geom"
)

// benchmarkCapacity is the residency bound used for most benchmarks. It is
// large enough that only the eviction benchmarks run into it.
const benchmarkCapacity = 4096

// RunCacheBenchmarks runs all benchmarks for a chunk cache implementation
func RunCacheBenchmarks(b *testing.B, name string, factory CacheFactory) {

	b.Run("Modify", func(b *testing.B) {
		benchmarkModify(b, factory(benchmarkCapacity))
	})

	b.Run("ModifyExisting", func(b *testing.B) {
		benchmarkModifyExisting(b, factory(benchmarkCapacity))
	})

	b.Run("View", func(b *testing.B) {
		benchmarkView(b, factory(benchmarkCapacity))
	})

	b.Run("View(absent)", func(b *testing.B) {
		benchmarkViewAbsent(b, factory(benchmarkCapacity))
	})

	b.Run("Contains", func(b *testing.B) {
		benchmarkContains(b, factory(benchmarkCapacity))
	})

	b.Run("EvictionChurn", func(b *testing.B) {
		benchmarkEvictionChurn(b, factory(64))
	})

	b.Run("Flush", func(b *testing.B) {
		benchmarkFlush(b, factory(benchmarkCapacity))
	})

	b.Run("MixedUsage", func(b *testing.B) {
		benchmarkMixedUsage(b, factory(benchmarkCapacity))
	})
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

// Benchmark for Modify on fresh chunks
func benchmarkModify(b *testing.B, c cache.ICache[uint16, geom.Point3]) {

	b.Cleanup(func() {
		c.Close()
	})

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		counter := 0
		for pb.Next() {
			c.Modify(testKey(counter), func(data []uint16) {
				data[counter%TestChunkVolume] = uint16(counter)
			})
			counter++
		}
	})
}

// Benchmark for Modify on existing chunks
func benchmarkModifyExisting(b *testing.B, c cache.ICache[uint16, geom.Point3]) {

	b.Cleanup(func() {
		c.Close()
	})

	// Prepare data
	numKeys := 10_000
	if b.N < numKeys {
		numKeys = b.N
	}
	for i := 0; i < numKeys; i++ {
		value := uint16(i%251 + 1)
		c.Modify(testKey(i), func(data []uint16) {
			for j := range data {
				data[j] = value
			}
		})
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		counter := 0
		for pb.Next() {
			c.Modify(testKey(counter%numKeys), func(data []uint16) {
				data[counter%TestChunkVolume] = uint16(counter)
			})
			counter++
		}
	})
}

// Parallel benchmarking for the View operation
func benchmarkView(b *testing.B, c cache.ICache[uint16, geom.Point3]) {

	b.Cleanup(func() {
		c.Close()
	})

	// Prepare data
	numKeys := 10_000
	for i := 0; i < numKeys; i++ {
		value := uint16(i%251 + 1)
		c.Modify(testKey(i), func(data []uint16) {
			for j := range data {
				data[j] = value
			}
		})
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		counter := 0
		for pb.Next() {
			c.View(testKey(counter%numKeys), func(data []uint16) {})
			counter++
		}
	})
}

// Parallel benchmarking for the View operation on an absent key
func benchmarkViewAbsent(b *testing.B, c cache.ICache[uint16, geom.Point3]) {

	b.Cleanup(func() {
		c.Close()
	})

	key := geom.Point3{-1, -1, -1}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c.View(key, func(data []uint16) {})
		}
	})
}

// Parallel benchmarking for the Contains operation
func benchmarkContains(b *testing.B, c cache.ICache[uint16, geom.Point3]) {

	b.Cleanup(func() {
		c.Close()
	})

	// Prepare data
	numKeys := 10_000
	for i := 0; i < numKeys; i++ {
		value := uint16(i%251 + 1)
		c.Modify(testKey(i), func(data []uint16) {
			data[0] = value
		})
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		counter := 0
		for pb.Next() {
			c.Contains(testKey(counter % numKeys))
			counter++
		}
	})
}

// Benchmark for chunk access under constant eviction pressure. The key range
// is far larger than the residency bound so almost every access compresses
// one chunk and decompresses another.
func benchmarkEvictionChurn(b *testing.B, c cache.ICache[uint16, geom.Point3]) {

	b.Cleanup(func() {
		c.Close()
	})

	requireFeature(b, c, cache.FeatureBounded)
	requireFeature(b, c, cache.FeatureWriteBack)

	// Prepare data
	numKeys := 1024
	for i := 0; i < numKeys; i++ {
		value := uint16(i%251 + 1)
		c.Modify(testKey(i), func(data []uint16) {
			for j := range data {
				data[j] = value
			}
		})
	}

	// Counter for atomic access
	var counter int64

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			idx := int(atomic.AddInt64(&counter, 1)-1) % numKeys
			c.Modify(testKey(idx), func(data []uint16) {
				data[0]++
			})
		}
	})
}

// Benchmark for the Flush operation
// Parallelization is not meaningful here since Flush scans every chunk
func benchmarkFlush(b *testing.B, c cache.ICache[uint16, geom.Point3]) {

	b.Cleanup(func() {
		c.Close()
	})

	requireFeature(b, c, cache.FeatureFlush)

	// Prepare data
	numKeys := 1000
	for i := 0; i < numKeys; i++ {
		value := uint16(i%251 + 1)
		c.Modify(testKey(i), func(data []uint16) {
			for j := range data {
				data[j] = value
			}
		})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// dirty one chunk so every iteration has work to do
		c.Modify(testKey(i%numKeys), func(data []uint16) {
			data[1] = uint16(i)
		})
		c.Flush()
	}
}

// Benchmark for mixed usage patterns
func benchmarkMixedUsage(b *testing.B, c cache.ICache[uint16, geom.Point3]) {
	b.Cleanup(func() {
		c.Close()
	})

	// Number of pre-populated chunks
	numKeys := 10_000
	if b.N < numKeys {
		numKeys = b.N
	}

	// Prepare initial data
	for i := 0; i < numKeys; i++ {
		value := uint16(i%251 + 1)
		c.Modify(testKey(i), func(data []uint16) {
			for j := range data {
				data[j] = value
			}
		})
	}

	// Counter for atomic access
	var counter int64

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		// Local counter for each goroutine
		localCounter := 0

		for pb.Next() {
			// Get a somewhat random index
			idx := int(atomic.AddInt64(&counter, 1)-1) % numKeys

			// Select operation (0-2: view, modify, contains)
			op := localCounter % 3

			// For every 10th operation, use a completely new key
			var key geom.Point3
			if localCounter%10 == 0 {
				key = testKey(numKeys + localCounter)
			} else {
				key = testKey(idx)
			}

			// Perform the selected operation
			switch op {
			case 0: // View
				c.View(key, func(data []uint16) {})
			case 1: // Modify
				c.Modify(key, func(data []uint16) {
					data[localCounter%TestChunkVolume] = uint16(localCounter)
				})
			case 2: // Contains
				c.Contains(key)
			}

			localCounter++
		}
	})
}
