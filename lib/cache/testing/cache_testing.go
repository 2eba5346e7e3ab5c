package testing

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/ValentinKolb/chunkDB/lib/cache"
	"github.com/ValentinKolb/chunkDB/lib/geom"
)

// TestChunkVolume is the chunk payload length every factory under test must
// configure. The tests rely on it when they reason about slice lengths and
// ambient fills.
const TestChunkVolume = 64

// CacheFactory is a function that creates a new instance of a chunk cache
// implementation. The capacity parameter bounds the number of resident chunks,
// implementations without a residency bound may ignore it. Factories must
// configure a chunk volume of TestChunkVolume values and an ambient value of
// zero.
type CacheFactory func(capacity int) cache.ICache[uint16, geom.Point3]

// RunCacheTests runs a comprehensive test suite for a chunk cache implementation.
func RunCacheTests(t *testing.T, name string, factory CacheFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Modify&View", func(t *testing.T) {
			testModifyView(t, factory(64))
		})

		t.Run("AmbientReads", func(t *testing.T) {
			testAmbientReads(t, factory(64))
		})

		t.Run("Contains&Keys", func(t *testing.T) {
			testContainsKeys(t, factory(64))
		})

		t.Run("EvictionRoundTrip", func(t *testing.T) {
			testEvictionRoundTrip(t, factory(2))
		})

		t.Run("ResidencyBound", func(t *testing.T) {
			testResidencyBound(t, factory(4))
		})

		t.Run("FlushWriteBack", func(t *testing.T) {
			testFlushWriteBack(t, factory(64))
		})

		t.Run("Pruning", func(t *testing.T) {
			testPruning(t, factory(64))
		})

		t.Run("Events", func(t *testing.T) {
			testEvents(t, factory(1))
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, factory(64))
		})

		t.Run("ConcurrentModify", func(t *testing.T) {
			testConcurrentModify(t, factory(2))
		})

		t.Run("RealisticUsage", func(t *testing.T) {
			testRealisticUsage(t, factory(8))
		})

		t.Run("GetInfo", func(t *testing.T) {
			testGetInfo(t, factory(64))
		})

		t.Run("ClosedCache", func(t *testing.T) {
			testClosedCache(t, factory(64))
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// Checks if the cache supports the specified feature
// Skip the test if it is not supported
func requireFeature(t testing.TB, c cache.ICache[uint16, geom.Point3], feature cache.Feature) {
	if !c.SupportsFeature(feature) {
		t.Skip()
	}
}

// testKey derives a deterministic chunk key from an index. The axes use
// coprime radices so distinct indices always map to distinct keys.
func testKey(i int) geom.Point3 {
	return geom.Point3{int32(i % 97), int32((i / 97) % 89), int32(i / 8633)}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testModifyView(t *testing.T, c cache.ICache[uint16, geom.Point3]) {
	defer c.Close()

	key := geom.Point3{1, 2, 3}

	// a fresh chunk must come up filled with the ambient value
	if err := c.Modify(key, func(data []uint16) {
		if len(data) != TestChunkVolume {
			t.Errorf("Expected payload length %d, got %d", TestChunkVolume, len(data))
		}
		for i, v := range data {
			if v != 0 {
				t.Errorf("Expected ambient value at slot %d of a fresh chunk, got %d", i, v)
			}
		}
		for i := range data {
			data[i] = uint16(i) + 1
		}
	}); err != nil {
		t.Fatalf("Modify failed: %v", err)
	}

	loaded, err := c.View(key, func(data []uint16) {
		for i, v := range data {
			if v != uint16(i)+1 {
				t.Errorf("Expected value %d at slot %d, got %d", i+1, i, v)
			}
		}
	})
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}
	if !loaded {
		t.Errorf("Expected key %v to be loaded after Modify", key)
	}

	// overwrite a single slot, the rest must stay intact
	if err := c.Modify(key, func(data []uint16) {
		data[0] = 42
	}); err != nil {
		t.Fatalf("Modify failed: %v", err)
	}

	loaded, err = c.View(key, func(data []uint16) {
		if data[0] != 42 {
			t.Errorf("Expected overwritten value 42 at slot 0, got %d", data[0])
		}
		if data[1] != 2 {
			t.Errorf("Expected value 2 at slot 1, got %d", data[1])
		}
	})
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}
	if !loaded {
		t.Errorf("Expected key %v to be loaded after overwrite", key)
	}
}

func testAmbientReads(t *testing.T, c cache.ICache[uint16, geom.Point3]) {
	defer c.Close()

	key := geom.Point3{7, -7, 7}

	called := false
	loaded, err := c.View(key, func(data []uint16) {
		called = true
	})
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}
	if loaded {
		t.Errorf("Expected View on an absent key to report loaded=false")
	}
	if called {
		t.Errorf("Expected View not to invoke the callback for an absent key")
	}

	// reading must not create the chunk
	if c.Contains(key) {
		t.Errorf("Expected View not to materialize the absent key %v", key)
	}
	if got := c.GetInfo().ChunkCount; got != 0 {
		t.Errorf("Expected chunk count 0 after ambient reads, got %d", got)
	}

	// the first write still starts from an all-ambient payload
	if err := c.Modify(key, func(data []uint16) {
		for i, v := range data {
			if v != 0 {
				t.Errorf("Expected ambient value at slot %d, got %d", i, v)
			}
		}
	}); err != nil {
		t.Fatalf("Modify failed: %v", err)
	}
}

func testContainsKeys(t *testing.T, c cache.ICache[uint16, geom.Point3]) {
	defer c.Close()

	keys := []geom.Point3{{0, 0, 0}, {-1, 2, -3}, {10, -20, 30}}
	for i, key := range keys {
		value := uint16(i + 1)
		if err := c.Modify(key, func(data []uint16) {
			data[0] = value
		}); err != nil {
			t.Fatalf("Modify failed for key %v: %v", key, err)
		}
	}

	for _, key := range keys {
		if !c.Contains(key) {
			t.Errorf("Expected Contains to report key %v", key)
		}
	}
	if c.Contains(geom.Point3{99, 99, 99}) {
		t.Errorf("Expected Contains to report false for an absent key")
	}

	got := c.Keys()
	if len(got) != len(keys) {
		t.Errorf("Expected %d keys, got %d", len(keys), len(got))
	}
	seen := make(map[geom.Point3]bool, len(got))
	for _, key := range got {
		seen[key] = true
	}
	for _, key := range keys {
		if !seen[key] {
			t.Errorf("Expected Keys to contain %v", key)
		}
	}
}

// Writes more chunks than fit in residency and checks that every payload
// survives the eviction and reload cycle unchanged.
func testEvictionRoundTrip(t *testing.T, c cache.ICache[uint16, geom.Point3]) {
	defer c.Close()

	requireFeature(t, c, cache.FeatureBounded)
	requireFeature(t, c, cache.FeatureWriteBack)

	numChunks := 8
	for i := 0; i < numChunks; i++ {
		base := uint16(i*100 + 1)
		if err := c.Modify(testKey(i), func(data []uint16) {
			for j := range data {
				data[j] = base + uint16(j)
			}
		}); err != nil {
			t.Fatalf("Modify failed for chunk %d: %v", i, err)
		}
	}

	info := c.GetInfo()
	if info.ChunkCount != numChunks {
		t.Errorf("Expected %d chunks, got %d", numChunks, info.ChunkCount)
	}
	if info.ResidentCount > 2 {
		t.Errorf("Expected at most 2 resident chunks, got %d", info.ResidentCount)
	}
	if info.StoredBytes <= 0 {
		t.Errorf("Expected evicted chunks to retain stored bytes")
	}

	for i := 0; i < numChunks; i++ {
		base := uint16(i*100 + 1)
		loaded, err := c.View(testKey(i), func(data []uint16) {
			for j, v := range data {
				if v != base+uint16(j) {
					t.Errorf("Expected value %d at slot %d of chunk %d, got %d", base+uint16(j), j, i, v)
					return
				}
			}
		})
		if err != nil {
			t.Fatalf("View failed for chunk %d: %v", i, err)
		}
		if !loaded {
			t.Errorf("Expected chunk %d to be loaded after eviction", i)
		}
	}
}

func testResidencyBound(t *testing.T, c cache.ICache[uint16, geom.Point3]) {
	defer c.Close()

	requireFeature(t, c, cache.FeatureBounded)

	numChunks := 100
	for i := 0; i < numChunks; i++ {
		value := uint16(i%251 + 1)
		if err := c.Modify(testKey(i), func(data []uint16) {
			for j := range data {
				data[j] = value
			}
		}); err != nil {
			t.Fatalf("Modify failed for chunk %d: %v", i, err)
		}

		if got := c.GetInfo().ResidentCount; got > 4 {
			t.Errorf("Expected at most 4 resident chunks after write %d, got %d", i, got)
		}
	}

	if got := c.GetInfo().ChunkCount; got != numChunks {
		t.Errorf("Expected %d chunks, got %d", numChunks, got)
	}
}

func testFlushWriteBack(t *testing.T, c cache.ICache[uint16, geom.Point3]) {
	defer c.Close()

	requireFeature(t, c, cache.FeatureFlush)

	numChunks := 5
	for i := 0; i < numChunks; i++ {
		value := uint16(i + 1)
		if err := c.Modify(testKey(i), func(data []uint16) {
			for j := range data {
				data[j] = value
			}
		}); err != nil {
			t.Fatalf("Modify failed for chunk %d: %v", i, err)
		}
	}

	if got := c.GetInfo().DirtyCount; got != numChunks {
		t.Errorf("Expected %d dirty chunks before Flush, got %d", numChunks, got)
	}

	if err := c.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	if got := c.GetInfo().DirtyCount; got != 0 {
		t.Errorf("Expected no dirty chunks after Flush, got %d", got)
	}

	// flushed chunks must still read back unchanged
	for i := 0; i < numChunks; i++ {
		value := uint16(i + 1)
		loaded, err := c.View(testKey(i), func(data []uint16) {
			if data[0] != value {
				t.Errorf("Expected value %d in chunk %d after Flush, got %d", value, i, data[0])
			}
		})
		if err != nil {
			t.Fatalf("View failed for chunk %d: %v", i, err)
		}
		if !loaded {
			t.Errorf("Expected chunk %d to survive Flush", i)
		}
	}

	// a second Flush with nothing dirty is a no-op
	if err := c.Flush(); err != nil {
		t.Fatalf("Expected Flush on a clean cache to succeed, got %v", err)
	}
}

// A chunk written back to the ambient value everywhere is dropped by Flush
// instead of being stored.
func testPruning(t *testing.T, c cache.ICache[uint16, geom.Point3]) {
	defer c.Close()

	requireFeature(t, c, cache.FeatureFlush)
	requireFeature(t, c, cache.FeaturePrune)

	keep := geom.Point3{1, 0, 0}
	drop := geom.Point3{2, 0, 0}

	for _, key := range []geom.Point3{keep, drop} {
		if err := c.Modify(key, func(data []uint16) {
			for j := range data {
				data[j] = 7
			}
		}); err != nil {
			t.Fatalf("Modify failed for key %v: %v", key, err)
		}
	}

	// clear one chunk back to ambient
	if err := c.Modify(drop, func(data []uint16) {
		for j := range data {
			data[j] = 0
		}
	}); err != nil {
		t.Fatalf("Modify failed for key %v: %v", drop, err)
	}

	if err := c.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	if c.Contains(drop) {
		t.Errorf("Expected the all-ambient chunk %v to be pruned by Flush", drop)
	}
	if !c.Contains(keep) {
		t.Errorf("Expected chunk %v to survive Flush", keep)
	}
	if got := c.GetInfo().ChunkCount; got != 1 {
		t.Errorf("Expected 1 chunk after pruning, got %d", got)
	}

	// the pruned key reads as ambient again
	loaded, err := c.View(drop, func(data []uint16) {})
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}
	if loaded {
		t.Errorf("Expected the pruned key %v to read as absent", drop)
	}
}

// Uses a capacity of one so every new chunk deterministically displaces the
// previous one.
func testEvents(t *testing.T, c cache.ICache[uint16, geom.Point3]) {
	defer c.Close()

	requireFeature(t, c, cache.FeatureEvents)
	requireFeature(t, c, cache.FeatureBounded)
	requireFeature(t, c, cache.FeatureFlush)
	requireFeature(t, c, cache.FeaturePrune)

	events := c.Events()
	if events == nil {
		t.Fatalf("Expected a non-nil event channel")
	}

	expectEvent := func(eventType cache.EventType, key geom.Point3) {
		select {
		case event := <-events:
			if event.Type != eventType || event.Key != key {
				t.Errorf("Expected event %s for key %v, got %v", eventType, key, event)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("Timed out waiting for event %s for key %v", eventType, key)
		}
	}

	keyA := geom.Point3{1, 0, 0}
	keyB := geom.Point3{2, 0, 0}
	keyC := geom.Point3{3, 0, 0}
	keyD := geom.Point3{4, 0, 0}

	// the first write materializes a chunk
	if err := c.Modify(keyA, func(data []uint16) { data[0] = 1 }); err != nil {
		t.Fatalf("Modify failed: %v", err)
	}
	expectEvent(cache.EventTMaterialize, keyA)

	// the second chunk displaces the first one
	if err := c.Modify(keyB, func(data []uint16) { data[0] = 2 }); err != nil {
		t.Fatalf("Modify failed: %v", err)
	}
	expectEvent(cache.EventTEvict, keyA)
	expectEvent(cache.EventTMaterialize, keyB)

	// flushing the dirty resident publishes a flush event
	if err := c.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	expectEvent(cache.EventTFlush, keyB)

	// a chunk that never left the ambient value is pruned when displaced
	if err := c.Modify(keyC, func(data []uint16) {}); err != nil {
		t.Fatalf("Modify failed: %v", err)
	}
	expectEvent(cache.EventTEvict, keyB)
	expectEvent(cache.EventTMaterialize, keyC)

	if err := c.Modify(keyD, func(data []uint16) { data[0] = 4 }); err != nil {
		t.Fatalf("Modify failed: %v", err)
	}
	expectEvent(cache.EventTPrune, keyC)
	expectEvent(cache.EventTMaterialize, keyD)
}

func testEdgeCases(t *testing.T, c cache.ICache[uint16, geom.Point3]) {
	defer c.Close()

	// coordinate extremes must round trip like any other key
	extreme := geom.Point3{math.MaxInt32, math.MinInt32, 0}
	if err := c.Modify(extreme, func(data []uint16) {
		data[0] = 1234
	}); err != nil {
		t.Fatalf("Modify failed for key %v: %v", extreme, err)
	}

	loaded, err := c.View(extreme, func(data []uint16) {
		if data[0] != 1234 {
			t.Errorf("Expected value 1234, got %d", data[0])
		}
	})
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}
	if !loaded {
		t.Errorf("Expected key %v to be loaded", extreme)
	}

	// a no-op Modify still creates the chunk
	noop := geom.Point3{1, 1, 1}
	if err := c.Modify(noop, func(data []uint16) {}); err != nil {
		t.Fatalf("Modify failed: %v", err)
	}
	if !c.Contains(noop) {
		t.Errorf("Expected a no-op Modify to create the chunk")
	}

	// ... and Flush drops it again since it never left the ambient value
	if c.SupportsFeature(cache.FeatureFlush) && c.SupportsFeature(cache.FeaturePrune) {
		if err := c.Flush(); err != nil {
			t.Fatalf("Flush failed: %v", err)
		}
		if c.Contains(noop) {
			t.Errorf("Expected the untouched chunk to be pruned by Flush")
		}
	}

	// keys that differ only in sign are distinct chunks
	pos := geom.Point3{5, 5, 5}
	neg := geom.Point3{-5, -5, -5}
	c.Modify(pos, func(data []uint16) { data[0] = 1 })
	c.Modify(neg, func(data []uint16) { data[0] = 2 })

	c.View(pos, func(data []uint16) {
		if data[0] != 1 {
			t.Errorf("Expected value 1 for key %v, got %d", pos, data[0])
		}
	})
	c.View(neg, func(data []uint16) {
		if data[0] != 2 {
			t.Errorf("Expected value 2 for key %v, got %d", neg, data[0])
		}
	})
}

// Concurrent increments on a handful of chunks that do not all fit in
// residency, so writes race with eviction and reload.
func testConcurrentModify(t *testing.T, c cache.ICache[uint16, geom.Point3]) {
	defer c.Close()

	numWorkers := 8
	numKeys := 6
	incsPerWorker := 300

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			for i := 0; i < incsPerWorker; i++ {
				key := testKey(i % numKeys)
				if err := c.Modify(key, func(data []uint16) {
					data[slot]++
				}); err != nil {
					t.Errorf("Modify failed: %v", err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	// every worker owns one slot, so the increments in that slot must add up
	// to the worker's total across all chunks
	for w := 0; w < numWorkers; w++ {
		total := 0
		for k := 0; k < numKeys; k++ {
			if _, err := c.View(testKey(k), func(data []uint16) {
				total += int(data[w])
			}); err != nil {
				t.Fatalf("View failed for chunk %d: %v", k, err)
			}
		}
		if total != incsPerWorker {
			t.Errorf("Expected %d increments in slot %d, got %d", incsPerWorker, w, total)
		}
	}
}

// Simulates a realistic usage pattern: concurrent writers on disjoint key
// ranges with interleaved reads and flushes, then a full verification pass.
func testRealisticUsage(t *testing.T, c cache.ICache[uint16, geom.Point3]) {
	defer c.Close()

	numWorkers := 4
	chunksPerWorker := 50

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < chunksPerWorker; i++ {
				key := geom.Point3{int32(worker), int32(i), 0}
				base := uint16(worker*1000 + i + 1)

				if err := c.Modify(key, func(data []uint16) {
					for j := range data {
						data[j] = base
					}
				}); err != nil {
					t.Errorf("Modify failed for key %v: %v", key, err)
					return
				}

				// interleave reads of the worker's previous chunk
				if i%5 == 0 && i > 0 {
					readKey := geom.Point3{int32(worker), int32(i - 1), 0}
					expected := uint16(worker*1000 + i)
					loaded, err := c.View(readKey, func(data []uint16) {
						if data[0] != expected {
							t.Errorf("Expected value %d for key %v, got %d", expected, readKey, data[0])
						}
					})
					if err != nil {
						t.Errorf("View failed for key %v: %v", readKey, err)
						return
					}
					if !loaded {
						t.Errorf("Expected key %v to be loaded", readKey)
					}
				}

				// one worker flushes now and then
				if worker == 0 && i%10 == 0 && c.SupportsFeature(cache.FeatureFlush) {
					if err := c.Flush(); err != nil {
						t.Errorf("Flush failed: %v", err)
						return
					}
				}
			}
		}(w)
	}
	wg.Wait()

	// verification pass over every chunk
	for w := 0; w < numWorkers; w++ {
		for i := 0; i < chunksPerWorker; i++ {
			key := geom.Point3{int32(w), int32(i), 0}
			base := uint16(w*1000 + i + 1)
			loaded, err := c.View(key, func(data []uint16) {
				for j, v := range data {
					if v != base {
						t.Errorf("Expected value %d at slot %d of key %v, got %d", base, j, key, v)
						return
					}
				}
			})
			if err != nil {
				t.Fatalf("View failed for key %v: %v", key, err)
			}
			if !loaded {
				t.Errorf("Expected key %v to be loaded", key)
			}
		}
	}

	if got := c.GetInfo().ChunkCount; got != numWorkers*chunksPerWorker {
		t.Errorf("Expected %d chunks, got %d", numWorkers*chunksPerWorker, got)
	}

	// clear half the chunks back to ambient and flush them away
	if c.SupportsFeature(cache.FeatureFlush) && c.SupportsFeature(cache.FeaturePrune) {
		for w := 0; w < numWorkers; w++ {
			for i := 0; i < chunksPerWorker; i += 2 {
				key := geom.Point3{int32(w), int32(i), 0}
				if err := c.Modify(key, func(data []uint16) {
					for j := range data {
						data[j] = 0
					}
				}); err != nil {
					t.Fatalf("Modify failed for key %v: %v", key, err)
				}
			}
		}

		if err := c.Flush(); err != nil {
			t.Fatalf("Flush failed: %v", err)
		}

		for w := 0; w < numWorkers; w++ {
			for i := 0; i < chunksPerWorker; i++ {
				key := geom.Point3{int32(w), int32(i), 0}
				if i%2 == 0 {
					if c.Contains(key) {
						t.Errorf("Expected cleared chunk %v to be pruned", key)
					}
				} else if !c.Contains(key) {
					t.Errorf("Expected chunk %v to survive the flush", key)
				}
			}
		}
	}
}

func testGetInfo(t *testing.T, c cache.ICache[uint16, geom.Point3]) {
	defer c.Close()

	info := c.GetInfo()
	if info.Engine == "" {
		t.Errorf("Expected a non-empty engine name")
	}
	if len(info.SupportedFeatures) == 0 {
		t.Errorf("Expected at least one supported feature")
	}
	for _, feature := range info.SupportedFeatures {
		if !c.SupportsFeature(feature) {
			t.Errorf("Expected SupportsFeature to confirm advertised feature %s", feature)
		}
	}
	if info.ChunkCount != 0 || info.ResidentCount != 0 || info.DirtyCount != 0 {
		t.Errorf("Expected a fresh cache to be empty, got %+v", info)
	}

	numChunks := 3
	for i := 0; i < numChunks; i++ {
		value := uint16(i + 1)
		if err := c.Modify(testKey(i), func(data []uint16) {
			data[0] = value
		}); err != nil {
			t.Fatalf("Modify failed for chunk %d: %v", i, err)
		}
	}

	info = c.GetInfo()
	if info.ChunkCount != numChunks {
		t.Errorf("Expected %d chunks, got %d", numChunks, info.ChunkCount)
	}
	if info.DirtyCount != numChunks {
		t.Errorf("Expected %d dirty chunks, got %d", numChunks, info.DirtyCount)
	}
	if info.ResidentCount > info.ChunkCount {
		t.Errorf("Expected the resident count to not exceed the chunk count, got %+v", info)
	}

	if c.SupportsFeature(cache.FeatureFlush) {
		if err := c.Flush(); err != nil {
			t.Fatalf("Flush failed: %v", err)
		}
		if got := c.GetInfo().DirtyCount; got != 0 {
			t.Errorf("Expected no dirty chunks after Flush, got %d", got)
		}
	}
}

func testClosedCache(t *testing.T, c cache.ICache[uint16, geom.Point3]) {
	key := geom.Point3{1, 2, 3}
	if err := c.Modify(key, func(data []uint16) { data[0] = 1 }); err != nil {
		t.Fatalf("Modify failed: %v", err)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if err := c.Modify(key, func(data []uint16) {}); err == nil {
		t.Errorf("Expected Modify on a closed cache to fail")
	} else if cacheErr, ok := err.(*cache.Error); !ok || cacheErr.Code != cache.RetCInvalidOperation {
		t.Errorf("Expected error code %d, got %v", cache.RetCInvalidOperation, err)
	}

	if _, err := c.View(key, func(data []uint16) {}); err == nil {
		t.Errorf("Expected View on a closed cache to fail")
	}

	if c.SupportsFeature(cache.FeatureFlush) {
		if err := c.Flush(); err == nil {
			t.Errorf("Expected Flush on a closed cache to fail")
		}
	}

	if c.Contains(key) {
		t.Errorf("Expected a closed cache to contain no chunks")
	}
	if got := len(c.Keys()); got != 0 {
		t.Errorf("Expected no keys on a closed cache, got %d", got)
	}

	// closing twice is a no-op
	if err := c.Close(); err != nil {
		t.Errorf("Expected a second Close to succeed, got %v", err)
	}
}
