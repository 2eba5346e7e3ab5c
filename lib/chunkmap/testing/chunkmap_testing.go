package testing

import (
	"sync"
	"testing"
	"time"

	"github.com/ValentinKolb/chunkDB/lib/cache"
	"github.com/ValentinKolb/chunkDB/lib/chunkmap"
	"github.com/ValentinKolb/chunkDB/lib/geom"
)

// MapFactory is a function type that creates a chunk map for testing. The
// suite calls it with the chunk shape, ambient value and cache capacity each
// test needs; factories backed by unbounded engines may ignore the capacity
// parameter.
type MapFactory func(chunkShape geom.Point3, ambient uint16, capacity int) chunkmap.IChunkMap[uint16, geom.Point3]

// RunChunkMapTests runs the standardised test suite for IChunkMap
// implementations. Tests relying on features the underlying cache engine
// does not support are skipped.
func RunChunkMapTests(t *testing.T, name string, factory MapFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Get&Set", func(t *testing.T) {
			testGetSet(t, factory(geom.P3(16, 16, 16), 0, 64))
		})
		t.Run("AmbientReads", func(t *testing.T) {
			testAmbientReads(t, factory(geom.P3(16, 16, 16), 5, 64))
		})
		t.Run("Fill&ReadExtent", func(t *testing.T) {
			testFillReadExtent(t, factory(geom.P3(8, 8, 8), 0, 64))
		})
		t.Run("ForEachTraversal", func(t *testing.T) {
			testForEachTraversal(t, factory(geom.P3(8, 8, 8), 7, 64))
		})
		t.Run("AmbientIteration", func(t *testing.T) {
			testAmbientIteration(t, factory(geom.P3(16, 16, 16), 42, 64))
		})
		t.Run("EvictionRoundTrip", func(t *testing.T) {
			testEvictionRoundTrip(t, factory(geom.P3(16, 16, 16), 0, 2))
		})
		t.Run("Occupancy", func(t *testing.T) {
			testOccupancy(t, factory(geom.P3(16, 16, 16), 0, 64))
		})
		t.Run("Sparsity", func(t *testing.T) {
			testSparsity(t, factory(geom.P3(16, 16, 16), 0, 64))
		})
		t.Run("Flush&Pruning", func(t *testing.T) {
			testFlushPruning(t, factory(geom.P3(8, 8, 8), 0, 4))
		})
		t.Run("Events", func(t *testing.T) {
			testEvents(t, factory(geom.P3(16, 16, 16), 0, 64))
		})
		t.Run("ConcurrentAccess", func(t *testing.T) {
			testConcurrentAccess(t, factory(geom.P3(16, 16, 16), 0, 4))
		})
		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, factory(geom.P3(16, 16, 16), 0, 64))
		})
		t.Run("GetInfo", func(t *testing.T) {
			testGetInfo(t, factory(geom.P3(16, 16, 16), 0, 64))
		})
		t.Run("ClosedMap", func(t *testing.T) {
			testClosedMap(t, factory(geom.P3(16, 16, 16), 0, 64))
		})
	})
}

// testGetSet tests writing and reading single points, including overwrites
// and negative coordinates
func testGetSet(t *testing.T, m chunkmap.IChunkMap[uint16, geom.Point3]) {
	defer m.Close()

	points := []geom.Point3{
		{0, 0, 0},
		{15, 15, 15},
		{16, 0, 0},
		{-1, -1, -1},
		{-100, 50, -3},
	}

	for i, p := range points {
		if err := m.Set(p, uint16(i+1)); err != nil {
			t.Fatalf("Set(%v) failed: %v", p, err)
		}
	}
	for i, p := range points {
		value, err := m.Get(p)
		if err != nil {
			t.Fatalf("Get(%v) failed: %v", p, err)
		}
		if value != uint16(i+1) {
			t.Errorf("Get(%v): expected %d, got %d", p, i+1, value)
		}
	}

	// overwrite
	if err := m.Set(points[0], 99); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}
	if value, _ := m.Get(points[0]); value != 99 {
		t.Errorf("Expected overwritten value 99, got %d", value)
	}
}

// testAmbientReads tests that reads of untouched points return the ambient
// value and never create chunks, and that materialized chunks are
// ambient-filled around the written point
func testAmbientReads(t *testing.T, m chunkmap.IChunkMap[uint16, geom.Point3]) {
	defer m.Close()

	if m.Ambient() != 5 {
		t.Fatalf("Expected ambient value 5, got %d", m.Ambient())
	}

	probes := []geom.Point3{{0, 0, 0}, {100, -200, 300}, {-1, -1, -1}}
	for _, p := range probes {
		value, err := m.Get(p)
		if err != nil {
			t.Fatalf("Get(%v) failed: %v", p, err)
		}
		if value != 5 {
			t.Errorf("Get(%v): expected ambient 5, got %d", p, value)
		}
	}

	// reads must not have materialized anything
	if got := len(m.OccupiedKeys()); got != 0 {
		t.Errorf("Expected no occupied chunks after reads, got %d", got)
	}
	if info := m.GetInfo(); info.ChunkCount != 0 {
		t.Errorf("Expected chunk count 0 after reads, got %d", info.ChunkCount)
	}

	// a write materializes its chunk with every other element ambient
	if err := m.Set(geom.P3(8, 8, 8), 9); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if value, _ := m.Get(geom.P3(8, 8, 9)); value != 5 {
		t.Errorf("Expected ambient 5 next to the written point, got %d", value)
	}
	if got := len(m.OccupiedKeys()); got != 1 {
		t.Errorf("Expected exactly one occupied chunk, got %d", got)
	}
}

// testFillReadExtent tests filling a region straddling several chunks and
// reading it back into a dense array
func testFillReadExtent(t *testing.T, m chunkmap.IChunkMap[uint16, geom.Point3]) {
	defer m.Close()

	// straddles all eight chunks around (8, 8, 8)
	filled := geom.NewExtent(geom.P3(4, 4, 4), geom.P3(8, 8, 8))
	if err := m.Fill(filled, 5); err != nil {
		t.Fatalf("Fill failed: %v", err)
	}
	if got := len(m.OccupiedKeys()); got != 8 {
		t.Errorf("Expected 8 occupied chunks, got %d", got)
	}

	// overwrite an inner region
	inner := geom.NewExtent(geom.P3(7, 7, 7), geom.P3(2, 2, 2))
	if err := m.Fill(inner, 9); err != nil {
		t.Fatalf("Fill failed: %v", err)
	}

	arr, err := m.ReadExtent(geom.NewExtent(geom.P3(2, 2, 2), geom.P3(12, 12, 12)))
	if err != nil {
		t.Fatalf("ReadExtent failed: %v", err)
	}
	arr.Extent().ForEach(func(p geom.Point3) bool {
		want := uint16(0)
		if filled.Contains(p) {
			want = 5
		}
		if inner.Contains(p) {
			want = 9
		}
		if got := arr.Get(p); got != want {
			t.Fatalf("ReadExtent at %v: expected %d, got %d", p, want, got)
		}
		return true
	})
}

// testForEachTraversal tests that iteration visits every point of the extent
// exactly once in the documented order, with ambient values for points of
// absent chunks
func testForEachTraversal(t *testing.T, m chunkmap.IChunkMap[uint16, geom.Point3]) {
	defer m.Close()

	// write three of the four chunks the extent straddles, leave the
	// chunk at key (1, 1, 0) absent
	for _, p := range []geom.Point3{
		{6, 6, 0}, {7, 6, 0}, {6, 7, 0}, {7, 7, 0},
		{8, 6, 0}, {9, 6, 0}, {8, 7, 0}, {9, 7, 0},
		{6, 8, 0}, {7, 8, 0}, {6, 9, 0}, {7, 9, 0},
	} {
		if err := m.Set(p, uint16(p.At(0)*10+p.At(1))); err != nil {
			t.Fatalf("Set(%v) failed: %v", p, err)
		}
	}

	// chunk keys first (axis 0 fastest), then row-major inside each chunk
	expected := []struct {
		p geom.Point3
		v uint16
	}{
		{geom.P3(6, 6, 0), 66}, {geom.P3(7, 6, 0), 76}, {geom.P3(6, 7, 0), 67}, {geom.P3(7, 7, 0), 77},
		{geom.P3(8, 6, 0), 86}, {geom.P3(9, 6, 0), 96}, {geom.P3(8, 7, 0), 87}, {geom.P3(9, 7, 0), 97},
		{geom.P3(6, 8, 0), 68}, {geom.P3(7, 8, 0), 78}, {geom.P3(6, 9, 0), 69}, {geom.P3(7, 9, 0), 79},
		{geom.P3(8, 8, 0), 7}, {geom.P3(9, 8, 0), 7}, {geom.P3(8, 9, 0), 7}, {geom.P3(9, 9, 0), 7},
	}

	e := geom.NewExtent(geom.P3(6, 6, 0), geom.P3(4, 4, 1))
	i := 0
	err := m.ForEach(e, func(p geom.Point3, v uint16) bool {
		if i >= len(expected) {
			t.Fatalf("Visit %d: more visits than points in the extent", i)
		}
		if p != expected[i].p || v != expected[i].v {
			t.Fatalf("Visit %d: expected %v=%d, got %v=%d", i, expected[i].p, expected[i].v, p, v)
		}
		i++
		return true
	})
	if err != nil {
		t.Fatalf("ForEach failed: %v", err)
	}
	if i != len(expected) {
		t.Errorf("Expected %d visits, got %d", len(expected), i)
	}

	// the absent chunk must still be absent after being iterated
	if got := len(m.OccupiedKeys()); got != 3 {
		t.Errorf("Expected 3 occupied chunks after iteration, got %d", got)
	}

	// the visitor returning false stops the iteration without an error
	visits := 0
	err = m.ForEach(e, func(p geom.Point3, v uint16) bool {
		visits++
		return visits < 5
	})
	if err != nil {
		t.Fatalf("ForEach with early stop failed: %v", err)
	}
	if visits != 5 {
		t.Errorf("Expected 5 visits before stopping, got %d", visits)
	}
}

// testAmbientIteration tests iterating an extent of an empty map: every
// point is visited with the ambient value and no chunk is created
func testAmbientIteration(t *testing.T, m chunkmap.IChunkMap[uint16, geom.Point3]) {
	defer m.Close()

	visits := 0
	err := m.ForEach(geom.NewExtent(geom.P3(14, 14, 14), geom.P3(4, 4, 4)), func(p geom.Point3, v uint16) bool {
		if v != 42 {
			t.Fatalf("Visit of %v: expected ambient 42, got %d", p, v)
		}
		visits++
		return true
	})
	if err != nil {
		t.Fatalf("ForEach failed: %v", err)
	}
	if visits != 64 {
		t.Errorf("Expected 64 ambient visits, got %d", visits)
	}
	if got := len(m.OccupiedKeys()); got != 0 {
		t.Errorf("Expected no occupied chunks after iteration, got %d", got)
	}
}

// testEvictionRoundTrip tests that values written before chunks are
// displaced by later writes read back unchanged
func testEvictionRoundTrip(t *testing.T, m chunkmap.IChunkMap[uint16, geom.Point3]) {
	defer m.Close()

	writes := []struct {
		p geom.Point3
		v uint16
	}{
		{geom.P3(0, 0, 0), 7},
		{geom.P3(20, 0, 0), 9},
		{geom.P3(1, 1, 1), 11},
		// the third distinct chunk exceeds a capacity of two
		{geom.P3(40, 0, 0), 13},
	}

	for _, w := range writes {
		if err := m.Set(w.p, w.v); err != nil {
			t.Fatalf("Set(%v) failed: %v", w.p, err)
		}
	}
	for _, w := range writes {
		value, err := m.Get(w.p)
		if err != nil {
			t.Fatalf("Get(%v) failed: %v", w.p, err)
		}
		if value != w.v {
			t.Errorf("Get(%v): expected %d, got %d", w.p, w.v, value)
		}
	}

	// an untouched point of an occupied chunk reads as ambient
	if value, _ := m.Get(geom.P3(5, 5, 5)); value != 0 {
		t.Errorf("Expected ambient 0 at (5, 5, 5), got %d", value)
	}

	if got := len(m.OccupiedKeys()); got != 3 {
		t.Errorf("Expected 3 occupied chunks, got %d", got)
	}
	if hasFeature(m, cache.FeatureBounded) {
		if info := m.GetInfo(); info.ResidentCount > 2 {
			t.Errorf("Expected at most 2 resident chunks, got %d", info.ResidentCount)
		}
	}
}

// testOccupancy tests the occupied key queries and the bounding extent
func testOccupancy(t *testing.T, m chunkmap.IChunkMap[uint16, geom.Point3]) {
	defer m.Close()

	if _, ok := m.Bounds(); ok {
		t.Error("Expected no bounds on an empty map")
	}

	// chunk keys (2, 0, 0), (0, 1, 0), (1, 1, 1) and (-1, 0, 0)
	for _, p := range []geom.Point3{
		{32, 5, 5},
		{3, 16, 0},
		{16, 16, 16},
		{-16, 0, 0},
	} {
		if err := m.Set(p, 1); err != nil {
			t.Fatalf("Set(%v) failed: %v", p, err)
		}
	}

	expected := []geom.Point3{{-1, 0, 0}, {2, 0, 0}, {0, 1, 0}, {1, 1, 1}}
	keys := m.OccupiedKeys()
	if len(keys) != len(expected) {
		t.Fatalf("Expected %d occupied keys, got %d (%v)", len(expected), len(keys), keys)
	}
	for i, want := range expected {
		if keys[i] != want {
			t.Errorf("Key %d: expected %v, got %v", i, want, keys[i])
		}
	}

	// only the two chunks on the y=0, z=0 row intersect this extent
	in := m.OccupiedKeysIn(geom.NewExtent(geom.P3(-16, 0, 0), geom.P3(64, 16, 16)))
	if len(in) != 2 || in[0] != geom.P3(-1, 0, 0) || in[1] != geom.P3(2, 0, 0) {
		t.Errorf("Expected keys [(-1, 0, 0) (2, 0, 0)], got %v", in)
	}

	bounds, ok := m.Bounds()
	if !ok {
		t.Fatal("Expected bounds on a non-empty map")
	}
	if bounds.Min != geom.P3(-16, 0, 0) || bounds.Shape != geom.P3(64, 32, 32) {
		t.Errorf("Expected bounds min (-16, 0, 0) shape (64, 32, 32), got %v", bounds)
	}
}

// testSparsity tests that far-apart writes cost one chunk each, no matter
// how large the coordinate span is
func testSparsity(t *testing.T, m chunkmap.IChunkMap[uint16, geom.Point3]) {
	defer m.Close()

	points := []geom.Point3{
		{1_000_000, 0, 0},
		{-1_000_000, 0, 0},
		{0, 1_000_000, 0},
	}
	for i, p := range points {
		if err := m.Set(p, uint16(i+1)); err != nil {
			t.Fatalf("Set(%v) failed: %v", p, err)
		}
	}

	if info := m.GetInfo(); info.ChunkCount != 3 {
		t.Errorf("Expected 3 chunks for 3 far-apart writes, got %d", info.ChunkCount)
	}
	for i, p := range points {
		if value, _ := m.Get(p); value != uint16(i+1) {
			t.Errorf("Get(%v): expected %d, got %d", p, i+1, value)
		}
	}
}

// testFlushPruning tests write-back on flush and that chunks cleared to the
// ambient value are pruned instead of kept
func testFlushPruning(t *testing.T, m chunkmap.IChunkMap[uint16, geom.Point3]) {
	defer m.Close()
	requireFeature(t, m, cache.FeatureFlush)

	// six chunks on the x axis, more than the capacity of four
	for i := 0; i < 6; i++ {
		if err := m.Set(geom.P3(int32(i*8), 0, 0), uint16(i+1)); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}
	if err := m.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if info := m.GetInfo(); info.DirtyCount != 0 {
		t.Errorf("Expected no dirty chunks after flush, got %d", info.DirtyCount)
	}
	for i := 0; i < 6; i++ {
		value, err := m.Get(geom.P3(int32(i*8), 0, 0))
		if err != nil {
			t.Fatalf("Get after flush failed: %v", err)
		}
		if value != uint16(i+1) {
			t.Errorf("Chunk %d: expected %d after flush, got %d", i, i+1, value)
		}
	}

	if !hasFeature(m, cache.FeaturePrune) {
		return
	}

	// clearing the first two chunks back to ambient releases them on flush
	if err := m.Fill(geom.NewExtent(geom.P3(0, 0, 0), geom.P3(16, 8, 8)), 0); err != nil {
		t.Fatalf("Fill failed: %v", err)
	}
	if err := m.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if got := len(m.OccupiedKeys()); got != 4 {
		t.Errorf("Expected 4 occupied chunks after pruning, got %d", got)
	}
	if value, _ := m.Get(geom.P3(0, 0, 0)); value != 0 {
		t.Errorf("Expected ambient 0 after pruning, got %d", value)
	}
	if value, _ := m.Get(geom.P3(16, 0, 0)); value != 3 {
		t.Errorf("Expected surviving chunk to keep its value 3, got %d", value)
	}
}

// testEvents tests that a write publishes a materialize event carrying the
// chunk key
func testEvents(t *testing.T, m chunkmap.IChunkMap[uint16, geom.Point3]) {
	defer m.Close()
	requireFeature(t, m, cache.FeatureEvents)

	events := m.Events()
	if events == nil {
		t.Fatal("Expected an event channel from an engine supporting events")
	}

	if err := m.Set(geom.P3(20, 40, 60), 1); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	select {
	case event := <-events:
		if event.Type != cache.EventTMaterialize {
			t.Errorf("Expected materialize event, got %s", event.Type)
		}
		if event.Key != geom.P3(1, 2, 3) {
			t.Errorf("Expected event for chunk key (1, 2, 3), got %v", event.Key)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for the materialize event")
	}
}

// testConcurrentAccess tests read-your-writes visibility with one point per
// worker while the chunks churn through a small cache
func testConcurrentAccess(t *testing.T, m chunkmap.IChunkMap[uint16, geom.Point3]) {
	defer m.Close()

	const (
		workers = 8
		ops     = 300
	)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			p := geom.P3(int32(w*16), 0, 0)
			for i := 1; i <= ops; i++ {
				if err := m.Set(p, uint16(i)); err != nil {
					t.Errorf("Worker %d: Set failed: %v", w, err)
					return
				}
				value, err := m.Get(p)
				if err != nil {
					t.Errorf("Worker %d: Get failed: %v", w, err)
					return
				}
				if value != uint16(i) {
					t.Errorf("Worker %d: expected %d, got %d", w, i, value)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	for w := 0; w < workers; w++ {
		value, err := m.Get(geom.P3(int32(w*16), 0, 0))
		if err != nil {
			t.Fatalf("Get after concurrent writes failed: %v", err)
		}
		if value != ops {
			t.Errorf("Worker %d: expected final value %d, got %d", w, ops, value)
		}
	}
}

// testEdgeCases tests empty extents, single-point extents and regions
// around the coordinate origin
func testEdgeCases(t *testing.T, m chunkmap.IChunkMap[uint16, geom.Point3]) {
	defer m.Close()

	var empty geom.Extent[geom.Point3]
	if err := m.ForEach(empty, func(p geom.Point3, v uint16) bool {
		t.Errorf("Unexpected visit of %v in an empty extent", p)
		return true
	}); err != nil {
		t.Fatalf("ForEach over an empty extent failed: %v", err)
	}
	if err := m.Fill(empty, 9); err != nil {
		t.Fatalf("Fill of an empty extent failed: %v", err)
	}
	if got := len(m.OccupiedKeys()); got != 0 {
		t.Errorf("Expected no chunks after empty-extent operations, got %d", got)
	}
	arr, err := m.ReadExtent(empty)
	if err != nil {
		t.Fatalf("ReadExtent of an empty extent failed: %v", err)
	}
	if arr.Extent().NumPoints() != 0 {
		t.Errorf("Expected an empty array, got extent %v", arr.Extent())
	}
	if got := len(m.OccupiedKeysIn(empty)); got != 0 {
		t.Errorf("Expected no keys in an empty extent, got %d", got)
	}

	// a single-point extent visits exactly that point
	visits := 0
	if err := m.ForEach(geom.NewExtent(geom.P3(3, 4, 5), geom.P3(1, 1, 1)), func(p geom.Point3, v uint16) bool {
		if p != geom.P3(3, 4, 5) {
			t.Errorf("Expected visit of (3, 4, 5), got %v", p)
		}
		visits++
		return true
	}); err != nil {
		t.Fatalf("ForEach failed: %v", err)
	}
	if visits != 1 {
		t.Errorf("Expected 1 visit, got %d", visits)
	}

	// a region spanning the origin reads values from all surrounding chunks
	if err := m.Set(geom.P3(-1, -1, -1), 5); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	arr, err = m.ReadExtent(geom.NewExtent(geom.P3(-2, -2, -2), geom.P3(4, 4, 4)))
	if err != nil {
		t.Fatalf("ReadExtent failed: %v", err)
	}
	arr.Extent().ForEach(func(p geom.Point3) bool {
		want := uint16(0)
		if p == geom.P3(-1, -1, -1) {
			want = 5
		}
		if got := arr.Get(p); got != want {
			t.Fatalf("ReadExtent at %v: expected %d, got %d", p, want, got)
		}
		return true
	})
}

// testGetInfo tests the metadata reported for a small map
func testGetInfo(t *testing.T, m chunkmap.IChunkMap[uint16, geom.Point3]) {
	defer m.Close()

	for i := 0; i < 3; i++ {
		if err := m.Set(geom.P3(int32(i*16), 0, 0), 1); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	info := m.GetInfo()
	if info.Engine == "" {
		t.Error("Expected an engine name")
	}
	if info.ChunkCount != 3 {
		t.Errorf("Expected chunk count 3, got %d", info.ChunkCount)
	}
	if info.ChunkCount != len(m.OccupiedKeys()) {
		t.Errorf("Expected chunk count to match %d occupied keys, got %d", len(m.OccupiedKeys()), info.ChunkCount)
	}
	if info.DirtyCount != 3 {
		t.Errorf("Expected 3 dirty chunks, got %d", info.DirtyCount)
	}
	if info.ResidentCount < 0 || info.ResidentCount > info.ChunkCount {
		t.Errorf("Resident count %d outside [0, %d]", info.ResidentCount, info.ChunkCount)
	}
	if len(info.SupportedFeatures) == 0 {
		t.Error("Expected at least one supported feature")
	}
}

// testClosedMap tests that operations after Close fail cleanly
func testClosedMap(t *testing.T, m chunkmap.IChunkMap[uint16, geom.Point3]) {
	canFlush := hasFeature(m, cache.FeatureFlush)

	if err := m.Set(geom.P3(0, 0, 0), 1); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	expectClosedErr := func(op string, err error) {
		if err == nil {
			t.Errorf("Expected %s on a closed map to fail", op)
			return
		}
		cacheErr, ok := err.(*cache.Error)
		if !ok || cacheErr.Code != cache.RetCInvalidOperation {
			t.Errorf("Expected invalid operation error from %s, got %v", op, err)
		}
	}

	_, err := m.Get(geom.P3(0, 0, 0))
	expectClosedErr("Get", err)
	expectClosedErr("Set", m.Set(geom.P3(0, 0, 0), 2))
	e := geom.NewExtent(geom.P3(0, 0, 0), geom.P3(4, 4, 4))
	expectClosedErr("Fill", m.Fill(e, 1))
	expectClosedErr("ForEach", m.ForEach(e, func(p geom.Point3, v uint16) bool { return true }))
	_, err = m.ReadExtent(e)
	expectClosedErr("ReadExtent", err)
	if canFlush {
		expectClosedErr("Flush", m.Flush())
	}

	if got := len(m.OccupiedKeys()); got != 0 {
		t.Errorf("Expected no occupied keys on a closed map, got %d", got)
	}
	if _, ok := m.Bounds(); ok {
		t.Error("Expected no bounds on a closed map")
	}
	if err := m.Close(); err != nil {
		t.Errorf("Second close should not fail, got %v", err)
	}
}

// --------------------------------------------------------------------------
// Helper Functions
// --------------------------------------------------------------------------

// hasFeature checks whether the cache engine backing the map supports the feature
func hasFeature(m chunkmap.IChunkMap[uint16, geom.Point3], feature cache.Feature) bool {
	for _, f := range m.GetInfo().SupportedFeatures {
		if f == feature {
			return true
		}
	}
	return false
}

// requireFeature skips the test if the cache engine backing the map does not
// support the feature
func requireFeature(t testing.TB, m chunkmap.IChunkMap[uint16, geom.Point3], feature cache.Feature) {
	if !hasFeature(m, feature) {
		t.Skipf("Skipping test: %s feature not supported by the cache engine", feature)
	}
}
