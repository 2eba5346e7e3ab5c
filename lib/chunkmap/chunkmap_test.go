package chunkmap_test

import (
	"testing"

	"github.com/ValentinKolb/chunkDB/lib/cache"
	"github.com/ValentinKolb/chunkDB/lib/cache/engines/birch"
	"github.com/ValentinKolb/chunkDB/lib/chunkmap"
	"github.com/ValentinKolb/chunkDB/lib/geom"
)

// TestDefaultOptions tests map construction without options
func TestDefaultOptions(t *testing.T) {
	m, err := chunkmap.NewChunkMap[uint16, geom.Point3](nil)
	if err != nil {
		t.Fatalf("NewChunkMap(nil) failed: %v", err)
	}
	defer m.Close()

	if m.ChunkShape() != geom.P3(16, 16, 16) {
		t.Errorf("Expected default chunk shape (16, 16, 16), got %v", m.ChunkShape())
	}
	if m.Ambient() != 0 {
		t.Errorf("Expected default ambient 0, got %d", m.Ambient())
	}

	if err := m.Set(geom.P3(1, 2, 3), 7); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if value, _ := m.Get(geom.P3(1, 2, 3)); value != 7 {
		t.Errorf("Expected 7, got %d", value)
	}
}

// TestInvalidConfiguration tests rejection of bad chunk shapes and
// propagation of cache factory errors
func TestInvalidConfiguration(t *testing.T) {
	for _, shape := range []geom.Point3{
		{0, 0, 0},
		{12, 16, 16},
		{-16, 16, 16},
	} {
		_, err := chunkmap.NewChunkMap(&chunkmap.Options[uint16, geom.Point3]{ChunkShape: shape})
		if err == nil {
			t.Errorf("Expected chunk shape %v to be rejected", shape)
			continue
		}
		cacheErr, ok := err.(*cache.Error)
		if !ok || cacheErr.Code != cache.RetCCapacityMisconfiguration {
			t.Errorf("Expected a misconfiguration error for shape %v, got %v", shape, err)
		}
	}

	// a failing cache factory surfaces its error unchanged
	_, err := chunkmap.NewChunkMap(&chunkmap.Options[uint16, geom.Point3]{
		ChunkShape: geom.P3(16, 16, 16),
		Cache: func(chunkVolume int, ambient uint16) (cache.ICache[uint16, geom.Point3], error) {
			return birch.NewBirchCache[uint16, geom.Point3](&birch.Options[uint16]{
				Capacity:    -1,
				ChunkVolume: chunkVolume,
				Ambient:     ambient,
			})
		},
	})
	if err == nil {
		t.Fatal("Expected the cache factory error to surface")
	}
	if cacheErr, ok := err.(*cache.Error); !ok || cacheErr.Code != cache.RetCCapacityMisconfiguration {
		t.Errorf("Expected a misconfiguration error from the factory, got %v", err)
	}
}

// Test2DFloatMap tests a map of float32 values on a 2D lattice with
// rectangular chunks
func Test2DFloatMap(t *testing.T) {
	m, err := chunkmap.NewChunkMap(&chunkmap.Options[float32, geom.Point2]{
		ChunkShape: geom.P2(32, 8),
		Ambient:    -1.5,
	})
	if err != nil {
		t.Fatalf("NewChunkMap failed: %v", err)
	}
	defer m.Close()

	if m.Ambient() != -1.5 {
		t.Fatalf("Expected ambient -1.5, got %f", m.Ambient())
	}
	if value, _ := m.Get(geom.P2(100, -50)); value != -1.5 {
		t.Errorf("Expected ambient -1.5, got %f", value)
	}

	if err := m.Set(geom.P2(-1, -1), 0.5); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// straddles the chunk borders at x=32 and y=8
	filled := geom.NewExtent(geom.P2(30, 6), geom.P2(4, 4))
	if err := m.Fill(filled, 7.5); err != nil {
		t.Fatalf("Fill failed: %v", err)
	}
	if err := m.Set(geom.P2(33, 7), 2.25); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	visits := 0
	err = m.ForEach(filled, func(p geom.Point2, v float32) bool {
		want := float32(7.5)
		if p == geom.P2(33, 7) {
			want = 2.25
		}
		if v != want {
			t.Fatalf("Visit of %v: expected %f, got %f", p, want, v)
		}
		visits++
		return true
	})
	if err != nil {
		t.Fatalf("ForEach failed: %v", err)
	}
	if visits != 16 {
		t.Errorf("Expected 16 visits, got %d", visits)
	}

	expected := []geom.Point2{{-1, -1}, {0, 0}, {1, 0}, {0, 1}, {1, 1}}
	keys := m.OccupiedKeys()
	if len(keys) != len(expected) {
		t.Fatalf("Expected %d occupied keys, got %d (%v)", len(expected), len(keys), keys)
	}
	for i, want := range expected {
		if keys[i] != want {
			t.Errorf("Key %d: expected %v, got %v", i, want, keys[i])
		}
	}

	bounds, ok := m.Bounds()
	if !ok {
		t.Fatal("Expected bounds on a non-empty map")
	}
	if bounds.Min != geom.P2(-32, -8) || bounds.Shape != geom.P2(96, 24) {
		t.Errorf("Expected bounds min (-32, -8) shape (96, 24), got %v", bounds)
	}

	arr, err := m.ReadExtent(geom.NewExtent(geom.P2(-2, -2), geom.P2(3, 3)))
	if err != nil {
		t.Fatalf("ReadExtent failed: %v", err)
	}
	arr.Extent().ForEach(func(p geom.Point2) bool {
		want := float32(-1.5)
		if p == geom.P2(-1, -1) {
			want = 0.5
		}
		if got := arr.Get(p); got != want {
			t.Fatalf("ReadExtent at %v: expected %f, got %f", p, want, got)
		}
		return true
	})
}
