package chunk

import (
	"testing"

	"github.com/ValentinKolb/chunkDB/lib/geom"
)

// TestNewIndexerValidation tests rejection of invalid chunk shapes
func TestNewIndexerValidation(t *testing.T) {
	if _, err := NewIndexer(geom.P3(16, 16, 16)); err != nil {
		t.Errorf("power-of-two shape should be accepted: %v", err)
	}
	if _, err := NewIndexer(geom.P3(16, 1, 4)); err != nil {
		t.Errorf("mixed power-of-two shape should be accepted: %v", err)
	}

	invalid := []geom.Point3{
		{0, 16, 16},
		{-16, 16, 16},
		{16, 12, 16},
	}
	for _, shape := range invalid {
		if _, err := NewIndexer(shape); err == nil {
			t.Errorf("shape %v should be rejected", shape)
		}
	}
}

// TestKeyOfNegativeCoordinates tests that keys round toward negative
// infinity, never toward zero
func TestKeyOfNegativeCoordinates(t *testing.T) {
	idx, err := NewIndexer(geom.P3(16, 16, 16))
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		point geom.Point3
		key   geom.Point3
	}{
		{geom.P3(0, 0, 0), geom.P3(0, 0, 0)},
		{geom.P3(15, 15, 15), geom.P3(0, 0, 0)},
		{geom.P3(16, 0, 0), geom.P3(1, 0, 0)},
		{geom.P3(-1, -1, -1), geom.P3(-1, -1, -1)},
		{geom.P3(-16, -16, -16), geom.P3(-1, -1, -1)},
		{geom.P3(-17, 0, 35), geom.P3(-2, 0, 2)},
	}

	for _, c := range cases {
		if got := idx.KeyOf(c.point); got != c.key {
			t.Errorf("KeyOf(%v): expected %v, got %v", c.point, c.key, got)
		}
	}

	if got := idx.MinOf(geom.P3(-1, -1, -1)); got != geom.P3(-16, -16, -16) {
		t.Errorf("MinOf((-1, -1, -1)): expected (-16, -16, -16), got %v", got)
	}
}

// TestAddressingBijection tests MinOf(KeyOf(p)) + LocalOf(p) == p for a
// grid of world points spanning negative and positive space
func TestAddressingBijection(t *testing.T) {
	idx, err := NewIndexer(geom.P3(16, 8, 4))
	if err != nil {
		t.Fatal(err)
	}

	grid := geom.NewExtent(geom.P3(-40, -40, -40), geom.P3(80, 80, 80))
	grid.ForEach(func(p geom.Point3) bool {
		key := idx.KeyOf(p)
		local := idx.LocalOf(p)

		if got := idx.MinOf(key).Add(local); got != p {
			t.Fatalf("bijection broken for %v: key %v local %v recombine to %v", p, key, local, got)
		}

		for i := 0; i < 3; i++ {
			if local.At(i) < 0 || local.At(i) >= idx.ChunkShape().At(i) {
				t.Fatalf("local offset %v of %v outside chunk shape %v", local, p, idx.ChunkShape())
			}
		}

		if !idx.ExtentOf(key).Contains(p) {
			t.Fatalf("chunk extent %v of key %v should contain %v", idx.ExtentOf(key), key, p)
		}
		return true
	})
}

// TestKeyRangeOf tests the exact set and order of chunk keys covering an
// extent that straddles chunk borders in every axis
func TestKeyRangeOf(t *testing.T) {
	idx, err := NewIndexer(geom.P3(16, 16, 16))
	if err != nil {
		t.Fatal(err)
	}

	e := geom.NewExtent(geom.P3(-1, -1, -1), geom.P3(3, 3, 3))

	expected := []geom.Point3{
		{-1, -1, -1}, {0, -1, -1},
		{-1, 0, -1}, {0, 0, -1},
		{-1, -1, 0}, {0, -1, 0},
		{-1, 0, 0}, {0, 0, 0},
	}

	var keys []geom.Point3
	idx.KeyRangeOf(e).ForEach(func(key geom.Point3) bool {
		keys = append(keys, key)
		return true
	})

	if len(keys) != len(expected) {
		t.Fatalf("expected %d keys, got %d (%v)", len(expected), len(keys), keys)
	}
	for i, want := range expected {
		if keys[i] != want {
			t.Errorf("key %d: expected %v, got %v", i, want, keys[i])
		}
	}

	if !idx.KeyRangeOf(geom.Extent[geom.Point3]{}).IsEmpty() {
		t.Error("key range of an empty extent should be empty")
	}

	// An extent inside a single chunk maps to exactly that chunk's key
	single := idx.KeyRangeOf(geom.NewExtent(geom.P3(1, 1, 1), geom.P3(4, 4, 4)))
	if single.NumPoints() != 1 || single.Min != geom.P3(0, 0, 0) {
		t.Errorf("expected single key (0, 0, 0), got %v", single)
	}
}

// TestOffsetOf tests that the flat payload index matches the Array layout
// for every point of a chunk, including chunks at negative coordinates
func TestOffsetOf(t *testing.T) {
	idx, err := NewIndexer(geom.P3(8, 4, 2))
	if err != nil {
		t.Fatal(err)
	}

	for _, key := range []geom.Point3{{0, 0, 0}, {-1, -2, 3}} {
		arr := NewArray[uint16](idx.ExtentOf(key), 0)
		idx.ExtentOf(key).ForEach(func(p geom.Point3) bool {
			if got, want := idx.OffsetOf(p), arr.LinearOffset(p); got != want {
				t.Fatalf("OffsetOf(%v): expected %d, got %d", p, want, got)
			}
			return true
		})
	}
}

// TestKeyRangeOf2D tests key coverage for a 2D map with rectangular chunks
func TestKeyRangeOf2D(t *testing.T) {
	idx, err := NewIndexer(geom.P2(32, 8))
	if err != nil {
		t.Fatal(err)
	}

	e := geom.NewExtent(geom.P2(30, 7), geom.P2(4, 2))

	var keys []geom.Point2
	idx.KeyRangeOf(e).ForEach(func(key geom.Point2) bool {
		keys = append(keys, key)
		return true
	})

	expected := []geom.Point2{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	if len(keys) != len(expected) {
		t.Fatalf("expected %d keys, got %d", len(expected), len(keys))
	}
	for i, want := range expected {
		if keys[i] != want {
			t.Errorf("key %d: expected %v, got %v", i, want, keys[i])
		}
	}
}
