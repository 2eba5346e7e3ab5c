package chunk

import (
	"testing"

	"github.com/ValentinKolb/chunkDB/lib/geom"
)

// TestNewArrayFill tests that a fresh array is filled with the given value
func TestNewArrayFill(t *testing.T) {
	e := geom.NewExtent(geom.P3(-8, 0, 8), geom.P3(4, 4, 4))
	a := NewArray(e, uint16(9))

	if a.Extent() != e {
		t.Errorf("Extent: expected %v, got %v", e, a.Extent())
	}

	if len(a.Data()) != 64 {
		t.Fatalf("Data length: expected 64, got %d", len(a.Data()))
	}

	for i, v := range a.Data() {
		if v != 9 {
			t.Fatalf("index %d: expected fill value 9, got %d", i, v)
		}
	}
}

// TestArrayGetSet tests point access at the extent corners
func TestArrayGetSet(t *testing.T) {
	e := geom.NewExtent(geom.P3(-4, -4, -4), geom.P3(8, 8, 8))
	a := NewArray(e, uint16(0))

	a.Set(geom.P3(-4, -4, -4), 1)
	a.Set(geom.P3(3, 3, 3), 2)
	a.Set(geom.P3(0, -1, 2), 3)

	if got := a.Get(geom.P3(-4, -4, -4)); got != 1 {
		t.Errorf("Get min corner: expected 1, got %d", got)
	}
	if got := a.Get(geom.P3(3, 3, 3)); got != 2 {
		t.Errorf("Get max corner: expected 2, got %d", got)
	}
	if got := a.Get(geom.P3(0, -1, 2)); got != 3 {
		t.Errorf("Get interior: expected 3, got %d", got)
	}
	if got := a.Get(geom.P3(0, 0, 0)); got != 0 {
		t.Errorf("Get untouched: expected 0, got %d", got)
	}
}

// TestArrayOutOfBoundsPanics tests that access outside the extent fails
// loudly instead of corrupting neighboring memory
func TestArrayOutOfBoundsPanics(t *testing.T) {
	a := NewArray(geom.NewExtent(geom.P3(0, 0, 0), geom.P3(4, 4, 4)), uint16(0))

	defer func() {
		if recover() == nil {
			t.Error("Get outside the extent should panic")
		}
	}()
	a.Get(geom.P3(4, 0, 0))
}

// TestLinearOffsetMatchesIterationOrder tests the load-bearing equivalence
// between extent iteration order and the flat data layout
func TestLinearOffsetMatchesIterationOrder(t *testing.T) {
	e := geom.NewExtent(geom.P3(-2, 1, 3), geom.P3(3, 2, 4))
	a := NewArray(e, 0)

	i := 0
	e.ForEach(func(p geom.Point3) bool {
		if off := a.LinearOffset(p); off != i {
			t.Errorf("point %v: expected offset %d, got %d", p, i, off)
		}
		if back := a.PointAtOffset(i); back != p {
			t.Errorf("offset %d: expected point %v, got %v", i, p, back)
		}
		i++
		return true
	})

	if int64(i) != e.NumPoints() {
		t.Errorf("iterated %d points, expected %d", i, e.NumPoints())
	}
}

// TestArrayFillExtent tests partial fills including clamping at the borders
func TestArrayFillExtent(t *testing.T) {
	e := geom.NewExtent(geom.P2(0, 0), geom.P2(4, 4))
	a := NewArray(e, uint8(0))

	// Deliberately exceeds the array on two sides
	a.FillExtent(geom.NewExtent(geom.P2(2, 2), geom.P2(10, 10)), 5)

	a.ForEach(e, func(p geom.Point2, v uint8) bool {
		want := uint8(0)
		if p[0] >= 2 && p[1] >= 2 {
			want = 5
		}
		if v != want {
			t.Errorf("point %v: expected %d, got %d", p, want, v)
		}
		return true
	})
}

// TestArrayForEachOrderAndEarlyStop tests sub-extent iteration
func TestArrayForEachOrderAndEarlyStop(t *testing.T) {
	e := geom.NewExtent(geom.P3(0, 0, 0), geom.P3(4, 4, 4))
	a := NewArray(e, 0)

	// Tag every cell with its own linear offset
	for i := range a.Data() {
		a.Data()[i] = i
	}

	sub := geom.NewExtent(geom.P3(1, 1, 1), geom.P3(2, 2, 2))

	var points []geom.Point3
	completed := a.ForEach(sub, func(p geom.Point3, v int) bool {
		if v != a.LinearOffset(p) {
			t.Errorf("point %v: value %d does not match offset %d", p, v, a.LinearOffset(p))
		}
		points = append(points, p)
		return true
	})

	if !completed {
		t.Fatal("ForEach should complete when never stopped")
	}

	expected := []geom.Point3{
		{1, 1, 1}, {2, 1, 1}, {1, 2, 1}, {2, 2, 1},
		{1, 1, 2}, {2, 1, 2}, {1, 2, 2}, {2, 2, 2},
	}
	if len(points) != len(expected) {
		t.Fatalf("visited %d points, expected %d", len(points), len(expected))
	}
	for i, want := range expected {
		if points[i] != want {
			t.Errorf("visit %d: expected %v, got %v", i, want, points[i])
		}
	}

	// Early stop after three visits
	count := 0
	completed = a.ForEach(sub, func(p geom.Point3, v int) bool {
		count++
		return count < 3
	})
	if completed || count != 3 {
		t.Errorf("expected early stop after 3 visits, completed=%v count=%d", completed, count)
	}
}

// TestArrayUpdate tests in-place value replacement
func TestArrayUpdate(t *testing.T) {
	e := geom.NewExtent(geom.P2(0, 0), geom.P2(3, 3))
	a := NewArray(e, uint16(1))

	a.Update(e, func(p geom.Point2, v uint16) uint16 {
		return v + uint16(p[0])
	})

	if got := a.Get(geom.P2(2, 1)); got != 3 {
		t.Errorf("Update: expected 3 at (2, 1), got %d", got)
	}
}

// TestArrayCopyFrom tests intersection copies between shifted arrays
func TestArrayCopyFrom(t *testing.T) {
	src := NewArray(geom.NewExtent(geom.P3(0, 0, 0), geom.P3(4, 4, 4)), uint16(7))
	dst := NewArray(geom.NewExtent(geom.P3(2, 2, 2), geom.P3(4, 4, 4)), uint16(0))

	dst.CopyFrom(src)

	dst.ForEach(dst.Extent(), func(p geom.Point3, v uint16) bool {
		want := uint16(0)
		if src.Extent().Contains(p) {
			want = 7
		}
		if v != want {
			t.Errorf("point %v: expected %d, got %d", p, want, v)
		}
		return true
	})
}

// TestArrayFromData tests wrapping an existing slice
func TestArrayFromData(t *testing.T) {
	e := geom.NewExtent(geom.P2(0, 0), geom.P2(2, 2))
	a := ArrayFromData(e, []uint16{1, 2, 3, 4})

	if got := a.Get(geom.P2(1, 0)); got != 2 {
		t.Errorf("expected 2 at (1, 0), got %d", got)
	}
	if got := a.Get(geom.P2(0, 1)); got != 3 {
		t.Errorf("expected 3 at (0, 1), got %d", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("ArrayFromData with mismatched length should panic")
		}
	}()
	ArrayFromData(e, []uint16{1, 2, 3})
}

// TestWindow tests the zero-copy view over a sub-extent
func TestWindow(t *testing.T) {
	a := NewArray(geom.NewExtent(geom.P3(0, 0, 0), geom.P3(8, 8, 8)), uint16(0))
	w := a.Window(geom.NewExtent(geom.P3(2, 2, 2), geom.P3(2, 2, 2)))

	if w.Extent().NumPoints() != 8 {
		t.Fatalf("window should cover 8 points, got %d", w.Extent().NumPoints())
	}

	w.Fill(3)
	if got := a.Get(geom.P3(2, 2, 2)); got != 3 {
		t.Errorf("window fill should write through to the array, got %d", got)
	}
	if got := a.Get(geom.P3(1, 2, 2)); got != 0 {
		t.Errorf("window fill should not leak outside its bounds, got %d", got)
	}

	w.Set(geom.P3(3, 3, 3), 9)
	if got := w.Get(geom.P3(3, 3, 3)); got != 9 {
		t.Errorf("window Get after Set: expected 9, got %d", got)
	}

	count := 0
	w.ForEach(func(p geom.Point3, v uint16) bool {
		count++
		return true
	})
	if count != 8 {
		t.Errorf("window ForEach should visit 8 points, visited %d", count)
	}

	defer func() {
		if recover() == nil {
			t.Error("window access outside its bounds should panic")
		}
	}()
	w.Get(geom.P3(0, 0, 0))
}
