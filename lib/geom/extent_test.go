package geom

import "testing"

// TestExtentBounds tests the derived bounds of an extent
func TestExtentBounds(t *testing.T) {
	e := NewExtent(P3(-1, -1, -1), P3(3, 3, 3))

	if got := e.Lub(); got != P3(2, 2, 2) {
		t.Errorf("Lub: expected (2, 2, 2), got %v", got)
	}

	if got := e.Max(); got != P3(1, 1, 1) {
		t.Errorf("Max: expected (1, 1, 1), got %v", got)
	}

	if got := e.NumPoints(); got != 27 {
		t.Errorf("NumPoints: expected 27, got %d", got)
	}
}

// TestExtentConstructors tests the min/lub and min/max constructors
func TestExtentConstructors(t *testing.T) {
	a := ExtentFromMinAndLub(P3(0, 0, 0), P3(2, 3, 4))
	if a.Shape != P3(2, 3, 4) {
		t.Errorf("ExtentFromMinAndLub: expected shape (2, 3, 4), got %v", a.Shape)
	}

	b := ExtentFromMinAndMax(P3(1, 1, 1), P3(1, 2, 3))
	if b.Shape != P3(1, 2, 3) {
		t.Errorf("ExtentFromMinAndMax: expected shape (1, 2, 3), got %v", b.Shape)
	}

	// An inverted bound must produce an empty extent, not a negative shape
	c := ExtentFromMinAndLub(P3(5, 5, 5), P3(0, 6, 6))
	if !c.IsEmpty() {
		t.Errorf("Extent with inverted bounds should be empty, got %v", c)
	}
}

// TestNewExtentPanics tests that negative shapes are rejected loudly
func TestNewExtentPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewExtent with negative shape should panic")
		}
	}()
	NewExtent(P3(0, 0, 0), P3(1, -1, 1))
}

// TestExtentContains tests point containment on the half-open region
func TestExtentContains(t *testing.T) {
	e := NewExtent(P3(0, 0, 0), P3(16, 16, 16))

	inside := []Point3{{0, 0, 0}, {15, 15, 15}, {8, 0, 15}}
	for _, p := range inside {
		if !e.Contains(p) {
			t.Errorf("Contains(%v) should be true", p)
		}
	}

	outside := []Point3{{-1, 0, 0}, {16, 0, 0}, {0, 16, 0}, {0, 0, 16}, {15, 15, 16}}
	for _, p := range outside {
		if e.Contains(p) {
			t.Errorf("Contains(%v) should be false", p)
		}
	}
}

// TestExtentContainsExtent tests extent containment including empty extents
func TestExtentContainsExtent(t *testing.T) {
	e := NewExtent(P2(0, 0), P2(10, 10))

	if !e.ContainsExtent(NewExtent(P2(2, 2), P2(8, 8))) {
		t.Error("fully contained extent should be contained")
	}

	if e.ContainsExtent(NewExtent(P2(5, 5), P2(8, 8))) {
		t.Error("overlapping extent should not be contained")
	}

	if !e.ContainsExtent(NewExtent(P2(100, 100), P2(0, 0))) {
		t.Error("empty extent should be contained in every extent")
	}
}

// TestExtentIntersect tests intersection including disjoint extents
func TestExtentIntersect(t *testing.T) {
	a := NewExtent(P3(0, 0, 0), P3(10, 10, 10))
	b := NewExtent(P3(5, -5, 5), P3(10, 10, 10))

	got := a.Intersect(b)
	want := NewExtent(P3(5, 0, 5), P3(5, 5, 5))
	if got != want {
		t.Errorf("Intersect: expected %v, got %v", want, got)
	}

	// Intersection is commutative
	if b.Intersect(a) != want {
		t.Errorf("Intersect should be commutative")
	}

	disjoint := NewExtent(P3(100, 100, 100), P3(2, 2, 2))
	if !a.Intersect(disjoint).IsEmpty() {
		t.Error("intersection of disjoint extents should be empty")
	}
}

// TestExtentBoundUnion tests the bounding operation
func TestExtentBoundUnion(t *testing.T) {
	a := NewExtent(P2(0, 0), P2(2, 2))
	b := NewExtent(P2(10, -3), P2(1, 1))

	got := a.BoundUnion(b)
	want := NewExtent(P2(0, -3), P2(11, 5))
	if got != want {
		t.Errorf("BoundUnion: expected %v, got %v", want, got)
	}

	empty := Extent[Point2]{}
	if a.BoundUnion(empty) != a {
		t.Error("BoundUnion with empty extent should return the other extent")
	}
	if empty.BoundUnion(b) != b {
		t.Error("BoundUnion of empty extent should return the other extent")
	}
}

// TestExtentTranslate tests shifting an extent
func TestExtentTranslate(t *testing.T) {
	e := NewExtent(P3(1, 2, 3), P3(4, 4, 4))
	got := e.Translate(P3(-1, -2, -3))
	if got.Min != P3(0, 0, 0) || got.Shape != P3(4, 4, 4) {
		t.Errorf("Translate: expected min (0, 0, 0), got %v", got)
	}
}

// TestExtentForEachOrder tests the exact deterministic iteration order.
// Axis 0 (x) varies fastest, then y, then z.
func TestExtentForEachOrder(t *testing.T) {
	e := NewExtent(P3(0, 0, 0), P3(2, 2, 2))

	expected := []Point3{
		{0, 0, 0}, {1, 0, 0},
		{0, 1, 0}, {1, 1, 0},
		{0, 0, 1}, {1, 0, 1},
		{0, 1, 1}, {1, 1, 1},
	}

	var visited []Point3
	completed := e.ForEach(func(p Point3) bool {
		visited = append(visited, p)
		return true
	})

	if !completed {
		t.Fatal("ForEach should report completion when never stopped")
	}

	if len(visited) != len(expected) {
		t.Fatalf("ForEach visited %d points, expected %d", len(visited), len(expected))
	}

	for i, want := range expected {
		if visited[i] != want {
			t.Errorf("visit %d: expected %v, got %v", i, want, visited[i])
		}
	}
}

// TestExtentForEach2D tests iteration order and count in two dimensions
func TestExtentForEach2D(t *testing.T) {
	e := NewExtent(P2(-1, -1), P2(3, 2))

	expected := []Point2{
		{-1, -1}, {0, -1}, {1, -1},
		{-1, 0}, {0, 0}, {1, 0},
	}

	var visited []Point2
	e.ForEach(func(p Point2) bool {
		visited = append(visited, p)
		return true
	})

	if len(visited) != len(expected) {
		t.Fatalf("ForEach visited %d points, expected %d", len(visited), len(expected))
	}

	for i, want := range expected {
		if visited[i] != want {
			t.Errorf("visit %d: expected %v, got %v", i, want, visited[i])
		}
	}
}

// TestExtentForEachEarlyStop tests early termination via the visitor
func TestExtentForEachEarlyStop(t *testing.T) {
	e := NewExtent(P3(0, 0, 0), P3(4, 4, 4))

	count := 0
	completed := e.ForEach(func(p Point3) bool {
		count++
		return count < 10
	})

	if completed {
		t.Error("ForEach should report early termination")
	}

	if count != 10 {
		t.Errorf("ForEach should have stopped after 10 visits, got %d", count)
	}
}

// TestExtentForEachEmpty tests that empty extents visit nothing
func TestExtentForEachEmpty(t *testing.T) {
	e := NewExtent(P3(0, 0, 0), P3(4, 0, 4))

	count := 0
	e.ForEach(func(p Point3) bool {
		count++
		return true
	})

	if count != 0 {
		t.Errorf("empty extent should visit no points, visited %d", count)
	}
}

// TestBoundingExtent tests the smallest extent containing a point set
func TestBoundingExtent(t *testing.T) {
	points := []Point3{{0, 0, 0}, {-5, 3, 1}, {2, -1, 7}}

	e, ok := BoundingExtent(points)
	if !ok {
		t.Fatal("BoundingExtent of a non-empty slice should succeed")
	}

	want := ExtentFromMinAndMax(P3(-5, -1, 0), P3(2, 3, 7))
	if e != want {
		t.Errorf("BoundingExtent: expected %v, got %v", want, e)
	}

	for _, p := range points {
		if !e.Contains(p) {
			t.Errorf("bounding extent should contain %v", p)
		}
	}

	if _, ok := BoundingExtent[Point3](nil); ok {
		t.Error("BoundingExtent of empty slice should return ok=false")
	}
}
