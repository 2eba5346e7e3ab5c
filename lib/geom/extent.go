package geom

import "fmt"

// --------------------------------------------------------------------------
// Extent Type
// --------------------------------------------------------------------------

// Extent is an axis-aligned region on the lattice, described by its minimum
// point and a per-axis shape. It represents the half-open set of points
// [Min, Min+Shape). An extent with any non-positive shape component is empty
// and contains no points.
type Extent[P Point[P]] struct {
	Min   P
	Shape P
}

// NewExtent creates an extent from its minimum point and shape. It panics if
// any shape component is negative, since a negative shape is always a
// programming error (an empty extent has shape zero).
func NewExtent[P Point[P]](min, shape P) Extent[P] {
	for i := 0; i < shape.Dims(); i++ {
		if shape.At(i) < 0 {
			panic(fmt.Sprintf("geom: negative shape component %d on axis %d", shape.At(i), i))
		}
	}
	return Extent[P]{Min: min, Shape: shape}
}

// ExtentFromMinAndLub creates an extent from its minimum point and its least
// upper bound (exclusive). Axes where lub <= min produce an empty extent.
func ExtentFromMinAndLub[P Point[P]](min, lub P) Extent[P] {
	var zero P
	return Extent[P]{Min: min, Shape: lub.Sub(min).Max(zero)}
}

// ExtentFromMinAndMax creates an extent from its minimum point and its
// maximum point (inclusive). Axes where max < min produce an empty extent.
func ExtentFromMinAndMax[P Point[P]](min, max P) Extent[P] {
	return ExtentFromMinAndLub(min, max.Add(Uniform[P](1)))
}

// --------------------------------------------------------------------------
// Query Methods
// --------------------------------------------------------------------------

// Lub returns the least upper bound of the extent (exclusive).
func (e Extent[P]) Lub() P { return e.Min.Add(e.Shape) }

// Max returns the maximum point of the extent (inclusive). Only meaningful
// for non-empty extents.
func (e Extent[P]) Max() P { return e.Lub().Sub(Uniform[P](1)) }

// IsEmpty returns true if the extent contains no points.
func (e Extent[P]) IsEmpty() bool {
	for i := 0; i < e.Shape.Dims(); i++ {
		if e.Shape.At(i) <= 0 {
			return true
		}
	}
	return false
}

// NumPoints returns the number of lattice points in the extent.
func (e Extent[P]) NumPoints() int64 { return Volume(e.Shape) }

// Contains returns true iff the point lies within the extent, i.e. every
// axis satisfies min <= p < min+shape.
func (e Extent[P]) Contains(p P) bool {
	lub := e.Lub()
	for i := 0; i < p.Dims(); i++ {
		if p.At(i) < e.Min.At(i) || p.At(i) >= lub.At(i) {
			return false
		}
	}
	return true
}

// ContainsExtent returns true iff other is fully contained in the extent.
// An empty extent is contained in every extent.
func (e Extent[P]) ContainsExtent(other Extent[P]) bool {
	if other.IsEmpty() {
		return true
	}
	lub, otherLub := e.Lub(), other.Lub()
	for i := 0; i < lub.Dims(); i++ {
		if other.Min.At(i) < e.Min.At(i) || otherLub.At(i) > lub.At(i) {
			return false
		}
	}
	return true
}

// --------------------------------------------------------------------------
// Arithmetic Methods
// --------------------------------------------------------------------------

// Intersect returns the intersection of the two extents. The result is empty
// if the extents do not overlap.
func (e Extent[P]) Intersect(other Extent[P]) Extent[P] {
	var zero P
	min := e.Min.Max(other.Min)
	lub := e.Lub().Min(other.Lub())
	return Extent[P]{Min: min, Shape: lub.Sub(min).Max(zero)}
}

// BoundUnion returns the smallest extent containing both extents. Note that
// this is a bounding operation, not a set union: points in the result may
// lie in neither input.
func (e Extent[P]) BoundUnion(other Extent[P]) Extent[P] {
	if e.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return e
	}
	min := e.Min.Min(other.Min)
	lub := e.Lub().Max(other.Lub())
	return Extent[P]{Min: min, Shape: lub.Sub(min)}
}

// Translate returns the extent shifted by the given offset.
func (e Extent[P]) Translate(offset P) Extent[P] {
	return Extent[P]{Min: e.Min.Add(offset), Shape: e.Shape}
}

// --------------------------------------------------------------------------
// Iteration
// --------------------------------------------------------------------------

// ForEach visits every point of the extent in the deterministic row-major
// order: the outermost axis is the last one (z for 3D), the innermost axis
// is axis 0 (x), so x varies fastest. This is the same order used for the
// flat layout of dense chunk payloads; algorithms that walk an extent and a
// payload in lockstep rely on the orders being identical.
//
// The visitor returns false to stop the iteration early. ForEach returns
// false iff the iteration was stopped by the visitor.
func (e Extent[P]) ForEach(visit func(p P) bool) bool {
	if e.IsEmpty() {
		return true
	}
	var (
		dims = e.Min.Dims()
		lub  = e.Lub()
		cur  = e.Min
	)
	for {
		if !visit(cur) {
			return false
		}
		i := 0
		for ; i < dims; i++ {
			if next := cur.At(i) + 1; next < lub.At(i) {
				cur = cur.With(i, next)
				break
			}
			cur = cur.With(i, e.Min.At(i))
		}
		if i == dims {
			return true
		}
	}
}

func (e Extent[P]) String() string {
	return fmt.Sprintf("Extent{Min: %v, Shape: %v}", e.Min, e.Shape)
}

// --------------------------------------------------------------------------
// Helper Functions
// --------------------------------------------------------------------------

// BoundingExtent returns the smallest extent containing all given points.
// The boolean return value is false if the slice is empty.
func BoundingExtent[P Point[P]](points []P) (Extent[P], bool) {
	if len(points) == 0 {
		return Extent[P]{}, false
	}
	min, max := points[0], points[0]
	for _, p := range points[1:] {
		min = min.Min(p)
		max = max.Max(p)
	}
	return ExtentFromMinAndMax(min, max), true
}
