package geom

import "fmt"

// --------------------------------------------------------------------------
// Point Constraint
// --------------------------------------------------------------------------

// Point is the constraint shared by all lattice point types (see Point2 and
// Point3). Algorithms that are generic over the dimension are written once
// against this constraint instead of being duplicated per axis count.
//
// All arithmetic is total and overflow-free as long as every component stays
// within the safe range |c| <= 2^30. Behavior outside this range is
// unspecified.
type Point[P any] interface {
	comparable

	// Add returns the component-wise sum of the two points.
	Add(other P) P

	// Sub returns the component-wise difference of the two points.
	Sub(other P) P

	// Mul returns the point with every component scaled by s.
	Mul(s int32) P

	// Min returns the component-wise minimum of the two points.
	Min(other P) P

	// Max returns the component-wise maximum of the two points.
	Max(other P) P

	// Dims returns the number of axes (2 or 3).
	Dims() int

	// At returns the component on axis i (0 = x, 1 = y, 2 = z).
	At(i int) int32

	// With returns a copy of the point with the component on axis i
	// replaced by v.
	With(i int, v int32) P
}

// --------------------------------------------------------------------------
// Concrete Point Types
// --------------------------------------------------------------------------

// Point2 is a point on the 2D integer lattice.
type Point2 [2]int32

// P2 is a shorthand constructor for Point2.
func P2(x, y int32) Point2 { return Point2{x, y} }

func (p Point2) Add(other Point2) Point2 { return Point2{p[0] + other[0], p[1] + other[1]} }

func (p Point2) Sub(other Point2) Point2 { return Point2{p[0] - other[0], p[1] - other[1]} }

func (p Point2) Mul(s int32) Point2 { return Point2{p[0] * s, p[1] * s} }

func (p Point2) Min(other Point2) Point2 {
	return Point2{min(p[0], other[0]), min(p[1], other[1])}
}

func (p Point2) Max(other Point2) Point2 {
	return Point2{max(p[0], other[0]), max(p[1], other[1])}
}

func (p Point2) Dims() int { return 2 }

func (p Point2) At(i int) int32 { return p[i] }

func (p Point2) With(i int, v int32) Point2 {
	p[i] = v
	return p
}

func (p Point2) String() string { return fmt.Sprintf("(%d, %d)", p[0], p[1]) }

// Point3 is a point on the 3D integer lattice.
type Point3 [3]int32

// P3 is a shorthand constructor for Point3.
func P3(x, y, z int32) Point3 { return Point3{x, y, z} }

func (p Point3) Add(other Point3) Point3 {
	return Point3{p[0] + other[0], p[1] + other[1], p[2] + other[2]}
}

func (p Point3) Sub(other Point3) Point3 {
	return Point3{p[0] - other[0], p[1] - other[1], p[2] - other[2]}
}

func (p Point3) Mul(s int32) Point3 { return Point3{p[0] * s, p[1] * s, p[2] * s} }

func (p Point3) Min(other Point3) Point3 {
	return Point3{min(p[0], other[0]), min(p[1], other[1]), min(p[2], other[2])}
}

func (p Point3) Max(other Point3) Point3 {
	return Point3{max(p[0], other[0]), max(p[1], other[1]), max(p[2], other[2])}
}

func (p Point3) Dims() int { return 3 }

func (p Point3) At(i int) int32 { return p[i] }

func (p Point3) With(i int, v int32) Point3 {
	p[i] = v
	return p
}

func (p Point3) String() string { return fmt.Sprintf("(%d, %d, %d)", p[0], p[1], p[2]) }

// --------------------------------------------------------------------------
// Helper Functions
// --------------------------------------------------------------------------

// Uniform returns the point with every component set to v.
func Uniform[P Point[P]](v int32) P {
	var p P
	for i := 0; i < p.Dims(); i++ {
		p = p.With(i, v)
	}
	return p
}

// Volume returns the product of all components. Negative components are
// clamped to zero, so the result of applying Volume to a shape is always the
// number of points the shape spans.
func Volume[P Point[P]](p P) int64 {
	v := int64(1)
	for i := 0; i < p.Dims(); i++ {
		c := int64(p.At(i))
		if c < 0 {
			return 0
		}
		v *= c
	}
	return v
}
