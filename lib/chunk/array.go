package chunk

import (
	"fmt"

	"github.com/ValentinKolb/chunkDB/lib/geom"
)

// --------------------------------------------------------------------------
// Array Type
// --------------------------------------------------------------------------

// Array is a dense block of values anchored at an extent of the lattice.
// The values are stored in a flat slice in the same row-major order used by
// Extent.ForEach (axis 0 varies fastest), so walking the extent and walking
// the slice in lockstep visit the same points.
//
// Every chunk of a map is an Array whose extent is the chunk's extent, but
// the type is also used standalone for assembled multi-chunk regions (see
// chunkmap.ReadExtent).
//
// Thread-safety: an Array is not synchronized; callers must serialize
// concurrent access (the cache engines do this per chunk key).
type Array[T any, P geom.Point[P]] struct {
	extent  geom.Extent[P]
	strides []int
	data    []T
}

// NewArray creates an array covering the given extent with every value set
// to fill.
func NewArray[T any, P geom.Point[P]](extent geom.Extent[P], fill T) *Array[T, P] {
	a := newArrayUnfilled[T](extent)
	for i := range a.data {
		a.data[i] = fill
	}
	return a
}

// ArrayFromData creates an array covering the given extent backed directly
// by the provided slice (no copy). It panics if the slice length does not
// match the number of points in the extent.
func ArrayFromData[T any, P geom.Point[P]](extent geom.Extent[P], data []T) *Array[T, P] {
	if int64(len(data)) != extent.NumPoints() {
		panic(fmt.Sprintf("chunk: data length %d does not match extent %v with %d points",
			len(data), extent, extent.NumPoints()))
	}
	a := &Array[T, P]{extent: extent, data: data}
	a.initStrides()
	return a
}

func newArrayUnfilled[T any, P geom.Point[P]](extent geom.Extent[P]) *Array[T, P] {
	a := &Array[T, P]{
		extent: extent,
		data:   make([]T, extent.NumPoints()),
	}
	a.initStrides()
	return a
}

func (a *Array[T, P]) initStrides() {
	dims := a.extent.Min.Dims()
	a.strides = make([]int, dims)
	stride := 1
	for i := 0; i < dims; i++ {
		a.strides[i] = stride
		stride *= int(a.extent.Shape.At(i))
	}
}

// --------------------------------------------------------------------------
// Accessors
// --------------------------------------------------------------------------

// Extent returns the region covered by the array.
func (a *Array[T, P]) Extent() geom.Extent[P] { return a.extent }

// Data returns the backing slice in layout order. The slice is shared with
// the array, not copied.
func (a *Array[T, P]) Data() []T { return a.data }

// LinearOffset converts a world point within the array's extent to its flat
// slice index. It panics for points outside the extent; the array never
// touches memory outside its own allocation.
func (a *Array[T, P]) LinearOffset(p P) int {
	off := 0
	for i := 0; i < p.Dims(); i++ {
		d := int(p.At(i) - a.extent.Min.At(i))
		if d < 0 || d >= int(a.extent.Shape.At(i)) {
			panic(fmt.Sprintf("chunk: point %v outside array extent %v", p, a.extent))
		}
		off += d * a.strides[i]
	}
	return off
}

// PointAtOffset converts a flat slice index back to the world point it
// addresses. It is the inverse of LinearOffset.
func (a *Array[T, P]) PointAtOffset(off int) P {
	if off < 0 || off >= len(a.data) {
		panic(fmt.Sprintf("chunk: offset %d outside array of length %d", off, len(a.data)))
	}
	p := a.extent.Min
	for i := 0; i < p.Dims(); i++ {
		size := int(a.extent.Shape.At(i))
		p = p.With(i, a.extent.Min.At(i)+int32(off%size))
		off /= size
	}
	return p
}

// Get returns the value at a world point. It panics for points outside the
// array's extent.
func (a *Array[T, P]) Get(p P) T { return a.data[a.LinearOffset(p)] }

// Set writes the value at a world point. It panics for points outside the
// array's extent.
func (a *Array[T, P]) Set(p P, v T) { a.data[a.LinearOffset(p)] = v }

// --------------------------------------------------------------------------
// Bulk Operations
// --------------------------------------------------------------------------

// Fill sets every value of the array to v.
func (a *Array[T, P]) Fill(v T) {
	for i := range a.data {
		a.data[i] = v
	}
}

// FillExtent sets every value in the intersection of sub with the array's
// extent to v. Points of sub outside the array are ignored.
func (a *Array[T, P]) FillExtent(sub geom.Extent[P], v T) {
	a.forEachRow(sub, func(base int, run int, _ P) bool {
		row := a.data[base : base+run]
		for i := range row {
			row[i] = v
		}
		return true
	})
}

// ForEach visits every point in the intersection of sub with the array's
// extent, in the deterministic iteration order, passing the point and its
// value. The visitor returns false to stop early; ForEach returns false iff
// it was stopped.
func (a *Array[T, P]) ForEach(sub geom.Extent[P], visit func(p P, v T) bool) bool {
	return a.forEachRow(sub, func(base int, run int, start P) bool {
		for i := 0; i < run; i++ {
			if !visit(start.With(0, start.At(0)+int32(i)), a.data[base+i]) {
				return false
			}
		}
		return true
	})
}

// Update visits every point like ForEach but allows the visitor to replace
// the value in place.
func (a *Array[T, P]) Update(sub geom.Extent[P], f func(p P, v T) T) {
	a.forEachRow(sub, func(base int, run int, start P) bool {
		for i := 0; i < run; i++ {
			a.data[base+i] = f(start.With(0, start.At(0)+int32(i)), a.data[base+i])
		}
		return true
	})
}

// CopyFrom copies the values of src over the intersection of both extents.
// Rows are copied as contiguous slices.
func (a *Array[T, P]) CopyFrom(src *Array[T, P]) {
	inter := a.extent.Intersect(src.extent)
	a.forEachRow(inter, func(base int, run int, start P) bool {
		srcBase := src.LinearOffset(start)
		copy(a.data[base:base+run], src.data[srcBase:srcBase+run])
		return true
	})
}

// forEachRow decomposes the intersection of sub with the array's extent into
// contiguous axis-0 runs and passes each run's base offset, length and start
// point to f. This is the strided walk behind all bulk operations: only the
// row starts pay the full offset computation.
func (a *Array[T, P]) forEachRow(sub geom.Extent[P], f func(base int, run int, start P) bool) bool {
	inter := a.extent.Intersect(sub)
	if inter.IsEmpty() {
		return true
	}
	run := int(inter.Shape.At(0))
	rows := geom.Extent[P]{Min: inter.Min, Shape: inter.Shape.With(0, 1)}
	return rows.ForEach(func(start P) bool {
		return f(a.LinearOffset(start), run, start)
	})
}
