package chunk

import (
	"github.com/ValentinKolb/chunkDB/lib/geom"
)

// --------------------------------------------------------------------------
// Window Type
// --------------------------------------------------------------------------

// Window is a zero-copy view of a sub-extent of an Array. It shares the
// array's backing storage and restricts all operations to its bounds, which
// lets callers hand out access to a region of a chunk (or of an assembled
// multi-chunk array) without copying and without exposing the rest of the
// data.
type Window[T any, P geom.Point[P]] struct {
	src    *Array[T, P]
	bounds geom.Extent[P]
}

// Window returns a view of the intersection of sub with the array's extent.
func (a *Array[T, P]) Window(sub geom.Extent[P]) *Window[T, P] {
	return &Window[T, P]{src: a, bounds: a.extent.Intersect(sub)}
}

// Extent returns the region covered by the window.
func (w *Window[T, P]) Extent() geom.Extent[P] { return w.bounds }

// Get returns the value at a world point. It panics for points outside the
// window's bounds, even if the underlying array covers them.
func (w *Window[T, P]) Get(p P) T {
	w.check(p)
	return w.src.Get(p)
}

// Set writes the value at a world point. It panics for points outside the
// window's bounds.
func (w *Window[T, P]) Set(p P, v T) {
	w.check(p)
	w.src.Set(p, v)
}

// Fill sets every value inside the window to v.
func (w *Window[T, P]) Fill(v T) { w.src.FillExtent(w.bounds, v) }

// ForEach visits every point of the window in the deterministic iteration
// order. The visitor returns false to stop early.
func (w *Window[T, P]) ForEach(visit func(p P, v T) bool) bool {
	return w.src.ForEach(w.bounds, visit)
}

func (w *Window[T, P]) check(p P) {
	if !w.bounds.Contains(p) {
		panic("chunk: point outside window bounds")
	}
}
