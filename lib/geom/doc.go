// Package geom provides the integer lattice arithmetic underlying the
// chunked storage engine: fixed-dimension points and axis-aligned regions
// ("extents").
//
// The package focuses on:
//   - Value-type points for the 2D and 3D lattice (Point2, Point3)
//   - A shared Point constraint so higher layers are written once for
//     both dimensions
//   - Half-open axis-aligned extents with intersection, bounding and
//     deterministic iteration
//
// Key Components:
//
//   - Point2 / Point3: immutable lattice points backed by int32 arrays.
//     All arithmetic is component-wise. Components must stay within
//     |c| <= 2^30 for the arithmetic to be overflow-free; outside this
//     range behavior is unspecified.
//
//   - Point Constraint: the generic constraint implemented by Point2 and
//     Point3. Algorithms in the chunk, cache and chunkmap packages are
//     parameterized over it, so the whole engine works for 2D and 3D
//     worlds without duplicated code.
//
//   - Extent: an axis-aligned half-open region [Min, Min+Shape). Extents
//     iterate their points in a fixed row-major order (axis 0 fastest,
//     i.e. x, then y, then z). This order is identical to the flat layout
//     of dense chunk payloads, which lets extent walks and payload walks
//     run in lockstep.
//
// Contract violations (negative shapes, out-of-bounds axis indexes) are
// programming errors and panic instead of returning errors; all regular
// operations are total.
package geom
