// Package chunk provides the dense storage unit of the engine: fixed-shape
// arrays of values anchored on the lattice, zero-copy windows into them, the
// address translation between world coordinates and chunk-local storage, and
// the byte encoding of dense payloads for the compression codecs.
//
// Key Components:
//
//   - Array: a dense block of values covering an extent, laid out in the
//     same row-major order as extent iteration (axis 0 fastest). Supports
//     point access, bulk fills, strided iteration over sub-extents and
//     intersection copies. No operation touches memory outside the array's
//     own allocation; bounds violations panic.
//
//   - Window: a zero-copy view restricting an Array to a sub-extent, used
//     to hand out regional access without copying.
//
//   - Indexer: power-of-two chunk addressing. Chunk keys are world points
//     floor-divided by the chunk shape (arithmetic shifts), local offsets
//     are bit masks; correct for negative coordinates. KeyRangeOf maps a
//     world extent to the extent of chunk keys it touches.
//
//   - Value / EncodePayload / DecodePayload: the constraint for storable
//     element types (fixed-width integers and floats) and the lossless
//     little-endian byte encoding of payloads, which is what the codec
//     capability compresses.
//
// The package has no concurrency of its own; synchronization happens in the
// cache engines that own the chunks.
package chunk
