package chunk

import (
	"fmt"
	"math/bits"

	"github.com/ValentinKolb/chunkDB/lib/geom"
)

// --------------------------------------------------------------------------
// Indexer Type
// --------------------------------------------------------------------------

// Indexer owns the address translation between world coordinates and
// (chunk key, local offset) pairs for one fixed chunk shape. Because the
// shape is a power of two per axis, keys are computed with arithmetic
// shifts and local offsets with bit masks; both round toward negative
// infinity, so the translation is exact for negative coordinates too.
//
// The same translation is used bit-for-bit on the read and the write path:
// MinOf(KeyOf(p)) + LocalOf(p) == p for every world point p.
type Indexer[P geom.Point[P]] struct {
	chunkShape P
	mask       P // per-axis low-bit mask (shape-1)
	log2       P // per-axis shift amount
}

// NewIndexer creates an indexer for the given chunk shape. Every component
// must be a positive power of two.
func NewIndexer[P geom.Point[P]](chunkShape P) (Indexer[P], error) {
	var mask, log2 P
	for i := 0; i < chunkShape.Dims(); i++ {
		s := chunkShape.At(i)
		if s < 1 || s&(s-1) != 0 {
			return Indexer[P]{}, fmt.Errorf("chunk shape component on axis %d must be a positive power of two, got %d", i, s)
		}
		mask = mask.With(i, s-1)
		log2 = log2.With(i, int32(bits.TrailingZeros32(uint32(s))))
	}
	return Indexer[P]{chunkShape: chunkShape, mask: mask, log2: log2}, nil
}

// ChunkShape returns the fixed chunk shape.
func (idx Indexer[P]) ChunkShape() P { return idx.chunkShape }

// ChunkVolume returns the number of values per chunk.
func (idx Indexer[P]) ChunkVolume() int { return int(geom.Volume(idx.chunkShape)) }

// --------------------------------------------------------------------------
// Address Translation
// --------------------------------------------------------------------------

// KeyOf returns the chunk key containing the world point: the point
// floor-divided by the chunk shape, component-wise.
func (idx Indexer[P]) KeyOf(p P) P {
	key := p
	for i := 0; i < p.Dims(); i++ {
		key = key.With(i, p.At(i)>>uint(idx.log2.At(i)))
	}
	return key
}

// MinOf returns the minimum world point of the chunk with the given key,
// i.e. key * chunkShape.
func (idx Indexer[P]) MinOf(key P) P {
	min := key
	for i := 0; i < key.Dims(); i++ {
		min = min.With(i, key.At(i)<<uint(idx.log2.At(i)))
	}
	return min
}

// LocalOf returns the offset of the world point within its chunk, i.e.
// p - MinOf(KeyOf(p)). Always non-negative.
func (idx Indexer[P]) LocalOf(p P) P {
	local := p
	for i := 0; i < p.Dims(); i++ {
		local = local.With(i, p.At(i)&idx.mask.At(i))
	}
	return local
}

// ExtentOf returns the world extent covered by the chunk with the given key.
func (idx Indexer[P]) ExtentOf(key P) geom.Extent[P] {
	return geom.Extent[P]{Min: idx.MinOf(key), Shape: idx.chunkShape}
}

// OffsetOf returns the flat payload index of the world point within its
// chunk. The layout matches Array: row-major with axis 0 varying fastest,
// so OffsetOf(p) equals the linear offset of LocalOf(p) in an array of
// the chunk shape.
func (idx Indexer[P]) OffsetOf(p P) int {
	off := 0
	stride := 1
	for i := 0; i < p.Dims(); i++ {
		off += int(p.At(i)&idx.mask.At(i)) * stride
		stride *= int(idx.chunkShape.At(i))
	}
	return off
}

// KeyRangeOf returns the extent in key space covering every chunk that
// intersects the world extent. Iterating the result visits the keys in the
// deterministic order (axis 0 fastest). The result is empty iff the input
// is empty.
func (idx Indexer[P]) KeyRangeOf(e geom.Extent[P]) geom.Extent[P] {
	if e.IsEmpty() {
		return geom.Extent[P]{}
	}
	return geom.ExtentFromMinAndMax(idx.KeyOf(e.Min), idx.KeyOf(e.Max()))
}
