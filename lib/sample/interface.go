package sample

import (
	"github.com/ValentinKolb/chunkDB/lib/chunk"
	"github.com/ValentinKolb/chunkDB/lib/geom"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// ISampler produces one destination value per source cell during
// half-resolution downsampling. A cell is the 2x2 (2D) or 2x2x2 (3D) block
// of source points whose minimum corner has even coordinates; destination
// point p corresponds to the source cell at 2p.
type ISampler[T chunk.Value, P geom.Point[P]] interface {
	// Sample returns the destination value for the source cell with minimum
	// corner cellMin. The array contains the full cell.
	Sample(src *chunk.Array[T, P], cellMin P) (value T)
}
