package sample

import (
	"fmt"
	"math"
	"reflect"

	"github.com/ValentinKolb/chunkDB/lib/chunk"
	"github.com/ValentinKolb/chunkDB/lib/chunkmap"
	"github.com/ValentinKolb/chunkDB/lib/geom"
)

// --------------------------------------------------------------------------
// Samplers
// --------------------------------------------------------------------------

// PointSampler picks the value at the even-coordinate corner of each cell.
// It is the cheapest sampler and keeps exact source values, at the price
// of aliasing in the result.
type PointSampler[T chunk.Value, P geom.Point[P]] struct{}

func (PointSampler[T, P]) Sample(src *chunk.Array[T, P], cellMin P) T {
	return src.Get(cellMin)
}

// MeanSampler averages the cell in a float64 accumulator. Integer value
// types round the mean to the nearest value, float types keep the exact
// mean. Smooth data such as signed distance fields downsamples best with
// this sampler.
type MeanSampler[T chunk.Value, P geom.Point[P]] struct{}

func (MeanSampler[T, P]) Sample(src *chunk.Array[T, P], cellMin P) T {
	sum := 0.0
	count := 0
	geom.NewExtent(cellMin, geom.Uniform[P](2)).ForEach(func(p P) bool {
		sum += float64(src.Get(p))
		count++
		return true
	})
	return roundToValue[T](sum / float64(count))
}

// --------------------------------------------------------------------------
// Downsampling
// --------------------------------------------------------------------------

// Downsample writes the half-resolution image of the source region into the
// destination map: destination point p receives the sample of the source
// cell at 2p. The extent selects which source chunks are downsampled; every
// occupied chunk intersecting it is rendered whole. Chunks the source never
// materialized produce no destination writes, so the result is as sparse as
// the source.
//
// The source chunk shape must be at least 2 per axis so that cells never
// straddle chunk borders. The destination map may use any chunk shape and
// is written through its public interface only.
func Downsample[T chunk.Value, P geom.Point[P]](src, dst chunkmap.IChunkMap[T, P], e geom.Extent[P], sampler ISampler[T, P]) error {
	shape := src.ChunkShape()
	for i := 0; i < shape.Dims(); i++ {
		if shape.At(i) < 2 {
			return fmt.Errorf("downsampling needs a source chunk shape of at least 2 per axis, got %v", shape)
		}
	}
	indexer, err := chunk.NewIndexer(shape)
	if err != nil {
		return err
	}

	for _, key := range src.OccupiedKeysIn(e) {
		srcExtent := indexer.ExtentOf(key)
		arr, err := src.ReadExtent(srcExtent)
		if err != nil {
			return err
		}

		// the chunk minimum and shape are even per axis, so its half
		// resolution footprint is exact
		dstExtent := geom.Extent[P]{
			Min:   halfPoint(srcExtent.Min),
			Shape: halfPoint(srcExtent.Shape),
		}
		var setErr error
		dstExtent.ForEach(func(q P) bool {
			setErr = dst.Set(q, sampler.Sample(arr, q.Mul(2)))
			return setErr == nil
		})
		if setErr != nil {
			return setErr
		}
	}
	return nil
}

// --------------------------------------------------------------------------
// Helper Functions
// --------------------------------------------------------------------------

// halfPoint halves every component with an arithmetic shift, exact for
// even components
func halfPoint[P geom.Point[P]](p P) P {
	half := p
	for i := 0; i < p.Dims(); i++ {
		half = half.With(i, p.At(i)>>1)
	}
	return half
}

// roundToValue converts the accumulated mean back to the value type
func roundToValue[T chunk.Value](v float64) T {
	var zero T
	switch reflect.TypeOf(zero).Kind() {
	case reflect.Float32, reflect.Float64:
		return T(v)
	default:
		return T(math.Round(v))
	}
}
