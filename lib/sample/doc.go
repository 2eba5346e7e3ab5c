// Package sample provides half-resolution downsampling of chunk maps,
// producing level-of-detail pyramids from full-resolution source data.
//
// Downsampling maps every 2x2 (2D) or 2x2x2 (3D) cell of source points to
// one destination point: destination point p is produced from the source
// cell at 2p. How a cell collapses into one value is decided by an
// ISampler implementation:
//
//   - PointSampler: picks the even-coordinate corner value. Exact source
//     values, cheapest, aliases high-frequency data.
//   - MeanSampler: averages the cell. Best for smooth data such as signed
//     distance fields or height maps.
//
// Downsample walks the occupied chunks of the source map, so the cost and
// the sparsity of the result follow the occupied region, never the world
// bounds. Repeated application produces a resolution pyramid:
//
//	half, _ := chunkmap.NewChunkMap(&chunkmap.Options[float32, geom.Point3]{
//		ChunkShape: full.ChunkShape(),
//	})
//	err := sample.Downsample(full, half, region, sample.MeanSampler[float32, geom.Point3]{})
package sample
