package chunkmap

import (
	"github.com/ValentinKolb/chunkDB/lib/cache"
	"github.com/ValentinKolb/chunkDB/lib/chunk"
	"github.com/ValentinKolb/chunkDB/lib/geom"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// CacheFactory is a function type that creates the cache engine used by the
// map. This is used to abstract the creation of the cache from the map
// implementation. The map passes in the chunk volume and ambient value the
// engine must be configured with; capacity, codec and event settings are up
// to the factory.
type CacheFactory[T chunk.Value, P geom.Point[P]] func(chunkVolume int, ambient T) (cache.ICache[T, P], error)

// IChunkMap is the generic interface for interacting with a sparse map of
// values on an integer lattice. Points covered by no chunk read as the
// ambient value, and reading them never creates a chunk.
// All write operations return only a *cache.Error (nil on success),
// while read operations return the requested data along with a *cache.Error (nil on success).
type IChunkMap[T chunk.Value, P geom.Point[P]] interface {
	// Get returns the value at a world point. Points covered by no chunk read as the ambient value.
	Get(p P) (value T, err error)
	// Set writes the value at a world point, materializing the chunk if needed.
	Set(p P, value T) (err error)
	// Fill writes the value to every point of the extent, materializing chunks as needed.
	Fill(e geom.Extent[P], value T) (err error)
	// ForEach visits every point of the extent exactly once: chunk keys in the
	// deterministic key order, points within each chunk row-major with axis 0 fastest.
	// Points of absent chunks are visited with the ambient value.
	// The visitor returns false to stop early; stopping early is not an error.
	ForEach(e geom.Extent[P], visit func(p P, value T) bool) (err error)
	// ReadExtent copies the extent into a newly allocated dense array. Points covered
	// by no chunk are filled with the ambient value.
	ReadExtent(e geom.Extent[P]) (arr *chunk.Array[T, P], err error)
	// OccupiedKeys returns every chunk key holding data, sorted in the deterministic key order.
	OccupiedKeys() (keys []P)
	// OccupiedKeysIn returns the occupied chunk keys whose chunks intersect the extent,
	// in the deterministic key order. The cost is proportional to the number of chunk keys
	// covering the extent, never to the number of points.
	OccupiedKeysIn(e geom.Extent[P]) (keys []P)
	// Bounds returns the tight world extent covering every occupied chunk.
	// The boolean return value is false iff the map holds no chunks.
	Bounds() (bounds geom.Extent[P], ok bool)
	// Flush writes every dirty chunk back to its compressed form via the cache engine.
	Flush() (err error)
	// Events returns the cache engine's chunk lifecycle event channel, or nil if the
	// engine does not support events.
	Events() (events <-chan *cache.Event[P])
	// GetInfo returns metadata about the cache engine underlying the map.
	GetInfo() (info cache.Info)
	// Ambient returns the value absent points read as.
	Ambient() (value T)
	// ChunkShape returns the fixed shape of every chunk.
	ChunkShape() (shape P)
	// Close closes the underlying cache engine. Subsequent operations fail.
	Close() (err error)
}
