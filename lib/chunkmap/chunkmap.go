package chunkmap

import (
	"sort"

	"github.com/ValentinKolb/chunkDB/lib/cache"
	"github.com/ValentinKolb/chunkDB/lib/cache/engines/birch"
	"github.com/ValentinKolb/chunkDB/lib/chunk"
	"github.com/ValentinKolb/chunkDB/lib/geom"
)

// --------------------------------------------------------------------------
// Options
// --------------------------------------------------------------------------

// Options configures a chunk map during initialization
type Options[T chunk.Value, P geom.Point[P]] struct {
	ChunkShape P                  // Fixed shape of every chunk (positive power of two per axis)
	Ambient    T                  // Value absent points read as
	Cache      CacheFactory[T, P] // Creates the cache engine (nil = bounded birch cache with defaults)
}

// DefaultOptions returns the default chunk map options: cubic chunks of 16
// values per axis and the zero value as ambient.
func DefaultOptions[T chunk.Value, P geom.Point[P]]() *Options[T, P] {
	return &Options[T, P]{
		ChunkShape: geom.Uniform[P](16),
	}
}

// --------------------------------------------------------------------------
// Initialization and Setup
// --------------------------------------------------------------------------

// mapImpl implements the IChunkMap interface
type mapImpl[T chunk.Value, P geom.Point[P]] struct {
	indexer chunk.Indexer[P]
	cache   cache.ICache[T, P]
	ambient T
}

// NewChunkMap creates a new chunk map with the specified options (optional).
// It returns an error if the chunk shape is not a positive power of two per
// axis, or if the cache factory fails.
func NewChunkMap[T chunk.Value, P geom.Point[P]](opts *Options[T, P]) (IChunkMap[T, P], error) {
	if opts == nil {
		opts = DefaultOptions[T, P]()
	}

	indexer, err := chunk.NewIndexer(opts.ChunkShape)
	if err != nil {
		return nil, cache.NewError(cache.RetCCapacityMisconfiguration, err.Error())
	}

	factory := opts.Cache
	if factory == nil {
		factory = func(chunkVolume int, ambient T) (cache.ICache[T, P], error) {
			engineOpts := birch.DefaultOptions[T]()
			engineOpts.ChunkVolume = chunkVolume
			engineOpts.Ambient = ambient
			return birch.NewBirchCache[T, P](engineOpts)
		}
	}

	// the engine must agree with the indexer on the payload size, so the
	// volume is derived from the chunk shape and handed to the factory
	engine, err := factory(indexer.ChunkVolume(), opts.Ambient)
	if err != nil {
		return nil, err
	}

	return &mapImpl[T, P]{
		indexer: indexer,
		cache:   engine,
		ambient: opts.Ambient,
	}, nil
}

// ---------------------------------------------------------------------------
// Interface Methods (docu see chunkmap/interface.go)
// ---------------------------------------------------------------------------

func (m *mapImpl[T, P]) Get(p P) (T, error) {
	value := m.ambient
	_, err := m.cache.View(m.indexer.KeyOf(p), func(data []T) {
		value = data[m.indexer.OffsetOf(p)]
	})
	if err != nil {
		return m.ambient, err
	}
	return value, nil
}

func (m *mapImpl[T, P]) Set(p P, value T) error {
	return m.cache.Modify(m.indexer.KeyOf(p), func(data []T) {
		data[m.indexer.OffsetOf(p)] = value
	})
}

func (m *mapImpl[T, P]) Fill(e geom.Extent[P], value T) error {
	var fillErr error
	m.indexer.KeyRangeOf(e).ForEach(func(key P) bool {
		target := e.Intersect(m.indexer.ExtentOf(key))
		fillErr = m.cache.Modify(key, func(data []T) {
			chunk.ArrayFromData(m.indexer.ExtentOf(key), data).FillExtent(target, value)
		})
		return fillErr == nil
	})
	return fillErr
}

func (m *mapImpl[T, P]) ForEach(e geom.Extent[P], visit func(p P, value T) bool) error {
	var iterErr error
	m.indexer.KeyRangeOf(e).ForEach(func(key P) bool {
		target := e.Intersect(m.indexer.ExtentOf(key))
		resume := true
		loaded, err := m.cache.View(key, func(data []T) {
			resume = chunk.ArrayFromData(m.indexer.ExtentOf(key), data).ForEach(target, visit)
		})
		if err != nil {
			iterErr = err
			return false
		}
		if !loaded {
			// absent chunk, every point of it reads as the ambient value
			resume = target.ForEach(func(p P) bool {
				return visit(p, m.ambient)
			})
		}
		return resume
	})
	return iterErr
}

func (m *mapImpl[T, P]) ReadExtent(e geom.Extent[P]) (*chunk.Array[T, P], error) {
	out := chunk.NewArray(e, m.ambient)
	var readErr error
	m.indexer.KeyRangeOf(e).ForEach(func(key P) bool {
		_, readErr = m.cache.View(key, func(data []T) {
			out.CopyFrom(chunk.ArrayFromData(m.indexer.ExtentOf(key), data))
		})
		return readErr == nil
	})
	if readErr != nil {
		return nil, readErr
	}
	return out, nil
}

func (m *mapImpl[T, P]) OccupiedKeys() []P {
	keys := m.cache.Keys()
	sortKeys(keys)
	return keys
}

func (m *mapImpl[T, P]) OccupiedKeysIn(e geom.Extent[P]) []P {
	var keys []P
	m.indexer.KeyRangeOf(e).ForEach(func(key P) bool {
		if m.cache.Contains(key) {
			keys = append(keys, key)
		}
		return true
	})
	return keys
}

func (m *mapImpl[T, P]) Bounds() (geom.Extent[P], bool) {
	keyBounds, ok := geom.BoundingExtent(m.cache.Keys())
	if !ok {
		return geom.Extent[P]{}, false
	}
	return geom.ExtentFromMinAndLub(
		m.indexer.MinOf(keyBounds.Min),
		m.indexer.MinOf(keyBounds.Max()).Add(m.indexer.ChunkShape()),
	), true
}

func (m *mapImpl[T, P]) Flush() error {
	if !m.cache.SupportsFeature(cache.FeatureFlush) {
		return cache.NewError(cache.RetCUnsupportedOperation, "flush operation is not supported by the cache engine")
	}
	return m.cache.Flush()
}

func (m *mapImpl[T, P]) Events() <-chan *cache.Event[P] {
	return m.cache.Events()
}

func (m *mapImpl[T, P]) GetInfo() cache.Info {
	return m.cache.GetInfo()
}

func (m *mapImpl[T, P]) Ambient() T {
	return m.ambient
}

func (m *mapImpl[T, P]) ChunkShape() P {
	return m.indexer.ChunkShape()
}

func (m *mapImpl[T, P]) Close() error {
	return m.cache.Close()
}

// ---------------------------------------------------------------------------
// Helper Functions
// ---------------------------------------------------------------------------

// sortKeys orders chunk keys in the deterministic key order: the highest
// axis varies slowest, axis 0 fastest.
func sortKeys[P geom.Point[P]](keys []P) {
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		for axis := a.Dims() - 1; axis >= 0; axis-- {
			if a.At(axis) != b.At(axis) {
				return a.At(axis) < b.At(axis)
			}
		}
		return false
	})
}
