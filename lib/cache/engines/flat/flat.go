package flat

import (
	"fmt"
	"github.com/ValentinKolb/chunkDB/lib/cache"
	"github.com/ValentinKolb/chunkDB/lib/cache/util"
	"github.com/ValentinKolb/chunkDB/lib/chunk"
	"github.com/ValentinKolb/chunkDB/lib/geom"
	"github.com/puzpuzpuz/xsync/v3"
	"sync"
	"sync/atomic"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	defaultChunkVolume = 4096 // Default number of elements per chunk payload
)

// --------------------------------------------------------------------------
// Core Flat cache structure
// --------------------------------------------------------------------------

// entry stores a single always-resident chunk
type entry[T any] struct {
	mu    sync.Mutex
	data  []T  // Decoded payload
	dirty bool // Payload modified since the last flush
	gone  bool // Entry was removed from the cache, holders of a stale pointer must retry
}

// flatImpl implements an unbounded chunk cache that keeps every chunk resident.
// It trades memory for speed: no eviction, no compression, no codec.
type flatImpl[T chunk.Value, P geom.Point[P]] struct {
	chunkVolume int    // Number of elements per chunk payload
	ambient     T      // Value absent chunks read as
	seed        uint64 // Seed for hash function

	entries *xsync.MapOf[P, *entry[T]] // Map of all chunks

	closed     atomic.Bool // atomic flag
	dirtyCount atomic.Int64
}

// Options configures the flatImpl behavior during initialization
type Options[T chunk.Value] struct {
	ChunkVolume int // Number of elements per chunk payload (must be at least 1)
	Ambient     T   // Value absent chunks read as
}

// DefaultOptions returns the default flatImpl options
func DefaultOptions[T chunk.Value]() *Options[T] {
	return &Options[T]{
		ChunkVolume: defaultChunkVolume,
	}
}

// --------------------------------------------------------------------------
// Initialization and Setup
// --------------------------------------------------------------------------

// NewFlatCache creates a new flat cache instance with the specified options (optional).
// It returns an error if the chunk volume is not a positive number.
//
// Thread-safety: This function is not thread-safe and should only be called once
// during initialization.
func NewFlatCache[T chunk.Value, P geom.Point[P]](opts *Options[T]) (cache.ICache[T, P], error) {

	// Generate default options if not provided
	if opts == nil {
		opts = DefaultOptions[T]()
	}

	if opts.ChunkVolume < 1 {
		return nil, cache.NewError(cache.RetCCapacityMisconfiguration,
			fmt.Sprintf("chunk volume must be at least 1, got %d", opts.ChunkVolume))
	}

	seed := util.GenerateSeed()

	return &flatImpl[T, P]{
		chunkVolume: opts.ChunkVolume,
		ambient:     opts.Ambient,
		seed:        seed,
		entries: xsync.NewMapOfWithHasher[P, *entry[T]](func(key P, mapSeed uint64) uint64 {
			return util.HashPoint(key, seed^mapSeed)
		}),
	}, nil
}

// --------------------------------------------------------------------------
// Core ICache Interface Methods - Chunk Access
// --------------------------------------------------------------------------

// Modify runs fn on the chunk's payload and marks the chunk as dirty.
// A chunk that does not exist yet is materialized with every element set to the
// ambient value.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (flat *flatImpl[T, P]) Modify(key P, fn func(data []T)) error {
	if flat.closed.Load() {
		return cache.NewError(cache.RetCInvalidOperation, "cache is closed")
	}

	for {
		e, loaded := flat.entries.LoadOrCompute(key, func() *entry[T] {
			// new entries are published locked so no other goroutine can
			// observe them before they are materialized
			ne := &entry[T]{}
			ne.mu.Lock()
			return ne
		})

		if !loaded {
			data := make([]T, flat.chunkVolume)
			var zero T
			if flat.ambient != zero {
				for i := range data {
					data[i] = flat.ambient
				}
			}
			e.data = data
		} else {
			e.mu.Lock()
			if e.gone {
				// the entry was pruned between lookup and lock, retry
				e.mu.Unlock()
				continue
			}
		}

		if !e.dirty {
			e.dirty = true
			flat.dirtyCount.Add(1)
		}
		fn(e.data)
		e.mu.Unlock()
		return nil
	}
}

// View runs fn on the chunk's payload without marking the chunk dirty.
// The returned bool indicates whether a chunk for the key was found, if it is
// false the caller should treat every element as the ambient value.
// An absent chunk is never materialized.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (flat *flatImpl[T, P]) View(key P, fn func(data []T)) (bool, error) {
	if flat.closed.Load() {
		return false, cache.NewError(cache.RetCInvalidOperation, "cache is closed")
	}

	for {
		e, ok := flat.entries.Load(key)
		if !ok {
			return false, nil
		}

		e.mu.Lock()
		if e.gone {
			e.mu.Unlock()
			continue
		}

		fn(e.data)
		e.mu.Unlock()
		return true, nil
	}
}

// Contains checks whether a chunk exists for the key.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (flat *flatImpl[T, P]) Contains(key P) bool {
	_, ok := flat.entries.Load(key)
	return ok
}

// --------------------------------------------------------------------------
// Core ICache Interface Methods - Maintenance Operations
// --------------------------------------------------------------------------

// Keys returns a snapshot of all keys with a chunk.
// The order of the returned keys is undefined.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (flat *flatImpl[T, P]) Keys() []P {
	keys := make([]P, 0, flat.entries.Size())
	flat.entries.Range(func(key P, _ *entry[T]) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Flush drops every chunk whose payload is fully ambient and clears the dirty
// flags. There is nothing to write back since every chunk stays resident.
// Only chunks modified since the last flush are scanned: a clean chunk was
// checked at its last flush and cannot have become fully ambient since.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (flat *flatImpl[T, P]) Flush() error {
	if flat.closed.Load() {
		return cache.NewError(cache.RetCInvalidOperation, "cache is closed")
	}

	flat.entries.Range(func(key P, e *entry[T]) bool {
		e.mu.Lock()
		if e.gone || !e.dirty {
			e.mu.Unlock()
			return true
		}

		if chunk.PayloadAllEqual(e.data, flat.ambient) {
			e.gone = true
			flat.entries.Delete(key)
			e.data = nil
		}

		e.dirty = false
		flat.dirtyCount.Add(-1)
		e.mu.Unlock()
		return true
	})

	return nil
}

// --------------------------------------------------------------------------
// Event Stream
// --------------------------------------------------------------------------

// Events returns nil, the flat cache does not publish lifecycle events.
func (flat *flatImpl[T, P]) Events() <-chan *cache.Event[P] {
	return nil
}

// --------------------------------------------------------------------------
// ICache Interface Implementation - Features and Metadata
// --------------------------------------------------------------------------

// GetInfo returns statistics about the cache
func (flat *flatImpl[T, P]) GetInfo() cache.Info {
	chunkCount := flat.entries.Size()

	// Metadata for this specific cache implementation
	meta := &struct {
		ChunkVolume    int    `json:"chunk_volume"`
		EstimatedBytes int    `json:"estimated_bytes"`
		Info           string `json:"info"`
	}{
		ChunkVolume:    flat.chunkVolume,
		EstimatedBytes: chunkCount * flat.chunkVolume * chunk.ValueSize[T](),
		Info:           "All values are estimates and may vary depending on the cache state.",
	}

	return cache.Info{
		Engine:            cache.ImplFlat,
		ChunkCount:        chunkCount,
		ResidentCount:     chunkCount,
		DirtyCount:        int(flat.dirtyCount.Load()),
		StoredBytes:       0,
		SupportedFeatures: []cache.Feature{cache.FeatureFlush, cache.FeaturePrune},
		Metadata:          meta,
	}
}

// SupportsFeature checks if this implementation supports a specific cache feature
func (flat *flatImpl[T, P]) SupportsFeature(feature cache.Feature) bool {
	supportedFeatures := cache.FeatureFlush | cache.FeaturePrune
	return supportedFeatures&feature == feature
}

// Close discards all chunks. Subsequent operations fail with
// RetCInvalidOperation.
//
// Thread-safety: This method should only be called after all other operations
// have completed.
func (flat *flatImpl[T, P]) Close() error {
	if !flat.closed.CompareAndSwap(false, true) {
		return nil
	}

	flat.entries.Range(func(key P, e *entry[T]) bool {
		e.mu.Lock()
		if !e.gone {
			e.gone = true
			flat.entries.Delete(key)
			if e.dirty {
				e.dirty = false
				flat.dirtyCount.Add(-1)
			}
			e.data = nil
		}
		e.mu.Unlock()
		return true
	})

	return nil
}
