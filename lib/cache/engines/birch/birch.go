package birch

import (
	"fmt"
	"github.com/ValentinKolb/chunkDB/lib/cache"
	"github.com/ValentinKolb/chunkDB/lib/cache/engines/birch/internal"
	"github.com/ValentinKolb/chunkDB/lib/cache/util"
	"github.com/ValentinKolb/chunkDB/lib/chunk"
	"github.com/ValentinKolb/chunkDB/lib/codec"
	"github.com/ValentinKolb/chunkDB/lib/geom"
	"github.com/VictoriaMetrics/metrics"
	"github.com/puzpuzpuz/xsync/v3"
	"runtime"
	"sync"
	"sync/atomic"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

// Constants for cache behavior and structure
const (
	defaultCapacity    = 1024 // Default maximum number of resident chunks
	defaultChunkVolume = 4096 // Default number of elements per chunk payload
)

// --------------------------------------------------------------------------
// Core Birch cache structure
// --------------------------------------------------------------------------

// birchImpl implements a bounded chunk cache with least-recently-used
// write-back eviction
type birchImpl[T chunk.Value, P geom.Point[P]] struct {
	capacity    int          // Maximum number of resident chunks
	chunkVolume int          // Number of elements per chunk payload
	ambient     T            // Value absent chunks read as
	codec       codec.ICodec // Codec for stored chunk bytes
	seed        uint64       // Seed for hash function

	entries *xsync.MapOf[P, *internal.Entry[T]] // Map of all chunks, resident and stored

	// recency tracking, guarded by recencyMu
	recencyMu sync.Mutex
	recency   *util.MapHeap[P] // Resident chunks ordered by last access
	clock     uint64           // Monotonic recency stamp source
	residents int              // Resident chunks including reserved slots

	closed atomic.Bool                        // atomic flag
	events *util.LockFreeMPSC[cache.Event[P]] // nil unless EmitEvents was set

	// bookkeeping for GetInfo
	dirtyCount  atomic.Int64
	storedBytes atomic.Int64
	histogram   *util.SizeHistogram

	// operation counters
	hits           *metrics.Counter
	misses         *metrics.Counter
	evictions      *metrics.Counter
	prunes         *metrics.Counter
	compressions   *metrics.Counter
	decompressions *metrics.Counter
}

// Options configures the birchImpl behavior during initialization
type Options[T chunk.Value] struct {
	Capacity    int          // Maximum number of resident chunks (must be at least 1)
	ChunkVolume int          // Number of elements per chunk payload (must be at least 1)
	Ambient     T            // Value absent chunks read as
	Codec       codec.ICodec // Codec for stored chunk bytes (nil = snappy)
	EmitEvents  bool         // Publish lifecycle events via Events() (requires a consumer)
	Metrics     *metrics.Set // Metrics set to register counters on (nil = private set)
}

// DefaultOptions returns the default birchImpl options
func DefaultOptions[T chunk.Value]() *Options[T] {
	return &Options[T]{
		Capacity:    defaultCapacity,
		ChunkVolume: defaultChunkVolume,
		Codec:       codec.NewSnappyCodec(),
	}
}

// --------------------------------------------------------------------------
// Initialization and Setup
// --------------------------------------------------------------------------

// NewBirchCache creates a new birch cache instance with the specified options (optional).
// It returns an error if the capacity or chunk volume is not a positive number.
//
// Thread-safety: This function is not thread-safe and should only be called once
// during initialization.
func NewBirchCache[T chunk.Value, P geom.Point[P]](opts *Options[T]) (cache.ICache[T, P], error) {

	// Generate default options if not provided
	if opts == nil {
		opts = DefaultOptions[T]()
	}

	if opts.Capacity < 1 {
		return nil, cache.NewError(cache.RetCCapacityMisconfiguration,
			fmt.Sprintf("capacity must be at least 1, got %d", opts.Capacity))
	}
	if opts.ChunkVolume < 1 {
		return nil, cache.NewError(cache.RetCCapacityMisconfiguration,
			fmt.Sprintf("chunk volume must be at least 1, got %d", opts.ChunkVolume))
	}

	cdc := opts.Codec
	if cdc == nil {
		cdc = codec.NewSnappyCodec()
	}

	set := opts.Metrics
	if set == nil {
		set = metrics.NewSet()
	}

	// Generate a seed for this birchImpl instance
	seed := util.GenerateSeed()
	hasher := createPointHasher[P](seed)

	newCache := &birchImpl[T, P]{
		capacity:    opts.Capacity,
		chunkVolume: opts.ChunkVolume,
		ambient:     opts.Ambient,
		codec:       cdc,
		seed:        seed,
		entries:     xsync.NewMapOfWithHasher[P, *internal.Entry[T]](hasher),
		recency:     util.NewMapHeap[P](),
		histogram:   util.NewSizeHistogram(),

		hits:           set.GetOrCreateCounter(`chunkcache_hits_total{engine="birch"}`),
		misses:         set.GetOrCreateCounter(`chunkcache_misses_total{engine="birch"}`),
		evictions:      set.GetOrCreateCounter(`chunkcache_evictions_total{engine="birch"}`),
		prunes:         set.GetOrCreateCounter(`chunkcache_prunes_total{engine="birch"}`),
		compressions:   set.GetOrCreateCounter(`chunkcache_compressions_total{engine="birch"}`),
		decompressions: set.GetOrCreateCounter(`chunkcache_decompressions_total{engine="birch"}`),
	}

	// the event queue grows unboundedly without a consumer, so it is only
	// created when the caller asked for it
	if opts.EmitEvents {
		newCache.events = util.NewLockFreeMPSC[cache.Event[P]]()
	}

	set.GetOrCreateGauge(`chunkcache_resident_chunks{engine="birch"}`, func() float64 {
		newCache.recencyMu.Lock()
		defer newCache.recencyMu.Unlock()
		return float64(newCache.residents)
	})

	return newCache, nil
}

// --------------------------------------------------------------------------
// Hash Helper Functions
// --------------------------------------------------------------------------

// createPointHasher creates a hash function that combines a chunk key with a seed
// to ensure uniqueness between birchImpl instances
func createPointHasher[P geom.Point[P]](seed uint64) func(P, uint64) uint64 {
	return func(key P, mapSeed uint64) uint64 {
		return util.HashPoint(key, seed^mapSeed)
	}
}

// --------------------------------------------------------------------------
// Core ICache Interface Methods - Chunk Access
// --------------------------------------------------------------------------

// Modify runs fn on the chunk's decoded payload and marks the chunk as dirty.
// A chunk that does not exist yet is materialized with every element set to the
// ambient value, evicting the least recently used chunk if the cache is full.
// A stored chunk is decompressed first.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (birch *birchImpl[T, P]) Modify(key P, fn func(data []T)) error {
	if birch.closed.Load() {
		return cache.NewError(cache.RetCInvalidOperation, "cache is closed")
	}

	for {
		e, loaded := birch.entries.LoadOrCompute(key, func() *internal.Entry[T] {
			// new entries are published locked so no other goroutine can
			// observe them before they are materialized
			ne := &internal.Entry[T]{}
			ne.Mu.Lock()
			return ne
		})

		// CASE NEW CHUNK (the entry lock is already held, see above)

		if !loaded {
			if err := birch.materialize(key, e); err != nil {
				// undo the placeholder so the failed key stays absent
				e.Gone = true
				birch.entries.Delete(key)
				e.Mu.Unlock()
				return err
			}

			birch.markDirty(e)
			fn(e.Data)
			e.Mu.Unlock()
			return nil
		}

		// CASE EXISTING CHUNK

		e.Mu.Lock()
		if e.Gone {
			// the entry was pruned between lookup and lock, retry
			e.Mu.Unlock()
			continue
		}

		if e.State == internal.StateStored {
			if err := birch.reload(key, e); err != nil {
				e.Mu.Unlock()
				return err
			}
		} else {
			birch.hits.Inc()
			birch.touch(key, e)
		}

		birch.markDirty(e)
		fn(e.Data)
		e.Mu.Unlock()
		return nil
	}
}

// View runs fn on the chunk's decoded payload without marking the chunk dirty.
// The returned bool indicates whether a chunk for the key was found, if it is
// false the caller should treat every element as the ambient value.
// A stored chunk is decompressed and becomes resident, an absent chunk is never
// materialized.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (birch *birchImpl[T, P]) View(key P, fn func(data []T)) (bool, error) {
	if birch.closed.Load() {
		return false, cache.NewError(cache.RetCInvalidOperation, "cache is closed")
	}

	for {
		e, ok := birch.entries.Load(key)
		if !ok {
			// absent chunks read as ambient and are never materialized
			birch.misses.Inc()
			return false, nil
		}

		e.Mu.Lock()
		if e.Gone {
			// the entry was pruned between lookup and lock, retry
			e.Mu.Unlock()
			continue
		}

		if e.State == internal.StateStored {
			if err := birch.reload(key, e); err != nil {
				e.Mu.Unlock()
				return false, err
			}
		} else {
			birch.hits.Inc()
			birch.touch(key, e)
		}

		fn(e.Data)
		e.Mu.Unlock()
		return true, nil
	}
}

// Contains checks whether a chunk exists for the key, resident or stored.
// This method never materializes or decompresses a chunk.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (birch *birchImpl[T, P]) Contains(key P) bool {
	_, ok := birch.entries.Load(key)
	return ok
}

// --------------------------------------------------------------------------
// Residency Control
// --------------------------------------------------------------------------

// materialize turns a freshly created entry into a resident chunk filled with
// the ambient value. The entry lock must be held.
func (birch *birchImpl[T, P]) materialize(key P, e *internal.Entry[T]) error {
	if err := birch.reserveResident(key, e); err != nil {
		return err
	}

	data := make([]T, birch.chunkVolume)
	var zero T
	if birch.ambient != zero {
		for i := range data {
			data[i] = birch.ambient
		}
	}

	e.Data = data
	e.State = internal.StateResident
	birch.misses.Inc()
	birch.pushEvent(cache.EventTMaterialize, key)
	return nil
}

// reload decompresses a stored chunk back to its resident form. The entry lock
// must be held and the entry must be in the stored state. The resident slot is
// reserved only after the payload decoded cleanly so a corrupt chunk leaves the
// cache unchanged and the error is repeatable.
func (birch *birchImpl[T, P]) reload(key P, e *internal.Entry[T]) error {
	raw, err := birch.codec.Decompress(e.Stored)
	if err != nil {
		return cache.NewError(cache.RetCCorruptChunkData,
			fmt.Sprintf("decompress chunk %v: %v", key, err))
	}

	data := make([]T, birch.chunkVolume)
	if err := chunk.DecodePayload(raw, data); err != nil {
		return cache.NewError(cache.RetCCorruptChunkData,
			fmt.Sprintf("decode chunk %v: %v", key, err))
	}

	if err := birch.reserveResident(key, e); err != nil {
		return err
	}

	// the stored bytes stay retained, a clean resident can be evicted again
	// without recompressing
	e.Data = data
	e.State = internal.StateResident
	birch.misses.Inc()
	birch.decompressions.Inc()
	return nil
}

// markDirty flags a resident chunk as modified and drops its retained stored
// bytes. The entry lock must be held.
func (birch *birchImpl[T, P]) markDirty(e *internal.Entry[T]) {
	if !e.Dirty {
		e.Dirty = true
		birch.dirtyCount.Add(1)
	}
	if e.Stored != nil {
		// the retained bytes no longer match the payload
		birch.storedBytes.Add(-int64(len(e.Stored)))
		e.Stored = nil
	}
}

// touch moves the chunk to the most recently used position. The entry lock
// must be held.
func (birch *birchImpl[T, P]) touch(key P, e *internal.Entry[T]) {
	birch.recencyMu.Lock()
	birch.clock++
	e.LastTouch = birch.clock
	birch.recency.AddItem(key, birch.clock)
	birch.recencyMu.Unlock()
}

// reserveResident claims a resident slot for the given entry, evicting the
// least recently used chunk when the cache is at capacity. The entry lock must
// be held and the entry must not be in the recency heap, which also guarantees
// that a chunk can never be chosen as its own eviction victim.
func (birch *birchImpl[T, P]) reserveResident(key P, e *internal.Entry[T]) error {
	for {
		if birch.closed.Load() {
			return cache.NewError(cache.RetCInvalidOperation, "cache is closed")
		}

		birch.recencyMu.Lock()
		if birch.residents < birch.capacity {
			birch.residents++
			birch.clock++
			e.LastTouch = birch.clock
			birch.recency.AddItem(key, birch.clock)
			birch.recencyMu.Unlock()
			return nil
		}

		victim, ok := birch.recency.Peek()
		if !ok {
			// every resident chunk is mid-transition in another goroutine,
			// wait for one of them to free a slot
			birch.recencyMu.Unlock()
			runtime.Gosched()
			continue
		}

		victimKey := victim.Key
		victimStamp := victim.Priority
		birch.recency.RemoveByKey(victimKey)
		birch.recencyMu.Unlock()

		if err := birch.evict(victimKey, victimStamp); err != nil {
			return err
		}
	}
}

// evict transitions the victim chunk from resident to stored, or drops it when
// its payload is fully ambient. The victim was already removed from the recency
// heap by the caller. A victim that was touched or transitioned after it was
// popped is left alone and the caller picks the next one.
func (birch *birchImpl[T, P]) evict(victimKey P, victimStamp uint64) error {
	e, ok := birch.entries.Load(victimKey)
	if !ok {
		// pruned concurrently, its slot was already released
		return nil
	}

	e.Mu.Lock()
	if e.Gone || e.State != internal.StateResident || e.LastTouch != victimStamp {
		e.Mu.Unlock()
		return nil
	}

	if e.Dirty || e.Stored == nil {

		// CASE PRUNE

		// fully ambient chunks are dropped instead of stored
		if chunk.PayloadAllEqual(e.Data, birch.ambient) {
			e.Gone = true
			birch.entries.Delete(victimKey)
			e.Data = nil
			if e.Dirty {
				e.Dirty = false
				birch.dirtyCount.Add(-1)
			}

			birch.recencyMu.Lock()
			birch.residents--
			birch.recencyMu.Unlock()

			e.Mu.Unlock()
			birch.prunes.Inc()
			birch.pushEvent(cache.EventTPrune, victimKey)
			return nil
		}

		// CASE ENCODE

		stored, err := birch.codec.Compress(chunk.EncodePayload(e.Data))
		if err != nil {
			// put the victim back where it was, the triggering access fails
			// and the victim stays resident with its modifications intact
			birch.recencyMu.Lock()
			birch.recency.AddItem(victimKey, e.LastTouch)
			birch.recencyMu.Unlock()

			e.Mu.Unlock()
			return cache.NewError(cache.RetCInternalError,
				fmt.Sprintf("compress chunk %v: %v", victimKey, err))
		}

		e.Stored = stored
		birch.storedBytes.Add(int64(len(stored)))
		if e.Dirty {
			e.Dirty = false
			birch.dirtyCount.Add(-1)
		}
		birch.compressions.Inc()
		birch.histogram.AddSample(len(stored))
	}

	// clean chunks reuse the retained bytes from their last encode
	e.Data = nil
	e.State = internal.StateStored

	birch.recencyMu.Lock()
	birch.residents--
	birch.recencyMu.Unlock()

	e.Mu.Unlock()
	birch.evictions.Inc()
	birch.pushEvent(cache.EventTEvict, victimKey)
	return nil
}

// --------------------------------------------------------------------------
// Core ICache Interface Methods - Maintenance Operations
// --------------------------------------------------------------------------

// Keys returns a snapshot of all keys with a resident or stored chunk.
// The order of the returned keys is undefined.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (birch *birchImpl[T, P]) Keys() []P {
	keys := make([]P, 0, birch.entries.Size())
	birch.entries.Range(func(key P, _ *internal.Entry[T]) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Flush compresses every dirty resident chunk back to its stored form while
// keeping it resident, so a later eviction can reuse the bytes. Chunks whose
// payload is fully ambient are dropped instead. Flush aborts on the first codec
// error, chunks flushed before the error stay flushed.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (birch *birchImpl[T, P]) Flush() error {
	if birch.closed.Load() {
		return cache.NewError(cache.RetCInvalidOperation, "cache is closed")
	}

	var flushErr error
	birch.entries.Range(func(key P, e *internal.Entry[T]) bool {
		e.Mu.Lock()

		// only dirty residents need flushing: stored chunks already hold their
		// encoded form and clean residents retain theirs
		if e.Gone || e.State != internal.StateResident || !e.Dirty {
			e.Mu.Unlock()
			return true
		}

		// CASE PRUNE

		if chunk.PayloadAllEqual(e.Data, birch.ambient) {
			e.Gone = true
			birch.entries.Delete(key)
			e.Data = nil
			e.Dirty = false
			birch.dirtyCount.Add(-1)

			birch.recencyMu.Lock()
			birch.recency.RemoveByKey(key)
			birch.residents--
			birch.recencyMu.Unlock()

			e.Mu.Unlock()
			birch.prunes.Inc()
			birch.pushEvent(cache.EventTPrune, key)
			return true
		}

		// CASE ENCODE

		stored, err := birch.codec.Compress(chunk.EncodePayload(e.Data))
		if err != nil {
			e.Mu.Unlock()
			flushErr = cache.NewError(cache.RetCInternalError,
				fmt.Sprintf("compress chunk %v: %v", key, err))
			return false
		}

		e.Stored = stored
		e.Dirty = false
		birch.storedBytes.Add(int64(len(stored)))
		birch.dirtyCount.Add(-1)
		birch.compressions.Inc()
		birch.histogram.AddSample(len(stored))

		e.Mu.Unlock()
		birch.pushEvent(cache.EventTFlush, key)
		return true
	})

	return flushErr
}

// --------------------------------------------------------------------------
// Event Stream
// --------------------------------------------------------------------------

// Events returns a receive-only channel of chunk lifecycle events, or nil if
// the cache was created without EmitEvents.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (birch *birchImpl[T, P]) Events() <-chan *cache.Event[P] {
	if birch.events == nil {
		return nil
	}
	return birch.events.Recv()
}

// pushEvent publishes a lifecycle event if the event queue is enabled
func (birch *birchImpl[T, P]) pushEvent(eventType cache.EventType, key P) {
	if birch.events == nil {
		return
	}
	birch.events.Push(&cache.Event[P]{Type: eventType, Key: key})
}

// --------------------------------------------------------------------------
// ICache Interface Implementation - Features and Metadata
// --------------------------------------------------------------------------

// GetInfo returns statistics about the cache
func (birch *birchImpl[T, P]) GetInfo() cache.Info {

	// snapshot the recency state only once to reduce contention
	birch.recencyMu.Lock()
	residents := birch.residents
	clock := birch.clock
	birch.recencyMu.Unlock()

	// sample stored sizes from the live entries for the distribution stats
	samplesLimit := 1000
	var storedSizes []float64
	sampleCount := 0
	birch.entries.Range(func(_ P, e *internal.Entry[T]) bool {
		e.Mu.Lock()
		if e.Stored != nil {
			storedSizes = append(storedSizes, float64(len(e.Stored)))
		}
		e.Mu.Unlock()

		sampleCount++
		return sampleCount < samplesLimit
	})

	// Metadata for this specific cache implementation
	meta := &struct {
		Capacity         int                    `json:"capacity"`
		ChunkVolume      int                    `json:"chunk_volume"`
		Codec            string                 `json:"codec"`
		RecencyClock     uint64                 `json:"recency_clock"`
		Hits             uint64                 `json:"hits"`
		Misses           uint64                 `json:"misses"`
		Evictions        uint64                 `json:"evictions"`
		Prunes           uint64                 `json:"prunes"`
		Compressions     uint64                 `json:"compressions"`
		Decompressions   uint64                 `json:"decompressions"`
		MedianStoredSize int                    `json:"median_stored_size"`
		P95StoredSize    int                    `json:"p95_stored_size"`
		StoredSizeStats  util.DistributionStats `json:"stored_size_stats"`
		Info             string                 `json:"info"`
	}{
		Capacity:         birch.capacity,
		ChunkVolume:      birch.chunkVolume,
		Codec:            birch.codec.GetName(),
		RecencyClock:     clock,
		Hits:             birch.hits.Get(),
		Misses:           birch.misses.Get(),
		Evictions:        birch.evictions.Get(),
		Prunes:           birch.prunes.Get(),
		Compressions:     birch.compressions.Get(),
		Decompressions:   birch.decompressions.Get(),
		MedianStoredSize: birch.histogram.MedianEstimate(),
		P95StoredSize:    birch.histogram.GetPercentileEstimate(95),
		StoredSizeStats:  util.NewDistributionStats(storedSizes),
		Info:             "All values (including StoredBytes) are estimates and may vary depending on the cache state.",
	}

	// features
	supportedFeatures := []cache.Feature{
		cache.FeatureBounded, cache.FeatureWriteBack,
		cache.FeatureFlush, cache.FeaturePrune,
	}
	if birch.events != nil {
		supportedFeatures = append(supportedFeatures, cache.FeatureEvents)
	}

	return cache.Info{
		Engine:            cache.ImplBirch,
		ChunkCount:        birch.entries.Size(),
		ResidentCount:     residents,
		DirtyCount:        int(birch.dirtyCount.Load()),
		StoredBytes:       int(birch.storedBytes.Load()),
		SupportedFeatures: supportedFeatures,
		Metadata:          meta,
	}
}

// SupportsFeature checks if this implementation supports a specific cache feature
func (birch *birchImpl[T, P]) SupportsFeature(feature cache.Feature) bool {
	supportedFeatures := cache.FeatureBounded |
		cache.FeatureWriteBack |
		cache.FeatureFlush |
		cache.FeaturePrune
	if birch.events != nil {
		supportedFeatures |= cache.FeatureEvents
	}
	return supportedFeatures&feature == feature
}

// Close discards all chunks and closes the event channel. Subsequent
// operations fail with RetCInvalidOperation.
//
// Thread-safety: This method should only be called after all other operations
// have completed.
func (birch *birchImpl[T, P]) Close() error {
	if !birch.closed.CompareAndSwap(false, true) {
		return nil
	}

	// discard all chunks
	birch.entries.Range(func(key P, e *internal.Entry[T]) bool {
		e.Mu.Lock()
		if !e.Gone {
			e.Gone = true
			birch.entries.Delete(key)
			if e.Stored != nil {
				birch.storedBytes.Add(-int64(len(e.Stored)))
				e.Stored = nil
			}
			if e.Dirty {
				e.Dirty = false
				birch.dirtyCount.Add(-1)
			}
			e.Data = nil
		}
		e.Mu.Unlock()
		return true
	})

	birch.recencyMu.Lock()
	birch.recency = util.NewMapHeap[P]()
	birch.residents = 0
	birch.recencyMu.Unlock()

	if birch.events != nil {
		birch.events.Close()
		// drain pending events so the queue's consumer goroutine can exit
		// even if nobody is receiving anymore
		go func() {
			for range birch.events.Recv() {
			}
		}()
	}

	return nil
}
