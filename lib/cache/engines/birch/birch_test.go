package birch

import (
	"errors"
	"github.com/ValentinKolb/chunkDB/lib/cache"
	"github.com/ValentinKolb/chunkDB/lib/cache/engines/birch/internal"
	"github.com/ValentinKolb/chunkDB/lib/chunk"
	"github.com/ValentinKolb/chunkDB/lib/geom"
	"testing"
)

// newTestCache builds a cache for white box tests and hands back both the
// interface and the implementation behind it
func newTestCache(t *testing.T, opts *Options[uint16]) (cache.ICache[uint16, geom.Point3], *birchImpl[uint16, geom.Point3]) {
	c, err := NewBirchCache[uint16, geom.Point3](opts)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	return c, c.(*birchImpl[uint16, geom.Point3])
}

// brokenCodec fails every compression, used to exercise write-back error paths
type brokenCodec struct{}

func (brokenCodec) Compress(data []byte) ([]byte, error) {
	return nil, errors.New("compressor is broken")
}

func (brokenCodec) Decompress(data []byte) ([]byte, error) {
	return data, nil
}

func (brokenCodec) GetName() string { return "broken" }

// --------------------------------------------------------------------------
// Tests
// --------------------------------------------------------------------------

func TestMisconfiguration(t *testing.T) {
	_, err := NewBirchCache[uint16, geom.Point3](&Options[uint16]{Capacity: 0, ChunkVolume: 8})
	if err == nil {
		t.Errorf("Expected an error for a capacity of zero")
	} else if cacheErr, ok := err.(*cache.Error); !ok || cacheErr.Code != cache.RetCCapacityMisconfiguration {
		t.Errorf("Expected error code %d, got %v", cache.RetCCapacityMisconfiguration, err)
	}

	_, err = NewBirchCache[uint16, geom.Point3](&Options[uint16]{Capacity: 4, ChunkVolume: 0})
	if err == nil {
		t.Errorf("Expected an error for a chunk volume of zero")
	}

	// nil options fall back to the defaults
	c, err := NewBirchCache[uint16, geom.Point3](nil)
	if err != nil {
		t.Fatalf("Expected default options to be valid, got %v", err)
	}
	c.Close()
}

func TestNonzeroAmbient(t *testing.T) {
	c, _ := newTestCache(t, &Options[uint16]{Capacity: 4, ChunkVolume: 8, Ambient: 9})
	defer c.Close()

	key := geom.Point3{1, 2, 3}

	// a fresh chunk comes up filled with the ambient value
	if err := c.Modify(key, func(data []uint16) {
		for i, v := range data {
			if v != 9 {
				t.Errorf("Expected ambient value 9 at slot %d, got %d", i, v)
			}
		}
		data[0] = 5
	}); err != nil {
		t.Fatalf("Modify failed: %v", err)
	}

	c.View(key, func(data []uint16) {
		if data[0] != 5 || data[1] != 9 {
			t.Errorf("Expected payload [5 9 ...], got %v", data[:2])
		}
	})

	// writing the chunk back to all-ambient makes it prunable
	if err := c.Modify(key, func(data []uint16) {
		data[0] = 9
	}); err != nil {
		t.Fatalf("Modify failed: %v", err)
	}
	if err := c.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if c.Contains(key) {
		t.Errorf("Expected the all-ambient chunk to be pruned")
	}
}

func TestCorruptStoredChunk(t *testing.T) {
	c, impl := newTestCache(t, &Options[uint16]{Capacity: 1, ChunkVolume: 8})
	defer c.Close()

	keyA := geom.Point3{1, 0, 0}
	keyB := geom.Point3{2, 0, 0}

	c.Modify(keyA, func(data []uint16) { data[0] = 1 })
	c.Modify(keyB, func(data []uint16) { data[0] = 2 }) // displaces keyA

	// overwrite the stored bytes with garbage
	e, ok := impl.entries.Load(keyA)
	if !ok {
		t.Fatalf("Expected an entry for key %v", keyA)
	}
	e.Mu.Lock()
	if e.State != internal.StateStored {
		t.Fatalf("Expected key %v to be stored, got state %s", keyA, e.State)
	}
	e.Stored = []byte{0xde, 0xad, 0xbe, 0xef}
	e.Mu.Unlock()

	// the corruption must surface as an error, not as ambient values, and
	// the error must be repeatable
	for i := 0; i < 2; i++ {
		loaded, err := c.View(keyA, func(data []uint16) {
			t.Errorf("Expected the callback not to run for a corrupt chunk")
		})
		if err == nil {
			t.Fatalf("Expected an error for the corrupt chunk")
		}
		if cacheErr, ok := err.(*cache.Error); !ok || cacheErr.Code != cache.RetCCorruptChunkData {
			t.Errorf("Expected error code %d, got %v", cache.RetCCorruptChunkData, err)
		}
		if loaded {
			t.Errorf("Expected loaded=false for the corrupt chunk")
		}
	}

	if err := c.Modify(keyA, func(data []uint16) {}); err == nil {
		t.Errorf("Expected Modify to fail for the corrupt chunk")
	}

	// stored bytes that decompress to the wrong payload length are corrupt too
	short, err := impl.codec.Compress(chunk.EncodePayload(make([]uint16, 3)))
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	e.Mu.Lock()
	e.Stored = short
	e.Mu.Unlock()

	if _, err := c.View(keyA, func(data []uint16) {}); err == nil {
		t.Errorf("Expected an error for a truncated chunk payload")
	} else if cacheErr, ok := err.(*cache.Error); !ok || cacheErr.Code != cache.RetCCorruptChunkData {
		t.Errorf("Expected error code %d, got %v", cache.RetCCorruptChunkData, err)
	}

	// the rest of the cache keeps working
	loaded, err := c.View(keyB, func(data []uint16) {
		if data[0] != 2 {
			t.Errorf("Expected value 2, got %d", data[0])
		}
	})
	if err != nil || !loaded {
		t.Errorf("Expected key %v to be readable, got loaded=%v err=%v", keyB, loaded, err)
	}
}

func TestCompressionFailure(t *testing.T) {
	c, _ := newTestCache(t, &Options[uint16]{Capacity: 1, ChunkVolume: 8, Codec: brokenCodec{}})
	defer c.Close()

	keyA := geom.Point3{1, 0, 0}
	keyB := geom.Point3{2, 0, 0}

	if err := c.Modify(keyA, func(data []uint16) { data[0] = 1 }); err != nil {
		t.Fatalf("Modify failed: %v", err)
	}

	// displacing the dirty chunk must fail since it cannot be written back
	err := c.Modify(keyB, func(data []uint16) { data[0] = 2 })
	if err == nil {
		t.Fatalf("Expected an error when the write-back fails")
	}
	if cacheErr, ok := err.(*cache.Error); !ok || cacheErr.Code != cache.RetCInternalError {
		t.Errorf("Expected error code %d, got %v", cache.RetCInternalError, err)
	}

	// the victim must survive the failed eviction unchanged
	loaded, err := c.View(keyA, func(data []uint16) {
		if data[0] != 1 {
			t.Errorf("Expected value 1, got %d", data[0])
		}
	})
	if err != nil || !loaded {
		t.Errorf("Expected key %v to survive the failed write-back, got loaded=%v err=%v", keyA, loaded, err)
	}
	if c.Contains(keyB) {
		t.Errorf("Expected the failed key %v to stay absent", keyB)
	}

	// flushing fails the same way but keeps the chunk dirty and readable
	if err := c.Flush(); err == nil {
		t.Errorf("Expected Flush to fail with a broken compressor")
	}
	if got := c.GetInfo().DirtyCount; got != 1 {
		t.Errorf("Expected the chunk to stay dirty after the failed Flush, got %d", got)
	}
}

func TestCleanEvictionReusesStoredBytes(t *testing.T) {
	c, impl := newTestCache(t, &Options[uint16]{Capacity: 1, ChunkVolume: 8})
	defer c.Close()

	keyA := geom.Point3{1, 0, 0}
	keyB := geom.Point3{2, 0, 0}
	keyC := geom.Point3{3, 0, 0}

	c.Modify(keyA, func(data []uint16) { data[0] = 1 })
	c.Modify(keyB, func(data []uint16) { data[0] = 2 }) // write-back of keyA
	c.View(keyA, func(data []uint16) {})                // write-back of keyB, reload of keyA

	if got := impl.compressions.Get(); got != 2 {
		t.Errorf("Expected 2 compressions so far, got %d", got)
	}

	// a clean resident keeps its stored bytes, so displacing it again must
	// not compress a second time
	c.Modify(keyC, func(data []uint16) { data[0] = 3 })

	if got := impl.compressions.Get(); got != 2 {
		t.Errorf("Expected the clean chunk to reuse its stored bytes, got %d compressions", got)
	}

	e, ok := impl.entries.Load(keyA)
	if !ok {
		t.Fatalf("Expected an entry for key %v", keyA)
	}
	e.Mu.Lock()
	state, stored := e.State, e.Stored
	e.Mu.Unlock()
	if state != internal.StateStored {
		t.Errorf("Expected key %v to be stored, got state %s", keyA, state)
	}
	if len(stored) == 0 {
		t.Errorf("Expected key %v to retain its stored bytes", keyA)
	}

	// and it still reads back unchanged
	c.View(keyA, func(data []uint16) {
		if data[0] != 1 {
			t.Errorf("Expected value 1, got %d", data[0])
		}
	})
}

func TestLeastRecentlyUsedEviction(t *testing.T) {
	c, impl := newTestCache(t, &Options[uint16]{Capacity: 2, ChunkVolume: 8})
	defer c.Close()

	keyA := geom.Point3{1, 0, 0}
	keyB := geom.Point3{2, 0, 0}
	keyC := geom.Point3{3, 0, 0}

	c.Modify(keyA, func(data []uint16) { data[0] = 1 })
	c.Modify(keyB, func(data []uint16) { data[0] = 2 })

	// touch keyA so keyB becomes the least recently used chunk
	c.View(keyA, func(data []uint16) {})

	c.Modify(keyC, func(data []uint16) { data[0] = 3 })

	stateOf := func(key geom.Point3) internal.ChunkState {
		e, ok := impl.entries.Load(key)
		if !ok {
			t.Fatalf("Expected an entry for key %v", key)
		}
		e.Mu.Lock()
		defer e.Mu.Unlock()
		return e.State
	}

	if got := stateOf(keyB); got != internal.StateStored {
		t.Errorf("Expected the least recently used key %v to be displaced, got state %s", keyB, got)
	}
	if got := stateOf(keyA); got != internal.StateResident {
		t.Errorf("Expected the recently used key %v to stay resident, got state %s", keyA, got)
	}
	if got := stateOf(keyC); got != internal.StateResident {
		t.Errorf("Expected the new key %v to be resident, got state %s", keyC, got)
	}
}
