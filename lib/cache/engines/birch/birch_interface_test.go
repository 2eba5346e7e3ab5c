package birch

import (
	"github.com/ValentinKolb/chunkDB/lib/cache"
	cachetesting "github.com/ValentinKolb/chunkDB/lib/cache/testing"
	"github.com/ValentinKolb/chunkDB/lib/geom"
	"testing"
)

func Test(t *testing.T) {
	cachetesting.RunCacheTests(t, "BirchCache", func(capacity int) cache.ICache[uint16, geom.Point3] {
		// events are enabled so the event delivery tests run against this engine
		c, err := NewBirchCache[uint16, geom.Point3](&Options[uint16]{
			Capacity:    capacity,
			ChunkVolume: cachetesting.TestChunkVolume,
			EmitEvents:  true,
		})
		if err != nil {
			panic(err)
		}
		return c
	})
}

func Benchmark(t *testing.B) {
	cachetesting.RunCacheBenchmarks(t, "BirchCache", func(capacity int) cache.ICache[uint16, geom.Point3] {
		c, err := NewBirchCache[uint16, geom.Point3](&Options[uint16]{
			Capacity:    capacity,
			ChunkVolume: cachetesting.TestChunkVolume,
		})
		if err != nil {
			panic(err)
		}
		return c
	})
}
