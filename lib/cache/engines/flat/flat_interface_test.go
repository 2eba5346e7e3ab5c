package flat

import (
	"github.com/ValentinKolb/chunkDB/lib/cache"
	cachetesting "github.com/ValentinKolb/chunkDB/lib/cache/testing"
	"github.com/ValentinKolb/chunkDB/lib/geom"
	"testing"
)

func Test(t *testing.T) {
	cachetesting.RunCacheTests(t, "FlatCache", func(capacity int) cache.ICache[uint16, geom.Point3] {
		// the flat cache is unbounded, the capacity parameter is ignored
		c, err := NewFlatCache[uint16, geom.Point3](&Options[uint16]{
			ChunkVolume: cachetesting.TestChunkVolume,
		})
		if err != nil {
			panic(err)
		}
		return c
	})
}

func Benchmark(t *testing.B) {
	cachetesting.RunCacheBenchmarks(t, "FlatCache", func(capacity int) cache.ICache[uint16, geom.Point3] {
		c, err := NewFlatCache[uint16, geom.Point3](&Options[uint16]{
			ChunkVolume: cachetesting.TestChunkVolume,
		})
		if err != nil {
			panic(err)
		}
		return c
	})
}
