package testing

import (
	"sync/atomic"
	"testing"

	"github.com/ValentinKolb/chunkDB/lib/geom"
)

// benchmarkCapacity is the cache capacity handed to the factory. It is large
// enough that the working sets below stay resident, so the benchmarks measure
// operation cost rather than eviction churn.
const benchmarkCapacity = 4096

// benchPoint spreads points over a block of chunks, 64 points per axis row.
func benchPoint(i int) geom.Point3 {
	return geom.P3(int32(i%64), int32((i/64)%64), int32(i/4096))
}

// RunChunkMapBenchmarks runs standardised benchmarks for IChunkMap
// implementations.
func RunChunkMapBenchmarks(b *testing.B, name string, factory MapFactory) {
	chunkShape := geom.P3(16, 16, 16)

	b.Run("Set", func(b *testing.B) {
		m := factory(chunkShape, 0, benchmarkCapacity)
		b.Cleanup(func() {
			m.Close()
		})

		b.ResetTimer()
		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				if err := m.Set(benchPoint(counter), uint16(counter)); err != nil {
					b.Fatalf("Set failed: %v", err)
				}
				counter++
			}
		})
	})

	b.Run("SetExisting", func(b *testing.B) {
		m := factory(chunkShape, 0, benchmarkCapacity)
		b.Cleanup(func() {
			m.Close()
		})

		numKeys := 10_000
		if b.N < numKeys {
			numKeys = b.N
		}
		for i := 0; i < numKeys; i++ {
			if err := m.Set(benchPoint(i), 1); err != nil {
				b.Fatalf("Setup failed: %v", err)
			}
		}

		var counter int64
		b.ResetTimer()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				i := int(atomic.AddInt64(&counter, 1)) % numKeys
				if err := m.Set(benchPoint(i), uint16(i)); err != nil {
					b.Fatalf("Set failed: %v", err)
				}
			}
		})
	})

	b.Run("Get", func(b *testing.B) {
		m := factory(chunkShape, 0, benchmarkCapacity)
		b.Cleanup(func() {
			m.Close()
		})

		numKeys := 10_000
		if b.N < numKeys {
			numKeys = b.N
		}
		for i := 0; i < numKeys; i++ {
			if err := m.Set(benchPoint(i), uint16(i)); err != nil {
				b.Fatalf("Setup failed: %v", err)
			}
		}

		var counter int64
		b.ResetTimer()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				i := int(atomic.AddInt64(&counter, 1)) % numKeys
				if _, err := m.Get(benchPoint(i)); err != nil {
					b.Fatalf("Get failed: %v", err)
				}
			}
		})
	})

	b.Run("Get(ambient)", func(b *testing.B) {
		m := factory(chunkShape, 0, benchmarkCapacity)
		b.Cleanup(func() {
			m.Close()
		})

		p := geom.P3(-1_000_000, -1_000_000, -1_000_000)
		b.ResetTimer()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				if _, err := m.Get(p); err != nil {
					b.Fatalf("Get failed: %v", err)
				}
			}
		})
	})

	b.Run("Fill", func(b *testing.B) {
		m := factory(chunkShape, 0, benchmarkCapacity)
		b.Cleanup(func() {
			m.Close()
		})

		// each goroutine fills its own column of chunks
		var worker int64
		b.ResetTimer()
		b.RunParallel(func(pb *testing.PB) {
			w := atomic.AddInt64(&worker, 1)
			e := geom.NewExtent(geom.P3(int32(w)*16, 0, 0), geom.P3(16, 16, 16))
			counter := 0
			for pb.Next() {
				if err := m.Fill(e, uint16(counter)); err != nil {
					b.Fatalf("Fill failed: %v", err)
				}
				counter++
			}
		})
	})

	b.Run("ForEach", func(b *testing.B) {
		m := factory(chunkShape, 0, benchmarkCapacity)
		b.Cleanup(func() {
			m.Close()
		})

		e := geom.NewExtent(geom.P3(0, 0, 0), geom.P3(32, 32, 32))
		if err := m.Fill(e, 1); err != nil {
			b.Fatalf("Setup failed: %v", err)
		}

		b.ResetTimer()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				sum := 0
				err := m.ForEach(e, func(p geom.Point3, v uint16) bool {
					sum += int(v)
					return true
				})
				if err != nil {
					b.Fatalf("ForEach failed: %v", err)
				}
			}
		})
	})

	b.Run("ReadExtent", func(b *testing.B) {
		m := factory(chunkShape, 0, benchmarkCapacity)
		b.Cleanup(func() {
			m.Close()
		})

		e := geom.NewExtent(geom.P3(0, 0, 0), geom.P3(32, 32, 32))
		if err := m.Fill(e, 1); err != nil {
			b.Fatalf("Setup failed: %v", err)
		}

		b.ResetTimer()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				if _, err := m.ReadExtent(e); err != nil {
					b.Fatalf("ReadExtent failed: %v", err)
				}
			}
		})
	})

	// Parallelization is not meaningful here since Flush scans every chunk
	b.Run("Flush", func(b *testing.B) {
		m := factory(chunkShape, 0, benchmarkCapacity)
		b.Cleanup(func() {
			m.Close()
		})

		e := geom.NewExtent(geom.P3(0, 0, 0), geom.P3(64, 64, 16))
		if err := m.Fill(e, 1); err != nil {
			b.Fatalf("Setup failed: %v", err)
		}

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = m.Set(geom.P3(1, 1, 1), uint16(i))
			_ = m.Flush()
		}
	})

	b.Run("MixedUsage", func(b *testing.B) {
		m := factory(chunkShape, 0, benchmarkCapacity)
		b.Cleanup(func() {
			m.Close()
		})

		numKeys := 10_000
		if b.N < numKeys {
			numKeys = b.N
		}
		for i := 0; i < numKeys; i++ {
			if err := m.Set(benchPoint(i), uint16(i)); err != nil {
				b.Fatalf("Setup failed: %v", err)
			}
		}

		var counter int64
		b.ResetTimer()
		b.RunParallel(func(pb *testing.PB) {
			localCounter := 0
			for pb.Next() {
				i := int(atomic.AddInt64(&counter, 1)) % numKeys
				p := benchPoint(i)

				// For every 10th operation, use a completely new point
				if localCounter%10 == 0 {
					p = benchPoint(numKeys + localCounter)
				}

				var err error
				switch localCounter % 6 {
				case 0, 1, 2:
					_, err = m.Get(p)
				case 3, 4:
					err = m.Set(p, uint16(localCounter))
				case 5:
					m.OccupiedKeysIn(geom.NewExtent(p, geom.P3(4, 4, 4)))
				}
				if err != nil {
					b.Fatalf("Operation failed: %v", err)
				}
				localCounter++
			}
		})
	})
}
