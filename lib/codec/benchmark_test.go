package codec

import (
	"math"
	"math/rand"
	"testing"
)

// benchmarkPayloads returns a set of chunk payloads for targeted
// benchmarking. Sizes and content mirror what a chunked volume produces:
// 16x16x16 chunks of uint16 voxels with varying compressibility.
func benchmarkPayloads() map[string][]byte {
	const chunkBytes = 16 * 16 * 16 * 2 // 8KB

	uniform := make([]byte, chunkBytes)
	for i := range uniform {
		uniform[i] = 0x11
	}

	// Distance field of a sphere, the classic smooth payload
	sphere := make([]byte, chunkBytes)
	for z := 0; z < 16; z++ {
		for y := 0; y < 16; y++ {
			for x := 0; x < 16; x++ {
				dx, dy, dz := float64(x-8), float64(y-8), float64(z-8)
				d := uint16(math.Sqrt(dx*dx+dy*dy+dz*dz) * 100)
				i := 2 * (x + 16*y + 256*z)
				sphere[i] = byte(d)
				sphere[i+1] = byte(d >> 8)
			}
		}
	}

	noise := make([]byte, chunkBytes)
	rand.New(rand.NewSource(42)).Read(noise)

	large := make([]byte, chunkBytes*8) // a 32x32x32 chunk
	for i := range large {
		large[i] = byte(i / 512)
	}

	return map[string][]byte{
		"Uniform8KB":   uniform,
		"Sphere8KB":    sphere,
		"Noise8KB":     noise,
		"Gradient64KB": large,
	}
}

// BenchmarkCompress benchmarks compression for all codecs with various
// payload types
func BenchmarkCompress(b *testing.B) {
	payloads := benchmarkPayloads()

	for name, factory := range testCodecs {
		for payloadName, payload := range payloads {
			b.Run(name+"_"+payloadName, func(b *testing.B) {
				c := factory()
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					_, err := c.Compress(payload)
					if err != nil {
						b.Fatalf("Failed to compress: %v", err)
					}
				}
			})
		}
	}
}

// BenchmarkDecompress benchmarks decompression for all codecs with various
// payload types
func BenchmarkDecompress(b *testing.B) {
	payloads := benchmarkPayloads()
	storedData := make(map[string]map[string][]byte)

	// Pre-compress all payloads with all codecs
	for name, factory := range testCodecs {
		c := factory()
		storedData[name] = make(map[string][]byte)

		for payloadName, payload := range payloads {
			stored, err := c.Compress(payload)
			if err != nil {
				b.Fatalf("Failed to compress %s with %s: %v", payloadName, name, err)
			}
			storedData[name][payloadName] = stored
		}
	}

	// Benchmark decompression
	for name, factory := range testCodecs {
		for payloadName := range payloads {
			b.Run(name+"_"+payloadName, func(b *testing.B) {
				c := factory()
				stored := storedData[name][payloadName]
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					_, err := c.Decompress(stored)
					if err != nil {
						b.Fatalf("Failed to decompress: %v", err)
					}
				}
			})
		}
	}
}

// BenchmarkRatio measures and reports the stored size for each payload type
func BenchmarkRatio(b *testing.B) {
	payloads := benchmarkPayloads()

	for name, factory := range testCodecs {
		c := factory()

		for payloadName, payload := range payloads {
			b.Run(name+"_"+payloadName, func(b *testing.B) {
				stored, err := c.Compress(payload)
				if err != nil {
					b.Fatalf("Failed to compress: %v", err)
				}

				// Report size and ratio as custom metrics
				b.ReportMetric(float64(len(stored)), "bytes")
				b.ReportMetric(float64(len(stored))/float64(len(payload)), "ratio")

				// Minimal loop to satisfy benchmark requirements
				for i := 0; i < b.N; i++ {
					_ = stored
				}
			})
		}
	}
}
