// Package codec provides compression capabilities for chunk payloads. It
// defines a common interface and multiple implementations for converting
// the dense in-memory payload of a chunk into its compressed stored form
// and back.
//
// The package focuses on:
//   - Providing a consistent interface for different compression formats
//   - Offering multiple implementations with different speed/ratio trade-offs
//   - Guaranteeing exact round trips for every payload
//   - Detecting corrupt stored data instead of returning a wrong payload
//
// Key Components:
//
//   - ICodec: Core interface that all codec implementations must satisfy.
//
//   - rawCodecImpl: Identity codec that stores payloads verbatim. Useful as
//     a baseline for benchmarks and for incompressible data.
//
//   - snappyCodecImpl: Snappy block format. High throughput with moderate
//     compression ratios, used as the default codec for chunk storage.
//
//   - s2CodecImpl: S2 block format, an extension of snappy with better
//     ratios at comparable speed.
//
//   - lz4CodecImpl: LZ4 block format wrapped in a small frame header that
//     records the decompressed payload size. Falls back to storing the
//     payload verbatim when the block format would expand it.
//
//   - zstdCodecImpl: Zstandard encoding with shared encoder and decoder
//     instances. Trades some speed for the best ratios of the set.
//
// Performance Characteristics (based on benchmarks with voxel payloads):
//
//   - Snappy, S2 and LZ4: Deliver high throughput on the mostly uniform
//     payloads typical for chunked volumes. Recommended for workloads where
//     chunks move in and out of the compressed tier frequently.
//
//   - ZSTD: Compresses gradient and noisy payloads noticeably better at a
//     higher CPU cost per chunk. Recommended when memory is tighter than
//     CPU time.
//
//   - Raw: No compression. Only useful as a benchmark baseline and for
//     payloads known to be incompressible.
//
// Thread Safety:
//
//	All codec implementations are safe for concurrent use across multiple
//	goroutines without additional synchronization.
//
// Usage:
//
//	Codecs are typically created once and reused throughout the application:
//
//	  c := codec.NewSnappyCodec()
//	  stored, err := c.Compress(payload)
//	  // ... keep stored ...
//	  restored, err := c.Decompress(stored)
package codec
