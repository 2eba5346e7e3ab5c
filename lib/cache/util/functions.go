package util

import (
	"crypto/rand"
	"encoding/binary"
	"github.com/ValentinKolb/chunkDB/lib/geom"
	"time"
)

// --------------------------------------------------------------------------
// General Utility Functions
// --------------------------------------------------------------------------

// GenerateSeed creates a more robust random seed for internal hash distribution
func GenerateSeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		// Fallback mit aktueller Zeit, nur im äußersten Notfall
		return uint64(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint64(b[:])
}

// --------------------------------------------------------------------------
// Hash Functions
// --------------------------------------------------------------------------

// HashPoint generates a hash value for a lattice point with a seed.
// This function uses the FNV-1a hash algorithm, which is fast and has good
// distribution even for the highly regular coordinates chunk keys tend to have.
// The signature matches the hasher expected by xsync.NewMapOfWithHasher.
func HashPoint[P geom.Point[P]](p P, seed uint64) uint64 {

	// FNV-1a hash with seed incorporation
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)

	// Start with the offset combined with our seed for uniqueness
	hash := uint64(offset64) ^ seed

	for i := 0; i < p.Dims(); i++ {
		c := uint32(p.At(i))
		for shift := 0; shift < 32; shift += 8 {
			hash ^= uint64(byte(c >> shift))
			hash *= prime64
		}
	}

	return hash
}
