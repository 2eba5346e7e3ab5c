package internal

import (
	"sync"
)

// --------------------------------------------------------------------------
// Chunk States describe which form of a chunk the cache currently holds
// --------------------------------------------------------------------------

type ChunkState int

const (
	StateResident ChunkState = iota
	StateStored
)

func (s ChunkState) String() string {
	switch s {
	case StateResident:
		return "Resident"
	case StateStored:
		return "Stored"
	default:
		return "Unknown"
	}
}

// --------------------------------------------------------------------------
// Entry Type (per-chunk slot with transition lock)
// --------------------------------------------------------------------------

// Entry stores a single chunk in either resident or stored form.
// Every field is guarded by Mu. The Mu of an entry may be acquired while
// holding the Mu of a different entry during eviction, but only for entries
// that were removed from the recency heap first, which keeps the wait graph
// acyclic.
type Entry[T any] struct {
	Mu        sync.Mutex
	State     ChunkState // Resident (Data valid) or stored (Stored valid)
	Data      []T        // Decoded payload, nil unless resident
	Stored    []byte     // Compressed payload, retained for clean residents to skip recompression
	Dirty     bool       // Payload modified since the last encode
	LastTouch uint64     // Recency stamp of the most recent access
	Gone      bool       // Entry was removed from the cache, holders of a stale pointer must retry
}
