package cache

import (
	"fmt"
	"github.com/ValentinKolb/chunkDB/lib/chunk"
	"github.com/ValentinKolb/chunkDB/lib/geom"
)

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

type Implementation string

const (
	ImplBirch Implementation = "birch"
	ImplFlat  Implementation = "flat"
)

// Feature represents cache features as bit flags
type Feature uint64

const (
	FeatureBounded   Feature = 1 << iota // Resident chunk count is bounded by a fixed capacity
	FeatureWriteBack                     // Evicted chunks are compressed and retained, not discarded
	FeatureEvents                        // Chunk lifecycle events are published via Events()
	FeatureFlush                         // Support for Flush operations
	FeaturePrune                         // Fully ambient chunks are dropped instead of stored
)

func (f Feature) String() string {
	switch f {
	case FeatureBounded:
		return "Bounded"
	case FeatureWriteBack:
		return "WriteBack"
	case FeatureEvents:
		return "Events"
	case FeatureFlush:
		return "Flush"
	case FeaturePrune:
		return "Prune"
	default:
		return "Unknown"
	}
}

type Info struct {
	Engine            Implementation `json:"engine"`
	ChunkCount        int            `json:"chunk_count"`
	ResidentCount     int            `json:"resident_count"`
	DirtyCount        int            `json:"dirty_count"`
	StoredBytes       int            `json:"stored_bytes"`
	SupportedFeatures []Feature      `json:"supported_features"`
	Metadata          interface{}    `json:"metadata"`
}

// --------------------------------------------------------------------------
// Event Types are used to signal chunk lifecycle transitions
// --------------------------------------------------------------------------

type EventType int

const (
	EventTMaterialize EventType = iota
	EventTEvict
	EventTPrune
	EventTFlush
)

func (e EventType) String() string {
	switch e {
	case EventTMaterialize:
		return "Materialize"
	case EventTEvict:
		return "Evict"
	case EventTPrune:
		return "Prune"
	case EventTFlush:
		return "Flush"
	default:
		return "Unknown"
	}
}

type Event[P geom.Point[P]] struct {
	Type EventType
	Key  P
}

func (e Event[P]) String() string {
	return fmt.Sprintf("Event{Type: %s, Key: %v}", e.Type, e.Key)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	errorCode := ""
	switch e.Code {
	case RetCInternalError:
		errorCode = "RetCInternalError"
	case RetCUnsupportedOperation:
		errorCode = "UnsupportedOperation"
	case RetCInvalidOperation:
		errorCode = "InvalidOperation"
	case RetCCorruptChunkData:
		errorCode = "CorruptChunkData"
	case RetCCapacityMisconfiguration:
		errorCode = "CapacityMisconfiguration"
	default:
		errorCode = "Unknown"
	}

	return fmt.Sprintf("ChunkCacheError (code %s): %s", errorCode, e.Msg)
}

// NewError creates a new ChunkCacheError with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess                  RetCode = iota // 0: Command executed successfully.
	RetCInternalError                           // 1: Command failed due to an internal error.
	RetCUnsupportedOperation                    // 2: Operation is not supported by the cache engine.
	RetCInvalidOperation                        // 3: Invalid operation.
	RetCCorruptChunkData                        // 4: Stored chunk bytes failed to decompress or decode.
	RetCCapacityMisconfiguration                // 5: Cache capacity or chunk sizing is invalid.
)

// --------------------------------------------------------------------------
// Cache Interface
// --------------------------------------------------------------------------

// ICache defines an interface for chunk cache implementations.
// It provides methods to read and modify dense chunk payloads addressed by their
// chunk key, and various utility functions.
// Any implementation of this interface must present absent chunks as if they were
// filled with a single ambient value.
// Implementations can vary in their feature support, which can be queried with SupportsFeature.
type ICache[T chunk.Value, P geom.Point[P]] interface {

	// --------------------------------------------------------------------------
	// Chunk Access
	// --------------------------------------------------------------------------

	// Modify runs fn on the chunk's decoded payload and marks the chunk as dirty.
	// If no chunk exists for the key, a new one is materialized with every element
	// set to the ambient value before fn runs.
	// The payload slice passed to fn is owned by the cache and must not be retained
	// after fn returns.
	// Note: fn runs even if the modification leaves the chunk fully ambient; such
	// chunks are dropped again on eviction or flush rather than stored.
	Modify(key P, fn func(data []T)) (err error)

	// View runs fn on the chunk's decoded payload without marking the chunk dirty.
	// The boolean return value indicates whether a chunk for the key was found.
	// If it is false, fn was not called and the caller should treat every element
	// as the ambient value.
	// A stored chunk is decompressed and becomes resident, an absent chunk is never
	// materialized.
	// The payload slice passed to fn is owned by the cache and must not be retained
	// after fn returns.
	View(key P, fn func(data []T)) (loaded bool, err error)

	// Contains checks whether a chunk exists for the key, resident or stored.
	// This method never materializes or decompresses a chunk.
	Contains(key P) (loaded bool)

	// --------------------------------------------------------------------------
	// Maintenance Operations
	// --------------------------------------------------------------------------

	// Keys returns a snapshot of all keys with a resident or stored chunk.
	// The order of the returned keys is undefined.
	Keys() (keys []P)

	// Flush compresses every dirty resident chunk back to its stored form.
	// Chunks whose payload is fully ambient are dropped instead of stored.
	// Flush aborts on the first codec error, leaving the failed chunk resident
	// and dirty.
	Flush() (err error)

	// --------------------------------------------------------------------------
	// Event Stream
	// --------------------------------------------------------------------------

	// Events returns a receive-only channel of chunk lifecycle events, or nil if
	// the implementation does not support FeatureEvents.
	// The channel is intended for a single consumer and is closed by Close().
	// Note: events are delivered asynchronously, an event may arrive after the
	// operation that caused it has returned.
	Events() <-chan *Event[P]

	// --------------------------------------------------------------------------
	// Feature Support
	// --------------------------------------------------------------------------

	// SupportsFeature checks if the cache implementation supports the specified feature.
	// Returns true if the feature is supported, false otherwise.
	// Multiple features can be checked at once using bitwise OR (|) operator.
	SupportsFeature(feature Feature) (ok bool)

	// GetInfo returns information about the cache.
	GetInfo() (info Info)

	// Close closes the cache. All resident state is discarded, the event channel
	// (if any) is closed, and subsequent operations fail with RetCInvalidOperation.
	Close() (err error)
}
