// Package util
//
// This file provides a specialized priority queue for chunk eviction purposes.
//
// This implementation combines a binary heap with a hash map to provide both
// efficient priority-based operations and key-based access. It is used to
// track the recency of resident chunks: the heap orders chunk keys by their
// last-access stamp, while the map allows direct removal when a chunk leaves
// the resident set for other reasons (pruning, flushing).
//
// Key advantages of this implementation:
//
// 1. Time Complexity:
//   - O(log n) for priority operations (Push, Pop, Update)
//   - O(1) for key-based lookups and existence checks
//   - O(log n) for key-based removal
//
// 2. Eviction Benefits:
//   - Efficiently identifies the least-recently-used chunk for eviction
//   - Supports direct removal when chunks are pruned or dropped
//   - Allows checking if specific chunks are tracked as resident
//   - Updates priorities in place when chunks are accessed
//
// 3. Concurrency Considerations:
//   - Note: This implementation is not thread-safe by default
//   - For concurrent use, external synchronization should be applied
//
// Example usage:
//
//	// Create a new queue
//	lru := NewMapHeap[string]()
//	heap.Init(lru)
//
//	// Track chunks with their access stamps
//	lru.AddItem("chunk-a", stamp1)
//	lru.AddItem("chunk-b", stamp2)
//
//	// Get the least recently used chunk
//	victim, exists := lru.Peek()
//
//	// Remove a specific chunk (e.g. when it is pruned)
//	lru.RemoveByKey("chunk-a")
package util

import (
	"container/heap"
	"fmt"
)

// item represents an entry in the recency queue with a generic key for
// identification and a uint64 stamp used as heap priority
type item[K comparable] struct {
	Key      K      // Unique identifier for the item
	Priority uint64 // Priority used for ordering in the heap
	index    int    // Index in the heap, maintained by heap package
}

func (i *item[K]) String() string {
	return fmt.Sprintf("{Key: %v, Priority: %d}", i.Key, i.Priority)
}

// MapHeap implements a priority queue for chunk eviction
// with both heap operations and key-based access
type MapHeap[K comparable] struct {
	items    []*item[K]     // The actual heap slice
	itemsMap map[K]*item[K] // Map for O(1) access by key
}

// NewMapHeap creates a new eviction queue
func NewMapHeap[K comparable]() *MapHeap[K] {
	return &MapHeap[K]{
		items:    make([]*item[K], 0),
		itemsMap: make(map[K]*item[K]),
	}
}

// Len returns the number of items in the queue (part of heap.Interface)
func (mh *MapHeap[K]) Len() int { return len(mh.items) }

// Less compares items by priority (part of heap.Interface)
// For LRU eviction we want the oldest stamp first (min-heap)
func (mh *MapHeap[K]) Less(i, j int) bool {
	return mh.items[i].Priority < mh.items[j].Priority
}

// Swap exchanges items at positions i and j (part of heap.Interface)
func (mh *MapHeap[K]) Swap(i, j int) {
	mh.items[i], mh.items[j] = mh.items[j], mh.items[i]
	mh.items[i].index = i
	mh.items[j].index = j
}

// Push adds an item to the heap (part of heap.Interface)
func (mh *MapHeap[K]) Push(x interface{}) {
	n := len(mh.items)
	item := x.(*item[K])
	item.index = n
	mh.items = append(mh.items, item)
	mh.itemsMap[item.Key] = item
}

// Pop removes and returns the minimum item (part of heap.Interface)
func (mh *MapHeap[K]) Pop() interface{} {
	old := mh.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // Avoid memory leak
	item.index = -1 // For safety
	mh.items = old[:n-1]
	delete(mh.itemsMap, item.Key)
	return item
}

// AddItem adds a new item to the queue or updates the priority of an
// existing one
func (mh *MapHeap[K]) AddItem(key K, priority uint64) {
	// Check if item already exists
	if item, exists := mh.itemsMap[key]; exists {
		// Update priority and fix heap
		item.Priority = priority
		heap.Fix(mh, item.index)
		return
	}

	// Create and add new item
	item := &item[K]{
		Key:      key,
		Priority: priority,
	}
	heap.Push(mh, item)
}

// RemoveByKey removes an item by its key
func (mh *MapHeap[K]) RemoveByKey(key K) (uint64, bool) {
	item, exists := mh.itemsMap[key]
	if !exists {
		return 0, false
	}

	// Remove from heap
	heap.Remove(mh, item.index)
	return item.Priority, true
}

// Peek returns the minimum priority item without removing it
func (mh *MapHeap[K]) Peek() (*item[K], bool) {
	if len(mh.items) == 0 {
		return nil, false
	}
	return mh.items[0], true
}

// Contains checks if a key exists in the queue
func (mh *MapHeap[K]) Contains(key K) bool {
	_, exists := mh.itemsMap[key]
	return exists
}

// GetByKey retrieves an item by its key without removing it
func (mh *MapHeap[K]) GetByKey(key K) (*item[K], bool) {
	item, exists := mh.itemsMap[key]
	return item, exists
}
