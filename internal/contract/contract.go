// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/roomspot/schema"
)

// RoomInfoClient defines the operations against the remote room-info service.
// This allows the search logic to be tested without network access.
type RoomInfoClient interface {
	// GetDirectory returns every room the service knows about.
	GetDirectory(ctx context.Context) ([]schema.RoomDirectoryEntry, error)

	// GetAllocations returns the allocation intervals of one room for the
	// date range [from, to). Intervals may arrive in any order.
	GetAllocations(ctx context.Context, roomID string, from, to time.Time) ([]schema.AllocationInterval, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetRoomStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// AllocationStore reads and writes room timelines and the room directory.
type AllocationStore interface {
	// IsStale reports whether a room's timeline is missing or does not cover [from, to).
	IsStale(roomID string, from, to time.Time) bool

	// LoadTimeline returns the room's timeline sorted by interval end.
	LoadTimeline(roomID string) (schema.RoomTimeline, error)

	// SaveTimeline replaces the room's timeline, recording the fetched date range.
	SaveTimeline(tl schema.RoomTimeline, from, to time.Time) error

	// LoadDirectory returns the stored room directory.
	LoadDirectory() ([]schema.RoomDirectoryEntry, error)

	// SaveDirectory replaces the stored room directory.
	SaveDirectory(entries []schema.RoomDirectoryEntry, ts time.Time) error

	// DirectoryMissing reports whether no usable directory is stored.
	DirectoryMissing() bool
}

// HistoryStore defines the interface for tracking search runs and their results.
type HistoryStore interface {
	// BeginSearch creates a new search run and returns its unique ID
	BeginSearch(startTime time.Time, query schema.SearchQuery) (string, error)

	// EndSearch updates the search run with completion data
	EndSearch(runID string, endTime time.Time, candidates, scored int) error

	// RecordScoredRoom stores one ranked room of a search run
	RecordScoredRoom(runID string, room schema.EnrichedRoomResult) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllSearchRuns returns every recorded search run
	GetAllSearchRuns() ([]schema.SearchRunRecord, error)

	// GetAllScoredRooms returns every recorded room result
	GetAllScoredRooms() ([]schema.ScoredRoomRecord, error)

	// Close closes the underlying connection
	Close() error
}
