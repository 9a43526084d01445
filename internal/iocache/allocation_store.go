package iocache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/roomspot/internal/contract"
	"github.com/huangsam/roomspot/schema"
)

// directoryKey is the blob key of the room directory.
const directoryKey = "room_info.json"

// currentCacheVersion is bumped whenever the blob layout changes. Older blobs are
// treated as missing.
const currentCacheVersion = 1

// blobMetadata records what a timeline blob was fetched for.
type blobMetadata struct {
	Room     string `json:"room"`
	FromDate string `json:"from_date"`
	ToDate   string `json:"to_date"`
}

// timelineBlob is the stored form of one room's allocations.
type timelineBlob struct {
	Room           string                      `json:"room"`
	Metadata       blobMetadata                `json:"metadata"`
	RoomAllocation []schema.AllocationInterval `json:"room_allocation"`
}

// directoryBlob is the stored form of the room directory.
type directoryBlob struct {
	Rooms []schema.RoomDirectoryEntry `json:"rooms"`
}

// AllocationStoreImpl keeps room timelines and the directory as JSON blobs in a CacheStore.
type AllocationStoreImpl struct {
	store    contract.CacheStore
	location *time.Location
	now      func() time.Time
}

var _ contract.AllocationStore = &AllocationStoreImpl{} // Compile-time check

// NewAllocationStore returns an AllocationStore backed by store. Fetched date
// ranges are interpreted in loc.
func NewAllocationStore(store contract.CacheStore, loc *time.Location) *AllocationStoreImpl {
	if loc == nil {
		loc = time.UTC
	}
	return &AllocationStoreImpl{store: store, location: loc, now: time.Now}
}

// RoomKey returns the blob key for a room: whitespace runs become dashes.
func RoomKey(roomID string) string {
	return strings.Join(strings.Fields(roomID), "-") + ".json"
}

// IsStale implements the AllocationStore interface.
func (s *AllocationStoreImpl) IsStale(roomID string, from, to time.Time) bool {
	tl, err := s.LoadTimeline(roomID)
	if err != nil {
		return true
	}
	return tl.NeedsRefresh(from, to)
}

// LoadTimeline implements the AllocationStore interface.
func (s *AllocationStoreImpl) LoadTimeline(roomID string) (schema.RoomTimeline, error) {
	data, err := s.get(RoomKey(roomID))
	if err != nil {
		return schema.RoomTimeline{}, fmt.Errorf("%w: %s: %w", schema.ErrRoomDataMissing, roomID, err)
	}

	var blob timelineBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return schema.RoomTimeline{}, fmt.Errorf("%w: %s: corrupt blob: %w", schema.ErrRoomDataMissing, roomID, err)
	}
	if blob.Room != roomID {
		return schema.RoomTimeline{}, fmt.Errorf("%w: %s: blob belongs to %q", schema.ErrRoomDataMissing, roomID, blob.Room)
	}

	tl := schema.RoomTimeline{
		RoomID:       roomID,
		Intervals:    blob.RoomAllocation,
		CoveredFrom:  s.parseDate(blob.Metadata.FromDate),
		CoveredUntil: s.parseDate(blob.Metadata.ToDate),
	}
	sortByEnd(tl.Intervals)
	return tl, nil
}

// SaveTimeline implements the AllocationStore interface.
func (s *AllocationStoreImpl) SaveTimeline(tl schema.RoomTimeline, from, to time.Time) error {
	intervals := slices.Clone(tl.Intervals)
	sortByEnd(intervals)

	blob := timelineBlob{
		Room: tl.RoomID,
		Metadata: blobMetadata{
			Room:     tl.RoomID,
			FromDate: from.In(s.location).Format(time.DateOnly),
			ToDate:   to.In(s.location).Format(time.DateOnly),
		},
		RoomAllocation: intervals,
	}
	if blob.RoomAllocation == nil {
		blob.RoomAllocation = []schema.AllocationInterval{}
	}
	data, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("failed to encode timeline for %s: %w", tl.RoomID, err)
	}
	return s.store.Set(RoomKey(tl.RoomID), data, currentCacheVersion, s.now().Unix())
}

// LoadDirectory implements the AllocationStore interface.
func (s *AllocationStoreImpl) LoadDirectory() ([]schema.RoomDirectoryEntry, error) {
	data, err := s.get(directoryKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", schema.ErrDirectoryMissing, err)
	}
	var blob directoryBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, fmt.Errorf("%w: corrupt blob: %w", schema.ErrDirectoryMissing, err)
	}
	if len(blob.Rooms) == 0 {
		return nil, schema.ErrDirectoryMissing
	}
	return blob.Rooms, nil
}

// SaveDirectory implements the AllocationStore interface.
func (s *AllocationStoreImpl) SaveDirectory(entries []schema.RoomDirectoryEntry, ts time.Time) error {
	data, err := json.Marshal(directoryBlob{Rooms: entries})
	if err != nil {
		return fmt.Errorf("failed to encode room directory: %w", err)
	}
	return s.store.Set(directoryKey, data, currentCacheVersion, ts.Unix())
}

// DirectoryMissing implements the AllocationStore interface.
func (s *AllocationStoreImpl) DirectoryMissing() bool {
	_, err := s.LoadDirectory()
	return err != nil
}

// get reads a blob, treating blobs of another layout version as absent.
func (s *AllocationStoreImpl) get(key string) ([]byte, error) {
	data, version, _, err := s.store.Get(key)
	if err != nil {
		return nil, err
	}
	if version != currentCacheVersion {
		return nil, sql.ErrNoRows
	}
	if len(data) == 0 {
		return nil, errors.New("empty blob")
	}
	return data, nil
}

// parseDate reads a metadata date in the store's location. Missing or
// malformed dates yield the zero time.
func (s *AllocationStoreImpl) parseDate(date string) time.Time {
	if date == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(time.DateOnly, date, s.location)
	if err != nil {
		return time.Time{}
	}
	return t
}

// sortByEnd orders intervals by end time, then start time.
func sortByEnd(intervals []schema.AllocationInterval) {
	slices.SortStableFunc(intervals, func(a, b schema.AllocationInterval) int {
		if c := a.End.Compare(b.End); c != 0 {
			return c
		}
		return a.Start.Compare(b.Start)
	})
}
