package schema

import "errors"

// Errors surfaced by the search pipeline. Callers wrap them with context and match with errors.Is.
var (
	ErrInvalidLocation     = errors.New("invalid location")
	ErrNoMatchingRooms     = errors.New("no rooms match the building filter")
	ErrNoRoomsFound        = errors.New("no rooms found")
	ErrFetchFailure        = errors.New("fetch failed")
	ErrStaleDataUnresolved = errors.New("stale data could not be refreshed")
	ErrScoringFailure      = errors.New("scoring failed")
	ErrRefreshRequired     = errors.New("refresh required")
	ErrRoomDataMissing     = errors.New("room data missing")
	ErrDirectoryMissing    = errors.New("room directory missing")
)
