// Package schema has models, constants and errors for all parts of roomspot.
package schema

import (
	"strings"
	"time"
)

// RoomDirectoryEntry identifies one bookable room in the campus directory.
type RoomDirectoryEntry struct {
	Building string `json:"building"`
	Floor    string `json:"floor"`
	Room     string `json:"room"`
	Location string `json:"location"` // Area name, one of AllLocations
	Type     string `json:"type"`     // Room type description, e.g. "Seminars / Courses"
	Seats    int    `json:"seats"`
}

// ID returns the canonical room identifier: building, floor and room joined by spaces.
func (r RoomDirectoryEntry) ID() string {
	return strings.Join([]string{r.Building, r.Floor, r.Room}, " ")
}

// AllocationInterval is a single segment of a room's calendar.
type AllocationInterval struct {
	Start    time.Time `json:"date_from"`
	End      time.Time `json:"date_to"`
	SlotType SlotType  `json:"type"`
}

// IsFree reports whether the interval is bookable by students.
func (a AllocationInterval) IsFree() bool {
	return a.SlotType.IsFree()
}

// RoomTimeline is the ordered allocation data for one room.
// Intervals are sorted by End ascending and do not overlap.
type RoomTimeline struct {
	RoomID       string
	Intervals    []AllocationInterval
	CoveredFrom  time.Time // Start of the fetched date range, zero if unknown
	CoveredUntil time.Time // Exclusive end of the fetched date range, zero if unknown
}

// Horizon returns the instant up to which the timeline holds data.
func (tl RoomTimeline) Horizon() time.Time {
	var horizon time.Time
	if n := len(tl.Intervals); n > 0 {
		horizon = tl.Intervals[n-1].End
	}
	if tl.CoveredUntil.After(horizon) {
		horizon = tl.CoveredUntil
	}
	return horizon
}

// NeedsRefresh reports whether the window [from, to) reaches past the horizon
// or starts before the fetched date range.
func (tl RoomTimeline) NeedsRefresh(from, to time.Time) bool {
	if !tl.CoveredFrom.IsZero() && from.Before(tl.CoveredFrom) {
		return true
	}
	return to.After(tl.Horizon())
}

// SearchQuery holds the parameters of one free-room search.
type SearchQuery struct {
	Location     string        `json:"location" validate:"required,campus"`
	Building     string        `json:"building,omitempty" validate:"omitempty,max=64"`
	From         time.Time     `json:"from" validate:"required"`
	Duration     time.Duration `json:"duration" validate:"gt=0"`
	Count        int           `json:"count" validate:"min=1,max=1000"`
	ForceRefresh bool          `json:"force_refresh"`
}

// To returns the exclusive end of the requested window.
func (q SearchQuery) To() time.Time {
	return q.From.Add(q.Duration)
}

// ScoredRoom is a room with its computed score and per-signal contributions.
type ScoredRoom struct {
	RoomID      string                   `json:"room_id"`
	Room        RoomDirectoryEntry       `json:"room"`
	Score       float64                  `json:"score"`
	Available   bool                     `json:"available"`
	MinutesFree float64                  `json:"minutes_free"`
	Breakdown   map[BreakdownKey]float64 `json:"breakdown,omitempty"`
}

// SearchResult is the outcome of a search including bookkeeping about the refresh.
type SearchResult struct {
	Rooms       []ScoredRoom `json:"rooms"`
	Candidates  int          `json:"candidates"`
	Fetched     int          `json:"fetched"`
	FetchFailed int          `json:"fetch_failed"`
	Skipped     int          `json:"skipped"`
	RunID       string       `json:"run_id,omitempty"`
	Warnings    []string     `json:"warnings,omitempty"`
}
