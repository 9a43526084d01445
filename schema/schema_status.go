package schema

import "time"

// CacheStatus represents the status of the cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// HistoryStatus represents the status of the search history store.
type HistoryStatus struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	TotalRuns        int              `json:"total_runs"`
	LastRunID        string           `json:"last_run_id"`
	LastRunTime      time.Time        `json:"last_run_time"`
	OldestRunTime    time.Time        `json:"oldest_run_time"`
	TotalRoomsScored int              `json:"total_rooms_scored"`
	TableSizes       map[string]int64 `json:"table_sizes"`
}

// SearchRunRecord represents a row from the roomspot_search_runs table.
type SearchRunRecord struct {
	RunID           string
	StartTime       time.Time
	EndTime         *time.Time
	RunDurationMs   *int32
	Location        string
	Building        string
	WindowFrom      time.Time
	WindowTo        time.Time
	TotalCandidates int32
	TotalScored     int32
}

// ScoredRoomRecord represents a row from the roomspot_scored_rooms table.
type ScoredRoomRecord struct {
	RunID        string
	RoomID       string
	Rank         int32
	Score        float64
	Label        string
	Availability float64
	Distance     float64
	PriorUsage   float64
	RoomType     float64
	Longevity    float64
	Capacity     float64
}
