// Package parquet provides data structures and functions for exporting roomspot
// search history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/roomspot/schema"
	"github.com/parquet-go/parquet-go"
)

// SearchRun represents a single search with its requested window.
// This struct maps to the roomspot_search_runs database table.
type SearchRun struct {
	// RunID is the UUID of this search run
	RunID string `parquet:"run_id,snappy"`

	// StartTime is when the search began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the search completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the search in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	Location   string    `parquet:"location,snappy,dict"`
	Building   string    `parquet:"building,snappy,dict"`
	WindowFrom time.Time `parquet:"window_from,snappy"`
	WindowTo   time.Time `parquet:"window_to,snappy"`

	// TotalCandidates is the number of rooms considered before scoring
	TotalCandidates int32 `parquet:"total_candidates,snappy"`

	// TotalScored is the number of rooms that received a score
	TotalScored int32 `parquet:"total_scored,snappy"`
}

// ScoredRoom represents one ranked room of a search run.
// This struct maps to the roomspot_scored_rooms database table.
type ScoredRoom struct {
	RunID  string  `parquet:"run_id,snappy,dict"`
	RoomID string  `parquet:"room_id,snappy"`
	Rank   int32   `parquet:"room_rank,snappy"`
	Score  float64 `parquet:"score,snappy"`
	Label  string  `parquet:"label,snappy,dict"`

	// Weighted signal contributions that add up to Score
	Availability float64 `parquet:"availability,snappy"`
	Distance     float64 `parquet:"distance,snappy"`
	PriorUsage   float64 `parquet:"prior_usage,snappy"`
	RoomType     float64 `parquet:"room_type,snappy"`
	Longevity    float64 `parquet:"longevity,snappy"`
	Capacity     float64 `parquet:"capacity,snappy"`
}

// writeParquet writes rows to outputPath with a schema inferred from T's struct tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	// Close flushes the footer; a failure here leaves an unreadable file
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return file.Close()
}

// WriteSearchRunsParquet writes a slice of SearchRun structs to a Parquet file.
func WriteSearchRunsParquet(data []SearchRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteScoredRoomsParquet writes a slice of ScoredRoom structs to a Parquet file.
func WriteScoredRoomsParquet(data []ScoredRoom, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertSearchRunRecords converts schema.SearchRunRecord to SearchRun for Parquet export.
func ConvertSearchRunRecords(records []schema.SearchRunRecord) []SearchRun {
	result := make([]SearchRun, len(records))
	for i, record := range records {
		result[i] = SearchRun{
			RunID:           record.RunID,
			StartTime:       record.StartTime,
			EndTime:         record.EndTime,
			RunDurationMs:   record.RunDurationMs,
			Location:        record.Location,
			Building:        record.Building,
			WindowFrom:      record.WindowFrom,
			WindowTo:        record.WindowTo,
			TotalCandidates: record.TotalCandidates,
			TotalScored:     record.TotalScored,
		}
	}
	return result
}

// ConvertScoredRoomRecords converts schema.ScoredRoomRecord to ScoredRoom for Parquet export.
func ConvertScoredRoomRecords(records []schema.ScoredRoomRecord) []ScoredRoom {
	result := make([]ScoredRoom, len(records))
	for i, r := range records {
		result[i] = ScoredRoom{
			RunID:        r.RunID,
			RoomID:       r.RoomID,
			Rank:         r.Rank,
			Score:        r.Score,
			Label:        r.Label,
			Availability: r.Availability,
			Distance:     r.Distance,
			PriorUsage:   r.PriorUsage,
			RoomType:     r.RoomType,
			Longevity:    r.Longevity,
			Capacity:     r.Capacity,
		}
	}
	return result
}
