package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/roomspot/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSearchRuns() []SearchRun {
	start := time.Date(2025, 3, 10, 7, 55, 0, 0, time.UTC)
	end := start.Add(1500 * time.Millisecond)
	duration := int32(1500)

	return []SearchRun{
		{
			RunID:           "5f0c6c1e-1111-4c3b-9a55-000000000001",
			StartTime:       start,
			EndTime:         &end,
			RunDurationMs:   &duration,
			Location:        schema.LocationZurichZentrum,
			Building:        "HG",
			WindowFrom:      start.Add(5 * time.Minute),
			WindowTo:        start.Add(65 * time.Minute),
			TotalCandidates: 12,
			TotalScored:     11,
		},
		{
			RunID:      "5f0c6c1e-1111-4c3b-9a55-000000000002",
			StartTime:  start.Add(time.Hour),
			EndTime:    nil, // Still running - nullable field
			Location:   schema.LocationBasel,
			WindowFrom: start.Add(2 * time.Hour),
			WindowTo:   start.Add(3 * time.Hour),
		},
	}
}

func readAll[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err, "Should be able to open output file")
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	return rows[:n]
}

func TestSearchRunStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	s := parquet.SchemaOf(new(SearchRun))
	require.NotNil(t, s)

	for _, colName := range []string{
		"run_id", "start_time", "end_time", "run_duration_ms", "location",
		"building", "window_from", "window_to", "total_candidates", "total_scored",
	} {
		col, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestScoredRoomStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(ScoredRoom))
	require.NotNil(t, s)

	for _, colName := range []string{
		"run_id", "room_id", "room_rank", "score", "label", "availability",
		"distance", "prior_usage", "room_type", "longevity", "capacity",
	} {
		_, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestWriteSearchRunsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "search_runs.parquet")
	data := sampleSearchRuns()

	require.NoError(t, WriteSearchRunsParquet(data, outputPath))

	readData := readAll[SearchRun](t, outputPath)
	require.Len(t, readData, len(data), "Should read all records")

	for i := range data {
		assert.Equal(t, data[i].RunID, readData[i].RunID)
		assert.Equal(t, data[i].Location, readData[i].Location)
		assert.Equal(t, data[i].Building, readData[i].Building)
		assert.Equal(t, data[i].TotalCandidates, readData[i].TotalCandidates)
		assert.Equal(t, data[i].TotalScored, readData[i].TotalScored)
		assert.WithinDuration(t, data[i].WindowFrom, readData[i].WindowFrom, time.Microsecond)

		// Check nullable fields
		if data[i].EndTime == nil {
			assert.Nil(t, readData[i].EndTime, "EndTime should be nil")
			assert.Nil(t, readData[i].RunDurationMs, "RunDurationMs should be nil")
		} else {
			require.NotNil(t, readData[i].EndTime, "EndTime should not be nil")
			assert.WithinDuration(t, *data[i].EndTime, *readData[i].EndTime, time.Microsecond)
			require.NotNil(t, readData[i].RunDurationMs)
			assert.Equal(t, *data[i].RunDurationMs, *readData[i].RunDurationMs)
		}
	}
}

func TestWriteScoredRoomsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "scored_rooms.parquet")
	data := []ScoredRoom{
		{RunID: "run-1", RoomID: "HG E 1", Rank: 1, Score: 73, Label: "Ideal", Availability: 51, RoomType: 9, Longevity: 9, Capacity: 4},
		{RunID: "run-1", RoomID: "CAB G 11", Rank: 2, Score: 41.5, Label: "Fair", Distance: -0.3, PriorUsage: 11},
	}

	require.NoError(t, WriteScoredRoomsParquet(data, outputPath))

	readData := readAll[ScoredRoom](t, outputPath)
	require.Len(t, readData, 2)
	assert.Equal(t, data, readData)
}

func TestWriteParquetEmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")

	require.NoError(t, WriteSearchRunsParquet([]SearchRun{}, outputPath), "Writing empty data should not produce error")

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should contain the footer")
	assert.Empty(t, readAll[SearchRun](t, outputPath))
}

func TestWriteParquetBadPath(t *testing.T) {
	err := WriteScoredRoomsParquet(nil, filepath.Join(t.TempDir(), "missing", "out.parquet"))
	assert.ErrorContains(t, err, "failed to create output file")
}

func TestConvertRecords(t *testing.T) {
	end := time.Date(2025, 3, 10, 8, 0, 1, 0, time.UTC)
	duration := int32(1000)
	runs := ConvertSearchRunRecords([]schema.SearchRunRecord{{
		RunID:           "abc",
		StartTime:       end.Add(-time.Second),
		EndTime:         &end,
		RunDurationMs:   &duration,
		Location:        schema.LocationZurichOerlikon,
		TotalCandidates: 3,
		TotalScored:     2,
	}})
	require.Len(t, runs, 1)
	assert.Equal(t, "abc", runs[0].RunID)
	assert.Equal(t, &end, runs[0].EndTime)
	assert.Equal(t, int32(2), runs[0].TotalScored)

	rooms := ConvertScoredRoomRecords([]schema.ScoredRoomRecord{{RunID: "abc", RoomID: "OAT X 11", Rank: 1, Score: 55, Label: "Good", Capacity: 5}})
	require.Len(t, rooms, 1)
	assert.Equal(t, ScoredRoom{RunID: "abc", RoomID: "OAT X 11", Rank: 1, Score: 55, Label: "Good", Capacity: 5}, rooms[0])

	assert.Empty(t, ConvertSearchRunRecords(nil))
}
