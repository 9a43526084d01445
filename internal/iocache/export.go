package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/roomspot/internal/contract"
	"github.com/huangsam/roomspot/internal/parquet"
)

// ExecuteHistoryExport exports the search history of store to Parquet files
// named after outputFile.
func ExecuteHistoryExport(store contract.HistoryStore, outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history tracking is disabled. Set --history-backend to enable it")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no search history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total search runs: %d\n", status.TotalRuns)
	fmt.Printf("Total room records: %d\n", status.TableSizes[scoredRoomsTable])

	searchRuns, err := store.GetAllSearchRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve search runs: %w", err)
	}

	scoredRooms, err := store.GetAllScoredRooms()
	if err != nil {
		return fmt.Errorf("failed to retrieve scored rooms: %w", err)
	}

	runsFile := outputFile + ".search_runs.parquet"
	if err := parquet.WriteSearchRunsParquet(parquet.ConvertSearchRunRecords(searchRuns), runsFile); err != nil {
		return fmt.Errorf("failed to write search runs: %w", err)
	}
	fmt.Printf("Exported %d search runs to: %s\n", len(searchRuns), runsFile)

	roomsFile := outputFile + ".scored_rooms.parquet"
	if err := parquet.WriteScoredRoomsParquet(parquet.ConvertScoredRoomRecords(scoredRooms), roomsFile); err != nil {
		return fmt.Errorf("failed to write scored rooms: %w", err)
	}
	fmt.Printf("Exported %d room records to: %s\n", len(scoredRooms), roomsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
