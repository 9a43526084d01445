package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/roomspot/internal/contract"
	"github.com/huangsam/roomspot/schema"
)

// Table names for search history.
const (
	searchRunsTable  = "roomspot_search_runs"
	scoredRoomsTable = "roomspot_scored_rooms"
)

// storedTimeLayout keeps stored timestamps fixed-width so they sort as text.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetHistoryDBFilePath()
		}
		db, err = sql.Open(driverNameFor(backend), dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		db, err = sql.Open(driverNameFor(backend), connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		db, err = sql.Open(driverNameFor(backend), connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	case schema.NoneBackend:
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{db: nil, backend: backend}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}

	if err := createHistoryTables(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// placeholders returns n parameter placeholders for the backend.
func (hs *HistoryStoreImpl) placeholders(n int) []any {
	out := make([]any, n)
	for i := range out {
		if hs.backend == schema.PostgreSQLBackend {
			out[i] = fmt.Sprintf("$%d", i+1)
		} else {
			out[i] = "?"
		}
	}
	return out
}

// BeginSearch creates a new search run and returns its unique ID.
func (hs *HistoryStoreImpl) BeginSearch(startTime time.Time, query schema.SearchQuery) (string, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return "", nil
	}

	runID := uuid.NewString()
	p := hs.placeholders(6)
	stmt := fmt.Sprintf(`INSERT INTO %s (run_id, start_time, location, building, window_from, window_to) VALUES (%s, %s, %s, %s, %s, %s)`,
		append([]any{quoteTableName(searchRunsTable, hs.backend)}, p...)...)
	_, err := hs.db.Exec(stmt, runID, formatTime(startTime), query.Location, query.Building, formatTime(query.From), formatTime(query.To()))
	if err != nil {
		return "", fmt.Errorf("failed to insert search run: %w", err)
	}
	return runID, nil
}

// EndSearch updates the search run with completion data.
func (hs *HistoryStoreImpl) EndSearch(runID string, endTime time.Time, candidates, scored int) error {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(searchRunsTable, hs.backend)
	p := hs.placeholders(5)

	var startTimeStr string
	row := hs.db.QueryRow(fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, p[0]), runID)
	if err := row.Scan(&startTimeStr); err != nil {
		return fmt.Errorf("failed to get start_time for run %s: %w", runID, err)
	}
	startTime, err := parseTime(startTimeStr)
	if err != nil {
		return fmt.Errorf("failed to parse start_time: %w", err)
	}

	// Calculate duration in milliseconds
	durationMs := endTime.Sub(startTime).Milliseconds()

	stmt := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_candidates = %s, total_scored = %s WHERE run_id = %s`,
		append([]any{quotedTableName}, p...)...)
	if _, err := hs.db.Exec(stmt, formatTime(endTime), durationMs, candidates, scored, runID); err != nil {
		return fmt.Errorf("failed to update search run: %w", err)
	}
	return nil
}

// RecordScoredRoom stores one ranked room of a search run.
func (hs *HistoryStoreImpl) RecordScoredRoom(runID string, room schema.EnrichedRoomResult) error {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	b := room.Breakdown
	p := hs.placeholders(11)
	stmt := fmt.Sprintf(`INSERT INTO %s (run_id, room_id, room_rank, score, label, availability, distance, prior_usage, room_type, longevity, capacity)
		VALUES (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)`,
		append([]any{quoteTableName(scoredRoomsTable, hs.backend)}, p...)...)
	_, err := hs.db.Exec(stmt, runID, room.RoomID, room.Rank, room.Score, room.Label,
		b[schema.BreakdownAvailability], b[schema.BreakdownDistance], b[schema.BreakdownPriorUsage],
		b[schema.BreakdownRoomType], b[schema.BreakdownLongevity], b[schema.BreakdownCapacity])
	if err != nil {
		return fmt.Errorf("failed to record room %s: %w", room.RoomID, err)
	}
	return nil
}

// Close closes the underlying DB connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	runsTable := quoteTableName(searchRunsTable, hs.backend)

	// Get total runs
	row := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runsTable))
	if err := row.Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		// Get last run info
		var lastRunTimeStr string
		row = hs.db.QueryRow(fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY start_time DESC LIMIT 1", runsTable))
		if err := row.Scan(&status.LastRunID, &lastRunTimeStr); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		lastRunTime, err := parseTime(lastRunTimeStr)
		if err != nil {
			return status, fmt.Errorf("failed to parse last run time: %w", err)
		}
		status.LastRunTime = lastRunTime

		// Get oldest run time
		var oldestRunTimeStr string
		row = hs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY start_time ASC LIMIT 1", runsTable))
		if err := row.Scan(&oldestRunTimeStr); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		oldestRunTime, err := parseTime(oldestRunTimeStr)
		if err != nil {
			return status, fmt.Errorf("failed to parse oldest run time: %w", err)
		}
		status.OldestRunTime = oldestRunTime

		// Get total rooms scored
		row = hs.db.QueryRow(fmt.Sprintf("SELECT COALESCE(SUM(total_scored), 0) FROM %s", runsTable))
		if err := row.Scan(&status.TotalRoomsScored); err != nil {
			return status, fmt.Errorf("failed to get total rooms scored: %w", err)
		}
	}

	// Get table sizes (row counts)
	for _, table := range []string{searchRunsTable, scoredRoomsTable} {
		var count int64
		row = hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend)))
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllSearchRuns retrieves all search runs from the store, oldest first.
func (hs *HistoryStoreImpl) GetAllSearchRuns() ([]schema.SearchRunRecord, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, start_time, end_time, run_duration_ms, location, building,
		window_from, window_to, total_candidates, total_scored FROM %s ORDER BY start_time, run_id`,
		quoteTableName(searchRunsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query search runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.SearchRunRecord
	for rows.Next() {
		var record schema.SearchRunRecord
		var startStr, fromStr, toStr string
		var endStr *string
		if err := rows.Scan(&record.RunID, &startStr, &endStr, &record.RunDurationMs, &record.Location, &record.Building,
			&fromStr, &toStr, &record.TotalCandidates, &record.TotalScored); err != nil {
			return nil, fmt.Errorf("failed to scan search run: %w", err)
		}

		if record.StartTime, err = parseTime(startStr); err != nil {
			return nil, fmt.Errorf("failed to parse start_time: %w", err)
		}
		if record.WindowFrom, err = parseTime(fromStr); err != nil {
			return nil, fmt.Errorf("failed to parse window_from: %w", err)
		}
		if record.WindowTo, err = parseTime(toStr); err != nil {
			return nil, fmt.Errorf("failed to parse window_to: %w", err)
		}
		// Parse end time if present
		if endStr != nil {
			endTime, err := parseTime(*endStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse end_time: %w", err)
			}
			record.EndTime = &endTime
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search runs: %w", err)
	}
	return results, nil
}

// GetAllScoredRooms retrieves every recorded room result, grouped by run and ordered by rank.
func (hs *HistoryStoreImpl) GetAllScoredRooms() ([]schema.ScoredRoomRecord, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, room_id, room_rank, score, label, availability, distance,
		prior_usage, room_type, longevity, capacity FROM %s ORDER BY run_id, room_rank`,
		quoteTableName(scoredRoomsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query scored rooms: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ScoredRoomRecord
	for rows.Next() {
		var r schema.ScoredRoomRecord
		if err := rows.Scan(&r.RunID, &r.RoomID, &r.Rank, &r.Score, &r.Label, &r.Availability, &r.Distance,
			&r.PriorUsage, &r.RoomType, &r.Longevity, &r.Capacity); err != nil {
			return nil, fmt.Errorf("failed to scan scored room: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scored rooms: %w", err)
	}
	return results, nil
}

// formatTime converts a time.Time to its stored text form.
func formatTime(t time.Time) string {
	return t.UTC().Format(storedTimeLayout)
}

// parseTime reads a stored timestamp.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
