package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/roomspot/internal/contract"
	"github.com/huangsam/roomspot/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// searchJSONOutput is the JSON document written for a search.
type searchJSONOutput struct {
	Rooms       []schema.EnrichedRoomResult `json:"rooms"`
	Candidates  int                         `json:"candidates"`
	Fetched     int                         `json:"fetched"`
	FetchFailed int                         `json:"fetch_failed"`
	Skipped     int                         `json:"skipped"`
	RunID       string                      `json:"run_id,omitempty"`
	Warnings    []string                    `json:"warnings,omitempty"`
}

// WriteSearchResults outputs the search results, dispatching based on the output format configured.
func WriteSearchResults(result schema.SearchResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	rooms := schema.EnrichRooms(result.Rooms)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSearchJSON(w, result, rooms)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSearchCSV(w, rooms, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSearchTable(w, result, rooms, cfg, fmtFloat, intFmt, duration)
		}, "Wrote table")
	}
	return nil
}

// writeSearchJSON writes the ranked rooms and the refresh bookkeeping as one JSON document.
func writeSearchJSON(w io.Writer, result schema.SearchResult, rooms []schema.EnrichedRoomResult) error {
	return writeJSON(w, searchJSONOutput{
		Rooms:       rooms,
		Candidates:  result.Candidates,
		Fetched:     result.Fetched,
		FetchFailed: result.FetchFailed,
		Skipped:     result.Skipped,
		RunID:       result.RunID,
		Warnings:    result.Warnings,
	})
}

// writeSearchCSV writes one row per ranked room with every signal contribution.
func writeSearchCSV(w io.Writer, rooms []schema.EnrichedRoomResult, fmtFloat func(float64) string) error {
	header := []string{"rank", "room", "score", "label", "location", "building", "type", "seats", "available", "minutes_free"}
	for _, key := range schema.AllBreakdownKeys {
		header = append(header, string(key))
	}

	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range rooms {
			rec := []string{
				strconv.Itoa(r.Rank),
				r.RoomID,
				fmtFloat(r.Score),
				r.Label,
				r.Room.Location,
				r.Room.Building,
				r.Room.Type,
				strconv.Itoa(r.Room.Seats),
				strconv.FormatBool(r.Available),
				fmtFloat(r.MinutesFree),
			}
			for _, key := range schema.AllBreakdownKeys {
				rec = append(rec, fmtFloat(r.Breakdown[key]))
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeSearchTable generates and writes the human-readable table.
func writeSearchTable(w io.Writer, result schema.SearchResult, rooms []schema.EnrichedRoomResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	if len(rooms) == 0 {
		_, err := fmt.Fprintln(w, "no rooms found")
		return err
	}

	table := tablewriter.NewWriter(w)

	// 1. Define Headers
	headers := []string{"Rank", "Room", "Score", "Label"}
	if cfg.Detail {
		headers = append(headers, "Location", "Type", "Seats", "Free For")
	}
	if cfg.Explain {
		headers = append(headers, "Explain")
	}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 2. Populate Rows
	roomWidth := getMaxTableRoomWidth(cfg)
	var data [][]string
	for _, r := range rooms {
		label := r.Label
		if cfg.UseColors {
			label = contract.GetColorLabel(r.Score)
		}
		row := []string{
			strconv.Itoa(r.Rank),
			contract.TruncateText(r.RoomID, roomWidth),
			fmtFloat(r.Score),
			label,
		}
		if cfg.Detail {
			row = append(row,
				r.Room.Location,
				contract.TruncateText(r.Room.Type, 20),
				fmt.Sprintf(intFmt, r.Room.Seats),
				formatMinutes(r.MinutesFree),
			)
		}
		if cfg.Explain {
			row = append(row, formatTopBreakdown(r.Breakdown))
		}
		data = append(data, row)
	}

	// 3. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Showing top %d of %d candidate rooms (fetched: %d, failed: %d, skipped: %d)\n",
		len(rooms), result.Candidates, result.Fetched, result.FetchFailed, result.Skipped); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Search completed in %v with %d workers. Cache backend: %s\n",
		duration.Round(time.Millisecond), cfg.Workers, displayBackend(cfg.CacheBackend)); err != nil {
		return err
	}
	if result.RunID != "" {
		if _, err := fmt.Fprintf(w, "Recorded as run %s\n", result.RunID); err != nil {
			return err
		}
	}
	return nil
}

// formatMinutes renders a free duration in minutes as e.g. "2h05m".
func formatMinutes(minutes float64) string {
	total := int(minutes)
	if total <= 0 {
		return "0m"
	}
	if total < 60 {
		return fmt.Sprintf("%dm", total)
	}
	return fmt.Sprintf("%dh%02dm", total/60, total%60)
}

func displayBackend(backend schema.DatabaseBackend) string {
	if backend == "" {
		return string(schema.NoneBackend)
	}
	return string(backend)
}
