package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/roomspot/internal/contract"
	"github.com/huangsam/roomspot/schema"

	"github.com/olekukonko/tablewriter"
)

// directoryJSONEntry adds the room ID to a directory entry.
type directoryJSONEntry struct {
	ID string `json:"id"`
	schema.RoomDirectoryEntry
}

// WriteRooms prints directory entries using the configured output format.
func WriteRooms(rooms []schema.RoomDirectoryEntry, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRoomsJSON(w, rooms)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRoomsCSV(w, rooms)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRoomsTable(w, rooms, cfg)
		}, "Wrote table")
	}
}

func writeRoomsJSON(w io.Writer, rooms []schema.RoomDirectoryEntry) error {
	output := make([]directoryJSONEntry, len(rooms))
	for i, r := range rooms {
		output[i] = directoryJSONEntry{ID: r.ID(), RoomDirectoryEntry: r}
	}
	return writeJSON(w, output)
}

func writeRoomsCSV(w io.Writer, rooms []schema.RoomDirectoryEntry) error {
	header := []string{"id", "location", "building", "floor", "room", "type", "seats"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range rooms {
			rec := []string{r.ID(), r.Location, r.Building, r.Floor, r.Room, r.Type, strconv.Itoa(r.Seats)}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeRoomsTable(w io.Writer, rooms []schema.RoomDirectoryEntry, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Room", "Location", "Type", "Seats"})

	roomWidth := getMaxTableRoomWidth(cfg)
	data := make([][]string, 0, len(rooms))
	for _, r := range rooms {
		data = append(data, []string{
			contract.TruncateText(r.ID(), roomWidth),
			r.Location,
			r.Type,
			strconv.Itoa(r.Seats),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d rooms\n", len(rooms))
	return err
}
