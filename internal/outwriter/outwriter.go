// Package outwriter renders search results, the room directory and scoring
// metrics as tables, CSV or JSON.
package outwriter

import (
	"fmt"
	"io"
	"os"

	"github.com/huangsam/roomspot/internal/contract"
)

// LogSearchHeader prints a concise, 2-line header before a search.
func LogSearchHeader(cfg *contract.Config) {
	writeSearchHeader(os.Stdout, cfg)
}

func writeSearchHeader(w io.Writer, cfg *contract.Config) {
	where := cfg.Location
	if cfg.Building != "" {
		where = fmt.Sprintf("%s (Building: %s)", cfg.Location, cfg.Building)
	}

	// Line 1: Where we are looking
	_, _ = fmt.Fprintf(w, "🔎 Location: %s\n", where)

	// Line 2: The window being requested
	_, _ = fmt.Fprintf(w, "📅 Window: %s → %s\n",
		cfg.When.Format(contract.DateTimeFormat), cfg.When.Add(cfg.Duration).Format(contract.DateTimeFormat))
}
