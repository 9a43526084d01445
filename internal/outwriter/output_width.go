package outwriter

import (
	"os"

	"github.com/huangsam/roomspot/internal/contract"
	"golang.org/x/term"
)

// getMaxTableRoomWidth calculates the maximum width for room labels in table output
// based on terminal width and table configuration.
func getMaxTableRoomWidth(cfg *contract.Config) int {
	termWidth := cfg.Width

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for fixed columns with table formatting
	baseWidth := 25 // Rank + Score + Label with borders/padding

	if cfg.Detail {
		baseWidth += 60 // Location + Type + Seats + Free columns
	}
	if cfg.Explain {
		baseWidth += 40
	}

	// Table borders, separators and padding
	baseWidth += 20

	available := termWidth - baseWidth
	if available < 12 {
		return 12
	}
	if available > 40 {
		return 40
	}
	return available
}
