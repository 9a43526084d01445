package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/fatih/color"
	"github.com/huangsam/roomspot/schema"
)

// Color variables for console output.
var (
	IdealColor = color.New(color.FgGreen, color.Bold) // IdealColor marks the rooms worth walking to first.
	GoodColor  = color.New(color.FgCyan, color.Bold)
	FairColor  = color.New(color.FgYellow)
	PoorColor  = color.New(color.FgRed)
)

// DateTimeFormat is the human-readable timestamp layout used in headers and tables.
const DateTimeFormat = "2006-01-02 15:04 MST"

// verbose gates LogInfo output.
var verbose atomic.Bool

// GetColorLabel returns a colored text label for console output (table).
// It uses schema.GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(score float64) string {
	text := schema.GetPlainLabel(score)

	switch text {
	case "Ideal":
		return IdealColor.Sprint(text)
	case "Good":
		return GoodColor.Sprint(text)
	case "Fair":
		return FairColor.Sprint(text)
	default: // "Poor"
		return PoorColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// SetVerbose enables or disables LogInfo output.
func SetVerbose(enabled bool) {
	verbose.Store(enabled)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// LogInfo logs a progress message to stderr when verbose output is enabled.
func LogInfo(format string, args ...any) {
	if !verbose.Load() {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "Info "+format+"\n", args...)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".roomspot_cache.db"
	}
	return filepath.Join(homeDir, ".roomspot_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for search history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".roomspot_history.db"
	}
	return filepath.Join(homeDir, ".roomspot_history.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
