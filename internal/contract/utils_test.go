package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetColorLabel(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		label string
	}{
		{"poor", 10, "Poor"},
		{"fair", 30, "Fair"},
		{"good", 55, "Good"},
		{"ideal", 90, "Ideal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetColorLabel(tt.score)
			// Should contain the plain label
			assert.Contains(t, result, tt.label)
		})
	}
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "rooms.txt")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		// Verify file was created
		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestGetDBFilePaths(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	cachePath := GetCacheDBFilePath()
	assert.Contains(t, cachePath, ".roomspot_cache.db")
	assert.True(t, strings.HasPrefix(cachePath, homeDir), "path %s should start with home dir %s", cachePath, homeDir)

	historyPath := GetHistoryDBFilePath()
	assert.Contains(t, historyPath, ".roomspot_history.db")
	assert.NotEqual(t, cachePath, historyPath)
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "HG E 1", TruncateText("HG E 1", 10))
	assert.Equal(t, "Semin...", TruncateText("Seminars / Courses", 8))
	assert.Equal(t, "Zürich...", TruncateText("Zürich Zentrum", 9))
	// Too narrow for an ellipsis
	assert.Equal(t, "abcdef", TruncateText("abcdef", 3))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v, s)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

// FuzzParseWhen fuzzes the ParseWhen function with random inputs.
func FuzzParseWhen(f *testing.F) {
	seeds := []string{
		"",
		"08:00",
		"2025-03-10",
		"2025-03-10T08:00",
		"2025-03-10 08:00",
		"2025-03-10T08:00:00+01:00",
		"25:99", // edge case
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	now := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)
	f.Fuzz(func(t *testing.T, input string) {
		got, err := ParseWhen(input, time.UTC, now)
		if err == nil && got.Location() != time.UTC {
			t.Errorf("ParseWhen(%q) returned time in %v", input, got.Location())
		}
	})
}
