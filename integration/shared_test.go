//go:build integration || database

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

var (
	// sharedRoomspotPath holds the path to a shared roomspot binary built once for all tests.
	sharedRoomspotPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getRoomspotBinary returns the path to the roomspot binary, building it once if needed.
func getRoomspotBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "roomspot-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		roomspotPath := filepath.Join(tempDir, "roomspot")
		buildCmd := exec.Command("go", "build", "-o", roomspotPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if out, err := buildCmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build roomspot: %v\n%s", err, out))
		}

		sharedRoomspotPath = roomspotPath
	})

	return sharedRoomspotPath
}

// fakeRoomInfo serves a small room directory the way the room-info service does.
type fakeRoomInfo struct {
	*httptest.Server
	directoryCalls  atomic.Int32
	allocationCalls atomic.Int32
}

// newFakeRoomInfo starts a fake service with three Zentrum rooms.
// CAB G 11 is booked from 08:00 to 10:00 on 2030-03-11; the others are free.
func newFakeRoomInfo(t *testing.T) *fakeRoomInfo {
	t.Helper()
	directory := []map[string]any{
		{"building": "HG", "floor": "E", "room": "1", "location": map[string]string{"areaDesc": "Zürich Zentrum"}, "typeDesc": "Seminars / Courses", "seats": 30},
		{"building": "HG", "floor": "F", "room": "5", "location": map[string]string{"areaDesc": "Zürich Zentrum"}, "typeDesc": "Seminars / Courses", "seats": 30},
		{"building": "CAB", "floor": "G", "room": "11", "location": map[string]string{"areaDesc": "Zürich Zentrum"}, "typeDesc": "Lecture hall", "seats": 200},
	}

	f := &fakeRoomInfo{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Query().Get("path")
		w.Header().Set("Content-Type", "application/json")
		switch {
		case path == "/rooms":
			f.directoryCalls.Add(1)
			_ = json.NewEncoder(w).Encode(directory)
		case strings.HasPrefix(path, "/rooms/") && strings.HasSuffix(path, "/allocations"):
			f.allocationCalls.Add(1)
			roomID := strings.TrimSuffix(strings.TrimPrefix(path, "/rooms/"), "/allocations")
			var allocations []map[string]any
			if roomID == "CAB G 11" {
				allocations = append(allocations, map[string]any{
					"date_from": "2030-03-11T08:00:00", "date_to": "2030-03-11T10:00:00", "type": 5,
				})
			}
			_ = json.NewEncoder(w).Encode(allocations)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(f.Close)
	return f
}

// runRoomspot runs the binary from the project root with extra environment
// variables and a private HOME, returning stdout.
func runRoomspot(t *testing.T, home string, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getRoomspotBinary(), args...)
	cmd.Dir = "../" // Run from project root
	cmd.Env = append(os.Environ(), "HOME="+home)
	cmd.Env = append(cmd.Env, env...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), stdout.String(), stderr.String())
		return stdout.String(), err
	}
	return stdout.String(), nil
}
