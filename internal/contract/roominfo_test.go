package contract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/huangsam/roomspot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const directoryBody = `[
  {"building": "HG", "floor": "E", "room": "1", "location": {"areaDesc": "Zürich Zentrum"}, "typeDesc": "Seminars / Courses", "seats": 40},
  {"building": " CAB ", "floor": "G", "room": "11", "location": {"areaDesc": "Zürich Zentrum"}, "typeDesc": "Computer room", "seats": 20}
]`

const allocationsBody = `[
  {"date_from": "2025-03-10T08:00:00", "date_to": "2025-03-10T10:00:00", "type": 5},
  {"date_from": "2025-03-10T10:00:00+01:00", "date_to": "2025-03-10T12:00:00+01:00", "type": 7}
]`

func TestHTTPRoomInfoClientGetDirectory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rooms", r.URL.Query().Get("path"))
		assert.Equal(t, "en", r.URL.Query().Get("lang"))
		assert.Equal(t, "Mozilla/5.0", r.Header.Get("User-Agent"))
		assert.Equal(t, "*/*", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(directoryBody))
	}))
	defer srv.Close()

	client := NewHTTPRoomInfoClient(srv.URL, time.Second, time.UTC)
	entries, err := client.GetDirectory(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "HG E 1", entries[0].ID())
	assert.Equal(t, schema.LocationZurichZentrum, entries[0].Location)
	assert.Equal(t, "Seminars / Courses", entries[0].Type)
	assert.Equal(t, 40, entries[0].Seats)
	assert.Equal(t, "CAB G 11", entries[1].ID())
}

func TestHTTPRoomInfoClientGetAllocations(t *testing.T) {
	zurich, err := time.LoadLocation("Europe/Zurich")
	require.NoError(t, err)

	var gotPath, gotFrom, gotTo string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Query().Get("path")
		gotFrom = r.URL.Query().Get("from")
		gotTo = r.URL.Query().Get("to")
		_, _ = w.Write([]byte(allocationsBody))
	}))
	defer srv.Close()

	client := NewHTTPRoomInfoClient(srv.URL, time.Second, zurich)
	from := time.Date(2025, 3, 10, 0, 0, 0, 0, zurich)
	intervals, err := client.GetAllocations(context.Background(), "HG E 1", from, from.AddDate(0, 0, 7))
	require.NoError(t, err)

	assert.Equal(t, "/rooms/HG E 1/allocations", gotPath)
	assert.Equal(t, "2025-03-10", gotFrom)
	assert.Equal(t, "2025-03-17", gotTo)

	require.Len(t, intervals, 2)
	assert.True(t, intervals[0].Start.Equal(time.Date(2025, 3, 10, 8, 0, 0, 0, zurich)))
	assert.Equal(t, schema.SlotType(5), intervals[0].SlotType)
	assert.False(t, intervals[0].IsFree())
	// Offset values keep their own offset; 10:00+01:00 is 10:00 in Zürich in March.
	assert.True(t, intervals[1].Start.Equal(time.Date(2025, 3, 10, 10, 0, 0, 0, zurich)))
	assert.True(t, intervals[1].IsFree())
}

func TestHTTPRoomInfoClientErrors(t *testing.T) {
	t.Run("bad status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "maintenance", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := NewHTTPRoomInfoClient(srv.URL, time.Second, time.UTC).GetDirectory(context.Background())
		assert.ErrorContains(t, err, "503")
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"not": "a list"`))
		}))
		defer srv.Close()

		_, err := NewHTTPRoomInfoClient(srv.URL, time.Second, time.UTC).GetAllocations(context.Background(), "HG E 1", time.Now(), time.Now())
		assert.ErrorContains(t, err, "decode response")
	})

	t.Run("bad timestamp", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[{"date_from": "yesterday", "date_to": "2025-03-10T10:00:00", "type": 5}]`))
		}))
		defer srv.Close()

		_, err := NewHTTPRoomInfoClient(srv.URL, time.Second, time.UTC).GetAllocations(context.Background(), "HG E 1", time.Now(), time.Now())
		assert.ErrorContains(t, err, "unrecognized timestamp")
	})

	t.Run("canceled context", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewHTTPRoomInfoClient(srv.URL, time.Second, time.UTC).GetDirectory(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestAllocationsURL(t *testing.T) {
	client := NewHTTPRoomInfoClient("https://example.org/roominfo/", time.Second, nil)
	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t,
		"https://example.org/roominfo?path=/rooms/HPH%20G%201/allocations&from=2025-03-10&to=2025-03-11",
		client.AllocationsURL("HPH G 1", from, from.AddDate(0, 0, 1)))
	assert.Equal(t, "https://example.org/roominfo?path=/rooms&lang=en", client.DirectoryURL())
}

func TestParseWireTime(t *testing.T) {
	for _, s := range []string{"2025-03-10T08:00:00", "2025-03-10 08:00:00", "2025-03-10T08:00", "2025-03-10T08:00:00Z"} {
		got, err := ParseWireTime(s, time.UTC)
		require.NoError(t, err, s)
		assert.True(t, got.Equal(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)), s)
	}
	_, err := ParseWireTime("", time.UTC)
	assert.Error(t, err)
}
