package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/huangsam/roomspot/internal/contract"
	"github.com/huangsam/roomspot/internal/iocache"
	"github.com/huangsam/roomspot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Query window shared by the core tests: Monday 08:00 to 10:00 UTC.
var (
	testFrom = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	testTo   = testFrom.Add(2 * time.Hour)
	testNow  = time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC)
)

func newTestStore(t *testing.T) *iocache.AllocationStoreImpl {
	t.Helper()
	cs, err := iocache.NewMemoryCacheStore("room_cache")
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return iocache.NewAllocationStore(cs, time.UTC)
}

func busy(startHour, endHour int) schema.AllocationInterval {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	return schema.AllocationInterval{
		Start:    day.Add(time.Duration(startHour) * time.Hour),
		End:      day.Add(time.Duration(endHour) * time.Hour),
		SlotType: 5,
	}
}

func TestFetchWindow(t *testing.T) {
	tests := []struct {
		name      string
		from, to  time.Time
		fetchDays int
		wantFrom  time.Time
		wantTo    time.Time
	}{
		{
			name:      "short window uses fetch days",
			from:      testFrom,
			to:        testTo,
			fetchDays: 7,
			wantFrom:  time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			wantTo:    time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "long window extends past fetch days",
			from:      testFrom,
			to:        time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC),
			fetchDays: 1,
			wantFrom:  time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			wantTo:    time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "window crossing midnight",
			from:      time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC),
			to:        time.Date(2025, 3, 11, 1, 0, 0, 0, time.UTC),
			fetchDays: 1,
			wantFrom:  time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			wantTo:    time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotFrom, gotTo := FetchWindow(tt.from, tt.to, tt.fetchDays)
			assert.True(t, tt.wantFrom.Equal(gotFrom), "from: got %v", gotFrom)
			assert.True(t, tt.wantTo.Equal(gotTo), "to: got %v", gotTo)
		})
	}
}

func TestFetchWindowKeepsLocation(t *testing.T) {
	zurich, err := time.LoadLocation("Europe/Zurich")
	require.NoError(t, err)

	from := time.Date(2025, 3, 10, 0, 30, 0, 0, zurich)
	start, _ := FetchWindow(from, from.Add(time.Hour), 7)
	assert.Equal(t, zurich, start.Location())
	assert.Equal(t, 10, start.Day(), "midnight of the local day, not the UTC day")
}

// TestFetcherPartialFailure covers a batch of five rooms where the third one fails.
func TestFetcherPartialFailure(t *testing.T) {
	store := newTestStore(t)
	client := new(contract.MockRoomInfoClient)
	rooms := []string{"HG E 1", "HG E 2", "HG E 3", "HG E 4", "HG E 5"}
	for _, id := range rooms {
		if id == "HG E 3" {
			client.On("GetAllocations", mock.Anything, id, mock.Anything, mock.Anything).
				Return(nil, errors.New("connection reset by peer")).Once()
			continue
		}
		client.On("GetAllocations", mock.Anything, id, mock.Anything, mock.Anything).
			Return([]schema.AllocationInterval{busy(12, 14), busy(9, 10)}, nil).Once()
	}

	fetcher := NewFetcher(client, store, 2, 7)
	report, err := fetcher.FetchAllocations(context.Background(), rooms, testFrom, testTo)
	require.NoError(t, err)

	assert.Equal(t, rooms, report.Requested)
	assert.Equal(t, []string{"HG E 1", "HG E 2", "HG E 4", "HG E 5"}, report.Succeeded)
	assert.Equal(t, 1, report.FailedCount())
	assert.ErrorIs(t, report.Failed["HG E 3"], schema.ErrFetchFailure)
	assert.ErrorContains(t, report.Failed["HG E 3"], "connection reset")

	tl, err := store.LoadTimeline("HG E 1")
	require.NoError(t, err)
	require.Len(t, tl.Intervals, 2)
	assert.True(t, tl.Intervals[0].End.Before(tl.Intervals[1].End), "saved timeline is sorted")
	assert.True(t, tl.CoveredFrom.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)))
	assert.True(t, tl.CoveredUntil.Equal(time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)))

	_, err = store.LoadTimeline("HG E 3")
	assert.ErrorIs(t, err, schema.ErrRoomDataMissing)

	client.AssertExpectations(t)
}

func TestFetcherDedupe(t *testing.T) {
	store := newTestStore(t)
	client := new(contract.MockRoomInfoClient)
	client.On("GetAllocations", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]schema.AllocationInterval{}, nil)

	fetcher := NewFetcher(client, store, 4, 7)
	report, err := fetcher.FetchAllocations(context.Background(), []string{"A 1 1", "B 2 2", "A 1 1", "B 2 2", "C 3 3"}, testFrom, testTo)
	require.NoError(t, err)

	assert.Equal(t, []string{"A 1 1", "B 2 2", "C 3 3"}, report.Requested)
	client.AssertNumberOfCalls(t, "GetAllocations", 3)
}

func TestFetcherRequestsFetchWindow(t *testing.T) {
	store := newTestStore(t)
	client := new(contract.MockRoomInfoClient)
	wantFrom, wantTo := FetchWindow(testFrom, testTo, 3)
	client.On("GetAllocations", mock.Anything, "HG E 1", wantFrom, wantTo).
		Return([]schema.AllocationInterval{}, nil).Once()

	_, err := NewFetcher(client, store, 1, 3).FetchAllocations(context.Background(), []string{"HG E 1"}, testFrom, testTo)
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestFetcherAllFail(t *testing.T) {
	store := newTestStore(t)
	client := new(contract.MockRoomInfoClient)
	client.On("GetAllocations", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("503 service unavailable"))

	report, err := NewFetcher(client, store, 2, 7).FetchAllocations(context.Background(), []string{"HG E 1", "HG E 2"}, testFrom, testTo)
	assert.ErrorIs(t, err, schema.ErrFetchFailure)
	assert.Empty(t, report.Succeeded)
	assert.Equal(t, 2, report.FailedCount())
}

func TestFetcherEmptyBatch(t *testing.T) {
	client := new(contract.MockRoomInfoClient)
	report, err := NewFetcher(client, newTestStore(t), 2, 7).FetchAllocations(context.Background(), nil, testFrom, testTo)
	assert.NoError(t, err)
	assert.Empty(t, report.Requested)
	client.AssertNotCalled(t, "GetAllocations", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFetcherCanceledContext(t *testing.T) {
	client := new(contract.MockRoomInfoClient)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := NewFetcher(client, newTestStore(t), 2, 7).FetchAllocations(ctx, []string{"HG E 1", "HG E 2", "HG E 3"}, testFrom, testTo)
	assert.ErrorIs(t, err, schema.ErrFetchFailure)
	assert.Equal(t, 3, report.FailedCount())
	for _, failure := range report.Failed {
		assert.ErrorIs(t, failure, context.Canceled)
	}
	client.AssertNotCalled(t, "GetAllocations", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFetcherSaveFailure(t *testing.T) {
	cs := new(iocache.MockCacheStore)
	cs.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full"))
	store := iocache.NewAllocationStore(cs, time.UTC)

	client := new(contract.MockRoomInfoClient)
	client.On("GetAllocations", mock.Anything, "HG E 1", mock.Anything, mock.Anything).
		Return([]schema.AllocationInterval{busy(9, 10)}, nil)

	report, err := NewFetcher(client, store, 1, 7).FetchAllocations(context.Background(), []string{"HG E 1"}, testFrom, testTo)
	assert.ErrorIs(t, err, schema.ErrFetchFailure)
	assert.ErrorContains(t, report.Failed["HG E 1"], "disk full")
}

func TestNewFetcherDefaults(t *testing.T) {
	f := NewFetcher(new(contract.MockRoomInfoClient), newTestStore(t), 0, 0)
	assert.Equal(t, contract.DefaultWorkers, f.workers)
	assert.Equal(t, contract.DefaultFetchDays, f.fetchDays)
}

func TestFetchDirectory(t *testing.T) {
	entries := []schema.RoomDirectoryEntry{
		{Building: "HG", Floor: "E", Room: "1", Location: schema.LocationZurichZentrum, Type: "Seminars / Courses", Seats: 40},
	}

	t.Run("saves directory", func(t *testing.T) {
		store := newTestStore(t)
		client := new(contract.MockRoomInfoClient)
		client.On("GetDirectory", mock.Anything).Return(entries, nil).Once()

		got, err := NewFetcher(client, store, 1, 7).FetchDirectory(context.Background())
		require.NoError(t, err)
		assert.Equal(t, entries, got)

		saved, err := store.LoadDirectory()
		require.NoError(t, err)
		assert.Equal(t, entries, saved)
	})

	t.Run("client error", func(t *testing.T) {
		store := newTestStore(t)
		client := new(contract.MockRoomInfoClient)
		client.On("GetDirectory", mock.Anything).Return(nil, errors.New("timeout")).Once()

		_, err := NewFetcher(client, store, 1, 7).FetchDirectory(context.Background())
		assert.ErrorIs(t, err, schema.ErrFetchFailure)
		assert.True(t, store.DirectoryMissing())
	})

	t.Run("empty directory", func(t *testing.T) {
		client := new(contract.MockRoomInfoClient)
		client.On("GetDirectory", mock.Anything).Return([]schema.RoomDirectoryEntry{}, nil).Once()

		_, err := NewFetcher(client, newTestStore(t), 1, 7).FetchDirectory(context.Background())
		assert.ErrorIs(t, err, schema.ErrFetchFailure)
		assert.ErrorContains(t, err, "empty")
	})
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"b", "a", "c"}, dedupe([]string{"b", "a", "b", "c", "a"}))
	assert.Empty(t, dedupe(nil))
}
