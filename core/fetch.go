package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/huangsam/roomspot/internal/contract"
	"github.com/huangsam/roomspot/schema"
)

// FetchReport summarizes one batch refresh.
type FetchReport struct {
	Requested []string         // Deduplicated room IDs, in submission order
	Succeeded []string         // Rooms whose timeline was saved, in submission order
	Failed    map[string]error // Per-room failure, wrapping schema.ErrFetchFailure
}

// FailedCount returns the number of rooms that could not be refreshed.
func (r FetchReport) FailedCount() int {
	return len(r.Failed)
}

// fetchOutcome is what a worker sends back for one room.
type fetchOutcome struct {
	roomID string
	err    error
}

// Fetcher refreshes room data from the room-info service into an AllocationStore.
type Fetcher struct {
	client    contract.RoomInfoClient
	store     contract.AllocationStore
	workers   int
	fetchDays int
	now       func() time.Time // stamps the saved directory
}

// NewFetcher returns a Fetcher running at most workers concurrent requests.
// Each allocation request covers at least fetchDays days.
func NewFetcher(client contract.RoomInfoClient, store contract.AllocationStore, workers, fetchDays int) *Fetcher {
	if workers < 1 {
		workers = contract.DefaultWorkers
	}
	if fetchDays < 1 {
		fetchDays = contract.DefaultFetchDays
	}
	return &Fetcher{
		client:    client,
		store:     store,
		workers:   workers,
		fetchDays: fetchDays,
		now:       time.Now,
	}
}

// FetchWindow returns the date range requested for a query window [from, to).
// It starts at midnight of from's day and ends at the later of fetchDays after
// that and midnight after to's day.
func FetchWindow(from, to time.Time, fetchDays int) (time.Time, time.Time) {
	start := startOfDay(from)
	end := start.AddDate(0, 0, fetchDays)
	if last := startOfDay(to.In(from.Location())).AddDate(0, 0, 1); last.After(end) {
		end = last
	}
	return start, end
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FetchAllocations downloads and saves the timelines of roomIDs so they cover
// the query window [from, to). Rooms are refreshed in parallel and a failed
// room never aborts the others. An error is returned only when rooms were
// requested and none succeeded.
func (f *Fetcher) FetchAllocations(ctx context.Context, roomIDs []string, from, to time.Time) (FetchReport, error) {
	report := FetchReport{
		Requested: dedupe(roomIDs),
		Failed:    make(map[string]error),
	}
	if len(report.Requested) == 0 {
		return report, nil
	}
	fromDate, toDate := FetchWindow(from, to, f.fetchDays)
	contract.LogInfo("Fetching %d rooms for %s → %s", len(report.Requested),
		fromDate.Format(time.DateOnly), toDate.Format(time.DateOnly))

	// Initialize channels based on the number of rooms to be fetched.
	roomCh := make(chan string, len(report.Requested))
	outcomeCh := make(chan fetchOutcome, len(report.Requested))
	var wg sync.WaitGroup

	// Start worker pool
	for range min(f.workers, len(report.Requested)) {
		wg.Go(func() {
			for roomID := range roomCh {
				outcomeCh <- fetchOutcome{roomID: roomID, err: f.fetchRoom(ctx, roomID, fromDate, toDate)}
			}
		})
	}

	for _, roomID := range report.Requested {
		roomCh <- roomID
	}
	close(roomCh)

	wg.Wait()
	close(outcomeCh)

	for o := range outcomeCh {
		if o.err != nil {
			contract.LogWarn(fmt.Sprintf("Refresh failed for %s", o.roomID), o.err)
			report.Failed[o.roomID] = o.err
		}
	}
	for _, roomID := range report.Requested {
		if _, failed := report.Failed[roomID]; !failed {
			report.Succeeded = append(report.Succeeded, roomID)
		}
	}

	if len(report.Succeeded) == 0 {
		return report, fmt.Errorf("%w: none of %d rooms could be refreshed", schema.ErrFetchFailure, len(report.Requested))
	}
	return report, nil
}

// fetchRoom downloads one room's allocations and replaces its stored timeline.
func (f *Fetcher) fetchRoom(ctx context.Context, roomID string, fromDate, toDate time.Time) error {
	// Rooms still queued when the context ends are not dispatched
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %s: %w", schema.ErrFetchFailure, roomID, err)
	}
	intervals, err := f.client.GetAllocations(ctx, roomID, fromDate, toDate)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", schema.ErrFetchFailure, roomID, err)
	}
	tl := schema.RoomTimeline{RoomID: roomID, Intervals: intervals}
	if err := f.store.SaveTimeline(tl, fromDate, toDate); err != nil {
		return fmt.Errorf("%w: %s: save timeline: %w", schema.ErrFetchFailure, roomID, err)
	}
	return nil
}

// FetchDirectory downloads the room directory and persists it.
func (f *Fetcher) FetchDirectory(ctx context.Context) ([]schema.RoomDirectoryEntry, error) {
	entries, err := f.client.GetDirectory(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: room directory: %w", schema.ErrFetchFailure, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: room directory is empty", schema.ErrFetchFailure)
	}
	if err := f.store.SaveDirectory(entries, f.now()); err != nil {
		return nil, fmt.Errorf("failed to save room directory: %w", err)
	}
	contract.LogInfo("Saved directory with %d rooms", len(entries))
	return entries, nil
}

// dedupe drops repeated IDs, keeping the first occurrence.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
