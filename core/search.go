package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/roomspot/core/algo"
	"github.com/huangsam/roomspot/internal/contract"
	"github.com/huangsam/roomspot/schema"
)

// SearchCoordinator runs free-room searches: it refreshes stale data, scores
// every candidate and returns the best ones.
type SearchCoordinator struct {
	store   contract.AllocationStore
	fetcher *Fetcher
	history contract.HistoryStore // nil disables tracking
	opts    algo.ScoreOptions
	clock   func() time.Time // stamps the end of history runs
}

// NewSearchCoordinator wires a coordinator. history may be nil.
func NewSearchCoordinator(store contract.AllocationStore, fetcher *Fetcher, history contract.HistoryStore, opts algo.ScoreOptions) *SearchCoordinator {
	return &SearchCoordinator{
		store:   store,
		fetcher: fetcher,
		history: history,
		opts:    opts,
		clock:   time.Now,
	}
}

// Search returns up to query.Count rooms ranked by score. Rooms that cannot be
// refreshed or scored are skipped and counted in the result.
func (c *SearchCoordinator) Search(ctx context.Context, query schema.SearchQuery, now time.Time) (schema.SearchResult, error) {
	var result schema.SearchResult

	// --- 1. Validation ---
	if err := contract.ValidateQuery(query); err != nil {
		return result, err
	}

	// --- 2. Directory ---
	directory, err := c.loadDirectory(ctx, query.ForceRefresh, &result)
	if err != nil {
		return result, err
	}

	// --- 3. Candidates ---
	candidates, err := filterCandidates(directory, query.Location, query.Building)
	if err != nil {
		return result, err
	}
	result.Candidates = len(candidates)

	// --- 4. Begin Search Tracking (if configured) ---
	runID := c.beginTracking(query, now)

	// --- 5. Refresh what the window needs ---
	if err := c.refresh(ctx, candidates, query, &result); err != nil {
		c.endTracking(runID, result.Candidates, nil)
		return result, err
	}

	// --- 6. Scoring ---
	scored := make([]schema.ScoredRoom, 0, len(candidates))
	for _, room := range candidates {
		sr, err := c.scoreCandidate(room, query, now)
		if err != nil {
			contract.LogWarn(fmt.Sprintf("Skipping %s", room.ID()), err)
			result.Skipped++
			continue
		}
		scored = append(scored, sr)
	}

	// --- 7. Ranking ---
	result.Rooms = algo.RankRooms(scored, query.Count)
	if len(result.Rooms) == 0 {
		c.endTracking(runID, result.Candidates, nil)
		return result, fmt.Errorf("%w: none of %d candidates at %s could be scored",
			schema.ErrNoRoomsFound, len(candidates), query.Location)
	}

	// --- 8. End Search Tracking ---
	result.RunID = c.endTracking(runID, result.Candidates, result.Rooms)

	return result, nil
}

// loadDirectory returns the stored directory, downloading it first when it is
// missing or a refresh is forced. A failed download only matters when nothing
// is cached.
func (c *SearchCoordinator) loadDirectory(ctx context.Context, force bool, result *schema.SearchResult) ([]schema.RoomDirectoryEntry, error) {
	if force || c.store.DirectoryMissing() {
		if _, err := c.fetcher.FetchDirectory(ctx); err != nil {
			if c.store.DirectoryMissing() {
				return nil, err
			}
			contract.LogWarn("Using cached room directory", err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("using cached room directory: %v", err))
		}
	}
	directory, err := c.store.LoadDirectory()
	if err != nil {
		return nil, fmt.Errorf("failed to load room directory: %w", err)
	}
	return directory, nil
}

// refresh fetches every candidate whose stored data does not cover the window,
// or every candidate when the query forces it.
func (c *SearchCoordinator) refresh(ctx context.Context, candidates []schema.RoomDirectoryEntry, query schema.SearchQuery, result *schema.SearchResult) error {
	var stale []string
	for _, room := range candidates {
		if query.ForceRefresh || c.store.IsStale(room.ID(), query.From, query.To()) {
			stale = append(stale, room.ID())
		}
	}
	if len(stale) == 0 {
		return nil
	}

	report, err := c.fetcher.FetchAllocations(ctx, stale, query.From, query.To())
	result.Fetched = len(report.Succeeded)
	result.FetchFailed = report.FailedCount()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	switch {
	case err != nil:
		unresolved := fmt.Errorf("%w: %w", schema.ErrStaleDataUnresolved, err)
		contract.LogWarn("Continuing with cached data", unresolved)
		result.Warnings = append(result.Warnings, unresolved.Error())
	case report.FailedCount() > 0:
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d of %d rooms could not be refreshed", report.FailedCount(), len(report.Requested)))
	}
	return nil
}

// scoreCandidate loads a room's timeline and scores it.
func (c *SearchCoordinator) scoreCandidate(room schema.RoomDirectoryEntry, query schema.SearchQuery, now time.Time) (schema.ScoredRoom, error) {
	tl, err := c.store.LoadTimeline(room.ID())
	if err != nil {
		return schema.ScoredRoom{}, err
	}
	return algo.ScoreRoom(room, tl, query, now, c.opts)
}

// filterCandidates returns the directory entries at location, narrowed to
// building when one is given. Duplicate room IDs keep their first entry.
func filterCandidates(directory []schema.RoomDirectoryEntry, location, building string) ([]schema.RoomDirectoryEntry, error) {
	seen := make(map[string]struct{})
	var atLocation, matched []schema.RoomDirectoryEntry
	for _, room := range directory {
		if room.Location != location {
			continue
		}
		if _, dup := seen[room.ID()]; dup {
			continue
		}
		seen[room.ID()] = struct{}{}
		atLocation = append(atLocation, room)
		if building == "" || room.Building == building {
			matched = append(matched, room)
		}
	}

	if len(atLocation) == 0 {
		return nil, fmt.Errorf("%w: no rooms at %s", schema.ErrNoRoomsFound, location)
	}
	if len(matched) == 0 {
		return nil, fmt.Errorf("%w: building %q at %s", schema.ErrNoMatchingRooms, building, location)
	}
	return matched, nil
}

// beginTracking opens a history run started at now. It returns an empty ID
// when tracking is disabled or fails.
func (c *SearchCoordinator) beginTracking(query schema.SearchQuery, now time.Time) string {
	if c.history == nil {
		return ""
	}
	runID, err := c.history.BeginSearch(now, query)
	if err != nil {
		contract.LogWarn("Search tracking initialization failed", err)
		return ""
	}
	return runID
}

// endTracking records the ranked rooms and closes the run. A failed search
// closes its run with no rooms. It returns the run ID when the run was finalized.
func (c *SearchCoordinator) endTracking(runID string, candidates int, ranked []schema.ScoredRoom) string {
	if c.history == nil || runID == "" {
		return ""
	}
	var errs []error
	for _, room := range schema.EnrichRooms(ranked) {
		if err := c.history.RecordScoredRoom(runID, room); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", room.RoomID, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		contract.LogWarn(fmt.Sprintf("Search tracking failed for run %s", runID), err)
	}
	if err := c.history.EndSearch(runID, c.clock(), candidates, len(ranked)); err != nil {
		contract.LogWarn("Failed to finalize search tracking", err)
		return ""
	}
	return runID
}
