// Package core has core logic for refreshing, scoring and ranking rooms.
package core

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/huangsam/roomspot/internal/contract"
	"github.com/huangsam/roomspot/internal/iocache"
	"github.com/huangsam/roomspot/internal/outwriter"
	"github.com/huangsam/roomspot/schema"
)

// ExecutorFunc defines the function signature for executing roomspot commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, client contract.RoomInfoClient, now time.Time) error

// NewSearchCoordinatorFromConfig wires a coordinator over the manager's stores.
func NewSearchCoordinatorFromConfig(cfg *contract.Config, mgr contract.CacheManager, client contract.RoomInfoClient) *SearchCoordinator {
	store := iocache.NewAllocationStore(mgr.GetRoomStore(), cfg.Timezone)
	fetcher := NewFetcher(client, store, cfg.Workers, cfg.FetchDays)
	return NewSearchCoordinator(store, fetcher, mgr.GetHistoryStore(), cfg.ScoreOptions())
}

// GetSearchResults runs the search described by cfg and returns the ranked rooms.
func GetSearchResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, client contract.RoomInfoClient, now time.Time) (schema.SearchResult, error) {
	if !shouldSuppressHeader(ctx) && cfg.Output == schema.TextOut {
		outwriter.LogSearchHeader(cfg)
	}
	coordinator := NewSearchCoordinatorFromConfig(cfg, mgr, client)
	return coordinator.Search(ctx, cfg.SearchQuery(), now)
}

// ExecuteSearch runs a search and prints the results.
// It serves as the main entry point for the 'search' command.
func ExecuteSearch(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, client contract.RoomInfoClient, now time.Time) error {
	start := time.Now()
	result, err := GetSearchResults(ctx, cfg, mgr, client, now)
	if err != nil {
		return err
	}
	return outwriter.WriteSearchResults(result, cfg, time.Since(start))
}

// GetRoomDirectory returns the directory entries matching cfg's location and
// building filters, downloading the directory when none is cached. Entries are
// ordered by location and room ID.
func GetRoomDirectory(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, client contract.RoomInfoClient) ([]schema.RoomDirectoryEntry, error) {
	store := iocache.NewAllocationStore(mgr.GetRoomStore(), cfg.Timezone)
	if store.DirectoryMissing() || cfg.ForceRefresh {
		fetcher := NewFetcher(client, store, cfg.Workers, cfg.FetchDays)
		if _, err := fetcher.FetchDirectory(ctx); err != nil {
			return nil, err
		}
	}
	directory, err := store.LoadDirectory()
	if err != nil {
		return nil, err
	}

	rooms := make([]schema.RoomDirectoryEntry, 0, len(directory))
	for _, room := range directory {
		if cfg.Location != "" && room.Location != cfg.Location {
			continue
		}
		if cfg.Building != "" && room.Building != cfg.Building {
			continue
		}
		rooms = append(rooms, room)
	}
	slices.SortFunc(rooms, func(a, b schema.RoomDirectoryEntry) int {
		return cmp.Or(cmp.Compare(a.Location, b.Location), cmp.Compare(a.ID(), b.ID()))
	})
	return rooms, nil
}

// ExecuteRoomsList prints the cached room directory.
func ExecuteRoomsList(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, client contract.RoomInfoClient, _ time.Time) error {
	rooms, err := GetRoomDirectory(ctx, cfg, mgr, client)
	if err != nil {
		return err
	}
	if len(rooms) == 0 {
		return schema.ErrNoRoomsFound
	}
	return outwriter.WriteRooms(rooms, cfg)
}

// ExecuteRoomsRefresh downloads the directory and, when a location is set,
// the allocations of every matching room for the configured window.
func ExecuteRoomsRefresh(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, client contract.RoomInfoClient, now time.Time) error {
	start := time.Now()
	store := iocache.NewAllocationStore(mgr.GetRoomStore(), cfg.Timezone)
	fetcher := NewFetcher(client, store, cfg.Workers, cfg.FetchDays)

	directory, err := fetcher.FetchDirectory(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Saved directory with %d rooms\n", len(directory))
	if cfg.Location == "" {
		return nil
	}

	candidates, err := filterCandidates(directory, cfg.Location, cfg.Building)
	if err != nil {
		return err
	}
	ids := make([]string, len(candidates))
	for i, room := range candidates {
		ids[i] = room.ID()
	}

	from := cfg.When
	if from.IsZero() {
		from = now
	}
	report, err := fetcher.FetchAllocations(ctx, ids, from, from.Add(cfg.Duration))
	if err != nil {
		return err
	}
	fmt.Printf("Refreshed %d of %d rooms at %s in %v\n",
		len(report.Succeeded), len(report.Requested), cfg.Location, time.Since(start).Round(time.Millisecond))
	return nil
}

// ExecuteMetrics displays the scoring signals and their active weights.
// This is a static display that does not contact the room-info service.
func ExecuteMetrics(_ context.Context, cfg *contract.Config, _ contract.CacheManager, _ contract.RoomInfoClient, _ time.Time) error {
	return outwriter.WriteMetrics(cfg.Weights.AsMap(), cfg)
}
