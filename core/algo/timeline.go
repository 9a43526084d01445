package algo

import (
	"fmt"
	"iter"
	"time"

	"github.com/huangsam/roomspot/schema"
)

// DefaultClosingHour is the local hour at which campus buildings stop being useful.
const DefaultClosingHour = 22

// OverlappingIntervals yields every interval that touches the window, i.e. where
// start <= to and end >= from. Intervals are yielded in timeline order and the
// sequence can be ranged over more than once.
func OverlappingIntervals(tl schema.RoomTimeline, from, to time.Time) iter.Seq[schema.AllocationInterval] {
	return func(yield func(schema.AllocationInterval) bool) {
		for _, iv := range tl.Intervals {
			if iv.Start.After(to) || iv.End.Before(from) {
				continue
			}
			if !yield(iv) {
				return
			}
		}
	}
}

// AvailableIntervals yields the overlapping intervals whose slot type is free.
func AvailableIntervals(tl schema.RoomTimeline, from, to time.Time) iter.Seq[schema.AllocationInterval] {
	return func(yield func(schema.AllocationInterval) bool) {
		for iv := range OverlappingIntervals(tl, from, to) {
			if !iv.IsFree() {
				continue
			}
			if !yield(iv) {
				return
			}
		}
	}
}

// IsFullyAvailable reports whether every interval overlapping the window is free.
// When nothing overlaps the window the policy decides.
func IsFullyAvailable(tl schema.RoomTimeline, from, to time.Time, policy schema.EmptyWindowPolicy) bool {
	overlapping, available := 0, 0
	for iv := range OverlappingIntervals(tl, from, to) {
		overlapping++
		if iv.IsFree() {
			available++
		}
	}
	if overlapping == 0 {
		return policy != schema.EmptyWindowBusy
	}
	return overlapping == available
}

// PriorUsageToday yields intervals between midnight and now that are not closed slots.
// Midnight is taken in now's location.
func PriorUsageToday(tl schema.RoomTimeline, now time.Time) iter.Seq[schema.AllocationInterval] {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return func(yield func(schema.AllocationInterval) bool) {
		for iv := range OverlappingIntervals(tl, midnight, now) {
			if iv.SlotType == schema.SlotClosed {
				continue
			}
			if !yield(iv) {
				return
			}
		}
	}
}

// HasPriorUsageToday reports whether PriorUsageToday yields anything.
func HasPriorUsageToday(tl schema.RoomTimeline, now time.Time) bool {
	for range PriorUsageToday(tl, now) {
		return true
	}
	return false
}

// TimeToNextBusySlot returns how long the room stays usable after now. It scans
// intervals starting in [now, closing] chronologically and stops at the first one
// that is not free; without one the window lasts until closing. Never negative.
func TimeToNextBusySlot(tl schema.RoomTimeline, now, closing time.Time) time.Duration {
	if closing.Before(now) {
		return 0
	}
	for _, iv := range tl.Intervals {
		if iv.Start.Before(now) || iv.Start.After(closing) {
			continue
		}
		if !iv.IsFree() {
			return iv.Start.Sub(now)
		}
	}
	return closing.Sub(now)
}

// ClosingTime returns the given hour on now's day in now's location.
func ClosingTime(now time.Time, hour int) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
}

// CheckHorizon returns ErrRefreshRequired when the timeline does not cover [from, to).
func CheckHorizon(tl schema.RoomTimeline, from, to time.Time) error {
	if !tl.NeedsRefresh(from, to) {
		return nil
	}
	if !tl.CoveredFrom.IsZero() && from.Before(tl.CoveredFrom) {
		return fmt.Errorf("%w: %s has data from %s, query starts %s", schema.ErrRefreshRequired,
			tl.RoomID, tl.CoveredFrom.Format(time.RFC3339), from.Format(time.RFC3339))
	}
	return fmt.Errorf("%w: %s has data until %s, query ends %s", schema.ErrRefreshRequired,
		tl.RoomID, tl.Horizon().Format(time.RFC3339), to.Format(time.RFC3339))
}
