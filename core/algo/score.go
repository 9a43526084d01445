// Package algo has the timeline, scoring and ranking logic of roomspot.
package algo

import (
	"fmt"
	"math"
	"time"

	"github.com/huangsam/roomspot/schema"
)

// longevityTarget is the free stretch, in minutes, that earns the full longevity signal.
const longevityTarget = 240.0

// weightTolerance bounds how far the weight sum may drift from 1.0.
const weightTolerance = 0.001

// Weights are the contributions of the six scoring signals.
type Weights struct {
	Availability float64
	Distance     float64
	PriorUsage   float64
	RoomType     float64
	Longevity    float64
	Capacity     float64
}

// DefaultWeights returns the stock signal weights.
func DefaultWeights() Weights {
	return Weights{
		Availability: 0.51,
		Distance:     0.15,
		PriorUsage:   0.11,
		RoomType:     0.09,
		Longevity:    0.09,
		Capacity:     0.05,
	}
}

// AsMap returns the weights keyed by breakdown key.
func (w Weights) AsMap() map[schema.BreakdownKey]float64 {
	return map[schema.BreakdownKey]float64{
		schema.BreakdownAvailability: w.Availability,
		schema.BreakdownDistance:     w.Distance,
		schema.BreakdownPriorUsage:   w.PriorUsage,
		schema.BreakdownRoomType:     w.RoomType,
		schema.BreakdownLongevity:    w.Longevity,
		schema.BreakdownCapacity:     w.Capacity,
	}
}

// Validate checks that every weight is in [0, 1] and that they sum to 1.0.
func (w Weights) Validate() error {
	sum := 0.0
	for _, key := range schema.AllBreakdownKeys {
		v := w.AsMap()[key]
		if v < 0 || v > 1 {
			return fmt.Errorf("weight for %s must be between 0 and 1, got %.3f", key, v)
		}
		sum += v
	}
	if math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("weights must sum to 1.0, got %.3f", sum)
	}
	return nil
}

// ScoreOptions holds the static configuration used by ScoreRoom.
type ScoreOptions struct {
	Weights     Weights
	ClosingHour int
	EmptyWindow schema.EmptyWindowPolicy
	Travel      TravelMatrix
	RoomTypes   map[string]float64
}

// DefaultScoreOptions returns options with stock weights and campus tables.
func DefaultScoreOptions() ScoreOptions {
	return ScoreOptions{
		Weights:     DefaultWeights(),
		ClosingHour: DefaultClosingHour,
		EmptyWindow: schema.EmptyWindowAvailable,
		Travel:      DefaultTravelMatrix(),
		RoomTypes:   DefaultRoomTypeScores(),
	}
}

// ScoreRoom computes the weighted score of a room for a query.
//
// The reference instant for prior usage and longevity is the later of now and
// the start of the query window, in the query's location. A room is either fully
// scored or an error is returned; there are no partial scores.
func ScoreRoom(room schema.RoomDirectoryEntry, tl schema.RoomTimeline, query schema.SearchQuery, now time.Time, opts ScoreOptions) (schema.ScoredRoom, error) {
	if err := validateRecord(room, tl); err != nil {
		return schema.ScoredRoom{}, err
	}
	from, to := query.From, query.To()
	if err := CheckHorizon(tl, from, to); err != nil {
		return schema.ScoredRoom{}, err
	}

	ref := now
	if from.After(ref) {
		ref = from
	}
	ref = ref.In(from.Location())

	available := IsFullyAvailable(tl, from, to, opts.EmptyWindow)
	minutesFree := TimeToNextBusySlot(tl, ref, ClosingTime(ref, opts.ClosingHour)).Minutes()

	signals := map[schema.BreakdownKey]float64{
		schema.BreakdownAvailability: boolSignal(available),
		schema.BreakdownDistance:     -opts.Travel.Minutes(query.Location, room.Location),
		schema.BreakdownPriorUsage:   boolSignal(HasPriorUsageToday(tl, ref)),
		schema.BreakdownRoomType:     opts.RoomTypes[room.Type],
		schema.BreakdownLongevity:    clamp(100-(longevityTarget-minutesFree), 0, 100),
		schema.BreakdownCapacity:     clamp(100-float64(room.Seats), 0, 100),
	}

	weights := opts.Weights.AsMap()
	breakdown := make(map[schema.BreakdownKey]float64, len(signals))
	score := 0.0
	for _, key := range schema.AllBreakdownKeys {
		contribution := signals[key] * weights[key]
		breakdown[key] = contribution
		score += contribution
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return schema.ScoredRoom{}, fmt.Errorf("%w: %s at %q is unreachable from %q",
			schema.ErrScoringFailure, room.ID(), room.Location, query.Location)
	}

	return schema.ScoredRoom{
		RoomID:      room.ID(),
		Room:        room,
		Score:       score,
		Available:   available,
		MinutesFree: minutesFree,
		Breakdown:   breakdown,
	}, nil
}

// validateRecord rejects directory entries and timelines that cannot be scored.
func validateRecord(room schema.RoomDirectoryEntry, tl schema.RoomTimeline) error {
	if room.Building == "" || room.Room == "" {
		return fmt.Errorf("%w: directory entry %q lacks building or room", schema.ErrScoringFailure, room.ID())
	}
	if room.Seats < 0 {
		return fmt.Errorf("%w: %s has negative seat count %d", schema.ErrScoringFailure, room.ID(), room.Seats)
	}
	if tl.RoomID != "" && tl.RoomID != room.ID() {
		return fmt.Errorf("%w: timeline for %q attached to %q", schema.ErrScoringFailure, tl.RoomID, room.ID())
	}
	for _, iv := range tl.Intervals {
		if iv.End.Before(iv.Start) {
			return fmt.Errorf("%w: %s has interval ending before it starts at %s",
				schema.ErrScoringFailure, room.ID(), iv.Start.Format(time.RFC3339))
		}
	}
	return nil
}

func boolSignal(b bool) float64 {
	if b {
		return 100
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
