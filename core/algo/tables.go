package algo

import (
	"fmt"
	"math"

	"github.com/huangsam/roomspot/schema"
)

// TravelMatrix holds symmetric public transit minutes between named locations.
type TravelMatrix struct {
	index   map[string]int
	minutes [][]float64
}

// NewTravelMatrix builds a matrix from location names and a square table of minutes.
func NewTravelMatrix(names []string, minutes [][]float64) (TravelMatrix, error) {
	if len(minutes) != len(names) {
		return TravelMatrix{}, fmt.Errorf("travel matrix has %d rows for %d locations", len(minutes), len(names))
	}
	index := make(map[string]int, len(names))
	for i, name := range names {
		if len(minutes[i]) != len(names) {
			return TravelMatrix{}, fmt.Errorf("travel matrix row %q has %d columns, want %d", name, len(minutes[i]), len(names))
		}
		index[name] = i
	}
	return TravelMatrix{index: index, minutes: minutes}, nil
}

// Minutes returns travel time between two locations, or +Inf if either is unknown.
func (m TravelMatrix) Minutes(from, to string) float64 {
	i, ok := m.index[from]
	if !ok {
		return math.Inf(1)
	}
	j, ok := m.index[to]
	if !ok {
		return math.Inf(1)
	}
	return m.minutes[i][j]
}

// defaultTravelMinutes follows the order of schema.AllLocations.
var defaultTravelMinutes = [][]float64{
	{0, 86, 58, 37, 29, 15, 33},
	{86, 0, 90, 82, 84, 69, 67},
	{58, 90, 0, 62, 60, 45, 63},
	{37, 82, 62, 0, 22, 19, 2},
	{29, 84, 60, 22, 0, 21, 24},
	{15, 69, 45, 19, 21, 0, 19},
	{33, 67, 63, 2, 24, 19, 0},
}

// DefaultTravelMatrix returns the campus travel matrix.
func DefaultTravelMatrix() TravelMatrix {
	m, err := NewTravelMatrix(schema.AllLocations, defaultTravelMinutes)
	if err != nil {
		panic(err) // static table
	}
	return m
}

// DefaultRoomTypeScores maps room type descriptions to how well they suit quiet work.
func DefaultRoomTypeScores() map[string]float64 {
	return map[string]float64{
		"Seminars / Courses":    100,
		"Meeting room":          100,
		"Exercises":             100,
		"Computer":              70,
		"Lecture hall":          50,
		"Draw":                  30,
		"Multipurpose room":     20,
		"Training room":         0,
		"Exhibition space":      0,
		"Photo lab / Darkroom":  0,
		"Laboratory internship": 0,
		"Microscopy":            0,
	}
}
