package outwriter

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/huangsam/roomspot/schema"
)

// signalBreakdown holds one entry of a room's score breakdown.
type signalBreakdown struct {
	Name  string
	Value float64 // Weighted contribution to the score
}

const (
	signalContribMinimum = 0.5
	topNSignals          = 3
)

// formatTopBreakdown lists the signals that moved the score most, strongest first.
// Distance contributions are negative, so signals are compared by magnitude.
func formatTopBreakdown(breakdown map[schema.BreakdownKey]float64) string {
	var signals []signalBreakdown
	for k, v := range breakdown {
		if math.Abs(v) >= signalContribMinimum {
			signals = append(signals, signalBreakdown{Name: string(k), Value: v})
		}
	}

	if len(signals) == 0 {
		return "Not applicable"
	}

	sort.Slice(signals, func(i, j int) bool {
		if math.Abs(signals[i].Value) != math.Abs(signals[j].Value) {
			return math.Abs(signals[i].Value) > math.Abs(signals[j].Value)
		}
		return signals[i].Name < signals[j].Name
	})

	parts := make([]string, 0, topNSignals)
	for _, s := range signals[:min(len(signals), topNSignals)] {
		parts = append(parts, s.Name)
	}
	return strings.Join(parts, " > ")
}

// formatWeights formats weights for display in the score formula.
func formatWeights(weights map[schema.BreakdownKey]float64) string {
	var parts []string
	for _, key := range schema.AllBreakdownKeys {
		if weight, ok := weights[key]; ok && weight > 0 {
			parts = append(parts, fmt.Sprintf("%.2f*%s", weight, key))
		}
	}
	return strings.Join(parts, " + ")
}
