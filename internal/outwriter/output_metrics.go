package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/roomspot/internal/contract"
	"github.com/huangsam/roomspot/schema"
)

// signalDefinitions describes each scoring signal in presentation order.
var signalDefinitions = map[schema.BreakdownKey]schema.MetricsSignal{
	schema.BreakdownAvailability: {Name: "Availability", Purpose: "Room is free for the whole requested window", Range: "0 or 100"},
	schema.BreakdownDistance:     {Name: "Distance", Purpose: "Travel minutes from the requested location, negated", Range: "-minutes, 0 on the same campus"},
	schema.BreakdownPriorUsage:   {Name: "Prior Usage", Purpose: "Room was already booked earlier today", Range: "0 or 100"},
	schema.BreakdownRoomType:     {Name: "Room Type", Purpose: "How well the room type suits quiet work", Range: "0 to 100"},
	schema.BreakdownLongevity:    {Name: "Longevity", Purpose: "Time until the next booking, full marks at 4 hours", Range: "0 to 100"},
	schema.BreakdownCapacity:     {Name: "Capacity", Purpose: "Smaller rooms are quieter", Range: "0 to 100"},
}

// WriteMetrics displays the scoring signals and their active weights.
// This is a static display that does not contact the room-info service.
func WriteMetrics(activeWeights map[schema.BreakdownKey]float64, cfg *contract.Config) error {
	renderModel := buildMetricsRenderModel(activeWeights)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, renderModel)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVMetrics(w, renderModel)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMetricsText(w, renderModel)
		}, "Wrote text")
	}
}

// buildMetricsRenderModel constructs the complete render model with all processed data.
func buildMetricsRenderModel(activeWeights map[schema.BreakdownKey]float64) *schema.MetricsRenderModel {
	signals := make([]schema.MetricsSignal, 0, len(schema.AllBreakdownKeys))
	for _, key := range schema.AllBreakdownKeys {
		signal := signalDefinitions[key]
		signal.Key = key
		signal.Weight = activeWeights[key]
		signals = append(signals, signal)
	}
	return &schema.MetricsRenderModel{
		Title:       "Room Scoring Signals",
		Description: "Score = weighted sum of six signals; weights sum to 1.0",
		Formula:     formatWeights(activeWeights),
		Signals:     signals,
	}
}

// writeMetricsText displays metrics in human-readable text format.
func writeMetricsText(w io.Writer, renderModel *schema.MetricsRenderModel) error {
	if _, err := fmt.Fprintf(w, "🏫 %s\n====================\n\n%s\n\n", renderModel.Title, renderModel.Description); err != nil {
		return err
	}
	for _, s := range renderModel.Signals {
		if _, err := fmt.Fprintf(w, "%-12s weight %.2f  %s\n", s.Name, s.Weight, s.Purpose); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%-12s range  %s\n\n", "", s.Range); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Formula: Score = %s\n", renderModel.Formula)
	return err
}

// writeCSVMetrics writes one row per signal.
func writeCSVMetrics(w io.Writer, renderModel *schema.MetricsRenderModel) error {
	header := []string{"Signal", "Name", "Weight", "Range", "Purpose"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, s := range renderModel.Signals {
			record := []string{string(s.Key), s.Name, fmt.Sprintf("%.2f", s.Weight), s.Range, s.Purpose}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}
