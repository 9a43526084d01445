package schema

// EnrichedRoomResult adds presentation data to a ScoredRoom.
type EnrichedRoomResult struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	ScoredRoom
}

// GetPlainLabel returns a plain text label describing how good a room is for the request.
func GetPlainLabel(score float64) string {
	switch {
	case score >= 70:
		return "Ideal"
	case score >= 50:
		return "Good"
	case score >= 25:
		return "Fair"
	default:
		return "Poor"
	}
}

// EnrichRooms adds rank and label to a list of ranked rooms.
func EnrichRooms(rooms []ScoredRoom) []EnrichedRoomResult {
	output := make([]EnrichedRoomResult, len(rooms))
	for i, r := range rooms {
		output[i] = EnrichedRoomResult{
			Rank:       i + 1,
			Label:      GetPlainLabel(r.Score),
			ScoredRoom: r,
		}
	}
	return output
}

// MetricsSignal describes one scoring signal for the metrics command.
type MetricsSignal struct {
	Key     BreakdownKey `json:"key"`
	Name    string       `json:"name"`
	Purpose string       `json:"purpose"`
	Range   string       `json:"range"`
	Weight  float64      `json:"weight"`
}

// MetricsRenderModel is everything the metrics command prints.
type MetricsRenderModel struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Formula     string          `json:"formula"`
	Signals     []MetricsSignal `json:"signals"`
}
