package pipeline

import "math"

// FunnelCounts are the cumulative stage counts feeding the conversion
// funnel, ordered discovered → activated → sent → replies → interviews.
// Monotonicity is expected but not enforced.
type FunnelCounts struct {
	Discovered int `json:"discovered"`
	Activated  int `json:"activated"`
	Sent       int `json:"sent"`
	Replies    int `json:"replies"`
	Interviews int `json:"interviews"`
}

// FunnelStage is one rendered bar of the funnel. BarWidth is a
// visualization value clamped to [5, 100] so zero-count stages stay
// visible; it never feeds the numeric percentages. FromPrevious is the
// conversion from the preceding stage, nil for the first stage or when
// the preceding count is zero.
type FunnelStage struct {
	Name         string   `json:"name"`
	Count        int      `json:"count"`
	BarWidth     float64  `json:"barWidth"`
	FromPrevious *float64 `json:"fromPrevious,omitempty"`
}

// Funnel is the full five-stage conversion funnel view model.
type Funnel struct {
	Stages            []FunnelStage `json:"stages"`
	OverallConversion float64       `json:"overallConversion"`
}

// CalculateFunnel derives the five-stage funnel from raw counts.
// Overall conversion is interviews/discovered as a percentage rounded to
// two decimals, 0 when nothing was discovered.
func CalculateFunnel(counts FunnelCounts) Funnel {
	ordered := []struct {
		name  string
		count int
	}{
		{"Discovered", counts.Discovered},
		{"Activated", counts.Activated},
		{"Sent", counts.Sent},
		{"Replies", counts.Replies},
		{"Interviews", counts.Interviews},
	}

	maxCount := 0
	for _, s := range ordered {
		if s.count > maxCount {
			maxCount = s.count
		}
	}

	stages := make([]FunnelStage, 0, len(ordered))
	for i, s := range ordered {
		stage := FunnelStage{Name: s.name, Count: s.count}
		if maxCount > 0 {
			stage.BarWidth = clamp(float64(s.count)/float64(maxCount)*100, 5, 100)
		}
		if i > 0 && ordered[i-1].count > 0 {
			pct := roundTo(float64(s.count)/float64(ordered[i-1].count)*100, 1)
			stage.FromPrevious = &pct
		}
		stages = append(stages, stage)
	}

	overall := 0.0
	if counts.Discovered > 0 {
		overall = roundTo(float64(counts.Interviews)/float64(counts.Discovered)*100, 2)
	}

	return Funnel{Stages: stages, OverallConversion: overall}
}

// clamp bounds v to [min, max].
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}
