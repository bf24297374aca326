package outline

import "math"

// Progress returns the reading progress in [0, 100] for the active section.
// An unknown active id or an empty outline yields 0.
func Progress(activeID string, ids []string) float64 {
	rank := indexOf(ids, activeID)
	if rank < 0 || len(ids) == 0 {
		return 0
	}
	p := float64(rank+1) / float64(len(ids)) * 100
	return math.Max(0, math.Min(p, 100))
}

// ProgressPercent is Progress rounded to the nearest integer for display.
func ProgressPercent(activeID string, ids []string) int {
	return int(math.Round(Progress(activeID, ids)))
}
