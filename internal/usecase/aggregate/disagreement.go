package aggregate

import (
	"sort"

	"github.com/bkyoung/review-aggregator/internal/domain"
)

// Disagreements reports every location where contributing tools
// assigned more than one distinct severity. It inspects the raw
// per-location severities gathered during merging, not the collapsed
// merged values, so duplicates merged under one key still surface
// their disagreement. Output order follows first-seen location order.
func Disagreements(locations []LocationSummary) []domain.Disagreement {
	var out []domain.Disagreement
	for _, loc := range locations {
		if len(loc.Severities) < 2 {
			continue
		}

		severities := make([]domain.Severity, len(loc.Severities))
		copy(severities, loc.Severities)
		sort.SliceStable(severities, func(i, j int) bool {
			return severities[i].Rank() < severities[j].Rank()
		})

		tools := make([]string, len(loc.Tools))
		copy(tools, loc.Tools)

		out = append(out, domain.Disagreement{
			Location:   loc.Location,
			Severities: severities,
			Tools:      tools,
		})
	}
	return out
}
