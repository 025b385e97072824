// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package decision

import (
	"sort"

	"github.com/tomtom215/touchgrass/internal/models"
)

// ActiveCandidates turns active places into unscored candidates, keeping
// catalog order. Inactive places never reach distance estimation or scoring.
func ActiveCandidates(places []models.Place) []models.Candidate {
	out := make([]models.Candidate, 0, len(places))
	for i := range places {
		if places[i].IsActive {
			out = append(out, models.NewCandidate(&places[i]))
		}
	}
	return out
}

// Rank sorts candidates by descending score and keeps the first maxResults.
// Equal scores keep their input order; there is no secondary key.
func Rank(candidates []models.Candidate, maxResults int) []models.Candidate {
	ranked := make([]models.Candidate, 0, len(candidates))
	for i := range candidates {
		if candidates[i].IsActive {
			ranked = append(ranked, candidates[i])
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PriorityScore > ranked[j].PriorityScore
	})

	if maxResults >= 0 && len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}
	return ranked
}
