// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package decision

import (
	"testing"

	"github.com/tomtom215/touchgrass/internal/models"
)

func TestActiveCandidates(t *testing.T) {
	t.Parallel()

	places := []models.Place{
		park("a", 1, 1),
		{ID: "b", Name: "closed", IsActive: false},
		park("c", 2, 2),
	}
	got := ActiveCandidates(places)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Errorf("ActiveCandidates() = %+v, want a, c", got)
	}
}

func TestRank(t *testing.T) {
	t.Parallel()

	cands := []models.Candidate{
		{ID: "a", PriorityScore: 5, IsActive: true},
		{ID: "b", PriorityScore: 9, IsActive: true},
		{ID: "c", PriorityScore: 5, IsActive: true},
		{ID: "d", PriorityScore: 9.5, IsActive: false},
		{ID: "e", PriorityScore: 7, IsActive: true},
	}

	tests := []struct {
		name string
		max  int
		want []string
	}{
		{"all", 10, []string{"b", "e", "a", "c"}},
		{"truncated", 2, []string{"b", "e"}},
		{"ties keep input order", 4, []string{"b", "e", "a", "c"}},
		{"zero", 0, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Rank(cands, tt.max)
			if len(got) != len(tt.want) {
				t.Fatalf("Rank() len = %d, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("Rank()[%d] = %q, want %q", i, got[i].ID, id)
				}
			}
		})
	}

	if cands[0].ID != "a" || cands[1].ID != "b" {
		t.Error("Rank() must not reorder its input")
	}
}
