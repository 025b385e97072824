// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package decision

import (
	"testing"

	"github.com/tomtom215/touchgrass/internal/models"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	th := testRules().ScreenTime.Thresholds
	tests := []struct {
		minutes int
		want    models.ScreenTimeLevel
	}{
		{0, models.ScreenTimeLow},
		{50, models.ScreenTimeLow},
		{179, models.ScreenTimeLow},
		{180, models.ScreenTimeMedium},
		{299, models.ScreenTimeMedium},
		{300, models.ScreenTimeHigh},
		{320, models.ScreenTimeHigh},
		{479, models.ScreenTimeHigh},
		{480, models.ScreenTimeCritical},
		{2000, models.ScreenTimeCritical},
	}

	for _, tt := range tests {
		if got := Classify(tt.minutes, &th); got != tt.want {
			t.Errorf("Classify(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestClassify_Monotone(t *testing.T) {
	t.Parallel()

	th := testRules().ScreenTime.Thresholds
	prev := Classify(0, &th)
	for m := 1; m <= 1000; m++ {
		got := Classify(m, &th)
		if got.Rank() < prev.Rank() {
			t.Fatalf("Classify(%d) = %q is below Classify(%d) = %q", m, got, m-1, prev)
		}
		prev = got
	}
}
