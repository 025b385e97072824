// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package decision

import (
	"github.com/tomtom215/touchgrass/internal/config"
	"github.com/tomtom215/touchgrass/internal/models"
)

// Classify returns the highest level whose threshold minutes meets or exceeds.
func Classify(minutes int, t *config.Thresholds) models.ScreenTimeLevel {
	switch {
	case minutes >= t.Critical:
		return models.ScreenTimeCritical
	case minutes >= t.High:
		return models.ScreenTimeHigh
	case minutes >= t.Medium:
		return models.ScreenTimeMedium
	default:
		return models.ScreenTimeLow
	}
}
