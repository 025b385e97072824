// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package decision

import (
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/touchgrass/internal/config"
)

// WithinActiveHours reports whether local falls in the inclusive window.
//
// In clock mode a window with start > end spans midnight ("22:00"-"06:00").
// In lexical mode the HH:MM strings are compared directly, so such a window
// is never satisfied. A bound that does not parse as HH:MM never matches in
// clock mode.
func WithinActiveHours(local time.Time, hours *config.ActiveHours, mode string) bool {
	if mode == config.WindowModeLexical {
		now := local.Format("15:04")
		return hours.Start <= now && now <= hours.End
	}

	start, okStart := minutesOfDay(hours.Start)
	end, okEnd := minutesOfDay(hours.End)
	if !okStart || !okEnd {
		return false
	}

	m := local.Hour()*60 + local.Minute()
	if start <= end {
		return start <= m && m <= end
	}
	return m >= start || m <= end
}

// minutesOfDay parses "HH:MM" into minutes since midnight.
func minutesOfDay(s string) (int, bool) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
