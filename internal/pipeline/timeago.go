package pipeline

import (
	"fmt"
	"time"
)

// calendarLayout is the fallback rendering for timestamps older than a week.
const calendarLayout = "Jan 2, 2006"

// FormatRelativeAge converts a timestamp into a coarse relative-age label
// evaluated against the injected now:
//
//	< 1 minute   → "Just now"
//	< 60 minutes → "{m}m ago"
//	< 24 hours   → "{h}h ago"
//	< 7 days     → "{d}d ago"
//	otherwise    → calendar date ("Jan 2, 2006")
//
// Minutes, hours and days are each floored independently from the total
// elapsed duration. Timestamps in the future are treated as "Just now".
func FormatRelativeAge(now, t time.Time) string {
	elapsed := now.Sub(t)
	if elapsed < time.Minute {
		return "Just now"
	}
	if elapsed < time.Hour {
		return fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	}
	if elapsed < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(elapsed.Hours()))
	}
	if elapsed < 7*24*time.Hour {
		return fmt.Sprintf("%dd ago", int(elapsed.Hours()/24))
	}
	return t.Format(calendarLayout)
}
