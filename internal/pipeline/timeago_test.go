package pipeline_test

import (
	"testing"
	"time"

	"github.com/mattbrownshow/reqradar-sub001/internal/pipeline"
)

func TestFormatRelativeAge(t *testing.T) {
	now := ts("2026-06-15T12:00:00Z")

	cases := []struct {
		name string
		t    time.Time
		want string
	}{
		{"same instant", now, "Just now"},
		{"59 seconds", now.Add(-59 * time.Second), "Just now"},
		{"exactly one minute", now.Add(-time.Minute), "1m ago"},
		{"45 minutes", now.Add(-45 * time.Minute), "45m ago"},
		{"90 seconds floors to 1m", now.Add(-90 * time.Second), "1m ago"},
		{"exactly one hour", now.Add(-time.Hour), "1h ago"},
		{"23 hours", now.Add(-23 * time.Hour), "23h ago"},
		{"90 minutes floors to 1h", now.Add(-90 * time.Minute), "1h ago"},
		{"exactly one day", now.Add(-24 * time.Hour), "1d ago"},
		{"6 days", now.Add(-6 * 24 * time.Hour), "6d ago"},
		{"36 hours floors to 1d", now.Add(-36 * time.Hour), "1d ago"},
		{"one week falls to calendar date", now.Add(-7 * 24 * time.Hour), "Jun 8, 2026"},
		{"months old", ts("2026-01-02T08:30:00Z"), "Jan 2, 2026"},
		{"future treated as just now", now.Add(time.Hour), "Just now"},
	}

	for _, c := range cases {
		if got := pipeline.FormatRelativeAge(now, c.t); got != c.want {
			t.Errorf("%s: FormatRelativeAge = %q, want %q", c.name, got, c.want)
		}
	}
}

// The formatter is a pure function of (now, timestamp): same inputs, same
// output, no hidden clock.
func TestFormatRelativeAge_Injected(t *testing.T) {
	stamp := ts("2026-06-15T11:00:00Z")

	if got := pipeline.FormatRelativeAge(ts("2026-06-15T12:00:00Z"), stamp); got != "1h ago" {
		t.Errorf("one hour later = %q, want \"1h ago\"", got)
	}
	if got := pipeline.FormatRelativeAge(ts("2026-06-18T12:00:00Z"), stamp); got != "3d ago" {
		t.Errorf("three days later = %q, want \"3d ago\"", got)
	}
}
