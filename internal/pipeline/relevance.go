package pipeline

import (
	"strings"

	"github.com/mattbrownshow/reqradar-sub001/internal/model"
)

// Relevance tier labels returned by ClassifyRelevance.
const (
	RelevanceHigh   = "High"
	RelevanceMedium = "Medium"
	RelevanceLow    = "Low"
)

// defaultTitleScore applies when no table entry matches a non-empty title.
const defaultTitleScore = 20

// titleMatcher is one (matcher, score) entry in the relevance table.
// Phrase matchers compare case-insensitively; abbreviation matchers
// (exact=true) compare against the raw title so that e.g. "Director"
// never matches the "CTO" entry.
type titleMatcher struct {
	pattern string
	score   int
	exact   bool
}

// titleScores is evaluated top to bottom; the first matching entry wins.
// Declaration order is the tie-break, so more specific phrases must come
// before the generic ones they contain ("Senior Manager" before "Manager").
var titleScores = []titleMatcher{
	{pattern: "chief executive", score: 100},
	{pattern: "CEO", score: 100, exact: true},
	{pattern: "chief technology", score: 95},
	{pattern: "CTO", score: 95, exact: true},
	{pattern: "chief financial", score: 90},
	{pattern: "CFO", score: 90, exact: true},
	{pattern: "chief operating", score: 90},
	{pattern: "COO", score: 90, exact: true},
	{pattern: "chief marketing", score: 85},
	{pattern: "CMO", score: 85, exact: true},
	{pattern: "vice president", score: 80},
	{pattern: "VP", score: 80, exact: true},
	{pattern: "head of", score: 75},
	{pattern: "director", score: 70},
	{pattern: "senior manager", score: 60},
	{pattern: "manager", score: 50},
	{pattern: "engineer", score: 40},
	{pattern: "analyst", score: 30},
}

// ScoreTitle maps a free-text job title to a relevance score in [0, 100].
// An empty title scores 0; an unrecognized one scores defaultTitleScore.
func ScoreTitle(title string) int {
	if title == "" {
		return 0
	}
	lower := strings.ToLower(title)
	for _, m := range titleScores {
		if m.exact {
			if strings.Contains(title, m.pattern) {
				return m.score
			}
			continue
		}
		if strings.Contains(lower, m.pattern) {
			return m.score
		}
	}
	return defaultTitleScore
}

// ClassifyRelevance buckets a score into a three-tier label.
func ClassifyRelevance(score int) string {
	switch {
	case score >= 80:
		return RelevanceHigh
	case score >= 60:
		return RelevanceMedium
	default:
		return RelevanceLow
	}
}

// PickMostRelevantContact selects the titled contact with the highest
// ScoreTitle. Ties keep the first-encountered contact (stable left fold).
// Returns nil when the list is empty or no contact has a title.
func PickMostRelevantContact(contacts []model.Contact) *model.Contact {
	var best *model.Contact
	bestScore := -1
	for i := range contacts {
		if contacts[i].Title == "" {
			continue
		}
		if score := ScoreTitle(contacts[i].Title); score > bestScore {
			best = &contacts[i]
			bestScore = score
		}
	}
	return best
}
