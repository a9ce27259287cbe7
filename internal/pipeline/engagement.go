package pipeline

import (
	"sort"
	"time"

	"github.com/mattbrownshow/reqradar-sub001/internal/model"
)

// EngagementSummary aggregates a list of outreach messages into the counts
// the card and funnel views render.
type EngagementSummary struct {
	Total           int        `json:"total"`
	Delivered       int        `json:"delivered"`
	Replies         int        `json:"replies"`
	LastInteraction *time.Time `json:"lastInteraction,omitempty"`
}

// messageRecency is the ordering key for outreach messages: SentAt when
// present, CreatedDate otherwise.
func messageRecency(m *model.OutreachMessage) time.Time {
	if m.SentAt != nil {
		return *m.SentAt
	}
	return m.CreatedDate
}

// SummarizeOutreach reduces messages into delivery and reply counts plus
// the most recent interaction timestamp. The input does not need to be
// pre-sorted: recency is determined internally over a copy, so the caller's
// slice order is never relied on or disturbed. An empty input yields zero
// counts and a nil LastInteraction.
func SummarizeOutreach(messages []model.OutreachMessage) EngagementSummary {
	s := EngagementSummary{Total: len(messages)}
	if len(messages) == 0 {
		return s
	}

	sorted := make([]model.OutreachMessage, len(messages))
	copy(sorted, messages)
	sort.SliceStable(sorted, func(i, j int) bool {
		return messageRecency(&sorted[i]).After(messageRecency(&sorted[j]))
	})

	for i := range sorted {
		status := MessageStatus(sorted[i].Status)
		if isDelivered(status) {
			s.Delivered++
		}
		if status == StatusResponded {
			s.Replies++
		}
	}

	last := messageRecency(&sorted[0])
	s.LastInteraction = &last
	return s
}
