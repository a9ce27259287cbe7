package pipeline_test

import (
	"testing"

	"github.com/mattbrownshow/reqradar-sub001/internal/model"
	"github.com/mattbrownshow/reqradar-sub001/internal/pipeline"
)

// ── SummarizeMetrics ───────────────────────────────────────────────────────

func TestSummarizeMetrics_Empty(t *testing.T) {
	got := pipeline.SummarizeMetrics(nil, nil)
	if got != (pipeline.HeadlineMetrics{}) {
		t.Errorf("SummarizeMetrics(nil, nil) = %+v, want zero value", got)
	}
}

func TestSummarizeMetrics(t *testing.T) {
	interviewAt := ts("2026-07-01T10:00:00Z")

	items := []model.Opportunity{
		{
			ID: "1", Stage: "outreach_active",
			Contacts: []model.Contact{{ID: "c1"}, {ID: "c2"}},
		},
		{
			ID: "2", Stage: "interview_scheduled", InterviewDate: &interviewAt,
			Contacts: []model.Contact{{ID: "c3"}},
		},
		{ID: "3", Stage: "interview_scheduled"}, // no date set — not counted
		{ID: "4", Stage: "saved"},               // no contacts attached
	}

	messages := []model.OutreachMessage{
		{ID: "m1", Status: "draft"},
		{ID: "m2", Status: "queued"},
		{ID: "m3", Status: "sent"},
		{ID: "m4", Status: "delivered"},
		{ID: "m5", Status: "opened"},
		{ID: "m6", Status: "responded"}, // completed loop — not active
	}

	got := pipeline.SummarizeMetrics(items, messages)

	if got.Opportunities != 4 {
		t.Errorf("Opportunities = %d, want 4", got.Opportunities)
	}
	if got.DecisionMakers != 3 {
		t.Errorf("DecisionMakers = %d, want 3", got.DecisionMakers)
	}
	if got.ActiveOutreach != 4 {
		t.Errorf("ActiveOutreach = %d, want 4 (queued, sent, delivered, opened)", got.ActiveOutreach)
	}
	if got.InterviewsScheduled != 1 {
		t.Errorf("InterviewsScheduled = %d, want 1 (stage and date both required)", got.InterviewsScheduled)
	}
}

func TestSummarizeMetrics_InterviewDateWithoutStage(t *testing.T) {
	when := ts("2026-07-01T10:00:00Z")
	items := []model.Opportunity{
		{ID: "1", Stage: "conversation", InterviewDate: &when},
	}
	got := pipeline.SummarizeMetrics(items, nil)
	if got.InterviewsScheduled != 0 {
		t.Errorf("InterviewsScheduled = %d, want 0 when stage is not interview_scheduled", got.InterviewsScheduled)
	}
}
