package pipeline_test

import (
	"testing"
	"time"

	"github.com/mattbrownshow/reqradar-sub001/internal/model"
	"github.com/mattbrownshow/reqradar-sub001/internal/pipeline"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func tsp(s string) *time.Time {
	t := ts(s)
	return &t
}

// ── SummarizeOutreach ──────────────────────────────────────────────────────

func TestSummarizeOutreach_Empty(t *testing.T) {
	got := pipeline.SummarizeOutreach(nil)
	if got.Total != 0 || got.Delivered != 0 || got.Replies != 0 {
		t.Errorf("SummarizeOutreach(nil) = %+v, want all-zero counts", got)
	}
	if got.LastInteraction != nil {
		t.Errorf("SummarizeOutreach(nil).LastInteraction = %v, want nil", got.LastInteraction)
	}
}

func TestSummarizeOutreach_Counts(t *testing.T) {
	messages := []model.OutreachMessage{
		{ID: "1", Status: "responded", CreatedDate: ts("2026-01-03T10:00:00Z")},
		{ID: "2", Status: "delivered", CreatedDate: ts("2026-01-02T10:00:00Z")},
		{ID: "3", Status: "draft", CreatedDate: ts("2026-01-01T10:00:00Z")},
	}

	got := pipeline.SummarizeOutreach(messages)
	if got.Total != 3 {
		t.Errorf("Total = %d, want 3", got.Total)
	}
	// delivered bucket is inclusive of responded; a responded message was
	// necessarily delivered.
	if got.Delivered != 2 {
		t.Errorf("Delivered = %d, want 2", got.Delivered)
	}
	if got.Replies != 1 {
		t.Errorf("Replies = %d, want 1", got.Replies)
	}
}

func TestSummarizeOutreach_DeliveredBucket(t *testing.T) {
	messages := []model.OutreachMessage{
		{ID: "1", Status: "draft", CreatedDate: ts("2026-01-01T00:00:00Z")},
		{ID: "2", Status: "queued", CreatedDate: ts("2026-01-01T00:00:00Z")},
		{ID: "3", Status: "sent", CreatedDate: ts("2026-01-01T00:00:00Z")},
		{ID: "4", Status: "delivered", CreatedDate: ts("2026-01-01T00:00:00Z")},
		{ID: "5", Status: "opened", CreatedDate: ts("2026-01-01T00:00:00Z")},
		{ID: "6", Status: "responded", CreatedDate: ts("2026-01-01T00:00:00Z")},
	}

	got := pipeline.SummarizeOutreach(messages)
	if got.Total != 6 || got.Delivered != 3 || got.Replies != 1 {
		t.Errorf("got %+v, want total=6 delivered=3 replies=1", got)
	}
}

// LastInteraction is the most recent message regardless of input order,
// keyed by SentAt falling back to CreatedDate.
func TestSummarizeOutreach_LastInteraction(t *testing.T) {
	messages := []model.OutreachMessage{
		{ID: "old", Status: "sent", SentAt: tsp("2026-01-01T09:00:00Z"), CreatedDate: ts("2026-01-01T08:00:00Z")},
		{ID: "newest", Status: "responded", SentAt: tsp("2026-02-10T12:00:00Z"), CreatedDate: ts("2026-02-10T11:00:00Z")},
		{ID: "mid", Status: "delivered", CreatedDate: ts("2026-01-20T10:00:00Z")}, // no SentAt: CreatedDate decides
	}

	got := pipeline.SummarizeOutreach(messages)
	if got.LastInteraction == nil {
		t.Fatal("LastInteraction = nil, want newest timestamp")
	}
	if !got.LastInteraction.Equal(ts("2026-02-10T12:00:00Z")) {
		t.Errorf("LastInteraction = %v, want 2026-02-10T12:00:00Z", got.LastInteraction)
	}
}

func TestSummarizeOutreach_SentAtFallback(t *testing.T) {
	messages := []model.OutreachMessage{
		{ID: "1", Status: "draft", CreatedDate: ts("2026-03-01T00:00:00Z")},
		{ID: "2", Status: "sent", SentAt: tsp("2026-02-01T00:00:00Z"), CreatedDate: ts("2026-01-01T00:00:00Z")},
	}

	got := pipeline.SummarizeOutreach(messages)
	if got.LastInteraction == nil || !got.LastInteraction.Equal(ts("2026-03-01T00:00:00Z")) {
		t.Errorf("LastInteraction = %v, want the draft's CreatedDate (no SentAt)", got.LastInteraction)
	}
}

// The aggregator must not reorder or otherwise mutate the caller's slice.
func TestSummarizeOutreach_DoesNotMutateInput(t *testing.T) {
	messages := []model.OutreachMessage{
		{ID: "a", Status: "sent", CreatedDate: ts("2026-01-01T00:00:00Z")},
		{ID: "b", Status: "responded", CreatedDate: ts("2026-02-01T00:00:00Z")},
		{ID: "c", Status: "opened", CreatedDate: ts("2026-03-01T00:00:00Z")},
	}

	pipeline.SummarizeOutreach(messages)

	for i, want := range []string{"a", "b", "c"} {
		if messages[i].ID != want {
			t.Fatalf("input slice reordered: index %d = %q, want %q", i, messages[i].ID, want)
		}
	}
}

// Idempotence: identical inputs always yield identical outputs.
func TestSummarizeOutreach_Idempotent(t *testing.T) {
	messages := []model.OutreachMessage{
		{ID: "1", Status: "responded", SentAt: tsp("2026-01-05T00:00:00Z"), CreatedDate: ts("2026-01-04T00:00:00Z")},
		{ID: "2", Status: "sent", CreatedDate: ts("2026-01-02T00:00:00Z")},
	}

	first := pipeline.SummarizeOutreach(messages)
	second := pipeline.SummarizeOutreach(messages)

	if first.Total != second.Total || first.Delivered != second.Delivered ||
		first.Replies != second.Replies ||
		!first.LastInteraction.Equal(*second.LastInteraction) {
		t.Errorf("repeated calls differ: %+v vs %+v", first, second)
	}
}
