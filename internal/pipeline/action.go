package pipeline

import (
	"fmt"
	"time"
)

// NextAction resolves the single "next action" line shown on an
// opportunity card. It is a pure function of (stage, contact count,
// engagement summary, interview date); now is injected for the
// relative-age rendering in the conversation stage. Unrecognized stages
// fall through to a neutral pending message.
func NextAction(now time.Time, stage Stage, contactCount int, summary EngagementSummary, interviewDate *time.Time) string {
	switch stage {
	case StageSaved:
		if contactCount > 0 {
			return fmt.Sprintf("Ready: %d decision %s identified", contactCount, plural(contactCount, "maker", "makers"))
		}
		return "Action: Enrich with decision makers"

	case StageIntelGathering:
		if contactCount > 0 {
			return fmt.Sprintf("Enriched: %d %s mapped", contactCount, plural(contactCount, "contact", "contacts"))
		}
		return "Enriching: Gathering intelligence"

	case StageOutreachActive:
		if summary.Total == 0 {
			return "Action: Launch first outreach"
		}
		if summary.Replies > 0 {
			return fmt.Sprintf("%d %s received", summary.Replies, plural(summary.Replies, "reply", "replies"))
		}
		return fmt.Sprintf("Sent to %d/%d", summary.Delivered, summary.Total)

	case StageConversation:
		if summary.Replies > 0 && summary.LastInteraction != nil {
			return fmt.Sprintf("Last reply: %s", FormatRelativeAge(now, *summary.LastInteraction))
		}
		return "Awaiting response"

	case StageInterviewScheduled:
		if interviewDate != nil {
			return fmt.Sprintf("Interview: %s", interviewDate.Format(calendarLayout))
		}
		return "Confirm interview details"

	case StageClosed:
		return "Opportunity closed"

	default:
		return "Next action pending"
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
