package pipeline

import "github.com/mattbrownshow/reqradar-sub001/internal/model"

// HeadlineMetrics are the four dashboard headline counts. Each is an
// independent reduction over its own input; no cross-validation between
// them.
type HeadlineMetrics struct {
	Opportunities       int `json:"opportunities"`
	DecisionMakers      int `json:"decisionMakers"`
	ActiveOutreach      int `json:"activeOutreach"`
	InterviewsScheduled int `json:"interviewsScheduled"`
}

// SummarizeMetrics rolls up the pipeline into headline counts:
// opportunity count, attached decision makers, in-flight outreach
// messages, and interviews that are both at the interview stage and have
// a date set.
func SummarizeMetrics(items []model.Opportunity, messages []model.OutreachMessage) HeadlineMetrics {
	m := HeadlineMetrics{Opportunities: len(items)}

	for i := range items {
		m.DecisionMakers += len(items[i].Contacts)
		if Stage(items[i].Stage) == StageInterviewScheduled && items[i].InterviewDate != nil {
			m.InterviewsScheduled++
		}
	}

	for i := range messages {
		if isActive(MessageStatus(messages[i].Status)) {
			m.ActiveOutreach++
		}
	}

	return m
}
