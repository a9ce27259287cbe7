// Package pipeline is the pure derived-state engine for the outreach CRM.
//
// Every function in this package is stateless and side-effect-free: it
// takes already-materialized records (opportunities, contacts, outreach
// messages) and derives the view-level values the frontend renders —
// next-action strings, engagement aggregates, relevance scores, funnel
// math, benchmark tiers. Inputs are never mutated and nothing is retained
// across calls, so repeated or concurrent invocation with the same inputs
// always yields the same outputs.
//
// Valid stage graph:
//
//	saved ──► intel_gathering ──► outreach_active ──► conversation ──► interview_scheduled
//	    │            │                   │                  │                  │
//	    └────────────┴───────────────────┴──────────────────┴──────────────────┴──► closed
//
// closed is terminal.
package pipeline

import "fmt"

// Stage values mirror the opportunity_stage enum in PostgreSQL.
type Stage string

const (
	StageSaved              Stage = "saved"
	StageIntelGathering     Stage = "intel_gathering"
	StageOutreachActive     Stage = "outreach_active"
	StageConversation       Stage = "conversation"
	StageInterviewScheduled Stage = "interview_scheduled"
	StageClosed             Stage = "closed"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[Stage][]Stage{
	StageSaved:              {StageIntelGathering, StageClosed},
	StageIntelGathering:     {StageOutreachActive, StageClosed},
	StageOutreachActive:     {StageConversation, StageClosed},
	StageConversation:       {StageInterviewScheduled, StageClosed},
	StageInterviewScheduled: {StageClosed},
	// closed is terminal — no outgoing transitions
}

// ParseStage converts a raw string to a Stage, returning an error for
// unknown values.
func ParseStage(s string) (Stage, error) {
	st := Stage(s)
	switch st {
	case StageSaved, StageIntelGathering, StageOutreachActive,
		StageConversation, StageInterviewScheduled, StageClosed:
		return st, nil
	}
	return "", fmt.Errorf("unknown pipeline stage %q", s)
}

// IsTransitionAllowed returns true when moving from → to is permitted by
// the stage graph.
func IsTransitionAllowed(from, to Stage) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false // terminal stage — no outgoing transitions
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsClosed returns true when the stage is the terminal closed state.
func IsClosed(s Stage) bool { return s == StageClosed }
