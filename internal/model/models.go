// Package model defines the shared domain records read by the derived-state
// engine and served by the HTTP API.
package model

import "time"

// Job mirrors a jobs table row. Immutable from the engine's perspective.
type Job struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	CompanyID   string   `json:"companyId,omitempty"`
	Location    string   `json:"location,omitempty"`
	WorkType    string   `json:"workType,omitempty"`
	SalaryRange string   `json:"salaryRange,omitempty"`
	MatchScore  *float64 `json:"matchScore,omitempty"`
}

// Contact is a decision maker at a target company. Only read-side: the
// engine scores and counts contacts, it never writes them.
type Contact struct {
	ID            string `json:"id"`
	FullName      string `json:"fullName"`
	Title         string `json:"title,omitempty"`
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"emailVerified"`
	LinkedInURL   string `json:"linkedinUrl,omitempty"`
	CompanyID     string `json:"companyId,omitempty"`
}

// OutreachMessage is a single communication attempt to a decision maker.
// Status follows the delivery lifecycle: draft → queued → sent →
// delivered → opened → responded. Exactly one status per message.
//
// Recency is determined by SentAt falling back to CreatedDate.
type OutreachMessage struct {
	ID            string     `json:"id"`
	Status        string     `json:"status"`
	SentAt        *time.Time `json:"sentAt,omitempty"`
	CreatedDate   time.Time  `json:"createdDate"`
	OpportunityID string     `json:"opportunityId,omitempty"`
	CompanyID     string     `json:"companyId,omitempty"`
}

// Opportunity is a job the candidate actively pursues, tracked through
// discrete pipeline stages. Contacts holds the decision makers attached to
// it; may be empty.
type Opportunity struct {
	ID            string     `json:"id"`
	Stage         string     `json:"stage"`
	JobID         string     `json:"jobId,omitempty"`
	AppliedAt     time.Time  `json:"appliedAt"`
	InterviewDate *time.Time `json:"interviewDate,omitempty"`
	Contacts      []Contact  `json:"contacts,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}
