// Package outreach contains the business logic for the ReqRadar service.
// It is transport-agnostic: the HTTP handlers in this package and any
// future transport both delegate here. All derived values (next actions,
// funnels, benchmarks) come from the pure engine in internal/pipeline;
// this layer only loads records and wires them through.
package outreach

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/mattbrownshow/reqradar-sub001/internal/model"
	"github.com/mattbrownshow/reqradar-sub001/internal/pipeline"
)

// ─── Service ─────────────────────────────────────────────────────────────────

// Service encapsulates all outreach-pipeline business logic.
type Service struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	now  func() time.Time
}

// NewService returns a configured Service.
func NewService(pool *pgxpool.Pool, rdb *redis.Client) *Service {
	return &Service{pool: pool, rdb: rdb, now: time.Now}
}

// ─── View models ─────────────────────────────────────────────────────────────

// ContactInsight is a scored decision maker.
type ContactInsight struct {
	Contact model.Contact `json:"contact"`
	Score   int           `json:"score"`
	Tier    string        `json:"tier"`
}

// Insight is the derived view model for one opportunity card.
type Insight struct {
	OpportunityID string                     `json:"opportunityId"`
	Stage         string                     `json:"stage"`
	NextAction    string                     `json:"nextAction"`
	Engagement    pipeline.EngagementSummary `json:"engagement"`
	ContactCount  int                        `json:"contactCount"`
	TopContact    *ContactInsight            `json:"topContact,omitempty"`
}

// BenchmarkRow is one line of the benchmark table.
type BenchmarkRow struct {
	Metric     string                       `json:"metric"`
	Value      float64                      `json:"value"`
	Benchmark  *float64                     `json:"benchmark,omitempty"`
	Comparison pipeline.BenchmarkComparison `json:"comparison"`
}

// ─── Opportunities ───────────────────────────────────────────────────────────

const opportunityColumns = `id, stage, COALESCE(job_id::text, ''), applied_at,
        interview_date, created_at, updated_at`

// ListOpportunities returns all opportunities for the given user, newest
// first. If stageFilter is non-empty, only that stage is returned.
func (s *Service) ListOpportunities(ctx context.Context, userID, stageFilter string) ([]model.Opportunity, error) {
	base := `SELECT ` + opportunityColumns + ` FROM opportunities WHERE user_id = $1`

	var (
		rows pgx.Rows
		err  error
	)
	if stageFilter != "" {
		if _, perr := pipeline.ParseStage(stageFilter); perr != nil {
			return nil, &ValidationError{Msg: perr.Error()}
		}
		rows, err = s.pool.Query(ctx, base+` AND stage = $2::opportunity_stage ORDER BY updated_at DESC`, userID, stageFilter)
	} else {
		rows, err = s.pool.Query(ctx, base+` ORDER BY updated_at DESC`, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("listOpportunities query: %w", err)
	}
	defer rows.Close()

	items := make([]model.Opportunity, 0)
	for rows.Next() {
		var o model.Opportunity
		if err := rows.Scan(
			&o.ID, &o.Stage, &o.JobID, &o.AppliedAt,
			&o.InterviewDate, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("listOpportunities scan: %w", err)
		}
		items = append(items, o)
	}
	return items, rows.Err()
}

// GetOpportunity returns a single opportunity by ID, validating ownership.
func (s *Service) GetOpportunity(ctx context.Context, userID, oppID string) (*model.Opportunity, error) {
	var o model.Opportunity
	err := s.pool.QueryRow(ctx,
		`SELECT `+opportunityColumns+` FROM opportunities WHERE id = $1 AND user_id = $2`,
		oppID, userID,
	).Scan(
		&o.ID, &o.Stage, &o.JobID, &o.AppliedAt,
		&o.InterviewDate, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, ErrNotFound
	}
	return &o, nil
}

// ActivateJob creates a new opportunity at the saved stage for the given
// job. It then publishes EVENT_OPPORTUNITY_ACTIVATED for the frontend
// feed (non-fatal).
func (s *Service) ActivateJob(ctx context.Context, userID, jobID string) (*model.Opportunity, error) {
	if jobID == "" {
		return nil, &ValidationError{Msg: "jobId is required"}
	}

	var o model.Opportunity
	err := s.pool.QueryRow(ctx,
		`INSERT INTO opportunities (id, user_id, job_id, stage, applied_at)
		 VALUES ($1, $2, $3, 'saved', NOW())
		 ON CONFLICT (user_id, job_id) DO NOTHING
		 RETURNING `+opportunityColumns,
		uuid.NewString(), userID, jobID,
	).Scan(
		&o.ID, &o.Stage, &o.JobID, &o.AppliedAt,
		&o.InterviewDate, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("activateJob: %w", err)
	}

	event, _ := json.Marshal(map[string]string{
		"type":          "EVENT_OPPORTUNITY_ACTIVATED",
		"opportunityId": o.ID,
		"jobId":         jobID,
		"userId":        userID,
	})
	if err := s.rdb.Publish(ctx, "EVENT_OPPORTUNITY_ACTIVATED", event).Err(); err != nil {
		slog.Warn("publish EVENT_OPPORTUNITY_ACTIVATED failed", "err", err)
	}

	return &o, nil
}

// MoveStage transitions an opportunity to a new pipeline stage.
// Returns ErrNotFound if the opportunity does not exist or belong to
// userID, and ValidationError when the stage graph rejects the move.
func (s *Service) MoveStage(ctx context.Context, userID, oppID, newStageStr string) (*model.Opportunity, error) {
	newStage, err := pipeline.ParseStage(newStageStr)
	if err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}

	// Fetch current stage (also validates ownership)
	var currentStageStr string
	err = s.pool.QueryRow(ctx,
		`SELECT stage FROM opportunities WHERE id = $1 AND user_id = $2`,
		oppID, userID,
	).Scan(&currentStageStr)
	if err != nil {
		return nil, ErrNotFound
	}

	currentStage, _ := pipeline.ParseStage(currentStageStr)
	if !pipeline.IsTransitionAllowed(currentStage, newStage) {
		return nil, &ValidationError{
			Msg: fmt.Sprintf("transition %s → %s is not allowed", currentStage, newStage),
		}
	}

	historyEntry, _ := json.Marshal(map[string]string{
		"from": string(currentStage),
		"to":   string(newStage),
		"at":   s.now().UTC().Format(time.RFC3339),
	})

	var o model.Opportunity
	err = s.pool.QueryRow(ctx,
		`UPDATE opportunities
		 SET stage       = $1::opportunity_stage,
		     history_log = history_log || $2::jsonb,
		     updated_at  = NOW()
		 WHERE id = $3 AND user_id = $4
		 RETURNING `+opportunityColumns,
		string(newStage),
		fmt.Sprintf("[%s]", historyEntry),
		oppID, userID,
	).Scan(
		&o.ID, &o.Stage, &o.JobID, &o.AppliedAt,
		&o.InterviewDate, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("moveStage update: %w", err)
	}

	event, _ := json.Marshal(map[string]string{
		"type":          "EVENT_STAGE_MOVED",
		"opportunityId": oppID,
		"userId":        userID,
		"from":          string(currentStage),
		"to":            string(newStage),
	})
	if err := s.rdb.Publish(ctx, "EVENT_STAGE_MOVED", event).Err(); err != nil {
		slog.Warn("publish EVENT_STAGE_MOVED failed", "err", err)
	}

	return &o, nil
}

// SetInterviewDate sets the interview timestamp on an opportunity.
func (s *Service) SetInterviewDate(ctx context.Context, userID, oppID, whenStr string) (*model.Opportunity, error) {
	when, err := time.Parse(time.RFC3339, whenStr)
	if err != nil {
		return nil, &ValidationError{Msg: fmt.Sprintf("interviewDate must be RFC 3339, got %q", whenStr)}
	}

	var o model.Opportunity
	err = s.pool.QueryRow(ctx,
		`UPDATE opportunities
		 SET interview_date = $1, updated_at = NOW()
		 WHERE id = $2 AND user_id = $3
		 RETURNING `+opportunityColumns,
		when, oppID, userID,
	).Scan(
		&o.ID, &o.Stage, &o.JobID, &o.AppliedAt,
		&o.InterviewDate, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, ErrNotFound
	}
	return &o, nil
}

// ─── Derived views ───────────────────────────────────────────────────────────

// OpportunityInsight loads the contacts and outreach messages attached to
// one opportunity and derives its card view model.
func (s *Service) OpportunityInsight(ctx context.Context, userID, oppID string) (*Insight, error) {
	opp, err := s.GetOpportunity(ctx, userID, oppID)
	if err != nil {
		return nil, err
	}

	contacts, err := s.loadContacts(ctx, oppID)
	if err != nil {
		return nil, err
	}
	messages, err := s.loadMessages(ctx, oppID)
	if err != nil {
		return nil, err
	}

	summary := pipeline.SummarizeOutreach(messages)
	stage := pipeline.Stage(opp.Stage)

	insight := &Insight{
		OpportunityID: opp.ID,
		Stage:         opp.Stage,
		NextAction:    pipeline.NextAction(s.now(), stage, len(contacts), summary, opp.InterviewDate),
		Engagement:    summary,
		ContactCount:  len(contacts),
	}

	if top := pipeline.PickMostRelevantContact(contacts); top != nil {
		score := pipeline.ScoreTitle(top.Title)
		insight.TopContact = &ContactInsight{
			Contact: *top,
			Score:   score,
			Tier:    pipeline.ClassifyRelevance(score),
		}
	}

	return insight, nil
}

// DashboardSummary rolls the user's pipeline up into headline metrics.
func (s *Service) DashboardSummary(ctx context.Context, userID string) (pipeline.HeadlineMetrics, error) {
	items, err := s.ListOpportunities(ctx, userID, "")
	if err != nil {
		return pipeline.HeadlineMetrics{}, err
	}

	if err := s.attachContacts(ctx, userID, items); err != nil {
		return pipeline.HeadlineMetrics{}, err
	}

	messages, err := s.loadUserMessages(ctx, userID)
	if err != nil {
		return pipeline.HeadlineMetrics{}, err
	}

	return pipeline.SummarizeMetrics(items, messages), nil
}

// Funnel derives the user's conversion funnel. A cached snapshot written
// by the refresher is served when present; a cache miss falls through to
// a live computation.
func (s *Service) Funnel(ctx context.Context, userID string) (pipeline.Funnel, error) {
	if cached, err := s.rdb.Get(ctx, FunnelCacheKey(userID)).Bytes(); err == nil {
		var f pipeline.Funnel
		if err := json.Unmarshal(cached, &f); err == nil {
			return f, nil
		}
		slog.Warn("discarding malformed funnel snapshot", "userId", userID)
	}

	counts, err := s.FunnelCounts(ctx, userID)
	if err != nil {
		return pipeline.Funnel{}, err
	}
	return pipeline.CalculateFunnel(counts), nil
}

// FunnelCounts gathers the five raw funnel counts from SQL aggregates.
func (s *Service) FunnelCounts(ctx context.Context, userID string) (pipeline.FunnelCounts, error) {
	var c pipeline.FunnelCounts
	err := s.pool.QueryRow(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM jobs WHERE user_id = $1),
		   (SELECT COUNT(*) FROM opportunities WHERE user_id = $1),
		   (SELECT COUNT(*) FROM outreach_messages WHERE user_id = $1
		      AND status IN ('sent', 'delivered', 'opened', 'responded')),
		   (SELECT COUNT(*) FROM outreach_messages WHERE user_id = $1
		      AND status = 'responded'),
		   (SELECT COUNT(*) FROM opportunities WHERE user_id = $1
		      AND stage = 'interview_scheduled' AND interview_date IS NOT NULL)`,
		userID,
	).Scan(&c.Discovered, &c.Activated, &c.Sent, &c.Replies, &c.Interviews)
	if err != nil {
		return pipeline.FunnelCounts{}, fmt.Errorf("funnelCounts query: %w", err)
	}
	return c, nil
}

// Benchmarks compares the user's observed outreach rates against the
// fixed industry benchmarks. The raw sent count has no benchmark and
// renders with a dash.
func (s *Service) Benchmarks(ctx context.Context, userID string) ([]BenchmarkRow, error) {
	var sent, delivered, opened, replied, interviews int
	err := s.pool.QueryRow(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM outreach_messages WHERE user_id = $1
		      AND status IN ('sent', 'delivered', 'opened', 'responded')),
		   (SELECT COUNT(*) FROM outreach_messages WHERE user_id = $1
		      AND status IN ('delivered', 'opened', 'responded')),
		   (SELECT COUNT(*) FROM outreach_messages WHERE user_id = $1
		      AND status IN ('opened', 'responded')),
		   (SELECT COUNT(*) FROM outreach_messages WHERE user_id = $1
		      AND status = 'responded'),
		   (SELECT COUNT(*) FROM opportunities WHERE user_id = $1
		      AND stage = 'interview_scheduled' AND interview_date IS NOT NULL)`,
		userID,
	).Scan(&sent, &delivered, &opened, &replied, &interviews)
	if err != nil {
		return nil, fmt.Errorf("benchmarks query: %w", err)
	}

	return []BenchmarkRow{
		{Metric: "Sent", Value: float64(sent), Comparison: pipeline.NoBenchmark()},
		benchmarkRow("Delivered rate", rate(delivered, sent), pipeline.BenchmarkDeliveredRate),
		benchmarkRow("Opened rate", rate(opened, sent), pipeline.BenchmarkOpenedRate),
		benchmarkRow("Reply rate", rate(replied, sent), pipeline.BenchmarkReplyRate),
		benchmarkRow("Interview rate", rate(interviews, sent), pipeline.BenchmarkInterviewRate),
	}, nil
}

// ─── Record loading ──────────────────────────────────────────────────────────

const contactColumns = `id, full_name, COALESCE(title, ''), COALESCE(email, ''),
        email_verified, COALESCE(linkedin_url, ''), COALESCE(company_id::text, '')`

func (s *Service) loadContacts(ctx context.Context, oppID string) ([]model.Contact, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE opportunity_id = $1 ORDER BY created_at`,
		oppID,
	)
	if err != nil {
		return nil, fmt.Errorf("loadContacts query: %w", err)
	}
	defer rows.Close()

	contacts := make([]model.Contact, 0)
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(
			&c.ID, &c.FullName, &c.Title, &c.Email,
			&c.EmailVerified, &c.LinkedInURL, &c.CompanyID,
		); err != nil {
			return nil, fmt.Errorf("loadContacts scan: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// attachContacts loads every contact for the user's opportunities in one
// query and groups them onto the items in place.
func (s *Service) attachContacts(ctx context.Context, userID string, items []model.Opportunity) error {
	if len(items) == 0 {
		return nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT c.opportunity_id::text, c.id, c.full_name,
		        COALESCE(c.title, ''), COALESCE(c.email, ''), c.email_verified,
		        COALESCE(c.linkedin_url, ''), COALESCE(c.company_id::text, '')
		 FROM contacts c
		 JOIN opportunities o ON o.id = c.opportunity_id
		 WHERE o.user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("attachContacts query: %w", err)
	}
	defer rows.Close()

	byOpp := make(map[string][]model.Contact)
	for rows.Next() {
		var oppID string
		var c model.Contact
		if err := rows.Scan(
			&oppID, &c.ID, &c.FullName, &c.Title, &c.Email,
			&c.EmailVerified, &c.LinkedInURL, &c.CompanyID,
		); err != nil {
			return fmt.Errorf("attachContacts scan: %w", err)
		}
		byOpp[oppID] = append(byOpp[oppID], c)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range items {
		items[i].Contacts = byOpp[items[i].ID]
	}
	return nil
}

const messageColumns = `id, status, sent_at, created_date,
        COALESCE(opportunity_id::text, ''), COALESCE(company_id::text, '')`

func (s *Service) loadMessages(ctx context.Context, oppID string) ([]model.OutreachMessage, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+messageColumns+` FROM outreach_messages WHERE opportunity_id = $1`,
		oppID,
	)
	if err != nil {
		return nil, fmt.Errorf("loadMessages query: %w", err)
	}
	return scanMessages(rows)
}

func (s *Service) loadUserMessages(ctx context.Context, userID string) ([]model.OutreachMessage, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+messageColumns+` FROM outreach_messages WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("loadUserMessages query: %w", err)
	}
	return scanMessages(rows)
}

func scanMessages(rows pgx.Rows) ([]model.OutreachMessage, error) {
	defer rows.Close()

	messages := make([]model.OutreachMessage, 0)
	for rows.Next() {
		var m model.OutreachMessage
		if err := rows.Scan(
			&m.ID, &m.Status, &m.SentAt, &m.CreatedDate,
			&m.OpportunityID, &m.CompanyID,
		); err != nil {
			return nil, fmt.Errorf("scanMessages: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// FunnelCacheKey is the Redis key the refresher writes snapshots under.
func FunnelCacheKey(userID string) string {
	return "funnel:" + userID
}

// rate returns numerator/denominator as a percentage, 0 when the
// denominator is 0.
func rate(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator) * 100
}

func benchmarkRow(metric string, value, benchmark float64) BenchmarkRow {
	b := benchmark
	return BenchmarkRow{
		Metric:     metric,
		Value:      value,
		Benchmark:  &b,
		Comparison: pipeline.CompareBenchmark(value, benchmark),
	}
}

// ─── Sentinel errors ─────────────────────────────────────────────────────────

// ErrNotFound is returned when an opportunity is missing or does not
// belong to the user.
var ErrNotFound = fmt.Errorf("opportunity not found")

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }
