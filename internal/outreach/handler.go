// Package outreach — HTTP transport for the ReqRadar service.
//
// All routes expect an x-user-id header forwarded by the Gateway.
//
// Routes:
//
//	GET  /opportunities                    → list user's opportunities (?stage= filter)
//	POST /opportunities                    → activate a job into the pipeline
//	POST /opportunities/{id}/stage         → move opportunity to a new stage
//	POST /opportunities/{id}/interview     → set interview date
//	GET  /opportunities/{id}/insight       → derived card view model
//	GET  /dashboard/summary                → headline metrics
//	GET  /dashboard/funnel                 → conversion funnel
//	GET  /dashboard/benchmarks             → benchmark comparisons
package outreach

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
)

// ─── Handler ─────────────────────────────────────────────────────────────────

// Handler adapts Service to net/http.
type Handler struct {
	svc *Service
}

// NewHandler returns a configured Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts all reqradar routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/opportunities", h.handleOpportunities)
	mux.HandleFunc("/opportunities/", h.handleOpportunityAction)
	mux.HandleFunc("/dashboard/summary", h.dashboardSummary)
	mux.HandleFunc("/dashboard/funnel", h.dashboardFunnel)
	mux.HandleFunc("/dashboard/benchmarks", h.dashboardBenchmarks)
}

// ─── Route dispatch ───────────────────────────────────────────────────────────

// handleOpportunities handles GET and POST /opportunities
func (h *Handler) handleOpportunities(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listOpportunities(w, r)
	case http.MethodPost:
		h.activateJob(w, r)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleOpportunityAction handles /opportunities/{id}/stage|interview|insight
func (h *Handler) handleOpportunityAction(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}

	oppID := parts[1]
	action := parts[2]

	switch action {
	case "stage":
		if r.Method != http.MethodPost {
			jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.moveStage(w, r, oppID)
	case "interview":
		if r.Method != http.MethodPost {
			jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.setInterviewDate(w, r, oppID)
	case "insight":
		if r.Method != http.MethodGet {
			jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.opportunityInsight(w, r, oppID)
	default:
		jsonError(w, fmt.Sprintf("unknown action %q", action), http.StatusNotFound)
	}
}

// ─── Individual handlers ──────────────────────────────────────────────────────

func (h *Handler) listOpportunities(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	items, err := h.svc.ListOpportunities(r.Context(), userID, r.URL.Query().Get("stage"))
	if err != nil {
		writeServiceError(w, "listOpportunities", err)
		return
	}
	jsonOK(w, items)
}

func (h *Handler) activateJob(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var body struct {
		JobID string `json:"jobId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.JobID == "" {
		jsonError(w, "body must contain jobId", http.StatusBadRequest)
		return
	}

	opp, err := h.svc.ActivateJob(r.Context(), userID, body.JobID)
	if err != nil {
		writeServiceError(w, "activateJob", err)
		return
	}
	jsonOK(w, opp)
}

func (h *Handler) moveStage(w http.ResponseWriter, r *http.Request, oppID string) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var body struct {
		NewStage string `json:"newStage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.NewStage == "" {
		jsonError(w, "body must contain newStage", http.StatusBadRequest)
		return
	}

	opp, err := h.svc.MoveStage(r.Context(), userID, oppID, body.NewStage)
	if err != nil {
		writeServiceError(w, "moveStage", err)
		return
	}
	jsonOK(w, opp)
}

func (h *Handler) setInterviewDate(w http.ResponseWriter, r *http.Request, oppID string) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var body struct {
		InterviewDate string `json:"interviewDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.InterviewDate == "" {
		jsonError(w, "body must contain interviewDate", http.StatusBadRequest)
		return
	}

	opp, err := h.svc.SetInterviewDate(r.Context(), userID, oppID, body.InterviewDate)
	if err != nil {
		writeServiceError(w, "setInterviewDate", err)
		return
	}
	jsonOK(w, opp)
}

func (h *Handler) opportunityInsight(w http.ResponseWriter, r *http.Request, oppID string) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	insight, err := h.svc.OpportunityInsight(r.Context(), userID, oppID)
	if err != nil {
		writeServiceError(w, "opportunityInsight", err)
		return
	}
	jsonOK(w, insight)
}

func (h *Handler) dashboardSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	metrics, err := h.svc.DashboardSummary(r.Context(), userID)
	if err != nil {
		writeServiceError(w, "dashboardSummary", err)
		return
	}
	jsonOK(w, metrics)
}

func (h *Handler) dashboardFunnel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	funnel, err := h.svc.Funnel(r.Context(), userID)
	if err != nil {
		writeServiceError(w, "dashboardFunnel", err)
		return
	}
	jsonOK(w, funnel)
}

func (h *Handler) dashboardBenchmarks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	rows, err := h.svc.Benchmarks(r.Context(), userID)
	if err != nil {
		writeServiceError(w, "dashboardBenchmarks", err)
		return
	}
	jsonOK(w, rows)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

// writeServiceError maps domain errors to HTTP status codes.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, ErrNotFound) {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		jsonError(w, ve.Msg, http.StatusBadRequest)
		return
	}
	log.Printf("[reqradar] %s error: %v", op, err)
	jsonError(w, "database error", http.StatusInternalServerError)
}

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
