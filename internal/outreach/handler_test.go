package outreach

// Transport-level tests: routing, auth header enforcement and request
// validation. These paths all reject before the service touches the
// database, so no pool is needed.

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestMux() *http.ServeMux {
	mux := http.NewServeMux()
	NewHandler(NewService(nil, nil)).RegisterRoutes(mux)
	return mux
}

func doRequest(t *testing.T, method, path, body, userID string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req.Header.Set("x-user-id", userID)
	}
	rec := httptest.NewRecorder()
	newTestMux().ServeHTTP(rec, req)
	return rec
}

func TestRoutes_MissingUserHeader(t *testing.T) {
	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/opportunities"},
		{http.MethodGet, "/opportunities/abc/insight"},
		{http.MethodPost, "/opportunities/abc/stage"},
		{http.MethodGet, "/dashboard/summary"},
		{http.MethodGet, "/dashboard/funnel"},
		{http.MethodGet, "/dashboard/benchmarks"},
	}
	for _, c := range cases {
		rec := doRequest(t, c.method, c.path, "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without x-user-id = %d, want 401", c.method, c.path, rec.Code)
		}
	}
}

func TestRoutes_MethodNotAllowed(t *testing.T) {
	cases := []struct {
		method string
		path   string
	}{
		{http.MethodDelete, "/opportunities"},
		{http.MethodGet, "/opportunities/abc/stage"},
		{http.MethodPost, "/opportunities/abc/insight"},
		{http.MethodPost, "/dashboard/summary"},
		{http.MethodPost, "/dashboard/funnel"},
	}
	for _, c := range cases {
		rec := doRequest(t, c.method, c.path, "", "user-1")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s = %d, want 405", c.method, c.path, rec.Code)
		}
	}
}

func TestRoutes_UnknownAction(t *testing.T) {
	rec := doRequest(t, http.MethodPost, "/opportunities/abc/archive", "{}", "user-1")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown action = %d, want 404", rec.Code)
	}
}

func TestRoutes_InvalidPath(t *testing.T) {
	rec := doRequest(t, http.MethodPost, "/opportunities/abc/stage/extra", "{}", "user-1")
	if rec.Code != http.StatusNotFound {
		t.Errorf("too many path segments = %d, want 404", rec.Code)
	}
}

func TestMoveStage_RequiresBody(t *testing.T) {
	rec := doRequest(t, http.MethodPost, "/opportunities/abc/stage", "", "user-1")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty body = %d, want 400", rec.Code)
	}

	rec = doRequest(t, http.MethodPost, "/opportunities/abc/stage", `{"newStage":""}`, "user-1")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty newStage = %d, want 400", rec.Code)
	}
}

func TestActivateJob_RequiresJobID(t *testing.T) {
	rec := doRequest(t, http.MethodPost, "/opportunities", `{}`, "user-1")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing jobId = %d, want 400", rec.Code)
	}
}

func TestSetInterviewDate_RequiresDate(t *testing.T) {
	rec := doRequest(t, http.MethodPost, "/opportunities/abc/interview", `{"interviewDate":""}`, "user-1")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty interviewDate = %d, want 400", rec.Code)
	}
}
