package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mattlianje/pipeviz-sub000/pkg/cache"
	"github.com/mattlianje/pipeviz-sub000/pkg/engine"
)

const estate = `{
	"version": "1",
	"pipelines": [
		{"name": "ingest-users", "output_sources": ["raw_users"], "duration": 10,
		 "links": {"airflow": "https://airflow.example.com/dags/ingest_users/grid"}},
		{"name": "user-enrichment", "input_sources": ["raw_users"], "output_sources": ["enriched_users"], "duration": 5,
		 "links": {"airflow": "https://airflow.example.com/dags/enrichment/grid"}},
		{"name": "analytics-aggregation", "input_sources": ["enriched_users"], "output_sources": ["daily_metrics"]}
	],
	"datasources": [
		{"name": "raw_users", "attributes": [{"name": "id"}]},
		{"name": "enriched_users", "attributes": [{"name": "id", "from": "raw_users::id"}]}
	]
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	e, err := engine.Parse([]byte(estate))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return New(e, Config{
		Cache:    cache.NewMemoryCache(64),
		CacheTTL: time.Minute,
	})
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON body %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "ok" || body["snapshot"] == "" {
		t.Errorf("body = %v", body)
	}
}

func TestServer_Graph(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/graph", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	// 3 pipelines + 3 data sources (daily_metrics auto-created).
	if nodes := body["nodes"].([]any); len(nodes) != 6 {
		t.Errorf("nodes = %d, want 6", len(nodes))
	}
}

func TestServer_LineageDefaultsDownstream(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/lineage/raw_users", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["direction"] != "downstream" {
		t.Errorf("direction = %v, want downstream", body["direction"])
	}
	if body["count"].(float64) != 4 {
		t.Errorf("count = %v, want 4", body["count"])
	}
}

func TestServer_LineageBadDirection(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/lineage/raw_users?direction=sideways", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body := decodeBody(t, rec); body["code"] != "INVALID_SELECTION" {
		t.Errorf("code = %v", body["code"])
	}
}

func TestServer_LineageUnknownNode(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/lineage/phantom", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if body := decodeBody(t, rec); body["code"] != "NODE_NOT_FOUND" {
		t.Errorf("code = %v", body["code"])
	}
}

func TestServer_Cycles(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/cycles", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := decodeBody(t, rec); body["count"].(float64) != 0 {
		t.Errorf("count = %v, want 0", body["count"])
	}
}

func TestServer_Impact(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/impact/ingest-users", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["total_affected"].(float64) != 5 {
		t.Errorf("total_affected = %v, want 5", body["total_affected"])
	}
}

func TestServer_ImpactNothingDownstream(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/impact/daily_metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "null" {
		t.Errorf("body = %q, want null", got)
	}
}

func TestServer_Backfill(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodPost, "/api/backfill", `{"pipelines": ["ingest-users"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["wave_count"].(float64) != 2 {
		t.Errorf("wave_count = %v, want 2", body["wave_count"])
	}
}

func TestServer_BackfillInvalidSelection(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodPost, "/api/backfill", `{"pipelines": ["raw_users"]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["code"] != "INVALID_SELECTION" {
		t.Errorf("code = %v", body["code"])
	}
	names := body["names"].([]any)
	if len(names) != 1 || names[0] != "raw_users" {
		t.Errorf("names = %v, want [raw_users]", names)
	}
}

func TestServer_BackfillBadBody(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodPost, "/api/backfill", `not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestServer_BackfillAirflowMissingLink(t *testing.T) {
	s := newTestServer(t)
	// analytics-aggregation sits downstream of ingest-users and has no
	// airflow link, so the projection must name it.
	rec := doRequest(t, s, http.MethodPost, "/api/backfill/airflow", `{"pipelines": ["ingest-users"]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["code"] != "MISSING_AIRFLOW_LINK" {
		t.Errorf("code = %v", body["code"])
	}
	names := body["names"].([]any)
	if len(names) != 1 || names[0] != "analytics-aggregation" {
		t.Errorf("names = %v, want [analytics-aggregation]", names)
	}
}

func TestServer_CriticalPath(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/paths/critical", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["total_duration"].(float64) != 15 {
		t.Errorf("total_duration = %v, want 15", body["total_duration"])
	}
}

func TestServer_CostliestPathNull(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/paths/costliest", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "null" {
		t.Errorf("body = %q, want null", got)
	}
}

func TestServer_AttributeLineage(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/attributes/lineage?id=raw_users::id", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if down := body["downstream"].([]any); len(down) != 1 {
		t.Errorf("downstream = %v, want one entry", down)
	}
}

func TestServer_AttributeLineageMissingID(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/attributes/lineage", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestServer_DataSourceLineage(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/datasources/raw_users/lineage", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, s, http.MethodGet, "/api/datasources/phantom/lineage", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestServer_CacheHitOnSecondGet(t *testing.T) {
	s := newTestServer(t)
	first := doRequest(t, s, http.MethodGet, "/api/graph", "")
	if got := first.Header().Get("X-Cache"); got != "miss" {
		t.Errorf("first X-Cache = %q, want miss", got)
	}
	second := doRequest(t, s, http.MethodGet, "/api/graph", "")
	if got := second.Header().Get("X-Cache"); got != "hit" {
		t.Errorf("second X-Cache = %q, want hit", got)
	}
	if first.Body.String() != second.Body.String() {
		t.Error("cached body should match the computed body")
	}
}

func TestServer_RequestIDAssigned(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/healthz", "")
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("response should carry a request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "caller-id")
	echo := httptest.NewRecorder()
	s.Router().ServeHTTP(echo, req)
	if got := echo.Header().Get("X-Request-Id"); got != "caller-id" {
		t.Errorf("X-Request-Id = %q, want caller-id", got)
	}
}
