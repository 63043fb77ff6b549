package server

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/mfujita/budgetflow/pkg/cache"
	"github.com/mfujita/budgetflow/pkg/dataset"
	"github.com/mfujita/budgetflow/pkg/flow"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	d := &dataset.Dataset{
		FiscalYear: 2023,
		Ministries: []*dataset.MinistryNode{
			{Name: "Ministry A", Path: "Ministry A", Total: 600, ProjectIDs: []int64{1}},
		},
		Projects: []dataset.Project{
			{ID: 1, Name: "P1", Ministry: "Ministry A",
				Budget: dataset.BudgetBreakdown{Total: 600}, Spending: 500},
		},
		Recipients: []dataset.Recipient{
			{ID: 10, Name: "R1", Total: 500,
				Contributions: []dataset.Contribution{{ProjectID: 1, Amount: 500}}},
		},
	}
	loader := dataset.NewLoader(&dataset.StaticSource{Data: d})
	engine := flow.NewEngine(loader, flow.WithCache(cache.NewMemoryCache(0)))
	return New(":0", engine, log.New(io.Discard))
}

func TestHandleFlow(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/flow?mode=global", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("X-Cache = %q, want MISS", got)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}

	var g flow.Graph
	if err := json.Unmarshal(rec.Body.Bytes(), &g); err != nil {
		t.Fatalf("response is not a graph: %v", err)
	}
	if g.Meta.Mode != flow.ModeGlobal || len(g.Nodes) == 0 {
		t.Errorf("graph = mode %q with %d nodes", g.Meta.Mode, len(g.Nodes))
	}

	// Second request hits the result cache.
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/flow?mode=global", nil))
	if got := rec.Header().Get("X-Cache"); got != "HIT" {
		t.Errorf("X-Cache = %q, want HIT", got)
	}
}

func TestHandleFlowParams(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET",
		"/api/v1/flow?mode=ministry&target=Ministry+A&recipient_limit=5", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var g flow.Graph
	if err := json.Unmarshal(rec.Body.Bytes(), &g); err != nil {
		t.Fatal(err)
	}
	if g.Meta.Target != "Ministry A" {
		t.Errorf("target = %q, want Ministry A", g.Meta.Target)
	}
}

func TestHandleFlowErrors(t *testing.T) {
	s := testServer(t)

	tests := []struct {
		name   string
		url    string
		status int
		code   string
	}{
		{"bad mode", "/api/v1/flow?mode=galaxy", 400, "INVALID_MODE"},
		{"missing target", "/api/v1/flow?mode=project", 400, "INVALID_NAME"},
		{"unknown ministry", "/api/v1/flow?mode=ministry&target=Nope", 404, "NOT_FOUND_MINISTRY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", tt.url, nil))

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			var body errorBody
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("error body: %v", err)
			}
			if body.Error.Code != tt.code {
				t.Errorf("code = %q, want %q", body.Error.Code, tt.code)
			}
		})
	}
}

func TestHandleHealth(t *testing.T) {
	s := testServer(t)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/health", nil))
	if rec.Code != 200 {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
