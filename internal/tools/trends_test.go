package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tidwall/gjson"

	"nih-reporter-mcp/internal/reporter"
)

const trendBatch = `{"meta":{"total":3},"results":[
  {"project_num":"1","project_title":"Cancer immunotherapy mechanisms","award_amount":500000,
   "agency_ic_admin":{"code":"NCI"},"activity_code":"R01","fiscal_year":2025,
   "organization":{"org_name":"Stanford University"}},
  {"project_num":"2","project_title":"Cancer genomics and immunotherapy","award_amount":300000,
   "agency_ic_admin":{"code":"NCI"},"activity_code":"P01","fiscal_year":2025,
   "organization":{"org_name":"Johns Hopkins University"}},
  {"project_num":"3","project_title":"Neural circuits of memory","award_amount":200000,
   "agency_ic_admin":{"code":"NIMH"},"activity_code":"R01","fiscal_year":2024,
   "organization":{"org_name":"Stanford University"}}
]}`

func TestAnalyzeResearchTrendsAggregation(t *testing.T) {
	cap := &capture{}
	// Three results against a 500-row batch is a short batch, so the handler
	// must stop after one request.
	c := stubClient(t, trendBatch, cap)
	def := AnalyzeResearchTrends(c)

	out, err := def.Handler(context.Background(), rawArgs(t, map[string]any{
		"fiscal_years": []int{2024, 2025},
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := gjson.Get(out, "summary.total_projects").Int(); got != 3 {
		t.Errorf("expected 3 projects, got %d", got)
	}
	if got := gjson.Get(out, "summary.total_funding").Int(); got != 1000000 {
		t.Errorf("expected total funding 1000000, got %d", got)
	}
	if got := gjson.Get(out, "summary.average_award").Float(); got < 333333 || got > 333334 {
		t.Errorf("unexpected average award %v", got)
	}

	// NCI leads by funding.
	if got := gjson.Get(out, "by_agency.0.key").String(); got != "NCI" {
		t.Errorf("expected NCI first by funding, got %q", got)
	}
	if got := gjson.Get(out, "by_agency.0.funding").Int(); got != 800000 {
		t.Errorf("expected NCI funding 800000, got %d", got)
	}

	// Stanford leads the organizations with two projects.
	if got := gjson.Get(out, "top_organizations.0.name").String(); got != "Stanford University" {
		t.Errorf("expected Stanford first, got %q", got)
	}
	if got := gjson.Get(out, "top_organizations.0.projects").Int(); got != 2 {
		t.Errorf("expected 2 Stanford projects, got %d", got)
	}

	// "cancer" and "immunotherapy" appear twice each; stop words are dropped.
	themes := gjson.Get(out, "common_themes").Array()
	if len(themes) == 0 {
		t.Fatal("expected common themes")
	}
	top := themes[0].Get("word").String()
	if top != "cancer" && top != "immunotherapy" {
		t.Errorf("expected cancer or immunotherapy as top theme, got %q", top)
	}
	for _, th := range themes {
		if w := th.Get("word").String(); len(w) <= 3 {
			t.Errorf("theme word %q should have been filtered", w)
		}
	}
}

// trendBatchBody builds a projects/search response with n uniform results.
func trendBatchBody(t *testing.T, n int) []byte {
	t.Helper()
	results := make([]map[string]any, n)
	for i := range results {
		results[i] = map[string]any{
			"project_num":     fmt.Sprintf("%d", i),
			"project_title":   "Cancer biology mechanisms",
			"award_amount":    1000,
			"agency_ic_admin": map[string]any{"code": "NCI"},
			"activity_code":   "R01",
			"fiscal_year":     2025,
			"organization":    map[string]any{"org_name": "Stanford University"},
		}
	}
	b, err := json.Marshal(map[string]any{
		"meta":    map[string]any{"total": n},
		"results": results,
	})
	if err != nil {
		t.Fatalf("marshal batch: %v", err)
	}
	return b
}

func TestAnalyzeResearchTrendsSpansBatches(t *testing.T) {
	full := trendBatchBody(t, 500)
	short := trendBatchBody(t, 3)

	var offsets []float64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("request body is not json: %v", err)
		}
		offset := payload["offset"].(float64)
		offsets = append(offsets, offset)
		w.Header().Set("Content-Type", "application/json")
		if offset == 0 {
			_, _ = w.Write(full)
		} else {
			_, _ = w.Write(short)
		}
	}))
	t.Cleanup(srv.Close)

	def := AnalyzeResearchTrends(reporter.New(srv.URL, srv.Client()))
	out, err := def.Handler(context.Background(), rawArgs(t, map[string]any{"max_projects": 2000}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A full batch triggers one follow-up request; the short second batch stops the loop.
	if len(offsets) != 2 {
		t.Fatalf("expected 2 upstream requests, got %d (offsets %v)", len(offsets), offsets)
	}
	if offsets[1] != 500 {
		t.Errorf("expected second request at offset 500, got %v", offsets[1])
	}

	if got := gjson.Get(out, "summary.total_projects").Int(); got != 503 {
		t.Errorf("expected 503 projects across batches, got %d", got)
	}
	if got := gjson.Get(out, "summary.total_funding").Int(); got != 503000 {
		t.Errorf("expected total funding 503000 across batches, got %d", got)
	}
	if got := gjson.Get(out, "by_agency.0.projects").Int(); got != 503 {
		t.Errorf("expected NCI project count to span batches, got %d", got)
	}
}

func TestAnalyzeResearchTrendsCapsMaxProjects(t *testing.T) {
	cap := &capture{}
	c := stubClient(t, trendBatch, cap)
	def := AnalyzeResearchTrends(c)

	_, err := def.Handler(context.Background(), rawArgs(t, map[string]any{"max_projects": 50000}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// First batch limit is min(batch size, capped max).
	if got := cap.payload["limit"].(float64); got != 500 {
		t.Errorf("expected first batch limit 500, got %v", got)
	}
}

func TestAnalyzeResearchTrendsEmptyPopulation(t *testing.T) {
	c := stubClient(t, emptyResult, nil)
	def := AnalyzeResearchTrends(c)

	out, err := def.Handler(context.Background(), rawArgs(t, map[string]any{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := gjson.Get(out, "summary.total_projects").Int(); got != 0 {
		t.Errorf("expected 0 projects, got %d", got)
	}
	if got := gjson.Get(out, "summary.average_award").Float(); got != 0 {
		t.Errorf("expected average 0 for empty population, got %v", got)
	}
}
