package kpi

import (
	"context"
	"encoding/json"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"pulse-backend/internal/datasets"
)

type memStore struct {
	files map[string]string
}

func (m memStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	content, ok := m.files[key]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

const kpiAdoptionCSV = `industry,year,adoption_rate,use_cases_count,investment_millions
Healthcare,2022,0.4,10,100
Healthcare,2023,0.6,12,120
Finance,2022,0.5,8,80
Finance,2023,0.54,9,90
`

func newTestRouter(t *testing.T, files map[string]string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := datasets.NewStore(datasets.NewLoader(memStore{files: files}))
	handler := NewHandler(NewService(store), store)

	r := gin.New()
	api := r.Group("/api/v1")
	handler.RegisterRoutes(api)
	return r
}

func doGet(t *testing.T, r *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v\n%s", err, resp.Body.String())
	}
	return resp, body
}

func TestKPIsEndpoint(t *testing.T) {
	r := newTestRouter(t, map[string]string{datasets.AdoptionFile: kpiAdoptionCSV})

	resp, body := doGet(t, r, "/api/v1/kpis")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if body["success"] != true {
		t.Fatalf("expected success true, got %v", body["success"])
	}

	data := body["data"].(map[string]any)
	if data["total_industries"] != float64(2) {
		t.Fatalf("expected 2 industries, got %v", data["total_industries"])
	}
	if data["avg_adoption"] != 0.51 {
		t.Fatalf("expected avg adoption 0.51, got %v", data["avg_adoption"])
	}
	// Finance averages 0.52 across both years, Healthcare 0.5.
	top := data["top_industry"].(map[string]any)
	if top["industry"] != "Finance" {
		t.Fatalf("unexpected top industry %v", top)
	}
}

func TestKPIsEndpointWithFilters(t *testing.T) {
	r := newTestRouter(t, map[string]string{datasets.AdoptionFile: kpiAdoptionCSV})

	resp, body := doGet(t, r, "/api/v1/kpis?year=2023&industry=finance")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	data := body["data"].(map[string]any)
	filters := data["filters_applied"].(map[string]any)
	if filters["year"] != float64(2023) {
		t.Fatalf("expected year filter echoed, got %v", filters)
	}
	// Industry parameters are canonicalized case-insensitively.
	if filters["industry"] != "Finance" {
		t.Fatalf("expected canonical industry, got %v", filters)
	}
}

func TestKPIsSingleEndpoints(t *testing.T) {
	r := newTestRouter(t, map[string]string{datasets.AdoptionFile: kpiAdoptionCSV})

	tests := []struct {
		path string
		key  string
	}{
		{"/api/v1/kpis/total-industries", "total_industries"},
		{"/api/v1/kpis/avg-adoption", "avg_adoption"},
		{"/api/v1/kpis/total-investment", "total_investment"},
		{"/api/v1/kpis/top-industry", "top_industry"},
		{"/api/v1/kpis/fastest-growing", "fastest_growing_industry"},
	}

	for _, tc := range tests {
		resp, body := doGet(t, r, tc.path)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", tc.path, resp.Code, resp.Body.String())
		}
		data := body["data"].(map[string]any)
		if _, ok := data[tc.key]; !ok {
			t.Fatalf("%s: expected key %q, got %v", tc.path, tc.key, data)
		}
		if _, ok := data["computed_at"]; !ok {
			t.Fatalf("%s: expected computed_at, got %v", tc.path, data)
		}
	}
}

func TestKPIsInvalidYear(t *testing.T) {
	r := newTestRouter(t, map[string]string{datasets.AdoptionFile: kpiAdoptionCSV})

	resp, _ := doGet(t, r, "/api/v1/kpis?year=1999")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestKPIsUnknownIndustry(t *testing.T) {
	r := newTestRouter(t, map[string]string{datasets.AdoptionFile: kpiAdoptionCSV})

	resp, _ := doGet(t, r, "/api/v1/kpis?industry=Agriculture")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestKPIsDataUnavailable(t *testing.T) {
	r := newTestRouter(t, map[string]string{})

	resp, _ := doGet(t, r, "/api/v1/kpis")
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}
