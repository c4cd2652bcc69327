package insights

import (
	"context"
	"encoding/json"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

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

const (
	handlerAdoptionCSV = `industry,year,adoption_rate,use_cases_count,investment_millions
Technology,2022,0.5,10,100
Technology,2023,0.8,12,120
Retail,2022,0.2,10,20
Retail,2023,0.25,10,25
Healthcare,2023,0.6,15,90
`
	handlerUsageCSV = `industry,year,bedrock_usage,sagemaker_usage,lambda_usage,s3_usage,ec2_usage
Technology,2022,0.5,0.5,0.5,0.5,0.5
Technology,2023,0.9,0.9,0.9,0.9,0.9
Retail,2022,0.2,0.2,0.2,0.2,0.2
Retail,2023,0.3,0.3,0.3,0.3,0.3
Healthcare,2023,0.6,0.6,0.6,0.6,0.6
`
)

func handlerFiles() map[string]string {
	return map[string]string{
		datasets.AdoptionFile: handlerAdoptionCSV,
		datasets.UsageFile:    handlerUsageCSV,
	}
}

func newTestRouter(t *testing.T, files map[string]string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := datasets.NewStore(datasets.NewLoader(memStore{files: files}))
	handler := NewHandler(NewEngine(store, 10*time.Minute), store)

	r := gin.New()
	api := r.Group("/api/v1")
	handler.RegisterRoutes(api)
	return r
}

func doGet(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v\n%s", err, resp.Body.String())
	}
	return body
}

func TestInsightsEndpoint(t *testing.T) {
	r := newTestRouter(t, handlerFiles())

	resp := doGet(t, r, "/api/v1/insights")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	body := decodeBody(t, resp)
	if body["success"] != true {
		t.Fatalf("expected success true, got %v", body["success"])
	}

	data, ok := body["data"].([]any)
	if !ok || len(data) == 0 {
		t.Fatalf("expected insights, got %v", body["data"])
	}

	meta := body["metadata"].(map[string]any)
	if meta["total_insights"] != float64(len(data)) {
		t.Fatalf("expected total_insights %d, got %v", len(data), meta["total_insights"])
	}
	categories, ok := meta["categories"].([]any)
	if !ok || len(categories) != len(data) {
		t.Fatalf("expected one category per insight, got %v", meta["categories"])
	}

	first := data[0].(map[string]any)
	for _, field := range []string{"id", "title", "short_text", "details", "confidence", "data_slice_url", "computed_at", "category", "statistical_data"} {
		if _, ok := first[field]; !ok {
			t.Fatalf("expected field %q in insight, got %v", field, first)
		}
	}
}

func TestInsightsEndpointWithFilters(t *testing.T) {
	r := newTestRouter(t, handlerFiles())

	resp := doGet(t, r, "/api/v1/insights?years=2022,2023&industries=technology,retail")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	body := decodeBody(t, resp)
	meta := body["metadata"].(map[string]any)
	filters := meta["filters_applied"].(map[string]any)

	industries, ok := filters["industries"].([]any)
	if !ok || len(industries) != 2 {
		t.Fatalf("expected 2 industries, got %v", filters["industries"])
	}
	if industries[0] != "Technology" || industries[1] != "Retail" {
		t.Fatalf("expected canonical industry spellings, got %v", industries)
	}
}

func TestInsightsEndpointInvalidYear(t *testing.T) {
	r := newTestRouter(t, handlerFiles())

	for _, path := range []string{
		"/api/v1/insights?years=abcd",
		"/api/v1/insights?years=2023,1999",
	} {
		resp := doGet(t, r, path)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", path, resp.Code)
		}
	}
}

func TestInsightsEndpointUnknownIndustry(t *testing.T) {
	r := newTestRouter(t, handlerFiles())

	resp := doGet(t, r, "/api/v1/insights?industries=Agriculture")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestInsightsEndpointDataUnavailable(t *testing.T) {
	r := newTestRouter(t, map[string]string{})

	resp := doGet(t, r, "/api/v1/insights")
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}

func TestExportAdoptionInsight(t *testing.T) {
	r := newTestRouter(t, handlerFiles())

	resp := doGet(t, r, "/api/v1/insights/adoption_leader_20240601_120000_abcd1234/export")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if ct := resp.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("expected text/csv, got %q", ct)
	}
	if cd := resp.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Fatalf("expected attachment disposition, got %q", cd)
	}

	lines := strings.Split(strings.TrimSpace(resp.Body.String()), "\n")
	if lines[0] != "Industry,Year,Adoption_Rate,Investment_Millions,Use_Cases_Count" {
		t.Fatalf("unexpected CSV header %q", lines[0])
	}
	// Header plus five adoption rows.
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d", len(lines))
	}
}

func TestExportCorrelationInsight(t *testing.T) {
	r := newTestRouter(t, handlerFiles())

	resp := doGet(t, r, "/api/v1/insights/correlation_20240601_120000_abcd1234/export")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	lines := strings.Split(strings.TrimSpace(resp.Body.String()), "\n")
	if lines[0] != "Industry,Year,GenAI_Adoption,AWS_Usage_Score,Correlation_Strength" {
		t.Fatalf("unexpected CSV header %q", lines[0])
	}
	// Header plus five matched pairs.
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d", len(lines))
	}
}

func TestExportGenericInsight(t *testing.T) {
	r := newTestRouter(t, handlerFiles())

	resp := doGet(t, r, "/api/v1/insights/growth_leader_20240601_120000_abcd1234/export")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	lines := strings.Split(strings.TrimSpace(resp.Body.String()), "\n")
	if lines[0] != "Insight_ID,Category,Export_Type,Generated_At" {
		t.Fatalf("unexpected CSV header %q", lines[0])
	}
}

func TestExportDataUnavailable(t *testing.T) {
	r := newTestRouter(t, map[string]string{})

	resp := doGet(t, r, "/api/v1/insights/adoption_leader_x/export")
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}
