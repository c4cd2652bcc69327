package insights

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category labels the kind of analysis an insight came from.
type Category string

const (
	CategoryAdoptionTrends Category = "adoption_trends"
	CategoryCorrelation    Category = "correlation_analysis"
	CategoryGrowthTrends   Category = "growth_trends"
	CategoryInvestment     Category = "investment_analysis"
)

// Insight is a single generated finding paired with its supporting
// statistics. Insights are immutable once created.
type Insight struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	ShortText       string         `json:"short_text"`
	Details         string         `json:"details"`
	Confidence      float64        `json:"confidence"`
	DataSliceURL    string         `json:"data_slice_url"`
	ComputedAt      time.Time      `json:"computed_at"`
	Category        Category       `json:"category"`
	StatisticalData map[string]any `json:"statistical_data"`
}

// newInsightID builds a timestamp-derived ID with a short random suffix so
// rapid successive generations within the same second stay distinct.
func newInsightID(prefix string, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s_%s_%s", prefix, now.UTC().Format("20060102_150405"), suffix)
}

// sliceURL builds a drill-down reference into the data-slice endpoint.
// Omitted parameters are absent from the query string.
func sliceURL(industry string, year int, metric string) string {
	var params []string
	if industry != "" {
		params = append(params, "industry="+industry)
	}
	if year != 0 {
		params = append(params, fmt.Sprintf("year=%d", year))
	}
	if metric != "" {
		params = append(params, "metric="+metric)
	}
	url := "/api/v1/data/slice"
	if len(params) == 0 {
		return url
	}
	return url + "?" + strings.Join(params, "&")
}
