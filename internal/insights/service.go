package insights

import (
	"context"
	"fmt"
	"time"

	"pulse-backend/internal/datasets"
	"pulse-backend/internal/shared/metrics"
	"pulse-backend/internal/shared/telemetry"
)

// DataSource supplies the validated record collections the engine consumes.
type DataSource interface {
	Adoption(ctx context.Context) ([]datasets.AdoptionRecord, datasets.Metadata, error)
	Usage(ctx context.Context) ([]datasets.UsageRecord, datasets.Metadata, error)
}

// Engine generates ranked insights over the datasets, memoized per filter
// set by a TTL cache.
type Engine struct {
	Data  DataSource
	Cache *Cache
}

// NewEngine constructs an Engine with the given cache TTL.
func NewEngine(data DataSource, ttl time.Duration) *Engine {
	return &Engine{Data: data, Cache: NewCache(ttl)}
}

// Generate runs all insight generators over the filtered datasets and
// returns their findings in fixed generator order: adoption leadership,
// correlation, growth trend, investment efficiency. Results are cached per
// canonical filter set. A data load failure propagates; it is never folded
// into an empty result.
func (e *Engine) Generate(ctx context.Context, years []int, industries []string) ([]Insight, error) {
	if cached, ok := e.Cache.Get(years, industries); ok {
		metrics.IncCacheHit()
		telemetry.Info("insights.cache_hit", map[string]any{
			"years":      years,
			"industries": industries,
		})
		return cached, nil
	}
	metrics.IncCacheMiss()

	start := time.Now()

	adoption, _, err := e.Data.Adoption(ctx)
	if err != nil {
		return nil, fmt.Errorf("load adoption data: %w", err)
	}
	usage, _, err := e.Data.Usage(ctx)
	if err != nil {
		return nil, fmt.Errorf("load usage data: %w", err)
	}

	filteredAdoption := Apply(adoption, years, industries)
	filteredUsage := Apply(usage, years, industries)

	now := time.Now().UTC()
	results := make([]Insight, 0, 4)
	if ins, ok := adoptionLeadership(filteredAdoption, now); ok {
		results = append(results, ins)
	}
	if ins, ok := correlationInsight(filteredAdoption, filteredUsage, now); ok {
		results = append(results, ins)
	}
	if ins, ok := growthTrend(adoption, years, industries, now); ok {
		results = append(results, ins)
	}
	if ins, ok := investmentEfficiency(filteredAdoption, now); ok {
		results = append(results, ins)
	}

	e.Cache.Set(years, industries, results)

	elapsed := time.Since(start)
	metrics.AddInsightsGenerated(len(results))
	metrics.ObserveGenerationDurationMs(float64(elapsed.Microseconds()) / 1000.0)
	telemetry.Info("insights.generated", map[string]any{
		"count":       len(results),
		"years":       years,
		"industries":  industries,
		"duration_ms": float64(elapsed.Microseconds()) / 1000.0,
	})

	return results, nil
}
