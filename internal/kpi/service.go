package kpi

import (
	"context"
	"math"
	"sort"
	"time"

	"pulse-backend/internal/datasets"
	"pulse-backend/internal/stats"
)

// DataSource supplies the adoption records KPIs are computed from.
type DataSource interface {
	Adoption(ctx context.Context) ([]datasets.AdoptionRecord, datasets.Metadata, error)
}

// Service computes aggregate adoption KPIs.
type Service struct {
	Data DataSource
}

// NewService constructs a Service.
func NewService(data DataSource) *Service {
	return &Service{Data: data}
}

// Filters echoes the query filters a KPI was computed under.
type Filters struct {
	Year     *int    `json:"year"`
	Industry *string `json:"industry"`
}

// TopIndustry is the industry with the highest mean adoption rate.
type TopIndustry struct {
	Industry     string  `json:"industry"`
	AdoptionRate float64 `json:"adoption_rate"`
}

// FastestGrowing is the industry with the highest average year-over-year
// growth in mean adoption rate.
type FastestGrowing struct {
	Industry   string  `json:"industry"`
	GrowthRate float64 `json:"growth_rate"`
}

// Summary bundles every KPI for the dashboard endpoint.
type Summary struct {
	TotalIndustries int             `json:"total_industries"`
	AvgAdoption     float64         `json:"avg_adoption"`
	TotalInvestment float64         `json:"total_investment"`
	TopIndustry     *TopIndustry    `json:"top_industry"`
	FastestGrowing  *FastestGrowing `json:"fastest_growing_industry"`
	ComputedAt      time.Time       `json:"computed_at"`
	FiltersApplied  Filters         `json:"filters_applied"`
}

// ComputeAll computes every KPI over the adoption dataset, restricted by the
// optional year and industry filters. The fastest-growing KPI always sees the
// full per-industry history; a year filter restricts it to growth legs ending
// in that year.
func (s *Service) ComputeAll(ctx context.Context, year *int, industry *string) (Summary, error) {
	records, _, err := s.Data.Adoption(ctx)
	if err != nil {
		return Summary{}, err
	}

	filtered := filterRecords(records, year, industry)

	summary := Summary{
		TotalIndustries: countIndustries(filtered),
		AvgAdoption:     avgAdoption(filtered),
		TotalInvestment: totalInvestment(filtered),
		TopIndustry:     topIndustry(filtered),
		FastestGrowing:  fastestGrowing(records, year, industry),
		ComputedAt:      time.Now().UTC(),
		FiltersApplied:  Filters{Year: year, Industry: industry},
	}
	return summary, nil
}

func filterRecords(records []datasets.AdoptionRecord, year *int, industry *string) []datasets.AdoptionRecord {
	out := make([]datasets.AdoptionRecord, 0, len(records))
	for _, rec := range records {
		if year != nil && rec.Year != *year {
			continue
		}
		if industry != nil && string(rec.Industry) != *industry {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func countIndustries(records []datasets.AdoptionRecord) int {
	seen := make(map[datasets.Industry]struct{})
	for _, rec := range records {
		seen[rec.Industry] = struct{}{}
	}
	return len(seen)
}

func avgAdoption(records []datasets.AdoptionRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, rec := range records {
		sum += rec.AdoptionRate
	}
	return stats.Round3(sum / float64(len(records)))
}

func totalInvestment(records []datasets.AdoptionRecord) float64 {
	var sum float64
	for _, rec := range records {
		sum += rec.InvestmentMillions
	}
	return math.Round(sum*10) / 10
}

// topIndustry returns the industry with the highest mean adoption rate.
// Ties resolve to the alphabetically first industry.
func topIndustry(records []datasets.AdoptionRecord) *TopIndustry {
	if len(records) == 0 {
		return nil
	}

	sums := make(map[datasets.Industry]float64)
	counts := make(map[datasets.Industry]int)
	for _, rec := range records {
		sums[rec.Industry] += rec.AdoptionRate
		counts[rec.Industry]++
	}

	industries := make([]datasets.Industry, 0, len(sums))
	for ind := range sums {
		industries = append(industries, ind)
	}
	sort.Slice(industries, func(i, j int) bool { return industries[i] < industries[j] })

	var best *TopIndustry
	for _, ind := range industries {
		avg := sums[ind] / float64(counts[ind])
		if best == nil || avg > best.AdoptionRate {
			best = &TopIndustry{Industry: string(ind), AdoptionRate: avg}
		}
	}
	best.AdoptionRate = stats.Round3(best.AdoptionRate)
	return best
}

// fastestGrowing averages year-over-year growth of each industry's mean
// adoption rate and returns the highest. With a year filter only legs ending
// in that year count; an industry filter restricts the grouping.
func fastestGrowing(records []datasets.AdoptionRecord, year *int, industry *string) *FastestGrowing {
	type bucket struct {
		sum   float64
		count int
	}
	byIndustryYear := make(map[datasets.Industry]map[int]*bucket)
	for _, rec := range records {
		if industry != nil && string(rec.Industry) != *industry {
			continue
		}
		years, ok := byIndustryYear[rec.Industry]
		if !ok {
			years = make(map[int]*bucket)
			byIndustryYear[rec.Industry] = years
		}
		b, ok := years[rec.Year]
		if !ok {
			b = &bucket{}
			years[rec.Year] = b
		}
		b.sum += rec.AdoptionRate
		b.count++
	}

	industries := make([]datasets.Industry, 0, len(byIndustryYear))
	for ind := range byIndustryYear {
		industries = append(industries, ind)
	}
	sort.Slice(industries, func(i, j int) bool { return industries[i] < industries[j] })

	var best *FastestGrowing
	for _, ind := range industries {
		yearMeans := byIndustryYear[ind]
		years := make([]int, 0, len(yearMeans))
		for y := range yearMeans {
			years = append(years, y)
		}
		sort.Ints(years)

		var sum float64
		var legs int
		for i := 1; i < len(years); i++ {
			if year != nil && years[i] != *year {
				continue
			}
			prev := yearMeans[years[i-1]]
			cur := yearMeans[years[i]]
			prevMean := prev.sum / float64(prev.count)
			curMean := cur.sum / float64(cur.count)
			if prevMean <= 0 {
				continue
			}
			sum += (curMean - prevMean) / prevMean
			legs++
		}
		if legs == 0 {
			continue
		}
		rate := sum / float64(legs)
		if best == nil || rate > best.GrowthRate {
			best = &FastestGrowing{Industry: string(ind), GrowthRate: rate}
		}
	}
	if best != nil {
		best.GrowthRate = stats.Round3(best.GrowthRate)
	}
	return best
}
