package insights

import (
	"fmt"
	"math"
	"sort"
	"time"

	"pulse-backend/internal/datasets"
	"pulse-backend/internal/stats"
)

// Generator thresholds.
const (
	adoptionLeaderThreshold   = 0.6
	correlationThreshold      = 0.3
	strongCorrelation         = 0.7
	growthRateThreshold       = 0.10
	minCorrelationPairs       = 3
	adoptionConfidenceCap     = 0.95
	growthConfidenceCap       = 0.9
	investmentConfidenceCap   = 0.85
	adoptionConfidenceScale   = 10
	growthConfidenceScale     = 5
	investmentConfidenceScale = 8
)

// adoptionLeadership emits an insight when some industry's mean adoption
// rate exceeds the leadership threshold, highlighting the global leader.
func adoptionLeadership(records []datasets.AdoptionRecord, now time.Time) (Insight, bool) {
	if len(records) == 0 {
		return Insight{}, false
	}

	byIndustry := make(map[string][]float64)
	for _, rec := range records {
		ind := string(rec.Industry)
		byIndustry[ind] = append(byIndustry[ind], rec.AdoptionRate)
	}

	top, topRate := "", 0.0
	anyAboveThreshold := false
	for _, ind := range sortedKeys(byIndustry) {
		avg := mean(byIndustry[ind])
		if avg > adoptionLeaderThreshold {
			anyAboveThreshold = true
		}
		if top == "" || avg > topRate {
			top, topRate = ind, avg
		}
	}
	if !anyAboveThreshold {
		return Insight{}, false
	}

	sampleSize := len(byIndustry[top])
	confidence := math.Min(adoptionConfidenceCap, float64(sampleSize)/adoptionConfidenceScale)

	return Insight{
		ID:        newInsightID("adoption_leader", now),
		Title:     "Industry Leadership in GenAI Adoption",
		ShortText: fmt.Sprintf("%s leads with %.1f%% adoption rate", top, topRate*100),
		Details: fmt.Sprintf(
			"%s demonstrates the highest GenAI adoption rate at %.1f%%, significantly outpacing industry averages. "+
				"This leadership position indicates mature AI infrastructure and strategic commitment to generative AI technologies.",
			top, topRate*100),
		Confidence:   confidence,
		DataSliceURL: sliceURL(top, 0, "adoption"),
		ComputedAt:   now,
		Category:     CategoryAdoptionTrends,
		StatisticalData: map[string]any{
			"adoption_rate":  topRate,
			"sample_size":    sampleSize,
			"industry_count": len(byIndustry),
		},
	}, true
}

// correlationInsight pairs adoption and usage records by (industry, year)
// and emits an insight when a meaningful correlation exists between
// adoption rate and the composite usage score.
func correlationInsight(adoption []datasets.AdoptionRecord, usage []datasets.UsageRecord, now time.Time) (Insight, bool) {
	if len(adoption) == 0 || len(usage) == 0 {
		return Insight{}, false
	}

	pairs := datasets.MatchPairs(adoption, usage, 0)
	if len(pairs) < minCorrelationPairs {
		return Insight{}, false
	}

	xs := make([]float64, len(pairs))
	ys := make([]float64, len(pairs))
	for i, p := range pairs {
		xs[i] = p.Adoption.AdoptionRate
		ys[i] = p.Usage.CompositeScore()
	}

	raw := stats.RawCorrelation(xs, ys)
	r := stats.Round3(raw)
	if math.Abs(r) <= correlationThreshold {
		return Insight{}, false
	}

	n := len(pairs)
	// Significance works on the unrounded coefficient; rounding first can
	// flip the p-value bucket near a t threshold.
	pValue := stats.ApproxPValue(raw, n)
	// The correlation coefficient doubles as its own effect-size proxy.
	effectSize := math.Abs(r)
	confidence := stats.Confidence(pValue, n, effectSize)

	strength := "moderate"
	strengthTitle := "Moderate"
	effectLabel := "medium"
	if math.Abs(r) > strongCorrelation {
		strength = "strong"
		strengthTitle = "Strong"
		effectLabel = "large"
	}
	direction, usageWord, adoptionWord := "positive", "higher", "increased"
	if r < 0 {
		direction, usageWord, adoptionWord = "negative", "lower", "decreased"
	}

	return Insight{
		ID:        newInsightID("correlation", now),
		Title:     "GenAI-AWS Usage Correlation Analysis",
		ShortText: fmt.Sprintf("%s %s correlation detected (r=%v)", strengthTitle, direction, r),
		Details: fmt.Sprintf(
			"Statistical analysis reveals a %s %s correlation (r=%v, p=%.3f) between GenAI adoption rates and AWS service usage. "+
				"This suggests that %s cloud infrastructure utilization is associated with %s GenAI adoption across industries.",
			strength, direction, r, pValue, usageWord, adoptionWord),
		Confidence:   confidence,
		DataSliceURL: sliceURL("", 0, "correlation"),
		ComputedAt:   now,
		Category:     CategoryCorrelation,
		StatisticalData: map[string]any{
			"correlation_coefficient": r,
			"p_value":                 pValue,
			"sample_size":             n,
			"cohens_d":                effectSize,
			"effect_size":             effectLabel,
		},
	}, true
}

// growthTrend scans the full adoption history (filtered here rather than
// upstream so multi-year trajectories stay intact), computes average
// year-over-year growth of per-year mean adoption for each industry, and
// emits an insight when the fastest-growing industry clears the threshold.
func growthTrend(all []datasets.AdoptionRecord, years []int, industries []string, now time.Time) (Insight, bool) {
	if len(all) == 0 {
		return Insight{}, false
	}

	filtered := Apply(all, years, industries)
	byIndustryYear := make(map[string]map[int][]float64)
	for _, rec := range filtered {
		ind := string(rec.Industry)
		if byIndustryYear[ind] == nil {
			byIndustryYear[ind] = make(map[int][]float64)
		}
		byIndustryYear[ind][rec.Year] = append(byIndustryYear[ind][rec.Year], rec.AdoptionRate)
	}

	fastest, fastestRate := "", 0.0
	for _, ind := range sortedKeys(byIndustryYear) {
		yearData := byIndustryYear[ind]
		sortedYears := make([]int, 0, len(yearData))
		for y := range yearData {
			sortedYears = append(sortedYears, y)
		}
		if len(sortedYears) < 2 {
			continue
		}
		sort.Ints(sortedYears)

		var growthRates []float64
		for i := 1; i < len(sortedYears); i++ {
			prevAvg := mean(yearData[sortedYears[i-1]])
			currAvg := mean(yearData[sortedYears[i]])
			if prevAvg > 0 {
				growthRates = append(growthRates, (currAvg-prevAvg)/prevAvg)
			}
		}
		if len(growthRates) == 0 {
			continue
		}

		avgGrowth := mean(growthRates)
		if fastest == "" || avgGrowth > fastestRate {
			fastest, fastestRate = ind, avgGrowth
		}
	}

	if fastest == "" || fastestRate <= growthRateThreshold {
		return Insight{}, false
	}

	distinctYears := len(byIndustryYear[fastest])
	confidence := math.Min(growthConfidenceCap, float64(distinctYears)/growthConfidenceScale)

	return Insight{
		ID:        newInsightID("growth_leader", now),
		Title:     "Fastest Growing Industry Identified",
		ShortText: fmt.Sprintf("%s shows %.1f%% average growth rate", fastest, fastestRate*100),
		Details: fmt.Sprintf(
			"%s demonstrates the highest growth trajectory with an average year-over-year growth rate of %.1f%%. "+
				"This accelerated adoption indicates strong market momentum and suggests significant investment opportunities "+
				"in GenAI technologies within this sector.",
			fastest, fastestRate*100),
		Confidence:   confidence,
		DataSliceURL: sliceURL(fastest, 0, "growth"),
		ComputedAt:   now,
		Category:     CategoryGrowthTrends,
		StatisticalData: map[string]any{
			"growth_rate":    fastestRate,
			"sample_size":    distinctYears,
			"years_analyzed": distinctYears,
		},
	}, true
}

// investmentEfficiency averages investment-per-use-case by industry and
// highlights the minimum (cheapest use cases win). It emits whenever at
// least one record has a positive use case count.
func investmentEfficiency(records []datasets.AdoptionRecord, now time.Time) (Insight, bool) {
	if len(records) == 0 {
		return Insight{}, false
	}

	byIndustry := make(map[string][]float64)
	for _, rec := range records {
		if rec.UseCasesCount > 0 {
			ind := string(rec.Industry)
			byIndustry[ind] = append(byIndustry[ind], rec.InvestmentMillions/float64(rec.UseCasesCount))
		}
	}
	if len(byIndustry) == 0 {
		return Insight{}, false
	}

	best, bestValue := "", 0.0
	for _, ind := range sortedKeys(byIndustry) {
		avg := mean(byIndustry[ind])
		if best == "" || avg < bestValue {
			best, bestValue = ind, avg
		}
	}

	sampleSize := len(byIndustry[best])
	confidence := math.Min(investmentConfidenceCap, float64(sampleSize)/investmentConfidenceScale)

	return Insight{
		ID:        newInsightID("investment_efficiency", now),
		Title:     "Investment Efficiency Leader",
		ShortText: fmt.Sprintf("%s shows highest ROI at $%.1fM per use case", best, bestValue),
		Details: fmt.Sprintf(
			"%s demonstrates the most efficient GenAI investment strategy with an average of $%.1fM per use case. "+
				"This efficiency suggests optimized resource allocation and strategic focus on high-impact AI applications.",
			best, bestValue),
		Confidence:   confidence,
		DataSliceURL: sliceURL(best, 0, "investment"),
		ComputedAt:   now,
		Category:     CategoryInvestment,
		StatisticalData: map[string]any{
			"efficiency_ratio": bestValue,
			"sample_size":      sampleSize,
			"total_industries": len(byIndustry),
		},
	}, true
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
