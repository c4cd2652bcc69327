// Package stats provides the statistical primitives behind insight
// generation: Pearson correlation, a coarse significance approximation,
// Cohen's d effect size, and the composite confidence score.
//
// The p-value mapping is deliberately a four-bucket lookup rather than an
// exact t-distribution integral; downstream consumers depend on those exact
// bucket values.
package stats

import "math"

// Correlation computes the Pearson correlation coefficient between x and y,
// rounded to 3 decimals. It returns 0 when fewer than 2 paired points exist,
// when the lengths differ, or when either sample has zero variance. Callers
// must treat that 0 as "no linear relationship detected", not as a computed
// zero correlation.
func Correlation(x, y []float64) float64 {
	return Round3(RawCorrelation(x, y))
}

// RawCorrelation is Correlation without the rounding. Significance tests
// must use this value; rounding the coefficient first can flip the p-value
// bucket near a t threshold.
func RawCorrelation(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}

	meanX := mean(x)
	meanY := mean(y)

	var numerator, sumSqX, sumSqY float64
	for i := range x {
		dx := x[i] - meanX
		dy := y[i] - meanY
		numerator += dx * dy
		sumSqX += dx * dx
		sumSqY += dy * dy
	}

	denominator := math.Sqrt(sumSqX * sumSqY)
	if denominator == 0 {
		return 0
	}

	return numerator / denominator
}

// ApproxPValue maps a correlation coefficient and sample size to an
// approximate two-tailed p-value via fixed t-statistic thresholds.
func ApproxPValue(r float64, n int) float64 {
	if n < 3 {
		return 1.0
	}
	if math.Abs(r) >= 0.999 {
		return 0.001
	}

	t := math.Abs(r) * math.Sqrt(float64(n-2)/(1-r*r))
	switch {
	case t > 2.576:
		return 0.01
	case t > 1.96:
		return 0.05
	case t > 1.645:
		return 0.10
	default:
		return 0.20
	}
}

// CohensD computes the pooled-variance Cohen's d effect size between two
// groups, rounded to 3 decimals. It returns 0 when either group is empty,
// when both groups have exactly one element, or when the pooled standard
// deviation is zero.
func CohensD(group1, group2 []float64) float64 {
	if len(group1) == 0 || len(group2) == 0 {
		return 0
	}
	if len(group1) == 1 && len(group2) == 1 {
		return 0
	}

	n1 := float64(len(group1))
	n2 := float64(len(group2))
	pooled := math.Sqrt(((n1-1)*variance(group1) + (n2-1)*variance(group2)) / (n1 + n2 - 2))
	if pooled == 0 {
		return 0
	}

	return Round3((mean(group1) - mean(group2)) / pooled)
}

// Confidence blends statistical significance, sample-size adequacy, and
// effect-size magnitude into a heuristic score capped at 0.95, rounded to
// 3 decimals. It is not a calibrated probability.
func Confidence(pValue float64, n int, effectSize float64) float64 {
	multiplier := 1.0 + math.Abs(effectSize)/2
	return Round3(math.Min(0.95, (1-pValue)*(float64(n)/100)*multiplier))
}

// Round3 rounds to 3 decimal places.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// variance is the sample variance; groups of fewer than 2 elements have
// zero variance.
func variance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(values)-1)
}
