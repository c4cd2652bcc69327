package datasets

import (
	"fmt"
	"strconv"
	"strings"
)

// Year bounds per dataset. Adoption and usage cover observed years, growth
// predictions extend further out.
const (
	observedYearMin   = 2020
	observedYearMax   = 2030
	predictionYearMin = 2024
	predictionYearMax = 2035
)

// row is one CSV record keyed by column name.
type row map[string]string

// fieldError describes a single failed field within a row.
type fieldError struct {
	field   string
	message string
	value   string
}

func (e fieldError) String() string {
	return fmt.Sprintf("Field '%s': %s (value: %s)", e.field, e.message, e.value)
}

func rowError(rowNum int, filename string, errs []fieldError) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.String()
	}
	return fmt.Sprintf("Row %d in %s: %s", rowNum, filename, strings.Join(parts, "; "))
}

func (r row) industry(errs *[]fieldError) Industry {
	raw := strings.TrimSpace(r["industry"])
	ind := Industry(raw)
	if !ind.Valid() {
		*errs = append(*errs, fieldError{"industry", "must be one of the known industries", raw})
	}
	return ind
}

func (r row) intField(name string, min, max int, errs *[]fieldError) int {
	raw := strings.TrimSpace(r[name])
	v, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fieldError{name, "must be an integer", raw})
		return 0
	}
	if v < min || v > max {
		*errs = append(*errs, fieldError{name, fmt.Sprintf("must be between %d and %d", min, max), raw})
	}
	return v
}

func (r row) floatField(name string, min, max float64, errs *[]fieldError) float64 {
	raw := strings.TrimSpace(r[name])
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*errs = append(*errs, fieldError{name, "must be a number", raw})
		return 0
	}
	if v < min || v > max {
		*errs = append(*errs, fieldError{name, fmt.Sprintf("must be between %g and %g", min, max), raw})
	}
	return v
}

// parseAdoptionRow validates and converts one adoption CSV row. Invalid rows
// never produce a record.
func parseAdoptionRow(r row) (AdoptionRecord, []fieldError) {
	var errs []fieldError
	rec := AdoptionRecord{
		Dimension: Dimension{
			Industry: r.industry(&errs),
			Year:     r.intField("year", observedYearMin, observedYearMax, &errs),
		},
		AdoptionRate:       r.floatField("adoption_rate", 0, 1, &errs),
		UseCasesCount:      r.intField("use_cases_count", 0, 100, &errs),
		InvestmentMillions: r.floatField("investment_millions", 0, 10000, &errs),
	}
	if len(errs) > 0 {
		return AdoptionRecord{}, errs
	}
	return rec, nil
}

// parseUsageRow validates and converts one AWS usage CSV row.
func parseUsageRow(r row) (UsageRecord, []fieldError) {
	var errs []fieldError
	rec := UsageRecord{
		Dimension: Dimension{
			Industry: r.industry(&errs),
			Year:     r.intField("year", observedYearMin, observedYearMax, &errs),
		},
		BedrockUsage:   r.floatField("bedrock_usage", 0, 1, &errs),
		SageMakerUsage: r.floatField("sagemaker_usage", 0, 1, &errs),
		LambdaUsage:    r.floatField("lambda_usage", 0, 1, &errs),
		S3Usage:        r.floatField("s3_usage", 0, 1, &errs),
		EC2Usage:       r.floatField("ec2_usage", 0, 1, &errs),
	}
	if len(errs) > 0 {
		return UsageRecord{}, errs
	}
	return rec, nil
}

// parseGrowthRow validates and converts one growth prediction CSV row,
// including the interval ordering invariants.
func parseGrowthRow(r row) (GrowthRecord, []fieldError) {
	var errs []fieldError
	rec := GrowthRecord{
		Dimension: Dimension{
			Industry: r.industry(&errs),
			Year:     r.intField("year", predictionYearMin, predictionYearMax, &errs),
		},
		PredictedAdoption:      r.floatField("predicted_adoption", 0, 1, &errs),
		ConfidenceIntervalLow:  r.floatField("confidence_interval_low", 0, 1, &errs),
		ConfidenceIntervalHigh: r.floatField("confidence_interval_high", 0, 1, &errs),
	}
	if len(errs) == 0 {
		if rec.ConfidenceIntervalHigh < rec.ConfidenceIntervalLow {
			errs = append(errs, fieldError{
				"confidence_interval_high",
				"must be greater than or equal to confidence_interval_low",
				r["confidence_interval_high"],
			})
		} else if rec.PredictedAdoption < rec.ConfidenceIntervalLow || rec.PredictedAdoption > rec.ConfidenceIntervalHigh {
			errs = append(errs, fieldError{
				"predicted_adoption",
				"must be within the confidence interval",
				r["predicted_adoption"],
			})
		}
	}
	if len(errs) > 0 {
		return GrowthRecord{}, errs
	}
	return rec, nil
}
