package datasets

import "pulse-backend/internal/stats"

// Industry identifies one of the eight tracked industry sectors.
type Industry string

const (
	IndustryHealthcare     Industry = "Healthcare"
	IndustryFinance        Industry = "Finance"
	IndustryManufacturing  Industry = "Manufacturing"
	IndustryTechnology     Industry = "Technology"
	IndustryRetail         Industry = "Retail"
	IndustryEducation      Industry = "Education"
	IndustryEnergy         Industry = "Energy"
	IndustryTransportation Industry = "Transportation"
)

// Industries lists every valid industry value.
var Industries = []Industry{
	IndustryHealthcare,
	IndustryFinance,
	IndustryManufacturing,
	IndustryTechnology,
	IndustryRetail,
	IndustryEducation,
	IndustryEnergy,
	IndustryTransportation,
}

// Valid reports whether the industry is one of the eight known values.
func (i Industry) Valid() bool {
	for _, known := range Industries {
		if i == known {
			return true
		}
	}
	return false
}

// Dimension carries the (industry, year) key shared by every dataset row.
type Dimension struct {
	Industry Industry `json:"industry"`
	Year     int      `json:"year"`
}

// Dims returns the record's industry and year, used by generic filters.
func (d Dimension) Dims() (Industry, int) {
	return d.Industry, d.Year
}

// AdoptionRecord is one validated row of the GenAI adoption dataset.
type AdoptionRecord struct {
	Dimension
	AdoptionRate       float64 `json:"adoption_rate"`
	UseCasesCount      int     `json:"use_cases_count"`
	InvestmentMillions float64 `json:"investment_millions"`
}

// UsageRecord is one validated row of the AWS service usage dataset. All
// usage values are fractions in [0, 1].
type UsageRecord struct {
	Dimension
	BedrockUsage   float64 `json:"bedrock_usage"`
	SageMakerUsage float64 `json:"sagemaker_usage"`
	LambdaUsage    float64 `json:"lambda_usage"`
	S3Usage        float64 `json:"s3_usage"`
	EC2Usage       float64 `json:"ec2_usage"`
}

// Composite usage score weights. AI/ML services weigh more heavily because
// the score proxies GenAI infrastructure intensity; the weights sum to 1.
const (
	weightBedrock   = 0.3
	weightSageMaker = 0.3
	weightLambda    = 0.2
	weightS3        = 0.1
	weightEC2       = 0.1
)

// CompositeScore collapses the five usage fractions into a single weighted
// score in [0, 1], rounded to 3 decimals.
func (r UsageRecord) CompositeScore() float64 {
	score := r.BedrockUsage*weightBedrock +
		r.SageMakerUsage*weightSageMaker +
		r.LambdaUsage*weightLambda +
		r.S3Usage*weightS3 +
		r.EC2Usage*weightEC2
	return stats.Round3(score)
}

// GrowthRecord is one validated row of the growth prediction dataset.
// Invariant: ConfidenceIntervalLow <= PredictedAdoption <= ConfidenceIntervalHigh.
type GrowthRecord struct {
	Dimension
	PredictedAdoption      float64 `json:"predicted_adoption"`
	ConfidenceIntervalLow  float64 `json:"confidence_interval_low"`
	ConfidenceIntervalHigh float64 `json:"confidence_interval_high"`
}

// ValidationResult summarizes a row-wise validation pass over a CSV file.
type ValidationResult struct {
	IsValid          bool     `json:"is_valid"`
	Errors           []string `json:"errors,omitempty"`
	RecordsProcessed int      `json:"records_processed"`
	RecordsValid     int      `json:"records_valid"`
	RecordsInvalid   int      `json:"records_invalid"`
}

// Metadata describes a loaded dataset.
type Metadata struct {
	Filename    string           `json:"filename"`
	RecordCount int              `json:"record_count"`
	Columns     []string         `json:"columns"`
	YearMin     int              `json:"year_min"`
	YearMax     int              `json:"year_max"`
	Industries  []string         `json:"industries"`
	Validation  ValidationResult `json:"validation_result"`
}
