package datasets

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"pulse-backend/internal/shared/server/respond"
	"pulse-backend/internal/stats"
)

// Handler wires the dataset HTTP routes to the record store.
type Handler struct {
	Store *Store
}

// NewHandler constructs a Handler.
func NewHandler(store *Store) *Handler {
	return &Handler{Store: store}
}

// RegisterRoutes attaches dataset routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/genai-adoption", h.adoption)
	rg.GET("/aws-usage", h.usage)
	rg.GET("/growth-predictions", h.growth)
	rg.GET("/correlation-data", h.correlation)
	rg.GET("/data/slice", h.slice)
}

func (h *Handler) adoption(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		return
	}

	records, meta, err := h.Store.Adoption(c.Request.Context())
	if err != nil {
		respondDataError(c, err)
		return
	}

	industry, ok := industryParam(c, meta.Industries)
	if !ok {
		return
	}

	filtered := matchRecords(records, year, industry)
	if len(filtered) == 0 {
		respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "No GenAI adoption data found for the specified filters", gin.H{
			"year":     year,
			"industry": industry,
		})
		return
	}

	respond.OK(c, gin.H{
		"data":     filtered,
		"metadata": datasetMetadata(meta, len(filtered), year, industry),
	})
}

func (h *Handler) usage(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		return
	}

	records, meta, err := h.Store.Usage(c.Request.Context())
	if err != nil {
		respondDataError(c, err)
		return
	}

	industry, ok := industryParam(c, meta.Industries)
	if !ok {
		return
	}

	filtered := matchRecords(records, year, industry)
	if len(filtered) == 0 {
		respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "No AWS usage data found for the specified filters", gin.H{
			"year":     year,
			"industry": industry,
		})
		return
	}

	data := make([]gin.H, 0, len(filtered))
	for _, rec := range filtered {
		data = append(data, gin.H{
			"industry":          rec.Industry,
			"year":              rec.Year,
			"bedrock_usage":     rec.BedrockUsage,
			"sagemaker_usage":   rec.SageMakerUsage,
			"lambda_usage":      rec.LambdaUsage,
			"s3_usage":          rec.S3Usage,
			"ec2_usage":         rec.EC2Usage,
			"total_usage_score": rec.CompositeScore(),
		})
	}

	respond.OK(c, gin.H{
		"data":     data,
		"metadata": datasetMetadata(meta, len(data), year, industry),
	})
}

func (h *Handler) growth(c *gin.Context) {
	records, meta, err := h.Store.Growth(c.Request.Context())
	if err != nil {
		respondDataError(c, err)
		return
	}

	industry, ok := industryParam(c, meta.Industries)
	if !ok {
		return
	}

	rangeStart, rangeEnd := 0, 0
	if raw := c.Query("year_range"); raw != "" {
		rangeStart, rangeEnd, err = ParseYearRange(raw)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, err.Error(), nil)
			return
		}
	}

	data := make([]gin.H, 0, len(records))
	for _, rec := range records {
		if industry != "" && string(rec.Industry) != industry {
			continue
		}
		if rangeEnd != 0 && (rec.Year < rangeStart || rec.Year > rangeEnd) {
			continue
		}
		data = append(data, gin.H{
			"industry":                 rec.Industry,
			"year":                     rec.Year,
			"predicted_adoption":       rec.PredictedAdoption,
			"confidence_interval_low":  rec.ConfidenceIntervalLow,
			"confidence_interval_high": rec.ConfidenceIntervalHigh,
			"confidence_range":         rec.ConfidenceIntervalHigh - rec.ConfidenceIntervalLow,
		})
	}
	if len(data) == 0 {
		respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "No growth prediction data found for the specified filters", gin.H{
			"year_range": c.Query("year_range"),
			"industry":   industry,
		})
		return
	}

	respond.OK(c, gin.H{
		"data":     data,
		"metadata": datasetMetadata(meta, len(data), 0, industry),
	})
}

func (h *Handler) correlation(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		return
	}

	adoption, _, err := h.Store.Adoption(c.Request.Context())
	if err != nil {
		respondDataError(c, err)
		return
	}
	usage, _, err := h.Store.Usage(c.Request.Context())
	if err != nil {
		respondDataError(c, err)
		return
	}

	if len(adoption) == 0 {
		respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "No GenAI adoption data available for correlation analysis", nil)
		return
	}
	if len(usage) == 0 {
		respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "No AWS usage data available for correlation analysis", nil)
		return
	}

	pairs := MatchPairs(adoption, usage, year)
	if len(pairs) == 0 {
		respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "No matching data found for correlation analysis", gin.H{
			"year": year,
		})
		return
	}

	var xs, ys []float64
	dataPoints := make([]gin.H, 0, len(pairs))
	for _, p := range pairs {
		score := p.Usage.CompositeScore()
		xs = append(xs, p.Adoption.AdoptionRate)
		ys = append(ys, score)
		dataPoints = append(dataPoints, gin.H{
			"industry":            p.Adoption.Industry,
			"year":                p.Adoption.Year,
			"genai_adoption":      p.Adoption.AdoptionRate,
			"aws_usage_score":     score,
			"investment_millions": p.Adoption.InvestmentMillions,
			"use_cases_count":     p.Adoption.UseCasesCount,
		})
	}

	var coefficient, significance float64
	if len(xs) >= 2 {
		coefficient = stats.Correlation(xs, ys)
		significance = stats.ApproxPValue(coefficient, len(xs))
	}

	respond.OK(c, gin.H{
		"data": gin.H{
			"correlation_coefficient":  coefficient,
			"statistical_significance": significance,
			"sample_size":              len(dataPoints),
			"data_points":              dataPoints,
		},
		"metadata": gin.H{
			"timestamp":       time.Now().UTC(),
			"filters_applied": gin.H{"year": year},
		},
	})
}

func (h *Handler) slice(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		return
	}

	records, meta, err := h.Store.Adoption(c.Request.Context())
	if err != nil {
		respondDataError(c, err)
		return
	}

	industry, ok := industryParam(c, meta.Industries)
	if !ok {
		return
	}

	metric := c.Query("metric")
	if metric != "" && metric != "adoption" {
		respond.OK(c, gin.H{
			"data": []gin.H{},
			"metadata": gin.H{
				"metric":        metric,
				"total_records": 0,
				"message":       "Data slice for metric '" + metric + "' not yet implemented",
			},
		})
		return
	}

	filtered := matchRecords(records, year, industry)
	respond.OK(c, gin.H{
		"data": filtered,
		"metadata": gin.H{
			"metric":        "adoption",
			"total_records": len(filtered),
			"filters": gin.H{
				"industry": industry,
				"year":     year,
			},
		},
	})
}

// Pair is an adoption record matched with the usage record sharing its
// (industry, year) key.
type Pair struct {
	Adoption AdoptionRecord
	Usage    UsageRecord
}

// MatchPairs joins adoption and usage records on (industry, year),
// optionally restricted to a single year. When a key appears more than once
// in a dataset the last record wins. Pair order follows the adoption
// dataset's key order.
func MatchPairs(adoption []AdoptionRecord, usage []UsageRecord, year int) []Pair {
	type key struct {
		industry Industry
		year     int
	}

	usageByKey := make(map[key]UsageRecord, len(usage))
	for _, rec := range usage {
		if year != 0 && rec.Year != year {
			continue
		}
		usageByKey[key{rec.Industry, rec.Year}] = rec
	}

	adoptionByKey := make(map[key]AdoptionRecord, len(adoption))
	var order []key
	for _, rec := range adoption {
		if year != 0 && rec.Year != year {
			continue
		}
		k := key{rec.Industry, rec.Year}
		if _, seen := adoptionByKey[k]; !seen {
			order = append(order, k)
		}
		adoptionByKey[k] = rec
	}

	var pairs []Pair
	for _, k := range order {
		if u, ok := usageByKey[k]; ok {
			pairs = append(pairs, Pair{Adoption: adoptionByKey[k], Usage: u})
		}
	}
	return pairs
}

// matchRecords filters by an optional single year and canonical industry,
// preserving order.
func matchRecords[T interface{ Dims() (Industry, int) }](records []T, year int, industry string) []T {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		ind, y := rec.Dims()
		if year != 0 && y != year {
			continue
		}
		if industry != "" && string(ind) != industry {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// yearParam parses and validates the optional year query parameter. It
// writes the error response itself and reports ok=false on failure.
func yearParam(c *gin.Context) (int, bool) {
	raw := c.Query("year")
	if raw == "" {
		return 0, true
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "Invalid year format", nil)
		return 0, false
	}
	if err := ValidateYear(year); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, err.Error(), nil)
		return 0, false
	}
	return year, true
}

// industryParam validates the optional industry query parameter against the
// dataset's industries and returns its canonical spelling.
func industryParam(c *gin.Context, available []string) (string, bool) {
	raw := c.Query("industry")
	if raw == "" {
		return "", true
	}
	canonical, err := CanonicalIndustry(raw, available)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, err.Error(), nil)
		return "", false
	}
	return canonical, true
}

func datasetMetadata(meta Metadata, total, year int, industry string) gin.H {
	availableYears := make([]int, 0)
	for y := meta.YearMin; y > 0 && y <= meta.YearMax; y++ {
		availableYears = append(availableYears, y)
	}
	filters := gin.H{}
	if year != 0 {
		filters["year"] = year
	}
	if industry != "" {
		filters["industry"] = industry
	}
	return gin.H{
		"timestamp":            time.Now().UTC(),
		"total_records":        total,
		"source_file":          meta.Filename,
		"available_years":      availableYears,
		"available_industries": meta.Industries,
		"filters_applied":      filters,
	}
}

func respondDataError(c *gin.Context, err error) {
	if errors.Is(err, ErrDataUnavailable) {
		respond.Error(c, http.StatusServiceUnavailable, ErrorCodeDataUnavailable, err.Error(), nil)
		return
	}
	respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "Unexpected error loading dataset", nil)
}
