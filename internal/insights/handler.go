package insights

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"pulse-backend/internal/datasets"
	"pulse-backend/internal/shared/server/respond"
)

// Export row limits keep the demo CSVs small.
const (
	exportAdoptionLimit    = 20
	exportCorrelationLimit = 15
)

// Handler wires the insight HTTP routes to the engine.
type Handler struct {
	Engine *Engine
	Store  *datasets.Store
}

// NewHandler constructs a Handler.
func NewHandler(engine *Engine, store *datasets.Store) *Handler {
	return &Handler{Engine: engine, Store: store}
}

// RegisterRoutes attaches insight routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/insights", h.list)
	rg.GET("/insights/:id/export", h.export)
}

func (h *Handler) list(c *gin.Context) {
	years, ok := h.yearsParam(c)
	if !ok {
		return
	}
	industries, ok := h.industriesParam(c)
	if !ok {
		return
	}

	results, err := h.Engine.Generate(c.Request.Context(), years, industries)
	if err != nil {
		respondDataError(c, err)
		return
	}

	seen := make(map[Category]struct{})
	categories := make([]string, 0, len(results))
	for _, ins := range results {
		if _, ok := seen[ins.Category]; !ok {
			seen[ins.Category] = struct{}{}
			categories = append(categories, string(ins.Category))
		}
	}

	respond.OK(c, gin.H{
		"success": true,
		"data":    results,
		"metadata": gin.H{
			"total_insights": len(results),
			"filters_applied": gin.H{
				"years":      years,
				"industries": industries,
			},
			"categories": categories,
		},
	})
}

func (h *Handler) export(c *gin.Context) {
	insightID := c.Param("id")

	var (
		content []byte
		name    string
		err     error
	)
	switch {
	case strings.Contains(insightID, "adoption_leader"):
		content, err = h.exportAdoption(c)
		name = fmt.Sprintf("insight_%s_data.csv", insightID)
	case strings.Contains(insightID, "correlation"):
		content, err = h.exportCorrelation(c)
		name = fmt.Sprintf("insight_%s_correlation.csv", insightID)
	default:
		content, err = exportGeneric(insightID)
		name = fmt.Sprintf("insight_%s_export.csv", insightID)
	}
	if err != nil {
		respondDataError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", name))
	c.Data(http.StatusOK, "text/csv", content)
}

func (h *Handler) exportAdoption(c *gin.Context) ([]byte, error) {
	records, _, err := h.Store.Adoption(c.Request.Context())
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Industry", "Year", "Adoption_Rate", "Investment_Millions", "Use_Cases_Count"})

	for i, rec := range records {
		if i >= exportAdoptionLimit {
			break
		}
		_ = w.Write([]string{
			string(rec.Industry),
			strconv.Itoa(rec.Year),
			formatFloat(rec.AdoptionRate),
			formatFloat(rec.InvestmentMillions),
			strconv.Itoa(rec.UseCasesCount),
		})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func (h *Handler) exportCorrelation(c *gin.Context) ([]byte, error) {
	adoption, _, err := h.Store.Adoption(c.Request.Context())
	if err != nil {
		return nil, err
	}
	usage, _, err := h.Store.Usage(c.Request.Context())
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Industry", "Year", "GenAI_Adoption", "AWS_Usage_Score", "Correlation_Strength"})

	pairs := datasets.MatchPairs(adoption, usage, 0)
	for i, p := range pairs {
		if i >= exportCorrelationLimit {
			break
		}
		_ = w.Write([]string{
			string(p.Adoption.Industry),
			strconv.Itoa(p.Adoption.Year),
			formatFloat(p.Adoption.AdoptionRate),
			formatFloat(p.Usage.CompositeScore()),
			"Moderate",
		})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func exportGeneric(insightID string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Insight_ID", "Category", "Export_Type", "Generated_At"})
	_ = w.Write([]string{insightID, "Generic", "Sample_Export", "2024-12-14T13:00:00Z"})
	w.Flush()
	return buf.Bytes(), w.Error()
}

// yearsParam parses the optional comma-separated years parameter.
func (h *Handler) yearsParam(c *gin.Context) ([]int, bool) {
	raw := c.Query("years")
	if raw == "" {
		return nil, true
	}

	var years []int
	for _, part := range strings.Split(raw, ",") {
		year, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			respond.Error(c, http.StatusBadRequest, datasets.ErrorCodeValidation, "Invalid year format", nil)
			return nil, false
		}
		if err := datasets.ValidateYear(year); err != nil {
			respond.Error(c, http.StatusBadRequest, datasets.ErrorCodeValidation, err.Error(), nil)
			return nil, false
		}
		years = append(years, year)
	}
	return years, true
}

// industriesParam parses the optional comma-separated industries parameter,
// canonicalizing each value against the adoption dataset's industry list.
func (h *Handler) industriesParam(c *gin.Context) ([]string, bool) {
	raw := c.Query("industries")
	if raw == "" {
		return nil, true
	}

	_, meta, err := h.Store.Adoption(c.Request.Context())
	if err != nil {
		respondDataError(c, err)
		return nil, false
	}

	var industries []string
	for _, part := range strings.Split(raw, ",") {
		canonical, err := datasets.CanonicalIndustry(part, meta.Industries)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, datasets.ErrorCodeValidation, err.Error(), nil)
			return nil, false
		}
		industries = append(industries, canonical)
	}
	return industries, true
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func respondDataError(c *gin.Context, err error) {
	if errors.Is(err, datasets.ErrDataUnavailable) {
		respond.Error(c, http.StatusServiceUnavailable, datasets.ErrorCodeDataUnavailable, err.Error(), nil)
		return
	}
	respond.Error(c, http.StatusInternalServerError, datasets.ErrorCodeInternal, "Unexpected error generating insights", nil)
}
