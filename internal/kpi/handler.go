package kpi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pulse-backend/internal/datasets"
	"pulse-backend/internal/shared/server/respond"
)

// Handler wires the KPI HTTP routes to the service.
type Handler struct {
	Service *Service
	Store   *datasets.Store
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, store *datasets.Store) *Handler {
	return &Handler{Service: svc, Store: store}
}

// RegisterRoutes attaches KPI routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/kpis", h.all)
	rg.GET("/kpis/total-industries", h.single(func(s Summary) gin.H {
		return gin.H{"total_industries": s.TotalIndustries}
	}))
	rg.GET("/kpis/avg-adoption", h.single(func(s Summary) gin.H {
		return gin.H{"avg_adoption": s.AvgAdoption}
	}))
	rg.GET("/kpis/total-investment", h.single(func(s Summary) gin.H {
		return gin.H{"total_investment": s.TotalInvestment}
	}))
	rg.GET("/kpis/top-industry", h.single(func(s Summary) gin.H {
		return gin.H{"top_industry": s.TopIndustry}
	}))
	rg.GET("/kpis/fastest-growing", h.single(func(s Summary) gin.H {
		return gin.H{"fastest_growing_industry": s.FastestGrowing}
	}))
}

func (h *Handler) all(c *gin.Context) {
	summary, ok := h.compute(c)
	if !ok {
		return
	}
	respond.OK(c, gin.H{
		"success": true,
		"data":    summary,
		"message": "KPIs computed successfully",
	})
}

// single builds a handler that computes the full summary and projects one KPI
// out of it.
func (h *Handler) single(project func(Summary) gin.H) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, ok := h.compute(c)
		if !ok {
			return
		}
		data := project(summary)
		data["computed_at"] = summary.ComputedAt
		respond.OK(c, gin.H{
			"success": true,
			"data":    data,
		})
	}
}

func (h *Handler) compute(c *gin.Context) (Summary, bool) {
	year, ok := h.yearParam(c)
	if !ok {
		return Summary{}, false
	}
	industry, ok := h.industryParam(c)
	if !ok {
		return Summary{}, false
	}

	summary, err := h.Service.ComputeAll(c.Request.Context(), year, industry)
	if err != nil {
		if errors.Is(err, datasets.ErrDataUnavailable) {
			respond.Error(c, http.StatusServiceUnavailable, datasets.ErrorCodeDataUnavailable, err.Error(), nil)
		} else {
			respond.Error(c, http.StatusInternalServerError, datasets.ErrorCodeInternal, "Unexpected error computing KPIs", nil)
		}
		return Summary{}, false
	}
	return summary, true
}

func (h *Handler) yearParam(c *gin.Context) (*int, bool) {
	raw := c.Query("year")
	if raw == "" {
		return nil, true
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, datasets.ErrorCodeValidation, "Invalid year format", nil)
		return nil, false
	}
	if err := datasets.ValidateYear(year); err != nil {
		respond.Error(c, http.StatusBadRequest, datasets.ErrorCodeValidation, err.Error(), nil)
		return nil, false
	}
	return &year, true
}

func (h *Handler) industryParam(c *gin.Context) (*string, bool) {
	raw := c.Query("industry")
	if raw == "" {
		return nil, true
	}
	_, meta, err := h.Store.Adoption(c.Request.Context())
	if err != nil {
		if errors.Is(err, datasets.ErrDataUnavailable) {
			respond.Error(c, http.StatusServiceUnavailable, datasets.ErrorCodeDataUnavailable, err.Error(), nil)
		} else {
			respond.Error(c, http.StatusInternalServerError, datasets.ErrorCodeInternal, "Unexpected error loading dataset", nil)
		}
		return nil, false
	}
	canonical, err := datasets.CanonicalIndustry(raw, meta.Industries)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, datasets.ErrorCodeValidation, err.Error(), nil)
		return nil, false
	}
	return &canonical, true
}
