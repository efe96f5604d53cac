package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fekuna/ecomarche-risk-service/internal/sales"
	"github.com/fekuna/ecomarche-risk-service/pkg/logger"
)

const (
	defaultSummaryDays = 90
	defaultTopN        = 10
)

// SalesHandler serves read-only analytics over the loaded sales history.
// All endpoints respond 404 when no history file was loaded at startup.
type SalesHandler struct {
	history *sales.History
	logger  logger.Logger
}

func NewSalesHandler(history *sales.History, log logger.Logger) *SalesHandler {
	return &SalesHandler{history: history, logger: log}
}

func (h *SalesHandler) RegisterRoutes(rg *gin.RouterGroup) {
	s := rg.Group("/sales")
	{
		s.GET("/summary", h.Summary)
		s.GET("/top-products", h.TopProducts)
		s.GET("/kpi", h.KPI)
		s.GET("/seasonality", h.Seasonality)
		s.GET("/popular-by-season", h.PopularBySeason)
		s.GET("/by-age-groups", h.ByAgeGroups)
	}
}

func (h *SalesHandler) Summary(c *gin.Context) {
	if !h.ensureHistory(c) {
		return
	}
	days, err := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(defaultSummaryDays)))
	if err != nil || days <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
		return
	}

	totals := h.history.DailySummary(days)
	c.JSON(http.StatusOK, gin.H{
		"days":   totals,
		"count":  len(totals),
		"loaded": h.history.LoadedAt(),
	})
}

func (h *SalesHandler) TopProducts(c *gin.Context) {
	if !h.ensureHistory(c) {
		return
	}
	n, err := strconv.Atoi(c.DefaultQuery("n", strconv.Itoa(defaultTopN)))
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "n must be a positive integer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"top_products": h.history.TopProducts(n)})
}

func (h *SalesHandler) KPI(c *gin.Context) {
	if !h.ensureHistory(c) {
		return
	}
	c.JSON(http.StatusOK, h.history.KPI())
}

func (h *SalesHandler) Seasonality(c *gin.Context) {
	if !h.ensureHistory(c) {
		return
	}
	months, categories := h.history.Seasonality()
	c.JSON(http.StatusOK, gin.H{
		"monthly":    months,
		"categories": categories,
	})
}

func (h *SalesHandler) PopularBySeason(c *gin.Context) {
	if !h.ensureHistory(c) {
		return
	}
	n, err := strconv.Atoi(c.DefaultQuery("n", strconv.Itoa(defaultTopN)))
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "n must be a positive integer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"seasons": h.history.PopularBySeason(n)})
}

func (h *SalesHandler) ByAgeGroups(c *gin.Context) {
	if !h.ensureHistory(c) {
		return
	}
	n, err := strconv.Atoi(c.DefaultQuery("n", strconv.Itoa(defaultTopN)))
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "n must be a positive integer"})
		return
	}

	overall, topProducts := h.history.ByAgeGroups(n)
	c.JSON(http.StatusOK, gin.H{
		"overall_by_age":      overall,
		"top_products_by_age": topProducts,
	})
}

func (h *SalesHandler) ensureHistory(c *gin.Context) bool {
	if h.history == nil || len(h.history.Records()) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no sales history loaded"})
		return false
	}
	return true
}
