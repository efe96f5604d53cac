package handler

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/fekuna/ecomarche-risk-service/internal/model"
)

// CategoryHandler serves the fixed product taxonomy. Categories are
// reference data with no storage behind them.
type CategoryHandler struct{}

func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/categories", h.List)
}

type categoryEntry struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (h *CategoryHandler) List(c *gin.Context) {
	entries := make([]categoryEntry, 0, len(model.Categories))
	for id, name := range model.Categories {
		entries = append(entries, categoryEntry{ID: id, Name: name})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

	c.JSON(http.StatusOK, gin.H{"categories": entries})
}
