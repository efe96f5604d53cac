package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/fekuna/ecomarche-risk-service/internal/product"
	"github.com/fekuna/ecomarche-risk-service/internal/risk"
	"github.com/fekuna/ecomarche-risk-service/pkg/logger"
)

type RiskHandler struct {
	uc     risk.UseCase
	logger logger.Logger
}

func NewRiskHandler(uc risk.UseCase, log logger.Logger) *RiskHandler {
	return &RiskHandler{uc: uc, logger: log}
}

func (h *RiskHandler) RegisterRoutes(rg *gin.RouterGroup) {
	risks := rg.Group("/risks")
	{
		risks.GET("/recommendations", h.Recommendations)
		risks.GET("/predict/:id", h.Predict)
	}
}

func (h *RiskHandler) Recommendations(c *gin.Context) {
	assessments, err := h.uc.Recommendations(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to compute recommendations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute recommendations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recommendations": assessments,
		"count":           len(assessments),
		"generated_at":    time.Now().UTC(),
	})
}

func (h *RiskHandler) Predict(c *gin.Context) {
	assessment, err := h.uc.Predict(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, risk.ErrModelUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": risk.ErrModelUnavailable.Error()})
		case errors.Is(err, product.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": product.ErrNotFound.Error()})
		default:
			h.logger.Error("failed to predict risk", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to predict risk"})
		}
		return
	}

	c.JSON(http.StatusOK, assessment)
}
