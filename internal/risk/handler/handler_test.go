package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/fekuna/ecomarche-risk-service/internal/product"
	"github.com/fekuna/ecomarche-risk-service/internal/risk"
	"github.com/fekuna/ecomarche-risk-service/pkg/logger"
)

type stubUseCase struct {
	assessments []risk.Assessment
	assessment  *risk.Assessment
	err         error
}

func (s *stubUseCase) Recommendations(context.Context) ([]risk.Assessment, error) {
	return s.assessments, s.err
}

func (s *stubUseCase) Predict(context.Context, string) (*risk.Assessment, error) {
	return s.assessment, s.err
}

func setupRouter(uc risk.UseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	NewRiskHandler(uc, logger.NewNop()).RegisterRoutes(api)
	return router
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRecommendations(t *testing.T) {
	router := setupRouter(&stubUseCase{assessments: []risk.Assessment{
		{ProductID: "p1", Name: "Baguette", Action: "Immediate major discount", Discount: 40},
	}})

	w := get(router, "/api/v1/risks/recommendations")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Baguette")
	assert.Contains(t, w.Body.String(), `"count":1`)
	assert.Contains(t, w.Body.String(), "generated_at")
}

func TestPredict(t *testing.T) {
	router := setupRouter(&stubUseCase{assessment: &risk.Assessment{ProductID: "p1", Name: "Lait"}})

	w := get(router, "/api/v1/risks/predict/p1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Lait")
}

func TestPredictModelUnavailable(t *testing.T) {
	router := setupRouter(&stubUseCase{err: risk.ErrModelUnavailable})

	w := get(router, "/api/v1/risks/predict/p1")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestPredictProductNotFound(t *testing.T) {
	router := setupRouter(&stubUseCase{err: product.ErrNotFound})

	w := get(router, "/api/v1/risks/predict/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
