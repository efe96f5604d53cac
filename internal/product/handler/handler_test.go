package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/fekuna/ecomarche-risk-service/internal/model"
	"github.com/fekuna/ecomarche-risk-service/internal/product"
	"github.com/fekuna/ecomarche-risk-service/internal/product/dto"
	"github.com/fekuna/ecomarche-risk-service/pkg/logger"
)

type stubUseCase struct {
	product *model.Product
	err     error
}

func (s *stubUseCase) CreateProduct(context.Context, *dto.CreateProductInput) (*model.Product, error) {
	return s.product, s.err
}

func (s *stubUseCase) GetProduct(context.Context, string) (*model.Product, error) {
	return s.product, s.err
}

func (s *stubUseCase) ListProducts(context.Context, *dto.ProductFilters) ([]model.Product, int, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	if s.product == nil {
		return nil, 0, nil
	}
	return []model.Product{*s.product}, 1, nil
}

func (s *stubUseCase) UpdateProduct(context.Context, string, *dto.UpdateProductInput) (*model.Product, error) {
	return s.product, s.err
}

func (s *stubUseCase) DeleteProduct(context.Context, string) error { return s.err }

func (s *stubUseCase) ApplyDiscount(context.Context, string, float64) (*model.Product, *model.Promotion, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.product, &model.Promotion{DiscountPercent: 25, Active: true}, nil
}

func (s *stubUseCase) RecordSale(context.Context, string, int) error { return s.err }

func (s *stubUseCase) SeedIfEmpty(context.Context) error { return s.err }

func setupRouter(uc product.UseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	NewProductHandler(uc, logger.NewNop()).RegisterRoutes(api)
	return router
}

func perform(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListProducts(t *testing.T) {
	router := setupRouter(&stubUseCase{product: &model.Product{Name: "Lait"}})

	w := perform(router, http.MethodGet, "/api/v1/products", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Lait")
	assert.Contains(t, w.Body.String(), `"count":1`)
}

func TestListProductsBadCategory(t *testing.T) {
	router := setupRouter(&stubUseCase{})

	w := perform(router, http.MethodGet, "/api/v1/products?category_id=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProductNotFound(t *testing.T) {
	router := setupRouter(&stubUseCase{err: product.ErrNotFound})

	w := perform(router, http.MethodGet, "/api/v1/products/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateProduct(t *testing.T) {
	router := setupRouter(&stubUseCase{product: &model.Product{Name: "Lait"}})

	w := perform(router, http.MethodPost, "/api/v1/products", `{"name":"Lait","stock":10,"unit_price":1.2}`)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateProductMissingName(t *testing.T) {
	router := setupRouter(&stubUseCase{})

	w := perform(router, http.MethodPost, "/api/v1/products", `{"stock":10}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateProductNegativeStock(t *testing.T) {
	router := setupRouter(&stubUseCase{})

	w := perform(router, http.MethodPost, "/api/v1/products", `{"name":"Lait","stock":-1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApplyDiscountOK(t *testing.T) {
	router := setupRouter(&stubUseCase{product: &model.Product{Name: "Lait"}})

	w := perform(router, http.MethodPost, "/api/v1/products/p1/apply_discount", `{"discount_percent":25}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "promotion")
	assert.Contains(t, w.Body.String(), `"discount_percent":25`)
}

func TestApplyDiscountInvalid(t *testing.T) {
	router := setupRouter(&stubUseCase{err: product.ErrInvalidDiscount})

	w := perform(router, http.MethodPost, "/api/v1/products/p1/apply_discount", `{"discount_percent":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "discount_percent")
}

func TestApplyDiscountNotFound(t *testing.T) {
	router := setupRouter(&stubUseCase{err: product.ErrNotFound})

	w := perform(router, http.MethodPost, "/api/v1/products/missing/apply_discount", `{"discount_percent":25}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteProduct(t *testing.T) {
	router := setupRouter(&stubUseCase{})

	w := perform(router, http.MethodDelete, "/api/v1/products/p1", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
