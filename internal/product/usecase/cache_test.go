package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/ecomarche-risk-service/internal/model"
	"github.com/fekuna/ecomarche-risk-service/internal/risk"
	"github.com/fekuna/ecomarche-risk-service/pkg/cache"
	"github.com/fekuna/ecomarche-risk-service/pkg/logger"
)

func newTestRedis(t *testing.T) (*cache.RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc, err := cache.NewRedisClient(&cache.Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { rc.Close() })
	return rc, mr
}

func TestInvalidateProductCacheDropsRecommendations(t *testing.T) {
	rc, mr := newTestRedis(t)
	uc := NewProductUseCase(newFakeProductRepo(), &fakePromotionRepo{}, rc, logger.NewNop()).(*productUseCase)

	require.NoError(t, mr.Set("products:list:abc", "cached"))
	require.NoError(t, mr.Set(risk.RecommendationsCacheKey, "cached"))

	uc.invalidateProductCache(context.Background())

	assert.False(t, mr.Exists("products:list:abc"))
	assert.False(t, mr.Exists(risk.RecommendationsCacheKey))
}

func TestApplyDiscountInvalidatesRecommendations(t *testing.T) {
	rc, mr := newTestRedis(t)

	repo := newFakeProductRepo()
	require.NoError(t, repo.Create(context.Background(), &model.Product{
		BaseModel: model.BaseModel{ID: "p1"},
		Name:      "Camembert",
		Stock:     12,
		UnitPrice: 3.5,
	}))
	uc := NewProductUseCase(repo, &fakePromotionRepo{}, rc, logger.NewNop())

	require.NoError(t, mr.Set(risk.RecommendationsCacheKey, "stale"))

	_, _, err := uc.ApplyDiscount(context.Background(), "p1", 20)
	require.NoError(t, err)

	// Invalidation runs off the request path.
	assert.Eventually(t, func() bool {
		return !mr.Exists(risk.RecommendationsCacheKey)
	}, time.Second, 10*time.Millisecond)
}
