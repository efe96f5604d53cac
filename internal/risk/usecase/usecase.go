package usecase

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/fekuna/ecomarche-risk-service/internal/model"
	"github.com/fekuna/ecomarche-risk-service/internal/product"
	"github.com/fekuna/ecomarche-risk-service/internal/product/dto"
	"github.com/fekuna/ecomarche-risk-service/internal/promotion"
	"github.com/fekuna/ecomarche-risk-service/internal/risk"
	"github.com/fekuna/ecomarche-risk-service/internal/sales"
	"github.com/fekuna/ecomarche-risk-service/pkg/cache"
	"github.com/fekuna/ecomarche-risk-service/pkg/logger"
)

const recommendationsCacheTTL = 5 * time.Minute

type riskUseCase struct {
	products product.Repository
	promos   promotion.Repository
	history  *sales.History
	engine   *risk.Engine
	clf      risk.Classifier
	cache    *cache.RedisClient
	logger   logger.Logger
}

// NewRiskUseCase wires the scoring engine to storage. history and clf may be
// nil: scoring then falls back to heuristics without sales context.
func NewRiskUseCase(
	products product.Repository,
	promos promotion.Repository,
	history *sales.History,
	engine *risk.Engine,
	clf risk.Classifier,
	cache *cache.RedisClient,
	log logger.Logger,
) risk.UseCase {
	return &riskUseCase{
		products: products,
		promos:   promos,
		history:  history,
		engine:   engine,
		clf:      clf,
		cache:    cache,
		logger:   log,
	}
}

func (uc *riskUseCase) Recommendations(ctx context.Context) ([]risk.Assessment, error) {
	if uc.cache != nil {
		val, err := uc.cache.Client.Get(ctx, risk.RecommendationsCacheKey).Result()
		if err == nil {
			var cached []risk.Assessment
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached, nil
			}
		}
	}

	products, err := uc.loadProducts(ctx)
	if err != nil {
		return nil, err
	}

	assessments := uc.engine.ComputeRecommendations(ctx, products, uc.history.Records(), uc.clf, time.Now())

	if uc.cache != nil {
		if data, err := json.Marshal(assessments); err == nil {
			uc.cache.Client.Set(ctx, risk.RecommendationsCacheKey, data, recommendationsCacheTTL)
		}
	}

	return assessments, nil
}

func (uc *riskUseCase) Predict(ctx context.Context, productID string) (*risk.Assessment, error) {
	p, err := uc.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, product.ErrNotFound
	}
	if uc.clf == nil {
		return nil, risk.ErrModelUnavailable
	}
	if uc.promos != nil {
		promo, err := uc.promos.FindActiveByProduct(ctx, productID)
		if err != nil {
			uc.logger.Warn("failed to resolve promotion", zap.String("product_id", productID), zap.Error(err))
		} else {
			p.Promotion = promo
		}
	}

	records := uc.history.Records()
	assessment := uc.engine.Assess(ctx, p, time.Now(), records, risk.ComputeGlobalStats(records), uc.clf)
	return &assessment, nil
}

func (uc *riskUseCase) loadProducts(ctx context.Context) ([]model.Product, error) {
	products, _, err := uc.products.FindAll(ctx, &dto.ProductFilters{})
	if err != nil {
		return nil, err
	}

	if uc.promos != nil && len(products) > 0 {
		ids := make([]string, len(products))
		for i := range products {
			ids[i] = products[i].ID
		}
		promos, err := uc.promos.FindActiveByProducts(ctx, ids)
		if err != nil {
			uc.logger.Warn("failed to resolve promotions", zap.Error(err))
		} else {
			for i := range products {
				products[i].Promotion = promos[products[i].ID]
			}
		}
	}

	return products, nil
}
