package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/fekuna/ecomarche-risk-service/internal/model"
	"github.com/fekuna/ecomarche-risk-service/internal/product"
	"github.com/fekuna/ecomarche-risk-service/internal/product/dto"
	"github.com/fekuna/ecomarche-risk-service/internal/promotion"
	"github.com/fekuna/ecomarche-risk-service/internal/risk"
	"github.com/fekuna/ecomarche-risk-service/pkg/cache"
	"github.com/fekuna/ecomarche-risk-service/pkg/logger"
)

const listCacheTTL = 5 * time.Minute

type productUseCase struct {
	repo   product.Repository
	promos promotion.Repository
	cache  *cache.RedisClient
	logger logger.Logger
}

func NewProductUseCase(repo product.Repository, promos promotion.Repository, cache *cache.RedisClient, log logger.Logger) product.UseCase {
	return &productUseCase{
		repo:   repo,
		promos: promos,
		cache:  cache,
		logger: log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	expiry, err := parseExpiryDate(input.ExpiryDate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p := &model.Product{
		BaseModel:  model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:       input.Name,
		CategoryID: input.CategoryID,
		Stock:      input.Stock,
		UnitPrice:  input.UnitPrice,
		ExpiryDate: expiry,
	}
	if input.Supplier != "" {
		supplier := input.Supplier
		p.Supplier = &supplier
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	go uc.invalidateProductCache(context.Background())

	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, product.ErrNotFound
	}
	if err := uc.attachPromotions(ctx, []*model.Product{p}); err != nil {
		uc.logger.Warn("failed to resolve promotion", zap.String("product_id", id), zap.Error(err))
	}
	return p, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	cacheKey, err := uc.generateCacheKey(filters)
	if err == nil && uc.cache != nil {
		val, err := uc.cache.Client.Get(ctx, cacheKey).Result()
		if err == nil {
			var result struct {
				Products []model.Product
				Count    int
			}
			if err := json.Unmarshal([]byte(val), &result); err == nil {
				return result.Products, result.Count, nil
			}
		}
	}

	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	refs := make([]*model.Product, len(products))
	for i := range products {
		refs[i] = &products[i]
	}
	if err := uc.attachPromotions(ctx, refs); err != nil {
		uc.logger.Warn("failed to resolve promotions", zap.Error(err))
	}

	if cacheKey != "" && uc.cache != nil {
		cacheData := struct {
			Products []model.Product
			Count    int
		}{
			Products: products,
			Count:    count,
		}
		if data, err := json.Marshal(cacheData); err == nil {
			uc.cache.Client.Set(ctx, cacheKey, data, listCacheTTL)
		}
	}

	return products, count, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, id string, input *dto.UpdateProductInput) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, product.ErrNotFound
	}

	if input.Name != nil {
		p.Name = *input.Name
	}
	if input.CategoryID != nil {
		p.CategoryID = input.CategoryID
	}
	if input.Stock != nil {
		p.Stock = *input.Stock
	}
	if input.UnitPrice != nil {
		p.UnitPrice = *input.UnitPrice
	}
	if input.Supplier != nil {
		p.Supplier = input.Supplier
	}
	if input.ExpiryDate != nil {
		expiry, err := parseExpiryDate(*input.ExpiryDate)
		if err != nil {
			return nil, err
		}
		p.ExpiryDate = expiry
	}

	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	go uc.invalidateProductCache(context.Background())

	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return product.ErrNotFound
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	go uc.invalidateProductCache(context.Background())

	return nil
}

func (uc *productUseCase) ApplyDiscount(ctx context.Context, productID string, discountPercent float64) (*model.Product, *model.Promotion, error) {
	if discountPercent <= 0 || discountPercent > 100 {
		return nil, nil, product.ErrInvalidDiscount
	}

	// Serialize concurrent discounts on the same product so "most recent
	// active promotion wins" stays deterministic.
	lockKey := fmt.Sprintf("lock:promotion:%s", productID)
	lockValue := uuid.New().String()
	acquired := false
	if uc.cache != nil {
		for i := 0; i < 3; i++ {
			ok, err := uc.cache.AcquireLock(ctx, lockKey, lockValue, 5*time.Second)
			if err != nil {
				uc.logger.Error("failed to acquire lock redis error", zap.Error(err))
			}
			if ok {
				acquired = true
				break
			}
			time.Sleep(100 * time.Millisecond)
		}
		if !acquired {
			return nil, nil, errors.New("system busy, please try again later (lock)")
		}
		defer uc.cache.ReleaseLock(ctx, lockKey, lockValue)
	}

	p, err := uc.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	if p == nil {
		return nil, nil, product.ErrNotFound
	}

	now := time.Now()
	promo := &model.Promotion{
		ID:              uuid.New().String(),
		ProductID:       productID,
		DiscountPercent: discountPercent,
		StartDate:       &now,
		Active:          true,
		CreatedAt:       now,
	}
	if err := uc.promos.Create(ctx, promo); err != nil {
		return nil, nil, err
	}

	p.Promotion = promo

	go uc.invalidateProductCache(context.Background())

	return p, promo, nil
}

func (uc *productUseCase) RecordSale(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return errors.Errorf("invalid sale quantity %d", quantity)
	}
	if err := uc.repo.AdjustStock(ctx, productID, -quantity); err != nil {
		return err
	}

	go uc.invalidateProductCache(context.Background())

	return nil
}

func (uc *productUseCase) SeedIfEmpty(ctx context.Context) error {
	count, err := uc.repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	seed := model.SeedProducts(now)
	for i := range seed {
		seed[i].ID = uuid.New().String()
		seed[i].CreatedAt = now
		seed[i].UpdatedAt = now
		if err := uc.repo.Create(ctx, &seed[i]); err != nil {
			return errors.Wrapf(err, "seed product %s", seed[i].Name)
		}
	}
	uc.logger.Info("seeded demo catalogue", zap.Int("count", len(seed)))
	return nil
}

func (uc *productUseCase) attachPromotions(ctx context.Context, products []*model.Product) error {
	if uc.promos == nil || len(products) == 0 {
		return nil
	}
	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	promos, err := uc.promos.FindActiveByProducts(ctx, ids)
	if err != nil {
		return err
	}
	for _, p := range products {
		p.Promotion = promos[p.ID]
	}
	return nil
}

func parseExpiryDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, errors.Wrapf(product.ErrInvalidExpiry, "%q", raw)
}

func (uc *productUseCase) generateCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("products:list:%x", md5.Sum(data)), nil
}

// invalidateProductCache drops every cached product listing plus the ranked
// recommendations, which are computed from the same rows.
func (uc *productUseCase) invalidateProductCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	keys, err := uc.cache.Client.Keys(ctx, "products:list:*").Result()
	if err != nil {
		keys = nil
	}
	keys = append(keys, risk.RecommendationsCacheKey)
	uc.cache.Client.Del(ctx, keys...)
}
