package product

import (
	"context"

	"github.com/fekuna/ecomarche-risk-service/internal/model"
	"github.com/fekuna/ecomarche-risk-service/internal/product/dto"
)

type Repository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)

	// AdjustStock applies a stock delta, flooring at zero. Used by the
	// sale-event listener.
	AdjustStock(ctx context.Context, productID string, delta int) error
}
