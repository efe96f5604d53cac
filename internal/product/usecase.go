package product

import (
	"context"

	"github.com/pkg/errors"

	"github.com/fekuna/ecomarche-risk-service/internal/model"
	"github.com/fekuna/ecomarche-risk-service/internal/product/dto"
)

// ErrNotFound and ErrInvalidDiscount are the two user-facing failures on the
// product/discount path; handlers map them to 404 and 400.
var (
	ErrNotFound        = errors.New("product not found")
	ErrInvalidDiscount = errors.New("discount_percent must be greater than 0 and at most 100")
	ErrInvalidExpiry   = errors.New("invalid expiry_date, expected an ISO date")
)

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	UpdateProduct(ctx context.Context, id string, input *dto.UpdateProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	// ApplyDiscount persists a promotion for the product instead of mutating
	// its base price, so discounts stay auditable and reversible.
	ApplyDiscount(ctx context.Context, productID string, discountPercent float64) (*model.Product, *model.Promotion, error)

	// RecordSale decrements stock in response to a sale event.
	RecordSale(ctx context.Context, productID string, quantity int) error

	// SeedIfEmpty inserts the demo catalogue when the table is empty.
	SeedIfEmpty(ctx context.Context) error
}
