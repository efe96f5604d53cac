package promotion

import (
	"context"

	"github.com/fekuna/ecomarche-risk-service/internal/model"
)

// Repository resolves at most one "active" promotion per product: when
// several records are flagged active, the most recently created one wins.
type Repository interface {
	Create(ctx context.Context, promo *model.Promotion) error
	FindActiveByProduct(ctx context.Context, productID string) (*model.Promotion, error)

	// FindActiveByProducts resolves the active promotion for a batch of
	// products in one query. Products without one are absent from the map.
	FindActiveByProducts(ctx context.Context, productIDs []string) (map[string]*model.Promotion, error)
}
