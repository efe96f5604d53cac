package risk

import (
	"context"

	"github.com/pkg/errors"
)

// ErrModelUnavailable is returned by Predict when no classifier is
// configured; handlers map it to 503.
var ErrModelUnavailable = errors.New("prediction model unavailable")

// RecommendationsCacheKey holds the cached ranked recommendations in Redis.
// Product and promotion writes delete it so the next read recomputes against
// fresh rows.
const RecommendationsCacheKey = "risks:recommendations"

type UseCase interface {
	// Recommendations returns the highest-risk products, ranked and capped.
	Recommendations(ctx context.Context) ([]Assessment, error)

	// Predict assesses a single product through the classifier.
	Predict(ctx context.Context, productID string) (*Assessment, error)
}
