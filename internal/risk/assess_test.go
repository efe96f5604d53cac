package risk

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/fekuna/ecomarche-risk-service/internal/model"
	"github.com/fekuna/ecomarche-risk-service/pkg/logger"
)

type fakeClassifier struct {
	prob float64
	err  error
}

func (f *fakeClassifier) PredictProbability(_ context.Context, _ [FeatureCount]float64) (float64, error) {
	return f.prob, f.err
}

func testProduct(name string, stock int, price float64, expiryInDays *int, now time.Time) model.Product {
	p := model.Product{
		BaseModel: model.BaseModel{ID: "id-" + name},
		Name:      name,
		Stock:     stock,
		UnitPrice: price,
	}
	if expiryInDays != nil {
		d := now.AddDate(0, 0, *expiryInDays)
		p.ExpiryDate = &d
	}
	return p
}

func TestAssessNearExpiry(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	engine := NewEngine(logger.NewNop())

	records := []model.SalesRecord{
		rec(1, "Baguette", 5, 1.2),
		rec(2, "Baguette", 5, 1.2),
	}
	p := testProduct("Baguette", 3, 1.2, intPtr(1), now)
	a := engine.Assess(context.Background(), &p, now, records, ComputeGlobalStats(records), nil)

	assert.Equal(t, DriverExpiry, a.Driver)
	assert.Equal(t, ActionMajorDiscount, a.Action)
	assert.Equal(t, 40.0, a.Discount)
	assert.Nil(t, a.ModelProb)
	assert.Equal(t, a.HeuristicScore, a.BlendedScore, "no model means blended equals heuristic")
	assert.Greater(t, a.HeuristicScore, 0.5)
}

func TestAssessOverstock(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	engine := NewEngine(logger.NewNop())

	// Far-off expiry, big stock against modest demand.
	records := []model.SalesRecord{
		rec(1, "Conserves", 2, 1.5),
		rec(2, "Conserves", 2, 1.5),
	}
	p := testProduct("Conserves", 60, 1.5, intPtr(120), now)
	a := engine.Assess(context.Background(), &p, now, records, ComputeGlobalStats(records), nil)

	assert.Equal(t, DriverStock, a.Driver)
	assert.Equal(t, ActionMajorBundle, a.Action, "over twice a week of demand on hand")
	assert.Equal(t, 30.0, a.Discount)
	assert.Equal(t, 0.0, a.ExpiryScore)
}

func TestAssessOverpricedSlowMover(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	engine := NewEngine(logger.NewNop())

	// The product never sells while the rest of the shop does, and its price
	// is well above the median. Stock is negligible.
	records := []model.SalesRecord{
		rec(1, "Lait", 10, 2.0),
		rec(2, "Lait", 10, 2.0),
	}
	p := testProduct("Truffes", 1, 9.0, nil, now)
	a := engine.Assess(context.Background(), &p, now, records, ComputeGlobalStats(records), nil)

	assert.Equal(t, DriverPrice, a.Driver)
	assert.Equal(t, ActionReposition, a.Action)
	assert.Nil(t, a.DaysRemaining)
	assert.Equal(t, 0.0, a.ExpiryScore)
	assert.Greater(t, a.PriceScore, 0.2)
	assert.Equal(t, 15.0, a.Discount)
}

func TestAssessBlendsModelProbability(t *testing.T) {
	now := time.Now()
	engine := NewEngine(logger.NewNop())

	p := testProduct("Yaourt", 5, 1.0, intPtr(5), now)
	clf := &fakeClassifier{prob: 0.9}
	a := engine.Assess(context.Background(), &p, now, nil, GlobalStats{}, clf)

	if assert.NotNil(t, a.ModelProb) {
		assert.Equal(t, 0.9, *a.ModelProb)
	}
	assert.InDelta(t, 0.7*0.9+0.3*a.HeuristicScore, a.BlendedScore, 1e-9)
}

func TestAssessClassifierFailureFallsBack(t *testing.T) {
	now := time.Now()
	engine := NewEngine(logger.NewNop())
	p := testProduct("Yaourt", 5, 1.0, intPtr(5), now)

	for name, clf := range map[string]Classifier{
		"error": &fakeClassifier{err: errors.New("connection refused")},
		"nan":   &fakeClassifier{prob: math.NaN()},
		"inf":   &fakeClassifier{prob: math.Inf(1)},
	} {
		a := engine.Assess(context.Background(), &p, now, nil, GlobalStats{}, clf)
		assert.Nil(t, a.ModelProb, name)
		assert.Equal(t, a.HeuristicScore, a.BlendedScore, name)
	}
}

func TestAssessClampsModelProbability(t *testing.T) {
	now := time.Now()
	engine := NewEngine(logger.NewNop())
	p := testProduct("Yaourt", 5, 1.0, intPtr(5), now)

	a := engine.Assess(context.Background(), &p, now, nil, GlobalStats{}, &fakeClassifier{prob: 1.7})
	if assert.NotNil(t, a.ModelProb) {
		assert.Equal(t, 1.0, *a.ModelProb)
	}

	a = engine.Assess(context.Background(), &p, now, nil, GlobalStats{}, &fakeClassifier{prob: -0.4})
	if assert.NotNil(t, a.ModelProb) {
		assert.Equal(t, 0.0, *a.ModelProb)
	}
}

func TestAssessPromotionOverridesAction(t *testing.T) {
	now := time.Now()
	engine := NewEngine(logger.NewNop())

	p := testProduct("Baguette", 3, 1.2, intPtr(1), now)
	p.Promotion = &model.Promotion{DiscountPercent: 20, Active: true}

	a := engine.Assess(context.Background(), &p, now, nil, GlobalStats{}, nil)
	assert.Equal(t, "Multi-buy promotion (20%)", a.Action)
	assert.Equal(t, 20.0, a.Discount)
	assert.NotNil(t, a.Promotion)
}

func TestComputeRecommendationsRanksByHeuristic(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	engine := NewEngine(logger.NewNop())

	products := []model.Product{
		testProduct("Savon", 10, 3.0, intPtr(365), now),
		testProduct("Baguette", 3, 1.2, intPtr(1), now),
		testProduct("Pain", 15, 2.5, intPtr(3), now),
	}

	out := engine.ComputeRecommendations(context.Background(), products, nil, nil, now)

	assert.Len(t, out, 3)
	assert.Equal(t, "Baguette", out[0].Name)
	assert.Equal(t, "Pain", out[1].Name)
	assert.Equal(t, "Savon", out[2].Name)
	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i-1].HeuristicScore, out[i].HeuristicScore)
	}
}

func TestComputeRecommendationsTruncates(t *testing.T) {
	now := time.Now()
	engine := NewEngine(logger.NewNop())

	products := make([]model.Product, TopN+10)
	for i := range products {
		products[i] = testProduct(fmt.Sprintf("P%02d", i), i, 1.0, intPtr(i%40), now)
	}

	out := engine.ComputeRecommendations(context.Background(), products, nil, nil, now)
	assert.Len(t, out, TopN)
}

func TestComputeRecommendationsStableForEqualScores(t *testing.T) {
	now := time.Now()
	engine := NewEngine(logger.NewNop())

	// Identical inputs produce identical scores; stable sort must keep the
	// original order.
	products := []model.Product{
		testProduct("A", 5, 1.0, intPtr(5), now),
		testProduct("B", 5, 1.0, intPtr(5), now),
		testProduct("C", 5, 1.0, intPtr(5), now),
	}

	out := engine.ComputeRecommendations(context.Background(), products, nil, nil, now)
	assert.Equal(t, []string{"A", "B", "C"}, []string{out[0].Name, out[1].Name, out[2].Name})
}

func TestComputeRecommendationsEmpty(t *testing.T) {
	engine := NewEngine(logger.NewNop())
	out := engine.ComputeRecommendations(context.Background(), nil, nil, nil, time.Now())
	assert.Empty(t, out)
}
