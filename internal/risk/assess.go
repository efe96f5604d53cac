package risk

import (
	"context"
	"math"
	"runtime"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fekuna/ecomarche-risk-service/internal/model"
	"github.com/fekuna/ecomarche-risk-service/pkg/logger"
)

// Blend ratio between classifier probability and heuristic score when a
// model prediction is available.
const (
	blendModelWeight     = 0.7
	blendHeuristicWeight = 0.3
)

// TopN is how many recommendations a batch run returns.
const TopN = 20

// Classifier is the optional trained model. Implementations must be safe for
// concurrent use; a failed or invalid prediction degrades scoring to the
// heuristic alone and is never surfaced as an assessment error.
type Classifier interface {
	PredictProbability(ctx context.Context, features [FeatureCount]float64) (float64, error)
}

// Assessment is the scoring output for one product. Values are computed
// fresh per call and never mutated afterwards.
type Assessment struct {
	ProductID      string           `json:"product_id"`
	Name           string           `json:"name"`
	Stock          int              `json:"stock"`
	UnitPrice      float64          `json:"unit_price"`
	DaysRemaining  *int             `json:"days_remaining"`
	ExpiryScore    float64          `json:"expiry_score"`
	StockScore     float64          `json:"stock_score"`
	PriceScore     float64          `json:"price_score"`
	HeuristicScore float64          `json:"risk_score"`
	ModelProb      *float64         `json:"model_risk_prob"`
	BlendedScore   float64          `json:"blended_risk"`
	Driver         Driver           `json:"driver"`
	Action         string           `json:"recommended_action"`
	Discount       float64          `json:"recommended_discount"`
	Promotion      *model.Promotion `json:"promotion"`
}

// Engine computes assessments. It holds no mutable state; every dependency
// of a scoring pass is an explicit argument, so passes are independently
// reproducible.
type Engine struct {
	logger logger.Logger
}

func NewEngine(log logger.Logger) *Engine {
	return &Engine{logger: log}
}

// Assess scores a single product against a sales-history snapshot. The
// product's active promotion, if any, must already be resolved onto
// p.Promotion; it is not re-queried mid-computation.
func (e *Engine) Assess(ctx context.Context, p *model.Product, now time.Time, records []model.SalesRecord, global GlobalStats, clf Classifier) Assessment {
	stats := ComputeProductStats(records, p.Name, global)
	days := p.DaysRemaining(now)

	var scores SubScores
	scores.Expiry = expiryScore(days)
	scores.Stock, scores.StockRatio = stockScore(p.Stock, stats.AvgDailySales)
	scores.Price = priceScore(p.UnitPrice, stats, global)

	heuristic := heuristicScore(scores)
	driver := dominantDriver(scores)

	modelProb := e.predict(ctx, p, clf, stats, global)
	blended := heuristic
	if modelProb != nil {
		blended = blendModelWeight*(*modelProb) + blendHeuristicWeight*heuristic
	}

	action, discount := recommendAction(driver, days, scores.StockRatio, scores.Price)
	action, discount = applyPromotionOverride(p.Promotion, action, discount)

	return Assessment{
		ProductID:      p.ID,
		Name:           p.Name,
		Stock:          p.Stock,
		UnitPrice:      p.UnitPrice,
		DaysRemaining:  days,
		ExpiryScore:    scores.Expiry,
		StockScore:     scores.Stock,
		PriceScore:     scores.Price,
		HeuristicScore: heuristic,
		ModelProb:      modelProb,
		BlendedScore:   blended,
		Driver:         driver,
		Action:         action,
		Discount:       discount,
		Promotion:      p.Promotion,
	}
}

// predict asks the classifier for a waste probability and clamps it to
// [0,1]. Any failure or invalid output means "model unavailable" for this
// product; the reason is logged here rather than discarded.
func (e *Engine) predict(ctx context.Context, p *model.Product, clf Classifier, stats ProductStats, global GlobalStats) *float64 {
	if clf == nil {
		return nil
	}
	prob, err := clf.PredictProbability(ctx, BuildFeatures(p.UnitPrice, stats, global))
	if err != nil {
		e.logger.Debug("classifier unavailable, falling back to heuristic",
			zap.String("product", p.Name), zap.Error(err))
		return nil
	}
	if math.IsNaN(prob) || math.IsInf(prob, 0) {
		e.logger.Debug("classifier returned invalid probability",
			zap.String("product", p.Name), zap.Float64("prob", prob))
		return nil
	}
	prob = math.Max(0, math.Min(1, prob))
	return &prob
}

// ComputeRecommendations assesses every product concurrently, then ranks the
// batch by heuristic risk descending and truncates to the top 20. The sort is
// stable and happens only after all assessments complete, so parallel
// completion order never changes the output. Ranking deliberately keys on the
// heuristic score rather than the blended one to keep ordering comparable
// across runs with and without a model.
func (e *Engine) ComputeRecommendations(ctx context.Context, products []model.Product, records []model.SalesRecord, clf Classifier, now time.Time) []Assessment {
	global := ComputeGlobalStats(records)

	assessments := make([]Assessment, len(products))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := range products {
		i := i
		g.Go(func() error {
			assessments[i] = e.Assess(gctx, &products[i], now, records, global, clf)
			return nil
		})
	}
	// Assess never returns an error; Wait only synchronizes the workers.
	_ = g.Wait()

	sort.SliceStable(assessments, func(i, j int) bool {
		return assessments[i].HeuristicScore > assessments[j].HeuristicScore
	})

	if len(assessments) > TopN {
		assessments = assessments[:TopN]
	}
	return assessments
}
