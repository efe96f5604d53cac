package risk

import "math"

// Policy constants. The weights and windows are deliberate business rules,
// not tuned parameters; changing them changes what the score means.
const (
	expiryWindowDays = 30.0
	demandWindowDays = 7.0

	weightExpiry = 0.5
	weightStock  = 0.3
	weightPrice  = 0.2
)

// Driver names the risk factor judged most responsible for a score.
type Driver string

const (
	DriverExpiry Driver = "expiry"
	DriverStock  Driver = "stock"
	DriverPrice  Driver = "price"
)

// SubScores holds the three normalized risk signals for one product.
// StockRatio is the pre-cap stock/weekly-demand ratio; the action mapper
// thresholds on it directly.
type SubScores struct {
	Expiry     float64
	Stock      float64
	Price      float64
	StockRatio float64
}

// expiryScore ramps linearly from 0 at 30 days out to 1 at the expiry date.
// Already-expired products score 1, unknown expiry scores 0.
func expiryScore(daysRemaining *int) float64 {
	if daysRemaining == nil {
		return 0
	}
	d := float64(*daysRemaining)
	switch {
	case d < 0:
		return 1
	case d < expiryWindowDays:
		return math.Max(0, (expiryWindowDays-d)/expiryWindowDays)
	default:
		return 0
	}
}

// stockScore expresses stock as a fraction of one week's expected demand,
// capped at 1. The uncapped ratio is returned alongside for action mapping.
func stockScore(stock int, avgDailySales float64) (float64, float64) {
	ratio := float64(stock) / (avgDailySales*demandWindowDays + eps)
	return math.Min(1, ratio), ratio
}

// priceScore penalizes an above-median price only when velocity is low:
// high relative sales suppress the score toward 0 regardless of price.
func priceScore(unitPrice float64, stats ProductStats, global GlobalStats) float64 {
	if global.MedianUnitPrice <= 0 {
		return 0
	}
	priceDiff := math.Max(0, (unitPrice-global.MedianUnitPrice)/(global.MedianUnitPrice+eps))
	salesRatio := 0.0
	if global.AvgDailySales > 0 {
		salesRatio = stats.AvgDailySales / (global.AvgDailySales + eps)
	}
	return math.Min(1, priceDiff*(1-salesRatio))
}

func heuristicScore(s SubScores) float64 {
	return weightExpiry*s.Expiry + weightStock*s.Stock + weightPrice*s.Price
}

// dominantDriver picks the strictly greatest sub-score; ties resolve by the
// declared precedence expiry > stock > price.
func dominantDriver(s SubScores) Driver {
	driver := DriverExpiry
	best := s.Expiry
	if s.Stock > best {
		driver, best = DriverStock, s.Stock
	}
	if s.Price > best {
		driver = DriverPrice
	}
	return driver
}
