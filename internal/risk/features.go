package risk

// FeatureCount is the width of the classifier feature vector:
// [avg_daily_sales, price_relative_to_median, sales_cv, days_present].
const FeatureCount = 4

// BuildFeatures assembles the feature vector the deployed classifier was
// trained on. When no price benchmark exists the relative price falls back
// to the raw unit price (benchmark 1), matching the training pipeline.
func BuildFeatures(unitPrice float64, stats ProductStats, global GlobalStats) [FeatureCount]float64 {
	medianPrice := global.MedianUnitPrice
	if medianPrice <= 0 {
		medianPrice = 1
	}

	salesCV := 0.0
	if stats.AvgDailySales > 0 {
		salesCV = stats.StdDevDailySales / (stats.AvgDailySales + eps)
	}

	return [FeatureCount]float64{
		stats.AvgDailySales,
		unitPrice / (medianPrice + eps),
		salesCV,
		float64(stats.DaysPresent),
	}
}
