package risk

import (
	"math"
	"sort"

	"github.com/fekuna/ecomarche-risk-service/internal/model"
)

// eps guards every division so missing data degrades to a defined value
// instead of branching on zero divisors.
const eps = 1e-6

// GlobalStats are benchmarks computed once per scoring pass over the whole
// sales history.
type GlobalStats struct {
	AvgDailySales   float64
	MedianUnitPrice float64
}

// ProductStats are per-product signals derived from the sales history. They
// are recomputed for every scoring pass and never persisted.
type ProductStats struct {
	AvgDailySales    float64
	StdDevDailySales float64
	DaysPresent      int
}

const dayKeyLayout = "2006-01-02"

// ComputeGlobalStats derives the overall average daily sales volume (sum of
// quantities per calendar day, averaged over the days present) and the
// median of all recorded unit prices. Both are 0 when the history is empty.
func ComputeGlobalStats(records []model.SalesRecord) GlobalStats {
	if len(records) == 0 {
		return GlobalStats{}
	}

	perDay := make(map[string]float64)
	prices := make([]float64, 0, len(records))
	for _, r := range records {
		perDay[r.Date.Format(dayKeyLayout)] += r.Quantity
		prices = append(prices, r.UnitPrice)
	}

	var total float64
	for _, q := range perDay {
		total += q
	}

	return GlobalStats{
		AvgDailySales:   total / float64(len(perDay)),
		MedianUnitPrice: median(prices),
	}
}

// ComputeProductStats derives the product's average and standard deviation of
// daily sales totals plus the count of distinct days it appears on. A product
// with no history falls back to a tenth of the overall average: absence of
// data is a valid input, not an error.
func ComputeProductStats(records []model.SalesRecord, productName string, global GlobalStats) ProductStats {
	perDay := make(map[string]float64)
	for _, r := range records {
		if r.ProductName != productName {
			continue
		}
		perDay[r.Date.Format(dayKeyLayout)] += r.Quantity
	}

	if len(perDay) == 0 {
		return ProductStats{
			AvgDailySales: math.Max(0, global.AvgDailySales*0.1),
		}
	}

	totals := make([]float64, 0, len(perDay))
	var sum float64
	for _, q := range perDay {
		totals = append(totals, q)
		sum += q
	}
	avg := sum / float64(len(totals))

	return ProductStats{
		AvgDailySales:    avg,
		StdDevDailySales: sampleStdDev(totals, avg),
		DaysPresent:      len(perDay),
	}
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// sampleStdDev uses the n-1 denominator and returns 0 for fewer than two
// data points.
func sampleStdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}
