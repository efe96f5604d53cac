package sales

import (
	"sort"
	"time"
)

type DailyTotal struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

type NamedTotal struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

type MonthTotal struct {
	Month int     `json:"month"`
	Total float64 `json:"total"`
}

type CategoryMonthTotal struct {
	Month    int     `json:"month"`
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

type KPIOverview struct {
	TotalRevenue  float64      `json:"total_revenue"`
	AvgDailySales float64      `json:"avg_daily_sales"`
	TopCategories []NamedTotal `json:"top_categories"`
	MonthlySeries []DailyTotal `json:"monthly_series"`
}

// DailySummary sums quantities per calendar day and returns the most recent
// lastN days present in the log.
func (h *History) DailySummary(lastN int) []DailyTotal {
	totals := h.sumBy(func(r recordKeyer) string { return r.date })
	if lastN > 0 && len(totals) > lastN {
		totals = totals[len(totals)-lastN:]
	}
	return totals
}

// TopProducts ranks products by total quantity sold, descending.
func (h *History) TopProducts(n int) []NamedTotal {
	return h.rankBy(n, func(r recordKeyer) string { return r.product })
}

// TopCategories ranks categories by total quantity sold, descending. Records
// without a category are ignored.
func (h *History) TopCategories(n int) []NamedTotal {
	ranked := h.rankBy(0, func(r recordKeyer) string { return r.category })
	out := ranked[:0]
	for _, t := range ranked {
		if t.Name == "" {
			continue
		}
		out = append(out, t)
	}
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// KPI aggregates the headline figures for the dashboard: approximate total
// revenue, overall average daily sales, the top five categories and the last
// twelve monthly totals.
func (h *History) KPI() KPIOverview {
	var revenue float64
	perDay := map[string]float64{}
	perMonth := map[string]float64{}
	for _, r := range h.Records() {
		revenue += r.UnitPrice * r.Quantity
		perDay[r.Date.Format("2006-01-02")] += r.Quantity
		perMonth[r.Date.Format("2006-01")] += r.Quantity
	}

	avgDaily := 0.0
	if len(perDay) > 0 {
		var total float64
		for _, q := range perDay {
			total += q
		}
		avgDaily = total / float64(len(perDay))
	}

	monthly := make([]DailyTotal, 0, len(perMonth))
	for m, q := range perMonth {
		monthly = append(monthly, DailyTotal{Date: m, Total: q})
	}
	sort.Slice(monthly, func(i, j int) bool { return monthly[i].Date < monthly[j].Date })
	if len(monthly) > 12 {
		monthly = monthly[len(monthly)-12:]
	}

	return KPIOverview{
		TotalRevenue:  revenue,
		AvgDailySales: avgDaily,
		TopCategories: h.TopCategories(5),
		MonthlySeries: monthly,
	}
}

// Seasonality returns quantity totals per calendar month, and the same
// breakdown restricted to the top five categories.
func (h *History) Seasonality() ([]MonthTotal, []CategoryMonthTotal) {
	type catMonth struct {
		month    int
		category string
	}
	perMonth := map[int]float64{}
	perCatMonth := map[catMonth]float64{}

	top := map[string]bool{}
	for _, c := range h.TopCategories(5) {
		top[c.Name] = true
	}

	for _, r := range h.Records() {
		m := int(r.Date.Month())
		perMonth[m] += r.Quantity
		if top[r.Category] {
			perCatMonth[catMonth{month: m, category: r.Category}] += r.Quantity
		}
	}

	months := make([]MonthTotal, 0, len(perMonth))
	for m, q := range perMonth {
		months = append(months, MonthTotal{Month: m, Total: q})
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })

	byCat := make([]CategoryMonthTotal, 0, len(perCatMonth))
	for k, q := range perCatMonth {
		byCat = append(byCat, CategoryMonthTotal{Month: k.month, Category: k.category, Total: q})
	}
	sort.Slice(byCat, func(i, j int) bool {
		if byCat[i].Month != byCat[j].Month {
			return byCat[i].Month < byCat[j].Month
		}
		return byCat[i].Category < byCat[j].Category
	})

	return months, byCat
}

// Meteorological seasons used for the per-season popularity breakdown.
var seasons = []string{"DJF", "MAM", "JJA", "SON"}

func seasonOf(m time.Month) string {
	switch m {
	case time.December, time.January, time.February:
		return "DJF"
	case time.March, time.April, time.May:
		return "MAM"
	case time.June, time.July, time.August:
		return "JJA"
	default:
		return "SON"
	}
}

// PopularBySeason returns the top n products by quantity for each season.
func (h *History) PopularBySeason(n int) map[string][]NamedTotal {
	perSeason := map[string]map[string]float64{}
	for _, s := range seasons {
		perSeason[s] = map[string]float64{}
	}
	for _, r := range h.Records() {
		perSeason[seasonOf(r.Date.Month())][r.ProductName] += r.Quantity
	}

	out := map[string][]NamedTotal{}
	for s, totals := range perSeason {
		ranked := rankMap(totals)
		if n > 0 && len(ranked) > n {
			ranked = ranked[:n]
		}
		out[s] = ranked
	}
	return out
}

// Age buckets used by the demographic breakdown, and the share of total
// sales attributed to each one when the log carries no ages.
var (
	ageBuckets      = []string{"18-25", "26-45", "46-65", "65+"}
	ageBucketShares = []float64{0.20, 0.45, 0.25, 0.10}
)

type AgeBucketTotal struct {
	Bucket string  `json:"age_bucket"`
	Total  float64 `json:"total"`
}

type ProductAgeSplit struct {
	Product string           `json:"product"`
	Total   float64          `json:"total_sales"`
	ByAge   []AgeBucketTotal `json:"by_age"`
}

// ageBucketOf maps an age to its bucket, or "" when the age is unknown.
func ageBucketOf(age int) string {
	switch {
	case age <= 0:
		return ""
	case age <= 25:
		return ageBuckets[0]
	case age <= 45:
		return ageBuckets[1]
	case age <= 65:
		return ageBuckets[2]
	default:
		return ageBuckets[3]
	}
}

// ByAgeGroups breaks quantities down by customer age bucket, overall and for
// the top n products. When the log has no demographics every total is split
// by a fixed share per bucket, so the breakdown is stable across restarts.
func (h *History) ByAgeGroups(n int) ([]AgeBucketTotal, []ProductAgeSplit) {
	var total float64
	overall := map[string]float64{}
	perProduct := map[string]map[string]float64{}
	hasAges := false

	for _, r := range h.Records() {
		total += r.Quantity
		b := ageBucketOf(r.Age)
		if b == "" {
			continue
		}
		hasAges = true
		overall[b] += r.Quantity
		pp := perProduct[r.ProductName]
		if pp == nil {
			pp = map[string]float64{}
			perProduct[r.ProductName] = pp
		}
		pp[b] += r.Quantity
	}

	split := func(buckets map[string]float64, sum float64) []AgeBucketTotal {
		out := make([]AgeBucketTotal, len(ageBuckets))
		for i, b := range ageBuckets {
			t := sum * ageBucketShares[i]
			if hasAges {
				t = buckets[b]
			}
			out[i] = AgeBucketTotal{Bucket: b, Total: t}
		}
		return out
	}

	ranked := h.TopProducts(n)
	products := make([]ProductAgeSplit, 0, len(ranked))
	for _, p := range ranked {
		products = append(products, ProductAgeSplit{
			Product: p.Name,
			Total:   p.Total,
			ByAge:   split(perProduct[p.Name], p.Total),
		})
	}

	return split(overall, total), products
}

type recordKeyer struct {
	date     string
	product  string
	category string
}

func (h *History) sumBy(key func(recordKeyer) string) []DailyTotal {
	totals := map[string]float64{}
	for _, r := range h.Records() {
		k := key(recordKeyer{
			date:     r.Date.Format("2006-01-02"),
			product:  r.ProductName,
			category: r.Category,
		})
		totals[k] += r.Quantity
	}
	out := make([]DailyTotal, 0, len(totals))
	for k, q := range totals {
		out = append(out, DailyTotal{Date: k, Total: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func (h *History) rankBy(n int, key func(recordKeyer) string) []NamedTotal {
	totals := map[string]float64{}
	for _, r := range h.Records() {
		k := key(recordKeyer{
			date:     r.Date.Format("2006-01-02"),
			product:  r.ProductName,
			category: r.Category,
		})
		totals[k] += r.Quantity
	}
	ranked := rankMap(totals)
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func rankMap(totals map[string]float64) []NamedTotal {
	out := make([]NamedTotal, 0, len(totals))
	for name, q := range totals {
		out = append(out, NamedTotal{Name: name, Total: q})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	return out
}
