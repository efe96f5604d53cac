package sales

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/ecomarche-risk-service/internal/model"
)

func historyOf(records ...model.SalesRecord) *History {
	return &History{records: records, loadedAt: time.Now()}
}

func saleOn(date string, product, category string, qty, price float64) model.SalesRecord {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return model.SalesRecord{
		Date:        d,
		ProductName: product,
		Category:    category,
		Quantity:    qty,
		UnitPrice:   price,
	}
}

func TestDailySummary(t *testing.T) {
	h := historyOf(
		saleOn("2025-01-06", "Lait", "Produits laitiers", 10, 1.2),
		saleOn("2025-01-06", "Pain", "Boulangerie", 5, 2.5),
		saleOn("2025-01-07", "Lait", "Produits laitiers", 8, 1.2),
	)

	totals := h.DailySummary(0)
	require.Len(t, totals, 2)
	assert.Equal(t, DailyTotal{Date: "2025-01-06", Total: 15}, totals[0])
	assert.Equal(t, DailyTotal{Date: "2025-01-07", Total: 8}, totals[1])
}

func TestDailySummaryKeepsMostRecentDays(t *testing.T) {
	h := historyOf(
		saleOn("2025-01-06", "Lait", "", 1, 1),
		saleOn("2025-01-07", "Lait", "", 2, 1),
		saleOn("2025-01-08", "Lait", "", 3, 1),
	)

	totals := h.DailySummary(2)
	require.Len(t, totals, 2)
	assert.Equal(t, "2025-01-07", totals[0].Date)
	assert.Equal(t, "2025-01-08", totals[1].Date)
}

func TestTopProducts(t *testing.T) {
	h := historyOf(
		saleOn("2025-01-06", "Lait", "", 10, 1),
		saleOn("2025-01-07", "Lait", "", 10, 1),
		saleOn("2025-01-06", "Pain", "", 30, 1),
		saleOn("2025-01-06", "Oeufs", "", 5, 1),
	)

	top := h.TopProducts(2)
	require.Len(t, top, 2)
	assert.Equal(t, NamedTotal{Name: "Pain", Total: 30}, top[0])
	assert.Equal(t, NamedTotal{Name: "Lait", Total: 20}, top[1])
}

func TestTopProductsTieBreaksByName(t *testing.T) {
	h := historyOf(
		saleOn("2025-01-06", "Brie", "", 10, 1),
		saleOn("2025-01-06", "Ail", "", 10, 1),
	)

	top := h.TopProducts(0)
	require.Len(t, top, 2)
	assert.Equal(t, "Ail", top[0].Name)
	assert.Equal(t, "Brie", top[1].Name)
}

func TestTopCategoriesIgnoresBlank(t *testing.T) {
	h := historyOf(
		saleOn("2025-01-06", "Lait", "Produits laitiers", 10, 1),
		saleOn("2025-01-06", "Inconnu", "", 50, 1),
		saleOn("2025-01-06", "Pain", "Boulangerie", 20, 1),
	)

	top := h.TopCategories(5)
	require.Len(t, top, 2)
	assert.Equal(t, "Boulangerie", top[0].Name)
	assert.Equal(t, "Produits laitiers", top[1].Name)
}

func TestKPI(t *testing.T) {
	h := historyOf(
		saleOn("2025-01-06", "Lait", "Produits laitiers", 10, 2.0),
		saleOn("2025-01-07", "Lait", "Produits laitiers", 20, 2.0),
		saleOn("2025-02-03", "Pain", "Boulangerie", 30, 1.0),
	)

	kpi := h.KPI()
	assert.InDelta(t, 10*2.0+20*2.0+30*1.0, kpi.TotalRevenue, 1e-9)
	assert.InDelta(t, 20.0, kpi.AvgDailySales, 1e-9, "60 units over 3 distinct days")

	require.Len(t, kpi.MonthlySeries, 2)
	assert.Equal(t, DailyTotal{Date: "2025-01", Total: 30}, kpi.MonthlySeries[0])
	assert.Equal(t, DailyTotal{Date: "2025-02", Total: 30}, kpi.MonthlySeries[1])

	require.NotEmpty(t, kpi.TopCategories)
	assert.Equal(t, "Boulangerie", kpi.TopCategories[0].Name)
}

func TestSeasonality(t *testing.T) {
	h := historyOf(
		saleOn("2025-01-06", "Lait", "Produits laitiers", 10, 1),
		saleOn("2025-01-20", "Pain", "Boulangerie", 5, 1),
		saleOn("2025-06-10", "Glace", "Surgelés", 40, 1),
	)

	months, byCat := h.Seasonality()

	require.Len(t, months, 2)
	assert.Equal(t, MonthTotal{Month: 1, Total: 15}, months[0])
	assert.Equal(t, MonthTotal{Month: 6, Total: 40}, months[1])

	require.Len(t, byCat, 3)
	assert.Equal(t, CategoryMonthTotal{Month: 1, Category: "Boulangerie", Total: 5}, byCat[0])
	assert.Equal(t, CategoryMonthTotal{Month: 1, Category: "Produits laitiers", Total: 10}, byCat[1])
	assert.Equal(t, CategoryMonthTotal{Month: 6, Category: "Surgelés", Total: 40}, byCat[2])
}

func TestPopularBySeason(t *testing.T) {
	h := historyOf(
		saleOn("2025-01-06", "Raclette", "", 50, 1), // January -> DJF
		saleOn("2025-12-20", "Raclette", "", 30, 1), // December -> DJF
		saleOn("2025-07-14", "Glace", "", 80, 1),    // July -> JJA
		saleOn("2025-04-01", "Fraises", "", 20, 1),  // April -> MAM
	)

	seasons := h.PopularBySeason(3)
	require.Len(t, seasons, 4, "all four seasons present even when empty")

	require.Len(t, seasons["DJF"], 1)
	assert.Equal(t, NamedTotal{Name: "Raclette", Total: 80}, seasons["DJF"][0])
	assert.Equal(t, NamedTotal{Name: "Glace", Total: 80}, seasons["JJA"][0])
	assert.Equal(t, NamedTotal{Name: "Fraises", Total: 20}, seasons["MAM"][0])
	assert.Empty(t, seasons["SON"])
}

func TestByAgeGroupsWithoutDemographics(t *testing.T) {
	h := historyOf(
		saleOn("2025-01-06", "Lait", "", 60, 1),
		saleOn("2025-01-07", "Pain", "", 40, 1),
	)

	overall, products := h.ByAgeGroups(1)
	require.Len(t, overall, 4)
	assert.Equal(t, "18-25", overall[0].Bucket)
	assert.InDelta(t, 20, overall[0].Total, 1e-9)
	assert.InDelta(t, 45, overall[1].Total, 1e-9)
	assert.InDelta(t, 25, overall[2].Total, 1e-9)
	assert.InDelta(t, 10, overall[3].Total, 1e-9)

	require.Len(t, products, 1)
	assert.Equal(t, "Lait", products[0].Product)
	assert.Equal(t, 60.0, products[0].Total)
	require.Len(t, products[0].ByAge, 4)
	assert.InDelta(t, 27, products[0].ByAge[1].Total, 1e-9)
}

func TestByAgeGroupsWithDemographics(t *testing.T) {
	young := saleOn("2025-01-06", "Lait", "", 10, 1)
	young.Age = 22
	mid := saleOn("2025-01-06", "Lait", "", 30, 1)
	mid.Age = 40
	senior := saleOn("2025-01-07", "Pain", "", 5, 1)
	senior.Age = 70

	h := historyOf(young, mid, senior)

	overall, products := h.ByAgeGroups(2)
	assert.Equal(t, AgeBucketTotal{Bucket: "18-25", Total: 10}, overall[0])
	assert.Equal(t, AgeBucketTotal{Bucket: "26-45", Total: 30}, overall[1])
	assert.Equal(t, AgeBucketTotal{Bucket: "46-65", Total: 0}, overall[2])
	assert.Equal(t, AgeBucketTotal{Bucket: "65+", Total: 5}, overall[3])

	require.Len(t, products, 2)
	assert.Equal(t, "Lait", products[0].Product)
	assert.Equal(t, 10.0, products[0].ByAge[0].Total)
	assert.Equal(t, 30.0, products[0].ByAge[1].Total)
	assert.Equal(t, 0.0, products[0].ByAge[3].Total)
}
