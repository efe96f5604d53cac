package sales

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/fekuna/ecomarche-risk-service/internal/model"
)

// Expected CSV header columns. Category is optional.
const (
	colDate     = "Date"
	colProduct  = "Product_Name"
	colQuantity = "Daily_Sales"
	colPrice    = "Unit_Price"
	colCategory = "Category"
)

// Optional demographic columns, checked in order. Most logs carry none.
var ageColumns = []string{"Age", "User_Age", "Customer_Age"}

// History is an immutable snapshot of the sales log, loaded once at startup.
// A nil *History is the valid "no sales data" state; scoring and analytics
// degrade gracefully.
type History struct {
	records  []model.SalesRecord
	loadedAt time.Time
	skipped  int
}

// Records returns the underlying log. Callers must not mutate it.
func (h *History) Records() []model.SalesRecord {
	if h == nil {
		return nil
	}
	return h.records
}

func (h *History) LoadedAt() time.Time { return h.loadedAt }

// Skipped reports how many malformed rows were dropped during loading.
func (h *History) Skipped() int { return h.skipped }

// Load reads the historical sales CSV. Rows with an unparsable date or
// quantity are skipped, not fatal; only a missing file or unusable header is
// an error.
func Load(path string) (*History, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open sales history")
	}
	defer f.Close()

	return Read(f)
}

// Read parses sales records from CSV content.
func Read(r io.Reader) (*History, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read sales header")
	}

	idx := map[string]int{}
	for i, name := range header {
		idx[name] = i
	}
	for _, required := range []string{colDate, colProduct, colQuantity, colPrice} {
		if _, ok := idx[required]; !ok {
			return nil, errors.Errorf("sales history missing column %q", required)
		}
	}

	ageIdx := -1
	for _, c := range ageColumns {
		if i, ok := idx[c]; ok {
			ageIdx = i
			break
		}
	}

	h := &History{loadedAt: time.Now()}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			h.skipped++
			continue
		}

		date, err := time.Parse("2006-01-02", row[idx[colDate]])
		if err != nil {
			h.skipped++
			continue
		}
		qty, err := strconv.ParseFloat(row[idx[colQuantity]], 64)
		if err != nil {
			h.skipped++
			continue
		}
		// A missing price is tolerated as zero; the scorer treats a zero
		// benchmark as "no price signal".
		price, _ := strconv.ParseFloat(row[idx[colPrice]], 64)

		rec := model.SalesRecord{
			Date:        date,
			ProductName: row[idx[colProduct]],
			Quantity:    qty,
			UnitPrice:   price,
		}
		if ci, ok := idx[colCategory]; ok && ci < len(row) {
			rec.Category = row[ci]
		}
		if ageIdx >= 0 && ageIdx < len(row) {
			if age, err := strconv.Atoi(row[ageIdx]); err == nil {
				rec.Age = age
			}
		}
		h.records = append(h.records, rec)
	}

	return h, nil
}
