package model

import "time"

// Product statuses derived from the current stock level.
const (
	StatusInStock    = "in_stock"
	StatusLowStock   = "low_stock"
	StatusOutOfStock = "out_of_stock"
)

// LowStockThreshold is the stock count under which a product is flagged low.
const LowStockThreshold = 5

// Categories is the fixed product taxonomy. Categories are reference data,
// not a managed entity.
var Categories = map[int]string{
	1:  "Produits laitiers",
	2:  "Boulangerie",
	3:  "Fruits",
	4:  "Légumes",
	5:  "Viandes",
	6:  "Poissons",
	7:  "Épicerie",
	8:  "Boissons",
	9:  "Surgelés",
	10: "Hygiène",
}

type Product struct {
	BaseModel
	Name       string     `db:"name" json:"name"`
	CategoryID *int       `db:"category_id" json:"category_id"` // Nullable
	Stock      int        `db:"stock" json:"stock"`
	UnitPrice  float64    `db:"unit_price" json:"unit_price"`
	Supplier   *string    `db:"supplier" json:"supplier"`
	ExpiryDate *time.Time `db:"expiry_date" json:"expiry_date"` // Nullable (non-perishable)
	Promotion  *Promotion `db:"-" json:"promotion"`             // Resolved active promotion, if any
}

// DaysRemaining returns the whole days between now and the expiry date, or
// nil when the expiry date is unknown. Negative means already expired.
func (p *Product) DaysRemaining(now time.Time) *int {
	if p.ExpiryDate == nil {
		return nil
	}
	days := daysBetween(now, *p.ExpiryDate)
	return &days
}

func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

func (p *Product) Status() string {
	switch {
	case p.Stock <= 0:
		return StatusOutOfStock
	case p.Stock < LowStockThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

func (p *Product) CategoryName() string {
	if p.CategoryID == nil {
		return "Autre"
	}
	if name, ok := Categories[*p.CategoryID]; ok {
		return name
	}
	return "Autre"
}

type Promotion struct {
	ID              string     `db:"id" json:"id"`
	ProductID       string     `db:"product_id" json:"product_id"`
	DiscountPercent float64    `db:"discount_percent" json:"discount_percent"`
	StartDate       *time.Time `db:"start_date" json:"start_date"`
	EndDate         *time.Time `db:"end_date" json:"end_date"`
	Active          bool       `db:"active" json:"active"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}
