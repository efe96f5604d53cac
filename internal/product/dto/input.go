package dto

type CreateProductInput struct {
	Name       string  `json:"name" binding:"required"`
	CategoryID *int    `json:"category_id"`
	Stock      int     `json:"stock" binding:"gte=0"`
	UnitPrice  float64 `json:"unit_price" binding:"gte=0"`
	Supplier   string  `json:"supplier"`
	ExpiryDate string  `json:"expiry_date"` // ISO date, optional
}

// UpdateProductInput carries PATCH semantics: only non-nil fields are applied.
type UpdateProductInput struct {
	Name       *string  `json:"name"`
	CategoryID *int     `json:"category_id"`
	Stock      *int     `json:"stock"`
	UnitPrice  *float64 `json:"unit_price"`
	Supplier   *string  `json:"supplier"`
	ExpiryDate *string  `json:"expiry_date"`
}

type ApplyDiscountInput struct {
	DiscountPercent float64 `json:"discount_percent"`
}
