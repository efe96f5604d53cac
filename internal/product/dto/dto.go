package dto

type ProductFilters struct {
	CategoryID  *int
	SearchQuery string // name ILIKE
	SortBy      string // name, price, expiry, created_at
	SortOrder   string // asc, desc
	Page        int
	PageSize    int
}
