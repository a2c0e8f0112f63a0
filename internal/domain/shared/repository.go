package shared

// Filter holds common list query parameters shared by all repositories.
// Page is 1-based; PageSize is clamped by the caller before it reaches here.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Filters  map[string]interface{}
}

// NewFilter creates a filter with sane defaults
func NewFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
}

// Offset returns the row offset for the current page
func (f Filter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the page size
func (f Filter) Limit() int {
	return f.PageSize
}
