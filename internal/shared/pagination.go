package shared

import "math"

// Pagination contains metadata for paginated listings. Page is 1-indexed.
type Pagination struct {
	Page        int  `json:"page"`
	PageSize    int  `json:"pageSize"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	HasNext     bool `json:"hasNextPage"`
	HasPrevious bool `json:"hasPreviousPage"`
}

// NewPagination computes pagination metadata from raw inputs. Non-positive
// values default to page 1 / size 20; no upper bound is applied here, the
// caller owns clamping.
func NewPagination(page, pageSize, total int) Pagination {
	if pageSize <= 0 {
		pageSize = 20
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))
	return Pagination{
		Page:        page,
		PageSize:    pageSize,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1 && total > 0,
	}
}

// Offset returns the row offset for the page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}
