package utils

import "strconv"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Pagination struct {
	Page  int
	Limit int
}

// NewPagination parses raw query values, falling back to page 1 and the
// default page size. Limit is capped at MaxPageSize.
func NewPagination(page, limit string) Pagination {
	p, err := strconv.Atoi(page)
	if err != nil || p < 1 {
		p = 1
	}
	l, err := strconv.Atoi(limit)
	if err != nil || l < 1 {
		l = DefaultPageSize
	}
	if l > MaxPageSize {
		l = MaxPageSize
	}
	return Pagination{Page: p, Limit: l}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}
