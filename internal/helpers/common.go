package helpers

import "strconv"

// ParseOptionalInt parses a string into an int pointer
// Returns nil if the string is empty
func ParseOptionalInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ParseOptionalFloat parses a string into a float64 pointer
// Returns nil if the string is empty
func ParseOptionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Pagination represents pagination parameters
type Pagination struct {
	Page     int
	PageSize int
}

// NewPagination creates a new Pagination with validation
// Ensures page >= 1, pageSize between 1-100, defaults to page=1, pageSize=20
func NewPagination(page, pageSize int) *Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return &Pagination{
		Page:     page,
		PageSize: pageSize,
	}
}

// Offset calculates the database offset for the current page
func (p *Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}
