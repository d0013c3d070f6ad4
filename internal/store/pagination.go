package store

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Page contains page-numbered pagination parameters.
// Pages are 1-based; Size defaults to 10 with a maximum of 100.
type Page struct {
	Number int
	Size   int
}

// DefaultPage returns the first page with the default size.
func DefaultPage() Page {
	return Page{Number: 1, Size: defaultPageSize}
}

// Validate corrects out-of-range pagination parameters in place.
func (p *Page) Validate() {
	if p.Number <= 0 {
		p.Number = 1
	}
	if p.Size <= 0 {
		p.Size = defaultPageSize
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
}

// Offset returns the SQL offset for this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// PagedResult contains one page of data plus the total row count.
type PagedResult[T any] struct {
	Items []T
	Total int
}
