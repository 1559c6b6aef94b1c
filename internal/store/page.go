package store

// Pagination limits shared by every listing endpoint.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 35
)

// Page describes one page of a listing: 1-based page number and page size.
// Construct via NewPage so the bounds invariants always hold.
type Page struct {
	Page  int
	Limit int
}

// NewPage validates pagination parameters. Zero values take the defaults
// (page 1, limit 10). A limit above MaxLimit clamps to MaxLimit; that is
// the only silent correction. Negative or explicit zero-after-parse values
// reject with ErrInvalidInput rather than being fixed up.
func NewPage(page, limit int) (Page, error) {
	if page == 0 {
		page = DefaultPage
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if page < 1 {
		return Page{}, ErrInvalidInput.WithMessage("page must be a positive integer")
	}
	if limit < 1 {
		return Page{}, ErrInvalidInput.WithMessage("limit must be a positive integer")
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Page: page, Limit: limit}, nil
}

// Skip returns the number of rows to skip (SQL OFFSET).
func (p Page) Skip() int {
	return (p.Page - 1) * p.Limit
}

// Take returns the number of rows to fetch (SQL LIMIT).
func (p Page) Take() int {
	return p.Limit
}

// TotalPages returns ceil(total/limit) for the given total count.
func (p Page) TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}
