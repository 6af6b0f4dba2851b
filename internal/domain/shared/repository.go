package shared

import "time"

// SearchLimit caps the number of rows returned by text search
const SearchLimit = 10

const defaultPageSize = 20

// Filter carries paging, ordering and column filters for a list query.
// OrderBy names a column; repositories ignore columns they do not whitelist.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]any
}

// DefaultFilter is the first page of twenty, newest first
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: defaultPageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]any),
	}
}

// Paged reports whether the filter asks for a bounded page
func (f Filter) Paged() bool {
	return f.Page > 0 && f.PageSize > 0
}

// Offset is the number of rows before the requested page
func (f Filter) Offset() int {
	if !f.Paged() {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// PageCount is the number of pages of pageSize needed for total rows
func PageCount(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	size := int64(pageSize)
	return int((total + size - 1) / size)
}

// DateRange bounds a query by document date; nil ends are open
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// EndOfDay widens a date-only upper bound to the last instant of that day
func EndOfDay(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	y, m, d := t.Date()
	end := time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
	return &end
}
