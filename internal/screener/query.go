package screener

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/pders01/screener/internal/filter"
)

// PageSizeOptions are the page sizes offered by the pagination controls.
var PageSizeOptions = []int{5, 10, 25, 50}

// QueryCoordinator owns the search text and the effective query options.
// Sort is only changed by OnSort or a reset.
type QueryCoordinator struct {
	searchQuery string
	filters     filter.Options
	hasSearched bool
}

// NewQueryCoordinator starts from initial. A preset query in initial.Query
// becomes the search text.
func NewQueryCoordinator(initial filter.Options) *QueryCoordinator {
	q := &QueryCoordinator{filters: initial.Clone()}
	if initial.Query != nil {
		q.searchQuery = strings.TrimSpace(*initial.Query)
		q.filters.Query = nil
	}
	return q
}

// Search runs a new text search from the first page.
func (q *QueryCoordinator) Search(query string) {
	q.searchQuery = query
	q.hasSearched = true
	q.filters.Page = filter.Int(filter.DefaultPage)
}

// OnFilterChange adopts a committed filter snapshot. A reset replaces the
// options wholesale. Otherwise sort and page size are kept from the
// current options and everything else comes from the snapshot.
func (q *QueryCoordinator) OnFilterChange(next filter.Options, reset bool) {
	if reset {
		q.filters = next.Clone()
		q.filters.Query = nil
		return
	}
	prev := q.filters
	q.filters = next.Clone()
	q.filters.Query = nil
	q.filters.SortBy = prev.SortBy
	q.filters.SortOrder = prev.SortOrder
	if prev.PageSize != nil {
		q.filters.PageSize = prev.PageSize
	}
}

// Deliver applies drained outbox changes in order.
func (q *QueryCoordinator) Deliver(changes []FilterChange) {
	for _, c := range changes {
		q.OnFilterChange(c.Options, c.Reset)
	}
}

// OnSort handles a click on a column header. Unmapped columns are ignored.
// Clicking the current ascending column flips it to descending; anything
// else sorts ascending.
func (q *QueryCoordinator) OnSort(column string) bool {
	field, ok := ColumnToField[column]
	if !ok {
		return false
	}
	order := filter.SortAsc
	if q.filters.SortBy != nil && *q.filters.SortBy == field &&
		q.filters.SortOrder != nil && *q.filters.SortOrder == filter.SortAsc {
		order = filter.SortDesc
	}
	q.filters.SortBy = filter.String(field)
	q.filters.SortOrder = filter.Order(order)
	q.filters.Page = filter.Int(filter.DefaultPage)
	return true
}

func (q *QueryCoordinator) OnPageChange(page int) {
	if page < 1 {
		return
	}
	q.filters.Page = filter.Int(page)
}

func (q *QueryCoordinator) OnPageSizeChange(size int) {
	if size < 1 {
		return
	}
	q.filters.PageSize = filter.Int(size)
	q.filters.Page = filter.Int(filter.DefaultPage)
}

// GoToPage validates typed page input against the known page count.
func (q *QueryCoordinator) GoToPage(input string, totalPages int) bool {
	page, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || page < 1 || page > totalPages {
		return false
	}
	q.OnPageChange(page)
	return true
}

func (q *QueryCoordinator) SearchQuery() string { return q.searchQuery }

func (q *QueryCoordinator) HasSearched() bool { return q.hasSearched }

func (q *QueryCoordinator) Filters() filter.Options { return q.filters.Clone() }

func (q *QueryCoordinator) Page() int {
	if q.filters.Page == nil {
		return filter.DefaultPage
	}
	return *q.filters.Page
}

func (q *QueryCoordinator) PageSize() int {
	if q.filters.PageSize == nil {
		return filter.DefaultPageSize
	}
	return *q.filters.PageSize
}

// Values is the wire encoding of the current query.
func (q *QueryCoordinator) Values() url.Values {
	return filter.Encode(q.searchQuery, q.filters)
}

// Key identifies the current query for caching and staleness checks.
func (q *QueryCoordinator) Key() string {
	return filter.Key(q.searchQuery, q.filters)
}
