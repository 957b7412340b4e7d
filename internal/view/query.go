package view

import "github.com/numdeck/numdeck/internal/sheet"

// Query is the view state the pipeline derives from: search text, sort
// choice, and the page window. The zero value shows everything unsorted
// on one page.
type Query struct {
	Search   string
	SortBy   sheet.Field // "" preserves filter order
	Desc     bool
	PageSize int // rows per page; 0 shows every row on one page
	Page     int // 1-based page index
}

// WithSearch returns the query with new search text. The page index
// resets to 1 so a narrowed result is viewed from the top.
func (q Query) WithSearch(search string) Query {
	if q.Search == search {
		return q
	}
	q.Search = search
	q.Page = 1
	return q
}

// WithPageSize returns the query with a new page size. The page index
// resets to 1; keeping it would land on an arbitrary window.
func (q Query) WithPageSize(size int) Query {
	if q.PageSize == size {
		return q
	}
	q.PageSize = size
	q.Page = 1
	return q
}

// Clamp pulls the page index back into the window's valid range. The
// pipeline never mutates a Query, so after a derive that shrank the row
// set the caller realigns its own state with this.
func (q Query) Clamp(w Window) Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Page > w.TotalPages {
		q.Page = w.TotalPages
	}
	return q
}

// Window is one derived page over the filtered, sorted rows.
type Window struct {
	Rows       []sheet.Number
	Total      int // rows surviving the filter
	Page       int // effective 1-based page index
	TotalPages int
}
