// Package stats tallies pool snapshots into the category breakdown shown
// in the breakdown overlay and the header counters.
package stats

import (
	"sort"

	"github.com/numdeck/numdeck/internal/sheet"
)

// CategoryCount aggregates one category's reservation split.
type CategoryCount struct {
	Category string
	Open     int
	Reserved int
	Total    int
}

// Breakdown summarizes the whole pool. Rows with an unrecognized status
// count toward totals but neither split, so dirty sheet data stays
// visible as a gap between Total and Open+Reserved.
type Breakdown struct {
	Categories    []CategoryCount
	TotalOpen     int
	TotalReserved int
	Total         int
}

// Compute tallies rows by category, alphabetically. It is pure; callers
// re-run it per snapshot rather than maintaining counters.
func Compute(rows []sheet.Number) Breakdown {
	buckets := make(map[string]*CategoryCount)
	var b Breakdown
	for _, row := range rows {
		c := buckets[row.Category]
		if c == nil {
			c = &CategoryCount{Category: row.Category}
			buckets[row.Category] = c
		}
		c.Total++
		b.Total++
		switch {
		case row.Status.Open():
			c.Open++
			b.TotalOpen++
		case row.Status.Reserved():
			c.Reserved++
			b.TotalReserved++
		}
	}

	b.Categories = make([]CategoryCount, 0, len(buckets))
	for _, c := range buckets {
		b.Categories = append(b.Categories, *c)
	}
	sort.Slice(b.Categories, func(i, j int) bool {
		return b.Categories[i].Category < b.Categories[j].Category
	})
	return b
}
