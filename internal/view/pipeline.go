package view

import (
	"sort"
	"strings"

	"github.com/numdeck/numdeck/internal/sheet"
)

// Pipeline derives display windows from raw sheet rows. It is pure: the
// same rows and query always produce the same window, and neither input
// is mutated. CountryCode only affects the suffix-search shorthand, which
// matches against localized numbers.
type Pipeline struct {
	CountryCode string
}

// Derive runs the full pipeline: filter, sort, paginate.
func (p Pipeline) Derive(rows []sheet.Number, q Query) Window {
	filtered := p.Filter(rows, q.Search)
	sortRows(filtered, q.SortBy, q.Desc)
	return Paginate(filtered, q.PageSize, q.Page)
}

// Filter returns the rows matching the search text, preserving input
// order. The query is trimmed, lowercased, and split on whitespace; a row
// must match every term.
//
// One query-level shorthand comes first: when the last token is the
// literal "end" and the remaining tokens concatenate to digits, the query
// matches rows whose localized number ends with those digits. Otherwise
// each term matches by the first applicable rule:
//
//   - "cat:num" matches rows whose category contains cat AND whose stored
//     number contains num
//   - an all-digit term matches rows whose stored number contains it
//   - anything else matches rows where the category, the stored number,
//     or any searchable field's string form contains it
//
// All text comparison is case-insensitive.
func (p Pipeline) Filter(rows []sheet.Number, search string) []sheet.Number {
	out := make([]sheet.Number, 0, len(rows))
	terms := strings.Fields(strings.ToLower(strings.TrimSpace(search)))
	if len(terms) == 0 {
		return append(out, rows...)
	}

	if digits, ok := suffixQuery(terms); ok {
		for _, row := range rows {
			if strings.HasSuffix(row.Local(p.CountryCode), digits) {
				out = append(out, row)
			}
		}
		return out
	}

	for _, row := range rows {
		if matchesAll(row, terms) {
			out = append(out, row)
		}
	}
	return out
}

// suffixQuery recognizes the "<digits> end" shorthand. It is a mode of
// the whole query, not of one term: every token before the final "end"
// must contribute digits.
func suffixQuery(terms []string) (string, bool) {
	if len(terms) < 2 || terms[len(terms)-1] != "end" {
		return "", false
	}
	digits := strings.Join(terms[:len(terms)-1], "")
	if !allDigits(digits) {
		return "", false
	}
	return digits, true
}

func matchesAll(row sheet.Number, terms []string) bool {
	for _, term := range terms {
		if !matchesTerm(row, term) {
			return false
		}
	}
	return true
}

func matchesTerm(row sheet.Number, term string) bool {
	msisdn := strings.ToLower(row.MSISDN)
	category := strings.ToLower(row.Category)

	if cat, num, found := strings.Cut(term, ":"); found {
		return strings.Contains(category, cat) && strings.Contains(msisdn, num)
	}
	if allDigits(term) {
		return strings.Contains(msisdn, term)
	}
	if strings.Contains(category, term) || strings.Contains(msisdn, term) {
		return true
	}
	for _, spec := range sheet.Fields() {
		if !spec.Searchable {
			continue
		}
		if strings.Contains(strings.ToLower(spec.Field.Value(row)), term) {
			return true
		}
	}
	return false
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Sorted returns a sorted copy of rows. An empty field preserves order.
func Sorted(rows []sheet.Number, by sheet.Field, desc bool) []sheet.Number {
	out := make([]sheet.Number, len(rows))
	copy(out, rows)
	sortRows(out, by, desc)
	return out
}

// sortRows sorts in place, stably, by the lexicographic order of the
// field's string form. Stability keeps equal rows in filter order, so
// re-sorting never shuffles ties.
func sortRows(rows []sheet.Number, by sheet.Field, desc bool) {
	if by == "" {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := by.Value(rows[i]), by.Value(rows[j])
		if desc {
			return a > b
		}
		return a < b
	})
}

// Paginate cuts one page out of rows. Page size 0 is the unbounded
// sentinel: everything on a single page. The requested page is clamped
// into [1, TotalPages] for slicing; the effective page is reported in the
// window and the caller reconciles its own query state via Query.Clamp.
func Paginate(rows []sheet.Number, pageSize, page int) Window {
	total := len(rows)
	if pageSize <= 0 {
		return Window{Rows: rows, Total: total, Page: 1, TotalPages: 1}
	}

	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return Window{Rows: rows[start:end], Total: total, Page: page, TotalPages: totalPages}
}
