// Package view derives what the table shows from what the store holds.
//
// # Overview
//
// The pipeline is a pure function from (rows, Query) to a Window: filter
// by search text, sort by an optional field, cut one page. It keeps no
// state and mutates nothing, so the UI can re-derive on every snapshot or
// keystroke and always get a result consistent with the latest data. That
// re-derivation is what keeps the view correct while background refreshes
// replace the row collection underneath it.
//
// # Search Grammar
//
// The search box accepts whitespace-separated terms; a row must match all
// of them. Three term forms exist, tried in order: "cat:num" restricts
// category and number together, all-digit terms search the stored number,
// and plain text searches every column. One query-level shorthand sits on
// top: ending the query with the word "end" turns the preceding digits
// into a dial-suffix search on the localized number, which is how
// operators quote numbers to each other ("the one ending 1234").
//
// # Ordering and Paging Rules
//
//   - Filtering preserves the collection's order; sorting is stable, so
//     rows with equal field values keep that order in both directions.
//   - Page indexes are 1-based. Page size 0 means unbounded: one page
//     holding everything.
//   - The pipeline never mutates a Query. After a derive, the caller
//     realigns its page index with Query.Clamp; changing search text or
//     page size goes through the With setters, which reset the index to
//     the first page.
package view
