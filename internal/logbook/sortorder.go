package logbook

import "github.com/mkarpov/skybook/internal/temporal"

// SortOrder is a ledger's row-ordering convention.
type SortOrder int

const (
	// SortNewestFirst keeps the most recent entries at the top; new rows
	// are inserted right below the header.
	SortNewestFirst SortOrder = iota

	// SortNewestLast grows the ledger downward in chronological order.
	SortNewestLast
)

func (o SortOrder) String() string {
	if o == SortNewestLast {
		return "newest-last"
	}
	return "newest-first"
}

// InferSortOrder determines a ledger's ordering convention from its
// existing data rows.
//
// Consecutive date pairs are walked in storage order; the first pair with
// unequal dates decides. If every sampled date is equal, or fewer than two
// rows carry a date, the configured fallback wins. Runs once per ledger per
// sync run. Date cells are parsed with the ledger's detected layout first,
// the same way the dedup index reads them.
func InferSortOrder(rows [][]string, schema Schema, layout string, fallback SortOrder) SortOrder {
	prev := ""
	for _, row := range rows {
		d := temporal.CanonicalDateIn(cell(row, schema.Date), layout)
		if !isCanonicalDate(d) {
			continue
		}
		if prev != "" && d != prev {
			if prev < d {
				return SortNewestLast
			}
			return SortNewestFirst
		}
		prev = d
	}
	return fallback
}

// isCanonicalDate reports whether CanonicalDate managed to normalize a cell
// (pass-through values are not comparable and are skipped).
func isCanonicalDate(s string) bool {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return false
	}
	for i, r := range s {
		if i == 4 || i == 7 {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
