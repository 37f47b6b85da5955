package logbook

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/mkarpov/skybook/internal/temporal"
)

// Identity is the named-field record a row's fingerprint is computed from.
//
// Fingerprinting goes through this record rather than raw column positions
// so that ledger-format evolution never touches identity logic: each
// deployed column layout supplies its own Schema mapping into the same
// record, and equal records fingerprint equally regardless of which layout
// the row was read from.
type Identity struct {
	Date      string // canonical YYYY-MM-DD (or raw pass-through)
	Departure string // departure place
	Start     string // launch time, HH:MM
	Arrival   string // arrival place
	End       string // landing time, HH:MM
}

// Schema maps one deployed column layout onto the identity fields.
// Indices are 0-based sheet columns.
type Schema struct {
	Name      string
	Date      int
	Departure int
	Start     int
	Arrival   int
	End       int
}

// SchemaCurrent is the layout skybook writes: place columns ahead of their
// time columns (A date, B departure place, C launch time, D arrival place,
// E landing time).
var SchemaCurrent = Schema{Name: "current", Date: 0, Departure: 1, Start: 2, Arrival: 3, End: 4}

// SchemaLegacy is the pre-migration layout still present in older logbooks,
// with each time column ahead of its place column.
var SchemaLegacy = Schema{Name: "legacy", Date: 0, Departure: 2, Start: 1, Arrival: 4, End: 3}

// DetectSchema decides which deployed layout a ledger's data rows follow.
// Legacy rows carry a clock value in column B; current rows carry a place
// name there. Empty ledgers default to the current layout.
func DetectSchema(rows [][]string) Schema {
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		b := strings.TrimSpace(row[1])
		if b == "" {
			continue
		}
		if looksLikeClock(b) {
			return SchemaLegacy
		}
		return SchemaCurrent
	}
	return SchemaCurrent
}

func looksLikeClock(s string) bool {
	i := strings.IndexByte(s, ':')
	if i <= 0 || i > 2 {
		return false
	}
	for _, r := range s {
		if r != ':' && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// Extract builds the identity record for a raw sheet row under this schema,
// canonicalizing the temporal fields. Missing cells read as empty.
//
// layout is the ledger's detected date layout; date cells are parsed with
// it before the ranked fallback list, so ambiguous slash dates the engine
// itself wrote round-trip to the same canonical date.
func (s Schema) Extract(raw []string, layout string) Identity {
	start, _ := temporal.Clock(cell(raw, s.Start), temporal.ClockPassThrough)
	end, _ := temporal.Clock(cell(raw, s.End), temporal.ClockPassThrough)
	return Identity{
		Date:      temporal.CanonicalDateIn(cell(raw, s.Date), layout),
		Departure: cell(raw, s.Departure),
		Start:     start,
		Arrival:   cell(raw, s.Arrival),
		End:       end,
	}
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// Fingerprint reduces an identity record to its deduplication key: the five
// fields concatenated with no separator, NFC-normalized.
//
// The separator-free concatenation is required for compatibility with
// fingerprints already implied by deployed ledger content; changing it would
// resurrect every historical row as "new" on the next run.
func Fingerprint(id Identity) string {
	return norm.NFC.String(id.Date + id.Departure + id.Start + id.Arrival + id.End)
}
