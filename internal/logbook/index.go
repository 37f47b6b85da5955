package logbook

// Index is the in-memory set of fingerprints known to a single logbook.
//
// It is built once from the existing ledger rows and then grows as
// candidates are accepted, so two candidates in the same batch that collide
// with each other deduplicate exactly like a candidate colliding with the
// ledger.
type Index struct {
	seen map[string]struct{}
}

// BuildIndex computes fingerprints for every existing data row under the
// ledger's detected schema and date layout.
func BuildIndex(rows [][]string, schema Schema, layout string) *Index {
	x := &Index{seen: make(map[string]struct{}, len(rows))}
	for _, row := range rows {
		x.seen[Fingerprint(schema.Extract(row, layout))] = struct{}{}
	}
	return x
}

// Accept reports whether a fingerprint is new. A new fingerprint is
// recorded immediately; a known one leaves the index untouched.
func (x *Index) Accept(fp string) bool {
	if _, dup := x.seen[fp]; dup {
		return false
	}
	x.seen[fp] = struct{}{}
	return true
}

// Len returns the number of known fingerprints.
func (x *Index) Len() int {
	return len(x.seen)
}
