// Package logbook implements the per-member logbook synchronization core.
//
// A member's logbook is a human-edited spreadsheet. The member owns its row
// order, its frozen header rows, and its per-row computed columns; skybook
// owns none of that. The engine therefore works strictly additively: it
// reads the existing ledger once, infers the conventions the document
// already follows, and appends or inserts only rows it can prove are new.
//
// ARCHITECTURE:
//
// Immutable layout state:
// Open() reads the whole document once and derives - date layout, column
// schema, sort order, dedup index, data row count - exactly once per run.
// Nothing re-reads the document afterwards; commits are computed against
// this snapshot.
//
// Identity before mutation:
// Every existing and candidate row reduces to a five-field identity record
// (date, departure place, launch time, arrival place, landing time). Its
// fingerprint is the concatenation of the canonicalized fields with no
// separators, NFC-normalized, which byte-matches the fingerprints deployed
// ledgers were built under. A candidate whose fingerprint is already in the
// index is dropped before anything is staged.
//
// Deferred position binding:
// Staged rows carry no formulas. The duration formulas reference their own
// row by index, so they are materialized only at commit time, once the
// placement plan has fixed each row's final position.
package logbook
