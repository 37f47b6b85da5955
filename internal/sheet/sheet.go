package sheet

import (
	"fmt"
	"strings"
)

// ValueMode controls how the host document interprets written cells.
type ValueMode int

const (
	// Literal writes cells as raw values; a leading "=" stays text.
	Literal ValueMode = iota

	// Templated lets the host parse cells the way a user typing them
	// would: formulas evaluate, numbers and dates coerce.
	Templated
)

// Document is the capability set skybook holds over one spreadsheet.
//
// Implementations must treat sheet names as exact matches and rows as
// 1-based. ReadAllRows returns the populated rectangle of a sheet (trailing
// all-empty rows excluded); RowCount returns the sheet's grid capacity,
// which may be larger.
type Document interface {
	ReadAllRows(sheet string) ([][]string, error)
	ReadCell(sheet, addr string) (string, error)
	RowCount(sheet string) (int, error)

	// WriteRange writes rows starting at startAddr. The target range must
	// already be within the sheet's capacity; callers grow the grid first
	// via InsertBlankRows or AppendRows.
	WriteRange(sheet, startAddr string, rows [][]string, mode ValueMode) error

	// InsertBlankRows inserts count blank rows before row at (1-based),
	// pushing existing rows down.
	InsertBlankRows(sheet string, count, at int) error

	// AppendRows grows the sheet's capacity by count blank rows.
	AppendRows(sheet string, count int) error
}

// Opener resolves a spreadsheet key to an open Document.
// Production wires a hosted-API client here; tests wire MemoryOpener.
type Opener interface {
	Open(key string) (Document, error)
}

// Addr renders a 1-based (column, row) pair in A1 notation.
func Addr(col, row int) string {
	return colName(col) + fmt.Sprint(row)
}

// Range renders an A1 range from two 1-based corners, e.g. "A3:P5".
func Range(col1, row1, col2, row2 int) string {
	return Addr(col1, row1) + ":" + Addr(col2, row2)
}

// ParseAddr splits an A1 address into its 1-based column and row.
func ParseAddr(addr string) (col, row int, err error) {
	i := 0
	for i < len(addr) && addr[i] >= 'A' && addr[i] <= 'Z' {
		col = col*26 + int(addr[i]-'A'+1)
		i++
	}
	if i == 0 || i == len(addr) {
		return 0, 0, fmt.Errorf("malformed A1 address %q", addr)
	}
	for ; i < len(addr); i++ {
		if addr[i] < '0' || addr[i] > '9' {
			return 0, 0, fmt.Errorf("malformed A1 address %q", addr)
		}
		row = row*10 + int(addr[i]-'0')
	}
	if col == 0 || row == 0 {
		return 0, 0, fmt.Errorf("malformed A1 address %q", addr)
	}
	return col, row, nil
}

func colName(col int) string {
	var b strings.Builder
	for col > 0 {
		col--
		b.WriteByte(byte('A' + col%26))
		col /= 26
	}
	// The builder accumulated least-significant letters first.
	s := []byte(b.String())
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
	return string(s)
}
