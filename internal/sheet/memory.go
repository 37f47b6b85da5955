package sheet

import (
	"fmt"
)

// MemoryDocument is an in-memory Document used by tests and dry runs.
//
// It enforces the same discipline a hosted spreadsheet does: writes beyond
// the grid's current capacity fail, so engine code that forgets to grow the
// grid first breaks loudly in tests instead of silently in production.
type MemoryDocument struct {
	sheets map[string]*memSheet
}

type memSheet struct {
	rows     [][]string // fixed-capacity grid, ragged widths allowed
	lastMode ValueMode
}

// NewMemoryDocument creates an empty document with no sheets.
func NewMemoryDocument() *MemoryDocument {
	return &MemoryDocument{sheets: map[string]*memSheet{}}
}

// AddSheet creates a sheet whose grid capacity equals len(rows).
// Row slices are copied.
func (d *MemoryDocument) AddSheet(name string, rows [][]string) {
	d.AddSheetWithCapacity(name, rows, len(rows))
}

// AddSheetWithCapacity creates a sheet with explicit grid capacity; capacity
// is raised to len(rows) if smaller.
func (d *MemoryDocument) AddSheetWithCapacity(name string, rows [][]string, capacity int) {
	if capacity < len(rows) {
		capacity = len(rows)
	}
	grid := make([][]string, capacity)
	for i := range grid {
		if i < len(rows) {
			grid[i] = append([]string(nil), rows[i]...)
		} else {
			grid[i] = nil
		}
	}
	d.sheets[name] = &memSheet{rows: grid}
}

func (d *MemoryDocument) sheet(name string) (*memSheet, error) {
	s, ok := d.sheets[name]
	if !ok {
		return nil, fmt.Errorf("unknown sheet %q", name)
	}
	return s, nil
}

// ReadAllRows returns the populated rectangle: all rows up to the last row
// containing any non-empty cell.
func (d *MemoryDocument) ReadAllRows(sheet string) ([][]string, error) {
	s, err := d.sheet(sheet)
	if err != nil {
		return nil, err
	}
	last := -1
	for i, row := range s.rows {
		for _, cell := range row {
			if cell != "" {
				last = i
				break
			}
		}
	}
	out := make([][]string, 0, last+1)
	for i := 0; i <= last; i++ {
		out = append(out, append([]string(nil), s.rows[i]...))
	}
	return out, nil
}

// ReadCell returns the cell at addr, or "" for an empty or out-of-grid cell.
func (d *MemoryDocument) ReadCell(sheet, addr string) (string, error) {
	s, err := d.sheet(sheet)
	if err != nil {
		return "", err
	}
	col, row, err := ParseAddr(addr)
	if err != nil {
		return "", err
	}
	if row > len(s.rows) || col > len(s.rows[row-1]) {
		return "", nil
	}
	return s.rows[row-1][col-1], nil
}

// RowCount returns the grid capacity, which includes trailing blank rows.
func (d *MemoryDocument) RowCount(sheet string) (int, error) {
	s, err := d.sheet(sheet)
	if err != nil {
		return 0, err
	}
	return len(s.rows), nil
}

// WriteRange writes rows starting at startAddr. Fails if the write would
// run past the grid's capacity.
func (d *MemoryDocument) WriteRange(sheet, startAddr string, rows [][]string, mode ValueMode) error {
	s, err := d.sheet(sheet)
	if err != nil {
		return err
	}
	col, startRow, err := ParseAddr(startAddr)
	if err != nil {
		return err
	}
	if startRow+len(rows)-1 > len(s.rows) {
		return fmt.Errorf("write of %d rows at %s exceeds %q capacity %d",
			len(rows), startAddr, sheet, len(s.rows))
	}
	for i, row := range rows {
		target := s.rows[startRow-1+i]
		need := col - 1 + len(row)
		if len(target) < need {
			grown := make([]string, need)
			copy(grown, target)
			target = grown
		}
		copy(target[col-1:], row)
		s.rows[startRow-1+i] = target
	}
	s.lastMode = mode
	return nil
}

// InsertBlankRows inserts count blank rows before 1-based row at.
func (d *MemoryDocument) InsertBlankRows(sheet string, count, at int) error {
	s, err := d.sheet(sheet)
	if err != nil {
		return err
	}
	if at < 1 || at > len(s.rows)+1 {
		return fmt.Errorf("insert position %d out of range for %q", at, sheet)
	}
	blank := make([][]string, count)
	s.rows = append(s.rows[:at-1], append(blank, s.rows[at-1:]...)...)
	return nil
}

// AppendRows grows the grid by count blank rows.
func (d *MemoryDocument) AppendRows(sheet string, count int) error {
	s, err := d.sheet(sheet)
	if err != nil {
		return err
	}
	s.rows = append(s.rows, make([][]string, count)...)
	return nil
}

// LastWriteMode reports the ValueMode of the most recent WriteRange on a
// sheet. Test hook.
func (d *MemoryDocument) LastWriteMode(sheet string) (ValueMode, bool) {
	s, ok := d.sheets[sheet]
	if !ok {
		return Literal, false
	}
	return s.lastMode, true
}

// MemoryOpener maps spreadsheet keys to in-memory documents.
type MemoryOpener struct {
	Docs map[string]*MemoryDocument
}

// Open returns the document registered under key.
func (o *MemoryOpener) Open(key string) (Document, error) {
	doc, ok := o.Docs[key]
	if !ok {
		return nil, fmt.Errorf("no document for key %q", key)
	}
	return doc, nil
}
