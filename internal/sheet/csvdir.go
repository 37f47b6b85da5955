package sheet

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DirDocument is a Document stored as a directory of CSV files, one file
// per sheet ("FlightLogGlider" lives in FlightLogGlider.csv). It backs
// local and dry-run operation, where a hosted spreadsheet is unavailable
// or undesirable.
//
// All files are read once at open time; every mutating call rewrites the
// affected file. Formulas are stored as their literal text, CSV has no
// evaluation to speak of.
type DirDocument struct {
	dir string
	mem *MemoryDocument
}

// OpenDir loads every *.csv file under dir as a sheet.
func OpenDir(dir string) (*DirDocument, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("open document directory: %w", err)
	}

	doc := &DirDocument{dir: dir, mem: NewMemoryDocument()}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".csv")
		rows, err := readCSV(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		doc.mem.AddSheet(name, rows)
	}
	return doc, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sheet file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged widths allowed
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read sheet file %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

// flush rewrites one sheet's file from the in-memory grid. Blank rows are
// padded to the sheet's widest row so the grid capacity survives a reload;
// a single-column sheet cannot round-trip trailing blanks, CSV drops the
// empty lines.
func (d *DirDocument) flush(sheet string) error {
	s, err := d.mem.sheet(sheet)
	if err != nil {
		return err
	}

	width := 0
	for _, row := range s.rows {
		if len(row) > width {
			width = len(row)
		}
	}

	f, err := os.Create(filepath.Join(d.dir, sheet+".csv"))
	if err != nil {
		return fmt.Errorf("rewrite sheet file: %w", err)
	}
	w := csv.NewWriter(f)
	for _, row := range s.rows {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			row = padded
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("rewrite sheet file: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("rewrite sheet file: %w", err)
	}
	return f.Close()
}

func (d *DirDocument) ReadAllRows(sheet string) ([][]string, error) {
	return d.mem.ReadAllRows(sheet)
}

func (d *DirDocument) ReadCell(sheet, addr string) (string, error) {
	return d.mem.ReadCell(sheet, addr)
}

func (d *DirDocument) RowCount(sheet string) (int, error) {
	return d.mem.RowCount(sheet)
}

func (d *DirDocument) WriteRange(sheet, startAddr string, rows [][]string, mode ValueMode) error {
	if err := d.mem.WriteRange(sheet, startAddr, rows, mode); err != nil {
		return err
	}
	return d.flush(sheet)
}

func (d *DirDocument) InsertBlankRows(sheet string, count, at int) error {
	if err := d.mem.InsertBlankRows(sheet, count, at); err != nil {
		return err
	}
	return d.flush(sheet)
}

func (d *DirDocument) AppendRows(sheet string, count int) error {
	if err := d.mem.AppendRows(sheet, count); err != nil {
		return err
	}
	return d.flush(sheet)
}

// Detach returns an in-memory copy of the document with the same grid
// capacities. Writes to the copy never reach the underlying files; dry
// runs sync against it.
func (d *DirDocument) Detach() *MemoryDocument {
	out := NewMemoryDocument()
	for name, s := range d.mem.sheets {
		out.AddSheetWithCapacity(name, s.rows, len(s.rows))
	}
	return out
}

// DirOpener resolves spreadsheet keys to subdirectories of Root, one
// directory of CSV files per member.
type DirOpener struct {
	Root string
}

// Open loads the document stored under Root/key.
func (o DirOpener) Open(key string) (Document, error) {
	return OpenDir(filepath.Join(o.Root, key))
}
