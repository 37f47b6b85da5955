package logbook

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mkarpov/skybook/internal/sheet"
	"github.com/mkarpov/skybook/internal/temporal"
)

// Fixed cells of the summary sheet holding the member-maintained profile.
const (
	profileNameCell           = "B1"
	profileInstructorCell     = "G1"
	profileInstructorFromCell = "G2"
)

// Config describes the fixed layout conventions of a member logbook.
type Config struct {
	SummarySheet  string
	AircraftSheet string
	FlightSheet   string

	// HeaderRows is the number of frozen title rows at the top of the
	// flight sheet. They never contain data.
	HeaderRows int

	// DefaultOrder is the sort order assumed when the ledger has too few
	// dated rows to infer one.
	DefaultOrder SortOrder
}

// DefaultConfig returns the sheet names and layout the deployed logbook
// template uses.
func DefaultConfig() Config {
	return Config{
		SummarySheet:  "Summary Glider",
		AircraftSheet: "Aircraft model",
		FlightSheet:   "FlightLogGlider",
		HeaderRows:    2,
		DefaultOrder:  SortNewestFirst,
	}
}

// Logbook is the per-member sync state over one open document.
//
// All reads happen in Open; the derived layout state (schema, date layout,
// sort order, dedup index) is immutable for the rest of the run. AddFlight
// and AddAircraft stage work in memory; CommitAircraft and CommitFlights
// perform the only writes.
type Logbook struct {
	doc sheet.Document
	cfg Config

	profile  Profile
	catalog  *AircraftCatalog
	schema   Schema
	layout   string // detected date layout of the flight sheet
	order    SortOrder
	occupied int // rows beyond the header currently in use
	index    *Index
	formulas formulaSet
	pending  []Row
}

// Open reads a member's document once and derives its layout state.
func Open(doc sheet.Document, cfg Config) (*Logbook, error) {
	profile, err := readProfile(doc, cfg.SummarySheet)
	if err != nil {
		return nil, err
	}

	aircraftRows, err := doc.ReadAllRows(cfg.AircraftSheet)
	if err != nil {
		return nil, fmt.Errorf("read aircraft catalog: %w", err)
	}

	all, err := doc.ReadAllRows(cfg.FlightSheet)
	if err != nil {
		return nil, fmt.Errorf("read flight sheet: %w", err)
	}

	occupied := len(all) - cfg.HeaderRows
	if occupied < 0 {
		occupied = 0
	}

	// Dated rows drive format detection, sort inference and the index;
	// stray undated rows only count toward occupancy.
	var data [][]string
	var dateSamples []string
	for i := cfg.HeaderRows; i < len(all); i++ {
		if d := strings.TrimSpace(cell(all[i], 0)); d != "" {
			data = append(data, all[i])
			dateSamples = append(dateSamples, d)
		}
	}

	schema := DetectSchema(data)
	layout := temporal.DetectDateLayout(dateSamples)
	b := &Logbook{
		doc:      doc,
		cfg:      cfg,
		profile:  profile,
		catalog:  NewAircraftCatalog(aircraftRows),
		schema:   schema,
		layout:   layout,
		order:    InferSortOrder(data, schema, layout, cfg.DefaultOrder),
		occupied: occupied,
		index:    BuildIndex(data, schema, layout),
		formulas: newFormulaSet(cfg.AircraftSheet, cfg.SummarySheet),
	}

	slog.Debug("logbook opened",
		"pilot", profile.PilotName,
		"schema", schema.Name,
		"date_layout", b.layout,
		"order", b.order.String(),
		"existing_rows", len(data),
	)
	return b, nil
}

func readProfile(doc sheet.Document, summarySheet string) (Profile, error) {
	name, err := doc.ReadCell(summarySheet, profileNameCell)
	if err != nil {
		return Profile{}, fmt.Errorf("read pilot name: %w", err)
	}

	instructorCell, err := doc.ReadCell(summarySheet, profileInstructorCell)
	if err != nil {
		return Profile{}, fmt.Errorf("read instructor flag: %w", err)
	}

	from, err := doc.ReadCell(summarySheet, profileInstructorFromCell)
	if err != nil {
		return Profile{}, fmt.Errorf("read instructor effective date: %w", err)
	}
	from = strings.TrimSpace(from)
	if from != "" {
		t, err := time.Parse(temporal.DefaultDateLayout, from)
		if err != nil {
			return Profile{}, fmt.Errorf("instructor effective date %q: %w", from, err)
		}
		from = t.Format(temporal.DefaultDateLayout)
	}

	return Profile{
		PilotName:      name,
		Instructor:     instructorCell == "Yes",
		InstructorFrom: from,
	}, nil
}

// Profile returns the member profile read from the summary sheet.
func (b *Logbook) Profile() Profile {
	return b.profile
}

// Order returns the inferred sort order of the flight sheet.
func (b *Logbook) Order() SortOrder {
	return b.order
}

// DateLayout returns the detected date layout of the flight sheet.
func (b *Logbook) DateLayout() string {
	return b.layout
}

// AddAircraft stages a model/registration pair if the registration is new
// to the catalog.
func (b *Logbook) AddAircraft(model, registration string) bool {
	return b.catalog.Add(model, registration)
}

// AddFlight stages a flight row unless its fingerprint is already known to
// the ledger or to this batch. Returns whether the row was accepted.
func (b *Logbook) AddFlight(r Row) bool {
	if !b.index.Accept(Fingerprint(r.Identity())) {
		return false
	}
	b.pending = append(b.pending, r)
	return true
}

// StagedFlights returns the number of accepted, uncommitted flight rows.
func (b *Logbook) StagedFlights() int {
	return len(b.pending)
}

// StagedAircraft returns the number of uncommitted catalog rows.
func (b *Logbook) StagedAircraft() int {
	return len(b.catalog.Pending())
}

// CommitAircraft writes the staged catalog rows. No-op when nothing is
// staged.
func (b *Logbook) CommitAircraft() error {
	pending := b.catalog.Pending()
	if len(pending) == 0 {
		return nil
	}

	anchor := b.catalog.Anchor()
	count, err := b.doc.RowCount(b.cfg.AircraftSheet)
	if err != nil {
		return &CommitError{Sheet: b.cfg.AircraftSheet, Rows: len(pending), Err: err}
	}
	if anchor+len(pending)-1 > count {
		if err := b.doc.AppendRows(b.cfg.AircraftSheet, len(pending)); err != nil {
			return &CommitError{Sheet: b.cfg.AircraftSheet, Rows: len(pending), Err: err}
		}
	}
	if err := b.doc.WriteRange(b.cfg.AircraftSheet, sheet.Addr(1, anchor), pending, sheet.Templated); err != nil {
		return &CommitError{Sheet: b.cfg.AircraftSheet, Rows: len(pending), Err: err}
	}
	b.catalog.clear()
	return nil
}

// CommitFlights places and writes the staged flight rows, binding each
// row's formulas to its final position. No-op when nothing is staged.
func (b *Logbook) CommitFlights() error {
	if len(b.pending) == 0 {
		return nil
	}

	count, err := b.doc.RowCount(b.cfg.FlightSheet)
	if err != nil {
		return &CommitError{Sheet: b.cfg.FlightSheet, Rows: len(b.pending), Err: err}
	}
	plan := PlanPlacement(b.order, b.cfg.HeaderRows, b.occupied, count, len(b.pending))

	if plan.Insert {
		if err := b.doc.InsertBlankRows(b.cfg.FlightSheet, len(b.pending), plan.AnchorRow); err != nil {
			return &CommitError{Sheet: b.cfg.FlightSheet, Rows: len(b.pending), Err: err}
		}
	} else if plan.Grow > 0 {
		if err := b.doc.AppendRows(b.cfg.FlightSheet, plan.Grow); err != nil {
			return &CommitError{Sheet: b.cfg.FlightSheet, Rows: len(b.pending), Err: err}
		}
	}

	batch := make([][]string, len(b.pending))
	for i, r := range b.pending {
		batch[i] = r.cells(plan.AnchorRow+i, b.layout, b.formulas)
	}
	if err := b.doc.WriteRange(b.cfg.FlightSheet, sheet.Addr(1, plan.AnchorRow), batch, sheet.Templated); err != nil {
		return &CommitError{Sheet: b.cfg.FlightSheet, Rows: len(batch), Err: err}
	}

	b.occupied += len(batch)
	b.pending = nil
	return nil
}
