package logbook

import (
	"strconv"
	"time"

	"github.com/mkarpov/skybook/internal/temporal"
)

// Columns of the flight sheet in the current layout, 0-based.
// The sheet is 16 columns wide, A through P.
const (
	colDate = iota
	colDeparturePlace
	colDepartureTime
	colArrivalPlace
	colArrivalTime
	colModel // formula: model looked up from the aircraft catalog
	colRegistration
	colLaunchType
	colLandings
	colTotalTime // formula
	colP1
	colP2
	colInstructor
	colPICTime        // formula
	colDualTime       // formula
	colInstructorTime // formula

	rowWidth = 16
)

// Row is one staged flight entry. Temporal fields are canonical
// (YYYY-MM-DD, HH:MM); the derived-duration columns are not stored here at
// all - they are materialized as formulas at commit time, once the row's
// final sheet position is known.
type Row struct {
	Date           string
	DeparturePlace string
	DepartureTime  string
	ArrivalPlace   string
	ArrivalTime    string
	Registration   string
	LaunchType     string
	Landings       int
	P1             string
	P2             string
	Instructor     bool
}

// Identity returns the row's named identity record. Fields are already
// canonical, so no further normalization is applied beyond what Fingerprint
// itself does.
func (r Row) Identity() Identity {
	return Identity{
		Date:      r.Date,
		Departure: r.DeparturePlace,
		Start:     r.DepartureTime,
		Arrival:   r.ArrivalPlace,
		End:       r.ArrivalTime,
	}
}

// cells materializes the row for its final 1-based sheet position, binding
// every formula to rowIndex and rendering the date in the ledger's own
// layout.
func (r Row) cells(rowIndex int, dateLayout string, formulas formulaSet) []string {
	instructor := "FALSE"
	if r.Instructor {
		instructor = "TRUE"
	}
	out := make([]string, rowWidth)
	out[colDate] = formatDate(r.Date, dateLayout)
	out[colDeparturePlace] = r.DeparturePlace
	out[colDepartureTime] = r.DepartureTime
	out[colArrivalPlace] = r.ArrivalPlace
	out[colArrivalTime] = r.ArrivalTime
	out[colModel] = bindRow(formulas.model, rowIndex)
	out[colRegistration] = r.Registration
	out[colLaunchType] = r.LaunchType
	out[colLandings] = strconv.Itoa(r.Landings)
	out[colTotalTime] = bindRow(formulas.total, rowIndex)
	out[colP1] = r.P1
	out[colP2] = r.P2
	out[colInstructor] = instructor
	out[colPICTime] = bindRow(formulas.pic, rowIndex)
	out[colDualTime] = bindRow(formulas.dual, rowIndex)
	out[colInstructorTime] = bindRow(formulas.instructor, rowIndex)
	return out
}

// formatDate renders a canonical date in the ledger's detected layout,
// preserving the document's existing convention. Non-canonical values pass
// through untouched.
func formatDate(iso, layout string) string {
	if layout == "" || layout == temporal.DefaultDateLayout {
		return iso
	}
	t, err := time.Parse(temporal.DefaultDateLayout, iso)
	if err != nil {
		return iso
	}
	return t.Format(layout)
}
