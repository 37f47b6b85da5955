package logbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarpov/skybook/internal/sheet"
)

func newTestDocument(t *testing.T, flightRows [][]string, capacity int) *sheet.MemoryDocument {
	t.Helper()
	doc := sheet.NewMemoryDocument()
	doc.AddSheet("Summary Glider", [][]string{
		{"Pilot", "Bob Carver", "", "", "", "", "Yes"},
		{"", "", "", "", "", "", "2024-01-01"},
	})
	doc.AddSheetWithCapacity("Aircraft model", [][]string{{"ASK 21", "D-1234"}}, 50)

	rows := [][]string{
		{"Date", "From", "Launch", "To", "Landing"},
		{"", "", "", "", ""},
	}
	rows = append(rows, flightRows...)
	doc.AddSheetWithCapacity("FlightLogGlider", rows, capacity)
	return doc
}

func testFlight(date, start, end string) Row {
	return Row{
		Date:           date,
		DeparturePlace: "Fieldtown",
		DepartureTime:  start,
		ArrivalPlace:   "Fieldtown",
		ArrivalTime:    end,
		Registration:   "D-1234",
		LaunchType:     "W",
		Landings:       1,
		P1:             "Bob Carver",
		P2:             "Alice Reed",
		Instructor:     true,
	}
}

func TestOpen_DerivesLayoutState(t *testing.T) {
	doc := newTestDocument(t, [][]string{
		{"02.05.2024", "Fieldtown", "09:15", "Fieldtown", "10:05"},
		{"01.05.2024", "Fieldtown", "11:00", "Fieldtown", "11:40"},
	}, 20)

	book, err := Open(doc, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, Profile{
		PilotName:      "Bob Carver",
		Instructor:     true,
		InstructorFrom: "2024-01-01",
	}, book.Profile())
	assert.Equal(t, "02.01.2006", book.DateLayout())
	assert.Equal(t, SortNewestFirst, book.Order())
}

func TestOpen_ProfileWithoutInstructorRating(t *testing.T) {
	doc := sheet.NewMemoryDocument()
	doc.AddSheet("Summary Glider", [][]string{{"Pilot", "Bob Carver"}})
	doc.AddSheet("Aircraft model", nil)
	doc.AddSheetWithCapacity("FlightLogGlider", [][]string{{"Date"}, {""}}, 10)

	book, err := Open(doc, DefaultConfig())
	require.NoError(t, err)
	assert.False(t, book.Profile().Instructor)
	assert.Empty(t, book.Profile().InstructorFrom)
}

func TestAddFlight_DeduplicatesAgainstLedgerAndBatch(t *testing.T) {
	doc := newTestDocument(t, [][]string{
		{"2024-05-01", "Fieldtown", "09:15", "Fieldtown", "10:05"},
	}, 20)
	book, err := Open(doc, DefaultConfig())
	require.NoError(t, err)

	assert.False(t, book.AddFlight(testFlight("2024-05-01", "09:15", "10:05")),
		"row already in the ledger")
	assert.True(t, book.AddFlight(testFlight("2024-05-02", "09:15", "10:05")))
	assert.False(t, book.AddFlight(testFlight("2024-05-02", "09:15", "10:05")),
		"in-batch duplicate")
	assert.Equal(t, 1, book.StagedFlights())
}

func TestCommitFlights_AppendsToEmptyLedger(t *testing.T) {
	// Two frozen header rows, zero data rows, newest-last default: a batch
	// of three lands on rows 3-5.
	doc := newTestDocument(t, nil, 2)
	cfg := DefaultConfig()
	cfg.DefaultOrder = SortNewestLast

	book, err := Open(doc, cfg)
	require.NoError(t, err)
	require.True(t, book.AddFlight(testFlight("2024-05-01", "09:15", "10:05")))
	require.True(t, book.AddFlight(testFlight("2024-05-01", "11:00", "11:40")))
	require.True(t, book.AddFlight(testFlight("2024-05-02", "09:00", "09:30")))

	require.NoError(t, book.CommitFlights())

	got, err := doc.ReadCell("FlightLogGlider", "A3")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", got)
	got, err = doc.ReadCell("FlightLogGlider", "A5")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-02", got)

	// Capacity was 2; the append grew it by exactly the batch size.
	count, err := doc.RowCount("FlightLogGlider")
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	mode, ok := doc.LastWriteMode("FlightLogGlider")
	require.True(t, ok)
	assert.Equal(t, sheet.Templated, mode, "formula cells need host-side parsing")
}

func TestCommitFlights_InsertsBelowHeaderForNewestFirst(t *testing.T) {
	doc := newTestDocument(t, [][]string{
		{"2024-05-01", "Fieldtown", "09:15", "Fieldtown", "10:05"},
		{"2024-04-01", "Fieldtown", "11:00", "Fieldtown", "11:40"},
	}, 20)
	book, err := Open(doc, DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, SortNewestFirst, book.Order())

	require.True(t, book.AddFlight(testFlight("2024-05-03", "09:00", "09:30")))
	require.True(t, book.AddFlight(testFlight("2024-05-04", "09:00", "09:30")))
	require.NoError(t, book.CommitFlights())

	got, err := doc.ReadCell("FlightLogGlider", "A3")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-03", got, "batch starts right below the headers")

	got, err = doc.ReadCell("FlightLogGlider", "A5")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", got, "existing rows pushed down by the batch size")
}

func TestCommitFlights_BindsFormulasToFinalPositions(t *testing.T) {
	doc := newTestDocument(t, nil, 2)
	cfg := DefaultConfig()
	cfg.DefaultOrder = SortNewestLast

	book, err := Open(doc, cfg)
	require.NoError(t, err)
	require.True(t, book.AddFlight(testFlight("2024-05-01", "09:15", "10:05")))
	require.True(t, book.AddFlight(testFlight("2024-05-01", "11:00", "11:40")))
	require.NoError(t, book.CommitFlights())

	got, err := doc.ReadCell("FlightLogGlider", "J3")
	require.NoError(t, err)
	assert.Equal(t, `=IF(E3>0;E3-C3;"")`, got)

	got, err = doc.ReadCell("FlightLogGlider", "J4")
	require.NoError(t, err)
	assert.Equal(t, `=IF(E4>0;E4-C4;"")`, got)

	got, err = doc.ReadCell("FlightLogGlider", "P4")
	require.NoError(t, err)
	assert.Equal(t, `=IF(M4=TRUE;E4-C4;"")`, got)

	got, err = doc.ReadCell("FlightLogGlider", "F3")
	require.NoError(t, err)
	assert.Equal(t,
		`=IF(G3="";"";XLOOKUP(G3;'Aircraft model'!$B$1:$B$1000;'Aircraft model'!$A$1:$A$1000;""))`,
		got)

	got, err = doc.ReadCell("FlightLogGlider", "M3")
	require.NoError(t, err)
	assert.Equal(t, "TRUE", got)
}

func TestCommitFlights_WritesDatesInDetectedLayout(t *testing.T) {
	doc := newTestDocument(t, [][]string{
		{"01.04.2024", "Fieldtown", "09:15", "Fieldtown", "10:05"},
		{"02.04.2024", "Fieldtown", "11:00", "Fieldtown", "11:40"},
	}, 20)
	book, err := Open(doc, DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, SortNewestLast, book.Order())

	require.True(t, book.AddFlight(testFlight("2024-05-03", "09:00", "09:30")))
	require.NoError(t, book.CommitFlights())

	got, err := doc.ReadCell("FlightLogGlider", "A5")
	require.NoError(t, err)
	assert.Equal(t, "03.05.2024", got, "new rows follow the ledger's date convention")
}

func TestCommitFlights_AmbiguousSlashDatesSurviveReopen(t *testing.T) {
	// Day/month ledger whose seeded row pins the layout. A committed
	// flight lands as "03/05/2024"; reopening the document must read
	// that cell back as 2024-05-03, not 2024-03-05, so the same flight
	// offered again is recognised as already present.
	doc := newTestDocument(t, [][]string{
		{"13/05/2024", "Fieldtown", "09:15", "Fieldtown", "10:05"},
	}, 20)
	book, err := Open(doc, DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, "02/01/2006", book.DateLayout())

	require.True(t, book.AddFlight(testFlight("2024-05-03", "09:00", "09:30")))
	require.NoError(t, book.CommitFlights())

	got, err := doc.ReadCell("FlightLogGlider", "A3")
	require.NoError(t, err)
	require.Equal(t, "03/05/2024", got)

	reopened, err := Open(doc, DefaultConfig())
	require.NoError(t, err)
	assert.False(t, reopened.AddFlight(testFlight("2024-05-03", "09:00", "09:30")),
		"committed flight must dedupe on the next run")
}

func TestCommitFlights_SecondCommitAppendsAfterFirst(t *testing.T) {
	doc := newTestDocument(t, nil, 10)
	cfg := DefaultConfig()
	cfg.DefaultOrder = SortNewestLast

	book, err := Open(doc, cfg)
	require.NoError(t, err)
	require.True(t, book.AddFlight(testFlight("2024-05-01", "09:15", "10:05")))
	require.NoError(t, book.CommitFlights())

	require.True(t, book.AddFlight(testFlight("2024-05-02", "09:15", "10:05")))
	require.NoError(t, book.CommitFlights())

	got, err := doc.ReadCell("FlightLogGlider", "A4")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-02", got)
}

func TestCommitAircraft(t *testing.T) {
	doc := newTestDocument(t, nil, 10)
	book, err := Open(doc, DefaultConfig())
	require.NoError(t, err)

	assert.False(t, book.AddAircraft("ASK 21", "D-1234"), "already in the catalog sheet")
	assert.True(t, book.AddAircraft("LS4", "D-9012"))
	require.NoError(t, book.CommitAircraft())

	got, err := doc.ReadCell("Aircraft model", "A2")
	require.NoError(t, err)
	assert.Equal(t, "LS4", got)
	got, err = doc.ReadCell("Aircraft model", "B2")
	require.NoError(t, err)
	assert.Equal(t, "D-9012", got)

	assert.Zero(t, book.StagedAircraft())
	require.NoError(t, book.CommitAircraft(), "empty commit is a no-op")
}

func TestCommit_EmptyBatchTouchesNothing(t *testing.T) {
	doc := newTestDocument(t, nil, 2)
	book, err := Open(doc, DefaultConfig())
	require.NoError(t, err)

	require.NoError(t, book.CommitFlights())
	count, err := doc.RowCount("FlightLogGlider")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
