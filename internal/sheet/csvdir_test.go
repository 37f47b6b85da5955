package sheet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestOpenDir_LoadsEverySheet(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "Fleet.csv", "ASK 21,D-1234\nLS4,D-5678\n")
	writeCSV(t, dir, "Flights.csv", "Date,From\n2024-05-03,Fieldtown\n")
	writeCSV(t, dir, "notes.txt", "not a sheet")

	doc, err := OpenDir(dir)
	require.NoError(t, err)

	rows, err := doc.ReadAllRows("Fleet")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"ASK 21", "D-1234"}, {"LS4", "D-5678"}}, rows)

	got, err := doc.ReadCell("Flights", "A2")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-03", got)

	_, err = doc.ReadAllRows("notes")
	assert.Error(t, err, "non-csv files are not sheets")
}

func TestDirDocument_WritesThrough(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "Fleet.csv", "ASK 21,D-1234\n")

	doc, err := OpenDir(dir)
	require.NoError(t, err)

	require.NoError(t, doc.AppendRows("Fleet", 1))
	require.NoError(t, doc.WriteRange("Fleet", "A2", [][]string{{"LS4", "D-5678"}}, Templated))

	// A fresh open sees the mutation: every write hit the file.
	reopened, err := OpenDir(dir)
	require.NoError(t, err)
	rows, err := reopened.ReadAllRows("Fleet")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"ASK 21", "D-1234"}, {"LS4", "D-5678"}}, rows)
}

func TestDirDocument_InsertShiftsRowsInFile(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "Flights.csv", "Date,From\n2024-05-03,Fieldtown\n")

	doc, err := OpenDir(dir)
	require.NoError(t, err)
	require.NoError(t, doc.InsertBlankRows("Flights", 1, 2))
	require.NoError(t, doc.WriteRange("Flights", "A2", [][]string{{"2024-05-04", "Fieldtown"}}, Literal))

	reopened, err := OpenDir(dir)
	require.NoError(t, err)
	rows, err := reopened.ReadAllRows("Flights")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Date", "From"},
		{"2024-05-04", "Fieldtown"},
		{"2024-05-03", "Fieldtown"},
	}, rows)
}

func TestDirDocument_CapacityEnforced(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "Flights.csv", "Date,From\n")

	doc, err := OpenDir(dir)
	require.NoError(t, err)
	err = doc.WriteRange("Flights", "A2", [][]string{{"2024-05-03", "Fieldtown"}}, Literal)
	assert.Error(t, err, "writes past the grid must grow it first")
}

func TestDirOpener_ResolvesKeysToSubdirectories(t *testing.T) {
	root := t.TempDir()
	memberDir := filepath.Join(root, "key-bob")
	require.NoError(t, os.Mkdir(memberDir, 0o755))
	writeCSV(t, memberDir, "Fleet.csv", "ASK 21,D-1234\n")

	doc, err := DirOpener{Root: root}.Open("key-bob")
	require.NoError(t, err)
	got, err := doc.ReadCell("Fleet", "B1")
	require.NoError(t, err)
	assert.Equal(t, "D-1234", got)

	_, err = DirOpener{Root: root}.Open("key-missing")
	assert.Error(t, err)
}
