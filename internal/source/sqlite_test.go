package source

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "club.sqlite")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	stmts := []string{
		`CREATE TABLE tblFlightTime (
			FlightID INTEGER PRIMARY KEY,
			DateFlown TEXT,
			LaunchTime TEXT,
			LandTime TEXT,
			P1 INTEGER,
			P2 INTEGER,
			GliderID INTEGER,
			GliderType INTEGER
		)`,
		`CREATE TABLE tblGliderDetails (AutoID INTEGER PRIMARY KEY, GliderID TEXT)`,
		`CREATE TABLE TblGliderType (TypeId INTEGER PRIMARY KEY, GliderType TEXT)`,
		`CREATE TABLE tblMember (MemberID INTEGER PRIMARY KEY, Name TEXT)`,

		`INSERT INTO tblGliderDetails VALUES (1, 'D-1234'), (2, 'D-5678')`,
		`INSERT INTO TblGliderType VALUES (1, 'ASK 21'), (2, 'LS4')`,
		`INSERT INTO tblMember VALUES (101, 'Bob Carver'), (102, 'Alice Reed')`,

		`INSERT INTO tblFlightTime VALUES
			(1, '2024-05-01 00:00:00', '2024-05-01 09:15:00', '2024-05-01 10:05:00', 101, 102, 1, 1),
			(2, '2024-05-02 00:00:00', '2024-05-02 11:00:00', NULL, 102, NULL, 2, 2)`,
	}
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return path
}

func TestReadSQLite(t *testing.T) {
	snap, err := ReadSQLite(context.Background(), writeTestDB(t))
	require.NoError(t, err)

	require.Len(t, snap.Flights, 2)

	first := snap.Flights[0]
	assert.Equal(t, int64(101), first.P1)
	require.NotNil(t, first.P2)
	assert.Equal(t, int64(102), *first.P2)
	assert.Equal(t, int64(1), first.GliderID)

	second := snap.Flights[1]
	assert.Nil(t, second.P2, "NULL P2 means a solo flight")
	assert.Nil(t, second.Land, "NULL landing time survives as nil")

	assert.Equal(t, map[int64]string{1: "D-1234", 2: "D-5678"}, snap.Registrations)
	assert.Equal(t, map[int64]string{1: "ASK 21", 2: "LS4"}, snap.Models)
	assert.Equal(t, map[int64]string{101: "Bob Carver", 102: "Alice Reed"}, snap.Members)
}

func TestReadSQLite_MissingFile(t *testing.T) {
	// The sqlite driver creates missing files, so the failure surfaces at
	// query time - either way the snapshot load must error out.
	_, err := ReadSQLite(context.Background(), filepath.Join(t.TempDir(), "absent", "club.sqlite"))
	assert.Error(t, err)
}
