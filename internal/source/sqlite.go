package source

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// ReadSQLite loads a snapshot from a SQLite export of the club database.
// Table and column names are the legacy ones, preserved verbatim by the
// export tooling.
func ReadSQLite(ctx context.Context, path string) (*Snapshot, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open club database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("connect club database: %w", err)
	}
	// Read-only workload; just keep lock waits bounded.
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("configure club database: %w", err)
	}

	snap := &Snapshot{
		Registrations: map[int64]string{},
		Models:        map[int64]string{},
		Members:       map[int64]string{},
	}

	if err := readPairs(ctx, db, `SELECT AutoID, GliderID FROM tblGliderDetails`, snap.Registrations); err != nil {
		return nil, fmt.Errorf("read glider details: %w", err)
	}
	if err := readPairs(ctx, db, `SELECT TypeId, GliderType FROM TblGliderType`, snap.Models); err != nil {
		return nil, fmt.Errorf("read glider types: %w", err)
	}
	if err := readPairs(ctx, db, `SELECT MemberID, Name FROM tblMember`, snap.Members); err != nil {
		return nil, fmt.Errorf("read members: %w", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT DateFlown, LaunchTime, LandTime, P1, P2, GliderID, GliderType
		FROM tblFlightTime
	`)
	if err != nil {
		return nil, fmt.Errorf("read flight time: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			f          Flight
			p1, p2     sql.NullInt64
			gID, gType sql.NullInt64
		)
		if err := rows.Scan(&f.Date, &f.Launch, &f.Land, &p1, &p2, &gID, &gType); err != nil {
			return nil, fmt.Errorf("scan flight row: %w", err)
		}
		f.P1 = p1.Int64
		if p2.Valid {
			v := p2.Int64
			f.P2 = &v
		}
		f.GliderID = gID.Int64
		f.GliderType = gType.Int64
		snap.Flights = append(snap.Flights, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read flight time: %w", err)
	}
	return snap, nil
}

// readPairs fills an id -> label map from a two-column query. NULL labels
// are skipped rather than stored as empty strings.
func readPairs(ctx context.Context, db *sql.DB, query string, dest map[int64]string) error {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id    sql.NullInt64
			label sql.NullString
		)
		if err := rows.Scan(&id, &label); err != nil {
			return err
		}
		if id.Valid && label.Valid {
			dest[id.Int64] = label.String
		}
	}
	return rows.Err()
}
