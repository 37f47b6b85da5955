package source

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// pgFlight mirrors the migrated flight_time schema.
type pgFlight struct {
	DateFlown  any           `db:"date_flown"`
	LaunchTime any           `db:"launch_time"`
	LandTime   any           `db:"land_time"`
	P1         int64         `db:"p1"`
	P2         sql.NullInt64 `db:"p2"`
	GliderID   sql.NullInt64 `db:"glider_id"`
	GliderType sql.NullInt64 `db:"glider_type_id"`
}

// ReadPostgres loads a snapshot from a club that migrated the legacy
// database to Postgres. The schema is the migrated one (snake_case names);
// the semantics match ReadSQLite exactly.
func ReadPostgres(ctx context.Context, dsn string) (*Snapshot, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect club database: %w", err)
	}
	defer db.Close()

	snap := &Snapshot{
		Registrations: map[int64]string{},
		Models:        map[int64]string{},
		Members:       map[int64]string{},
	}

	if err := readPGPairs(ctx, db, `SELECT auto_id, registration FROM glider_details`, snap.Registrations); err != nil {
		return nil, fmt.Errorf("read glider details: %w", err)
	}
	if err := readPGPairs(ctx, db, `SELECT type_id, model FROM glider_types`, snap.Models); err != nil {
		return nil, fmt.Errorf("read glider types: %w", err)
	}
	if err := readPGPairs(ctx, db, `SELECT member_id, name FROM members`, snap.Members); err != nil {
		return nil, fmt.Errorf("read members: %w", err)
	}

	var flights []pgFlight
	err = db.SelectContext(ctx, &flights, `
		SELECT date_flown, launch_time, land_time, p1, p2, glider_id, glider_type_id
		FROM flight_time
	`)
	if err != nil {
		return nil, fmt.Errorf("read flight time: %w", err)
	}

	for _, r := range flights {
		f := Flight{
			Date:       r.DateFlown,
			Launch:     r.LaunchTime,
			Land:       r.LandTime,
			P1:         r.P1,
			GliderID:   r.GliderID.Int64,
			GliderType: r.GliderType.Int64,
		}
		if r.P2.Valid {
			v := r.P2.Int64
			f.P2 = &v
		}
		snap.Flights = append(snap.Flights, f)
	}
	return snap, nil
}

func readPGPairs(ctx context.Context, db *sqlx.DB, query string, dest map[int64]string) error {
	rows, err := db.QueryxContext(ctx, query)
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
