// Package syncer runs the per-member synchronization pipeline.
//
// Execution is single-threaded and sequential across members: each member's
// full pipeline (filter, normalize, dedup, commit, watermark advance) runs
// to completion before the next member starts. A member's failure is
// recorded and the run continues; only a cancelled context stops the loop,
// and it stops between members, never mid-member.
package syncer

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/mkarpov/skybook/internal/logbook"
	"github.com/mkarpov/skybook/internal/members"
	"github.com/mkarpov/skybook/internal/sheet"
	"github.com/mkarpov/skybook/internal/source"
	"github.com/mkarpov/skybook/internal/temporal"
)

// Config carries the run-wide settings. Everything here is explicit
// configuration; the engine reads no environment state.
type Config struct {
	// PlaceName fills both place columns of every written row; the club
	// operates from a single airfield.
	PlaceName string

	// DefaultLaunchType fills the launch-type column.
	DefaultLaunchType string

	// Book describes the logbook sheet layout conventions.
	Book logbook.Config

	// ClockPolicy decides whether an unparseable time cell passes through
	// verbatim or fails the member.
	ClockPolicy temporal.ClockPolicy
}

// MemberResult is the per-member outcome of one run.
type MemberResult struct {
	ClubID        int64  `json:"club_id"`
	Name          string `json:"name"`
	Examined      int    `json:"examined"`
	Added         int    `json:"added"`
	AircraftAdded int    `json:"aircraft_added"`
	Watermark     string `json:"watermark,omitempty"`

	// Error mirrors Err for serialized reports.
	Error string `json:"error,omitempty"`
	Err   error  `json:"-"`
}

// Report summarizes one run.
type Report struct {
	RunToken string         `json:"run_token"`
	Results  []MemberResult `json:"results"`
}

// Failed returns the results that carry an error.
func (r *Report) Failed() []MemberResult {
	var out []MemberResult
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// Syncer drives a full sync run over an immutable snapshot.
type Syncer struct {
	snap     *source.Snapshot
	registry *members.Registry
	opener   sheet.Opener
	cfg      Config
	tokens   TokenGenerator
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithTokenGenerator overrides the run-token source. Tests use FixedTokens
// for deterministic reports.
func WithTokenGenerator(g TokenGenerator) Option {
	return func(s *Syncer) {
		s.tokens = g
	}
}

// New creates a Syncer over an already-loaded snapshot and registry.
// Loading either is the caller's problem: a load failure aborts the run
// before any member is touched, which is exactly the boundary New sits on.
func New(snap *source.Snapshot, registry *members.Registry, opener sheet.Opener, cfg Config, opts ...Option) *Syncer {
	s := &Syncer{
		snap:     snap,
		registry: registry,
		opener:   opener,
		cfg:      cfg,
		tokens:   UUIDv7Tokens{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run processes every registry member in order and returns the per-member
// report. The only error Run itself returns is context cancellation,
// checked between members; per-member failures live in the report.
func (s *Syncer) Run(ctx context.Context) (*Report, error) {
	token := s.tokens.Generate()
	log := slog.With("run", token)
	report := &Report{RunToken: token}

	log.Info("sync run starting", "members", len(s.registry.Members), "flights", len(s.snap.Flights))

	for _, m := range s.registry.Members {
		if err := ctx.Err(); err != nil {
			log.Info("sync run cancelled", "completed", len(report.Results))
			return report, err
		}

		res := s.syncMember(log, m)
		if res.Err != nil {
			res.Error = res.Err.Error()
		}
		report.Results = append(report.Results, res)

		if res.Err != nil {
			log.Error("member sync failed",
				"member", m.Name,
				"club_id", m.ClubID,
				"rows", res.Added,
				"error", res.Err,
			)
			continue
		}
		log.Info("member synced",
			"member", m.Name,
			"club_id", m.ClubID,
			"examined", res.Examined,
			"added", res.Added,
			"aircraft_added", res.AircraftAdded,
			"watermark", res.Watermark,
		)
	}

	log.Info("sync run finished", "members", len(report.Results), "failed", len(report.Failed()))
	return report, nil
}

// candidate is a flight with its temporal fields already normalized.
type candidate struct {
	date   string
	launch string
	land   string
	flight source.Flight
}

func (s *Syncer) syncMember(log *slog.Logger, m *members.Member) MemberResult {
	res := MemberResult{ClubID: m.ClubID, Name: m.Name, Watermark: m.SyncDate}

	cands, err := s.candidates(log, m)
	if err != nil {
		res.Err = err
		return res
	}
	if len(cands) == 0 {
		return res
	}

	doc, err := s.opener.Open(m.SpreadsheetKey)
	if err != nil {
		res.Err = fmt.Errorf("open logbook document: %w", err)
		return res
	}
	book, err := logbook.Open(doc, s.cfg.Book)
	if err != nil {
		res.Err = fmt.Errorf("load logbook state: %w", err)
		return res
	}

	lastExamined := ""
	for _, c := range cands {
		registration := s.snap.Registrations[c.flight.GliderID]
		model := s.snap.Models[c.flight.GliderType]
		p2 := s.snap.SecondPilotName(c.flight.P2)

		book.AddAircraft(model, registration)

		row := logbook.Row{
			Date:           c.date,
			DeparturePlace: s.cfg.PlaceName,
			DepartureTime:  c.launch,
			ArrivalPlace:   s.cfg.PlaceName,
			ArrivalTime:    c.land,
			Registration:   registration,
			LaunchType:     s.cfg.DefaultLaunchType,
			Landings:       1,
			P1:             s.snap.PilotName(c.flight.P1),
			P2:             p2,
			Instructor:     logbook.InstructorFlag(book.Profile(), c.date, p2),
		}
		if book.AddFlight(row) {
			res.Added++
		}
		res.Examined++
		lastExamined = c.date
	}

	if res.Added == 0 {
		return res
	}

	res.AircraftAdded = book.StagedAircraft()
	if err := book.CommitAircraft(); err != nil {
		res.Err = err
		res.AircraftAdded = 0
		return res
	}
	if err := book.CommitFlights(); err != nil {
		res.Err = err
		return res
	}

	// The watermark records the last flight examined, not the last one
	// accepted: everything up to lastExamined is now either written or a
	// known duplicate, so the next run may skip it entirely.
	m.AdvanceSyncDate(lastExamined)
	res.Watermark = m.SyncDate

	if err := s.registry.Save(); err != nil {
		// The ledger write already happened; this is the accepted
		// non-atomic seam. The next run re-examines and deduplicates.
		res.Err = fmt.Errorf("persist watermark: %w", err)
	}
	return res
}

// candidates selects, normalizes, filters and orders a member's flights.
func (s *Syncer) candidates(log *slog.Logger, m *members.Member) ([]candidate, error) {
	flights := s.snap.ForMember(m.ClubID)
	cands := make([]candidate, 0, len(flights))

	for _, f := range flights {
		date, err := temporal.NormalizeDate(f.Date, temporal.DefaultDateLayout)
		if err != nil {
			// A flight without a usable date can never be placed or
			// fingerprinted; it is skipped, not fatal.
			log.Warn("skipping flight with unusable date",
				"member", m.Name, "raw", fmt.Sprint(f.Date))
			continue
		}
		launch, err := temporal.Clock(f.Launch, s.cfg.ClockPolicy)
		if err != nil {
			return nil, fmt.Errorf("launch time: %w", err)
		}
		land, err := temporal.Clock(f.Land, s.cfg.ClockPolicy)
		if err != nil {
			return nil, fmt.Errorf("landing time: %w", err)
		}

		if m.SyncDate != "" && date < m.SyncDate {
			continue
		}
		cands = append(cands, candidate{date: date, launch: launch, land: land, flight: f})
	}

	// Fixed total order, independent of the destination ledger's own sort
	// direction: watermark advancement must be monotonic either way.
	slices.SortStableFunc(cands, func(a, b candidate) int {
		if c := cmp.Compare(a.date, b.date); c != 0 {
			return c
		}
		if c := cmp.Compare(a.launch, b.launch); c != 0 {
			return c
		}
		return cmp.Compare(a.land, b.land)
	})
	return cands, nil
}
