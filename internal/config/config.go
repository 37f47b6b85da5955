// Package config loads and validates the skybook run configuration.
//
// The config file is YAML for familiarity, but validation is delegated to
// an embedded CUE schema: the YAML is unified with #Config, which closes
// the struct, checks types and enum values, and supplies defaults.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"

	"github.com/mkarpov/skybook/internal/logbook"
	"github.com/mkarpov/skybook/internal/syncer"
	"github.com/mkarpov/skybook/internal/temporal"
)

//go:embed schema.cue
var schemaSource string

// Config is the decoded, validated run configuration.
type Config struct {
	PlaceName         string       `json:"place_name"`
	DefaultLaunchType string       `json:"default_launch_type"`
	MembersFile       string       `json:"members_file"`
	DocumentsDir      string       `json:"documents_dir"`
	Source            SourceConfig `json:"source"`
	Ledger            LedgerConfig `json:"ledger"`
	ClockPolicy       string       `json:"clock_policy"`
}

// SourceConfig selects the flight database backend. At least one field is
// set; when both are, SQLite wins (it is the local, explicit choice).
type SourceConfig struct {
	SQLitePath  string `json:"sqlite_path"`
	PostgresDSN string `json:"postgres_dsn"`
}

// LedgerConfig mirrors logbook.Config in file form.
type LedgerConfig struct {
	SummarySheet  string `json:"summary_sheet"`
	AircraftSheet string `json:"aircraft_sheet"`
	FlightSheet   string `json:"flight_sheet"`
	HeaderRows    int    `json:"header_rows"`
	DefaultSort   string `json:"default_sort"`
}

// Load reads path, validates it against the embedded schema and returns the
// decoded configuration with defaults applied.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(path, raw)
}

// Parse validates and decodes raw YAML config content. The filename only
// labels error positions.
func Parse(filename string, raw []byte) (*Config, error) {
	file, err := cueyaml.Extract(filename, raw)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("config schema: %s", cueerrors.Details(err, nil))
	}

	merged := schema.Unify(ctx.BuildFile(file))
	if err := merged.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("invalid config: %s", cueerrors.Details(err, nil))
	}

	var cfg Config
	if err := merged.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %s", cueerrors.Details(err, nil))
	}

	// CUE cannot express "at least one of" across optional fields without
	// making the error unreadable; check it here instead.
	if cfg.Source.SQLitePath == "" && cfg.Source.PostgresDSN == "" {
		return nil, fmt.Errorf("invalid config: source needs sqlite_path or postgres_dsn")
	}
	return &cfg, nil
}

// BookConfig converts the ledger section to the logbook layout config.
func (c *Config) BookConfig() logbook.Config {
	order := logbook.SortNewestFirst
	if c.Ledger.DefaultSort == "newest-last" {
		order = logbook.SortNewestLast
	}
	return logbook.Config{
		SummarySheet:  c.Ledger.SummarySheet,
		AircraftSheet: c.Ledger.AircraftSheet,
		FlightSheet:   c.Ledger.FlightSheet,
		HeaderRows:    c.Ledger.HeaderRows,
		DefaultOrder:  order,
	}
}

// Clock converts the clock_policy field to its temporal enum.
func (c *Config) Clock() temporal.ClockPolicy {
	if c.ClockPolicy == "strict" {
		return temporal.ClockStrict
	}
	return temporal.ClockPassThrough
}

// SyncerConfig assembles the full run configuration for the sync engine.
func (c *Config) SyncerConfig() syncer.Config {
	return syncer.Config{
		PlaceName:         c.PlaceName,
		DefaultLaunchType: c.DefaultLaunchType,
		Book:              c.BookConfig(),
		ClockPolicy:       c.Clock(),
	}
}
