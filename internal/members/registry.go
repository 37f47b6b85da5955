// Package members maintains the club member registry: who owns which
// logbook spreadsheet, and how far each logbook has been synchronized.
package members

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mkarpov/skybook/internal/temporal"
)

// Member is one registry entry.
type Member struct {
	// ClubID matches the member id used by the flight-time table.
	ClubID int64 `yaml:"club_id" json:"club_id"`

	Name string `yaml:"name" json:"name"`

	// SpreadsheetKey identifies the member's logbook document.
	SpreadsheetKey string `yaml:"spreadsheet_key" json:"spreadsheet_key"`

	// SyncDate is the watermark: the latest flight date already examined
	// for this member, ISO formatted. Empty means never synced. Once set
	// it only moves forward.
	SyncDate string `yaml:"sync_date,omitempty" json:"sync_date,omitempty"`
}

// AdvanceSyncDate moves the watermark forward to date. Moves backward are
// silently refused; the watermark is monotonic by contract.
func (m *Member) AdvanceSyncDate(date string) bool {
	if date == "" || date < m.SyncDate {
		return false
	}
	m.SyncDate = date
	return true
}

// Registry is the loaded member list plus the file it came from.
type Registry struct {
	path    string
	Members []*Member
}

type registryFile struct {
	Members []*Member `yaml:"members"`
}

// Load reads and validates the registry file. A registry that fails to
// load aborts the whole run before any member is processed.
func Load(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read member registry: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse member registry: %w", err)
	}

	seen := make(map[int64]struct{}, len(file.Members))
	for i, m := range file.Members {
		if m.ClubID <= 0 {
			return nil, fmt.Errorf("member %d: club_id is required", i+1)
		}
		if _, dup := seen[m.ClubID]; dup {
			return nil, fmt.Errorf("member %d: duplicate club_id %d", i+1, m.ClubID)
		}
		seen[m.ClubID] = struct{}{}
		if m.Name == "" {
			return nil, fmt.Errorf("member %d: name is required", i+1)
		}
		if m.SpreadsheetKey == "" {
			return nil, fmt.Errorf("member %q: spreadsheet_key is required", m.Name)
		}
		if m.SyncDate != "" {
			t, err := time.Parse(temporal.DefaultDateLayout, m.SyncDate)
			if err != nil {
				return nil, fmt.Errorf("member %q: sync_date %q: %w", m.Name, m.SyncDate, err)
			}
			m.SyncDate = t.Format(temporal.DefaultDateLayout)
		}
	}

	return &Registry{path: path, Members: file.Members}, nil
}

// Rebind points Save at a different file. Dry runs rebind to a throwaway
// path so watermark advances never reach the real registry.
func (r *Registry) Rebind(path string) {
	r.path = path
}

// Save rewrites the registry file with the current watermarks.
func (r *Registry) Save() error {
	raw, err := yaml.Marshal(registryFile{Members: r.Members})
	if err != nil {
		return fmt.Errorf("encode member registry: %w", err)
	}
	if err := os.WriteFile(r.path, raw, 0o644); err != nil {
		return fmt.Errorf("write member registry: %w", err)
	}
	return nil
}
