// Package source loads the club's flight-time snapshot.
//
// The snapshot is read fully, once, at the start of a run and treated as
// immutable afterwards. Two backends exist: the SQLite export of the legacy
// club database (table names kept verbatim from the Access days) and a
// Postgres schema for clubs that migrated.
package source

// Flight is one row of the club flight-time table.
//
// Date, Launch and Land stay exactly as the driver produced them (native
// time, text, or nil) - normalization is the sync engine's job, and drivers
// disagree about how the legacy export renders timestamps.
type Flight struct {
	Date       any
	Launch     any
	Land       any
	P1         int64
	P2         *int64
	GliderID   int64
	GliderType int64
}

// HiddenName replaces a second pilot whose id has no row in the member
// table: a guest or a member removed from the roster. The name must stay
// stable because it participates in written rows.
const HiddenName = "<hidden>"

// Snapshot is the immutable in-memory image of the source tables.
type Snapshot struct {
	Flights       []Flight
	Registrations map[int64]string // glider id -> registration code
	Models        map[int64]string // glider type id -> model name
	Members       map[int64]string // member id -> display name
}

// ForMember returns the flights where the member appears in either pilot
// slot, in snapshot order.
func (s *Snapshot) ForMember(id int64) []Flight {
	var out []Flight
	for _, f := range s.Flights {
		if f.P1 == id || (f.P2 != nil && *f.P2 == id) {
			out = append(out, f)
		}
	}
	return out
}

// PilotName resolves a first-pilot id; unknown ids resolve to "".
func (s *Snapshot) PilotName(id int64) string {
	return s.Members[id]
}

// SecondPilotName resolves an optional second-pilot id. A missing id means
// a solo flight (""); an id absent from the member table resolves to
// HiddenName.
func (s *Snapshot) SecondPilotName(id *int64) string {
	if id == nil {
		return ""
	}
	if name, ok := s.Members[*id]; ok {
		return name
	}
	return HiddenName
}
