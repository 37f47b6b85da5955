package logbook

// Profile is the member-owned metadata read from fixed cells of the
// summary sheet.
type Profile struct {
	PilotName      string
	Instructor     bool
	InstructorFrom string // ISO date the rating took effect; "" = not set
}

// InstructorFlag decides whether a flight counts as instructing for the
// logbook owner.
//
// The checks run in order: the owner must hold the rating, the flight must
// not predate the rating's effective date (an unset date disables the flag
// entirely), there must be a second pilot, and that pilot must not be the
// owner - a P2 equal to the owner's own name is a data-entry artifact, not
// an instruction flight.
//
// The result feeds the instructor-time formula column rather than a stored
// duration: the ledger stays recomputable from its raw time cells.
func InstructorFlag(p Profile, date, p2 string) bool {
	if !p.Instructor {
		return false
	}
	if p.InstructorFrom == "" || date < p.InstructorFrom {
		return false
	}
	if p2 == "" {
		return false
	}
	if p2 == p.PilotName {
		return false
	}
	return true
}
