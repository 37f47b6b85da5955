package logbook

import "strings"

// AircraftCatalog tracks the registrations already known to a logbook's
// aircraft sheet plus the batch staged for this run.
//
// Registrations are case-insensitively unique across the union of known and
// pending entries; re-adding one is a no-op, never an error.
type AircraftCatalog struct {
	known   map[string]struct{}
	pending [][]string // {model, registration}
	anchor  int        // 1-based row the pending batch starts at
}

// NewAircraftCatalog indexes the existing sheet rows. Column A is the
// model, column B the registration.
func NewAircraftCatalog(existing [][]string) *AircraftCatalog {
	c := &AircraftCatalog{
		known:  make(map[string]struct{}, len(existing)),
		anchor: len(existing) + 1,
	}
	for _, row := range existing {
		if reg := cell(row, 1); reg != "" {
			c.known[strings.ToLower(reg)] = struct{}{}
		}
	}
	return c
}

// Add stages a model/registration pair unless the registration is already
// known or pending. Empty registrations are ignored.
func (c *AircraftCatalog) Add(model, registration string) bool {
	if registration == "" {
		return false
	}
	key := strings.ToLower(registration)
	if _, dup := c.known[key]; dup {
		return false
	}
	c.known[key] = struct{}{}
	c.pending = append(c.pending, []string{model, registration})
	return true
}

// Pending returns the staged rows in insertion order.
func (c *AircraftCatalog) Pending() [][]string {
	return c.pending
}

// Anchor is the 1-based sheet row the pending batch will be written at.
func (c *AircraftCatalog) Anchor() int {
	return c.anchor
}

// clear drops the staged batch after a successful commit and advances the
// anchor past the written rows.
func (c *AircraftCatalog) clear() {
	c.anchor += len(c.pending)
	c.pending = nil
}
