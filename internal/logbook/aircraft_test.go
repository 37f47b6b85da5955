package logbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAircraftCatalog(t *testing.T) {
	existing := [][]string{
		{"ASK 21", "D-1234"},
		{"Duo Discus", "D-5678"},
	}
	c := NewAircraftCatalog(existing)
	assert.Equal(t, 3, c.Anchor(), "pending batch starts after the last existing row")

	assert.False(t, c.Add("ASK 21", "D-1234"), "known registration is a no-op")
	assert.False(t, c.Add("ASK 21", "d-1234"), "registration uniqueness is case-insensitive")
	assert.False(t, c.Add("Unknown", ""), "empty registration is ignored")

	assert.True(t, c.Add("LS4", "D-9012"))
	assert.False(t, c.Add("LS4", "D-9012"), "pending registrations count as known")
	assert.Equal(t, [][]string{{"LS4", "D-9012"}}, c.Pending())
}

func TestAircraftCatalog_ClearAdvancesAnchor(t *testing.T) {
	c := NewAircraftCatalog([][]string{{"ASK 21", "D-1234"}})
	c.Add("LS4", "D-9012")
	c.Add("LS8", "D-3456")
	assert.Equal(t, 2, c.Anchor())

	c.clear()
	assert.Empty(t, c.Pending())
	assert.Equal(t, 4, c.Anchor())
}

func TestAircraftCatalog_IgnoresRowsWithoutRegistration(t *testing.T) {
	c := NewAircraftCatalog([][]string{{"header only"}, {"ASK 21", "D-1234"}})
	assert.True(t, c.Add("LS4", "D-9012"))
	assert.False(t, c.Add("ASK 21", "D-1234"))
}
