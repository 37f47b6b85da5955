package syncer

import (
	"sync"

	"github.com/google/uuid"
)

// TokenGenerator produces run tokens correlating all log lines and report
// rows of one sync run.
// Implemented by UUIDv7Tokens (production) and FixedTokens (tests).
type TokenGenerator interface {
	Generate() string
}

// UUIDv7Tokens generates time-sortable UUIDv7 run tokens, so tokens sort by
// run start time in log aggregation.
//
// Thread-safety: stateless, safe for concurrent use.
type UUIDv7Tokens struct{}

// Generate returns a new hyphenated UUIDv7 string.
func (UUIDv7Tokens) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedTokens returns predetermined tokens in order, enabling deterministic
// report output in tests and golden comparisons.
type FixedTokens struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

// NewFixedTokens creates a generator that yields tokens in order and panics
// once exhausted.
func NewFixedTokens(tokens ...string) *FixedTokens {
	return &FixedTokens{tokens: tokens}
}

// Generate returns the next predetermined token.
func (g *FixedTokens) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.idx >= len(g.tokens) {
		panic("FixedTokens: all tokens exhausted")
	}
	t := g.tokens[g.idx]
	g.idx++
	return t
}
