package testutil

import (
	"fmt"
	"time"
)

// SequenceIDGenerator produces deterministic IDs "id-1", "id-2", ... for
// tests that need stable backup artifact names.
type SequenceIDGenerator struct {
	n int
}

func NewSequenceIDGenerator() *SequenceIDGenerator { return &SequenceIDGenerator{} }

func (g *SequenceIDGenerator) New() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

// FixedClock always returns the same instant.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }
