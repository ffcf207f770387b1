package fstx

import (
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time retrieval so journal records are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator abstracts unique ID generation so tests are deterministic.
// Generated IDs name backup artifacts, so they must be collision-resistant
// across any plausible concurrent use of the same temp directory.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }
