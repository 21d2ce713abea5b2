package usecase

import (
	"strconv"
	"time"
)

// RootKeyPrefix prefixes root keys generated for user submissions.
const RootKeyPrefix = "CNP"

// TimestampRootKeyGenerator builds root keys of the form CNP<unix-millis>.
type TimestampRootKeyGenerator struct {
	now func() time.Time
}

// NewTimestampRootKeyGenerator creates a generator backed by the wall clock.
func NewTimestampRootKeyGenerator() *TimestampRootKeyGenerator {
	return &TimestampRootKeyGenerator{now: time.Now}
}

// Generate returns a root key for the current instant.
func (g *TimestampRootKeyGenerator) Generate() string {
	return RootKeyPrefix + strconv.FormatInt(g.now().UnixMilli(), 10)
}
