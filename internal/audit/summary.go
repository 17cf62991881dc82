package audit

import (
	"time"

	"github.com/hekmon/cunits/v2"
)

// Summary is the aggregate outcome of one run, built on the aggregation
// goroutine and handed to reporting once processing ends.
type Summary struct {
	RunID       string
	CatalogPath string
	StartedAt   time.Time
	FinishedAt  time.Time

	GroupsTotal   int
	GroupsPresent int
	EntriesTotal  int

	FilesScanned  int
	SkippedMarked int

	Placed               int
	Duplicates           int
	Unknowns             int
	InputErrors          int
	VerificationFailures int

	CacheHits   uint64
	CacheMisses uint64
	BytesHashed int64

	EmptyDirsRemoved int
	Interrupted      bool

	DuplicateDir string
	UnknownDir   string
}

// GroupsMissing returns how many catalog groups have no placed member.
func (s *Summary) GroupsMissing() int {
	return s.GroupsTotal - s.GroupsPresent
}

// Duration returns the wall-clock span of the run.
func (s *Summary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// HashedSize renders the hashed byte volume in human units.
func (s *Summary) HashedSize() string {
	return cunits.ImportInByte(float64(s.BytesHashed)).String()
}
