// Package build models CI builds as reported by a Codemagic-style build API
// and provides the HTTP client used to fetch them.
package build

import (
	"strings"
	"time"
)

// Status is the normalized state of a build.
type Status string

// Build status values.
const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusCanceled  Status = "canceled"
	StatusUnknown   Status = "unknown"
)

// Terminal returns true if no further state change is expected.
func (s Status) Terminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusCanceled:
		return true
	default:
		return false
	}
}

// ParseStatus maps a status word reported by the API onto a Status.
// Unrecognized words map to StatusUnknown.
func ParseStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "queued", "preparing", "pending":
		return StatusPending
	case "building", "fetching", "testing", "finishing", "publishing", "running":
		return StatusRunning
	case "finished", "succeeded", "success":
		return StatusSucceeded
	case "failed", "timeout":
		return StatusFailed
	case "canceled", "cancelled":
		return StatusCanceled
	default:
		return StatusUnknown
	}
}

// Artifact is a named build output.
type Artifact struct {
	Name string
	Size int64 // bytes
}

// Snapshot is a point-in-time view of a build. Optional fields are nil or
// empty when the API omitted them or sent something unparseable.
type Snapshot struct {
	ID         string
	Status     Status
	RawStatus  string
	Workflow   string
	Branch     string
	StartedAt  *time.Time
	FinishedAt *time.Time
	Duration   *time.Duration
	Artifacts  []Artifact
	Message    string
}

// Terminal reports whether the snapshot's status is terminal.
func (s *Snapshot) Terminal() bool {
	return s != nil && s.Status.Terminal()
}

// DisplayStatus returns the API's own status word, falling back to the
// normalized status when the API sent none.
func (s *Snapshot) DisplayStatus() string {
	if s.RawStatus != "" {
		return s.RawStatus
	}
	return string(s.Status)
}
