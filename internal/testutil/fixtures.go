package testutil

import (
	"time"

	"github.com/thruflo/cmwatch/internal/build"
)

// SampleBuildJSON is a finished build as returned by GET /builds/{id}.
const SampleBuildJSON = `{
  "build": {
    "_id": "5f1e2d3c4b5a69788796a5b4",
    "status": "finished",
    "workflow": {"name": "ios-release"},
    "branch": "main",
    "startedAt": "2024-03-01T10:00:00Z",
    "finishedAt": "2024-03-01T10:02:05Z",
    "duration": 125,
    "artifacts": [
      {"name": "app.ipa", "size": 52428800},
      {"name": "app.dSYM.zip", "size": 1048576}
    ]
  }
}`

// SampleBuildListJSON is a response of GET /builds with one build per
// broad status and one malformed entry.
const SampleBuildListJSON = `{
  "builds": [
    {"_id": "b4", "status": "building", "workflow": {"name": "android"}, "branch": "feature/login", "startedAt": "2024-03-01T11:00:00Z", "duration": 42},
    {"_id": "b3", "status": "queued", "workflow": {"name": "android"}, "branch": "main"},
    "not a build",
    {"_id": "b2", "status": "failed", "workflow": {"name": "ios-release"}, "branch": "main", "startedAt": "2024-03-01T09:00:00Z", "duration": 3700, "message": "Tests failed"},
    {"_id": "b1", "status": "canceled", "workflow": {"name": "ios-release"}, "branch": "main"}
  ]
}`

// SampleSnapshot returns the snapshot SampleBuildJSON decodes to.
func SampleSnapshot() *build.Snapshot {
	started := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	finished := started.Add(125 * time.Second)
	duration := 125 * time.Second

	return &build.Snapshot{
		ID:         "5f1e2d3c4b5a69788796a5b4",
		Status:     build.StatusSucceeded,
		RawStatus:  "finished",
		Workflow:   "ios-release",
		Branch:     "main",
		StartedAt:  &started,
		FinishedAt: &finished,
		Duration:   &duration,
		Artifacts: []build.Artifact{
			{Name: "app.ipa", Size: 52428800},
			{Name: "app.dSYM.zip", Size: 1048576},
		},
	}
}

// SampleSnapshots returns one snapshot per status, newest first. Returns a
// new slice each time to prevent test interference.
func SampleSnapshots() []build.Snapshot {
	statuses := []struct {
		raw    string
		status build.Status
	}{
		{"building", build.StatusRunning},
		{"queued", build.StatusPending},
		{"finished", build.StatusSucceeded},
		{"failed", build.StatusFailed},
		{"canceled", build.StatusCanceled},
		{"mystery", build.StatusUnknown},
	}

	snaps := make([]build.Snapshot, len(statuses))
	for i, s := range statuses {
		snaps[i] = build.Snapshot{
			ID:        "build-" + s.raw,
			Status:    s.status,
			RawStatus: s.raw,
			Workflow:  "ios-release",
			Branch:    "main",
		}
	}
	return snaps
}
