package build

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBuild_Complete(t *testing.T) {
	data := []byte(`{
		"id": "5f1a",
		"status": "finished",
		"workflow": {"name": "ios-release"},
		"branch": "main",
		"startedAt": "2026-01-16T10:00:00.000Z",
		"finishedAt": "2026-01-16T10:02:05Z",
		"duration": 125,
		"message": "Bump version",
		"artifacts": [
			{"name": "app.ipa", "size": 1048576},
			{"name": "symbols.zip", "size": "2048"}
		]
	}`)

	snap, err := DecodeBuild(data)
	require.NoError(t, err)

	assert.Equal(t, "5f1a", snap.ID)
	assert.Equal(t, StatusSucceeded, snap.Status)
	assert.Equal(t, "finished", snap.RawStatus)
	assert.Equal(t, "ios-release", snap.Workflow)
	assert.Equal(t, "main", snap.Branch)
	require.NotNil(t, snap.StartedAt)
	assert.Equal(t, time.Date(2026, 1, 16, 10, 0, 0, 0, time.UTC), snap.StartedAt.UTC())
	require.NotNil(t, snap.FinishedAt)
	require.NotNil(t, snap.Duration)
	assert.Equal(t, 125*time.Second, *snap.Duration)
	assert.Equal(t, "Bump version", snap.Message)
	assert.Equal(t, []Artifact{
		{Name: "app.ipa", Size: 1048576},
		{Name: "symbols.zip", Size: 2048},
	}, snap.Artifacts)
}

func TestDecodeBuild_Wrapped(t *testing.T) {
	snap, err := DecodeBuild([]byte(`{"application": {"_id": "app"}, "build": {"_id": "b-9", "status": "building"}}`))
	require.NoError(t, err)

	assert.Equal(t, "b-9", snap.ID)
	assert.Equal(t, StatusRunning, snap.Status)
}

func TestDecodeBuild_MissingOptionalFields(t *testing.T) {
	snap, err := DecodeBuild([]byte(`{"id": "b-1", "status": "queued"}`))
	require.NoError(t, err)

	assert.Equal(t, StatusPending, snap.Status)
	assert.Empty(t, snap.Workflow)
	assert.Empty(t, snap.Branch)
	assert.Nil(t, snap.StartedAt)
	assert.Nil(t, snap.FinishedAt)
	assert.Nil(t, snap.Duration)
	assert.Nil(t, snap.Artifacts)
	assert.Empty(t, snap.Message)
}

func TestDecodeBuild_MalformedOptionalFields(t *testing.T) {
	data := []byte(`{
		"id": 42,
		"status": "exploded",
		"workflow": ["not", "an", "object"],
		"workflowId": "fallback-workflow",
		"branch": null,
		"startedAt": "yesterday",
		"duration": "soon",
		"message": {"text": "nested"},
		"artifacts": [7, {"name": "ok.apk", "size": 1.5}, "junk"]
	}`)

	snap, err := DecodeBuild(data)
	require.NoError(t, err)

	assert.Equal(t, "42", snap.ID)
	assert.Equal(t, StatusUnknown, snap.Status)
	assert.Equal(t, "exploded", snap.RawStatus)
	assert.Equal(t, "fallback-workflow", snap.Workflow)
	assert.Empty(t, snap.Branch)
	assert.Nil(t, snap.StartedAt)
	assert.Nil(t, snap.Duration)
	assert.Empty(t, snap.Message)
	assert.Equal(t, []Artifact{{Name: "ok.apk", Size: 1}}, snap.Artifacts)
}

func TestDecodeBuild_NegativeDurationIgnored(t *testing.T) {
	snap, err := DecodeBuild([]byte(`{"id": "b", "duration": -5}`))
	require.NoError(t, err)
	assert.Nil(t, snap.Duration)
}

func TestDecodeBuild_DurationOutOfRangeIgnored(t *testing.T) {
	for _, raw := range []string{`1e300`, `9300000000`, `"NaN"`, `"Inf"`} {
		snap, err := DecodeBuild([]byte(`{"id": "b", "duration": ` + raw + `}`))
		require.NoError(t, err)
		assert.Nil(t, snap.Duration, "duration %s", raw)
	}

	snap, err := DecodeBuild([]byte(`{"id": "b", "duration": 9000000000}`))
	require.NoError(t, err)
	require.NotNil(t, snap.Duration)
	assert.Equal(t, 9000000000*time.Second, *snap.Duration)
}

func TestDecodeBuild_ArtifactSizes(t *testing.T) {
	snap, err := DecodeBuild([]byte(`{
		"id": "b",
		"artifacts": [
			{"name": "float.ipa", "size": 1024.0},
			{"name": "exp.apk", "size": 2e3},
			{"name": "text.zip", "size": " 512 "},
			{"name": "negative.bin", "size": -1},
			{"name": "huge.bin", "size": 1e30}
		]
	}`))
	require.NoError(t, err)

	assert.Equal(t, []Artifact{
		{Name: "float.ipa", Size: 1024},
		{Name: "exp.apk", Size: 2000},
		{Name: "text.zip", Size: 512},
		{Name: "negative.bin", Size: 0},
		{Name: "huge.bin", Size: 0},
	}, snap.Artifacts)
}

func TestDecodeBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `<html>`},
		{"array", `[1, 2]`},
		{"null", `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBuild([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestDecodeBuildList(t *testing.T) {
	data := []byte(`{"builds": [
		{"_id": "b-3", "status": "building"},
		"garbage",
		{"_id": "b-2", "status": "finished", "duration": 60}
	]}`)

	builds, skipped, err := DecodeBuildList(data)
	require.NoError(t, err)

	assert.Equal(t, 1, skipped)
	require.Len(t, builds, 2)
	assert.Equal(t, "b-3", builds[0].ID)
	assert.Equal(t, "b-2", builds[1].ID)
	assert.Equal(t, StatusSucceeded, builds[1].Status)
}

func TestDecodeBuildList_Empty(t *testing.T) {
	builds, skipped, err := DecodeBuildList([]byte(`{"builds": []}`))
	require.NoError(t, err)
	assert.Empty(t, builds)
	assert.Zero(t, skipped)
}

func TestDecodeBuildList_MissingArray(t *testing.T) {
	_, _, err := DecodeBuildList([]byte(`{"items": []}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing builds array")
}
