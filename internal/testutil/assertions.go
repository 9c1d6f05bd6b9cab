package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thruflo/cmwatch/internal/build"
)

// AssertStatus asserts that a snapshot has the expected normalized status.
func AssertStatus(t *testing.T, snap *build.Snapshot, expected build.Status) {
	t.Helper()
	require.NotNil(t, snap, "snapshot is nil")
	assert.Equal(t, expected, snap.Status, "status mismatch (raw %q)", snap.RawStatus)
}

// AssertContainsInOrder asserts that output contains every part, each one
// after the previous.
func AssertContainsInOrder(t *testing.T, output string, parts ...string) {
	t.Helper()

	rest := output
	for _, part := range parts {
		i := strings.Index(rest, part)
		if !assert.GreaterOrEqual(t, i, 0, "missing %q in order; output:\n%s", part, output) {
			return
		}
		rest = rest[i+len(part):]
	}
}

// AssertCount asserts that part appears exactly n times in output.
func AssertCount(t *testing.T, output, part string, n int) {
	t.Helper()
	assert.Equal(t, n, strings.Count(output, part), "count of %q; output:\n%s", part, output)
}
