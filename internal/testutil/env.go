package testutil

import (
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thruflo/cmwatch/internal/config"
	"github.com/thruflo/cmwatch/internal/fakeapi"
)

// Credentials accepted by StartFakeAPI.
const (
	TestToken = "test-token"
	TestAppID = "test-app"
)

// SetupTestDir creates a temporary directory containing an empty .cmwatch
// directory. The directory is removed when the test completes.
func SetupTestDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, config.DirName), 0o755))
	return dir
}

// WriteConfig writes content to .cmwatch/config.yaml under dir.
func WriteConfig(t *testing.T, dir, content string) {
	t.Helper()
	WriteTestFile(t, dir, filepath.Join(config.DirName, "config.yaml"), content)
}

// WriteEnvFile writes vars to .cmwatch/.env under dir, sorted by key.
func WriteEnvFile(t *testing.T, dir string, vars map[string]string) {
	t.Helper()

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("# written by test\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%q\n", k, vars[k])
	}
	WriteTestFile(t, dir, filepath.Join(config.DirName, ".env"), b.String())
}

// WriteTestFile writes content to path relative to base, creating parent
// directories.
func WriteTestFile(t *testing.T, base, path, content string) {
	t.Helper()

	full := filepath.Join(base, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

// LookupFrom returns an os.LookupEnv replacement that only sees vars.
func LookupFrom(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

// FakeAPI is a fake build API running on an httptest server.
type FakeAPI struct {
	Server *fakeapi.Server
	URL    string
}

// StartFakeAPI starts a fake build API that accepts TestToken for TestAppID.
// The server is closed when the test completes.
func StartFakeAPI(t *testing.T, opts ...fakeapi.Option) *FakeAPI {
	t.Helper()

	srv := fakeapi.New(TestToken, TestAppID, opts...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &FakeAPI{Server: srv, URL: ts.URL}
}

// Env returns the environment variables that point cmwatch at the fake.
func (f *FakeAPI) Env() map[string]string {
	return map[string]string{
		config.EnvAPIToken: TestToken,
		config.EnvAppID:    TestAppID,
		config.EnvBaseURL:  f.URL,
	}
}
