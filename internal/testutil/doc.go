// Package testutil provides shared test helpers for cmwatch.
//
// # Fixtures
//
// The fixtures.go file provides sample build documents and snapshots:
//
//   - SampleBuildJSON, SampleBuildListJSON - API responses as the build API sends them
//   - SampleSnapshot() - a finished build with artifacts
//   - SampleSnapshots() - one build per status, newest first
//
// # Environment Helpers
//
// The env.go file sets up the files and variables commands read:
//
//   - SetupTestDir(t) - creates a temp directory with a .cmwatch directory
//   - WriteConfig(t, dir, yaml) - writes .cmwatch/config.yaml
//   - WriteEnvFile(t, dir, vars) - writes .cmwatch/.env
//   - LookupFrom(vars) - an os.LookupEnv replacement backed by a map
//   - StartFakeAPI(t) - serves the fake build API on an httptest server
//
// # Assertions
//
// The assertions.go file provides custom assertions:
//
//   - AssertStatus(t, snap, status) - checks a snapshot's normalized status
//   - AssertContainsInOrder(t, output, parts...) - checks output ordering
//   - AssertCount(t, output, part, n) - checks how often a line appears
//
// # Usage
//
//	func TestSomething(t *testing.T) {
//	    api := testutil.StartFakeAPI(t)
//	    id := api.Server.AddBuild(fakeapi.BuildSpec{Workflow: "ios", Branch: "main"})
//	    env := testutil.LookupFrom(api.Env())
//	    // ... run test ...
//	}
package testutil
