package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, base, name, content string) {
	t.Helper()
	dir := filepath.Join(base, DirName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func lookupFrom(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestLoadConfig_Default(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, DefaultAuthHeader, cfg.API.AuthHeader)
	assert.Equal(t, DefaultTimeout, cfg.API.Timeout)
	assert.Equal(t, DefaultMonitorInterval, cfg.Polling.MonitorInterval)
	assert.Equal(t, DefaultWatchInterval, cfg.Polling.WatchInterval)
	assert.Equal(t, DefaultListLimit, cfg.Polling.ListLimit)
	assert.Equal(t, DefaultWatchLimit, cfg.Polling.WatchLimit)
}

func TestLoadConfig_ValidFile(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeConfigFile(t, tmpDir, "config.yaml", `api:
  base_url: https://ci.example.com
  auth_header: Authorization
  timeout: 10s
polling:
  monitor_interval: 2s
  watch_interval: 1m
  list_limit: 20
  watch_limit: 3
app_id: app-123
`)

	cfg, err := LoadConfig(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "https://ci.example.com", cfg.API.BaseURL)
	assert.Equal(t, "Authorization", cfg.API.AuthHeader)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, 2*time.Second, cfg.Polling.MonitorInterval)
	assert.Equal(t, time.Minute, cfg.Polling.WatchInterval)
	assert.Equal(t, 20, cfg.Polling.ListLimit)
	assert.Equal(t, 3, cfg.Polling.WatchLimit)
	assert.Equal(t, "app-123", cfg.AppID)
}

func TestLoadConfig_PartialFile(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeConfigFile(t, tmpDir, "config.yaml", `polling:
  watch_interval: 45s
`)

	cfg, err := LoadConfig(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, 45*time.Second, cfg.Polling.WatchInterval)
	assert.Equal(t, DefaultMonitorInterval, cfg.Polling.MonitorInterval)
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeConfigFile(t, tmpDir, "config.yaml", "api: [")

	_, err := LoadConfig(tmpDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		content   string
		wantField string
	}{
		{"relative base url", "api:\n  base_url: /builds\n", "api.base_url"},
		{"empty auth header", "api:\n  auth_header: \" \"\n", "api.auth_header"},
		{"zero timeout", "api:\n  timeout: 0s\n", "api.timeout"},
		{"negative monitor interval", "polling:\n  monitor_interval: -1s\n", "polling.monitor_interval"},
		{"zero watch interval", "polling:\n  watch_interval: 0s\n", "polling.watch_interval"},
		{"zero list limit", "polling:\n  list_limit: 0\n", "polling.list_limit"},
		{"negative watch limit", "polling:\n  watch_limit: -2\n", "polling.watch_limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tmpDir := t.TempDir()
			writeConfigFile(t, tmpDir, "config.yaml", tt.content)

			_, err := LoadConfig(tmpDir)
			require.Error(t, err)
			require.True(t, IsValidationError(err))

			var ve ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestLoadEnvFile_Valid(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeConfigFile(t, tmpDir, ".env", `# Codemagic credentials
CODEMAGIC_API_TOKEN="secret-token"
export CODEMAGIC_APP_ID='app-1'

CODEMAGIC_BASE_URL = https://ci.example.com/
`)

	env, err := LoadEnvFile(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		EnvAPIToken: "secret-token",
		EnvAppID:    "app-1",
		EnvBaseURL:  "https://ci.example.com/",
	}, env)
}

func TestLoadEnvFile_NotFound(t *testing.T) {
	t.Parallel()

	env, err := LoadEnvFile(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, env)
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"missing equals", "CODEMAGIC_API_TOKEN\n", "line 1: missing '='"},
		{"empty key", "# comment\n=value\n", "line 2: empty key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tmpDir := t.TempDir()
			writeConfigFile(t, tmpDir, ".env", tt.content)

			_, err := LoadEnvFile(tmpDir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadEnvFile_ValueWithEquals(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeConfigFile(t, tmpDir, ".env", "CODEMAGIC_API_TOKEN=abc==\n")

	env, err := LoadEnvFile(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "abc==", env[EnvAPIToken])
}

func TestLoadEnvironment_ProcessOverridesFile(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeConfigFile(t, tmpDir, ".env", "CODEMAGIC_API_TOKEN=from-file\nCODEMAGIC_APP_ID=file-app\n")

	env, err := LoadEnvironment(tmpDir, lookupFrom(map[string]string{
		EnvAPIToken: "from-process",
		EnvAppID:    "",
	}))
	require.NoError(t, err)

	assert.Equal(t, "from-process", env[EnvAPIToken])
	assert.Equal(t, "file-app", env[EnvAppID], "empty process value should not clear the file value")
}

func TestEnvironment_Apply(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	env := Environment{
		EnvBaseURL: "http://127.0.0.1:8080/",
		EnvAppID:   "env-app",
	}

	require.NoError(t, env.Apply(&cfg))
	assert.Equal(t, "http://127.0.0.1:8080", cfg.API.BaseURL)
	assert.Equal(t, "env-app", cfg.AppID)
}

func TestEnvironment_ApplyInvalidBaseURL(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	err := Environment{EnvBaseURL: "not a url"}.Apply(&cfg)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestEnvironment_Credentials(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.AppID = "config-app"

	creds := Environment{EnvAPIToken: "tok"}.Credentials(&cfg)
	assert.Equal(t, Credentials{Token: "tok", AppID: "config-app"}, creds)

	creds = Environment{EnvAPIToken: "tok", EnvAppID: "env-app"}.Credentials(&cfg)
	assert.Equal(t, "env-app", creds.AppID)
}

func TestCredentials_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		creds   Credentials
		wantErr error
	}{
		{"complete", Credentials{Token: "tok", AppID: "app"}, nil},
		{"missing token", Credentials{AppID: "app"}, ErrMissingToken},
		{"blank token", Credentials{Token: "  ", AppID: "app"}, ErrMissingToken},
		{"missing app id", Credentials{Token: "tok"}, ErrMissingAppID},
		{"missing both reports token first", Credentials{}, ErrMissingToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.creds.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsMissingCredentials(err))
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	err := ValidationError{Field: "api.timeout", Message: "must be positive"}
	assert.Equal(t, "validation error: api.timeout: must be positive", err.Error())
}

func TestIsValidationError(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidationError(ValidationError{Field: "f", Message: "m"}))
	assert.False(t, IsValidationError(errors.New("other")))
	assert.False(t, IsValidationError(nil))
}
