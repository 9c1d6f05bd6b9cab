package config

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DirName is the per-project configuration directory.
const DirName = ".cmwatch"

// Default values for Config.
const (
	DefaultBaseURL         = "https://api.codemagic.io"
	DefaultAuthHeader      = "x-auth-token"
	DefaultTimeout         = 30 * time.Second
	DefaultMonitorInterval = 5 * time.Second
	DefaultWatchInterval   = 30 * time.Second
	DefaultListLimit       = 10
	DefaultWatchLimit      = 5
)

// Precondition failures reported before any network call.
var (
	ErrMissingToken = errors.New(EnvAPIToken + " not set")
	ErrMissingAppID = errors.New(EnvAppID + " not set")
)

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		API: API{
			BaseURL:    DefaultBaseURL,
			AuthHeader: DefaultAuthHeader,
			Timeout:    DefaultTimeout,
		},
		Polling: Polling{
			MonitorInterval: DefaultMonitorInterval,
			WatchInterval:   DefaultWatchInterval,
			ListLimit:       DefaultListLimit,
			WatchLimit:      DefaultWatchLimit,
		},
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// LoadConfig reads and parses .cmwatch/config.yaml from the given base path.
// If the file doesn't exist, returns default config.
// Applies defaults for any missing fields.
func LoadConfig(basePath string) (*Config, error) {
	configPath := filepath.Join(basePath, DirName, "config.yaml")

	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ValidateConfig checks that all config values are valid.
func ValidateConfig(cfg *Config) error {
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ValidationError{Field: "api.base_url", Message: "must be an absolute URL"}
	}
	if strings.TrimSpace(cfg.API.AuthHeader) == "" {
		return ValidationError{Field: "api.auth_header", Message: "required field is empty"}
	}
	if cfg.API.Timeout <= 0 {
		return ValidationError{Field: "api.timeout", Message: "must be positive"}
	}
	if cfg.Polling.MonitorInterval <= 0 {
		return ValidationError{Field: "polling.monitor_interval", Message: "must be positive"}
	}
	if cfg.Polling.WatchInterval <= 0 {
		return ValidationError{Field: "polling.watch_interval", Message: "must be positive"}
	}
	if cfg.Polling.ListLimit <= 0 {
		return ValidationError{Field: "polling.list_limit", Message: "must be positive"}
	}
	if cfg.Polling.WatchLimit <= 0 {
		return ValidationError{Field: "polling.watch_limit", Message: "must be positive"}
	}
	return nil
}

// LoadEnvFile parses a .cmwatch/.env file into a map of key-value pairs.
// The file format is KEY=VALUE per line. Lines starting with # are comments.
// Empty lines are ignored. A missing file yields an empty map.
func LoadEnvFile(basePath string) (map[string]string, error) {
	envPath := filepath.Join(basePath, DirName, ".env")

	file, err := os.Open(envPath)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("failed to open env file: %w", err)
	}
	defer file.Close()

	env := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("invalid env file line %d: missing '='", lineNum)
		}
		key = strings.TrimSpace(key)
		value = unquote(strings.TrimSpace(value))

		if key == "" {
			return nil, fmt.Errorf("invalid env file line %d: empty key", lineNum)
		}

		env[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read env file: %w", err)
	}

	return env, nil
}

func unquote(value string) string {
	if len(value) >= 2 {
		if (value[0] == '"' && value[len(value)-1] == '"') ||
			(value[0] == '\'' && value[len(value)-1] == '\'') {
			return value[1 : len(value)-1]
		}
	}
	return value
}

// Environment is the merged view of .cmwatch/.env and the process
// environment. Process variables win over the file.
type Environment map[string]string

// LoadEnvironment merges the env file under basePath with the variables
// visible through lookup (normally os.LookupEnv).
func LoadEnvironment(basePath string, lookup func(string) (string, bool)) (Environment, error) {
	fileEnv, err := LoadEnvFile(basePath)
	if err != nil {
		return nil, err
	}

	env := Environment(fileEnv)
	for _, key := range []string{EnvAPIToken, EnvAppID, EnvBaseURL} {
		if v, ok := lookup(key); ok && v != "" {
			env[key] = v
		}
	}
	return env, nil
}

// Apply overlays environment overrides onto cfg.
func (e Environment) Apply(cfg *Config) error {
	if v := e[EnvBaseURL]; v != "" {
		cfg.API.BaseURL = strings.TrimSuffix(v, "/")
	}
	if v := e[EnvAppID]; v != "" {
		cfg.AppID = v
	}
	return ValidateConfig(cfg)
}

// Credentials returns the token and app ID from the environment, falling
// back to the app ID in cfg.
func (e Environment) Credentials(cfg *Config) Credentials {
	creds := Credentials{
		Token: e[EnvAPIToken],
		AppID: e[EnvAppID],
	}
	if creds.AppID == "" && cfg != nil {
		creds.AppID = cfg.AppID
	}
	return creds
}

// Validate reports a missing token or app ID.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return ErrMissingToken
	}
	if strings.TrimSpace(c.AppID) == "" {
		return ErrMissingAppID
	}
	return nil
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// IsMissingCredentials checks if an error is a missing token or app ID.
func IsMissingCredentials(err error) bool {
	return errors.Is(err, ErrMissingToken) || errors.Is(err, ErrMissingAppID)
}
