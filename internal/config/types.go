package config

import "time"

// API configures how the build API is reached.
type API struct {
	BaseURL    string        `yaml:"base_url"`
	AuthHeader string        `yaml:"auth_header"`
	Timeout    time.Duration `yaml:"timeout"`
}

// Polling configures the list, monitor, and watch commands.
type Polling struct {
	MonitorInterval time.Duration `yaml:"monitor_interval"`
	WatchInterval   time.Duration `yaml:"watch_interval"`
	ListLimit       int           `yaml:"list_limit"`
	WatchLimit      int           `yaml:"watch_limit"`
}

// Config represents the .cmwatch/config.yaml file.
type Config struct {
	API     API     `yaml:"api"`
	Polling Polling `yaml:"polling"`
	// AppID may also be supplied through CODEMAGIC_APP_ID, which wins.
	AppID string `yaml:"app_id,omitempty"`
}

// Credentials are the values every API call requires.
type Credentials struct {
	Token string
	AppID string
}

// Environment variable names.
const (
	EnvAPIToken = "CODEMAGIC_API_TOKEN"
	EnvAppID    = "CODEMAGIC_APP_ID"
	EnvBaseURL  = "CODEMAGIC_BASE_URL"
)
