package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/thruflo/cmwatch/internal/build"
	"github.com/thruflo/cmwatch/internal/config"
	"github.com/thruflo/cmwatch/internal/logging"
	"github.com/thruflo/cmwatch/internal/poll"
	"github.com/thruflo/cmwatch/internal/render"
)

// lookupEnv reads process environment variables.
// It can be overridden in tests.
var lookupEnv = os.LookupEnv

// pollSleep waits between polls in monitor and watch.
// It can be overridden in tests.
var pollSleep poll.SleepFunc = poll.Sleep

// session holds what every API command needs: resolved configuration, a
// client with valid credentials, and a console bound to the command output.
type session struct {
	cfg     *config.Config
	client  *build.Client
	console *render.Console
	logger  *logging.Logger
}

// newSession loads configuration and credentials. Missing credentials are
// reported here, before any request is made.
func newSession(cmd *cobra.Command) (*session, error) {
	dir := baseDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		dir = cwd
	}

	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	env, err := config.LoadEnvironment(dir, lookupEnv)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}
	if err := env.Apply(cfg); err != nil {
		return nil, err
	}

	creds := env.Credentials(cfg)
	if err := creds.Validate(); err != nil {
		return nil, fmt.Errorf("%w (set it in the environment or in %s)", err, filepath.Join(config.DirName, ".env"))
	}

	logger := logging.Default()
	logger.Debug("Loaded configuration", "base_url", cfg.API.BaseURL, "app_id", creds.AppID)

	client := build.NewClientFromConfig(cfg, creds,
		build.WithLogger(logger),
		build.WithUserAgent("cmwatch/"+Version),
	)

	term := render.NewTerminal(cmd.OutOrStdout())
	if noColor {
		term.SetColor(false)
	}

	return &session{
		cfg:     cfg,
		client:  client,
		console: render.NewConsole(term),
		logger:  logger,
	}, nil
}

// interruptContext returns a context canceled on SIGINT or SIGTERM.
func interruptContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// flagOr returns the flag value when it was set on the command line and the
// configured fallback otherwise.
func flagOr[T int | time.Duration](cmd *cobra.Command, name string, value, fallback T) (T, error) {
	if !cmd.Flags().Changed(name) {
		return fallback, nil
	}
	if value <= 0 {
		return 0, fmt.Errorf("--%s must be positive", name)
	}
	return value, nil
}
