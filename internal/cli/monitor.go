package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/thruflo/cmwatch/internal/build"
	"github.com/thruflo/cmwatch/internal/poll"
)

var (
	monitorInterval time.Duration
	monitorNotify   bool
	monitorExitCode bool
)

var monitorCmd = &cobra.Command{
	Use:   "monitor <build-id>",
	Short: "Follow a build until it finishes",
	Long: `Polls a single build and redraws a status panel until the build
succeeds, fails or is canceled. When output is not a terminal one line is
printed per poll instead.

The first failed request ends monitoring; there is no retry. Ctrl+C stops
monitoring without affecting the build.

Example:
  cmwatch monitor 64f1c0ffee
  cmwatch monitor 64f1c0ffee --interval 10s --notify`,
	Args: cobra.ExactArgs(1),
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().DurationVar(&monitorInterval, "interval", 0, "Poll interval (default from config, 5s)")
	monitorCmd.Flags().BoolVar(&monitorNotify, "notify", false, "Send a desktop notification when the build finishes")
	monitorCmd.Flags().BoolVar(&monitorExitCode, "exit-code", false, "Exit non-zero unless the build succeeds")
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	id := args[0]

	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	interval, err := flagOr(cmd, "interval", monitorInterval, s.cfg.Polling.MonitorInterval)
	if err != nil {
		return err
	}
	if monitorNotify {
		s.console.EnableDesktopNotifications()
	}

	ctx, stop := interruptContext(cmd)
	defer stop()

	m := &poll.Monitor{
		Source:   s.client,
		Renderer: s.console.Monitor(),
		Interval: interval,
		Sleep:    pollSleep,
		Logger:   s.logger,
	}

	snap, err := m.Run(ctx, id)
	if poll.Stopped(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to monitor build %s: %w", id, err)
	}

	if monitorExitCode && snap.Status != build.StatusSucceeded {
		return fmt.Errorf("build %s %s", id, snap.DisplayStatus())
	}
	return nil
}
