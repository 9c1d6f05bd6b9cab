package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/thruflo/cmwatch/internal/poll"
)

var (
	watchInterval time.Duration
	watchLimit    int
	watchNotify   bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch for new builds",
	Long: `Refreshes the table of recent builds at a fixed interval and rings the
terminal bell when a new build appears at the top of the list.

Example:
  cmwatch watch
  cmwatch watch -i 1m -n 10 --notify`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVarP(&watchInterval, "interval", "i", 0, "Refresh interval (default from config, 30s)")
	watchCmd.Flags().IntVarP(&watchLimit, "limit", "n", 0, "Number of builds to show (default from config, 5)")
	watchCmd.Flags().BoolVar(&watchNotify, "notify", false, "Also send a desktop notification for new builds")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	interval, err := flagOr(cmd, "interval", watchInterval, s.cfg.Polling.WatchInterval)
	if err != nil {
		return err
	}
	limit, err := flagOr(cmd, "limit", watchLimit, s.cfg.Polling.WatchLimit)
	if err != nil {
		return err
	}
	if watchNotify {
		s.console.EnableDesktopNotifications()
	}

	ctx, stop := interruptContext(cmd)
	defer stop()

	w := &poll.Watcher{
		Lister:   s.client,
		Renderer: s.console.Watch(),
		Interval: interval,
		Limit:    limit,
		Sleep:    pollSleep,
		Logger:   s.logger,
	}

	err = w.Run(ctx)
	if err == nil || poll.Stopped(err) {
		return nil
	}
	return fmt.Errorf("failed to watch builds: %w", err)
}
