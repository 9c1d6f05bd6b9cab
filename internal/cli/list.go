package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listLimit int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent builds",
	Long: `Lists the most recent builds of the app, newest first, with status,
workflow, branch, start time and duration.

Example:
  cmwatch list
  cmwatch list -n 25`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "Number of builds to show (default from config, 10)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	limit, err := flagOr(cmd, "limit", listLimit, s.cfg.Polling.ListLimit)
	if err != nil {
		return err
	}

	ctx, stop := interruptContext(cmd)
	defer stop()

	builds, err := s.client.ListBuilds(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list builds: %w", err)
	}

	s.console.PrintBuilds(builds)
	return nil
}
