package cli

import (
	"github.com/spf13/cobra"
)

var detailsCmd = &cobra.Command{
	Use:   "details <build-id>",
	Short: "Show the full API document of a build",
	Long: `Fetches a single build and prints the document returned by the API,
indented, inside a panel. Useful for fields the other views don't show.

Example:
  cmwatch details 64f1c0ffee`,
	Args: cobra.ExactArgs(1),
	RunE: runDetails,
}

func init() {
	rootCmd.AddCommand(detailsCmd)
}

func runDetails(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	ctx, stop := interruptContext(cmd)
	defer stop()

	raw, err := s.client.GetBuildRaw(ctx, args[0])
	if err != nil {
		return err
	}

	return s.console.Details(raw)
}
