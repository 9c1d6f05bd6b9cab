package cli

import (
	"github.com/spf13/cobra"
	"github.com/thruflo/cmwatch/internal/logging"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	verbose bool
	noColor bool
	baseDir string
)

var rootCmd = &cobra.Command{
	Use:   "cmwatch",
	Short: "Watch Codemagic builds from the terminal",
	Long: `cmwatch polls the Codemagic build API and renders build status in the
terminal: a table of recent builds, a live panel for a single build, or a
watch mode that rings the bell when a new build appears.

Credentials are read from CODEMAGIC_API_TOKEN and CODEMAGIC_APP_ID, either
in the environment or in .cmwatch/.env.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: applyGlobalFlags,
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("cmwatch version {{.Version}}\n")

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log API requests and other debug output to stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&baseDir, "dir", "", "Directory containing .cmwatch/ (default: current directory)")
}

func applyGlobalFlags(cmd *cobra.Command, args []string) error {
	if verbose {
		logging.SetLevel(logging.LevelDebug)
	} else {
		logging.SetLevel(logging.LevelWarn)
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
