package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	configFlag  string
	noColorFlag bool
	verboseFlag int
)

var rootCmd = &cobra.Command{
	Use:   "msgmap",
	Short: "Seed templates with stable and live ids and timestamps.",
	Long: `msgmap expands placeholder templates against a message map: a set of
variables pre-seeded with a per-run uuid, a per-read dynamic_uuid, and
millisecond timestamps (initial_ts, current_ts, timestamp).

Variables come from the config file, a .env file, prefixed environment
variables and --var flags.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

// Execute runs the CLI and exits with a code from exitcodes.go.
func Execute(ctx context.Context, v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		reportError(rootCmd.ErrOrStderr(), err)
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", getEnvString("MSGMAP_CONFIG", ""), "Path to config file (env: MSGMAP_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", getEnvBool("MSGMAP_NO_COLOR", false), "Disable colored output (env: MSGMAP_NO_COLOR)")
	rootCmd.PersistentFlags().CountVarP(&verboseFlag, "verbose", "v", "Verbose output (-v for debug logging)")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withExitCode(ExitUsageError, err)
	})

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(funcsCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

// minimumArgs is cobra.MinimumNArgs reporting ExitUsageError.
func minimumArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return withExitCode(ExitUsageError, cobra.MinimumNArgs(n)(cmd, args))
	}
}

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitRenderFailure
}
