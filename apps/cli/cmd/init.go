package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/msgmap/packages/core/config"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a starter config and template",
	Long: `Create a starter msgmap setup in the given directory (default: current).

This creates:
  - .msgmap.yaml   - Configuration with example variables
  - event.json.tpl - Example template using every reserved key

Examples:
  msgmap init
  msgmap init ./templates --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

const exampleTemplate = `{
  "messageId": "{{uuid}}",
  "createdAt": {{initial_ts}},
  "source": "{{service}}",
  "events": [
    {"eventId": "{{dynamic_uuid}}", "at": {{current_ts}}},
    {"eventId": "{{dynamic_uuid}}", "at": {{current_ts}}}
  ],
  "batch": "{{uuid}}-{{timestamp}}",
  "checksum": "{{sha256(msgmap)}}"
}
`

func initCommand(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	configFile := filepath.Join(dir, ".msgmap.yaml")
	exampleFile := filepath.Join(dir, "event.json.tpl")

	if !forceInit {
		for _, f := range []string{configFile, exampleFile} {
			if _, err := os.Stat(f); err == nil {
				return withExitCode(ExitUsageError, fmt.Errorf("file already exists: %s (use --force to overwrite)", f))
			}
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	cfg.Variables = map[string]any{"service": "orders"}
	cfg.EnvPrefix = "MSGMAP_VAR_"
	if err := cfg.SaveConfig(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	if err := os.WriteFile(exampleFile, []byte(exampleTemplate), 0o644); err != nil {
		return fmt.Errorf("failed to create example template: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", exampleFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\nRun 'msgmap render %s' to expand the example.\n", exampleFile)
	return nil
}
