package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/msgmap/packages/builtin"
	"github.com/abdul-hamid-achik/msgmap/packages/core/config"
	"github.com/abdul-hamid-achik/msgmap/packages/core/env"
	"github.com/abdul-hamid-achik/msgmap/packages/messagemap"
)

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

// logOutput is where setupLogging pointed the default logger, so config
// settings applied later can reinstall it on the same writer.
var logOutput io.Writer = os.Stderr

func setupLogging(cmd *cobra.Command, _ []string) error {
	logOutput = cmd.ErrOrStderr()
	slog.SetDefault(newLogger(logOutput, verboseFlag))
	if noColorFlag {
		color.NoColor = true
	}
	return nil
}

func newLogger(w io.Writer, verbosity int) *slog.Logger {
	level := slog.LevelInfo
	if verbosity > 0 {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func reportError(w io.Writer, err error) {
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	fmt.Fprintf(w, "%s %v\n", red("error:"), err)
}

// slogWarn adapts the default logger to env.WarnFunc.
func slogWarn(format string, args ...any) {
	slog.Warn(fmt.Sprintf(format, args...))
}

// loadSettings reads the config file and applies flag overrides.
func loadSettings(overrides *config.Config) (*config.Config, error) {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, withExitCode(ExitConfigError, err)
	}
	cfg = cfg.Merge(overrides)
	if noColorFlag {
		cfg.NoColor = config.BoolPtr(true)
	}
	if cfg.GetNoColor() {
		color.NoColor = true
	}
	if verboseFlag == 0 && cfg.GetVerbose() {
		slog.SetDefault(newLogger(logOutput, 1))
	}
	return cfg, nil
}

// parseVars parses repeated NAME=VALUE flags.
func parseVars(pairs []string) (map[string]any, error) {
	vars := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, withExitCode(ExitUsageError, fmt.Errorf("invalid --var %q: expected NAME=VALUE", p))
		}
		vars[k] = v
	}
	return vars, nil
}

// newMessageMap builds a fresh map seeded from, in increasing precedence, the
// config variables, the env file, prefixed OS variables and flag variables.
// Reserved keys in any source are ignored with a warning.
func newMessageMap(cfg *config.Config, flagVars map[string]any) (*messagemap.Map, error) {
	sources := []map[string]any{cfg.Variables}

	if cfg.EnvFile != "" {
		dotenv, err := env.LoadDotEnv(cfg.EnvFile)
		if err != nil {
			return nil, withExitCode(ExitConfigError, err)
		}
		sources = append(sources, env.StringValues(dotenv))
	}
	if cfg.EnvPrefix != "" {
		sources = append(sources, env.LoadSystemEnv(cfg.EnvPrefix))
	}
	sources = append(sources, flagVars)

	m := messagemap.New()
	for _, name := range env.Seed(m, env.MergeVariables(sources...)) {
		slog.Warn("ignoring variable with reserved name", "name", name)
	}
	slog.Debug("message map seeded", "entries", m.Len())
	return m, nil
}

func newResolver(m *messagemap.Map) *env.Resolver {
	return env.NewResolver(m, env.WithRegistry(builtin.NewRegistry()), env.WithWarnFunc(slogWarn))
}
