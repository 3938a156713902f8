package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/msgmap/packages/core/config"
	"github.com/abdul-hamid-achik/msgmap/packages/templating"
)

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	varFlags      []string
	envFileFlag   string
	envPrefixFlag string
	outFlag       string
	startTagFlag  string
	endTagFlag    string
	strictFlag    bool
	watchFlag     bool
)

var renderCmd = &cobra.Command{
	Use:   "render <template...>",
	Short: "Expand templates against a fresh message map",
	Long: `Expand one or more templates. All templates in one run share a single
message map, so {{uuid}} and {{initial_ts}} are identical across files while
every {{dynamic_uuid}} and {{current_ts}} occurrence gets a fresh value.

Examples:
  msgmap render event.json.tpl
  msgmap render event.json.tpl -o event.json --var tenant=acme
  msgmap render a.tpl b.tpl --env-file .env --strict
  msgmap render event.json.tpl -o event.json --watch`,
	Args: minimumArgs(1),
	RunE: renderCommand,
}

func init() {
	renderCmd.Flags().StringArrayVar(&varFlags, "var", nil, "Set a variable NAME=VALUE (repeatable)")
	renderCmd.Flags().StringVar(&envFileFlag, "env-file", getEnvString("MSGMAP_ENV_FILE", ""), "Path to .env file with variables (env: MSGMAP_ENV_FILE)")
	renderCmd.Flags().StringVar(&envPrefixFlag, "env-prefix", getEnvString("MSGMAP_ENV_PREFIX", ""), "Import OS environment variables with this prefix (env: MSGMAP_ENV_PREFIX)")
	renderCmd.Flags().StringVarP(&outFlag, "out", "o", "", "Write output to file (single template only, default: stdout)")
	renderCmd.Flags().StringVar(&startTagFlag, "start-tag", "", "Placeholder start delimiter (default \"{{\")")
	renderCmd.Flags().StringVar(&endTagFlag, "end-tag", "", "Placeholder end delimiter (default \"}}\")")
	renderCmd.Flags().BoolVar(&strictFlag, "strict", getEnvBool("MSGMAP_STRICT", false), "Fail on unresolved placeholders (env: MSGMAP_STRICT)")
	renderCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch templates for changes and re-render")
}

type renderOptions struct {
	templates []string
	outPath   string
	vars      map[string]any
	cfg       *config.Config
}

func renderCommand(cmd *cobra.Command, args []string) error {
	if outFlag != "" && len(args) > 1 {
		return withExitCode(ExitUsageError, errors.New("--out requires a single template"))
	}

	vars, err := parseVars(varFlags)
	if err != nil {
		return err
	}

	overrides := &config.Config{
		EnvFile:   envFileFlag,
		EnvPrefix: envPrefixFlag,
		StartTag:  startTagFlag,
		EndTag:    endTagFlag,
	}
	if cmd.Flags().Changed("strict") || strictFlag {
		overrides.Strict = config.BoolPtr(strictFlag)
	}

	cfg, err := loadSettings(overrides)
	if err != nil {
		return err
	}

	opts := renderOptions{templates: args, outPath: outFlag, vars: vars, cfg: cfg}

	if err := runRender(cmd.OutOrStdout(), opts); err != nil {
		if !watchFlag {
			return err
		}
		reportError(cmd.ErrOrStderr(), err)
	}

	if !watchFlag {
		return nil
	}
	return watchTemplates(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
}

// runRender expands every template against one freshly seeded message map.
func runRender(stdout io.Writer, opts renderOptions) error {
	m, err := newMessageMap(opts.cfg, opts.vars)
	if err != nil {
		return err
	}

	en := templating.NewEngine(newResolver(m))
	en.StartTag = opts.cfg.StartTag
	en.EndTag = opts.cfg.EndTag
	en.Strict = opts.cfg.GetStrict()
	en.Warn = slogWarn
	en.Stdout = stdout

	for _, tpl := range opts.templates {
		if err := en.ExpandFile(tpl, opts.outPath); err != nil {
			return withExitCode(ExitRenderFailure, err)
		}
		slog.Debug("rendered template", "template", tpl, "out", opts.outPath)
	}
	return nil
}

// watchTemplates re-renders whenever one of the templates is written, until
// ctx is cancelled.
func watchTemplates(ctx context.Context, stdout, stderr io.Writer, opts renderOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool)
	targets := make(map[string]bool)
	for _, tpl := range opts.templates {
		abs, err := filepath.Abs(tpl)
		if err != nil {
			return err
		}
		targets[abs] = true

		dir := filepath.Dir(abs)
		if watched[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		watched[dir] = true
	}

	status := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintln(stderr, status("Watching for changes... (press Ctrl+C to stop)"))

	// Renders run on this goroutine only, so they never overlap.
	debounce := time.NewTimer(WatchDebounceDelay)
	debounce.Stop()
	defer debounce.Stop()

	var fire <-chan time.Time
	var changed string

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isTemplateWrite(event, targets) {
				continue
			}
			changed = event.Name
			debounce.Reset(WatchDebounceDelay)
			fire = debounce.C

		case <-fire:
			fire = nil
			fmt.Fprintf(stderr, "%s %s\n", status("changed:"), changed)
			if err := runRender(stdout, opts); err != nil {
				reportError(stderr, err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			reportError(stderr, fmt.Errorf("watcher error: %w", err))
		}
	}
}

func isTemplateWrite(event fsnotify.Event, targets map[string]bool) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return targets[abs]
}
