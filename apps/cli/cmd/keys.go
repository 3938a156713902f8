package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/msgmap/packages/messagemap"
)

var (
	keysJSONFlag bool
	keysAllFlag  bool
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Show the reserved keys of a fresh message map",
	Long: `Show the reserved keys of a fresh message map and the value each one
resolves to. Live keys are read once, so the values shown are what the first
placeholder in a template would receive.

Examples:
  msgmap keys
  msgmap keys --all --json`,
	Args: cobra.NoArgs,
	RunE: keysCommand,
}

func init() {
	keysCmd.Flags().BoolVar(&keysJSONFlag, "json", false, "Print as JSON")
	keysCmd.Flags().BoolVar(&keysAllFlag, "all", false, "Include variables seeded from config and environment")
}

type keyEntry struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
	Kind  string `json:"kind"`
}

func keysCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(nil)
	if err != nil {
		return err
	}

	m := messagemap.New()
	if keysAllFlag {
		if m, err = newMessageMap(cfg, nil); err != nil {
			return err
		}
	}

	entries := collectKeys(m, keysAllFlag)
	if keysJSONFlag {
		return writeKeysJSON(cmd.OutOrStdout(), entries)
	}
	writeKeysConsole(cmd.OutOrStdout(), entries)
	return nil
}

func keyKind(key string) string {
	switch {
	case key == messagemap.KeyTimestamp:
		return "alias"
	case messagemap.IsLive(key):
		return "live"
	case messagemap.IsReserved(key):
		return "stable"
	}
	return "variable"
}

// collectKeys reads the reserved keys through Get, then, with all set, the
// remaining entries in key order.
func collectKeys(m *messagemap.Map, all bool) []keyEntry {
	var entries []keyEntry
	for _, k := range messagemap.ReservedKeys() {
		v, _ := m.Get(k)
		entries = append(entries, keyEntry{Key: k, Value: v, Kind: keyKind(k)})
	}
	if !all {
		return entries
	}
	m.Range(func(k string, v any) bool {
		if !messagemap.IsReserved(k) {
			entries = append(entries, keyEntry{Key: k, Value: v, Kind: keyKind(k)})
		}
		return true
	})
	return entries
}

func writeKeysJSON(w io.Writer, entries []keyEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding keys: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeKeysConsole(w io.Writer, entries []keyEntry) {
	bold := color.New(color.Bold).SprintFunc()
	kinds := map[string]func(a ...any) string{
		"live":     color.New(color.FgYellow).SprintFunc(),
		"stable":   color.New(color.FgGreen).SprintFunc(),
		"alias":    color.New(color.FgCyan).SprintFunc(),
		"variable": fmt.Sprint,
	}

	width := 0
	for _, e := range entries {
		width = max(width, len(e.Key))
	}
	for _, e := range entries {
		key := fmt.Sprintf("%-*s", width, e.Key)
		kind := fmt.Sprintf("%-8s", e.Kind)
		fmt.Fprintf(w, "%s  %s  %v\n", bold(key), kinds[e.Kind](kind), e.Value)
	}
}
