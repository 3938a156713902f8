package env

import (
	"os"
	"sort"
	"strings"

	"github.com/abdul-hamid-achik/msgmap/packages/messagemap"
)

// MergeVariables merges sources left to right; later sources win.
func MergeVariables(sources ...map[string]any) map[string]any {
	result := make(map[string]any)
	for _, src := range sources {
		for k, v := range src {
			result[k] = v
		}
	}
	return result
}

// LoadSystemEnv returns OS environment variables whose name starts with
// prefix, with the prefix stripped. An empty prefix returns everything.
func LoadSystemEnv(prefix string) map[string]any {
	result := make(map[string]any)
	for _, e := range os.Environ() {
		key, value, ok := strings.Cut(e, "=")
		if !ok {
			continue
		}
		if prefix == "" {
			result[key] = value
			continue
		}
		if name, ok := strings.CutPrefix(key, prefix); ok && name != "" {
			result[name] = value
		}
	}
	return result
}

// StringValues converts a string map for use with MergeVariables.
func StringValues(in map[string]string) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Seed writes vars into m. Reserved keys in vars are skipped so seeding never
// replaces the identity and time values a map was constructed with; it
// returns the skipped names.
func Seed(m *messagemap.Map, vars map[string]any) []string {
	var skipped []string
	clean := make(map[string]any, len(vars))
	for k, v := range vars {
		if messagemap.IsReserved(k) {
			skipped = append(skipped, k)
			continue
		}
		clean[k] = v
	}
	m.PutAll(clean)
	sort.Strings(skipped)
	return skipped
}
