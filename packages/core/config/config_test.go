package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "{{", cfg.StartTag)
	assert.Equal(t, "}}", cfg.EndTag)
	assert.False(t, cfg.GetStrict())
	assert.False(t, cfg.GetNoColor())
	assert.False(t, cfg.GetVerbose())
	assert.True(t, cfg.IsDefault())
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".msgmap.yaml", `
variables:
  service: billing
  retries: 3
  owner:
    team: core
envFile: .env.local
envPrefix: MSG_
startTag: "${"
endTag: "}"
strict: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "billing", cfg.Variables["service"])
	assert.Equal(t, 3, cfg.Variables["retries"])
	assert.Equal(t, map[string]any{"team": "core"}, cfg.Variables["owner"])
	assert.Equal(t, ".env.local", cfg.EnvFile)
	assert.Equal(t, "MSG_", cfg.EnvPrefix)
	assert.Equal(t, "${", cfg.StartTag)
	assert.Equal(t, "}", cfg.EndTag)
	assert.True(t, cfg.GetStrict())
	assert.False(t, cfg.IsDefault())
}

func TestLoadConfig_JSONKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".msgmap.json", `{"noColor": true}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.GetNoColor())
	assert.Equal(t, DefaultStartTag, cfg.StartTag)
	assert.Equal(t, DefaultEndTag, cfg.EndTag)
}

func TestLoadConfig_EmptyFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "msgmap.yaml", "")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.IsDefault())
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		schema  bool
	}{
		{name: "reserved variable", content: "variables:\n  uuid: fixed\n", schema: true},
		{name: "bad env prefix", content: "envPrefix: 1-BAD\n", schema: true},
		{name: "empty start tag", content: "startTag: \"\"\n", schema: true},
		{name: "unknown field", content: "colour: red\n"},
		{name: "wrong type", content: "strict: [1]\n"},
		{name: "malformed yaml", content: "variables: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), ".msgmap.yaml", tt.content)

			_, err := LoadConfig(path)
			require.Error(t, err)
			if tt.schema {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFindAndLoadConfig(t *testing.T) {
	t.Run("none found", func(t *testing.T) {
		cfg, err := FindAndLoadConfig(t.TempDir())
		require.NoError(t, err)
		assert.True(t, cfg.IsDefault())
	})

	t.Run("search order", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, ".msgmap.json", `{"envPrefix": "JSON_"}`)
		writeFile(t, dir, ".msgmap.yml", "envPrefix: YML_\n")

		cfg, err := FindAndLoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "YML_", cfg.EnvPrefix)
	})
}

func TestMerge(t *testing.T) {
	base := &Config{
		Variables: map[string]any{"a": 1, "b": 2},
		EnvPrefix: "BASE_",
		StartTag:  "{{",
		EndTag:    "}}",
		Strict:    BoolPtr(true),
	}
	override := &Config{
		Variables: map[string]any{"b": 20, "c": 30},
		StartTag:  "<%",
		EndTag:    "%>",
		Strict:    BoolPtr(false),
		NoColor:   BoolPtr(true),
	}

	got := base.Merge(override)

	assert.Equal(t, map[string]any{"a": 1, "b": 20, "c": 30}, got.Variables)
	assert.Equal(t, "BASE_", got.EnvPrefix)
	assert.Equal(t, "<%", got.StartTag)
	assert.Equal(t, "%>", got.EndTag)
	assert.False(t, got.GetStrict())
	assert.True(t, got.GetNoColor())

	assert.Equal(t, 2, base.Variables["b"], "merge must not mutate the receiver")
	assert.Same(t, base, base.Merge(nil))
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	for _, name := range []string{"saved.yaml", "saved.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			cfg := DefaultConfig()
			cfg.EnvPrefix = "APP_"
			cfg.Strict = BoolPtr(true)
			cfg.Variables = map[string]any{"service": "billing"}

			require.NoError(t, cfg.SaveConfig(path))

			loaded, err := LoadConfig(path)
			require.NoError(t, err)
			assert.Equal(t, "APP_", loaded.EnvPrefix)
			assert.True(t, loaded.GetStrict())
			assert.Equal(t, "billing", loaded.Variables["service"])
		})
	}
}
