package config

const (
	DefaultStartTag = "{{"
	DefaultEndTag   = "}}"
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		StartTag: DefaultStartTag,
		EndTag:   DefaultEndTag,
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return len(c.Variables) == 0 &&
		c.EnvFile == defaults.EnvFile &&
		c.EnvPrefix == defaults.EnvPrefix &&
		c.StartTag == defaults.StartTag &&
		c.EndTag == defaults.EndTag &&
		c.GetStrict() == defaults.GetStrict() &&
		c.GetNoColor() == defaults.GetNoColor() &&
		c.GetVerbose() == defaults.GetVerbose()
}
