// Package config handles configuration loading and management for msgmap.
//
// It provides functionality for:
//   - Loading configuration from .msgmap.yaml, .msgmap.yml, msgmap.yaml or .msgmap.json
//   - Default configuration values and merging of flag overrides
//   - Schema validation of config files
package config
