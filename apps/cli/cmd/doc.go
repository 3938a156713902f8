// Package cmd implements the msgmap CLI commands using Cobra.
//
// Available commands:
//   - render: Expand templates against a freshly seeded message map
//   - keys: Show the reserved keys and their values
//   - funcs: List the built-in template functions
//   - init: Create a starter config and template
//   - completion: Generate shell completion scripts
//   - version: Show msgmap version information
//
// Variables are layered from the config file, a .env file, prefixed
// environment variables and --var flags. render supports a watch mode that
// re-renders on template changes.
package cmd
