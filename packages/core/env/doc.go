// Package env handles variable sources and placeholder resolution for msgmap.
//
// It provides functionality for:
//   - Loading .env files and prefixed OS environment variables
//   - Seeding a message map without clobbering its reserved keys
//   - Variable interpolation using {{variable}} syntax
//   - Built-in function evaluation (uuid, timestampMs, random, etc.)
//   - Dotted lookups into JSON text or nested maps stored in the message map
package env
