// Package messagemap provides a string-keyed map that is pre-seeded with
// identity and time values for template expansion contexts.
//
// Reserved keys:
//   - uuid: random UUID generated once at construction
//   - dynamic_uuid: random UUID regenerated every time it is read
//   - current_ts: millisecond timestamp regenerated every time it is read
//   - initial_ts: millisecond timestamp generated once at construction
//   - timestamp: alias that always reads the value stored under initial_ts
//
// Every other key behaves like an ordinary map entry. Live keys are refreshed
// on the read path only: a Put of dynamic_uuid is kept in the backing store
// but the next Get replaces it.
package messagemap
